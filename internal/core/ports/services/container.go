package services

// ServiceContainer bundles every service facade for handler registration.
type ServiceContainer struct {
	Tenant       TenantSvcFacade
	Setting      SettingSvcFacade
	Account      AccountSvcFacade
	Journal      JournalSvcFacade
	Posting      PostingSvcFacade
	Period       PeriodSvcFacade
	FinanceHooks FinanceHookSvcFacade
}

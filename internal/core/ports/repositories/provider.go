package repositories

// RepositoryProvider bundles every repository implementation for service
// container construction.
type RepositoryProvider struct {
	TxManager       TxManager
	AccountRepo     AccountRepositoryFacade
	JournalRepo     JournalRepositoryFacade
	CashTxnRepo     CashTransactionRepositoryFacade
	PeriodRepo      PeriodRepositoryFacade
	SettingRepo     SettingRepositoryFacade
	TenantRepo      TenantRepositoryFacade
	OperationalRepo OperationalRepositoryFacade
}

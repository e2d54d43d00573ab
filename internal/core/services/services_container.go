package services

import (
	portsrepo "github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/core/ports/repositories"
	portssvc "github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies.
func NewServiceContainer(repos *portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Settings first; tenant registration and the period gate depend on them.
	container.Setting = NewSettingService(repos.TxManager, repos.SettingRepo)
	container.Tenant = NewTenantService(repos.TxManager, repos.TenantRepo, container.Setting)
	container.Account = NewAccountService(repos.TxManager, repos.AccountRepo)

	container.Period = NewPeriodService(
		repos.TxManager,
		repos.PeriodRepo,
		repos.JournalRepo,
		repos.OperationalRepo,
		container.Setting,
	)
	container.Journal = NewJournalService(
		repos.TxManager,
		repos.JournalRepo,
		repos.AccountRepo,
		container.Period,
	)
	container.Posting = NewPostingService(
		repos.JournalRepo,
		repos.CashTxnRepo,
		container.Account,
		container.Period,
		container.Setting,
	)
	container.FinanceHooks = NewFinanceHookService(
		repos.TxManager,
		repos.OperationalRepo,
		container.Posting,
		container.Setting,
		container.Tenant,
	)

	return container
}

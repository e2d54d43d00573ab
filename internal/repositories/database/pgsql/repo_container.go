package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every repository implementation over one pool.
func NewRepositoryProvider(pool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	base := &BaseRepository{Pool: pool}
	return &portsrepo.RepositoryProvider{
		TxManager:       base,
		AccountRepo:     NewAccountRepository(pool),
		JournalRepo:     NewJournalRepository(pool),
		CashTxnRepo:     NewCashTransactionRepository(pool),
		PeriodRepo:      NewPeriodRepository(pool),
		SettingRepo:     NewSettingRepository(pool),
		TenantRepo:      NewTenantRepository(pool),
		OperationalRepo: NewOperationalRepository(pool),
	}
}

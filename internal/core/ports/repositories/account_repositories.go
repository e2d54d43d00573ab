package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/core/domain"
)

// AccountRepositoryFacade persists the chart of accounts. All methods run
// on the caller's transaction; there is no out-of-transaction access path.
type AccountRepositoryFacade interface {
	FindAccountByCode(ctx context.Context, tx pgx.Tx, tenantID, code string) (*domain.Account, error)
	CreateAccount(ctx context.Context, tx pgx.Tx, account domain.Account) error
	ListAccounts(ctx context.Context, tx pgx.Tx, tenantID string) ([]domain.Account, error)
}

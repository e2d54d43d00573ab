package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TxManager opens tenant-bound database transactions. Binding the tenant
// session variable is the first statement of every transaction so the
// row-level policies apply to everything that follows.
type TxManager interface {
	// WithTenantTx runs fn inside a transaction whose app.current_tenant
	// session variable is set to tenantID. Commit on nil, rollback otherwise.
	WithTenantTx(ctx context.Context, tenantID string, fn func(tx pgx.Tx) error) error
}

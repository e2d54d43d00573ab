package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/apperrors"
	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/core/domain"
	portsrepo "github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/core/ports/repositories"
)

// PgxTenantRepository persists tenant rows. The tenants table is the
// registry itself and carries no row-level policy.
type PgxTenantRepository struct {
	BaseRepository
}

// NewTenantRepository creates a new repository for tenant data.
func NewTenantRepository(pool *pgxpool.Pool) *PgxTenantRepository {
	return &PgxTenantRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TenantRepositoryFacade = (*PgxTenantRepository)(nil)

const tenantColumns = `tenant_id, name, slug, plan_label, status, plan_limits, created_at, created_by, last_updated_at, last_updated_by`

func scanTenant(row pgx.Row) (*domain.Tenant, error) {
	var t domain.Tenant
	err := row.Scan(
		&t.TenantID,
		&t.Name,
		&t.Slug,
		&t.PlanLabel,
		&t.Status,
		&t.PlanLimits,
		&t.CreatedAt,
		&t.CreatedBy,
		&t.LastUpdatedAt,
		&t.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTenant inserts a new tenant row. Returns apperrors.ErrDuplicate
// when the slug is taken.
func (r *PgxTenantRepository) CreateTenant(ctx context.Context, tx pgx.Tx, tenant domain.Tenant) error {
	query := `
		INSERT INTO tenants (` + tenantColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := tx.Exec(ctx, query,
		tenant.TenantID,
		tenant.Name,
		tenant.Slug,
		tenant.PlanLabel,
		tenant.Status,
		tenant.PlanLimits,
		tenant.CreatedAt,
		tenant.CreatedBy,
		tenant.LastUpdatedAt,
		tenant.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert tenant "+tenant.Slug, err)
	}
	return nil
}

// FindTenantByID retrieves a tenant by its ID.
func (r *PgxTenantRepository) FindTenantByID(ctx context.Context, tx pgx.Tx, tenantID string) (*domain.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE tenant_id = $1;`
	tenant, err := scanTenant(tx.QueryRow(ctx, query, tenantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find tenant by ID "+tenantID, err)
	}
	return tenant, nil
}

// FindTenantBySlug retrieves a tenant by its slug.
func (r *PgxTenantRepository) FindTenantBySlug(ctx context.Context, tx pgx.Tx, slug string) (*domain.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE slug = $1;`
	tenant, err := scanTenant(tx.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find tenant by slug "+slug, err)
	}
	return tenant, nil
}

package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/core/domain"
)

// SettingRepositoryFacade persists per-tenant typed settings.
type SettingRepositoryFacade interface {
	ListSettings(ctx context.Context, tx pgx.Tx, tenantID string) ([]domain.TenantSetting, error)
	FindSettingByKey(ctx context.Context, tx pgx.Tx, tenantID, key string) (*domain.TenantSetting, error)
	UpsertSetting(ctx context.Context, tx pgx.Tx, setting domain.TenantSetting) error
	// SeedSettings inserts the default set for a new tenant in one batch.
	SeedSettings(ctx context.Context, tx pgx.Tx, settings []domain.TenantSetting) error
}

// TenantRepositoryFacade persists tenant rows.
type TenantRepositoryFacade interface {
	CreateTenant(ctx context.Context, tx pgx.Tx, tenant domain.Tenant) error
	FindTenantByID(ctx context.Context, tx pgx.Tx, tenantID string) (*domain.Tenant, error)
	FindTenantBySlug(ctx context.Context, tx pgx.Tx, slug string) (*domain.Tenant, error)
}

package services

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/core/domain"
)

// SettingSvcFacade exposes typed tenant settings.
type SettingSvcFacade interface {
	ListSettings(ctx context.Context, tenantID string) ([]domain.TenantSetting, error)
	UpdateSetting(ctx context.Context, tenantID, key, value, userID string) (*domain.TenantSetting, error)
	// Load returns a request-scoped snapshot with typed accessors.
	Load(ctx context.Context, tenantID string) (domain.SettingsBag, error)
	// LoadTx is Load inside an existing transaction; the caller adapters use
	// it so toggle reads share the business event's transaction.
	LoadTx(ctx context.Context, tx pgx.Tx, tenantID string) (domain.SettingsBag, error)
	// SeedDefaults inserts the default setting set for a fresh tenant.
	SeedDefaults(ctx context.Context, tx pgx.Tx, tenantID, userID string) error
}

// TenantSvcFacade manages tenant registration and lookup.
type TenantSvcFacade interface {
	CreateTenant(ctx context.Context, name, slug, planLabel, userID string) (*domain.Tenant, error)
	GetTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error)
	// EnsureWritable rejects callers whose tenant is suspended or cancelled.
	EnsureWritable(ctx context.Context, tenantID string) error
}

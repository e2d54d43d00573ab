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

// PgxSettingRepository persists per-tenant settings.
type PgxSettingRepository struct {
	BaseRepository
}

// NewSettingRepository creates a new repository for tenant setting data.
func NewSettingRepository(pool *pgxpool.Pool) *PgxSettingRepository {
	return &PgxSettingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.SettingRepositoryFacade = (*PgxSettingRepository)(nil)

const settingColumns = `setting_id, tenant_id, setting_key, setting_value, setting_type, created_at, created_by, last_updated_at, last_updated_by`

func scanSetting(row pgx.Row) (*domain.TenantSetting, error) {
	var s domain.TenantSetting
	err := row.Scan(
		&s.SettingID,
		&s.TenantID,
		&s.SettingKey,
		&s.Value,
		&s.SettingType,
		&s.CreatedAt,
		&s.CreatedBy,
		&s.LastUpdatedAt,
		&s.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListSettings returns every setting of the tenant ordered by key.
func (r *PgxSettingRepository) ListSettings(ctx context.Context, tx pgx.Tx, tenantID string) ([]domain.TenantSetting, error) {
	query := `SELECT ` + settingColumns + ` FROM tenant_settings WHERE tenant_id = $1 ORDER BY setting_key;`
	rows, err := tx.Query(ctx, query, tenantID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query settings", err)
	}
	defer rows.Close()

	settings := []domain.TenantSetting{}
	for rows.Next() {
		setting, err := scanSetting(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan setting row", err)
		}
		settings = append(settings, *setting)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating setting rows", err)
	}
	return settings, nil
}

// FindSettingByKey retrieves one setting by its key.
func (r *PgxSettingRepository) FindSettingByKey(ctx context.Context, tx pgx.Tx, tenantID, key string) (*domain.TenantSetting, error) {
	query := `SELECT ` + settingColumns + ` FROM tenant_settings WHERE tenant_id = $1 AND setting_key = $2;`
	setting, err := scanSetting(tx.QueryRow(ctx, query, tenantID, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find setting "+key, err)
	}
	return setting, nil
}

// UpsertSetting inserts or updates one setting keyed on (tenant_id, setting_key).
func (r *PgxSettingRepository) UpsertSetting(ctx context.Context, tx pgx.Tx, setting domain.TenantSetting) error {
	query := `
		INSERT INTO tenant_settings (` + settingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (tenant_id, setting_key) DO UPDATE
		SET setting_value = EXCLUDED.setting_value,
		    setting_type = EXCLUDED.setting_type,
		    last_updated_at = EXCLUDED.last_updated_at,
		    last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := tx.Exec(ctx, query,
		setting.SettingID,
		setting.TenantID,
		setting.SettingKey,
		setting.Value,
		setting.SettingType,
		setting.CreatedAt,
		setting.CreatedBy,
		setting.LastUpdatedAt,
		setting.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to upsert setting "+setting.SettingKey, err)
	}
	return nil
}

// SeedSettings inserts the default settings of a new tenant in one batch.
// Existing keys are left untouched so seeding is idempotent.
func (r *PgxSettingRepository) SeedSettings(ctx context.Context, tx pgx.Tx, settings []domain.TenantSetting) error {
	batch := &pgx.Batch{}
	query := `
		INSERT INTO tenant_settings (` + settingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (tenant_id, setting_key) DO NOTHING;
	`
	for _, s := range settings {
		batch.Queue(query,
			s.SettingID,
			s.TenantID,
			s.SettingKey,
			s.Value,
			s.SettingType,
			s.CreatedAt,
			s.CreatedBy,
			s.LastUpdatedAt,
			s.LastUpdatedBy,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to seed default settings", err)
	}
	return nil
}

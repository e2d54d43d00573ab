package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/apperrors"
	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/core/domain"
	portsrepo "github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/core/ports/repositories"
	portssvc "github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/core/ports/services"
	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/middleware"
)

// SettingService exposes typed per-tenant settings.
type SettingService struct {
	txManager   portsrepo.TxManager
	settingRepo portsrepo.SettingRepositoryFacade
}

// NewSettingService creates a new SettingService.
func NewSettingService(txManager portsrepo.TxManager, settingRepo portsrepo.SettingRepositoryFacade) portssvc.SettingSvcFacade {
	return &SettingService{
		txManager:   txManager,
		settingRepo: settingRepo,
	}
}

var _ portssvc.SettingSvcFacade = (*SettingService)(nil)

// ListSettings returns every setting of the tenant.
func (s *SettingService) ListSettings(ctx context.Context, tenantID string) ([]domain.TenantSetting, error) {
	var settings []domain.TenantSetting
	err := s.txManager.WithTenantTx(ctx, tenantID, func(tx pgx.Tx) error {
		var err error
		settings, err = s.settingRepo.ListSettings(ctx, tx, tenantID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	return settings, nil
}

// UpdateSetting rewrites the value of an existing setting. The stored type
// is authoritative and the new value must coerce to it.
func (s *SettingService) UpdateSetting(ctx context.Context, tenantID, key, value, userID string) (*domain.TenantSetting, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var updated *domain.TenantSetting
	err := s.txManager.WithTenantTx(ctx, tenantID, func(tx pgx.Tx) error {
		existing, err := s.settingRepo.FindSettingByKey(ctx, tx, tenantID, key)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("%w: unknown setting key %s", apperrors.ErrNotFound, key)
			}
			return err
		}

		if err := validateSettingValue(existing.SettingType, value); err != nil {
			return err
		}

		now := time.Now()
		existing.Value = value
		existing.LastUpdatedAt = now
		existing.LastUpdatedBy = userID
		if err := s.settingRepo.UpsertSetting(ctx, tx, *existing); err != nil {
			return err
		}
		updated = existing
		return nil
	})
	if err != nil {
		logger.Warn("Failed to update setting", slog.String("error", err.Error()), slog.String("key", key))
		return nil, err
	}

	logger.Info("Setting updated", slog.String("key", key), slog.String("value", value))
	return updated, nil
}

// Load returns a request-scoped snapshot with typed accessors.
func (s *SettingService) Load(ctx context.Context, tenantID string) (domain.SettingsBag, error) {
	var bag domain.SettingsBag
	err := s.txManager.WithTenantTx(ctx, tenantID, func(tx pgx.Tx) error {
		var err error
		bag, err = s.LoadTx(ctx, tx, tenantID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return bag, nil
}

// LoadTx is Load inside an existing transaction.
func (s *SettingService) LoadTx(ctx context.Context, tx pgx.Tx, tenantID string) (domain.SettingsBag, error) {
	settings, err := s.settingRepo.ListSettings(ctx, tx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings snapshot: %w", err)
	}
	bag := make(domain.SettingsBag, len(settings))
	for _, setting := range settings {
		bag[setting.SettingKey] = setting
	}
	return bag, nil
}

// SeedDefaults inserts the default setting set for a fresh tenant.
func (s *SettingService) SeedDefaults(ctx context.Context, tx pgx.Tx, tenantID, userID string) error {
	now := time.Now()
	defaults := domain.DefaultSettings()
	for i := range defaults {
		defaults[i].SettingID = uuid.NewString()
		defaults[i].TenantID = tenantID
		defaults[i].AuditFields = domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		}
	}
	if err := s.settingRepo.SeedSettings(ctx, tx, defaults); err != nil {
		return fmt.Errorf("failed to seed default settings: %w", err)
	}
	return nil
}

// validateSettingValue checks that value coerces to the stored type.
func validateSettingValue(settingType domain.SettingType, value string) error {
	switch settingType {
	case domain.SettingBoolean:
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "true", "false", "1", "0", "yes", "no":
			return nil
		}
		return fmt.Errorf("%w: %q is not a boolean value", apperrors.ErrValidation, value)
	case domain.SettingNumber:
		if _, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err != nil {
			return fmt.Errorf("%w: %q is not a number", apperrors.ErrValidation, value)
		}
		return nil
	case domain.SettingJSON:
		if !json.Valid([]byte(value)) {
			return fmt.Errorf("%w: value is not valid JSON", apperrors.ErrValidation)
		}
		return nil
	default:
		return nil
	}
}

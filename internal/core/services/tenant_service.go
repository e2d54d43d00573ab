package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/apperrors"
	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/core/domain"
	portsrepo "github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/core/ports/repositories"
	portssvc "github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/core/ports/services"
	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/middleware"
)

// TenantService manages tenant registration and lookup.
type TenantService struct {
	txManager  portsrepo.TxManager
	tenantRepo portsrepo.TenantRepositoryFacade
	settingSvc portssvc.SettingSvcFacade
}

// NewTenantService creates a new TenantService.
func NewTenantService(txManager portsrepo.TxManager, tenantRepo portsrepo.TenantRepositoryFacade, settingSvc portssvc.SettingSvcFacade) portssvc.TenantSvcFacade {
	return &TenantService{
		txManager:  txManager,
		tenantRepo: tenantRepo,
		settingSvc: settingSvc,
	}
}

var _ portssvc.TenantSvcFacade = (*TenantService)(nil)

// CreateTenant registers a new tenant and seeds its default settings in the
// same transaction, so a tenant never exists without its toggles.
func (s *TenantService) CreateTenant(ctx context.Context, name, slug, planLabel, userID string) (*domain.Tenant, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if name == "" || slug == "" {
		return nil, fmt.Errorf("%w: tenant name and slug are required", apperrors.ErrValidation)
	}
	if planLabel == "" {
		planLabel = "standard"
	}

	now := time.Now()
	tenant := domain.Tenant{
		TenantID:   uuid.NewString(),
		Name:       name,
		Slug:       slug,
		PlanLabel:  planLabel,
		Status:     domain.TenantTrial,
		PlanLimits: json.RawMessage(`{}`),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	err := s.txManager.WithTenantTx(ctx, tenant.TenantID, func(tx pgx.Tx) error {
		if err := s.tenantRepo.CreateTenant(ctx, tx, tenant); err != nil {
			if errors.Is(err, apperrors.ErrDuplicate) {
				return fmt.Errorf("%w: slug %s is taken", apperrors.ErrDuplicate, slug)
			}
			return err
		}
		return s.settingSvc.SeedDefaults(ctx, tx, tenant.TenantID, userID)
	})
	if err != nil {
		logger.Error("Failed to create tenant", slog.String("error", err.Error()), slog.String("slug", slug))
		return nil, err
	}

	logger.Info("Tenant created", slog.String("tenant_id", tenant.TenantID), slog.String("slug", slug))
	return &tenant, nil
}

// GetTenantByID retrieves a tenant by its ID.
func (s *TenantService) GetTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	var tenant *domain.Tenant
	err := s.txManager.WithTenantTx(ctx, tenantID, func(tx pgx.Tx) error {
		var err error
		tenant, err = s.tenantRepo.FindTenantByID(ctx, tx, tenantID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tenant, nil
}

// EnsureWritable rejects callers whose tenant is suspended or cancelled.
func (s *TenantService) EnsureWritable(ctx context.Context, tenantID string) error {
	tenant, err := s.GetTenantByID(ctx, tenantID)
	if err != nil {
		return err
	}
	if !tenant.CanWrite() {
		return fmt.Errorf("%w: tenant %s is %s", apperrors.ErrForbidden, tenant.Slug, tenant.Status)
	}
	return nil
}

package services

import (
	"context"
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

// AccountService manages the chart of accounts. Accounts are created
// lazily on first use and never deleted.
type AccountService struct {
	txManager   portsrepo.TxManager
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new AccountService.
func NewAccountService(txManager portsrepo.TxManager, accountRepo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &AccountService{
		txManager:   txManager,
		accountRepo: accountRepo,
	}
}

var _ portssvc.AccountSvcFacade = (*AccountService)(nil)

// EnsureAccount returns the (tenant, code) account, creating it inside the
// caller's transaction when absent. A concurrent creation losing the unique
// constraint race falls back to re-reading the winner's row.
func (s *AccountService) EnsureAccount(ctx context.Context, tx pgx.Tx, tenantID, code, name string, accountType domain.AccountType, userID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByCode(ctx, tx, tenantID, code)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up account %s: %w", code, err)
	}

	now := time.Now()
	newAccount := domain.Account{
		AccountID:   uuid.NewString(),
		TenantID:    tenantID,
		Code:        code,
		Name:        name,
		AccountType: accountType,
		IsActive:    true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.accountRepo.CreateAccount(ctx, tx, newAccount); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// Lost the race; the winner's row is authoritative.
			return s.accountRepo.FindAccountByCode(ctx, tx, tenantID, code)
		}
		logger.Error("Failed to create account", slog.String("error", err.Error()), slog.String("code", code))
		return nil, fmt.Errorf("failed to create account %s: %w", code, err)
	}

	logger.Info("Account created", slog.String("account_id", newAccount.AccountID), slog.String("code", code))
	return &newAccount, nil
}

// ListAccounts returns the tenant's chart of accounts.
func (s *AccountService) ListAccounts(ctx context.Context, tenantID string) ([]domain.Account, error) {
	var accounts []domain.Account
	err := s.txManager.WithTenantTx(ctx, tenantID, func(tx pgx.Tx) error {
		var err error
		accounts, err = s.accountRepo.ListAccounts(ctx, tx, tenantID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

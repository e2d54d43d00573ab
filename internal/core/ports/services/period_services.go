package services

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/core/domain"
	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/dto"
)

// PeriodSvcFacade manages the accounting period lifecycle, checklist and
// audit trail, and gates postings by date.
type PeriodSvcFacade interface {
	CreatePeriod(ctx context.Context, tenantID string, req dto.CreatePeriodRequest, userID string) (*domain.AccountingPeriod, error)
	GetPeriod(ctx context.Context, tenantID, periodID string) (*domain.AccountingPeriod, error)
	ListPeriods(ctx context.Context, tenantID string) ([]domain.AccountingPeriod, error)
	// BeginClose moves OPEN -> CLOSING and evaluates the automated
	// checklist items; the returned checklist reflects that evaluation.
	BeginClose(ctx context.Context, tenantID, periodID, userID string) (*domain.AccountingPeriod, []domain.ChecklistItem, error)
	// FinalizeClose moves CLOSING -> CLOSED after re-evaluating automated
	// checks; blocked while any item is incomplete. Snapshots closing totals
	// and retained earnings.
	FinalizeClose(ctx context.Context, tenantID, periodID, userID string) (*domain.AccountingPeriod, error)
	// ReopenPeriod moves CLOSING -> OPEN, or CLOSED -> OPEN when a reason is
	// given. Reopening clears the closing snapshot.
	ReopenPeriod(ctx context.Context, tenantID, periodID, reason, userID string) (*domain.AccountingPeriod, error)
	GetChecklist(ctx context.Context, tenantID, periodID string) ([]domain.ChecklistItem, error)
	MarkChecklistItem(ctx context.Context, tenantID, periodID, checkKey string, req dto.MarkChecklistRequest, userID string) (*domain.ChecklistItem, error)
	GetAuditLog(ctx context.Context, tenantID, periodID string) ([]domain.PeriodAuditEntry, error)
	// EnsurePostable returns nil when a journal dated `date` may be written:
	// the most specific covering period is OPEN or CLOSING, or no period
	// covers the date and the tenant policy allows free posting. Returns
	// apperrors.ErrPeriodClosed otherwise.
	EnsurePostable(ctx context.Context, tx pgx.Tx, tenantID string, date time.Time) error
}

package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/core/domain"
)

// PeriodRepositoryFacade persists accounting periods, their close
// checklist and their append-only audit log.
type PeriodRepositoryFacade interface {
	CreatePeriod(ctx context.Context, tx pgx.Tx, period domain.AccountingPeriod) error
	FindPeriodByID(ctx context.Context, tx pgx.Tx, tenantID, periodID string) (*domain.AccountingPeriod, error)
	// FindPeriodByIDForUpdate locks the period row; finalize and reopen
	// serialize on this lock.
	FindPeriodByIDForUpdate(ctx context.Context, tx pgx.Tx, tenantID, periodID string) (*domain.AccountingPeriod, error)
	// FindPeriodsCovering returns every period whose range contains date,
	// regardless of type or status.
	FindPeriodsCovering(ctx context.Context, tx pgx.Tx, tenantID string, date time.Time) ([]domain.AccountingPeriod, error)
	ListPeriods(ctx context.Context, tx pgx.Tx, tenantID string) ([]domain.AccountingPeriod, error)
	UpdatePeriod(ctx context.Context, tx pgx.Tx, period domain.AccountingPeriod) error
	CountClosingByType(ctx context.Context, tx pgx.Tx, tenantID string, periodType domain.PeriodType) (int, error)

	SaveChecklistItems(ctx context.Context, tx pgx.Tx, items []domain.ChecklistItem) error
	ListChecklist(ctx context.Context, tx pgx.Tx, tenantID, periodID string) ([]domain.ChecklistItem, error)
	UpdateChecklistItem(ctx context.Context, tx pgx.Tx, item domain.ChecklistItem) error

	AppendAuditEntry(ctx context.Context, tx pgx.Tx, entry domain.PeriodAuditEntry) error
	ListAuditEntries(ctx context.Context, tx pgx.Tx, tenantID, periodID string) ([]domain.PeriodAuditEntry, error)
}

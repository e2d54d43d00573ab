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
	"github.com/shopspring/decimal"

	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/apperrors"
	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/core/domain"
	portsrepo "github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/core/ports/repositories"
	portssvc "github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/core/ports/services"
	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/dto"
	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/middleware"
)

// PeriodService manages the accounting period lifecycle, its close
// checklist and audit trail, and gates postings by date.
type PeriodService struct {
	txManager       portsrepo.TxManager
	periodRepo      portsrepo.PeriodRepositoryFacade
	journalRepo     portsrepo.JournalRepositoryFacade
	operationalRepo portsrepo.OperationalRepositoryFacade
	settingSvc      portssvc.SettingSvcFacade
}

// NewPeriodService creates a new PeriodService.
func NewPeriodService(txManager portsrepo.TxManager, periodRepo portsrepo.PeriodRepositoryFacade, journalRepo portsrepo.JournalRepositoryFacade, operationalRepo portsrepo.OperationalRepositoryFacade, settingSvc portssvc.SettingSvcFacade) portssvc.PeriodSvcFacade {
	return &PeriodService{
		txManager:       txManager,
		periodRepo:      periodRepo,
		journalRepo:     journalRepo,
		operationalRepo: operationalRepo,
		settingSvc:      settingSvc,
	}
}

var _ portssvc.PeriodSvcFacade = (*PeriodService)(nil)

// CreatePeriod opens a new period and seeds its close checklist. The
// overlap exclusion constraint rejects a range colliding with an existing
// period of the same type.
func (s *PeriodService) CreatePeriod(ctx context.Context, tenantID string, req dto.CreatePeriodRequest, userID string) (*domain.AccountingPeriod, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.EndDate.Before(req.StartDate) {
		return nil, fmt.Errorf("%w: period end date precedes start date", apperrors.ErrValidation)
	}

	now := time.Now()
	period := &domain.AccountingPeriod{
		PeriodID:                uuid.NewString(),
		TenantID:                tenantID,
		Name:                    req.Name,
		PeriodType:              req.PeriodType,
		StartDate:               req.StartDate,
		EndDate:                 req.EndDate,
		Status:                  domain.PeriodOpen,
		ClosingTotalDebit:       decimal.Zero,
		ClosingTotalCredit:      decimal.Zero,
		ClosingRetainedEarnings: decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	err := s.txManager.WithTenantTx(ctx, tenantID, func(tx pgx.Tx) error {
		if err := s.periodRepo.CreatePeriod(ctx, tx, *period); err != nil {
			if errors.Is(err, apperrors.ErrDuplicate) {
				return fmt.Errorf("%w: period range overlaps an existing %s period", apperrors.ErrValidation, req.PeriodType)
			}
			return err
		}

		checklist := domain.DefaultChecklist()
		for i := range checklist {
			checklist[i].ItemID = uuid.NewString()
			checklist[i].TenantID = tenantID
			checklist[i].PeriodID = period.PeriodID
		}
		if err := s.periodRepo.SaveChecklistItems(ctx, tx, checklist); err != nil {
			return err
		}

		return s.periodRepo.AppendAuditEntry(ctx, tx, domain.PeriodAuditEntry{
			EntryID:     uuid.NewString(),
			TenantID:    tenantID,
			PeriodID:    period.PeriodID,
			Action:      domain.PeriodAuditCreate,
			PerformedBy: userID,
			PerformedAt: now,
		})
	})
	if err != nil {
		logger.Warn("Failed to create period", slog.String("error", err.Error()), slog.String("name", req.Name))
		return nil, err
	}

	logger.Info("Period created", slog.String("period_id", period.PeriodID), slog.String("name", period.Name))
	return period, nil
}

// GetPeriod retrieves a period by its ID.
func (s *PeriodService) GetPeriod(ctx context.Context, tenantID, periodID string) (*domain.AccountingPeriod, error) {
	var period *domain.AccountingPeriod
	err := s.txManager.WithTenantTx(ctx, tenantID, func(tx pgx.Tx) error {
		var err error
		period, err = s.periodRepo.FindPeriodByID(ctx, tx, tenantID, periodID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return period, nil
}

// ListPeriods returns every period of the tenant.
func (s *PeriodService) ListPeriods(ctx context.Context, tenantID string) ([]domain.AccountingPeriod, error) {
	var periods []domain.AccountingPeriod
	err := s.txManager.WithTenantTx(ctx, tenantID, func(tx pgx.Tx) error {
		var err error
		periods, err = s.periodRepo.ListPeriods(ctx, tx, tenantID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return periods, nil
}

// BeginClose moves OPEN -> CLOSING and evaluates the automated checklist
// items. At most one period per type may be CLOSING.
func (s *PeriodService) BeginClose(ctx context.Context, tenantID, periodID, userID string) (*domain.AccountingPeriod, []domain.ChecklistItem, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var period *domain.AccountingPeriod
	var checklist []domain.ChecklistItem
	err := s.txManager.WithTenantTx(ctx, tenantID, func(tx pgx.Tx) error {
		var err error
		period, err = s.periodRepo.FindPeriodByIDForUpdate(ctx, tx, tenantID, periodID)
		if err != nil {
			return err
		}
		if period.Status != domain.PeriodOpen {
			return fmt.Errorf("%w: cannot begin close of a %s period", apperrors.ErrIllegalTransition, period.Status)
		}

		closing, err := s.periodRepo.CountClosingByType(ctx, tx, tenantID, period.PeriodType)
		if err != nil {
			return err
		}
		if closing > 0 {
			return fmt.Errorf("%w: another %s period is already closing", apperrors.ErrIllegalTransition, period.PeriodType)
		}

		now := time.Now()
		period.Status = domain.PeriodClosing
		period.LastUpdatedAt = now
		period.LastUpdatedBy = userID
		if err := s.periodRepo.UpdatePeriod(ctx, tx, *period); err != nil {
			return err
		}

		checklist, err = s.evaluateAutomatedChecks(ctx, tx, period, userID)
		return err
	})
	if err != nil {
		logger.Warn("Failed to begin period close", slog.String("error", err.Error()), slog.String("period_id", periodID))
		return nil, nil, err
	}

	logger.Info("Period close started", slog.String("period_id", periodID), slog.String("name", period.Name))
	return period, checklist, nil
}

// FinalizeClose moves CLOSING -> CLOSED after re-evaluating automated
// checks. Blocked while any checklist item is incomplete. Snapshots the
// closing totals and retained earnings.
func (s *PeriodService) FinalizeClose(ctx context.Context, tenantID, periodID, userID string) (*domain.AccountingPeriod, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var period *domain.AccountingPeriod
	err := s.txManager.WithTenantTx(ctx, tenantID, func(tx pgx.Tx) error {
		var err error
		period, err = s.periodRepo.FindPeriodByIDForUpdate(ctx, tx, tenantID, periodID)
		if err != nil {
			return err
		}
		if period.Status != domain.PeriodClosing {
			return fmt.Errorf("%w: cannot finalize a %s period", apperrors.ErrIllegalTransition, period.Status)
		}

		checklist, err := s.evaluateAutomatedChecks(ctx, tx, period, userID)
		if err != nil {
			return err
		}
		for _, item := range checklist {
			if !item.IsCompleted {
				return fmt.Errorf("%w: checklist item %s is not completed", apperrors.ErrIllegalTransition, item.CheckKey)
			}
		}

		debit, credit, err := s.journalRepo.SumPostedDebitsCredits(ctx, tx, tenantID, period.StartDate, period.EndDate)
		if err != nil {
			return err
		}
		retained, err := s.journalRepo.SumRetainedEarnings(ctx, tx, tenantID, period.StartDate, period.EndDate)
		if err != nil {
			return err
		}

		now := time.Now()
		period.Status = domain.PeriodClosed
		period.ClosedAt = &now
		period.ClosedBy = userID
		period.ClosingTotalDebit = debit
		period.ClosingTotalCredit = credit
		period.ClosingRetainedEarnings = retained
		period.LastUpdatedAt = now
		period.LastUpdatedBy = userID
		if err := s.periodRepo.UpdatePeriod(ctx, tx, *period); err != nil {
			return err
		}

		extra, _ := json.Marshal(map[string]string{
			"closingTotalDebit":       debit.String(),
			"closingTotalCredit":      credit.String(),
			"closingRetainedEarnings": retained.String(),
		})
		return s.periodRepo.AppendAuditEntry(ctx, tx, domain.PeriodAuditEntry{
			EntryID:     uuid.NewString(),
			TenantID:    tenantID,
			PeriodID:    periodID,
			Action:      domain.PeriodAuditClose,
			PerformedBy: userID,
			PerformedAt: now,
			Extra:       extra,
		})
	})
	if err != nil {
		logger.Warn("Failed to finalize period close", slog.String("error", err.Error()), slog.String("period_id", periodID))
		return nil, err
	}

	logger.Info("Period closed", slog.String("period_id", periodID), slog.String("name", period.Name))
	return period, nil
}

// ReopenPeriod moves CLOSING -> OPEN, or CLOSED -> OPEN when a reason is
// given. Reopening clears the closing snapshot.
func (s *PeriodService) ReopenPeriod(ctx context.Context, tenantID, periodID, reason, userID string) (*domain.AccountingPeriod, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var period *domain.AccountingPeriod
	err := s.txManager.WithTenantTx(ctx, tenantID, func(tx pgx.Tx) error {
		var err error
		period, err = s.periodRepo.FindPeriodByIDForUpdate(ctx, tx, tenantID, periodID)
		if err != nil {
			return err
		}
		switch period.Status {
		case domain.PeriodClosing:
			// Correcting checklist or data before finalize; no reason needed.
		case domain.PeriodClosed:
			if reason == "" {
				return fmt.Errorf("%w: reopening a closed period requires a reason", apperrors.ErrValidation)
			}
		default:
			return fmt.Errorf("%w: cannot reopen an %s period", apperrors.ErrIllegalTransition, period.Status)
		}

		now := time.Now()
		period.Status = domain.PeriodOpen
		period.ClosedAt = nil
		period.ClosedBy = ""
		period.ClosingTotalDebit = decimal.Zero
		period.ClosingTotalCredit = decimal.Zero
		period.ClosingRetainedEarnings = decimal.Zero
		period.LastUpdatedAt = now
		period.LastUpdatedBy = userID
		if err := s.periodRepo.UpdatePeriod(ctx, tx, *period); err != nil {
			return err
		}

		return s.periodRepo.AppendAuditEntry(ctx, tx, domain.PeriodAuditEntry{
			EntryID:     uuid.NewString(),
			TenantID:    tenantID,
			PeriodID:    periodID,
			Action:      domain.PeriodAuditReopen,
			PerformedBy: userID,
			PerformedAt: now,
			Reason:      reason,
		})
	})
	if err != nil {
		logger.Warn("Failed to reopen period", slog.String("error", err.Error()), slog.String("period_id", periodID))
		return nil, err
	}

	logger.Info("Period reopened", slog.String("period_id", periodID), slog.String("reason", reason))
	return period, nil
}

// GetChecklist returns the close checklist of a period.
func (s *PeriodService) GetChecklist(ctx context.Context, tenantID, periodID string) ([]domain.ChecklistItem, error) {
	var checklist []domain.ChecklistItem
	err := s.txManager.WithTenantTx(ctx, tenantID, func(tx pgx.Tx) error {
		if _, err := s.periodRepo.FindPeriodByID(ctx, tx, tenantID, periodID); err != nil {
			return err
		}
		var err error
		checklist, err = s.periodRepo.ListChecklist(ctx, tx, tenantID, periodID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return checklist, nil
}

// MarkChecklistItem marks or unmarks a manual checklist item and records
// the before/after state in the audit log. Automated items are owned by
// the system and cannot be marked by hand.
func (s *PeriodService) MarkChecklistItem(ctx context.Context, tenantID, periodID, checkKey string, req dto.MarkChecklistRequest, userID string) (*domain.ChecklistItem, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var updated *domain.ChecklistItem
	err := s.txManager.WithTenantTx(ctx, tenantID, func(tx pgx.Tx) error {
		period, err := s.periodRepo.FindPeriodByID(ctx, tx, tenantID, periodID)
		if err != nil {
			return err
		}
		if period.Status == domain.PeriodClosed {
			return fmt.Errorf("%w: period %s is closed", apperrors.ErrIllegalTransition, period.Name)
		}

		checklist, err := s.periodRepo.ListChecklist(ctx, tx, tenantID, periodID)
		if err != nil {
			return err
		}
		var item *domain.ChecklistItem
		for i := range checklist {
			if checklist[i].CheckKey == checkKey {
				item = &checklist[i]
				break
			}
		}
		if item == nil {
			return fmt.Errorf("%w: unknown checklist item %s", apperrors.ErrNotFound, checkKey)
		}
		if item.IsAutomated {
			return fmt.Errorf("%w: checklist item %s is evaluated automatically", apperrors.ErrValidation, checkKey)
		}

		before := item.IsCompleted
		now := time.Now()
		item.IsCompleted = req.Completed
		item.Notes = req.Notes
		if req.Completed {
			item.CompletedBy = userID
			item.CompletedAt = &now
		} else {
			item.CompletedBy = ""
			item.CompletedAt = nil
		}
		if err := s.periodRepo.UpdateChecklistItem(ctx, tx, *item); err != nil {
			return err
		}

		extra, _ := json.Marshal(map[string]any{
			"checkKey": checkKey,
			"before":   before,
			"after":    req.Completed,
		})
		if err := s.periodRepo.AppendAuditEntry(ctx, tx, domain.PeriodAuditEntry{
			EntryID:     uuid.NewString(),
			TenantID:    tenantID,
			PeriodID:    periodID,
			Action:      domain.PeriodAuditChecklist,
			PerformedBy: userID,
			PerformedAt: now,
			Extra:       extra,
		}); err != nil {
			return err
		}
		updated = item
		return nil
	})
	if err != nil {
		logger.Warn("Failed to mark checklist item", slog.String("error", err.Error()), slog.String("check_key", checkKey))
		return nil, err
	}

	logger.Info("Checklist item marked", slog.String("period_id", periodID), slog.String("check_key", checkKey), slog.Bool("completed", req.Completed))
	return updated, nil
}

// GetAuditLog returns the audit trail of a period.
func (s *PeriodService) GetAuditLog(ctx context.Context, tenantID, periodID string) ([]domain.PeriodAuditEntry, error) {
	var entries []domain.PeriodAuditEntry
	err := s.txManager.WithTenantTx(ctx, tenantID, func(tx pgx.Tx) error {
		if _, err := s.periodRepo.FindPeriodByID(ctx, tx, tenantID, periodID); err != nil {
			return err
		}
		var err error
		entries, err = s.periodRepo.ListAuditEntries(ctx, tx, tenantID, periodID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// EnsurePostable returns nil when a journal dated date may be written.
// The most specific covering period governs; postings into a CLOSING
// period stay allowed so the checklist window matches what gets closed.
func (s *PeriodService) EnsurePostable(ctx context.Context, tx pgx.Tx, tenantID string, date time.Time) error {
	covering, err := s.periodRepo.FindPeriodsCovering(ctx, tx, tenantID, date)
	if err != nil {
		return err
	}
	if len(covering) == 0 {
		bag, err := s.settingSvc.LoadTx(ctx, tx, tenantID)
		if err != nil {
			return err
		}
		if !bag.GetBool(domain.SettingAllowPostNoPeriod, true) {
			return fmt.Errorf("%w: no accounting period covers %s", apperrors.ErrPeriodClosed, date.Format("2006-01-02"))
		}
		return nil
	}

	// FindPeriodsCovering orders by window size; the first row is the most
	// specific period.
	governing := covering[0]
	if governing.Status == domain.PeriodClosed {
		return fmt.Errorf("%w: period %s", apperrors.ErrPeriodClosed, governing.Name)
	}
	return nil
}

// evaluateAutomatedChecks recomputes the automated checklist items and
// persists any state change. Returns the full, refreshed checklist.
func (s *PeriodService) evaluateAutomatedChecks(ctx context.Context, tx pgx.Tx, period *domain.AccountingPeriod, userID string) ([]domain.ChecklistItem, error) {
	checklist, err := s.periodRepo.ListChecklist(ctx, tx, period.TenantID, period.PeriodID)
	if err != nil {
		return nil, err
	}

	for i := range checklist {
		item := &checklist[i]
		if !item.IsAutomated {
			continue
		}

		var passed bool
		switch item.CheckKey {
		case domain.CheckJournalsPosted:
			hasDraft, err := s.journalRepo.HasDraftJournalsInRange(ctx, tx, period.TenantID, period.StartDate, period.EndDate)
			if err != nil {
				return nil, err
			}
			passed = !hasDraft
		case domain.CheckPayrollPosted:
			passed, err = s.payrollPosted(ctx, tx, period)
			if err != nil {
				return nil, err
			}
		default:
			continue
		}

		if item.IsCompleted == passed {
			continue
		}
		now := time.Now()
		item.IsCompleted = passed
		if passed {
			item.CompletedBy = userID
			item.CompletedAt = &now
		} else {
			item.CompletedBy = ""
			item.CompletedAt = nil
		}
		if err := s.periodRepo.UpdateChecklistItem(ctx, tx, *item); err != nil {
			return nil, err
		}
	}
	return checklist, nil
}

// payrollPosted reports whether every approved payroll run overlapping the
// period window has a POSTED journal.
func (s *PeriodService) payrollPosted(ctx context.Context, tx pgx.Tx, period *domain.AccountingPeriod) (bool, error) {
	payrolls, err := s.operationalRepo.ListPayrollOverlapping(ctx, tx, period.TenantID, period.StartDate, period.EndDate)
	if err != nil {
		return false, err
	}
	for _, payroll := range payrolls {
		journal, err := s.journalRepo.FindJournalByReference(ctx, tx, period.TenantID, domain.RefPayroll, payroll.PayrollID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return false, nil
			}
			return false, err
		}
		if journal.Status != domain.Posted {
			return false, nil
		}
	}
	return true, nil
}

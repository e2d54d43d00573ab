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
	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/dto"
	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/middleware"
	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/utils/accounting"
)

// JournalService manages the manual journal lifecycle: DRAFT creation,
// posting, reversal and deletion.
type JournalService struct {
	txManager   portsrepo.TxManager
	journalRepo portsrepo.JournalRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
	periodSvc   portssvc.PeriodSvcFacade
}

// NewJournalService creates a new JournalService.
func NewJournalService(txManager portsrepo.TxManager, journalRepo portsrepo.JournalRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade, periodSvc portssvc.PeriodSvcFacade) portssvc.JournalSvcFacade {
	return &JournalService{
		txManager:   txManager,
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		periodSvc:   periodSvc,
	}
}

var _ portssvc.JournalSvcFacade = (*JournalService)(nil)

// CreateDraftJournal validates the line set, resolves account codes and
// saves a DRAFT journal. Emits no cash transaction.
func (s *JournalService) CreateDraftJournal(ctx context.Context, tenantID string, req dto.CreateJournalRequest, userID string) (*domain.Journal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var journal *domain.Journal
	err := s.txManager.WithTenantTx(ctx, tenantID, func(tx pgx.Tx) error {
		if err := s.periodSvc.EnsurePostable(ctx, tx, tenantID, req.Date); err != nil {
			return err
		}

		now := time.Now()
		journalID := uuid.NewString()
		audit := domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		}

		lines := make([]domain.JournalLine, len(req.Lines))
		for i, lineReq := range req.Lines {
			account, err := s.accountRepo.FindAccountByCode(ctx, tx, tenantID, lineReq.AccountCode)
			if err != nil {
				if errors.Is(err, apperrors.ErrNotFound) {
					return fmt.Errorf("%w: account code %s not found", apperrors.ErrValidation, lineReq.AccountCode)
				}
				return err
			}
			lines[i] = domain.JournalLine{
				LineID:      uuid.NewString(),
				JournalID:   journalID,
				TenantID:    tenantID,
				AccountID:   account.AccountID,
				Debit:       lineReq.Debit,
				Credit:      lineReq.Credit,
				Description: lineReq.Description,
				AuditFields: audit,
			}
		}

		total, err := accounting.ValidateJournalLines(lines)
		if err != nil {
			return err
		}

		code, err := nextJournalCode(ctx, tx, s.journalRepo, tenantID, req.Kind, req.Date)
		if err != nil {
			return err
		}

		journal = &domain.Journal{
			JournalID:     journalID,
			TenantID:      tenantID,
			Code:          code,
			Kind:          req.Kind,
			JournalDate:   req.Date,
			Description:   req.Description,
			TotalAmount:   total,
			ReferenceType: domain.RefManual,
			Status:        domain.Draft,
			Lines:         lines,
			AuditFields:   audit,
		}
		return saveJournalWithRetry(ctx, tx, s.journalRepo, journal)
	})
	if err != nil {
		logger.Warn("Failed to create draft journal", slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Draft journal created", slog.String("journal_id", journal.JournalID), slog.String("code", journal.Code))
	return journal, nil
}

// GetJournalByID retrieves a journal with its lines.
func (s *JournalService) GetJournalByID(ctx context.Context, tenantID, journalID string) (*domain.Journal, error) {
	var journal *domain.Journal
	err := s.txManager.WithTenantTx(ctx, tenantID, func(tx pgx.Tx) error {
		var err error
		journal, err = s.journalRepo.FindJournalByID(ctx, tx, tenantID, journalID)
		if err != nil {
			return err
		}
		journal.Lines, err = s.journalRepo.FindLinesByJournalID(ctx, tx, tenantID, journalID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return journal, nil
}

// ListJournals returns a page of journal headers, newest first.
func (s *JournalService) ListJournals(ctx context.Context, tenantID string, params dto.ListJournalsParams) ([]domain.Journal, error) {
	var journals []domain.Journal
	err := s.txManager.WithTenantTx(ctx, tenantID, func(tx pgx.Tx) error {
		var err error
		journals, err = s.journalRepo.ListJournals(ctx, tx, tenantID, params.Limit, params.Offset)
		return err
	})
	if err != nil {
		return nil, err
	}
	return journals, nil
}

// UpdateDraftJournal edits the header of a DRAFT journal. The new date is
// subject to the period gate; the line set stays untouched.
func (s *JournalService) UpdateDraftJournal(ctx context.Context, tenantID, journalID string, req dto.UpdateJournalRequest, userID string) (*domain.Journal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var journal *domain.Journal
	err := s.txManager.WithTenantTx(ctx, tenantID, func(tx pgx.Tx) error {
		var err error
		journal, err = s.journalRepo.FindJournalByID(ctx, tx, tenantID, journalID)
		if err != nil {
			return err
		}
		if journal.Status != domain.Draft {
			return fmt.Errorf("%w: cannot edit a %s journal", apperrors.ErrIllegalTransition, journal.Status)
		}
		if err := s.periodSvc.EnsurePostable(ctx, tx, tenantID, req.Date); err != nil {
			return err
		}

		journal.JournalDate = req.Date
		journal.Description = req.Description
		journal.LastUpdatedAt = time.Now()
		journal.LastUpdatedBy = userID
		if err := s.journalRepo.UpdateDraftJournal(ctx, tx, *journal); err != nil {
			return err
		}
		journal.Lines, err = s.journalRepo.FindLinesByJournalID(ctx, tx, tenantID, journalID)
		return err
	})
	if err != nil {
		logger.Warn("Failed to update draft journal", slog.String("error", err.Error()), slog.String("journal_id", journalID))
		return nil, err
	}

	logger.Info("Draft journal updated", slog.String("journal_id", journalID), slog.String("code", journal.Code))
	return journal, nil
}

// PostJournal transitions DRAFT -> POSTED; the lines freeze.
func (s *JournalService) PostJournal(ctx context.Context, tenantID, journalID, userID string) (*domain.Journal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var journal *domain.Journal
	err := s.txManager.WithTenantTx(ctx, tenantID, func(tx pgx.Tx) error {
		var err error
		journal, err = s.journalRepo.FindJournalByID(ctx, tx, tenantID, journalID)
		if err != nil {
			return err
		}
		if journal.Status != domain.Draft {
			return fmt.Errorf("%w: cannot post a %s journal", apperrors.ErrIllegalTransition, journal.Status)
		}
		if err := s.periodSvc.EnsurePostable(ctx, tx, tenantID, journal.JournalDate); err != nil {
			return err
		}

		now := time.Now()
		if err := s.journalRepo.MarkJournalPosted(ctx, tx, tenantID, journalID, now, userID); err != nil {
			return err
		}
		journal.Status = domain.Posted
		journal.PostedAt = &now
		journal.PostedBy = userID
		return nil
	})
	if err != nil {
		logger.Warn("Failed to post journal", slog.String("error", err.Error()), slog.String("journal_id", journalID))
		return nil, err
	}

	logger.Info("Journal posted", slog.String("journal_id", journalID), slog.String("code", journal.Code))
	return journal, nil
}

// ReverseJournal creates the mirror journal of a POSTED entry and links
// the pair; both end REVERSED. The reversal takes the current date unless
// the caller provides one, and is itself subject to the period gate.
func (s *JournalService) ReverseJournal(ctx context.Context, tenantID, journalID string, date *time.Time, userID string) (*domain.Journal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var reversing *domain.Journal
	err := s.txManager.WithTenantTx(ctx, tenantID, func(tx pgx.Tx) error {
		original, err := s.journalRepo.FindJournalByID(ctx, tx, tenantID, journalID)
		if err != nil {
			return err
		}
		if original.Status != domain.Posted {
			return fmt.Errorf("%w: cannot reverse a %s journal", apperrors.ErrIllegalTransition, original.Status)
		}

		now := time.Now()
		reversalDate := now
		if date != nil {
			reversalDate = *date
		}
		if err := s.periodSvc.EnsurePostable(ctx, tx, tenantID, reversalDate); err != nil {
			return err
		}

		originalLines, err := s.journalRepo.FindLinesByJournalID(ctx, tx, tenantID, journalID)
		if err != nil {
			return err
		}

		reversingID := uuid.NewString()
		audit := domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		}
		lines := accounting.ReversedLines(originalLines)
		for i := range lines {
			lines[i].LineID = uuid.NewString()
			lines[i].JournalID = reversingID
			lines[i].TenantID = tenantID
			lines[i].AuditFields = audit
		}

		code, err := nextJournalCode(ctx, tx, s.journalRepo, tenantID, original.Kind, reversalDate)
		if err != nil {
			return err
		}

		reversing = &domain.Journal{
			JournalID:     reversingID,
			TenantID:      tenantID,
			Code:          code,
			Kind:          original.Kind,
			JournalDate:   reversalDate,
			Description:   "Bút toán đảo: " + original.Code,
			TotalAmount:   original.TotalAmount,
			ReferenceType: original.ReferenceType,
			ReferenceID:   original.ReferenceID,
			Status:        domain.Posted,
			PostedAt:      &now,
			PostedBy:      userID,
			Lines:         lines,
			AuditFields:   audit,
		}
		if err := saveJournalWithRetry(ctx, tx, s.journalRepo, reversing); err != nil {
			return err
		}

		if err := s.journalRepo.MarkJournalsReversed(ctx, tx, tenantID, journalID, reversingID, userID, now); err != nil {
			return err
		}
		reversing.Status = domain.Reversed
		reversing.ReversedJournalID = &journalID
		return nil
	})
	if err != nil {
		logger.Warn("Failed to reverse journal", slog.String("error", err.Error()), slog.String("journal_id", journalID))
		return nil, err
	}

	logger.Info("Journal reversed", slog.String("journal_id", journalID), slog.String("reversing_journal_id", reversing.JournalID))
	return reversing, nil
}

// DeleteDraftJournal removes a DRAFT journal and its lines.
func (s *JournalService) DeleteDraftJournal(ctx context.Context, tenantID, journalID, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	err := s.txManager.WithTenantTx(ctx, tenantID, func(tx pgx.Tx) error {
		journal, err := s.journalRepo.FindJournalByID(ctx, tx, tenantID, journalID)
		if err != nil {
			return err
		}
		if journal.Status != domain.Draft {
			return fmt.Errorf("%w: cannot delete a %s journal", apperrors.ErrIllegalTransition, journal.Status)
		}
		if err := s.periodSvc.EnsurePostable(ctx, tx, tenantID, journal.JournalDate); err != nil {
			return err
		}
		return s.journalRepo.DeleteDraftJournal(ctx, tx, tenantID, journalID)
	})
	if err != nil {
		logger.Warn("Failed to delete draft journal", slog.String("error", err.Error()), slog.String("journal_id", journalID))
		return err
	}

	logger.Info("Draft journal deleted", slog.String("journal_id", journalID), slog.String("user_id", userID))
	return nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/apperrors"
	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/core/domain"
	portsrepo "github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/core/ports/repositories"
)

// nextJournalCode computes the {kind}-{YYYYMM}-{NNN} code from the current
// journal count of the (kind, month) bucket. The count is advisory only;
// the unique constraint on (tenant_id, code) is authoritative.
func nextJournalCode(ctx context.Context, tx pgx.Tx, repo portsrepo.JournalRepositoryFacade, tenantID string, kind domain.JournalKind, date time.Time) (string, error) {
	count, err := repo.CountJournalsByKindAndMonth(ctx, tx, tenantID, kind, date.Year(), date.Month())
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s-%03d", kind, date.Format("200601"), count+1), nil
}

// saveJournalWithRetry saves the journal, recomputing the code once on a
// unique collision. A second collision surfaces as ErrCodeConflict. Each
// attempt runs in a savepoint so a collision does not poison the caller's
// transaction.
func saveJournalWithRetry(ctx context.Context, tx pgx.Tx, repo portsrepo.JournalRepositoryFacade, journal *domain.Journal) error {
	err := saveJournalInSavepoint(ctx, tx, repo, *journal)
	if err == nil {
		return nil
	}
	if !errors.Is(err, apperrors.ErrDuplicate) {
		return err
	}

	code, err := nextJournalCode(ctx, tx, repo, journal.TenantID, journal.Kind, journal.JournalDate)
	if err != nil {
		return err
	}
	journal.Code = code
	if err := saveJournalInSavepoint(ctx, tx, repo, *journal); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return apperrors.ErrCodeConflict
		}
		return err
	}
	return nil
}

func saveJournalInSavepoint(ctx context.Context, tx pgx.Tx, repo portsrepo.JournalRepositoryFacade, journal domain.Journal) error {
	nested, err := tx.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to open savepoint: %w", err)
	}
	if err := repo.SaveJournal(ctx, nested, journal); err != nil {
		_ = nested.Rollback(ctx)
		return err
	}
	return nested.Commit(ctx)
}

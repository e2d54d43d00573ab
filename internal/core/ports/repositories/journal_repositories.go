package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/core/domain"
)

// JournalRepositoryFacade persists journals and their lines.
type JournalRepositoryFacade interface {
	// CountJournalsByKindAndMonth counts journals of any status for the
	// (kind, YYYYMM) bucket; the advisory input of code generation.
	CountJournalsByKindAndMonth(ctx context.Context, tx pgx.Tx, tenantID string, kind domain.JournalKind, year int, month time.Month) (int, error)
	// SaveJournal inserts the journal header and its lines. Returns
	// apperrors.ErrDuplicate when the (tenant_id, code) constraint fires.
	SaveJournal(ctx context.Context, tx pgx.Tx, journal domain.Journal) error
	FindJournalByID(ctx context.Context, tx pgx.Tx, tenantID, journalID string) (*domain.Journal, error)
	FindJournalByReference(ctx context.Context, tx pgx.Tx, tenantID string, refType domain.ReferenceType, refID string) (*domain.Journal, error)
	FindLinesByJournalID(ctx context.Context, tx pgx.Tx, tenantID, journalID string) ([]domain.JournalLine, error)
	ListJournals(ctx context.Context, tx pgx.Tx, tenantID string, limit, offset int) ([]domain.Journal, error)
	// MarkJournalPosted stamps posted_at/posted_by and flips status to POSTED.
	MarkJournalPosted(ctx context.Context, tx pgx.Tx, tenantID, journalID string, postedAt time.Time, postedBy string) error
	// MarkJournalsReversed sets both sides of a reversal pair to REVERSED and
	// links them through reversed_journal_id.
	MarkJournalsReversed(ctx context.Context, tx pgx.Tx, tenantID, originalID, reversingID, userID string, at time.Time) error
	UpdateDraftJournal(ctx context.Context, tx pgx.Tx, journal domain.Journal) error
	DeleteDraftJournal(ctx context.Context, tx pgx.Tx, tenantID, journalID string) error
	// HasDraftJournalsInRange backs the journals_posted automated check.
	HasDraftJournalsInRange(ctx context.Context, tx pgx.Tx, tenantID string, start, end time.Time) (bool, error)
	// SumPostedDebitsCredits totals lines of POSTED journals dated in
	// [start, end], for the closing snapshot.
	SumPostedDebitsCredits(ctx context.Context, tx pgx.Tx, tenantID string, start, end time.Time) (debit, credit decimal.Decimal, err error)
	// SumRetainedEarnings computes revenue credits minus expense debits (net
	// of their opposite sides) over POSTED journals in [start, end].
	SumRetainedEarnings(ctx context.Context, tx pgx.Tx, tenantID string, start, end time.Time) (decimal.Decimal, error)
}

// CashTransactionRepositoryFacade persists the operational cash projection.
type CashTransactionRepositoryFacade interface {
	SaveCashTransaction(ctx context.Context, tx pgx.Tx, txn domain.CashTransaction) error
	FindCashTransactionByJournalID(ctx context.Context, tx pgx.Tx, tenantID, journalID string) (*domain.CashTransaction, error)
}

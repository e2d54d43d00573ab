package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/apperrors"
	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/core/domain"
	portsrepo "github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/core/ports/repositories"
)

// PgxJournalRepository persists journals and their lines.
type PgxJournalRepository struct {
	BaseRepository
}

// NewJournalRepository creates a new repository for journal data.
func NewJournalRepository(pool *pgxpool.Pool) *PgxJournalRepository {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

const journalColumns = `journal_id, tenant_id, code, kind, journal_date, description, total_amount, reference_type, reference_id, status, posted_at, posted_by, reversed_journal_id, created_at, created_by, last_updated_at, last_updated_by`

func scanJournal(row pgx.Row) (*domain.Journal, error) {
	var j domain.Journal
	err := row.Scan(
		&j.JournalID,
		&j.TenantID,
		&j.Code,
		&j.Kind,
		&j.JournalDate,
		&j.Description,
		&j.TotalAmount,
		&j.ReferenceType,
		&j.ReferenceID,
		&j.Status,
		&j.PostedAt,
		&j.PostedBy,
		&j.ReversedJournalID,
		&j.CreatedAt,
		&j.CreatedBy,
		&j.LastUpdatedAt,
		&j.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

// CountJournalsByKindAndMonth counts journals of the (kind, YYYYMM) bucket
// regardless of status. The count is advisory; the (tenant_id, code)
// unique constraint is authoritative.
func (r *PgxJournalRepository) CountJournalsByKindAndMonth(ctx context.Context, tx pgx.Tx, tenantID string, kind domain.JournalKind, year int, month time.Month) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM journals
		WHERE tenant_id = $1 AND kind = $2
		  AND date_part('year', journal_date) = $3
		  AND date_part('month', journal_date) = $4;
	`
	var count int
	if err := tx.QueryRow(ctx, query, tenantID, kind, year, int(month)).Scan(&count); err != nil {
		return 0, apperrors.NewAppError(500, "failed to count journals for code generation", err)
	}
	return count, nil
}

// SaveJournal inserts the journal header and its lines inside the caller's
// transaction. Returns apperrors.ErrDuplicate on a (tenant_id, code)
// collision so the service can recompute the code and retry.
func (r *PgxJournalRepository) SaveJournal(ctx context.Context, tx pgx.Tx, journal domain.Journal) error {
	journalQuery := `
		INSERT INTO journals (` + journalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := tx.Exec(ctx, journalQuery,
		journal.JournalID,
		journal.TenantID,
		journal.Code,
		journal.Kind,
		journal.JournalDate,
		journal.Description,
		journal.TotalAmount,
		journal.ReferenceType,
		journal.ReferenceID,
		journal.Status,
		journal.PostedAt,
		journal.PostedBy,
		journal.ReversedJournalID,
		journal.CreatedAt,
		journal.CreatedBy,
		journal.LastUpdatedAt,
		journal.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert journal "+journal.JournalID, err)
	}

	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO journal_lines (line_id, journal_id, tenant_id, account_id, debit, credit, description, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	for _, line := range journal.Lines {
		batch.Queue(lineQuery,
			line.LineID,
			line.JournalID,
			line.TenantID,
			line.AccountID,
			line.Debit,
			line.Credit,
			line.Description,
			line.CreatedAt,
			line.CreatedBy,
			line.LastUpdatedAt,
			line.LastUpdatedBy,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert lines for journal "+journal.JournalID, err)
	}
	return nil
}

// FindJournalByID retrieves a journal header by its ID.
func (r *PgxJournalRepository) FindJournalByID(ctx context.Context, tx pgx.Tx, tenantID, journalID string) (*domain.Journal, error) {
	query := `SELECT ` + journalColumns + ` FROM journals WHERE tenant_id = $1 AND journal_id = $2;`
	journal, err := scanJournal(tx.QueryRow(ctx, query, tenantID, journalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find journal by ID "+journalID, err)
	}
	return journal, nil
}

// FindJournalByReference retrieves a journal by its originating business
// event; the idempotency lookup of the posting service.
func (r *PgxJournalRepository) FindJournalByReference(ctx context.Context, tx pgx.Tx, tenantID string, refType domain.ReferenceType, refID string) (*domain.Journal, error) {
	query := `
		SELECT ` + journalColumns + `
		FROM journals
		WHERE tenant_id = $1 AND reference_type = $2 AND reference_id = $3 AND status != 'REVERSED'
		ORDER BY created_at
		LIMIT 1;
	`
	journal, err := scanJournal(tx.QueryRow(ctx, query, tenantID, refType, refID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find journal by reference", err)
	}
	return journal, nil
}

// FindLinesByJournalID retrieves all lines of a journal.
func (r *PgxJournalRepository) FindLinesByJournalID(ctx context.Context, tx pgx.Tx, tenantID, journalID string) ([]domain.JournalLine, error) {
	query := `
		SELECT line_id, journal_id, tenant_id, account_id, debit, credit, description, created_at, created_by, last_updated_at, last_updated_by
		FROM journal_lines
		WHERE tenant_id = $1 AND journal_id = $2
		ORDER BY created_at, line_id;
	`
	rows, err := tx.Query(ctx, query, tenantID, journalID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for journal "+journalID, err)
	}
	defer rows.Close()

	lines := []domain.JournalLine{}
	for rows.Next() {
		var l domain.JournalLine
		if err := rows.Scan(
			&l.LineID,
			&l.JournalID,
			&l.TenantID,
			&l.AccountID,
			&l.Debit,
			&l.Credit,
			&l.Description,
			&l.CreatedAt,
			&l.CreatedBy,
			&l.LastUpdatedAt,
			&l.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line row for journal "+journalID, err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line rows for journal "+journalID, err)
	}
	return lines, nil
}

// ListJournals retrieves journals of a tenant, newest first.
func (r *PgxJournalRepository) ListJournals(ctx context.Context, tx pgx.Tx, tenantID string, limit, offset int) ([]domain.Journal, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT ` + journalColumns + `
		FROM journals
		WHERE tenant_id = $1
		ORDER BY journal_date DESC, created_at DESC
		LIMIT $2 OFFSET $3;
	`
	rows, err := tx.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query journals", err)
	}
	defer rows.Close()

	journals := []domain.Journal{}
	for rows.Next() {
		journal, err := scanJournal(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan journal row", err)
		}
		journals = append(journals, *journal)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating journal rows", err)
	}
	return journals, nil
}

// MarkJournalPosted transitions a journal to POSTED and stamps the poster.
func (r *PgxJournalRepository) MarkJournalPosted(ctx context.Context, tx pgx.Tx, tenantID, journalID string, postedAt time.Time, postedBy string) error {
	query := `
		UPDATE journals
		SET status = 'POSTED', posted_at = $3, posted_by = $4, last_updated_at = $3, last_updated_by = $4
		WHERE tenant_id = $1 AND journal_id = $2;
	`
	cmdTag, err := tx.Exec(ctx, query, tenantID, journalID, postedAt, postedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark journal posted "+journalID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("journal " + journalID + " not found for posting")
	}
	return nil
}

// MarkJournalsReversed links the original and reversing journals and sets
// both to REVERSED.
func (r *PgxJournalRepository) MarkJournalsReversed(ctx context.Context, tx pgx.Tx, tenantID, originalID, reversingID, userID string, at time.Time) error {
	query := `
		UPDATE journals
		SET status = 'REVERSED', reversed_journal_id = $3, last_updated_at = $4, last_updated_by = $5
		WHERE tenant_id = $1 AND journal_id = $2;
	`
	cmdTag, err := tx.Exec(ctx, query, tenantID, originalID, reversingID, at, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark journal reversed "+originalID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("journal " + originalID + " not found for reversal link")
	}

	cmdTag, err = tx.Exec(ctx, query, tenantID, reversingID, originalID, at, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark reversing journal "+reversingID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("journal " + reversingID + " not found for reversal link")
	}
	return nil
}

// UpdateDraftJournal updates header fields of a DRAFT journal.
func (r *PgxJournalRepository) UpdateDraftJournal(ctx context.Context, tx pgx.Tx, journal domain.Journal) error {
	query := `
		UPDATE journals
		SET journal_date = $3, description = $4, total_amount = $5, last_updated_at = $6, last_updated_by = $7
		WHERE tenant_id = $1 AND journal_id = $2 AND status = 'DRAFT';
	`
	cmdTag, err := tx.Exec(ctx, query,
		journal.TenantID,
		journal.JournalID,
		journal.JournalDate,
		journal.Description,
		journal.TotalAmount,
		journal.LastUpdatedAt,
		journal.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update journal "+journal.JournalID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("draft journal " + journal.JournalID + " not found for update")
	}
	return nil
}

// DeleteDraftJournal deletes a DRAFT journal; lines cascade.
func (r *PgxJournalRepository) DeleteDraftJournal(ctx context.Context, tx pgx.Tx, tenantID, journalID string) error {
	query := `DELETE FROM journals WHERE tenant_id = $1 AND journal_id = $2 AND status = 'DRAFT';`
	cmdTag, err := tx.Exec(ctx, query, tenantID, journalID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete journal "+journalID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("draft journal " + journalID + " not found for delete")
	}
	return nil
}

// HasDraftJournalsInRange reports whether any DRAFT journal is dated in
// [start, end]; drives the journals_posted automated check.
func (r *PgxJournalRepository) HasDraftJournalsInRange(ctx context.Context, tx pgx.Tx, tenantID string, start, end time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM journals
			WHERE tenant_id = $1 AND status = 'DRAFT' AND journal_date BETWEEN $2 AND $3
		);
	`
	var exists bool
	if err := tx.QueryRow(ctx, query, tenantID, start, end).Scan(&exists); err != nil {
		return false, apperrors.NewAppError(500, "failed to check draft journals in range", err)
	}
	return exists, nil
}

// SumPostedDebitsCredits totals the lines of POSTED journals dated in
// [start, end]; the closing balance snapshot.
func (r *PgxJournalRepository) SumPostedDebitsCredits(ctx context.Context, tx pgx.Tx, tenantID string, start, end time.Time) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(l.debit), 0), COALESCE(SUM(l.credit), 0)
		FROM journal_lines l
		JOIN journals j ON l.journal_id = j.journal_id
		WHERE j.tenant_id = $1 AND j.status = 'POSTED' AND j.journal_date BETWEEN $2 AND $3;
	`
	var debit, credit decimal.Decimal
	if err := tx.QueryRow(ctx, query, tenantID, start, end).Scan(&debit, &credit); err != nil {
		return decimal.Zero, decimal.Zero, apperrors.NewAppError(500, "failed to sum posted journal lines", err)
	}
	return debit, credit, nil
}

// SumRetainedEarnings computes net revenue credits minus net expense
// debits over POSTED journals in [start, end].
func (r *PgxJournalRepository) SumRetainedEarnings(ctx context.Context, tx pgx.Tx, tenantID string, start, end time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(l.credit - l.debit), 0)
		FROM journal_lines l
		JOIN journals j ON l.journal_id = j.journal_id
		JOIN accounts a ON l.account_id = a.account_id
		WHERE j.tenant_id = $1 AND j.status = 'POSTED' AND j.journal_date BETWEEN $2 AND $3
		  AND a.account_type IN ('REVENUE', 'EXPENSE');
	`
	var retained decimal.Decimal
	if err := tx.QueryRow(ctx, query, tenantID, start, end).Scan(&retained); err != nil {
		return decimal.Zero, apperrors.NewAppError(500, "failed to sum retained earnings", err)
	}
	return retained, nil
}

package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/apperrors"
	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/core/domain"
	portsrepo "github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/core/ports/repositories"
)

// PgxPeriodRepository persists accounting periods, checklists and the
// period audit log.
type PgxPeriodRepository struct {
	BaseRepository
}

// NewPeriodRepository creates a new repository for accounting period data.
func NewPeriodRepository(pool *pgxpool.Pool) *PgxPeriodRepository {
	return &PgxPeriodRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PeriodRepositoryFacade = (*PgxPeriodRepository)(nil)

const periodColumns = `period_id, tenant_id, name, period_type, start_date, end_date, status, closed_at, closed_by, closing_total_debit, closing_total_credit, closing_retained_earnings, created_at, created_by, last_updated_at, last_updated_by`

func scanPeriod(row pgx.Row) (*domain.AccountingPeriod, error) {
	var p domain.AccountingPeriod
	err := row.Scan(
		&p.PeriodID,
		&p.TenantID,
		&p.Name,
		&p.PeriodType,
		&p.StartDate,
		&p.EndDate,
		&p.Status,
		&p.ClosedAt,
		&p.ClosedBy,
		&p.ClosingTotalDebit,
		&p.ClosingTotalCredit,
		&p.ClosingRetainedEarnings,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreatePeriod inserts a new period. The overlap exclusion constraint maps
// to apperrors.ErrDuplicate so the service can surface a validation error.
func (r *PgxPeriodRepository) CreatePeriod(ctx context.Context, tx pgx.Tx, period domain.AccountingPeriod) error {
	query := `
		INSERT INTO accounting_periods (` + periodColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err := tx.Exec(ctx, query,
		period.PeriodID,
		period.TenantID,
		period.Name,
		period.PeriodType,
		period.StartDate,
		period.EndDate,
		period.Status,
		period.ClosedAt,
		period.ClosedBy,
		period.ClosingTotalDebit,
		period.ClosingTotalCredit,
		period.ClosingRetainedEarnings,
		period.CreatedAt,
		period.CreatedBy,
		period.LastUpdatedAt,
		period.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) || isExclusionViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert period "+period.Name, err)
	}
	return nil
}

// FindPeriodByID retrieves a period by its ID.
func (r *PgxPeriodRepository) FindPeriodByID(ctx context.Context, tx pgx.Tx, tenantID, periodID string) (*domain.AccountingPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM accounting_periods WHERE tenant_id = $1 AND period_id = $2;`
	period, err := scanPeriod(tx.QueryRow(ctx, query, tenantID, periodID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find period by ID "+periodID, err)
	}
	return period, nil
}

// FindPeriodByIDForUpdate retrieves a period and locks its row for the
// remainder of the transaction. Finalize and reopen serialize on this lock.
func (r *PgxPeriodRepository) FindPeriodByIDForUpdate(ctx context.Context, tx pgx.Tx, tenantID, periodID string) (*domain.AccountingPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM accounting_periods WHERE tenant_id = $1 AND period_id = $2 FOR UPDATE;`
	period, err := scanPeriod(tx.QueryRow(ctx, query, tenantID, periodID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to lock period "+periodID, err)
	}
	return period, nil
}

// FindPeriodsCovering returns every period whose inclusive range contains
// the given date, most specific window first.
func (r *PgxPeriodRepository) FindPeriodsCovering(ctx context.Context, tx pgx.Tx, tenantID string, date time.Time) ([]domain.AccountingPeriod, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM accounting_periods
		WHERE tenant_id = $1 AND start_date <= $2 AND end_date >= $2
		ORDER BY end_date - start_date, start_date;
	`
	return r.queryPeriods(ctx, tx, query, tenantID, date)
}

// ListPeriods returns every period of the tenant, newest range first.
func (r *PgxPeriodRepository) ListPeriods(ctx context.Context, tx pgx.Tx, tenantID string) ([]domain.AccountingPeriod, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM accounting_periods
		WHERE tenant_id = $1
		ORDER BY start_date DESC, period_type;
	`
	return r.queryPeriods(ctx, tx, query, tenantID)
}

func (r *PgxPeriodRepository) queryPeriods(ctx context.Context, tx pgx.Tx, query string, args ...any) ([]domain.AccountingPeriod, error) {
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query periods", err)
	}
	defer rows.Close()

	periods := []domain.AccountingPeriod{}
	for rows.Next() {
		period, err := scanPeriod(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan period row", err)
		}
		periods = append(periods, *period)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating period rows", err)
	}
	return periods, nil
}

// UpdatePeriod rewrites the mutable fields of a period row.
func (r *PgxPeriodRepository) UpdatePeriod(ctx context.Context, tx pgx.Tx, period domain.AccountingPeriod) error {
	query := `
		UPDATE accounting_periods
		SET status = $3, closed_at = $4, closed_by = $5,
		    closing_total_debit = $6, closing_total_credit = $7, closing_retained_earnings = $8,
		    last_updated_at = $9, last_updated_by = $10
		WHERE tenant_id = $1 AND period_id = $2;
	`
	cmdTag, err := tx.Exec(ctx, query,
		period.TenantID,
		period.PeriodID,
		period.Status,
		period.ClosedAt,
		period.ClosedBy,
		period.ClosingTotalDebit,
		period.ClosingTotalCredit,
		period.ClosingRetainedEarnings,
		period.LastUpdatedAt,
		period.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update period "+period.PeriodID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("period " + period.PeriodID + " not found for update")
	}
	return nil
}

// CountClosingByType counts CLOSING periods of the given type; at most one
// is allowed per tenant and type.
func (r *PgxPeriodRepository) CountClosingByType(ctx context.Context, tx pgx.Tx, tenantID string, periodType domain.PeriodType) (int, error) {
	query := `SELECT COUNT(*) FROM accounting_periods WHERE tenant_id = $1 AND period_type = $2 AND status = 'CLOSING';`
	var count int
	if err := tx.QueryRow(ctx, query, tenantID, periodType).Scan(&count); err != nil {
		return 0, apperrors.NewAppError(500, "failed to count closing periods", err)
	}
	return count, nil
}

// SaveChecklistItems inserts the checklist rows for a period in one batch.
func (r *PgxPeriodRepository) SaveChecklistItems(ctx context.Context, tx pgx.Tx, items []domain.ChecklistItem) error {
	batch := &pgx.Batch{}
	query := `
		INSERT INTO period_close_checklist (item_id, tenant_id, period_id, check_key, check_name, check_order, is_automated, is_completed, completed_by, completed_at, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	for _, item := range items {
		batch.Queue(query,
			item.ItemID,
			item.TenantID,
			item.PeriodID,
			item.CheckKey,
			item.CheckName,
			item.CheckOrder,
			item.IsAutomated,
			item.IsCompleted,
			item.CompletedBy,
			item.CompletedAt,
			item.Notes,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert checklist items", err)
	}
	return nil
}

// ListChecklist returns the checklist of a period in display order.
func (r *PgxPeriodRepository) ListChecklist(ctx context.Context, tx pgx.Tx, tenantID, periodID string) ([]domain.ChecklistItem, error) {
	query := `
		SELECT item_id, tenant_id, period_id, check_key, check_name, check_order, is_automated, is_completed, completed_by, completed_at, notes
		FROM period_close_checklist
		WHERE tenant_id = $1 AND period_id = $2
		ORDER BY check_order;
	`
	rows, err := tx.Query(ctx, query, tenantID, periodID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query checklist for period "+periodID, err)
	}
	defer rows.Close()

	items := []domain.ChecklistItem{}
	for rows.Next() {
		var item domain.ChecklistItem
		if err := rows.Scan(
			&item.ItemID,
			&item.TenantID,
			&item.PeriodID,
			&item.CheckKey,
			&item.CheckName,
			&item.CheckOrder,
			&item.IsAutomated,
			&item.IsCompleted,
			&item.CompletedBy,
			&item.CompletedAt,
			&item.Notes,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan checklist row", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating checklist rows", err)
	}
	return items, nil
}

// UpdateChecklistItem rewrites the completion state of one checklist item.
func (r *PgxPeriodRepository) UpdateChecklistItem(ctx context.Context, tx pgx.Tx, item domain.ChecklistItem) error {
	query := `
		UPDATE period_close_checklist
		SET is_completed = $3, completed_by = $4, completed_at = $5, notes = $6
		WHERE tenant_id = $1 AND item_id = $2;
	`
	cmdTag, err := tx.Exec(ctx, query,
		item.TenantID,
		item.ItemID,
		item.IsCompleted,
		item.CompletedBy,
		item.CompletedAt,
		item.Notes,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update checklist item "+item.CheckKey, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("checklist item " + item.CheckKey + " not found for update")
	}
	return nil
}

// AppendAuditEntry writes one append-only audit row.
func (r *PgxPeriodRepository) AppendAuditEntry(ctx context.Context, tx pgx.Tx, entry domain.PeriodAuditEntry) error {
	query := `
		INSERT INTO period_audit_log (entry_id, tenant_id, period_id, action, performed_by, performed_at, reason, extra)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := tx.Exec(ctx, query,
		entry.EntryID,
		entry.TenantID,
		entry.PeriodID,
		entry.Action,
		entry.PerformedBy,
		entry.PerformedAt,
		entry.Reason,
		entry.Extra,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert audit entry for period "+entry.PeriodID, err)
	}
	return nil
}

// ListAuditEntries returns the audit trail of a period, oldest first.
func (r *PgxPeriodRepository) ListAuditEntries(ctx context.Context, tx pgx.Tx, tenantID, periodID string) ([]domain.PeriodAuditEntry, error) {
	query := `
		SELECT entry_id, tenant_id, period_id, action, performed_by, performed_at, reason, extra
		FROM period_audit_log
		WHERE tenant_id = $1 AND period_id = $2
		ORDER BY performed_at, entry_id;
	`
	rows, err := tx.Query(ctx, query, tenantID, periodID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query audit log for period "+periodID, err)
	}
	defer rows.Close()

	entries := []domain.PeriodAuditEntry{}
	for rows.Next() {
		var entry domain.PeriodAuditEntry
		if err := rows.Scan(
			&entry.EntryID,
			&entry.TenantID,
			&entry.PeriodID,
			&entry.Action,
			&entry.PerformedBy,
			&entry.PerformedAt,
			&entry.Reason,
			&entry.Extra,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan audit row", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating audit rows", err)
	}
	return entries, nil
}

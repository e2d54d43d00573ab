package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/apperrors"
	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/core/domain"
	portsrepo "github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/core/ports/repositories"
)

// PgxCashTransactionRepository persists the operational cash projection.
type PgxCashTransactionRepository struct {
	BaseRepository
}

// NewCashTransactionRepository creates a new repository for cash transaction data.
func NewCashTransactionRepository(pool *pgxpool.Pool) *PgxCashTransactionRepository {
	return &PgxCashTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CashTransactionRepositoryFacade = (*PgxCashTransactionRepository)(nil)

const cashTxnColumns = `transaction_id, tenant_id, code, type, category, amount, payment_method, reference_type, reference_id, transaction_date, journal_id, created_at, created_by, last_updated_at, last_updated_by`

// SaveCashTransaction inserts the cash row paired with its journal. The
// journal_id unique constraint keeps the pairing one-to-one.
func (r *PgxCashTransactionRepository) SaveCashTransaction(ctx context.Context, tx pgx.Tx, txn domain.CashTransaction) error {
	query := `
		INSERT INTO finance_transactions (` + cashTxnColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := tx.Exec(ctx, query,
		txn.TransactionID,
		txn.TenantID,
		txn.Code,
		txn.Type,
		txn.Category,
		txn.Amount,
		txn.PaymentMethod,
		txn.ReferenceType,
		txn.ReferenceID,
		txn.TransactionDate,
		txn.JournalID,
		txn.CreatedAt,
		txn.CreatedBy,
		txn.LastUpdatedAt,
		txn.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert cash transaction "+txn.Code, err)
	}
	return nil
}

// FindCashTransactionByJournalID retrieves the cash row paired with a journal.
func (r *PgxCashTransactionRepository) FindCashTransactionByJournalID(ctx context.Context, tx pgx.Tx, tenantID, journalID string) (*domain.CashTransaction, error) {
	query := `SELECT ` + cashTxnColumns + ` FROM finance_transactions WHERE tenant_id = $1 AND journal_id = $2;`
	var t domain.CashTransaction
	err := tx.QueryRow(ctx, query, tenantID, journalID).Scan(
		&t.TransactionID,
		&t.TenantID,
		&t.Code,
		&t.Type,
		&t.Category,
		&t.Amount,
		&t.PaymentMethod,
		&t.ReferenceType,
		&t.ReferenceID,
		&t.TransactionDate,
		&t.JournalID,
		&t.CreatedAt,
		&t.CreatedBy,
		&t.LastUpdatedAt,
		&t.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find cash transaction for journal "+journalID, err)
	}
	return &t, nil
}

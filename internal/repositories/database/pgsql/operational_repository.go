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

// PgxOperationalRepository covers the slices of the orders, purchase order
// and payroll tables the accounting adapters touch.
type PgxOperationalRepository struct {
	BaseRepository
}

// NewOperationalRepository creates a new repository for operational data.
func NewOperationalRepository(pool *pgxpool.Pool) *PgxOperationalRepository {
	return &PgxOperationalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.OperationalRepositoryFacade = (*PgxOperationalRepository)(nil)

// FindOrderFinance retrieves the cash position of an order.
func (r *PgxOperationalRepository) FindOrderFinance(ctx context.Context, tx pgx.Tx, tenantID, orderID string) (*domain.OrderFinance, error) {
	query := `
		SELECT order_id, tenant_id, order_code, total_amount, paid_amount, balance_amount
		FROM orders
		WHERE tenant_id = $1 AND order_id = $2;
	`
	var o domain.OrderFinance
	err := tx.QueryRow(ctx, query, tenantID, orderID).Scan(
		&o.OrderID,
		&o.TenantID,
		&o.OrderCode,
		&o.TotalAmount,
		&o.PaidAmount,
		&o.BalanceAmount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find order "+orderID, err)
	}
	return &o, nil
}

// ApplyOrderPayment moves amount from balance to paid on the order row.
func (r *PgxOperationalRepository) ApplyOrderPayment(ctx context.Context, tx pgx.Tx, tenantID, orderID string, amount decimal.Decimal) error {
	query := `
		UPDATE orders
		SET paid_amount = paid_amount + $3, balance_amount = balance_amount - $3
		WHERE tenant_id = $1 AND order_id = $2;
	`
	cmdTag, err := tx.Exec(ctx, query, tenantID, orderID, amount)
	if err != nil {
		return apperrors.NewAppError(500, "failed to apply payment to order "+orderID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("order " + orderID + " not found for payment")
	}
	return nil
}

// FindPurchaseOrder retrieves the payable position of a purchase order.
func (r *PgxOperationalRepository) FindPurchaseOrder(ctx context.Context, tx pgx.Tx, tenantID, poID string) (*domain.PurchaseOrderFinance, error) {
	query := `
		SELECT po_id, tenant_id, po_code, supplier_name, total_amount, paid_amount, status
		FROM purchase_orders
		WHERE tenant_id = $1 AND po_id = $2;
	`
	var po domain.PurchaseOrderFinance
	err := tx.QueryRow(ctx, query, tenantID, poID).Scan(
		&po.POID,
		&po.TenantID,
		&po.POCode,
		&po.SupplierName,
		&po.TotalAmount,
		&po.PaidAmount,
		&po.Status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find purchase order "+poID, err)
	}
	return &po, nil
}

// MarkPurchaseOrderPaid settles the purchase order in full.
func (r *PgxOperationalRepository) MarkPurchaseOrderPaid(ctx context.Context, tx pgx.Tx, tenantID, poID string) error {
	query := `
		UPDATE purchase_orders
		SET paid_amount = total_amount, status = 'PAID'
		WHERE tenant_id = $1 AND po_id = $2;
	`
	cmdTag, err := tx.Exec(ctx, query, tenantID, poID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark purchase order paid "+poID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("purchase order " + poID + " not found for settlement")
	}
	return nil
}

// FindPayrollPeriod retrieves one payroll run.
func (r *PgxOperationalRepository) FindPayrollPeriod(ctx context.Context, tx pgx.Tx, tenantID, payrollID string) (*domain.PayrollPeriod, error) {
	query := `
		SELECT payroll_id, tenant_id, name, start_date, end_date, net_amount, status
		FROM payroll_periods
		WHERE tenant_id = $1 AND payroll_id = $2;
	`
	var p domain.PayrollPeriod
	err := tx.QueryRow(ctx, query, tenantID, payrollID).Scan(
		&p.PayrollID,
		&p.TenantID,
		&p.Name,
		&p.StartDate,
		&p.EndDate,
		&p.NetAmount,
		&p.Status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find payroll period "+payrollID, err)
	}
	return &p, nil
}

// MarkPayrollPaid flips a payroll run to PAID.
func (r *PgxOperationalRepository) MarkPayrollPaid(ctx context.Context, tx pgx.Tx, tenantID, payrollID string) error {
	query := `UPDATE payroll_periods SET status = 'PAID' WHERE tenant_id = $1 AND payroll_id = $2;`
	cmdTag, err := tx.Exec(ctx, query, tenantID, payrollID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark payroll paid "+payrollID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("payroll period " + payrollID + " not found for settlement")
	}
	return nil
}

// ListPayrollOverlapping returns APPROVED and PAID payroll runs whose range
// overlaps [start, end].
func (r *PgxOperationalRepository) ListPayrollOverlapping(ctx context.Context, tx pgx.Tx, tenantID string, start, end time.Time) ([]domain.PayrollPeriod, error) {
	query := `
		SELECT payroll_id, tenant_id, name, start_date, end_date, net_amount, status
		FROM payroll_periods
		WHERE tenant_id = $1 AND status IN ('APPROVED', 'PAID')
		  AND start_date <= $3 AND end_date >= $2
		ORDER BY start_date;
	`
	rows, err := tx.Query(ctx, query, tenantID, start, end)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query payroll periods", err)
	}
	defer rows.Close()

	periods := []domain.PayrollPeriod{}
	for rows.Next() {
		var p domain.PayrollPeriod
		if err := rows.Scan(
			&p.PayrollID,
			&p.TenantID,
			&p.Name,
			&p.StartDate,
			&p.EndDate,
			&p.NetAmount,
			&p.Status,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan payroll row", err)
		}
		periods = append(periods, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating payroll rows", err)
	}
	return periods, nil
}

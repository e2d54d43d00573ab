package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/core/domain"
)

// OperationalRepositoryFacade covers the slices of the operational tables
// the caller adapters and the payroll_posted check touch.
type OperationalRepositoryFacade interface {
	FindOrderFinance(ctx context.Context, tx pgx.Tx, tenantID, orderID string) (*domain.OrderFinance, error)
	// ApplyOrderPayment increases paid_amount and decreases balance_amount.
	ApplyOrderPayment(ctx context.Context, tx pgx.Tx, tenantID, orderID string, amount decimal.Decimal) error

	FindPurchaseOrder(ctx context.Context, tx pgx.Tx, tenantID, poID string) (*domain.PurchaseOrderFinance, error)
	// MarkPurchaseOrderPaid sets paid_amount = total_amount and status PAID.
	MarkPurchaseOrderPaid(ctx context.Context, tx pgx.Tx, tenantID, poID string) error

	FindPayrollPeriod(ctx context.Context, tx pgx.Tx, tenantID, payrollID string) (*domain.PayrollPeriod, error)
	MarkPayrollPaid(ctx context.Context, tx pgx.Tx, tenantID, payrollID string) error
	// ListPayrollOverlapping returns APPROVED and PAID payroll periods whose
	// range overlaps [start, end]; input of the payroll_posted check.
	ListPayrollOverlapping(ctx context.Context, tx pgx.Tx, tenantID string, start, end time.Time) ([]domain.PayrollPeriod, error)
}

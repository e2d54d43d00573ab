package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// The operational modules (orders, procurement, payroll) live outside the
// accounting core; these are the slices of their rows that the caller
// adapters read and update inside the caller's transaction.

// OrderFinance is the cash position of a catering order.
type OrderFinance struct {
	OrderID       string          `json:"orderID"`
	TenantID      string          `json:"tenantID"`
	OrderCode     string          `json:"orderCode"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	PaidAmount    decimal.Decimal `json:"paidAmount"`
	BalanceAmount decimal.Decimal `json:"balanceAmount"`
}

// PurchaseOrderFinance is the payable position of a purchase order.
type PurchaseOrderFinance struct {
	POID         string          `json:"poID"`
	TenantID     string          `json:"tenantID"`
	POCode       string          `json:"poCode"`
	SupplierName string          `json:"supplierName"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	PaidAmount   decimal.Decimal `json:"paidAmount"`
	Status       string          `json:"status"`
}

// PayrollStatus is the approval state of a payroll period.
type PayrollStatus string

const (
	PayrollDraft    PayrollStatus = "DRAFT"
	PayrollApproved PayrollStatus = "APPROVED"
	PayrollPaid     PayrollStatus = "PAID"
)

// PayrollPeriod is one payroll run. Approved runs overlapping an
// accounting period must have a POSTED journal before that period closes.
type PayrollPeriod struct {
	PayrollID string          `json:"payrollID"`
	TenantID  string          `json:"tenantID"`
	Name      string          `json:"name"`
	StartDate time.Time       `json:"startDate"`
	EndDate   time.Time       `json:"endDate"`
	NetAmount decimal.Decimal `json:"netAmount"`
	Status    PayrollStatus   `json:"status"`
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/core/domain"
)

// OrderPaymentEvent is the posting input for a recorded order payment.
// Date nil means today in the tenant's civil day.
type OrderPaymentEvent struct {
	PaymentID   string
	OrderID     string
	Amount      decimal.Decimal
	Method      domain.PaymentMethod
	Description string
	Date        *time.Time
}

// PurchaseOrderPaymentEvent is the posting input for a supplier payment.
type PurchaseOrderPaymentEvent struct {
	POID         string
	POCode       string
	Amount       decimal.Decimal
	SupplierName string
	Method       domain.PaymentMethod
	Date         *time.Time
}

// PayrollPostingEvent is the posting input for an approved payroll run.
type PayrollPostingEvent struct {
	PayrollID   string
	Amount      decimal.Decimal
	Method      domain.PaymentMethod
	Description string
	Date        *time.Time
}

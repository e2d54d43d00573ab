package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/core/domain"
)

// RecordOrderPaymentRequest records a customer payment against an order.
type RecordOrderPaymentRequest struct {
	PaymentID   string               `json:"paymentID" binding:"required"`
	Amount      decimal.Decimal      `json:"amount" binding:"required"`
	Method      domain.PaymentMethod `json:"method" binding:"required,paymentmethod"`
	Description string               `json:"description"`
	Date        *time.Time           `json:"date"`
}

// SettlePurchaseOrderRequest settles the outstanding balance of a purchase order.
type SettlePurchaseOrderRequest struct {
	Method domain.PaymentMethod `json:"method" binding:"required,paymentmethod"`
}

// PostPayrollRequest posts an approved payroll run.
type PostPayrollRequest struct {
	Method domain.PaymentMethod `json:"method" binding:"required,paymentmethod"`
}

// HookPostingResponse reports the accounting outcome of a business event.
// Journal is absent when the tenant's auto-journal toggle suppressed posting.
type HookPostingResponse struct {
	Journal *JournalResponse `json:"journal,omitempty"`
	Posted  bool             `json:"posted"`
}

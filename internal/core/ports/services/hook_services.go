package services

import (
	"context"

	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/core/domain"
	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/dto"
)

// FinanceHookSvcFacade is the thin shim the operational modules call when
// a business event needs accounting side effects. Each hook owns one
// transaction covering the operational update and the posting; failure
// rolls the whole business event back.
type FinanceHookSvcFacade interface {
	// OnOrderPaymentRecorded posts the receipt (when the tenant's
	// auto-journal toggle is on) and moves the order's paid/balance amounts
	// in the same transaction. Returns nil journal when posting is toggled off.
	OnOrderPaymentRecorded(ctx context.Context, tenantID string, event dto.OrderPaymentEvent, userID string) (*domain.Journal, error)
	// OnPurchaseOrderPaid posts the supplier disbursement and settles the
	// PO's paid amount.
	OnPurchaseOrderPaid(ctx context.Context, tenantID, poID string, method domain.PaymentMethod, userID string) (*domain.Journal, error)
	// OnPayrollApproved posts the full net amount of an APPROVED payroll
	// period once and marks it PAID.
	OnPayrollApproved(ctx context.Context, tenantID, payrollID string, method domain.PaymentMethod, userID string) (*domain.Journal, error)
}

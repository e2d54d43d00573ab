package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/apperrors"
	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/core/domain"
	portsrepo "github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/core/ports/repositories"
	portssvc "github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/core/ports/services"
	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/dto"
	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/middleware"
)

// FinanceHookService is the shim the operational modules call when a
// business event needs accounting side effects. Each hook opens one
// transaction covering the operational update and the posting, so a
// failure in either rolls the whole event back.
type FinanceHookService struct {
	txManager       portsrepo.TxManager
	operationalRepo portsrepo.OperationalRepositoryFacade
	postingSvc      portssvc.PostingSvcFacade
	settingSvc      portssvc.SettingSvcFacade
	tenantSvc       portssvc.TenantSvcFacade
}

// NewFinanceHookService creates a new FinanceHookService.
func NewFinanceHookService(txManager portsrepo.TxManager, operationalRepo portsrepo.OperationalRepositoryFacade, postingSvc portssvc.PostingSvcFacade, settingSvc portssvc.SettingSvcFacade, tenantSvc portssvc.TenantSvcFacade) portssvc.FinanceHookSvcFacade {
	return &FinanceHookService{
		txManager:       txManager,
		operationalRepo: operationalRepo,
		postingSvc:      postingSvc,
		settingSvc:      settingSvc,
		tenantSvc:       tenantSvc,
	}
}

var _ portssvc.FinanceHookSvcFacade = (*FinanceHookService)(nil)

// OnOrderPaymentRecorded applies the payment to the order and, when the
// tenant's auto-journal toggle is on, posts the receipt in the same
// transaction. Returns nil journal when posting is toggled off.
func (s *FinanceHookService) OnOrderPaymentRecorded(ctx context.Context, tenantID string, event dto.OrderPaymentEvent, userID string) (*domain.Journal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.tenantSvc.EnsureWritable(ctx, tenantID); err != nil {
		return nil, err
	}
	if !event.Amount.IsPositive() {
		return nil, apperrors.ErrNonPositiveAmount
	}

	var journal *domain.Journal
	err := s.txManager.WithTenantTx(ctx, tenantID, func(tx pgx.Tx) error {
		order, err := s.operationalRepo.FindOrderFinance(ctx, tx, tenantID, event.OrderID)
		if err != nil {
			return err
		}
		if err := s.operationalRepo.ApplyOrderPayment(ctx, tx, tenantID, event.OrderID, event.Amount); err != nil {
			return err
		}

		bag, err := s.settingSvc.LoadTx(ctx, tx, tenantID)
		if err != nil {
			return err
		}
		if !bag.GetBool(domain.SettingAutoJournalOnPayment, true) {
			logger.Info("Auto journal disabled, payment recorded without posting",
				slog.String("order_id", event.OrderID), slog.String("order_code", order.OrderCode))
			return nil
		}

		if event.Description == "" {
			event.Description = fmt.Sprintf("Thu tiền đơn hàng #%s", order.OrderCode)
		}
		journal, err = s.postingSvc.PostOrderPayment(ctx, tx, tenantID, event, userID)
		return err
	})
	if err != nil {
		logger.Warn("Failed to record order payment", slog.String("error", err.Error()), slog.String("order_id", event.OrderID))
		return nil, err
	}
	return journal, nil
}

// OnPurchaseOrderPaid posts the outstanding balance of a purchase order as
// a supplier disbursement and settles the row.
func (s *FinanceHookService) OnPurchaseOrderPaid(ctx context.Context, tenantID, poID string, method domain.PaymentMethod, userID string) (*domain.Journal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.tenantSvc.EnsureWritable(ctx, tenantID); err != nil {
		return nil, err
	}

	var journal *domain.Journal
	err := s.txManager.WithTenantTx(ctx, tenantID, func(tx pgx.Tx) error {
		po, err := s.operationalRepo.FindPurchaseOrder(ctx, tx, tenantID, poID)
		if err != nil {
			return err
		}
		outstanding := po.TotalAmount.Sub(po.PaidAmount)
		if !outstanding.IsPositive() {
			return fmt.Errorf("%w: purchase order %s has no outstanding balance", apperrors.ErrNonPositiveAmount, po.POCode)
		}

		journal, err = s.postingSvc.PostPurchaseOrderPayment(ctx, tx, tenantID, dto.PurchaseOrderPaymentEvent{
			POID:         po.POID,
			POCode:       po.POCode,
			Amount:       outstanding,
			SupplierName: po.SupplierName,
			Method:       method,
		}, userID)
		if err != nil {
			return err
		}
		return s.operationalRepo.MarkPurchaseOrderPaid(ctx, tx, tenantID, poID)
	})
	if err != nil {
		logger.Warn("Failed to settle purchase order", slog.String("error", err.Error()), slog.String("po_id", poID))
		return nil, err
	}
	return journal, nil
}

// OnPayrollApproved posts the full net amount of an APPROVED payroll run
// once and marks it PAID.
func (s *FinanceHookService) OnPayrollApproved(ctx context.Context, tenantID, payrollID string, method domain.PaymentMethod, userID string) (*domain.Journal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.tenantSvc.EnsureWritable(ctx, tenantID); err != nil {
		return nil, err
	}

	var journal *domain.Journal
	err := s.txManager.WithTenantTx(ctx, tenantID, func(tx pgx.Tx) error {
		payroll, err := s.operationalRepo.FindPayrollPeriod(ctx, tx, tenantID, payrollID)
		if err != nil {
			return err
		}
		if payroll.Status == domain.PayrollDraft {
			return fmt.Errorf("%w: payroll period %s is not approved", apperrors.ErrIllegalTransition, payroll.Name)
		}

		journal, err = s.postingSvc.PostPayroll(ctx, tx, tenantID, dto.PayrollPostingEvent{
			PayrollID:   payroll.PayrollID,
			Amount:      payroll.NetAmount,
			Method:      method,
			Description: fmt.Sprintf("Chi lương kỳ #%s", payroll.Name),
		}, userID)
		if err != nil {
			return err
		}
		if payroll.Status == domain.PayrollApproved {
			return s.operationalRepo.MarkPayrollPaid(ctx, tx, tenantID, payrollID)
		}
		return nil
	})
	if err != nil {
		logger.Warn("Failed to post payroll", slog.String("error", err.Error()), slog.String("payroll_id", payrollID))
		return nil, err
	}
	return journal, nil
}

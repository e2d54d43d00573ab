package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/apperrors"
	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/core/domain"
	portssvc "github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/core/ports/services"
	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/core/services"
	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/dto"
)

type FinanceHookServiceTestSuite struct {
	suite.Suite
	mockOperationalRepo *MockOperationalRepository
	mockPostingSvc      *MockPostingService
	mockSettingSvc      *MockSettingService
	mockTenantSvc       *MockTenantService
	service             portssvc.FinanceHookSvcFacade
	tenantID            string
	userID              string
}

func (suite *FinanceHookServiceTestSuite) SetupTest() {
	suite.mockOperationalRepo = new(MockOperationalRepository)
	suite.mockPostingSvc = new(MockPostingService)
	suite.mockSettingSvc = new(MockSettingService)
	suite.mockTenantSvc = new(MockTenantService)
	suite.service = services.NewFinanceHookService(newStubTxManager(), suite.mockOperationalRepo, suite.mockPostingSvc, suite.mockSettingSvc, suite.mockTenantSvc)

	suite.tenantID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func autoJournalBag(enabled string) domain.SettingsBag {
	return domain.SettingsBag{
		domain.SettingAutoJournalOnPayment: domain.TenantSetting{
			SettingKey:  domain.SettingAutoJournalOnPayment,
			Value:       enabled,
			SettingType: domain.SettingBoolean,
		},
	}
}

func (suite *FinanceHookServiceTestSuite) TestOnOrderPaymentRecorded_PostsReceipt() {
	ctx := context.Background()
	orderID := uuid.NewString()
	amount := decimal.NewFromInt(750000)
	order := &domain.OrderFinance{
		OrderID:       orderID,
		TenantID:      suite.tenantID,
		OrderCode:     "DH-0101",
		TotalAmount:   decimal.NewFromInt(1000000),
		PaidAmount:    decimal.Zero,
		BalanceAmount: decimal.NewFromInt(1000000),
	}
	posted := &domain.Journal{JournalID: uuid.NewString(), Status: domain.Posted}

	suite.mockTenantSvc.On("EnsureWritable", ctx, suite.tenantID).Return(nil).Once()
	suite.mockOperationalRepo.On("FindOrderFinance", ctx, mock.Anything, suite.tenantID, orderID).Return(order, nil).Once()
	suite.mockOperationalRepo.On("ApplyOrderPayment", ctx, mock.Anything, suite.tenantID, orderID, amount).Return(nil).Once()
	suite.mockSettingSvc.On("LoadTx", ctx, mock.Anything, suite.tenantID).Return(autoJournalBag("true"), nil).Once()
	suite.mockPostingSvc.On("PostOrderPayment", ctx, mock.Anything, suite.tenantID, mock.MatchedBy(func(event dto.OrderPaymentEvent) bool {
		return event.Description == "Thu tiền đơn hàng #DH-0101" && event.Amount.Equal(amount)
	}), suite.userID).Return(posted, nil).Once()

	journal, err := suite.service.OnOrderPaymentRecorded(ctx, suite.tenantID, dto.OrderPaymentEvent{
		PaymentID: uuid.NewString(),
		OrderID:   orderID,
		Amount:    amount,
		Method:    domain.MethodCash,
	}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(posted.JournalID, journal.JournalID)
	suite.mockOperationalRepo.AssertExpectations(suite.T())
	suite.mockPostingSvc.AssertExpectations(suite.T())
}

func (suite *FinanceHookServiceTestSuite) TestOnOrderPaymentRecorded_ToggleOffSkipsPosting() {
	ctx := context.Background()
	orderID := uuid.NewString()
	amount := decimal.NewFromInt(100)
	order := &domain.OrderFinance{OrderID: orderID, TenantID: suite.tenantID, OrderCode: "DH-0102"}

	suite.mockTenantSvc.On("EnsureWritable", ctx, suite.tenantID).Return(nil).Once()
	suite.mockOperationalRepo.On("FindOrderFinance", ctx, mock.Anything, suite.tenantID, orderID).Return(order, nil).Once()
	suite.mockOperationalRepo.On("ApplyOrderPayment", ctx, mock.Anything, suite.tenantID, orderID, amount).Return(nil).Once()
	suite.mockSettingSvc.On("LoadTx", ctx, mock.Anything, suite.tenantID).Return(autoJournalBag("false"), nil).Once()

	journal, err := suite.service.OnOrderPaymentRecorded(ctx, suite.tenantID, dto.OrderPaymentEvent{
		PaymentID: uuid.NewString(),
		OrderID:   orderID,
		Amount:    amount,
		Method:    domain.MethodCash,
	}, suite.userID)

	suite.Require().NoError(err)
	suite.Nil(journal)
	suite.mockPostingSvc.AssertNotCalled(suite.T(), "PostOrderPayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockOperationalRepo.AssertExpectations(suite.T())
}

func (suite *FinanceHookServiceTestSuite) TestOnOrderPaymentRecorded_NonPositiveAmount() {
	ctx := context.Background()

	suite.mockTenantSvc.On("EnsureWritable", ctx, suite.tenantID).Return(nil).Once()

	_, err := suite.service.OnOrderPaymentRecorded(ctx, suite.tenantID, dto.OrderPaymentEvent{
		PaymentID: uuid.NewString(),
		OrderID:   uuid.NewString(),
		Amount:    decimal.NewFromInt(-5),
		Method:    domain.MethodCash,
	}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNonPositiveAmount)
	suite.mockOperationalRepo.AssertNotCalled(suite.T(), "FindOrderFinance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *FinanceHookServiceTestSuite) TestOnOrderPaymentRecorded_SuspendedTenant() {
	ctx := context.Background()

	suite.mockTenantSvc.On("EnsureWritable", ctx, suite.tenantID).Return(apperrors.ErrForbidden).Once()

	_, err := suite.service.OnOrderPaymentRecorded(ctx, suite.tenantID, dto.OrderPaymentEvent{
		PaymentID: uuid.NewString(),
		OrderID:   uuid.NewString(),
		Amount:    decimal.NewFromInt(100),
		Method:    domain.MethodCash,
	}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *FinanceHookServiceTestSuite) TestOnPurchaseOrderPaid_PostsOutstanding() {
	ctx := context.Background()
	poID := uuid.NewString()
	po := &domain.PurchaseOrderFinance{
		POID:         poID,
		TenantID:     suite.tenantID,
		POCode:       "PO-2026-020",
		SupplierName: "NCC Hải sản Minh Phú",
		TotalAmount:  decimal.NewFromInt(5000000),
		PaidAmount:   decimal.NewFromInt(2000000),
		Status:       "APPROVED",
	}
	posted := &domain.Journal{JournalID: uuid.NewString(), Status: domain.Posted}

	suite.mockTenantSvc.On("EnsureWritable", ctx, suite.tenantID).Return(nil).Once()
	suite.mockOperationalRepo.On("FindPurchaseOrder", ctx, mock.Anything, suite.tenantID, poID).Return(po, nil).Once()
	suite.mockPostingSvc.On("PostPurchaseOrderPayment", ctx, mock.Anything, suite.tenantID, mock.MatchedBy(func(event dto.PurchaseOrderPaymentEvent) bool {
		return event.Amount.Equal(decimal.NewFromInt(3000000)) && event.POCode == po.POCode
	}), suite.userID).Return(posted, nil).Once()
	suite.mockOperationalRepo.On("MarkPurchaseOrderPaid", ctx, mock.Anything, suite.tenantID, poID).Return(nil).Once()

	journal, err := suite.service.OnPurchaseOrderPaid(ctx, suite.tenantID, poID, domain.MethodBankTransfer, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(posted.JournalID, journal.JournalID)
	suite.mockOperationalRepo.AssertExpectations(suite.T())
	suite.mockPostingSvc.AssertExpectations(suite.T())
}

func (suite *FinanceHookServiceTestSuite) TestOnPurchaseOrderPaid_NothingOutstanding() {
	ctx := context.Background()
	poID := uuid.NewString()
	po := &domain.PurchaseOrderFinance{
		POID:        poID,
		TenantID:    suite.tenantID,
		POCode:      "PO-2026-021",
		TotalAmount: decimal.NewFromInt(1000),
		PaidAmount:  decimal.NewFromInt(1000),
		Status:      "PAID",
	}

	suite.mockTenantSvc.On("EnsureWritable", ctx, suite.tenantID).Return(nil).Once()
	suite.mockOperationalRepo.On("FindPurchaseOrder", ctx, mock.Anything, suite.tenantID, poID).Return(po, nil).Once()

	_, err := suite.service.OnPurchaseOrderPaid(ctx, suite.tenantID, poID, domain.MethodCash, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNonPositiveAmount)
	suite.mockPostingSvc.AssertNotCalled(suite.T(), "PostPurchaseOrderPayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *FinanceHookServiceTestSuite) TestOnPayrollApproved_PostsAndMarksPaid() {
	ctx := context.Background()
	payrollID := uuid.NewString()
	payroll := &domain.PayrollPeriod{
		PayrollID: payrollID,
		TenantID:  suite.tenantID,
		Name:      "Tháng 6/2026",
		NetAmount: decimal.NewFromInt(48000000),
		Status:    domain.PayrollApproved,
	}
	posted := &domain.Journal{JournalID: uuid.NewString(), Status: domain.Posted}

	suite.mockTenantSvc.On("EnsureWritable", ctx, suite.tenantID).Return(nil).Once()
	suite.mockOperationalRepo.On("FindPayrollPeriod", ctx, mock.Anything, suite.tenantID, payrollID).Return(payroll, nil).Once()
	suite.mockPostingSvc.On("PostPayroll", ctx, mock.Anything, suite.tenantID, mock.MatchedBy(func(event dto.PayrollPostingEvent) bool {
		return event.Amount.Equal(payroll.NetAmount) && event.Description == "Chi lương kỳ #Tháng 6/2026"
	}), suite.userID).Return(posted, nil).Once()
	suite.mockOperationalRepo.On("MarkPayrollPaid", ctx, mock.Anything, suite.tenantID, payrollID).Return(nil).Once()

	journal, err := suite.service.OnPayrollApproved(ctx, suite.tenantID, payrollID, domain.MethodBankTransfer, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(posted.JournalID, journal.JournalID)
	suite.mockOperationalRepo.AssertExpectations(suite.T())
}

func (suite *FinanceHookServiceTestSuite) TestOnPayrollApproved_DraftRejected() {
	ctx := context.Background()
	payrollID := uuid.NewString()
	payroll := &domain.PayrollPeriod{
		PayrollID: payrollID,
		TenantID:  suite.tenantID,
		Name:      "Tháng 7/2026",
		Status:    domain.PayrollDraft,
	}

	suite.mockTenantSvc.On("EnsureWritable", ctx, suite.tenantID).Return(nil).Once()
	suite.mockOperationalRepo.On("FindPayrollPeriod", ctx, mock.Anything, suite.tenantID, payrollID).Return(payroll, nil).Once()

	_, err := suite.service.OnPayrollApproved(ctx, suite.tenantID, payrollID, domain.MethodCash, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrIllegalTransition)
	suite.mockPostingSvc.AssertNotCalled(suite.T(), "PostPayroll", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *FinanceHookServiceTestSuite) TestOnPayrollApproved_AlreadyPaidSkipsMark() {
	ctx := context.Background()
	payrollID := uuid.NewString()
	payroll := &domain.PayrollPeriod{
		PayrollID: payrollID,
		TenantID:  suite.tenantID,
		Name:      "Tháng 5/2026",
		NetAmount: decimal.NewFromInt(40000000),
		Status:    domain.PayrollPaid,
	}
	existing := &domain.Journal{JournalID: uuid.NewString(), Status: domain.Posted}

	suite.mockTenantSvc.On("EnsureWritable", ctx, suite.tenantID).Return(nil).Once()
	suite.mockOperationalRepo.On("FindPayrollPeriod", ctx, mock.Anything, suite.tenantID, payrollID).Return(payroll, nil).Once()
	// The posting layer is idempotent on the payroll reference and returns
	// the earlier journal.
	suite.mockPostingSvc.On("PostPayroll", ctx, mock.Anything, suite.tenantID, mock.Anything, suite.userID).Return(existing, nil).Once()

	journal, err := suite.service.OnPayrollApproved(ctx, suite.tenantID, payrollID, domain.MethodBankTransfer, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(existing.JournalID, journal.JournalID)
	suite.mockOperationalRepo.AssertNotCalled(suite.T(), "MarkPayrollPaid", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFinanceHookService(t *testing.T) {
	suite.Run(t, new(FinanceHookServiceTestSuite))
}

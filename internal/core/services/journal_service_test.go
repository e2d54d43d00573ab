package services_test

import (
	"context"
	"testing"
	"time"

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

type JournalServiceTestSuite struct {
	suite.Suite
	mockJournalRepo *MockJournalRepository
	mockAccountRepo *MockAccountRepository
	mockPeriodSvc   *MockPeriodService
	service         portssvc.JournalSvcFacade
	tenantID        string
	userID          string
	cashAccount     domain.Account
	revenueAccount  domain.Account
}

func (suite *JournalServiceTestSuite) SetupTest() {
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockPeriodSvc = new(MockPeriodService)
	suite.service = services.NewJournalService(newStubTxManager(), suite.mockJournalRepo, suite.mockAccountRepo, suite.mockPeriodSvc)

	suite.tenantID = uuid.NewString()
	suite.userID = uuid.NewString()
	suite.cashAccount = domain.Account{
		AccountID:   uuid.NewString(),
		TenantID:    suite.tenantID,
		Code:        domain.AccountCodeCash,
		AccountType: domain.Asset,
		IsActive:    true,
	}
	suite.revenueAccount = domain.Account{
		AccountID:   uuid.NewString(),
		TenantID:    suite.tenantID,
		Code:        domain.AccountCodeSalesRevenue,
		AccountType: domain.Revenue,
		IsActive:    true,
	}
}

func (suite *JournalServiceTestSuite) balancedRequest(amount int64) dto.CreateJournalRequest {
	return dto.CreateJournalRequest{
		Kind:        domain.KindReceipt,
		Date:        time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC),
		Description: "Thu tiền bán hàng",
		Lines: []dto.CreateJournalLineRequest{
			{AccountCode: domain.AccountCodeCash, Debit: decimal.NewFromInt(amount)},
			{AccountCode: domain.AccountCodeSalesRevenue, Credit: decimal.NewFromInt(amount)},
		},
	}
}

func (suite *JournalServiceTestSuite) TestCreateDraftJournal_Success() {
	ctx := context.Background()
	req := suite.balancedRequest(500)

	suite.mockPeriodSvc.On("EnsurePostable", ctx, mock.Anything, suite.tenantID, req.Date).Return(nil).Once()
	suite.mockAccountRepo.On("FindAccountByCode", ctx, mock.Anything, suite.tenantID, domain.AccountCodeCash).Return(&suite.cashAccount, nil).Once()
	suite.mockAccountRepo.On("FindAccountByCode", ctx, mock.Anything, suite.tenantID, domain.AccountCodeSalesRevenue).Return(&suite.revenueAccount, nil).Once()
	suite.mockJournalRepo.On("CountJournalsByKindAndMonth", ctx, mock.Anything, suite.tenantID, domain.KindReceipt, 2026, time.March).Return(4, nil).Once()
	suite.mockJournalRepo.On("SaveJournal", ctx, mock.Anything, mock.AnythingOfType("domain.Journal")).Return(nil).Once()

	journal, err := suite.service.CreateDraftJournal(ctx, suite.tenantID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(journal)
	suite.Equal("THU-202603-005", journal.Code)
	suite.Equal(domain.Draft, journal.Status)
	suite.Equal(domain.RefManual, journal.ReferenceType)
	suite.True(journal.TotalAmount.Equal(decimal.NewFromInt(500)))
	suite.Len(journal.Lines, 2)
	suite.Equal(suite.cashAccount.AccountID, journal.Lines[0].AccountID)
	suite.Equal(suite.revenueAccount.AccountID, journal.Lines[1].AccountID)
	suite.mockJournalRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
	suite.mockPeriodSvc.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestCreateDraftJournal_Unbalanced() {
	ctx := context.Background()
	req := suite.balancedRequest(500)
	req.Lines[1].Credit = decimal.NewFromInt(400)

	suite.mockPeriodSvc.On("EnsurePostable", ctx, mock.Anything, suite.tenantID, req.Date).Return(nil).Once()
	suite.mockAccountRepo.On("FindAccountByCode", ctx, mock.Anything, suite.tenantID, domain.AccountCodeCash).Return(&suite.cashAccount, nil).Once()
	suite.mockAccountRepo.On("FindAccountByCode", ctx, mock.Anything, suite.tenantID, domain.AccountCodeSalesRevenue).Return(&suite.revenueAccount, nil).Once()

	_, err := suite.service.CreateDraftJournal(ctx, suite.tenantID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnbalancedEntry)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveJournal", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateDraftJournal_UnknownAccountCode() {
	ctx := context.Background()
	req := suite.balancedRequest(500)
	req.Lines[0].AccountCode = "999"

	suite.mockPeriodSvc.On("EnsurePostable", ctx, mock.Anything, suite.tenantID, req.Date).Return(nil).Once()
	suite.mockAccountRepo.On("FindAccountByCode", ctx, mock.Anything, suite.tenantID, "999").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CreateDraftJournal(ctx, suite.tenantID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *JournalServiceTestSuite) TestCreateDraftJournal_PeriodClosed() {
	ctx := context.Background()
	req := suite.balancedRequest(500)

	suite.mockPeriodSvc.On("EnsurePostable", ctx, mock.Anything, suite.tenantID, req.Date).Return(apperrors.ErrPeriodClosed).Once()

	_, err := suite.service.CreateDraftJournal(ctx, suite.tenantID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrPeriodClosed)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindAccountByCode", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveJournal", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateDraftJournal_CodeCollisionRetriesOnce() {
	ctx := context.Background()
	req := suite.balancedRequest(200)

	suite.mockPeriodSvc.On("EnsurePostable", ctx, mock.Anything, suite.tenantID, req.Date).Return(nil).Once()
	suite.mockAccountRepo.On("FindAccountByCode", ctx, mock.Anything, suite.tenantID, domain.AccountCodeCash).Return(&suite.cashAccount, nil).Once()
	suite.mockAccountRepo.On("FindAccountByCode", ctx, mock.Anything, suite.tenantID, domain.AccountCodeSalesRevenue).Return(&suite.revenueAccount, nil).Once()
	suite.mockJournalRepo.On("CountJournalsByKindAndMonth", ctx, mock.Anything, suite.tenantID, domain.KindReceipt, 2026, time.March).Return(4, nil).Once()
	// Another transaction took THU-202603-005 in between.
	suite.mockJournalRepo.On("SaveJournal", ctx, mock.Anything, mock.MatchedBy(func(j domain.Journal) bool {
		return j.Code == "THU-202603-005"
	})).Return(apperrors.ErrDuplicate).Once()
	suite.mockJournalRepo.On("CountJournalsByKindAndMonth", ctx, mock.Anything, suite.tenantID, domain.KindReceipt, 2026, time.March).Return(5, nil).Once()
	suite.mockJournalRepo.On("SaveJournal", ctx, mock.Anything, mock.MatchedBy(func(j domain.Journal) bool {
		return j.Code == "THU-202603-006"
	})).Return(nil).Once()

	journal, err := suite.service.CreateDraftJournal(ctx, suite.tenantID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal("THU-202603-006", journal.Code)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestCreateDraftJournal_SecondCollisionFails() {
	ctx := context.Background()
	req := suite.balancedRequest(200)

	suite.mockPeriodSvc.On("EnsurePostable", ctx, mock.Anything, suite.tenantID, req.Date).Return(nil).Once()
	suite.mockAccountRepo.On("FindAccountByCode", ctx, mock.Anything, suite.tenantID, mock.Anything).Return(&suite.cashAccount, nil).Twice()
	suite.mockJournalRepo.On("CountJournalsByKindAndMonth", ctx, mock.Anything, suite.tenantID, domain.KindReceipt, 2026, time.March).Return(4, nil).Twice()
	suite.mockJournalRepo.On("SaveJournal", ctx, mock.Anything, mock.Anything).Return(apperrors.ErrDuplicate).Twice()

	_, err := suite.service.CreateDraftJournal(ctx, suite.tenantID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrCodeConflict)
}

func (suite *JournalServiceTestSuite) TestUpdateDraftJournal_Success() {
	ctx := context.Background()
	journalID := uuid.NewString()
	draft := &domain.Journal{
		JournalID:   journalID,
		TenantID:    suite.tenantID,
		Code:        "JNL-202603-002",
		Kind:        domain.KindGeneral,
		JournalDate: time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC),
		Description: "Bút toán điều chỉnh",
		Status:      domain.Draft,
	}
	req := dto.UpdateJournalRequest{
		Date:        time.Date(2026, time.March, 20, 0, 0, 0, 0, time.UTC),
		Description: "Bút toán điều chỉnh kho",
	}
	lines := []domain.JournalLine{
		{LineID: uuid.NewString(), JournalID: journalID, Debit: decimal.NewFromInt(100)},
		{LineID: uuid.NewString(), JournalID: journalID, Credit: decimal.NewFromInt(100)},
	}

	suite.mockJournalRepo.On("FindJournalByID", ctx, mock.Anything, suite.tenantID, journalID).Return(draft, nil).Once()
	suite.mockPeriodSvc.On("EnsurePostable", ctx, mock.Anything, suite.tenantID, req.Date).Return(nil).Once()
	suite.mockJournalRepo.On("UpdateDraftJournal", ctx, mock.Anything, mock.MatchedBy(func(j domain.Journal) bool {
		return j.JournalDate.Equal(req.Date) && j.Description == req.Description && j.LastUpdatedBy == suite.userID
	})).Return(nil).Once()
	suite.mockJournalRepo.On("FindLinesByJournalID", ctx, mock.Anything, suite.tenantID, journalID).Return(lines, nil).Once()

	journal, err := suite.service.UpdateDraftJournal(ctx, suite.tenantID, journalID, req, suite.userID)

	suite.Require().NoError(err)
	suite.True(journal.JournalDate.Equal(req.Date))
	suite.Equal(req.Description, journal.Description)
	suite.Len(journal.Lines, 2)
	suite.mockJournalRepo.AssertExpectations(suite.T())
	suite.mockPeriodSvc.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestUpdateDraftJournal_PostedRejected() {
	ctx := context.Background()
	journalID := uuid.NewString()
	posted := &domain.Journal{JournalID: journalID, TenantID: suite.tenantID, Status: domain.Posted}
	req := dto.UpdateJournalRequest{
		Date:        time.Date(2026, time.March, 20, 0, 0, 0, 0, time.UTC),
		Description: "x",
	}

	suite.mockJournalRepo.On("FindJournalByID", ctx, mock.Anything, suite.tenantID, journalID).Return(posted, nil).Once()

	_, err := suite.service.UpdateDraftJournal(ctx, suite.tenantID, journalID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrIllegalTransition)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "UpdateDraftJournal", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestUpdateDraftJournal_PeriodClosed() {
	ctx := context.Background()
	journalID := uuid.NewString()
	draft := &domain.Journal{
		JournalID:   journalID,
		TenantID:    suite.tenantID,
		JournalDate: time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC),
		Status:      domain.Draft,
	}
	req := dto.UpdateJournalRequest{
		Date:        time.Date(2026, time.February, 5, 0, 0, 0, 0, time.UTC),
		Description: "dời về kỳ đã đóng",
	}

	suite.mockJournalRepo.On("FindJournalByID", ctx, mock.Anything, suite.tenantID, journalID).Return(draft, nil).Once()
	suite.mockPeriodSvc.On("EnsurePostable", ctx, mock.Anything, suite.tenantID, req.Date).Return(apperrors.ErrPeriodClosed).Once()

	_, err := suite.service.UpdateDraftJournal(ctx, suite.tenantID, journalID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrPeriodClosed)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "UpdateDraftJournal", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestPostJournal_Success() {
	ctx := context.Background()
	journalID := uuid.NewString()
	draft := &domain.Journal{
		JournalID:   journalID,
		TenantID:    suite.tenantID,
		Code:        "JNL-202603-001",
		Kind:        domain.KindGeneral,
		JournalDate: time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC),
		Status:      domain.Draft,
	}

	suite.mockJournalRepo.On("FindJournalByID", ctx, mock.Anything, suite.tenantID, journalID).Return(draft, nil).Once()
	suite.mockPeriodSvc.On("EnsurePostable", ctx, mock.Anything, suite.tenantID, draft.JournalDate).Return(nil).Once()
	suite.mockJournalRepo.On("MarkJournalPosted", ctx, mock.Anything, suite.tenantID, journalID, mock.AnythingOfType("time.Time"), suite.userID).Return(nil).Once()

	journal, err := suite.service.PostJournal(ctx, suite.tenantID, journalID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.Posted, journal.Status)
	suite.Equal(suite.userID, journal.PostedBy)
	suite.Require().NotNil(journal.PostedAt)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestPostJournal_AlreadyPosted() {
	ctx := context.Background()
	journalID := uuid.NewString()
	posted := &domain.Journal{JournalID: journalID, TenantID: suite.tenantID, Status: domain.Posted}

	suite.mockJournalRepo.On("FindJournalByID", ctx, mock.Anything, suite.tenantID, journalID).Return(posted, nil).Once()

	_, err := suite.service.PostJournal(ctx, suite.tenantID, journalID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrIllegalTransition)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "MarkJournalPosted", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestReverseJournal_Success() {
	ctx := context.Background()
	journalID := uuid.NewString()
	amount := decimal.NewFromInt(300)
	original := &domain.Journal{
		JournalID:   journalID,
		TenantID:    suite.tenantID,
		Code:        "THU-202603-002",
		Kind:        domain.KindReceipt,
		JournalDate: time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC),
		TotalAmount: amount,
		Status:      domain.Posted,
	}
	originalLines := []domain.JournalLine{
		{LineID: uuid.NewString(), JournalID: journalID, AccountID: suite.cashAccount.AccountID, Debit: amount},
		{LineID: uuid.NewString(), JournalID: journalID, AccountID: suite.revenueAccount.AccountID, Credit: amount},
	}
	reversalDate := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)

	suite.mockJournalRepo.On("FindJournalByID", ctx, mock.Anything, suite.tenantID, journalID).Return(original, nil).Once()
	suite.mockPeriodSvc.On("EnsurePostable", ctx, mock.Anything, suite.tenantID, reversalDate).Return(nil).Once()
	suite.mockJournalRepo.On("FindLinesByJournalID", ctx, mock.Anything, suite.tenantID, journalID).Return(originalLines, nil).Once()
	suite.mockJournalRepo.On("CountJournalsByKindAndMonth", ctx, mock.Anything, suite.tenantID, domain.KindReceipt, 2026, time.April).Return(0, nil).Once()
	suite.mockJournalRepo.On("SaveJournal", ctx, mock.Anything, mock.AnythingOfType("domain.Journal")).Return(nil).Once()
	suite.mockJournalRepo.On("MarkJournalsReversed", ctx, mock.Anything, suite.tenantID, journalID, mock.AnythingOfType("string"), suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	reversing, err := suite.service.ReverseJournal(ctx, suite.tenantID, journalID, &reversalDate, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(reversing)
	suite.Equal("THU-202604-001", reversing.Code)
	suite.Equal(domain.Reversed, reversing.Status)
	suite.Equal("Bút toán đảo: THU-202603-002", reversing.Description)
	suite.Require().NotNil(reversing.ReversedJournalID)
	suite.Equal(journalID, *reversing.ReversedJournalID)
	// Lines are mirrored: the cash debit becomes a credit and vice versa.
	suite.Require().Len(reversing.Lines, 2)
	suite.True(reversing.Lines[0].Credit.Equal(amount))
	suite.True(reversing.Lines[1].Debit.Equal(amount))
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestReverseJournal_NotPosted() {
	ctx := context.Background()
	journalID := uuid.NewString()
	draft := &domain.Journal{JournalID: journalID, TenantID: suite.tenantID, Status: domain.Draft}

	suite.mockJournalRepo.On("FindJournalByID", ctx, mock.Anything, suite.tenantID, journalID).Return(draft, nil).Once()

	_, err := suite.service.ReverseJournal(ctx, suite.tenantID, journalID, nil, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrIllegalTransition)
}

func (suite *JournalServiceTestSuite) TestDeleteDraftJournal_Success() {
	ctx := context.Background()
	journalID := uuid.NewString()
	draft := &domain.Journal{
		JournalID:   journalID,
		TenantID:    suite.tenantID,
		JournalDate: time.Date(2026, time.March, 20, 0, 0, 0, 0, time.UTC),
		Status:      domain.Draft,
	}

	suite.mockJournalRepo.On("FindJournalByID", ctx, mock.Anything, suite.tenantID, journalID).Return(draft, nil).Once()
	suite.mockPeriodSvc.On("EnsurePostable", ctx, mock.Anything, suite.tenantID, draft.JournalDate).Return(nil).Once()
	suite.mockJournalRepo.On("DeleteDraftJournal", ctx, mock.Anything, suite.tenantID, journalID).Return(nil).Once()

	err := suite.service.DeleteDraftJournal(ctx, suite.tenantID, journalID, suite.userID)

	suite.Require().NoError(err)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestDeleteDraftJournal_PostedRejected() {
	ctx := context.Background()
	journalID := uuid.NewString()
	posted := &domain.Journal{JournalID: journalID, TenantID: suite.tenantID, Status: domain.Posted}

	suite.mockJournalRepo.On("FindJournalByID", ctx, mock.Anything, suite.tenantID, journalID).Return(posted, nil).Once()

	err := suite.service.DeleteDraftJournal(ctx, suite.tenantID, journalID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrIllegalTransition)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "DeleteDraftJournal", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestGetJournalByID_IncludesLines() {
	ctx := context.Background()
	journalID := uuid.NewString()
	journal := &domain.Journal{JournalID: journalID, TenantID: suite.tenantID, Status: domain.Posted}
	lines := []domain.JournalLine{{LineID: uuid.NewString(), JournalID: journalID}}

	suite.mockJournalRepo.On("FindJournalByID", ctx, mock.Anything, suite.tenantID, journalID).Return(journal, nil).Once()
	suite.mockJournalRepo.On("FindLinesByJournalID", ctx, mock.Anything, suite.tenantID, journalID).Return(lines, nil).Once()

	got, err := suite.service.GetJournalByID(ctx, suite.tenantID, journalID)

	suite.Require().NoError(err)
	suite.Len(got.Lines, 1)
}

func (suite *JournalServiceTestSuite) TestGetJournalByID_NotFound() {
	ctx := context.Background()
	journalID := uuid.NewString()

	suite.mockJournalRepo.On("FindJournalByID", ctx, mock.Anything, suite.tenantID, journalID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetJournalByID(ctx, suite.tenantID, journalID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestJournalService(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}

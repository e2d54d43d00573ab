package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/apperrors"
	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/core/domain"
	portsrepo "github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/core/ports/repositories"
	portssvc "github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/core/ports/services"
	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/dto"
	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/middleware"
)

// Vietnamese account names used when an account is created lazily.
const (
	accountNameCash          = "Tiền mặt"
	accountNameBank          = "Tiền gửi ngân hàng"
	accountNamePayable       = "Phải trả người bán"
	accountNameSalesRevenue  = "Doanh thu bán hàng"
	accountNameSalaryExpense = "Chi phí lương"
)

// PostingService translates business events into balanced journal entries
// plus a paired cash transaction. Every entry point runs inside the
// caller's transaction and never commits.
type PostingService struct {
	journalRepo portsrepo.JournalRepositoryFacade
	cashTxnRepo portsrepo.CashTransactionRepositoryFacade
	accountSvc  portssvc.AccountSvcFacade
	periodSvc   portssvc.PeriodSvcFacade
	settingSvc  portssvc.SettingSvcFacade
}

// NewPostingService creates a new PostingService.
func NewPostingService(journalRepo portsrepo.JournalRepositoryFacade, cashTxnRepo portsrepo.CashTransactionRepositoryFacade, accountSvc portssvc.AccountSvcFacade, periodSvc portssvc.PeriodSvcFacade, settingSvc portssvc.SettingSvcFacade) portssvc.PostingSvcFacade {
	return &PostingService{
		journalRepo: journalRepo,
		cashTxnRepo: cashTxnRepo,
		accountSvc:  accountSvc,
		periodSvc:   periodSvc,
		settingSvc:  settingSvc,
	}
}

var _ portssvc.PostingSvcFacade = (*PostingService)(nil)

// postingSpec is one fully resolved business event ready to post.
type postingSpec struct {
	kind          domain.JournalKind
	referenceType domain.ReferenceType
	referenceID   string
	amount        decimal.Decimal
	method        domain.PaymentMethod
	description   string
	date          *time.Time
	debitCode     string
	debitName     string
	debitType     domain.AccountType
	creditCode    string
	creditName    string
	creditType    domain.AccountType
	cashType      domain.CashTransactionType
	category      domain.CashCategory
}

// PostOrderPayment posts a customer receipt: debit cash or bank, credit
// sales revenue.
func (s *PostingService) PostOrderPayment(ctx context.Context, tx pgx.Tx, tenantID string, event dto.OrderPaymentEvent, userID string) (*domain.Journal, error) {
	description := event.Description
	if description == "" {
		description = fmt.Sprintf("Thu tiền đơn hàng #%s", event.OrderID)
	}
	debitCode, debitName := cashOrBankAccount(event.Method)
	return s.post(ctx, tx, tenantID, postingSpec{
		kind:          domain.KindReceipt,
		referenceType: domain.RefOrderPayment,
		referenceID:   event.PaymentID,
		amount:        event.Amount,
		method:        event.Method,
		description:   description,
		date:          event.Date,
		debitCode:     debitCode,
		debitName:     debitName,
		debitType:     domain.Asset,
		creditCode:    domain.AccountCodeSalesRevenue,
		creditName:    accountNameSalesRevenue,
		creditType:    domain.Revenue,
		cashType:      domain.CashReceipt,
		category:      domain.CategoryOrder,
	}, userID)
}

// PostPurchaseOrderPayment posts a supplier disbursement: debit accounts
// payable, credit cash or bank.
func (s *PostingService) PostPurchaseOrderPayment(ctx context.Context, tx pgx.Tx, tenantID string, event dto.PurchaseOrderPaymentEvent, userID string) (*domain.Journal, error) {
	description := fmt.Sprintf("Thanh toán %s - NCC: %s", event.POCode, event.SupplierName)
	creditCode, creditName := cashOrBankAccount(event.Method)
	return s.post(ctx, tx, tenantID, postingSpec{
		kind:          domain.KindDisbursement,
		referenceType: domain.RefPurchaseOrder,
		referenceID:   event.POID,
		amount:        event.Amount,
		method:        event.Method,
		description:   description,
		date:          event.Date,
		debitCode:     domain.AccountCodePayable,
		debitName:     accountNamePayable,
		debitType:     domain.Liability,
		creditCode:    creditCode,
		creditName:    creditName,
		creditType:    domain.Asset,
		cashType:      domain.CashPayment,
		category:      domain.CategoryProcurement,
	}, userID)
}

// PostPayroll posts a payroll run: debit salary expense, credit cash or bank.
func (s *PostingService) PostPayroll(ctx context.Context, tx pgx.Tx, tenantID string, event dto.PayrollPostingEvent, userID string) (*domain.Journal, error) {
	description := event.Description
	if description == "" {
		description = fmt.Sprintf("Chi lương kỳ #%s", event.PayrollID)
	}
	creditCode, creditName := cashOrBankAccount(event.Method)
	return s.post(ctx, tx, tenantID, postingSpec{
		kind:          domain.KindDisbursement,
		referenceType: domain.RefPayroll,
		referenceID:   event.PayrollID,
		amount:        event.Amount,
		method:        event.Method,
		description:   description,
		date:          event.Date,
		debitCode:     domain.AccountCodeSalaryExpense,
		debitName:     accountNameSalaryExpense,
		debitType:     domain.Expense,
		creditCode:    creditCode,
		creditName:    creditName,
		creditType:    domain.Asset,
		cashType:      domain.CashPayment,
		category:      domain.CategorySalary,
	}, userID)
}

// post runs the shared posting pipeline: idempotency lookup, date
// resolution, period gate, account resolution, journal plus paired cash
// transaction. Journals land directly POSTED; business events are final.
func (s *PostingService) post(ctx context.Context, tx pgx.Tx, tenantID string, spec postingSpec, userID string) (*domain.Journal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !spec.amount.IsPositive() {
		return nil, apperrors.ErrNonPositiveAmount
	}
	spec.method = spec.method.Normalize()

	existing, err := s.journalRepo.FindJournalByReference(ctx, tx, tenantID, spec.referenceType, spec.referenceID)
	if err == nil {
		logger.Info("Posting already recorded, returning existing journal",
			slog.String("reference_type", string(spec.referenceType)),
			slog.String("reference_id", spec.referenceID),
			slog.String("journal_id", existing.JournalID))
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	date, err := s.resolveDate(ctx, tx, tenantID, spec.date)
	if err != nil {
		return nil, err
	}
	if err := s.periodSvc.EnsurePostable(ctx, tx, tenantID, date); err != nil {
		return nil, err
	}

	debitAccount, err := s.accountSvc.EnsureAccount(ctx, tx, tenantID, spec.debitCode, spec.debitName, spec.debitType, userID)
	if err != nil {
		return nil, err
	}
	creditAccount, err := s.accountSvc.EnsureAccount(ctx, tx, tenantID, spec.creditCode, spec.creditName, spec.creditType, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	journalID := uuid.NewString()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}

	code, err := nextJournalCode(ctx, tx, s.journalRepo, tenantID, spec.kind, date)
	if err != nil {
		return nil, err
	}

	journal := &domain.Journal{
		JournalID:     journalID,
		TenantID:      tenantID,
		Code:          code,
		Kind:          spec.kind,
		JournalDate:   date,
		Description:   spec.description,
		TotalAmount:   spec.amount,
		ReferenceType: spec.referenceType,
		ReferenceID:   spec.referenceID,
		Status:        domain.Posted,
		PostedAt:      &now,
		PostedBy:      userID,
		Lines: []domain.JournalLine{
			{
				LineID:      uuid.NewString(),
				JournalID:   journalID,
				TenantID:    tenantID,
				AccountID:   debitAccount.AccountID,
				Debit:       spec.amount,
				Description: spec.description,
				AuditFields: audit,
			},
			{
				LineID:      uuid.NewString(),
				JournalID:   journalID,
				TenantID:    tenantID,
				AccountID:   creditAccount.AccountID,
				Credit:      spec.amount,
				Description: spec.description,
				AuditFields: audit,
			},
		},
		AuditFields: audit,
	}
	if err := saveJournalWithRetry(ctx, tx, s.journalRepo, journal); err != nil {
		return nil, err
	}

	cashTxn := domain.CashTransaction{
		TransactionID:   uuid.NewString(),
		TenantID:        tenantID,
		Code:            journal.Code,
		Type:            spec.cashType,
		Category:        spec.category,
		Amount:          spec.amount,
		PaymentMethod:   spec.method,
		ReferenceType:   spec.referenceType,
		ReferenceID:     spec.referenceID,
		TransactionDate: date,
		JournalID:       journalID,
		AuditFields:     audit,
	}
	if err := s.cashTxnRepo.SaveCashTransaction(ctx, tx, cashTxn); err != nil {
		return nil, err
	}

	logger.Info("Business event posted",
		slog.String("journal_id", journalID),
		slog.String("code", journal.Code),
		slog.String("reference_type", string(spec.referenceType)),
		slog.String("reference_id", spec.referenceID),
		slog.String("amount", spec.amount.String()))
	return journal, nil
}

// resolveDate returns the caller-supplied date, or today in the tenant's
// civil day when absent.
func (s *PostingService) resolveDate(ctx context.Context, tx pgx.Tx, tenantID string, date *time.Time) (time.Time, error) {
	if date != nil {
		return *date, nil
	}
	bag, err := s.settingSvc.LoadTx(ctx, tx, tenantID)
	if err != nil {
		return time.Time{}, err
	}
	tz := bag.GetString(domain.SettingTimezone, "Asia/Ho_Chi_Minh")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.UTC
	}
	now := time.Now().In(loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
}

// cashOrBankAccount picks the asset leg for a payment method. Cash and its
// legacy alias debit 111; everything else goes through the bank account.
func cashOrBankAccount(method domain.PaymentMethod) (code, name string) {
	if method.Normalize() == domain.MethodCash {
		return domain.AccountCodeCash, accountNameCash
	}
	return domain.AccountCodeBank, accountNameBank
}

package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/core/domain"
	portsrepo "github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/core/ports/repositories"
	portssvc "github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/core/ports/services"
	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/dto"
)

// fakeTx is a no-op pgx.Tx for exercising services without a database.
// Begin returns the fake itself so savepoint wrappers see the same tx.
// Any other method panics via the nil embedded interface.
type fakeTx struct {
	pgx.Tx
}

func (f *fakeTx) Begin(ctx context.Context) (pgx.Tx, error) { return f, nil }
func (f *fakeTx) Commit(ctx context.Context) error          { return nil }
func (f *fakeTx) Rollback(ctx context.Context) error        { return nil }

// stubTxManager runs the unit of work directly on a fakeTx.
type stubTxManager struct {
	tx pgx.Tx
}

var _ portsrepo.TxManager = (*stubTxManager)(nil)

func newStubTxManager() *stubTxManager {
	return &stubTxManager{tx: &fakeTx{}}
}

func (m *stubTxManager) WithTenantTx(ctx context.Context, tenantID string, fn func(tx pgx.Tx) error) error {
	return fn(m.tx)
}

// --- Mock JournalRepository ---

type MockJournalRepository struct {
	mock.Mock
}

var _ portsrepo.JournalRepositoryFacade = (*MockJournalRepository)(nil)

func (m *MockJournalRepository) CountJournalsByKindAndMonth(ctx context.Context, tx pgx.Tx, tenantID string, kind domain.JournalKind, year int, month time.Month) (int, error) {
	args := m.Called(ctx, tx, tenantID, kind, year, month)
	return args.Int(0), args.Error(1)
}

func (m *MockJournalRepository) SaveJournal(ctx context.Context, tx pgx.Tx, journal domain.Journal) error {
	args := m.Called(ctx, tx, journal)
	return args.Error(0)
}

func (m *MockJournalRepository) FindJournalByID(ctx context.Context, tx pgx.Tx, tenantID, journalID string) (*domain.Journal, error) {
	args := m.Called(ctx, tx, tenantID, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockJournalRepository) FindJournalByReference(ctx context.Context, tx pgx.Tx, tenantID string, refType domain.ReferenceType, refID string) (*domain.Journal, error) {
	args := m.Called(ctx, tx, tenantID, refType, refID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockJournalRepository) FindLinesByJournalID(ctx context.Context, tx pgx.Tx, tenantID, journalID string) ([]domain.JournalLine, error) {
	args := m.Called(ctx, tx, tenantID, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalLine), args.Error(1)
}

func (m *MockJournalRepository) ListJournals(ctx context.Context, tx pgx.Tx, tenantID string, limit, offset int) ([]domain.Journal, error) {
	args := m.Called(ctx, tx, tenantID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Journal), args.Error(1)
}

func (m *MockJournalRepository) MarkJournalPosted(ctx context.Context, tx pgx.Tx, tenantID, journalID string, postedAt time.Time, postedBy string) error {
	args := m.Called(ctx, tx, tenantID, journalID, postedAt, postedBy)
	return args.Error(0)
}

func (m *MockJournalRepository) MarkJournalsReversed(ctx context.Context, tx pgx.Tx, tenantID, originalID, reversingID, userID string, at time.Time) error {
	args := m.Called(ctx, tx, tenantID, originalID, reversingID, userID, at)
	return args.Error(0)
}

func (m *MockJournalRepository) UpdateDraftJournal(ctx context.Context, tx pgx.Tx, journal domain.Journal) error {
	args := m.Called(ctx, tx, journal)
	return args.Error(0)
}

func (m *MockJournalRepository) DeleteDraftJournal(ctx context.Context, tx pgx.Tx, tenantID, journalID string) error {
	args := m.Called(ctx, tx, tenantID, journalID)
	return args.Error(0)
}

func (m *MockJournalRepository) HasDraftJournalsInRange(ctx context.Context, tx pgx.Tx, tenantID string, start, end time.Time) (bool, error) {
	args := m.Called(ctx, tx, tenantID, start, end)
	return args.Bool(0), args.Error(1)
}

func (m *MockJournalRepository) SumPostedDebitsCredits(ctx context.Context, tx pgx.Tx, tenantID string, start, end time.Time) (decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx, tx, tenantID, start, end)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Error(2)
}

func (m *MockJournalRepository) SumRetainedEarnings(ctx context.Context, tx pgx.Tx, tenantID string, start, end time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, tx, tenantID, start, end)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// --- Mock CashTransactionRepository ---

type MockCashTransactionRepository struct {
	mock.Mock
}

var _ portsrepo.CashTransactionRepositoryFacade = (*MockCashTransactionRepository)(nil)

func (m *MockCashTransactionRepository) SaveCashTransaction(ctx context.Context, tx pgx.Tx, txn domain.CashTransaction) error {
	args := m.Called(ctx, tx, txn)
	return args.Error(0)
}

func (m *MockCashTransactionRepository) FindCashTransactionByJournalID(ctx context.Context, tx pgx.Tx, tenantID, journalID string) (*domain.CashTransaction, error) {
	args := m.Called(ctx, tx, tenantID, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashTransaction), args.Error(1)
}

// --- Mock AccountRepository ---

type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, tx pgx.Tx, tenantID, code string) (*domain.Account, error) {
	args := m.Called(ctx, tx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) CreateAccount(ctx context.Context, tx pgx.Tx, account domain.Account) error {
	args := m.Called(ctx, tx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, tx pgx.Tx, tenantID string) ([]domain.Account, error) {
	args := m.Called(ctx, tx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

// --- Mock PeriodRepository ---

type MockPeriodRepository struct {
	mock.Mock
}

var _ portsrepo.PeriodRepositoryFacade = (*MockPeriodRepository)(nil)

func (m *MockPeriodRepository) CreatePeriod(ctx context.Context, tx pgx.Tx, period domain.AccountingPeriod) error {
	args := m.Called(ctx, tx, period)
	return args.Error(0)
}

func (m *MockPeriodRepository) FindPeriodByID(ctx context.Context, tx pgx.Tx, tenantID, periodID string) (*domain.AccountingPeriod, error) {
	args := m.Called(ctx, tx, tenantID, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountingPeriod), args.Error(1)
}

func (m *MockPeriodRepository) FindPeriodByIDForUpdate(ctx context.Context, tx pgx.Tx, tenantID, periodID string) (*domain.AccountingPeriod, error) {
	args := m.Called(ctx, tx, tenantID, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountingPeriod), args.Error(1)
}

func (m *MockPeriodRepository) FindPeriodsCovering(ctx context.Context, tx pgx.Tx, tenantID string, date time.Time) ([]domain.AccountingPeriod, error) {
	args := m.Called(ctx, tx, tenantID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountingPeriod), args.Error(1)
}

func (m *MockPeriodRepository) ListPeriods(ctx context.Context, tx pgx.Tx, tenantID string) ([]domain.AccountingPeriod, error) {
	args := m.Called(ctx, tx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountingPeriod), args.Error(1)
}

func (m *MockPeriodRepository) UpdatePeriod(ctx context.Context, tx pgx.Tx, period domain.AccountingPeriod) error {
	args := m.Called(ctx, tx, period)
	return args.Error(0)
}

func (m *MockPeriodRepository) CountClosingByType(ctx context.Context, tx pgx.Tx, tenantID string, periodType domain.PeriodType) (int, error) {
	args := m.Called(ctx, tx, tenantID, periodType)
	return args.Int(0), args.Error(1)
}

func (m *MockPeriodRepository) SaveChecklistItems(ctx context.Context, tx pgx.Tx, items []domain.ChecklistItem) error {
	args := m.Called(ctx, tx, items)
	return args.Error(0)
}

func (m *MockPeriodRepository) ListChecklist(ctx context.Context, tx pgx.Tx, tenantID, periodID string) ([]domain.ChecklistItem, error) {
	args := m.Called(ctx, tx, tenantID, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ChecklistItem), args.Error(1)
}

func (m *MockPeriodRepository) UpdateChecklistItem(ctx context.Context, tx pgx.Tx, item domain.ChecklistItem) error {
	args := m.Called(ctx, tx, item)
	return args.Error(0)
}

func (m *MockPeriodRepository) AppendAuditEntry(ctx context.Context, tx pgx.Tx, entry domain.PeriodAuditEntry) error {
	args := m.Called(ctx, tx, entry)
	return args.Error(0)
}

func (m *MockPeriodRepository) ListAuditEntries(ctx context.Context, tx pgx.Tx, tenantID, periodID string) ([]domain.PeriodAuditEntry, error) {
	args := m.Called(ctx, tx, tenantID, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PeriodAuditEntry), args.Error(1)
}

// --- Mock SettingRepository ---

type MockSettingRepository struct {
	mock.Mock
}

var _ portsrepo.SettingRepositoryFacade = (*MockSettingRepository)(nil)

func (m *MockSettingRepository) ListSettings(ctx context.Context, tx pgx.Tx, tenantID string) ([]domain.TenantSetting, error) {
	args := m.Called(ctx, tx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TenantSetting), args.Error(1)
}

func (m *MockSettingRepository) FindSettingByKey(ctx context.Context, tx pgx.Tx, tenantID, key string) (*domain.TenantSetting, error) {
	args := m.Called(ctx, tx, tenantID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TenantSetting), args.Error(1)
}

func (m *MockSettingRepository) UpsertSetting(ctx context.Context, tx pgx.Tx, setting domain.TenantSetting) error {
	args := m.Called(ctx, tx, setting)
	return args.Error(0)
}

func (m *MockSettingRepository) SeedSettings(ctx context.Context, tx pgx.Tx, settings []domain.TenantSetting) error {
	args := m.Called(ctx, tx, settings)
	return args.Error(0)
}

// --- Mock TenantRepository ---

type MockTenantRepository struct {
	mock.Mock
}

var _ portsrepo.TenantRepositoryFacade = (*MockTenantRepository)(nil)

func (m *MockTenantRepository) CreateTenant(ctx context.Context, tx pgx.Tx, tenant domain.Tenant) error {
	args := m.Called(ctx, tx, tenant)
	return args.Error(0)
}

func (m *MockTenantRepository) FindTenantByID(ctx context.Context, tx pgx.Tx, tenantID string) (*domain.Tenant, error) {
	args := m.Called(ctx, tx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindTenantBySlug(ctx context.Context, tx pgx.Tx, slug string) (*domain.Tenant, error) {
	args := m.Called(ctx, tx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tenant), args.Error(1)
}

// --- Mock OperationalRepository ---

type MockOperationalRepository struct {
	mock.Mock
}

var _ portsrepo.OperationalRepositoryFacade = (*MockOperationalRepository)(nil)

func (m *MockOperationalRepository) FindOrderFinance(ctx context.Context, tx pgx.Tx, tenantID, orderID string) (*domain.OrderFinance, error) {
	args := m.Called(ctx, tx, tenantID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OrderFinance), args.Error(1)
}

func (m *MockOperationalRepository) ApplyOrderPayment(ctx context.Context, tx pgx.Tx, tenantID, orderID string, amount decimal.Decimal) error {
	args := m.Called(ctx, tx, tenantID, orderID, amount)
	return args.Error(0)
}

func (m *MockOperationalRepository) FindPurchaseOrder(ctx context.Context, tx pgx.Tx, tenantID, poID string) (*domain.PurchaseOrderFinance, error) {
	args := m.Called(ctx, tx, tenantID, poID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PurchaseOrderFinance), args.Error(1)
}

func (m *MockOperationalRepository) MarkPurchaseOrderPaid(ctx context.Context, tx pgx.Tx, tenantID, poID string) error {
	args := m.Called(ctx, tx, tenantID, poID)
	return args.Error(0)
}

func (m *MockOperationalRepository) FindPayrollPeriod(ctx context.Context, tx pgx.Tx, tenantID, payrollID string) (*domain.PayrollPeriod, error) {
	args := m.Called(ctx, tx, tenantID, payrollID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PayrollPeriod), args.Error(1)
}

func (m *MockOperationalRepository) MarkPayrollPaid(ctx context.Context, tx pgx.Tx, tenantID, payrollID string) error {
	args := m.Called(ctx, tx, tenantID, payrollID)
	return args.Error(0)
}

func (m *MockOperationalRepository) ListPayrollOverlapping(ctx context.Context, tx pgx.Tx, tenantID string, start, end time.Time) ([]domain.PayrollPeriod, error) {
	args := m.Called(ctx, tx, tenantID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PayrollPeriod), args.Error(1)
}

// --- Mock AccountService ---

type MockAccountService struct {
	mock.Mock
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

func (m *MockAccountService) EnsureAccount(ctx context.Context, tx pgx.Tx, tenantID, code, name string, accountType domain.AccountType, userID string) (*domain.Account, error) {
	args := m.Called(ctx, tx, tenantID, code, name, accountType, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, tenantID string) ([]domain.Account, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

// --- Mock PeriodService ---

type MockPeriodService struct {
	mock.Mock
}

var _ portssvc.PeriodSvcFacade = (*MockPeriodService)(nil)

func (m *MockPeriodService) CreatePeriod(ctx context.Context, tenantID string, req dto.CreatePeriodRequest, userID string) (*domain.AccountingPeriod, error) {
	args := m.Called(ctx, tenantID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountingPeriod), args.Error(1)
}

func (m *MockPeriodService) GetPeriod(ctx context.Context, tenantID, periodID string) (*domain.AccountingPeriod, error) {
	args := m.Called(ctx, tenantID, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountingPeriod), args.Error(1)
}

func (m *MockPeriodService) ListPeriods(ctx context.Context, tenantID string) ([]domain.AccountingPeriod, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountingPeriod), args.Error(1)
}

func (m *MockPeriodService) BeginClose(ctx context.Context, tenantID, periodID, userID string) (*domain.AccountingPeriod, []domain.ChecklistItem, error) {
	args := m.Called(ctx, tenantID, periodID, userID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.AccountingPeriod), args.Get(1).([]domain.ChecklistItem), args.Error(2)
}

func (m *MockPeriodService) FinalizeClose(ctx context.Context, tenantID, periodID, userID string) (*domain.AccountingPeriod, error) {
	args := m.Called(ctx, tenantID, periodID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountingPeriod), args.Error(1)
}

func (m *MockPeriodService) ReopenPeriod(ctx context.Context, tenantID, periodID, reason, userID string) (*domain.AccountingPeriod, error) {
	args := m.Called(ctx, tenantID, periodID, reason, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountingPeriod), args.Error(1)
}

func (m *MockPeriodService) GetChecklist(ctx context.Context, tenantID, periodID string) ([]domain.ChecklistItem, error) {
	args := m.Called(ctx, tenantID, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ChecklistItem), args.Error(1)
}

func (m *MockPeriodService) MarkChecklistItem(ctx context.Context, tenantID, periodID, checkKey string, req dto.MarkChecklistRequest, userID string) (*domain.ChecklistItem, error) {
	args := m.Called(ctx, tenantID, periodID, checkKey, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChecklistItem), args.Error(1)
}

func (m *MockPeriodService) GetAuditLog(ctx context.Context, tenantID, periodID string) ([]domain.PeriodAuditEntry, error) {
	args := m.Called(ctx, tenantID, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PeriodAuditEntry), args.Error(1)
}

func (m *MockPeriodService) EnsurePostable(ctx context.Context, tx pgx.Tx, tenantID string, date time.Time) error {
	args := m.Called(ctx, tx, tenantID, date)
	return args.Error(0)
}

// --- Mock SettingService ---

type MockSettingService struct {
	mock.Mock
}

var _ portssvc.SettingSvcFacade = (*MockSettingService)(nil)

func (m *MockSettingService) ListSettings(ctx context.Context, tenantID string) ([]domain.TenantSetting, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TenantSetting), args.Error(1)
}

func (m *MockSettingService) UpdateSetting(ctx context.Context, tenantID, key, value, userID string) (*domain.TenantSetting, error) {
	args := m.Called(ctx, tenantID, key, value, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TenantSetting), args.Error(1)
}

func (m *MockSettingService) Load(ctx context.Context, tenantID string) (domain.SettingsBag, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.SettingsBag), args.Error(1)
}

func (m *MockSettingService) LoadTx(ctx context.Context, tx pgx.Tx, tenantID string) (domain.SettingsBag, error) {
	args := m.Called(ctx, tx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.SettingsBag), args.Error(1)
}

func (m *MockSettingService) SeedDefaults(ctx context.Context, tx pgx.Tx, tenantID, userID string) error {
	args := m.Called(ctx, tx, tenantID, userID)
	return args.Error(0)
}

// --- Mock PostingService ---

type MockPostingService struct {
	mock.Mock
}

var _ portssvc.PostingSvcFacade = (*MockPostingService)(nil)

func (m *MockPostingService) PostOrderPayment(ctx context.Context, tx pgx.Tx, tenantID string, event dto.OrderPaymentEvent, userID string) (*domain.Journal, error) {
	args := m.Called(ctx, tx, tenantID, event, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockPostingService) PostPurchaseOrderPayment(ctx context.Context, tx pgx.Tx, tenantID string, event dto.PurchaseOrderPaymentEvent, userID string) (*domain.Journal, error) {
	args := m.Called(ctx, tx, tenantID, event, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockPostingService) PostPayroll(ctx context.Context, tx pgx.Tx, tenantID string, event dto.PayrollPostingEvent, userID string) (*domain.Journal, error) {
	args := m.Called(ctx, tx, tenantID, event, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

// --- Mock TenantService ---

type MockTenantService struct {
	mock.Mock
}

var _ portssvc.TenantSvcFacade = (*MockTenantService)(nil)

func (m *MockTenantService) CreateTenant(ctx context.Context, name, slug, planLabel, userID string) (*domain.Tenant, error) {
	args := m.Called(ctx, name, slug, planLabel, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tenant), args.Error(1)
}

func (m *MockTenantService) GetTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tenant), args.Error(1)
}

func (m *MockTenantService) EnsureWritable(ctx context.Context, tenantID string) error {
	args := m.Called(ctx, tenantID)
	return args.Error(0)
}

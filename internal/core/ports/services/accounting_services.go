package services

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/core/domain"
	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/dto"
)

// AccountSvcFacade is the chart-of-accounts registry.
type AccountSvcFacade interface {
	// EnsureAccount returns the (tenant, code) account, creating it inside
	// the caller's transaction when absent. Name and type are authoritative
	// only at creation.
	EnsureAccount(ctx context.Context, tx pgx.Tx, tenantID, code, name string, accountType domain.AccountType, userID string) (*domain.Account, error)
	ListAccounts(ctx context.Context, tenantID string) ([]domain.Account, error)
}

// JournalSvcFacade manages the journal lifecycle for the manual entry API.
type JournalSvcFacade interface {
	CreateDraftJournal(ctx context.Context, tenantID string, req dto.CreateJournalRequest, userID string) (*domain.Journal, error)
	GetJournalByID(ctx context.Context, tenantID, journalID string) (*domain.Journal, error)
	ListJournals(ctx context.Context, tenantID string, params dto.ListJournalsParams) ([]domain.Journal, error)
	UpdateDraftJournal(ctx context.Context, tenantID, journalID string, req dto.UpdateJournalRequest, userID string) (*domain.Journal, error)
	PostJournal(ctx context.Context, tenantID, journalID, userID string) (*domain.Journal, error)
	ReverseJournal(ctx context.Context, tenantID, journalID string, date *time.Time, userID string) (*domain.Journal, error)
	DeleteDraftJournal(ctx context.Context, tenantID, journalID, userID string) error
}

// PostingSvcFacade translates business events into balanced journal
// entries plus a paired cash transaction. Every entry point runs inside the
// caller's transaction and is idempotent on (tenant, referenceType,
// referenceID): a repeated call returns the existing journal untouched.
type PostingSvcFacade interface {
	PostOrderPayment(ctx context.Context, tx pgx.Tx, tenantID string, event dto.OrderPaymentEvent, userID string) (*domain.Journal, error)
	PostPurchaseOrderPayment(ctx context.Context, tx pgx.Tx, tenantID string, event dto.PurchaseOrderPaymentEvent, userID string) (*domain.Journal, error)
	PostPayroll(ctx context.Context, tx pgx.Tx, tenantID string, event dto.PayrollPostingEvent, userID string) (*domain.Journal, error)
}

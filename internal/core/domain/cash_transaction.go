package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashTransactionType distinguishes money-in from money-out rows.
type CashTransactionType string

const (
	CashReceipt CashTransactionType = "RECEIPT"
	CashPayment CashTransactionType = "PAYMENT"
)

// CashCategory groups cash transactions for operational reporting.
type CashCategory string

const (
	CategoryOrder       CashCategory = "ORDER"
	CategoryProcurement CashCategory = "PROCUREMENT"
	CategorySalary      CashCategory = "SALARY"
	CategoryOperating   CashCategory = "OPERATING"
)

// PaymentMethod is how the cash moved.
type PaymentMethod string

const (
	MethodCash         PaymentMethod = "CASH"
	MethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	MethodCard         PaymentMethod = "CARD"
	// MethodCashAlias is the Vietnamese spelling of MethodCash that older
	// callers still send; it is normalized before anything is persisted.
	MethodCashAlias PaymentMethod = "TIEN_MAT"
)

// Normalize maps legacy aliases onto the canonical enum. Persisted rows
// only ever carry canonical values.
func (m PaymentMethod) Normalize() PaymentMethod {
	if m == MethodCashAlias {
		return MethodCash
	}
	return m
}

// CashTransaction is the denormalized operational projection of a journal
// whose legs touch cash or bank. One-to-one with the journal it references:
// RECEIPT when the cash/bank side is debited, PAYMENT when credited.
type CashTransaction struct {
	TransactionID   string              `json:"transactionID"`
	TenantID        string              `json:"tenantID"`
	Code            string              `json:"code"` // same code as the originating journal
	Type            CashTransactionType `json:"type"`
	Category        CashCategory        `json:"category"`
	Amount          decimal.Decimal     `json:"amount"`
	PaymentMethod   PaymentMethod       `json:"paymentMethod"`
	ReferenceType   ReferenceType       `json:"referenceType"`
	ReferenceID     string              `json:"referenceID"`
	TransactionDate time.Time           `json:"transactionDate"`
	JournalID       string              `json:"journalID"`
	AuditFields
}

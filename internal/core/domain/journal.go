package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus indicates the state of a journal entry.
type JournalStatus string

const (
	Draft    JournalStatus = "DRAFT"
	Posted   JournalStatus = "POSTED"
	Reversed JournalStatus = "REVERSED"
)

// JournalKind is the code prefix of a journal: THU (receipt), CHI
// (disbursement) or JNL (general entry).
type JournalKind string

const (
	KindReceipt      JournalKind = "THU"
	KindDisbursement JournalKind = "CHI"
	KindGeneral      JournalKind = "JNL"
)

// ReferenceType names the business event a journal originates from.
// It is a closed enumeration; dispatch in the posting service is a
// switch over these values.
type ReferenceType string

const (
	RefOrderPayment  ReferenceType = "ORDER_PAYMENT"
	RefPurchaseOrder ReferenceType = "PURCHASE_ORDER"
	RefPayroll       ReferenceType = "PAYROLL"
	RefManual        ReferenceType = "MANUAL"
)

// Journal represents a single, balanced accounting entry (bút toán)
// composed of two or more lines.
//
// Lifecycle: created DRAFT, may transition to POSTED (lines freeze), may
// then be reversed, which creates a new journal with swapped lines and
// links both via ReversedJournalID.
type Journal struct {
	JournalID     string          `json:"journalID"`
	TenantID      string          `json:"tenantID"`
	Code          string          `json:"code"` // {kind}-{YYYYMM}-{NNN}, unique per tenant
	Kind          JournalKind     `json:"kind"`
	JournalDate   time.Time       `json:"journalDate"`
	Description   string          `json:"description"`
	TotalAmount   decimal.Decimal `json:"totalAmount"` // equals sum of debits (= sum of credits)
	ReferenceType ReferenceType   `json:"referenceType"`
	ReferenceID   string          `json:"referenceID"`
	Status        JournalStatus   `json:"status"`
	PostedAt      *time.Time      `json:"postedAt,omitempty"`
	PostedBy      string          `json:"postedBy,omitempty"`
	// ReversedJournalID links original and reversing journal in both
	// directions; traverse one hop only, never follow the cycle.
	ReversedJournalID *string       `json:"reversedJournalID,omitempty"`
	Lines             []JournalLine `json:"lines,omitempty"`
	AuditFields
}

// JournalLine is one side (debit or credit) of a journal.
// Exactly one of Debit/Credit is positive; the other is zero.
type JournalLine struct {
	LineID      string          `json:"lineID"`
	JournalID   string          `json:"journalID"`
	TenantID    string          `json:"tenantID"`
	AccountID   string          `json:"accountID"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
	AuditFields
}

// IsDebit reports whether the line carries its amount on the debit side.
func (l JournalLine) IsDebit() bool {
	return l.Debit.IsPositive()
}

// Amount returns the positive side of the line.
func (l JournalLine) Amount() decimal.Decimal {
	if l.IsDebit() {
		return l.Debit
	}
	return l.Credit
}

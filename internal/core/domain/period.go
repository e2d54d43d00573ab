package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// PeriodStatus is the lifecycle state of an accounting period.
type PeriodStatus string

const (
	PeriodOpen    PeriodStatus = "OPEN"
	PeriodClosing PeriodStatus = "CLOSING"
	PeriodClosed  PeriodStatus = "CLOSED"
)

// PeriodType is the granularity of an accounting period.
type PeriodType string

const (
	PeriodMonthly   PeriodType = "MONTHLY"
	PeriodQuarterly PeriodType = "QUARTERLY"
	PeriodYearly    PeriodType = "YEARLY"
)

// AccountingPeriod groups journals of a date range for closing.
// Per tenant, periods of the same type never overlap and at most one
// period per type is CLOSING at any time. Status transitions:
// OPEN -> CLOSING -> CLOSED, plus CLOSING -> OPEN and CLOSED -> OPEN (reopen).
type AccountingPeriod struct {
	PeriodID   string       `json:"periodID"`
	TenantID   string       `json:"tenantID"`
	Name       string       `json:"name"`
	PeriodType PeriodType   `json:"periodType"`
	StartDate  time.Time    `json:"startDate"`
	EndDate    time.Time    `json:"endDate"` // inclusive
	Status     PeriodStatus `json:"status"`
	ClosedAt   *time.Time   `json:"closedAt,omitempty"`
	ClosedBy   string       `json:"closedBy,omitempty"`
	// Closing snapshot, populated on finalize and cleared on reopen.
	ClosingTotalDebit       decimal.Decimal `json:"closingTotalDebit"`
	ClosingTotalCredit      decimal.Decimal `json:"closingTotalCredit"`
	ClosingRetainedEarnings decimal.Decimal `json:"closingRetainedEarnings"`
	AuditFields
}

// Contains reports whether the given date falls within the period range.
// Only the civil date matters, not the clock time.
func (p AccountingPeriod) Contains(date time.Time) bool {
	d := date.Truncate(24 * time.Hour)
	return !d.Before(p.StartDate.Truncate(24*time.Hour)) && !d.After(p.EndDate.Truncate(24*time.Hour))
}

// WindowDays is the period length in days, used to pick the most specific
// period when windows of different types cover the same date.
func (p AccountingPeriod) WindowDays() int {
	return int(p.EndDate.Sub(p.StartDate).Hours()/24) + 1
}

// PeriodAuditAction enumerates audit log actions on a period.
type PeriodAuditAction string

const (
	PeriodAuditCreate    PeriodAuditAction = "CREATE"
	PeriodAuditClose     PeriodAuditAction = "CLOSE"
	PeriodAuditReopen    PeriodAuditAction = "REOPEN"
	PeriodAuditDelete    PeriodAuditAction = "DELETE"
	PeriodAuditChecklist PeriodAuditAction = "CHECKLIST"
)

// PeriodAuditEntry is one append-only audit row for a period.
type PeriodAuditEntry struct {
	EntryID     string            `json:"entryID"`
	TenantID    string            `json:"tenantID"`
	PeriodID    string            `json:"periodID"`
	Action      PeriodAuditAction `json:"action"`
	PerformedBy string            `json:"performedBy"`
	PerformedAt time.Time         `json:"performedAt"`
	Reason      string            `json:"reason"`
	Extra       json.RawMessage   `json:"extra,omitempty"`
}

// Checklist item keys seeded for every new period.
const (
	CheckJournalsPosted     = "journals_posted"
	CheckARReconciled       = "ar_reconciled"
	CheckAPReconciled       = "ap_reconciled"
	CheckBankReconciled     = "bank_reconciled"
	CheckInventoryCounted   = "inventory_counted"
	CheckPayrollPosted      = "payroll_posted"
	CheckAdjustmentsEntered = "adjustments_entered"
)

// ChecklistItem is one precondition for closing a period. Automated items
// are evaluated by the system on every close attempt; manual items persist
// once an operator marks them.
type ChecklistItem struct {
	ItemID      string     `json:"itemID"`
	TenantID    string     `json:"tenantID"`
	PeriodID    string     `json:"periodID"`
	CheckKey    string     `json:"checkKey"`
	CheckName   string     `json:"checkName"`
	CheckOrder  int        `json:"checkOrder"`
	IsAutomated bool       `json:"isAutomated"`
	IsCompleted bool       `json:"isCompleted"`
	CompletedBy string     `json:"completedBy,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Notes       string     `json:"notes,omitempty"`
}

// DefaultChecklist returns the checklist items seeded when a period is
// created, in display order, all incomplete.
func DefaultChecklist() []ChecklistItem {
	return []ChecklistItem{
		{CheckKey: CheckJournalsPosted, CheckName: "Tất cả bút toán đã ghi sổ", CheckOrder: 1, IsAutomated: true},
		{CheckKey: CheckARReconciled, CheckName: "Đối chiếu công nợ phải thu", CheckOrder: 2},
		{CheckKey: CheckAPReconciled, CheckName: "Đối chiếu công nợ phải trả", CheckOrder: 3},
		{CheckKey: CheckBankReconciled, CheckName: "Đối chiếu ngân hàng", CheckOrder: 4},
		{CheckKey: CheckInventoryCounted, CheckName: "Kiểm kê tồn kho", CheckOrder: 5},
		{CheckKey: CheckPayrollPosted, CheckName: "Lương đã hạch toán", CheckOrder: 6, IsAutomated: true},
		{CheckKey: CheckAdjustmentsEntered, CheckName: "Bút toán điều chỉnh đã nhập", CheckOrder: 7},
	}
}

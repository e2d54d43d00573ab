package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// Well-known account codes of the default chart of accounts.
// Accounts are created lazily on first use and never deleted.
const (
	AccountCodeCash          = "111"
	AccountCodeBank          = "112"
	AccountCodeReceivable    = "131"
	AccountCodePayable       = "331"
	AccountCodeSalesRevenue  = "511"
	AccountCodeSalaryExpense = "642"
)

// Account is one entry in a tenant's chart of accounts.
// (tenant_id, code) is unique.
type Account struct {
	AccountID   string      `json:"accountID"`
	TenantID    string      `json:"tenantID"`
	Code        string      `json:"code"` // short numeric string, e.g. "111", "511"
	Name        string      `json:"name"`
	AccountType AccountType `json:"accountType"`
	IsActive    bool        `json:"isActive"`
	AuditFields
}

package domain

import (
	"encoding/json"
	"strconv"
	"strings"
)

// SettingType governs how a setting value string is coerced.
type SettingType string

const (
	SettingString  SettingType = "STRING"
	SettingBoolean SettingType = "BOOLEAN"
	SettingNumber  SettingType = "NUMBER"
	SettingJSON    SettingType = "JSON"
)

// Setting keys consulted by the accounting core and its caller adapters.
const (
	SettingAutoJournalOnPayment  = "finance.auto_journal_on_payment"
	SettingDefaultPaymentTerms   = "finance.default_payment_terms"
	SettingTaxRate               = "finance.tax_rate"
	SettingAllowPostNoPeriod     = "finance.allow_post_without_period"
	SettingTimezone              = "general.timezone"
	SettingAutoDeductInventory   = "order.auto_deduct_inventory"
	SettingSyncOrderAssignments  = "hr.sync_order_assignments"
	SettingAutoImportInventoryPO = "inventory.auto_import_from_po"
)

// TenantSetting is a typed key/value toggle scoped to one tenant.
// (tenant_id, setting_key) is unique.
type TenantSetting struct {
	SettingID   string      `json:"settingID"`
	TenantID    string      `json:"tenantID"`
	SettingKey  string      `json:"settingKey"`
	Value       string      `json:"value"`
	SettingType SettingType `json:"settingType"`
	AuditFields
}

// SettingsBag is a request-scoped snapshot of one tenant's settings with
// typed accessors. Loading the bag once per request gives the per-request
// memoization the callers rely on.
type SettingsBag map[string]TenantSetting

// GetString returns the raw value or def when the key is absent.
func (b SettingsBag) GetString(key, def string) string {
	if s, ok := b[key]; ok {
		return s.Value
	}
	return def
}

// GetBool coerces a BOOLEAN setting; "true", "1" and "yes" are truthy.
func (b SettingsBag) GetBool(key string, def bool) bool {
	s, ok := b[key]
	if !ok {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(s.Value)) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return def
}

// GetInt coerces a NUMBER setting, falling back to def on parse failure.
func (b SettingsBag) GetInt(key string, def int) int {
	s, ok := b[key]
	if !ok {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(s.Value))
	if err != nil {
		return def
	}
	return n
}

// GetJSON parses a JSON setting; invalid payloads yield an empty object.
func (b SettingsBag) GetJSON(key string) map[string]any {
	s, ok := b[key]
	if !ok {
		return map[string]any{}
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(s.Value), &out); err != nil || out == nil {
		return map[string]any{}
	}
	return out
}

// DefaultSettings are seeded for every new tenant in a single atomic
// insert set.
func DefaultSettings() []TenantSetting {
	return []TenantSetting{
		{SettingKey: SettingAutoJournalOnPayment, Value: "true", SettingType: SettingBoolean},
		{SettingKey: SettingDefaultPaymentTerms, Value: "30", SettingType: SettingNumber},
		{SettingKey: SettingTaxRate, Value: "10", SettingType: SettingNumber},
		{SettingKey: SettingAllowPostNoPeriod, Value: "true", SettingType: SettingBoolean},
		{SettingKey: SettingTimezone, Value: "Asia/Ho_Chi_Minh", SettingType: SettingString},
		{SettingKey: SettingAutoDeductInventory, Value: "true", SettingType: SettingBoolean},
		{SettingKey: SettingSyncOrderAssignments, Value: "false", SettingType: SettingBoolean},
		{SettingKey: SettingAutoImportInventoryPO, Value: "false", SettingType: SettingBoolean},
	}
}

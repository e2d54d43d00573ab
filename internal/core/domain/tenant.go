package domain

import "encoding/json"

// TenantStatus is the subscription state of a tenant.
type TenantStatus string

const (
	TenantActive    TenantStatus = "ACTIVE"
	TenantTrial     TenantStatus = "TRIAL"
	TenantSuspended TenantStatus = "SUSPENDED"
	TenantCancelled TenantStatus = "CANCELLED"
)

// Tenant is one catering business. Every core row carries its tenant_id
// and the row-level policies key on it.
type Tenant struct {
	TenantID   string          `json:"tenantID"`
	Name       string          `json:"name"`
	Slug       string          `json:"slug"`
	PlanLabel  string          `json:"planLabel"`
	Status     TenantStatus    `json:"status"`
	PlanLimits json.RawMessage `json:"planLimits,omitempty"`
	AuditFields
}

// CanWrite reports whether the tenant may create or modify data.
// Suspended and cancelled tenants are read-only.
func (t Tenant) CanWrite() bool {
	return t.Status == TenantActive || t.Status == TenantTrial
}

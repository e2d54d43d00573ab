package dto

import (
	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/core/domain"
)

// CreateTenantRequest registers a new tenant. Settings defaults are seeded
// in the same transaction.
type CreateTenantRequest struct {
	Name      string `json:"name" binding:"required"`
	Slug      string `json:"slug" binding:"required,alphanum|contains=-"`
	PlanLabel string `json:"planLabel"`
}

// TenantResponse is the API shape of a tenant.
type TenantResponse struct {
	TenantID  string              `json:"tenantID"`
	Name      string              `json:"name"`
	Slug      string              `json:"slug"`
	PlanLabel string              `json:"planLabel"`
	Status    domain.TenantStatus `json:"status"`
}

// ToTenantResponse converts a domain.Tenant to its DTO.
func ToTenantResponse(t *domain.Tenant) TenantResponse {
	return TenantResponse{
		TenantID:  t.TenantID,
		Name:      t.Name,
		Slug:      t.Slug,
		PlanLabel: t.PlanLabel,
		Status:    t.Status,
	}
}

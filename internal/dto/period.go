package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/core/domain"
)

// CreatePeriodRequest creates a new OPEN accounting period.
type CreatePeriodRequest struct {
	Name       string            `json:"name" binding:"required"`
	PeriodType domain.PeriodType `json:"periodType" binding:"required,periodtype"`
	StartDate  time.Time         `json:"startDate" binding:"required"`
	EndDate    time.Time         `json:"endDate" binding:"required"`
}

// ReopenPeriodRequest reopens a CLOSING or CLOSED period. A reason is
// mandatory and lands in the audit log.
type ReopenPeriodRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// MarkChecklistRequest marks or unmarks a manual checklist item.
type MarkChecklistRequest struct {
	Completed bool   `json:"completed"`
	Notes     string `json:"notes"`
}

// PeriodResponse is the API shape of an accounting period.
type PeriodResponse struct {
	PeriodID                string              `json:"periodID"`
	Name                    string              `json:"name"`
	PeriodType              domain.PeriodType   `json:"periodType"`
	StartDate               time.Time           `json:"startDate"`
	EndDate                 time.Time           `json:"endDate"`
	Status                  domain.PeriodStatus `json:"status"`
	ClosedAt                *time.Time          `json:"closedAt,omitempty"`
	ClosedBy                string              `json:"closedBy,omitempty"`
	ClosingTotalDebit       decimal.Decimal     `json:"closingTotalDebit"`
	ClosingTotalCredit      decimal.Decimal     `json:"closingTotalCredit"`
	ClosingRetainedEarnings decimal.Decimal     `json:"closingRetainedEarnings"`
}

// ChecklistItemResponse is the API shape of a checklist item.
type ChecklistItemResponse struct {
	CheckKey    string     `json:"checkKey"`
	CheckName   string     `json:"checkName"`
	CheckOrder  int        `json:"checkOrder"`
	IsAutomated bool       `json:"isAutomated"`
	IsCompleted bool       `json:"isCompleted"`
	CompletedBy string     `json:"completedBy,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Notes       string     `json:"notes,omitempty"`
}

// ClosePeriodResponse is returned by begin-close: the period plus the
// freshly evaluated checklist.
type ClosePeriodResponse struct {
	Period    PeriodResponse          `json:"period"`
	Checklist []ChecklistItemResponse `json:"checklist"`
}

// PeriodAuditResponse is the API shape of one audit row.
type PeriodAuditResponse struct {
	Action      domain.PeriodAuditAction `json:"action"`
	PerformedBy string                   `json:"performedBy"`
	PerformedAt time.Time                `json:"performedAt"`
	Reason      string                   `json:"reason,omitempty"`
	Extra       string                   `json:"extra,omitempty"`
}

// ToPeriodResponse converts a domain.AccountingPeriod to its DTO.
func ToPeriodResponse(p *domain.AccountingPeriod) PeriodResponse {
	return PeriodResponse{
		PeriodID:                p.PeriodID,
		Name:                    p.Name,
		PeriodType:              p.PeriodType,
		StartDate:               p.StartDate,
		EndDate:                 p.EndDate,
		Status:                  p.Status,
		ClosedAt:                p.ClosedAt,
		ClosedBy:                p.ClosedBy,
		ClosingTotalDebit:       p.ClosingTotalDebit,
		ClosingTotalCredit:      p.ClosingTotalCredit,
		ClosingRetainedEarnings: p.ClosingRetainedEarnings,
	}
}

// ToChecklistItemResponse converts a domain.ChecklistItem to its DTO.
func ToChecklistItemResponse(item domain.ChecklistItem) ChecklistItemResponse {
	return ChecklistItemResponse{
		CheckKey:    item.CheckKey,
		CheckName:   item.CheckName,
		CheckOrder:  item.CheckOrder,
		IsAutomated: item.IsAutomated,
		IsCompleted: item.IsCompleted,
		CompletedBy: item.CompletedBy,
		CompletedAt: item.CompletedAt,
		Notes:       item.Notes,
	}
}

// ToChecklistResponses converts a slice of checklist items to DTOs.
func ToChecklistResponses(items []domain.ChecklistItem) []ChecklistItemResponse {
	responses := make([]ChecklistItemResponse, len(items))
	for i, item := range items {
		responses[i] = ToChecklistItemResponse(item)
	}
	return responses
}

// ToPeriodAuditResponse converts a domain.PeriodAuditEntry to its DTO.
func ToPeriodAuditResponse(e domain.PeriodAuditEntry) PeriodAuditResponse {
	return PeriodAuditResponse{
		Action:      e.Action,
		PerformedBy: e.PerformedBy,
		PerformedAt: e.PerformedAt,
		Reason:      e.Reason,
		Extra:       string(e.Extra),
	}
}

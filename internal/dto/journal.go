package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/core/domain"
)

// CreateJournalLineRequest is one line of a manual journal entry.
// Exactly one of debit/credit must be positive.
type CreateJournalLineRequest struct {
	AccountCode string          `json:"accountCode" binding:"required"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// CreateJournalRequest creates a DRAFT journal with its lines.
type CreateJournalRequest struct {
	Kind        domain.JournalKind         `json:"kind" binding:"required,journalkind"`
	Date        time.Time                  `json:"date" binding:"required"`
	Description string                     `json:"description" binding:"required"`
	Lines       []CreateJournalLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// UpdateJournalRequest edits the header of a DRAFT journal. Lines are not
// editable in place; delete the draft and recreate it to change them.
type UpdateJournalRequest struct {
	Date        time.Time `json:"date" binding:"required"`
	Description string    `json:"description" binding:"required"`
}

// ReverseJournalRequest optionally overrides the reversal date; the
// current date is used when absent.
type ReverseJournalRequest struct {
	Date *time.Time `json:"date"`
}

// JournalLineResponse is the API shape of a journal line.
type JournalLineResponse struct {
	LineID      string          `json:"lineID"`
	AccountID   string          `json:"accountID"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description,omitempty"`
}

// JournalResponse is the API shape of a journal entry.
type JournalResponse struct {
	JournalID         string                `json:"journalID"`
	Code              string                `json:"code"`
	Kind              domain.JournalKind    `json:"kind"`
	Date              time.Time             `json:"date"`
	Description       string                `json:"description"`
	TotalAmount       decimal.Decimal       `json:"totalAmount"`
	ReferenceType     domain.ReferenceType  `json:"referenceType"`
	ReferenceID       string                `json:"referenceID,omitempty"`
	Status            domain.JournalStatus  `json:"status"`
	PostedAt          *time.Time            `json:"postedAt,omitempty"`
	ReversedJournalID *string               `json:"reversedJournalID,omitempty"`
	Lines             []JournalLineResponse `json:"lines,omitempty"`
	CreatedAt         time.Time             `json:"createdAt"`
	CreatedBy         string                `json:"createdBy"`
}

// ListJournalsParams holds pagination parameters for listing journals.
type ListJournalsParams struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

// ListJournalsResponse is a page of journals.
type ListJournalsResponse struct {
	Journals []JournalResponse `json:"journals"`
}

// ToJournalLineResponse converts a domain.JournalLine to its DTO.
func ToJournalLineResponse(l domain.JournalLine) JournalLineResponse {
	return JournalLineResponse{
		LineID:      l.LineID,
		AccountID:   l.AccountID,
		Debit:       l.Debit,
		Credit:      l.Credit,
		Description: l.Description,
	}
}

// ToJournalResponse converts a domain.Journal to its DTO.
func ToJournalResponse(j *domain.Journal) JournalResponse {
	resp := JournalResponse{
		JournalID:         j.JournalID,
		Code:              j.Code,
		Kind:              j.Kind,
		Date:              j.JournalDate,
		Description:       j.Description,
		TotalAmount:       j.TotalAmount,
		ReferenceType:     j.ReferenceType,
		ReferenceID:       j.ReferenceID,
		Status:            j.Status,
		PostedAt:          j.PostedAt,
		ReversedJournalID: j.ReversedJournalID,
		CreatedAt:         j.CreatedAt,
		CreatedBy:         j.CreatedBy,
	}
	if len(j.Lines) > 0 {
		resp.Lines = make([]JournalLineResponse, len(j.Lines))
		for i, l := range j.Lines {
			resp.Lines[i] = ToJournalLineResponse(l)
		}
	}
	return resp
}

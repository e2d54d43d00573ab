package dto

import (
	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/core/domain"
)

// UpdateSettingRequest writes one tenant setting. The declared type of the
// existing row governs coercion; unknown keys are stored as strings.
type UpdateSettingRequest struct {
	Value string `json:"value" binding:"required"`
}

// SettingResponse is the API shape of one tenant setting.
type SettingResponse struct {
	SettingKey  string             `json:"settingKey"`
	Value       string             `json:"value"`
	SettingType domain.SettingType `json:"settingType"`
}

// ToSettingResponse converts a domain.TenantSetting to its DTO.
func ToSettingResponse(s domain.TenantSetting) SettingResponse {
	return SettingResponse{
		SettingKey:  s.SettingKey,
		Value:       s.Value,
		SettingType: s.SettingType,
	}
}

// ToSettingResponses converts a slice of settings to DTOs.
func ToSettingResponses(settings []domain.TenantSetting) []SettingResponse {
	responses := make([]SettingResponse, len(settings))
	for i, s := range settings {
		responses[i] = ToSettingResponse(s)
	}
	return responses
}

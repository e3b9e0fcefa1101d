package dto

import (
	"time"

	"github.com/allisson/proxyadmin/internal/setting/domain"
)

// SettingResponse represents a setting in API responses.
type SettingResponse struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Value       any            `json:"value"`
	Meta        map[string]any `json:"meta,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// ListSettingsResponse represents a list of settings.
type ListSettingsResponse struct {
	Data []SettingResponse `json:"data"`
}

// MapSettingToResponse converts a domain setting to its response form.
func MapSettingToResponse(setting *domain.Setting) SettingResponse {
	return SettingResponse{
		ID:          setting.ID,
		Name:        setting.Name,
		Description: setting.Description,
		Value:       setting.Value,
		Meta:        setting.Meta,
		CreatedAt:   setting.CreatedAt,
		UpdatedAt:   setting.UpdatedAt,
	}
}

// MapSettingsToListResponse converts a slice of settings to a list response.
func MapSettingsToListResponse(settings []*domain.Setting) ListSettingsResponse {
	data := make([]SettingResponse, 0, len(settings))
	for _, setting := range settings {
		data = append(data, MapSettingToResponse(setting))
	}
	return ListSettingsResponse{Data: data}
}

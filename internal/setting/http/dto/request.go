// Package dto contains data transfer objects for setting HTTP requests and
// responses.
package dto

import (
	validation "github.com/jellydator/validation"

	"github.com/allisson/proxyadmin/internal/setting/domain"

	appValidation "github.com/allisson/proxyadmin/internal/validation"
)

// SettingRequest represents an update-setting request body.
type SettingRequest struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Value       any            `json:"value"`
	Meta        map[string]any `json:"meta,omitempty"`
}

// Validate validates the request fields.
func (r SettingRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			appValidation.NotBlank,
			validation.Length(1, 100),
		),
		validation.Field(&r.Description,
			validation.Length(0, 255),
		),
		validation.Field(&r.Value,
			validation.Required.Error("value is required"),
		),
	)
}

// ToUpdateSettingInput converts the request to an update input.
func (r SettingRequest) ToUpdateSettingInput() *domain.UpdateSettingInput {
	return &domain.UpdateSettingInput{
		Name:        r.Name,
		Description: r.Description,
		Value:       r.Value,
		Meta:        r.Meta,
	}
}

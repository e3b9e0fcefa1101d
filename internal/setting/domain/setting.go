// Package domain defines server-wide configuration settings.
package domain

import (
	"time"

	apperrors "github.com/allisson/proxyadmin/internal/errors"
)

// ObjectType is the audit log object type for settings.
const ObjectType = "setting"

// ErrSettingNotFound indicates the requested setting does not exist.
var ErrSettingNotFound = apperrors.Wrap(apperrors.ErrNotFound, "setting not found")

// Setting is a named server-wide configuration entry. Settings are seeded by
// migrations and identified by a string key; they can be updated but never
// created or deleted through the API.
type Setting struct {
	ID          string
	Name        string
	Description string
	Value       any
	Meta        map[string]any
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UpdateSettingInput contains the mutable fields of a setting. Value holds
// arbitrary JSON and must not be nil.
type UpdateSettingInput struct {
	Name        string
	Description string
	Value       any
	Meta        map[string]any
}

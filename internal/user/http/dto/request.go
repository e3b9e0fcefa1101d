// Package dto provides data transfer objects for the user HTTP layer.
package dto

import (
	validation "github.com/jellydator/validation"

	accessDomain "github.com/allisson/proxyadmin/internal/access/domain"
	"github.com/allisson/proxyadmin/internal/user/domain"

	appValidation "github.com/allisson/proxyadmin/internal/validation"
)

// CreateUserRequest contains the parameters for creating a new user.
type CreateUserRequest struct {
	Name     string   `json:"name"`
	Nickname string   `json:"nickname,omitempty"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles,omitempty"`
	Password string   `json:"password"`
}

// Validate checks if the create user request is valid.
func (r *CreateUserRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required,
			appValidation.NotBlank,
			validation.Length(1, 100),
		),
		validation.Field(&r.Email,
			validation.Required,
			appValidation.NotBlank,
			appValidation.Email,
		),
		validation.Field(&r.Password,
			validation.Required,
			validation.Length(8, 128),
		),
	)
}

// ToCreateUserInput converts the request to a use case input.
func (r *CreateUserRequest) ToCreateUserInput() *domain.CreateUserInput {
	return &domain.CreateUserInput{
		Name:     r.Name,
		Nickname: r.Nickname,
		Email:    r.Email,
		Roles:    r.Roles,
		Password: r.Password,
	}
}

// UpdateUserRequest contains the mutable profile fields of a user.
type UpdateUserRequest struct {
	Name       string   `json:"name"`
	Nickname   string   `json:"nickname,omitempty"`
	Email      string   `json:"email"`
	Roles      []string `json:"roles,omitempty"`
	IsDisabled bool     `json:"is_disabled"`
}

// Validate checks if the update user request is valid.
func (r *UpdateUserRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required,
			appValidation.NotBlank,
			validation.Length(1, 100),
		),
		validation.Field(&r.Email,
			validation.Required,
			appValidation.NotBlank,
			appValidation.Email,
		),
	)
}

// ToUpdateUserInput converts the request to a use case input.
func (r *UpdateUserRequest) ToUpdateUserInput() *domain.UpdateUserInput {
	return &domain.UpdateUserInput{
		Name:       r.Name,
		Nickname:   r.Nickname,
		Email:      r.Email,
		Roles:      r.Roles,
		IsDisabled: r.IsDisabled,
	}
}

// SetPasswordRequest contains a password change. Current is required when
// users change their own password.
type SetPasswordRequest struct {
	Current string `json:"current,omitempty"`
	Secret  string `json:"secret"`
}

// Validate checks if the password change request is valid.
func (r *SetPasswordRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Secret,
			validation.Required,
			validation.Length(8, 128),
		),
	)
}

// SetPermissionsRequest contains a capability profile in its wire form: a
// visibility plus one capability level per owned resource type.
type SetPermissionsRequest struct {
	Visibility       string `json:"visibility"`
	ProxyHosts       string `json:"proxy_hosts,omitempty"`
	RedirectionHosts string `json:"redirection_hosts,omitempty"`
	DeadHosts        string `json:"dead_hosts,omitempty"`
	Streams          string `json:"streams,omitempty"`
	AccessLists      string `json:"access_lists,omitempty"`
	Certificates     string `json:"certificates,omitempty"`
}

// Validate checks if the permissions request is valid.
func (r *SetPermissionsRequest) Validate() error {
	levels := []any{"", "none", "view", "manage"}
	return validation.ValidateStruct(r,
		validation.Field(&r.Visibility,
			validation.Required,
			validation.In("all", "own"),
		),
		validation.Field(&r.ProxyHosts, validation.In(levels...)),
		validation.Field(&r.RedirectionHosts, validation.In(levels...)),
		validation.Field(&r.DeadHosts, validation.In(levels...)),
		validation.Field(&r.Streams, validation.In(levels...)),
		validation.Field(&r.AccessLists, validation.In(levels...)),
		validation.Field(&r.Certificates, validation.In(levels...)),
	)
}

// ToProfile converts the request to a capability profile. Omitted levels
// default to none.
func (r *SetPermissionsRequest) ToProfile() *accessDomain.Profile {
	level := func(s string) accessDomain.CapabilityLevel {
		if s == "" {
			return accessDomain.CapabilityNone
		}
		return accessDomain.CapabilityLevel(s)
	}

	return &accessDomain.Profile{
		Visibility: accessDomain.Visibility(r.Visibility),
		Capabilities: map[accessDomain.ResourceType]accessDomain.CapabilityLevel{
			accessDomain.ResourceProxyHosts:       level(r.ProxyHosts),
			accessDomain.ResourceRedirectionHosts: level(r.RedirectionHosts),
			accessDomain.ResourceDeadHosts:        level(r.DeadHosts),
			accessDomain.ResourceStreams:          level(r.Streams),
			accessDomain.ResourceAccessLists:      level(r.AccessLists),
			accessDomain.ResourceCertificates:     level(r.Certificates),
		},
	}
}

// Package dto provides data transfer objects for token HTTP handlers.
package dto

import (
	"time"

	validation "github.com/jellydator/validation"

	tokenDomain "github.com/allisson/proxyadmin/internal/token/domain"

	customValidation "github.com/allisson/proxyadmin/internal/validation"
)

// RequestTokenRequest contains the credentials for requesting a new token.
type RequestTokenRequest struct {
	Identity string `json:"identity"`
	Secret   string `json:"secret"`
	Scope    string `json:"scope,omitempty"`
	Expiry   string `json:"expiry,omitempty"`
}

// Validate checks if the token request is valid.
func (r *RequestTokenRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Identity,
			validation.Required,
			customValidation.NotBlank,
		),
		validation.Field(&r.Secret,
			validation.Required,
		),
	)
}

// TokenResponse contains an issued token and its expiry instant.
type TokenResponse struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

// MapTokenToResponse converts an issued token to an API response.
func MapTokenToResponse(output *tokenDomain.TokenOutput) TokenResponse {
	return TokenResponse{
		Token:   output.Token,
		Expires: output.Expires,
	}
}

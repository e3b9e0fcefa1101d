package domain

import "time"

// RequestTokenInput carries the credentials presented when requesting a new
// token. Scope and Expiry are optional; they default to the user scope and
// the configured lifetime.
type RequestTokenInput struct {
	Identity string `json:"identity"`
	Secret   string `json:"secret"`
	Scope    string `json:"scope,omitempty"`
	Expiry   string `json:"expiry,omitempty"`
}

// TokenOutput is an issued token and its expiry instant.
type TokenOutput struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

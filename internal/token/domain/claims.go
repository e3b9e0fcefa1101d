// Package domain defines the credential claims model used for API authentication.
//
// A credential is a signed, time-bounded JWT carrying the identity attributes and
// the scopes it was issued for. Scopes describe where a token came from and what
// is using it (almost always "user"); they are distinct from roles, which belong
// to the persisted user record.
package domain

import (
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// UserScope is the reserved scope name carried by tokens issued to human users.
const UserScope = "user"

// legacyAllScope is a scope marker found on tokens issued by old releases.
// It carried the same meaning as UserScope and is rewritten on load.
const legacyAllScope = "all"

// Attributes holds the identity attributes embedded in a credential.
type Attributes struct {
	// ID is the user ID this token was issued for. Zero for system tokens
	// that are not bound to a user.
	ID int64 `json:"id,omitempty"`
}

// Claims is the decoded payload of a credential.
type Claims struct {
	// Attributes carries identity attributes, currently just the user ID.
	Attributes Attributes `json:"attrs"`

	// Scope is the set of scope names the token was issued for. Absent on
	// unscoped system credentials, otherwise non-empty.
	Scope []string `json:"scope,omitempty"`

	jwt.RegisteredClaims
}

// HasScope reports whether the claims carry the named scope.
func (c *Claims) HasScope(scope string) bool {
	return slices.Contains(c.Scope, scope)
}

// UserID returns the user ID from the identity attributes, or defaultID when
// the attribute is absent or zero.
func (c *Claims) UserID(defaultID int64) int64 {
	if c.Attributes.ID != 0 {
		return c.Attributes.ID
	}
	return defaultID
}

// NormalizeScope rewrites the deprecated universal scope marker to the user
// scope. Tokens signed by old releases used "all" where "user" was meant; the
// rewrite preserves their original security intent during the transition
// window in which they are still valid.
func (c *Claims) NormalizeScope() {
	if slices.Contains(c.Scope, legacyAllScope) {
		c.Scope = []string{UserScope}
	}
}

// Package domain defines access list entities for client authorization
// at the proxy edge.
package domain

import (
	"time"

	apperrors "github.com/allisson/proxyadmin/internal/errors"
)

// ObjectType is the audit log object type for access lists.
const ObjectType = "access_list"

// ErrAccessListNotFound indicates the requested access list does not exist.
var ErrAccessListNotFound = apperrors.Wrap(apperrors.ErrNotFound, "access list not found")

// Client rule directives.
const (
	DirectiveAllow = "allow"
	DirectiveDeny  = "deny"
)

// AuthItem is a basic auth credential accepted by an access list.
type AuthItem struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ClientRule allows or denies requests from a client address.
type ClientRule struct {
	Address   string `json:"address"`
	Directive string `json:"directive"`
}

// AccessList groups basic auth credentials and client address rules that
// hosts can reference.
type AccessList struct {
	ID          int64
	OwnerUserID int64
	Name        string
	SatisfyAny  bool
	PassAuth    bool
	AuthItems   []AuthItem
	ClientRules []ClientRule
	IsDeleted   bool
	Meta        map[string]any
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateAccessListInput contains the parameters for creating an access list.
// OwnerUserID is only honored for internal callers.
type CreateAccessListInput struct {
	OwnerUserID int64
	Name        string
	SatisfyAny  bool
	PassAuth    bool
	AuthItems   []AuthItem
	ClientRules []ClientRule
	Meta        map[string]any
}

// UpdateAccessListInput contains the mutable fields of an access list.
type UpdateAccessListInput struct {
	Name        string
	SatisfyAny  bool
	PassAuth    bool
	AuthItems   []AuthItem
	ClientRules []ClientRule
	Meta        map[string]any
}

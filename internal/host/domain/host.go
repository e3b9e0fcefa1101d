// Package domain defines the host models managed by the proxy backend.
//
// Proxy hosts, redirection hosts and 404 hosts share one record shape and one
// table, discriminated by Type. The three kinds stay separate authorization
// resources: each maps to its own resource type and permission keys.
package domain

import (
	"time"

	accessDomain "github.com/allisson/proxyadmin/internal/access/domain"

	apperrors "github.com/allisson/proxyadmin/internal/errors"
)

// Type discriminates the kind of host a record describes.
type Type string

const (
	// TypeProxy forwards incoming requests to an upstream host and port.
	TypeProxy Type = "proxy"
	// TypeRedirection answers with an HTTP redirect to another domain.
	TypeRedirection Type = "redirection"
	// TypeDead answers every request with 404.
	TypeDead Type = "dead"
)

// Types lists every valid host type.
var Types = []Type{TypeProxy, TypeRedirection, TypeDead}

// Valid reports whether the type is one of the known values.
func (t Type) Valid() bool {
	return t == TypeProxy || t == TypeRedirection || t == TypeDead
}

// ResourceType returns the authorization resource this host type belongs to.
func (t Type) ResourceType() accessDomain.ResourceType {
	switch t {
	case TypeProxy:
		return accessDomain.ResourceProxyHosts
	case TypeRedirection:
		return accessDomain.ResourceRedirectionHosts
	case TypeDead:
		return accessDomain.ResourceDeadHosts
	default:
		return ""
	}
}

// ObjectType returns the audit log object type for this host type.
func (t Type) ObjectType() string {
	switch t {
	case TypeProxy:
		return "proxy_host"
	case TypeRedirection:
		return "redirection_host"
	case TypeDead:
		return "dead_host"
	default:
		return ""
	}
}

// ErrHostNotFound is returned when a host does not exist, is soft deleted, or
// carries a different type than the one requested.
var ErrHostNotFound = apperrors.Wrap(apperrors.ErrNotFound, "host not found")

// Host is one proxy, redirection or 404 host record. Fields that only apply
// to one type are zero for the others.
type Host struct {
	ID          int64
	Type        Type
	OwnerUserID int64
	DomainNames []string

	// Proxy fields.
	ForwardHost  string
	ForwardPort  int
	AccessListID int64

	// Redirection fields.
	ForwardDomainName string
	ForwardHTTPCode   int
	PreservePath      bool

	CertificateID  int64
	SSLForced      bool
	CachingEnabled bool
	BlockExploits  bool
	AdvancedConfig string

	Enabled   bool
	IsDeleted bool
	Meta      map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateHostInput contains the parameters for creating a host. OwnerUserID is
// only honored for internal callers; API callers always own what they create.
type CreateHostInput struct {
	OwnerUserID       int64
	DomainNames       []string
	ForwardHost       string
	ForwardPort       int
	AccessListID      int64
	ForwardDomainName string
	ForwardHTTPCode   int
	PreservePath      bool
	CertificateID     int64
	SSLForced         bool
	CachingEnabled    bool
	BlockExploits     bool
	AdvancedConfig    string
	Meta              map[string]any
}

// UpdateHostInput contains the mutable fields of a host.
type UpdateHostInput struct {
	DomainNames       []string
	ForwardHost       string
	ForwardPort       int
	AccessListID      int64
	ForwardDomainName string
	ForwardHTTPCode   int
	PreservePath      bool
	CertificateID     int64
	SSLForced         bool
	CachingEnabled    bool
	BlockExploits     bool
	AdvancedConfig    string
	Meta              map[string]any
}

// Report aggregates visible host and stream counts per kind.
type Report struct {
	Proxy       int64 `json:"proxy"`
	Redirection int64 `json:"redirection"`
	Dead        int64 `json:"dead"`
	Streams     int64 `json:"streams"`
}

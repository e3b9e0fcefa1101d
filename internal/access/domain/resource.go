// Package domain defines the authorization engine's data model: resource
// types, capability profiles, permission keys, action rules and the decision
// record they are evaluated against.
//
// Terminology note: "scope" means where a token came from and what is using it
// (almost always "user"), while "role" is a property of a persisted user row.
// The two are deliberately distinct and both participate in every decision.
package domain

// ResourceType names a class of governed objects.
type ResourceType string

// Governed resource types. Each maps to the base of a permission key and, for
// the owned types, to a column set the object scope resolver can enumerate.
const (
	ResourceProxyHosts       ResourceType = "proxy_hosts"
	ResourceRedirectionHosts ResourceType = "redirection_hosts"
	ResourceDeadHosts        ResourceType = "dead_hosts"
	ResourceStreams          ResourceType = "streams"
	ResourceAccessLists      ResourceType = "access_lists"
	ResourceCertificates     ResourceType = "certificates"
	ResourceUsers            ResourceType = "users"
	ResourceSettings         ResourceType = "settings"
	ResourceAuditLog         ResourceType = "audit_log"
	ResourceReports          ResourceType = "reports"
)

// OwnedResourceTypes lists the resource types whose rows carry an owner and are
// therefore subject to object scoping. The order is fixed so that decision
// records and capability profiles enumerate deterministically.
var OwnedResourceTypes = []ResourceType{
	ResourceProxyHosts,
	ResourceRedirectionHosts,
	ResourceDeadHosts,
	ResourceStreams,
	ResourceAccessLists,
	ResourceCertificates,
}

// Visibility controls whether an identity sees every object of a governed
// type or only the objects it owns.
type Visibility string

const (
	// VisibilityAll grants unrestricted object visibility.
	VisibilityAll Visibility = "all"

	// VisibilityOwn restricts the identity to objects it owns.
	VisibilityOwn Visibility = "own"
)

// Valid reports whether the visibility is one of the two known values.
func (v Visibility) Valid() bool {
	return v == VisibilityAll || v == VisibilityOwn
}

// CapabilityLevel is the per-resource capability granted to an identity.
type CapabilityLevel string

const (
	// CapabilityNone hides the resource type entirely.
	CapabilityNone CapabilityLevel = "none"

	// CapabilityView grants read-only access.
	CapabilityView CapabilityLevel = "view"

	// CapabilityManage grants full read-write access.
	CapabilityManage CapabilityLevel = "manage"
)

// Valid reports whether the level is one of the known values.
func (l CapabilityLevel) Valid() bool {
	return l == CapabilityNone || l == CapabilityView || l == CapabilityManage
}

// Satisfies reports whether this level grants at least the required level.
// Manage implies view; none satisfies nothing.
func (l CapabilityLevel) Satisfies(required CapabilityLevel) bool {
	switch required {
	case CapabilityNone:
		return true
	case CapabilityView:
		return l == CapabilityView || l == CapabilityManage
	case CapabilityManage:
		return l == CapabilityManage
	default:
		return false
	}
}

// Profile is the capability profile attached one-to-one to an identity: its
// object visibility plus one capability level per owned resource type.
type Profile struct {
	Visibility   Visibility
	Capabilities map[ResourceType]CapabilityLevel
}

// Capability returns the level granted for the given resource type, defaulting
// to none for types the profile does not mention.
func (p *Profile) Capability(resource ResourceType) CapabilityLevel {
	if p == nil || p.Capabilities == nil {
		return CapabilityNone
	}
	if level, ok := p.Capabilities[resource]; ok {
		return level
	}
	return CapabilityNone
}

package domain

// DecisionPayload is the per-key body of a decision record: the caller's data
// together with everything the engine resolved about the actor. It is
// assembled fresh for every check and never persisted.
type DecisionPayload struct {
	// Data is the caller-supplied payload under evaluation: a resource ID for
	// scoped reads and writes, or the request body for creates.
	Data any

	// Scope is the credential's scope set.
	Scope []string

	// Roles is the resolved identity's role set, including the implicit
	// "user" role. Empty for credentials that did not resolve to an identity.
	Roles []string

	// Visibility is the identity's object visibility. Empty when no identity
	// was resolved.
	Visibility Visibility

	// Capabilities holds the identity's per-resource capability levels.
	Capabilities map[ResourceType]CapabilityLevel
}

// Capability returns the payload's level for the resource type, defaulting to
// none.
func (p *DecisionPayload) Capability(resource ResourceType) CapabilityLevel {
	if p.Capabilities == nil {
		return CapabilityNone
	}
	if level, ok := p.Capabilities[resource]; ok {
		return level
	}
	return CapabilityNone
}

// DecisionRecord is the ephemeral document one authorization check is
// evaluated against. The envelope rule requires it to hold exactly one key:
// the permission key under evaluation.
type DecisionRecord map[PermissionKey]*DecisionPayload

// NewDecisionRecord assembles the decision record for one check. The profile
// may be nil for credentials that resolved without an identity.
func NewDecisionRecord(
	key PermissionKey,
	data any,
	scope []string,
	roles []string,
	profile *Profile,
) DecisionRecord {
	payload := &DecisionPayload{
		Data:  data,
		Scope: scope,
		Roles: roles,
	}

	if profile != nil {
		payload.Visibility = profile.Visibility
		payload.Capabilities = make(map[ResourceType]CapabilityLevel, len(OwnedResourceTypes))
		for _, resource := range OwnedResourceTypes {
			payload.Capabilities[resource] = profile.Capability(resource)
		}
	}

	return DecisionRecord{key: payload}
}

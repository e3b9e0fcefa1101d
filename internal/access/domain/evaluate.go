package domain

import (
	"fmt"
	"slices"
)

// Evaluate runs one authorization decision: the envelope rule, the role-shape
// rule, the object-scope rule and the action rule are checked as a single
// predicate over the decision record. All must hold for the record to be
// accepted; the returned error names the first fragment that failed and is
// for internal logging only, never for callers.
//
// actorID is the resolved identity's ID (zero when no identity was resolved);
// scope is the allowed-ID enumeration for the key's resource type, or nil when
// the caller is not object-scoped.
func Evaluate(
	record DecisionRecord,
	key PermissionKey,
	rule *ActionRule,
	scope *ObjectScope,
	actorID int64,
) error {
	if rule == nil {
		return fmt.Errorf("no action rule for %q", key)
	}

	// Envelope: the record holds exactly the permission key and nothing else.
	payload, ok := record[key]
	if !ok || payload == nil {
		return fmt.Errorf("decision record is missing key %q", key)
	}
	if len(record) != 1 {
		return fmt.Errorf("decision record has %d keys, want exactly 1", len(record))
	}

	// Role shape: scope names, role names and resolved capability values must
	// be structurally sound before any of them grants anything.
	if err := checkRoleShape(payload); err != nil {
		return err
	}

	// Action rule, role branch: a privileged role authorizes on its own.
	for _, role := range rule.Roles {
		if slices.Contains(payload.Roles, role) {
			return nil
		}
	}

	// Action rule, user branch: capability level plus object scope.
	if !rule.UserBranch {
		return fmt.Errorf("action %q requires one of roles %v", key, rule.Roles)
	}
	if !slices.Contains(payload.Roles, "user") {
		return fmt.Errorf("action %q requires the user role", key)
	}
	if !payload.Capability(key.Resource()).Satisfies(rule.Level) {
		return fmt.Errorf("action %q requires %q on %q, have %q",
			key, rule.Level, key.Resource(), payload.Capability(key.Resource()))
	}

	return checkObjectScope(payload, rule.Binding, scope, actorID)
}

// checkRoleShape validates the structural integrity of the resolved actor
// properties carried by the payload.
func checkRoleShape(payload *DecisionPayload) error {
	for _, name := range payload.Scope {
		if name == "" {
			return fmt.Errorf("decision record carries an empty scope name")
		}
	}
	for _, role := range payload.Roles {
		if role == "" {
			return fmt.Errorf("decision record carries an empty role name")
		}
	}
	if payload.Visibility != "" && !payload.Visibility.Valid() {
		return fmt.Errorf("decision record carries unknown visibility %q", payload.Visibility)
	}
	for resource, level := range payload.Capabilities {
		if !level.Valid() {
			return fmt.Errorf("decision record carries unknown capability %q for %q", level, resource)
		}
	}
	return nil
}

// checkObjectScope applies the object-scope rule for the given binding: the
// bound field must be a positive integer and, when an enumeration is present,
// a member of it.
func checkObjectScope(payload *DecisionPayload, binding ObjectBinding, scope *ObjectScope, actorID int64) error {
	switch binding {
	case BindNone:
		return nil

	case BindResourceID:
		id, err := extractID(payload.Data, "id")
		if err != nil {
			return err
		}
		if id <= 0 {
			return fmt.Errorf("object id %d is not a positive integer", id)
		}
		if scope != nil && !scope.Contains(id) {
			return fmt.Errorf("object id %d is outside the allowed enumeration", id)
		}
		return nil

	case BindOwnerID:
		owner, err := extractID(payload.Data, "owner_user_id")
		if err != nil {
			return err
		}
		if owner <= 0 {
			return fmt.Errorf("owner id %d is not a positive integer", owner)
		}
		if owner != actorID {
			return fmt.Errorf("owner id %d does not match the actor", owner)
		}
		return nil

	default:
		return fmt.Errorf("unknown object binding %d", binding)
	}
}

// extractID pulls an integer out of the data under evaluation. The data may be
// the integer itself or a map carrying it under the given field name.
func extractID(data any, field string) (int64, error) {
	switch value := data.(type) {
	case int64:
		return value, nil
	case int:
		return int64(value), nil
	case int32:
		return int64(value), nil
	case uint:
		return int64(value), nil
	case float64:
		// JSON-decoded numbers arrive as float64.
		id := int64(value)
		if float64(id) != value {
			return 0, fmt.Errorf("object reference %v is not an integer", value)
		}
		return id, nil
	case map[string]any:
		nested, ok := value[field]
		if !ok {
			return 0, fmt.Errorf("data is missing required field %q", field)
		}
		return extractID(nested, field)
	case nil:
		return 0, fmt.Errorf("data is missing, expected an object reference")
	default:
		return 0, fmt.Errorf("data of type %T cannot carry an object reference", data)
	}
}

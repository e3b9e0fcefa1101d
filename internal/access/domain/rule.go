package domain

// ObjectBinding describes how an action rule binds the caller's data to the
// object scope enumeration.
type ObjectBinding int

const (
	// BindNone means the action references no particular object.
	BindNone ObjectBinding = iota

	// BindResourceID means the data carries the ID of an existing object
	// (either the data itself or its "id" field) which must fall inside the
	// object scope enumeration for the key's resource type.
	BindResourceID

	// BindOwnerID means the data's "owner_user_id" field must name the actor
	// itself. Used on creates, where the object does not exist yet.
	BindOwnerID
)

// ObjectScope is the resolved allowed-ID enumeration for one resource type.
// A nil *ObjectScope means the caller is not object-scoped at all: any
// positive ID is acceptable.
//
// An enumeration is never empty. When an identity owns no objects of a type
// the resolver substitutes the reserved sentinel ID 0, which no real object
// ever has, so every real ID keeps failing membership while the enumeration
// itself stays well-defined.
type ObjectScope struct {
	IDs []int64
}

// Contains reports whether the enumeration admits the given ID.
func (s *ObjectScope) Contains(id int64) bool {
	for _, allowed := range s.IDs {
		if allowed == id {
			return true
		}
	}
	return false
}

// ActionRule is the declarative constraint for one permission key. A rule
// accepts a decision payload when either branch holds:
//
//   - the role branch: the payload's roles contain one of Roles (typically
//     just "admin"), or
//   - the user branch (when UserBranch is set): the payload carries the
//     "user" role, grants at least Level on the key's resource type, and its
//     data satisfies Binding against the object scope enumeration.
type ActionRule struct {
	// Roles lists role names that satisfy the rule on their own.
	Roles []string

	// UserBranch enables the capability-based branch for ordinary users.
	UserBranch bool

	// Level is the capability level the user branch requires on the key's
	// resource type. CapabilityNone means no capability requirement (used for
	// keys like users:get where the binding alone scopes the action).
	Level CapabilityLevel

	// Binding is how the user branch ties the data to the object scope.
	Binding ObjectBinding
}

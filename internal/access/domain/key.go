package domain

import (
	"strings"
)

// PermissionKey identifies one governed operation as "<resourceType>:<action>",
// e.g. "proxy_hosts:create". Every key resolves to exactly one action rule in
// the catalog; keys without a rule always deny.
type PermissionKey string

// Resource returns the resource type embedded in the key (the part before the
// first colon). A key without a colon is treated as a bare resource type.
func (k PermissionKey) Resource() ResourceType {
	base, _, _ := strings.Cut(string(k), ":")
	return ResourceType(base)
}

// Action returns the action part of the key, or "" when absent.
func (k PermissionKey) Action() string {
	_, action, _ := strings.Cut(string(k), ":")
	return action
}

func (k PermissionKey) String() string {
	return string(k)
}

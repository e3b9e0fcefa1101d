package domain

// AdminRole is the privileged role that satisfies every action rule on its
// own. UserRole is the implicit role added to every resolved identity; it is
// never persisted on the user row.
const (
	AdminRole = "admin"
	UserRole  = "user"
)

// catalog is the closed, compile-time registry of action rules. Keys absent
// from it always deny; nothing is loaded at request time.
var catalog = buildCatalog()

// LookupRule returns the action rule for a permission key, or false when the
// key is unknown.
func LookupRule(key PermissionKey) (*ActionRule, bool) {
	rule, ok := catalog[key]
	return rule, ok
}

// CatalogKeys returns every permission key the registry knows, mainly for
// tests and diagnostics.
func CatalogKeys() []PermissionKey {
	keys := make([]PermissionKey, 0, len(catalog))
	for key := range catalog {
		keys = append(keys, key)
	}
	return keys
}

// buildCatalog enumerates the full rule set. Every owned resource type gets
// the standard create/get/update/delete/list rules; users, settings, the
// audit log and reports have bespoke entries.
func buildCatalog() map[PermissionKey]*ActionRule {
	rules := make(map[PermissionKey]*ActionRule)

	adminOnly := &ActionRule{Roles: []string{AdminRole}}

	for _, resource := range OwnedResourceTypes {
		base := string(resource)
		rules[PermissionKey(base+":create")] = &ActionRule{
			Roles:      []string{AdminRole},
			UserBranch: true,
			Level:      CapabilityManage,
			Binding:    BindOwnerID,
		}
		rules[PermissionKey(base+":get")] = &ActionRule{
			Roles:      []string{AdminRole},
			UserBranch: true,
			Level:      CapabilityView,
			Binding:    BindResourceID,
		}
		rules[PermissionKey(base+":update")] = &ActionRule{
			Roles:      []string{AdminRole},
			UserBranch: true,
			Level:      CapabilityManage,
			Binding:    BindResourceID,
		}
		rules[PermissionKey(base+":delete")] = &ActionRule{
			Roles:      []string{AdminRole},
			UserBranch: true,
			Level:      CapabilityManage,
			Binding:    BindResourceID,
		}
		rules[PermissionKey(base+":list")] = &ActionRule{
			Roles:      []string{AdminRole},
			UserBranch: true,
			Level:      CapabilityView,
			Binding:    BindNone,
		}
	}

	// Users: admins manage everyone; a plain user may only reference itself,
	// which the users object scope enumeration (always [self]) enforces.
	selfOrAdmin := &ActionRule{
		Roles:      []string{AdminRole},
		UserBranch: true,
		Level:      CapabilityNone,
		Binding:    BindResourceID,
	}
	rules["users:create"] = adminOnly
	rules["users:get"] = selfOrAdmin
	rules["users:update"] = selfOrAdmin
	rules["users:password"] = selfOrAdmin
	rules["users:delete"] = adminOnly
	rules["users:list"] = adminOnly
	rules["users:permissions"] = adminOnly
	rules["users:loginas"] = adminOnly

	// Settings and the audit log are administrative surfaces.
	rules["settings:get"] = adminOnly
	rules["settings:update"] = adminOnly
	rules["settings:list"] = adminOnly
	rules["audit_log:list"] = adminOnly

	// Host reports are available to every user; the data they aggregate is
	// already visibility-scoped by the reporting queries.
	rules["reports:hosts"] = &ActionRule{
		Roles:      []string{AdminRole},
		UserBranch: true,
		Level:      CapabilityNone,
		Binding:    BindNone,
	}

	return rules
}

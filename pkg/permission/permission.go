package permission

// AdminPermissions are the capabilities that mark a principal as an organization administrator.
var AdminPermissions = []string{"org.edit", "users.invite", "org.*", Wildcard}

// Has reports whether granted satisfies required: through "*", an exact match,
// or the "<ns>.*" wildcard of the required permission's namespace.
//
// Example:
//
//	permission.Has([]string{"tasks.edit", "org.*"}, "org.delete") // true
//	permission.Has([]string{"tasks.edit"}, "org.delete")          // false
//	permission.Has(nil, "tasks.view")                             // false
func Has(granted []string, required string) bool {
	req := Permission(required)
	for _, raw := range granted {
		if g, ok := ParseGrant(raw); ok && g.Matches(req) {
			return true
		}
	}
	return false
}

// HasAll reports whether every required permission is satisfied by granted.
// Returns true when nothing is required.
func HasAll(granted []string, required ...string) bool {
	if len(required) == 0 {
		return true
	}
	if len(granted) == 0 {
		return false
	}
	return NewSet(granted...).HasAll(required...)
}

// HasAny reports whether at least one required permission is satisfied by granted.
// Returns false when nothing is required.
func HasAny(granted []string, required ...string) bool {
	for _, r := range required {
		if Has(granted, r) {
			return true
		}
	}
	return false
}

// IsAdmin reports whether granted contains any of AdminPermissions' capabilities.
func IsAdmin(granted []string) bool {
	return HasAny(granted, AdminPermissions...)
}

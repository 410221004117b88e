package permission

import "strings"

const (
	// Wildcard grants every permission.
	Wildcard = "*"
	// Delimiter separates namespace and action.
	Delimiter = "."
)

// Permission is a required capability, e.g. "tasks.edit".
type Permission string

// Namespace returns the segment before the first dot.
// A permission without a dot is its own namespace.
func (p Permission) Namespace() Namespace {
	s := string(p)
	if i := strings.Index(s, Delimiter); i >= 0 {
		return Namespace(s[:i])
	}
	return Namespace(s)
}

// Action returns everything after the first dot, or an empty string.
func (p Permission) Action() string {
	s := string(p)
	if i := strings.Index(s, Delimiter); i >= 0 {
		return s[i+1:]
	}
	return ""
}

func (p Permission) String() string { return string(p) }

// GrantKind tells how a grant matches required permissions.
type GrantKind uint8

const (
	// GrantExact matches one permission verbatim.
	GrantExact GrantKind = iota + 1
	// GrantNamespace matches every permission in one namespace ("ns.*").
	GrantNamespace
	// GrantAll matches everything ("*").
	GrantAll
)

// Grant is a parsed entry of a granted permission set.
type Grant struct {
	kind      GrantKind
	namespace Namespace
	exact     Permission
}

// All returns the global wildcard grant.
func All() Grant { return Grant{kind: GrantAll} }

// AllIn returns the wildcard grant for one namespace.
func AllIn(ns Namespace) Grant { return Grant{kind: GrantNamespace, namespace: ns} }

// Exact returns a grant matching exactly one permission.
func Exact(p Permission) Grant {
	return Grant{kind: GrantExact, namespace: p.Namespace(), exact: p}
}

// ParseGrant converts a grant string into its typed form.
// Only single-segment namespaces form wildcards: "a.b.*" is an exact grant.
// The second return value is false for empty strings, which carry no capability.
func ParseGrant(s string) (Grant, bool) {
	switch {
	case s == "":
		return Grant{}, false
	case s == Wildcard:
		return All(), true
	case strings.HasSuffix(s, Delimiter+Wildcard):
		ns := strings.TrimSuffix(s, Delimiter+Wildcard)
		if ns != "" && !strings.Contains(ns, Delimiter) {
			return AllIn(Namespace(ns)), true
		}
	}
	return Exact(Permission(s)), true
}

// Kind returns the grant variant.
func (g Grant) Kind() GrantKind { return g.kind }

// Namespace returns the namespace the grant applies to; empty for GrantAll.
func (g Grant) Namespace() Namespace { return g.namespace }

// Matches reports whether the grant satisfies the required permission.
func (g Grant) Matches(required Permission) bool {
	switch g.kind {
	case GrantAll:
		return true
	case GrantNamespace:
		return required.Namespace() == g.namespace
	case GrantExact:
		return required == g.exact
	}
	return false
}

// String returns the canonical grant string.
func (g Grant) String() string {
	switch g.kind {
	case GrantAll:
		return Wildcard
	case GrantNamespace:
		return string(g.namespace) + Delimiter + Wildcard
	case GrantExact:
		return string(g.exact)
	}
	return ""
}

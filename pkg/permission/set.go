package permission

import (
	"slices"
	"sort"
)

// Set is a parsed, immutable permission set. The zero value denies everything.
type Set struct {
	all        bool
	namespaces map[Namespace]struct{}
	exact      map[Permission]struct{}
	grants     []Grant
}

// NewSet parses granted permission strings. Empty strings and duplicates are dropped.
func NewSet(granted ...string) Set {
	s := Set{
		namespaces: make(map[Namespace]struct{}),
		exact:      make(map[Permission]struct{}),
		grants:     make([]Grant, 0, len(granted)),
	}
	for _, raw := range granted {
		g, ok := ParseGrant(raw)
		if !ok {
			continue
		}
		switch g.kind {
		case GrantAll:
			if s.all {
				continue
			}
			s.all = true
		case GrantNamespace:
			if _, dup := s.namespaces[g.namespace]; dup {
				continue
			}
			s.namespaces[g.namespace] = struct{}{}
		case GrantExact:
			if _, dup := s.exact[g.exact]; dup {
				continue
			}
			s.exact[g.exact] = struct{}{}
		}
		s.grants = append(s.grants, g)
	}
	return s
}

// Empty reports whether the set grants nothing.
func (s Set) Empty() bool { return len(s.grants) == 0 }

// Len returns the number of distinct grants.
func (s Set) Len() int { return len(s.grants) }

// Grants returns a copy of the parsed grants in insertion order.
func (s Set) Grants() []Grant { return slices.Clone(s.grants) }

// Has reports whether the set satisfies the required permission.
func (s Set) Has(required string) bool {
	if s.all {
		return true
	}
	p := Permission(required)
	if _, ok := s.exact[p]; ok {
		return true
	}
	_, ok := s.namespaces[p.Namespace()]
	return ok
}

// HasAll reports whether every required permission is satisfied.
// No requirements is vacuously true.
func (s Set) HasAll(required ...string) bool {
	for _, r := range required {
		if !s.Has(r) {
			return false
		}
	}
	return true
}

// HasAny reports whether at least one required permission is satisfied.
// No requirements is false.
func (s Set) HasAny(required ...string) bool {
	for _, r := range required {
		if s.Has(r) {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the set holds any administrative capability.
func (s Set) IsAdmin() bool {
	return s.HasAny(AdminPermissions...)
}

// Strings returns the canonical grant strings, sorted.
func (s Set) Strings() []string {
	out := make([]string, len(s.grants))
	for i, g := range s.grants {
		out[i] = g.String()
	}
	sort.Strings(out)
	return out
}

package permission

import (
	"fmt"
	"regexp"
	"strings"
)

var actionPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Validate checks a grant string written by an organization admin.
// Accepted forms are "*", "<ns>.*" and "<ns>.<action>" with ns from the catalog.
func Validate(grant string) error {
	if grant == Wildcard {
		return nil
	}
	ns, action, ok := strings.Cut(grant, Delimiter)
	if !ok || ns == "" || action == "" {
		return fmt.Errorf("%w: %q", ErrInvalidPermission, grant)
	}
	if !Namespace(ns).Known() {
		return fmt.Errorf("%w: %q", ErrUnknownNamespace, ns)
	}
	if action == Wildcard {
		return nil
	}
	if !actionPattern.MatchString(action) {
		return fmt.Errorf("%w: %q", ErrInvalidPermission, grant)
	}
	return nil
}

// ValidateAll validates every grant and returns the normalized, sorted, deduplicated list.
func ValidateAll(grants []string) ([]string, error) {
	for _, g := range grants {
		if err := Validate(g); err != nil {
			return nil, err
		}
	}
	return NewSet(grants...).Strings(), nil
}

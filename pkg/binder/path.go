package binder

import "net/http"

// Path creates a path parameter binder. extractor returns the value of a
// named parameter; with chi that is chi.URLParam. Only fields with an
// explicit `path` tag are bound.
func Path(extractor func(r *http.Request, name string) string) func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		if extractor == nil {
			return ErrFailedToParsePath
		}
		return bindTagged(v, "path", func(name string) []string {
			if value := extractor(r, name); value != "" {
				return []string{value}
			}
			return nil
		}, ErrFailedToParsePath)
	}
}

package binder

import "net/http"

// Query creates a query string binder. Fields use the `query` tag; slices
// accept repeated parameters (?status=a&status=b) or comma lists (?status=a,b).
func Query() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		return bindToStruct(v, "query", r.URL.Query(), ErrFailedToParseQuery)
	}
}

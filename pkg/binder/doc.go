// Package binder decodes HTTP requests into typed structs.
//
// Each binder reads one source and writes only the fields tagged for it:
//
//   - JSON(): request body, `json` tags, strict (unknown fields rejected), 1 MB cap
//   - Query(): URL query string, `query` tags
//   - Path(extractor): router path parameters, `path` tags
//
// Binders are combined through handler.WithBinders:
//
//	type updateRoleRequest struct {
//		ID          uuid.UUID `path:"id" json:"-"`
//		DisplayName *string   `json:"display_name"`
//	}
//
//	r.Patch("/roles/{id}", handler.Wrap(updateRole,
//		handler.WithBinders[handler.Context, updateRoleRequest](
//			binder.Path(chi.URLParam),
//			binder.JSON(),
//		),
//	))
//
// Scalar fields support strings, integers, floats, booleans, pointers, slices
// and any type implementing encoding.TextUnmarshaler (uuid.UUID included).
// Every failure wraps one of the package's sentinel errors so the caller can
// map it to 400 Bad Request.
package binder

// Package handler provides typed HTTP handlers that bind a request struct,
// run business logic and render a Response.
//
//	type createRoleRequest struct {
//		Name        string   `json:"name"`
//		Permissions []string `json:"permissions"`
//	}
//
//	create := func(ctx handler.Context, req createRoleRequest) handler.Response {
//		role, err := roles.Create(ctx, req.Name, req.Permissions)
//		if err != nil {
//			return handler.Fail(err)
//		}
//		return handler.JSON(role, handler.WithJSONStatus(http.StatusCreated))
//	}
//
//	r.Post("/roles", handler.Wrap(create,
//		handler.WithBinders[handler.Context, createRoleRequest](binder.JSON()),
//		handler.WithErrorHandler[handler.Context, createRoleRequest](handler.NewErrorHandler(log)),
//	))
//
// Binding and rendering failures, including the error carried by Fail, go to
// the ErrorHandler. NewErrorHandler renders the JSON error envelope: binder
// errors become 400, validator.ValidationErrors 422 with per-field details,
// HTTPError its own code, and anything an ErrorMapper recognizes the code it
// returns. Unrecognized errors are 500 and their text is never sent to the
// client.
package handler

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/KeeganArn/TaskFlask-sub000/pkg/handler"
	"github.com/KeeganArn/TaskFlask-sub000/pkg/rbac"
	"github.com/KeeganArn/TaskFlask-sub000/svc/auth"
)

// authenticate verifies the session token and stores its principal and
// permissions in the request context. Requests without a valid session get 401.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := s.tokenFrom(r)
		if err != nil {
			s.fail(w, r, err)
			return
		}

		p, err := s.auth.Verify(r.Context(), token)
		if err != nil {
			s.fail(w, r, err)
			return
		}

		ctx := auth.WithPrincipal(r.Context(), p)
		ctx = rbac.WithPermissions(ctx, p.Permissions)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// principal returns the authenticated principal of the request.
func principal(ctx handler.Context) (auth.Principal, error) {
	p, ok := auth.PrincipalFromContext(ctx)
	if !ok {
		return auth.Principal{}, handler.ErrUnauthorized
	}
	return p, nil
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}

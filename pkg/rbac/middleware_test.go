package rbac_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KeeganArn/TaskFlask-sub000/pkg/rbac"
)

func serve(t *testing.T, mw func(http.Handler) http.Handler, granted []string) *httptest.ResponseRecorder {
	t.Helper()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodPost, "/roles", nil)
	if granted != nil {
		req = req.WithContext(rbac.WithPermissions(req.Context(), granted))
	}
	rec := httptest.NewRecorder()
	mw(next).ServeHTTP(rec, req)
	return rec
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRequire(t *testing.T) {
	t.Parallel()
	mw := rbac.Require("roles.create", rbac.WithLogger(quietLogger()))

	assert.Equal(t, http.StatusNoContent, serve(t, mw, []string{"roles.*"}).Code)

	rec := serve(t, mw, []string{"roles.view"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "permission_denied", body["error"]["code"])
}

func TestRequireWithoutPrincipal(t *testing.T) {
	t.Parallel()
	mw := rbac.Require("tasks.view", rbac.WithLogger(quietLogger()))
	assert.Equal(t, http.StatusForbidden, serve(t, mw, nil).Code)
}

func TestRequireAllAnyAdmin(t *testing.T) {
	t.Parallel()
	opts := rbac.WithLogger(quietLogger())

	assert.Equal(t, http.StatusNoContent, serve(t, rbac.RequireAll([]string{"tasks.edit", "tasks.view"}, opts), []string{"tasks.*"}).Code)
	assert.Equal(t, http.StatusForbidden, serve(t, rbac.RequireAll([]string{"tasks.edit", "crm.view"}, opts), []string{"tasks.*"}).Code)
	assert.Equal(t, http.StatusNoContent, serve(t, rbac.RequireAny([]string{"crm.view", "tasks.view"}, opts), []string{"tasks.*"}).Code)
	assert.Equal(t, http.StatusForbidden, serve(t, rbac.RequireAny([]string{"crm.view"}, opts), []string{"tasks.*"}).Code)
	assert.Equal(t, http.StatusNoContent, serve(t, rbac.RequireAdmin(opts), []string{"users.invite"}).Code)
	assert.Equal(t, http.StatusForbidden, serve(t, rbac.RequireAdmin(opts), []string{"tasks.*"}).Code)
}

func TestRequireLogsDenial(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	rec := serve(t, rbac.Require("billing.manage", rbac.WithLogger(log)), []string{"tasks.view"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, buf.String(), `"msg":"permission denied"`)
	assert.Contains(t, buf.String(), "billing.manage")
	assert.Contains(t, buf.String(), `"level":"WARN"`)
}

func TestCustomDenyHandler(t *testing.T) {
	t.Parallel()
	var got error
	mw := rbac.Require("org.delete",
		rbac.WithLogger(quietLogger()),
		rbac.WithDenyHandler(func(w http.ResponseWriter, _ *http.Request, err error) {
			got = err
			w.WriteHeader(http.StatusNotFound)
		}),
	)

	rec := serve(t, mw, []string{"org.view"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.ErrorIs(t, got, rbac.ErrPermissionDenied)
}

func TestWithSet(t *testing.T) {
	t.Parallel()
	ctx := rbac.WithPermissions(context.Background(), []string{"org.*"})
	set, _ := rbac.PermissionsFromContext(ctx)
	ctx2 := rbac.WithSet(context.Background(), set)
	assert.NoError(t, rbac.Can(ctx2, "org.edit"))
}

package binder_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KeeganArn/TaskFlask-sub000/pkg/binder"
)

type createRoleRequest struct {
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

func jsonRequest(body string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/roles", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json; charset=utf-8")
	return r
}

func TestJSON(t *testing.T) {
	t.Parallel()
	bind := binder.JSON()

	t.Run("decodes body", func(t *testing.T) {
		t.Parallel()
		var req createRoleRequest
		require.NoError(t, bind(jsonRequest(`{"name":"lead","permissions":["tasks.*"]}`), &req))
		assert.Equal(t, createRoleRequest{Name: "lead", Permissions: []string{"tasks.*"}}, req)
	})

	t.Run("empty body is allowed", func(t *testing.T) {
		t.Parallel()
		var req createRoleRequest
		r := httptest.NewRequest(http.MethodPost, "/auth/reissue", nil)
		require.NoError(t, bind(r, &req))
		assert.Zero(t, req)
	})

	tests := []struct {
		name    string
		req     func() *http.Request
		wantErr error
	}{
		{
			name:    "unknown field",
			req:     func() *http.Request { return jsonRequest(`{"name":"lead","extra":1}`) },
			wantErr: binder.ErrFailedToParseJSON,
		},
		{
			name:    "malformed",
			req:     func() *http.Request { return jsonRequest(`{"name":`) },
			wantErr: binder.ErrFailedToParseJSON,
		},
		{
			name:    "trailing data",
			req:     func() *http.Request { return jsonRequest(`{"name":"a"}{"name":"b"}`) },
			wantErr: binder.ErrFailedToParseJSON,
		},
		{
			name: "wrong content type",
			req: func() *http.Request {
				r := jsonRequest(`{"name":"a"}`)
				r.Header.Set("Content-Type", "text/plain")
				return r
			},
			wantErr: binder.ErrUnsupportedMediaType,
		},
		{
			name: "missing content type",
			req: func() *http.Request {
				r := jsonRequest(`{"name":"a"}`)
				r.Header.Del("Content-Type")
				return r
			},
			wantErr: binder.ErrMissingContentType,
		},
		{
			name: "too large",
			req: func() *http.Request {
				return jsonRequest(`{"name":"` + strings.Repeat("a", binder.DefaultMaxJSONSize) + `"}`)
			},
			wantErr: binder.ErrFailedToParseJSON,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var req createRoleRequest
			assert.ErrorIs(t, bind(tt.req(), &req), tt.wantErr)
		})
	}
}

type memberRequest struct {
	ID       uuid.UUID  `path:"id"`
	Statuses []string   `query:"status"`
	RoleID   *uuid.UUID `query:"role_id"`
	Limit    int        `query:"limit"`
	Verbose  bool       `query:"verbose"`
	Ignored  string
}

func TestPath(t *testing.T) {
	t.Parallel()
	id := uuid.New()
	params := map[string]string{"id": id.String()}
	extract := func(_ *http.Request, name string) string { return params[name] }

	var req memberRequest
	r := httptest.NewRequest(http.MethodGet, "/members/"+id.String(), nil)
	require.NoError(t, binder.Path(extract)(r, &req))
	assert.Equal(t, id, req.ID)

	params["id"] = "not-a-uuid"
	assert.ErrorIs(t, binder.Path(extract)(r, &req), binder.ErrFailedToParsePath)
	assert.ErrorIs(t, binder.Path(nil)(r, &req), binder.ErrFailedToParsePath)
}

func TestQuery(t *testing.T) {
	t.Parallel()
	roleID := uuid.New()
	r := httptest.NewRequest(http.MethodGet,
		"/members?status=active,pending&status=suspended&role_id="+roleID.String()+"&limit=5&verbose=yes&ignored=x", nil)

	var req memberRequest
	require.NoError(t, binder.Query()(r, &req))
	assert.Equal(t, []string{"active", "pending", "suspended"}, req.Statuses)
	require.NotNil(t, req.RoleID)
	assert.Equal(t, roleID, *req.RoleID)
	assert.Equal(t, 5, req.Limit)
	assert.True(t, req.Verbose)
	assert.Empty(t, req.Ignored)

	bad := httptest.NewRequest(http.MethodGet, "/members?limit=many", nil)
	assert.ErrorIs(t, binder.Query()(bad, &memberRequest{}), binder.ErrFailedToParseQuery)

	assert.ErrorIs(t, binder.Query()(bad, memberRequest{}), binder.ErrFailedToParseQuery)
}

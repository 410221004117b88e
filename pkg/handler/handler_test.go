package handler_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KeeganArn/TaskFlask-sub000/pkg/binder"
	"github.com/KeeganArn/TaskFlask-sub000/pkg/handler"
	"github.com/KeeganArn/TaskFlask-sub000/pkg/logger"
	"github.com/KeeganArn/TaskFlask-sub000/pkg/validator"
)

type greetRequest struct {
	Name string `json:"name"`
}

var errTeapot = errors.New("teapot")

func greet(_ handler.Context, req greetRequest) handler.Response {
	switch req.Name {
	case "":
		return handler.Fail(validator.ValidationErrors{{Field: "name", Message: "field is required", Key: "validation.required"}})
	case "teapot":
		return handler.Fail(errTeapot)
	case "boom":
		return handler.Fail(errors.New("database exploded"))
	case "gone":
		return handler.Fail(handler.ErrNotFound)
	case "nil":
		return nil
	}
	return handler.JSON(map[string]string{"greeting": "hello " + req.Name}, handler.WithJSONStatus(http.StatusCreated))
}

func newGreeter() http.HandlerFunc {
	errs := handler.NewErrorHandler(logger.Discard(), func(err error) (handler.HTTPError, bool) {
		if errors.Is(err, errTeapot) {
			return handler.NewHTTPError(http.StatusTeapot, "teapot"), true
		}
		return handler.HTTPError{}, false
	})
	return handler.Wrap(greet,
		handler.WithBinders[handler.Context, greetRequest](binder.JSON()),
		handler.WithErrorHandler[handler.Context, greetRequest](errs),
	)
}

func call(t *testing.T, h http.HandlerFunc, body string) (*httptest.ResponseRecorder, handler.JSONResponse) {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, "/greet", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, r)

	var resp handler.JSONResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestWrap(t *testing.T) {
	t.Parallel()
	h := newGreeter()

	rec, resp := call(t, h, `{"name":"ada"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, map[string]any{"greeting": "hello ada"}, resp.Data)
	assert.Nil(t, resp.Error)
}

func TestErrorHandler(t *testing.T) {
	t.Parallel()
	h := newGreeter()

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{name: "bad json", body: `{"name":`, status: http.StatusBadRequest, code: "bad_request"},
		{name: "unknown field", body: `{"nom":"x"}`, status: http.StatusBadRequest, code: "bad_request"},
		{name: "validation", body: `{"name":""}`, status: http.StatusUnprocessableEntity, code: "validation_error"},
		{name: "mapped", body: `{"name":"teapot"}`, status: http.StatusTeapot, code: "teapot"},
		{name: "http error", body: `{"name":"gone"}`, status: http.StatusNotFound, code: "not_found"},
		{name: "unknown error", body: `{"name":"boom"}`, status: http.StatusInternalServerError, code: "internal_server_error"},
		{name: "nil response", body: `{"name":"nil"}`, status: http.StatusInternalServerError, code: "internal_server_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec, resp := call(t, h, tt.body)
			assert.Equal(t, tt.status, rec.Code)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.NotContains(t, rec.Body.String(), "database exploded")
		})
	}

	_, resp := call(t, h, `{"name":""}`)
	assert.Equal(t, map[string][]string{"name": {"field is required"}}, resp.Error.Details)
}

func TestDecorators(t *testing.T) {
	t.Parallel()
	var order []string
	mark := func(name string) handler.Decorator[handler.Context, greetRequest] {
		return func(next handler.HandlerFunc[handler.Context, greetRequest]) handler.HandlerFunc[handler.Context, greetRequest] {
			return func(ctx handler.Context, req greetRequest) handler.Response {
				order = append(order, name)
				return next(ctx, req)
			}
		}
	}
	h := handler.Wrap(greet,
		handler.WithBinders[handler.Context, greetRequest](binder.JSON()),
		handler.WithDecorators(mark("outer"), mark("inner")),
	)
	rec, _ := call(t, h, `{"name":"ada"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, []string{"outer", "inner"}, order)
}

func TestEmptyAndBytes(t *testing.T) {
	t.Parallel()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	rec := httptest.NewRecorder()
	require.NoError(t, handler.Empty().Render(rec, r))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	require.NoError(t, handler.EmptyWithStatus(http.StatusAccepted).Render(rec, r))
	assert.Equal(t, http.StatusAccepted, rec.Code)

	rec = httptest.NewRecorder()
	require.NoError(t, handler.Bytes("image/png", []byte{0x89, 'P'}).Render(rec, r))
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, []byte{0x89, 'P'}, rec.Body.Bytes())
}

func TestDefaultErrorHandler(t *testing.T) {
	t.Parallel()
	h := handler.Wrap(func(handler.Context, struct{}) handler.Response {
		return handler.Fail(handler.ErrForbidden)
	})
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

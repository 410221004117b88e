package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/KeeganArn/TaskFlask-sub000/pkg/handler"
	"github.com/KeeganArn/TaskFlask-sub000/pkg/httpserver"
	"github.com/KeeganArn/TaskFlask-sub000/pkg/jwt"
	"github.com/KeeganArn/TaskFlask-sub000/pkg/logger"
	"github.com/KeeganArn/TaskFlask-sub000/pkg/ratelimiter"
	"github.com/KeeganArn/TaskFlask-sub000/svc/api"
	"github.com/KeeganArn/TaskFlask-sub000/svc/auth"
	"github.com/KeeganArn/TaskFlask-sub000/svc/storage/memory"
	"github.com/KeeganArn/TaskFlask-sub000/svc/tenancy"
)

const (
	testSigningKey = "0123456789abcdef0123456789abcdef"
	testPassword   = "correct-horse-9"
)

type testAPI struct {
	t       *testing.T
	store   *memory.Store
	tenancy *tenancy.Service
	auth    *auth.Service
	metrics *api.Metrics
	handler http.Handler
}

type config struct {
	tenancyOpts []tenancy.Option
	serverOpts  []api.Option
}

func newTestAPI(t *testing.T, opts ...func(*config)) *testAPI {
	t.Helper()
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	store := memory.New()
	ten := tenancy.NewService(store, append([]tenancy.Option{tenancy.WithLogger(logger.Discard())}, cfg.tenancyOpts...)...)

	tokens, err := jwt.NewFromString(testSigningKey, jwt.WithIssuer("taskflask"), jwt.WithAudience("taskflask-api"))
	require.NoError(t, err)
	issuer := auth.NewIssuer(tokens, auth.NewMemoryRevocations(), auth.WithIssuerLogger(logger.Discard()))
	authSvc := auth.NewService(store, ten, issuer,
		auth.WithPasswordHasher(auth.NewBcryptHasher(bcrypt.MinCost)),
		auth.WithLogger(logger.Discard()),
	)

	metrics, err := api.NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	serverOpts := append([]api.Option{
		api.WithLogger(logger.Discard()),
		api.WithMetrics(metrics),
		api.WithReadinessChecks(httpserver.Check{Name: "store", Probe: store.Ping}),
	}, cfg.serverOpts...)
	srv := api.New(authSvc, ten, serverOpts...)

	return &testAPI{
		t:       t,
		store:   store,
		tenancy: ten,
		auth:    authSvc,
		metrics: metrics,
		handler: srv.Handler(),
	}
}

func withServerOptions(opts ...api.Option) func(*config) {
	return func(c *config) { c.serverOpts = append(c.serverOpts, opts...) }
}

func withTenancyOptions(opts ...tenancy.Option) func(*config) {
	return func(c *config) { c.tenancyOpts = append(c.tenancyOpts, opts...) }
}

type envelope struct {
	Data  json.RawMessage      `json:"data"`
	Meta  map[string]any       `json:"meta"`
	Error *handler.ErrorDetail `json:"error"`
}

type response struct {
	*httptest.ResponseRecorder
	body envelope
}

// into decodes the envelope data into v.
func (r response) into(t *testing.T, v any) {
	t.Helper()
	require.NotEmpty(t, r.body.Data, "response has no data: %s", r.Body.String())
	require.NoError(t, json.Unmarshal(r.body.Data, v))
}

func (r response) errorCode() string {
	if r.body.Error == nil {
		return ""
	}
	return r.body.Error.Code
}

func (a *testAPI) do(method, path, token string, body any) response {
	a.t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}

	r := httptest.NewRequest(method, path, reader)
	if reader != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, r)

	res := response{ResponseRecorder: rec}
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") && rec.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &res.body), rec.Body.String())
	}
	return res
}

// account is a registered user and the session it holds.
type account struct {
	user    auth.User
	session auth.Session
}

func (a account) token() string { return a.session.Token }

func (a *testAPI) register(email, orgName string) account {
	a.t.Helper()
	res := a.do(http.MethodPost, "/auth/register", "", map[string]string{
		"email":             email,
		"name":              "Test User",
		"password":          testPassword,
		"organization_name": orgName,
	})
	require.Equal(a.t, http.StatusCreated, res.Code, res.Body.String())

	var out api.AuthResponse
	res.into(a.t, &out)
	require.NotNil(a.t, out.Session)
	return account{user: out.User, session: *out.Session}
}

// join registers a user with the invite code of owner's organization.
func (a *testAPI) join(owner account, email string) account {
	a.t.Helper()
	org, err := a.tenancy.GetOrganization(context.Background(), owner.session.Principal.OrganizationID)
	require.NoError(a.t, err)

	res := a.do(http.MethodPost, "/auth/register", "", map[string]string{
		"email":       email,
		"name":        "Joiner",
		"password":    testPassword,
		"invite_code": org.InviteCode,
	})
	require.Equal(a.t, http.StatusCreated, res.Code, res.Body.String())

	var out api.AuthResponse
	res.into(a.t, &out)
	require.NotNil(a.t, out.Session)
	return account{user: out.User, session: *out.Session}
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()

	t.Run("liveness and readiness", func(t *testing.T) {
		t.Parallel()
		a := newTestAPI(t)
		assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/healthz", "", nil).Code)
		assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/readyz", "", nil).Code)
	})

	t.Run("failing check", func(t *testing.T) {
		t.Parallel()
		a := newTestAPI(t, withServerOptions(api.WithReadinessChecks(httpserver.Check{
			Name:  "redis",
			Probe: func(context.Context) error { return errors.New("connection refused") },
		})))
		res := a.do(http.MethodGet, "/readyz", "", nil)
		assert.Equal(t, http.StatusServiceUnavailable, res.Code)
		assert.Contains(t, res.Body.String(), `"redis":"down"`)
	})
}

func TestUnknownRoute(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t)

	res := a.do(http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.Equal(t, "not_found", res.errorCode())

	res = a.do(http.MethodPut, "/auth/login", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, res.Code)
}

func TestRequestIDHeader(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t)

	res := a.do(http.MethodGet, "/healthz", "", nil)
	assert.NotEmpty(t, res.Header().Get("X-Request-ID"))
}

func TestAuthRateLimit(t *testing.T) {
	t.Parallel()
	store := ratelimiter.NewMemoryStore(ratelimiter.WithClock(time.Now))
	t.Cleanup(store.Close)
	bucket, err := ratelimiter.NewBucket(store,
		ratelimiter.Config{Capacity: 2, RefillRate: 1, RefillInterval: time.Hour},
	)
	require.NoError(t, err)
	a := newTestAPI(t, withServerOptions(api.WithAuthLimiter(bucket)))

	login := map[string]string{"email": "nobody@example.com", "password": testPassword}
	for range 2 {
		res := a.do(http.MethodPost, "/auth/login", "", login)
		assert.Equal(t, http.StatusUnauthorized, res.Code)
	}

	res := a.do(http.MethodPost, "/auth/login", "", login)
	assert.Equal(t, http.StatusTooManyRequests, res.Code)
	assert.Equal(t, "too_many_requests", res.errorCode())
	assert.NotEmpty(t, res.Header().Get("Retry-After"))

	// Other routes are not limited.
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/healthz", "", nil).Code)
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t)
	owner := a.register("owner@example.com", "Acme")
	member := a.join(owner, "member@example.com")

	res := a.do(http.MethodPatch, "/organization", member.token(), map[string]string{"name": "Hijacked"})
	require.Equal(t, http.StatusForbidden, res.Code)

	res = a.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, res.Code)
	body := res.Body.String()
	assert.Contains(t, body, `taskflask_http_requests_total{method="POST",route="/auth/register",status="201"} 2`)
	assert.Contains(t, body, `taskflask_permission_denials_total{route="/organization"} 1`)
	assert.Contains(t, body, `taskflask_sessions_issued_total{flow="register"} 2`)
}

func TestNewMetricsRejectsDuplicateRegistration(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	_, err := api.NewMetrics(reg)
	require.NoError(t, err)
	_, err = api.NewMetrics(reg)
	assert.Error(t, err)
}

package jwt_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KeeganArn/TaskFlask-sub000/pkg/jwt"
)

type testClaims struct {
	jwt.RegisteredClaims
	Org   string   `json:"org"`
	Perms []string `json:"perms"`
}

var key = []byte("0123456789abcdef0123456789abcdef")

func newService(t *testing.T, opts ...jwt.Option) *jwt.Service {
	t.Helper()
	opts = append([]jwt.Option{jwt.WithIssuer("taskflask"), jwt.WithAudience("api")}, opts...)
	svc, err := jwt.New(key, opts...)
	require.NoError(t, err)
	return svc
}

func TestNew(t *testing.T) {
	t.Parallel()
	_, err := jwt.New(nil)
	assert.ErrorIs(t, err, jwt.ErrMissingSigningKey)

	_, err = jwt.NewFromString("")
	assert.ErrorIs(t, err, jwt.ErrMissingSigningKey)

	svc, err := jwt.NewFromString("secret")
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()
	svc := newService(t)

	in := &testClaims{
		RegisteredClaims: svc.Registered("user-1", "sess-1", time.Hour),
		Org:              "org-1",
		Perms:            []string{"tasks.*"},
	}
	token, err := svc.Generate(in)
	require.NoError(t, err)

	var out testClaims
	require.NoError(t, svc.Parse(token, &out))
	assert.Equal(t, "user-1", out.Subject)
	assert.Equal(t, "sess-1", out.ID)
	assert.Equal(t, "taskflask", out.Issuer)
	assert.Equal(t, jwt.ClaimStrings{"api"}, out.Audience)
	assert.Equal(t, "org-1", out.Org)
	assert.Equal(t, []string{"tasks.*"}, out.Perms)
}

func TestParseRejects(t *testing.T) {
	t.Parallel()
	svc := newService(t)
	valid, err := svc.Generate(&testClaims{RegisteredClaims: svc.Registered("u", "s", time.Hour)})
	require.NoError(t, err)

	other, err := jwt.New([]byte("another-key-another-key-another!"), jwt.WithIssuer("taskflask"), jwt.WithAudience("api"))
	require.NoError(t, err)
	foreign, err := other.Generate(&testClaims{RegisteredClaims: other.Registered("u", "s", time.Hour)})
	require.NoError(t, err)

	wrongAud, err := newService(t, jwt.WithAudience("web")).Generate(&testClaims{
		RegisteredClaims: newService(t, jwt.WithAudience("web")).Registered("u", "s", time.Hour),
	})
	require.NoError(t, err)

	none, err := gojwt.NewWithClaims(gojwt.SigningMethodNone, gojwt.RegisteredClaims{Subject: "u"}).
		SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		err   error
	}{
		{name: "empty", token: "", err: jwt.ErrMissingToken},
		{name: "garbage", token: "not.a.token", err: jwt.ErrInvalidToken},
		{name: "tampered", token: valid + "x", err: jwt.ErrInvalidToken},
		{name: "other key", token: foreign, err: jwt.ErrInvalidToken},
		{name: "wrong audience", token: wrongAud, err: jwt.ErrInvalidToken},
		{name: "none algorithm", token: none, err: jwt.ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out testClaims
			assert.ErrorIs(t, svc.Parse(tt.token, &out), tt.err)
		})
	}
}

func TestParseExpired(t *testing.T) {
	t.Parallel()
	now := time.Now()
	clock := func() time.Time { return now }
	svc := newService(t, jwt.WithClock(clock))

	token, err := svc.Generate(&testClaims{RegisteredClaims: svc.Registered("u", "s", time.Minute)})
	require.NoError(t, err)

	later := newService(t, jwt.WithClock(func() time.Time { return now.Add(2 * time.Minute) }))
	var out testClaims
	err = later.Parse(token, &out)
	assert.ErrorIs(t, err, jwt.ErrExpiredToken)
	assert.NotErrorIs(t, err, jwt.ErrInvalidToken)

	lenient := newService(t,
		jwt.WithClock(func() time.Time { return now.Add(2 * time.Minute) }),
		jwt.WithLeeway(5*time.Minute),
	)
	assert.NoError(t, lenient.Parse(token, &out))
}

func TestGenerateNilClaims(t *testing.T) {
	t.Parallel()
	_, err := newService(t).Generate(nil)
	assert.ErrorIs(t, err, jwt.ErrMissingClaims)
}

func TestBearerTokenExtractor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{header: "Bearer abc", token: "abc", ok: true},
		{header: "bearer abc", token: "abc", ok: true},
		{header: "Basic abc", ok: false},
		{header: "Bearer ", ok: false},
		{header: "Bearer", ok: false},
		{header: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			token, err := jwt.BearerTokenExtractor(r)
			if !tt.ok {
				assert.ErrorIs(t, err, jwt.ErrMissingToken)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.token, token)
		})
	}
}

func TestChainExtractors(t *testing.T) {
	t.Parallel()
	extract := jwt.ChainExtractors(jwt.BearerTokenExtractor, jwt.CookieTokenExtractor("session"))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "session", Value: "from-cookie"})
	token, err := extract(r)
	require.NoError(t, err)
	assert.Equal(t, "from-cookie", token)

	_, err = extract(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.ErrorIs(t, err, jwt.ErrMissingToken)
}

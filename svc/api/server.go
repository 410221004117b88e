package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/KeeganArn/TaskFlask-sub000/pkg/binder"
	"github.com/KeeganArn/TaskFlask-sub000/pkg/clientip"
	"github.com/KeeganArn/TaskFlask-sub000/pkg/handler"
	"github.com/KeeganArn/TaskFlask-sub000/pkg/httpserver"
	"github.com/KeeganArn/TaskFlask-sub000/pkg/jwt"
	"github.com/KeeganArn/TaskFlask-sub000/pkg/logger"
	"github.com/KeeganArn/TaskFlask-sub000/pkg/qrcode"
	"github.com/KeeganArn/TaskFlask-sub000/pkg/ratelimiter"
	"github.com/KeeganArn/TaskFlask-sub000/pkg/rbac"
	"github.com/KeeganArn/TaskFlask-sub000/pkg/requestid"
	"github.com/KeeganArn/TaskFlask-sub000/svc/auth"
	"github.com/KeeganArn/TaskFlask-sub000/svc/tenancy"
)

// Auth is the part of auth.Service served over HTTP.
type Auth interface {
	Register(ctx context.Context, p auth.RegisterParams) (auth.Result, error)
	Login(ctx context.Context, p auth.LoginParams) (auth.Result, error)
	SwitchOrganization(ctx context.Context, current auth.Principal, organization string) (auth.Session, error)
	Reissue(ctx context.Context, current auth.Principal) (auth.Session, error)
	Logout(ctx context.Context, current auth.Principal) error
	Verify(ctx context.Context, token string) (auth.Principal, error)
	User(ctx context.Context, id uuid.UUID) (auth.User, error)
	UserByEmail(ctx context.Context, email string) (auth.User, error)
}

// Tenancy is the part of tenancy.Service served over HTTP.
type Tenancy interface {
	Catalog() tenancy.Catalog

	GetOrganization(ctx context.Context, id uuid.UUID) (tenancy.Organization, error)
	UpdateOrganization(ctx context.Context, orgID uuid.UUID, p tenancy.UpdateOrganizationParams) (tenancy.Organization, error)
	RegenerateInviteCode(ctx context.Context, orgID uuid.UUID) (tenancy.Organization, error)

	ListRoles(ctx context.Context, orgID uuid.UUID) ([]tenancy.Role, error)
	GetRole(ctx context.Context, orgID, roleID uuid.UUID) (tenancy.Role, error)
	CreateRole(ctx context.Context, orgID uuid.UUID, p tenancy.CreateRoleParams) (tenancy.Role, error)
	UpdateRole(ctx context.Context, orgID, roleID uuid.UUID, p tenancy.UpdateRoleParams) (tenancy.Role, error)
	DeleteRole(ctx context.Context, orgID, roleID uuid.UUID) error

	ListMembers(ctx context.Context, orgID uuid.UUID) ([]tenancy.Member, error)
	AddMember(ctx context.Context, orgID, userID, roleID uuid.UUID) (tenancy.Membership, error)
	AcceptMembership(ctx context.Context, userID, membershipID uuid.UUID) (tenancy.Membership, error)
	SuspendMember(ctx context.Context, orgID, membershipID uuid.UUID) (tenancy.Membership, error)
	ReinstateMember(ctx context.Context, orgID, membershipID uuid.UUID) (tenancy.Membership, error)
	RemoveMember(ctx context.Context, orgID, membershipID uuid.UUID) (tenancy.Membership, error)
	LeaveOrganization(ctx context.Context, orgID, userID uuid.UUID) (tenancy.Membership, error)
	ChangeMemberRole(ctx context.Context, orgID, membershipID, roleID uuid.UUID) (tenancy.Membership, error)
	JoinByInviteCode(ctx context.Context, userID uuid.UUID, code string) (tenancy.Membership, error)
	SendInvitation(ctx context.Context, orgID uuid.UUID, address, invitedBy string) error
}

const defaultReadinessTimeout = 3 * time.Second

// Server holds the dependencies of the HTTP API.
type Server struct {
	auth    Auth
	tenancy Tenancy

	log              *slog.Logger
	metrics          *Metrics
	authLimiter      *ratelimiter.Bucket
	checks           []httpserver.Check
	readinessTimeout time.Duration
	requestTimeout   time.Duration
	qrSize           int
	joinURL          string
	tokenFrom        jwt.TokenExtractorFunc

	errors handler.ErrorHandler[handler.Context]
}

// Option configures a Server.
type Option func(*Server)

func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMetrics records request metrics and serves them at /metrics.
func WithMetrics(m *Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithAuthLimiter rate limits /auth/register and /auth/login per client IP.
func WithAuthLimiter(b *ratelimiter.Bucket) Option {
	return func(s *Server) { s.authLimiter = b }
}

// WithReadinessChecks adds probes to /readyz.
func WithReadinessChecks(checks ...httpserver.Check) Option {
	return func(s *Server) { s.checks = append(s.checks, checks...) }
}

func WithReadinessTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.readinessTimeout = d
		}
	}
}

// WithRequestTimeout cancels request contexts after d.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) { s.requestTimeout = d }
}

// WithQRCodeSize sets the width of invite-code QR images in pixels.
func WithQRCodeSize(size int) Option {
	return func(s *Server) { s.qrSize = size }
}

// WithJoinURL makes invite-code QR images encode joinURL with a "code" query
// parameter instead of the bare code.
func WithJoinURL(joinURL string) Option {
	return func(s *Server) { s.joinURL = joinURL }
}

// WithSessionCookie also accepts the session token from the named cookie
// when no bearer token is sent.
func WithSessionCookie(name string) Option {
	return func(s *Server) {
		if name != "" {
			s.tokenFrom = jwt.ChainExtractors(jwt.BearerTokenExtractor, jwt.CookieTokenExtractor(name))
		}
	}
}

// New creates a Server.
func New(authSvc Auth, tenancySvc Tenancy, opts ...Option) *Server {
	s := &Server{
		auth:             authSvc,
		tenancy:          tenancySvc,
		log:              slog.Default(),
		readinessTimeout: defaultReadinessTimeout,
		qrSize:           qrcode.DefaultSize,
		tokenFrom:        jwt.BearerTokenExtractor,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("api"))
	s.errors = handler.NewErrorHandler(s.log, MapError)
	return s
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(requestid.Middleware)
	r.Use(clientip.Middleware)
	if s.metrics != nil {
		r.Use(s.metrics.Middleware)
	}
	if s.requestTimeout > 0 {
		r.Use(chimw.Timeout(s.requestTimeout))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.fail(w, r, handler.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.fail(w, r, handler.ErrMethodNotAllowed)
	})

	r.Get("/healthz", httpserver.LivenessHandler())
	r.Get("/readyz", httpserver.ReadinessHandler(s.log, s.readinessTimeout, s.checks...))
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Group(func(r chi.Router) {
		if s.authLimiter != nil {
			r.Use(ratelimiter.Middleware(s.authLimiter, ratelimiter.ByClientIP("auth"),
				ratelimiter.WithLogger(s.log),
				ratelimiter.WithLimitHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					s.fail(w, r, handler.ErrTooManyRequests)
				})),
			))
		}
		r.Post("/auth/register", wrap(s, s.register, binder.JSON()))
		r.Post("/auth/login", wrap(s, s.login, binder.JSON()))
	})

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)

		r.Post("/auth/switch", wrap(s, s.switchOrganization, binder.JSON()))
		r.Post("/auth/reissue", wrap(s, s.reissue))
		r.Post("/auth/logout", wrap(s, s.logout))
		r.Get("/me", wrap(s, s.me))

		r.Get("/organization", wrap(s, s.getOrganization))
		r.With(s.require("org.edit")).Patch("/organization", wrap(s, s.updateOrganization, binder.JSON()))
		r.With(s.require("org.edit")).Post("/organization/invite-code", wrap(s, s.regenerateInviteCode))
		r.With(s.require("users.invite")).Get("/organization/invite-code.png", wrap(s, s.inviteCodeQR, binder.Query()))
		r.With(s.require("users.invite")).Post("/organization/invitations", wrap(s, s.sendInvitation, binder.JSON()))
		r.Post("/organization/leave", wrap(s, s.leaveOrganization))
		r.Post("/organizations/join", wrap(s, s.joinOrganization, binder.JSON()))

		r.Route("/roles", func(r chi.Router) {
			r.With(s.require("roles.view")).Get("/", wrap(s, s.listRoles))
			r.With(s.require("roles.create")).Post("/", wrap(s, s.createRole, binder.JSON()))
			r.With(s.require("roles.view")).Get("/{id}", wrap(s, s.getRole, pathParams))
			r.With(s.require("roles.edit")).Patch("/{id}", wrap(s, s.updateRole, pathParams, binder.JSON()))
			r.With(s.require("roles.delete")).Delete("/{id}", wrap(s, s.deleteRole, pathParams))
		})

		r.Route("/members", func(r chi.Router) {
			r.With(s.require("users.view")).Get("/", wrap(s, s.listMembers, binder.Query()))
			r.With(s.require("users.invite")).Post("/", wrap(s, s.addMember, binder.JSON()))
			r.With(s.require("users.suspend")).Post("/{id}/suspend", wrap(s, s.suspendMember, pathParams))
			r.With(s.require("users.suspend")).Post("/{id}/reinstate", wrap(s, s.reinstateMember, pathParams))
			r.With(s.require("users.edit")).Patch("/{id}/role", wrap(s, s.changeMemberRole, pathParams, binder.JSON()))
			r.With(s.require("users.remove")).Delete("/{id}", wrap(s, s.removeMember, pathParams))
		})

		r.Post("/memberships/{id}/accept", wrap(s, s.acceptMembership, pathParams))
	})

	return r
}

var pathParams = binder.Path(chi.URLParam)

// wrap adapts a typed handler to http.HandlerFunc with the server's error handler.
func wrap[R any](s *Server, h handler.HandlerFunc[handler.Context, R], binders ...handler.Bind) http.HandlerFunc {
	return handler.Wrap(h,
		handler.WithBinders[handler.Context, R](binders...),
		handler.WithErrorHandler[handler.Context, R](s.errors),
	)
}

// fail renders err outside a wrapped handler.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.errors(handler.NewContext(w, r), err)
}

func (s *Server) require(perm string) func(http.Handler) http.Handler {
	return rbac.Require(perm,
		rbac.WithLogger(s.log),
		rbac.WithDenyHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			s.metrics.PermissionDenied(routePattern(r))
			s.fail(w, r, err)
		}),
	)
}

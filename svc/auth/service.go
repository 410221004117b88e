package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/KeeganArn/TaskFlask-sub000/pkg/logger"
	"github.com/KeeganArn/TaskFlask-sub000/pkg/sanitizer"
	"github.com/KeeganArn/TaskFlask-sub000/pkg/tracing"
	"github.com/KeeganArn/TaskFlask-sub000/pkg/validator"
	"github.com/KeeganArn/TaskFlask-sub000/svc/tenancy"
)

const maxUserNameLength = 120

// Tenancy is the part of the tenancy service used during registration.
type Tenancy interface {
	Directory
	CreateOrganization(ctx context.Context, p tenancy.CreateOrganizationParams) (tenancy.Setup, error)
	JoinByInviteCode(ctx context.Context, userID uuid.UUID, code string) (tenancy.Membership, error)
}

// Result is returned by Register and Login. Exactly one of Session and
// Candidates is set.
type Result struct {
	User       User        `json:"user"`
	Session    *Session    `json:"session,omitempty"`
	Candidates []Candidate `json:"candidates,omitempty"`
}

// SelectionRequired reports whether the user must pick an organization.
func (r Result) SelectionRequired() bool { return r.Session == nil && len(r.Candidates) > 0 }

// Service implements registration, login and session management.
type Service struct {
	users    UserStore
	tenancy  Tenancy
	resolver *Resolver
	issuer   *Issuer
	hasher   PasswordHasher
	policy   validator.PasswordStrengthConfig
	log      *slog.Logger
	now      func() time.Time
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

func WithPasswordHasher(h PasswordHasher) ServiceOption {
	return func(s *Service) {
		if h != nil {
			s.hasher = h
		}
	}
}

func WithPasswordStrength(cfg validator.PasswordStrengthConfig) ServiceOption {
	return func(s *Service) { s.policy = cfg }
}

func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(users UserStore, t Tenancy, issuer *Issuer, opts ...ServiceOption) *Service {
	if users == nil || t == nil || issuer == nil {
		panic("auth: users, tenancy and issuer are required")
	}
	s := &Service{
		users:    users,
		tenancy:  t,
		resolver: NewResolver(t),
		issuer:   issuer,
		policy:   validator.DefaultPasswordStrength(),
		log:      logger.Discard(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.hasher == nil {
		s.hasher = NewBcryptHasher(0)
	}
	s.log = s.log.With(logger.Component("auth"))
	return s
}

// RegisterParams describes a sign-up. Exactly one of OrganizationName and
// InviteCode must be set.
type RegisterParams struct {
	Email            string
	Name             string
	Password         string
	OrganizationName string
	OrganizationSlug string
	InviteCode       string
}

// Register creates a user and either a new organization owned by them or a
// membership obtained with an invite code, then issues a session.
func (s *Service) Register(ctx context.Context, p RegisterParams) (_ Result, err error) {
	ctx, span := tracing.StartSpan(ctx, "auth.Register")
	defer func() { tracing.End(span, err) }()

	email := sanitizer.NormalizeEmail(p.Email)
	name := sanitizer.DisplayName(p.Name)
	orgName := sanitizer.DisplayName(p.OrganizationName)
	code := sanitizer.TrimToUpper(p.InviteCode)

	if err := validator.Apply(
		validator.ValidEmail("email", email),
		validator.RequiredString("name", name),
		validator.MaxLenString("name", name, maxUserNameLength),
		validator.StrongPassword("password", p.Password, s.policy),
		validator.NotCommonPassword("password", p.Password),
		exactlyOne("organization_name", orgName, code),
	); err != nil {
		return Result{}, err
	}

	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return Result{}, ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return Result{}, err
	}

	hash, err := s.hasher.Hash(p.Password)
	if err != nil {
		return Result{}, err
	}
	now := s.now().UTC()
	user := User{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return Result{}, err
	}

	sel, err := s.attach(ctx, user, orgName, p.OrganizationSlug, code)
	if err != nil {
		if deleteErr := s.users.DeleteUser(ctx, user.ID); deleteErr != nil {
			s.log.ErrorContext(ctx, "failed to clean up user after registration failure",
				logger.UserID(user.ID),
				logger.Error(deleteErr),
			)
		}
		return Result{}, err
	}

	s.log.InfoContext(ctx, "user registered", logger.UserID(user.ID))
	return s.authenticate(ctx, user, sel)
}

func (s *Service) attach(ctx context.Context, user User, orgName, orgSlug, code string) (Selector, error) {
	if code != "" {
		m, err := s.tenancy.JoinByInviteCode(ctx, user.ID, code)
		if err != nil {
			return Selector{}, err
		}
		return Selector{OrganizationID: m.OrganizationID}, nil
	}
	setup, err := s.tenancy.CreateOrganization(ctx, tenancy.CreateOrganizationParams{
		Name:    orgName,
		Slug:    sanitizer.TrimToLower(orgSlug),
		OwnerID: user.ID,
	})
	if err != nil {
		return Selector{}, err
	}
	return Selector{OrganizationID: setup.Organization.ID}, nil
}

// LoginParams identifies the user and, optionally, the organization (id or slug).
type LoginParams struct {
	Email        string
	Password     string
	Organization string
}

// Login checks credentials and resolves the organization to act within.
// Unknown emails and wrong passwords both yield ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, p LoginParams) (_ Result, err error) {
	ctx, span := tracing.StartSpan(ctx, "auth.Login")
	defer func() { tracing.End(span, err) }()

	email := sanitizer.NormalizeEmail(p.Email)
	user, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case errors.Is(err, ErrUserNotFound):
		_ = s.hasher.Compare("", p.Password)
		s.log.WarnContext(ctx, "login failed", logger.Event("unknown_email"))
		return Result{}, ErrInvalidCredentials
	case err != nil:
		return Result{}, err
	}
	if err := s.hasher.Compare(user.PasswordHash, p.Password); err != nil {
		s.log.WarnContext(ctx, "login failed", logger.UserID(user.ID), logger.Event("bad_password"))
		return Result{}, ErrInvalidCredentials
	}
	return s.authenticate(ctx, user, ParseSelector(p.Organization))
}

func (s *Service) authenticate(ctx context.Context, user User, sel Selector) (Result, error) {
	res, err := s.resolver.Resolve(ctx, user.ID, sel)
	if err != nil {
		s.log.WarnContext(ctx, "organization resolution failed",
			logger.UserID(user.ID),
			logger.Error(err),
		)
		return Result{}, err
	}
	if res.SelectionRequired() {
		return Result{User: user, Candidates: res.Candidates}, nil
	}
	session, err := s.issuer.Issue(ctx, *res.Principal)
	if err != nil {
		return Result{}, err
	}
	s.log.InfoContext(ctx, "user logged in",
		logger.UserID(user.ID),
		logger.OrganizationID(session.Principal.OrganizationID),
		logger.Role(session.Principal.Role),
	)
	return Result{User: user, Session: &session}, nil
}

// SwitchOrganization issues a session for another of the user's organizations
// and revokes the current one.
func (s *Service) SwitchOrganization(ctx context.Context, current Principal, organization string) (Session, error) {
	sel := ParseSelector(organization)
	if sel.IsZero() {
		return Session{}, validator.ValidationErrors{{
			Field: "organization", Message: "field is required", Key: "validation.required",
		}}
	}
	return s.rotate(ctx, current, sel)
}

// Reissue re-resolves the current organization so role and membership
// changes take effect, and revokes the current session.
func (s *Service) Reissue(ctx context.Context, current Principal) (Session, error) {
	return s.rotate(ctx, current, Selector{OrganizationID: current.OrganizationID})
}

func (s *Service) rotate(ctx context.Context, current Principal, sel Selector) (_ Session, err error) {
	ctx, span := tracing.StartSpan(ctx, "auth.rotate",
		attribute.String("user.id", current.UserID.String()))
	defer func() { tracing.End(span, err) }()

	res, err := s.resolver.Resolve(ctx, current.UserID, sel)
	if err != nil {
		return Session{}, err
	}
	session, err := s.issuer.Issue(ctx, *res.Principal)
	if err != nil {
		return Session{}, err
	}
	if err := s.issuer.Revoke(ctx, current.SessionID, current.ExpiresAt); err != nil {
		s.log.ErrorContext(ctx, "failed to revoke previous session",
			logger.SessionID(current.SessionID),
			logger.Error(err),
		)
	}
	return session, nil
}

// Logout revokes the principal's session.
func (s *Service) Logout(ctx context.Context, current Principal) error {
	return s.issuer.Revoke(ctx, current.SessionID, current.ExpiresAt)
}

// Verify authenticates a bearer token.
func (s *Service) Verify(ctx context.Context, token string) (Principal, error) {
	return s.issuer.Verify(ctx, token)
}

// User returns the user behind a principal.
func (s *Service) User(ctx context.Context, id uuid.UUID) (User, error) {
	return s.users.GetUserByID(ctx, id)
}

// UserByEmail looks a user up by address.
func (s *Service) UserByEmail(ctx context.Context, email string) (User, error) {
	return s.users.GetUserByEmail(ctx, sanitizer.NormalizeEmail(email))
}

func exactlyOne(field, orgName, code string) validator.Rule {
	return validator.Rule{
		Check: func() bool { return (orgName == "") != (strings.TrimSpace(code) == "") },
		Error: validator.ValidationError{
			Field:   field,
			Message: "provide either an organization name or an invite code",
			Key:     "validation.exactly_one",
		},
	}
}

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/KeeganArn/TaskFlask-sub000/pkg/jwt"
	"github.com/KeeganArn/TaskFlask-sub000/pkg/logger"
)

// DefaultSessionTTL is how long an issued token stays valid.
const DefaultSessionTTL = 12 * time.Hour

// Claims is the token payload. Registered claims carry the user id (sub) and
// the session id (jti).
type Claims struct {
	jwt.RegisteredClaims
	Org          string   `json:"org"`
	OrgSlug      string   `json:"org_slug"`
	MembershipID string   `json:"mbr,omitempty"`
	RoleID       string   `json:"role_id"`
	Role         string   `json:"role"`
	Perms        []string `json:"perms"`
}

// Session is an issued token together with the principal it represents.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Principal Principal `json:"principal"`
}

// Issuer signs principals into tokens, verifies them and revokes sessions.
type Issuer struct {
	tokens  *jwt.Service
	revoked RevocationStore
	ttl     time.Duration
	now     func() time.Time
	log     *slog.Logger
}

// IssuerOption configures an Issuer.
type IssuerOption func(*Issuer)

func WithSessionTTL(ttl time.Duration) IssuerOption {
	return func(i *Issuer) {
		if ttl > 0 {
			i.ttl = ttl
		}
	}
}

// WithIssuerClock must match the clock given to the jwt.Service.
func WithIssuerClock(now func() time.Time) IssuerOption {
	return func(i *Issuer) {
		if now != nil {
			i.now = now
		}
	}
}

func WithIssuerLogger(l *slog.Logger) IssuerOption {
	return func(i *Issuer) {
		if l != nil {
			i.log = l
		}
	}
}

// NewIssuer creates an issuer. A nil revocation store keeps revocations in memory.
func NewIssuer(tokens *jwt.Service, revoked RevocationStore, opts ...IssuerOption) *Issuer {
	if tokens == nil {
		panic("auth: token service cannot be nil")
	}
	i := &Issuer{
		tokens: tokens,
		ttl:    DefaultSessionTTL,
		now:    time.Now,
		log:    logger.Discard(),
	}
	for _, opt := range opts {
		opt(i)
	}
	if revoked == nil {
		revoked = NewMemoryRevocations(WithRevocationClock(i.now))
	}
	i.revoked = revoked
	i.log = i.log.With(logger.Component("auth.issuer"))
	return i
}

// Issue starts a new session for p.
func (i *Issuer) Issue(ctx context.Context, p Principal) (Session, error) {
	if p.UserID == uuid.Nil || p.OrganizationID == uuid.Nil {
		return Session{}, fmt.Errorf("%w: incomplete principal", ErrInvalidSession)
	}
	sessionID := uuid.NewString()
	claims := &Claims{
		RegisteredClaims: i.tokens.Registered(p.UserID.String(), sessionID, i.ttl),
		Org:              p.OrganizationID.String(),
		OrgSlug:          p.OrganizationSlug,
		RoleID:           p.RoleID.String(),
		Role:             p.Role,
		Perms:            append([]string{}, p.Permissions...),
	}
	if p.MembershipID != uuid.Nil {
		claims.MembershipID = p.MembershipID.String()
	}
	token, err := i.tokens.Generate(claims)
	if err != nil {
		return Session{}, err
	}

	p = p.clone()
	p.SessionID = sessionID
	p.ExpiresAt = claims.ExpiresAt.Time
	i.log.DebugContext(ctx, "session issued",
		logger.UserID(p.UserID),
		logger.OrganizationID(p.OrganizationID),
		logger.SessionID(sessionID),
	)
	return Session{Token: token, ExpiresAt: p.ExpiresAt, Principal: p}, nil
}

// Verify checks token and rebuilds its principal.
func (i *Issuer) Verify(ctx context.Context, token string) (Principal, error) {
	var claims Claims
	if err := i.tokens.Parse(token, &claims); err != nil {
		if errors.Is(err, jwt.ErrExpiredToken) {
			return Principal{}, errors.Join(ErrSessionExpired, err)
		}
		return Principal{}, errors.Join(ErrInvalidSession, err)
	}

	p, err := claims.principal()
	if err != nil {
		return Principal{}, err
	}
	revoked, err := i.revoked.IsRevoked(ctx, p.SessionID)
	if err != nil {
		return Principal{}, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return Principal{}, ErrSessionRevoked
	}
	return p, nil
}

// Revoke invalidates a session until the moment its token would have expired.
func (i *Issuer) Revoke(ctx context.Context, sessionID string, expiresAt time.Time) error {
	if sessionID == "" {
		return ErrInvalidSession
	}
	ttl := expiresAt.Sub(i.now())
	if ttl <= 0 {
		return nil
	}
	if err := i.revoked.Revoke(ctx, sessionID, ttl); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	i.log.InfoContext(ctx, "session revoked", logger.SessionID(sessionID))
	return nil
}

func (c *Claims) principal() (Principal, error) {
	userID, err := uuid.Parse(c.Subject)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: subject", ErrInvalidSession)
	}
	orgID, err := uuid.Parse(c.Org)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: organization", ErrInvalidSession)
	}
	roleID, err := uuid.Parse(c.RoleID)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: role", ErrInvalidSession)
	}
	if c.ID == "" || c.ExpiresAt == nil {
		return Principal{}, fmt.Errorf("%w: session id", ErrInvalidSession)
	}
	var membershipID uuid.UUID
	if c.MembershipID != "" {
		if membershipID, err = uuid.Parse(c.MembershipID); err != nil {
			return Principal{}, fmt.Errorf("%w: membership", ErrInvalidSession)
		}
	}
	return Principal{
		UserID:           userID,
		OrganizationID:   orgID,
		OrganizationSlug: c.OrgSlug,
		MembershipID:     membershipID,
		RoleID:           roleID,
		Role:             c.Role,
		Permissions:      c.Perms,
		SessionID:        c.ID,
		ExpiresAt:        c.ExpiresAt.Time,
	}, nil
}

package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// User is an identity that can hold memberships in several organizations.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserStore persists users. Emails are stored lower-cased; a duplicate is
// reported as ErrEmailTaken and a missing user as ErrUserNotFound.
type UserStore interface {
	CreateUser(ctx context.Context, user User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

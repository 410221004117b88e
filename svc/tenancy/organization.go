package tenancy

import (
	"time"

	"github.com/google/uuid"
)

// Plan is the subscription tier of an organization.
type Plan string

const (
	PlanFree       Plan = "free"
	PlanPro        Plan = "pro"
	PlanEnterprise Plan = "enterprise"
)

// Valid reports whether p is a known plan.
func (p Plan) Valid() bool {
	switch p {
	case PlanFree, PlanPro, PlanEnterprise:
		return true
	}
	return false
}

// Limits caps organization resources. Zero means unlimited.
type Limits struct {
	MaxUsers    int `json:"max_users"`
	MaxProjects int `json:"max_projects"`
}

// Unlimited reports whether the user limit is disabled.
func (l Limits) Unlimited() bool { return l.MaxUsers <= 0 }

// DefaultLimits returns the limits a plan starts with.
func DefaultLimits(p Plan) Limits {
	switch p {
	case PlanPro:
		return Limits{MaxUsers: 50, MaxProjects: 100}
	case PlanEnterprise:
		return Limits{}
	default:
		return Limits{MaxUsers: 5, MaxProjects: 3}
	}
}

// Organization is the tenant boundary.
type Organization struct {
	ID         uuid.UUID `json:"id"`
	Slug       string    `json:"slug"`
	Name       string    `json:"name"`
	InviteCode string    `json:"invite_code"`
	Plan       Plan      `json:"plan"`
	Limits     Limits    `json:"limits"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

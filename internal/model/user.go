package model

import "time"

// Role distinguishes parents (who approve rewards and manage the roster)
// from kids (who earn points).
type Role string

const (
	RoleParent Role = "parent"
	RoleKid    Role = "kid"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleParent || r == RoleKid
}

type User struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Avatar         string    `json:"avatar"`
	Role           Role      `json:"role"`
	Points         int       `json:"points"`
	LifetimeEarned int       `json:"lifetime_earned"`
	HasPIN         bool      `json:"has_pin"`
	CreatedAt      time.Time `json:"created_at"`
}

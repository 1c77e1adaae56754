package model

import "time"

// Role is a user's privilege tier.
type Role string

const (
	RoleUser  Role = "user"
	RoleSuper Role = "super_user"
	RoleAdmin Role = "admin"
)

// Elevated reports whether the role grants unconditional read access to
// posts regardless of visibility.
func (r Role) Elevated() bool {
	return r == RoleAdmin || r == RoleSuper
}

// User represents a registered account. Users are soft-deleted: the record
// stays in the snapshot with Deleted set so ids referenced elsewhere keep
// resolving.
type User struct {
	ID           string    `json:"id"`
	Phone        string    `json:"phone"`
	Nickname     string    `json:"nickname"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"passwordHash,omitempty"`
	AvatarURL    string    `json:"avatarUrl,omitempty"`
	Bio          string    `json:"bio,omitempty"`
	Deleted      bool      `json:"deleted,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Sanitized returns a copy safe to return to clients.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	return u
}

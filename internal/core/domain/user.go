package domain

import "time"

// Role is the authorization level of an identity.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User models a registered identity. Only the bcrypt hash of the password is
// ever held.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// IsAdmin reports whether the user currently holds the ADMIN role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Principal is the identity proven by a bearer token. It deliberately carries
// no role: role-sensitive checks re-read the user record.
type Principal struct {
	UserID int64
	Email  string
}

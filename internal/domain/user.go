package domain

import "time"

// Role enumerates staff roles.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleOfficer Role = "OFFICER"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleOfficer
}

// IsStaff reports whether r grants access to staff operations.
func (r Role) IsStaff() bool {
	return r.Valid()
}

// User is a staff account able to sign in.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

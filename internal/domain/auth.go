package domain

// Identity is the claim set carried by a session token.
type Identity struct {
	ID    string
	Role  Role
	Name  string
	Email string
}

// IsAdmin reports whether the identity holds the ADMIN role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

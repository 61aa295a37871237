package models

// DefaultRoleName is attached to every account at signup.
const DefaultRoleName = "GUEST"

type Role struct {
	ID   int64
	Name string
}

// RoleAssignment links an account to a role. Active assignments contribute
// the role name to issued token claims.
type RoleAssignment struct {
	AccountID string
	RoleID    int64
	RoleName  string
	Active    bool
}

package types

import "fmt"

// Role represents the role of an acting user
type Role string

const (
	// RoleAdmin may perform every workflow action including status changes
	RoleAdmin Role = "ADMIN"
	// RoleNursing may finalize nursing occurrences assigned to them
	RoleNursing Role = "NURSING"
	// RoleStaff may report occurrences and read their own records
	RoleStaff Role = "STAFF"
)

// AllRoles returns all valid roles
func AllRoles() []Role {
	return []Role{
		RoleAdmin,
		RoleNursing,
		RoleStaff,
	}
}

// IsValid checks if the role is valid
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin,
		RoleNursing,
		RoleStaff:
		return true
	default:
		return false
	}
}

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// ParseRole parses a string into a Role
func ParseRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", fmt.Errorf("invalid role: %s", s)
	}
	return role, nil
}

package enums

import "fmt"

// UserRole scopes what a signed-in account may do.
type UserRole string

const (
	UserRoleCustomer UserRole = "customer"
	// UserRoleAdmin has full access to the dashboard.
	UserRoleAdmin UserRole = "admin"
	// UserRoleAdminLimited sees the dashboard but cannot manage users or payment config.
	UserRoleAdminLimited UserRole = "admin_limited"
)

var validUserRoles = []UserRole{
	UserRoleCustomer,
	UserRoleAdmin,
	UserRoleAdminLimited,
}

// String implements fmt.Stringer.
func (u UserRole) String() string {
	return string(u)
}

// IsValid reports whether the value is a known UserRole.
func (u UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == u {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the role grants dashboard access.
func (u UserRole) IsAdmin() bool {
	return u == UserRoleAdmin || u == UserRoleAdminLimited
}

// ParseUserRole converts the raw string to UserRole.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}

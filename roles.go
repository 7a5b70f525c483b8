package directory

// AccountRole is the session role claim value
type AccountRole = string

const (
	// RoleUser is a regular account (view and edit own profile)
	RoleUser AccountRole = "user"
	// RoleAdmin is an administrator (full account management)
	RoleAdmin AccountRole = "admin"
)

// IsValidRole checks the role is one of the predefined values
func IsValidRole(role string) bool {
	switch role {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

// ParseRole safely parses a string into an AccountRole
func ParseRole(roleStr string) (AccountRole, bool) {
	return AccountRole(roleStr), IsValidRole(roleStr)
}

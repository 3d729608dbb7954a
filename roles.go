package auth

// UserRole is the user's authorization level
type UserRole = string

const (
	// RoleUser is the default role assigned at creation
	RoleUser UserRole = "user"
	// RoleAdmin can manage other accounts
	RoleAdmin UserRole = "admin"
	// RoleOwner holds every permission, including destructive ones
	RoleOwner UserRole = "owner"
)

// roleRank orders roles from least to most privileged.
var roleRank = map[UserRole]int{
	RoleUser:  1,
	RoleAdmin: 2,
	RoleOwner: 3,
}

// ParseRole validates and converts a string to a UserRole.
func ParseRole(role string) (UserRole, bool) {
	switch role {
	case RoleUser, RoleAdmin, RoleOwner:
		return UserRole(role), true
	default:
		return "", false
	}
}

// IsValid checks if the role is one of the predefined valid roles
func IsValidRole(r UserRole) bool {
	_, ok := roleRank[r]
	return ok
}

// RoleIsAtLeast reports whether role meets or exceeds minRole. Unknown roles
// never satisfy any minimum.
func RoleIsAtLeast(role, minRole UserRole) bool {
	have, ok := roleRank[role]
	if !ok {
		return false
	}
	want, ok := roleRank[minRole]
	if !ok {
		return false
	}
	return have >= want
}

package domain

import "fmt"

// Role is the closed set of capabilities a user can hold. Roles gate
// access to restricted routes; they are never free-form strings.
type Role string

const (
	RoleUser      Role = "user"
	RoleGuide     Role = "guide"
	RoleLeadGuide Role = "lead-guide"
	RoleAdmin     Role = "admin"
)

// ParseRole converts a string into a Role, rejecting anything outside
// the known set.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleGuide, RoleLeadGuide, RoleAdmin:
		return Role(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
}

// Valid reports whether the role is a member of the known set.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// OneOf reports whether the role is a member of the given set.
func (r Role) OneOf(roles ...Role) bool {
	for _, allowed := range roles {
		if r == allowed {
			return true
		}
	}
	return false
}

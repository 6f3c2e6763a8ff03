package domain

// Role is a coarse capability tier used for route-level authorization.
type Role string

const (
	RoleUser     Role = "user"
	RoleAdmin    Role = "admin"
	RoleReviewer Role = "reviewer"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleReviewer:
		return true
	}
	return false
}

// RoleSet is the exact set of roles a route admits. Membership is the only
// relation: listing admin does not imply reviewer, and vice versa.
type RoleSet map[Role]struct{}

// NewRoleSet builds a RoleSet from the given roles.
func NewRoleSet(roles ...Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return set
}

// Contains reports whether r is in the set.
func (s RoleSet) Contains(r Role) bool {
	_, ok := s[r]
	return ok
}

// Tier sets observed on the route table.
var (
	UserTier     = NewRoleSet(RoleUser, RoleAdmin, RoleReviewer)
	ReviewerTier = NewRoleSet(RoleAdmin, RoleReviewer)
	AdminTier    = NewRoleSet(RoleAdmin)
)

// Authorize returns nil when callerRole is a member of allowed and
// ErrForbidden otherwise.
func Authorize(callerRole Role, allowed RoleSet) error {
	if allowed.Contains(callerRole) {
		return nil
	}
	return ErrForbidden
}

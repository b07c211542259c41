package auth

// Role is the closed set of principal roles. Anything outside this set is
// rejected at validation time; the default for new accounts is the least
// privileged role.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleViewer  Role = "viewer"
)

const DefaultRole = RoleViewer

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleViewer:
		return true
	}
	return false
}

// Capability names a single permitted action.
type Capability string

const (
	CapUniversitiesRead   Capability = "universities:read"
	CapUniversitiesWrite  Capability = "universities:write"
	CapUniversitiesDelete Capability = "universities:delete"
	CapUsersRead          Capability = "users:read"
	CapUsersWrite         Capability = "users:write"
	CapUsersDelete        Capability = "users:delete"
	CapStatsRead          Capability = "stats:read"

	// CapWildcard grants every capability, present and future.
	CapWildcard Capability = "*"
)

// rolePermissions is the process-wide role to capability table. It is
// immutable after process start; there is no runtime mutation path.
var rolePermissions = map[Role][]Capability{
	RoleAdmin: {CapWildcard},
	RoleManager: {
		CapUniversitiesRead,
		CapUniversitiesWrite,
		CapUsersRead,
		CapStatsRead,
	},
	RoleViewer: {
		CapUniversitiesRead,
		CapStatsRead,
	},
}

// Can reports whether the role holds the capability, honouring the admin
// wildcard.
func (r Role) Can(capability Capability) bool {
	for _, c := range rolePermissions[r] {
		if c == CapWildcard || c == capability {
			return true
		}
	}
	return false
}

// In reports whether the role is one of the allowed roles.
func (r Role) In(allowed ...Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}

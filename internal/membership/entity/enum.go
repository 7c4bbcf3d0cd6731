package entity

type Role int16

const (
	// RoleUnknown is mean role is not known / not set.
	RoleUnknown Role = 0

	// RoleMember is the default role given at registration.
	RoleMember Role = 1

	// RoleAdmin is granted out of band, never through registration.
	RoleAdmin Role = 2
)

func (r Role) String() string {
	switch r {
	case RoleMember:
		return "member"
	case RoleAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

// Ensure maps any unrecognized value to RoleUnknown.
func (r Role) Ensure() Role {
	switch r {
	case RoleMember, RoleAdmin:
		return r
	default:
		return RoleUnknown
	}
}

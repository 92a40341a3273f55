package models

// Role is the closed set of caller roles resolved from the identity token.
type Role string

const (
	RoleCandidate    Role = "Candidate"
	RoleSpecialUser  Role = "SpecialUser"
	RoleOrganization Role = "Organization"
	RoleAdmin        Role = "Admin"
)

// ParseRole maps a raw claim value onto the enumeration. Anything unknown
// collapses to the zero value so handlers can reject it in one place.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleCandidate, RoleSpecialUser, RoleOrganization, RoleAdmin:
		return Role(s)
	default:
		return ""
	}
}

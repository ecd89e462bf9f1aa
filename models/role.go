package models

import "fmt"

// Role defines the access level of an administrator.
type Role string

const (
	RoleSuperAdmin   Role = "super_admin"
	RoleCompanyAdmin Role = "company_admin"
	RoleStationAdmin Role = "station_admin"
)

// ParseRole accepts only the three recognised roles.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleSuperAdmin, RoleCompanyAdmin, RoleStationAdmin:
		return r, nil
	default:
		return "", fmt.Errorf("unrecognized role %q", s)
	}
}

// DisplayName returns the label shown next to the username.
func (r Role) DisplayName() string {
	switch r {
	case RoleSuperAdmin:
		return "Super Administrator"
	case RoleCompanyAdmin:
		return "Company Administrator"
	case RoleStationAdmin:
		return "Station Administrator"
	default:
		return string(r)
	}
}

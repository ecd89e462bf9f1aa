// Package access computes which rows of each collection an administrator may see.
package access

import (
	"fmt"

	"tolldesk/models"
)

// Level is how far a scope narrows the organisation tree.
type Level int

const (
	LevelAll Level = iota
	LevelCompany
	LevelStation
)

// Scope is the organisational boundary derived from a user. Zero fields mean
// no restriction at that level.
type Scope struct {
	Level     Level     `json:"-"`
	CompanyID models.ID `json:"company_id,omitempty"`
	StationID models.ID `json:"station_id,omitempty"`
}

// Condition is an equality match a fetch adapter applies server-side.
type Condition struct {
	Field string
	Value models.ID
}

// InvalidRoleError reports a user whose role cannot produce a scope.
type InvalidRoleError struct {
	Role   models.Role
	Reason string
}

func (e *InvalidRoleError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid role %q", string(e.Role))
	}
	return fmt.Sprintf("invalid role %q: %s", string(e.Role), e.Reason)
}

// ResolveScope maps a user onto the scope its role grants.
func ResolveScope(user models.User) (Scope, error) {
	switch user.Role {
	case models.RoleSuperAdmin:
		return Scope{Level: LevelAll}, nil
	case models.RoleCompanyAdmin:
		if user.CompanyID.IsZero() {
			return Scope{}, &InvalidRoleError{Role: user.Role, Reason: "company_id is required"}
		}
		return Scope{Level: LevelCompany, CompanyID: user.CompanyID}, nil
	case models.RoleStationAdmin:
		if user.StationID.IsZero() {
			return Scope{}, &InvalidRoleError{Role: user.Role, Reason: "station_id is required"}
		}
		return Scope{Level: LevelStation, CompanyID: user.CompanyID, StationID: user.StationID}, nil
	default:
		return Scope{}, &InvalidRoleError{Role: user.Role}
	}
}

// Unrestricted reports whether the scope lets every row through.
func (s Scope) Unrestricted() bool { return s.Level == LevelAll }

// Conditions returns the predicates restricting one collection. Companies are
// never restricted. A station is matched on its own id because it has no
// station_id field of its own.
func (s Scope) Conditions(entity models.Entity) []Condition {
	if entity == models.EntityCompanies {
		return nil
	}
	switch s.Level {
	case LevelCompany:
		return []Condition{{Field: "company_id", Value: s.CompanyID}}
	case LevelStation:
		if entity == models.EntityStations {
			return []Condition{{Field: "id", Value: s.StationID}}
		}
		return []Condition{{Field: "station_id", Value: s.StationID}}
	default:
		return nil
	}
}

// Allows evaluates Conditions against a fetched row.
func (s Scope) Allows(entity models.Entity, row models.Scoped) bool {
	id, companyID, stationID := row.ScopeKeys()
	for _, c := range s.Conditions(entity) {
		var got models.ID
		switch c.Field {
		case "id":
			got = id
		case "company_id":
			got = companyID
		case "station_id":
			got = stationID
		}
		if got != c.Value {
			return false
		}
	}
	return true
}

// Keep returns the rows of items the scope allows, in their original order.
func Keep[T models.Scoped](s Scope, entity models.Entity, items []T) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if s.Allows(entity, it) {
			out = append(out, it)
		}
	}
	return out
}

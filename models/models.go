// models.go
// Defines the core data structures shared by the fetch adapters, the session core and the API.

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entity names one remote collection.
type Entity string

const (
	EntityTollRecords Entity = "toll_records"
	EntityCompanies   Entity = "companies"
	EntityStations    Entity = "stations"
	EntityGroups      Entity = "groups"
	EntityCollectors  Entity = "collectors"
	EntityMonitors    Entity = "monitors"
	EntityShifts      Entity = "shifts"
	EntityAdminUsers  Entity = "admin_users"
)

// Entities lists every collection loaded for a session.
var Entities = []Entity{
	EntityTollRecords,
	EntityCompanies,
	EntityStations,
	EntityGroups,
	EntityCollectors,
	EntityMonitors,
	EntityShifts,
	EntityAdminUsers,
}

// DefaultOrder reports the field a collection is sorted by when fetched.
func (e Entity) DefaultOrder() (field string, descending bool) {
	switch e {
	case EntityTollRecords:
		return "created_at", true
	case EntityAdminUsers:
		return "username", false
	default:
		return "name", false
	}
}

// Scoped is implemented by every entity so access scopes can be checked client-side.
type Scoped interface {
	ScopeKeys() (id, companyID, stationID ID)
}

// Labeled is a scoped entity with a human-readable name.
type Labeled interface {
	Scoped
	Label() string
}

// User is an administrator account (collection admin_users).
type User struct {
	ID        ID     `json:"id"`
	Username  string `json:"username"`
	Password  string `json:"-"`
	Role      Role   `json:"role"`
	CompanyID ID     `json:"company_id,omitempty"`
	StationID ID     `json:"station_id,omitempty"`
}

func (u User) ScopeKeys() (ID, ID, ID) { return u.ID, u.CompanyID, u.StationID }
func (u User) Label() string { return u.Username }

// Company is the top-level organisational unit.
type Company struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

func (c Company) ScopeKeys() (ID, ID, ID) { return c.ID, "", "" }
func (c Company) Label() string { return c.Name }

// Station is a toll station. It belongs to exactly one company.
type Station struct {
	ID        ID     `json:"id"`
	Name      string `json:"name"`
	CompanyID ID     `json:"company_id"`
}

func (s Station) ScopeKeys() (ID, ID, ID) { return s.ID, s.CompanyID, "" }
func (s Station) Label() string { return s.Name }

// Unit is the shared shape of groups, collectors and monitors.
type Unit struct {
	ID        ID     `json:"id"`
	Name      string `json:"name"`
	CompanyID ID     `json:"company_id"`
	StationID ID     `json:"station_id,omitempty"`
}

func (u Unit) ScopeKeys() (ID, ID, ID) { return u.ID, u.CompanyID, u.StationID }
func (u Unit) Label() string { return u.Name }

// Shift is a work shift schedule for a group at a station.
type Shift struct {
	ID        ID     `json:"id"`
	Name      string `json:"name"`
	CompanyID ID     `json:"company_id"`
	StationID ID     `json:"station_id,omitempty"`
	GroupID   ID     `json:"group_id,omitempty"`
	StartTime string `json:"start_time,omitempty"` // HH:MM
	EndTime   string `json:"end_time,omitempty"`
}

func (s Shift) ScopeKeys() (ID, ID, ID) { return s.ID, s.CompanyID, s.StationID }
func (s Shift) Label() string { return s.Name }

// TollRecord is one registered vehicle passage. Amount is null for unpriced passages.
type TollRecord struct {
	ID          ID                  `json:"id"`
	PlateNumber string              `json:"plate_number,omitempty"`
	CompanyID   ID                  `json:"company_id"`
	StationID   ID                  `json:"station_id"`
	Amount      decimal.NullDecimal `json:"amount"`
	IsFree      bool                `json:"is_free"`
	CreatedAt   time.Time           `json:"created_at"`
}

func (r TollRecord) ScopeKeys() (ID, ID, ID) { return r.ID, r.CompanyID, r.StationID }

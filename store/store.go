// Package store holds the per-session snapshot of every entity collection.
package store

import (
	"slices"
	"time"

	"tolldesk/lookup"
	"tolldesk/models"
)

// Store is an immutable snapshot. Accessors hand out copies so callers can
// never disturb the fetched data or its order.
type Store struct {
	records    []models.TollRecord
	companies  []models.Company
	stations   []models.Station
	groups     []models.Unit
	collectors []models.Unit
	monitors   []models.Unit
	shifts     []models.Shift
	users      []models.User
	loadedAt   time.Time
}

// Empty returns a snapshot with every collection empty.
func Empty() *Store {
	return &Store{
		records:    []models.TollRecord{},
		companies:  []models.Company{},
		stations:   []models.Station{},
		groups:     []models.Unit{},
		collectors: []models.Unit{},
		monitors:   []models.Unit{},
		shifts:     []models.Shift{},
		users:      []models.User{},
	}
}

func (s *Store) Records() []models.TollRecord { return slices.Clone(s.records) }
func (s *Store) Companies() []models.Company  { return slices.Clone(s.companies) }
func (s *Store) Stations() []models.Station   { return slices.Clone(s.stations) }
func (s *Store) Groups() []models.Unit        { return slices.Clone(s.groups) }
func (s *Store) Collectors() []models.Unit    { return slices.Clone(s.collectors) }
func (s *Store) Monitors() []models.Unit      { return slices.Clone(s.monitors) }
func (s *Store) Shifts() []models.Shift       { return slices.Clone(s.shifts) }
func (s *Store) Users() []models.User         { return slices.Clone(s.users) }
func (s *Store) LoadedAt() time.Time          { return s.loadedAt }

// Len reports the size of one collection.
func (s *Store) Len(entity models.Entity) int {
	switch entity {
	case models.EntityTollRecords:
		return len(s.records)
	case models.EntityCompanies:
		return len(s.companies)
	case models.EntityStations:
		return len(s.stations)
	case models.EntityGroups:
		return len(s.groups)
	case models.EntityCollectors:
		return len(s.collectors)
	case models.EntityMonitors:
		return len(s.monitors)
	case models.EntityShifts:
		return len(s.shifts)
	case models.EntityAdminUsers:
		return len(s.users)
	default:
		return 0
	}
}

// Resolver indexes the snapshot's companies and stations for name lookups.
func (s *Store) Resolver() *lookup.Resolver {
	return lookup.NewResolver(s.companies, s.stations)
}

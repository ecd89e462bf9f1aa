package db

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"tolldesk/access"
	"tolldesk/models"
)

// Dataset is the full content of an in-memory store.
type Dataset struct {
	Records    []models.TollRecord
	Companies  []models.Company
	Stations   []models.Station
	Groups     []models.Unit
	Collectors []models.Unit
	Monitors   []models.Unit
	Shifts     []models.Shift
	Users      []models.User
}

// MemoryDB is an in-process data set behind the Source contract. It backs demo
// mode and tests; Fail makes a collection's fetch return an error.
type MemoryDB struct {
	mu       sync.RWMutex
	data     Dataset
	failures map[models.Entity]error
}

// NewMemoryDB serves data. The caller must not modify data afterwards.
func NewMemoryDB(data Dataset) *MemoryDB {
	return &MemoryDB{data: data, failures: make(map[models.Entity]error)}
}

// Fail makes every fetch of entity fail with err until cleared with a nil err.
func (m *MemoryDB) Fail(entity models.Entity, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failures, entity)
		return
	}
	m.failures[entity] = err
}

func (m *MemoryDB) failure(entity models.Entity) error {
	if err, ok := m.failures[entity]; ok {
		return &FetchError{Entity: entity, Cause: err}
	}
	return nil
}

func byName[T models.Labeled](a, b T) int { return cmp.Compare(a.Label(), b.Label()) }

func scoped[T models.Labeled](m *MemoryDB, entity models.Entity, scope access.Scope, items []T) ([]T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.failure(entity); err != nil {
		return nil, err
	}
	out := access.Keep(scope, entity, items)
	slices.SortStableFunc(out, byName[T])
	return out, nil
}

func (m *MemoryDB) TollRecords(_ context.Context, scope access.Scope) ([]models.TollRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.failure(models.EntityTollRecords); err != nil {
		return nil, err
	}
	out := access.Keep(scope, models.EntityTollRecords, m.data.Records)
	slices.SortStableFunc(out, func(a, b models.TollRecord) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

func (m *MemoryDB) Companies(_ context.Context, scope access.Scope) ([]models.Company, error) {
	return scoped(m, models.EntityCompanies, scope, m.data.Companies)
}

func (m *MemoryDB) Stations(_ context.Context, scope access.Scope) ([]models.Station, error) {
	return scoped(m, models.EntityStations, scope, m.data.Stations)
}

func (m *MemoryDB) Groups(_ context.Context, scope access.Scope) ([]models.Unit, error) {
	return scoped(m, models.EntityGroups, scope, m.data.Groups)
}

func (m *MemoryDB) Collectors(_ context.Context, scope access.Scope) ([]models.Unit, error) {
	return scoped(m, models.EntityCollectors, scope, m.data.Collectors)
}

func (m *MemoryDB) Monitors(_ context.Context, scope access.Scope) ([]models.Unit, error) {
	return scoped(m, models.EntityMonitors, scope, m.data.Monitors)
}

func (m *MemoryDB) Shifts(_ context.Context, scope access.Scope) ([]models.Shift, error) {
	return scoped(m, models.EntityShifts, scope, m.data.Shifts)
}

func (m *MemoryDB) AdminUsers(_ context.Context, scope access.Scope) ([]models.User, error) {
	return scoped(m, models.EntityAdminUsers, scope, m.data.Users)
}

func (m *MemoryDB) Authenticate(_ context.Context, username string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.data.Users {
		if u.Username == username {
			found := u
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryDB) Close() error { return nil }

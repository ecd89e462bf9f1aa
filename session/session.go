// Package session holds everything one logged-in administrator works with:
// the user, its scope, the fetched snapshot and the current filter state.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"tolldesk/access"
	"tolldesk/db"
	"tolldesk/filter"
	"tolldesk/lookup"
	"tolldesk/models"
	"tolldesk/store"
)

// ErrTabNotVisible is returned by SwitchTab for a tab the role cannot open.
var ErrTabNotVisible = errors.New("tab not visible for this role")

// Session is created on login and discarded on logout.
type Session struct {
	ID    string
	User  models.User
	Scope access.Scope

	loc *time.Location

	mu       sync.RWMutex
	data     *store.Store
	resolver *lookup.Resolver
	notices  []*db.FetchError
	criteria filter.Criteria
	filtered []models.TollRecord
	tab      access.Tab
}

func newSession(id string, user models.User, scope access.Scope, loc *time.Location) *Session {
	if loc == nil {
		loc = time.Local
	}
	empty := store.Empty()
	return &Session{
		ID:       id,
		User:     user,
		Scope:    scope,
		loc:      loc,
		data:     empty,
		resolver: empty.Resolver(),
		filtered: []models.TollRecord{},
		tab:      access.TabRecords,
	}
}

// Location is the time zone dates are entered and shown in.
func (s *Session) Location() *time.Location { return s.loc }

// Load replaces the snapshot with a fresh fetch and re-applies the current
// criteria to it.
func (s *Session) Load(ctx context.Context, loader *store.Loader) []*db.FetchError {
	data, failures := loader.Load(ctx, s.Scope)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	s.resolver = data.Resolver()
	s.notices = failures
	s.filtered = filter.Apply(data.Records(), s.criteria, s.loc)
	return failures
}

// Store returns the current snapshot.
func (s *Session) Store() *store.Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

// Resolver returns the name resolver of the current snapshot.
func (s *Session) Resolver() *lookup.Resolver {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolver
}

// Notices lists the collections that failed on the last load.
func (s *Session) Notices() []*db.FetchError {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*db.FetchError(nil), s.notices...)
}

// ApplyFilters narrows the scoped records by c and remembers c as the
// current criteria.
func (s *Session) ApplyFilters(c filter.Criteria) []models.TollRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria = c
	s.filtered = filter.Apply(s.data.Records(), c, s.loc)
	return append([]models.TollRecord(nil), s.filtered...)
}

// ResetFilters clears the criteria and restores the full scoped set.
func (s *Session) ResetFilters() []models.TollRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria = filter.Criteria{}
	s.filtered = s.data.Records()
	return append([]models.TollRecord(nil), s.filtered...)
}

// Filtered returns the records matching the current criteria.
func (s *Session) Filtered() []models.TollRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.TollRecord(nil), s.filtered...)
}

// Criteria returns the current criteria.
func (s *Session) Criteria() filter.Criteria {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.criteria
}

// Tab returns the open dashboard section.
func (s *Session) Tab() access.Tab {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tab
}

// SwitchTab opens tab if the user's role may see it.
func (s *Session) SwitchTab(tab access.Tab) error {
	if !access.CanView(s.User.Role, tab) {
		return ErrTabNotVisible
	}
	s.mu.Lock()
	s.tab = tab
	s.mu.Unlock()
	return nil
}

package session

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tolldesk/access"
	"tolldesk/db"
	"tolldesk/filter"
	"tolldesk/models"
	"tolldesk/store"
)

var now = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

func newTestManager(t *testing.T) (*Manager, *db.MemoryDB, *MemoryKV) {
	t.Helper()
	src := db.NewMemoryDB(db.DemoDataset(now))
	kv := NewMemoryKV()
	return NewManager(kv, store.NewLoader(src), time.Hour, time.UTC), src, kv
}

func user(t *testing.T, src *db.MemoryDB, username string) models.User {
	t.Helper()
	u, err := src.Authenticate(context.Background(), username)
	require.NoError(t, err)
	return *u
}

func TestOpenPersistsUser(t *testing.T) {
	m, src, kv := newTestManager(t)
	ctx := context.Background()

	s, err := m.Open(ctx, user(t, src, "east_admin"))
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, access.Scope{Level: access.LevelCompany, CompanyID: "1"}, s.Scope)
	assert.Len(t, s.Filtered(), 3)

	raw, err := kv.Get(ctx, Key(s.ID))
	require.NoError(t, err)
	var stored models.User
	require.NoError(t, json.Unmarshal(raw, &stored))
	assert.Equal(t, "east_admin", stored.Username)
	assert.Empty(t, stored.Password)
}

func TestOpenRejectsInvalidRole(t *testing.T) {
	m, _, _ := newTestManager(t)

	_, err := m.Open(context.Background(), models.User{ID: "9", Username: "ghost", Role: models.RoleCompanyAdmin})
	var roleErr *access.InvalidRoleError
	assert.True(t, errors.As(err, &roleErr))
}

func TestOpenReportsFailedCollections(t *testing.T) {
	m, src, _ := newTestManager(t)
	src.Fail(models.EntityCompanies, errors.New("permission denied"))

	s, err := m.Open(context.Background(), user(t, src, "admin"))
	require.NoError(t, err)

	notices := s.Notices()
	require.Len(t, notices, 1)
	assert.Equal(t, models.EntityCompanies, notices[0].Entity)
	assert.Empty(t, s.Store().Companies())
	assert.Equal(t, 3, s.Store().Len(models.EntityStations))
}

func TestGetRestoresFromKV(t *testing.T) {
	ctx := context.Background()
	m, src, kv := newTestManager(t)

	s, err := m.Open(ctx, user(t, src, "east_main"))
	require.NoError(t, err)

	// a second manager sharing the KV stands in for a restarted process
	restarted := NewManager(kv, store.NewLoader(src), time.Hour, time.UTC)
	restored, err := restarted.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.NotSame(t, s, restored)
	assert.Equal(t, s.ID, restored.ID)
	assert.Equal(t, s.Scope, restored.Scope)
	assert.Equal(t, s.Store().Len(models.EntityTollRecords), restored.Store().Len(models.EntityTollRecords))

	again, err := restarted.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Same(t, restored, again)
}

func TestGetUnknownSession(t *testing.T) {
	m, _, _ := newTestManager(t)
	_, err := m.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestClose(t *testing.T) {
	ctx := context.Background()
	m, src, kv := newTestManager(t)

	s, err := m.Open(ctx, user(t, src, "admin"))
	require.NoError(t, err)
	require.NoError(t, m.Close(ctx, s.ID))

	_, err = m.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNoSession)
	_, err = kv.Get(ctx, Key(s.ID))
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestGetExpiresAfterTTL(t *testing.T) {
	ctx := context.Background()
	m, src, kv := newTestManager(t)
	clock := now
	kv.now = func() time.Time { return clock }

	s, err := m.Open(ctx, user(t, src, "east_admin"))
	require.NoError(t, err)

	got, err := m.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)

	clock = clock.Add(48 * time.Hour)
	_, err = m.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNoSession)

	m.mu.Lock()
	assert.NotContains(t, m.sessions, s.ID)
	m.mu.Unlock()
}

func TestPruneDropsExpiredSessions(t *testing.T) {
	ctx := context.Background()
	m, src, kv := newTestManager(t)
	clock := now
	kv.now = func() time.Time { return clock }

	stale, err := m.Open(ctx, user(t, src, "east_admin"))
	require.NoError(t, err)
	clock = clock.Add(30 * time.Minute)
	fresh, err := m.Open(ctx, user(t, src, "west_gate"))
	require.NoError(t, err)

	clock = clock.Add(45 * time.Minute)
	assert.Equal(t, 1, m.Prune(ctx))

	m.mu.Lock()
	assert.NotContains(t, m.sessions, stale.ID)
	assert.Contains(t, m.sessions, fresh.ID)
	m.mu.Unlock()
	assert.Zero(t, m.Prune(ctx))
}

func TestCloseOnOneReplicaEndsSessionEverywhere(t *testing.T) {
	ctx := context.Background()
	a, src, kv := newTestManager(t)
	b := NewManager(kv, store.NewLoader(src), time.Hour, time.UTC)

	s, err := a.Open(ctx, user(t, src, "west_gate"))
	require.NoError(t, err)
	_, err = b.Get(ctx, s.ID)
	require.NoError(t, err)

	require.NoError(t, a.Close(ctx, s.ID))

	_, err = b.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestApplyAndResetFilters(t *testing.T) {
	m, src, _ := newTestManager(t)
	s, err := m.Open(context.Background(), user(t, src, "admin"))
	require.NoError(t, err)

	all := s.Filtered()
	require.Len(t, all, 5)

	west := s.ApplyFilters(filter.Criteria{CompanyID: "2"})
	assert.Len(t, west, 2)
	assert.Equal(t, filter.Criteria{CompanyID: "2"}, s.Criteria())

	// the returned slice is a copy
	west[0].PlateNumber = "CHANGED"
	assert.NotEqual(t, "CHANGED", s.Filtered()[0].PlateNumber)

	reset := s.ResetFilters()
	assert.Equal(t, all, reset)
	assert.True(t, s.Criteria().IsEmpty())
}

func TestReloadKeepsCriteria(t *testing.T) {
	ctx := context.Background()
	m, src, _ := newTestManager(t)
	s, err := m.Open(ctx, user(t, src, "admin"))
	require.NoError(t, err)

	s.ApplyFilters(filter.Criteria{StationID: "21"})
	src.Fail(models.EntityStations, errors.New("timeout"))
	m.Reload(ctx, s)

	assert.Len(t, s.Filtered(), 2)
	require.Len(t, s.Notices(), 1)
	assert.Equal(t, "-", s.Resolver().StationName("21"))
}

func TestSwitchTab(t *testing.T) {
	m, src, _ := newTestManager(t)
	s, err := m.Open(context.Background(), user(t, src, "west_gate"))
	require.NoError(t, err)

	assert.Equal(t, access.TabRecords, s.Tab())
	require.NoError(t, s.SwitchTab(access.TabShifts))
	assert.Equal(t, access.TabShifts, s.Tab())

	assert.ErrorIs(t, s.SwitchTab(access.TabCompanies), ErrTabNotVisible)
	assert.Equal(t, access.TabShifts, s.Tab())
}

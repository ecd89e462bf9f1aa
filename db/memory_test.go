package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tolldesk/access"
	"tolldesk/models"
)

func demo() *MemoryDB {
	return NewMemoryDB(DemoDataset(time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)))
}

func TestMemoryDBScopesRecords(t *testing.T) {
	ctx := context.Background()
	m := demo()

	all, err := m.TollRecords(ctx, access.Scope{Level: access.LevelAll})
	require.NoError(t, err)
	assert.Len(t, all, 5)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].CreatedAt.After(all[i-1].CreatedAt), "records must be newest first")
	}

	company, err := m.TollRecords(ctx, access.Scope{Level: access.LevelCompany, CompanyID: "2"})
	require.NoError(t, err)
	assert.Len(t, company, 2)

	station, err := m.TollRecords(ctx, access.Scope{Level: access.LevelStation, CompanyID: "1", StationID: "11"})
	require.NoError(t, err)
	assert.Len(t, station, 2)
	for _, r := range station {
		assert.Equal(t, models.ID("11"), r.StationID)
	}
}

func TestMemoryDBStationAdminSeesOwnStation(t *testing.T) {
	m := demo()
	scope := access.Scope{Level: access.LevelStation, CompanyID: "1", StationID: "11"}

	stations, err := m.Stations(context.Background(), scope)
	require.NoError(t, err)
	require.Len(t, stations, 1)
	assert.Equal(t, "East Main Plaza", stations[0].Name)

	companies, err := m.Companies(context.Background(), scope)
	require.NoError(t, err)
	assert.Len(t, companies, 2)
}

func TestMemoryDBOrdersByName(t *testing.T) {
	stations, err := demo().Stations(context.Background(), access.Scope{Level: access.LevelCompany, CompanyID: "1"})
	require.NoError(t, err)
	require.Len(t, stations, 2)
	assert.Equal(t, "East Main Plaza", stations[0].Name)
	assert.Equal(t, "Harbour Exit", stations[1].Name)

	users, err := demo().AdminUsers(context.Background(), access.Scope{Level: access.LevelAll})
	require.NoError(t, err)
	assert.Equal(t, "admin", users[0].Username)
}

func TestMemoryDBFail(t *testing.T) {
	m := demo()
	m.Fail(models.EntityCompanies, errors.New("unavailable"))

	_, err := m.Companies(context.Background(), access.Scope{Level: access.LevelAll})
	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, models.EntityCompanies, fe.Entity)

	m.Fail(models.EntityCompanies, nil)
	companies, err := m.Companies(context.Background(), access.Scope{Level: access.LevelAll})
	require.NoError(t, err)
	assert.Len(t, companies, 2)
}

func TestMemoryDBAuthenticate(t *testing.T) {
	m := demo()

	u, err := m.Authenticate(context.Background(), "east_main")
	require.NoError(t, err)
	assert.Equal(t, models.RoleStationAdmin, u.Role)
	assert.Equal(t, models.ID("11"), u.StationID)

	_, err = m.Authenticate(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

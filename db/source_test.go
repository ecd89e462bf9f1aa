package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tolldesk/access"
	"tolldesk/models"
)

type fakeStore struct {
	docs  map[models.Entity][]Document
	err   error
	conds map[models.Entity][]access.Condition
}

func (f *fakeStore) query(_ context.Context, entity models.Entity, conds []access.Condition) ([]Document, error) {
	if f.conds == nil {
		f.conds = make(map[models.Entity][]access.Condition)
	}
	f.conds[entity] = conds
	if f.err != nil {
		return nil, f.err
	}
	return f.docs[entity], nil
}

func (f *fakeStore) findUser(_ context.Context, username string) (Document, error) {
	for _, d := range f.docs[models.EntityAdminUsers] {
		if d.str("username") == username {
			return d, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeStore) Close() error { return nil }

func TestDocumentSourceDecodes(t *testing.T) {
	fs := &fakeStore{docs: map[models.Entity][]Document{
		models.EntityTollRecords: {
			{"id": int64(7), "plate_number": "A12345", "company_id": "01", "station_id": float64(11), "amount": 12.5, "is_free": false, "created_at": "2024-01-10T09:00:00Z"},
			{"id": "8", "company_id": int64(1), "station_id": "11", "amount": nil, "is_free": "true"},
		},
	}}
	src := documentSource{store: fs}

	records, err := src.TollRecords(context.Background(), access.Scope{Level: access.LevelStation, CompanyID: "1", StationID: "11"})
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, models.ID("7"), records[0].ID)
	assert.Equal(t, models.ID("1"), records[0].CompanyID)
	assert.Equal(t, models.ID("11"), records[0].StationID)
	assert.True(t, records[0].Amount.Valid)
	assert.True(t, records[0].Amount.Decimal.Equal(decimal.RequireFromString("12.5")))
	assert.Equal(t, time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC), records[0].CreatedAt.UTC())

	assert.False(t, records[1].Amount.Valid)
	assert.True(t, records[1].IsFree)
	assert.True(t, records[1].CreatedAt.IsZero())

	assert.Equal(t, []access.Condition{{Field: "station_id", Value: "11"}}, fs.conds[models.EntityTollRecords])
}

func TestDocumentSourceReadsNaiveTimestampsInLocation(t *testing.T) {
	nairobi := time.FixedZone("EAT", 3*60*60)
	fs := &fakeStore{docs: map[models.Entity][]Document{
		models.EntityTollRecords: {
			{"id": "1", "created_at": "2024-01-10 09:00:00"},
			{"id": "2", "created_at": "2024-01-10T09:00:00"},
			{"id": "3", "created_at": "2024-01-10T09:00:00+01:00"},
		},
	}}
	src := documentSource{store: fs, loc: nairobi}

	records, err := src.TollRecords(context.Background(), access.Scope{Level: access.LevelAll})
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, time.Date(2024, 1, 10, 6, 0, 0, 0, time.UTC), records[0].CreatedAt.UTC())
	assert.Equal(t, time.Date(2024, 1, 10, 6, 0, 0, 0, time.UTC), records[1].CreatedAt.UTC())
	assert.Equal(t, time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC), records[2].CreatedAt.UTC())
}

func TestDocumentSourceWrapsErrors(t *testing.T) {
	cause := errors.New("deadline exceeded")
	src := documentSource{store: &fakeStore{err: cause}}

	_, err := src.Stations(context.Background(), access.Scope{Level: access.LevelAll})
	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, models.EntityStations, fe.Entity)
	assert.ErrorIs(t, err, cause)
}

func TestDocumentSourceAuthenticate(t *testing.T) {
	src := documentSource{store: &fakeStore{docs: map[models.Entity][]Document{
		models.EntityAdminUsers: {
			{"id": int64(3), "username": "east_main", "password": "secret", "role": "station_admin", "company_id": int64(1), "station_id": int64(11)},
		},
	}}}

	u, err := src.Authenticate(context.Background(), "east_main")
	require.NoError(t, err)
	assert.Equal(t, models.User{ID: "3", Username: "east_main", Password: "secret", Role: models.RoleStationAdmin, CompanyID: "1", StationID: "11"}, *u)

	_, err = src.Authenticate(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDocumentAmount(t *testing.T) {
	d := Document{"a": "30.50", "b": int64(5), "c": "n/a"}
	assert.True(t, d.amount("a").Decimal.Equal(decimal.RequireFromString("30.5")))
	assert.True(t, d.amount("b").Decimal.Equal(decimal.NewFromInt(5)))
	assert.False(t, d.amount("c").Valid)
	assert.False(t, d.amount("missing").Valid)
}

func TestSelectSQL(t *testing.T) {
	sql, args := selectSQL(models.EntityTollRecords, []access.Condition{{Field: "station_id", Value: "11"}})
	assert.Contains(t, sql, "FROM toll_records WHERE station_id::text = $1 ORDER BY created_at DESC")
	assert.Equal(t, []any{"11"}, args)

	sql, args = selectSQL(models.EntityCompanies, nil)
	assert.Contains(t, sql, "FROM companies ORDER BY name")
	assert.NotContains(t, sql, "WHERE")
	assert.Empty(t, args)

	sql, _ = selectSQL(models.EntityAdminUsers, []access.Condition{{Field: "company_id", Value: "1"}, {Field: "station_id", Value: "11"}})
	assert.Contains(t, sql, "WHERE company_id::text = $1 AND station_id::text = $2 ORDER BY username")
}

func TestIDValues(t *testing.T) {
	assert.Equal(t, []any{"11", int64(11)}, idValues("11"))
	assert.Equal(t, []any{"st-1"}, idValues("st-1"))
}

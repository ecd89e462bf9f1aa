package lookup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tolldesk/models"
)

var companies = []models.Company{
	{ID: "1", Name: "Alpha"},
	{ID: "2", Name: "Beta"},
	{ID: "2", Name: "Beta (duplicate)"},
}

func TestName(t *testing.T) {
	assert.Equal(t, "Alpha", Name(companies, "1"))
	assert.Equal(t, "Beta", Name(companies, "2"))
	assert.Equal(t, Placeholder, Name(companies, "3"))
	assert.Equal(t, Placeholder, Name(companies, ""))
	assert.Equal(t, Placeholder, Name([]models.Company{}, "1"))
}

func TestIndexAgreesWithName(t *testing.T) {
	idx := NewIndex(companies)
	for _, id := range []models.ID{"1", "2", "3", ""} {
		assert.Equal(t, Name(companies, id), idx.Name(id), "id %q", id)
	}
}

func TestResolverEnrich(t *testing.T) {
	r := NewResolver(companies, []models.Station{{ID: "11", Name: "East Main Plaza", CompanyID: "1"}})

	records := []models.TollRecord{
		{ID: "a", CompanyID: "1", StationID: "11", CreatedAt: time.Now()},
		{ID: "b", CompanyID: "9", StationID: ""},
	}
	got := r.Enrich(records)
	require.Len(t, got, 2)

	assert.Equal(t, "Alpha", got[0].CompanyName)
	assert.Equal(t, "East Main Plaza", got[0].StationName)
	assert.Equal(t, records[0], got[0].TollRecord)

	assert.Equal(t, Placeholder, got[1].CompanyName)
	assert.Equal(t, Placeholder, got[1].StationName)
}

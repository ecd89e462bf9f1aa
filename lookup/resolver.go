package lookup

import (
	"tolldesk/models"
)

// Resolver resolves the company and station names of toll records.
type Resolver struct {
	companies Index
	stations  Index
}

// NewResolver indexes the given reference collections.
func NewResolver(companies []models.Company, stations []models.Station) *Resolver {
	return &Resolver{
		companies: NewIndex(companies),
		stations:  NewIndex(stations),
	}
}

func (r *Resolver) CompanyName(id models.ID) string { return r.companies.Name(id) }

func (r *Resolver) StationName(id models.ID) string { return r.stations.Name(id) }

// EnrichedRecord is a toll record with its foreign keys resolved.
type EnrichedRecord struct {
	models.TollRecord
	CompanyName string `json:"company_name"`
	StationName string `json:"station_name"`
}

// Enrich resolves names for every record, keeping input order.
func (r *Resolver) Enrich(records []models.TollRecord) []EnrichedRecord {
	out := make([]EnrichedRecord, len(records))
	for i, rec := range records {
		out[i] = EnrichedRecord{
			TollRecord:  rec,
			CompanyName: r.CompanyName(rec.CompanyID),
			StationName: r.StationName(rec.StationID),
		}
	}
	return out
}

// Package filter narrows an already scoped record set by user-entered criteria.
package filter

import (
	"time"

	"tolldesk/models"
)

// DateLayout is the format of StartDate and EndDate.
const DateLayout = "2006-01-02"

// Criteria is an ad hoc filter. Empty fields impose no constraint.
type Criteria struct {
	StartDate string    `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string    `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	CompanyID models.ID `json:"company_id,omitempty"`
	StationID models.ID `json:"station_id,omitempty"`
}

// IsEmpty reports whether no field is set.
func (c Criteria) IsEmpty() bool {
	return c == Criteria{}
}

// Predicate reports whether one record matches.
type Predicate func(models.TollRecord) bool

// Predicate builds the combined match function. Dates are read in loc (nil
// means time.Local): the start date from local midnight, the end date up to and
// including 23:59:59 of that day. A date that does not parse matches nothing.
func (c Criteria) Predicate(loc *time.Location) Predicate {
	if loc == nil {
		loc = time.Local
	}

	var (
		from, until       time.Time
		hasFrom, hasUntil bool
		broken            bool
	)
	if c.StartDate != "" {
		t, err := time.ParseInLocation(DateLayout, c.StartDate, loc)
		if err != nil {
			broken = true
		}
		from, hasFrom = t, true
	}
	if c.EndDate != "" {
		t, err := time.ParseInLocation(DateLayout, c.EndDate, loc)
		if err != nil {
			broken = true
		}
		until, hasUntil = time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, loc), true
	}
	if broken {
		return func(models.TollRecord) bool { return false }
	}

	return func(r models.TollRecord) bool {
		if hasFrom && r.CreatedAt.Before(from) {
			return false
		}
		if hasUntil && r.CreatedAt.After(until) {
			return false
		}
		if !c.CompanyID.IsZero() && r.CompanyID != c.CompanyID {
			return false
		}
		if !c.StationID.IsZero() && r.StationID != c.StationID {
			return false
		}
		return true
	}
}

// Apply returns a new slice holding the records that match c, in input order.
// The input is never modified.
func Apply(records []models.TollRecord, c Criteria, loc *time.Location) []models.TollRecord {
	match := c.Predicate(loc)
	out := make([]models.TollRecord, 0, len(records))
	for _, r := range records {
		if match(r) {
			out = append(out, r)
		}
	}
	return out
}

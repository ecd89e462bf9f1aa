// Package export flattens toll records into spreadsheet rows and writes them out.
package export

import (
	"time"

	"github.com/shopspring/decimal"

	"tolldesk/lookup"
	"tolldesk/models"
)

// TimestampLayout formats Row.Date.
const TimestampLayout = "2006-01-02 15:04:05"

const (
	StatusFree    = "free"
	StatusCharged = "charged"
)

// Row is one flat, display-oriented export line.
type Row struct {
	Date        string          `json:"date"`
	PlateNumber string          `json:"plate_number"`
	CompanyName string          `json:"company_name"`
	StationName string          `json:"station_name"`
	Amount      decimal.Decimal `json:"amount"`
	Status      string          `json:"status"`
}

// Project maps records onto rows in input order. Records are read, never modified.
func Project(records []models.TollRecord, names *lookup.Resolver, loc *time.Location) []Row {
	if loc == nil {
		loc = time.Local
	}
	rows := make([]Row, len(records))
	for i, r := range records {
		rows[i] = Row{
			Date:        FormatTimestamp(r.CreatedAt, loc),
			PlateNumber: orPlaceholder(r.PlateNumber),
			CompanyName: names.CompanyName(r.CompanyID),
			StationName: names.StationName(r.StationID),
			Amount:      amountOrZero(r.Amount),
			Status:      Status(r.IsFree),
		}
	}
	return rows
}

// Status labels a record as free or charged.
func Status(isFree bool) string {
	if isFree {
		return StatusFree
	}
	return StatusCharged
}

// FormatTimestamp renders t in loc; the zero time renders as the placeholder.
func FormatTimestamp(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return lookup.Placeholder
	}
	return t.In(loc).Format(TimestampLayout)
}

// DisplayAmount is the on-screen amount: "¥12.50", or the placeholder when the
// amount is absent or zero.
func DisplayAmount(a decimal.NullDecimal) string {
	if !a.Valid || a.Decimal.IsZero() {
		return lookup.Placeholder
	}
	return "¥" + a.Decimal.StringFixed(2)
}

func amountOrZero(a decimal.NullDecimal) decimal.Decimal {
	if !a.Valid {
		return decimal.Zero
	}
	return a.Decimal
}

func orPlaceholder(s string) string {
	if s == "" {
		return lookup.Placeholder
	}
	return s
}

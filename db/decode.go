package db

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"tolldesk/models"
)

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999-07",
	"2006-01-02 15:04:05",
}

func (d Document) id(key string) models.ID { return models.ParseID(d[key]) }

func (d Document) str(key string) string {
	switch v := d[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return models.ParseID(v).String()
	}
}

func (d Document) boolean(key string) bool {
	switch v := d[key].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	case int64:
		return v != 0
	default:
		return false
	}
}

// timestamp accepts native times and the textual forms PostgREST-era data
// carries. Strings without an offset are read in loc (nil means time.Local).
func (d Document) timestamp(key string, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	switch v := d[key].(type) {
	case time.Time:
		return v
	case string:
		s := strings.TrimSpace(v)
		for _, layout := range timeLayouts {
			if t, err := time.ParseInLocation(layout, s, loc); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}

func (d Document) amount(key string) decimal.NullDecimal {
	switch v := d[key].(type) {
	case float64:
		return decimal.NewNullDecimal(decimal.NewFromFloat(v))
	case int64:
		return decimal.NewNullDecimal(decimal.NewFromInt(v))
	case int:
		return decimal.NewNullDecimal(decimal.NewFromInt(int64(v)))
	case string:
		if dec, err := decimal.NewFromString(strings.TrimSpace(v)); err == nil {
			return decimal.NewNullDecimal(dec)
		}
	}
	return decimal.NullDecimal{}
}

func decodeTollRecord(d Document, loc *time.Location) models.TollRecord {
	return models.TollRecord{
		ID:          d.id("id"),
		PlateNumber: d.str("plate_number"),
		CompanyID:   d.id("company_id"),
		StationID:   d.id("station_id"),
		Amount:      d.amount("amount"),
		IsFree:      d.boolean("is_free"),
		CreatedAt:   d.timestamp("created_at", loc),
	}
}

func decodeCompany(d Document) models.Company {
	return models.Company{ID: d.id("id"), Name: d.str("name")}
}

func decodeStation(d Document) models.Station {
	return models.Station{ID: d.id("id"), Name: d.str("name"), CompanyID: d.id("company_id")}
}

func decodeUnit(d Document) models.Unit {
	return models.Unit{
		ID:        d.id("id"),
		Name:      d.str("name"),
		CompanyID: d.id("company_id"),
		StationID: d.id("station_id"),
	}
}

func decodeShift(d Document) models.Shift {
	return models.Shift{
		ID:        d.id("id"),
		Name:      d.str("name"),
		CompanyID: d.id("company_id"),
		StationID: d.id("station_id"),
		GroupID:   d.id("group_id"),
		StartTime: d.str("start_time"),
		EndTime:   d.str("end_time"),
	}
}

func decodeUser(d Document) models.User {
	return models.User{
		ID:        d.id("id"),
		Username:  d.str("username"),
		Password:  d.str("password"),
		Role:      models.Role(d.str("role")),
		CompanyID: d.id("company_id"),
		StationID: d.id("station_id"),
	}
}

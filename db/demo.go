package db

import (
	"time"

	"github.com/shopspring/decimal"

	"tolldesk/models"
)

// DemoDataset is a small two-company network used when DATA_BACKEND=memory.
// Passwords are stored plain, the way legacy admin_users rows are.
func DemoDataset(now time.Time) Dataset {
	day := func(daysAgo, hour int) time.Time {
		d := now.AddDate(0, 0, -daysAgo)
		return time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, now.Location())
	}
	amount := func(s string) decimal.NullDecimal {
		return decimal.NewNullDecimal(decimal.RequireFromString(s))
	}

	return Dataset{
		Companies: []models.Company{
			{ID: "1", Name: "East Expressway Co."},
			{ID: "2", Name: "West Expressway Co."},
		},
		Stations: []models.Station{
			{ID: "11", Name: "East Main Plaza", CompanyID: "1"},
			{ID: "12", Name: "Harbour Exit", CompanyID: "1"},
			{ID: "21", Name: "West Gate", CompanyID: "2"},
		},
		Groups: []models.Unit{
			{ID: "101", Name: "Group A", CompanyID: "1", StationID: "11"},
			{ID: "102", Name: "Group B", CompanyID: "1", StationID: "12"},
			{ID: "201", Name: "Group C", CompanyID: "2", StationID: "21"},
		},
		Collectors: []models.Unit{
			{ID: "1001", Name: "Li Wei", CompanyID: "1", StationID: "11"},
			{ID: "1002", Name: "Zhang Min", CompanyID: "1", StationID: "12"},
			{ID: "2001", Name: "Wang Fang", CompanyID: "2", StationID: "21"},
		},
		Monitors: []models.Unit{
			{ID: "3001", Name: "Chen Jie", CompanyID: "1", StationID: "11"},
			{ID: "3002", Name: "Liu Yang", CompanyID: "2", StationID: "21"},
		},
		Shifts: []models.Shift{
			{ID: "501", Name: "Day", CompanyID: "1", StationID: "11", GroupID: "101", StartTime: "08:00", EndTime: "20:00"},
			{ID: "502", Name: "Night", CompanyID: "1", StationID: "11", GroupID: "101", StartTime: "20:00", EndTime: "08:00"},
			{ID: "503", Name: "Day", CompanyID: "2", StationID: "21", GroupID: "201", StartTime: "08:00", EndTime: "20:00"},
		},
		Users: []models.User{
			{ID: "1", Username: "admin", Password: "password", Role: models.RoleSuperAdmin},
			{ID: "2", Username: "east_admin", Password: "password", Role: models.RoleCompanyAdmin, CompanyID: "1"},
			{ID: "3", Username: "east_main", Password: "password", Role: models.RoleStationAdmin, CompanyID: "1", StationID: "11"},
			{ID: "4", Username: "west_gate", Password: "password", Role: models.RoleStationAdmin, CompanyID: "2", StationID: "21"},
		},
		Records: []models.TollRecord{
			{ID: "9001", PlateNumber: "A12345", CompanyID: "1", StationID: "11", Amount: amount("15.00"), CreatedAt: day(0, 9)},
			{ID: "9002", PlateNumber: "B67890", CompanyID: "1", StationID: "11", IsFree: true, CreatedAt: day(1, 14)},
			{ID: "9003", PlateNumber: "C24680", CompanyID: "1", StationID: "12", Amount: amount("30.50"), CreatedAt: day(2, 7)},
			{ID: "9004", CompanyID: "2", StationID: "21", Amount: amount("12.00"), CreatedAt: day(3, 18)},
			{ID: "9005", PlateNumber: "E11223", CompanyID: "2", StationID: "21", IsFree: true, CreatedAt: day(10, 11)},
		},
	}
}

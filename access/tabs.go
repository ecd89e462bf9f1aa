package access

import (
	"slices"

	"tolldesk/models"
)

// Tab is one dashboard section.
type Tab string

const (
	TabRecords    Tab = "records"
	TabCompanies  Tab = "companies"
	TabStations   Tab = "stations"
	TabGroups     Tab = "groups"
	TabCollectors Tab = "collectors"
	TabMonitors   Tab = "monitors"
	TabShifts     Tab = "shifts"
	TabUsers      Tab = "users"
)

var allTabs = []Tab{
	TabRecords, TabCompanies, TabStations, TabGroups,
	TabCollectors, TabMonitors, TabShifts, TabUsers,
}

// VisibleTabs lists the sections a role can open. Station admins manage
// neither companies nor stations.
func VisibleTabs(role models.Role) []Tab {
	if role != models.RoleStationAdmin {
		return slices.Clone(allTabs)
	}
	out := make([]Tab, 0, len(allTabs))
	for _, t := range allTabs {
		if t == TabCompanies || t == TabStations {
			continue
		}
		out = append(out, t)
	}
	return out
}

// CanView reports whether role may open tab.
func CanView(role models.Role, tab Tab) bool {
	return slices.Contains(VisibleTabs(role), tab)
}

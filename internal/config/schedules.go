package config

import "github.com/stemsi/daycare-backend/internal/model"

// Schedules is the fixed schedule catalog. Prices are monthly, in currency units.
var Schedules = []model.Schedule{
	{ID: "morning", Name: "Morning", Price: 280, ContractualEnd: "13:00"},
	{ID: "school-day", Name: "School day", Price: 350, ContractualEnd: "15:00"},
	{ID: "full-day", Name: "Full day", Price: 410, ContractualEnd: "17:00"},
	{ID: "extended-day", Name: "Extended day", Price: 460, ContractualEnd: "18:30"},
}

// ScheduleByID looks up a catalog entry.
func ScheduleByID(id string) (model.Schedule, bool) {
	for _, s := range Schedules {
		if s.ID == id {
			return s, true
		}
	}
	return model.Schedule{}, false
}

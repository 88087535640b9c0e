package overview

import (
	"time"

	"aras-dashboard/pkg/types"
)

const (
	DefaultUserName = "User"
	DefaultPlan     = "free"
	DefaultCurrency = "EUR"

	DefaultPriority     = "medium"
	DefaultSentiment    = "neutral"
	DefaultActivityType = "system"
	DefaultQuadrant     = "schedule"
	DefaultSource       = "dynamic"
	DefaultSeverity     = types.SeverityInfo
)

// Default - значение parse({}): все числа нулевые, все коллекции пустые.
func Default() types.DashboardOverview {
	return defaultAt(time.Now())
}

func defaultAt(now time.Time) types.DashboardOverview {
	return types.DashboardOverview{
		User: types.DashboardUser{
			Name: DefaultUserName,
			Plan: DefaultPlan,
		},
		KPIs: types.DashboardKPIs{
			Quotas: types.QuotaKPIs{
				Spend: types.Money{Currency: DefaultCurrency},
			},
		},
		NextActions:  []types.ActionItem{},
		Activity:     []types.ActivityItem{},
		Modules:      emptyModules(),
		SystemAlerts: []types.SystemAlert{},
		LastUpdated:  now.UTC().Format(time.RFC3339),
		Errors:       []string{},
	}
}

func emptyModules() types.DashboardModules {
	return types.DashboardModules{
		ContactRadar: types.ContactRadarModule{Contacts: []types.RadarContact{}},
		TodayOS: types.TodayOSModule{
			Tasks:  []types.TodayTask{},
			Events: []types.TodayEvent{},
		},
		Matrix: types.MatrixModule{Items: []types.MatrixItem{}},
	}
}

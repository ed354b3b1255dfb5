package reporting

import (
	"time"

	"gymflow/internal/models"
)

const DefaultPeriod = "30d"

// PeriodStart resolves a period name to its window start. Unknown names
// fall back to DefaultPeriod.
func PeriodStart(period string, now time.Time) (string, time.Time) {
	switch period {
	case "7d":
		return period, now.AddDate(0, 0, -7)
	case "90d":
		return period, now.AddDate(0, 0, -90)
	case "1y":
		return period, now.AddDate(-1, 0, 0)
	default:
		return DefaultPeriod, now.AddDate(0, 0, -30)
	}
}

type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type AnalyticsMetrics struct {
	NewMembers    int     `json:"newMembers"`
	TotalRevenue  float64 `json:"totalRevenue"`
	RetentionRate float64 `json:"retentionRate"`
	ARPU          float64 `json:"arpu"`
}

type PlanRevenue struct {
	PlanName    string  `json:"planName"`
	Revenue     float64 `json:"revenue"`
	MemberCount int     `json:"memberCount"`
}

type Trends struct {
	MemberGrowth  int     `json:"memberGrowth"`
	RevenueGrowth float64 `json:"revenueGrowth"`
}

type AnalyticsData struct {
	Period             string           `json:"period"`
	DateRange          DateRange        `json:"dateRange"`
	Metrics            AnalyticsMetrics `json:"metrics"`
	DailyRegistrations map[string]int   `json:"dailyRegistrations"`
	RevenueByPlan      []PlanRevenue    `json:"revenueByPlan"`
	Trends             Trends           `json:"trends"`
}

func Analytics(members []models.Member, plans []models.Plan, period string, now time.Time) AnalyticsData {
	period, start := PeriodStart(period, now)

	daily := map[string]int{}
	newMembers := 0
	for i := range members {
		created := members[i].CreatedAt
		if created.Before(start) {
			continue
		}
		newMembers++
		daily[created.UTC().Format("2006-01-02")]++
	}

	byPlan := make([]PlanRevenue, 0, len(plans))
	for i := range plans {
		count := membersOnPlan(members, plans[i].ID, true)
		byPlan = append(byPlan, PlanRevenue{
			PlanName:    plans[i].Name,
			Revenue:     float64(count) * plans[i].Price,
			MemberCount: count,
		})
	}

	totalRevenue := Revenue(members, plans)
	var retention, arpu float64
	if len(members) > 0 {
		retention = float64(countStatus(members, models.MemberActive)) / float64(len(members)) * 100
		arpu = totalRevenue / float64(len(members))
	}

	return AnalyticsData{
		Period:    period,
		DateRange: DateRange{Start: start, End: now},
		Metrics: AnalyticsMetrics{
			NewMembers:    newMembers,
			TotalRevenue:  totalRevenue,
			RetentionRate: round2(retention),
			ARPU:          round2(arpu),
		},
		DailyRegistrations: daily,
		RevenueByPlan:      byPlan,
		Trends: Trends{
			MemberGrowth:  newMembers,
			RevenueGrowth: totalRevenue,
		},
	}
}

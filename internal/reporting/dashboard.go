package reporting

import (
	"sort"
	"time"

	"gymflow/internal/models"
)

const (
	recentMembersLimit = 10
	topPlansLimit      = 5
	trendMonths        = 6
)

type Overview struct {
	TotalMembers         int     `json:"totalMembers"`
	ActiveMembers        int     `json:"activeMembers"`
	TotalPlans           int     `json:"totalPlans"`
	ActivePlans          int     `json:"activePlans"`
	TotalTrainers        int     `json:"totalTrainers"`
	ActiveTrainers       int     `json:"activeTrainers"`
	MonthlyRevenue       float64 `json:"monthlyRevenue"`
	TotalRevenue         float64 `json:"totalRevenue"`
	NewMembersLast30Days int     `json:"newMembersLast30Days"`
}

type PlanShare struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	MemberCount int     `json:"memberCount"`
	Revenue     float64 `json:"revenue"`
	Percentage  int     `json:"percentage"`
}

type RecentMember struct {
	ID       string              `json:"id"`
	Name     string              `json:"name"`
	Email    string              `json:"email"`
	JoinDate string              `json:"joinDate"`
	Status   models.MemberStatus `json:"status"`
	PlanName string              `json:"planName"`
}

type MonthlyTrend struct {
	Month      string  `json:"month"`
	NewMembers int     `json:"newMembers"`
	Revenue    float64 `json:"revenue"`
}

type DashboardData struct {
	Overview         Overview        `json:"overview"`
	PlanDistribution []PlanShare     `json:"planDistribution"`
	RecentMembers    []RecentMember  `json:"recentMembers"`
	StatusBreakdown  StatusBreakdown `json:"statusBreakdown"`
	MonthlyTrends    []MonthlyTrend  `json:"monthlyTrends"`
	TopPlans         []PlanShare     `json:"topPlans"`
}

func Dashboard(members []models.Member, plans []models.Plan, trainers []models.Trainer, now time.Time) DashboardData {
	index := indexPlans(plans)

	overview := Overview{
		TotalMembers:         len(members),
		ActiveMembers:        countStatus(members, models.MemberActive),
		TotalPlans:           len(plans),
		TotalTrainers:        len(trainers),
		TotalRevenue:         Revenue(members, plans),
		NewMembersLast30Days: newSince(members, now.AddDate(0, 0, -30)),
	}
	for i := range plans {
		if plans[i].IsActive {
			overview.ActivePlans++
		}
	}
	for i := range trainers {
		if trainers[i].IsActive {
			overview.ActiveTrainers++
		}
	}
	for i := range members {
		m := &members[i]
		if m.Status != models.MemberActive {
			continue
		}
		if p := planOf(m, index); p != nil && p.Duration == models.Monthly {
			overview.MonthlyRevenue += p.Price
		}
	}

	distribution := make([]PlanShare, 0, len(plans))
	for i := range plans {
		count := membersOnPlan(members, plans[i].ID, false)
		distribution = append(distribution, PlanShare{
			ID:          plans[i].ID,
			Name:        plans[i].Name,
			MemberCount: count,
			Revenue:     float64(count) * plans[i].Price,
			Percentage:  percent(count, len(members)),
		})
	}

	top := make([]PlanShare, len(distribution))
	copy(top, distribution)
	sort.SliceStable(top, func(i, j int) bool { return top[i].MemberCount > top[j].MemberCount })
	if len(top) > topPlansLimit {
		top = top[:topPlansLimit]
	}

	return DashboardData{
		Overview:         overview,
		PlanDistribution: distribution,
		RecentMembers:    recentMembers(members, index),
		StatusBreakdown:  Statuses(members),
		MonthlyTrends:    monthlyTrends(members, index, now),
		TopPlans:         top,
	}
}

func recentMembers(members []models.Member, index map[string]*models.Plan) []RecentMember {
	sorted := make([]models.Member, len(members))
	copy(sorted, members)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].CreatedAt.After(sorted[j].CreatedAt) })
	if len(sorted) > recentMembersLimit {
		sorted = sorted[:recentMembersLimit]
	}

	recent := make([]RecentMember, 0, len(sorted))
	for i := range sorted {
		m := &sorted[i]
		recent = append(recent, RecentMember{
			ID:       m.ID,
			Name:     m.Name,
			Email:    m.Email,
			JoinDate: m.JoinDate,
			Status:   m.Status,
			PlanName: planName(m, index),
		})
	}
	return recent
}

// monthlyTrends covers the current calendar month and the five before it.
func monthlyTrends(members []models.Member, index map[string]*models.Plan, now time.Time) []MonthlyTrend {
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	trends := make([]MonthlyTrend, 0, trendMonths)
	for i := trendMonths - 1; i >= 0; i-- {
		start := current.AddDate(0, -i, 0)
		end := start.AddDate(0, 1, 0)

		trend := MonthlyTrend{Month: start.Format("Jan 2006")}
		for j := range members {
			m := &members[j]
			created := m.CreatedAt.In(now.Location())
			if created.Before(start) || !created.Before(end) {
				continue
			}
			trend.NewMembers++
			if p := planOf(m, index); p != nil {
				trend.Revenue += p.Price
			}
		}
		trends = append(trends, trend)
	}
	return trends
}

package reporting

import (
	"time"

	"gymflow/internal/models"
)

const (
	ReportMembers  = "members"
	ReportRevenue  = "revenue"
	ReportTrainers = "trainers"
	ReportSummary  = "summary"
)

type MembersReport struct {
	Title       string          `json:"title"`
	GeneratedAt time.Time       `json:"generatedAt"`
	Summary     MembersSummary  `json:"summary"`
	Details     []MemberDetails `json:"details"`
}

type MembersSummary struct {
	TotalMembers    int `json:"totalMembers"`
	ActiveMembers   int `json:"activeMembers"`
	InactiveMembers int `json:"inactiveMembers"`
}

type MemberDetails struct {
	Name     string              `json:"name"`
	Email    string              `json:"email"`
	Phone    string              `json:"phone"`
	Status   models.MemberStatus `json:"status"`
	JoinDate string              `json:"joinDate"`
	PlanName string              `json:"planName"`
}

type RevenueReport struct {
	Title       string           `json:"title"`
	GeneratedAt time.Time        `json:"generatedAt"`
	Summary     RevenueSummary   `json:"summary"`
	Details     []RevenueDetails `json:"details"`
}

type RevenueSummary struct {
	TotalRevenue          float64 `json:"totalRevenue"`
	TotalPlans            int     `json:"totalPlans"`
	AverageRevenuePerPlan float64 `json:"averageRevenuePerPlan"`
}

type RevenueDetails struct {
	PlanName     string  `json:"planName"`
	Price        float64 `json:"price"`
	MemberCount  int     `json:"memberCount"`
	TotalRevenue float64 `json:"totalRevenue"`
}

type TrainersReport struct {
	Title       string           `json:"title"`
	GeneratedAt time.Time        `json:"generatedAt"`
	Summary     TrainersSummary  `json:"summary"`
	Details     []TrainerDetails `json:"details"`
}

type TrainersSummary struct {
	TotalTrainers  int     `json:"totalTrainers"`
	ActiveTrainers int     `json:"activeTrainers"`
	AverageRating  float64 `json:"averageRating"`
}

type TrainerDetails struct {
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Specialization string  `json:"specialization"`
	Experience     int     `json:"experience"`
	HourlyRate     float64 `json:"hourlyRate"`
	Rating         float64 `json:"rating"`
	TotalSessions  int     `json:"totalSessions"`
	IsActive       bool    `json:"isActive"`
}

type SummaryReport struct {
	Title       string           `json:"title"`
	GeneratedAt time.Time        `json:"generatedAt"`
	Overview    SummaryOverview  `json:"overview"`
	Breakdown   SummaryBreakdown `json:"breakdown"`
}

type SummaryOverview struct {
	TotalMembers  int     `json:"totalMembers"`
	ActiveMembers int     `json:"activeMembers"`
	TotalPlans    int     `json:"totalPlans"`
	TotalTrainers int     `json:"totalTrainers"`
	TotalRevenue  float64 `json:"totalRevenue"`
}

type SummaryBreakdown struct {
	MembersByStatus StatusBreakdown  `json:"membersByStatus"`
	PlanPopularity  []PlanPopularity `json:"planPopularity"`
}

type PlanPopularity struct {
	Name        string `json:"name"`
	MemberCount int    `json:"memberCount"`
}

// Report builds the report named by kind and returns the resolved kind.
// Unknown kinds produce the summary report.
func Report(kind string, members []models.Member, plans []models.Plan, trainers []models.Trainer, now time.Time) (string, interface{}) {
	switch kind {
	case ReportMembers:
		return kind, membersReport(members, plans, now)
	case ReportRevenue:
		return kind, revenueReport(members, plans, now)
	case ReportTrainers:
		return kind, trainersReport(trainers, now)
	default:
		return ReportSummary, summaryReport(members, plans, trainers, now)
	}
}

func membersReport(members []models.Member, plans []models.Plan, now time.Time) MembersReport {
	index := indexPlans(plans)
	details := make([]MemberDetails, 0, len(members))
	for i := range members {
		m := &members[i]
		details = append(details, MemberDetails{
			Name:     m.Name,
			Email:    m.Email,
			Phone:    m.Phone,
			Status:   m.Status,
			JoinDate: m.JoinDate,
			PlanName: planName(m, index),
		})
	}
	return MembersReport{
		Title:       "Members Report",
		GeneratedAt: now,
		Summary: MembersSummary{
			TotalMembers:    len(members),
			ActiveMembers:   countStatus(members, models.MemberActive),
			InactiveMembers: countStatus(members, models.MemberInactive),
		},
		Details: details,
	}
}

func revenueReport(members []models.Member, plans []models.Plan, now time.Time) RevenueReport {
	details := make([]RevenueDetails, 0, len(plans))
	total := 0.0
	for i := range plans {
		count := membersOnPlan(members, plans[i].ID, true)
		revenue := float64(count) * plans[i].Price
		total += revenue
		details = append(details, RevenueDetails{
			PlanName:     plans[i].Name,
			Price:        plans[i].Price,
			MemberCount:  count,
			TotalRevenue: revenue,
		})
	}
	average := 0.0
	if len(details) > 0 {
		average = round2(total / float64(len(details)))
	}
	return RevenueReport{
		Title:       "Revenue Report",
		GeneratedAt: now,
		Summary: RevenueSummary{
			TotalRevenue:          total,
			TotalPlans:            len(plans),
			AverageRevenuePerPlan: average,
		},
		Details: details,
	}
}

func trainersReport(trainers []models.Trainer, now time.Time) TrainersReport {
	details := make([]TrainerDetails, 0, len(trainers))
	active := 0
	ratingSum := 0.0
	for i := range trainers {
		t := &trainers[i]
		if t.IsActive {
			active++
		}
		ratingSum += t.Rating
		details = append(details, TrainerDetails{
			Name:           t.Name,
			Email:          t.Email,
			Specialization: t.Specialization,
			Experience:     t.Experience,
			HourlyRate:     t.HourlyRate,
			Rating:         t.Rating,
			TotalSessions:  t.TotalSessions,
			IsActive:       t.IsActive,
		})
	}
	average := 0.0
	if len(trainers) > 0 {
		average = round2(ratingSum / float64(len(trainers)))
	}
	return TrainersReport{
		Title:       "Trainers Report",
		GeneratedAt: now,
		Summary: TrainersSummary{
			TotalTrainers:  len(trainers),
			ActiveTrainers: active,
			AverageRating:  average,
		},
		Details: details,
	}
}

func summaryReport(members []models.Member, plans []models.Plan, trainers []models.Trainer, now time.Time) SummaryReport {
	popularity := make([]PlanPopularity, 0, len(plans))
	for i := range plans {
		popularity = append(popularity, PlanPopularity{
			Name:        plans[i].Name,
			MemberCount: membersOnPlan(members, plans[i].ID, false),
		})
	}
	return SummaryReport{
		Title:       "Summary Report",
		GeneratedAt: now,
		Overview: SummaryOverview{
			TotalMembers:  len(members),
			ActiveMembers: countStatus(members, models.MemberActive),
			TotalPlans:    len(plans),
			TotalTrainers: len(trainers),
			TotalRevenue:  Revenue(members, plans),
		},
		Breakdown: SummaryBreakdown{
			MembersByStatus: Statuses(members),
			PlanPopularity:  popularity,
		},
	}
}

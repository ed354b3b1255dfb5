package reporting

import (
	"sort"

	"gymflow/internal/models"
)

const (
	DefaultSpecialization = "General"
	topTrainersLimit      = 5
)

type PlanStat struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	Price         float64             `json:"price"`
	Duration      models.PlanDuration `json:"duration"`
	MemberCount   int                 `json:"memberCount"`
	ActiveMembers int                 `json:"activeMembers"`
	TotalRevenue  float64             `json:"totalRevenue"`
	IsActive      bool                `json:"isActive"`
}

type PlanSummary struct {
	TotalPlans   int     `json:"totalPlans"`
	ActivePlans  int     `json:"activePlans"`
	TotalMembers int     `json:"totalMembers"`
	TotalRevenue float64 `json:"totalRevenue"`
	AveragePrice float64 `json:"averagePrice"`
}

type PlanStats struct {
	Plans   []PlanStat  `json:"plans"`
	Summary PlanSummary `json:"summary"`
}

func PlanStatistics(plans []models.Plan, members []models.Member) PlanStats {
	stats := make([]PlanStat, 0, len(plans))
	summary := PlanSummary{TotalPlans: len(plans), TotalMembers: len(members)}
	priceSum := 0.0
	for i := range plans {
		p := &plans[i]
		active := membersOnPlan(members, p.ID, true)
		stat := PlanStat{
			ID:            p.ID,
			Name:          p.Name,
			Price:         p.Price,
			Duration:      p.Duration,
			MemberCount:   membersOnPlan(members, p.ID, false),
			ActiveMembers: active,
			TotalRevenue:  float64(active) * p.Price,
			IsActive:      p.IsActive,
		}
		stats = append(stats, stat)
		if p.IsActive {
			summary.ActivePlans++
		}
		summary.TotalRevenue += stat.TotalRevenue
		priceSum += p.Price
	}
	if len(plans) > 0 {
		summary.AveragePrice = round2(priceSum / float64(len(plans)))
	}
	return PlanStats{Plans: stats, Summary: summary}
}

type TrainerSummary struct {
	TotalTrainers     int     `json:"totalTrainers"`
	ActiveTrainers    int     `json:"activeTrainers"`
	AverageRating     float64 `json:"averageRating"`
	TotalSessions     int     `json:"totalSessions"`
	AverageHourlyRate float64 `json:"averageHourlyRate"`
}

type TopTrainer struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Specialization string  `json:"specialization"`
	Rating         float64 `json:"rating"`
	TotalSessions  int     `json:"totalSessions"`
}

type TrainerStats struct {
	Summary                 TrainerSummary `json:"summary"`
	SpecializationBreakdown map[string]int `json:"specializationBreakdown"`
	TopTrainers             []TopTrainer   `json:"topTrainers"`
}

func TrainerStatistics(trainers []models.Trainer) TrainerStats {
	summary := TrainerSummary{TotalTrainers: len(trainers)}
	breakdown := map[string]int{}
	var ratingSum, rateSum float64
	var active []models.Trainer
	for i := range trainers {
		t := &trainers[i]
		if t.IsActive {
			summary.ActiveTrainers++
			active = append(active, *t)
		}
		ratingSum += t.Rating
		rateSum += t.HourlyRate
		summary.TotalSessions += t.TotalSessions

		spec := t.Specialization
		if spec == "" {
			spec = DefaultSpecialization
		}
		breakdown[spec]++
	}
	if len(trainers) > 0 {
		summary.AverageRating = round2(ratingSum / float64(len(trainers)))
		summary.AverageHourlyRate = round2(rateSum / float64(len(trainers)))
	}

	sort.SliceStable(active, func(i, j int) bool { return active[i].Rating > active[j].Rating })
	if len(active) > topTrainersLimit {
		active = active[:topTrainersLimit]
	}
	top := make([]TopTrainer, 0, len(active))
	for i := range active {
		top = append(top, TopTrainer{
			ID:             active[i].ID,
			Name:           active[i].Name,
			Specialization: active[i].Specialization,
			Rating:         active[i].Rating,
			TotalSessions:  active[i].TotalSessions,
		})
	}

	return TrainerStats{Summary: summary, SpecializationBreakdown: breakdown, TopTrainers: top}
}

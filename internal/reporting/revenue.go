// Package reporting derives dashboard, analytics and report figures from
// already-fetched collections. Nothing here touches storage.
package reporting

import (
	"math"
	"time"

	"gymflow/internal/models"
)

const NoPlanName = "No Plan"

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

func indexPlans(plans []models.Plan) map[string]*models.Plan {
	index := make(map[string]*models.Plan, len(plans))
	for i := range plans {
		index[plans[i].ID] = &plans[i]
	}
	return index
}

func planOf(m *models.Member, index map[string]*models.Plan) *models.Plan {
	if !m.HasPlan() {
		return nil
	}
	return index[*m.PlanID]
}

func planName(m *models.Member, index map[string]*models.Plan) string {
	if p := planOf(m, index); p != nil {
		return p.Name
	}
	return NoPlanName
}

// Revenue sums the plan price of every active member. A plan id that does
// not resolve contributes nothing.
func Revenue(members []models.Member, plans []models.Plan) float64 {
	index := indexPlans(plans)
	total := 0.0
	for i := range members {
		if members[i].Status != models.MemberActive {
			continue
		}
		if p := planOf(&members[i], index); p != nil {
			total += p.Price
		}
	}
	return total
}

func countStatus(members []models.Member, status models.MemberStatus) int {
	n := 0
	for i := range members {
		if members[i].Status == status {
			n++
		}
	}
	return n
}

func newSince(members []models.Member, since time.Time) int {
	n := 0
	for i := range members {
		if members[i].CreatedAt.After(since) {
			n++
		}
	}
	return n
}

func membersOnPlan(members []models.Member, planID string, onlyActive bool) int {
	n := 0
	for i := range members {
		m := &members[i]
		if !m.HasPlan() || *m.PlanID != planID {
			continue
		}
		if onlyActive && m.Status != models.MemberActive {
			continue
		}
		n++
	}
	return n
}

type StatusBreakdown struct {
	Active    int `json:"active"`
	Inactive  int `json:"inactive"`
	Suspended int `json:"suspended"`
	Expired   int `json:"expired"`
}

func Statuses(members []models.Member) StatusBreakdown {
	return StatusBreakdown{
		Active:    countStatus(members, models.MemberActive),
		Inactive:  countStatus(members, models.MemberInactive),
		Suspended: countStatus(members, models.MemberSuspended),
		Expired:   countStatus(members, models.MemberExpired),
	}
}

package reporting

import (
	"sort"
	"time"

	"gymflow/internal/models"
)

const topTenantsLimit = 10

type PlatformOverview struct {
	TotalTenants         int `json:"totalTenants"`
	ActiveTenants        int `json:"activeTenants"`
	TotalUsers           int `json:"totalUsers"`
	TotalMembers         int `json:"totalMembers"`
	NewTenantsLast30Days int `json:"newTenantsLast30Days"`
	NewUsersLast30Days   int `json:"newUsersLast30Days"`
}

type TenantsByPlan struct {
	Basic      int `json:"basic"`
	Premium    int `json:"premium"`
	Enterprise int `json:"enterprise"`
}

type TenantRank struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Plan        models.TenantPlan `json:"plan"`
	MemberCount int               `json:"memberCount"`
	CreatedAt   time.Time         `json:"createdAt"`
}

type PlatformData struct {
	Overview      PlatformOverview `json:"overview"`
	TenantsByPlan TenantsByPlan    `json:"tenantsByPlan"`
	TopTenants    []TenantRank     `json:"topTenants"`
}

// PlatformAnalytics summarizes every tenant for super admins.
func PlatformAnalytics(tenants []models.Tenant, users []models.User, members []models.Member, now time.Time) PlatformData {
	since := now.AddDate(0, 0, -30)
	overview := PlatformOverview{
		TotalTenants: len(tenants),
		TotalUsers:   len(users),
		TotalMembers: len(members),
	}
	var byPlan TenantsByPlan

	perTenant := map[string]int{}
	for i := range members {
		perTenant[members[i].TenantID]++
	}

	ranks := make([]TenantRank, 0, len(tenants))
	for i := range tenants {
		t := &tenants[i]
		if t.IsActive {
			overview.ActiveTenants++
		}
		if t.CreatedAt.After(since) {
			overview.NewTenantsLast30Days++
		}
		switch t.Plan {
		case models.TenantPlanBasic:
			byPlan.Basic++
		case models.TenantPlanPremium:
			byPlan.Premium++
		case models.TenantPlanEnterprise:
			byPlan.Enterprise++
		}
		ranks = append(ranks, TenantRank{
			ID:          t.ID,
			Name:        t.Name,
			Plan:        t.Plan,
			MemberCount: perTenant[t.ID],
			CreatedAt:   t.CreatedAt,
		})
	}
	for i := range users {
		if users[i].CreatedAt.After(since) {
			overview.NewUsersLast30Days++
		}
	}

	sort.SliceStable(ranks, func(i, j int) bool { return ranks[i].MemberCount > ranks[j].MemberCount })
	if len(ranks) > topTenantsLimit {
		ranks = ranks[:topTenantsLimit]
	}

	return PlatformData{Overview: overview, TenantsByPlan: byPlan, TopTenants: ranks}
}

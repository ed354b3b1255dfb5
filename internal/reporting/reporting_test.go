package reporting

import (
	"testing"
	"time"

	"gymflow/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func member(id, planID string, status models.MemberStatus, created time.Time) models.Member {
	m := models.Member{
		Base:   models.Base{ID: id, TenantID: "t1", CreatedAt: created},
		Name:   "member " + id,
		Status: status,
	}
	if planID != "" {
		m.PlanID = strPtr(planID)
	}
	return m
}

func fixtures() ([]models.Member, []models.Plan) {
	plans := []models.Plan{
		{Base: models.Base{ID: "basic"}, Name: "Basic", Price: 30, Duration: models.Monthly, IsActive: true},
		{Base: models.Base{ID: "annual"}, Name: "Annual", Price: 300, Duration: models.Yearly, IsActive: true},
		{Base: models.Base{ID: "old"}, Name: "Old", Price: 10, Duration: models.Weekly},
	}
	members := []models.Member{
		member("m1", "basic", models.MemberActive, now.AddDate(0, 0, -2)),
		member("m2", "basic", models.MemberInactive, now.AddDate(0, 0, -10)),
		member("m3", "annual", models.MemberActive, now.AddDate(0, -2, 0)),
		member("m4", "", models.MemberActive, now.AddDate(0, 0, -40)),
		member("m5", "deleted-plan", models.MemberActive, now.AddDate(0, 0, -1)),
	}
	return members, plans
}

func TestRevenueIgnoresDanglingPlans(t *testing.T) {
	members, plans := fixtures()
	assert.Equal(t, 330.0, Revenue(members, plans))
	assert.Equal(t, 0.0, Revenue(members, nil))
	assert.Equal(t, 0.0, Revenue(nil, plans))
}

func TestDashboard(t *testing.T) {
	members, plans := fixtures()
	trainers := []models.Trainer{{IsActive: true}, {IsActive: false}}

	d := Dashboard(members, plans, trainers, now)
	assert.Equal(t, 5, d.Overview.TotalMembers)
	assert.Equal(t, 4, d.Overview.ActiveMembers)
	assert.Equal(t, 2, d.Overview.ActivePlans)
	assert.Equal(t, 1, d.Overview.ActiveTrainers)
	assert.Equal(t, 30.0, d.Overview.MonthlyRevenue)
	assert.Equal(t, 330.0, d.Overview.TotalRevenue)
	assert.Equal(t, 3, d.Overview.NewMembersLast30Days)

	require.Len(t, d.PlanDistribution, 3)
	assert.Equal(t, 2, d.PlanDistribution[0].MemberCount)
	assert.Equal(t, 60.0, d.PlanDistribution[0].Revenue)
	assert.Equal(t, 40, d.PlanDistribution[0].Percentage)

	assert.Equal(t, "Basic", d.TopPlans[0].Name)
	assert.Equal(t, StatusBreakdown{Active: 4, Inactive: 1}, d.StatusBreakdown)

	require.Len(t, d.RecentMembers, 5)
	assert.Equal(t, "m5", d.RecentMembers[0].ID)
	assert.Equal(t, NoPlanName, d.RecentMembers[0].PlanName)

	require.Len(t, d.MonthlyTrends, 6)
	assert.Equal(t, "Jan 2024", d.MonthlyTrends[0].Month)
	last := d.MonthlyTrends[5]
	assert.Equal(t, "Jun 2024", last.Month)
	assert.Equal(t, 3, last.NewMembers)
	assert.Equal(t, 60.0, last.Revenue)
}

func TestAnalytics(t *testing.T) {
	members, plans := fixtures()

	a := Analytics(members, plans, "7d", now)
	assert.Equal(t, "7d", a.Period)
	assert.Equal(t, 2, a.Metrics.NewMembers)
	assert.Equal(t, 330.0, a.Metrics.TotalRevenue)
	assert.Equal(t, 80.0, a.Metrics.RetentionRate)
	assert.Equal(t, 66.0, a.Metrics.ARPU)
	assert.Equal(t, 1, a.DailyRegistrations["2024-06-13"])

	fallback := Analytics(members, plans, "bogus", now)
	assert.Equal(t, DefaultPeriod, fallback.Period)
	assert.Equal(t, now.AddDate(0, 0, -30), fallback.DateRange.Start)

	empty := Analytics(nil, nil, "1y", now)
	assert.Equal(t, 0.0, empty.Metrics.ARPU)
	assert.Equal(t, 0.0, empty.Metrics.RetentionRate)
}

func TestReportKinds(t *testing.T) {
	members, plans := fixtures()
	trainers := []models.Trainer{{Name: "Sam", Rating: 4.5, IsActive: true}, {Name: "Ann", Rating: 3}}

	kind, data := Report("revenue", members, plans, trainers, now)
	assert.Equal(t, ReportRevenue, kind)
	revenue := data.(RevenueReport)
	assert.Equal(t, 330.0, revenue.Summary.TotalRevenue)
	assert.Equal(t, 110.0, revenue.Summary.AverageRevenuePerPlan)

	_, data = Report("trainers", members, plans, trainers, now)
	assert.Equal(t, 3.75, data.(TrainersReport).Summary.AverageRating)

	_, data = Report("members", members, plans, trainers, now)
	assert.Len(t, data.(MembersReport).Details, 5)

	kind, data = Report("", members, plans, trainers, now)
	assert.Equal(t, ReportSummary, kind)
	summary := data.(SummaryReport)
	assert.Equal(t, 330.0, summary.Overview.TotalRevenue)
	assert.Len(t, summary.Breakdown.PlanPopularity, 3)
}

func TestPlanStatistics(t *testing.T) {
	members, plans := fixtures()
	stats := PlanStatistics(plans, members)

	assert.Equal(t, 3, stats.Summary.TotalPlans)
	assert.Equal(t, 2, stats.Summary.ActivePlans)
	assert.Equal(t, 5, stats.Summary.TotalMembers)
	assert.Equal(t, 330.0, stats.Summary.TotalRevenue)
	assert.Equal(t, 113.33, stats.Summary.AveragePrice)
	assert.Equal(t, 2, stats.Plans[0].MemberCount)
	assert.Equal(t, 1, stats.Plans[0].ActiveMembers)
}

func TestTrainerStatistics(t *testing.T) {
	trainers := []models.Trainer{
		{Base: models.Base{ID: "a"}, Specialization: "Yoga", Rating: 4.8, HourlyRate: 50, TotalSessions: 10, IsActive: true},
		{Base: models.Base{ID: "b"}, Specialization: "", Rating: 4.1, HourlyRate: 40, TotalSessions: 5, IsActive: true},
		{Base: models.Base{ID: "c"}, Specialization: "Yoga", Rating: 5, HourlyRate: 45, IsActive: false},
	}
	stats := TrainerStatistics(trainers)

	assert.Equal(t, 3, stats.Summary.TotalTrainers)
	assert.Equal(t, 2, stats.Summary.ActiveTrainers)
	assert.Equal(t, 15, stats.Summary.TotalSessions)
	assert.Equal(t, 4.63, stats.Summary.AverageRating)
	assert.Equal(t, 45.0, stats.Summary.AverageHourlyRate)
	assert.Equal(t, map[string]int{"Yoga": 2, DefaultSpecialization: 1}, stats.SpecializationBreakdown)
	require.Len(t, stats.TopTrainers, 2)
	assert.Equal(t, "a", stats.TopTrainers[0].ID)
}

func TestPlatformAnalytics(t *testing.T) {
	tenants := []models.Tenant{
		{Base: models.Base{ID: "t1", CreatedAt: now.AddDate(0, 0, -5)}, Plan: models.TenantPlanPremium, IsActive: true},
		{Base: models.Base{ID: "t2", CreatedAt: now.AddDate(0, -3, 0)}, Plan: models.TenantPlanBasic},
	}
	users := []models.User{{Base: models.Base{CreatedAt: now.AddDate(0, 0, -1)}}, {Base: models.Base{CreatedAt: now.AddDate(-1, 0, 0)}}}
	members, _ := fixtures()

	data := PlatformAnalytics(tenants, users, members, now)
	assert.Equal(t, 2, data.Overview.TotalTenants)
	assert.Equal(t, 1, data.Overview.ActiveTenants)
	assert.Equal(t, 1, data.Overview.NewTenantsLast30Days)
	assert.Equal(t, 1, data.Overview.NewUsersLast30Days)
	assert.Equal(t, TenantsByPlan{Basic: 1, Premium: 1}, data.TenantsByPlan)
	assert.Equal(t, "t1", data.TopTenants[0].ID)
	assert.Equal(t, 5, data.TopTenants[0].MemberCount)
}

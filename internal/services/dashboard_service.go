package services

import (
	"context"
	"time"

	"gymflow/internal/audit"
	"gymflow/internal/models"
	"gymflow/internal/reporting"
	"gymflow/internal/repository"

	"go.uber.org/zap"
)

// ReportResult pairs a generated report with its resolved kind.
type ReportResult struct {
	Type   string      `json:"type"`
	Report interface{} `json:"report"`
}

type DashboardService interface {
	Dashboard(ctx context.Context, tenantID string) (reporting.DashboardData, error)
	Analytics(ctx context.Context, tenantID, period string) (reporting.AnalyticsData, error)
	Report(ctx context.Context, tenantID, kind string) (*ReportResult, error)
}

type dashboardService struct {
	members  repository.MemberRepository
	plans    repository.PlanRepository
	trainers repository.TrainerRepository
	audit    *audit.Logger
	now      func() time.Time
}

func NewDashboardService(
	members repository.MemberRepository,
	plans repository.PlanRepository,
	trainers repository.TrainerRepository,
	auditLog *audit.Logger,
) DashboardService {
	return &dashboardService{members: members, plans: plans, trainers: trainers, audit: auditLog, now: time.Now}
}

type tenantData struct {
	members  []models.Member
	plans    []models.Plan
	trainers []models.Trainer
}

func (s *dashboardService) load(ctx context.Context, tenantID string, withTrainers bool) (*tenantData, error) {
	var data tenantData
	var err error
	if data.members, err = s.members.List(ctx, nil, tenantID); err != nil {
		return nil, err
	}
	if data.plans, err = s.plans.List(ctx, nil, tenantID); err != nil {
		return nil, err
	}
	if withTrainers {
		if data.trainers, err = s.trainers.List(ctx, nil, tenantID); err != nil {
			return nil, err
		}
	}
	return &data, nil
}

func (s *dashboardService) Dashboard(ctx context.Context, tenantID string) (reporting.DashboardData, error) {
	data, err := s.load(ctx, tenantID, true)
	if err != nil {
		return reporting.DashboardData{}, err
	}
	return reporting.Dashboard(data.members, data.plans, data.trainers, s.now().UTC()), nil
}

func (s *dashboardService) Analytics(ctx context.Context, tenantID, period string) (reporting.AnalyticsData, error) {
	data, err := s.load(ctx, tenantID, false)
	if err != nil {
		return reporting.AnalyticsData{}, err
	}
	return reporting.Analytics(data.members, data.plans, period, s.now().UTC()), nil
}

func (s *dashboardService) Report(ctx context.Context, tenantID, kind string) (*ReportResult, error) {
	data, err := s.load(ctx, tenantID, true)
	if err != nil {
		return nil, err
	}
	resolved, report := reporting.Report(kind, data.members, data.plans, data.trainers, s.now().UTC())
	s.audit.Record(ctx, audit.ReportGenerated,
		zap.String("report_type", resolved),
		zap.String("tenant_id", tenantID),
	)
	return &ReportResult{Type: resolved, Report: report}, nil
}

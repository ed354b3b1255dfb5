package services

import (
	"context"
	"sort"
	"strings"

	"gymflow/internal/audit"
	"gymflow/internal/models"
	"gymflow/internal/reporting"
	"gymflow/internal/repository"
	"gymflow/internal/store"

	"go.uber.org/zap"
)

type PlanInput struct {
	Name        string   `json:"name"`
	Price       *float64 `json:"price"`
	Duration    string   `json:"duration"`
	Features    []string `json:"features"`
	Description string   `json:"description"`
	IsActive    *bool    `json:"isActive"`
}

type PlanPatch struct {
	Name        *string   `json:"name"`
	Price       *float64  `json:"price"`
	Duration    *string   `json:"duration"`
	Features    *[]string `json:"features"`
	Description *string   `json:"description"`
	IsActive    *bool     `json:"isActive"`
}

type PlanService interface {
	List(ctx context.Context, tenantID string) ([]models.Plan, error)
	Search(ctx context.Context, tenantID, query string) ([]models.Plan, error)
	Stats(ctx context.Context, tenantID string) (reporting.PlanStats, error)
	Get(ctx context.Context, tenantID, id string) (*models.Plan, error)
	Create(ctx context.Context, tenantID string, input PlanInput) (*models.Plan, error)
	Update(ctx context.Context, tenantID, id string, patch PlanPatch) (*models.Plan, error)
	Delete(ctx context.Context, tenantID, id string) error
}

type planService struct {
	plans   repository.PlanRepository
	members repository.MemberRepository
	audit   *audit.Logger
}

func NewPlanService(plans repository.PlanRepository, members repository.MemberRepository, auditLog *audit.Logger) PlanService {
	return &planService{plans: plans, members: members, audit: auditLog}
}

// List returns the tenant's plans cheapest first.
func (s *planService) List(ctx context.Context, tenantID string) ([]models.Plan, error) {
	plans, err := s.plans.List(ctx, nil, tenantID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(plans, func(i, j int) bool { return plans[i].Price < plans[j].Price })
	return plans, nil
}

func (s *planService) Search(ctx context.Context, tenantID, query string) ([]models.Plan, error) {
	plans, err := s.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	term := strings.ToLower(strings.TrimSpace(query))
	if term == "" {
		return plans, nil
	}
	matched := make([]models.Plan, 0, len(plans))
	for _, p := range plans {
		if strings.Contains(strings.ToLower(p.Name), term) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

func (s *planService) Stats(ctx context.Context, tenantID string) (reporting.PlanStats, error) {
	plans, err := s.plans.List(ctx, nil, tenantID)
	if err != nil {
		return reporting.PlanStats{}, err
	}
	members, err := s.members.List(ctx, nil, tenantID)
	if err != nil {
		return reporting.PlanStats{}, err
	}
	return reporting.PlanStatistics(plans, members), nil
}

func (s *planService) Get(ctx context.Context, tenantID, id string) (*models.Plan, error) {
	plan, err := s.plans.GetByID(ctx, id, tenantID)
	if err != nil {
		return nil, notFoundAs(err, ErrPlanNotFound)
	}
	return plan, nil
}

func (s *planService) Create(ctx context.Context, tenantID string, input PlanInput) (*models.Plan, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || input.Price == nil || input.Duration == "" {
		return nil, required("Name, price, and duration are required", "name", "price", "duration")
	}
	if *input.Price < 0 {
		return nil, ErrInvalidPrice
	}
	duration := models.PlanDuration(input.Duration)
	if !duration.Valid() {
		return nil, ErrInvalidDuration
	}

	if _, err := s.plans.GetByName(ctx, name, tenantID); err == nil {
		return nil, ErrPlanExists
	} else if !isNotFound(err) {
		return nil, err
	}

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}
	features := input.Features
	if features == nil {
		features = []string{}
	}

	return s.plans.Create(ctx, &models.Plan{
		Base:        models.Base{TenantID: tenantID},
		Name:        name,
		Price:       *input.Price,
		Duration:    duration,
		Features:    features,
		Description: strings.TrimSpace(input.Description),
		IsActive:    active,
	})
}

func (s *planService) Update(ctx context.Context, tenantID, id string, patch PlanPatch) (*models.Plan, error) {
	existing, err := s.plans.GetByID(ctx, id, tenantID)
	if err != nil {
		return nil, notFoundAs(err, ErrPlanNotFound)
	}

	doc := store.Document{}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, required("Name cannot be empty", "name")
		}
		if !strings.EqualFold(name, existing.Name) {
			other, err := s.plans.GetByName(ctx, name, tenantID)
			if err == nil && other.ID != id {
				return nil, ErrPlanNameTaken
			}
			if err != nil && !isNotFound(err) {
				return nil, err
			}
		}
		doc["name"] = name
	}
	if patch.Price != nil {
		if *patch.Price < 0 {
			return nil, ErrInvalidPrice
		}
		doc["price"] = *patch.Price
	}
	if patch.Duration != nil {
		duration := models.PlanDuration(*patch.Duration)
		if !duration.Valid() {
			return nil, ErrInvalidDuration
		}
		doc["duration"] = duration
	}
	if patch.Features != nil {
		doc["features"] = *patch.Features
	}
	if patch.Description != nil {
		doc["description"] = strings.TrimSpace(*patch.Description)
	}
	if patch.IsActive != nil {
		doc["isActive"] = *patch.IsActive
	}

	plan, err := s.plans.Update(ctx, id, doc, tenantID)
	if err != nil {
		return nil, notFoundAs(err, ErrPlanNotFound)
	}
	return plan, nil
}

// Delete refuses while any member still references the plan.
func (s *planService) Delete(ctx context.Context, tenantID, id string) error {
	plan, err := s.plans.GetByID(ctx, id, tenantID)
	if err != nil {
		return notFoundAs(err, ErrPlanNotFound)
	}
	count, err := s.members.CountByPlan(ctx, id, tenantID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrPlanInUse.With("membersCount", count)
	}
	if err := s.plans.Delete(ctx, id, tenantID); err != nil {
		return notFoundAs(err, ErrPlanNotFound)
	}
	s.audit.Record(ctx, audit.PlanDeleted,
		zap.String("plan_id", id),
		zap.String("plan_name", plan.Name),
	)
	return nil
}

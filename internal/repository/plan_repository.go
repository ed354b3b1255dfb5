package repository

import (
	"context"
	"strings"

	"gymflow/internal/models"
	"gymflow/internal/store"
)

type PlanRepository interface {
	Create(ctx context.Context, plan *models.Plan) (*models.Plan, error)
	GetByID(ctx context.Context, id, tenantID string) (*models.Plan, error)
	// GetByName matches names case-insensitively.
	GetByName(ctx context.Context, name, tenantID string) (*models.Plan, error)
	List(ctx context.Context, filter store.Filter, tenantID string) ([]models.Plan, error)
	Update(ctx context.Context, id string, patch store.Document, tenantID string) (*models.Plan, error)
	Delete(ctx context.Context, id, tenantID string) error
}

type planRepository struct {
	plans *collection[models.Plan]
}

func NewPlanRepository(s store.Store) PlanRepository {
	return &planRepository{plans: newCollection[models.Plan](s, store.Plans, true)}
}

func (r *planRepository) Create(ctx context.Context, plan *models.Plan) (*models.Plan, error) {
	return r.plans.create(ctx, plan)
}

func (r *planRepository) GetByID(ctx context.Context, id, tenantID string) (*models.Plan, error) {
	return r.plans.get(ctx, id, tenantID)
}

func (r *planRepository) GetByName(ctx context.Context, name, tenantID string) (*models.Plan, error) {
	plans, err := r.plans.find(ctx, nil, tenantID)
	if err != nil {
		return nil, err
	}
	for i := range plans {
		if strings.EqualFold(plans[i].Name, name) {
			return &plans[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (r *planRepository) List(ctx context.Context, filter store.Filter, tenantID string) ([]models.Plan, error) {
	return r.plans.find(ctx, filter, tenantID)
}

func (r *planRepository) Update(ctx context.Context, id string, patch store.Document, tenantID string) (*models.Plan, error) {
	return r.plans.update(ctx, id, patch, tenantID)
}

func (r *planRepository) Delete(ctx context.Context, id, tenantID string) error {
	return r.plans.delete(ctx, id, tenantID)
}

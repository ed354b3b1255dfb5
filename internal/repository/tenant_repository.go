package repository

import (
	"context"

	"gymflow/internal/models"
	"gymflow/internal/store"
)

type TenantRepository interface {
	Create(ctx context.Context, tenant *models.Tenant) (*models.Tenant, error)
	GetByID(ctx context.Context, id string) (*models.Tenant, error)
	GetAll(ctx context.Context) ([]models.Tenant, error)
	Update(ctx context.Context, id string, patch store.Document) (*models.Tenant, error)
	Delete(ctx context.Context, id string) error
}

type tenantRepository struct {
	tenants *collection[models.Tenant]
}

func NewTenantRepository(s store.Store) TenantRepository {
	return &tenantRepository{tenants: newCollection[models.Tenant](s, store.Tenants, false)}
}

func (r *tenantRepository) Create(ctx context.Context, tenant *models.Tenant) (*models.Tenant, error) {
	return r.tenants.create(ctx, tenant)
}

func (r *tenantRepository) GetByID(ctx context.Context, id string) (*models.Tenant, error) {
	return r.tenants.get(ctx, id, "")
}

func (r *tenantRepository) GetAll(ctx context.Context) ([]models.Tenant, error) {
	return r.tenants.find(ctx, nil, "")
}

func (r *tenantRepository) Update(ctx context.Context, id string, patch store.Document) (*models.Tenant, error) {
	return r.tenants.update(ctx, id, patch, "")
}

func (r *tenantRepository) Delete(ctx context.Context, id string) error {
	return r.tenants.delete(ctx, id, "")
}

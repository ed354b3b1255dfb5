package repository

import (
	"context"

	"gymflow/internal/models"
	"gymflow/internal/store"
)

type MemberRepository interface {
	Create(ctx context.Context, member *models.Member) (*models.Member, error)
	GetByID(ctx context.Context, id, tenantID string) (*models.Member, error)
	GetByEmail(ctx context.Context, email, tenantID string) (*models.Member, error)
	List(ctx context.Context, filter store.Filter, tenantID string) ([]models.Member, error)
	Update(ctx context.Context, id string, patch store.Document, tenantID string) (*models.Member, error)
	Delete(ctx context.Context, id, tenantID string) error
	CountByPlan(ctx context.Context, planID, tenantID string) (int, error)
}

type memberRepository struct {
	members *collection[models.Member]
}

func NewMemberRepository(s store.Store) MemberRepository {
	return &memberRepository{members: newCollection[models.Member](s, store.Members, true)}
}

func (r *memberRepository) Create(ctx context.Context, member *models.Member) (*models.Member, error) {
	return r.members.create(ctx, member)
}

func (r *memberRepository) GetByID(ctx context.Context, id, tenantID string) (*models.Member, error) {
	return r.members.get(ctx, id, tenantID)
}

func (r *memberRepository) GetByEmail(ctx context.Context, email, tenantID string) (*models.Member, error) {
	return r.members.first(ctx, store.Filter{"email": email}, tenantID)
}

func (r *memberRepository) List(ctx context.Context, filter store.Filter, tenantID string) ([]models.Member, error) {
	return r.members.find(ctx, filter, tenantID)
}

func (r *memberRepository) Update(ctx context.Context, id string, patch store.Document, tenantID string) (*models.Member, error) {
	return r.members.update(ctx, id, patch, tenantID)
}

func (r *memberRepository) Delete(ctx context.Context, id, tenantID string) error {
	return r.members.delete(ctx, id, tenantID)
}

func (r *memberRepository) CountByPlan(ctx context.Context, planID, tenantID string) (int, error) {
	members, err := r.members.find(ctx, store.Filter{"planId": planID}, tenantID)
	if err != nil {
		return 0, err
	}
	return len(members), nil
}

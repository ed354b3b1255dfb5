package repository

import (
	"context"

	"gymflow/internal/models"
	"gymflow/internal/store"
)

type TrainerRepository interface {
	Create(ctx context.Context, trainer *models.Trainer) (*models.Trainer, error)
	GetByID(ctx context.Context, id, tenantID string) (*models.Trainer, error)
	GetByEmail(ctx context.Context, email, tenantID string) (*models.Trainer, error)
	List(ctx context.Context, filter store.Filter, tenantID string) ([]models.Trainer, error)
	Update(ctx context.Context, id string, patch store.Document, tenantID string) (*models.Trainer, error)
	Delete(ctx context.Context, id, tenantID string) error
}

type trainerRepository struct {
	trainers *collection[models.Trainer]
}

func NewTrainerRepository(s store.Store) TrainerRepository {
	return &trainerRepository{trainers: newCollection[models.Trainer](s, store.Trainers, true)}
}

func (r *trainerRepository) Create(ctx context.Context, trainer *models.Trainer) (*models.Trainer, error) {
	return r.trainers.create(ctx, trainer)
}

func (r *trainerRepository) GetByID(ctx context.Context, id, tenantID string) (*models.Trainer, error) {
	return r.trainers.get(ctx, id, tenantID)
}

func (r *trainerRepository) GetByEmail(ctx context.Context, email, tenantID string) (*models.Trainer, error) {
	return r.trainers.first(ctx, store.Filter{"email": email}, tenantID)
}

func (r *trainerRepository) List(ctx context.Context, filter store.Filter, tenantID string) ([]models.Trainer, error) {
	return r.trainers.find(ctx, filter, tenantID)
}

func (r *trainerRepository) Update(ctx context.Context, id string, patch store.Document, tenantID string) (*models.Trainer, error) {
	return r.trainers.update(ctx, id, patch, tenantID)
}

func (r *trainerRepository) Delete(ctx context.Context, id, tenantID string) error {
	return r.trainers.delete(ctx, id, tenantID)
}

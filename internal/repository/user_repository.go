package repository

import (
	"context"
	"strings"

	"gymflow/internal/models"
	"gymflow/internal/store"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByEmail looks users up globally; emails are stored lowercased.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetAll(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, id string, patch store.Document) (*models.User, error)
}

type userRepository struct {
	users *collection[models.User]
}

func NewUserRepository(s store.Store) UserRepository {
	return &userRepository{users: newCollection[models.User](s, store.Users, false)}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	return r.users.create(ctx, user)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.users.get(ctx, id, "")
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.users.first(ctx, store.Filter{"email": strings.ToLower(strings.TrimSpace(email))}, "")
}

func (r *userRepository) GetAll(ctx context.Context) ([]models.User, error) {
	return r.users.find(ctx, nil, "")
}

func (r *userRepository) Update(ctx context.Context, id string, patch store.Document) (*models.User, error) {
	return r.users.update(ctx, id, patch, "")
}

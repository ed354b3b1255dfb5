package services

import (
	"context"
	"sort"
	"strings"

	"gymflow/internal/audit"
	"gymflow/internal/auth"
	"gymflow/internal/models"
	"gymflow/internal/reporting"
	"gymflow/internal/repository"
	"gymflow/internal/store"

	"go.uber.org/zap"
)

type TrainerInput struct {
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone"`
	Specialization string   `json:"specialization"`
	Experience     int      `json:"experience"`
	HourlyRate     *float64 `json:"hourlyRate"`
	Bio            string   `json:"bio"`
}

// TrainerPatch has no totalSessions field; session counts are not
// writable through the API.
type TrainerPatch struct {
	Name           *string  `json:"name"`
	Email          *string  `json:"email"`
	Phone          *string  `json:"phone"`
	Specialization *string  `json:"specialization"`
	Experience     *int     `json:"experience"`
	HourlyRate     *float64 `json:"hourlyRate"`
	Bio            *string  `json:"bio"`
	Rating         *float64 `json:"rating"`
	IsActive       *bool    `json:"isActive"`
}

type TrainerFilter struct {
	Specialization string
	IsActive       *bool
}

type TrainerService interface {
	List(ctx context.Context, tenantID string) ([]models.Trainer, error)
	Search(ctx context.Context, tenantID, query string, filter TrainerFilter) ([]models.Trainer, error)
	Stats(ctx context.Context, tenantID string) (reporting.TrainerStats, error)
	Get(ctx context.Context, tenantID, id string) (*models.Trainer, error)
	Create(ctx context.Context, tenantID string, input TrainerInput) (*models.Trainer, error)
	Update(ctx context.Context, tenantID, id string, patch TrainerPatch) (*models.Trainer, error)
	Delete(ctx context.Context, tenantID, id string) error
}

type trainerService struct {
	trainers repository.TrainerRepository
	audit    *audit.Logger
}

func NewTrainerService(trainers repository.TrainerRepository, auditLog *audit.Logger) TrainerService {
	return &trainerService{trainers: trainers, audit: auditLog}
}

func (s *trainerService) List(ctx context.Context, tenantID string) ([]models.Trainer, error) {
	trainers, err := s.trainers.List(ctx, nil, tenantID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(trainers, func(i, j int) bool {
		return trainers[i].CreatedAt.After(trainers[j].CreatedAt)
	})
	return trainers, nil
}

// Search ranks matches by rating, best first, then by name.
func (s *trainerService) Search(ctx context.Context, tenantID, query string, filter TrainerFilter) ([]models.Trainer, error) {
	storeFilter := store.Filter{}
	if filter.Specialization != "" {
		storeFilter["specialization"] = filter.Specialization
	}
	if filter.IsActive != nil {
		storeFilter["isActive"] = *filter.IsActive
	}
	trainers, err := s.trainers.List(ctx, storeFilter, tenantID)
	if err != nil {
		return nil, err
	}

	term := strings.ToLower(strings.TrimSpace(query))
	matched := make([]models.Trainer, 0, len(trainers))
	for _, t := range trainers {
		if term == "" ||
			strings.Contains(strings.ToLower(t.Name), term) ||
			strings.Contains(strings.ToLower(t.Email), term) ||
			strings.Contains(strings.ToLower(t.Phone), term) ||
			strings.Contains(strings.ToLower(t.Specialization), term) {
			matched = append(matched, t)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Rating != matched[j].Rating {
			return matched[i].Rating > matched[j].Rating
		}
		return matched[i].Name < matched[j].Name
	})
	return matched, nil
}

func (s *trainerService) Stats(ctx context.Context, tenantID string) (reporting.TrainerStats, error) {
	trainers, err := s.trainers.List(ctx, nil, tenantID)
	if err != nil {
		return reporting.TrainerStats{}, err
	}
	return reporting.TrainerStatistics(trainers), nil
}

func (s *trainerService) Get(ctx context.Context, tenantID, id string) (*models.Trainer, error) {
	trainer, err := s.trainers.GetByID(ctx, id, tenantID)
	if err != nil {
		return nil, notFoundAs(err, ErrTrainerNotFound)
	}
	return trainer, nil
}

func (s *trainerService) Create(ctx context.Context, tenantID string, input TrainerInput) (*models.Trainer, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	phone := strings.TrimSpace(input.Phone)
	specialization := strings.TrimSpace(input.Specialization)
	if name == "" || email == "" || phone == "" || specialization == "" {
		return nil, required("Name, email, phone, and specialization are required", "name", "email", "phone", "specialization")
	}
	if !auth.ValidateEmail(email) {
		return nil, ErrInvalidEmail
	}
	rate := 0.0
	if input.HourlyRate != nil {
		rate = *input.HourlyRate
	}
	if rate < 0 {
		return nil, ErrInvalidRate
	}

	if _, err := s.trainers.GetByEmail(ctx, email, tenantID); err == nil {
		return nil, ErrTrainerExists
	} else if !isNotFound(err) {
		return nil, err
	}

	return s.trainers.Create(ctx, &models.Trainer{
		Base:           models.Base{TenantID: tenantID},
		Name:           name,
		Email:          email,
		Phone:          phone,
		Specialization: specialization,
		Experience:     input.Experience,
		HourlyRate:     rate,
		Bio:            strings.TrimSpace(input.Bio),
		IsActive:       true,
	})
}

func (s *trainerService) Update(ctx context.Context, tenantID, id string, patch TrainerPatch) (*models.Trainer, error) {
	existing, err := s.trainers.GetByID(ctx, id, tenantID)
	if err != nil {
		return nil, notFoundAs(err, ErrTrainerNotFound)
	}

	doc := store.Document{}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, required("Name cannot be empty", "name")
		}
		doc["name"] = name
	}
	if patch.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*patch.Email))
		if !auth.ValidateEmail(email) {
			return nil, ErrInvalidEmail
		}
		if email != existing.Email {
			other, err := s.trainers.GetByEmail(ctx, email, tenantID)
			if err == nil && other.ID != id {
				return nil, ErrTrainerEmailExists
			}
			if err != nil && !isNotFound(err) {
				return nil, err
			}
		}
		doc["email"] = email
	}
	if patch.Phone != nil {
		doc["phone"] = strings.TrimSpace(*patch.Phone)
	}
	if patch.Specialization != nil {
		doc["specialization"] = strings.TrimSpace(*patch.Specialization)
	}
	if patch.Experience != nil {
		doc["experience"] = *patch.Experience
	}
	if patch.HourlyRate != nil {
		if *patch.HourlyRate < 0 {
			return nil, ErrInvalidRate
		}
		doc["hourlyRate"] = *patch.HourlyRate
	}
	if patch.Bio != nil {
		doc["bio"] = strings.TrimSpace(*patch.Bio)
	}
	if patch.Rating != nil {
		doc["rating"] = *patch.Rating
	}
	if patch.IsActive != nil {
		doc["isActive"] = *patch.IsActive
	}

	trainer, err := s.trainers.Update(ctx, id, doc, tenantID)
	if err != nil {
		return nil, notFoundAs(err, ErrTrainerNotFound)
	}
	return trainer, nil
}

func (s *trainerService) Delete(ctx context.Context, tenantID, id string) error {
	existing, err := s.trainers.GetByID(ctx, id, tenantID)
	if err != nil {
		return notFoundAs(err, ErrTrainerNotFound)
	}
	if err := s.trainers.Delete(ctx, id, tenantID); err != nil {
		return notFoundAs(err, ErrTrainerNotFound)
	}
	s.audit.Record(ctx, audit.TrainerDeleted,
		zap.String("trainer_id", id),
		zap.String("trainer_name", existing.Name),
	)
	return nil
}

package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"gymflow/internal/audit"
	"gymflow/internal/auth"
	"gymflow/internal/models"
	"gymflow/internal/repository"
	"gymflow/internal/store"

	"go.uber.org/zap"
)

const joinDateLayout = "2006-01-02"

type MemberInput struct {
	Name             string              `json:"name"`
	Email            string              `json:"email"`
	Phone            string              `json:"phone"`
	PlanID           *string             `json:"planId"`
	Status           models.MemberStatus `json:"status"`
	JoinDate         string              `json:"joinDate"`
	EmergencyContact string              `json:"emergencyContact"`
	Notes            string              `json:"notes"`
}

// MemberPatch carries the fields of a partial update. Nil fields are left
// alone; an empty planId clears the plan.
type MemberPatch struct {
	Name             *string `json:"name"`
	Email            *string `json:"email"`
	Phone            *string `json:"phone"`
	PlanID           *string `json:"planId"`
	Status           *string `json:"status"`
	JoinDate         *string `json:"joinDate"`
	EmergencyContact *string `json:"emergencyContact"`
	Notes            *string `json:"notes"`
}

type MemberFilter struct {
	Status string
	PlanID string
}

func (f MemberFilter) storeFilter() store.Filter {
	filter := store.Filter{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.PlanID != "" {
		filter["planId"] = f.PlanID
	}
	return filter
}

type MemberService interface {
	List(ctx context.Context, tenantID string, filter MemberFilter) ([]models.Member, error)
	Search(ctx context.Context, tenantID, query string, filter MemberFilter) ([]models.Member, error)
	Get(ctx context.Context, tenantID, id string) (*models.Member, error)
	Create(ctx context.Context, tenantID string, input MemberInput) (*models.Member, error)
	Update(ctx context.Context, tenantID, id string, patch MemberPatch) (*models.Member, error)
	Delete(ctx context.Context, tenantID, id string) error
}

type memberService struct {
	members repository.MemberRepository
	plans   repository.PlanRepository
	audit   *audit.Logger
	now     func() time.Time
}

func NewMemberService(members repository.MemberRepository, plans repository.PlanRepository, auditLog *audit.Logger) MemberService {
	return &memberService{members: members, plans: plans, audit: auditLog, now: time.Now}
}

func (s *memberService) List(ctx context.Context, tenantID string, filter MemberFilter) ([]models.Member, error) {
	members, err := s.members.List(ctx, filter.storeFilter(), tenantID)
	if err != nil {
		return nil, err
	}
	sortMembersNewestFirst(members)
	return members, nil
}

// Search narrows the exact-match filter with a case-insensitive substring
// match on name, email and phone. Exact name matches come first.
func (s *memberService) Search(ctx context.Context, tenantID, query string, filter MemberFilter) ([]models.Member, error) {
	members, err := s.members.List(ctx, filter.storeFilter(), tenantID)
	if err != nil {
		return nil, err
	}
	sortMembersNewestFirst(members)

	term := strings.ToLower(strings.TrimSpace(query))
	if term == "" {
		return members, nil
	}
	matched := make([]models.Member, 0, len(members))
	for _, m := range members {
		if strings.Contains(strings.ToLower(m.Name), term) ||
			strings.Contains(strings.ToLower(m.Email), term) ||
			strings.Contains(strings.ToLower(m.Phone), term) {
			matched = append(matched, m)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return strings.ToLower(matched[i].Name) == term && strings.ToLower(matched[j].Name) != term
	})
	return matched, nil
}

func (s *memberService) Get(ctx context.Context, tenantID, id string) (*models.Member, error) {
	member, err := s.members.GetByID(ctx, id, tenantID)
	if err != nil {
		return nil, notFoundAs(err, ErrMemberNotFound)
	}
	return member, nil
}

func (s *memberService) Create(ctx context.Context, tenantID string, input MemberInput) (*models.Member, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	phone := strings.TrimSpace(input.Phone)
	if name == "" || email == "" || phone == "" {
		return nil, required("Name, email, and phone are required", "name", "email", "phone")
	}
	if !auth.ValidateEmail(email) {
		return nil, ErrInvalidEmail
	}

	status := models.MemberActive
	if input.Status != "" {
		if !input.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		status = input.Status
	}

	if _, err := s.members.GetByEmail(ctx, email, tenantID); err == nil {
		return nil, ErrMemberExists
	} else if !isNotFound(err) {
		return nil, err
	}

	var planID *string
	if input.PlanID != nil && *input.PlanID != "" {
		if err := s.checkPlan(ctx, *input.PlanID, tenantID); err != nil {
			return nil, err
		}
		planID = input.PlanID
	}

	joinDate := strings.TrimSpace(input.JoinDate)
	if joinDate == "" {
		joinDate = s.now().UTC().Format(joinDateLayout)
	}

	member, err := s.members.Create(ctx, &models.Member{
		Base:             models.Base{TenantID: tenantID},
		Name:             name,
		Email:            email,
		Phone:            phone,
		PlanID:           planID,
		Status:           status,
		JoinDate:         joinDate,
		EmergencyContact: strings.TrimSpace(input.EmergencyContact),
		Notes:            input.Notes,
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.MemberCreated,
		zap.String("member_id", member.ID),
		zap.String("member_name", member.Name),
	)
	return member, nil
}

func (s *memberService) Update(ctx context.Context, tenantID, id string, patch MemberPatch) (*models.Member, error) {
	existing, err := s.members.GetByID(ctx, id, tenantID)
	if err != nil {
		return nil, notFoundAs(err, ErrMemberNotFound)
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
			other, err := s.members.GetByEmail(ctx, email, tenantID)
			if err == nil && other.ID != id {
				return nil, ErrMemberEmailExists
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
	if patch.PlanID != nil {
		if *patch.PlanID == "" {
			doc["planId"] = nil
		} else {
			if err := s.checkPlan(ctx, *patch.PlanID, tenantID); err != nil {
				return nil, err
			}
			doc["planId"] = *patch.PlanID
		}
	}
	if patch.Status != nil {
		status := models.MemberStatus(*patch.Status)
		if !status.Valid() {
			return nil, ErrInvalidStatus
		}
		doc["status"] = status
	}
	if patch.JoinDate != nil {
		doc["joinDate"] = strings.TrimSpace(*patch.JoinDate)
	}
	if patch.EmergencyContact != nil {
		doc["emergencyContact"] = strings.TrimSpace(*patch.EmergencyContact)
	}
	if patch.Notes != nil {
		doc["notes"] = *patch.Notes
	}

	member, err := s.members.Update(ctx, id, doc, tenantID)
	if err != nil {
		return nil, notFoundAs(err, ErrMemberNotFound)
	}
	return member, nil
}

func (s *memberService) Delete(ctx context.Context, tenantID, id string) error {
	existing, err := s.members.GetByID(ctx, id, tenantID)
	if err != nil {
		return notFoundAs(err, ErrMemberNotFound)
	}
	if err := s.members.Delete(ctx, id, tenantID); err != nil {
		return notFoundAs(err, ErrMemberNotFound)
	}
	s.audit.Record(ctx, audit.MemberDeleted,
		zap.String("member_id", id),
		zap.String("member_name", existing.Name),
	)
	return nil
}

func (s *memberService) checkPlan(ctx context.Context, planID, tenantID string) error {
	if _, err := s.plans.GetByID(ctx, planID, tenantID); err != nil {
		return notFoundAs(err, ErrInvalidPlan)
	}
	return nil
}

func sortMembersNewestFirst(members []models.Member) {
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].CreatedAt.After(members[j].CreatedAt)
	})
}

package services

import (
	"context"
	"time"

	"gymflow/internal/audit"
	"gymflow/internal/models"
	"gymflow/internal/reporting"
	"gymflow/internal/repository"
	"gymflow/internal/store"

	"go.uber.org/zap"
)

// TenantPatch is what a super admin may change on a tenant.
type TenantPatch struct {
	IsActive *bool   `json:"isActive"`
	Plan     *string `json:"plan"`
}

// AdminService reads across every tenant. Callers must have checked the
// super_admin role.
type AdminService interface {
	ListTenants(ctx context.Context) ([]models.Tenant, error)
	ListUsers(ctx context.Context) ([]models.UserProfile, error)
	Analytics(ctx context.Context) (reporting.PlatformData, error)
	UpdateTenant(ctx context.Context, id string, patch TenantPatch) (*models.Tenant, error)
}

type adminService struct {
	tenants repository.TenantRepository
	users   repository.UserRepository
	members repository.MemberRepository
	audit   *audit.Logger
	now     func() time.Time
}

func NewAdminService(
	tenants repository.TenantRepository,
	users repository.UserRepository,
	members repository.MemberRepository,
	auditLog *audit.Logger,
) AdminService {
	return &adminService{tenants: tenants, users: users, members: members, audit: auditLog, now: time.Now}
}

func (s *adminService) ListTenants(ctx context.Context) ([]models.Tenant, error) {
	return s.tenants.GetAll(ctx)
}

func (s *adminService) ListUsers(ctx context.Context) ([]models.UserProfile, error) {
	users, err := s.users.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	profiles := make([]models.UserProfile, 0, len(users))
	for i := range users {
		profiles = append(profiles, users[i].Profile())
	}
	return profiles, nil
}

func (s *adminService) Analytics(ctx context.Context) (reporting.PlatformData, error) {
	tenants, err := s.tenants.GetAll(ctx)
	if err != nil {
		return reporting.PlatformData{}, err
	}
	users, err := s.users.GetAll(ctx)
	if err != nil {
		return reporting.PlatformData{}, err
	}
	// An empty tenant id lists members of every tenant.
	members, err := s.members.List(ctx, nil, "")
	if err != nil {
		return reporting.PlatformData{}, err
	}
	return reporting.PlatformAnalytics(tenants, users, members, s.now().UTC()), nil
}

func (s *adminService) UpdateTenant(ctx context.Context, id string, patch TenantPatch) (*models.Tenant, error) {
	existing, err := s.tenants.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrTenantNotFound)
	}

	doc := store.Document{}
	if patch.IsActive != nil {
		doc["isActive"] = *patch.IsActive
	}
	if patch.Plan != nil {
		plan := models.TenantPlan(*patch.Plan)
		if !plan.Valid() {
			return nil, ErrInvalidTenantPlan
		}
		settings := existing.Settings
		settings.Features = plan.Features()
		doc["plan"] = plan
		doc["settings"] = settings
	}
	if len(doc) == 0 {
		return nil, required("Nothing to update", "isActive", "plan")
	}

	tenant, err := s.tenants.Update(ctx, id, doc)
	if err != nil {
		return nil, notFoundAs(err, ErrTenantNotFound)
	}
	s.audit.Record(ctx, audit.TenantUpdated,
		zap.String("tenant_id", id),
		zap.Strings("fields", fieldNames(doc)),
	)
	return tenant, nil
}

func fieldNames(doc store.Document) []string {
	names := make([]string, 0, len(doc))
	for _, key := range []string{"isActive", "plan", "settings"} {
		if _, ok := doc[key]; ok {
			names = append(names, key)
		}
	}
	return names
}

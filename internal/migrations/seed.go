package migrations

import (
	"context"
	"errors"
	"fmt"

	"gymflow/internal/auth"
	"gymflow/internal/models"
	"gymflow/internal/repository"
	"gymflow/internal/store"

	"go.uber.org/zap"
)

const (
	DemoEmail  = "demo@gymflow.com"
	AdminEmail = "admin@gymflow.com"
)

// Repositories groups the repositories seeding writes to.
type Repositories struct {
	Users    repository.UserRepository
	Tenants  repository.TenantRepository
	Members  repository.MemberRepository
	Plans    repository.PlanRepository
	Trainers repository.TrainerRepository
}

func NewRepositories(st store.Store) Repositories {
	return Repositories{
		Users:    repository.NewUserRepository(st),
		Tenants:  repository.NewTenantRepository(st),
		Members:  repository.NewMemberRepository(st),
		Plans:    repository.NewPlanRepository(st),
		Trainers: repository.NewTrainerRepository(st),
	}
}

type seedPlan struct {
	key  string
	plan models.Plan
}

type seedMember struct {
	member  models.Member
	planKey string
}

type seedTenant struct {
	tenant   models.Tenant
	plans    []seedPlan
	members  []seedMember
	trainers []models.Trainer
}

func demoTenants() []seedTenant {
	return []seedTenant{
		{
			tenant: models.Tenant{
				Base:       models.Base{ID: "fitnesshub"},
				Name:       "FitnessHub",
				OwnerEmail: DemoEmail,
				Plan:       models.TenantPlanPremium,
				IsActive:   true,
			},
			plans: []seedPlan{
				{"basic", models.Plan{Name: "Basic Monthly", Price: 29.99, Duration: models.Monthly,
					Features: []string{"Gym access", "Locker room"}, Description: "Access to the main floor", IsActive: true}},
				{"premium", models.Plan{Name: "Premium Monthly", Price: 59.99, Duration: models.Monthly,
					Features: []string{"Gym access", "Group classes", "Sauna"}, Description: "Everything plus classes", IsActive: true}},
				{"annual", models.Plan{Name: "Annual Unlimited", Price: 499, Duration: models.Yearly,
					Features: []string{"Gym access", "Group classes", "Personal training session"}, Description: "Best value", IsActive: true}},
			},
			members: []seedMember{
				{models.Member{Name: "John Smith", Email: "john.smith@example.com", Phone: "+1-555-0101",
					Status: models.MemberActive, JoinDate: "2024-01-15", EmergencyContact: "Jane Smith +1-555-0199"}, "premium"},
				{models.Member{Name: "Sarah Johnson", Email: "sarah.j@example.com", Phone: "+1-555-0102",
					Status: models.MemberActive, JoinDate: "2024-02-03"}, "basic"},
				{models.Member{Name: "Mike Davis", Email: "mike.davis@example.com", Phone: "+1-555-0103",
					Status: models.MemberActive, JoinDate: "2024-02-20", Notes: "Training for a marathon"}, "annual"},
				{models.Member{Name: "Emily Brown", Email: "emily.b@example.com", Phone: "+1-555-0104",
					Status: models.MemberInactive, JoinDate: "2023-11-08"}, "basic"},
				{models.Member{Name: "Chris Wilson", Email: "chris.w@example.com", Phone: "+1-555-0105",
					Status: models.MemberSuspended, JoinDate: "2023-09-12"}, ""},
			},
			trainers: []models.Trainer{
				{Name: "Alex Rodriguez", Email: "alex.r@fitnesshub.com", Phone: "+1-555-0201", Specialization: "Strength Training",
					Experience: 8, HourlyRate: 75, Bio: "Certified strength and conditioning coach", Rating: 4.8, TotalSessions: 320, IsActive: true},
				{Name: "Maria Garcia", Email: "maria.g@fitnesshub.com", Phone: "+1-555-0202", Specialization: "Yoga",
					Experience: 5, HourlyRate: 60, Bio: "Vinyasa and restorative yoga", Rating: 4.9, TotalSessions: 210, IsActive: true},
				{Name: "David Kim", Email: "david.k@fitnesshub.com", Phone: "+1-555-0203", Specialization: "HIIT",
					Experience: 3, HourlyRate: 55, Rating: 4.5, TotalSessions: 95, IsActive: false},
			},
		},
		{
			tenant: models.Tenant{
				Base:       models.Base{ID: "powerhouse"},
				Name:       "PowerHouse Gym",
				OwnerEmail: "owner@powerhouse.com",
				Plan:       models.TenantPlanBasic,
				IsActive:   true,
			},
			plans: []seedPlan{
				{"standard", models.Plan{Name: "Standard", Price: 39.99, Duration: models.Monthly,
					Features: []string{"Gym access"}, IsActive: true}},
				{"quarter", models.Plan{Name: "Quarterly Power", Price: 99.99, Duration: models.Quarterly,
					Features: []string{"Gym access", "Nutrition plan"}, IsActive: true}},
			},
			members: []seedMember{
				{models.Member{Name: "Tom Baker", Email: "tom.baker@example.com", Phone: "+1-555-0301",
					Status: models.MemberActive, JoinDate: "2024-03-01"}, "standard"},
				{models.Member{Name: "Lisa Chen", Email: "lisa.chen@example.com", Phone: "+1-555-0302",
					Status: models.MemberExpired, JoinDate: "2023-06-15"}, "quarter"},
			},
			trainers: []models.Trainer{
				{Name: "Marcus Lee", Email: "marcus@powerhouse.com", Phone: "+1-555-0401", Specialization: "Powerlifting",
					Experience: 10, HourlyRate: 80, Rating: 4.7, TotalSessions: 410, IsActive: true},
			},
		},
	}
}

// SeedDemoData creates the demo tenants, their owners and sample records.
// It does nothing when the demo user already exists.
func SeedDemoData(ctx context.Context, repos Repositories, hasher auth.PasswordHasher, log *zap.Logger) error {
	_, err := repos.Users.GetByEmail(ctx, DemoEmail)
	if err == nil {
		log.Info("Demo data already present, skipping seed")
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("check demo user: %w", err)
	}

	log.Info("Seeding demo data...")
	for _, t := range demoTenants() {
		err := seedTenantData(ctx, repos, t)
		if errors.Is(err, store.ErrAlreadyExists) {
			log.Info("Demo tenant already present, skipping", zap.String("tenant_id", t.tenant.ID))
			continue
		}
		if err != nil {
			return fmt.Errorf("seed tenant %s: %w", t.tenant.ID, err)
		}
		log.Info("Seeded tenant", zap.String("tenant_id", t.tenant.ID),
			zap.Int("plans", len(t.plans)),
			zap.Int("members", len(t.members)),
			zap.Int("trainers", len(t.trainers)),
		)
	}

	users := []struct {
		user     models.User
		password string
	}{
		{models.User{Base: models.Base{TenantID: "fitnesshub"}, Email: DemoEmail, FirstName: "Demo", LastName: "Owner",
			Role: models.GymOwner, GymName: "FitnessHub", IsActive: true}, "demo123"},
		{models.User{Email: AdminEmail, FirstName: "Platform", LastName: "Admin",
			Role: models.SuperAdmin, IsActive: true}, "admin123"},
	}
	for _, u := range users {
		hash, err := hasher.Hash(u.password)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", u.user.Email, err)
		}
		user := u.user
		user.PasswordHash = hash
		if _, err := repos.Users.Create(ctx, &user); err != nil {
			return fmt.Errorf("create user %s: %w", user.Email, err)
		}
	}

	log.Info("Demo data seeded",
		zap.String("demo_user", DemoEmail),
		zap.String("admin_user", AdminEmail),
	)
	return nil
}

func seedTenantData(ctx context.Context, repos Repositories, t seedTenant) error {
	tenant := t.tenant
	tenant.Settings = models.TenantSettings{Timezone: "UTC", Currency: "USD", Features: tenant.Plan.Features()}
	if _, err := repos.Tenants.Create(ctx, &tenant); err != nil {
		return err
	}

	planIDs := make(map[string]string, len(t.plans))
	for _, p := range t.plans {
		plan := p.plan
		plan.TenantID = tenant.ID
		created, err := repos.Plans.Create(ctx, &plan)
		if err != nil {
			return err
		}
		planIDs[p.key] = created.ID
	}

	for _, m := range t.members {
		member := m.member
		member.TenantID = tenant.ID
		if id, ok := planIDs[m.planKey]; ok {
			member.PlanID = &id
		}
		if _, err := repos.Members.Create(ctx, &member); err != nil {
			return err
		}
	}

	for _, tr := range t.trainers {
		trainer := tr
		trainer.TenantID = tenant.ID
		if _, err := repos.Trainers.Create(ctx, &trainer); err != nil {
			return err
		}
	}
	return nil
}

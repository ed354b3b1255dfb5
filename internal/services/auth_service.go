package services

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"gymflow/internal/apperr"
	"gymflow/internal/audit"
	"gymflow/internal/auth"
	"gymflow/internal/logger"
	"gymflow/internal/metrics"
	"gymflow/internal/models"
	"gymflow/internal/repository"
	"gymflow/internal/session"
	"gymflow/internal/store"

	"go.uber.org/zap"
)

const (
	bruteForceThreshold = 5
	bruteForceWindow    = 15 * time.Minute
	tenantSlugMaxLength = 20
	defaultTenantSlug   = "gym"
)

type LoginInput struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

type SignupInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	GymName   string `json:"gymName"`
	Phone     string `json:"phone"`
	PlanType  string `json:"planType"`
}

// AuthResult is returned by a successful login or signup.
type AuthResult struct {
	Token   string             `json:"token"`
	Session *auth.Session      `json:"session"`
	User    models.UserProfile `json:"user"`
	Tenant  *models.Tenant     `json:"tenant"`
}

type AuthService interface {
	Login(ctx context.Context, input LoginInput) (*AuthResult, error)
	Signup(ctx context.Context, input SignupInput) (*AuthResult, error)
	Verify(ctx context.Context, claims *auth.Claims) (*models.UserProfile, error)
	Logout(ctx context.Context, claims *auth.Claims, sessionID string) error
	GetSession(ctx context.Context, claims *auth.Claims, sessionID string) (*auth.Session, error)
	ForgotPassword(ctx context.Context, email string) error
}

type authService struct {
	users    repository.UserRepository
	tenants  repository.TenantRepository
	hasher   auth.PasswordHasher
	tokens   *auth.TokenManager
	sessions session.Cache
	audit    *audit.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewAuthService(
	users repository.UserRepository,
	tenants repository.TenantRepository,
	hasher auth.PasswordHasher,
	tokens *auth.TokenManager,
	sessions session.Cache,
	auditLog *audit.Logger,
	m *metrics.Metrics,
) AuthService {
	return &authService{
		users:    users,
		tenants:  tenants,
		hasher:   hasher,
		tokens:   tokens,
		sessions: sessions,
		audit:    auditLog,
		metrics:  m,
		now:      time.Now,
	}
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		s.audit.Record(ctx, audit.LoginFailed, zap.String("reason", "missing_credentials"))
		return nil, required("Email and password are required", "email", "password")
	}
	if !auth.ValidateEmail(email) {
		s.audit.Record(ctx, audit.LoginFailed, zap.String("reason", "invalid_email"))
		return nil, ErrInvalidEmail
	}

	user, err := s.users.GetByEmail(ctx, email)
	if isNotFound(err) {
		// Keep the unknown-email path as slow as a wrong password.
		s.hasher.Burn(input.Password)
		s.loginFailed(ctx, email, "user_not_found")
		return nil, apperr.ErrAuthFailed
	}
	if err != nil {
		return nil, err
	}
	if !s.hasher.Verify(input.Password, user.PasswordHash) {
		s.loginFailed(ctx, email, "invalid_password", zap.String("user_id", user.ID))
		return nil, apperr.ErrAuthFailed
	}
	if !user.IsActive {
		s.audit.Record(ctx, audit.LoginInactive, zap.String("user_id", user.ID))
		s.metrics.RecordLogin("inactive")
		return nil, ErrAccountInactive
	}

	var tenant *models.Tenant
	if user.TenantID != "" {
		tenant, err = s.tenants.GetByID(ctx, user.TenantID)
		if err != nil && !isNotFound(err) {
			return nil, err
		}
	}
	gymName := ""
	if tenant != nil {
		gymName = tenant.Name
	}

	result, err := s.issue(ctx, user, tenant, gymName, input.RememberMe)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if _, err := s.users.Update(ctx, user.ID, store.Document{"lastLogin": now, "lastActivity": now}); err != nil {
		logger.FromContext(ctx).Warn("Failed to record last login", zap.String("user_id", user.ID), zap.Error(err))
	} else {
		result.User.LastLogin = &now
	}
	if err := s.sessions.ResetFailures(ctx, failureKey(email)); err != nil {
		logger.FromContext(ctx).Warn("Failed to reset login failures", zap.Error(err))
	}

	s.audit.Record(ctx, audit.LoginSuccess,
		zap.String("user_id", user.ID),
		zap.String("role", string(user.Role)),
		zap.String("tenant_id", user.TenantID),
	)
	s.metrics.RecordLogin("success")
	return result, nil
}

func (s *authService) loginFailed(ctx context.Context, email, reason string, fields ...zap.Field) {
	s.metrics.RecordLogin("failed")
	s.audit.Record(ctx, audit.LoginFailed, append([]zap.Field{zap.String("reason", reason)}, fields...)...)

	count, err := s.sessions.RecordFailure(ctx, failureKey(email), bruteForceWindow)
	if err != nil {
		logger.FromContext(ctx).Warn("Failed to count login failure", zap.Error(err))
		return
	}
	if count > bruteForceThreshold {
		s.audit.Record(ctx, audit.PotentialBruteForce,
			zap.String("email", email),
			zap.Int64("failures", count),
			zap.Duration("window", bruteForceWindow),
		)
	}
}

func failureKey(email string) string {
	return "email:" + email
}

func (s *authService) Signup(ctx context.Context, input SignupInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	gymName := strings.TrimSpace(input.GymName)
	if email == "" || input.Password == "" || firstName == "" || lastName == "" || gymName == "" {
		return nil, required("All required fields must be provided", "email", "password", "firstName", "lastName", "gymName")
	}
	if !auth.ValidateEmail(email) {
		return nil, ErrInvalidEmail
	}
	if strength := auth.ValidatePasswordStrength(input.Password); !strength.IsValid {
		return nil, ErrWeakPassword.With("requirements", strength.Requirements)
	}

	plan := models.TenantPlanBasic
	if input.PlanType != "" {
		plan = models.TenantPlan(strings.ToLower(input.PlanType))
		if !plan.Valid() {
			return nil, ErrInvalidTenantPlan
		}
	}

	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return nil, ErrEmailExists
	}
	if !isNotFound(err) {
		return nil, err
	}

	now := s.now().UTC()
	tenantID := TenantSlug(gymName, now)
	_, err = s.tenants.GetByID(ctx, tenantID)
	if err == nil {
		return nil, ErrTenantExists
	}
	if !isNotFound(err) {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, apperr.Internal("PASSWORD_ERROR", "Failed to process password", err)
	}

	tenant, err := s.tenants.Create(ctx, &models.Tenant{
		Base:       models.Base{ID: tenantID},
		Name:       gymName,
		OwnerEmail: email,
		Plan:       plan,
		IsActive:   true,
		Settings: models.TenantSettings{
			Timezone: "UTC",
			Currency: "USD",
			Features: plan.Features(),
		},
	})
	if err != nil {
		return nil, apperr.Internal("TENANT_ERROR", "Failed to create gym account", err)
	}

	user, err := s.users.Create(ctx, &models.User{
		Base:         models.Base{TenantID: tenantID},
		Email:        email,
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     lastName,
		Phone:        strings.TrimSpace(input.Phone),
		Role:         models.GymOwner,
		GymName:      gymName,
		IsActive:     true,
		LastActivity: &now,
	})
	if err != nil {
		if rbErr := s.tenants.Delete(ctx, tenantID); rbErr != nil {
			logger.FromContext(ctx).Error("Failed to roll back tenant", zap.String("tenant_id", tenantID), zap.Error(rbErr))
		}
		return nil, apperr.Internal("USER_ERROR", "Failed to create user account", err)
	}

	result, err := s.issue(ctx, user, tenant, gymName, false)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.SignupSuccess,
		zap.String("user_id", user.ID),
		zap.String("tenant_id", tenantID),
		zap.String("gym_name", gymName),
	)
	s.metrics.RecordSignup()
	return result, nil
}

// issue signs a token for user and stores a fresh session for it.
func (s *authService) issue(ctx context.Context, user *models.User, tenant *models.Tenant, gymName string, rememberMe bool) (*AuthResult, error) {
	token, err := s.tokens.Issue(auth.ClaimsFor(user))
	if err != nil {
		return nil, apperr.Internal("TOKEN_ERROR", "Failed to generate authentication token", err)
	}
	sess, err := auth.NewSession(user, user.TenantID, gymName, s.tokens.TTL(), rememberMe, s.now().UTC())
	if err != nil {
		return nil, apperr.Internal("SESSION_ERROR", "Failed to create session", err)
	}
	if err := s.sessions.Save(ctx, sess, s.tokens.TTL()); err != nil {
		logger.FromContext(ctx).Warn("Failed to store session", zap.String("user_id", user.ID), zap.Error(err))
	}

	profile := user.Profile()
	profile.GymName = sess.GymName
	return &AuthResult{Token: token, Session: sess, User: profile, Tenant: tenant}, nil
}

func (s *authService) Verify(ctx context.Context, claims *auth.Claims) (*models.UserProfile, error) {
	user, err := s.users.GetByID(ctx, claims.UserID())
	if isNotFound(err) {
		return nil, apperr.ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	now := s.now().UTC()
	if _, err := s.users.Update(ctx, user.ID, store.Document{"lastActivity": now}); err != nil {
		logger.FromContext(ctx).Warn("Failed to record activity", zap.String("user_id", user.ID), zap.Error(err))
	}
	profile := user.Profile()
	return &profile, nil
}

func (s *authService) Logout(ctx context.Context, claims *auth.Claims, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	sess, err := s.sessions.Get(ctx, sessionID)
	if errors.Is(err, session.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if sess.UserID != claims.UserID() && claims.Role != models.SuperAdmin {
		return ErrSessionNotFound
	}
	return s.sessions.Delete(ctx, sessionID)
}

func (s *authService) GetSession(ctx context.Context, claims *auth.Claims, sessionID string) (*auth.Session, error) {
	if sessionID == "" {
		return nil, required("Session ID is required", "sessionId")
	}
	sess, err := s.sessions.Get(ctx, sessionID)
	if errors.Is(err, session.ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	// Sessions of other users look missing.
	if sess.UserID != claims.UserID() && claims.Role != models.SuperAdmin {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// ForgotPassword only records the request. Callers answer the same way
// whether or not the account exists.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return required("Email is required", "email")
	}
	if !auth.ValidateEmail(email) {
		return ErrInvalidEmail
	}

	_, err := s.users.GetByEmail(ctx, email)
	if err != nil && !isNotFound(err) {
		logger.FromContext(ctx).Warn("Password reset lookup failed", zap.Error(err))
	}
	s.audit.Record(ctx, audit.PasswordResetRequested,
		zap.String("email", email),
		zap.Bool("account_found", err == nil),
	)
	return nil
}

// TenantSlug derives a tenant id from a gym name: lowercase alphanumerics,
// at most 20 of them, then "_" and the base-36 unix milliseconds of now.
func TenantSlug(gymName string, now time.Time) string {
	var b strings.Builder
	for _, r := range strings.ToLower(gymName) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			if b.Len() == tenantSlugMaxLength {
				break
			}
		}
	}
	slug := b.String()
	if slug == "" {
		slug = defaultTenantSlug
	}
	return slug + "_" + strconv.FormatInt(now.UnixMilli(), 36)
}

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gymflow/internal/audit"
	"gymflow/internal/auth"
	"gymflow/internal/metrics"
	"gymflow/internal/models"
	"gymflow/internal/repository"
	"gymflow/internal/services"
	"gymflow/internal/session"
	"gymflow/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testServer struct {
	t      *testing.T
	router *gin.Engine
	users  repository.UserRepository
	hasher auth.PasswordHasher
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := zap.NewNop()
	auditLog := audit.New(log)
	st := store.NewMemoryStore()
	sessions := session.NewMemoryCache()
	hasher := auth.NewPasswordHasher(4)
	tokens := auth.NewTokenManager("router-secret", time.Hour)

	users := repository.NewUserRepository(st)
	tenants := repository.NewTenantRepository(st)
	members := repository.NewMemberRepository(st)
	plans := repository.NewPlanRepository(st)
	trainers := repository.NewTrainerRepository(st)
	m := metrics.New()

	router := NewRouter(Dependencies{
		Logger:   log,
		Audit:    auditLog,
		Metrics:  m,
		Store:    st,
		Sessions: sessions,
		Tokens:   tokens,

		AuthService:      services.NewAuthService(users, tenants, hasher, tokens, sessions, auditLog, m),
		MemberService:    services.NewMemberService(members, plans, auditLog),
		PlanService:      services.NewPlanService(plans, members, auditLog),
		TrainerService:   services.NewTrainerService(trainers, auditLog),
		DashboardService: services.NewDashboardService(members, plans, trainers, auditLog),
		AdminService:     services.NewAdminService(tenants, users, members, auditLog),

		RateLimitPerMinute: 1000,
	})
	return &testServer{t: t, router: router, users: users, hasher: hasher}
}

type request struct {
	method string
	path   string
	token  string
	tenant string
	body   interface{}
}

func (s *testServer) do(r request) (int, map[string]interface{}) {
	s.t.Helper()
	var body bytes.Buffer
	if r.body != nil {
		require.NoError(s.t, json.NewEncoder(&body).Encode(r.body))
	}
	req := httptest.NewRequest(r.method, r.path, &body)
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	if r.tenant != "" {
		req.Header.Set("X-Tenant-ID", r.tenant)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var out map[string]interface{}
	if rec.Body.Len() > 0 {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec.Code, out
}

// signup creates a gym and returns its owner's token and tenant id.
func (s *testServer) signup(email, gymName string) (string, string) {
	s.t.Helper()
	status, body := s.do(request{method: http.MethodPost, path: "/api/auth/signup", body: gin.H{
		"email":     email,
		"password":  "Abcd1234",
		"firstName": "Jamie",
		"lastName":  "Rivera",
		"gymName":   gymName,
	}})
	require.Equal(s.t, http.StatusCreated, status, body)
	data := body["data"].(map[string]interface{})
	tenant := data["tenant"].(map[string]interface{})
	return data["token"].(string), tenant["id"].(string)
}

func (s *testServer) superAdminToken() string {
	s.t.Helper()
	hash, err := s.hasher.Hash("Admin1234")
	require.NoError(s.t, err)
	_, err = s.users.Create(context.Background(), &models.User{
		Email:        "root@gymflow.com",
		PasswordHash: hash,
		FirstName:    "Root",
		LastName:     "Admin",
		Role:         models.SuperAdmin,
		IsActive:     true,
	})
	require.NoError(s.t, err)

	status, body := s.do(request{method: http.MethodPost, path: "/api/auth/login", body: gin.H{
		"email": "root@gymflow.com", "password": "Admin1234",
	}})
	require.Equal(s.t, http.StatusOK, status, body)
	return body["data"].(map[string]interface{})["token"].(string)
}

func dataOf(body map[string]interface{}) map[string]interface{} {
	return body["data"].(map[string]interface{})
}

func TestSignupThenDuplicate(t *testing.T) {
	s := newTestServer(t)
	token, tenantID := s.signup("owner@acme.com", "Acme Fitness")
	assert.NotEmpty(t, token)
	assert.Contains(t, tenantID, "acmefitness_")

	status, body := s.do(request{method: http.MethodPost, path: "/api/auth/signup", body: gin.H{
		"email":     "owner@acme.com",
		"password":  "Abcd1234",
		"firstName": "Jamie",
		"lastName":  "Rivera",
		"gymName":   "Another Gym",
	}})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "EMAIL_EXISTS", body["code"])
}

func TestLoginFailuresLookTheSame(t *testing.T) {
	s := newTestServer(t)
	s.signup("owner@acme.com", "Acme Fitness")

	unknownStatus, unknown := s.do(request{method: http.MethodPost, path: "/api/auth/login", body: gin.H{
		"email": "nobody@acme.com", "password": "Abcd1234",
	}})
	wrongStatus, wrong := s.do(request{method: http.MethodPost, path: "/api/auth/login", body: gin.H{
		"email": "owner@acme.com", "password": "nope-nope",
	}})

	assert.Equal(t, http.StatusUnauthorized, unknownStatus)
	assert.Equal(t, unknownStatus, wrongStatus)
	assert.Equal(t, unknown, wrong)
	assert.Equal(t, "AUTH_FAILED", wrong["code"])

	status, body := s.do(request{method: http.MethodPost, path: "/api/auth/login", body: gin.H{}})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])
}

func TestVerifyAndSession(t *testing.T) {
	s := newTestServer(t)
	s.signup("owner@acme.com", "Acme Fitness")

	_, login := s.do(request{method: http.MethodPost, path: "/api/auth/login", body: gin.H{
		"email": "owner@acme.com", "password": "Abcd1234",
	}})
	data := dataOf(login)
	token := data["token"].(string)
	sessionID := data["session"].(map[string]interface{})["sessionId"].(string)

	status, body := s.do(request{method: http.MethodPost, path: "/api/auth/verify", token: token})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "owner@acme.com", body["user"].(map[string]interface{})["email"])

	status, _ = s.do(request{method: http.MethodGet, path: "/api/auth/session?sessionId=" + sessionID, token: token})
	assert.Equal(t, http.StatusOK, status)

	status, _ = s.do(request{method: http.MethodPost, path: "/api/auth/logout?sessionId=" + sessionID, token: token})
	assert.Equal(t, http.StatusOK, status)

	status, _ = s.do(request{method: http.MethodGet, path: "/api/auth/session?sessionId=" + sessionID, token: token})
	assert.Equal(t, http.StatusNotFound, status)

	status, body = s.do(request{method: http.MethodPost, path: "/api/auth/verify"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "AUTH_REQUIRED", body["code"])
}

func TestPlanInUseCannotBeDeleted(t *testing.T) {
	s := newTestServer(t)
	token, tenantID := s.signup("owner@acme.com", "Acme Fitness")

	status, body := s.do(request{method: http.MethodPost, path: "/api/plans", token: token, tenant: tenantID, body: gin.H{
		"name": "Monthly", "price": 49.99, "duration": "monthly",
	}})
	require.Equal(t, http.StatusCreated, status, body)
	planID := dataOf(body)["id"].(string)

	status, body = s.do(request{method: http.MethodPost, path: "/api/members", token: token, tenant: tenantID, body: gin.H{
		"name": "Sam Lee", "email": "sam@example.com", "phone": "555-0100", "planId": planID,
	}})
	require.Equal(t, http.StatusCreated, status, body)

	status, body = s.do(request{method: http.MethodDelete, path: "/api/plans/" + planID, token: token, tenant: tenantID})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "PLAN_IN_USE", body["code"])
	assert.Equal(t, float64(1), body["membersCount"])

	status, body = s.do(request{method: http.MethodGet, path: "/api/plans/" + planID, token: token, tenant: tenantID})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Monthly", dataOf(body)["name"])
}

func TestTenantsAreIsolated(t *testing.T) {
	s := newTestServer(t)
	tokenA, tenantA := s.signup("a@acme.com", "Acme")
	tokenB, tenantB := s.signup("b@bolt.com", "Bolt")

	status, body := s.do(request{method: http.MethodPost, path: "/api/members", token: tokenA, tenant: tenantA, body: gin.H{
		"name": "Sam Lee", "email": "sam@example.com", "phone": "555-0100",
	}})
	require.Equal(t, http.StatusCreated, status, body)
	memberID := dataOf(body)["id"].(string)

	status, body = s.do(request{method: http.MethodGet, path: "/api/members/" + memberID, token: tokenB, tenant: tenantB})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "MEMBER_NOT_FOUND", body["code"])

	status, body = s.do(request{method: http.MethodGet, path: "/api/members", token: tokenA, tenant: tenantB})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "TENANT_FORBIDDEN", body["code"])

	// Without a header the token's tenant applies.
	status, body = s.do(request{method: http.MethodGet, path: "/api/members", token: tokenB})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(0), body["count"])
}

func TestTenantFromPath(t *testing.T) {
	s := newTestServer(t)
	tokenA, tenantA := s.signup("a@acme.com", "Acme")
	tokenB, _ := s.signup("b@bolt.com", "Bolt")

	status, body := s.do(request{method: http.MethodPost, path: "/api/tenants/" + tenantA + "/members", token: tokenA, body: gin.H{
		"name": "Sam Lee", "email": "sam@example.com", "phone": "555-0100",
	}})
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, tenantA, dataOf(body)["tenantId"])

	status, body = s.do(request{method: http.MethodGet, path: "/api/tenants/" + tenantA + "/members", token: tokenA})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["count"])

	status, body = s.do(request{method: http.MethodGet, path: "/api/tenants/" + tenantA + "/members", token: tokenB})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "TENANT_FORBIDDEN", body["code"])
}

func TestMemberListFilters(t *testing.T) {
	s := newTestServer(t)
	token, tenantID := s.signup("owner@acme.com", "Acme Fitness")

	for _, m := range []gin.H{
		{"name": "Ana", "email": "ana@example.com", "phone": "1", "status": "active"},
		{"name": "Ben", "email": "ben@example.com", "phone": "2", "status": "inactive"},
		{"name": "Cal", "email": "cal@example.com", "phone": "3", "status": "active"},
	} {
		status, body := s.do(request{method: http.MethodPost, path: "/api/members", token: token, tenant: tenantID, body: m})
		require.Equal(t, http.StatusCreated, status, body)
	}

	status, body := s.do(request{method: http.MethodGet, path: "/api/members?status=active", token: token, tenant: tenantID})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(2), body["count"])
	for _, item := range body["data"].([]interface{}) {
		assert.Equal(t, "active", item.(map[string]interface{})["status"])
	}

	status, body = s.do(request{method: http.MethodGet, path: "/api/members/search?query=ben", token: token, tenant: tenantID})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["count"])
	assert.Equal(t, "ben", body["query"])
}

func TestTextFieldsRoundTrip(t *testing.T) {
	s := newTestServer(t)
	token, tenantID := s.signup("owner@acme.com", "Acme Fitness")

	status, body := s.do(request{method: http.MethodPost, path: "/api/members", token: token, tenant: tenantID, body: gin.H{
		"name": "Conan O'Brien", "email": "conan@example.com", "phone": "555-0101",
	}})
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, "Conan O'Brien", dataOf(body)["name"])

	status, body = s.do(request{method: http.MethodPost, path: "/api/plans", token: token, tenant: tenantID, body: gin.H{
		"name": "Gold & Silver", "price": 80, "duration": "monthly",
	}})
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, "Gold & Silver", dataOf(body)["name"])

	status, body = s.do(request{method: http.MethodGet, path: "/api/plans/search?query=gold%20%26%20silver", token: token, tenant: tenantID})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["count"])

	status, body = s.do(request{method: http.MethodGet, path: "/api/members/search?query=o%27brien", token: token, tenant: tenantID})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["count"])
}

func TestDuplicateIDIsConflict(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/members", nil)

	respondError(c, fmt.Errorf("create member: %w", store.ErrAlreadyExists), audit.New(zap.NewNop()))

	assert.Equal(t, http.StatusConflict, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "DUPLICATE_ID", body["code"])
	assert.Equal(t, false, body["success"])
}

func TestAdminRequiresSuperAdmin(t *testing.T) {
	s := newTestServer(t)
	ownerToken, _ := s.signup("owner@acme.com", "Acme Fitness")

	status, body := s.do(request{method: http.MethodGet, path: "/api/admin/tenants", token: ownerToken})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "AUTH_FORBIDDEN", body["code"])

	adminToken := s.superAdminToken()
	status, body = s.do(request{method: http.MethodGet, path: "/api/admin/tenants", token: adminToken})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["count"])

	status, body = s.do(request{method: http.MethodGet, path: "/api/members", token: adminToken})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "TENANT_REQUIRED", body["code"])
}

func TestNotFoundAndHealth(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(request{method: http.MethodGet, path: "/api/nope"})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body["code"])
	assert.Equal(t, "/api/nope", body["path"])

	status, body = s.do(request{method: http.MethodGet, path: "/api/health"})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "memory", body["store"].(map[string]interface{})["driver"])
	assert.Equal(t, "ok", body["cache"])
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.do(request{method: http.MethodGet, path: "/api/health"})

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

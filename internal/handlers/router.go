package handlers

import (
	"gymflow/internal/apperr"
	"gymflow/internal/audit"
	"gymflow/internal/auth"
	"gymflow/internal/logger"
	"gymflow/internal/metrics"
	"gymflow/internal/middleware"
	"gymflow/internal/models"
	"gymflow/internal/services"
	"gymflow/internal/session"
	"gymflow/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Dependencies holds everything the HTTP layer needs.
type Dependencies struct {
	Logger   *zap.Logger
	Audit    *audit.Logger
	Metrics  *metrics.Metrics
	Store    store.Store
	Sessions session.Cache
	Tokens   *auth.TokenManager

	AuthService      services.AuthService
	MemberService    services.MemberService
	PlanService      services.PlanService
	TrainerService   services.TrainerService
	DashboardService services.DashboardService
	AdminService     services.AdminService

	AllowedOrigins     []string
	RateLimitPerMinute int
}

func NewRouter(deps Dependencies) *gin.Engine {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.FromGin(c).Error("Panic recovered", zap.Any("panic", recovered))
		c.AbortWithStatusJSON(errServer.Kind.Status(), errServer.Body())
	}))
	router.Use(middleware.RequestID())
	router.Use(logger.Middleware(log))
	if deps.Metrics != nil {
		router.Use(deps.Metrics.Middleware())
		router.GET("/metrics", deps.Metrics.Handler())
	}
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORS(deps.AllowedOrigins))
	router.Use(middleware.AuditContext())

	authHandler := NewAuthHandler(deps.AuthService, deps.Audit)
	memberHandler := NewMemberHandler(deps.MemberService, deps.Audit)
	planHandler := NewPlanHandler(deps.PlanService, deps.Audit)
	trainerHandler := NewTrainerHandler(deps.TrainerService, deps.Audit)
	dashboardHandler := NewDashboardHandler(deps.DashboardService, deps.Audit)
	adminHandler := NewAdminHandler(deps.AdminService, deps.Audit)
	healthHandler := NewHealthHandler(deps.Store, deps.Sessions)

	authenticate := middleware.Authenticate(deps.Tokens, deps.Audit)
	requireTenant := middleware.RequireTenant(deps.Audit)

	api := router.Group("/api")
	api.Use(middleware.NewRateLimiter(deps.RateLimitPerMinute, deps.Audit).Middleware())
	api.Use(middleware.Sanitize())
	{
		api.GET("/health", healthHandler.Health)

		authRoutes := api.Group("/auth")
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.POST("/signup", authHandler.Signup)
		authRoutes.POST("/forgot-password", authHandler.ForgotPassword)
		authRoutes.POST("/verify", authenticate, authHandler.Verify)
		authRoutes.POST("/logout", authenticate, authHandler.Logout)
		authRoutes.GET("/session", authenticate, authHandler.Session)

		// Tenant resources are served at the API root, where the tenant comes
		// from the header, query, body or token, and again below
		// /tenants/:tenantId.
		scoped := tenantRoutes{
			members:   memberHandler,
			plans:     planHandler,
			trainers:  trainerHandler,
			dashboard: dashboardHandler,
		}
		scoped.register(api.Group("", authenticate, requireTenant))
		scoped.register(api.Group("/tenants/:tenantId", authenticate, requireTenant))

		admin := api.Group("/admin", authenticate, middleware.RequireRole(models.SuperAdmin, deps.Audit))
		admin.GET("/tenants", adminHandler.Tenants)
		admin.GET("/users", adminHandler.Users)
		admin.GET("/analytics", adminHandler.Analytics)
		admin.PUT("/tenants/:id", adminHandler.UpdateTenant)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(apperr.ErrEndpointMissing.Kind.Status(),
			apperr.ErrEndpointMissing.With("path", c.Request.URL.Path).Body())
	})

	return router
}

type tenantRoutes struct {
	members   *MemberHandler
	plans     *PlanHandler
	trainers  *TrainerHandler
	dashboard *DashboardHandler
}

func (r tenantRoutes) register(tenant *gin.RouterGroup) {
	members := tenant.Group("/members")
	members.GET("", r.members.List)
	members.GET("/search", r.members.Search)
	members.GET("/:id", r.members.Get)
	members.POST("", r.members.Create)
	members.PUT("/:id", r.members.Update)
	members.DELETE("/:id", r.members.Delete)

	plans := tenant.Group("/plans")
	plans.GET("", r.plans.List)
	plans.GET("/search", r.plans.Search)
	plans.GET("/stats", r.plans.Stats)
	plans.GET("/:id", r.plans.Get)
	plans.POST("", r.plans.Create)
	plans.PUT("/:id", r.plans.Update)
	plans.DELETE("/:id", r.plans.Delete)

	trainers := tenant.Group("/trainers")
	trainers.GET("", r.trainers.List)
	trainers.GET("/search", r.trainers.Search)
	trainers.GET("/stats", r.trainers.Stats)
	trainers.GET("/:id", r.trainers.Get)
	trainers.POST("", r.trainers.Create)
	trainers.PUT("/:id", r.trainers.Update)
	trainers.DELETE("/:id", r.trainers.Delete)

	tenant.GET("/dashboard", r.dashboard.Dashboard)
	tenant.GET("/analytics", r.dashboard.Analytics)
	tenant.GET("/reports", r.dashboard.Reports)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gymflow/internal/audit"
	"gymflow/internal/auth"
	"gymflow/internal/config"
	"gymflow/internal/handlers"
	"gymflow/internal/logger"
	"gymflow/internal/metrics"
	"gymflow/internal/migrations"
	"gymflow/internal/redis"
	"gymflow/internal/services"
	"gymflow/internal/session"
	"gymflow/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var rootCmd = &cobra.Command{
	Use:          "gymflow",
	Short:        "Multi-tenant gym management API",
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Prepare the configured store schema",
	RunE:  runMigrate,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo tenants, users and records",
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app holds the process-wide resources shared by every command.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	metrics *metrics.Metrics
	store   store.Store
}

func newApp() (*app, error) {
	cfg := config.Load()

	log, err := logger.New(&logger.LogConfig{
		Level:       cfg.LogLevel,
		Environment: cfg.Environment,
		ServiceName: "gymflow",
	})
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	m := metrics.New()
	st, err := store.Open(store.Options{
		Driver:      cfg.StoreDriver,
		DatabaseURL: cfg.DatabaseURL,
		BoltPath:    cfg.BoltPath,
		LogLevel:    cfg.LogLevel,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}
	log.Info("Store opened", zap.String("driver", cfg.StoreDriver))

	return &app{cfg: cfg, log: log, metrics: m, store: store.Instrument(st, m.StoreOperations)}, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.log.Warn("Failed to close store", zap.Error(err))
	}
	_ = a.log.Sync()
}

func (a *app) sessionCache() session.Cache {
	if a.cfg.RedisURL == "" {
		a.log.Info("REDIS_URL not set, using in-memory session cache")
		return session.NewMemoryCache()
	}
	client, err := redis.Initialize(a.cfg.RedisURL)
	if err != nil {
		a.log.Warn("Redis unavailable, using in-memory session cache", zap.Error(err))
		return session.NewMemoryCache()
	}
	return client
}

func (a *app) seed(ctx context.Context) error {
	hasher := auth.NewPasswordHasher(a.cfg.BcryptCost)
	return migrations.SeedDemoData(ctx, migrations.NewRepositories(a.store), hasher, a.log)
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()
	cfg := a.cfg

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.SeedOnStartup() {
		if err := a.seed(ctx); err != nil {
			a.log.Error("Failed to seed demo data", zap.Error(err))
		}
	}

	sessions := a.sessionCache()
	defer sessions.Close()

	auditLog := audit.New(a.log)
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	repos := migrations.NewRepositories(a.store)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handlers.NewRouter(handlers.Dependencies{
		Logger:   a.log,
		Audit:    auditLog,
		Metrics:  a.metrics,
		Store:    a.store,
		Sessions: sessions,
		Tokens:   tokens,

		AuthService:      services.NewAuthService(repos.Users, repos.Tenants, hasher, tokens, sessions, auditLog, a.metrics),
		MemberService:    services.NewMemberService(repos.Members, repos.Plans, auditLog),
		PlanService:      services.NewPlanService(repos.Plans, repos.Members, auditLog),
		TrainerService:   services.NewTrainerService(repos.Trainers, auditLog),
		DashboardService: services.NewDashboardService(repos.Members, repos.Plans, repos.Trainers, auditLog),
		AdminService:     services.NewAdminService(repos.Tenants, repos.Users, repos.Members, auditLog),

		AllowedOrigins:     cfg.AllowedOrigins,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("Server starting", zap.String("port", cfg.ServerPort), zap.String("environment", cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	a.log.Info("Server stopped")
	return nil
}

// runMigrate opens the store, which creates the postgres table or bolt
// buckets as needed, and reports its health.
func runMigrate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	health, err := a.store.Health(cmd.Context())
	if err != nil {
		return fmt.Errorf("store health: %w", err)
	}
	a.log.Info("Store ready", zap.String("driver", health.Driver), zap.String("status", health.Status))
	return nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if a.cfg.IsProduction() {
		return errors.New("refusing to seed demo accounts in production")
	}
	if a.cfg.StoreDriver == store.DriverMemory || a.cfg.StoreDriver == "" {
		a.log.Warn("Seeding the memory store has no lasting effect")
	}
	return a.seed(cmd.Context())
}

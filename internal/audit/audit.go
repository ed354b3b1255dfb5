package audit

import (
	"context"

	"go.uber.org/zap"
)

// Security event names.
const (
	LoginSuccess           = "login_success"
	LoginFailed            = "login_failed"
	LoginInactive          = "login_inactive"
	PotentialBruteForce    = "potential_brute_force"
	SignupSuccess          = "signup_success"
	InvalidToken           = "invalid_token"
	TenantForbidden        = "tenant_forbidden"
	RoleForbidden          = "role_forbidden"
	MemberCreated          = "member_created"
	MemberDeleted          = "member_deleted"
	PlanDeleted            = "plan_deleted"
	TrainerDeleted         = "trainer_deleted"
	TenantUpdated          = "tenant_updated"
	ReportGenerated        = "report_generated"
	PasswordResetRequested = "password_reset_requested"
	RateLimited            = "rate_limited"
	APIError               = "api_error"
)

// RequestInfo describes the request a security event belongs to.
type RequestInfo struct {
	IP        string
	UserAgent string
	Method    string
	Path      string
	RequestID string
	UserID    string
	TenantID  string
}

type requestKey struct{}

func WithRequest(ctx context.Context, info *RequestInfo) context.Context {
	return context.WithValue(ctx, requestKey{}, info)
}

// RequestFrom returns the request info stored in ctx, or nil.
func RequestFrom(ctx context.Context) *RequestInfo {
	info, _ := ctx.Value(requestKey{}).(*RequestInfo)
	return info
}

type Logger struct {
	log *zap.Logger
}

func New(log *zap.Logger) *Logger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Logger{log: log.Named("security")}
}

// Record writes a structured security event. It never fails the caller.
func (l *Logger) Record(ctx context.Context, event string, fields ...zap.Field) {
	if l == nil {
		return
	}
	defer func() {
		_ = recover()
	}()

	entry := []zap.Field{zap.String("event", event)}
	if info := RequestFrom(ctx); info != nil {
		user := info.UserID
		if user == "" {
			user = "anonymous"
		}
		tenant := info.TenantID
		if tenant == "" {
			tenant = "unknown"
		}
		entry = append(entry,
			zap.String("ip", info.IP),
			zap.String("user_agent", info.UserAgent),
			zap.String("method", info.Method),
			zap.String("url", info.Path),
			zap.String("request_id", info.RequestID),
			zap.String("user", user),
			zap.String("tenant", tenant),
		)
	}
	l.log.Info("security event", append(entry, fields...)...)
}

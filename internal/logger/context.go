package logger

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type contextKey string

const loggerKey contextKey = "logger"

const (
	loggerKeyName = "logger"
	// RequestIDKey is the gin context key holding the request id.
	RequestIDKey = "request_id"
)

// FromContext retrieves the logger from the context
func FromContext(ctx context.Context) *zap.Logger {
	logger, ok := ctx.Value(loggerKey).(*zap.Logger)
	if !ok {
		return zap.L()
	}
	return logger
}

// WithContext adds the logger to the context
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromGin retrieves the logger from the gin context
func FromGin(c *gin.Context) *zap.Logger {
	logger, ok := c.Get(loggerKeyName)
	if !ok {
		return zap.L()
	}
	if l, ok := logger.(*zap.Logger); ok {
		return l
	}
	return zap.L()
}

package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRecordIncludesRequestInfo(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := New(zap.New(core))

	ctx := WithRequest(context.Background(), &RequestInfo{IP: "10.0.0.1", Method: "POST", Path: "/api/auth/login"})
	l.Record(ctx, LoginFailed, zap.String("email", "a@b.com"))

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, LoginFailed, fields["event"])
	assert.Equal(t, "10.0.0.1", fields["ip"])
	assert.Equal(t, "anonymous", fields["user"])
	assert.Equal(t, "unknown", fields["tenant"])
	assert.Equal(t, "a@b.com", fields["email"])
}

func TestRecordNeverPanics(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() { l.Record(context.Background(), LoginFailed) })
	assert.NotPanics(t, func() { New(nil).Record(context.Background(), LoginFailed) })
}

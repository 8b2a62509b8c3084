package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantkit/pkg/logger"
	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	return rec
}

func TestNew_TenantExtractor(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithContextExtractors(tenant.LoggerExtractor(), nil),
		logger.WithAttr(slog.String("service", "api")),
	)

	id := uuid.New()
	ctx := tenant.WithTenant(context.Background(), &tenant.Tenant{ID: id})
	log.InfoContext(ctx, "hello")

	rec := decode(t, &buf)
	assert.Equal(t, "hello", rec["msg"])
	assert.Equal(t, id.String(), rec["tenant_id"])
	assert.Equal(t, "api", rec["service"])

	buf.Reset()
	log.InfoContext(context.Background(), "outside")
	rec = decode(t, &buf)
	assert.NotContains(t, rec, "tenant_id")
}

func TestNew_ContextValue(t *testing.T) {
	t.Parallel()

	type key struct{}
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithContextValue("request_id", key{}))

	log.With(logger.Component("pending")).WarnContext(context.WithValue(context.Background(), key{}, "req-1"), "slow")

	rec := decode(t, &buf)
	assert.Equal(t, "req-1", rec["request_id"])
	assert.Equal(t, "pending", rec["component"])
	assert.Equal(t, "WARN", rec["level"])
}

func TestFromConfig(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.FromConfig(logger.Config{Level: "warn", Format: "json", Service: "worker"}))

	log.Info("dropped")
	assert.Zero(t, buf.Len())

	log.Error("kept")
	rec := decode(t, &buf)
	assert.Equal(t, "worker", rec["service"])

	buf.Reset()
	text := logger.New(logger.WithOutput(&buf), logger.FromConfig(logger.Config{Level: "debug", Format: "text"}))
	text.Debug("visible")
	assert.Contains(t, buf.String(), "msg=visible")
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"garbage": slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, logger.ParseLevel(in), in)
	}
}

func TestWithFormat_PanicsOnUnknown(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { logger.New(logger.WithFormat("xml")) })
}

func TestAttrs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.Attr{}, logger.Error(nil))
	assert.Equal(t, "error", logger.Error(errors.New("x")).Key)
	assert.Equal(t, slog.Attr{}, logger.Errors(nil, nil))

	group := logger.Errors(nil, errors.New("a"), errors.New("b"))
	assert.Equal(t, "errors", group.Key)
	assert.Len(t, group.Value.Group(), 2)

	id := uuid.New()
	assert.Equal(t, id.String(), logger.TenantID(id).Value.String())
	assert.Equal(t, "cache", logger.Slot("cache").Value.String())
	assert.Equal(t, int64(2), logger.Attempt(2).Value.Int64())
}

package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KeeganArn/TaskFlask-sub000/pkg/logger"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNew(t *testing.T) {
	t.Run("json by default", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger.New(logger.WithOutput(buf)).Info("hello")
		entry := decode(t, buf)
		assert.Equal(t, "INFO", entry["level"])
		assert.Equal(t, "hello", entry["msg"])
	})

	t.Run("text format", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger.New(logger.WithOutput(buf), logger.WithFormat(logger.FormatText)).Info("hello")
		assert.Contains(t, buf.String(), "level=INFO")
	})

	t.Run("invalid format panics", func(t *testing.T) {
		assert.Panics(t, func() { logger.New(logger.WithFormat("xml")) })
	})

	t.Run("level filters records", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithLevel(slog.LevelWarn))
		log.Info("skipped")
		assert.Empty(t, buf.String())
		log.Warn("kept")
		assert.Contains(t, buf.String(), "kept")
	})

	t.Run("level by name", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithLevelName("error"))
		log.Warn("skipped")
		assert.Empty(t, buf.String())

		buf.Reset()
		log = logger.New(logger.WithOutput(buf), logger.WithLevelName("nonsense"))
		log.Info("kept")
		assert.NotEmpty(t, buf.String())
	})

	t.Run("static attributes", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger.New(logger.WithOutput(buf), logger.WithAttr(slog.String("svc", "test"))).Info("hello")
		assert.Equal(t, "test", decode(t, buf)["svc"])
	})
}

func TestWithEnvironment(t *testing.T) {
	tests := []struct {
		env       string
		wantEnv   string
		debugKept bool
		json      bool
	}{
		{env: "production", wantEnv: "production", json: true},
		{env: "prod", wantEnv: "production", json: true},
		{env: "staging", wantEnv: "staging", json: true},
		{env: "development", wantEnv: "development", debugKept: true},
		{env: "", wantEnv: "development", debugKept: true},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			buf := &bytes.Buffer{}
			log := logger.New(logger.WithOutput(buf), logger.WithEnvironment(tt.env, "taskflask"))

			log.Debug("debug")
			assert.Equal(t, tt.debugKept, buf.Len() > 0)

			buf.Reset()
			log.Info("info")
			if tt.json {
				entry := decode(t, buf)
				assert.Equal(t, tt.wantEnv, entry["env"])
				assert.Equal(t, "taskflask", entry["service"])
				return
			}
			assert.Contains(t, buf.String(), "env="+tt.wantEnv)
		})
	}
}

type orgKey struct{}

func TestContextExtractors(t *testing.T) {
	buf := &bytes.Buffer{}
	log := logger.New(
		logger.WithOutput(buf),
		logger.WithContextExtractors(nil, func(ctx context.Context) (slog.Attr, bool) {
			id, ok := ctx.Value(orgKey{}).(string)
			if !ok {
				return slog.Attr{}, false
			}
			return logger.OrganizationID(id), true
		}),
	)

	ctx := context.WithValue(context.Background(), orgKey{}, "org-1")
	log.InfoContext(ctx, "scoped")
	assert.Equal(t, "org-1", decode(t, buf)["organization_id"])

	buf.Reset()
	log.With("k", "v").WithGroup("g").InfoContext(ctx, "grouped", "x", 1)
	assert.Contains(t, buf.String(), "org-1")

	buf.Reset()
	log.InfoContext(context.Background(), "unscoped")
	_, present := decode(t, buf)["organization_id"]
	assert.False(t, present)
}

func TestDiscard(t *testing.T) {
	assert.NotPanics(t, func() { logger.Discard().Error("dropped") })
}

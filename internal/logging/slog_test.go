package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlogLogger_TextLevels(t *testing.T) {
	var buf bytes.Buffer
	log := newSlog(&buf, LevelDebug, false)
	ctx := context.Background()

	log.Debug(ctx, "exchange started", "attempt", 1)
	log.Info(ctx, "session refreshed", "user_id", "u-1")
	log.Warn(ctx, "logout notification failed", "status", 502)
	log.Error(ctx, "refresh token removal failed", "error", "disk full")

	out := buf.String()
	for _, want := range []string{
		"level=DEBUG", "attempt=1",
		"level=INFO", `msg="session refreshed"`, "user_id=u-1",
		"level=WARN", "status=502",
		"level=ERROR", `error="disk full"`,
	} {
		assert.Contains(t, out, want)
	}
}

func TestSlogLogger_JSONWithAttributes(t *testing.T) {
	var buf bytes.Buffer
	log := newSlog(&buf, LevelInfo, true)

	log.With("component", "session").Info(context.Background(), "logged in", "user_id", "u-1")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "INFO", line["level"])
	assert.Equal(t, "logged in", line["msg"])
	assert.Equal(t, "session", line["component"])
	assert.Equal(t, "u-1", line["user_id"])
}

func TestSlogLevel(t *testing.T) {
	var buf bytes.Buffer
	log := newSlog(&buf, LevelWarn, false)
	ctx := context.Background()

	log.Info(ctx, "dropped")
	log.Warn(ctx, "kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}

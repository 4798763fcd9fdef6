package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerWritesJSONWithContextFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "debug", Format: "json", Output: &buf, ServiceName: "extract"})

	l.WithComponent("ocr").WithRequestID("req-1").Info().Int("density", 12).Msg("picked variant")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "extract", line["service"])
	assert.Equal(t, "ocr", line["component"])
	assert.Equal(t, "req-1", line["request_id"])
	assert.Equal(t, "picked variant", line["message"])
	assert.EqualValues(t, 12, line["density"])
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "warn", Output: &buf})

	l.Info().Msg("hidden")
	assert.Zero(t, buf.Len())

	l.Warn().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestWithRequestIDEmptyKeepsLogger(t *testing.T) {
	l := Nop()
	assert.Same(t, l, l.WithRequestID(""))
}

func TestFromContext(t *testing.T) {
	fallback := Nop()
	assert.Same(t, fallback, FromContext(context.Background(), fallback))
	assert.NotNil(t, FromContext(context.Background(), nil))

	scoped := Nop().WithRequestID("abc")
	ctx := IntoContext(context.Background(), scoped)
	assert.Same(t, scoped, FromContext(ctx, fallback))
}

package observability_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/Sumatoshi-tech/surveycharts/pkg/observability"
)

func jsonLogger(buf *bytes.Buffer) *slog.Logger {
	cfg := observability.DefaultConfig()
	cfg.Mode = observability.ModeServe
	cfg.Environment = "test"
	cfg.LogJSON = true
	cfg.LogOutput = buf

	return observability.NewLogger(cfg)
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var record map[string]any

	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	return record
}

func TestNewLogger_Identity(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	jsonLogger(&buf).Info("started", "theme", "dark")

	record := decodeLine(t, &buf)
	assert.Equal(t, "surveycharts", record[observability.LogKeyService])
	assert.Equal(t, "serve", record[observability.LogKeyMode])
	assert.Equal(t, "test", record[observability.LogKeyEnv])
	assert.Equal(t, "dark", record["theme"])
	assert.NotContains(t, record, observability.LogKeyTraceID)
}

func TestNewLogger_SpanCorrelation(t *testing.T) {
	t.Parallel()

	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { require.NoError(t, tp.Shutdown(context.Background())) })

	ctx, span := tp.Tracer("test").Start(t.Context(), "render")
	defer span.End()

	var buf bytes.Buffer

	jsonLogger(&buf).WithGroup("chart").InfoContext(ctx, "drawn", "id", "languages")

	record := decodeLine(t, &buf)
	assert.Equal(t, span.SpanContext().TraceID().String(), record[observability.LogKeyTraceID])
	assert.Equal(t, span.SpanContext().SpanID().String(), record[observability.LogKeySpanID])
	assert.Equal(t, "surveycharts", record[observability.LogKeyService])

	group, ok := record["chart"].(map[string]any)
	require.True(t, ok, "chart group missing: %v", record)
	assert.Equal(t, "languages", group["id"])
	assert.NotContains(t, group, observability.LogKeyTraceID)
}

func TestNewLogger_SpanCorrelationKeepsAttrsAndGroups(t *testing.T) {
	t.Parallel()

	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { require.NoError(t, tp.Shutdown(context.Background())) })

	ctx, span := tp.Tracer("test").Start(t.Context(), "render")
	defer span.End()

	var buf bytes.Buffer

	logger := jsonLogger(&buf).With("backend", "echarts").WithGroup("chart").With("mount", "languagesChart")
	logger.InfoContext(ctx, "drawn", "id", "languages")

	record := decodeLine(t, &buf)
	assert.Equal(t, span.SpanContext().TraceID().String(), record[observability.LogKeyTraceID])
	assert.Equal(t, "echarts", record["backend"])

	group, ok := record["chart"].(map[string]any)
	require.True(t, ok, "chart group missing: %v", record)
	assert.Equal(t, "languagesChart", group["mount"])
	assert.Equal(t, "languages", group["id"])

	buf.Reset()
	logger.Info("drawn without span", "id", "styling")

	record = decodeLine(t, &buf)
	assert.NotContains(t, record, observability.LogKeyTraceID)
	assert.Equal(t, "echarts", record["backend"])
}

func TestNewLogger_TextAndLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	cfg := observability.DefaultConfig()
	cfg.LogLevel = slog.LevelWarn
	cfg.LogOutput = &buf

	logger := observability.NewLogger(cfg)
	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=shown")
	assert.True(t, strings.Contains(out, "mode=cli"))
}

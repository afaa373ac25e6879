package observability

import (
	"context"
	"log/slog"
	"slices"

	"go.opentelemetry.io/otel/trace"
)

// Log attribute keys added to every record.
const (
	LogKeyTraceID = "trace_id"
	LogKeySpanID  = "span_id"
	LogKeyService = "service"
	LogKeyMode    = "mode"
	LogKeyEnv     = "env"
)

// NewLogger returns the program logger: a text or JSON handler writing to
// cfg.LogOutput, tagged with the service identity and correlated with the
// active span of each record's context.
func NewLogger(cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}

	var base slog.Handler
	if cfg.LogJSON {
		base = slog.NewJSONHandler(cfg.logOutput(), opts)
	} else {
		base = slog.NewTextHandler(cfg.logOutput(), opts)
	}

	identity := []slog.Attr{
		slog.String(LogKeyService, cfg.ServiceName),
		slog.String(LogKeyMode, string(cfg.Mode)),
	}

	if cfg.Environment != "" {
		identity = append(identity, slog.String(LogKeyEnv, cfg.Environment))
	}

	root := base.WithAttrs(identity)

	return slog.New(spanHandler{root: root, next: root})
}

// spanHandler adds the trace and span ids of the record's context at the top
// level of the record, outside any group opened with WithGroup.
type spanHandler struct {
	root  slog.Handler
	next  slog.Handler
	steps []func(slog.Handler) slog.Handler
}

func (h spanHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h spanHandler) Handle(ctx context.Context, record slog.Record) error {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return h.next.Handle(ctx, record) //nolint:wrapcheck // handler errors pass through unchanged.
	}

	handler := h.root.WithAttrs([]slog.Attr{
		slog.String(LogKeyTraceID, sc.TraceID().String()),
		slog.String(LogKeySpanID, sc.SpanID().String()),
	})

	for _, step := range h.steps {
		handler = step(handler)
	}

	return handler.Handle(ctx, record) //nolint:wrapcheck // handler errors pass through unchanged.
}

func (h spanHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	return h.with(func(next slog.Handler) slog.Handler { return next.WithAttrs(attrs) })
}

func (h spanHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	return h.with(func(next slog.Handler) slog.Handler { return next.WithGroup(name) })
}

// with records step so Handle can replay it after the span attributes.
func (h spanHandler) with(step func(slog.Handler) slog.Handler) spanHandler {
	return spanHandler{
		root:  h.root,
		next:  step(h.next),
		steps: append(slices.Clip(h.steps), step),
	}
}

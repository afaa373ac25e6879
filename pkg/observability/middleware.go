package observability

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// HTTPMiddleware traces, measures and logs every request. Installed with a
// chi router's Use, spans and metrics are named after the matched route
// pattern, so /charts/languages.png and /charts/styling.png share
// "GET /charts/{chartID}.png". Both metrics and logger may be nil.
func HTTPMiddleware(tracer trace.Tracer, metrics *REDMetrics, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
			ctx := otel.GetTextMapPropagator().Extract(req.Context(), propagation.HeaderCarrier(req.Header))

			ctx, span := tracer.Start(ctx, req.Method+" "+req.URL.Path,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					semconv.HTTPRequestMethodKey.String(req.Method),
					semconv.URLPath(req.URL.Path),
				),
			)
			defer span.End()

			start := time.Now()
			ww := middleware.NewWrapResponseWriter(rw, req.ProtoMajor)

			next.ServeHTTP(ww, req.WithContext(ctx))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			route := routeName(req)
			span.SetName(route)
			span.SetAttributes(semconv.HTTPResponseStatusCode(status))

			outcome := StatusOK
			if status >= http.StatusInternalServerError {
				outcome = StatusError
				span.SetStatus(codes.Error, http.StatusText(status))
			}

			metrics.Record(ctx, route, outcome, time.Since(start))

			if logger != nil {
				logger.DebugContext(ctx, "http request",
					"route", route,
					"path", req.URL.Path,
					"status", status,
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start),
					"request_id", middleware.GetReqID(ctx))
			}
		})
	}
}

// routeName returns "METHOD pattern" for a chi-routed request and
// "METHOD path" otherwise.
func routeName(req *http.Request) string {
	if rctx := chi.RouteContext(req.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return req.Method + " " + pattern
		}
	}

	return req.Method + " " + req.URL.Path
}

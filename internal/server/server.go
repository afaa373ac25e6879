// Package server serves the survey dashboard over HTTP: the themed page, the
// theme toggle, per-chart PNGs, the chart configurations as JSON and the
// health and metrics endpoints.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/surveycharts/pkg/config"
	"github.com/Sumatoshi-tech/surveycharts/pkg/dashboard"
	"github.com/Sumatoshi-tech/surveycharts/pkg/dataset"
	"github.com/Sumatoshi-tech/surveycharts/pkg/observability"
	"github.com/Sumatoshi-tech/surveycharts/pkg/palette"
	"github.com/Sumatoshi-tech/surveycharts/pkg/plotpage"
	"github.com/Sumatoshi-tech/surveycharts/pkg/prefs"
	"github.com/Sumatoshi-tech/surveycharts/pkg/render"
	"github.com/Sumatoshi-tech/surveycharts/pkg/render/echarts"
	"github.com/Sumatoshi-tech/surveycharts/pkg/render/raster"
	"github.com/Sumatoshi-tech/surveycharts/pkg/surface"
	"github.com/Sumatoshi-tech/surveycharts/pkg/toggle"
)

// Routes.
const (
	PathDashboard = "/"
	PathToggle    = "/theme/toggle"
	PathSetTheme  = "/theme/{theme}"
	PathConfigs   = "/api/charts"
	PathChartPNG  = "/charts/{chartID}.png"
	PathHealth    = "/healthz"
	PathReady     = "/readyz"
	PathMetrics   = "/metrics"
)

const (
	themeQuery      = "theme"
	contentTypeJSON = "application/json"
	contentTypeHTML = "text/html; charset=utf-8"
	tracerName      = "surveycharts.server"
)

// Options configure a Server. Zero values select the ECharts backend, cookie
// preferences, the built-in palette table and datasets, and no telemetry.
type Options struct {
	// Backend is config.BackendECharts or config.BackendRaster.
	Backend string
	ECharts echarts.Style
	Raster  raster.Size

	FailFast bool

	// Store keeps the theme preference for every visitor. Nil keeps it per
	// browser in a cookie named CookieName.
	Store      prefs.Store
	CookieName string

	Table    palette.Table
	Datasets *dataset.Registry

	Logger         *slog.Logger
	Tracer         trace.Tracer
	Metrics        *observability.REDMetrics
	MetricsHandler http.Handler
}

// Server is the dashboard HTTP server.
type Server struct {
	opts   Options
	router chi.Router
}

// New creates a server and wires its routes.
func New(opts Options) *Server {
	if opts.Backend == "" {
		opts.Backend = config.BackendECharts
	}

	if opts.ECharts == (echarts.Style{}) {
		opts.ECharts = echarts.DefaultStyle()
	}

	if opts.Raster == (raster.Size{}) {
		opts.Raster = raster.DefaultSize()
	}

	if opts.CookieName == "" {
		opts.CookieName = config.DefaultCookieName
	}

	if opts.Table == nil {
		opts.Table = palette.DefaultTable()
	}

	if opts.Datasets == nil {
		opts.Datasets = dataset.Default()
	}

	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	if opts.Tracer == nil {
		opts.Tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}

	srv := &Server{opts: opts}
	srv.router = srv.routes()

	return srv
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on cfg.Addr() until ctx is canceled, then shuts down
// gracefully within cfg.ShutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, cfg config.ServerConfig) error {
	httpServer := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	serveErr := make(chan error, 1)

	go func() {
		s.opts.Logger.InfoContext(ctx, "dashboard server listening", "addr", httpServer.Addr, "backend", s.opts.Backend)
		serveErr <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
	defer cancel()

	err := httpServer.Shutdown(shutdownCtx)
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	s.opts.Logger.InfoContext(ctx, "dashboard server stopped")

	return nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(observability.HTTPMiddleware(s.opts.Tracer, s.opts.Metrics, s.opts.Logger))
	r.Use(middleware.Recoverer)

	r.Get(PathDashboard, s.handleDashboard)
	r.Post(PathToggle, s.handleToggle)
	r.Put(PathSetTheme, s.handleSetTheme)
	r.Get(PathConfigs, s.handleConfigs)
	r.Get(PathChartPNG, s.handleChartPNG)

	r.Method(http.MethodGet, PathHealth, observability.HealthHandler())
	r.Method(http.MethodGet, PathReady, observability.ReadyHandler(observability.ReadyCheck{Name: "palette", Check: s.checkPalette}))

	if s.opts.MetricsHandler != nil {
		r.Method(http.MethodGet, PathMetrics, s.opts.MetricsHandler)
	}

	return r
}

// session is the per-request dashboard: a fresh document, orchestrator and
// theme controller, so requests never share chart widgets.
type session struct {
	doc   *surface.Document
	orch  *dashboard.Orchestrator
	theme *toggle.Controller
}

func (s *Server) newSession(rw http.ResponseWriter, req *http.Request, backend render.Backend) *session {
	plan := dashboard.Plan()
	doc := dashboard.NewDocument(plan)

	orch := dashboard.New(doc, backend, dashboard.Options{
		Table:    s.opts.Table,
		Datasets: s.opts.Datasets,
		Plan:     plan,
		FailFast: s.opts.FailFast,
		Logger:   s.opts.Logger,
		Tracer:   s.opts.Tracer,
		Metrics:  s.opts.Metrics,
	})

	store := s.opts.Store
	if store == nil {
		store = newCookieStore(s.opts.CookieName, rw, req)
	}

	return &session{
		doc:   doc,
		orch:  orch,
		theme: toggle.New(doc, store, orch, s.opts.Logger),
	}
}

func (s *Server) backend() render.Backend {
	if s.opts.Backend == config.BackendRaster {
		return raster.NewBackend(s.opts.Raster)
	}

	return echarts.NewBackend(s.opts.ECharts)
}

func (s *Server) handleDashboard(rw http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	sess := s.newSession(rw, req, s.backend())

	_, err := sess.theme.Initialize(ctx)
	if !s.tolerate(rw, req, err) {
		return
	}

	page := plotpage.NewPage().WithCards(sess.doc, sess.orch.Titles())
	page.ToggleAction = PathToggle

	html, err := page.HTML(sess.doc, s.opts.Table)
	if err != nil {
		s.fail(rw, req, http.StatusInternalServerError, err)

		return
	}

	rw.Header().Set("Content-Type", contentTypeHTML)
	writeOrLog(ctx, s.opts.Logger, rw, []byte(html))
}

func (s *Server) handleToggle(rw http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	sess := s.newSession(rw, req, s.backend())

	_, err := sess.theme.Load(ctx)
	if err != nil {
		s.fail(rw, req, http.StatusInternalServerError, err)

		return
	}

	theme, err := sess.theme.Toggle(ctx)
	if !s.tolerate(rw, req, err) {
		return
	}

	s.opts.Logger.DebugContext(ctx, "theme toggled", "theme", theme)
	http.Redirect(rw, req, PathDashboard, http.StatusSeeOther)
}

func (s *Server) handleSetTheme(rw http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	theme, err := palette.ParseTheme(chi.URLParam(req, "theme"))
	if err != nil {
		s.fail(rw, req, http.StatusBadRequest, err)

		return
	}

	sess := s.newSession(rw, req, s.backend())

	err = sess.theme.Set(ctx, theme)
	if !s.tolerate(rw, req, err) {
		return
	}

	s.writeJSON(rw, req, map[string]string{"theme": string(theme)})
}

func (s *Server) handleConfigs(rw http.ResponseWriter, req *http.Request) {
	sess := s.newSession(rw, req, s.backend())

	theme, ok := s.requestTheme(rw, req, sess)
	if !ok {
		return
	}

	configs, err := sess.orch.Configs(theme)
	if err != nil {
		s.fail(rw, req, http.StatusInternalServerError, err)

		return
	}

	s.writeJSON(rw, req, configs)
}

func (s *Server) handleChartPNG(rw http.ResponseWriter, req *http.Request) {
	sess := s.newSession(rw, req, raster.NewBackend(s.opts.Raster))

	theme, ok := s.requestTheme(rw, req, sess)
	if !ok {
		return
	}

	cfg, err := sess.orch.Config(theme, dataset.ID(chi.URLParam(req, "chartID")))
	if errors.Is(err, dashboard.ErrChartNotPlanned) {
		s.fail(rw, req, http.StatusNotFound, err)

		return
	}

	if err != nil {
		s.fail(rw, req, http.StatusInternalServerError, err)

		return
	}

	png, err := raster.PNG(cfg, s.opts.Raster)
	if err != nil {
		s.fail(rw, req, http.StatusInternalServerError, err)

		return
	}

	rw.Header().Set("Content-Type", surface.ContentPNG)
	writeOrLog(req.Context(), s.opts.Logger, rw, png)
}

// requestTheme returns the ?theme= override or the visitor's stored theme.
func (s *Server) requestTheme(rw http.ResponseWriter, req *http.Request, sess *session) (palette.Theme, bool) {
	if name := req.URL.Query().Get(themeQuery); name != "" {
		theme, err := palette.ParseTheme(name)
		if err != nil {
			s.fail(rw, req, http.StatusBadRequest, err)

			return "", false
		}

		return theme, true
	}

	theme, err := sess.theme.Load(req.Context())
	if err != nil {
		s.fail(rw, req, http.StatusInternalServerError, err)

		return "", false
	}

	return theme, true
}

// tolerate reports whether the request may continue after a theme change.
// Chart failures are logged and skipped unless fail-fast is set; preference
// store failures always fail the request.
func (s *Server) tolerate(rw http.ResponseWriter, req *http.Request, err error) bool {
	if err == nil {
		return true
	}

	if errors.Is(err, toggle.ErrRender) && !s.opts.FailFast {
		s.opts.Logger.WarnContext(req.Context(), "dashboard rendered with skipped charts", "error", err)

		return true
	}

	s.fail(rw, req, http.StatusInternalServerError, err)

	return false
}

func (s *Server) checkPalette(context.Context) error {
	return s.opts.Table.Validate()
}

func (s *Server) writeJSON(rw http.ResponseWriter, req *http.Request, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		s.fail(rw, req, http.StatusInternalServerError, err)

		return
	}

	rw.Header().Set("Content-Type", contentTypeJSON)
	writeOrLog(req.Context(), s.opts.Logger, rw, data)
}

func (s *Server) fail(rw http.ResponseWriter, req *http.Request, status int, err error) {
	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}

	s.opts.Logger.Log(req.Context(), level, "request failed",
		"method", req.Method, "path", req.URL.Path, "status", status, "error", err)

	http.Error(rw, err.Error(), status)
}

func writeOrLog(ctx context.Context, logger *slog.Logger, rw http.ResponseWriter, data []byte) {
	_, err := rw.Write(data)
	if err != nil {
		logger.WarnContext(ctx, "write response failed", "error", err)
	}
}

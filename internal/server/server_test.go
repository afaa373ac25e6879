package server_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/surveycharts/internal/server"
	"github.com/Sumatoshi-tech/surveycharts/pkg/config"
	"github.com/Sumatoshi-tech/surveycharts/pkg/dataset"
	"github.com/Sumatoshi-tech/surveycharts/pkg/palette"
	"github.com/Sumatoshi-tech/surveycharts/pkg/prefs"
)

func newServer(t *testing.T, opts server.Options) http.Handler {
	t.Helper()

	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return server.New(opts).Handler()
}

func serve(handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	return rec
}

func themeCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == config.DefaultCookieName {
			return cookie
		}
	}

	require.FailNow(t, "theme cookie not set")

	return nil
}

func TestDashboard_DefaultsToLight(t *testing.T) {
	t.Parallel()

	handler := newServer(t, server.Options{})

	rec := serve(handler, httptest.NewRequest(http.MethodGet, server.PathDashboard, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	body := rec.Body.String()
	assert.Contains(t, body, `data-theme="light"`)
	assert.Contains(t, body, "Light Mode")
	assert.Contains(t, body, `id="languagesChart"`)
	assert.Contains(t, body, "Programming Languages")
	assert.Contains(t, body, `action="/theme/toggle"`)
}

func TestDashboard_CookieTheme(t *testing.T) {
	t.Parallel()

	handler := newServer(t, server.Options{})

	req := httptest.NewRequest(http.MethodGet, server.PathDashboard, nil)
	req.AddCookie(&http.Cookie{Name: config.DefaultCookieName, Value: "dark"})

	rec := serve(handler, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-theme="dark"`)
	assert.Contains(t, rec.Body.String(), "Dark Mode")
}

func TestDashboard_InvalidCookieIsLight(t *testing.T) {
	t.Parallel()

	handler := newServer(t, server.Options{})

	req := httptest.NewRequest(http.MethodGet, server.PathDashboard, nil)
	req.AddCookie(&http.Cookie{Name: config.DefaultCookieName, Value: "sepia"})

	rec := serve(handler, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-theme="light"`)
}

func TestDashboard_RasterBackend(t *testing.T) {
	t.Parallel()

	handler := newServer(t, server.Options{Backend: config.BackendRaster})

	rec := serve(handler, httptest.NewRequest(http.MethodGet, server.PathDashboard, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "data:image/png;base64,")
}

func TestToggle_FlipsCookieAndRedirects(t *testing.T) {
	t.Parallel()

	handler := newServer(t, server.Options{})

	rec := serve(handler, httptest.NewRequest(http.MethodPost, server.PathToggle, nil))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, server.PathDashboard, rec.Header().Get("Location"))

	cookie := themeCookie(t, rec)
	assert.Equal(t, "dark", cookie.Value)

	req := httptest.NewRequest(http.MethodPost, server.PathToggle, nil)
	req.AddCookie(cookie)

	rec = serve(handler, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "light", themeCookie(t, rec).Value)
}

func partialDatasets(t *testing.T) *dataset.Registry {
	t.Helper()

	reg, err := dataset.NewRegistry(map[dataset.ID]dataset.Dataset{
		dataset.Workspace: {Title: "Workspace", Labels: []string{"Office", "Home"}, Values: []float64{60, 40}},
	})
	require.NoError(t, err)

	return reg
}

func TestChartFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		failFast   bool
		method     string
		path       string
		wantStatus int
	}{
		{name: "dashboard best effort", method: http.MethodGet, path: server.PathDashboard, wantStatus: http.StatusOK},
		{name: "dashboard fail fast", failFast: true, method: http.MethodGet, path: server.PathDashboard, wantStatus: http.StatusInternalServerError},
		{name: "toggle best effort", method: http.MethodPost, path: server.PathToggle, wantStatus: http.StatusSeeOther},
		{name: "toggle fail fast", failFast: true, method: http.MethodPost, path: server.PathToggle, wantStatus: http.StatusInternalServerError},
		{name: "set best effort", method: http.MethodPut, path: "/theme/dark", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler := newServer(t, server.Options{Datasets: partialDatasets(t), FailFast: tt.failFast})

			rec := serve(handler, httptest.NewRequest(tt.method, tt.path, nil))

			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestDashboard_BestEffortKeepsRenderedCharts(t *testing.T) {
	t.Parallel()

	handler := newServer(t, server.Options{Datasets: partialDatasets(t)})

	req := httptest.NewRequest(http.MethodGet, server.PathDashboard, nil)
	req.AddCookie(&http.Cookie{Name: config.DefaultCookieName, Value: "dark"})

	rec := serve(handler, req)

	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `data-theme="dark"`)
	assert.Contains(t, body, "Dark Mode")
	assert.Contains(t, body, "Office")
	assert.NotContains(t, body, "JavaScript")
}

func TestToggle_SharedStore(t *testing.T) {
	t.Parallel()

	store := prefs.NewMemoryStore()
	handler := newServer(t, server.Options{Store: store})

	rec := serve(handler, httptest.NewRequest(http.MethodPost, server.PathToggle, nil))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Empty(t, rec.Result().Cookies())

	value, ok, err := store.Get(t.Context(), prefs.KeyTheme)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "dark", value)

	rec = serve(handler, httptest.NewRequest(http.MethodGet, server.PathDashboard, nil))
	assert.Contains(t, rec.Body.String(), `data-theme="dark"`)
}

func TestSetTheme(t *testing.T) {
	t.Parallel()

	handler := newServer(t, server.Options{})

	tests := []struct {
		name   string
		theme  string
		status int
	}{
		{name: "dark", theme: "dark", status: http.StatusOK},
		{name: "light", theme: "light", status: http.StatusOK},
		{name: "unknown", theme: "sepia", status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := serve(handler, httptest.NewRequest(http.MethodPut, "/theme/"+tt.theme, nil))

			require.Equal(t, tt.status, rec.Code)

			if tt.status == http.StatusOK {
				assert.Equal(t, tt.theme, themeCookie(t, rec).Value)
				assert.JSONEq(t, `{"theme":"`+tt.theme+`"}`, rec.Body.String())
			}
		})
	}
}

func TestConfigs(t *testing.T) {
	t.Parallel()

	handler := newServer(t, server.Options{})

	rec := serve(handler, httptest.NewRequest(http.MethodGet, server.PathConfigs+"?theme=dark", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var configs []map[string]any

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &configs))
	assert.Len(t, configs, 6)

	rec = serve(handler, httptest.NewRequest(http.MethodGet, server.PathConfigs+"?theme=sepia", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChartPNG(t *testing.T) {
	t.Parallel()

	handler := newServer(t, server.Options{})

	rec := serve(handler, httptest.NewRequest(http.MethodGet, "/charts/languages.png", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))

	rec = serve(handler, httptest.NewRequest(http.MethodGet, "/charts/devops.png", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthAndReady(t *testing.T) {
	t.Parallel()

	handler := newServer(t, server.Options{})

	rec := serve(handler, httptest.NewRequest(http.MethodGet, server.PathHealth, nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(handler, httptest.NewRequest(http.MethodGet, server.PathReady, nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	broken := palette.DefaultTable()
	delete(broken[palette.ThemeDark], palette.AccentDark)

	rec = serve(newServer(t, server.Options{Table: broken}), httptest.NewRequest(http.MethodGet, server.PathReady, nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsRoute(t *testing.T) {
	t.Parallel()

	rec := serve(newServer(t, server.Options{}), httptest.NewRequest(http.MethodGet, server.PathMetrics, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	metrics := http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		_, _ = rw.Write([]byte("up 1\n"))
	})

	rec = serve(newServer(t, server.Options{MetricsHandler: metrics}), httptest.NewRequest(http.MethodGet, server.PathMetrics, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "up 1\n", rec.Body.String())
}

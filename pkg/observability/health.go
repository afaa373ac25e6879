package observability

import (
	"context"
	"encoding/json"
	"net/http"
)

// Health response statuses.
const (
	HealthOK          = "ok"
	HealthUnavailable = "unavailable"
)

// ReadyCheck is one named readiness probe. Check returns nil when the
// subsystem can serve.
type ReadyCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// HealthReport is the JSON body of the health endpoints.
type HealthReport struct {
	Status string   `json:"status"`
	Failed []string `json:"failed,omitempty"`
}

// HealthHandler answers liveness probes: always 200 {"status":"ok"}.
func HealthHandler() http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		writeReport(rw, http.StatusOK, HealthReport{Status: HealthOK})
	})
}

// ReadyHandler answers readiness probes. Every check runs; if any fails the
// response is 503 naming the failed checks.
func ReadyHandler(checks ...ReadyCheck) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		var failed []string

		for _, c := range checks {
			if err := c.Check(req.Context()); err != nil {
				failed = append(failed, c.Name)
			}
		}

		if len(failed) > 0 {
			writeReport(rw, http.StatusServiceUnavailable, HealthReport{Status: HealthUnavailable, Failed: failed})

			return
		}

		writeReport(rw, http.StatusOK, HealthReport{Status: HealthOK})
	})
}

func writeReport(rw http.ResponseWriter, status int, report HealthReport) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)

	// The status code already went out; a failed body write has no recourse.
	_ = json.NewEncoder(rw).Encode(report)
}

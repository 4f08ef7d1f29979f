package controllers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/Samdami/Altsamdamiblog/app/logging"
)

// Check reports whether a dependency is ready to serve traffic.
type Check func(ctx context.Context) error

// HealthController serves liveness and readiness probes
type HealthController struct {
	checks map[string]Check
}

func NewHealthController(checks map[string]Check) *HealthController {
	return &HealthController{checks: checks}
}

// Livez reports that the process is up.
func (hc *HealthController) Livez(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz runs every dependency check and reports 503 if any fails.
func (hc *HealthController) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	names := make([]string, 0, len(hc.checks))
	for name := range hc.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := http.StatusOK
	results := make(map[string]string, len(names))
	for _, name := range names {
		if err := hc.checks[name](ctx); err != nil {
			logging.FromContext(ctx).Warn("readiness check failed", "check", name, "error", err)
			results[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "unavailable"
	}
	sendJSON(w, status, map[string]interface{}{
		"status": overall,
		"checks": results,
	})
}

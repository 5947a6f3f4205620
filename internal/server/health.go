package server

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/teemow/driveaddon/internal/addon"
)

const (
	healthStatusOK           = "ok"
	healthStatusNotReady     = "not ready"
	healthStatusShuttingDown = "shutting down"
	healthStatusNoConfig     = "no configuration"
)

// HealthChecker serves the liveness and readiness probes of the HTTP transports.
type HealthChecker struct {
	ready         atomic.Bool
	serverContext *ServerContext
	startTime     time.Time
}

// NewHealthChecker creates a HealthChecker that starts out ready.
// sc may be nil, in which case only the readiness flag is checked.
func NewHealthChecker(sc *ServerContext) *HealthChecker {
	h := &HealthChecker{serverContext: sc, startTime: time.Now()}
	h.ready.Store(true)
	return h
}

// SetReady sets the readiness state of the server.
func (h *HealthChecker) SetReady(ready bool) {
	h.ready.Store(ready)
}

// HealthResponse is the body of /healthz and /readyz.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// AddonHealth describes the hosted addon in the detailed health response.
type AddonHealth struct {
	ID      string `json:"id,omitempty"`
	Type    string `json:"type"`
	Enabled bool   `json:"enabled"`
	Tools   int    `json:"tools"`
}

// DetailedHealthResponse is the body of /healthz/detailed.
type DetailedHealthResponse struct {
	Status string            `json:"status"`
	Uptime string            `json:"uptime"`
	Checks map[string]string `json:"checks"`
	Addon  *AddonHealth      `json:"addon,omitempty"`
}

type healthCheck struct {
	name    string
	failure string
	ok      func() bool
}

func (h *HealthChecker) checks() []healthCheck {
	return []healthCheck{
		{name: "ready", failure: healthStatusNotReady, ok: h.ready.Load},
		{name: "config", failure: healthStatusNoConfig, ok: func() bool {
			return h.serverContext == nil || h.serverContext.Addon().Config() != nil
		}},
		{name: "shutdown", failure: healthStatusShuttingDown, ok: func() bool {
			return h.serverContext == nil || !h.serverContext.IsShutdown()
		}},
	}
}

// evaluate runs every check and returns the per-check results and the
// first failure, or "" when all passed.
func (h *HealthChecker) evaluate() (map[string]string, string) {
	results := make(map[string]string)
	firstFailure := ""
	for _, c := range h.checks() {
		if c.ok() {
			results[c.name] = healthStatusOK
			continue
		}
		results[c.name] = c.failure
		if firstFailure == "" {
			firstFailure = c.failure
		}
	}
	return results, firstFailure
}

func (h *HealthChecker) addonHealth() *AddonHealth {
	if h.serverContext == nil {
		return nil
	}
	a := h.serverContext.Addon()
	info := &AddonHealth{Type: addon.Type, Tools: len(a.GetTools())}
	if cfg := a.Config(); cfg != nil {
		info.ID = cfg.ID()
		info.Enabled = cfg.Enabled()
	}
	return info
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

// LivenessHandler serves /healthz. It always answers ok while the process runs.
func (h *HealthChecker) LivenessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, HealthResponse{Status: healthStatusOK})
	})
}

// ReadinessHandler serves /readyz. Any failing check answers 503.
func (h *HealthChecker) ReadinessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		results, failure := h.evaluate()
		if failure != "" {
			writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: healthStatusNotReady, Checks: results})
			return
		}
		writeJSON(w, http.StatusOK, HealthResponse{Status: healthStatusOK, Checks: results})
	})
}

// DetailedHealthHandler serves /healthz/detailed with uptime and addon details.
func (h *HealthChecker) DetailedHealthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		results, failure := h.evaluate()
		resp := DetailedHealthResponse{
			Status: healthStatusOK,
			Uptime: time.Since(h.startTime).Truncate(time.Second).String(),
			Checks: results,
			Addon:  h.addonHealth(),
		}
		code := http.StatusOK
		if failure != "" {
			resp.Status = failure
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, resp)
	})
}

// RegisterHealthEndpoints registers the health endpoints on mux.
func (h *HealthChecker) RegisterHealthEndpoints(mux *http.ServeMux) {
	mux.Handle("/healthz", h.LivenessHandler())
	mux.Handle("/readyz", h.ReadinessHandler())
	mux.Handle("/healthz/detailed", h.DetailedHealthHandler())
}

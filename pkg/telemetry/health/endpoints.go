package health

import (
	"encoding/json"
	"net/http"
	"runtime"

	"mercator-hq/gcpolicy/pkg/config"
)

// VersionInfo is served on /version.
type VersionInfo struct {
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
}

// LivenessHandler answers 200 while the process runs.
func (c *Checker) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowed(w, r) {
			return
		}
		writeJSON(w, r, http.StatusOK, c.CheckLiveness(r.Context()))
	}
}

// ReadinessHandler answers 200 when every check passes and 503 otherwise.
//
// Example response (degraded):
//
//	{
//	    "status": "degraded",
//	    "checks": {
//	        "reconcile": {"status": "unhealthy", "message": "rpc error: code = PermissionDenied ..."},
//	        "schema": {"status": "ok"}
//	    },
//	    "timestamp": "2026-03-01T10:30:00Z"
//	}
func (c *Checker) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowed(w, r) {
			return
		}
		status := c.CheckReadiness(r.Context())
		code := http.StatusOK
		if status.Status != StatusReady {
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, r, code, status)
	}
}

// VersionHandler serves build information.
func VersionHandler(version string) http.HandlerFunc {
	info := VersionInfo{Version: version, GoVersion: runtime.Version()}
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowed(w, r) {
			return
		}
		writeJSON(w, r, http.StatusOK, info)
	}
}

// Register mounts the probes on mux at the configured paths, plus /version.
func (c *Checker) Register(mux *http.ServeMux, cfg *config.HealthConfig, version string) {
	mux.HandleFunc(cfg.LivenessPath, c.LivenessHandler())
	mux.HandleFunc(cfg.ReadinessPath, c.ReadinessHandler())
	mux.HandleFunc("/version", VersionHandler(version))
}

func allowed(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, r *http.Request, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if r.Method != http.MethodHead {
		_ = json.NewEncoder(w).Encode(v)
	}
}

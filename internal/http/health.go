package http

import (
	"net/http"
	"time"

	"github.com/streamvault/streamvault/internal/store"
	"github.com/streamvault/streamvault/pkg/httpx"
)

type healthData struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Version string `json:"version"`
}

// LivezHandler is the liveness probe; 200 whenever the process runs.
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.OK(w, r, "ok", healthData{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}

// ReadyzHandler is the readiness probe; it fails when the database does
// not answer.
func ReadyzHandler(startTime time.Time, version string, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := st.Ping(r.Context()); err != nil {
			httpx.Fail(w, r, http.StatusServiceUnavailable,
				"Service Unavailable", "database not reachable")
			return
		}

		httpx.OK(w, r, "ok", healthData{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}

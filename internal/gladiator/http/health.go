package http

import (
	"net/http"
	"time"

	"github.com/gladiatorrx/platform/internal/gladiator/store"
	"github.com/gladiatorrx/platform/pkg/gxsdk"
	"github.com/gladiatorrx/platform/pkg/httpx"
	"github.com/gladiatorrx/platform/pkg/jwtx"
)

// LivezHandler godoc
//
//	@Summary		Liveness Check Endpoint
//	@Description	Liveness probe returning uptime and build version
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	gxsdk.HealthResponse	"status, uptime, version"
//	@Router			/livez [get].
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, gxsdk.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe checking the database and the session signer
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	gxsdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	gxsdk.HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(startTime time.Time, version string, st store.Store, verifier *jwtx.Verifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &gxsdk.HealthChecks{Database: "ok", Signer: "ok"}
		status, code := "ok", http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			status, code = "degraded", http.StatusServiceUnavailable
		}
		if verifier == nil || !verifier.Ready() {
			checks.Signer = "error: no keys loaded"
			status, code = "degraded", http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, code, gxsdk.HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}

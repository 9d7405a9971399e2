package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	applog "github.com/janisto/kyc-compliance/internal/platform/logging"
)

// Response is the payload for the health endpoint.
type Response struct {
	Status string `json:"status"`
}

// Pinger reports whether a dependency is reachable. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

const pingTimeout = 2 * time.Second

// Handler returns the health check handler. A nil pinger always reports
// healthy; otherwise a failed ping yields 503.
func Handler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				applog.LogError(r.Context(), "health check: database unreachable", err)
				w.WriteHeader(http.StatusServiceUnavailable)
				_ = json.NewEncoder(w).Encode(Response{Status: "unhealthy"})
				return
			}
		}
		_ = json.NewEncoder(w).Encode(Response{Status: "healthy"})
	}
}

package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthcheckHandler responde a liveness; com ?deep=true também testa o banco
func HealthcheckHandler(db Pinger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status := map[string]any{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		}

		if r.URL.Query().Get("deep") == "true" && db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()

			if err := db.Ping(ctx); err != nil {
				logrus.WithError(err).Warn("Healthcheck: banco de dados indisponível")
				status["status"] = "degraded"
				status["database"] = "unavailable"
				writeJSON(w, http.StatusServiceUnavailable, status)
				return
			}
			status["database"] = "ok"
		}

		writeJSON(w, http.StatusOK, status)
	})
}

package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

var defaultAllowedOrigins = []string{
	"http://localhost:3000",
}

// Cors libera as origens configuradas; sem configuração usa o frontend local
func Cors(allowedOrigins []string) func(http.Handler) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = defaultAllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With", "X-Correlation-ID"},
		ExposedHeaders:   []string{"X-Correlation-ID", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           86400,
	})

	return c.Handler
}

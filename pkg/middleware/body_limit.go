package middleware

import (
	"net/http"

	"github.com/vfg2006/sales-ranking-api/pkg/apiErrors"
)

// BodyLimit rejeita corpos acima de maxBytes. O Content-Length declarado é
// verificado antes, o restante é cortado pelo MaxBytesReader durante a leitura.
func BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if maxBytes <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			if r.ContentLength > maxBytes {
				apiErrors.WriteError(w, apiErrors.ErrPayloadTooLarge, "Corpo da requisição acima do limite", map[string]any{
					"max_bytes": maxBytes,
				})
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/vfg2006/sales-ranking-api/pkg/apiErrors"
	"github.com/vfg2006/sales-ranking-api/pkg/log"
)

// TokenOptions define como o segredo compartilhado é lido da requisição
type TokenOptions struct {
	// AllowQuery aceita o token também em ?token=, usado pelo expurgo
	AllowQuery bool
}

// RequireToken exige que o Bearer token seja igual ao segredo configurado.
// Sem segredo configurado a rota fica fechada.
func RequireToken(secret string, opts TokenOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				log.ForContext(r.Context()).WithField("path", r.URL.Path).Error("Token de acesso não configurado no servidor")
				apiErrors.WriteError(w, apiErrors.ErrTokenNotConfigured, "Token de autenticação não configurado", nil)
				return
			}

			token := bearerToken(r)
			if token == "" && opts.AllowQuery {
				token = r.URL.Query().Get("token")
			}

			if token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
				log.ForContext(r.Context()).WithFields(log.Fields{
					"path":        r.URL.Path,
					"remote_addr": ClientIP(r),
				}).Warn("Tentativa de acesso com token inválido")
				apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Token de autenticação inválido", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == authHeader {
		return ""
	}
	return strings.TrimSpace(token)
}

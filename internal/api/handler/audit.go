package handler

import (
	"net/http"
	"strconv"

	"github.com/vfg2006/sales-ranking-api/internal/domain"
	"github.com/vfg2006/sales-ranking-api/internal/usecases/auditing"
	"github.com/vfg2006/sales-ranking-api/pkg/apiErrors"
	"github.com/vfg2006/sales-ranking-api/pkg/log"
)

func GetAuditStats(service auditing.AuditService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := service.Stats(r.Context())
		if err != nil {
			log.ForContext(r.Context()).WithError(err).Error("Erro ao buscar estatísticas de auditoria")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao buscar estatísticas", nil)
			return
		}

		writeJSON(w, http.StatusOK, stats)
	}
}

// GetAuditOutliers retorna as vendas de maior valor líquido
func GetAuditOutliers(service auditing.AuditService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sales, err := service.Outliers(r.Context())
		if err != nil {
			log.ForContext(r.Context()).WithError(err).Error("Erro ao buscar maiores vendas")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao buscar maiores vendas", nil)
			return
		}
		if sales == nil {
			sales = []domain.Sale{}
		}

		writeJSON(w, http.StatusOK, map[string]any{"sales": sales})
	}
}

func GetAuditDuplicates(service auditing.AuditService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groups, err := service.Duplicates(r.Context())
		if err != nil {
			log.ForContext(r.Context()).WithError(err).Error("Erro ao buscar duplicidades")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao buscar duplicidades", nil)
			return
		}
		if groups == nil {
			groups = []domain.DuplicateGroup{}
		}

		writeJSON(w, http.StatusOK, map[string]any{"duplicates": groups})
	}
}

// GetAuditLogs retorna o log de auditoria em memória, mais recentes primeiro
func GetAuditLogs(service auditing.AuditService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 0 {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Limite inválido", nil)
				return
			}
			limit = parsed
		}

		writeJSON(w, http.StatusOK, map[string]any{"logs": service.Logs(limit)})
	}
}

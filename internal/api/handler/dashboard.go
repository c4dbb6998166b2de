package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/vfg2006/sales-ranking-api/internal/usecases/ranking"
	"github.com/vfg2006/sales-ranking-api/pkg/apiErrors"
	"github.com/vfg2006/sales-ranking-api/pkg/log"
)

// GetRanking retorna o ranking de consultores por valor líquido no período filtrado
func GetRanking(service ranking.RankingService, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters, err := parseDashboardFilters(r.URL.Query(), loc)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFilter, err.Error(), nil)
			return
		}

		writeJSON(w, http.StatusOK, service.GetRanking(r.Context(), filters))
	}
}

// GetKPIs retorna os totais do período filtrado
func GetKPIs(service ranking.RankingService, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters, err := parseDashboardFilters(r.URL.Query(), loc)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFilter, err.Error(), nil)
			return
		}

		writeJSON(w, http.StatusOK, service.GetKPIs(r.Context(), filters))
	}
}

func GetRecentSales(service ranking.RankingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Limite inválido", nil)
				return
			}
			limit = parsed
		}

		writeJSON(w, http.StatusOK, service.GetRecentSales(r.Context(), limit))
	}
}

func GetFilterOptions(service ranking.RankingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, service.GetFilterOptions(r.Context()))
	}
}

// GetSyncStatus informa a última ingestão do webhook e o total de vendas gravadas
func GetSyncStatus(service ranking.RankingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := service.GetSyncStatus(r.Context())
		if err != nil {
			log.ForContext(r.Context()).WithError(err).Error("Erro ao buscar status de sincronização")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao buscar status de sincronização", nil)
			return
		}

		writeJSON(w, http.StatusOK, status)
	}
}

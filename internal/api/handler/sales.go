package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/vfg2006/sales-ranking-api/internal/domain"
	"github.com/vfg2006/sales-ranking-api/internal/usecases/auditing"
	"github.com/vfg2006/sales-ranking-api/internal/usecases/listing"
	"github.com/vfg2006/sales-ranking-api/pkg/apiErrors"
	"github.com/vfg2006/sales-ranking-api/pkg/log"
)

// ListSales retorna a listagem paginada com os totais do filtro inteiro
func ListSales(service listing.ListingService, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query, err := parseSalesListQuery(r.URL.Query(), loc)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFilter, err.Error(), nil)
			return
		}

		writeJSON(w, http.StatusOK, service.ListSales(r.Context(), query))
	}
}

func CreateSale(service listing.ListingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input domain.SaleInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			log.ForContext(r.Context()).WithError(err).Warn("Erro ao decodificar venda")
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		sale, err := service.CreateSale(r.Context(), input)
		if err != nil {
			writeServiceError(r.Context(), w, err, "Erro ao cadastrar venda")
			return
		}

		writeJSON(w, http.StatusCreated, sale)
	}
}

// ExportSales devolve a listagem filtrada como arquivo CSV ou XLSX
func ExportSales(service listing.ListingService, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query, err := parseSalesListQuery(r.URL.Query(), loc)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFilter, err.Error(), nil)
			return
		}

		format, err := listing.ParseExportFormat(r.URL.Query().Get("format"))
		if err != nil {
			writeServiceError(r.Context(), w, err, "Formato de exportação inválido")
			return
		}

		file, err := service.Export(r.Context(), query, format)
		if err != nil {
			writeServiceError(r.Context(), w, err, "Erro ao exportar vendas")
			return
		}

		w.Header().Set("Content-Type", file.ContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
		w.Header().Set("Content-Length", strconv.Itoa(len(file.Content)))
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(file.Content); err != nil {
			log.ForContext(r.Context()).WithError(err).Warn("Erro ao enviar arquivo exportado")
		}
	}
}

// PurgeSales apaga todas as vendas. Não há como desfazer.
func PurgeSales(service auditing.AuditService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deleted, err := service.PurgeSales(r.Context())
		if err != nil {
			log.ForContext(r.Context()).WithError(err).Error("Erro ao excluir vendas")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao excluir vendas", nil)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"message": "Todas as vendas foram excluídas",
			"deleted": deleted,
		})
	}
}

package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/vfg2006/sales-ranking-api/internal/usecases/ingesting"
	"github.com/vfg2006/sales-ranking-api/pkg/apiErrors"
	"github.com/vfg2006/sales-ranking-api/pkg/log"
	"github.com/vfg2006/sales-ranking-api/pkg/utils"
)

// IngestSales recebe o lote do webhook. Falhas de itens individuais não mudam
// o status 200, apenas entram no relatório.
func IngestSales(service ingesting.IngestionService, maxBatchSize int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := log.ForContext(ctx)

		body, err := io.ReadAll(r.Body)
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				apiErrors.WriteError(w, apiErrors.ErrPayloadTooLarge, "Corpo da requisição acima do limite", map[string]any{
					"max_bytes": maxErr.Limit,
				})
				return
			}
			logger.WithError(err).Warn("Erro ao ler corpo do webhook")
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao ler corpo da requisição", nil)
			return
		}

		items, err := ingesting.DecodeEnvelope(body, maxBatchSize)
		if err != nil {
			logger.WithError(err).Warn("Payload do webhook rejeitado")
			writeServiceError(ctx, w, err, "Erro ao processar payload")
			return
		}

		report, err := service.Ingest(ctx, items)
		if err != nil {
			writeServiceError(ctx, w, err, "Erro ao processar lote")
			return
		}

		logger.WithFields(log.Fields{
			"total_received": report.TotalReceived,
			"succeeded":      report.Succeeded,
			"failed":         report.Failed,
		}).Info("Lote do webhook processado")
		if report.Failed > 0 {
			logger.Debug(utils.PrettyJSON(report.FailureDetails))
		}

		writeJSON(w, http.StatusOK, report)
	}
}

// DescribeWebhook documenta o formato aceito pelo webhook
func DescribeWebhook(service ingesting.IngestionService, maxBatchSize int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, service.Describe(maxBatchSize))
	}
}

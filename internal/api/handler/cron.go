package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-ranking-api/pkg/apiErrors"
)

// CronJobType define o tipo de cron job que será executada
const (
	CronJobTypeDuplicateAudit = "duplicate-audit"
	CronJobTypeAll            = "all"
)

// CronJob é um agendador que pode ser disparado manualmente
type CronJob interface {
	TriggerManualSync()
	GetStatus() map[string]any
}

// CronJobServices contém os serviços de cron necessários para executar manualmente
type CronJobServices struct {
	DuplicateAuditService CronJob
}

func (s CronJobServices) jobs() map[string]CronJob {
	jobs := map[string]CronJob{}
	if s.DuplicateAuditService != nil {
		jobs[CronJobTypeDuplicateAudit] = s.DuplicateAuditService
	}
	return jobs
}

// RunCronJob executa manualmente uma cron job específica
func RunCronJob(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cronType := httprouter.ParamsFromContext(r.Context()).ByName("type")
		if cronType == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Tipo de cron job não especificado", nil)
			return
		}

		jobs := services.jobs()

		switch cronType {
		case CronJobTypeAll:
			for _, job := range jobs {
				job.TriggerManualSync()
			}
		default:
			job, ok := jobs[cronType]
			if !ok {
				apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Tipo de cron job inválido. Valores aceitos: duplicate-audit, all", nil)
				return
			}
			job.TriggerManualSync()
		}

		logrus.WithField("type", cronType).Info("Cron job disparada manualmente")

		writeJSON(w, http.StatusAccepted, map[string]any{
			"message": "Cron job iniciada com sucesso",
			"type":    cronType,
		})
	}
}

// GetCronStatus retorna o status das cron jobs
func GetCronStatus(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]any{}
		for name, job := range services.jobs() {
			status[name] = job.GetStatus()
		}

		writeJSON(w, http.StatusOK, status)
	}
}

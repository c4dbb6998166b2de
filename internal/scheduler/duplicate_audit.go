package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-ranking-api/internal/audit"
	"github.com/vfg2006/sales-ranking-api/internal/config"
	"github.com/vfg2006/sales-ranking-api/internal/domain"
)

const duplicateAuditTimeout = time.Minute

// DuplicateFinder busca chaves de negócio com mais de uma venda
type DuplicateFinder interface {
	Duplicates(ctx context.Context) ([]domain.DuplicateGroup, error)
}

type AuditRecorder interface {
	Record(ctx context.Context, action string, details map[string]any)
}

// DuplicateAuditConfig representa a configuração do agendador de auditoria de duplicidades
type DuplicateAuditConfig struct {
	CronSchedule string
	Enabled      bool
}

// DuplicateAuditService verifica periodicamente vendas com a mesma
// administradora, grupo e cota, que o webhook não consegue mais separar.
type DuplicateAuditService struct {
	scheduler *gocron.Scheduler
	config    DuplicateAuditConfig
	finder    DuplicateFinder
	recorder  AuditRecorder

	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastDuplicateKeys   int
	lastError           string
}

// NewDuplicateAuditService cria uma nova instância do serviço de auditoria de duplicidades
func NewDuplicateAuditService(
	finder DuplicateFinder,
	recorder AuditRecorder,
	appConfig *config.Config,
) *DuplicateAuditService {
	auditConfig := DuplicateAuditConfig{
		CronSchedule: appConfig.DuplicateAudit.CronSchedule,
		Enabled:      appConfig.DuplicateAudit.Enabled,
	}

	loc := appConfig.App.Location
	if loc == nil {
		loc = time.Local
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule": auditConfig.CronSchedule,
		"enabled":       auditConfig.Enabled,
	}).Info("Configuração do agendador de auditoria de duplicidades carregada")

	return &DuplicateAuditService{
		scheduler: gocron.NewScheduler(loc),
		config:    auditConfig,
		finder:    finder,
		recorder:  recorder,
	}
}

// Start inicia o agendador
func (s *DuplicateAuditService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		logrus.Info("Auditoria de duplicidades desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de auditoria de duplicidades")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.runAudit()
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar auditoria de duplicidades: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de auditoria de duplicidades")
		s.scheduler.Stop()
	}()

	return nil
}

func (s *DuplicateAuditService) runAudit() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Auditoria de duplicidades já em andamento, ignorando")
		return
	}
	s.syncRunning = true
	s.lastSyncStartedAt = time.Now()
	s.syncMutex.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), duplicateAuditTimeout)
	defer cancel()

	groups, err := s.finder.Duplicates(ctx)

	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()
	s.syncRunning = false
	s.lastSyncCompletedAt = time.Now()

	if err != nil {
		s.lastError = err.Error()
		logrus.WithError(err).Error("Erro ao executar auditoria de duplicidades")
		return
	}
	s.lastError = ""
	s.lastDuplicateKeys = len(groups)

	if len(groups) == 0 {
		logrus.Info("Auditoria de duplicidades concluída sem ocorrências")
		return
	}

	var extraSales int64
	for _, g := range groups {
		extraSales += g.Count - 1
		logrus.WithFields(logrus.Fields{
			"administrator": g.Administrator,
			"group":         g.Group,
			"quota":         g.Quota,
			"count":         g.Count,
		}).Warn("Chave de negócio com mais de uma venda")
	}

	if s.recorder != nil {
		s.recorder.Record(ctx, audit.ActionDuplicateAudit, map[string]any{
			"duplicate_keys": len(groups),
			"extra_sales":    extraSales,
		})
	}
}

// TriggerManualSync executa a auditoria fora do agendamento
func (s *DuplicateAuditService) TriggerManualSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Auditoria de duplicidades já em andamento, ignorando solicitação manual")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("Iniciando auditoria manual de duplicidades")
	go s.runAudit()
}

// GetStatus retorna o status atual da auditoria
func (s *DuplicateAuditService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_running":           s.syncRunning,
		"sync_cron":              s.config.CronSchedule,
		"sync_enabled":           s.config.Enabled,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"duplicate_keys":         s.lastDuplicateKeys,
		"last_error":             s.lastError,
	}
}

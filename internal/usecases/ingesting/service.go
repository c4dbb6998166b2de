// Package ingesting recebe lotes de vendas do webhook da planilha, valida cada
// registro e grava por chave de negócio (administradora, grupo, cota).
package ingesting

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-ranking-api/infrastructure/repository"
	"github.com/vfg2006/sales-ranking-api/internal/audit"
	"github.com/vfg2006/sales-ranking-api/internal/cache"
	"github.com/vfg2006/sales-ranking-api/internal/domain"
	"github.com/vfg2006/sales-ranking-api/pkg/apiErrors"
	"github.com/vfg2006/sales-ranking-api/pkg/log"
)

const (
	defaultMaxConcurrentItems = 8
	defaultMaxFailureDetails  = 10
	defaultTimeout            = 5 * time.Minute
)

type IngestionService interface {
	Ingest(ctx context.Context, items []any) (*domain.IngestionReport, error)
	LastIngestion() *time.Time
	Describe(maxBatchSize int) map[string]any
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type CacheInvalidator interface {
	Invalidate(tag string)
}

type AuditRecorder interface {
	Record(ctx context.Context, action string, details map[string]any)
}

type Options struct {
	MaxConcurrentItems int
	MaxFailureDetails  int
	Location           *time.Location
	Timeout            time.Duration
}

type Service struct {
	pinger         Pinger
	saleRepository repository.SaleRepository
	cache          CacheInvalidator
	audit          AuditRecorder
	opts           Options
	now            func() time.Time

	mu            sync.RWMutex
	lastIngestion *time.Time
}

func NewService(
	pinger Pinger,
	saleRepository repository.SaleRepository,
	cache CacheInvalidator,
	audit AuditRecorder,
	opts Options,
) *Service {
	if opts.MaxConcurrentItems <= 0 {
		opts.MaxConcurrentItems = defaultMaxConcurrentItems
	}
	if opts.MaxFailureDetails <= 0 {
		opts.MaxFailureDetails = defaultMaxFailureDetails
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}

	return &Service{
		pinger:         pinger,
		saleRepository: saleRepository,
		cache:          cache,
		audit:          audit,
		opts:           opts,
		now:            time.Now,
	}
}

type itemOutcome struct {
	id      string
	created bool
	errs    ValidationErrors
	record  map[string]any
}

func (o itemOutcome) failed() bool {
	return len(o.errs) > 0
}

// Ingest processa cada item de forma independente: a falha de um item não
// desfaz nem interrompe os demais. O lote roda até o fim mesmo que o cliente
// desconecte.
func (s *Service) Ingest(ctx context.Context, items []any) (*domain.IngestionReport, error) {
	start := s.now()
	logger := log.ForContext(ctx)

	workCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.Timeout)
	defer cancel()

	if err := s.pinger.Ping(workCtx); err != nil {
		logger.WithError(err).Error("Banco de dados indisponível, lote rejeitado")
		return nil, NewIngestionError(ErrStorageUnavailable, apiErrors.ErrDatabaseOperation, err.Error())
	}

	outcomes := make([]itemOutcome, len(items))
	sem := make(chan struct{}, s.opts.MaxConcurrentItems)
	var wg sync.WaitGroup

	for i, item := range items {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, item any) {
			defer wg.Done()
			defer func() { <-sem }()
			outcomes[i] = s.processItem(workCtx, i, item)
		}(i, item)
	}
	wg.Wait()

	report := s.buildReport(outcomes)
	report.ProcessingTimeMs = s.now().Sub(start).Milliseconds()

	logger.WithFields(logrus.Fields{
		"total_received": report.TotalReceived,
		"succeeded":      report.Succeeded,
		"failed":         report.Failed,
		"created":        report.Created,
		"updated":        report.Updated,
		"duration_ms":    report.ProcessingTimeMs,
	}).Info("Lote de vendas processado")

	if report.Succeeded > 0 {
		s.afterWrite(workCtx, report)
	}

	return report, nil
}

func (s *Service) processItem(ctx context.Context, index int, item any) (outcome itemOutcome) {
	defer func() {
		if r := recover(); r != nil {
			log.ForContext(ctx).WithFields(logrus.Fields{
				"index": index,
				"panic": r,
			}).Error("Panic ao processar item do lote")
			outcome.errs = ValidationErrors{{Field: "item", Message: ErrPersistItem.Error()}}
		}
	}()

	record, ok := item.(map[string]any)
	if !ok {
		return itemOutcome{
			errs:   ValidationErrors{{Field: "item", Message: ErrItemNotObject.Error()}},
			record: map[string]any{"value": item},
		}
	}
	outcome.record = record

	sale, err := ValidateRecord(record, s.opts.Location)
	if err != nil {
		var verrs ValidationErrors
		if errors.As(err, &verrs) {
			outcome.errs = verrs
		} else {
			outcome.errs = ValidationErrors{{Field: "item", Message: err.Error()}}
		}
		return outcome
	}

	id, created, err := s.saleRepository.UpsertByBusinessKey(ctx, sale)
	if err != nil {
		log.ForContext(ctx).WithFields(logrus.Fields{
			"index":        index,
			"business_key": sale.BusinessKey().String(),
		}).WithError(err).Warn("Erro ao gravar venda do lote")
		outcome.errs = ValidationErrors{{Field: "database", Message: ErrPersistItem.Error()}}
		return outcome
	}

	outcome.id = id
	outcome.created = created
	return outcome
}

func (s *Service) buildReport(outcomes []itemOutcome) *domain.IngestionReport {
	report := &domain.IngestionReport{
		TotalReceived:  len(outcomes),
		FailureDetails: make([]domain.FailureDetail, 0),
	}

	for i, outcome := range outcomes {
		if !outcome.failed() {
			report.Succeeded++
			if outcome.created {
				report.Created++
			} else {
				report.Updated++
			}
			continue
		}

		report.Failed++
		if len(report.FailureDetails) >= s.opts.MaxFailureDetails {
			continue
		}

		first := outcome.errs[0]
		report.FailureDetails = append(report.FailureDetails, domain.FailureDetail{
			Index:   i,
			Field:   first.Field,
			Message: first.Message,
			Errors:  outcome.errs,
			Record:  outcome.record,
		})
	}

	return report
}

func (s *Service) afterWrite(ctx context.Context, report *domain.IngestionReport) {
	if s.cache != nil {
		s.cache.Invalidate(cache.TagDashboard)
	}

	if s.audit != nil {
		s.audit.Record(ctx, audit.ActionIngestion, map[string]any{
			"total_received": report.TotalReceived,
			"succeeded":      report.Succeeded,
			"failed":         report.Failed,
			"created":        report.Created,
			"updated":        report.Updated,
		})
	}

	now := s.now()
	s.mu.Lock()
	s.lastIngestion = &now
	s.mu.Unlock()
}

// LastIngestion retorna o horário do último lote com ao menos uma venda gravada
func (s *Service) LastIngestion() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.lastIngestion == nil {
		return nil
	}
	last := *s.lastIngestion
	return &last
}

// Describe documenta o formato aceito pelo webhook
func (s *Service) Describe(maxBatchSize int) map[string]any {
	fields := make(map[string][]string, len(SaleFieldKeys))
	for field, keys := range SaleFieldKeys {
		fields[string(field)] = keys
	}

	return map[string]any{
		"method":         "POST",
		"authentication": "Authorization: Bearer <token>",
		"formats": []string{
			"objeto único",
			"lista de objetos",
			`{"sales": [...]}`,
		},
		"fields": fields,
		"required": []string{
			string(FieldSalesperson),
			string(FieldAdministrator),
			string(FieldGroup),
			string(FieldQuota),
			string(FieldSaleDate),
		},
		"limits": map[string]any{
			"max_batch_size":      maxBatchSize,
			"max_failure_details": s.opts.MaxFailureDetails,
		},
		"example": map[string]any{
			"consultor":      "Maria Silva",
			"administradora": "ITAU",
			"grupo":          "1234",
			"cota":           "56",
			"valor_bruto":    "R$ 10.000,00",
			"valor_liquido":  "R$ 9.500,00",
			"data_venda":     "17/12/2025",
			"mes_ano":        "dezembro-2025",
		},
	}
}

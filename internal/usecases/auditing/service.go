// Package auditing expõe as verificações de qualidade dos dados de vendas,
// o log de auditoria e a exclusão total de vendas.
package auditing

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-ranking-api/infrastructure/repository"
	"github.com/vfg2006/sales-ranking-api/internal/audit"
	"github.com/vfg2006/sales-ranking-api/internal/cache"
	"github.com/vfg2006/sales-ranking-api/internal/domain"
	"github.com/vfg2006/sales-ranking-api/pkg/log"
)

const (
	OutliersLimit    = 50
	DefaultLogsLimit = 100
	purgeTimeout     = 2 * time.Minute
)

var ErrDatabaseOperation = errors.New("erro ao realizar operação no banco de dados")

type AuditService interface {
	Stats(ctx context.Context) (*domain.AuditStats, error)
	Outliers(ctx context.Context) ([]domain.Sale, error)
	Duplicates(ctx context.Context) ([]domain.DuplicateGroup, error)
	Logs(limit int) []domain.AuditEntry
	PurgeSales(ctx context.Context) (int64, error)
}

type Service struct {
	saleRepository repository.SaleRepository
	cache          *cache.Tagged
	trail          *audit.Trail
}

func NewService(saleRepository repository.SaleRepository, readCache *cache.Tagged, trail *audit.Trail) *Service {
	return &Service{
		saleRepository: saleRepository,
		cache:          readCache,
		trail:          trail,
	}
}

// Stats são os totais de todas as vendas, sem filtro de período
func (s *Service) Stats(ctx context.Context) (*domain.AuditStats, error) {
	totals, err := s.saleRepository.Totals(ctx, domain.SalePredicate{})
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("Erro ao calcular estatísticas de auditoria")
		return nil, errors.Join(ErrDatabaseOperation, err)
	}

	return &domain.AuditStats{
		SaleTotals:    totals,
		AverageTicket: totals.AverageTicket(),
	}, nil
}

// Outliers são as vendas de maior valor líquido, para conferência manual
func (s *Service) Outliers(ctx context.Context) ([]domain.Sale, error) {
	sales, err := s.saleRepository.TopByNetValue(ctx, OutliersLimit)
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("Erro ao buscar maiores vendas")
		return nil, errors.Join(ErrDatabaseOperation, err)
	}
	return sales, nil
}

// Duplicates lista chaves de negócio com mais de uma venda
func (s *Service) Duplicates(ctx context.Context) ([]domain.DuplicateGroup, error) {
	groups, err := s.saleRepository.Duplicates(ctx)
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("Erro ao buscar vendas duplicadas")
		return nil, errors.Join(ErrDatabaseOperation, err)
	}
	return groups, nil
}

func (s *Service) Logs(limit int) []domain.AuditEntry {
	if limit <= 0 {
		limit = DefaultLogsLimit
	}
	return s.trail.Entries(limit)
}

// PurgeSales apaga todas as vendas. A operação é irreversível e roda até o fim
// mesmo que o cliente desconecte.
func (s *Service) PurgeSales(ctx context.Context) (int64, error) {
	workCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), purgeTimeout)
	defer cancel()

	deleted, err := s.saleRepository.DeleteAll(workCtx)
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("Erro ao excluir vendas")
		return 0, errors.Join(ErrDatabaseOperation, err)
	}

	s.cache.Invalidate(cache.TagDashboard)
	s.trail.Record(ctx, audit.ActionSalesPurged, map[string]any{"deleted": deleted})

	log.ForContext(ctx).WithFields(logrus.Fields{"deleted": deleted}).Warn("Todas as vendas foram excluídas")

	return deleted, nil
}

// Package listing serve a listagem paginada de vendas, o cadastro manual e a
// exportação da listagem filtrada.
package listing

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-ranking-api/infrastructure/repository"
	"github.com/vfg2006/sales-ranking-api/internal/audit"
	"github.com/vfg2006/sales-ranking-api/internal/cache"
	"github.com/vfg2006/sales-ranking-api/internal/domain"
	"github.com/vfg2006/sales-ranking-api/internal/usecases/ingesting"
	"github.com/vfg2006/sales-ranking-api/pkg/apiErrors"
	"github.com/vfg2006/sales-ranking-api/pkg/log"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	// MaxPage mantém o OFFSET dentro do int e do que o banco aceita
	MaxPage = 100000

	msgListUnavailable = "não foi possível carregar as vendas"
)

type ListingService interface {
	ListSales(ctx context.Context, query domain.SalesListQuery) *domain.SalesPage
	CreateSale(ctx context.Context, input domain.SaleInput) (*domain.Sale, error)
	Export(ctx context.Context, query domain.SalesListQuery, format ExportFormat) (*ExportFile, error)
}

type Service struct {
	saleRepository repository.SaleRepository
	cache          *cache.Tagged
	audit          ingesting.AuditRecorder
	loc            *time.Location
	now            func() time.Time
}

func NewService(
	saleRepository repository.SaleRepository,
	readCache *cache.Tagged,
	recorder ingesting.AuditRecorder,
	loc *time.Location,
) *Service {
	if loc == nil {
		loc = time.UTC
	}

	return &Service{
		saleRepository: saleRepository,
		cache:          readCache,
		audit:          recorder,
		loc:            loc,
		now:            time.Now,
	}
}

func normalizePaging(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}

func (s *Service) ListSales(ctx context.Context, query domain.SalesListQuery) *domain.SalesPage {
	page, limit := normalizePaging(query.Page, query.Limit)
	predicate := domain.BuildPredicate(query.Filters, s.now().In(s.loc))
	sort := domain.ResolveSort(query.SortBy, query.SortDir)

	key := fmt.Sprintf("list:%s|%s|%d|%d", predicate.CacheKey(), sort.String(), page, limit)

	result, err := cache.Remember(s.cache, cache.TagDashboard, key, func() (domain.SalesPage, error) {
		totals, err := s.saleRepository.Totals(ctx, predicate)
		if err != nil {
			return domain.SalesPage{}, err
		}

		sales, err := s.saleRepository.List(ctx, predicate, sort, limit, (page-1)*limit)
		if err != nil {
			return domain.SalesPage{}, err
		}

		return domain.SalesPage{
			Data:         sales,
			TotalRecords: totals.Count,
			TotalPages:   totalPages(totals.Count, limit),
			CurrentPage:  page,
			Limit:        limit,
			Aggregations: domain.SalesListAggregations{
				NetTotal:      totals.NetTotal,
				GrossTotal:    totals.GrossTotal,
				AverageTicket: totals.AverageTicket(),
			},
		}, nil
	})
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("Erro ao listar vendas")
		return &domain.SalesPage{
			Data:        []domain.Sale{},
			CurrentPage: page,
			Limit:       limit,
			Error:       msgListUnavailable,
		}
	}

	return &result
}

func totalPages(total int64, limit int) int {
	if total == 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// CreateSale cadastra uma venda manualmente. Ao contrário do webhook, não
// atualiza venda existente: chave de negócio repetida é rejeitada.
func (s *Service) CreateSale(ctx context.Context, input domain.SaleInput) (*domain.Sale, error) {
	sale, err := ingesting.ValidateRecord(recordFromInput(input), s.loc)
	if err != nil {
		listingErr := NewListingError(ErrInvalidSale, apiErrors.ErrMissingRequiredData, err.Error())
		var verrs ingesting.ValidationErrors
		if errors.As(err, &verrs) {
			listingErr.Fields = verrs
		}
		return nil, listingErr
	}

	err = s.saleRepository.CreateUnique(ctx, sale)
	if errors.Is(err, repository.ErrDuplicateSale) {
		return nil, NewListingError(ErrSaleAlreadyExists, apiErrors.ErrAlreadyExists, sale.BusinessKey().String())
	}
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("Erro ao cadastrar venda")
		return nil, NewListingError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "")
	}

	s.cache.Invalidate(cache.TagDashboard)
	if s.audit != nil {
		s.audit.Record(ctx, audit.ActionSaleCreated, map[string]any{
			"sale_id":      sale.ID,
			"business_key": sale.BusinessKey().String(),
		})
	}

	log.ForContext(ctx).WithFields(logrus.Fields{
		"sale_id":     sale.ID,
		"salesperson": sale.Salesperson,
	}).Info("Venda cadastrada manualmente")

	return sale, nil
}

func recordFromInput(input domain.SaleInput) map[string]any {
	record := map[string]any{
		string(ingesting.FieldSalesperson):   input.Salesperson,
		string(ingesting.FieldAdministrator): input.Administrator,
		string(ingesting.FieldGroup):         input.Group,
		string(ingesting.FieldQuota):         input.Quota,
		string(ingesting.FieldGrossValue):    input.GrossValue,
		string(ingesting.FieldNetValue):      input.NetValue,
		string(ingesting.FieldSaleDate):      input.SaleDate,
	}

	if input.Month != 0 || input.Year != 0 {
		record[string(ingesting.FieldCompetence)] = strconv.Itoa(input.Month) + "-" + strconv.Itoa(input.Year)
	}

	return record
}

// Package ranking monta o ranking de consultores, os KPIs e os demais dados
// de leitura do dashboard.
package ranking

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-ranking-api/infrastructure/repository"
	"github.com/vfg2006/sales-ranking-api/internal/cache"
	"github.com/vfg2006/sales-ranking-api/internal/domain"
	"github.com/vfg2006/sales-ranking-api/pkg/log"
)

const (
	DefaultRecentSalesLimit = 10
	MaxRecentSalesLimit     = 50

	avatarPathPrefix = "/v1/avatar/"
)

// Mensagens devolvidas junto com os dados zerados quando a leitura falha
const (
	msgRankingUnavailable = "não foi possível carregar o ranking"
	msgKPIsUnavailable    = "não foi possível carregar os indicadores"
	msgRecentUnavailable  = "não foi possível carregar as vendas recentes"
	msgFiltersUnavailable = "não foi possível carregar as opções de filtro"
)

type RankingService interface {
	GetRanking(ctx context.Context, filters domain.DashboardFilters) *domain.RankingResponse
	GetKPIs(ctx context.Context, filters domain.DashboardFilters) *domain.KPIResponse
	GetRecentSales(ctx context.Context, limit int) *domain.RecentSalesResponse
	GetFilterOptions(ctx context.Context) *domain.FilterOptions
	GetSyncStatus(ctx context.Context) (*domain.SyncStatus, error)
}

// IngestionStatus informa quando o webhook gravou vendas pela última vez
type IngestionStatus interface {
	LastIngestion() *time.Time
}

type DashboardService struct {
	saleRepository    repository.SaleRepository
	profileRepository repository.ProfileRepository
	ingestion         IngestionStatus
	cache             *cache.Tagged
	loc               *time.Location
	now               func() time.Time
}

func NewDashboardService(
	saleRepository repository.SaleRepository,
	profileRepository repository.ProfileRepository,
	ingestion IngestionStatus,
	readCache *cache.Tagged,
	loc *time.Location,
) *DashboardService {
	if loc == nil {
		loc = time.UTC
	}

	return &DashboardService{
		saleRepository:    saleRepository,
		profileRepository: profileRepository,
		ingestion:         ingestion,
		cache:             readCache,
		loc:               loc,
		now:               time.Now,
	}
}

func (s *DashboardService) predicate(filters domain.DashboardFilters) domain.SalePredicate {
	return domain.BuildPredicate(filters, s.now().In(s.loc))
}

func (s *DashboardService) GetRanking(ctx context.Context, filters domain.DashboardFilters) *domain.RankingResponse {
	predicate := s.predicate(filters)

	rows, err := cache.Remember(s.cache, cache.TagDashboard, "ranking:"+predicate.CacheKey(), func() ([]domain.RankingRow, error) {
		return s.saleRepository.Ranking(ctx, predicate)
	})
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("Erro ao buscar ranking")
		return &domain.RankingResponse{
			Ranking:     []domain.RankingItem{},
			GeneratedAt: s.now(),
			Error:       msgRankingUnavailable,
		}
	}

	return &domain.RankingResponse{
		Ranking:     buildRanking(rows, s.profilesBySheetName(ctx)),
		GeneratedAt: s.now(),
	}
}

// buildRanking ordena por valor líquido (desempate pelo nome) e atribui a posição
func buildRanking(rows []domain.RankingRow, profiles map[string]domain.UserProfile) []domain.RankingItem {
	sorted := make([]domain.RankingRow, len(rows))
	copy(sorted, rows)

	sort.SliceStable(sorted, func(i, j int) bool {
		if cmp := sorted[i].NetTotal.Cmp(sorted[j].NetTotal); cmp != 0 {
			return cmp > 0
		}
		return sorted[i].Salesperson < sorted[j].Salesperson
	})

	items := make([]domain.RankingItem, 0, len(sorted))
	for i, row := range sorted {
		item := domain.RankingItem{
			Rank:        i + 1,
			Name:        row.Salesperson,
			DisplayName: row.Salesperson,
			NetTotal:    row.NetTotal,
			GrossTotal:  row.GrossTotal,
			SalesCount:  row.SalesCount,
		}

		if profile, ok := profiles[row.Salesperson]; ok {
			item.DisplayName = profile.DisplayName
			if profile.PhotoURL != nil {
				avatar := avatarPathPrefix + profile.ID
				item.PhotoURL = &avatar
			}
		}

		items = append(items, item)
	}

	return items
}

// profilesBySheetName devolve um mapa vazio se os perfis não puderem ser lidos;
// o ranking continua com os nomes da planilha.
func (s *DashboardService) profilesBySheetName(ctx context.Context) map[string]domain.UserProfile {
	profiles, err := cache.Remember(s.cache, cache.TagProfiles, "by-sheet-name", func() (map[string]domain.UserProfile, error) {
		list, err := s.profileRepository.List(ctx)
		if err != nil {
			return nil, err
		}

		bySheetName := make(map[string]domain.UserProfile, len(list))
		for _, profile := range list {
			bySheetName[profile.SheetName] = profile
		}
		return bySheetName, nil
	})
	if err != nil {
		log.ForContext(ctx).WithError(err).Warn("Erro ao carregar perfis, ranking sem nomes de exibição")
		return map[string]domain.UserProfile{}
	}

	return profiles
}

func (s *DashboardService) GetKPIs(ctx context.Context, filters domain.DashboardFilters) *domain.KPIResponse {
	predicate := s.predicate(filters)

	totals, err := cache.Remember(s.cache, cache.TagDashboard, "kpis:"+predicate.CacheKey(), func() (domain.SaleTotals, error) {
		return s.saleRepository.Totals(ctx, predicate)
	})
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("Erro ao calcular KPIs")
		return &domain.KPIResponse{Error: msgKPIsUnavailable}
	}

	return &domain.KPIResponse{
		NetTotal:      totals.NetTotal,
		GrossTotal:    totals.GrossTotal,
		SalesCount:    totals.Count,
		AverageTicket: totals.AverageTicket(),
	}
}

func (s *DashboardService) GetRecentSales(ctx context.Context, limit int) *domain.RecentSalesResponse {
	if limit <= 0 {
		limit = DefaultRecentSalesLimit
	}
	if limit > MaxRecentSalesLimit {
		limit = MaxRecentSalesLimit
	}

	sales, err := cache.Remember(s.cache, cache.TagDashboard, "recent:"+strconv.Itoa(limit), func() ([]domain.Sale, error) {
		return s.saleRepository.Recent(ctx, limit)
	})
	if err != nil {
		log.ForContext(ctx).WithFields(logrus.Fields{"limit": limit}).WithError(err).Error("Erro ao buscar vendas recentes")
		return &domain.RecentSalesResponse{Sales: []domain.Sale{}, Error: msgRecentUnavailable}
	}

	return &domain.RecentSalesResponse{Sales: sales}
}

func (s *DashboardService) GetFilterOptions(ctx context.Context) *domain.FilterOptions {
	options, err := cache.Remember(s.cache, cache.TagDashboard, "filters", func() (domain.FilterOptions, error) {
		return s.saleRepository.FilterOptions(ctx)
	})
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("Erro ao buscar opções de filtro")
		return &domain.FilterOptions{
			Salespeople:    []string{},
			Administrators: []string{},
			Error:          msgFiltersUnavailable,
		}
	}

	return &options
}

func (s *DashboardService) GetSyncStatus(ctx context.Context) (*domain.SyncStatus, error) {
	totals, err := s.saleRepository.Totals(ctx, domain.SalePredicate{})
	if err != nil {
		return nil, err
	}

	lastUpdate, err := s.saleRepository.LastUpdate(ctx)
	if err != nil {
		return nil, err
	}

	status := &domain.SyncStatus{
		LastSaleUpdate: lastUpdate,
		TotalSales:     totals.Count,
	}
	if s.ingestion != nil {
		status.LastIngestionAt = s.ingestion.LastIngestion()
	}

	return status, nil
}

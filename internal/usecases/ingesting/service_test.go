package ingesting

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-ranking-api/infrastructure/repository"
	"github.com/vfg2006/sales-ranking-api/infrastructure/repository/mocks"
	"github.com/vfg2006/sales-ranking-api/internal/audit"
	"github.com/vfg2006/sales-ranking-api/internal/cache"
	"github.com/vfg2006/sales-ranking-api/internal/domain"
	"github.com/vfg2006/sales-ranking-api/pkg/apiErrors"
	"go.uber.org/mock/gomock"
)

type fakePinger struct {
	err error
}

func (p fakePinger) Ping(context.Context) error {
	return p.err
}

type fakeCache struct {
	mu          sync.Mutex
	invalidated []string
}

func (c *fakeCache) Invalidate(tag string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, tag)
}

// memorySaleRepository grava por chave de negócio em memória
type memorySaleRepository struct {
	repository.SaleRepository

	mu   sync.Mutex
	rows map[domain.BusinessKey]domain.Sale
	seq  int
}

func newMemorySaleRepository() *memorySaleRepository {
	return &memorySaleRepository{rows: make(map[domain.BusinessKey]domain.Sale)}
}

func (r *memorySaleRepository) UpsertByBusinessKey(_ context.Context, sale *domain.Sale) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := sale.BusinessKey()
	if existing, ok := r.rows[key]; ok {
		sale.ID = existing.ID
		r.rows[key] = *sale
		return sale.ID, false, nil
	}

	r.seq++
	sale.ID = string(rune('a' + r.seq))
	r.rows[key] = *sale
	return sale.ID, true, nil
}

func saleRecord(salesperson, administrator, quota string) map[string]any {
	record := map[string]any{
		"consultor":     salesperson,
		"grupo":         "100",
		"cota":          quota,
		"valor_bruto":   "1.000,00",
		"valor_liquido": "900,00",
		"data_venda":    "10/05/2025",
	}
	if administrator != "" {
		record["administradora"] = administrator
	}
	return record
}

func TestService_Ingest_FalhaParcial(t *testing.T) {
	ctrl := gomock.NewController(t)
	saleRepository := mocks.NewMockSaleRepository(ctrl)
	cacheFake := &fakeCache{}
	trail := audit.NewTrail(10)

	saleRepository.EXPECT().
		UpsertByBusinessKey(gomock.Any(), gomock.Any()).
		Return("id", true, nil).
		Times(2)

	service := NewService(fakePinger{}, saleRepository, cacheFake, trail, Options{MaxConcurrentItems: 2})

	items := []any{
		saleRecord("Ana", "ITAU", "1"),
		saleRecord("Bia", "", "2"),
		saleRecord("Caio", "PORTO", "3"),
	}

	report, err := service.Ingest(context.Background(), items)
	require.NoError(t, err)

	assert.Equal(t, 3, report.TotalReceived)
	assert.Equal(t, 2, report.Succeeded)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 2, report.Created)
	require.Len(t, report.FailureDetails, 1)
	assert.Equal(t, 1, report.FailureDetails[0].Index)
	assert.Equal(t, "administrator", report.FailureDetails[0].Field)
	assert.Equal(t, "Bia", report.FailureDetails[0].Record["consultor"])

	assert.Equal(t, []string{cache.TagDashboard}, cacheFake.invalidated)
	entries := trail.Entries(0)
	require.Len(t, entries, 1)
	assert.Equal(t, audit.ActionIngestion, entries[0].Action)
	assert.NotNil(t, service.LastIngestion())
}

func TestService_Ingest_SegundaRequisicaoAtualiza(t *testing.T) {
	saleRepository := newMemorySaleRepository()
	service := NewService(fakePinger{}, saleRepository, &fakeCache{}, nil, Options{})

	first, err := service.Ingest(context.Background(), []any{saleRecord("Ana", "ITAU", "1")})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Created)

	second, err := service.Ingest(context.Background(), []any{saleRecord("Ana Paula", "itau", "1")})
	require.NoError(t, err)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 1, second.Updated)

	require.Len(t, saleRepository.rows, 1)
	for _, sale := range saleRepository.rows {
		assert.Equal(t, "Ana Paula", sale.Salesperson)
	}
}

func TestService_Ingest_ErroDePersistenciaNaoAfetaOutrosItens(t *testing.T) {
	ctrl := gomock.NewController(t)
	saleRepository := mocks.NewMockSaleRepository(ctrl)

	saleRepository.EXPECT().
		UpsertByBusinessKey(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, sale *domain.Sale) (string, bool, error) {
			if sale.Quota == "2" {
				return "", false, errors.New("deadlock detected")
			}
			return "id-" + sale.Quota, false, nil
		}).
		Times(3)

	service := NewService(fakePinger{}, saleRepository, nil, nil, Options{})

	report, err := service.Ingest(context.Background(), []any{
		saleRecord("Ana", "ITAU", "1"),
		saleRecord("Bia", "ITAU", "2"),
		saleRecord("Caio", "ITAU", "3"),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Succeeded)
	assert.Equal(t, 2, report.Updated)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.FailureDetails, 1)
	assert.Equal(t, 1, report.FailureDetails[0].Index)
	assert.Equal(t, "database", report.FailureDetails[0].Field)
}

func TestService_Ingest_LimitaDetalhesDeFalha(t *testing.T) {
	ctrl := gomock.NewController(t)
	saleRepository := mocks.NewMockSaleRepository(ctrl)
	cacheFake := &fakeCache{}

	service := NewService(fakePinger{}, saleRepository, cacheFake, nil, Options{MaxFailureDetails: 2})

	items := []any{"texto", 10, map[string]any{}, nil}
	report, err := service.Ingest(context.Background(), items)
	require.NoError(t, err)

	assert.Equal(t, 4, report.Failed)
	assert.Equal(t, 0, report.Succeeded)
	require.Len(t, report.FailureDetails, 2)
	assert.Equal(t, 0, report.FailureDetails[0].Index)
	assert.Equal(t, "item", report.FailureDetails[0].Field)
	assert.Equal(t, 1, report.FailureDetails[1].Index)
	assert.Empty(t, cacheFake.invalidated)
	assert.Nil(t, service.LastIngestion())
}

func TestService_Ingest_BancoIndisponivel(t *testing.T) {
	ctrl := gomock.NewController(t)
	saleRepository := mocks.NewMockSaleRepository(ctrl)

	service := NewService(fakePinger{err: errors.New("connection refused")}, saleRepository, nil, nil, Options{})

	report, err := service.Ingest(context.Background(), []any{saleRecord("Ana", "ITAU", "1")})
	require.Error(t, err)
	assert.Nil(t, report)
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	var ingestionErr *IngestionError
	require.True(t, errors.As(err, &ingestionErr))
	assert.Equal(t, apiErrors.ErrDatabaseOperation, ingestionErr.Code)
}

func TestService_Ingest_TempoDeProcessamento(t *testing.T) {
	saleRepository := newMemorySaleRepository()
	service := NewService(fakePinger{}, saleRepository, nil, nil, Options{})

	calls := 0
	base := time.Date(2025, time.May, 10, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls-1) * 250 * time.Millisecond)
	}

	report, err := service.Ingest(context.Background(), []any{saleRecord("Ana", "ITAU", "1")})
	require.NoError(t, err)
	assert.Equal(t, int64(250), report.ProcessingTimeMs)
}

func TestService_Describe(t *testing.T) {
	service := NewService(fakePinger{}, nil, nil, nil, Options{})

	description := service.Describe(5000)

	assert.Equal(t, "POST", description["method"])
	limits := description["limits"].(map[string]any)
	assert.Equal(t, 5000, limits["max_batch_size"])
	assert.Equal(t, 10, limits["max_failure_details"])
}

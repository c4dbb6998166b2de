package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-ranking-api/internal/api/handler"
	"github.com/vfg2006/sales-ranking-api/internal/config"
	"github.com/vfg2006/sales-ranking-api/internal/domain"
	"github.com/vfg2006/sales-ranking-api/internal/usecases/listing"
	"github.com/vfg2006/sales-ranking-api/internal/usecases/profiling"
	"github.com/vfg2006/sales-ranking-api/pkg/apiErrors"
)

type fakeIngestion struct {
	received []any
}

func (f *fakeIngestion) Ingest(_ context.Context, items []any) (*domain.IngestionReport, error) {
	f.received = items
	return &domain.IngestionReport{
		TotalReceived: len(items),
		Succeeded:     len(items) - 1,
		Failed:        1,
		FailureDetails: []domain.FailureDetail{
			{Index: 1, Field: "administrator", Message: "administradora é obrigatória"},
		},
	}, nil
}

func (f *fakeIngestion) LastIngestion() *time.Time { return nil }

func (f *fakeIngestion) Describe(maxBatchSize int) map[string]any {
	return map[string]any{"method": "POST", "limits": map[string]any{"max_batch_size": maxBatchSize}}
}

type fakeRanking struct {
	filters domain.DashboardFilters
}

func (f *fakeRanking) GetRanking(_ context.Context, filters domain.DashboardFilters) *domain.RankingResponse {
	f.filters = filters
	return &domain.RankingResponse{Ranking: []domain.RankingItem{}}
}

func (f *fakeRanking) GetKPIs(_ context.Context, filters domain.DashboardFilters) *domain.KPIResponse {
	f.filters = filters
	return &domain.KPIResponse{NetTotal: decimal.NewFromInt(100)}
}

func (f *fakeRanking) GetRecentSales(context.Context, int) *domain.RecentSalesResponse {
	return &domain.RecentSalesResponse{Sales: []domain.Sale{}}
}

func (f *fakeRanking) GetFilterOptions(context.Context) *domain.FilterOptions {
	return &domain.FilterOptions{Salespeople: []string{"Ana"}, Administrators: []string{"ITAU"}}
}

func (f *fakeRanking) GetSyncStatus(context.Context) (*domain.SyncStatus, error) {
	return &domain.SyncStatus{TotalSales: 3}, nil
}

type fakeListing struct {
	createErr error
}

func (f *fakeListing) ListSales(_ context.Context, query domain.SalesListQuery) *domain.SalesPage {
	return &domain.SalesPage{Data: []domain.Sale{}, CurrentPage: query.Page}
}

func (f *fakeListing) CreateSale(_ context.Context, input domain.SaleInput) (*domain.Sale, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &domain.Sale{ID: "nova", Salesperson: input.Salesperson}, nil
}

func (f *fakeListing) Export(context.Context, domain.SalesListQuery, listing.ExportFormat) (*listing.ExportFile, error) {
	return &listing.ExportFile{Name: "vendas.csv", ContentType: "text/csv; charset=utf-8", Content: []byte("a,b\n")}, nil
}

type fakeAudit struct {
	purged bool
}

func (f *fakeAudit) Stats(context.Context) (*domain.AuditStats, error) {
	return &domain.AuditStats{}, nil
}

func (f *fakeAudit) Outliers(context.Context) ([]domain.Sale, error) { return nil, nil }

func (f *fakeAudit) Duplicates(context.Context) ([]domain.DuplicateGroup, error) {
	return nil, errors.New("timeout")
}

func (f *fakeAudit) Logs(int) []domain.AuditEntry { return []domain.AuditEntry{} }

func (f *fakeAudit) PurgeSales(context.Context) (int64, error) {
	f.purged = true
	return 7, nil
}

type fakeProfiles struct {
	avatar *profiling.Avatar
}

func (f *fakeProfiles) List(context.Context) ([]domain.UserProfile, error) { return nil, nil }

func (f *fakeProfiles) Create(context.Context, domain.UserProfileRequest) (*domain.UserProfile, error) {
	return nil, profiling.NewProfileError(profiling.ErrSheetNameTaken, apiErrors.ErrAlreadyExists, "Ana")
}

func (f *fakeProfiles) Update(_ context.Context, id string, _ domain.UserProfileRequest) (*domain.UserProfile, error) {
	return nil, profiling.NewProfileErrorWithID(profiling.ErrProfileNotFound, apiErrors.ErrNotFound, id, "")
}

func (f *fakeProfiles) Delete(context.Context, string) error { return nil }

func (f *fakeProfiles) GetAvatar(context.Context, string) (*profiling.Avatar, error) {
	if f.avatar == nil {
		return nil, profiling.NewProfileError(profiling.ErrAvatarNotFound, apiErrors.ErrNotFound, "")
	}
	return f.avatar, nil
}

type fakeCronJob struct {
	triggered int
}

func (f *fakeCronJob) TriggerManualSync() { f.triggered++ }

func (f *fakeCronJob) GetStatus() map[string]any { return map[string]any{"sync_running": false} }

type testServer struct {
	handler   http.Handler
	ingestion *fakeIngestion
	ranking   *fakeRanking
	listing   *fakeListing
	audit     *fakeAudit
	profiles  *fakeProfiles
	cron      *fakeCronJob
}

func newTestServer() *testServer {
	cfg := &config.Config{
		App:       config.App{Location: time.UTC},
		Auth:      config.Auth{WebhookToken: "wh-token", AdminToken: "adm-token"},
		Ingestion: config.Ingestion{MaxBatchSize: 2, MaxBodyBytes: 1024},
		RateLimit: config.RateLimit{WebhookPerMinute: 100, ReadPerMinute: 100, WritePerMinute: 100},
	}

	ts := &testServer{
		ingestion: &fakeIngestion{},
		ranking:   &fakeRanking{},
		listing:   &fakeListing{},
		audit:     &fakeAudit{},
		profiles:  &fakeProfiles{},
		cron:      &fakeCronJob{},
	}
	ts.handler = NewHandler(cfg, Services{
		Ingestion: ts.ingestion,
		Ranking:   ts.ranking,
		Listing:   ts.listing,
		Auditing:  ts.audit,
		Profiles:  ts.profiles,
		CronJobs:  handler.CronJobServices{DuplicateAuditService: ts.cron},
	})
	return ts
}

func (ts *testServer) do(method, target, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestWebhook(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		body       string
		token      string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "Lote parcialmente inválido responde 200",
			path:       "/v1/webhook/sales",
			body:       `[{"consultor":"Ana"},{"consultor":"Bia"}]`,
			token:      "wh-token",
			wantStatus: http.StatusOK,
		},
		{
			name:       "Alias do n8n",
			path:       "/api/webhook/n8n",
			body:       `{"vendas":[{"consultor":"Ana"}]}`,
			token:      "wh-token",
			wantStatus: http.StatusOK,
		},
		{
			name:       "Token errado",
			path:       "/v1/webhook/sales",
			body:       `[{"consultor":"Ana"}]`,
			token:      "adm-token",
			wantStatus: http.StatusUnauthorized,
			wantCode:   apiErrors.ErrInvalidToken,
		},
		{
			name:       "JSON inválido",
			path:       "/v1/webhook/sales",
			body:       `{"vendas":`,
			token:      "wh-token",
			wantStatus: http.StatusBadRequest,
			wantCode:   apiErrors.ErrInvalidFormat,
		},
		{
			name:       "Lote vazio",
			path:       "/v1/webhook/sales",
			body:       `[]`,
			token:      "wh-token",
			wantStatus: http.StatusBadRequest,
			wantCode:   apiErrors.ErrEmptyPayload,
		},
		{
			name:       "Lote acima do limite",
			path:       "/v1/webhook/sales",
			body:       `[{},{},{}]`,
			token:      "wh-token",
			wantStatus: http.StatusBadRequest,
			wantCode:   apiErrors.ErrBatchTooLarge,
		},
		{
			name:       "Corpo acima do limite de bytes",
			path:       "/v1/webhook/sales",
			body:       `[{"consultor":"` + strings.Repeat("a", 2048) + `"}]`,
			token:      "wh-token",
			wantStatus: http.StatusRequestEntityTooLarge,
			wantCode:   apiErrors.ErrPayloadTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer()

			rec := ts.do(http.MethodPost, tt.path, tt.body, tt.token)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeBody(t, rec)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, body["code"])
				assert.Nil(t, ts.ingestion.received)
				return
			}
			assert.NotNil(t, body["failure_details"])
			assert.NotEmpty(t, ts.ingestion.received)
		})
	}
}

func TestWebhook_Descricao(t *testing.T) {
	ts := newTestServer()

	rec := ts.do(http.MethodGet, "/v1/webhook/sales", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "POST", decodeBody(t, rec)["method"])
}

func TestDashboard_Filtros(t *testing.T) {
	ts := newTestServer()

	rec := ts.do(http.MethodGet, "/v1/dashboard/ranking?mes=12&ano=2025&administradora=ITAU&consultores=Ana,Bia", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "12", ts.ranking.filters.Month)
	assert.Equal(t, "2025", ts.ranking.filters.Year)
	assert.Equal(t, "ITAU", ts.ranking.filters.Administrator)
	assert.Equal(t, []string{"Ana", "Bia"}, ts.ranking.filters.Salespeople)

	rec = ts.do(http.MethodGet, "/v1/dashboard/kpis?month=13", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apiErrors.ErrInvalidFilter, decodeBody(t, rec)["code"])

	rec = ts.do(http.MethodGet, "/v1/dashboard/kpis?start_date=2025-05-10&end_date=2025-05-01", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSales(t *testing.T) {
	t.Run("Listagem", func(t *testing.T) {
		ts := newTestServer()
		rec := ts.do(http.MethodGet, "/v1/sales?page=2", "", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.EqualValues(t, 2, decodeBody(t, rec)["current_page"])
	})

	t.Run("Cadastro exige token de administração", func(t *testing.T) {
		ts := newTestServer()
		rec := ts.do(http.MethodPost, "/v1/sales", `{"salesperson":"Ana"}`, "wh-token")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		rec = ts.do(http.MethodPost, "/v1/sales", `{"salesperson":"Ana"}`, "adm-token")
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("Cadastro duplicado", func(t *testing.T) {
		ts := newTestServer()
		ts.listing.createErr = listing.NewListingError(listing.ErrSaleAlreadyExists, apiErrors.ErrAlreadyExists, "")
		rec := ts.do(http.MethodPost, "/v1/sales", `{"salesperson":"Ana"}`, "adm-token")
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("Exportação", func(t *testing.T) {
		ts := newTestServer()
		rec := ts.do(http.MethodGet, "/v1/sales/export?format=csv", "", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, `attachment; filename="vendas.csv"`, rec.Header().Get("Content-Disposition"))
		assert.Equal(t, "a,b\n", rec.Body.String())

		rec = ts.do(http.MethodGet, "/v1/sales/export?format=pdf", "", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Expurgo com token na query", func(t *testing.T) {
		ts := newTestServer()
		rec := ts.do(http.MethodDelete, "/v1/admin/sales?token=errado", "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, ts.audit.purged)

		rec = ts.do(http.MethodDelete, "/v1/admin/sales?token=adm-token", "", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, ts.audit.purged)
		assert.EqualValues(t, 7, decodeBody(t, rec)["deleted"])
	})
}

func TestAudit(t *testing.T) {
	ts := newTestServer()

	rec := ts.do(http.MethodGet, "/v1/audit/outliers", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{}, decodeBody(t, rec)["sales"])

	rec = ts.do(http.MethodGet, "/v1/audit/duplicates", "", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = ts.do(http.MethodGet, "/v1/audit/logs", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProfiles(t *testing.T) {
	ts := newTestServer()

	rec := ts.do(http.MethodGet, "/v1/users", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())

	rec = ts.do(http.MethodPost, "/v1/users", `{"sheet_name":"Ana","display_name":"Ana"}`, "adm-token")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, apiErrors.ErrAlreadyExists, decodeBody(t, rec)["code"])

	rec = ts.do(http.MethodPut, "/v1/users/xyz", `{"sheet_name":"Ana","display_name":"Ana"}`, "adm-token")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(http.MethodPost, "/v1/users", `{`, "adm-token")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAvatar(t *testing.T) {
	t.Run("Sem foto", func(t *testing.T) {
		ts := newTestServer()
		rec := ts.do(http.MethodGet, "/v1/avatar/abc", "", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("URL externa", func(t *testing.T) {
		ts := newTestServer()
		ts.profiles.avatar = &profiling.Avatar{RedirectURL: "https://cdn.exemplo.com/ana.png"}
		rec := ts.do(http.MethodGet, "/v1/avatar/abc", "", "")
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "https://cdn.exemplo.com/ana.png", rec.Header().Get("Location"))
	})

	t.Run("Imagem em base64", func(t *testing.T) {
		ts := newTestServer()
		ts.profiles.avatar = &profiling.Avatar{ContentType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}}
		rec := ts.do(http.MethodGet, "/v1/avatar/abc", "", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
		assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, rec.Body.Bytes())
	})
}

func TestCronJobs(t *testing.T) {
	ts := newTestServer()

	rec := ts.do(http.MethodPost, "/v1/cron/duplicate-audit/run", "", "adm-token")
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, 1, ts.cron.triggered)

	rec = ts.do(http.MethodPost, "/v1/cron/all/run", "", "adm-token")
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, 2, ts.cron.triggered)

	rec = ts.do(http.MethodPost, "/v1/cron/meta/run", "", "adm-token")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(http.MethodGet, "/v1/cron/status", "", "adm-token")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decodeBody(t, rec), "duplicate-audit")
}

func TestHealthcheck(t *testing.T) {
	ts := newTestServer()

	rec := ts.do(http.MethodGet, "/healthcheck", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody(t, rec)["status"])
}

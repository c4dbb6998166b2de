package handler

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-ranking-api/internal/domain"
)

func TestParseDashboardFilters(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    domain.DashboardFilters
		wantErr error
	}{
		{
			name:  "Nomes em português",
			query: "mes=5&ano=2025&consultor=Ana&administradora=ITAU",
			want:  domain.DashboardFilters{Month: "5", Year: "2025", Salesperson: "Ana", Administrator: "ITAU"},
		},
		{
			name:  "Nomes em inglês com listas",
			query: "month=all&year=0&salespeople=Ana&salespeople=Bia,Caio&administrators=ITAU",
			want: domain.DashboardFilters{
				Month:          "all",
				Year:           "0",
				Salespeople:    []string{"Ana", "Bia", "Caio"},
				Administrators: []string{"ITAU"},
			},
		},
		{
			name:    "Semestre inválido",
			query:   "ano=2025&semestre=3",
			want:    domain.DashboardFilters{Year: "2025", Semester: "3"},
			wantErr: domain.ErrInvalidSemester,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			got, err := parseDashboardFilters(q, time.UTC)

			assert.Equal(t, tt.want, got)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestParseDashboardFilters_Datas(t *testing.T) {
	q := url.Values{"data_inicio": {"01/05/2025"}, "end_date": {"2025-05-31"}}

	got, err := parseDashboardFilters(q, time.UTC)

	require.NoError(t, err)
	require.NotNil(t, got.StartDate)
	require.NotNil(t, got.EndDate)
	assert.Equal(t, time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC), *got.StartDate)
	assert.Equal(t, time.Date(2025, time.May, 31, 0, 0, 0, 0, time.UTC), *got.EndDate)

	_, err = parseDashboardFilters(url.Values{"start_date": {"ontem"}}, time.UTC)
	assert.Error(t, err)
}

func TestParseSalesListQuery(t *testing.T) {
	q := url.Values{"page": {"3"}, "limit": {"50"}, "sortBy": {"valorLiquido"}, "sortDir": {"asc"}}

	got, err := parseSalesListQuery(q, time.UTC)

	require.NoError(t, err)
	assert.Equal(t, 3, got.Page)
	assert.Equal(t, 50, got.Limit)
	assert.Equal(t, "valorLiquido", got.SortBy)
	assert.Equal(t, "asc", got.SortDir)
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RankingRow é uma linha agregada por consultor, antes do enriquecimento com perfis
type RankingRow struct {
	Salesperson string
	NetTotal    decimal.Decimal
	GrossTotal  decimal.Decimal
	SalesCount  int64
}

type RankingItem struct {
	Rank        int             `json:"rank"`
	Name        string          `json:"name"`
	DisplayName string          `json:"display_name"`
	PhotoURL    *string         `json:"photo_url"`
	NetTotal    decimal.Decimal `json:"net_total"`
	GrossTotal  decimal.Decimal `json:"gross_total"`
	SalesCount  int64           `json:"sales_count"`
}

type RankingResponse struct {
	Ranking     []RankingItem `json:"ranking"`
	GeneratedAt time.Time     `json:"generated_at"`
	Error       string        `json:"error,omitempty"`
}

type KPIResponse struct {
	NetTotal      decimal.Decimal `json:"net_total"`
	GrossTotal    decimal.Decimal `json:"gross_total"`
	SalesCount    int64           `json:"sales_count"`
	AverageTicket decimal.Decimal `json:"average_ticket"`
	Error         string          `json:"error,omitempty"`
}

type RecentSalesResponse struct {
	Sales []Sale `json:"sales"`
	Error string `json:"error,omitempty"`
}

type FilterOptions struct {
	Salespeople    []string `json:"salespeople"`
	Administrators []string `json:"administrators"`
	Error          string   `json:"error,omitempty"`
}

// SalesListQuery é o pedido da listagem paginada
type SalesListQuery struct {
	Filters DashboardFilters
	Page    int
	Limit   int
	SortBy  string
	SortDir string
}

type SalesListAggregations struct {
	NetTotal      decimal.Decimal `json:"net_total"`
	GrossTotal    decimal.Decimal `json:"gross_total"`
	AverageTicket decimal.Decimal `json:"average_ticket"`
}

type SalesPage struct {
	Data         []Sale                `json:"data"`
	TotalRecords int64                 `json:"total_records"`
	TotalPages   int                   `json:"total_pages"`
	CurrentPage  int                   `json:"current_page"`
	Limit        int                   `json:"limit"`
	Aggregations SalesListAggregations `json:"aggregations"`
	Error        string                `json:"error,omitempty"`
}

// SyncStatus informa a última ingestão e o volume total de vendas
type SyncStatus struct {
	LastIngestionAt *time.Time `json:"last_ingestion_at"`
	LastSaleUpdate  *time.Time `json:"last_sale_update"`
	TotalSales      int64      `json:"total_sales"`
}

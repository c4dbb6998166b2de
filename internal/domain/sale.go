package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LegacyCode é usado em grupo/cota de vendas importadas antes da chave de negócio existir
const LegacyCode = "LEGADO"

// Sale é uma venda registrada. A chave de negócio é (Administrator, Group, Quota).
type Sale struct {
	ID            string          `json:"id"`
	Salesperson   string          `json:"salesperson"`
	Administrator string          `json:"administrator"`
	Group         string          `json:"group"`
	Quota         string          `json:"quota"`
	GrossValue    decimal.Decimal `json:"gross_value"`
	NetValue      decimal.Decimal `json:"net_value"`
	SaleDate      time.Time       `json:"sale_date"`
	Competence    string          `json:"competence"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type BusinessKey struct {
	Administrator string
	Group         string
	Quota         string
}

func (s *Sale) BusinessKey() BusinessKey {
	return BusinessKey{
		Administrator: s.Administrator,
		Group:         s.Group,
		Quota:         s.Quota,
	}
}

func (k BusinessKey) String() string {
	return k.Administrator + "|" + k.Group + "|" + k.Quota
}

// SaleInput é o corpo do cadastro manual de venda
type SaleInput struct {
	Salesperson   string `json:"salesperson"`
	Administrator string `json:"administrator"`
	Group         string `json:"group"`
	Quota         string `json:"quota"`
	GrossValue    any    `json:"gross_value"`
	NetValue      any    `json:"net_value"`
	SaleDate      string `json:"sale_date"`
	Month         int    `json:"month"`
	Year          int    `json:"year"`
}

// SaleTotals agrega valores de um conjunto de vendas
type SaleTotals struct {
	NetTotal   decimal.Decimal `json:"net_total"`
	GrossTotal decimal.Decimal `json:"gross_total"`
	Count      int64           `json:"count"`
}

// AverageTicket é o valor líquido médio por venda
func (t SaleTotals) AverageTicket() decimal.Decimal {
	if t.Count == 0 {
		return decimal.Zero
	}
	return t.NetTotal.Div(decimal.NewFromInt(t.Count)).Round(2)
}

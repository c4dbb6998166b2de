package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuditEntry é um registro do log de auditoria em memória
type AuditEntry struct {
	ID        string         `json:"id"`
	Action    string         `json:"action"`
	Details   map[string]any `json:"details,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// DuplicateGroup é uma chave de negócio com mais de uma venda
type DuplicateGroup struct {
	Administrator string   `json:"administrator"`
	Group         string   `json:"group"`
	Quota         string   `json:"quota"`
	Count         int64    `json:"count"`
	SaleIDs       []string `json:"sale_ids"`
}

// AuditStats são os totais históricos, sem filtro de período
type AuditStats struct {
	SaleTotals
	AverageTicket decimal.Decimal `json:"average_ticket"`
}

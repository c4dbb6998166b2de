// Package audit mantém em memória as últimas ações administrativas e ingestões
package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-ranking-api/internal/domain"
	"github.com/vfg2006/sales-ranking-api/pkg/log"
)

const DefaultCapacity = 1000

const (
	ActionIngestion      = "ingestion"
	ActionSaleCreated    = "sale_created"
	ActionSalesPurged    = "sales_purged"
	ActionProfileSaved   = "profile_saved"
	ActionProfileDelete  = "profile_deleted"
	ActionDuplicateAudit = "duplicate_audit"
)

type Trail struct {
	mu       sync.Mutex
	capacity int
	entries  []domain.AuditEntry
	now      func() time.Time
}

func NewTrail(capacity int) *Trail {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Trail{
		capacity: capacity,
		entries:  make([]domain.AuditEntry, 0, capacity),
		now:      time.Now,
	}
}

// Record adiciona uma entrada, descartando a mais antiga quando cheio
func (t *Trail) Record(ctx context.Context, action string, details map[string]any) {
	entryDetails := make(map[string]any, len(details)+1)
	for k, v := range details {
		entryDetails[k] = v
	}
	if correlationID := log.GetCorrelationID(ctx); correlationID != "" {
		entryDetails["correlation_id"] = correlationID
	}

	entry := domain.AuditEntry{
		ID:        uuid.NewString(),
		Action:    action,
		Details:   entryDetails,
		CreatedAt: t.now(),
	}

	t.mu.Lock()
	if len(t.entries) == t.capacity {
		copy(t.entries, t.entries[1:])
		t.entries = t.entries[:len(t.entries)-1]
	}
	t.entries = append(t.entries, entry)
	t.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"action":  action,
		"details": details,
	}).Info("Auditoria registrada")
}

// Entries devolve até limit entradas, da mais recente para a mais antiga
func (t *Trail) Entries(limit int) []domain.AuditEntry {
	t.mu.Lock()
	defer t.mu.Unlock()

	if limit <= 0 || limit > len(t.entries) {
		limit = len(t.entries)
	}

	out := make([]domain.AuditEntry, 0, limit)
	for i := len(t.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, t.entries[i])
	}
	return out
}

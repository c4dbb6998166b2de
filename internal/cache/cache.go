// Package cache guarda resultados de leitura do dashboard agrupados por tag.
// Uma escrita de vendas invalida a tag inteira de uma vez.
package cache

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/sirupsen/logrus"
)

const (
	// TagDashboard agrupa ranking, KPIs, listagem e opções de filtro
	TagDashboard = "dashboard"
	// TagProfiles guarda o mapa nome na planilha -> perfil
	TagProfiles = "profiles"
)

type Tagged struct {
	mu     sync.RWMutex
	size   int
	ttl    time.Duration
	stores map[string]*expirable.LRU[string, any]
	// generations conta as invalidações de cada tag
	generations map[string]uint64
}

func New(size int, ttl time.Duration) *Tagged {
	if size <= 0 {
		size = 256
	}
	return &Tagged{
		size:        size,
		ttl:         ttl,
		stores:      make(map[string]*expirable.LRU[string, any]),
		generations: make(map[string]uint64),
	}
}

func (c *Tagged) store(tag string) *expirable.LRU[string, any] {
	c.mu.RLock()
	s, ok := c.stores[tag]
	c.mu.RUnlock()
	if ok {
		return s
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.storeLocked(tag)
}

func (c *Tagged) storeLocked(tag string) *expirable.LRU[string, any] {
	if s, ok := c.stores[tag]; ok {
		return s
	}
	s := expirable.NewLRU[string, any](c.size, nil, c.ttl)
	c.stores[tag] = s
	return s
}

func (c *Tagged) generation(tag string) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generations[tag]
}

// setIfGeneration só grava se a tag não foi invalidada desde gen
func (c *Tagged) setIfGeneration(tag, key string, value any, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations[tag] != gen {
		return false
	}
	c.storeLocked(tag).Add(key, value)
	return true
}

func (c *Tagged) Get(tag, key string) (any, bool) {
	return c.store(tag).Get(key)
}

func (c *Tagged) Set(tag, key string, value any) {
	c.store(tag).Add(key, value)
}

// Invalidate descarta todas as entradas da tag. Um cache nil não faz nada.
func (c *Tagged) Invalidate(tag string) {
	if c == nil {
		return
	}

	c.mu.Lock()
	c.generations[tag]++
	s, ok := c.stores[tag]
	if ok {
		s.Purge()
	}
	c.mu.Unlock()

	logrus.WithField("tag", tag).Debug("Cache invalidado")
}

// Remember devolve o valor em cache ou executa load e guarda o resultado.
// Erros de load não são guardados, nem resultados de um load que cruzou
// uma invalidação da tag.
func Remember[T any](c *Tagged, tag, key string, load func() (T, error)) (T, error) {
	var gen uint64
	if c != nil {
		gen = c.generation(tag)
		if cached, ok := c.Get(tag, key); ok {
			if value, ok := cached.(T); ok {
				return value, nil
			}
		}
	}

	value, err := load()
	if err != nil {
		return value, err
	}

	if c != nil && !c.setIfGeneration(tag, key, value, gen) {
		logrus.WithFields(logrus.Fields{"tag": tag, "key": key}).Debug("Tag invalidada durante a leitura, resultado não guardado")
	}
	return value, nil
}

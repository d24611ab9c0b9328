package environment

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"rail-risk-go/pkg/models"

	"github.com/sirupsen/logrus"
)

// Cache хранит уже полученные окружения по ключу
type Cache interface {
	Get(ctx context.Context, key string) (models.Environment, bool, error)
	Set(ctx context.Context, key string, env models.Environment) error
}

// StationKey возвращает ключ кеша для окружения станции
func StationKey(stationID string) string {
	return fmt.Sprintf("env:station:%s", stationID)
}

// SegmentKey возвращает ключ кеша для окружения участка
func SegmentKey(segmentID string, distanceMeters float64) string {
	return fmt.Sprintf("env:segment:%s:%s", segmentID, strconv.FormatFloat(distanceMeters, 'f', -1, 64))
}

// MemoryCache - потокобезопасный кеш в памяти. Создается на один запрос
// или на время жизни процесса, глобального состояния нет.
type MemoryCache struct {
	mu    sync.RWMutex
	items map[string]models.Environment
}

// NewMemoryCache создает пустой кеш
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{items: make(map[string]models.Environment)}
}

// Get возвращает окружение по ключу
func (c *MemoryCache) Get(_ context.Context, key string) (models.Environment, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	env, ok := c.items[key]
	return env, ok, nil
}

// Set сохраняет окружение
func (c *MemoryCache) Set(_ context.Context, key string, env models.Environment) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = env
	return nil
}

// Len возвращает число записей
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// CachedGenerator оборачивает генератор кешем. Ошибки кеша не прерывают
// расчет: значение запрашивается у генератора напрямую.
type CachedGenerator struct {
	next   Generator
	cache  Cache
	logger *logrus.Logger
}

// NewCachedGenerator создает генератор с кешем
func NewCachedGenerator(next Generator, cache Cache, logger *logrus.Logger) *CachedGenerator {
	return &CachedGenerator{next: next, cache: cache, logger: logger}
}

// StationEnvironment возвращает окружение станции, используя кеш
func (g *CachedGenerator) StationEnvironment(ctx context.Context, stationID string) (models.Environment, error) {
	return g.lookup(ctx, StationKey(stationID), func() (models.Environment, error) {
		return g.next.StationEnvironment(ctx, stationID)
	})
}

// SegmentEnvironment возвращает окружение участка, используя кеш
func (g *CachedGenerator) SegmentEnvironment(ctx context.Context, segmentID string, distanceMeters float64) (models.Environment, error) {
	return g.lookup(ctx, SegmentKey(segmentID, distanceMeters), func() (models.Environment, error) {
		return g.next.SegmentEnvironment(ctx, segmentID, distanceMeters)
	})
}

func (g *CachedGenerator) lookup(ctx context.Context, key string, load func() (models.Environment, error)) (models.Environment, error) {
	env, ok, err := g.cache.Get(ctx, key)
	if err != nil {
		g.logger.Warnf("Кеш окружения недоступен (%s): %v", key, err)
	} else if ok {
		return env, nil
	}

	env, err = load()
	if err != nil {
		return nil, err
	}

	if err := g.cache.Set(ctx, key, env); err != nil {
		g.logger.Warnf("Не удалось сохранить окружение в кеш (%s): %v", key, err)
	}
	return env, nil
}

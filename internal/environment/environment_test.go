package environment

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"rail-risk-go/pkg/models"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type countingGenerator struct {
	mu       sync.Mutex
	stations int
	segments int
}

func (g *countingGenerator) StationEnvironment(_ context.Context, id string) (models.Environment, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.stations++
	return models.Environment{"id": id}, nil
}

func (g *countingGenerator) SegmentEnvironment(_ context.Context, id string, d float64) (models.Environment, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.segments++
	return models.Environment{"id": id, "distance_m": d}, nil
}

type brokenCache struct{}

func (brokenCache) Get(context.Context, string) (models.Environment, bool, error) {
	return nil, false, errors.New("connection refused")
}

func (brokenCache) Set(context.Context, string, models.Environment) error {
	return errors.New("connection refused")
}

func TestLocalGenerator_Deterministic(t *testing.T) {
	g := NewLocalGenerator()
	ctx := context.Background()

	a, err := g.StationEnvironment(ctx, "DEL")
	require.NoError(t, err)
	b, err := g.StationEnvironment(ctx, "DEL")
	require.NoError(t, err)
	assert.Equal(t, a, b)

	other, err := g.StationEnvironment(ctx, "AGC")
	require.NoError(t, err)
	assert.NotEqual(t, a, other)

	seg, err := g.SegmentEnvironment(ctx, "DEL-AGC-0", 100)
	require.NoError(t, err)
	assert.Equal(t, 100.0, seg["distance_m"])
	assert.Contains(t, terrains, seg["terrain"])
	for _, k := range []string{"flood_risk", "landslide_risk", "vegetation", "visibility"} {
		v, ok := seg[k].(float64)
		require.True(t, ok, k)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestLocalGenerator_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLocalGenerator().StationEnvironment(ctx, "DEL")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHashStream_RehashesAfterFourValues(t *testing.T) {
	h := newHashStream("x")
	seen := make(map[uint64]bool)
	for i := 0; i < 12; i++ {
		seen[h.next()] = true
	}
	assert.Len(t, seen, 12)
}

func TestCachedGenerator_UsesCache(t *testing.T) {
	inner := &countingGenerator{}
	cache := NewMemoryCache()
	g := NewCachedGenerator(inner, cache, quietLogger())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := g.StationEnvironment(ctx, "DEL")
		require.NoError(t, err)
		_, err = g.SegmentEnvironment(ctx, "DEL-AGC-0", 100)
		require.NoError(t, err)
	}
	_, err := g.SegmentEnvironment(ctx, "DEL-AGC-0", 250)
	require.NoError(t, err)

	assert.Equal(t, 1, inner.stations)
	assert.Equal(t, 2, inner.segments)
	assert.Equal(t, 3, cache.Len())
}

func TestCachedGenerator_BrokenCacheFallsThrough(t *testing.T) {
	inner := &countingGenerator{}
	g := NewCachedGenerator(inner, brokenCache{}, quietLogger())

	env, err := g.StationEnvironment(context.Background(), "DEL")
	require.NoError(t, err)
	assert.Equal(t, "DEL", env["id"])
	assert.Equal(t, 1, inner.stations)
}

func TestMemoryCache_ConcurrentAccess(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := SegmentKey("A-B", float64(i))
			assert.NoError(t, cache.Set(ctx, key, models.Environment{"i": i}))
			_, ok, err := cache.Get(ctx, key)
			assert.NoError(t, err)
			assert.True(t, ok)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 16, cache.Len())
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "env:station:DEL", StationKey("DEL"))
	assert.Equal(t, "env:segment:DEL-AGC-3:100", SegmentKey("DEL-AGC-3", 100))
	assert.Equal(t, "env:segment:DEL-AGC-3:12.5", SegmentKey("DEL-AGC-3", 12.5))
}

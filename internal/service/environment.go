package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"rail-risk-go/internal/environment"
	"rail-risk-go/internal/segment"
	"rail-risk-go/pkg/models"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ErrInvalidRequest возвращается при некорректных входных данных
var ErrInvalidRequest = errors.New("invalid request")

type source struct{}

// WithSource помечает контекст транспортом вызова (http, grpc) для журнала
func WithSource(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, source{}, name)
}

func sourceFrom(ctx context.Context) string {
	if v, ok := ctx.Value(source{}).(string); ok && v != "" {
		return v
	}
	return "http"
}

// networkEnvironment - окружение станций и участки всех ребер одного запроса
type networkEnvironment struct {
	stations map[string]models.Environment
	segments map[string][]models.Segment
}

// segmentCount возвращает общее число участков
func (n *networkEnvironment) segmentCount() int {
	total := 0
	for _, segs := range n.segments {
		total += len(segs)
	}
	return total
}

// environmentBuilder строит окружение сети. Кеш создается на каждый запрос,
// поэтому одинаковые станции и участки запрашиваются у генератора один раз.
type environmentBuilder struct {
	generator     environment.Generator
	segmentLength float64
	workers       int
	logger        *logrus.Logger
}

func (b *environmentBuilder) build(ctx context.Context, stations []models.Station, edges []models.Edge, segmentLength float64) (*networkEnvironment, error) {
	if segmentLength <= 0 {
		segmentLength = b.segmentLength
	}

	gen := environment.NewCachedGenerator(b.generator, environment.NewMemoryCache(), b.logger)
	out := &networkEnvironment{
		stations: make(map[string]models.Environment, len(stations)),
		segments: make(map[string][]models.Segment, len(edges)),
	}

	for _, st := range stations {
		if _, ok := out.stations[st.ID]; ok {
			continue
		}
		env, err := gen.StationEnvironment(ctx, st.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get environment for station %s: %w", st.ID, err)
		}
		out.stations[st.ID] = env
	}

	index := models.StationList(stations).Index()

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	if b.workers > 0 {
		g.SetLimit(b.workers)
	}

	for _, e := range edges {
		e := e
		g.Go(func() error {
			segs, err := segment.SegmentTrack(gctx, index, e.Source, e.Target, segmentLength, gen)
			if err != nil {
				return fmt.Errorf("edge %s: %w", e.ID(), err)
			}

			mu.Lock()
			out.segments[e.ID()] = segs
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	b.logger.Debugf("Окружение построено: %d станций, %d участков", len(out.stations), out.segmentCount())
	return out, nil
}

package service

import (
	"context"
	"fmt"
	"time"

	"rail-risk-go/internal/collision"
	"rail-risk-go/internal/environment"
	"rail-risk-go/internal/model"
	"rail-risk-go/pkg/models"

	"github.com/sirupsen/logrus"
)

// DecisionService сервис арбитража поездов
type DecisionService struct {
	runs   *RunService
	opts   Options
	env    *environmentBuilder
	logger *logrus.Logger
}

// NewDecisionService создает новый сервис арбитража
func NewDecisionService(generator environment.Generator, runs *RunService, opts Options, logger *logrus.Logger) *DecisionService {
	return &DecisionService{
		runs: runs,
		opts: opts,
		env: &environmentBuilder{
			generator:     generator,
			segmentLength: opts.SegmentLengthMeters,
			workers:       opts.SegmentWorkers,
			logger:        logger,
		},
		logger: logger,
	}
}

// Decide строит окружение станций и участки всех ребер запроса, затем
// решает, какой из первых двух поездов уступает. Ребро с неизвестной
// станцией является ошибкой.
func (s *DecisionService) Decide(ctx context.Context, req DecideRequest) (*DecideResponse, error) {
	started := time.Now()
	s.logger.Infof("Получен запрос арбитража: %d поездов, %d станций, %d ребер",
		len(req.Trains), len(req.Stations), len(req.Edges))

	env, err := s.env.build(ctx, req.Stations, req.Edges, 0)
	if err != nil {
		s.logger.Errorf("Ошибка построения окружения: %v", err)
		return nil, fmt.Errorf("failed to build environment: %w", err)
	}

	resp := &DecideResponse{Decision: collision.DecideCollision(req.Trains)}
	if req.IncludeEnvironment {
		resp.StationEnv = env.stations
		resp.Segments = env.segments
	}

	resp.RunID = recordRun(ctx, s.runs, s.logger, RunRecord{
		Kind:         model.RunKindDecide,
		TrainCount:   len(req.Trains),
		StationCount: len(req.Stations),
		EdgeCount:    len(req.Edges),
		Action:       resp.Action,
		Reason:       resp.Reason,
		StartedAt:    started,
		Payload:      resp.Decision,
	})

	s.logger.Infof("Решение: %s (%s)", resp.Action, resp.Reason)
	return resp, nil
}

// Proximity проверяет все пары поездов на опасное сближение
func (s *DecisionService) Proximity(ctx context.Context, req ProximityRequest) []models.ProximityAlert {
	started := time.Now()
	threshold := s.opts.ProximityThresholdM
	if req.ThresholdM != nil && *req.ThresholdM > 0 {
		threshold = *req.ThresholdM
	}

	alerts := collision.ScanProximity(req.Trains, threshold)
	for _, a := range alerts {
		if a.Action == models.ActionStop {
			s.logger.Warnf("Опасное сближение %v: %.1f м", a.AffectedTrains, a.DistanceM)
		}
	}

	recordRun(ctx, s.runs, s.logger, RunRecord{
		Kind:       model.RunKindProximity,
		TrainCount: len(req.Trains),
		Action:     alerts[0].Action,
		Reason:     alerts[0].Reason,
		StartedAt:  started,
		Payload:    alerts,
	})

	s.logger.Infof("Проверка сближения: %d поездов, %d решений", len(req.Trains), len(alerts))
	return alerts
}

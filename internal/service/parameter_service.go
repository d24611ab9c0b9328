package service

import (
	"context"
	"fmt"
	"time"

	"rail-risk-go/internal/capacity"
	"rail-risk-go/internal/environment"
	"rail-risk-go/internal/kinematics"
	"rail-risk-go/internal/model"
	"rail-risk-go/internal/segment"
	"rail-risk-go/internal/trackrisk"
	"rail-risk-go/pkg/models"

	"github.com/sirupsen/logrus"
)

// Options параметры расчета по умолчанию
type Options struct {
	DefaultSegmentKm    float64 // расстояние ребра без координат, км
	SegmentLengthMeters float64 // длина участка при разбиении ребра
	ProximityThresholdM float64 // порог попарной проверки сближения
	SegmentWorkers      int     // число параллельно разбиваемых ребер
}

// DefaultOptions возвращает параметры по умолчанию
func DefaultOptions() Options {
	return Options{
		DefaultSegmentKm:    trackrisk.DefaultSegmentKm,
		SegmentLengthMeters: segment.DefaultLengthMeters,
		ProximityThresholdM: 100,
		SegmentWorkers:      4,
	}
}

// ParameterService сервис расчета показателей поездов, станций и пути
type ParameterService struct {
	generator environment.Generator
	runs      *RunService
	opts      Options
	env       *environmentBuilder
	logger    *logrus.Logger
}

// NewParameterService создает новый сервис расчета.
// runs может быть nil, тогда расчеты не журналируются.
func NewParameterService(generator environment.Generator, runs *RunService, opts Options, logger *logrus.Logger) *ParameterService {
	return &ParameterService{
		generator: generator,
		runs:      runs,
		opts:      opts,
		env: &environmentBuilder{
			generator:     generator,
			segmentLength: opts.SegmentLengthMeters,
			workers:       opts.SegmentWorkers,
			logger:        logger,
		},
		logger: logger,
	}
}

// Compute выполняет полный расчет: поезда, станции и сеть.
// При IncludeEnvironment к ответу прикладываются окружения станций и участки ребер.
func (s *ParameterService) Compute(ctx context.Context, req ComputeRequest) (*ComputeResponse, error) {
	started := time.Now()
	s.logger.Infof("Начинаем расчет показателей: %d поездов, %d станций, %d ребер",
		len(req.Trains), len(req.Stations), len(req.Edges))

	if err := validateNetwork(req.Trains, req.Stations); err != nil {
		return nil, err
	}

	trains, next := kinematics.ComputeTrainParameters(req.Trains)
	resp := &ComputeResponse{
		Trains:     trains,
		TrainsNext: next,
		Stations:   capacity.ComputeAll(req.Stations),
		Track:      trackrisk.ComputeTrackParameters(req.Stations, req.Edges, s.segmentKm(req.DefaultSegmentKm)),
	}

	if req.IncludeEnvironment {
		length := 0.0
		if req.SegmentLengthM != nil {
			length = *req.SegmentLengthM
		}
		env, err := s.env.build(ctx, req.Stations, req.Edges, length)
		if err != nil {
			s.logger.Errorf("Ошибка построения окружения: %v", err)
			return nil, fmt.Errorf("failed to build environment: %w", err)
		}
		resp.StationEnv = env.stations
		resp.Segments = env.segments
	}

	resp.RunID = s.record(ctx, RunRecord{
		Kind:               model.RunKindCompute,
		TrainCount:         len(req.Trains),
		StationCount:       len(req.Stations),
		EdgeCount:          len(req.Edges),
		AggregateTrackRisk: resp.Track.AggregateTrackRisk,
		StartedAt:          started,
		Payload:            resp,
	})

	s.logger.Infof("Расчет завершен за %v. Агрегированный риск пути: %.3f",
		time.Since(started), resp.Track.AggregateTrackRisk)
	return resp, nil
}

// ComputeTrains вычисляет показатели поездов p1..p20
func (s *ParameterService) ComputeTrains(ctx context.Context, req TrainsRequest) (*TrainsResponse, error) {
	if err := validateNetwork(req.Trains, nil); err != nil {
		return nil, err
	}

	started := time.Now()
	trains, next := kinematics.ComputeTrainParameters(req.Trains)
	resp := &TrainsResponse{Trains: trains, TrainsNext: next}

	s.record(ctx, RunRecord{
		Kind:       model.RunKindTrains,
		TrainCount: len(req.Trains),
		StartedAt:  started,
		Payload:    resp,
	})

	s.logger.Infof("Рассчитаны показатели %d поездов", len(trains))
	return resp, nil
}

// ComputeStations вычисляет показатели станций
func (s *ParameterService) ComputeStations(ctx context.Context, req StationsRequest) (map[string]models.StationParameters, error) {
	if err := validateNetwork(nil, req.Stations); err != nil {
		return nil, err
	}

	started := time.Now()
	out := capacity.ComputeAll(req.Stations)

	s.record(ctx, RunRecord{
		Kind:         model.RunKindStations,
		StationCount: len(req.Stations),
		StartedAt:    started,
		Payload:      out,
	})

	s.logger.Infof("Рассчитаны показатели %d станций", len(out))
	return out, nil
}

// ComputeTrack вычисляет сетевые показатели пути p21..p40
func (s *ParameterService) ComputeTrack(ctx context.Context, req TrackRequest) (models.TrackParameters, error) {
	if err := validateNetwork(nil, req.Stations); err != nil {
		return models.TrackParameters{}, err
	}

	started := time.Now()
	params := trackrisk.ComputeTrackParameters(req.Stations, req.Edges, s.segmentKm(req.DefaultSegmentKm))

	s.record(ctx, RunRecord{
		Kind:               model.RunKindTrack,
		StationCount:       len(req.Stations),
		EdgeCount:          len(req.Edges),
		AggregateTrackRisk: params.AggregateTrackRisk,
		StartedAt:          started,
		Payload:            params,
	})

	s.logger.Infof("Рассчитаны показатели пути по %d ребрам", len(req.Edges))
	return params, nil
}

// EdgeMetrics возвращает детерминированные метрики одного ребра
func (s *ParameterService) EdgeMetrics(source, target string, distanceKm *float64) (models.EdgeMetrics, error) {
	if source == "" || target == "" {
		return models.EdgeMetrics{}, fmt.Errorf("%w: source and target are required", ErrInvalidRequest)
	}

	d := trackrisk.DefaultEdgeDistanceKm
	if distanceKm != nil {
		d = *distanceKm
	}
	return trackrisk.ComputeEdgeMetrics(models.EdgeID(source, target), d), nil
}

// Segments разбивает одно ребро на участки с окружением
func (s *ParameterService) Segments(ctx context.Context, req SegmentsRequest) ([]models.Segment, error) {
	if req.Source == "" || req.Target == "" {
		return nil, fmt.Errorf("%w: source and target are required", ErrInvalidRequest)
	}

	length := s.opts.SegmentLengthMeters
	if req.SegmentLengthM != nil {
		length = *req.SegmentLengthM
	}

	gen := environment.NewCachedGenerator(s.generator, environment.NewMemoryCache(), s.logger)
	segs, err := segment.SegmentTrack(ctx, req.Stations.Index(), req.Source, req.Target, length, gen)
	if err != nil {
		s.logger.Errorf("Ошибка разбиения ребра %s: %v", models.EdgeID(req.Source, req.Target), err)
		return nil, fmt.Errorf("failed to segment track: %w", err)
	}

	s.logger.Infof("Ребро %s разбито на %d участков по %.0f м",
		models.EdgeID(req.Source, req.Target), len(segs), length)
	return segs, nil
}

func (s *ParameterService) segmentKm(override *float64) float64 {
	if override != nil && *override > 0 {
		return *override
	}
	return s.opts.DefaultSegmentKm
}

// record пишет расчет в журнал. Ошибка журнала не прерывает расчет.
func (s *ParameterService) record(ctx context.Context, rec RunRecord) string {
	return recordRun(ctx, s.runs, s.logger, rec)
}

func recordRun(ctx context.Context, runs *RunService, logger *logrus.Logger, rec RunRecord) string {
	if runs == nil {
		return ""
	}
	id, err := runs.Record(ctx, rec)
	if err != nil {
		logger.Warnf("Расчет %s не записан в журнал: %v", rec.Kind, err)
		return ""
	}
	return id
}

// validateNetwork проверяет наличие идентификаторов поездов и станций
func validateNetwork(trains []models.TrainSnapshot, stations []models.Station) error {
	for i, t := range trains {
		if t.ID == "" {
			return fmt.Errorf("%w: train #%d has no id", ErrInvalidRequest, i)
		}
	}
	for i, st := range stations {
		if st.ID == "" {
			return fmt.Errorf("%w: station #%d has no id", ErrInvalidRequest, i)
		}
	}
	return nil
}

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"rail-risk-go/internal/model"
	"rail-risk-go/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RunRecord описывает один расчет для журнала
type RunRecord struct {
	Kind               string
	TrainCount         int
	StationCount       int
	EdgeCount          int
	AggregateTrackRisk float64
	Action             string
	Reason             string
	StartedAt          time.Time
	Payload            any
}

// RunService сервис журнала расчетов
type RunService struct {
	runRepo repository.RunRepository
	logger  *logrus.Logger
}

// NewRunService создает новый сервис журнала
func NewRunService(runRepo repository.RunRepository, logger *logrus.Logger) *RunService {
	return &RunService{
		runRepo: runRepo,
		logger:  logger,
	}
}

// Record сохраняет запись о расчете и возвращает ее ID
func (s *RunService) Record(ctx context.Context, rec RunRecord) (string, error) {
	payload, err := json.Marshal(rec.Payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode run payload: %w", err)
	}

	run := &model.ComputationRun{
		ID:                 s.GenerateRunID(),
		Kind:               rec.Kind,
		Source:             sourceFrom(ctx),
		TrainCount:         rec.TrainCount,
		StationCount:       rec.StationCount,
		EdgeCount:          rec.EdgeCount,
		AggregateTrackRisk: rec.AggregateTrackRisk,
		Action:             rec.Action,
		Reason:             rec.Reason,
		Payload:            string(payload),
	}
	if !rec.StartedAt.IsZero() {
		run.DurationMs = time.Since(rec.StartedAt).Milliseconds()
	}

	if err := s.runRepo.Create(run); err != nil {
		s.logger.Errorf("Ошибка сохранения записи журнала: %v", err)
		return "", fmt.Errorf("failed to save run: %w", err)
	}

	s.logger.Debugf("Расчет %s записан в журнал с ID %s", rec.Kind, run.ID)
	return run.ID, nil
}

// GetRunByID получает запись журнала по ID
func (s *RunService) GetRunByID(id string) (*model.ComputationRun, error) {
	s.logger.Infof("Получаем запись журнала %s", id)

	run, err := s.runRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// ListRuns получает список записей журнала с пагинацией
func (s *RunService) ListRuns(kind string, page, pageSize int) ([]*model.ComputationRun, int64, error) {
	s.logger.Infof("Получаем список расчетов: вид %q, страница %d, размер %d", kind, page, pageSize)

	runs, total, err := s.runRepo.List(repository.RunFilter{Kind: kind}, page, pageSize)
	if err != nil {
		s.logger.Errorf("Ошибка получения списка расчетов: %v", err)
		return nil, 0, fmt.Errorf("failed to list runs: %w", err)
	}

	s.logger.Infof("Получено %d записей из %d", len(runs), total)
	return runs, total, nil
}

// DeleteRun удаляет запись журнала по ID
func (s *RunService) DeleteRun(id string) error {
	s.logger.Infof("Удаляем запись журнала %s", id)

	if err := s.runRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}

	s.logger.Infof("Запись журнала %s удалена", id)
	return nil
}

// GenerateRunID генерирует уникальный ID записи
func (s *RunService) GenerateRunID() string {
	return uuid.New().String()
}

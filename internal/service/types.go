package service

import (
	"rail-risk-go/internal/model"
	"rail-risk-go/pkg/models"
)

// ComputeRequest запрос на полный расчет показателей сети
type ComputeRequest struct {
	Trains             []models.TrainSnapshot `json:"trains"`
	Stations           models.StationList     `json:"stations"`
	Edges              []models.Edge          `json:"edges"`
	DefaultSegmentKm   *float64               `json:"default_segment_km,omitempty"`
	SegmentLengthM     *float64               `json:"segment_length_m,omitempty"`
	IncludeEnvironment bool                   `json:"include_environment"`
}

// ComputeResponse результат полного расчета
type ComputeResponse struct {
	Trains     map[string]models.TrainParameters   `json:"trains"`
	TrainsNext []models.TrainSnapshot              `json:"trains_next"` // Снимки с prev_speed/prev_accel для следующего вызова
	Stations   map[string]models.StationParameters `json:"stations"`
	Track      models.TrackParameters              `json:"track"`
	StationEnv map[string]models.Environment       `json:"station_env,omitempty"`
	Segments   map[string][]models.Segment         `json:"segments,omitempty"`
	RunID      string                              `json:"run_id,omitempty"`
}

// TrainsRequest запрос на расчет показателей поездов
type TrainsRequest struct {
	Trains []models.TrainSnapshot `json:"trains"`
}

// TrainsResponse показатели поездов и обновленные снимки
type TrainsResponse struct {
	Trains     map[string]models.TrainParameters `json:"trains"`
	TrainsNext []models.TrainSnapshot            `json:"trains_next"`
}

// StationsRequest запрос на расчет показателей станций
type StationsRequest struct {
	Stations models.StationList `json:"stations"`
}

// TrackRequest запрос на расчет сетевых показателей пути
type TrackRequest struct {
	Stations         models.StationList `json:"stations"`
	Edges            []models.Edge      `json:"edges"`
	DefaultSegmentKm *float64           `json:"default_segment_km,omitempty"`
}

// SegmentsRequest запрос на разбиение ребра на участки
type SegmentsRequest struct {
	Stations       models.StationList `json:"stations"`
	Source         string             `json:"source"`
	Target         string             `json:"target"`
	SegmentLengthM *float64           `json:"segment_length_m,omitempty"`
}

// DecideRequest запрос на арбитраж двух поездов
type DecideRequest struct {
	Trains             []models.TrainSnapshot `json:"trains"`
	Stations           models.StationList     `json:"stations"`
	Edges              []models.Edge          `json:"edges"`
	IncludeEnvironment bool                   `json:"include_environment"`
}

// DecideResponse решение арбитража. Поля решения встраиваются на верхний уровень.
type DecideResponse struct {
	models.Decision
	StationEnv map[string]models.Environment `json:"station_env,omitempty"`
	Segments   map[string][]models.Segment   `json:"segments,omitempty"`
	RunID      string                        `json:"run_id,omitempty"`
}

// ProximityRequest запрос на попарную проверку сближения
type ProximityRequest struct {
	Trains     []models.TrainSnapshot `json:"trains"`
	ThresholdM *float64               `json:"threshold_m,omitempty"`
}

// ListRunsResponse ответ со списком записей журнала
type ListRunsResponse struct {
	Runs  []*model.ComputationRun `json:"runs"`
	Total int64                   `json:"total"`
	Page  int                     `json:"page"`
	Size  int                     `json:"size"`
}

package model

import (
	"time"

	"gorm.io/gorm"
)

// Виды расчетов в журнале
const (
	RunKindCompute   = "compute"
	RunKindTrains    = "trains"
	RunKindStations  = "stations"
	RunKindTrack     = "track"
	RunKindDecide    = "decide"
	RunKindProximity = "proximity"
)

// ComputationRun представляет запись журнала расчетов в базе данных.
// Журнал только пишется и читается через API, в расчеты он не возвращается.
type ComputationRun struct {
	ID     string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Kind   string `gorm:"type:varchar(32);not null;index" json:"kind"`
	Source string `gorm:"type:varchar(16);not null;default:'http'" json:"source"` // http или grpc

	// Размер входных данных
	TrainCount   int `gorm:"not null;default:0" json:"train_count"`
	StationCount int `gorm:"not null;default:0" json:"station_count"`
	EdgeCount    int `gorm:"not null;default:0" json:"edge_count"`

	// Итоги расчета
	AggregateTrackRisk float64 `gorm:"not null;default:0" json:"aggregate_track_risk"`
	Action             string  `gorm:"type:varchar(32)" json:"action,omitempty"`
	Reason             string  `gorm:"type:varchar(255)" json:"reason,omitempty"`
	DurationMs         int64   `gorm:"not null;default:0" json:"duration_ms"`

	// Полный ответ в JSON
	Payload string `gorm:"type:text" json:"payload,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// TableName задает имя таблицы
func (ComputationRun) TableName() string {
	return "computation_runs"
}

package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Edge представляет направленное ребро сети между двумя станциями
type Edge struct {
	Source     string   `json:"source"`                // ID станции отправления
	Target     string   `json:"target"`                // ID станции назначения
	DistanceKm *float64 `json:"distance_km,omitempty"` // Известное расстояние, км
}

// ID возвращает идентификатор ребра "source-target".
// Строка используется как вход хеша и должна быть побайтно стабильной.
func (e Edge) ID() string {
	return EdgeID(e.Source, e.Target)
}

// EdgeID формирует идентификатор ребра из ID станций
func EdgeID(source, target string) string {
	return source + "-" + target
}

// UnmarshalJSON принимает как объект {"source","target"}, так и пару ["A","B"]
func (e *Edge) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var pair []string
		if err := json.Unmarshal(data, &pair); err != nil {
			return fmt.Errorf("edge: %w", err)
		}
		if len(pair) != 2 {
			return fmt.Errorf("edge: expected [source, target], got %d elements", len(pair))
		}
		*e = Edge{Source: pair[0], Target: pair[1]}
		return nil
	}

	type edgeAlias Edge
	var alias edgeAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	*e = Edge(alias)
	return nil
}

// EdgeMetrics содержит детерминированные метрики одного ребра (0..1, кроме скорости)
type EdgeMetrics struct {
	EdgeID                   string  `json:"edge_id"`
	DistanceKm               float64 `json:"distance_km"`
	TrackCondition           float64 `json:"track_condition"`       // Больше = хуже
	CurveSeverity            float64 `json:"curve_severity"`        // Больше = круче кривые
	GradientIndex            float64 `json:"gradient_index"`        // Больше = круче уклон
	TrackAge                 float64 `json:"track_age"`             // Больше = старше
	SwitchCountNorm          float64 `json:"switch_count_norm"`     // 0..0.8
	MaxAllowedSpeedKmh       float64 `json:"max_allowed_speed_kmh"` // Не нормализовано
	DrainageRisk             float64 `json:"drainage_risk"`
	BallastCondition         float64 `json:"ballast_condition"`
	EmbankmentSusceptibility float64 `json:"embankment_susceptibility"`
	ElectrificationHealth    float64 `json:"electrification_health"` // Больше = хуже
	SwitchCondition          float64 `json:"switch_condition"`
	Scheme                   string  `json:"scheme"` // Версия схемы извлечения бит
}

// TrackParameters содержит 20 сетевых показателей пути (p21..p40).
// Имена JSON полей являются контрактом и не должны меняться.
type TrackParameters struct {
	AvgTrackCondition     float64 `json:"p21"`
	AvgCurveSeverity      float64 `json:"p22"`
	AvgGradient           float64 `json:"p23"`
	AvgTrackAge           float64 `json:"p24"`
	SwitchDensity         float64 `json:"p25"`
	MaxSpeedNorm          float64 `json:"p26"`
	GaugeVariability      float64 `json:"p27"`
	AvgDrainageRisk       float64 `json:"p28"`
	AvgBallastCondition   float64 `json:"p29"`
	AvgEmbankment         float64 `json:"p30"`
	SignalGap             float64 `json:"p31"`
	AvgSwitchCondition    float64 `json:"p32"`
	ElectrificationHealth float64 `json:"p33"`
	ThermalRisk           float64 `json:"p34"`
	TrackUtilization      float64 `json:"p35"`
	AvgSegmentLength      float64 `json:"p36"`
	MaintenanceOverdue    float64 `json:"p37"`
	BallastUniformity     float64 `json:"p38"`
	LateralClearance      float64 `json:"p39"`
	AggregateTrackRisk    float64 `json:"p40"`
}

// Segment представляет участок ребра фиксированной длины
type Segment struct {
	ID    string      `json:"id"`    // "<source>-<target>-<i>"
	Index int         `json:"index"` // Порядковый номер на ребре
	Start Coordinates `json:"start"`
	End   Coordinates `json:"end"`
	Env   Environment `json:"env"` // Атрибуты окружения от внешнего генератора
}

// Package environment предоставляет атрибуты окружения станций и участков пути.
// Значения непрозрачны для ядра расчета и только прикладываются к результатам.
package environment

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"

	"rail-risk-go/pkg/models"
)

// Generator возвращает окружение станции или участка пути
type Generator interface {
	StationEnvironment(ctx context.Context, stationID string) (models.Environment, error)
	SegmentEnvironment(ctx context.Context, segmentID string, distanceMeters float64) (models.Environment, error)
}

var terrains = []string{"plain", "hills", "river_crossing", "forest", "urban"}

// LocalGenerator детерминированно выводит окружение из SHA-256 идентификатора.
// Используется, когда внешний сервис окружения не настроен.
type LocalGenerator struct{}

// NewLocalGenerator создает локальный генератор
func NewLocalGenerator() *LocalGenerator {
	return &LocalGenerator{}
}

// StationEnvironment возвращает окружение станции
func (g *LocalGenerator) StationEnvironment(ctx context.Context, stationID string) (models.Environment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	h := newHashStream("station:" + stationID)
	return models.Environment{
		"weather_risk":       h.unit(),
		"visibility":         h.unit(),
		"crowd_density":      h.unit(),
		"platform_condition": h.unit(),
		"signal_health":      h.unit(),
		"temperature_c":      round(-5+h.unit()*50, 1),
	}, nil
}

// SegmentEnvironment возвращает окружение участка пути
func (g *LocalGenerator) SegmentEnvironment(ctx context.Context, segmentID string, distanceMeters float64) (models.Environment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	h := newHashStream("segment:" + segmentID)
	return models.Environment{
		"distance_m":     distanceMeters,
		"terrain":        terrains[h.next()%uint64(len(terrains))],
		"flood_risk":     h.unit(),
		"landslide_risk": h.unit(),
		"vegetation":     h.unit(),
		"visibility":     h.unit(),
		"rail_temp_c":    round(10+h.unit()*50, 1),
	}, nil
}

// hashStream выдает последовательность 64-битных значений из SHA-256 строки.
// После четырех значений хеш пересчитывается от предыдущего.
type hashStream struct {
	sum [32]byte
	pos int
}

func newHashStream(key string) *hashStream {
	return &hashStream{sum: sha256.Sum256([]byte(key))}
}

func (h *hashStream) next() uint64 {
	if h.pos == len(h.sum) {
		h.sum = sha256.Sum256(h.sum[:])
		h.pos = 0
	}
	v := binary.BigEndian.Uint64(h.sum[h.pos : h.pos+8])
	h.pos += 8
	return v
}

// unit возвращает значение 0..1 с точностью до 1e-4
func (h *hashStream) unit() float64 {
	return float64(h.next()%10001) / 10000.0
}

func round(v float64, digits int) float64 {
	p := math.Pow(10, float64(digits))
	return math.Round(v*p) / p
}

// Package trackrisk выводит детерминированные псевдослучайные метрики ребер
// сети и агрегирует их в сетевые показатели риска пути (p21..p40).
//
// Схема sha256-be64-v1:
//
//	seed = первые 8 байт SHA-256(UTF-8 идентификатора ребра), big-endian uint64
//	r    = (seed mod 1000003) / 1000003
//	bits(k) = ((seed >> k) mod 100) / 100
//
// Используемые сдвиги k: 2, 3, 5, 7, 11, 13, 17, 19, 23; для числа стрелок
// ((seed >> 29) mod 5) / 5. Одинаковый идентификатор всегда дает одинаковые метрики.
package trackrisk

import (
	"crypto/sha256"
	"encoding/binary"
	"math"

	"rail-risk-go/pkg/models"
)

// SchemeVersion - версия схемы хеширования и извлечения бит
const SchemeVersion = "sha256-be64-v1"

const (
	randModulus = 1000003

	// DefaultEdgeDistanceKm расстояние по умолчанию для одиночного ребра
	DefaultEdgeDistanceKm = 1.0
)

// SeedFromEdgeID возвращает 64-битное зерно из SHA-256 идентификатора ребра
func SeedFromEdgeID(edgeID string) uint64 {
	sum := sha256.Sum256([]byte(edgeID))
	return binary.BigEndian.Uint64(sum[:8])
}

// RandFromSeed превращает зерно в детерминированное число 0..1
func RandFromSeed(seed uint64) float64 {
	return float64(seed%randModulus) / float64(randModulus)
}

// seedBits возвращает ((seed >> shift) mod 100) / 100
func seedBits(seed uint64, shift uint) float64 {
	return float64((seed>>shift)%100) / 100.0
}

// ComputeEdgeMetrics вычисляет метрики ребра по его идентификатору.
// distanceKm влияет только на состояние пути.
func ComputeEdgeMetrics(edgeID string, distanceKm float64) models.EdgeMetrics {
	seed := SeedFromEdgeID(edgeID)
	r := RandFromSeed(seed)

	trackCondition := clamp01(0.2*r + 0.3*seedBits(seed, 7) + 0.1*(distanceKm/10.0))
	curveSeverity := clamp01(0.1*r + 0.6*seedBits(seed, 13))
	gradientIndex := clamp01(0.05*r + 0.4*seedBits(seed, 19))
	trackAge := clamp01(0.2*seedBits(seed, 23) + 0.3*r)
	switchCountNorm := clamp01(float64((seed>>29)%5) / 5.0)

	// Максимальная скорость снижается кривизной, уклоном и состоянием пути
	maxSpeed := 200.0 - curveSeverity*80.0 - gradientIndex*40.0
	maxSpeed = math.Max(40.0, maxSpeed-trackCondition*40.0)

	return models.EdgeMetrics{
		EdgeID:                   edgeID,
		DistanceKm:               distanceKm,
		TrackCondition:           trackCondition,
		CurveSeverity:            curveSeverity,
		GradientIndex:            gradientIndex,
		TrackAge:                 trackAge,
		SwitchCountNorm:          switchCountNorm,
		MaxAllowedSpeedKmh:       maxSpeed,
		DrainageRisk:             clamp01(0.3*seedBits(seed, 17) + 0.4*r),
		BallastCondition:         clamp01(0.25*seedBits(seed, 11) + 0.5*r),
		EmbankmentSusceptibility: clamp01(0.2*r + 0.6*seedBits(seed, 5)),
		ElectrificationHealth:    clamp01(0.2*r + 0.5*seedBits(seed, 3)),
		SwitchCondition:          clamp01(0.2*r + 0.6*seedBits(seed, 2)),
		Scheme:                   SchemeVersion,
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

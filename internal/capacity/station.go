// Package capacity вычисляет показатели пропускной способности и безопасности
// станции по ее геометрии и предположениям о движении.
package capacity

import (
	"math"

	"rail-risk-go/pkg/models"
)

const (
	// Gravity ускорение свободного падения, м/с²
	Gravity = 9.81

	// FallbackAdhesionMu подставляется, если коэффициент сцепления не положителен
	FallbackAdhesionMu = 0.25
)

// KmhToMps переводит км/ч в м/с
func KmhToMps(vKmh float64) float64 {
	return vKmh / 3.6
}

// BrakingDistance возвращает тормозной путь v² / (2·mu·g) в метрах
func BrakingDistance(vKmh, mu float64) float64 {
	v := KmhToMps(vKmh)
	if mu <= 0 {
		mu = FallbackAdhesionMu
	}
	return (v * v) / (2.0 * mu * Gravity)
}

// ReactionDistance возвращает путь за время реакции машиниста в метрах
func ReactionDistance(vKmh, reactionTimeS float64) float64 {
	return KmhToMps(vKmh) * reactionTimeS
}

// TotalStoppingDistance возвращает (тормозной путь + путь реакции) · запас
func TotalStoppingDistance(vKmh, mu, reactionTimeS, marginFactor float64) float64 {
	return (BrakingDistance(vKmh, mu) + ReactionDistance(vKmh, reactionTimeS)) * marginFactor
}

// PlatformUtilization возвращает долю времени, которое одна платформа занята
func PlatformUtilization(arrivalRatePerHr, avgDwellS float64) float64 {
	return (arrivalRatePerHr * avgDwellS) / 3600.0
}

// MaxSimultaneousTrains возвращает число поездов, одновременно помещающихся на станции
func MaxSimultaneousTrains(stationLengthM, avgTrainLengthM float64) int {
	if avgTrainLengthM <= 0 || stationLengthM <= 0 {
		return 0
	}
	return int(math.Floor(stationLengthM / avgTrainLengthM))
}

// CapacityPerPlatform возвращает пропускную способность одной платформы, поездов/ч.
// При неположительном знаменателе возвращает неограниченное значение.
func CapacityPerPlatform(avgDwellS, bufferS float64) models.Rate {
	denom := avgDwellS + bufferS
	if denom <= 0 {
		return models.Unbounded()
	}
	return models.Rate(3600.0 / denom)
}

// StationCapacity возвращает пропускную способность станции, поездов/ч
func StationCapacity(numPlatforms int, avgDwellS, bufferS float64) models.Rate {
	return CapacityPerPlatform(avgDwellS, bufferS) * models.Rate(platforms(numPlatforms))
}

// RiskIndexFromUtilization возвращает индекс конфликтов util² · (1 + cv²)
func RiskIndexFromUtilization(overallUtilization, cv float64) float64 {
	return (overallUtilization * overallUtilization) * (1.0 + cv*cv)
}

// ComputeStationParameters вычисляет все показатели станции.
// Отсутствующие поля заменяются значениями по умолчанию.
func ComputeStationParameters(station models.Station) models.StationParameters {
	in := station.Input()

	utilSingle := PlatformUtilization(in.ArrivalRatePerHr, in.AvgDwellS)
	overallUtil := utilSingle / float64(platforms(in.NumPlatforms))
	brakeM := BrakingDistance(in.AvgApproachSpeedKmh, in.AdhesionMu)
	reactM := ReactionDistance(in.AvgApproachSpeedKmh, in.ReactionTimeS)

	return models.StationParameters{
		StationLengthM:             in.StationLengthM,
		PlatformLengthM:            in.PlatformLengthM,
		NumPlatforms:               in.NumPlatforms,
		AvgTrainLengthM:            in.AvgTrainLengthM,
		ArrivalRatePerHr:           in.ArrivalRatePerHr,
		AvgDwellS:                  in.AvgDwellS,
		AvgApproachSpeedKmh:        in.AvgApproachSpeedKmh,
		AdhesionMu:                 in.AdhesionMu,
		ReactionTimeS:              in.ReactionTimeS,
		SafetyBufferS:              in.SafetyBufferS,
		MaxSimultaneousTrains:      MaxSimultaneousTrains(in.StationLengthM, in.AvgTrainLengthM),
		PlatformUtilizationSingle:  utilSingle,
		PlatformUtilizationOverall: overallUtil,
		BrakingDistanceM:           brakeM,
		ReactionDistanceM:          reactM,
		TotalStoppingDistanceM:     (brakeM + reactM) * in.MarginFactor,
		CapacityPerPlatform:        CapacityPerPlatform(in.AvgDwellS, in.SafetyBufferS),
		StationCapacity:            StationCapacity(in.NumPlatforms, in.AvgDwellS, in.SafetyBufferS),
		MinClearanceTimeS:          in.AvgDwellS + in.SafetyBufferS,
		ConflictRiskIndex:          RiskIndexFromUtilization(overallUtil, in.CVInterarrival),
	}
}

// ComputeAll вычисляет показатели для списка станций, ключ - ID станции
func ComputeAll(stations []models.Station) map[string]models.StationParameters {
	out := make(map[string]models.StationParameters, len(stations))
	for _, s := range stations {
		out[s.ID] = ComputeStationParameters(s)
	}
	return out
}

func platforms(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

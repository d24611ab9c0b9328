// Package collision решает, какой из двух сближающихся поездов должен уступить.
package collision

import (
	"rail-risk-go/internal/geo"
	"rail-risk-go/pkg/models"
)

const (
	// CriticalDistanceMeters - при таком или меньшем расстоянии останавливаются оба поезда
	CriticalDistanceMeters = 35.0

	// DefaultProximityMeters порог попарной проверки сближения
	DefaultProximityMeters = 100.0
)

// Причины решений
const (
	ReasonNotEnoughTrains   = "Not enough trains"
	ReasonCriticalProximity = "Critical proximity"
	ReasonAHigherPriority   = "Train A higher priority"
	ReasonBHigherPriority   = "Train B higher priority"
	ReasonAFaster           = "Train A faster"
	ReasonBFaster           = "Train B faster"
	ReasonTie               = "Same speed & priority"
	ReasonCollisionDanger   = "Collision danger"
	ReasonAllSafe           = "All safe"
)

// DecideCollision выбирает действие для первых двух поездов списка.
// Порядок правил: критическое сближение, приоритет, скорость (со знаком).
// Поезда после второго не рассматриваются.
func DecideCollision(trains []models.TrainSnapshot) models.Decision {
	if len(trains) < 2 {
		return models.Decision{Action: models.ActionNoAction, Reason: ReasonNotEnoughTrains, Error: ReasonNotEnoughTrains}
	}

	a, b := trains[0], trains[1]
	dist := geo.DistanceMeters(a.Position(), b.Position())

	if dist <= CriticalDistanceMeters {
		return models.Decision{Action: models.ActionStopBoth, Reason: ReasonCriticalProximity, DistanceM: dist}
	}

	prA, prB := a.PriorityOrDefault(), b.PriorityOrDefault()
	switch {
	case prA > prB:
		return stopOne(b, a, ReasonAHigherPriority, dist)
	case prB > prA:
		return stopOne(a, b, ReasonBHigherPriority, dist)
	case a.Speed > b.Speed:
		return stopOne(b, a, ReasonAFaster, dist)
	case b.Speed > a.Speed:
		return stopOne(a, b, ReasonBFaster, dist)
	}

	return models.Decision{Action: models.ActionStopBoth, Reason: ReasonTie, DistanceM: dist}
}

func stopOne(stop, pass models.TrainSnapshot, reason string, dist float64) models.Decision {
	return models.Decision{
		Action:      models.ActionStopOne,
		StopTrain:   stop.ID,
		LetPass:     pass.ID,
		StopTrainID: stop.ID,
		LetPassID:   pass.ID,
		Reason:      reason,
		DistanceM:   dist,
	}
}

// ScanProximity проверяет все пары поездов и возвращает STOP для каждой пары
// ближе thresholdMeters. Если таких нет, возвращается одно решение NORMAL.
func ScanProximity(trains []models.TrainSnapshot, thresholdMeters float64) []models.ProximityAlert {
	if thresholdMeters <= 0 {
		thresholdMeters = DefaultProximityMeters
	}

	var alerts []models.ProximityAlert
	for i := 0; i < len(trains); i++ {
		for j := i + 1; j < len(trains); j++ {
			a, b := trains[i], trains[j]
			dist := geo.DistanceMeters(a.Position(), b.Position())
			if dist <= thresholdMeters {
				alerts = append(alerts, models.ProximityAlert{
					Action:         models.ActionStop,
					Reason:         ReasonCollisionDanger,
					AffectedTrains: []string{label(a), label(b)},
					DistanceM:      dist,
				})
			}
		}
	}

	if len(alerts) == 0 {
		return []models.ProximityAlert{{
			Action:         models.ActionNormal,
			Reason:         ReasonAllSafe,
			AffectedTrains: []string{},
		}}
	}
	return alerts
}

// label - имя поезда, либо его ID, если имя не задано
func label(t models.TrainSnapshot) string {
	if t.Name != "" {
		return t.Name
	}
	return t.ID
}

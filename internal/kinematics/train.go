// Package kinematics вычисляет нормализованные кинематические показатели
// поезда (p1..p20) по одному снимку его состояния.
//
// Единственное состояние между вызовами - скорость и ускорение предыдущего
// снимка. Пакет его не хранит: обновленный снимок возвращается вызывающему,
// который передает его в следующий вызов.
package kinematics

import (
	"math"

	"rail-risk-go/pkg/models"
)

// Опорные значения нормализации
const (
	ReferenceSpeedKmh      = 200.0  // p1, p12
	ReferenceAccel         = 50.0   // p2, км/ч за секунду
	ReferenceJerk          = 20.0   // p3
	ReferenceSpeedMps      = 40.0   // p4
	ServiceDecelMps2       = 0.8    // p7
	ReferenceStoppingM     = 2000.0 // p7
	ReferencePriority      = 3.0    // p8
	ReferenceElapsedS      = 3600.0 // p9
	ReferenceMomentumMps   = 50.0   // p15
	ReferenceReversalKmh   = 50.0   // p17
	efficiencyPriorityStep = 100.0  // p13
	samplingIntervalS      = 1.0
	millisPerSecond        = 1000.0
)

// NotComputed - значение показателей, которые требуют сетевого прохода
// (p11 - расстояние до ближайшего поезда, p18 - близость к станции).
// Поля всегда присутствуют в ответе.
const NotComputed = 0.0

var statusRisk = map[string]float64{
	models.StatusRunning:   0.1,
	models.StatusStopped:   0.5,
	models.StatusEmergency: 1.0,
	models.StatusDelayed:   0.6,
}

const unknownStatusRisk = 0.2

// StatusRisk возвращает риск по статусу поезда
func StatusRisk(status string) float64 {
	if risk, ok := statusRisk[status]; ok {
		return risk
	}
	return unknownStatusRisk
}

// ComputeTrain вычисляет показатели одного поезда и возвращает снимок с
// обновленными prev_speed/prev_accel для следующего вызова.
func ComputeTrain(t models.TrainSnapshot) (models.TrainParameters, models.TrainSnapshot) {
	speedKmh := t.Speed
	speedMps := speedKmh / 3.6
	priority := float64(t.PriorityOrDefault())

	prevSpeed := speedKmh
	if t.PrevSpeed != nil {
		prevSpeed = *t.PrevSpeed
	}
	accel := (speedKmh - prevSpeed) / samplingIntervalS

	prevAccel := accel
	if t.PrevAccel != nil {
		prevAccel = *t.PrevAccel
	}
	jerk := accel - prevAccel

	var p models.TrainParameters
	p.SpeedNorm = clamp(speedKmh/ReferenceSpeedKmh, 0, 1)
	p.Acceleration = clamp(accel/ReferenceAccel, -1, 1)
	p.Jerk = clamp(jerk/ReferenceJerk, -1, 1)
	p.KineticEnergy = math.Min(1, (speedMps*speedMps)/(ReferenceSpeedMps*ReferenceSpeedMps))
	p.Progress = clamp(t.Progress, 0, 1)
	p.Remaining = 1 - p.Progress

	stoppingDistance := (speedMps * speedMps) / (2 * ServiceDecelMps2)
	p.StoppingDistance = math.Min(1, stoppingDistance/ReferenceStoppingM)

	p.PriorityNorm = clamp(priority/ReferencePriority, 0, 1)
	p.ElapsedTime = clamp(elapsedSeconds(t)/ReferenceElapsedS, 0, 1)
	p.StatusRisk = StatusRisk(t.StatusOrDefault())
	p.TrainSpacing = NotComputed
	p.SpeedVariance = math.Min(1, math.Abs(speedKmh-prevSpeed)/ReferenceSpeedKmh)
	p.Efficiency = clamp(speedKmh/math.Max(1, priority*efficiencyPriorityStep), 0, 1)
	p.Smoothness = 1 - math.Min(1, math.Abs(p.Jerk))
	p.Momentum = clamp(speedMps/ReferenceMomentumMps, 0, 1)
	p.TripPhase = p.Progress

	if speedKmh < 0 {
		p.ReversalRisk = math.Min(1, math.Abs(speedKmh)/ReferenceReversalKmh)
	}

	p.StationProximity = NotComputed
	p.PositionDrift = math.Mod(math.Abs(t.Lat)+math.Abs(t.Lon), 1)
	p.GlobalComposite = (p.SpeedNorm + p.Progress + p.PriorityNorm) / 3

	next := t
	next.PrevSpeed = &speedKmh
	next.PrevAccel = &accel

	return p, next
}

// ComputeTrainParameters вычисляет показатели для всех поездов.
// Возвращает показатели по ID и обновленные снимки в исходном порядке.
func ComputeTrainParameters(trains []models.TrainSnapshot) (map[string]models.TrainParameters, []models.TrainSnapshot) {
	results := make(map[string]models.TrainParameters, len(trains))
	next := make([]models.TrainSnapshot, 0, len(trains))

	for _, t := range trains {
		params, updated := ComputeTrain(t)
		results[t.ID] = params
		next = append(next, updated)
	}

	return results, next
}

// elapsedSeconds возвращает время в пути в секундах по отметкам в миллисекундах.
// Без валидного времени отправления возвращает 0.
func elapsedSeconds(t models.TrainSnapshot) float64 {
	if t.StartTime <= 0 {
		return 0
	}
	now := t.StartTime
	if t.Now != nil {
		now = *t.Now
	}
	return (now - t.StartTime) / millisPerSecond
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

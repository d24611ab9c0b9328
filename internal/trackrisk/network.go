package trackrisk

import (
	"math"

	"rail-risk-go/internal/geo"
	"rail-risk-go/pkg/models"
)

const (
	// DefaultSegmentKm расстояние ребра, если его нельзя оценить по координатам
	DefaultSegmentKm = 10.0

	// busyStationCount - сколько первых станций списка считаются крупными
	busyStationCount = 5

	minEstimatedKm  = 0.1
	segmentLenRefKm = 100.0
)

// Веса составного риска пути (p40)
const (
	weightCondition   = 0.20
	weightCurve       = 0.15
	weightGradient    = 0.10
	weightAge         = 0.10
	weightDrainage    = 0.10
	weightUniformity  = 0.10
	weightMaintenance = 0.15
)

// EdgeDistanceKm возвращает расстояние ребра: известное, оценка по координатам
// станций (планарно, 111 км/градус, не меньше 0.1 км) или defaultKm.
func EdgeDistanceKm(e models.Edge, stations map[string]models.Station, defaultKm float64) float64 {
	if e.DistanceKm != nil {
		return *e.DistanceKm
	}

	src, okSrc := stations[e.Source]
	tgt, okTgt := stations[e.Target]
	if !okSrc || !okTgt || !src.HasCoordinates() || !tgt.HasCoordinates() {
		return defaultKm
	}

	return math.Max(minEstimatedKm, geo.PlanarDistanceKm(src.Coordinates(), tgt.Coordinates()))
}

// ComputeTrackParameters агрегирует метрики всех ребер в 20 сетевых показателей.
// Ребро считается загруженным, если касается одной из первых пяти станций
// списка (порядок станций важен). Без ребер все показатели равны 0.
func ComputeTrackParameters(stations []models.Station, edges []models.Edge, defaultSegmentKm float64) models.TrackParameters {
	if len(edges) == 0 {
		return models.TrackParameters{}
	}
	if defaultSegmentKm <= 0 {
		defaultSegmentKm = DefaultSegmentKm
	}

	byID := models.StationList(stations).Index()

	busy := make(map[string]bool, busyStationCount)
	for i := 0; i < len(stations) && i < busyStationCount; i++ {
		busy[stations[i].ID] = true
	}

	var (
		sumCondition, sumCurve, sumGradient, sumAge, sumSwitchDensity float64
		sumGaugeVar, sumDrainage, sumBallast, sumEmbank, sumSignalGap float64
		sumSwitchCond, sumElectr, sumThermal, utilization, sumLenKm   float64
		sumMaintenance, sumBallastUniform, sumLateral, maxSpeed       float64
	)

	for _, e := range edges {
		edgeID := e.ID()
		distanceKm := EdgeDistanceKm(e, byID, defaultSegmentKm)
		em := ComputeEdgeMetrics(edgeID, distanceKm)

		seed := SeedFromEdgeID(edgeID)
		r := RandFromSeed(seed)
		srcBusy, tgtBusy := busy[e.Source], busy[e.Target]

		sumCondition += em.TrackCondition
		sumCurve += em.CurveSeverity
		sumGradient += em.GradientIndex
		sumAge += em.TrackAge
		sumSwitchDensity += em.SwitchCountNorm / math.Max(1, distanceKm)
		maxSpeed = math.Max(maxSpeed, em.MaxAllowedSpeedKmh)
		sumGaugeVar += seedBits(seed, 17)
		sumDrainage += em.DrainageRisk
		sumBallast += em.BallastCondition
		sumEmbank += em.EmbankmentSusceptibility

		// Между небольшими станциями сигнальные промежутки длиннее
		if srcBusy || tgtBusy {
			sumSignalGap += 0.2 * r
		} else {
			sumSignalGap += 0.5 * r
		}

		sumSwitchCond += em.SwitchCondition
		sumElectr += em.ElectrificationHealth
		sumThermal += 0.2 * r

		if srcBusy && tgtBusy {
			utilization += 2
		} else {
			utilization += 1
		}

		sumLenKm += distanceKm
		sumMaintenance += em.TrackAge * (0.3 + 0.7*r)
		sumBallastUniform += 1 - em.BallastCondition
		sumLateral += 1 - em.CurveSeverity
	}

	n := float64(len(edges))
	avgCondition := clamp01(sumCondition / n)
	avgCurve := clamp01(sumCurve / n)
	avgGradient := clamp01(sumGradient / n)
	avgAge := clamp01(sumAge / n)
	avgDrainage := clamp01(sumDrainage / n)
	avgBallast := clamp01(sumBallast / n)
	maintenance := clamp01(sumMaintenance / n)
	ballastUniformity := clamp01(sumBallastUniform / n)

	aggregate := clamp01(
		weightCondition*avgCondition +
			weightCurve*avgCurve +
			weightGradient*avgGradient +
			weightAge*avgAge +
			weightDrainage*avgDrainage +
			weightUniformity*(1-ballastUniformity) +
			weightMaintenance*maintenance,
	)

	return models.TrackParameters{
		AvgTrackCondition:     avgCondition,
		AvgCurveSeverity:      avgCurve,
		AvgGradient:           avgGradient,
		AvgTrackAge:           avgAge,
		SwitchDensity:         clamp01(sumSwitchDensity / n),
		MaxSpeedNorm:          clamp01(maxSpeed / 200.0),
		GaugeVariability:      clamp01(sumGaugeVar / n),
		AvgDrainageRisk:       avgDrainage,
		AvgBallastCondition:   avgBallast,
		AvgEmbankment:         clamp01(sumEmbank / n),
		SignalGap:             clamp01(sumSignalGap / n),
		AvgSwitchCondition:    clamp01(sumSwitchCond / n),
		ElectrificationHealth: clamp01(sumElectr / n),
		ThermalRisk:           clamp01(sumThermal / n),
		TrackUtilization:      clamp01(utilization / (2 * n)),
		AvgSegmentLength:      clamp01(sumLenKm / (n * segmentLenRefKm)),
		MaintenanceOverdue:    maintenance,
		BallastUniformity:     clamp01(1 - avgBallast),
		LateralClearance:      clamp01(sumLateral / n),
		AggregateTrackRisk:    aggregate,
	}
}

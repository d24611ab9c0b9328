package collision

import (
	"testing"

	"rail-risk-go/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func prio(v int) *int { return &v }

func train(id string, lat, speed float64, priority *int) models.TrainSnapshot {
	return models.TrainSnapshot{ID: id, Lat: lat, Lon: 77.0, Speed: speed, Priority: priority}
}

func TestDecideCollision_NotEnoughTrains(t *testing.T) {
	for _, trains := range [][]models.TrainSnapshot{nil, {train("T1", 28, 50, nil)}} {
		d := DecideCollision(trains)
		assert.Equal(t, models.ActionNoAction, d.Action)
		assert.Equal(t, ReasonNotEnoughTrains, d.Error)
		assert.Empty(t, d.StopTrain)
	}
}

func TestDecideCollision_CriticalProximityOverridesPriority(t *testing.T) {
	// 0.0003° широты ≈ 33 м
	d := DecideCollision([]models.TrainSnapshot{
		train("T1", 28.0, 100, prio(5)),
		train("T2", 28.0003, 10, prio(1)),
	})
	assert.Equal(t, models.ActionStopBoth, d.Action)
	assert.Equal(t, ReasonCriticalProximity, d.Reason)
	assert.Less(t, d.DistanceM, CriticalDistanceMeters)
}

func TestDecideCollision_HigherPriorityPasses(t *testing.T) {
	// 0.009° широты ≈ 1000 м
	d := DecideCollision([]models.TrainSnapshot{
		train("T1", 28.0, 50, prio(2)),
		train("T2", 28.009, 90, prio(1)),
	})
	assert.Equal(t, models.ActionStopOne, d.Action)
	assert.Equal(t, "T2", d.StopTrain)
	assert.Equal(t, "T1", d.LetPass)
	assert.Equal(t, d.StopTrain, d.StopTrainID)
	assert.Equal(t, d.LetPass, d.LetPassID)
	assert.Equal(t, ReasonAHigherPriority, d.Reason)

	d = DecideCollision([]models.TrainSnapshot{
		train("T1", 28.0, 50, nil),
		train("T2", 28.009, 10, prio(3)),
	})
	assert.Equal(t, "T1", d.StopTrain)
	assert.Equal(t, ReasonBHigherPriority, d.Reason)
}

func TestDecideCollision_SpeedBreaksPriorityTie(t *testing.T) {
	d := DecideCollision([]models.TrainSnapshot{
		train("T1", 28.0, 60, nil),
		train("T2", 28.009, 80, prio(1)),
	})
	assert.Equal(t, models.ActionStopOne, d.Action)
	assert.Equal(t, "T1", d.StopTrain)
	assert.Equal(t, "T2", d.LetPass)
	assert.Equal(t, ReasonBFaster, d.Reason)

	d = DecideCollision([]models.TrainSnapshot{
		train("T1", 28.0, 0, nil),
		train("T2", 28.009, -20, nil),
	})
	assert.Equal(t, "T2", d.StopTrain)
	assert.Equal(t, ReasonAFaster, d.Reason)
}

func TestDecideCollision_ExactTieStopsBoth(t *testing.T) {
	d := DecideCollision([]models.TrainSnapshot{
		train("T1", 28.0, 70, prio(2)),
		train("T2", 28.009, 70, prio(2)),
	})
	assert.Equal(t, models.ActionStopBoth, d.Action)
	assert.Equal(t, ReasonTie, d.Reason)
	assert.Empty(t, d.StopTrain)
}

func TestDecideCollision_OnlyFirstTwoConsidered(t *testing.T) {
	d := DecideCollision([]models.TrainSnapshot{
		train("T1", 28.0, 50, prio(2)),
		train("T2", 28.009, 50, prio(1)),
		train("T3", 28.0, 50, prio(9)),
	})
	assert.Equal(t, "T2", d.StopTrain)
	assert.Equal(t, "T1", d.LetPass)
}

func TestScanProximity(t *testing.T) {
	trains := []models.TrainSnapshot{
		{ID: "T1", Name: "Rajdhani", Lat: 28.0, Lon: 77.0},
		{ID: "T2", Lat: 28.0005, Lon: 77.0},
		{ID: "T3", Lat: 29.0, Lon: 77.0},
	}

	alerts := ScanProximity(trains, DefaultProximityMeters)
	require.Len(t, alerts, 1)
	assert.Equal(t, models.ActionStop, alerts[0].Action)
	assert.Equal(t, ReasonCollisionDanger, alerts[0].Reason)
	assert.Equal(t, []string{"Rajdhani", "T2"}, alerts[0].AffectedTrains)

	safe := ScanProximity(trains[1:], 0)
	require.Len(t, safe, 1)
	assert.Equal(t, models.ActionNormal, safe[0].Action)
	assert.Equal(t, ReasonAllSafe, safe[0].Reason)
	assert.NotNil(t, safe[0].AffectedTrains)
	assert.Empty(t, safe[0].AffectedTrains)
}

package geo

import (
	"math"
	"testing"

	"rail-risk-go/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistanceMeters_SamePoint(t *testing.T) {
	p := models.Coordinates{Lat: 28.6139, Lon: 77.2090}
	assert.Equal(t, 0.0, DistanceMeters(p, p))
}

func TestDistanceMeters_OneDegreeOfLatitude(t *testing.T) {
	a := models.Coordinates{Lat: 0, Lon: 0}
	b := models.Coordinates{Lat: 1, Lon: 0}

	expected := EarthRadiusMeters * math.Pi / 180
	assert.InDelta(t, expected, DistanceMeters(a, b), 1e-6)
}

func TestDistanceMeters_Symmetric(t *testing.T) {
	a := models.Coordinates{Lat: 28.6139, Lon: 77.2090}
	b := models.Coordinates{Lat: 27.1617, Lon: 78.0081}

	assert.InDelta(t, DistanceMeters(a, b), DistanceMeters(b, a), 1e-9)
	// Дели - Агра около 180 км по прямой
	assert.InDelta(t, 180000, DistanceMeters(a, b), 5000)
}

func TestPlanarDistanceKm(t *testing.T) {
	a := models.Coordinates{Lat: 0, Lon: 0}
	b := models.Coordinates{Lat: 3, Lon: 4}
	assert.InDelta(t, 5*KmPerDegree, PlanarDistanceKm(a, b), 1e-9)
}

func TestInterpolateCoordinates(t *testing.T) {
	start := models.Coordinates{Lat: 10, Lon: 20}
	end := models.Coordinates{Lat: 12, Lon: 24}

	assert.Empty(t, InterpolateCoordinates(start, end, 0))
	assert.Equal(t, []models.Coordinates{start}, InterpolateCoordinates(start, end, 1))

	coords := InterpolateCoordinates(start, end, 3)
	require.Len(t, coords, 3)
	assert.Equal(t, start, coords[0])
	assert.Equal(t, models.Coordinates{Lat: 11, Lon: 22}, coords[1])
	assert.Equal(t, end, coords[2])
}

func TestToLineString_OrderIsLonLat(t *testing.T) {
	ls := ToLineString(models.Coordinates{Lat: 1, Lon: 2}, models.Coordinates{Lat: 3, Lon: 4})
	require.Len(t, ls, 2)
	assert.Equal(t, 2.0, ls[0].Lon())
	assert.Equal(t, 1.0, ls[0].Lat())

	bound := Bounds([]models.Coordinates{{Lat: 1, Lon: 2}, {Lat: 3, Lon: 4}})
	assert.Equal(t, 2.0, bound.Min.Lon())
	assert.Equal(t, 4.0, bound.Max.Lon())
}

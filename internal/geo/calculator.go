package geo

import (
	"math"

	"rail-risk-go/pkg/models"

	"github.com/paulmach/orb"
)

const (
	// EarthRadiusMeters радиус Земли для формулы гаверсинуса
	EarthRadiusMeters = 6371000.0

	// KmPerDegree грубый перевод градусов в километры для планарной оценки
	KmPerDegree = 111.0
)

// DistanceMeters вычисляет расстояние между двумя точками в метрах.
// Использует формулу гаверсинуса. Координаты не валидируются.
func DistanceMeters(point1, point2 models.Coordinates) float64 {
	// Преобразуем градусы в радианы
	lat1Rad := point1.Lat * math.Pi / 180
	lat2Rad := point2.Lat * math.Pi / 180
	deltaLat := (point2.Lat - point1.Lat) * math.Pi / 180
	deltaLon := (point2.Lon - point1.Lon) * math.Pi / 180

	// Формула гаверсинуса
	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)

	return 2 * EarthRadiusMeters * math.Asin(math.Sqrt(a))
}

// PlanarDistanceKm оценивает расстояние в километрах по евклидовой норме
// разности координат (111 км на градус). Подходит только для грубых оценок.
func PlanarDistanceKm(point1, point2 models.Coordinates) float64 {
	return math.Hypot(point1.Lat-point2.Lat, point1.Lon-point2.Lon) * KmPerDegree
}

// Interpolate возвращает точку на доле t отрезка [start, end] (линейно по координатам)
func Interpolate(start, end models.Coordinates, t float64) models.Coordinates {
	return models.Coordinates{
		Lat: start.Lat + (end.Lat-start.Lat)*t,
		Lon: start.Lon + (end.Lon-start.Lon)*t,
	}
}

// InterpolateCoordinates создает numPoints равномерно распределенных точек между start и end
func InterpolateCoordinates(start, end models.Coordinates, numPoints int) []models.Coordinates {
	if numPoints <= 0 {
		return []models.Coordinates{}
	}

	if numPoints == 1 {
		return []models.Coordinates{start}
	}

	coords := make([]models.Coordinates, numPoints)
	for i := 0; i < numPoints; i++ {
		coords[i] = Interpolate(start, end, float64(i)/float64(numPoints-1))
	}

	return coords
}

// ToPoint преобразует координаты в orb.Point (порядок lon, lat)
func ToPoint(c models.Coordinates) orb.Point {
	return orb.Point{c.Lon, c.Lat}
}

// ToLineString строит линию из последовательности координат
func ToLineString(coords ...models.Coordinates) orb.LineString {
	ls := make(orb.LineString, 0, len(coords))
	for _, c := range coords {
		ls = append(ls, ToPoint(c))
	}
	return ls
}

// Bounds возвращает ограничивающий прямоугольник набора координат
func Bounds(coords []models.Coordinates) orb.Bound {
	return ToLineString(coords...).Bound()
}

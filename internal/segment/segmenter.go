// Package segment разбивает ребро сети на участки фиксированной длины
// и прикладывает к каждому участку окружение от генератора.
package segment

import (
	"context"
	"errors"
	"fmt"
	"math"

	"rail-risk-go/internal/environment"
	"rail-risk-go/internal/geo"
	"rail-risk-go/pkg/models"

	"github.com/paulmach/orb/geojson"
)

// DefaultLengthMeters длина участка по умолчанию
const DefaultLengthMeters = 100.0

var (
	// ErrUnknownStation возвращается, если конечная станция ребра не найдена
	ErrUnknownStation = errors.New("unknown station")

	// ErrNoCoordinates возвращается, если у конечной станции нет координат
	ErrNoCoordinates = errors.New("station has no coordinates")
)

// SegmentTrack делит ребро source→target на floor(расстояние / segmentLength)
// участков (не меньше одного). Границы интерполируются линейно по координатам,
// идентификатор участка "<source>-<target>-<i>". generator может быть nil,
// тогда окружение не заполняется.
func SegmentTrack(
	ctx context.Context,
	stations map[string]models.Station,
	source, target string,
	segmentLength float64,
	generator environment.Generator,
) ([]models.Segment, error) {
	if segmentLength <= 0 {
		segmentLength = DefaultLengthMeters
	}

	start, err := endpoint(stations, source)
	if err != nil {
		return nil, err
	}
	end, err := endpoint(stations, target)
	if err != nil {
		return nil, err
	}

	total := geo.DistanceMeters(start, end)
	n := int(math.Floor(total / segmentLength))
	if n < 1 {
		n = 1
	}

	bounds := geo.InterpolateCoordinates(start, end, n+1)
	segments := make([]models.Segment, 0, n)
	for i := 0; i < n; i++ {
		seg := models.Segment{
			ID:    fmt.Sprintf("%s-%s-%d", source, target, i),
			Index: i,
			Start: bounds[i],
			End:   bounds[i+1],
		}

		if generator != nil {
			env, err := generator.SegmentEnvironment(ctx, seg.ID, segmentLength)
			if err != nil {
				return nil, fmt.Errorf("failed to get environment for segment %s: %w", seg.ID, err)
			}
			seg.Env = env
		}

		segments = append(segments, seg)
	}

	return segments, nil
}

func endpoint(stations map[string]models.Station, id string) (models.Coordinates, error) {
	st, ok := stations[id]
	if !ok {
		return models.Coordinates{}, fmt.Errorf("%w: %s", ErrUnknownStation, id)
	}
	if !st.HasCoordinates() {
		return models.Coordinates{}, fmt.Errorf("%w: %s", ErrNoCoordinates, id)
	}
	return st.Coordinates(), nil
}

// ToFeatureCollection преобразует участки в GeoJSON (LineString на участок)
func ToFeatureCollection(segments []models.Segment) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	if len(segments) > 0 {
		coords := make([]models.Coordinates, 0, 2*len(segments))
		for _, seg := range segments {
			coords = append(coords, seg.Start, seg.End)
		}
		fc.BBox = geojson.NewBBox(geo.Bounds(coords))
	}

	for _, seg := range segments {
		f := geojson.NewFeature(geo.ToLineString(seg.Start, seg.End))
		f.ID = seg.ID
		f.Properties["id"] = seg.ID
		f.Properties["index"] = seg.Index
		f.Properties["length_m"] = geo.DistanceMeters(seg.Start, seg.End)
		if seg.Env != nil {
			f.Properties["env"] = map[string]any(seg.Env)
		}
		fc.Append(f)
	}
	return fc
}

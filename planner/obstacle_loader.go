package planner

import (
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// LoadObstaclesFromFile reads a GeoJSON FeatureCollection from path. See
// ParseObstaclesGeoJSON.
func LoadObstaclesFromFile(path string, firstID int, logger *zap.SugaredLogger) ([]Obstacle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}

	obstacles, err := ParseObstaclesGeoJSON(data, firstID, logger)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}
	return obstacles, nil
}

// ParseObstaclesGeoJSON turns every feature of a FeatureCollection into the
// rectangle bounding its geometry. IDs are assigned from firstID upwards.
func ParseObstaclesGeoJSON(data []byte, firstID int, logger *zap.SugaredLogger) ([]Obstacle, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, errors.Wrap(err, "invalid feature collection")
	}

	obstacles := make([]Obstacle, 0, len(fc.Features))
	for i, feature := range fc.Features {
		if feature.Geometry == nil {
			logger.Warnf("feature %d has no geometry, skipping", i)
			continue
		}
		bound := feature.Geometry.Bound()
		obstacles = append(obstacles, NewObstacle(
			firstID+len(obstacles),
			Point{X: bound.Min.X(), Y: bound.Min.Y()},
			Point{X: bound.Max.X() - bound.Min.X(), Y: bound.Max.Y() - bound.Min.Y()},
		))
	}

	logger.Infof("loaded %d obstacles from %d features", len(obstacles), len(fc.Features))
	return obstacles, nil
}

// ObstaclesToGeoJSON exports obstacles as polygon features carrying their IDs.
func ObstaclesToGeoJSON(obstacles []Obstacle) ([]byte, error) {
	fc := geojson.NewFeatureCollection()
	for _, o := range obstacles {
		lo, hi := o.Min(), o.Max()
		bound := orb.Bound{Min: orb.Point{lo.X, lo.Y}, Max: orb.Point{hi.X, hi.Y}}
		feature := geojson.NewFeature(bound.ToPolygon())
		feature.Properties["id"] = o.ID
		fc.Append(feature)
	}
	return fc.MarshalJSON()
}

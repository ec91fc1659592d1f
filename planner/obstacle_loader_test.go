package planner

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"
	"go.viam.com/test"
)

const obstacleCollection = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"name": "crate"},
      "geometry": {"type": "Polygon", "coordinates": [[[1, 2], [4, 2], [4, 7], [1, 7], [1, 2]]]}
    },
    {
      "type": "Feature",
      "properties": {},
      "geometry": {"type": "LineString", "coordinates": [[-3, 5], [-1, -2]]}
    },
    {
      "type": "Feature",
      "properties": {},
      "geometry": null
    }
  ]
}`

func TestParseObstaclesGeoJSON(t *testing.T) {
	obstacles, err := ParseObstaclesGeoJSON([]byte(obstacleCollection), 10, zaptest.NewLogger(t).Sugar())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, obstacles, test.ShouldHaveLength, 2)

	test.That(t, obstacles[0].ID, test.ShouldEqual, 10)
	test.That(t, obstacles[0].Position, test.ShouldResemble, Point{1, 2})
	test.That(t, obstacles[0].Size, test.ShouldResemble, Point{3, 5})

	test.That(t, obstacles[1].ID, test.ShouldEqual, 11)
	test.That(t, obstacles[1].Position, test.ShouldResemble, Point{-3, -2})
	test.That(t, obstacles[1].Size, test.ShouldResemble, Point{2, 7})
}

func TestParseObstaclesGeoJSONInvalid(t *testing.T) {
	_, err := ParseObstaclesGeoJSON([]byte(`{"type": "FeatureCollection", "features": [`), 0, nil)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "invalid feature collection")
}

func TestObstaclesGeoJSONRoundTrip(t *testing.T) {
	obstacles := []Obstacle{
		NewObstacle(0, Point{1, 1}, Point{2, 3}),
		NewObstacle(1, Point{-4, 0}, Point{-1, -2}),
	}
	data, err := ObstaclesToGeoJSON(obstacles)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(data), test.ShouldContainSubstring, `"id":1`)

	parsed, err := ParseObstaclesGeoJSON(data, 0, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, parsed, test.ShouldResemble, obstacles)
}

func TestLoadObstaclesFromFile(t *testing.T) {
	logger := zaptest.NewLogger(t).Sugar()
	path := filepath.Join(t.TempDir(), "obstacles.geojson")
	test.That(t, os.WriteFile(path, []byte(obstacleCollection), 0o600), test.ShouldBeNil)

	obstacles, err := LoadObstaclesFromFile(path, 0, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, obstacles, test.ShouldHaveLength, 2)

	_, err = LoadObstaclesFromFile(filepath.Join(t.TempDir(), "missing.geojson"), 0, logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "failed to read")
}

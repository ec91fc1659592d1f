package planner

import (
	"image/color"
	"testing"

	"go.viam.com/test"
)

func TestOccupancySpaceRaster(t *testing.T) {
	space := NewOccupancySpace()
	space.Set(Configuration{Shoulder: 10, Elbow: 200}, Blocked)

	img := space.Raster()
	test.That(t, img.Bounds().Dx(), test.ShouldEqual, GridSize)
	test.That(t, img.Bounds().Dy(), test.ShouldEqual, GridSize)
	test.That(t, img.RGBAAt(10, 200), test.ShouldResemble, color.RGBA{R: 255, A: 255})
	test.That(t, img.RGBAAt(200, 10), test.ShouldResemble, color.RGBA{G: 255, B: 255, A: 255})
}

func TestDistanceFieldRaster(t *testing.T) {
	start, destination := Configuration{}, Configuration{Shoulder: 3, Elbow: 3}
	path, field, err := FindPath(NewOccupancySpace(), start, destination)
	test.That(t, err, test.ShouldBeNil)

	img := field.Raster(path)
	for _, c := range path {
		test.That(t, img.RGBAAt(c.Shoulder, c.Elbow), test.ShouldResemble, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}
	// labelled but off the path
	test.That(t, img.RGBAAt(3, 0), test.ShouldNotResemble, color.RGBA{G: 255, B: 255, A: 255})
	// never reached
	test.That(t, img.RGBAAt(100, 100), test.ShouldResemble, color.RGBA{G: 255, B: 255, A: 255})
}

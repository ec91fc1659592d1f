package planner

import (
	"image"
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

var (
	freeColor    = colorful.Color{R: 0, G: 1, B: 1}
	blockedColor = colorful.Color{R: 1, G: 0, B: 0}
	nearColor    = colorful.Color{R: 1, G: 0.95, B: 0.3}
	farColor     = colorful.Color{R: 0.15, G: 0.2, B: 0.6}
	pathColor    = color.White
)

// Raster draws the grid with shoulder angle along x and elbow angle along y.
// Free cells are aqua and blocked cells red.
func (s *OccupancySpace) Raster() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, GridSize, GridSize))
	for shoulder := 0; shoulder < GridSize; shoulder++ {
		for elbow := 0; elbow < GridSize; elbow++ {
			c := freeColor
			if s.IsBlocked(Configuration{Shoulder: shoulder, Elbow: elbow}) {
				c = blockedColor
			}
			img.Set(shoulder, elbow, c)
		}
	}
	return img
}

// Raster draws the field like OccupancySpace.Raster, shading labelled cells
// from near to far and overlaying path.
func (f *DistanceField) Raster(path Path) *image.RGBA {
	img := f.OccupancySpace.Raster()

	maxLabel := 0
	for _, v := range f.cells {
		if v > maxLabel {
			maxLabel = v
		}
	}
	if maxLabel > 0 {
		for i, v := range f.cells {
			if v <= 0 {
				continue
			}
			t := float64(v) / float64(maxLabel)
			img.Set(i/GridSize, i%GridSize, nearColor.BlendHcl(farColor, t).Clamped())
		}
	}

	for _, c := range path {
		img.Set(c.Shoulder, c.Elbow, pathColor)
	}
	return img
}

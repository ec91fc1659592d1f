package planner

import "github.com/samber/lo"

// UniqueRectangles drops exact duplicates, keeping the first of each in
// order. Rectangles that merely overlap or nest are all kept: a segment
// through a shared corner may round onto one rectangle and off the other.
func UniqueRectangles(rects []Rectangle) []Rectangle {
	if len(rects) <= 1 {
		return rects
	}
	return lo.Uniq(rects)
}

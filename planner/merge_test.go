package planner

import (
	"testing"

	"go.viam.com/test"
)

func TestUniqueRectangles(t *testing.T) {
	outer := NewRectangle(Point{0, 3}, Point{4, 2})
	inner := NewRectangle(Point{0, 3}, Point{2, 2})
	other := NewRectangle(Point{8, 8}, Point{5, 5})

	got := UniqueRectangles([]Rectangle{outer, inner, outer, other, inner})
	test.That(t, got, test.ShouldResemble, []Rectangle{outer, inner, other})

	test.That(t, UniqueRectangles(nil), test.ShouldBeNil)
	test.That(t, UniqueRectangles([]Rectangle{inner}), test.ShouldResemble, []Rectangle{inner})
}

func TestUniqueRectanglesKeepsNested(t *testing.T) {
	outer := NewRectangle(Point{0, 0}, Point{10, 10})
	nested := []Rectangle{
		outer,
		NewRectangle(Point{2, 2}, Point{3, 3}),
		NewRectangle(Point{0, 0}, Point{10, 1}),
		NewRectangle(Point{0, 0}, Point{5, 5}),
	}
	test.That(t, UniqueRectangles(nested), test.ShouldResemble, nested)
}

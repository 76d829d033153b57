package room

import (
	"fmt"
	"math"
)

// Plane identifies the orientation of an axis-aligned wall.
type Plane int

const (
	// PlaneYZ is a wall at a fixed X.
	PlaneYZ Plane = iota
	// PlaneXZ is a wall at a fixed Y.
	PlaneXZ
	// PlaneXY is a wall at a fixed Z (floor or ceiling).
	PlaneXY
)

// Normal returns the axis perpendicular to the plane.
func (p Plane) Normal() Axis {
	switch p {
	case PlaneYZ:
		return AxisX
	case PlaneXZ:
		return AxisY
	default:
		return AxisZ
	}
}

// String implements fmt.Stringer.
func (p Plane) String() string {
	switch p {
	case PlaneYZ:
		return "YZ"
	case PlaneXZ:
		return "XZ"
	case PlaneXY:
		return "XY"
	default:
		return fmt.Sprintf("Plane(%d)", int(p))
	}
}

// Boundary is a wall modelled as an infinite plane at Offset along the
// plane's normal axis.
type Boundary struct {
	Offset float64
	Plane  Plane
}

// NewBoundary returns a wall at offset with the given orientation.
func NewBoundary(offset float64, plane Plane) Boundary {
	return Boundary{Offset: offset, Plane: plane}
}

// ScatteringNodePosition returns the point where the first-order
// reflection from source to mic meets the wall.
//
// The source is mirrored about the plane and the segment from mic to the
// image is intersected with the plane. If both lie on the plane the
// midpoint is used.
func (b Boundary) ScatteringNodePosition(mic, source Point) Point {
	axis := b.Plane.Normal()
	dm := math.Abs(mic.Coord(axis) - b.Offset)
	ds := math.Abs(source.Coord(axis) - b.Offset)

	t := 0.5
	if sum := dm + ds; sum > 0 {
		t = dm / sum
	}

	return mic.Lerp(source, t).WithCoord(axis, b.Offset)
}

// Distance returns the unsigned distance from p to the plane.
func (b Boundary) Distance(p Point) float64 {
	return math.Abs(p.Coord(b.Plane.Normal()) - b.Offset)
}

// Mirror returns the image of p reflected about the plane.
func (b Boundary) Mirror(p Point) Point {
	axis := b.Plane.Normal()
	return p.WithCoord(axis, 2*b.Offset-p.Coord(axis))
}

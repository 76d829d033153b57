package room

import "math"

// MinDistance is the smallest distance DistanceTo reports. It keeps delay
// lengths and 1/r gains finite when two points coincide.
const MinDistance = 0.2

// Axis selects one coordinate of a Point.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Point is a position in metres.
type Point struct {
	X, Y, Z float64
}

// NewPoint returns the point (x, y, z).
func NewPoint(x, y, z float64) Point {
	return Point{X: x, Y: y, Z: z}
}

// DistanceTo returns the Euclidean distance to other, never less than
// MinDistance.
func (p Point) DistanceTo(other Point) float64 {
	dx := other.X - p.X
	dy := other.Y - p.Y
	dz := other.Z - p.Z

	return math.Max(MinDistance, math.Sqrt(dx*dx+dy*dy+dz*dz))
}

// AzimuthFrom returns the horizontal angle of p seen from ref, in radians.
// The Y offset is inverted so that the angle grows clockwise from above.
func (p Point) AzimuthFrom(ref Point) float64 {
	x := p.X - ref.X
	y := -(p.Y - ref.Y)

	return math.Atan2(y, x)
}

// ElevationFrom returns the vertical angle of p seen from ref, in radians.
func (p Point) ElevationFrom(ref Point) float64 {
	return math.Asin((p.Z - ref.Z) / p.DistanceTo(ref))
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y, Z: p.Z + q.Z}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y, Z: p.Z - q.Z}
}

// Scale returns p*s.
func (p Point) Scale(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s, Z: p.Z * s}
}

// Lerp returns the point a fraction t of the way from p to q.
func (p Point) Lerp(q Point, t float64) Point {
	return p.Add(q.Sub(p).Scale(t))
}

// Coord returns the coordinate along axis.
func (p Point) Coord(axis Axis) float64 {
	switch axis {
	case AxisX:
		return p.X
	case AxisY:
		return p.Y
	default:
		return p.Z
	}
}

// WithCoord returns a copy of p with the coordinate along axis replaced.
func (p Point) WithCoord(axis Axis, v float64) Point {
	switch axis {
	case AxisX:
		p.X = v
	case AxisY:
		p.Y = v
	default:
		p.Z = v
	}

	return p
}

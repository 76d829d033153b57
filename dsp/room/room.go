package room

import (
	"errors"
	"fmt"
	"math"
)

// WallCount is the number of walls of a rectangular room.
const WallCount = 6

// Wall indices in the order returned by Boundaries.
const (
	WallLeft    = 0 // x = 0
	WallRight   = 1 // x = Width
	WallFront   = 2 // y = 0
	WallBack    = 3 // y = Length
	WallFloor   = 4 // z = 0
	WallCeiling = 5 // z = Height
)

// ErrInvalidRoom is returned for non-positive or non-finite dimensions.
var ErrInvalidRoom = errors.New("room: dimensions must be positive and finite")

// Room is a rectangular (shoebox) room with one corner at the origin.
type Room struct {
	Width  float64 // along X
	Length float64 // along Y
	Height float64 // along Z
}

// New returns a validated room.
func New(width, length, height float64) (Room, error) {
	r := Room{Width: width, Length: length, Height: height}
	if err := r.Validate(); err != nil {
		return Room{}, err
	}

	return r, nil
}

// Validate reports whether every dimension is positive and finite.
func (r Room) Validate() error {
	for _, v := range [...]float64{r.Width, r.Length, r.Height} {
		if !(v > 0) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %gx%gx%g", ErrInvalidRoom, r.Width, r.Length, r.Height)
		}
	}

	return nil
}

// Diagonal returns the length of the room's space diagonal, the longest
// distance between two points inside it.
func (r Room) Diagonal() float64 {
	return math.Sqrt(r.Width*r.Width + r.Length*r.Length + r.Height*r.Height)
}

// Center returns the middle of the room.
func (r Room) Center() Point {
	return Point{X: r.Width / 2, Y: r.Length / 2, Z: r.Height / 2}
}

// Contains reports whether p lies inside the room or on a wall.
func (r Room) Contains(p Point) bool {
	return p.X >= 0 && p.X <= r.Width &&
		p.Y >= 0 && p.Y <= r.Length &&
		p.Z >= 0 && p.Z <= r.Height
}

// Boundaries returns the six walls in Wall* index order.
func (r Room) Boundaries() [WallCount]Boundary {
	return [WallCount]Boundary{
		WallLeft:    NewBoundary(0, PlaneYZ),
		WallRight:   NewBoundary(r.Width, PlaneYZ),
		WallFront:   NewBoundary(0, PlaneXZ),
		WallBack:    NewBoundary(r.Length, PlaneXZ),
		WallFloor:   NewBoundary(0, PlaneXY),
		WallCeiling: NewBoundary(r.Height, PlaneXY),
	}
}

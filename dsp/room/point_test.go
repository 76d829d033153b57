package room

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceTo(t *testing.T) {
	tests := []struct {
		name string
		a, b Point
		want float64
	}{
		{"axis", NewPoint(0, 0, 0), NewPoint(3, 0, 0), 3},
		{"pythagorean", NewPoint(1, 1, 1), NewPoint(4, 5, 1), 5},
		{"space diagonal", NewPoint(0, 0, 0), NewPoint(5, 5, 3), math.Sqrt(59)},
		{"coincident", NewPoint(2, 2, 2), NewPoint(2, 2, 2), MinDistance},
		{"closer than floor", NewPoint(0, 0, 0), NewPoint(0.1, 0, 0.05), MinDistance},
		{"exactly floor", NewPoint(0, 0, 0), NewPoint(0, 0.2, 0), MinDistance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.a.DistanceTo(tt.b), 1e-12)
			assert.InDelta(t, tt.want, tt.b.DistanceTo(tt.a), 1e-12)
		})
	}
}

func TestDistanceFloorNeverBelowMinimum(t *testing.T) {
	origin := NewPoint(1, 1, 1)
	for i := range 200 {
		f := float64(i) / 1000
		p := NewPoint(1+f, 1-f/2, 1+f/3)
		assert.GreaterOrEqual(t, origin.DistanceTo(p), MinDistance)
	}
}

func TestAzimuthFrom(t *testing.T) {
	ref := NewPoint(2, 2, 1)

	assert.InDelta(t, 0, NewPoint(4, 2, 1).AzimuthFrom(ref), 1e-12, "ahead")
	assert.InDelta(t, math.Pi/2, NewPoint(2, 0, 1).AzimuthFrom(ref), 1e-12, "right (smaller y)")
	assert.InDelta(t, -math.Pi/2, NewPoint(2, 4, 1).AzimuthFrom(ref), 1e-12, "left (larger y)")
	assert.InDelta(t, math.Pi, math.Abs(NewPoint(0, 2, 1).AzimuthFrom(ref)), 1e-12, "behind")
	assert.InDelta(t, 0, NewPoint(4, 2, 3).AzimuthFrom(ref), 1e-12, "height does not matter")
}

func TestElevationFrom(t *testing.T) {
	ref := NewPoint(0, 0, 1)

	assert.InDelta(t, 0, NewPoint(3, 0, 1).ElevationFrom(ref), 1e-12)
	assert.InDelta(t, math.Pi/2, NewPoint(0, 0, 3).ElevationFrom(ref), 1e-12)
	assert.InDelta(t, -math.Pi/4, NewPoint(1, 0, 0).ElevationFrom(ref), 1e-12)
}

func TestCoordRoundTrip(t *testing.T) {
	p := NewPoint(1, 2, 3)

	for axis, want := range map[Axis]float64{AxisX: 1, AxisY: 2, AxisZ: 3} {
		assert.Equal(t, want, p.Coord(axis))
		assert.Equal(t, 9.0, p.WithCoord(axis, 9).Coord(axis))
	}

	assert.Equal(t, NewPoint(1, 2, 3), p, "WithCoord must not mutate the receiver")
}

func TestLerp(t *testing.T) {
	a := NewPoint(0, 0, 0)
	b := NewPoint(4, 8, 2)

	assert.Equal(t, a, a.Lerp(b, 0))
	assert.Equal(t, b, a.Lerp(b, 1))
	assert.Equal(t, NewPoint(1, 2, 0.5), a.Lerp(b, 0.25))
}

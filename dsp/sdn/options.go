package sdn

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/cwbudde/algo-sdn/dsp/room"
)

// Default wall absorption coefficients, in room.Wall* order.
const (
	DefaultSideWallAbsorption = 0.0343
	DefaultFloorAbsorption    = 0.18
	DefaultCeilingAbsorption  = 0.7
)

const defaultSeed = 1

// DefaultRoom is the room used when WithRoom is not given.
var DefaultRoom = room.Room{Width: 5, Length: 5, Height: 3}

// DefaultWallAbsorption returns the per-wall absorption used by New.
func DefaultWallAbsorption() [NodeCount]float64 {
	return [NodeCount]float64{
		room.WallLeft:    DefaultSideWallAbsorption,
		room.WallRight:   DefaultSideWallAbsorption,
		room.WallFront:   DefaultSideWallAbsorption,
		room.WallBack:    DefaultSideWallAbsorption,
		room.WallFloor:   DefaultFloorAbsorption,
		room.WallCeiling: DefaultCeilingAbsorption,
	}
}

// Option mutates network construction parameters.
type Option func(*config) error

type config struct {
	room       room.Room
	source     *room.Point
	mic        *room.Point
	absorption [NodeCount]float64
	rng        *rand.Rand
}

func defaultConfig() config {
	return config{
		room:       DefaultRoom,
		absorption: DefaultWallAbsorption(),
	}
}

// defaultPositions places the mic a quarter of the way along the width and
// the source three quarters along, both centred in length and height, so
// the source sits straight ahead of the mic.
func (c *config) positions() (source, mic room.Point) {
	r := c.room
	source = room.NewPoint(0.75*r.Width, r.Length/2, r.Height/2)
	mic = room.NewPoint(0.25*r.Width, r.Length/2, r.Height/2)

	if c.source != nil {
		source = *c.source
	}

	if c.mic != nil {
		mic = *c.mic
	}

	return source, mic
}

// WithRoom sets the room dimensions.
func WithRoom(r room.Room) Option {
	return func(cfg *config) error {
		if err := r.Validate(); err != nil {
			return err
		}

		cfg.room = r

		return nil
	}
}

// WithRoomSize sets the room dimensions in metres.
func WithRoomSize(width, length, height float64) Option {
	return WithRoom(room.Room{Width: width, Length: length, Height: height})
}

// WithSourcePosition sets the initial source position.
func WithSourcePosition(p room.Point) Option {
	return func(cfg *config) error {
		if err := checkPoint(p); err != nil {
			return err
		}

		cfg.source = &p

		return nil
	}
}

// WithMicPosition sets the initial microphone position.
func WithMicPosition(p room.Point) Option {
	return func(cfg *config) error {
		if err := checkPoint(p); err != nil {
			return err
		}

		cfg.mic = &p

		return nil
	}
}

// WithWallAbsorption sets one absorption coefficient per wall, in
// room.Wall* order. Each must lie in [0, 1].
func WithWallAbsorption(absorption [NodeCount]float64) Option {
	return func(cfg *config) error {
		for i, a := range absorption {
			if a < 0 || a > 1 || math.IsNaN(a) {
				return fmt.Errorf("sdn: wall %d absorption must be in [0,1]: %f", i, a)
			}
		}

		cfg.absorption = absorption

		return nil
	}
}

// WithRand sets the random source used to draw per-line modulation
// frequencies.
func WithRand(rng *rand.Rand) Option {
	return func(cfg *config) error {
		if rng == nil {
			return fmt.Errorf("sdn: random source must not be nil")
		}

		cfg.rng = rng

		return nil
	}
}

// WithSeed seeds a PCG random source for per-line modulation frequencies.
func WithSeed(seed uint64) Option {
	return WithRand(rand.New(rand.NewPCG(seed, 0)))
}

func checkPoint(p room.Point) error {
	for _, v := range [...]float64{p.X, p.Y, p.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %+v", ErrInvalidPosition, p)
		}
	}

	return nil
}

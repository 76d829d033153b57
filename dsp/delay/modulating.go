package delay

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// maxModulationHz bounds the randomly drawn modulation frequency.
const maxModulationHz = 5.0

// Modulating is a Line whose length is derived from a propagation distance.
// It remembers that distance for inverse-distance attenuation.
//
// Each instance draws a modulation frequency in [0, 5) Hz at construction.
// The read path does not modulate yet: reads behave exactly like a fixed
// Line of the current length.
type Modulating struct {
	Line

	sampleRate float64
	distance   float64
	modFreq    float64
}

// FromDistance returns a line delaying by the propagation time over
// distance. The buffer is sized for max(distance, maxDistance) so later
// calls to SetLengthFromDistance up to maxDistance never reallocate.
// rng supplies the modulation frequency; nil uses a fixed seed.
func FromDistance(sampleRate, distance, maxDistance float64, rng *rand.Rand) (*Modulating, error) {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("%w: %f", ErrInvalidSampleRate, sampleRate)
	}

	if err := checkDistance(distance); err != nil {
		return nil, err
	}

	if err := checkDistance(maxDistance); err != nil {
		return nil, err
	}

	line, err := New(SamplesForDistance(sampleRate, math.Max(distance, maxDistance)))
	if err != nil {
		return nil, err
	}

	if rng == nil {
		rng = rand.New(rand.NewPCG(1, 0))
	}

	m := &Modulating{
		Line:       *line,
		sampleRate: sampleRate,
		modFreq:    rng.Float64() * maxModulationHz,
	}

	if err := m.SetLengthFromDistance(distance); err != nil {
		return nil, err
	}

	return m, nil
}

// SetLengthFromDistance retunes the line to the propagation time over
// distance and uses distance as the attenuation reference. On error the
// line is left unchanged.
func (m *Modulating) SetLengthFromDistance(distance float64) error {
	if err := checkDistance(distance); err != nil {
		return err
	}

	if err := m.SetLength(SamplesForDistance(m.sampleRate, distance)); err != nil {
		return err
	}

	m.distance = distance

	return nil
}

// CanHold reports whether distance fits in the allocated buffer.
func (m *Modulating) CanHold(distance float64) bool {
	return checkDistance(distance) == nil &&
		SamplesForDistance(m.sampleRate, distance) <= m.Capacity()
}

// ReadWithDistanceAttenuation reads one sample scaled by 1/Distance.
func (m *Modulating) ReadWithDistanceAttenuation() float64 {
	return m.Read() / m.distance
}

// ReadAttenuatedBy reads one sample scaled by 1/ref. It is used where the
// attenuating distance differs from the line's own length.
func (m *Modulating) ReadAttenuatedBy(ref float64) float64 {
	return m.Read() / ref
}

// Distance returns the propagation distance in metres.
func (m *Modulating) Distance() float64 {
	return m.distance
}

// SampleRate returns the sample rate in Hz.
func (m *Modulating) SampleRate() float64 {
	return m.sampleRate
}

// ModulationFrequency returns the modulation frequency drawn at
// construction, in Hz.
func (m *Modulating) ModulationFrequency() float64 {
	return m.modFreq
}

func checkDistance(distance float64) error {
	if distance < 0 || math.IsNaN(distance) || math.IsInf(distance, 0) {
		return fmt.Errorf("%w: %f", ErrInvalidDistance, distance)
	}

	return nil
}

package delay

import (
	"errors"
	"fmt"
	"math"
)

// SpeedOfSound is the propagation speed used to convert distances to
// delays, in metres per second.
const SpeedOfSound = 343.0

var (
	// ErrLengthExceedsCapacity is returned when a delay longer than the
	// allocated buffer is requested.
	ErrLengthExceedsCapacity = errors.New("delay: length exceeds capacity")
	// ErrNegativeLength is returned for negative delay lengths.
	ErrNegativeLength = errors.New("delay: length must be >= 0")
	// ErrInvalidSampleRate is returned for non-positive or non-finite rates.
	ErrInvalidSampleRate = errors.New("delay: sample rate must be > 0")
	// ErrInvalidDistance is returned for negative or non-finite distances.
	ErrInvalidDistance = errors.New("delay: distance must be finite and >= 0")
)

// SamplesForDistance returns the number of samples sound needs to travel
// distance metres at sampleRate.
func SamplesForDistance(sampleRate, distance float64) int {
	return int(math.Round(sampleRate * distance / SpeedOfSound))
}

// Line is a circular delay line with a runtime-adjustable integer length.
//
// The write position always leads the read position by Length samples, so
// a value written at sample n is read back at sample n+Length when Write
// and Read are called once per sample.
type Line struct {
	buffer   []float64
	writePos int
	readPos  int
	length   int
}

// New returns a line able to hold delays of up to capacity samples. The
// initial length is zero.
func New(capacity int) (*Line, error) {
	if capacity < 0 {
		return nil, fmt.Errorf("delay capacity must be >= 0: %d", capacity)
	}

	return &Line{buffer: make([]float64, capacity+1)}, nil
}

// Capacity returns the longest supported delay in samples.
func (d *Line) Capacity() int {
	return len(d.buffer) - 1
}

// Length returns the current delay in samples.
func (d *Line) Length() int {
	return d.length
}

// SetLength changes the delay to n samples. The read position is moved
// relative to the write position; buffered samples are kept.
func (d *Line) SetLength(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeLength, n)
	}

	if n > d.Capacity() {
		return fmt.Errorf("%w: %d > %d", ErrLengthExceedsCapacity, n, d.Capacity())
	}

	d.length = n
	d.readPos = d.wrap(d.writePos - n)

	return nil
}

// Write stores one sample and advances the write position.
func (d *Line) Write(sample float64) {
	d.buffer[d.writePos] = sample

	d.writePos++
	if d.writePos == len(d.buffer) {
		d.writePos = 0
	}
}

// Read returns the sample at the read position and advances it.
func (d *Line) Read() float64 {
	v := d.buffer[d.readPos]

	d.readPos++
	if d.readPos == len(d.buffer) {
		d.readPos = 0
	}

	return v
}

// Process writes sample and returns the sample written Length samples ago.
func (d *Line) Process(sample float64) float64 {
	d.Write(sample)
	return d.Read()
}

// Reset clears the buffer. The length is kept.
func (d *Line) Reset() {
	clear(d.buffer)
	d.writePos = 0
	d.readPos = d.wrap(-d.length)
}

func (d *Line) wrap(pos int) int {
	size := len(d.buffer)
	pos %= size
	if pos < 0 {
		pos += size
	}

	return pos
}

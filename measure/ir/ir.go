package ir

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-sdn/dsp/core"
)

// Errors returned by IR analysis functions.
var (
	ErrEmptyIR           = errors.New("ir: impulse response is empty")
	ErrInvalidSampleRate = errors.New("ir: sample rate must be positive")
	ErrInvalidTime       = errors.New("ir: time must be positive")
	ErrNoDecay           = errors.New("ir: insufficient decay for RT calculation")
)

// schroederFloorDB is the decay level assigned once the remaining energy
// reaches zero.
const schroederFloorDB = -200.0

// Metrics holds impulse response analysis results.
type Metrics struct {
	RT60       float64 // reverberation time in seconds (T30, else T20)
	EDT        float64 // early decay time in seconds (0 to -10 dB)
	T20        float64 // RT from the -5 to -25 dB slope
	T30        float64 // RT from the -5 to -35 dB slope
	C50        float64 // clarity at 50 ms in dB
	C80        float64 // clarity at 80 ms in dB
	D50        float64 // definition at 50 ms (ratio 0-1)
	D80        float64 // definition at 80 ms (ratio 0-1)
	CenterTime float64 // energy centroid in seconds
	PeakIndex  int     // sample index of the absolute maximum
}

// Analyzer computes room acoustic metrics from impulse response data.
type Analyzer struct {
	SampleRate float64
}

// NewAnalyzer creates an IR analyzer with the given sample rate.
func NewAnalyzer(sampleRate float64) *Analyzer {
	return &Analyzer{SampleRate: sampleRate}
}

func (a *Analyzer) check(ir []float64) error {
	if len(ir) == 0 {
		return ErrEmptyIR
	}

	if !(a.SampleRate > 0) {
		return ErrInvalidSampleRate
	}

	return nil
}

func (a *Analyzer) checkTimed(ir []float64, timeMs float64) error {
	if err := a.check(ir); err != nil {
		return err
	}

	if !(timeMs > 0) {
		return ErrInvalidTime
	}

	return nil
}

// Analyze computes every metric from the absolute peak onwards, so leading
// silence before the direct sound is ignored.
func (a *Analyzer) Analyze(ir []float64) (Metrics, error) {
	if err := a.check(ir); err != nil {
		return Metrics{}, err
	}

	peak := peakIndex(ir)
	tail := ir[peak:]
	decay := schroeder(tail)

	m := Metrics{
		PeakIndex:  peak,
		CenterTime: a.centerTime(tail),
		D50:        a.definition(tail, 50),
		D80:        a.definition(tail, 80),
		C50:        a.clarity(tail, 50),
		C80:        a.clarity(tail, 80),
		EDT:        a.reverbTime(decay, 0, -10),
		T20:        a.reverbTime(decay, -5, -25),
		T30:        a.reverbTime(decay, -5, -35),
	}

	m.RT60 = m.T30
	if m.RT60 <= 0 {
		m.RT60 = m.T20
	}

	return m, nil
}

// SchroederIntegral returns the backward-integrated energy decay curve in
// dB relative to the total energy:
//
//	S(t) = 10*log10( ∫_t^∞ h²(τ) dτ / ∫_0^∞ h²(τ) dτ )
func (a *Analyzer) SchroederIntegral(ir []float64) ([]float64, error) {
	if len(ir) == 0 {
		return nil, ErrEmptyIR
	}

	return schroeder(ir), nil
}

func schroeder(ir []float64) []float64 {
	out := make([]float64, len(ir))
	floats.MulTo(out, ir, ir)

	for i := len(out) - 2; i >= 0; i-- {
		out[i] += out[i+1]
	}

	total := out[0]
	if total <= 0 {
		return out
	}

	for i, e := range out {
		if e <= 0 {
			out[i] = schroederFloorDB
			continue
		}

		out[i] = core.LinearPowerToDB(e / total)
	}

	return out
}

// reverbTime fits a line to the decay curve between startDB and endDB and
// extrapolates it to -60 dB. It returns 0 when the curve never spans the
// range or does not decay.
func (a *Analyzer) reverbTime(decay []float64, startDB, endDB float64) float64 {
	start := -1
	end := -1

	for i, v := range decay {
		if start < 0 && v <= startDB {
			start = i
		}

		if start >= 0 && v <= endDB {
			end = i
			break
		}
	}

	if start < 0 || end <= start {
		return 0
	}

	y := decay[start : end+1]
	x := floats.Span(make([]float64, len(y)), 0, float64(len(y)-1))

	// slope is in dB per sample.
	_, slope := stat.LinearRegression(x, y, nil, false)
	if !(slope < 0) {
		return 0
	}

	return -60 / (slope * a.SampleRate)
}

// RT60 returns the reverberation time from the T30 slope, falling back to
// T20. It returns ErrNoDecay when neither range is reached.
func (a *Analyzer) RT60(ir []float64) (float64, error) {
	if err := a.check(ir); err != nil {
		return 0, err
	}

	decay := schroeder(ir)

	if rt := a.reverbTime(decay, -5, -35); rt > 0 {
		return rt, nil
	}

	if rt := a.reverbTime(decay, -5, -25); rt > 0 {
		return rt, nil
	}

	return 0, ErrNoDecay
}

// boundary converts a time in milliseconds to a sample index.
func (a *Analyzer) boundary(timeMs float64) int {
	return int(math.Round(timeMs * 0.001 * a.SampleRate))
}

// Definition returns the fraction of energy arriving before timeMs:
//
//	D(t) = ∫₀ᵗ h²(τ)dτ / ∫₀^∞ h²(τ)dτ
func (a *Analyzer) Definition(ir []float64, timeMs float64) (float64, error) {
	if err := a.checkTimed(ir, timeMs); err != nil {
		return 0, err
	}

	return a.definition(ir, timeMs), nil
}

func (a *Analyzer) definition(ir []float64, timeMs float64) float64 {
	b := a.boundary(timeMs)

	switch {
	case b <= 0:
		return 0
	case b >= len(ir):
		return 1
	}

	total := floats.Dot(ir, ir)
	if total <= 0 {
		return 0
	}

	return floats.Dot(ir[:b], ir[:b]) / total
}

// Clarity returns the early-to-late energy ratio at timeMs in dB:
//
//	C(t) = 10*log10( ∫₀ᵗ h²(τ)dτ / ∫ₜ^∞ h²(τ)dτ )
func (a *Analyzer) Clarity(ir []float64, timeMs float64) (float64, error) {
	if err := a.checkTimed(ir, timeMs); err != nil {
		return 0, err
	}

	return a.clarity(ir, timeMs), nil
}

func (a *Analyzer) clarity(ir []float64, timeMs float64) float64 {
	b := a.boundary(timeMs)

	switch {
	case b <= 0:
		return math.Inf(-1)
	case b >= len(ir):
		return math.Inf(1)
	}

	early := floats.Dot(ir[:b], ir[:b])
	late := floats.Dot(ir[b:], ir[b:])

	switch {
	case late <= 0:
		return math.Inf(1)
	case early <= 0:
		return math.Inf(-1)
	}

	return core.LinearPowerToDB(early / late)
}

// CenterTime returns the temporal energy centroid in seconds:
//
//	Ts = ∫₀^∞ τ·h²(τ)dτ / ∫₀^∞ h²(τ)dτ
func (a *Analyzer) CenterTime(ir []float64) (float64, error) {
	if err := a.check(ir); err != nil {
		return 0, err
	}

	return a.centerTime(ir), nil
}

func (a *Analyzer) centerTime(ir []float64) float64 {
	if len(ir) < 2 {
		return 0
	}

	energy := make([]float64, len(ir))
	floats.MulTo(energy, ir, ir)

	if floats.Sum(energy) <= 0 {
		return 0
	}

	// Energy-weighted mean sample index.
	times := floats.Span(make([]float64, len(ir)), 0, float64(len(ir)-1))

	return stat.Mean(times, energy) / a.SampleRate
}

// FindImpulseStart returns the index of the first sample within 20 dB of
// the absolute peak. It is used to trim leading silence from an IR.
func (a *Analyzer) FindImpulseStart(ir []float64) (int, error) {
	if len(ir) == 0 {
		return 0, ErrEmptyIR
	}

	threshold := 0.1 * math.Abs(ir[peakIndex(ir)])
	for i, v := range ir {
		if math.Abs(v) >= threshold {
			return i, nil
		}
	}

	return 0, nil
}

// peakIndex returns the index of the first absolute maximum.
func peakIndex(ir []float64) int {
	peak := 0
	for i, v := range ir {
		if math.Abs(v) > math.Abs(ir[peak]) {
			peak = i
		}
	}

	return peak
}

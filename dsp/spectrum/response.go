package spectrum

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-sdn/dsp/core"
)

// minMagnitude floors magnitudes before dB conversion so silent bins map
// to a finite level.
const minMagnitude = 1e-12

// FrequencyResponse returns the magnitude response of ir in dB for bins
// 0..fftSize/2 together with their centre frequencies in Hz. ir is
// zero-padded to fftSize and must not be longer.
func FrequencyResponse(ir []float64, fftSize int, sampleRate float64) (freqs, magDB []float64, err error) {
	freqs, bins, err := transform(ir, fftSize, sampleRate)
	if err != nil {
		return nil, nil, err
	}

	magDB = Magnitude(bins)
	for k := range magDB {
		magDB[k] = core.LinearToDB(math.Max(magDB[k], minMagnitude))
	}

	return freqs, magDB, nil
}

// PowerResponse returns |H(f)|² of ir on the same bins as
// FrequencyResponse. The values are linear, so they can be smoothed or
// averaged before conversion with PowerToDB.
func PowerResponse(ir []float64, fftSize int, sampleRate float64) (freqs, power []float64, err error) {
	freqs, bins, err := transform(ir, fftSize, sampleRate)
	if err != nil {
		return nil, nil, err
	}

	return freqs, Power(bins), nil
}

// PowerToDB converts power values to dB in place and returns power.
// Values are floored at the same -240 dB as FrequencyResponse.
func PowerToDB(power []float64) []float64 {
	for k, p := range power {
		power[k] = core.LinearPowerToDB(math.Max(p, minMagnitude*minMagnitude))
	}

	return power
}

// transform zero-pads ir to fftSize and returns bins 0..fftSize/2 of its
// spectrum with their centre frequencies.
func transform(ir []float64, fftSize int, sampleRate float64) (freqs []float64, bins []complex128, err error) {
	if len(ir) == 0 {
		return nil, nil, fmt.Errorf("frequency response requires a non-empty impulse response")
	}

	if fftSize < 2 || len(ir) > fftSize {
		return nil, nil, fmt.Errorf("frequency response fftSize must be >= max(2, %d): %d", len(ir), fftSize)
	}

	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return nil, nil, fmt.Errorf("frequency response sampleRate must be > 0: %f", sampleRate)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, nil, fmt.Errorf("frequency response: fft plan: %w", err)
	}

	in := make([]complex128, fftSize)
	for i, v := range ir {
		in[i] = complex(v, 0)
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return nil, nil, fmt.Errorf("frequency response: fft: %w", err)
	}

	n := fftSize/2 + 1
	freqs = make([]float64, n)
	binHz := sampleRate / float64(fftSize)

	for k := range freqs {
		freqs[k] = float64(k) * binHz
	}

	return freqs, out[:n], nil
}

// NextPowerOfTwo returns the smallest power of two >= n, or 1 for n <= 1.
func NextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}

	return p
}

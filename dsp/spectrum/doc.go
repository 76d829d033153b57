// Package spectrum provides frequency-domain views of impulse responses.
//
// FrequencyResponse transforms an impulse response with algo-fft and
// returns its magnitude in dB over the non-negative frequency bins. The
// remaining helpers operate on complex bins and on magnitude curves.
package spectrum

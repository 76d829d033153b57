// Package ir computes room acoustic parameters from impulse responses.
//
// The metrics follow ISO 3382 and derive from the Schroeder backward
// integration of the squared response:
//
//   - RT60: reverberation time, from the T30 slope or else T20
//   - EDT: early decay time, from the 0 to -10 dB slope
//   - T20, T30: decay times from -5 to -25 dB and -5 to -35 dB
//   - C50, C80: clarity, early-to-late energy ratio in dB
//   - D50, D80: definition, early energy fraction
//   - CenterTime: temporal energy centroid
//
// Slopes are fitted with gonum's stat.LinearRegression.
//
//	analyzer := ir.NewAnalyzer(48000)
//	metrics, err := analyzer.Analyze(impulseResponse)
package ir

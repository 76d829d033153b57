package spatial

import "math"

// AzimuthPan returns left and right gains for a source at azimuth radians,
// measured clockwise from straight ahead.
//
//	gL = (1 - sin a) / sqrt(2(1 + sin² a))
//	gR = (1 + sin a) / sqrt(2(1 + sin² a))
//
// A source straight ahead (or behind) gets 1/√2 on both channels, a source
// at +90° is fully right and at -90° fully left. gL² + gR² is always 1.
func AzimuthPan(azimuth float64) (left, right float64) {
	s := math.Sin(azimuth)
	inv := 1 / math.Sqrt(2*(1+s*s))

	return (1 - s) * inv, (1 + s) * inv
}

// PanMono scales x by the gains of AzimuthPan.
func PanMono(x, azimuth float64) (left, right float64) {
	gl, gr := AzimuthPan(azimuth)
	return x * gl, x * gr
}

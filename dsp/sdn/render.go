package sdn

import "fmt"

// ImpulseResponse resets the network and returns its mono response to a
// unit impulse, length samples long. The network is left in the state
// after the last rendered sample.
func (n *Network) ImpulseResponse(length int) ([]float64, error) {
	if length <= 0 {
		return nil, fmt.Errorf("sdn: impulse response length must be > 0: %d", length)
	}

	n.Reset()

	out := make([]float64, length)
	out[0] = n.ScatterMono(1)

	for i := 1; i < length; i++ {
		out[i] = n.ScatterMono(0)
	}

	return out, nil
}

// StereoImpulseResponse resets the network and returns the stereo response
// to a unit impulse: the panned direct sound plus the panned reverberant
// field.
func (n *Network) StereoImpulseResponse(length int) (left, right []float64, err error) {
	if length <= 0 {
		return nil, nil, fmt.Errorf("sdn: impulse response length must be > 0: %d", length)
	}

	n.Reset()

	left = make([]float64, length)
	right = make([]float64, length)

	for i := range left {
		x := 0.0
		if i == 0 {
			x = 1
		}

		dl, dr := n.PositionSource(x)
		rl, rr := n.ScatterStereo(x)
		left[i] = dl + rl
		right[i] = dr + rr
	}

	return left, right, nil
}

// Paths resets the network and returns the impulse response of every path
// separately: paths[0] is the direct sound and paths[1+k] the reflection
// path through node k.
func (n *Network) Paths(length int) ([][]float64, error) {
	if length <= 0 {
		return nil, fmt.Errorf("sdn: impulse response length must be > 0: %d", length)
	}

	n.Reset()

	paths := make([][]float64, NodeCount+1)
	for i := range paths {
		paths[i] = make([]float64, length)
	}

	var frame [NodeCount + 1]float64
	for i := range length {
		x := 0.0
		if i == 0 {
			x = 1
		}

		n.Process(x, frame[:])

		for c := range paths {
			paths[c][i] = frame[c]
		}
	}

	return paths, nil
}

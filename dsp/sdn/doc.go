// Package sdn implements a Scattering Delay Network room reverberator.
//
// Sound from a mono source travels along delay lines to six scattering
// junctions, one placed on each wall of a rectangular room at the point
// where the first-order reflection between source and microphone touches
// it. Junctions are fully interconnected by bidirectional delay lines and
// redistribute the pressure arriving on each port with a lossless N-port
// scattering rule scaled by the wall absorption. Each junction also feeds
// the microphone through its own delay line, in parallel with the direct
// source-to-microphone path.
//
// The per-sample methods of [Network] (ScatterMono, ScatterStereo,
// PositionSource, Process) allocate nothing, take no locks and run in a
// fixed number of steps, so they can be driven from a real-time audio
// callback. A Network is not safe for concurrent use: geometry setters and
// per-sample calls must be serialized by the caller.
//
// # Usage
//
//	net, err := sdn.New(48000,
//		sdn.WithRoomSize(5, 5, 3),
//		sdn.WithSourcePosition(room.NewPoint(3.5, 2.5, 1.5)),
//		sdn.WithMicPosition(room.NewPoint(1.5, 2.5, 1.5)),
//	)
//	if err != nil {
//		return err
//	}
//	for i, x := range in {
//		out[i] = net.ScatterMono(x)
//	}
package sdn

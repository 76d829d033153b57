package sdn

import "errors"

var (
	// ErrInvalidSampleRate is returned for non-positive or non-finite rates.
	ErrInvalidSampleRate = errors.New("sdn: sample rate must be > 0")
	// ErrInvalidPosition is returned for source or mic coordinates that are
	// NaN or infinite.
	ErrInvalidPosition = errors.New("sdn: position must be finite")
	// ErrInvalidWall is returned for wall indices outside [0, NodeCount).
	ErrInvalidWall = errors.New("sdn: wall index out of range")
	// ErrGeometryOutOfRange is returned by New and by source or mic moves
	// when a leg would be longer than the room diagonal the lines are sized
	// for, typically because a position lies outside the room.
	ErrGeometryOutOfRange = errors.New("sdn: geometry exceeds delay capacity")
)

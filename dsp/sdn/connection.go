package sdn

import (
	"math/rand/v2"

	"github.com/cwbudde/algo-sdn/dsp/delay"
)

// Connection is the bidirectional link between two nodes. Both directions
// share one propagation distance.
type Connection struct {
	forward  *delay.Modulating // start -> end
	backward *delay.Modulating // end -> start
}

func newConnection(start, end *Node, sampleRate, maxDistance float64, rng *rand.Rand) (Connection, error) {
	distance := start.Position().DistanceTo(end.Position())

	forward, err := delay.FromDistance(sampleRate, distance, maxDistance, rng)
	if err != nil {
		return Connection{}, err
	}

	backward, err := delay.FromDistance(sampleRate, distance, maxDistance, rng)
	if err != nil {
		return Connection{}, err
	}

	c := Connection{forward: forward, backward: backward}
	if err := c.SetLength(distance); err != nil {
		return Connection{}, err
	}

	return c, nil
}

// SetLength retunes both directions to distance metres. Lines never get
// shorter than one sample, so a value written by one node is never read
// by its peer within the same sample.
func (c *Connection) SetLength(distance float64) error {
	for _, line := range [...]*delay.Modulating{c.forward, c.backward} {
		if err := line.SetLengthFromDistance(distance); err != nil {
			return err
		}

		if line.Length() == 0 {
			if err := line.SetLength(1); err != nil {
				return err
			}
		}
	}

	return nil
}

// StartTerminal returns the terminal for the node the connection starts at.
func (c *Connection) StartTerminal() Terminal {
	return Terminal{read: c.backward, write: c.forward}
}

// EndTerminal returns the terminal for the node the connection ends at.
func (c *Connection) EndTerminal() Terminal {
	return Terminal{read: c.forward, write: c.backward}
}

// Distance returns the propagation distance in metres.
func (c *Connection) Distance() float64 {
	return c.forward.Distance()
}

// Length returns the delay in samples, identical in both directions.
func (c *Connection) Length() int {
	return c.forward.Length()
}

func (c *Connection) canHold(distance float64) bool {
	return c.forward.CanHold(distance) && c.backward.CanHold(distance)
}

func (c *Connection) reset() {
	c.forward.Reset()
	c.backward.Reset()
}

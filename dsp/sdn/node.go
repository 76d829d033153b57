package sdn

import (
	"github.com/cwbudde/algo-sdn/dsp/core"
	"github.com/cwbudde/algo-sdn/dsp/room"
)

// Node is a scattering junction standing in for one wall.
type Node struct {
	position   room.Point
	absorption float64

	terminals []Terminal
	incoming  []float64
	outgoing  []float64
	output    float64
}

// NewNode returns a junction at position with room for ports terminals.
func NewNode(position room.Point, ports int) *Node {
	n := &Node{}
	n.init(position, ports)

	return n
}

func (n *Node) init(position room.Point, ports int) {
	n.position = position
	n.terminals = make([]Terminal, 0, ports)
	n.incoming = make([]float64, ports)
	n.outgoing = make([]float64, ports)
}

// Scatter advances the junction by one sample. input is the attenuated
// pressure arriving from the source; half of it is added to the wave
// arriving on every port.
//
// Scatter panics if fewer terminals than ports have been attached.
func (n *Node) Scatter(input float64) {
	if len(n.terminals) != len(n.incoming) {
		panic("sdn: node scattered before all terminals were attached")
	}

	half := 0.5 * input
	for i, t := range n.terminals {
		n.incoming[i] = t.Read() + half
	}

	scatterJunction(n.incoming, n.outgoing, n.absorption)

	sum := 0.0
	for i, t := range n.terminals {
		t.Write(n.outgoing[i])
		sum += n.outgoing[i]
	}

	n.output = 2 * sum / float64(len(n.outgoing))
}

// Output returns the pressure the node sends towards the microphone,
// computed by the last Scatter call.
func (n *Node) Output() float64 {
	return n.output
}

// Position returns the junction position.
func (n *Node) Position() room.Point {
	return n.position
}

// SetPosition moves the junction. Connection lengths are not updated.
func (n *Node) SetPosition(p room.Point) {
	n.position = p
}

// Absorption returns the wall absorption coefficient.
func (n *Node) Absorption() float64 {
	return n.absorption
}

// SetAbsorption sets the wall absorption coefficient. 0 is lossless, 1
// absorbs everything. Values outside [0, 1] are not rejected.
func (n *Node) SetAbsorption(a float64) {
	n.absorption = a
}

// Ports returns the number of terminals the node expects.
func (n *Node) Ports() int {
	return len(n.incoming)
}

// Terminals returns the number of terminals attached so far.
func (n *Node) Terminals() int {
	return len(n.terminals)
}

func (n *Node) addTerminal(t Terminal) {
	if len(n.terminals) == cap(n.terminals) {
		panic("sdn: node has no free port")
	}

	n.terminals = append(n.terminals, t)
}

func (n *Node) reset() {
	clear(n.incoming)
	clear(n.outgoing)
	n.output = 0
}

// scatterJunction applies the N-port pressure scattering rule
//
//	P = (2/N) Σ in[i],   out[i] = (1-absorption) (P - in[i])
//
// and returns P. With absorption 0 the rule is orthogonal, so outgoing
// energy equals incoming energy.
func scatterJunction(in, out []float64, absorption float64) float64 {
	sum := 0.0
	for _, p := range in {
		sum += p
	}

	junction := 2 * sum / float64(len(in))
	gain := 1 - absorption

	for i, p := range in {
		out[i] = core.FlushDenormals(gain * (junction - p))
	}

	return junction
}

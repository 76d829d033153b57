package sdn

import "github.com/cwbudde/algo-sdn/dsp/delay"

// Terminal is one end of a Connection: the line a node reads incoming
// pressure from and the line it writes outgoing pressure to. The lines
// are owned by the Connection.
type Terminal struct {
	read  *delay.Modulating
	write *delay.Modulating
}

// Write sends one sample towards the other end of the connection.
func (t Terminal) Write(sample float64) {
	t.write.Write(sample)
}

// Read returns the sample arriving from the other end.
func (t Terminal) Read() float64 {
	return t.read.Read()
}

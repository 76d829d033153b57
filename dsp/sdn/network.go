package sdn

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/cwbudde/algo-sdn/dsp/core"
	"github.com/cwbudde/algo-sdn/dsp/delay"
	"github.com/cwbudde/algo-sdn/dsp/effects/spatial"
	"github.com/cwbudde/algo-sdn/dsp/room"
)

const (
	// NodeCount is the number of scattering junctions, one per wall.
	NodeCount = room.WallCount
	// ConnectionCount is the number of inter-node connections.
	ConnectionCount = NodeCount * (NodeCount - 1) / 2

	delayOrder = NodeCount - 1
	radToDeg   = 180 / math.Pi
)

// Network is a Scattering Delay Network for one rectangular room.
type Network struct {
	sampleRate  float64
	room        room.Room
	maxDistance float64

	source room.Point
	mic    room.Point

	bounds      [NodeCount]room.Boundary
	nodes       [NodeCount]Node
	connections []Connection
	pairs       [ConnectionCount][2]int

	sourceToNode [NodeCount]*delay.Modulating
	nodeToMic    [NodeCount]*delay.Modulating
	direct       *delay.Modulating

	// Pan gains follow the geometry and are refreshed by recomputeGeometry.
	nodeGainL, nodeGainR     [NodeCount]float64
	sourceGainL, sourceGainR float64
}

// New builds a network for the given sample rate. Without options the room
// is 5×5×3 m with the default positions and wall absorption.
func New(sampleRate float64, opts ...Option) (*Network, error) {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("%w: %f", ErrInvalidSampleRate, sampleRate)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if cfg.rng == nil {
		cfg.rng = rand.New(rand.NewPCG(defaultSeed, 0))
	}

	n := &Network{
		sampleRate:  sampleRate,
		room:        cfg.room,
		maxDistance: math.Max(cfg.room.Diagonal(), room.MinDistance),
		bounds:      cfg.room.Boundaries(),
		pairs:       nodePairs(),
	}

	g, err := n.layout(cfg.positions())
	if err != nil {
		return nil, err
	}

	n.source, n.mic = g.source, g.mic

	for k := range n.nodes {
		n.nodes[k].init(g.nodes[k], delayOrder)
		n.nodes[k].SetAbsorption(cfg.absorption[k])
	}

	if err := n.connect(cfg.rng); err != nil {
		return nil, err
	}

	for k := range n.nodes {
		n.sourceToNode[k], err = delay.FromDistance(sampleRate, g.srcLeg[k], n.maxDistance, cfg.rng)
		if err != nil {
			return nil, fmt.Errorf("sdn: source to node %d: %w", k, err)
		}

		n.nodeToMic[k], err = delay.FromDistance(sampleRate, g.micLeg[k], n.maxDistance, cfg.rng)
		if err != nil {
			return nil, fmt.Errorf("sdn: node %d to mic: %w", k, err)
		}
	}

	direct, err := delay.FromDistance(sampleRate, g.direct, n.maxDistance, cfg.rng)
	if err != nil {
		return nil, fmt.Errorf("sdn: direct path: %w", err)
	}

	n.direct = direct
	n.updatePanGains()

	return n, nil
}

// nodePairs lists every unordered node pair in connection order.
func nodePairs() [ConnectionCount][2]int {
	var pairs [ConnectionCount][2]int

	i := 0
	for a := 0; a < NodeCount-1; a++ {
		for b := a + 1; b < NodeCount; b++ {
			pairs[i] = [2]int{a, b}
			i++
		}
	}

	return pairs
}

// connect allocates one connection per node pair and hands each node its
// terminals.
func (n *Network) connect(rng *rand.Rand) error {
	n.connections = make([]Connection, 0, ConnectionCount)

	for _, p := range n.pairs {
		c, err := newConnection(&n.nodes[p[0]], &n.nodes[p[1]], n.sampleRate, n.maxDistance, rng)
		if err != nil {
			return fmt.Errorf("sdn: connection %d-%d: %w", p[0], p[1], err)
		}

		n.connections = append(n.connections, c)
	}

	// Terminals reference lines owned by the connections; the slice is
	// never grown again.
	for i := range n.connections {
		a, b := n.pairs[i][0], n.pairs[i][1]
		n.nodes[a].addTerminal(n.connections[i].StartTerminal())
		n.nodes[b].addTerminal(n.connections[i].EndTerminal())
	}

	return nil
}

// scatter feeds input to every node through its source line and pushes the
// node outputs into the node-to-mic lines.
func (n *Network) scatter(input float64) {
	for k := range n.nodes {
		in := n.sourceToNode[k]
		in.Write(input)

		node := &n.nodes[k]
		node.Scatter(in.ReadWithDistanceAttenuation())
		n.nodeToMic[k].Write(node.Output())
	}
}

// nodeContribution reads node k's line to the mic. The source leg is
// attenuated on the way in; scaling by srcLeg/(srcLeg+micLeg) here makes
// the whole reflection path fall off as 1/r over its total length.
func (n *Network) nodeContribution(k int) float64 {
	srcLeg := n.sourceToNode[k].Distance()
	toMic := n.nodeToMic[k]

	return srcLeg * toMic.ReadAttenuatedBy(srcLeg+toMic.Distance())
}

// ScatterMono advances the network by one sample and returns the direct
// sound plus every node's reflection path.
func (n *Network) ScatterMono(input float64) float64 {
	n.scatter(input)

	n.direct.Write(input)
	out := n.direct.ReadWithDistanceAttenuation()

	for k := range n.nodes {
		out += n.nodeContribution(k)
	}

	return out
}

// ScatterStereo advances the network by one sample and returns the
// reverberant field panned by each node's azimuth. The direct sound is not
// included; render it with PositionSource.
func (n *Network) ScatterStereo(input float64) (left, right float64) {
	n.scatter(input)

	for k := range n.nodes {
		v := n.nodeContribution(k)
		left += v * n.nodeGainL[k]
		right += v * n.nodeGainR[k]
	}

	return left, right
}

// PositionSource renders only the direct path: input delayed and
// attenuated over the source-mic distance, panned by the source azimuth.
//
// It shares the direct line with ScatterMono and Process; call only one of
// them per sample.
func (n *Network) PositionSource(input float64) (left, right float64) {
	n.direct.Write(input)
	v := n.direct.ReadWithDistanceAttenuation()

	return v * n.sourceGainL, v * n.sourceGainR
}

// Process advances the network by one sample and writes each path to its
// own channel: out[0] is the direct sound and out[1+k] the path through
// node k. It panics if len(out) < NodeCount+1.
func (n *Network) Process(input float64, out []float64) {
	if len(out) < NodeCount+1 {
		panic(fmt.Sprintf("sdn: Process needs %d output channels, got %d", NodeCount+1, len(out)))
	}

	n.scatter(input)

	n.direct.Write(input)
	out[0] = n.direct.ReadWithDistanceAttenuation()

	for k := range n.nodes {
		out[k+1] = n.nodeContribution(k)
	}
}

// SetSourcePosition moves the source and retunes every affected delay.
// On error nothing changes.
func (n *Network) SetSourcePosition(x, y, z float64) error {
	return n.recomputeGeometry(room.NewPoint(x, y, z), n.mic)
}

// SetMicPosition moves the microphone and retunes every affected delay.
// On error nothing changes.
func (n *Network) SetMicPosition(x, y, z float64) error {
	return n.recomputeGeometry(n.source, room.NewPoint(x, y, z))
}

// geometry is the layout derived from one source/mic pair.
type geometry struct {
	source, mic room.Point
	nodes       [NodeCount]room.Point
	srcLeg      [NodeCount]float64
	micLeg      [NodeCount]float64
	connLen     [ConnectionCount]float64
	direct      float64
}

// layout derives node positions and every leg length for a source/mic
// pair. Every line is sized for the room diagonal, so a leg longer than
// that is rejected here, both at construction and on later moves.
func (n *Network) layout(source, mic room.Point) (geometry, error) {
	if err := checkPoint(source); err != nil {
		return geometry{}, err
	}

	if err := checkPoint(mic); err != nil {
		return geometry{}, err
	}

	g := geometry{source: source, mic: mic, direct: source.DistanceTo(mic)}

	for k := range n.bounds {
		g.nodes[k] = n.bounds[k].ScatteringNodePosition(mic, source)
		g.srcLeg[k] = source.DistanceTo(g.nodes[k])
		g.micLeg[k] = mic.DistanceTo(g.nodes[k])

		if !n.fits(g.srcLeg[k]) || !n.fits(g.micLeg[k]) {
			return geometry{}, fmt.Errorf("%w: node %d legs %.3f m / %.3f m (max %.3f m)",
				ErrGeometryOutOfRange, k, g.srcLeg[k], g.micLeg[k], n.maxDistance)
		}
	}

	for i, p := range n.pairs {
		g.connLen[i] = g.nodes[p[0]].DistanceTo(g.nodes[p[1]])
		if !n.fits(g.connLen[i]) {
			return geometry{}, fmt.Errorf("%w: connection %d-%d %.3f m (max %.3f m)",
				ErrGeometryOutOfRange, p[0], p[1], g.connLen[i], n.maxDistance)
		}
	}

	if !n.fits(g.direct) {
		return geometry{}, fmt.Errorf("%w: direct path %.3f m (max %.3f m)",
			ErrGeometryOutOfRange, g.direct, n.maxDistance)
	}

	return g, nil
}

// fits reports whether a leg of distance metres needs no more samples
// than the room diagonal.
func (n *Network) fits(distance float64) bool {
	return delay.SamplesForDistance(n.sampleRate, distance) <=
		delay.SamplesForDistance(n.sampleRate, n.maxDistance)
}

// recomputeGeometry moves the source and mic. The new layout is checked in
// full before anything is committed, so the network never holds lengths
// from two geometries.
func (n *Network) recomputeGeometry(source, mic room.Point) error {
	g, err := n.layout(source, mic)
	if err != nil {
		return err
	}

	n.source, n.mic = g.source, g.mic

	for k := range n.nodes {
		n.nodes[k].SetPosition(g.nodes[k])
		mustRetune(n.sourceToNode[k].SetLengthFromDistance(g.srcLeg[k]))
		mustRetune(n.nodeToMic[k].SetLengthFromDistance(g.micLeg[k]))
	}

	for i := range n.connections {
		mustRetune(n.connections[i].SetLength(g.connLen[i]))
	}

	mustRetune(n.direct.SetLengthFromDistance(g.direct))
	n.updatePanGains()

	return nil
}

// mustRetune guards lengths already validated by recomputeGeometry.
func mustRetune(err error) {
	if err != nil {
		panic("sdn: validated delay length rejected: " + err.Error())
	}
}

func (n *Network) updatePanGains() {
	for k := range n.nodes {
		n.nodeGainL[k], n.nodeGainR[k] = spatial.AzimuthPan(n.nodes[k].Position().AzimuthFrom(n.mic))
	}

	n.sourceGainL, n.sourceGainR = spatial.AzimuthPan(n.source.AzimuthFrom(n.mic))
}

// SetAbsorptionAmount sets the same absorption coefficient on every wall.
func (n *Network) SetAbsorptionAmount(a float64) {
	for k := range n.nodes {
		n.nodes[k].SetAbsorption(a)
	}
}

// SetWallAbsorption sets the absorption coefficient of one wall, indexed in
// room.Wall* order.
func (n *Network) SetWallAbsorption(wall int, a float64) error {
	if wall < 0 || wall >= NodeCount {
		return fmt.Errorf("%w: %d", ErrInvalidWall, wall)
	}

	n.nodes[wall].SetAbsorption(a)

	return nil
}

// WallAbsorption returns the absorption coefficient of one wall.
func (n *Network) WallAbsorption(wall int) float64 {
	return n.nodes[wall].Absorption()
}

// Reset clears every delay line and node state. Geometry is kept.
func (n *Network) Reset() {
	for k := range n.nodes {
		n.nodes[k].reset()
		n.sourceToNode[k].Reset()
		n.nodeToMic[k].Reset()
	}

	for i := range n.connections {
		n.connections[i].reset()
	}

	n.direct.Reset()
}

// SourceAzimuth returns the source azimuth seen from the mic, in degrees.
func (n *Network) SourceAzimuth() float64 {
	return n.source.AzimuthFrom(n.mic) * radToDeg
}

// SourceElevation returns the source elevation seen from the mic, in degrees.
func (n *Network) SourceElevation() float64 {
	return n.source.ElevationFrom(n.mic) * radToDeg
}

// NodeAzimuth returns node k's azimuth seen from the mic, in degrees.
func (n *Network) NodeAzimuth(k int) float64 {
	return n.nodes[k].Position().AzimuthFrom(n.mic) * radToDeg
}

// NodeElevation returns node k's elevation seen from the mic, in degrees.
func (n *Network) NodeElevation(k int) float64 {
	return n.nodes[k].Position().ElevationFrom(n.mic) * radToDeg
}

// Azimuths fills dst with the source azimuth followed by every node
// azimuth, in degrees. dst is reused when large enough.
func (n *Network) Azimuths(dst []float64) []float64 {
	dst = core.EnsureLen(dst, NodeCount+1)
	dst[0] = n.SourceAzimuth()

	for k := range n.nodes {
		dst[k+1] = n.NodeAzimuth(k)
	}

	return dst
}

// Elevations fills dst with the source elevation followed by every node
// elevation, in degrees. dst is reused when large enough.
func (n *Network) Elevations(dst []float64) []float64 {
	dst = core.EnsureLen(dst, NodeCount+1)
	dst[0] = n.SourceElevation()

	for k := range n.nodes {
		dst[k+1] = n.NodeElevation(k)
	}

	return dst
}

// SampleRate returns the sample rate in Hz.
func (n *Network) SampleRate() float64 { return n.sampleRate }

// Room returns the room dimensions.
func (n *Network) Room() room.Room { return n.room }

// MaxDistance returns the longest leg the delay lines were sized for.
func (n *Network) MaxDistance() float64 { return n.maxDistance }

// SourcePosition returns the source position.
func (n *Network) SourcePosition() room.Point { return n.source }

// MicPosition returns the microphone position.
func (n *Network) MicPosition() room.Point { return n.mic }

// NodePosition returns the position of node k.
func (n *Network) NodePosition(k int) room.Point { return n.nodes[k].Position() }

// ConnectionCount returns the number of inter-node connections.
func (n *Network) ConnectionCount() int { return len(n.connections) }

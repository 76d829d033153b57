package sdn

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-sdn/dsp/delay"
	"github.com/cwbudde/algo-sdn/dsp/room"
	"github.com/cwbudde/algo-sdn/internal/testutil"
)

const testRate = 48000.0

func newTestNetwork(t *testing.T, opts ...Option) *Network {
	t.Helper()

	n, err := New(testRate, opts...)
	require.NoError(t, err)

	return n
}

func TestNewValidation(t *testing.T) {
	for _, rate := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err := New(rate)
		assert.ErrorIs(t, err, ErrInvalidSampleRate, "rate %v", rate)
	}

	_, err := New(testRate, WithRoomSize(0, 5, 3))
	require.ErrorIs(t, err, room.ErrInvalidRoom)

	_, err = New(testRate, WithSourcePosition(room.NewPoint(math.NaN(), 1, 1)))
	require.ErrorIs(t, err, ErrInvalidPosition)

	_, err = New(testRate, WithWallAbsorption([NodeCount]float64{0, 0, 0, 0, 0, 1.2}))
	require.Error(t, err)

	_, err = New(testRate, WithRand(nil))
	require.Error(t, err)
}

func TestNewDefaults(t *testing.T) {
	n := newTestNetwork(t, nil)

	assert.Equal(t, DefaultRoom, n.Room())
	assert.Equal(t, testRate, n.SampleRate())
	assert.InDelta(t, DefaultRoom.Diagonal(), n.MaxDistance(), 1e-12)
	assert.Equal(t, room.NewPoint(3.75, 2.5, 1.5), n.SourcePosition())
	assert.Equal(t, room.NewPoint(1.25, 2.5, 1.5), n.MicPosition())
	assert.InDelta(t, 0, n.SourceAzimuth(), 1e-12, "default source is straight ahead")

	want := DefaultWallAbsorption()
	for k := range NodeCount {
		assert.Equal(t, want[k], n.WallAbsorption(k), "wall %d", k)
	}
}

func TestTopology(t *testing.T) {
	n := newTestNetwork(t)

	assert.Equal(t, NodeCount*(NodeCount-1)/2, n.ConnectionCount())
	assert.Len(t, n.connections, ConnectionCount)

	for k := range n.nodes {
		assert.Equal(t, NodeCount-1, n.nodes[k].Terminals(), "node %d", k)
		assert.Equal(t, NodeCount-1, n.nodes[k].Ports(), "node %d", k)
	}

	// Every pair is connected exactly once and each node's terminals lead
	// to distinct peers.
	seen := map[[2]int]bool{}
	for _, p := range n.pairs {
		require.Less(t, p[0], p[1])
		require.False(t, seen[p], "pair %v connected twice", p)
		seen[p] = true
	}

	assert.Len(t, seen, ConnectionCount)
}

func TestNodesSitOnTheirWalls(t *testing.T) {
	n := newTestNetwork(t,
		WithSourcePosition(room.NewPoint(1, 1, 1.2)),
		WithMicPosition(room.NewPoint(3.5, 4, 1.7)),
	)

	for k, b := range n.bounds {
		p := n.NodePosition(k)
		assert.InDelta(t, b.Offset, p.Coord(b.Plane.Normal()), 1e-12, "node %d", k)
		assert.True(t, n.Room().Contains(p), "node %d at %+v", k, p)
	}
}

func assertGeometryConsistent(t *testing.T, n *Network) {
	t.Helper()

	for k := range n.nodes {
		want := n.bounds[k].ScatteringNodePosition(n.mic, n.source)
		assert.Equal(t, want, n.nodes[k].Position(), "node %d position", k)

		srcLeg := n.source.DistanceTo(want)
		micLeg := n.mic.DistanceTo(want)
		assert.Equal(t, delay.SamplesForDistance(testRate, srcLeg), n.sourceToNode[k].Length(), "node %d source leg", k)
		assert.Equal(t, delay.SamplesForDistance(testRate, micLeg), n.nodeToMic[k].Length(), "node %d mic leg", k)
		assert.Equal(t, srcLeg, n.sourceToNode[k].Distance())
		assert.Equal(t, micLeg, n.nodeToMic[k].Distance())
	}

	for i, p := range n.pairs {
		d := n.nodes[p[0]].Position().DistanceTo(n.nodes[p[1]].Position())
		assert.Equal(t, delay.SamplesForDistance(testRate, d), n.connections[i].Length(), "connection %v", p)
		assert.Equal(t, d, n.connections[i].Distance(), "connection %v", p)
	}

	direct := n.source.DistanceTo(n.mic)
	assert.Equal(t, delay.SamplesForDistance(testRate, direct), n.direct.Length())
}

func TestGeometryConsistentAfterMoves(t *testing.T) {
	n := newTestNetwork(t)
	assertGeometryConsistent(t, n)

	require.NoError(t, n.SetSourcePosition(0.5, 4.2, 2.1))
	assert.Equal(t, room.NewPoint(0.5, 4.2, 2.1), n.SourcePosition())
	assertGeometryConsistent(t, n)

	require.NoError(t, n.SetMicPosition(4.4, 0.8, 1.1))
	assert.Equal(t, room.NewPoint(4.4, 0.8, 1.1), n.MicPosition())
	assertGeometryConsistent(t, n)

	// Coincident source and mic fall back to the distance floor.
	require.NoError(t, n.SetSourcePosition(4.4, 0.8, 1.1))
	assertGeometryConsistent(t, n)
	assert.Equal(t, delay.SamplesForDistance(testRate, room.MinDistance), n.direct.Length())
}

func TestGeometryMoveOutOfRangeChangesNothing(t *testing.T) {
	n := newTestNetwork(t)

	source, mic := n.SourcePosition(), n.MicPosition()
	var before [NodeCount]room.Point
	for k := range before {
		before[k] = n.NodePosition(k)
	}
	lengths := []int{n.direct.Length(), n.connections[0].Length(), n.sourceToNode[2].Length()}

	err := n.SetSourcePosition(40, 2, 1)
	require.ErrorIs(t, err, ErrGeometryOutOfRange)

	err = n.SetMicPosition(1, 1, math.Inf(1))
	require.ErrorIs(t, err, ErrInvalidPosition)

	assert.Equal(t, source, n.SourcePosition())
	assert.Equal(t, mic, n.MicPosition())
	for k := range before {
		assert.Equal(t, before[k], n.NodePosition(k))
	}
	assert.Equal(t, lengths, []int{n.direct.Length(), n.connections[0].Length(), n.sourceToNode[2].Length()})
	assertGeometryConsistent(t, n)
}

func TestNewRejectsGeometryOutOfRange(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
	}{
		{"source beyond wall", []Option{WithSourcePosition(room.NewPoint(20, 2.5, 1.5))}},
		{"mic below floor", []Option{WithMicPosition(room.NewPoint(1.25, 2.5, -12))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := New(testRate, tt.opts...)
			require.ErrorIs(t, err, ErrGeometryOutOfRange)
			assert.Nil(t, n)
		})
	}
}

func TestOppositeCornersBuildAndMove(t *testing.T) {
	n := newTestNetwork(t,
		WithSourcePosition(room.NewPoint(0, 0, 0)),
		WithMicPosition(room.NewPoint(5, 5, 3)),
	)
	assertGeometryConsistent(t, n)

	require.NoError(t, n.SetMicPosition(4.9, 5, 3))
	assertGeometryConsistent(t, n)
}

func TestEndToEndImpulse(t *testing.T) {
	n := newTestNetwork(t,
		WithRoomSize(5, 5, 3),
		WithSourcePosition(room.NewPoint(1, 1, 1.5)),
		WithMicPosition(room.NewPoint(4, 3, 1.5)),
	)

	ir, err := n.ImpulseResponse(4800)
	require.NoError(t, err)

	direct := math.Sqrt(13)
	want := int(math.Round(testRate * direct / delay.SpeedOfSound))

	assert.Equal(t, want, testutil.FirstNonZero(ir))
	assert.InDelta(t, 1/direct, ir[want], 1e-9)

	testutil.RequireFinite(t, ir)
	assert.NotZero(t, testutil.Energy(ir[want+1:]), "expected reflections after the direct sound")
}

func TestFirstOrderReflectionAmplitude(t *testing.T) {
	n := newTestNetwork(t,
		WithSourcePosition(room.NewPoint(1, 1, 1.5)),
		WithMicPosition(room.NewPoint(4, 3, 1.5)),
	)

	paths, err := n.Paths(2048)
	require.NoError(t, err)
	require.Len(t, paths, NodeCount+1)

	for k := range NodeCount {
		srcLeg := n.sourceToNode[k].Distance()
		micLeg := n.nodeToMic[k].Distance()
		at := n.sourceToNode[k].Length() + n.nodeToMic[k].Length()

		assert.Equal(t, at, testutil.FirstNonZero(paths[k+1]), "node %d arrival", k)
		want := (1 - n.WallAbsorption(k)) / (srcLeg + micLeg)
		assert.InDelta(t, want, paths[k+1][at], 1e-12, "node %d amplitude", k)
	}
}

func TestProcessSumsToScatterMono(t *testing.T) {
	a := newTestNetwork(t, WithSeed(1))
	b := newTestNetwork(t, WithSeed(99))

	frame := make([]float64, NodeCount+1)
	for i, x := range testutil.DeterministicNoise(3, 0.5, 3000) {
		mono := a.ScatterMono(x)
		b.Process(x, frame)

		sum := 0.0
		for _, v := range frame {
			sum += v
		}

		require.InDelta(t, mono, sum, 1e-12, "sample %d", i)
	}
}

func TestProcessPanicsOnShortOutput(t *testing.T) {
	n := newTestNetwork(t)
	assert.Panics(t, func() { n.Process(1, make([]float64, NodeCount)) })
}

func TestPositionSourcePanLaw(t *testing.T) {
	t.Run("ahead", func(t *testing.T) {
		n := newTestNetwork(t,
			WithMicPosition(room.NewPoint(2, 2.5, 1.5)),
			WithSourcePosition(room.NewPoint(4, 2.5, 1.5)),
		)

		l, r := renderDirect(t, n)
		assert.InDelta(t, l, r, 1e-6)
		assert.InDelta(t, 0.5/math.Sqrt2, l, 1e-12)
	})

	t.Run("right", func(t *testing.T) {
		n := newTestNetwork(t,
			WithMicPosition(room.NewPoint(2, 2.5, 1.5)),
			WithSourcePosition(room.NewPoint(2, 0.5, 1.5)),
		)

		assert.InDelta(t, 90, n.SourceAzimuth(), 1e-12)

		l, r := renderDirect(t, n)
		assert.InDelta(t, 0, l, 1e-12)
		assert.InDelta(t, 0.5, r, 1e-12)
	})
}

// renderDirect feeds an impulse to PositionSource and returns the peak
// left and right values.
func renderDirect(t *testing.T, n *Network) (left, right float64) {
	t.Helper()

	for i := range 1000 {
		x := 0.0
		if i == 0 {
			x = 1
		}

		l, r := n.PositionSource(x)
		if l != 0 || r != 0 {
			return l, r
		}
	}

	t.Fatal("no direct sound within 1000 samples")

	return 0, 0
}

func TestScatterStereoExcludesDirectSound(t *testing.T) {
	n := newTestNetwork(t,
		WithSourcePosition(room.NewPoint(1, 1, 1.5)),
		WithMicPosition(room.NewPoint(4, 3, 1.5)),
	)

	first := -1
	for i := range 2000 {
		x := 0.0
		if i == 0 {
			x = 1
		}

		l, r := n.ScatterStereo(x)
		if first < 0 && (l != 0 || r != 0) {
			first = i
		}
	}

	earliest := math.MaxInt
	for k := range NodeCount {
		earliest = min(earliest, n.sourceToNode[k].Length()+n.nodeToMic[k].Length())
	}

	assert.Equal(t, earliest, first)
	assert.Greater(t, first, n.direct.Length())
}

func TestStereoImpulseResponseDirectPower(t *testing.T) {
	n := newTestNetwork(t)

	left, right, err := n.StereoImpulseResponse(9600)
	require.NoError(t, err)

	// The direct sound arrives alone; the pan law keeps its power.
	at := n.direct.Length()
	assert.InDelta(t, 1/n.direct.Distance(), math.Hypot(left[at], right[at]), 1e-12)
	assert.Equal(t, at, testutil.FirstNonZero(left))
}

func TestAbsorptionOneLeavesOnlyDirectSound(t *testing.T) {
	n := newTestNetwork(t)
	n.SetAbsorptionAmount(1)

	ir, err := n.ImpulseResponse(4800)
	require.NoError(t, err)

	at := n.direct.Length()
	want := make([]float64, len(ir))
	want[at] = 1 / n.direct.Distance()

	if diff := cmp.Diff(want, ir, cmpopts.EquateApprox(0, 1e-15)); diff != "" {
		t.Fatalf("impulse response mismatch (-want +got):\n%s", diff)
	}
}

func TestHigherAbsorptionDecaysFaster(t *testing.T) {
	energyAfter := func(a float64) float64 {
		n := newTestNetwork(t)
		n.SetAbsorptionAmount(a)

		ir, err := n.ImpulseResponse(24000)
		require.NoError(t, err)

		return testutil.Energy(ir[12000:])
	}

	assert.Greater(t, energyAfter(0.05), energyAfter(0.3))
	assert.Greater(t, energyAfter(0.3), energyAfter(0.8))
}

func TestLosslessNetworkStaysBounded(t *testing.T) {
	n := newTestNetwork(t)
	n.SetAbsorptionAmount(0)

	ir, err := n.ImpulseResponse(48000)
	require.NoError(t, err)

	testutil.RequireFinite(t, ir)
	for i, v := range ir {
		require.Less(t, math.Abs(v), 10.0, "sample %d", i)
	}
}

func TestSetWallAbsorption(t *testing.T) {
	n := newTestNetwork(t)

	require.NoError(t, n.SetWallAbsorption(room.WallFloor, 0.5))
	assert.Equal(t, 0.5, n.WallAbsorption(room.WallFloor))

	require.ErrorIs(t, n.SetWallAbsorption(-1, 0.5), ErrInvalidWall)
	require.ErrorIs(t, n.SetWallAbsorption(NodeCount, 0.5), ErrInvalidWall)

	n.SetAbsorptionAmount(0.25)
	for k := range NodeCount {
		assert.Equal(t, 0.25, n.WallAbsorption(k))
	}
}

func TestAnglesInDegrees(t *testing.T) {
	n := newTestNetwork(t,
		WithMicPosition(room.NewPoint(2.5, 2.5, 1.5)),
		WithSourcePosition(room.NewPoint(2.5, 1.5, 2.5)),
	)

	assert.InDelta(t, 90, n.SourceAzimuth(), 1e-9)
	assert.InDelta(t, 45, n.SourceElevation(), 1e-9)

	az := n.Azimuths(nil)
	el := n.Elevations(make([]float64, 0, 16))
	require.Len(t, az, NodeCount+1)
	require.Len(t, el, NodeCount+1)

	assert.Equal(t, n.SourceAzimuth(), az[0])
	assert.Equal(t, n.SourceElevation(), el[0])

	for k := range NodeCount {
		assert.Equal(t, n.NodeAzimuth(k), az[k+1])
		assert.Equal(t, n.NodeElevation(k), el[k+1])
	}

	assert.Negative(t, n.NodeElevation(room.WallFloor), "floor node lies below the mic")
	assert.Positive(t, n.NodeElevation(room.WallCeiling), "ceiling node lies above the mic")
}

func TestResetClearsState(t *testing.T) {
	n := newTestNetwork(t)

	for _, x := range testutil.DeterministicNoise(5, 1, 5000) {
		n.ScatterMono(x)
	}

	n.Reset()

	for i := range 20000 {
		require.Zero(t, n.ScatterMono(0), "sample %d", i)
	}
}

func TestPerSamplePathsDoNotAllocate(t *testing.T) {
	n := newTestNetwork(t)
	frame := make([]float64, NodeCount+1)

	allocs := testing.AllocsPerRun(200, func() {
		n.ScatterMono(0.1)
		n.ScatterStereo(0.1)
		n.PositionSource(0.1)
		n.Process(0.1, frame)
	})
	assert.Zero(t, allocs)

	allocs = testing.AllocsPerRun(50, func() {
		_ = n.SetSourcePosition(3, 2, 1.4)
		_ = n.SetMicPosition(1, 3, 1.6)
		n.SetAbsorptionAmount(0.1)
	})
	assert.Zero(t, allocs)
}

func BenchmarkScatterMono(b *testing.B) {
	n, err := New(testRate)
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()

	x := 1.0
	for range b.N {
		x = n.ScatterMono(x) * 0.5
	}
}

func BenchmarkScatterStereo(b *testing.B) {
	n, err := New(testRate)
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()

	x := 1.0
	for range b.N {
		l, r := n.ScatterStereo(x)
		x = (l + r) * 0.25
	}
}

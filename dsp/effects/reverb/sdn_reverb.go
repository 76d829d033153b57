package reverb

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-sdn/dsp/core"
	"github.com/cwbudde/algo-sdn/dsp/room"
	"github.com/cwbudde/algo-sdn/dsp/sdn"
	"github.com/cwbudde/algo-vecmath"
)

const (
	defaultSDNWet = 1.0
	defaultSDNDry = 0.0
)

// SDNReverb renders a mono source inside a rectangular room through a
// Scattering Delay Network. The wet signal holds the panned direct sound
// plus the panned reverberant field; the dry signal is the unprocessed
// input.
type SDNReverb struct {
	network    *sdn.Network
	sampleRate float64
	wet        float64
	dry        float64
	absorption float64

	// Block scratch, sized once from the processor block size.
	wetL, wetR, dryBuf []float64
}

// SDNOption configures an SDNReverb.
type SDNOption func(*sdnReverbConfig)

type sdnReverbConfig struct {
	network   []sdn.Option
	processor []core.ProcessorOption
}

// WithNetworkOptions passes options to the underlying network.
func WithNetworkOptions(opts ...sdn.Option) SDNOption {
	return func(cfg *sdnReverbConfig) {
		cfg.network = append(cfg.network, opts...)
	}
}

// WithProcessorOptions sets block processing options. The block size
// bounds the scratch buffers used by ProcessStereo and ProcessMono; a
// sample rate given here is ignored in favour of the constructor's.
func WithProcessorOptions(opts ...core.ProcessorOption) SDNOption {
	return func(cfg *sdnReverbConfig) {
		cfg.processor = append(cfg.processor, opts...)
	}
}

// NewSDNReverb creates a room reverb for the given sample rate.
func NewSDNReverb(sampleRate float64, opts ...SDNOption) (*SDNReverb, error) {
	var cfg sdnReverbConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	network, err := sdn.New(sampleRate, cfg.network...)
	if err != nil {
		return nil, fmt.Errorf("reverb: sdn network: %w", err)
	}

	proc := core.ApplyProcessorOptions(append(cfg.processor, core.WithSampleRate(sampleRate))...)

	return &SDNReverb{
		network:    network,
		sampleRate: sampleRate,
		wet:        defaultSDNWet,
		dry:        defaultSDNDry,
		absorption: math.NaN(),
		wetL:       make([]float64, proc.BlockSize),
		wetR:       make([]float64, proc.BlockSize),
		dryBuf:     make([]float64, proc.BlockSize),
	}, nil
}

// SetWet sets wet gain.
func (r *SDNReverb) SetWet(v float64) error {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("sdn reverb wet must be >= 0: %f", v)
	}

	r.wet = v

	return nil
}

// SetDry sets dry gain.
func (r *SDNReverb) SetDry(v float64) error {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("sdn reverb dry must be >= 0: %f", v)
	}

	r.dry = v

	return nil
}

// SetSourcePosition moves the source. Coordinates are clamped into the
// room.
func (r *SDNReverb) SetSourcePosition(x, y, z float64) error {
	p, err := r.clampToRoom(x, y, z)
	if err != nil {
		return fmt.Errorf("sdn reverb source: %w", err)
	}

	return r.network.SetSourcePosition(p.X, p.Y, p.Z)
}

// SetMicPosition moves the microphone. Coordinates are clamped into the
// room.
func (r *SDNReverb) SetMicPosition(x, y, z float64) error {
	p, err := r.clampToRoom(x, y, z)
	if err != nil {
		return fmt.Errorf("sdn reverb mic: %w", err)
	}

	return r.network.SetMicPosition(p.X, p.Y, p.Z)
}

func (r *SDNReverb) clampToRoom(x, y, z float64) (room.Point, error) {
	for _, v := range [...]float64{x, y, z} {
		if math.IsNaN(v) {
			return room.Point{}, fmt.Errorf("%w: NaN coordinate", sdn.ErrInvalidPosition)
		}
	}

	rm := r.network.Room()

	return room.NewPoint(
		core.Clamp(x, 0, rm.Width),
		core.Clamp(y, 0, rm.Length),
		core.Clamp(z, 0, rm.Height),
	), nil
}

// SetAbsorption sets one absorption coefficient on every wall, clamped to
// [0,1].
func (r *SDNReverb) SetAbsorption(a float64) error {
	if math.IsNaN(a) {
		return fmt.Errorf("sdn reverb absorption must not be NaN")
	}

	r.absorption = core.Clamp(a, 0, 1)
	r.network.SetAbsorptionAmount(r.absorption)

	return nil
}

// Reset clears all delay state.
func (r *SDNReverb) Reset() {
	r.network.Reset()
}

// ProcessSample processes one mono sample into a stereo pair.
func (r *SDNReverb) ProcessSample(input float64) (left, right float64) {
	l, rt := r.renderStereo(input)
	dry := input * r.dry

	return dry + r.wet*l, dry + r.wet*rt
}

// ProcessStereo renders in to outL and outR. Both outputs must be at least
// as long as in. in may alias either output.
func (r *SDNReverb) ProcessStereo(in, outL, outR []float64) error {
	if len(outL) < len(in) || len(outR) < len(in) {
		return fmt.Errorf("sdn reverb: output length %d/%d shorter than input %d", len(outL), len(outR), len(in))
	}

	for start := 0; start < len(in); start += len(r.wetL) {
		end := min(start+len(r.wetL), len(in))
		block := in[start:end]
		n := len(block)

		for i, x := range block {
			r.wetL[i], r.wetR[i] = r.renderStereo(x)
		}

		vecmath.ScaleBlock(r.dryBuf[:n], block, r.dry)
		vecmath.ScaleBlock(outL[start:end], r.wetL[:n], r.wet)
		vecmath.ScaleBlock(outR[start:end], r.wetR[:n], r.wet)
		vecmath.AddBlockInPlace(outL[start:end], r.dryBuf[:n])
		vecmath.AddBlockInPlace(outR[start:end], r.dryBuf[:n])
	}

	return nil
}

func (r *SDNReverb) renderStereo(x float64) (left, right float64) {
	dl, dr := r.network.PositionSource(x)
	rl, rr := r.network.ScatterStereo(x)

	return dl + rl, dr + rr
}

// ProcessMono renders in to out through the mono path: direct sound plus
// every reflection path, unpanned. out must be at least as long as in and
// may alias it.
func (r *SDNReverb) ProcessMono(in, out []float64) error {
	if len(out) < len(in) {
		return fmt.Errorf("sdn reverb: output length %d shorter than input %d", len(out), len(in))
	}

	for start := 0; start < len(in); start += len(r.wetL) {
		end := min(start+len(r.wetL), len(in))
		block := in[start:end]
		n := len(block)

		for i, x := range block {
			r.wetL[i] = r.network.ScatterMono(x)
		}

		vecmath.ScaleBlock(r.dryBuf[:n], block, r.dry)
		vecmath.ScaleBlock(out[start:end], r.wetL[:n], r.wet)
		vecmath.AddBlockInPlace(out[start:end], r.dryBuf[:n])
	}

	return nil
}

// ProcessInPlace applies the mono path to buf in place.
func (r *SDNReverb) ProcessInPlace(buf []float64) error {
	return r.ProcessMono(buf, buf)
}

// Network returns the underlying network for diagnostics.
func (r *SDNReverb) Network() *sdn.Network { return r.network }

// SampleRate returns sample rate in Hz.
func (r *SDNReverb) SampleRate() float64 { return r.sampleRate }

// BlockSize returns the largest chunk rendered per scratch pass.
func (r *SDNReverb) BlockSize() int { return len(r.wetL) }

// Wet returns wet gain.
func (r *SDNReverb) Wet() float64 { return r.wet }

// Dry returns dry gain.
func (r *SDNReverb) Dry() float64 { return r.dry }

// SourcePosition returns the source position.
func (r *SDNReverb) SourcePosition() room.Point { return r.network.SourcePosition() }

// MicPosition returns the microphone position.
func (r *SDNReverb) MicPosition() room.Point { return r.network.MicPosition() }

// Absorption returns the value last given to SetAbsorption, or NaN when
// walls still use their individual defaults.
func (r *SDNReverb) Absorption() float64 { return r.absorption }

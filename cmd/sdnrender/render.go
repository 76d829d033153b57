package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/cwbudde/algo-sdn/dsp/room"
	"github.com/cwbudde/algo-sdn/dsp/sdn"
	"github.com/cwbudde/algo-sdn/dsp/spectrum"
	"github.com/cwbudde/algo-sdn/measure/ir"
)

// maxChartPoints bounds the number of frequency bins written to the chart.
const maxChartPoints = 1000

var wallNames = [sdn.NodeCount]string{
	room.WallLeft:    "left",
	room.WallRight:   "right",
	room.WallFront:   "front",
	room.WallBack:    "back",
	room.WallFloor:   "floor",
	room.WallCeiling: "ceiling",
}

type rendering struct {
	mono        []float64
	left, right []float64 // nil for mono renders
}

type channel struct {
	name string
	data []float64
}

func (r rendering) channels() []channel {
	if r.left == nil {
		return []channel{{"mono", r.mono}}
	}

	return []channel{{"left", r.left}, {"right", r.right}}
}

func render(n *sdn.Network, samples int, stereo bool) (rendering, error) {
	var r rendering

	mono, err := n.ImpulseResponse(samples)
	if err != nil {
		return r, err
	}
	r.mono = mono

	if stereo {
		r.left, r.right, err = n.StereoImpulseResponse(samples)
		if err != nil {
			return r, err
		}
	}

	return r, nil
}

func printReport(w io.Writer, n *sdn.Network, m ir.Metrics) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	rm := n.Room()
	src, mic := n.SourcePosition(), n.MicPosition()
	fmt.Fprintf(tw, "Room\t%.2f x %.2f x %.2f m\n", rm.Width, rm.Length, rm.Height)
	fmt.Fprintf(tw, "Source\t(%.2f, %.2f, %.2f)\tazimuth %.1f°\televation %.1f°\n",
		src.X, src.Y, src.Z, n.SourceAzimuth(), n.SourceElevation())
	fmt.Fprintf(tw, "Mic\t(%.2f, %.2f, %.2f)\n", mic.X, mic.Y, mic.Z)
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "Wall\tNode\tAbsorption\tAzimuth\tElevation")
	for k, name := range wallNames {
		p := n.NodePosition(k)
		fmt.Fprintf(tw, "%s\t(%.2f, %.2f, %.2f)\t%.4f\t%.1f°\t%.1f°\n",
			name, p.X, p.Y, p.Z, n.WallAbsorption(k), n.NodeAzimuth(k), n.NodeElevation(k))
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "Metric\tValue")
	fmt.Fprintf(tw, "Direct sound\t%.2f ms\n", 1000*float64(m.PeakIndex)/n.SampleRate())
	fmt.Fprintf(tw, "RT60\t%.3f s\n", m.RT60)
	fmt.Fprintf(tw, "EDT\t%.3f s\n", m.EDT)
	fmt.Fprintf(tw, "T20\t%.3f s\n", m.T20)
	fmt.Fprintf(tw, "T30\t%.3f s\n", m.T30)
	fmt.Fprintf(tw, "C50\t%.2f dB\n", m.C50)
	fmt.Fprintf(tw, "C80\t%.2f dB\n", m.C80)
	fmt.Fprintf(tw, "D50\t%.3f\n", m.D50)
	fmt.Fprintf(tw, "D80\t%.3f\n", m.D80)
	fmt.Fprintf(tw, "Center time\t%.2f ms\n", 1000*m.CenterTime)

	return tw.Flush()
}

func writeIRPlot(path string, sampleRate float64, r rendering) error {
	p := plot.New()
	p.Title.Text = "Room impulse response"
	p.X.Label.Text = "Time (ms)"
	p.Y.Label.Text = "Amplitude"

	for i, s := range r.channels() {
		pts := make(plotter.XYs, len(s.data))
		for j, v := range s.data {
			pts[j] = plotter.XY{X: 1000 * float64(j) / sampleRate, Y: v}
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("%s line: %w", s.name, err)
		}

		line.Width = vg.Points(0.5)
		line.Color = plotutil.Color(i)

		p.Add(line)
		p.Legend.Add(s.name, line)
	}

	return p.Save(10*vg.Inch, 4*vg.Inch, path)
}

// responseCurves returns the magnitude response of impulse in dB and the
// same response smoothed over 1/fraction octave bands. Smoothing averages
// power, not dB. The DC bin is dropped.
func responseCurves(impulse []float64, fftSize int, sampleRate float64, fraction int) (freqs, magDB, smoothedDB []float64, err error) {
	freqs, magDB, err = spectrum.FrequencyResponse(impulse, fftSize, sampleRate)
	if err != nil {
		return nil, nil, nil, err
	}

	_, power, err := spectrum.PowerResponse(impulse, fftSize, sampleRate)
	if err != nil {
		return nil, nil, nil, err
	}

	smoothed, err := spectrum.SmoothFractionalOctave(freqs[1:], power[1:], fraction)
	if err != nil {
		return nil, nil, nil, err
	}

	return freqs[1:], magDB[1:], spectrum.PowerToDB(smoothed), nil
}

func writeResponseChart(path string, impulse []float64, sampleRate float64) error {
	freqs, magDB, smoothed, err := responseCurves(impulse, spectrum.NextPowerOfTwo(len(impulse)), sampleRate, 3)
	if err != nil {
		return err
	}

	stride := max(1, len(freqs)/maxChartPoints)
	labels := make([]string, 0, len(freqs)/stride+1)
	raw := make([]opts.LineData, 0, cap(labels))
	third := make([]opts.LineData, 0, cap(labels))

	for i := 0; i < len(freqs); i += stride {
		labels = append(labels, fmt.Sprintf("%.0f", freqs[i]))
		raw = append(raw, opts.LineData{Value: magDB[i]})
		third = append(third, opts.LineData{Value: smoothed[i]})
	}

	chart := charts.NewLine()
	chart.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "SDN frequency response", Width: "1200px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: "Frequency response", Subtitle: fmt.Sprintf("%d bins, %.0f Hz", len(freqs)+1, sampleRate)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Frequency (Hz)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Magnitude (dB)", NameLocation: "middle", NameGap: 40}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
	)
	chart.SetXAxis(labels).
		AddSeries("raw", raw).
		AddSeries("1/3 octave", third)

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := chart.Render(f); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}

package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-sdn/internal/config"
)

type flags struct {
	configPath string
	rate       float64
	room       string
	source     string
	mic        string
	absorption float64
	seconds    float64
	seed       uint64
	stereo     bool
	pngPath    string
	htmlPath   string
}

func (f *flags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.configPath, "config", "", "JSON room config file")
	fs.Float64Var(&f.rate, "rate", config.DefaultSampleRate, "sample rate in Hz")
	fs.StringVar(&f.room, "room", "5x5x3", "room size WxLxH in metres")
	fs.StringVar(&f.source, "source", "", "source position x,y,z in metres")
	fs.StringVar(&f.mic, "mic", "", "microphone position x,y,z in metres")
	fs.Float64Var(&f.absorption, "absorption", 0, "absorption coefficient applied to every wall, in [0,1]")
	fs.Float64Var(&f.seconds, "seconds", config.DefaultSeconds, "impulse response length in seconds")
	fs.Uint64Var(&f.seed, "seed", config.DefaultSeed, "seed for per-line modulation frequencies")
	fs.BoolVar(&f.stereo, "stereo", false, "render a panned stereo response")
	fs.StringVar(&f.pngPath, "png", "", "write an impulse response plot to this PNG file")
	fs.StringVar(&f.htmlPath, "html", "", "write a frequency response chart to this HTML file")
}

// apply copies every flag named in set onto cfg.
func (f *flags) apply(cfg *config.RoomConfig, set map[string]bool) error {
	if set["rate"] {
		cfg.SampleRate = &f.rate
	}

	if set["room"] {
		v, err := parseVector(f.room, "x")
		if err != nil {
			return fmt.Errorf("-room: %w", err)
		}
		cfg.Room = &v
	}

	if set["source"] {
		v, err := parseVector(f.source, ",")
		if err != nil {
			return fmt.Errorf("-source: %w", err)
		}
		cfg.Source = &v
	}

	if set["mic"] {
		v, err := parseVector(f.mic, ",")
		if err != nil {
			return fmt.Errorf("-mic: %w", err)
		}
		cfg.Mic = &v
	}

	if set["absorption"] {
		cfg.SetAbsorption(f.absorption)
	}

	if set["seconds"] {
		cfg.Seconds = &f.seconds
	}

	if set["seed"] {
		cfg.Seed = &f.seed
	}

	if set["stereo"] {
		cfg.Stereo = &f.stereo
	}

	return nil
}

// parseVector parses three numbers separated by sep, e.g. "5x4x3" or
// "1,2,1.5".
func parseVector(s, sep string) ([3]float64, error) {
	var v [3]float64

	parts := strings.Split(s, sep)
	if len(parts) != len(v) {
		return v, fmt.Errorf("want 3 values separated by %q, got %q", sep, s)
	}

	for i, p := range parts {
		x, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return v, fmt.Errorf("value %d: %w", i, err)
		}
		v[i] = x
	}

	return v, nil
}

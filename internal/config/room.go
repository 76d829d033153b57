// Package config loads render settings for the command-line tools from
// JSON files. Every field is optional; omitted fields keep their defaults.
package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/cwbudde/algo-sdn/dsp/room"
	"github.com/cwbudde/algo-sdn/dsp/sdn"
)

// Defaults for fields left out of a RoomConfig.
const (
	DefaultSampleRate = 48000.0
	DefaultSeconds    = 1.0
	DefaultSeed       = 1
)

const maxFileSize = 1 * 1024 * 1024 // 1MB

// RoomConfig describes one room render. Vectors are [x, y, z] in metres;
// Room is [width, length, height].
type RoomConfig struct {
	SampleRate     *float64                `json:"sample_rate,omitempty"`
	Room           *[3]float64             `json:"room,omitempty"`
	Source         *[3]float64             `json:"source,omitempty"`
	Mic            *[3]float64             `json:"mic,omitempty"`
	Absorption     *float64                `json:"absorption,omitempty"`      // applied to every wall
	WallAbsorption *[sdn.NodeCount]float64 `json:"wall_absorption,omitempty"` // left, right, front, back, floor, ceiling
	Seconds        *float64                `json:"seconds,omitempty"`
	Seed           *uint64                 `json:"seed,omitempty"`
	Stereo         *bool                   `json:"stereo,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }

// LoadRoomConfig reads and validates a JSON room config.
func LoadRoomConfig(path string) (*RoomConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}

	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &RoomConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks the fields that are set.
func (c *RoomConfig) Validate() error {
	if c.SampleRate != nil && !(*c.SampleRate > 0) {
		return fmt.Errorf("sample_rate must be positive, got %f", *c.SampleRate)
	}

	if c.Room != nil {
		if _, err := room.New(c.Room[0], c.Room[1], c.Room[2]); err != nil {
			return fmt.Errorf("room: %w", err)
		}
	}

	if c.Absorption != nil {
		if err := checkAbsorption("absorption", *c.Absorption); err != nil {
			return err
		}
	}

	if c.WallAbsorption != nil {
		for i, a := range c.WallAbsorption {
			if err := checkAbsorption(fmt.Sprintf("wall_absorption[%d]", i), a); err != nil {
				return err
			}
		}
	}

	if c.Absorption != nil && c.WallAbsorption != nil {
		return fmt.Errorf("absorption and wall_absorption are mutually exclusive")
	}

	if c.Seconds != nil && !(*c.Seconds > 0) {
		return fmt.Errorf("seconds must be positive, got %f", *c.Seconds)
	}

	return nil
}

func checkAbsorption(name string, a float64) error {
	if a < 0 || a > 1 || math.IsNaN(a) {
		return fmt.Errorf("%s must be between 0 and 1, got %f", name, a)
	}

	return nil
}

// Options converts the config into network options. Unset fields fall
// back to the network defaults.
func (c *RoomConfig) Options() []sdn.Option {
	var opts []sdn.Option

	if c.Room != nil {
		opts = append(opts, sdn.WithRoomSize(c.Room[0], c.Room[1], c.Room[2]))
	}

	if c.Source != nil {
		opts = append(opts, sdn.WithSourcePosition(room.NewPoint(c.Source[0], c.Source[1], c.Source[2])))
	}

	if c.Mic != nil {
		opts = append(opts, sdn.WithMicPosition(room.NewPoint(c.Mic[0], c.Mic[1], c.Mic[2])))
	}

	switch {
	case c.WallAbsorption != nil:
		opts = append(opts, sdn.WithWallAbsorption(*c.WallAbsorption))
	case c.Absorption != nil:
		var walls [sdn.NodeCount]float64
		for i := range walls {
			walls[i] = *c.Absorption
		}

		opts = append(opts, sdn.WithWallAbsorption(walls))
	}

	return append(opts, sdn.WithSeed(c.GetSeed()))
}

// GetSampleRate returns the sample rate in Hz.
func (c *RoomConfig) GetSampleRate() float64 {
	if c.SampleRate == nil {
		return DefaultSampleRate
	}

	return *c.SampleRate
}

// GetSeconds returns the render length in seconds.
func (c *RoomConfig) GetSeconds() float64 {
	if c.Seconds == nil {
		return DefaultSeconds
	}

	return *c.Seconds
}

// GetSeed returns the modulation seed.
func (c *RoomConfig) GetSeed() uint64 {
	if c.Seed == nil {
		return DefaultSeed
	}

	return *c.Seed
}

// GetStereo reports whether a stereo render was requested.
func (c *RoomConfig) GetStereo() bool {
	return c.Stereo != nil && *c.Stereo
}

// Samples returns the render length in samples, at least one.
func (c *RoomConfig) Samples() int {
	return max(1, int(math.Round(c.GetSeconds()*c.GetSampleRate())))
}

// SetAbsorption sets a uniform absorption and clears any per-wall values.
func (c *RoomConfig) SetAbsorption(a float64) {
	c.Absorption = ptrFloat64(a)
	c.WallAbsorption = nil
}

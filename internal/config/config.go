// ABOUTME: YAML configuration for the hitsound engine and simulator
// ABOUTME: Loads settings, fills defaults and maps them onto engine types
package config

import (
	"os"

	"github.com/Sendspin/hitsync-go/pkg/cue"
	"github.com/Sendspin/hitsync-go/pkg/hitsync"
	"github.com/Sendspin/hitsync-go/pkg/sync"
	"github.com/joomcode/errorx"
	"gopkg.in/yaml.v3"
)

var (
	// Errors is the error namespace shared by the application plumbing
	Errors = errorx.NewNamespace("hitsync")

	// ErrConfig marks configuration failures
	ErrConfig = Errors.NewType("config")

	// ErrClip marks hitsound clip loading failures
	ErrClip = Errors.NewType("clip")

	// ErrOutput marks audio output failures
	ErrOutput = Errors.NewType("output")
)

// Config is the full application configuration
type Config struct {
	Gating   GatingConfig   `yaml:"gating"`
	Position PositionConfig `yaml:"position"`
	Filter   FilterConfig   `yaml:"filter"`
	Sim      SimConfig      `yaml:"sim"`
	Audio    AudioConfig    `yaml:"audio"`
}

// GatingConfig controls pausing hitsounds on missed notes
type GatingConfig struct {
	PauseOnMiss   *bool   `yaml:"pause_on_miss"`
	Offset        float64 `yaml:"offset"`
	SpatialOffset float64 `yaml:"spatial_offset"`
}

// PositionConfig controls where spatialized hitsounds play from
type PositionConfig struct {
	FollowSaber    *bool `yaml:"follow_saber"`
	FollowAfterCut *bool `yaml:"follow_after_cut"`
}

// FilterConfig holds the offset filter constants
type FilterConfig struct {
	MaxDiscrepancy float64 `yaml:"max_discrepancy"`
	SyncOffset     float64 `yaml:"sync_offset"`
}

// SimConfig drives the simulated host
type SimConfig struct {
	FPS         int     `yaml:"fps"`
	BPM         float64 `yaml:"bpm"`
	Notes       int     `yaml:"notes"`
	Quantum     float64 `yaml:"quantum"`     // raw offset error step, seconds
	MissRate    float64 `yaml:"miss_rate"`   // fraction of notes never cut
	LeadIn      float64 `yaml:"lead_in"`     // seconds before the song starts
	Spatializer string  `yaml:"spatializer"` // reported plugin name, empty for none
	Seed        int64   `yaml:"seed"`
}

// AudioConfig selects the hitsound clip and output format
type AudioConfig struct {
	Clip       string `yaml:"clip"`
	SampleRate int    `yaml:"sample_rate"`
}

// Default returns the default configuration
func Default() *Config {
	on := true
	follow := true
	after := true
	return &Config{
		Gating: GatingConfig{
			PauseOnMiss:   &on,
			Offset:        cue.DefaultGateOffset,
			SpatialOffset: cue.DefaultSpatialGateOffset,
		},
		Position: PositionConfig{
			FollowSaber:    &follow,
			FollowAfterCut: &after,
		},
		Filter: FilterConfig{
			MaxDiscrepancy: sync.DefaultMaxDiscrepancy,
			SyncOffset:     sync.DefaultSyncOffset,
		},
		Sim: SimConfig{
			FPS:      90,
			BPM:      120,
			Notes:    64,
			Quantum:  0.0213,
			MissRate: 0.1,
			LeadIn:   1.0,
			Seed:     1,
		},
		Audio: AudioConfig{
			SampleRate: 48000,
		},
	}
}

// Load reads the configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrConfig.Wrap(err, "read %s", path)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults, so keys left out keep their
// default and explicit zeros are honored
func Parse(data []byte) (*Config, error) {
	c := Default()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, ErrConfig.Wrap(err, "parse config")
	}
	applyDefaults(c)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
// Validate rejects values the simulator cannot run with
func (c *Config) Validate() error {
	if c.Sim.FPS <= 0 {
		return ErrConfig.New("sim.fps must be positive, got %d", c.Sim.FPS)
	}
	if c.Sim.BPM <= 0 {
		return ErrConfig.New("sim.bpm must be positive, got %v", c.Sim.BPM)
	}
	if c.Sim.MissRate < 0 || c.Sim.MissRate > 1 {
		return ErrConfig.New("sim.miss_rate must be within [0,1], got %v", c.Sim.MissRate)
	}
	if c.Filter.MaxDiscrepancy <= 0 {
		return ErrConfig.New("filter.max_discrepancy must be positive, got %v", c.Filter.MaxDiscrepancy)
	}
	return nil
}

// Settings maps the toggles onto engine settings
func (c *Config) Settings() hitsync.Settings {
	return hitsync.Settings{
		PauseOnMiss:       *c.Gating.PauseOnMiss,
		GateOffset:        c.Gating.Offset,
		SpatialGateOffset: c.Gating.SpatialOffset,
		FollowSaber:       *c.Position.FollowSaber,
		FollowAfterCut:    *c.Position.FollowAfterCut,
	}
}

// FilterConfig maps the filter constants onto the offset filter
func (c *Config) FilterConfig() sync.FilterConfig {
	return sync.FilterConfig{
		MaxDiscrepancy: c.Filter.MaxDiscrepancy,
		SyncOffset:     c.Filter.SyncOffset,
	}
}

// applyDefaults restores toggles cleared by an explicit null
func applyDefaults(c *Config) {
	d := Default()
	if c.Gating.PauseOnMiss == nil {
		c.Gating.PauseOnMiss = d.Gating.PauseOnMiss
	}
	if c.Position.FollowSaber == nil {
		c.Position.FollowSaber = d.Position.FollowSaber
	}
	if c.Position.FollowAfterCut == nil {
		c.Position.FollowAfterCut = d.Position.FollowAfterCut
	}
}

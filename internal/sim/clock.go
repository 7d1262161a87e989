// ABOUTME: Simulated host clocks with quantized song-position jitter
// ABOUTME: Reproduces the discrete raw-offset hopping the filter corrects
package sim

import (
	"context"
	"errors"
	"math/rand"

	"github.com/Sendspin/hitsync-go/pkg/sync"
)

// ErrClockStopped is returned once the simulated session is over
var ErrClockStopped = errors.New("sim: clock finished")

// ClockConfig describes the simulated timeline
type ClockConfig struct {
	FPS        int
	StartDSP   float64 // DSP time at frame 0
	LeadIn     float64 // seconds of NotStarted before the song
	SongLength float64
	Tail       float64 // seconds of Stopped after the song
	Quantum    float64 // size of the song-position reporting error
	WrongRate  float64 // fraction of frames reporting a stale position
	TimeScale  float64
	Capturing  bool
}

// Clock produces one ClockSample per frame
type Clock struct {
	config ClockConfig
	rng    *rand.Rand
	frame  int
}

// NewClock creates a simulated clock
func NewClock(config ClockConfig, rng *rand.Rand) *Clock {
	if config.TimeScale == 0 {
		config.TimeScale = 1
	}
	return &Clock{config: config, rng: rng}
}

// DSPTime returns the hardware clock at the current frame
func (c *Clock) DSPTime() float64 {
	return c.config.StartDSP + float64(c.frame)/float64(c.config.FPS)
}

// SongTime returns the true song position at the current frame
func (c *Clock) SongTime() float64 {
	return (float64(c.frame)/float64(c.config.FPS) - c.config.LeadIn) * c.config.TimeScale
}

// TrueOffset is the offset a perfect filter would lock onto
func (c *Clock) TrueOffset() float64 {
	return c.config.StartDSP + c.config.LeadIn
}

// State returns the timeline state at the current frame
func (c *Clock) State() sync.TimelineState {
	song := c.SongTime() / c.config.TimeScale
	switch {
	case song < 0:
		return sync.NotStarted
	case song <= c.config.SongLength:
		return sync.Running
	default:
		return sync.Stopped
	}
}

// Finished reports whether the tail after the song has elapsed
func (c *Clock) Finished() bool {
	return c.SongTime()/c.config.TimeScale > c.config.SongLength+c.config.Tail
}

// Sample implements hitsync.ClockSource
func (c *Clock) Sample(ctx context.Context) (sync.ClockSample, error) {
	if err := ctx.Err(); err != nil {
		return sync.ClockSample{}, err
	}
	if c.Finished() {
		return sync.ClockSample{}, ErrClockStopped
	}

	state := c.State()
	song := c.SongTime()
	if state != sync.Running {
		song = 0
	} else if c.rng.Float64() < c.config.WrongRate {
		// the audio source reports the start of the previous buffer
		song -= c.config.Quantum * c.config.TimeScale
	}

	return sync.ClockSample{
		HardwareTime:    c.DSPTime(),
		LogicalPosition: song,
		TimeScale:       c.config.TimeScale,
		State:           state,
		Capturing:       c.config.Capturing,
	}, nil
}

// Advance moves to the next frame
func (c *Clock) Advance() {
	c.frame++
}

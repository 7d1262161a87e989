// ABOUTME: Per-cue miss gate state machine
// ABOUTME: Pauses hitsounds whose note was not cut by the deadline
package cue

import (
	"github.com/charmbracelet/log"
)

// Decision is the gate state of one scheduled cue
type Decision int

const (
	// Pending: audible, waiting for a cut or the deadline
	Pending Decision = iota
	// Armed: pre-muted at creation, still waiting for a cut or the deadline
	Armed
	// Muted: deadline passed without a cut; playback paused
	Muted
	// Released: cut observed; unmuted and resumed for good
	Released
)

func (d Decision) String() string {
	switch d {
	case Pending:
		return "pending"
	case Armed:
		return "armed"
	case Muted:
		return "muted"
	case Released:
		return "released"
	}
	return "unknown"
}

const (
	// DefaultGateOffset is the deadline offset relative to the note time
	DefaultGateOffset = -0.02

	// DefaultSpatialGateOffset gates earlier: spatialized sources click if
	// paused too late
	DefaultSpatialGateOffset = -0.04

	// SwingSpeedThreshold is the blade speed above which a cue may sound
	// before the cut
	SwingSpeedThreshold = 15.0
)

// Actuator receives the playback commands issued by a gate.
// Commands are one-way; failures are the host's business.
type Actuator interface {
	Pause()
	Resume()
	Mute()
	Unmute()
}

// GateOptions is the configuration consulted at each decision point
type GateOptions struct {
	Enabled       bool // pause hitsounds on miss
	Offset        float64
	SpatialOffset float64
}

// DefaultGateOptions returns gating enabled with the tuned offsets
func DefaultGateOptions() GateOptions {
	return GateOptions{
		Enabled:       true,
		Offset:        DefaultGateOffset,
		SpatialOffset: DefaultSpatialGateOffset,
	}
}

// GateSpec describes a cue at creation time
type GateSpec struct {
	ScheduledDSPTime float64 // DSP time the sound starts
	LeadTime         float64 // sound lead before the note; deadline base is start+lead
	Spatialized      bool

	// Short classification: gap to the previous same-color note compared
	// against the beat alignment tolerance
	Gap                float64
	BeatAlignTolerance float64

	SwingSpeed float64 // blade speed when the cue was created
}

// ScheduledCue is the state of one in-flight hitsound
type ScheduledCue struct {
	ScheduledDSPTime float64
	LeadTime         float64
	Spatialized      bool
	Triggered        bool
	Short            bool
	Decision         Decision
}

// Gate runs the miss gate for one cue
type Gate struct {
	cue ScheduledCue
	out Actuator
}

// NewGate creates the gate for a freshly scheduled cue. When gating is
// enabled and the cue would sound before any swing (slow blade or short
// note), it starts muted in the Armed state.
func NewGate(spec GateSpec, out Actuator, opts GateOptions) *Gate {
	g := &Gate{
		cue: ScheduledCue{
			ScheduledDSPTime: spec.ScheduledDSPTime,
			LeadTime:         spec.LeadTime,
			Spatialized:      spec.Spatialized,
			Decision:         Pending,
		},
		out: out,
	}

	if !opts.Enabled {
		return g
	}

	g.cue.Short = spec.Gap < spec.BeatAlignTolerance

	audible := spec.SwingSpeed > SwingSpeedThreshold && !g.cue.Short
	if !audible {
		g.out.Mute()
		g.cue.Decision = Armed
	}

	return g
}

// Deadline returns the DSP time after which an uncut cue is paused
func (g *Gate) Deadline(spatialBackend bool, opts GateOptions) float64 {
	offset := opts.Offset
	if g.cue.Spatialized && spatialBackend {
		offset = opts.SpatialOffset
	}
	return g.cue.ScheduledDSPTime + g.cue.LeadTime + offset
}

// Trigger records that the cue's note was cut, good or bad
func (g *Gate) Trigger() {
	g.cue.Triggered = true
}

// Step advances the gate against the corrected DSP clock and returns the
// resulting decision
func (g *Gate) Step(now float64, spatialBackend bool, opts GateOptions) Decision {
	if !opts.Enabled {
		return g.cue.Decision
	}

	switch g.cue.Decision {
	case Released:
		return Released

	case Muted:
		if g.cue.Triggered {
			g.release()
		}

	case Pending, Armed:
		if g.cue.Triggered {
			g.release()
		} else if now >= g.Deadline(spatialBackend, opts) {
			g.out.Pause()
			g.cue.Decision = Muted
			log.Debug("Cue gated on miss", "scheduled", g.cue.ScheduledDSPTime, "now", now)
		}
	}

	return g.cue.Decision
}

func (g *Gate) release() {
	g.out.Unmute()
	g.out.Resume()
	g.cue.Decision = Released
}

// Decision returns the current gate decision
func (g *Gate) Decision() Decision {
	return g.cue.Decision
}

// Done reports whether the gate no longer manages the cue
func (g *Gate) Done() bool {
	return g.cue.Decision == Released
}

// Cue returns a copy of the cue state
func (g *Gate) Cue() ScheduledCue {
	return g.cue
}

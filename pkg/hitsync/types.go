// ABOUTME: Host boundary types for the hitsound engine
// ABOUTME: Clock source, voice actuation, saber pose and settings contracts
package hitsync

import (
	"context"

	"github.com/Sendspin/hitsync-go/pkg/cue"
	"github.com/Sendspin/hitsync-go/pkg/sync"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// ClockSource supplies one clock sample per tick
type ClockSource interface {
	Sample(ctx context.Context) (sync.ClockSample, error)
}

// Voice is the playback handle of one scheduled hitsound
type Voice interface {
	cue.Actuator
	SetPosition(pos mgl64.Vec3)
	// Finished reports that the sound has played out and can be dropped
	Finished() bool
}

// VoiceFactory creates and schedules the sound for a dispatched cue.
// startDSP is the corrected DSP time the sound must start at.
type VoiceFactory interface {
	NewVoice(id uuid.UUID, startDSP float64, spec CueSpec) Voice
}

// Saber is the live pose a cue follows
type Saber interface {
	Tip() mgl64.Vec3
	Mid() mgl64.Vec3
}

// CueSpec describes a hitsound when its note spawns
type CueSpec struct {
	NoteTime    float64 // song time of the note, seconds
	LeadTime    float64 // sound starts this long before the note
	Pitch       float64
	Spatialized bool
	Saber       Saber

	Gap                float64 // time to previous same-color note
	BeatAlignTolerance float64
	SwingSpeed         float64
}

// TriggerEvent is a cut of the cue's note
type TriggerEvent struct {
	CutPoint mgl64.Vec3
	Good     bool
}

// Settings are the user toggles, read at every decision point
type Settings struct {
	PauseOnMiss       bool
	GateOffset        float64
	SpatialGateOffset float64

	FollowSaber    bool // false pins spatialized cues at the origin
	FollowAfterCut bool
}

// DefaultSettings returns all features enabled with tuned offsets
func DefaultSettings() Settings {
	return Settings{
		PauseOnMiss:       true,
		GateOffset:        cue.DefaultGateOffset,
		SpatialGateOffset: cue.DefaultSpatialGateOffset,
		FollowSaber:       true,
		FollowAfterCut:    true,
	}
}

func (s Settings) gateOptions() cue.GateOptions {
	return cue.GateOptions{
		Enabled:       s.PauseOnMiss,
		Offset:        s.GateOffset,
		SpatialOffset: s.SpatialGateOffset,
	}
}

// ABOUTME: Per-tick hitsound engine
// ABOUTME: Runs filter, deferred flush, miss gates and position fades in order
package hitsync

import (
	"context"

	"github.com/Sendspin/hitsync-go/pkg/cue"
	"github.com/Sendspin/hitsync-go/pkg/follow"
	"github.com/Sendspin/hitsync-go/pkg/spatial"
	"github.com/Sendspin/hitsync-go/pkg/sync"
	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// DefaultMissExpiry is how long a missed cue stays tracked after it was
// paused, in seconds. A late cut inside this window still releases it.
const DefaultMissExpiry = 2.0

// Config holds engine configuration
type Config struct {
	Filter     sync.FilterConfig
	Spatial    spatial.Backend
	Voices     VoiceFactory
	Settings   func() Settings // nil means DefaultSettings
	MissExpiry float64         // seconds; 0 means DefaultMissExpiry
}

// Stats tracks cumulative engine counters
type Stats struct {
	Spawned  int64
	Deferred int64
	Muted    int64
	Released int64
	Finished int64
	Expired  int64 // missed cues dropped without a cut
	Skipped  int64 // ticks dropped because the clock could not be read
}

// Snapshot is the engine state after one tick
type Snapshot struct {
	Sample    sync.ClockSample
	Raw       float64
	Offset    float64
	Filter    sync.FilterState
	Pending   int // spawns waiting for the timeline
	Flushed   int // spawns released from the queue this tick
	Decisions [4]int
	Stats     Stats
}

type pendingSpawn struct {
	id   uuid.UUID
	spec CueSpec
}

type trackedCue struct {
	spec  CueSpec
	voice Voice
	gate  *cue.Gate
	fade  follow.FadeState
	cut   bool

	mutedAt float64 // DSP time the gate paused the cue
}

// Engine owns the timing state of one playback session.
// Not safe for concurrent use; call everything from the tick loop.
type Engine struct {
	config   Config
	filter   *sync.OffsetFilter
	queue    *cue.Deferred[pendingSpawn]
	cues     map[uuid.UUID]*trackedCue
	order    []uuid.UUID
	waiting  map[uuid.UUID]bool // spawned, not yet dispatched
	early    map[uuid.UUID]TriggerEvent
	sample   sync.ClockSample
	offset   float64
	stats    Stats
	flushLog bool
}

// New creates an engine
func New(config Config) *Engine {
	if config.Filter == (sync.FilterConfig{}) {
		config.Filter = sync.DefaultFilterConfig()
	}
	if config.MissExpiry <= 0 {
		config.MissExpiry = DefaultMissExpiry
	}

	e := &Engine{
		config:  config,
		filter:  sync.NewOffsetFilterWithConfig(config.Filter),
		cues:    make(map[uuid.UUID]*trackedCue),
		waiting: make(map[uuid.UUID]bool),
		early:   make(map[uuid.UUID]TriggerEvent),
	}
	e.queue = cue.NewDeferred(e.dispatch)
	return e
}

func (e *Engine) settings() Settings {
	if e.config.Settings == nil {
		return DefaultSettings()
	}
	return e.config.Settings()
}

// Poll reads one sample from src and ticks. A failed read skips the tick.
func (e *Engine) Poll(ctx context.Context, src ClockSource) (Snapshot, bool) {
	s, err := src.Sample(ctx)
	if err != nil {
		e.stats.Skipped++
		if e.stats.Skipped <= 5 {
			log.Warn("Skipping tick: clock unavailable", "err", err)
		}
		return e.snapshot(0), false
	}
	return e.Tick(s), true
}

// Tick advances the engine by one frame
func (e *Engine) Tick(s sync.ClockSample) Snapshot {
	e.sample = s

	// 1. corrected clock
	e.offset = e.filter.CorrectSample(s)

	// 2. deferred spawns
	flushed := e.queue.TryFlush(s.State)
	if flushed > 0 && !e.flushLog {
		log.Info("Flushed deferred cues", "count", flushed, "offset", e.offset)
		e.flushLog = true
	}
	if s.State != sync.Running {
		e.flushLog = false
	}

	// 3+4. gates and position
	set := e.settings()
	live := e.order[:0]
	for _, id := range e.order {
		c, ok := e.cues[id]
		if !ok {
			continue
		}
		if c.voice.Finished() {
			delete(e.cues, id)
			e.stats.Finished++
			continue
		}
		e.stepCue(c, set)
		if e.expired(c) {
			delete(e.cues, id)
			e.stats.Expired++
			continue
		}
		live = append(live, id)
	}
	e.order = live

	return e.snapshot(flushed)
}

func (e *Engine) stepCue(c *trackedCue, set Settings) {
	now := e.sample.HardwareTime

	before := c.gate.Decision()
	after := c.gate.Step(now, e.config.Spatial.Present, set.gateOptions())
	if after != before {
		switch after {
		case cue.Muted:
			e.stats.Muted++
			c.mutedAt = now
		case cue.Released:
			e.stats.Released++
		}
	}

	if !e.follows(c, set) {
		return
	}

	var pos mgl64.Vec3
	moved := false
	if !c.cut && c.spec.Saber != nil {
		pos, moved = c.spec.Saber.Tip(), true
	}
	if set.FollowAfterCut && c.spec.Saber != nil {
		pos, moved = c.fade.Update(now, c.spec.Saber.Mid()), true
	}
	if moved {
		c.voice.SetPosition(pos)
	}
}

// expired reports whether a missed cue has waited out its window
func (e *Engine) expired(c *trackedCue) bool {
	return c.gate.Decision() == cue.Muted && e.sample.HardwareTime-c.mutedAt >= e.config.MissExpiry
}

// follows reports whether position follow applies to the cue this tick
func (e *Engine) follows(c *trackedCue, set Settings) bool {
	return set.FollowSaber && c.spec.Spatialized && e.config.Spatial.Present
}

// Spawn submits a cue. Before the timeline runs it is held back and
// scheduled, in order, on the first running tick.
func (e *Engine) Spawn(spec CueSpec) uuid.UUID {
	id := uuid.New()
	e.stats.Spawned++
	e.waiting[id] = true
	if !e.queue.Submit(pendingSpawn{id: id, spec: spec}, e.sample.State) {
		e.stats.Deferred++
	}
	return id
}

// dispatch schedules a cue against the corrected clock
func (e *Engine) dispatch(p pendingSpawn) {
	if !e.waiting[p.id] {
		// removed while deferred
		return
	}
	delete(e.waiting, p.id)

	set := e.settings()

	scale := e.sample.TimeScale
	if scale == 0 {
		scale = 1
	}
	startDSP := p.spec.NoteTime/scale + e.offset - p.spec.LeadTime

	voice := e.config.Voices.NewVoice(p.id, startDSP, p.spec)

	gate := cue.NewGate(cue.GateSpec{
		ScheduledDSPTime:   startDSP,
		LeadTime:           p.spec.LeadTime,
		Spatialized:        p.spec.Spatialized,
		Gap:                p.spec.Gap,
		BeatAlignTolerance: p.spec.BeatAlignTolerance,
		SwingSpeed:         p.spec.SwingSpeed,
	}, voice, set.gateOptions())

	c := &trackedCue{
		spec:  p.spec,
		voice: voice,
		gate:  gate,
	}

	if p.spec.Spatialized {
		var pos mgl64.Vec3
		if e.follows(c, set) && p.spec.Saber != nil {
			pos = p.spec.Saber.Tip()
		}
		voice.SetPosition(pos)
	}

	e.cues[p.id] = c
	e.order = append(e.order, p.id)

	if ev, ok := e.early[p.id]; ok {
		delete(e.early, p.id)
		e.applyTrigger(c, ev, set)
	}
}

// Trigger records the cut of a cue's note
func (e *Engine) Trigger(id uuid.UUID, ev TriggerEvent) {
	c, ok := e.cues[id]
	if !ok {
		if e.waiting[id] {
			// still deferred; replay on dispatch
			e.early[id] = ev
		}
		return
	}
	e.applyTrigger(c, ev, e.settings())
}

func (e *Engine) applyTrigger(c *trackedCue, ev TriggerEvent, set Settings) {
	if c.cut {
		return
	}
	c.cut = true
	c.gate.Trigger()

	if !e.follows(c, set) {
		return
	}

	c.voice.SetPosition(ev.CutPoint)
	if set.FollowAfterCut {
		c.fade.Start(e.sample.HardwareTime, ev.CutPoint, follow.Duration(c.spec.Pitch))
	}
}

// Remove stops tracking a cue. Its state is discarded.
func (e *Engine) Remove(id uuid.UUID) {
	delete(e.cues, id)
	delete(e.waiting, id)
	delete(e.early, id)
}

// Decision returns the gate decision of a tracked cue
func (e *Engine) Decision(id uuid.UUID) (cue.Decision, bool) {
	c, ok := e.cues[id]
	if !ok {
		return cue.Pending, false
	}
	return c.gate.Decision(), true
}

// Offset returns the corrected offset from the last tick
func (e *Engine) Offset() float64 {
	return e.offset
}

// Stats returns cumulative counters
func (e *Engine) Stats() Stats {
	return e.stats
}

func (e *Engine) snapshot(flushed int) Snapshot {
	snap := Snapshot{
		Sample:  e.sample,
		Raw:     sync.RawOffset(e.sample),
		Offset:  e.offset,
		Filter:  e.filter.State(),
		Pending: e.queue.Len(),
		Flushed: flushed,
		Stats:   e.stats,
	}
	for _, c := range e.cues {
		snap.Decisions[c.gate.Decision()]++
	}
	return snap
}

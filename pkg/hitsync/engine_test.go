// ABOUTME: Tests for the hitsound engine
// ABOUTME: Tests tick ordering, deferred spawns, gating and position follow
package hitsync

import (
	"context"
	"errors"
	"testing"

	"github.com/Sendspin/hitsync-go/pkg/cue"
	"github.com/Sendspin/hitsync-go/pkg/spatial"
	"github.com/Sendspin/hitsync-go/pkg/sync"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

type fakeVoice struct {
	id        uuid.UUID
	start     float64
	calls     []string
	positions []mgl64.Vec3
	finished  bool
}

func (v *fakeVoice) Pause()                   { v.calls = append(v.calls, "pause") }
func (v *fakeVoice) Resume()                  { v.calls = append(v.calls, "resume") }
func (v *fakeVoice) Mute()                    { v.calls = append(v.calls, "mute") }
func (v *fakeVoice) Unmute()                  { v.calls = append(v.calls, "unmute") }
func (v *fakeVoice) SetPosition(p mgl64.Vec3) { v.positions = append(v.positions, p) }
func (v *fakeVoice) Finished() bool           { return v.finished }
func (v *fakeVoice) lastPosition() mgl64.Vec3 { return v.positions[len(v.positions)-1] }
func (v *fakeVoice) has(call string) bool     { return contains(v.calls, call) }

func contains(calls []string, call string) bool {
	for _, c := range calls {
		if c == call {
			return true
		}
	}
	return false
}

type fakeFactory struct {
	voices []*fakeVoice
}

func (f *fakeFactory) NewVoice(id uuid.UUID, startDSP float64, spec CueSpec) Voice {
	v := &fakeVoice{id: id, start: startDSP}
	f.voices = append(f.voices, v)
	return v
}

type fixedSaber struct {
	tip, mid mgl64.Vec3
}

func (s *fixedSaber) Tip() mgl64.Vec3 { return s.tip }
func (s *fixedSaber) Mid() mgl64.Vec3 { return s.mid }

func running(dsp, song float64) sync.ClockSample {
	return sync.ClockSample{HardwareTime: dsp, LogicalPosition: song, TimeScale: 1, State: sync.Running}
}

// loudSpec starts audible so gate calls are only deadline/trigger driven
func loudSpec(note float64) CueSpec {
	return CueSpec{
		NoteTime:           note,
		LeadTime:           0.5,
		Pitch:              1,
		Gap:                1,
		BeatAlignTolerance: 0.1,
		SwingSpeed:         20,
	}
}

func TestDeferredSpawnsFlushInOrder(t *testing.T) {
	f := &fakeFactory{}
	e := New(Config{Voices: f})

	e.Tick(sync.ClockSample{HardwareTime: 99.0, State: sync.NotStarted})

	ids := []uuid.UUID{
		e.Spawn(loudSpec(1.0)),
		e.Spawn(loudSpec(2.0)),
		e.Spawn(loudSpec(3.0)),
	}
	if len(f.voices) != 0 {
		t.Fatalf("expected no voices before running, got %d", len(f.voices))
	}

	snap := e.Tick(running(100.0, 0.0))
	if snap.Flushed != 3 || snap.Pending != 0 {
		t.Errorf("expected 3 flushed and 0 pending, got %d/%d", snap.Flushed, snap.Pending)
	}
	if len(f.voices) != 3 {
		t.Fatalf("expected 3 voices, got %d", len(f.voices))
	}
	for i, v := range f.voices {
		if v.id != ids[i] {
			t.Errorf("voice %d dispatched out of order", i)
		}
	}

	// start = note + corrected offset - lead
	if f.voices[1].start != 2.0+100.0-0.5 {
		t.Errorf("expected start 101.5, got %v", f.voices[1].start)
	}

	e.Spawn(loudSpec(4.0))
	if len(f.voices) != 4 {
		t.Error("expected immediate dispatch once running")
	}
	if e.Stats().Deferred != 3 || e.Stats().Spawned != 4 {
		t.Errorf("unexpected stats: %+v", e.Stats())
	}
}

func TestEngineGatesMissedCue(t *testing.T) {
	f := &fakeFactory{}
	e := New(Config{Voices: f})

	e.Tick(running(100.0, 0.0))
	id := e.Spawn(loudSpec(2.0))
	v := f.voices[0]

	// deadline = 101.5 + 0.5 - 0.02
	e.Tick(running(101.97, 1.97))
	if d, _ := e.Decision(id); d != cue.Pending {
		t.Errorf("expected pending before deadline, got %v", d)
	}

	snap := e.Tick(running(101.98, 1.98))
	if d, _ := e.Decision(id); d != cue.Muted {
		t.Errorf("expected muted at deadline, got %v", d)
	}
	if !v.has("pause") {
		t.Error("expected voice paused")
	}
	if snap.Decisions[cue.Muted] != 1 || snap.Stats.Muted != 1 {
		t.Errorf("expected one muted cue in snapshot, got %+v", snap)
	}

	// late cut releases
	e.Trigger(id, TriggerEvent{Good: false})
	e.Tick(running(102.0, 2.0))
	if d, _ := e.Decision(id); d != cue.Released {
		t.Errorf("expected released after late cut, got %v", d)
	}
	if !v.has("unmute") || !v.has("resume") {
		t.Errorf("expected unmute and resume, got %v", v.calls)
	}
}

func TestTriggerBeforeDispatch(t *testing.T) {
	f := &fakeFactory{}
	e := New(Config{Voices: f})

	id := e.Spawn(loudSpec(0.1))
	e.Trigger(id, TriggerEvent{Good: true})

	e.Tick(running(50.0, 0.0))
	if d, _ := e.Decision(id); d != cue.Released {
		t.Errorf("expected early cut to release on first step, got %v", d)
	}
}

func TestRemoveDeferredCue(t *testing.T) {
	f := &fakeFactory{}
	e := New(Config{Voices: f})

	id := e.Spawn(loudSpec(1.0))
	e.Remove(id)
	e.Tick(running(10.0, 0.0))

	if len(f.voices) != 0 {
		t.Error("expected removed cue never to be dispatched")
	}
}

func TestFinishedVoiceDropped(t *testing.T) {
	f := &fakeFactory{}
	e := New(Config{Voices: f})

	e.Tick(running(10.0, 0.0))
	id := e.Spawn(loudSpec(1.0))
	f.voices[0].finished = true

	snap := e.Tick(running(10.1, 0.1))
	if _, ok := e.Decision(id); ok {
		t.Error("expected finished cue to be dropped")
	}
	if snap.Stats.Finished != 1 {
		t.Errorf("expected finished count 1, got %d", snap.Stats.Finished)
	}
}

type failingClock struct{}

func (failingClock) Sample(context.Context) (sync.ClockSample, error) {
	return sync.ClockSample{}, errors.New("dsp clock unavailable")
}

type fixedClock struct {
	s sync.ClockSample
}

func (c fixedClock) Sample(context.Context) (sync.ClockSample, error) {
	return c.s, nil
}

func TestPollSkipsOnClockError(t *testing.T) {
	e := New(Config{Voices: &fakeFactory{}})

	e.Poll(context.Background(), fixedClock{running(10.2, 0.0)})
	before := e.Offset()

	if _, ok := e.Poll(context.Background(), failingClock{}); ok {
		t.Error("expected failed poll")
	}
	if e.Offset() != before {
		t.Error("expected offset untouched by skipped tick")
	}
	if e.Stats().Skipped != 1 {
		t.Errorf("expected 1 skipped tick, got %d", e.Stats().Skipped)
	}
}

func TestStopResetsOffset(t *testing.T) {
	e := New(Config{Voices: &fakeFactory{}})

	e.Tick(running(10.2, 0.0))
	snap := e.Tick(sync.ClockSample{HardwareTime: 11, State: sync.Stopped})

	if snap.Offset != 0 || snap.Filter.Initialized {
		t.Errorf("expected reset filter after stop, got %+v", snap.Filter)
	}
}

func TestPositionFollowHandover(t *testing.T) {
	f := &fakeFactory{}
	saber := &fixedSaber{tip: mgl64.Vec3{0, 2, 1}, mid: mgl64.Vec3{0, 1, 1}}
	set := DefaultSettings()
	set.FollowAfterCut = false

	e := New(Config{
		Voices:   f,
		Spatial:  spatial.Backend{Name: "test", Present: true},
		Settings: func() Settings { return set },
	})

	e.Tick(running(10.0, 0.0))
	spec := loudSpec(1.0)
	spec.Spatialized = true
	spec.Saber = saber
	id := e.Spawn(spec)
	v := f.voices[0]

	if v.lastPosition() != saber.tip {
		t.Errorf("expected initial position at saber tip, got %v", v.lastPosition())
	}

	e.Tick(running(10.1, 0.1))
	if v.lastPosition() != saber.tip {
		t.Errorf("expected pre-cut follow of saber tip, got %v", v.lastPosition())
	}

	// Enable the post-cut fade before the cut
	set.FollowAfterCut = true
	cutPoint := mgl64.Vec3{0.5, 1, 1}
	e.Trigger(id, TriggerEvent{CutPoint: cutPoint, Good: true})
	if v.lastPosition() != cutPoint {
		t.Errorf("expected snap to cut point, got %v", v.lastPosition())
	}

	// Fade completes after 0.434s at pitch 1
	e.Tick(running(10.1+0.434, 0.534))
	if !v.lastPosition().ApproxEqual(saber.mid) {
		t.Errorf("expected handover to saber midpoint, got %v", v.lastPosition())
	}
}

func TestStaticPositionPinsOrigin(t *testing.T) {
	f := &fakeFactory{}
	set := DefaultSettings()
	set.FollowSaber = false

	e := New(Config{
		Voices:   f,
		Spatial:  spatial.Backend{Name: "test", Present: true},
		Settings: func() Settings { return set },
	})

	e.Tick(running(10.0, 0.0))
	spec := loudSpec(1.0)
	spec.Spatialized = true
	spec.Saber = &fixedSaber{tip: mgl64.Vec3{1, 1, 1}}
	id := e.Spawn(spec)

	e.Tick(running(10.1, 0.1))
	e.Trigger(id, TriggerEvent{CutPoint: mgl64.Vec3{2, 2, 2}})
	e.Tick(running(10.2, 0.2))

	v := f.voices[0]
	if len(v.positions) != 1 || v.positions[0] != (mgl64.Vec3{}) {
		t.Errorf("expected a single origin placement, got %v", v.positions)
	}
}

func TestNoSpatialBackendPlacesAtOrigin(t *testing.T) {
	f := &fakeFactory{}
	e := New(Config{Voices: f})

	e.Tick(running(10.0, 0.0))
	spec := loudSpec(1.0)
	spec.Spatialized = true
	spec.Saber = &fixedSaber{tip: mgl64.Vec3{1, 1, 1}}
	e.Spawn(spec)
	e.Tick(running(10.1, 0.1))

	v := f.voices[0]
	if len(v.positions) != 1 || v.positions[0] != (mgl64.Vec3{}) {
		t.Errorf("expected a single origin placement without a spatializer, got %v", v.positions)
	}
}

func TestMissedCuesExpire(t *testing.T) {
	f := &fakeFactory{}
	e := New(Config{Voices: f})

	e.Tick(running(100.0, 0.0))
	for i := 0; i < 50; i++ {
		e.Spawn(loudSpec(1.0 + float64(i)*0.1))
	}

	// 60s at 100 Hz, nothing is ever cut
	var snap Snapshot
	for i := 1; i <= 6000; i++ {
		snap = e.Tick(running(100.0+float64(i)/100, float64(i)/100))
	}

	if snap.Stats.Muted != 50 {
		t.Errorf("expected 50 muted cues, got %d", snap.Stats.Muted)
	}
	if snap.Stats.Expired != 50 {
		t.Errorf("expected 50 expired cues, got %d", snap.Stats.Expired)
	}
	if len(e.cues) != 0 || len(e.order) != 0 {
		t.Errorf("expected no tracked cues, got %d/%d", len(e.cues), len(e.order))
	}
	if snap.Decisions[cue.Muted] != 0 {
		t.Errorf("expected no muted cues in snapshot, got %d", snap.Decisions[cue.Muted])
	}
}

func TestLateCutInsideExpiryReleases(t *testing.T) {
	f := &fakeFactory{}
	e := New(Config{Voices: f, MissExpiry: 0.5})

	e.Tick(running(100.0, 0.0))
	id := e.Spawn(loudSpec(1.0))

	// deadline = 100.5 + 0.5 - 0.02
	e.Tick(running(101.0, 1.0))
	if d, _ := e.Decision(id); d != cue.Muted {
		t.Fatalf("expected muted, got %v", d)
	}

	e.Tick(running(101.4, 1.4))
	e.Trigger(id, TriggerEvent{})
	e.Tick(running(101.6, 1.6))
	if d, ok := e.Decision(id); !ok || d != cue.Released {
		t.Errorf("expected late cut to release inside the window, got %v tracked=%v", d, ok)
	}
	if e.Stats().Expired != 0 {
		t.Errorf("expected nothing expired, got %d", e.Stats().Expired)
	}
}

func TestMissedCueExpiresAfterWindow(t *testing.T) {
	f := &fakeFactory{}
	e := New(Config{Voices: f, MissExpiry: 0.5})

	e.Tick(running(100.0, 0.0))
	id := e.Spawn(loudSpec(1.0))

	e.Tick(running(101.0, 1.0))
	e.Tick(running(101.4, 1.4))
	if _, ok := e.Decision(id); !ok {
		t.Fatal("expected cue tracked inside the window")
	}

	e.Tick(running(101.5, 1.5))
	if _, ok := e.Decision(id); ok {
		t.Error("expected cue dropped once the window passed")
	}

	// a cut after expiry is ignored
	e.Trigger(id, TriggerEvent{})
	if f.voices[0].has("resume") {
		t.Error("expected no resume after expiry")
	}
}

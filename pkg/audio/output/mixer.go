// ABOUTME: Software mixer for scheduled hitsound voices
// ABOUTME: Starts voices on the DSP clock and applies pause, mute, pitch and pan
package output

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/Sendspin/hitsync-go/pkg/audio"
	"github.com/Sendspin/hitsync-go/pkg/hitsync"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// PanWidth is the lateral distance in meters mapped to a hard pan
const PanWidth = 1.5

// Mixer sums active voices into interleaved stereo frames.
// Voice commands may arrive from any goroutine.
type Mixer struct {
	mu     sync.Mutex
	clip   []int32 // mono
	rate   int
	origin float64 // DSP time of frame 0
	frame  int64   // next frame to mix
	voices []*Voice
	acc    []int64
}

// NewMixer creates a mixer playing clip at the clip's sample rate
func NewMixer(clip audio.Clip) *Mixer {
	clip = clip.Mono()
	return &Mixer{
		clip: clip.Samples,
		rate: clip.Format.SampleRate,
	}
}

// NewVoice implements hitsync.VoiceFactory
func (m *Mixer) NewVoice(id uuid.UUID, startDSP float64, spec hitsync.CueSpec) hitsync.Voice {
	pitch := spec.Pitch
	if pitch <= 0 {
		pitch = 1
	}

	v := &Voice{id: id, start: startDSP, pitch: pitch}

	m.mu.Lock()
	m.voices = append(m.voices, v)
	m.mu.Unlock()
	return v
}

// SampleRate returns the output rate
func (m *Mixer) SampleRate() int {
	return m.rate
}

// Now returns the DSP time of the next frame to be mixed
func (m *Mixer) Now() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now()
}

func (m *Mixer) now() float64 {
	return m.origin + float64(m.frame)/float64(m.rate)
}

// Sync rebases the mixer clock so the next frame plays at dsp
func (m *Mixer) Sync(dsp float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.origin = dsp - float64(m.frame)/float64(m.rate)
}

// Active returns the number of voices not yet finished
func (m *Mixer) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.voices)
}

// Mix renders len(out)/2 stereo frames and advances the clock
func (m *Mixer) Mix(out []int32) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if cap(m.acc) < len(out) {
		m.acc = make([]int64, len(out))
	}
	acc := m.acc[:len(out)]
	for i := range acc {
		acc[i] = 0
	}

	live := m.voices[:0]
	for _, v := range m.voices {
		startFrame := int64(math.Round((v.start - m.origin) * float64(m.rate)))
		v.render(acc, m.clip, m.frame, startFrame)
		if !v.finished.Load() {
			live = append(live, v)
		}
	}
	for i := len(live); i < len(m.voices); i++ {
		m.voices[i] = nil
	}
	m.voices = live

	for i, s := range acc {
		out[i] = audio.Clamp24(s)
	}
	m.frame += int64(len(out) / 2)
}

// Voice is one scheduled hitsound. Implements hitsync.Voice.
type Voice struct {
	id     uuid.UUID
	start  float64
	pitch  float64
	cursor float64 // read position in clip frames, owned by the mixer

	paused   atomic.Bool
	muted    atomic.Bool
	finished atomic.Bool
	pan      atomic.Uint64 // float64 bits
}

func (v *Voice) Pause()  { v.paused.Store(true) }
func (v *Voice) Resume() { v.paused.Store(false) }
func (v *Voice) Mute()   { v.muted.Store(true) }
func (v *Voice) Unmute() { v.muted.Store(false) }

// SetPosition pans the voice by the lateral offset of p
func (v *Voice) SetPosition(p mgl64.Vec3) {
	v.pan.Store(math.Float64bits(p.X() / PanWidth))
}

// Finished reports whether the clip has played to the end, or the voice
// stayed paused past the time it would have ended
func (v *Voice) Finished() bool {
	return v.finished.Load()
}

// ID returns the cue this voice plays
func (v *Voice) ID() uuid.UUID {
	return v.id
}

func (v *Voice) render(acc []int64, clip []int32, frame0, startFrame int64) {
	if v.finished.Load() {
		return
	}
	if v.paused.Load() {
		// a voice held past its natural end is never resumed into audio
		if frame0 >= startFrame+v.span(len(clip)) {
			v.finished.Store(true)
		}
		return
	}

	left, right := audio.PanGains(math.Float64frombits(v.pan.Load()))
	muted := v.muted.Load()

	for i := 0; i < len(acc)/2; i++ {
		if frame0+int64(i) < startFrame {
			continue
		}
		if v.paused.Load() {
			return
		}

		idx := int(v.cursor)
		if idx >= len(clip) {
			v.finished.Store(true)
			return
		}
		v.cursor += v.pitch

		if muted {
			continue
		}
		s := float64(clip[idx])
		acc[i*2] += int64(s * left)
		acc[i*2+1] += int64(s * right)
	}

	if int(v.cursor) >= len(clip) {
		v.finished.Store(true)
	}
}

// span is the unpaused playback length in output frames
func (v *Voice) span(clipFrames int) int64 {
	return int64(math.Ceil(float64(clipFrames) / v.pitch))
}

// ABOUTME: Smoothstep position fade from a fixed anchor to a live target
// ABOUTME: One-shot per cue; never re-activates once complete
package follow

import (
	"github.com/go-gl/mathgl/mgl64"
)

// BaseDuration is the handover time at pitch 1 (seconds)
const BaseDuration = 0.434

// Duration scales the handover time by the cue's playback pitch
func Duration(pitch float64) float64 {
	if pitch <= 0 {
		pitch = 1
	}
	return BaseDuration / pitch
}

// FadeState is the per-cue interpolation state
type FadeState struct {
	AnchorStart     mgl64.Vec3
	AnchorStartTime float64
	Duration        float64
	Active          bool

	done bool
}

// Start begins the handover at now from the given anchor. A fade that
// already ran or is running is left alone.
func (f *FadeState) Start(now float64, from mgl64.Vec3, duration float64) bool {
	if f.done || f.Active {
		return false
	}
	f.AnchorStart = from
	f.AnchorStartTime = now
	f.Duration = duration
	f.Active = true
	return true
}

// Update returns the anchor position at now for the current live target
func (f *FadeState) Update(now float64, live mgl64.Vec3) mgl64.Vec3 {
	if !f.Active {
		return live
	}

	t := 1.0
	if f.Duration > 0 {
		t = clamp01((now - f.AnchorStartTime) / f.Duration)
	}
	eased := smoothStep(t)

	pos := lerp(f.AnchorStart, live, eased)

	if t >= 1 {
		f.Active = false
		f.done = true
	}
	return pos
}

// Completed reports whether the fade has run to the end
func (f *FadeState) Completed() bool {
	return f.done
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// smoothStep is the Hermite ease 3t^2 - 2t^3 on [0,1]
func smoothStep(t float64) float64 {
	return t * t * (3 - 2*t)
}

// lerp is exact at both endpoints
func lerp(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Mul(1 - t).Add(b.Mul(t))
}

// ABOUTME: Tests for the position fade
// ABOUTME: Tests easing, completion latch and pitch scaling
package follow

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestInactiveReturnsLive(t *testing.T) {
	var f FadeState
	live := mgl64.Vec3{1, 2, 3}

	if got := f.Update(5.0, live); got != live {
		t.Errorf("expected live target %v, got %v", live, got)
	}
}

func TestFadeCompletion(t *testing.T) {
	var f FadeState
	start := mgl64.Vec3{0, 0, 0}
	live := mgl64.Vec3{1, 1.5, -0.3}

	f.Start(0, start, 0.5)

	if got := f.Update(0.5, live); got != live {
		t.Errorf("expected exact live target at completion, got %v", got)
	}
	if f.Active {
		t.Error("expected fade inactive after completion")
	}

	later := mgl64.Vec3{4, 4, 4}
	if got := f.Update(1.0, later); got != later {
		t.Errorf("expected live target after completion, got %v", got)
	}
	if f.Active || !f.Completed() {
		t.Error("expected fade to stay completed")
	}

	if f.Start(1.0, start, 0.5) {
		t.Error("expected completed fade not to restart")
	}
}

func TestFadeMidpointEase(t *testing.T) {
	var f FadeState
	f.Start(10, mgl64.Vec3{0, 0, 0}, 1.0)

	got := f.Update(10.5, mgl64.Vec3{2, 0, 0})
	if !got.ApproxEqual(mgl64.Vec3{1, 0, 0}) {
		t.Errorf("expected symmetric midpoint {1,0,0}, got %v", got)
	}

	// Quarter way: smoothstep(0.25) = 0.15625
	var q FadeState
	q.Start(0, mgl64.Vec3{0, 0, 0}, 1.0)
	got = q.Update(0.25, mgl64.Vec3{0, 1, 0})
	if !got.ApproxEqual(mgl64.Vec3{0, 0.15625, 0}) {
		t.Errorf("expected eased quarter point, got %v", got)
	}
	if !q.Active {
		t.Error("expected fade still active mid-way")
	}
}

func TestFadeClampsBeforeStart(t *testing.T) {
	var f FadeState
	anchor := mgl64.Vec3{3, 3, 3}
	f.Start(10, anchor, 0.5)

	if got := f.Update(9.0, mgl64.Vec3{0, 0, 0}); got != anchor {
		t.Errorf("expected anchor before start time, got %v", got)
	}
}

func TestDurationScalesWithPitch(t *testing.T) {
	if got := Duration(1); got != BaseDuration {
		t.Errorf("expected %v at pitch 1, got %v", BaseDuration, got)
	}
	if got := Duration(2); got != BaseDuration/2 {
		t.Errorf("expected half duration at pitch 2, got %v", got)
	}
	if got := Duration(0); got != BaseDuration {
		t.Errorf("expected base duration for invalid pitch, got %v", got)
	}
}

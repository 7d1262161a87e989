// ABOUTME: Per-frame clock observation and raw offset computation
// ABOUTME: Stateless; the caller's tick loop owns the samples
package sync

// TimelineState is the host timeline's playback state
type TimelineState int

const (
	NotStarted TimelineState = iota
	Running
	Stopped
)

func (s TimelineState) String() string {
	switch s {
	case NotStarted:
		return "not-started"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	}
	return "unknown"
}

// ClockSample is one observation of the host clocks, taken once per tick
type ClockSample struct {
	HardwareTime    float64 // DSP clock, seconds
	LogicalPosition float64 // song position, seconds
	TimeScale       float64 // playback speed; 0 means 1
	State           TimelineState
	Capturing       bool // forced frame pacing (recording) is active
}

// RawOffset computes the uncorrected offset candidate for a sample
func RawOffset(s ClockSample) float64 {
	scale := s.TimeScale
	if scale == 0 {
		scale = 1
	}
	return s.HardwareTime - s.LogicalPosition/scale
}

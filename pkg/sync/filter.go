// ABOUTME: Offset filter with cumulative average and closest-sample lock
// ABOUTME: Selects among observed raw offsets instead of blending them
package sync

import (
	"math"

	"github.com/charmbracelet/log"
)

const (
	// DefaultMaxDiscrepancy is how far a raw sample may sit from the running
	// average before it is treated as a new lock (seconds)
	DefaultMaxDiscrepancy = 0.05

	// DefaultSyncOffset compensates the steady-state bias of the cumulative
	// average. Holds at both 60 and 90 fps.
	DefaultSyncOffset = -0.0043

	// SaturationCount is the sample count after which the lock is frozen
	SaturationCount = 10000
)

// FilterConfig holds the tunable filter constants
type FilterConfig struct {
	MaxDiscrepancy float64
	SyncOffset     float64
}

// DefaultFilterConfig returns the empirically tuned constants
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		MaxDiscrepancy: DefaultMaxDiscrepancy,
		SyncOffset:     DefaultSyncOffset,
	}
}

// FilterState is the observable state of an OffsetFilter
type FilterState struct {
	LockedOffset   float64
	RunningAverage float64
	SampleCount    int
	Initialized    bool
}

// Saturated reports whether the average has stopped adapting
func (s FilterState) Saturated() bool {
	return s.SampleCount >= SaturationCount
}

func initialState() FilterState {
	return FilterState{SampleCount: 1}
}

// OffsetFilter corrects the raw DSP offset once per tick.
// Not safe for concurrent use; one tick loop owns it.
type OffsetFilter struct {
	config FilterConfig
	state  FilterState
	locks  int // fresh locks since last reset
}

// NewOffsetFilter creates a filter with the default constants
func NewOffsetFilter() *OffsetFilter {
	return NewOffsetFilterWithConfig(DefaultFilterConfig())
}

// NewOffsetFilterWithConfig creates a filter with custom constants
func NewOffsetFilterWithConfig(config FilterConfig) *OffsetFilter {
	return &OffsetFilter{
		config: config,
		state:  initialState(),
	}
}

// CorrectSample derives the raw offset from a sample and corrects it.
// While capturing with forced frame pacing the raw value passes through.
func (f *OffsetFilter) CorrectSample(s ClockSample) float64 {
	if s.State != Running {
		return f.Correct(0, s.State)
	}
	raw := RawOffset(s)
	if s.Capturing {
		return raw
	}
	return f.Correct(raw, s.State)
}

// Correct consumes one raw offset and returns the locked offset.
// Any state other than Running, NotStarted included, resets the filter
// and returns 0.
func (f *OffsetFilter) Correct(raw float64, state TimelineState) float64 {
	if state != Running {
		f.Reset()
		return 0
	}

	st := &f.state

	if !st.Initialized || math.Abs(st.RunningAverage-raw) > f.config.MaxDiscrepancy {
		if f.locks < 5 {
			log.Debug("Fresh offset lock", "raw", raw, "previous", st.LockedOffset, "initialized", st.Initialized)
		}
		f.locks++

		st.RunningAverage = raw
		st.SampleCount = 1
		st.Initialized = true
		st.LockedOffset = raw
		return st.LockedOffset
	}

	// Saturated: the lock is final for this run
	if st.SampleCount >= SaturationCount {
		return st.LockedOffset
	}

	n := float64(st.SampleCount)
	st.RunningAverage = (st.RunningAverage*n + raw) / (n + 1)
	st.SampleCount++

	target := st.RunningAverage + f.config.SyncOffset
	if math.Abs(raw-target) < math.Abs(st.LockedOffset-target) {
		st.LockedOffset = raw
	}

	if st.SampleCount == SaturationCount {
		log.Debug("Offset lock saturated", "offset", st.LockedOffset, "average", st.RunningAverage)
	}

	return st.LockedOffset
}

// Reset returns the filter to its initial state
func (f *OffsetFilter) Reset() {
	f.state = initialState()
	f.locks = 0
}

// Offset returns the last committed offset
func (f *OffsetFilter) Offset() float64 {
	return f.state.LockedOffset
}

// State returns a copy of the filter state
func (f *OffsetFilter) State() FilterState {
	return f.state
}

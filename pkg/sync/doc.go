// ABOUTME: Audio clock offset correction package
// ABOUTME: Turns a jittery per-frame DSP/song offset into a stable locked value
// Package sync corrects the offset between a hardware audio clock and a
// logical playback position.
//
// The raw offset sampled each frame tends to hop between a few discretely
// wrong values and one correct value. OffsetFilter keeps a cumulative
// average only as a reference point and locks onto whichever observed raw
// sample sits closest to it, so the output is always a value that was
// actually measured.
//
// Example:
//
//	f := sync.NewOffsetFilter()
//	for each frame {
//	    offset := f.CorrectSample(sample)
//	    dspTime := songTime + offset
//	}
package sync

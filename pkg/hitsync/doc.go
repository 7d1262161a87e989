// ABOUTME: High-level hitsound timing engine API
// ABOUTME: Wires offset correction, deferred spawns, miss gating and position follow
// Package hitsync is the main entry point for hosts that schedule hitsounds
// against a hardware audio clock.
//
// The host drives one Engine from its frame loop:
//   - Tick (or Poll) once per frame with a fresh clock sample
//   - Spawn when a note appears, Trigger when it is cut
//   - Remove when the host destroys a cue early
//
// Each tick runs the offset filter first, then flushes deferred spawns, then
// steps every cue's miss gate and position fade, so everything in a frame
// sees the same corrected clock.
//
// Example:
//
//	eng := hitsync.New(hitsync.Config{
//	    Voices:   factory,
//	    Spatial:  spatial.Detect(probe),
//	    Settings: func() hitsync.Settings { return current },
//	})
//	for frame := range frames {
//	    eng.Tick(frame.Sample)
//	}
package hitsync

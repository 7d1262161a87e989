// ABOUTME: Hitsound cue scheduling package
// ABOUTME: Provides the deferred spawn queue and the per-cue miss gate
// Package cue holds the two consumers of the corrected audio clock that make
// irrevocable decisions about hitsound cues.
//
//   - Deferred: buffers cues spawned before the timeline is running and
//     releases them in arrival order once it is.
//   - Gate: decides per cue whether the scheduled sound plays, gets paused
//     because its note was missed, or is released by a late cut.
//
// Example:
//
//	q := cue.NewDeferred(func(s Spawn) { schedule(s) })
//	q.Submit(spawn, state)
//	q.TryFlush(state)
//
//	g := cue.NewGate(cue.GateSpec{ScheduledDSPTime: t, LeadTime: lead}, voice, opts)
//	g.Step(dspNow, spatializer, opts)
package cue

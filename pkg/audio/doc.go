// ABOUTME: Audio fundamentals for hitsound playback
// ABOUTME: Defines Format and Clip types and sample conversion helpers
// Package audio provides the PCM types shared by the hitsound decoders,
// encoders and outputs.
//
//   - Format: sample rate, channel count and bit depth of a stream
//   - Clip: a decoded hitsound held in memory as 24-bit int32 samples
//
// It also provides sample conversions (16-bit, 24-bit, arbitrary depth),
// mix clamping and equal-power panning.
//
// Example:
//
//	clip, err := decode.Load("hit.wav", 48000)
//	mono := clip.Mono()
//	left, right := audio.PanGains(-0.5)
package audio

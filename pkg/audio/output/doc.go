// ABOUTME: Audio output package for hitsound voices
// ABOUTME: Provides the voice mixer, oto device output and offline rendering
// Package output turns engine voices into sound.
//
// Mixer implements hitsync.VoiceFactory. Each voice starts on the DSP
// clock and honours pause, mute, pitch and a pan taken from its position.
// Oto streams the mix to the sound card; Render mixes offline for WAV export.
//
// Example:
//
//	out := output.NewOto(clip)
//	err := out.Open()
//	engine := hitsync.New(hitsync.Config{Voices: out})
package output

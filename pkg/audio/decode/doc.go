// ABOUTME: Hitsound clip decoding package
// ABOUTME: Provides MP3 and WAV decoders, a synthesized tick and clip loading
// Package decode loads hitsound clips into memory.
//
// Supports: MP3 (go-mp3), integer PCM WAV (go-audio/wav) and a synthesized
// tick used when no clip file is configured.
//
// All decoders produce int32 samples in 24-bit range. Load folds the clip
// to mono and resamples it to the output rate.
//
// Example:
//
//	clip, err := decode.Load("hit.mp3", 48000, 0.1)
package decode

// ABOUTME: Audio encoder package
// ABOUTME: Provides the PCM byte encoder and the WAV file writer
// Package encode turns int32 samples back into bytes.
//
// PCMEncoder feeds 16-bit little-endian frames to the device output;
// WriteWAV stores rendered sessions as 16 or 24-bit WAV files.
//
// Example:
//
//	enc, err := encode.NewPCM(16)
//	data, err := enc.Encode(samples)
package encode

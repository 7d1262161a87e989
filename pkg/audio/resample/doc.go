// ABOUTME: Audio resampling package using linear interpolation
// ABOUTME: Converts hitsound clips to the output sample rate
// Package resample provides audio sample rate conversion.
//
// Uses linear interpolation for both upsampling and downsampling. A
// Resampler keeps the last frame of each chunk so streamed input joins
// without gaps.
//
// Example:
//
//	r := resample.New(44100, 48000, 1)
//	out := make([]int32, r.OutputSamplesNeeded(len(in)))
//	n := r.Resample(in, out)
package resample

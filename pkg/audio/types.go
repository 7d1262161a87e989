// ABOUTME: Audio type definitions for hitsound playback
// ABOUTME: Defines clip formats, decoded clips, sample conversion and panning
package audio

import (
	"math"
	"time"
)

const (
	// 24-bit audio range constants
	Max24Bit = 8388607  // 2^23 - 1
	Min24Bit = -8388608 // -2^23
)

// Format describes a PCM stream
type Format struct {
	Codec      string
	SampleRate int
	Channels   int
	BitDepth   int
}

// Clip is a decoded hitsound held in memory.
// Samples are interleaved int32 in 24-bit range.
type Clip struct {
	Name    string
	Format  Format
	Samples []int32
}

// Frames returns the number of sample frames in the clip
func (c Clip) Frames() int {
	if c.Format.Channels == 0 {
		return 0
	}
	return len(c.Samples) / c.Format.Channels
}

// Duration returns the playback length of the clip
func (c Clip) Duration() time.Duration {
	if c.Format.SampleRate == 0 {
		return 0
	}
	return time.Duration(c.Frames()) * time.Second / time.Duration(c.Format.SampleRate)
}

// Mono folds all channels into one by averaging
func (c Clip) Mono() Clip {
	ch := c.Format.Channels
	if ch <= 1 {
		return c
	}

	out := make([]int32, c.Frames())
	for i := range out {
		var sum int64
		for j := 0; j < ch; j++ {
			sum += int64(c.Samples[i*ch+j])
		}
		out[i] = int32(sum / int64(ch))
	}

	f := c.Format
	f.Channels = 1
	return Clip{Name: c.Name, Format: f, Samples: out}
}

// SampleToInt16 converts int32 sample to int16 (for 16-bit playback)
func SampleToInt16(sample int32) int16 {
	// Right-shift to convert 24-bit (or 16-bit) to 16-bit range
	return int16(sample >> 8)
}

// SampleFromInt16 converts int16 sample to int32 (left-justified in 24-bit)
func SampleFromInt16(sample int16) int32 {
	return int32(sample) << 8
}

// SampleFromDepth scales a sample of the given bit depth into 24-bit range
func SampleFromDepth(sample int, bitDepth int) int32 {
	switch {
	case bitDepth == 24:
		return int32(sample)
	case bitDepth < 24:
		return int32(sample) << (24 - bitDepth)
	default:
		return int32(sample >> (bitDepth - 24))
	}
}

// SampleTo24Bit converts int32 to 24-bit packed bytes (little-endian)
func SampleTo24Bit(sample int32) [3]byte {
	return [3]byte{
		byte(sample),
		byte(sample >> 8),
		byte(sample >> 16),
	}
}

// SampleFrom24Bit converts 24-bit packed bytes to int32 (little-endian)
func SampleFrom24Bit(b [3]byte) int32 {
	val := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
	// Sign extend from 24-bit to 32-bit
	if val&0x800000 != 0 {
		val |= ^0xFFFFFF
	}
	return val
}

// Clamp24 limits a mixed sample to the 24-bit range
func Clamp24(sample int64) int32 {
	if sample > Max24Bit {
		return Max24Bit
	}
	if sample < Min24Bit {
		return Min24Bit
	}
	return int32(sample)
}

// PanGains returns equal-power left/right gains for pan in [-1, 1]
func PanGains(pan float64) (left, right float64) {
	if pan < -1 {
		pan = -1
	} else if pan > 1 {
		pan = 1
	}
	angle := (pan + 1) * math.Pi / 4
	return math.Cos(angle), math.Sin(angle)
}

// ABOUTME: Raw PCM sample unpacking
// ABOUTME: Converts 16-bit and 24-bit little-endian bytes to int32 samples
package decode

import (
	"encoding/binary"
	"fmt"

	"github.com/Sendspin/hitsync-go/pkg/audio"
)

// PCM unpacks little-endian PCM bytes into 24-bit range samples
func PCM(data []byte, bitDepth int) ([]int32, error) {
	switch bitDepth {
	case 24:
		samples := make([]int32, len(data)/3)
		for i := range samples {
			samples[i] = audio.SampleFrom24Bit([3]byte{data[i*3], data[i*3+1], data[i*3+2]})
		}
		return samples, nil
	case 16:
		samples := make([]int32, len(data)/2)
		for i := range samples {
			samples[i] = audio.SampleFromInt16(int16(binary.LittleEndian.Uint16(data[i*2:])))
		}
		return samples, nil
	default:
		return nil, fmt.Errorf("unsupported bit depth: %d (supported: 16, 24)", bitDepth)
	}
}

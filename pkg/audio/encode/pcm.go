// ABOUTME: PCM audio encoder
// ABOUTME: Encodes int32 samples to 16-bit or 24-bit PCM bytes
package encode

import (
	"encoding/binary"
	"fmt"

	"github.com/Sendspin/hitsync-go/pkg/audio"
)

// PCMEncoder encodes PCM audio
type PCMEncoder struct {
	bitDepth int
}

// NewPCM creates a new PCM encoder
func NewPCM(bitDepth int) (*PCMEncoder, error) {
	if bitDepth != 16 && bitDepth != 24 {
		return nil, fmt.Errorf("unsupported bit depth: %d (supported: 16, 24)", bitDepth)
	}
	return &PCMEncoder{bitDepth: bitDepth}, nil
}

// Encode converts int32 samples to PCM bytes
func (e *PCMEncoder) Encode(samples []int32) ([]byte, error) {
	return e.AppendEncode(nil, samples), nil
}

// AppendEncode appends the encoded samples to dst, reusing its capacity
func (e *PCMEncoder) AppendEncode(dst []byte, samples []int32) []byte {
	if e.bitDepth == 24 {
		for _, sample := range samples {
			b := audio.SampleTo24Bit(sample)
			dst = append(dst, b[0], b[1], b[2])
		}
		return dst
	}

	for _, sample := range samples {
		dst = binary.LittleEndian.AppendUint16(dst, uint16(audio.SampleToInt16(sample)))
	}
	return dst
}

// Close releases resources
func (e *PCMEncoder) Close() error {
	return nil
}

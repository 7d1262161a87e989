// ABOUTME: WAV clip decoder
// ABOUTME: Decodes PCM WAV files of any integer bit depth via go-audio
package decode

import (
	"fmt"
	"io"

	"github.com/Sendspin/hitsync-go/pkg/audio"
	"github.com/go-audio/wav"
)

// WAV decodes integer PCM WAV clips
type WAV struct{}

// Decode converts a WAV stream to a clip
func (WAV) Decode(r io.ReadSeeker) (audio.Clip, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return audio.Clip{}, fmt.Errorf("not a valid wav file")
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return audio.Clip{}, fmt.Errorf("wav decode error: %w", err)
	}
	if buf.Format == nil || buf.Format.NumChannels == 0 {
		return audio.Clip{}, fmt.Errorf("wav file has no channels")
	}

	depth := int(d.BitDepth)
	samples := make([]int32, len(buf.Data))
	for i, s := range buf.Data {
		samples[i] = audio.SampleFromDepth(s, depth)
	}

	return audio.Clip{
		Format: audio.Format{
			Codec:      "wav",
			SampleRate: buf.Format.SampleRate,
			Channels:   buf.Format.NumChannels,
			BitDepth:   depth,
		},
		Samples: samples,
	}, nil
}

// ABOUTME: MP3 clip decoder
// ABOUTME: Decodes a complete MP3 stream to int32 samples
package decode

import (
	"fmt"
	"io"

	"github.com/Sendspin/hitsync-go/pkg/audio"
	"github.com/hajimehoshi/go-mp3"
)

// MP3 decodes MP3 clips. go-mp3 always yields 16-bit stereo.
type MP3 struct{}

// Decode converts an MP3 stream to a clip
func (MP3) Decode(r io.ReadSeeker) (audio.Clip, error) {
	d, err := mp3.NewDecoder(r)
	if err != nil {
		return audio.Clip{}, fmt.Errorf("failed to create mp3 decoder: %w", err)
	}

	data, err := io.ReadAll(d)
	if err != nil {
		return audio.Clip{}, fmt.Errorf("mp3 decode error: %w", err)
	}

	samples, err := PCM(data, 16)
	if err != nil {
		return audio.Clip{}, err
	}

	return audio.Clip{
		Format: audio.Format{
			Codec:      "mp3",
			SampleRate: d.SampleRate(),
			Channels:   2,
			BitDepth:   16,
		},
		Samples: samples,
	}, nil
}

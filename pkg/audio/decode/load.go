// ABOUTME: Hitsound clip loading
// ABOUTME: Decodes a clip file, folds it to mono and resamples to the output rate
package decode

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Sendspin/hitsync-go/pkg/audio"
	"github.com/Sendspin/hitsync-go/pkg/audio/resample"
)

// Load returns a mono clip at sampleRate. An empty path yields the
// synthesized tick with the given pre-roll.
func Load(path string, sampleRate int, preroll float64) (audio.Clip, error) {
	if path == "" {
		return Tick(sampleRate, preroll), nil
	}

	dec, err := ForFile(path)
	if err != nil {
		return audio.Clip{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return audio.Clip{}, fmt.Errorf("open clip: %w", err)
	}
	defer f.Close()

	clip, err := dec.Decode(f)
	if err != nil {
		return audio.Clip{}, err
	}
	clip.Name = filepath.Base(path)

	return Convert(clip.Mono(), sampleRate), nil
}

// Convert resamples a clip to sampleRate
func Convert(clip audio.Clip, sampleRate int) audio.Clip {
	if clip.Format.SampleRate == sampleRate || clip.Format.SampleRate == 0 {
		return clip
	}

	r := resample.New(clip.Format.SampleRate, sampleRate, clip.Format.Channels)
	out := make([]int32, r.OutputSamplesNeeded(len(clip.Samples))+clip.Format.Channels)
	n := r.Resample(clip.Samples, out)

	clip.Samples = out[:n]
	clip.Format.SampleRate = sampleRate
	return clip
}

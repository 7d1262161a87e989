// ABOUTME: Offline output rendering a session to memory
// ABOUTME: Mixes voices frame by frame on the host clock and writes WAV
package output

import (
	"io"
	"math"

	"github.com/Sendspin/hitsync-go/pkg/audio"
	"github.com/Sendspin/hitsync-go/pkg/audio/encode"
)

// Render mixes the session into an in-memory stereo buffer
type Render struct {
	*Mixer
	samples []int32
	started bool
}

// NewRender creates an offline output for clip
func NewRender(clip audio.Clip) *Render {
	return &Render{Mixer: NewMixer(clip)}
}

// Advance mixes frames up to dsp. The first call anchors the timeline.
func (r *Render) Advance(dsp float64) error {
	if !r.started {
		r.Sync(dsp)
		r.started = true
		return nil
	}

	frames := int(math.Round((dsp - r.Now()) * float64(r.rate)))
	if frames <= 0 {
		return nil
	}

	n := len(r.samples)
	r.samples = append(r.samples, make([]int32, frames*2)...)
	r.Mix(r.samples[n:])
	return nil
}

// Clip returns everything rendered so far
func (r *Render) Clip() audio.Clip {
	return audio.Clip{
		Name: "render",
		Format: audio.Format{
			Codec:      "pcm",
			SampleRate: r.rate,
			Channels:   2,
			BitDepth:   24,
		},
		Samples: r.samples,
	}
}

// WriteWAV stores the rendered session
func (r *Render) WriteWAV(w io.WriteSeeker, bitDepth int) error {
	return encode.WriteWAV(w, r.Clip(), bitDepth)
}

// Close releases the rendered buffer
func (r *Render) Close() error {
	r.samples = nil
	return nil
}

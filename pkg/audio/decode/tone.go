// ABOUTME: Synthesized hitsound tick
// ABOUTME: Generates a decaying sine click after a silent pre-roll
package decode

import (
	"math"

	"github.com/Sendspin/hitsync-go/pkg/audio"
)

const (
	tickFreq     = 1200.0
	tickDuration = 0.08
	tickDecay    = 60.0
	tickVolume   = 0.5
)

// Tick builds a mono click clip. The transient lands preroll seconds in,
// so a cue scheduled lead seconds early sounds on the note.
func Tick(sampleRate int, preroll float64) audio.Clip {
	silent := int(float64(sampleRate) * preroll)
	body := int(float64(sampleRate) * tickDuration)

	samples := make([]int32, silent+body)
	for i := 0; i < body; i++ {
		t := float64(i) / float64(sampleRate)
		env := math.Exp(-t * tickDecay)
		v := math.Sin(2*math.Pi*tickFreq*t) * tickVolume * env
		samples[silent+i] = int32(v * audio.Max24Bit)
	}

	return audio.Clip{
		Name: "tick",
		Format: audio.Format{
			Codec:      "pcm",
			SampleRate: sampleRate,
			Channels:   1,
			BitDepth:   24,
		},
		Samples: samples,
	}
}

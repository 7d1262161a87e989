// ABOUTME: Oto-based device output for hitsounds
// ABOUTME: Streams the voice mixer to the sound card as 16-bit PCM
package output

import (
	"fmt"
	"math"
	"time"

	"github.com/Sendspin/hitsync-go/pkg/audio"
	"github.com/Sendspin/hitsync-go/pkg/audio/encode"
	"github.com/charmbracelet/log"
	"github.com/ebitengine/oto/v3"
)

// maxDrift is how far the mixer clock may wander from the host before a resync
const maxDrift = 0.05

// Oto output implementation using oto library
type Oto struct {
	*Mixer
	otoCtx  *oto.Context
	player  *oto.Player
	pcm     *encode.PCMEncoder
	scratch []int32
	buf     []byte
	synced  bool
	resyncs int
}

// NewOto creates a new Oto output for clip
func NewOto(clip audio.Clip) *Oto {
	pcm, _ := encode.NewPCM(16)
	return &Oto{
		Mixer: NewMixer(clip),
		pcm:   pcm,
	}
}

// Open initializes the output device and starts streaming
func (o *Oto) Open() error {
	if o.otoCtx != nil {
		return nil
	}

	op := &oto.NewContextOptions{
		SampleRate:   o.rate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   50 * time.Millisecond,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return fmt.Errorf("failed to create oto context: %w", err)
	}
	<-ready

	o.otoCtx = ctx
	o.player = ctx.NewPlayer(readerFunc(o.fill))
	o.player.Play()

	log.Info("Audio output initialized", "rate", o.rate, "channels", 2)
	return nil
}

// Advance keeps the mixer clock near the host DSP clock
func (o *Oto) Advance(dsp float64) error {
	if o.player == nil {
		return fmt.Errorf("output not initialized")
	}

	drift := math.Abs(o.Now() - dsp)
	if !o.synced || drift > maxDrift {
		if o.synced {
			o.resyncs++
			log.Debug("Resyncing mixer clock", "drift", drift, "resyncs", o.resyncs)
		}
		o.Sync(dsp)
		o.synced = true
	}
	return nil
}

// fill is called from oto's audio goroutine
func (o *Oto) fill(p []byte) (int, error) {
	frames := len(p) / 4
	if frames == 0 {
		return 0, nil
	}

	if cap(o.scratch) < frames*2 {
		o.scratch = make([]int32, frames*2)
	}
	o.scratch = o.scratch[:frames*2]
	o.Mix(o.scratch)

	o.buf = o.pcm.AppendEncode(o.buf[:0], o.scratch)
	return copy(p, o.buf), nil
}

// Close releases output resources
func (o *Oto) Close() error {
	if o.player != nil {
		if err := o.player.Close(); err != nil {
			log.Warn("Closing player", "err", err)
		}
		o.player = nil
	}
	if o.otoCtx != nil {
		if err := o.otoCtx.Suspend(); err != nil {
			return fmt.Errorf("suspend oto context: %w", err)
		}
	}
	return nil
}

type readerFunc func([]byte) (int, error)

func (f readerFunc) Read(p []byte) (int, error) { return f(p) }

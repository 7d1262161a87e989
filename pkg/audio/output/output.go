// ABOUTME: Audio output interface definition
// ABOUTME: Common interface for hitsound playback backends
package output

import "github.com/Sendspin/hitsync-go/pkg/hitsync"

// Output plays the voices the engine schedules
type Output interface {
	hitsync.VoiceFactory

	// Advance renders up to the given DSP time with the current voice state
	Advance(dsp float64) error

	// Close releases output resources
	Close() error
}

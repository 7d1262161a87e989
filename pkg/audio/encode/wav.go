// ABOUTME: WAV file writer
// ABOUTME: Writes interleaved int32 samples as integer PCM WAV via go-audio
package encode

import (
	"fmt"
	"io"

	"github.com/Sendspin/hitsync-go/pkg/audio"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const wavFormatPCM = 1

// WriteWAV writes a clip as PCM WAV at the given bit depth (16 or 24)
func WriteWAV(w io.WriteSeeker, clip audio.Clip, bitDepth int) error {
	if bitDepth != 16 && bitDepth != 24 {
		return fmt.Errorf("unsupported bit depth: %d (supported: 16, 24)", bitDepth)
	}
	if clip.Format.Channels == 0 || clip.Format.SampleRate == 0 {
		return fmt.Errorf("clip format incomplete: %+v", clip.Format)
	}

	data := make([]int, len(clip.Samples))
	for i, s := range clip.Samples {
		if bitDepth == 16 {
			data[i] = int(audio.SampleToInt16(s))
		} else {
			data[i] = int(s)
		}
	}

	enc := wav.NewEncoder(w, clip.Format.SampleRate, bitDepth, clip.Format.Channels, wavFormatPCM)
	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: clip.Format.Channels,
			SampleRate:  clip.Format.SampleRate,
		},
		Data:           data,
		SourceBitDepth: bitDepth,
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("wav write failed: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("wav finalize failed: %w", err)
	}
	return nil
}

// ABOUTME: Clip decoder interface and file-type dispatch
// ABOUTME: Picks a decoder from a clip file's extension
package decode

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/Sendspin/hitsync-go/pkg/audio"
)

// Decoder decodes a complete hitsound clip
type Decoder interface {
	// Decode reads the whole stream into memory
	Decode(r io.ReadSeeker) (audio.Clip, error)
}

// ForFile returns the decoder matching the file extension
func ForFile(path string) (Decoder, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".mp3":
		return MP3{}, nil
	case ".wav", ".wave":
		return WAV{}, nil
	default:
		return nil, fmt.Errorf("unsupported clip format: %q", ext)
	}
}

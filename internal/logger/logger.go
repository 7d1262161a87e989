// ABOUTME: Logging setup shared by the simulator binaries
// ABOUTME: Routes charmbracelet/log to a file, optionally mirrored to stdout
package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Options controls where logs go
type Options struct {
	File   string // log file path; empty disables file output
	Stdout bool   // mirror to stdout (streaming mode)
	Debug  bool
	Prefix string
}

// Setup configures the default logger and returns a closer for the log file
func Setup(opts Options) (io.Closer, error) {
	var writers []io.Writer
	var closer io.Closer = nopCloser{}

	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			return nil, err
		}
		writers = append(writers, f)
		closer = f
	}
	if opts.Stdout {
		writers = append(writers, os.Stdout)
	}

	var w io.Writer = io.Discard
	switch len(writers) {
	case 0:
	case 1:
		w = writers[0]
	default:
		w = io.MultiWriter(writers...)
	}

	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.000",
		Prefix:          opts.Prefix,
	})
	if opts.Debug {
		l.SetLevel(log.DebugLevel)
	}
	log.SetDefault(l)

	return closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

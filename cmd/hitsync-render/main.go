// ABOUTME: Offline renderer for the hitsound simulator
// ABOUTME: Plays a simulated map as fast as possible and writes the mix to WAV
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/Sendspin/hitsync-go/internal/config"
	"github.com/Sendspin/hitsync-go/internal/logger"
	"github.com/Sendspin/hitsync-go/internal/sim"
	"github.com/Sendspin/hitsync-go/internal/version"
	"github.com/Sendspin/hitsync-go/pkg/audio/decode"
	"github.com/Sendspin/hitsync-go/pkg/audio/output"
	"github.com/Sendspin/hitsync-go/pkg/hitsync"
	"github.com/charmbracelet/log"
)

var (
	configPath = flag.String("config", "", "YAML config file (default: built-in settings)")
	outPath    = flag.String("out", "hitsync-render.wav", "Output WAV path")
	bitDepth   = flag.Int("bit-depth", 16, "Output bit depth (16 or 24)")
	noGate     = flag.Bool("no-gate", false, "Render with pause-on-miss disabled")
	debug      = flag.Bool("debug", false, "Enable debug logging")
)

func main() {
	flag.Parse()

	closer, err := logger.Setup(logger.Options{Stdout: true, Debug: *debug, Prefix: "render"})
	if err != nil {
		log.Fatal("Logger setup failed", "err", err)
	}
	defer func() { _ = closer.Close() }()

	if err := run(); err != nil {
		log.Fatal("Render failed", "err", err)
	}
}

func run() error {
	fmt.Printf("=== %s offline render ===\n", version.Banner())

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return err
		}
	}
	if *noGate {
		off := false
		cfg.Gating.PauseOnMiss = &off
	}

	clip, err := decode.Load(cfg.Audio.Clip, cfg.Audio.SampleRate, sim.LeadTime)
	if err != nil {
		return config.ErrClip.Wrap(err, "load %q", cfg.Audio.Clip)
	}

	render := output.NewRender(clip)
	s := sim.New(cfg, render)

	err = s.RunOffline(context.Background(), func(hitsync.Snapshot) {
		advance(render, s.Clock().DSPTime())
	})
	if err != nil {
		return err
	}

	f, err := os.Create(*outPath)
	if err != nil {
		return config.ErrOutput.Wrap(err, "create %s", *outPath)
	}
	defer f.Close()

	if err := render.WriteWAV(f, *bitDepth); err != nil {
		return config.ErrOutput.Wrap(err, "write %s", *outPath)
	}

	sum := s.Summary()
	stats := s.Engine().Stats()
	rendered := render.Clip()
	log.Info("Render complete",
		"path", *outPath,
		"duration", rendered.Duration(),
		"notes", sum.Notes,
		"cut", sum.Cut,
		"missed", sum.Missed,
		"gated", stats.Muted)
	return nil
}

// advance mixes up to dsp, logging rather than aborting on failure
func advance(out output.Output, dsp float64) bool {
	if err := out.Advance(dsp); err != nil {
		log.Warn("Output advance failed", "err", err)
		return false
	}
	return true
}

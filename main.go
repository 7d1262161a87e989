// ABOUTME: Entry point for the interactive hitsound simulator
// ABOUTME: Parses CLI flags, plays a simulated map and shows live sync status
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Sendspin/hitsync-go/internal/config"
	"github.com/Sendspin/hitsync-go/internal/logger"
	"github.com/Sendspin/hitsync-go/internal/sim"
	"github.com/Sendspin/hitsync-go/internal/ui"
	"github.com/Sendspin/hitsync-go/internal/version"
	"github.com/Sendspin/hitsync-go/pkg/audio"
	"github.com/Sendspin/hitsync-go/pkg/audio/decode"
	"github.com/Sendspin/hitsync-go/pkg/audio/output"
	"github.com/Sendspin/hitsync-go/pkg/cue"
	"github.com/Sendspin/hitsync-go/pkg/hitsync"
	"github.com/charmbracelet/log"
)

var (
	configPath  = flag.String("config", "", "YAML config file (default: built-in settings)")
	clipPath    = flag.String("clip", "", "Hitsound clip (mp3 or wav), overrides config")
	spatializer = flag.String("spatializer", "", "Pretend this spatializer plugin is loaded")
	logFile     = flag.String("log-file", "hitsync.log", "Log file path")
	noTUI       = flag.Bool("no-tui", false, "Disable TUI, use streaming logs instead")
	streamLogs  = flag.Bool("stream-logs", false, "Alias for -no-tui")
	noAudio     = flag.Bool("no-audio", false, "Mix in memory instead of opening the sound card")
	debug       = flag.Bool("debug", false, "Enable debug logging")
)

func main() {
	flag.Parse()

	useTUI := !(*noTUI || *streamLogs)

	closer, err := logger.Setup(logger.Options{
		File:   *logFile,
		Stdout: !useTUI,
		Debug:  *debug,
	})
	if err != nil {
		log.Fatal("Error opening log file", "err", err)
	}
	defer func() { _ = closer.Close() }()

	log.Info("Starting " + version.Banner())

	cfg, err := loadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "err", err)
	}

	clip, err := decode.Load(cfg.Audio.Clip, cfg.Audio.SampleRate, sim.LeadTime)
	if err != nil {
		log.Fatal("Failed to load clip", "err", config.ErrClip.Wrap(err, "load %q", cfg.Audio.Clip))
	}
	log.Info("Hitsound clip loaded", "name", clip.Name, "duration", clip.Duration())

	out, err := openOutput(clip)
	if err != nil {
		log.Fatal("Failed to open audio output", "err", err)
	}
	defer func() {
		if err := out.Close(); err != nil {
			log.Warn("Error closing output", "err", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := sim.New(cfg, out)

	if useTUI {
		runTUI(ctx, cfg, s, out, clip.Name)
	} else {
		runStreaming(ctx, cfg, s, out)
	}

	log.Info("Simulator stopped")
}

func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return nil, err
		}
	}
	if *clipPath != "" {
		cfg.Audio.Clip = *clipPath
	}
	if *spatializer != "" {
		cfg.Sim.Spatializer = *spatializer
	}
	return cfg, nil
}

func openOutput(clip audio.Clip) (output.Output, error) {
	if *noAudio {
		return output.NewRender(clip), nil
	}

	o := output.NewOto(clip)
	if err := o.Open(); err != nil {
		return nil, config.ErrOutput.Wrap(err, "open sound card")
	}
	return o, nil
}

// applyToggle flips a live setting. Runs on the tick goroutine, which is
// the only reader of cfg once the simulation starts.
func applyToggle(cfg *config.Config, t ui.Toggle) {
	var v *bool
	switch t {
	case ui.TogglePauseOnMiss:
		v = cfg.Gating.PauseOnMiss
	case ui.ToggleFollowSaber:
		v = cfg.Position.FollowSaber
	case ui.ToggleFollowAfterCut:
		v = cfg.Position.FollowAfterCut
	default:
		return
	}
	*v = !*v
	log.Info("Setting changed", "name", t, "value", *v)
}

func status(cfg *config.Config, s *sim.Sim, snap hitsync.Snapshot) ui.StatusMsg {
	sum := s.Summary()
	return ui.StatusMsg{
		Snapshot:    snap,
		Settings:    cfg.Settings(),
		Notes:       sum.Notes,
		Cut:         sum.Cut,
		Missed:      sum.Missed,
		Late:        sum.Late,
		Spatializer: s.Spatial().Name,
	}
}

func runTUI(ctx context.Context, cfg *config.Config, s *sim.Sim, out output.Output, clipName string) {
	controls := ui.NewControls()
	tui := ui.New(controls)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)

		frame := 0
		var last hitsync.Snapshot
		err := s.Run(ctx, func(snap hitsync.Snapshot) {
			drainToggles(cfg, controls)
			if err := out.Advance(s.Clock().DSPTime()); err != nil {
				log.Warn("Output advance failed", "err", err)
			}

			last = snap
			frame++
			// ~30 updates per second is plenty for a terminal
			if frame%3 == 0 {
				msg := status(cfg, s, snap)
				msg.Clip = clipName
				tui.Update(msg)
			}
		})
		if err != nil && ctx.Err() == nil {
			log.Error("Simulation failed", "err", err)
		}

		final := status(cfg, s, last)
		final.Clip = clipName
		final.Done = ctx.Err() == nil
		tui.Update(final)
	}()

	go func() {
		select {
		case <-controls.Quit:
			log.Info("Received quit signal from TUI")
		case <-ctx.Done():
			log.Info("Shutdown signal received")
		}
		cancel()
		tui.Quit()
	}()

	if err := tui.Run(); err != nil {
		log.Error("TUI error", "err", err)
	}
	cancel()
	<-done
	tui.Stop()
}

func drainToggles(cfg *config.Config, controls *ui.Controls) {
	for {
		select {
		case t := <-controls.Changes:
			applyToggle(cfg, t)
		default:
			return
		}
	}
}

func runStreaming(ctx context.Context, cfg *config.Config, s *sim.Sim, out output.Output) {
	lastLog := time.Now()
	err := s.Run(ctx, func(snap hitsync.Snapshot) {
		if err := out.Advance(s.Clock().DSPTime()); err != nil {
			log.Warn("Output advance failed", "err", err)
		}

		if time.Since(lastLog) < time.Second {
			return
		}
		lastLog = time.Now()

		sum := s.Summary()
		log.Info("Status",
			"state", snap.Sample.State,
			"raw", snap.Raw,
			"offset", snap.Offset,
			"samples", snap.Filter.SampleCount,
			"deferred", snap.Pending,
			"muted", snap.Decisions[cue.Muted],
			"released", snap.Decisions[cue.Released],
			"cut", sum.Cut,
			"missed", sum.Missed)
	})
	if err != nil && ctx.Err() == nil {
		log.Error("Simulation failed", "err", err)
		return
	}

	sum := s.Summary()
	stats := s.Engine().Stats()
	log.Info("Summary",
		"notes", sum.Notes,
		"cut", sum.Cut,
		"late", sum.Late,
		"missed", sum.Missed,
		"gated", stats.Muted,
		"released", stats.Released,
		"deferred", stats.Deferred,
		"offset", s.Engine().Offset())
}

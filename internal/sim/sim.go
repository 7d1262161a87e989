// ABOUTME: Simulated game host driving the hitsound engine
// ABOUTME: Spawns notes, cuts or misses them and advances one frame per tick
package sim

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/Sendspin/hitsync-go/internal/config"
	"github.com/Sendspin/hitsync-go/pkg/hitsync"
	"github.com/Sendspin/hitsync-go/pkg/spatial"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

const (
	// spawnAhead is how long before its time a note appears
	spawnAhead = 1.0
	// LeadTime is the hitsound pre-roll before the note
	LeadTime = 0.1
	// cutLead is how far before the note a clean cut lands
	cutLead = 0.05
	// lateCut is how far past the note a late cut lands
	lateCut = 0.06
	// startDSP is the hardware clock when the level loads
	startDSP = 1234.5
)

// Summary counts what happened to the chart
type Summary struct {
	Notes   int
	Spawned int
	Cut     int
	Late    int
	Missed  int
}

type pendingCut struct {
	id   uuid.UUID
	at   float64
	note Note
}

// Sim is a simulated host: clocks, chart, sabers and a player
type Sim struct {
	clock   *Clock
	chart   Chart
	engine  *hitsync.Engine
	backend spatial.Backend
	sabers  [2]*Saber
	rng     *rand.Rand
	next    int
	cuts    []pendingCut
	align   float64
	summary Summary
}

// New builds a simulation from configuration. Voices receives every
// dispatched hitsound.
func New(cfg *config.Config, voices hitsync.VoiceFactory) *Sim {
	rng := rand.New(rand.NewSource(cfg.Sim.Seed))
	chart := GenerateChart(cfg.Sim.Notes, cfg.Sim.BPM, cfg.Sim.MissRate, rng)

	clock := NewClock(ClockConfig{
		FPS:        cfg.Sim.FPS,
		StartDSP:   startDSP,
		LeadIn:     cfg.Sim.LeadIn,
		SongLength: chart.SongLength,
		Tail:       0.5,
		Quantum:    cfg.Sim.Quantum,
		WrongRate:  0.2,
	}, rng)

	backend := spatial.Detect(spatial.Static(cfg.Sim.Spatializer))

	s := &Sim{
		clock:   clock,
		chart:   chart,
		rng:     rng,
		align:   chart.Beat / 4,
		backend: backend,
		engine: hitsync.New(hitsync.Config{
			Filter:   cfg.FilterConfig(),
			Spatial:  backend,
			Voices:   voices,
			Settings: cfg.Settings,
		}),
		summary: Summary{Notes: len(chart.Notes)},
	}
	s.sabers[0] = &Saber{Color: 0, clock: clock}
	s.sabers[1] = &Saber{Color: 1, clock: clock}

	log.Info("Simulation ready", "notes", len(chart.Notes), "song", chart.SongLength,
		"fps", cfg.Sim.FPS, "spatializer", backend.Present)
	return s
}

// Frame runs one host frame: engine tick, then spawns and cuts.
// Returns ErrClockStopped once the session is over.
func (s *Sim) Frame(ctx context.Context) (hitsync.Snapshot, error) {
	if s.clock.Finished() {
		return hitsync.Snapshot{Stats: s.engine.Stats()}, ErrClockStopped
	}

	snap, ok := s.engine.Poll(ctx, s.clock)
	if !ok {
		if err := ctx.Err(); err != nil {
			return snap, err
		}
	}

	song := s.clock.SongTime()
	s.spawnDue(song)
	s.cutDue(song)

	s.clock.Advance()
	return snap, nil
}

func (s *Sim) spawnDue(song float64) {
	for s.next < len(s.chart.Notes) && s.chart.Notes[s.next].Time-spawnAhead <= song {
		n := s.chart.Notes[s.next]
		s.next++

		saber := s.sabers[n.Color]
		id := s.engine.Spawn(hitsync.CueSpec{
			NoteTime:           n.Time,
			LeadTime:           LeadTime,
			Pitch:              0.9 + 0.3*s.rng.Float64(),
			Spatialized:        true,
			Saber:              saber,
			Gap:                n.Gap,
			BeatAlignTolerance: s.align,
			SwingSpeed:         saber.Speed(song),
		})
		s.summary.Spawned++

		if n.Miss {
			s.summary.Missed++
			continue
		}

		at := n.Time - cutLead + (s.rng.Float64()-0.5)*0.02
		if n.Late {
			at = n.Time + lateCut
		}
		s.cuts = append(s.cuts, pendingCut{id: id, at: at, note: n})
	}
}

func (s *Sim) cutDue(song float64) {
	remaining := s.cuts[:0]
	for _, c := range s.cuts {
		if c.at > song {
			remaining = append(remaining, c)
			continue
		}

		s.engine.Trigger(c.id, hitsync.TriggerEvent{
			CutPoint: s.sabers[c.note.Color].Tip(),
			Good:     s.rng.Float64() > 0.05,
		})
		s.summary.Cut++
		if c.note.Late {
			s.summary.Late++
		}
	}
	s.cuts = remaining
}

// Run advances one frame per tick of a real-time ticker until the session
// ends or ctx is cancelled
func (s *Sim) Run(ctx context.Context, onFrame func(hitsync.Snapshot)) error {
	ticker := time.NewTicker(time.Second / time.Duration(s.clock.config.FPS))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if done, err := s.step(ctx, onFrame); done {
				return err
			}
		}
	}
}

// RunOffline advances frames as fast as possible
func (s *Sim) RunOffline(ctx context.Context, onFrame func(hitsync.Snapshot)) error {
	for {
		if done, err := s.step(ctx, onFrame); done {
			return err
		}
	}
}

func (s *Sim) step(ctx context.Context, onFrame func(hitsync.Snapshot)) (bool, error) {
	snap, err := s.Frame(ctx)
	if errors.Is(err, ErrClockStopped) {
		log.Info("Simulation finished", "cut", s.summary.Cut, "missed", s.summary.Missed,
			"muted", snap.Stats.Muted, "released", snap.Stats.Released)
		return true, nil
	}
	if err != nil {
		return true, err
	}
	if onFrame != nil {
		onFrame(snap)
	}
	return false, nil
}

// Summary returns what happened to the chart so far
func (s *Sim) Summary() Summary {
	return s.summary
}

// Engine returns the engine under simulation
func (s *Sim) Engine() *hitsync.Engine {
	return s.engine
}

// Clock returns the simulated clock
func (s *Sim) Clock() *Clock {
	return s.clock
}

// Spatial returns the detected spatial backend
func (s *Sim) Spatial() spatial.Backend {
	return s.backend
}

// Chart returns the generated chart
func (s *Sim) Chart() Chart {
	return s.chart
}

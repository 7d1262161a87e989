// ABOUTME: Generated note chart and saber motion for the simulator
// ABOUTME: Provides note timing, same-color gaps and a swinging saber pose
package sim

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
)

// Note is one chart entry
type Note struct {
	Index int
	Time  float64 // song time
	Color int     // 0 left, 1 right
	Gap   float64 // time since the previous note of the same color
	Miss  bool    // the simulated player never cuts it
	Late  bool    // cut arrives after the gate deadline
}

// Chart is a generated beatmap
type Chart struct {
	Notes      []Note
	Beat       float64
	SongLength float64
}

// GenerateChart lays out notes on eighth-note steps, skipping some steps
// and occasionally doubling up to produce short same-color gaps
func GenerateChart(count int, bpm, missRate float64, rng *rand.Rand) Chart {
	beat := 60 / bpm
	step := beat / 2

	notes := make([]Note, 0, count)
	last := [2]float64{math.Inf(-1), math.Inf(-1)}
	t := 0.5

	for len(notes) < count {
		color := rng.Intn(2)
		n := Note{
			Index: len(notes),
			Time:  t,
			Color: color,
			Gap:   t - last[color],
			Miss:  rng.Float64() < missRate,
		}
		n.Late = !n.Miss && rng.Float64() < missRate/2
		last[color] = t
		notes = append(notes, n)

		if rng.Float64() < 0.15 {
			t += step / 4 // burst
		} else {
			t += step * float64(1+rng.Intn(2))
		}
	}

	return Chart{
		Notes:      notes,
		Beat:       beat,
		SongLength: t + 1,
	}
}

const swingHz = 3

// Saber is a simulated blade swinging on a fixed arc
type Saber struct {
	Color int
	clock *Clock
}

// pose returns tip and base at song time t
func (s *Saber) pose(t float64) (tip, base mgl64.Vec3) {
	side := -0.4
	if s.Color == 1 {
		side = 0.4
	}
	phase := float64(s.Color) * math.Pi
	angle := math.Sin(2*math.Pi*swingHz*t+phase) * math.Pi / 2

	base = mgl64.Vec3{side, 1.0, 0.3}
	dir := mgl64.Vec3{math.Sin(angle), math.Cos(angle), 0.2}.Normalize()
	tip = base.Add(dir.Mul(1.0))
	return tip, base
}

// Tip implements hitsync.Saber
func (s *Saber) Tip() mgl64.Vec3 {
	tip, _ := s.pose(s.clock.SongTime())
	return tip
}

// Mid implements hitsync.Saber
func (s *Saber) Mid() mgl64.Vec3 {
	tip, base := s.pose(s.clock.SongTime())
	return tip.Add(base).Mul(0.5)
}

// Speed is the tip speed in m/s at song time t
func (s *Saber) Speed(t float64) float64 {
	const dt = 1.0 / 240
	a, _ := s.pose(t)
	b, _ := s.pose(t + dt)
	return b.Sub(a).Len() / dt
}

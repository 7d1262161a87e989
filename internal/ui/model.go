// ABOUTME: Bubbletea model for the hitsound simulator TUI
// ABOUTME: Shows offset filter, deferred queue and gate decisions with live toggles
package ui

import (
	"fmt"
	"strings"

	"github.com/Sendspin/hitsync-go/pkg/cue"
	"github.com/Sendspin/hitsync-go/pkg/hitsync"
	"github.com/Sendspin/hitsync-go/pkg/sync"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// historyLen is the number of offset error samples kept for the trace
const historyLen = 48

// Toggle names a setting flipped from the keyboard
type Toggle int

const (
	TogglePauseOnMiss Toggle = iota
	ToggleFollowSaber
	ToggleFollowAfterCut
)

func (t Toggle) String() string {
	switch t {
	case TogglePauseOnMiss:
		return "pause_on_miss"
	case ToggleFollowSaber:
		return "follow_saber"
	case ToggleFollowAfterCut:
		return "follow_after_cut"
	}
	return "unknown"
}

// Model represents the TUI state
type Model struct {
	snap     hitsync.Snapshot
	settings hitsync.Settings

	notes, cut, missed, late int

	spatializer string
	clip        string
	done        bool

	// |raw - corrected| in ms, newest last
	history []float64

	showDebug bool
	quitting  bool
	controls  *Controls

	width  int
	height int
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case StatusMsg:
		m.applyStatus(msg)
	}

	return m, nil
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("220"))

	onStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	offStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	faint    = lipgloss.NewStyle().Faint(true)
)

// View renders the TUI
func (m Model) View() string {
	if m.quitting {
		return "Stopping simulation...\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Hitsound Sync"))
	b.WriteString("\n\n")

	b.WriteString(m.renderClock())
	b.WriteString("\n")
	b.WriteString(m.renderGates())
	b.WriteString("\n")
	b.WriteString(m.renderSettings())

	if m.showDebug {
		b.WriteString("\n")
		b.WriteString(m.renderDebug())
	}

	b.WriteString("\n")
	b.WriteString(faint.Render("g:Gate on miss  f:Follow saber  a:Fade after cut  d:Debug  q:Quit"))
	b.WriteString("\n")
	return b.String()
}

func field(name, value string) string {
	return headerStyle.Render(fmt.Sprintf("%-10s", name)) + valueStyle.Render(value) + "\n"
}

// renderClock renders timeline state and the offset filter
func (m Model) renderClock() string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Clock"))
	b.WriteString("\n")

	s := m.snap.Sample
	b.WriteString(field("State:", s.State.String()))
	b.WriteString(field("DSP:", fmt.Sprintf("%.3fs  song %.3fs", s.HardwareTime, s.LogicalPosition)))
	b.WriteString(field("Raw:", fmt.Sprintf("%.4fs", m.snap.Raw)))

	lock := "unlocked"
	if m.snap.Filter.Initialized {
		lock = fmt.Sprintf("%.4fs  (n=%d)", m.snap.Offset, m.snap.Filter.SampleCount)
		if m.snap.Filter.Saturated() {
			lock += " saturated"
		}
	}
	b.WriteString(field("Locked:", lock))
	b.WriteString(field("Jitter:", sparkline(m.history)))
	return b.String()
}

// renderGates renders deferred spawns and gate decisions
func (m Model) renderGates() string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render(fmt.Sprintf("Cues (%d/%d notes)", m.cut+m.missed, m.notes)))
	b.WriteString("\n")

	d := m.snap.Decisions
	b.WriteString(field("Live:", fmt.Sprintf("%s %d  %s %d  %s %d  %s %d",
		cue.Pending, d[cue.Pending], cue.Armed, d[cue.Armed], cue.Muted, d[cue.Muted], cue.Released, d[cue.Released])))
	b.WriteString(field("Deferred:", fmt.Sprintf("%d waiting, %d total", m.snap.Pending, m.snap.Stats.Deferred)))
	b.WriteString(field("Player:", fmt.Sprintf("cut %d  late %d  missed %d", m.cut, m.late, m.missed)))
	b.WriteString(field("Gated:", fmt.Sprintf("muted %d  released %d  finished %d  expired %d",
		m.snap.Stats.Muted, m.snap.Stats.Released, m.snap.Stats.Finished, m.snap.Stats.Expired)))

	if m.done {
		b.WriteString(onStyle.Render("Song finished"))
		b.WriteString("\n")
	}
	return b.String()
}

// renderSettings renders the live toggles
func (m Model) renderSettings() string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Settings"))
	b.WriteString("\n")
	b.WriteString(field("Gating:", onOff(m.settings.PauseOnMiss)))
	b.WriteString(field("Follow:", onOff(m.settings.FollowSaber)))
	b.WriteString(field("Fade:", onOff(m.settings.FollowAfterCut)))

	spatial := m.spatializer
	if spatial == "" {
		spatial = "none"
	}
	b.WriteString(field("Spatial:", spatial))
	b.WriteString(field("Clip:", truncate(m.clip, 40)))
	return b.String()
}

// renderDebug renders raw filter state
func (m Model) renderDebug() string {
	f := m.snap.Filter
	return sectionStyle.Render("Debug") + "\n" +
		field("Average:", fmt.Sprintf("%.6f", f.RunningAverage)) +
		field("Lock:", fmt.Sprintf("%.6f", f.LockedOffset)) +
		field("Skipped:", fmt.Sprintf("%d ticks", m.snap.Stats.Skipped)) +
		field("Scale:", fmt.Sprintf("%.2f capture=%v", m.snap.Sample.TimeScale, m.snap.Sample.Capturing))
}

func onOff(v bool) string {
	if v {
		return onStyle.Render("on")
	}
	return offStyle.Render("off")
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		if m.controls != nil {
			select {
			case m.controls.Quit <- struct{}{}:
			default:
			}
		}
		return m, tea.Quit
	case "g":
		m.settings.PauseOnMiss = !m.settings.PauseOnMiss
		m.send(TogglePauseOnMiss)
	case "f":
		m.settings.FollowSaber = !m.settings.FollowSaber
		m.send(ToggleFollowSaber)
	case "a":
		m.settings.FollowAfterCut = !m.settings.FollowAfterCut
		m.send(ToggleFollowAfterCut)
	case "d":
		m.showDebug = !m.showDebug
	}

	return m, nil
}

func (m Model) send(t Toggle) {
	if m.controls == nil {
		return
	}
	select {
	case m.controls.Changes <- t:
	default:
	}
}

// applyStatus updates model from status message
func (m *Model) applyStatus(msg StatusMsg) {
	m.snap = msg.Snapshot
	m.settings = msg.Settings
	m.notes = msg.Notes
	m.cut = msg.Cut
	m.missed = msg.Missed
	m.late = msg.Late
	m.done = msg.Done
	if msg.Spatializer != "" {
		m.spatializer = msg.Spatializer
	}
	if msg.Clip != "" {
		m.clip = msg.Clip
	}

	if msg.Snapshot.Sample.State == sync.Running && msg.Snapshot.Filter.Initialized {
		jitter := (msg.Snapshot.Raw - msg.Snapshot.Offset) * 1000
		if jitter < 0 {
			jitter = -jitter
		}
		m.history = append(m.history, jitter)
		if len(m.history) > historyLen {
			m.history = m.history[len(m.history)-historyLen:]
		}
	}
}

// StatusMsg updates TUI state
type StatusMsg struct {
	Snapshot    hitsync.Snapshot
	Settings    hitsync.Settings
	Notes       int
	Cut         int
	Missed      int
	Late        int
	Spatializer string
	Clip        string
	Done        bool
}

var sparks = []rune("▁▂▃▄▅▆▇█")

// sparkline renders values scaled to the largest one
func sparkline(values []float64) string {
	if len(values) == 0 {
		return "-"
	}

	peak := 0.0
	for _, v := range values {
		if v > peak {
			peak = v
		}
	}

	var b strings.Builder
	for _, v := range values {
		i := 0
		if peak > 0 {
			i = int(v / peak * float64(len(sparks)-1))
		}
		b.WriteRune(sparks[i])
	}
	return fmt.Sprintf("%s %.1fms", b.String(), peak)
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}

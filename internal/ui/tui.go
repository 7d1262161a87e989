// ABOUTME: TUI initialization and control
// ABOUTME: Wraps the bubbletea program and the toggle channels back to the host
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Controls carries keyboard actions back to the tick loop
type Controls struct {
	Changes chan Toggle
	Quit    chan struct{}
}

// NewControls creates a new control handler
func NewControls() *Controls {
	return &Controls{
		Changes: make(chan Toggle, 10),
		Quit:    make(chan struct{}, 1),
	}
}

// NewModel creates a new TUI model
func NewModel(controls *Controls) Model {
	return Model{controls: controls}
}

// TUI runs the status display
type TUI struct {
	program *tea.Program
	updates chan StatusMsg
}

// New creates the TUI program
func New(controls *Controls) *TUI {
	return &TUI{
		program: tea.NewProgram(NewModel(controls), tea.WithAltScreen()),
		updates: make(chan StatusMsg, 10),
	}
}

// Run blocks until the user quits
func (t *TUI) Run() error {
	go func() {
		for status := range t.updates {
			t.program.Send(status)
		}
	}()

	_, err := t.program.Run()
	return err
}

// Update sends a status update to the TUI
func (t *TUI) Update(status StatusMsg) {
	select {
	case t.updates <- status:
	default:
		// Don't block the tick loop if the TUI is behind
	}
}

// Quit asks the program to exit
func (t *TUI) Quit() {
	t.program.Quit()
}

// Stop closes the program. No Update may follow.
func (t *TUI) Stop() {
	t.program.Quit()
	close(t.updates)
}

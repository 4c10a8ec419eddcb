package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner represents a spinning progress indicator
type Spinner struct {
	Frame     int
	StartTime time.Time
	Label     string
	Color     lipgloss.TerminalColor
}

// NewSpinner creates a new spinner
func NewSpinner() *Spinner {
	return &Spinner{
		StartTime: time.Now(),
		Color:     lipgloss.AdaptiveColor{Light: "#059669", Dark: "#10B981"},
	}
}

// SetLabel sets the spinner label
func (s *Spinner) SetLabel(label string) {
	s.Label = label
}

// Reset restarts the animation and the elapsed clock
func (s *Spinner) Reset() {
	s.Frame = 0
	s.StartTime = time.Now()
}

// Tick advances the spinner animation
func (s *Spinner) Tick() {
	s.Frame = (s.Frame + 1) % len(spinnerFrames)
}

// Elapsed returns the time since the spinner was started or reset
func (s *Spinner) Elapsed() time.Duration {
	return time.Since(s.StartTime)
}

// Render renders the spinner
func (s *Spinner) Render() string {
	style := lipgloss.NewStyle().Foreground(s.Color).Bold(true)
	spinner := style.Render(spinnerFrames[s.Frame%len(spinnerFrames)])

	if s.Label != "" {
		return fmt.Sprintf("%s %s", spinner, s.Label)
	}
	return spinner
}

package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yildizm/SysSecura/internal/session"
)

type tickMsg time.Time

// stateChangedMsg carries a state published by the controller
type stateChangedMsg struct {
	state session.State
}

// submissionDoneMsg carries the controller state once a submission settles
type submissionDoneMsg struct {
	state session.State
	err   error
}

func tick() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// submitCommand runs one submission off the UI loop
func submitCommand(ctx context.Context, controller *session.Controller) tea.Cmd {
	return func() tea.Msg {
		err := controller.Submit(ctx)
		return submissionDoneMsg{state: controller.Snapshot(), err: err}
	}
}

// waitForState delivers the next published state to the UI loop
func waitForState(updates <-chan session.State) tea.Cmd {
	return func() tea.Msg {
		return stateChangedMsg{state: <-updates}
	}
}

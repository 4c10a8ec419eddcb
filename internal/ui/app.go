package ui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/SysSecura/internal/emoji"
	"github.com/yildizm/SysSecura/internal/formatter"
	"github.com/yildizm/SysSecura/internal/intake"
	"github.com/yildizm/SysSecura/internal/predict"
	"github.com/yildizm/SysSecura/internal/session"
	"github.com/yildizm/SysSecura/internal/ui/components"
)

const detectLabel = "Detect Threats"

// Options configures the interactive app
type Options struct {
	Controller *session.Controller

	// Open turns a typed path into a candidate file. Defaults to intake.FromPath
	// with the media type taken from the extension.
	Open func(path string) (*intake.File, error)

	// InitialPath is selected before the first frame when set
	InitialPath string

	Color bool
}

// Model is the upload-and-detect screen
type Model struct {
	ctx        context.Context
	controller *session.Controller
	open       func(path string) (*intake.File, error)
	color      bool

	state      session.State
	input      []rune
	notice     string
	submitting bool
	quitting   bool

	// holds at most the latest controller state
	updates chan session.State

	spinner *components.Spinner
	width   int
	height  int
}

// NewModel creates the interactive model
func NewModel(ctx context.Context, opts Options) *Model {
	open := opts.Open
	if open == nil {
		open = func(path string) (*intake.File, error) {
			return intake.FromPath(path, "")
		}
	}

	spinner := components.NewSpinner()
	spinner.Color = GetTheme().Primary
	spinner.SetLabel("Detecting...")

	m := &Model{
		ctx:        ctx,
		controller: opts.Controller,
		open:       open,
		color:      opts.Color && !IsColorDisabled(),
		spinner:    spinner,
		state:      opts.Controller.Snapshot(),
		updates:    make(chan session.State, 1),
	}
	m.controller.Subscribe(m.publish)

	if opts.InitialPath != "" {
		m.input = []rune(opts.InitialPath)
		m.selectPath(opts.InitialPath)
	}
	return m
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return waitForState(m.updates)
}

// publish replaces any undelivered state with s. The controller may call it
// from the UI loop itself, so it never blocks.
func (m *Model) publish(s session.State) {
	for {
		select {
		case m.updates <- s:
			return
		default:
		}
		select {
		case <-m.updates:
		default:
		}
	}
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tickMsg:
		if !m.loading() {
			return m, nil
		}
		m.spinner.Tick()
		return m, tick()

	case stateChangedMsg:
		m.state = msg.state
		return m, waitForState(m.updates)

	case submissionDoneMsg:
		m.submitting = false
		m.state = msg.state
		return m, nil
	}

	return m, nil
}

func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit
	case "ctrl+d":
		return m.detect()
	case "enter":
		if m.loading() {
			return m, nil
		}
		m.selectPath(strings.TrimSpace(string(m.input)))
		return m, nil
	case "backspace":
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
		return m, nil
	case "ctrl+u":
		m.input = nil
		return m, nil
	}

	switch msg.Type {
	case tea.KeyRunes:
		m.input = append(m.input, msg.Runes...)
	case tea.KeySpace:
		m.input = append(m.input, ' ')
	}
	return m, nil
}

// DetectEnabled reports whether the detect action can be triggered.
// Like the browser button it is only disabled while a submission runs.
func (m *Model) DetectEnabled() bool {
	return !m.loading()
}

func (m *Model) detect() (tea.Model, tea.Cmd) {
	if !m.DetectEnabled() {
		return m, nil
	}
	m.notice = ""
	m.submitting = true
	m.spinner.Reset()
	return m, tea.Batch(submitCommand(m.ctx, m.controller), tick())
}

func (m *Model) selectPath(path string) {
	m.notice = ""
	if path == "" {
		return
	}

	candidate, err := m.open(path)
	if err != nil {
		m.notice = fmt.Sprintf("Cannot open %s: %v", path, err)
		return
	}

	// rejection is recorded in the controller state
	_ = m.controller.Select(candidate)
	m.state = m.controller.Snapshot()
}

func (m *Model) loading() bool {
	return m.submitting || m.state.Loading()
}

// State returns the last observed session state
func (m *Model) State() session.State {
	return m.state
}

// View renders the screen
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	styles := GetStyles()
	sections := []string{
		m.renderHeader(styles),
		m.renderInput(styles),
		m.renderSelection(styles),
		m.renderAction(styles),
	}

	if m.notice != "" {
		sections = append(sections, styles.Warning.Render(m.notice))
	}
	if m.state.HasError() && !m.loading() {
		sections = append(sections, styles.Error.Render(emoji.GetEmoji("error")+" "+m.state.Message))
	}
	if results := m.renderResults(); results != "" {
		sections = append(sections, results)
	}

	sections = append(sections, styles.Muted.Render("enter select file • ctrl+d detect • ctrl+u clear • esc quit"))
	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}

func (m *Model) renderHeader(styles *Styles) string {
	title := styles.Title.Render(emoji.GetEmoji("shield") + " SysSecura")
	subtitle := styles.Muted.Render("Insider threat detection")
	return lipgloss.JoinHorizontal(lipgloss.Center, title, " ", subtitle) + "\n"
}

func (m *Model) renderInput(styles *Styles) string {
	label := styles.Header.Render(emoji.GetEmoji("upload") + " Log file (.json)")
	field := string(m.input)
	if !m.loading() {
		field += "█"
	}

	width := 48
	if m.width > 10 {
		width = min(m.width-6, 72)
	}
	return lipgloss.JoinVertical(lipgloss.Left, label, styles.Input.Width(width).Render(field))
}

func (m *Model) renderSelection(styles *Styles) string {
	if m.state.File == nil {
		return styles.Muted.Render("No file selected")
	}
	f := m.state.File
	return styles.Body.Render(fmt.Sprintf("%s %s (%s)", emoji.GetEmoji("file"), f.Name, intake.FormatSize(f.Size)))
}

func (m *Model) renderAction(styles *Styles) string {
	if m.loading() {
		button := styles.ButtonDisabled.Render(detectLabel)
		return "\n" + lipgloss.JoinHorizontal(lipgloss.Center, button, "  ", m.spinner.Render()) + "\n"
	}
	return "\n" + styles.Button.Render(emoji.GetEmoji("cpu")+" "+detectLabel) + "\n"
}

func (m *Model) renderResults() string {
	records := m.state.Results
	if len(records) == 0 || m.loading() {
		return ""
	}

	dashboard := components.NewSummaryDashboard(predict.Summarize(records))
	table := formatter.RenderTable(formatter.BuildRows(records), GetTheme().Palette(), m.color)
	return lipgloss.JoinVertical(lipgloss.Left, "", dashboard.Render(), table)
}

// Run starts the interactive app and blocks until it exits
func Run(ctx context.Context, opts Options) error {
	model := NewModel(ctx, opts)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("interactive UI failed: %w", err)
	}
	return nil
}

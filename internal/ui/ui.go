// Package ui renders live import progress in the terminal.
//
// The model consumes the engine's progress channel and the run outcome; it
// never drives the import itself, so closing the UI early cannot corrupt a run.
package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mtomcal/videotitan-server/internal/importer"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	phaseStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	messageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
)

// RunOutcome carries the terminal result of an import run into the UI.
type RunOutcome struct {
	Result *importer.Result
	Err    error
}

// Model is the bubbletea model for watching one import run.
type Model struct {
	username string
	spinner  spinner.Model
	updates  <-chan importer.ProgressUpdate
	outcome  <-chan RunOutcome

	progress importer.ProgressUpdate
	skipped  []string
	done     bool
	result   *importer.Result
	err      error
}

// NewModel creates a watch model for the given user's run.
func NewModel(username string, updates <-chan importer.ProgressUpdate, outcome <-chan RunOutcome) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return Model{
		username: username,
		spinner:  sp,
		updates:  updates,
		outcome:  outcome,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForEvent(m.updates, m.outcome))
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case progressMsg:
		m.progress = importer.ProgressUpdate(msg)
		if m.progress.Phase == importer.PhaseSkip {
			m.skipped = append(m.skipped, m.progress.Message)
		}
		return m, waitForEvent(m.updates, m.outcome)

	case outcomeMsg:
		m.done = true
		m.result = msg.Result
		m.err = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	s := titleStyle.Render(fmt.Sprintf("Importing playlists for %s", m.username)) + "\n\n"

	if m.done {
		if m.err != nil {
			s += errorStyle.Render("✗ Import failed") + "\n"
			s += messageStyle.Render(m.err.Error()) + "\n"
		} else if m.result != nil {
			s += successStyle.Render(fmt.Sprintf("✓ Published %d playlists, %d videos", m.result.Playlists, m.result.Videos)) + "\n"
		}
	} else {
		s += m.spinner.View() + " "
		if m.progress.Message != "" {
			s += phaseStyle.Render("["+m.progress.Phase.String()+"] ") + messageStyle.Render(m.progress.Message)
		} else {
			s += messageStyle.Render("Starting import...")
		}
		s += "\n"
	}

	for _, skip := range m.skipped {
		s += phaseStyle.Render("  ! "+skip) + "\n"
	}

	if !m.done {
		s += "\n" + phaseStyle.Render("q to detach (run continues)") + "\n"
	}

	return s
}

// Outcome returns the run outcome observed by the UI, if any.
func (m Model) Outcome() (*importer.Result, error) {
	return m.result, m.err
}

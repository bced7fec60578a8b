package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mtomcal/videotitan-server/internal/importer"
)

type progressMsg importer.ProgressUpdate

type outcomeMsg RunOutcome

var (
	_ tea.Msg = progressMsg{}
	_ tea.Msg = outcomeMsg{}
)

// waitForEvent blocks on the next progress update or the run outcome.
// Outcome wins when both are ready so a finished run always terminates the UI.
func waitForEvent(updates <-chan importer.ProgressUpdate, outcome <-chan RunOutcome) tea.Cmd {
	return func() tea.Msg {
		select {
		case o := <-outcome:
			return outcomeMsg(o)
		case u, ok := <-updates:
			if !ok {
				o := <-outcome
				return outcomeMsg(o)
			}
			return progressMsg(u)
		}
	}
}

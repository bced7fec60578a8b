package importer

import "fmt"

// ProgressUpdate represents a progress event during an import run.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Run phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Run phase enumeration
type Phase int

const (
	PhaseResolve Phase = iota
	PhaseDiscover
	PhaseFetch
	PhaseSkip
	PhasePublish
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseResolve:
		return "resolve"
	case PhaseDiscover:
		return "discover"
	case PhaseFetch:
		return "fetch"
	case PhaseSkip:
		return "skip"
	case PhasePublish:
		return "publish"
	case PhaseDone:
		return "done"
	default:
		return ""
	}
}

func resolveUpdate(step, total int, username string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PhaseResolve,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Resolving channel for %s...", username),
	}
}

func discoveredUpdate(step, total, playlists int, username string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PhaseDiscover,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Found %d playlists for %s", playlists, username),
	}
}

func skipUpdate(step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PhaseSkip,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Skipping %s: %v", name, err),
	}
}

func fetchUpdate(step, total int, title string, videos int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PhaseFetch,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s (%d videos)", step, total, title, videos),
	}
}

func publishUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   PhasePublish,
		Step:    1,
		Total:   1,
		Message: "Publishing staged import...",
	}
}

func doneUpdate(result *Result) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PhaseDone,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Published %d playlists, %d videos", result.Playlists, result.Videos),
		Data:    result,
	}
}

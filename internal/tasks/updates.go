package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchContent Phase = iota
	Transform
	Enrich
	Persist
	TriggerGeneration
	Discover
	FetchEvents
	Register
	Recommend
	Refresh
	Export
)

func (p Phase) String() string {
	switch p {
	case FetchContent:
		return "fetch_content"
	case Transform:
		return "transform"
	case Enrich:
		return "enrich"
	case Persist:
		return "persist"
	case TriggerGeneration:
		return "trigger_generation"
	case Discover:
		return "discover"
	case FetchEvents:
		return "fetch_events"
	case Register:
		return "register"
	case Recommend:
		return "recommend"
	case Refresh:
		return "refresh"
	case Export:
		return "export"
	default:
		return ""
	}
}

func fetchContentUpdate(credencialID int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchContent,
		Step:    1,
		Total:   3,
		Message: fmt.Sprintf("Fetching backend content (credencial %d)...", credencialID),
	}
}

func transformUpdate(videos, podcasts int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Transform,
		Step:    2,
		Total:   3,
		Message: fmt.Sprintf("Transformed content: %d videos, %d podcasts", videos, podcasts),
	}
}

func enrichUpdate(step, total int, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Enrich,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Looking up %s", step, total, title),
	}
}

func fallbackUpdate(err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Transform,
		Step:    2,
		Total:   3,
		Message: fmt.Sprintf("Using sample content: %v", err),
	}
}

func persistUpdate(plan any, stale bool) ProgressUpdate {
	msg := "Plan saved"
	if stale {
		msg = "Discarded result of a superseded generation"
	}
	return ProgressUpdate{
		Phase:   Persist,
		Step:    3,
		Total:   3,
		Message: msg,
		Data:    plan,
	}
}

func triggerUpdate(step, total int, name string, err error) ProgressUpdate {
	msg := fmt.Sprintf("[%d/%d] ✓ %s", step, total, name)
	if err != nil {
		msg = fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err)
	}
	return ProgressUpdate{
		Phase:   TriggerGeneration,
		Step:    step,
		Total:   total,
		Message: msg,
	}
}

func discoverUpdate(query string) ProgressUpdate {
	msg := "Generating suggestions..."
	if query != "" {
		msg = fmt.Sprintf("Searching for %q...", query)
	}
	return ProgressUpdate{Phase: Discover, Step: 1, Total: 2, Message: msg}
}

func eventsUpdate(location string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchEvents,
		Step:    1,
		Total:   2,
		Message: fmt.Sprintf("Looking for events near %s...", location),
	}
}

func registerUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Register,
		Step:    1,
		Total:   2,
		Message: fmt.Sprintf("Registering %s...", name),
	}
}

func recommendUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Recommend,
		Step:    1,
		Total:   2,
		Message: fmt.Sprintf("Writing recommendations for %s...", name),
	}
}

func refreshUpdate(step, total int, device string, err error) ProgressUpdate {
	msg := fmt.Sprintf("[%d/%d] ✓ refreshed %s", step, total, device)
	if err != nil {
		msg = fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, device, err)
	}
	return ProgressUpdate{Phase: Refresh, Step: step, Total: total, Message: msg}
}

func exportingUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Export,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Exporting: %s...", step, total, name),
	}
}

func exportCompletedUpdate(step, total int, name string, filesCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Export,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d files)", step, total, name, filesCount),
	}
}

func exportFailedUpdate(step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Export,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

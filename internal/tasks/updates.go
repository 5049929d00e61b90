package tasks

import (
	"fmt"

	"github.com/desertthunder/ytimport/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data ([models.SourceRecord] for ResolveRecord, [models.RecordResult] for RecordOutcome)
}

// Operation phase enumeration
type Phase int

const (
	LoadState Phase = iota
	SelectCollection
	ResolveRecord
	RecordOutcome
	Summarize
)

func (p Phase) String() string {
	switch p {
	case LoadState:
		return "load_state"
	case SelectCollection:
		return "select_collection"
	case ResolveRecord:
		return "resolve_record"
	case RecordOutcome:
		return "record_outcome"
	case Summarize:
		return "summarize"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func loadStateUpdate(resolved int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LoadState,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Loaded sync state (%d resolved)", resolved),
	}
}

func collectionUpdate(name, id, how string) ProgressUpdate {
	msg := fmt.Sprintf("Using playlist %q (%s, %s)", name, id, how)
	if id == "" {
		msg = fmt.Sprintf("Dry run: playlist %q not touched", name)
	}
	return ProgressUpdate{
		Phase:   SelectCollection,
		Step:    1,
		Total:   1,
		Message: msg,
	}
}

func resolveRecordUpdate(step, total int, r models.SourceRecord) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveRecord,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s", step, total, r.Label()),
		Data:    r,
	}
}

func recordOutcomeUpdate(total int, result models.RecordResult) ProgressUpdate {
	msg := "  ↳ " + result.Outcome.String()
	switch result.Outcome {
	case models.OutcomeSkipped:
		msg += " (already added)"
	case models.OutcomeError:
		msg += fmt.Sprintf(": %v", result.Err)
	}
	return ProgressUpdate{
		Phase:   RecordOutcome,
		Step:    result.Index,
		Total:   total,
		Message: msg,
		Data:    result,
	}
}

func summarizeUpdate(s *models.RunSummary) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Summarize,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Added %d, skipped %d, no match %d, errors %d", s.Added, s.Skipped, s.NoMatch, s.Errors),
		Data:    s,
	}
}

// package shared holds the logging, identifiers, configuration, database and errors used across ytimport
package shared

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// NewLogger creates a [log.Logger] writing to w with timestamps, caller reporting and the
// "ytimport" prefix.
//
// The writer defaults to [os.Stderr]
func NewLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		ReportCaller:    true,
		Prefix:          "ytimport",
	})
}

// WithLogger creates a child [log.Logger] with the specified key-value pairs added to all log entries.
func WithLogger(l *log.Logger, kv ...any) *log.Logger {
	return l.With(kv...)
}

// RunLogger returns a child of l tagging every entry with the short form of runID.
func RunLogger(l *log.Logger, runID string) *log.Logger {
	if len(runID) > 8 {
		runID = runID[:8]
	}
	return WithLogger(l, "run", runID)
}

// SetLogLevel sets the [log.Level] for the given [log.Logger].
func SetLogLevel(l *log.Logger, ll log.Level) {
	l.SetLevel(ll)
}

// GenerateID generates a new v4 [uuid.UUID] as a string. Import runs are keyed by it.
func GenerateID() string {
	return uuid.New().String()
}

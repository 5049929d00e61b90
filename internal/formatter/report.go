package formatter

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/ytimport/internal/models"
)

// Report writes line-oriented import progress and the final summary.
//
// Outcome markers are colored when w is a terminal.
type Report struct {
	w      io.Writer
	styles map[models.Outcome]lipgloss.Style
	header lipgloss.Style
}

// NewReport creates a report writing to w.
func NewReport(w io.Writer) *Report {
	re := lipgloss.NewRenderer(w)
	return &Report{
		w: w,
		styles: map[models.Outcome]lipgloss.Style{
			models.OutcomeSkipped:  re.NewStyle().Faint(true),
			models.OutcomeNoMatch:  re.NewStyle().Foreground(lipgloss.Color("3")),
			models.OutcomeWouldAdd: re.NewStyle().Foreground(lipgloss.Color("6")),
			models.OutcomeAdded:    re.NewStyle().Foreground(lipgloss.Color("2")),
			models.OutcomeError:    re.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		},
		header: re.NewStyle().Bold(true),
	}
}

// Line writes a plain progress line.
func (r *Report) Line(msg string) {
	fmt.Fprintln(r.w, msg)
}

// Record writes the "[i/n] title - artist" line for a record about to be processed.
func (r *Report) Record(index, total int, rec models.SourceRecord) {
	fmt.Fprintf(r.w, "[%d/%d] %s\n", index, total, rec.Label())
}

// Outcome writes the classification line for a processed record.
func (r *Report) Outcome(result models.RecordResult) {
	label := r.styles[result.Outcome].Render(result.Outcome.String())
	switch result.Outcome {
	case models.OutcomeSkipped:
		fmt.Fprintf(r.w, "  ↳ %s (already added)\n", label)
	case models.OutcomeAdded, models.OutcomeWouldAdd:
		fmt.Fprintf(r.w, "  ↳ %s %s (%.2f, %s)\n", label, result.Match.ExternalID, result.Match.Score, result.Match.Filter)
	case models.OutcomeError:
		fmt.Fprintf(r.w, "  ↳ %s: %v\n", label, result.Err)
	default:
		fmt.Fprintf(r.w, "  ↳ %s\n", label)
	}
}

// Summary writes the final tally followed by the unmatched and failed records.
func (r *Report) Summary(s *models.RunSummary) {
	fmt.Fprintf(r.w, "\n%s\n", r.header.Render("=== Summary ==="))
	fmt.Fprintf(r.w, "Added now: %d\n", s.Added)
	fmt.Fprintf(r.w, "Skipped (state): %d\n", s.Skipped)
	fmt.Fprintf(r.w, "No match: %d\n", s.NoMatch)
	if s.DryRun {
		fmt.Fprintf(r.w, "Would add: %d\n", s.WouldAdd)
	}
	if s.Errors > 0 {
		fmt.Fprintf(r.w, "Errors: %d\n", s.Errors)
	}

	if len(s.Unmatched) > 0 {
		fmt.Fprintf(r.w, "\n%s\n", r.header.Render("=== Songs NOT added (no match) ==="))
		for _, label := range s.Unmatched {
			fmt.Fprintf(r.w, "- %s\n", label)
		}
		fmt.Fprintf(r.w, "\nTotal not added: %d\n", len(s.Unmatched))
	}

	if len(s.Failed) > 0 {
		fmt.Fprintf(r.w, "\n%s\n", r.header.Render("=== Songs NOT added (error) ==="))
		for _, f := range s.Failed {
			fmt.Fprintf(r.w, "- %s: %v\n", f.Record.Label(), f.Err)
		}
	}
}

// ExportToMarkdown renders a run summary as Markdown.
func ExportToMarkdown(s *models.RunSummary) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# Import of %s\n\n", s.Source)
	if s.CollectionID != "" {
		fmt.Fprintf(&buf, "**Playlist**: %s\n", s.CollectionID)
	}
	if !s.StartedAt.IsZero() {
		fmt.Fprintf(&buf, "**Started**: %s\n", s.StartedAt.Format(time.RFC3339))
	}
	if s.DryRun {
		buf.WriteString("**Mode**: dry run\n")
	}
	buf.WriteString("\n")

	buf.WriteString("| Outcome | Count |\n|---|---|\n")
	fmt.Fprintf(&buf, "| added | %d |\n", s.Added)
	fmt.Fprintf(&buf, "| skipped | %d |\n", s.Skipped)
	fmt.Fprintf(&buf, "| no match | %d |\n", s.NoMatch)
	if s.DryRun {
		fmt.Fprintf(&buf, "| would add | %d |\n", s.WouldAdd)
	}
	fmt.Fprintf(&buf, "| error | %d |\n", s.Errors)

	if len(s.Unmatched) > 0 {
		buf.WriteString("\n## No match\n\n")
		for i, label := range s.Unmatched {
			fmt.Fprintf(&buf, "%d. %s\n", i+1, label)
		}
	}

	if len(s.Failed) > 0 {
		buf.WriteString("\n## Errors\n\n")
		for i, f := range s.Failed {
			fmt.Fprintf(&buf, "%d. %s: %v\n", i+1, f.Record.Label(), f.Err)
		}
	}

	return buf.Bytes()
}

// WriteMarkdownReport writes [ExportToMarkdown] output to path.
func WriteMarkdownReport(s *models.RunSummary, path string) error {
	if err := os.WriteFile(path, ExportToMarkdown(s), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

package formatter

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytimport/internal/models"
	"github.com/desertthunder/ytimport/internal/shared"
	th "github.com/desertthunder/ytimport/internal/testing"
)

func TestExporters(t *testing.T) {
	records := []models.SourceRecord{
		{Title: "Strobe", Artist: "deadmau5", Album: "For Lack of a Better Name", ISRC: "USUS10900001", SourceID: "t1"},
		{Title: "Hello, World", Artist: `Say "Hi"`, SourceID: "t2"},
	}

	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(records)
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)
		if !strings.HasPrefix(output, "Song,Artist,Album,ISRC,Spotify Track Id\n") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "Strobe,deadmau5,For Lack of a Better Name,USUS10900001,t1") {
			t.Errorf("CSV missing first row, got: %s", output)
		}
		if !strings.Contains(output, `"Hello, World","Say ""Hi""",,,t2`) {
			t.Errorf("CSV did not quote second row, got: %s", output)
		}
	})

	t.Run("ExportToCSV round trips through ReadCSV", func(t *testing.T) {
		data, err := ExportToCSV(records)
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		got, err := ReadCSV(bytes.NewReader(data), log.New(io.Discard))
		if err != nil {
			t.Fatalf("ReadCSV failed: %v", err)
		}
		if len(got) != len(records) {
			t.Fatalf("expected %d records, got %d", len(records), len(got))
		}
		for i := range records {
			if got[i] != records[i] {
				t.Errorf("record %d: expected %+v, got %+v", i, records[i], got[i])
			}
		}
	})

	t.Run("WriteCSVExport", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "spotify_likes.csv")
		if err := WriteCSVExport(records, path); err != nil {
			t.Fatalf("WriteCSVExport failed: %v", err)
		}

		th.AssertFileExists(t, path)
		if content := th.MustReadFile(t, path); !strings.Contains(content, "Strobe") {
			t.Errorf("expected written CSV to contain records, got %s", content)
		}
	})

	t.Run("WriteCSVExport without path", func(t *testing.T) {
		if err := WriteCSVExport(records, ""); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})
}

func TestReadCSV(t *testing.T) {
	logger := log.New(io.Discard)

	tests := []struct {
		name    string
		input   string
		want    []models.SourceRecord
		wantErr error
	}{
		{
			name:  "spotify export columns",
			input: "Song,Artist,Album,ISRC,Spotify Track Id\nStrobe,deadmau5,Album,USUS1,t1\n",
			want:  []models.SourceRecord{{Title: "Strobe", Artist: "deadmau5", Album: "Album", ISRC: "USUS1", SourceID: "t1"}},
		},
		{
			name:  "byte order mark and mixed case headers",
			input: "\ufeffsong,ARTIST\nIntro,The xx\n",
			want:  []models.SourceRecord{{Title: "Intro", Artist: "The xx"}},
		},
		{
			name:  "title column and reordered fields",
			input: "Spotify Track Id,Title,Artist\nt9,Midnight City,M83\n",
			want:  []models.SourceRecord{{Title: "Midnight City", Artist: "M83", SourceID: "t9"}},
		},
		{
			name:  "rows without title are skipped",
			input: "Song,Artist\n,Nobody\n  ,Somebody\nReal,Artist\n",
			want:  []models.SourceRecord{{Title: "Real", Artist: "Artist"}},
		},
		{
			name:  "short rows and trimmed values",
			input: "Song,Artist,Album\n  Strobe  ,deadmau5\n",
			want:  []models.SourceRecord{{Title: "Strobe", Artist: "deadmau5"}},
		},
		{
			name:    "missing title column",
			input:   "Artist,Album\nM83,Hurry Up\n",
			wantErr: shared.ErrInvalidInput,
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: shared.ErrInvalidInput,
		},
		{
			name:    "malformed quoting",
			input:   "Song\n\"unterminated\n",
			wantErr: shared.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadCSV(strings.NewReader(tt.input), logger)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d records, got %d: %+v", len(tt.want), len(got), got)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("record %d: expected %+v, got %+v", i, tt.want[i], got[i])
				}
			}
		})
	}

	t.Run("ReadCSVFile missing file", func(t *testing.T) {
		_, err := ReadCSVFile(filepath.Join(t.TempDir(), "nope.csv"), logger)
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func testSummary() *models.RunSummary {
	s := &models.RunSummary{
		Source:       "likes.csv",
		CollectionID: "PL1",
		StartedAt:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	s.Record(models.RecordResult{Index: 1, Outcome: models.OutcomeSkipped, Record: models.SourceRecord{Title: "A", Artist: "X"}})
	s.Record(models.RecordResult{
		Index:   2,
		Outcome: models.OutcomeAdded,
		Record:  models.SourceRecord{Title: "B", Artist: "Y"},
		Match:   models.MatchResult{ExternalID: "vB", Score: 0.95, Filter: models.FilterSongs},
	})
	s.Record(models.RecordResult{Index: 3, Outcome: models.OutcomeNoMatch, Record: models.SourceRecord{Title: "C", Artist: "Z"}})
	s.Record(models.RecordResult{Index: 4, Outcome: models.OutcomeError, Record: models.SourceRecord{Title: "D", Artist: "W"}, Err: errors.New("proxy down")})
	return s
}

func TestReport(t *testing.T) {
	t.Run("Outcome lines", func(t *testing.T) {
		var buf bytes.Buffer
		report := NewReport(&buf)
		for _, r := range testSummary().Records {
			report.Record(r.Index, 4, r.Record)
			report.Outcome(r)
		}

		want := strings.Join([]string{
			"[1/4] A - X",
			"  ↳ skipped (already added)",
			"[2/4] B - Y",
			"  ↳ added vB (0.95, songs)",
			"[3/4] C - Z",
			"  ↳ no match",
			"[4/4] D - W",
			"  ↳ error: proxy down",
			"",
		}, "\n")
		if buf.String() != want {
			t.Errorf("unexpected output:\n%s\nwant:\n%s", buf.String(), want)
		}
	})

	t.Run("Summary", func(t *testing.T) {
		var buf bytes.Buffer
		NewReport(&buf).Summary(testSummary())
		output := buf.String()

		for _, want := range []string{
			"=== Summary ===",
			"Added now: 1",
			"Skipped (state): 1",
			"No match: 1",
			"Errors: 1",
			"=== Songs NOT added (no match) ===\n- C - Z",
			"Total not added: 1",
			"- D - W: proxy down",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("summary missing %q:\n%s", want, output)
			}
		}
		if strings.Contains(output, "Would add") {
			t.Errorf("summary should only show would-add for dry runs:\n%s", output)
		}
	})

	t.Run("Summary write failure does not panic", func(t *testing.T) {
		NewReport(&th.FWriter{}).Summary(testSummary())
	})
}

func TestExportToMarkdown(t *testing.T) {
	output := string(ExportToMarkdown(testSummary()))

	for _, want := range []string{
		"# Import of likes.csv",
		"**Playlist**: PL1",
		"**Started**: 2026-01-02T03:04:05Z",
		"| added | 1 |",
		"| no match | 1 |",
		"| error | 1 |",
		"## No match\n\n1. C - Z",
		"## Errors\n\n1. D - W: proxy down",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("markdown missing %q:\n%s", want, output)
		}
	}

	t.Run("WriteMarkdownReport", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "report.md")
		if err := WriteMarkdownReport(testSummary(), path); err != nil {
			t.Fatalf("WriteMarkdownReport failed: %v", err)
		}
		th.AssertFileExists(t, path)
	})
}

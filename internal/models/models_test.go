package models

import (
	"encoding/json"
	"errors"
	"slices"
	"testing"
)

func TestSourceRecord(t *testing.T) {
	t.Run("StableKey", func(t *testing.T) {
		tests := []struct {
			name     string
			record   SourceRecord
			wantKey  string
			wantWeak bool
		}{
			{"source id wins", SourceRecord{Title: "T", Artist: "A", ISRC: "ISRC1", SourceID: "id1"}, "id1", false},
			{"isrc fallback", SourceRecord{Title: "T", Artist: "A", ISRC: " ISRC1 "}, "ISRC1", false},
			{"title and artist fallback", SourceRecord{Title: "T", Artist: "A"}, "T|A", true},
			{"blank id is ignored", SourceRecord{Title: "T", Artist: "A", SourceID: "  "}, "T|A", true},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				key, weak := tt.record.StableKey()
				if key != tt.wantKey || weak != tt.wantWeak {
					t.Errorf("expected (%q, %v), got (%q, %v)", tt.wantKey, tt.wantWeak, key, weak)
				}
			})
		}
	})

	t.Run("Label", func(t *testing.T) {
		if got := (SourceRecord{Title: "Strobe", Artist: "deadmau5"}).Label(); got != "Strobe - deadmau5" {
			t.Errorf("unexpected label %q", got)
		}
	})
}

func TestSyncState(t *testing.T) {
	t.Run("NewSyncState", func(t *testing.T) {
		s := NewSyncState()
		if s.SchemaVersion != SchemaVersion || s.Resolved == nil {
			t.Errorf("unexpected state %+v", s)
		}
	})

	t.Run("Backfill legacy document", func(t *testing.T) {
		var s SyncState
		if err := json.Unmarshal([]byte(`{"playlist_id":"PL1"}`), &s); err != nil {
			t.Fatal(err)
		}
		s.Backfill()

		if s.SchemaVersion != SchemaVersion {
			t.Errorf("expected version backfilled, got %d", s.SchemaVersion)
		}
		if s.Resolved == nil {
			t.Error("expected resolved map backfilled")
		}
		if s.CollectionID != "PL1" {
			t.Errorf("expected playlist id kept, got %q", s.CollectionID)
		}
	})

	t.Run("JSON field names", func(t *testing.T) {
		s := NewSyncState()
		s.Resolved["k"] = ResolvedEntry{ExternalID: "v"}

		data, err := json.Marshal(s)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != `{"version":1,"added":{"k":{"videoId":"v"}}}` {
			t.Errorf("unexpected document %s", data)
		}
	})

	t.Run("IsResolved", func(t *testing.T) {
		s := NewSyncState()
		s.Resolved["k"] = ResolvedEntry{ExternalID: "v"}
		if !s.IsResolved("k") || s.IsResolved("other") {
			t.Error("unexpected IsResolved result")
		}
	})
}

func TestOutcomeString(t *testing.T) {
	tests := map[Outcome]string{
		OutcomeSkipped:  "skipped",
		OutcomeNoMatch:  "no match",
		OutcomeWouldAdd: "would add",
		OutcomeAdded:    "added",
		OutcomeError:    "error",
		Outcome(99):     "",
	}
	for o, want := range tests {
		if got := o.String(); got != want {
			t.Errorf("Outcome(%d): expected %q, got %q", int(o), want, got)
		}
	}
}

func TestRunSummaryRecord(t *testing.T) {
	var s RunSummary
	errFailed := errors.New("failed")

	s.Record(RecordResult{Outcome: OutcomeAdded})
	s.Record(RecordResult{Outcome: OutcomeSkipped})
	s.Record(RecordResult{Outcome: OutcomeNoMatch, Record: SourceRecord{Title: "C", Artist: "Z"}})
	s.Record(RecordResult{Outcome: OutcomeNoMatch, Record: SourceRecord{Title: "D", Artist: "W"}})
	s.Record(RecordResult{Outcome: OutcomeWouldAdd})
	s.Record(RecordResult{Outcome: OutcomeError, Err: errFailed})

	if s.Added != 1 || s.Skipped != 1 || s.NoMatch != 2 || s.WouldAdd != 1 || s.Errors != 1 {
		t.Errorf("unexpected tally %+v", s)
	}
	if !slices.Equal(s.Unmatched, []string{"C - Z", "D - W"}) {
		t.Errorf("unexpected unmatched %v", s.Unmatched)
	}
	if len(s.Failed) != 1 || s.Failed[0].Err != errFailed {
		t.Errorf("unexpected failed %+v", s.Failed)
	}
	if len(s.Records) != 6 {
		t.Errorf("expected 6 records, got %d", len(s.Records))
	}
}

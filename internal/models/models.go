// package models defines the data model for the catalog import service
package models

import (
	"fmt"
	"strings"
	"time"
)

// SchemaVersion is the current [SyncState] schema version.
const SchemaVersion = 1

// SourceRecord is a track read from the source catalog export.
type SourceRecord struct {
	Title    string // Song title (required)
	Artist   string // Artist field, possibly several artists joined by "," "&" or "and"
	Album    string
	ISRC     string // International Standard Recording Code
	SourceID string // Source service track id (e.g. Spotify track id)
}

// StableKey returns the idempotency key for the record.
//
// Prefers the source service id, then the ISRC, and finally "title|artist".
// weak reports that the last fallback was used; two distinct tracks can collide on it.
func (r SourceRecord) StableKey() (key string, weak bool) {
	if id := strings.TrimSpace(r.SourceID); id != "" {
		return id, false
	}
	if isrc := strings.TrimSpace(r.ISRC); isrc != "" {
		return isrc, false
	}
	return fmt.Sprintf("%s|%s", r.Title, r.Artist), true
}

// Label returns "title - artist" for progress lines and reports.
func (r SourceRecord) Label() string {
	return fmt.Sprintf("%s - %s", r.Title, r.Artist)
}

// SearchFilter restricts a search to a content type.
type SearchFilter string

const (
	FilterSongs  SearchFilter = "songs"
	FilterVideos SearchFilter = "videos"
)

// Candidate is a single search result from the target catalog.
//
// Providers map their result shapes into this structure before scoring.
type Candidate struct {
	ExternalID string `json:"external_id"`
	Title      string `json:"title"`
	ArtistName string `json:"artist_name"`
	AlbumName  string `json:"album_name,omitempty"`
}

// MatchResult is the best candidate chosen for a record.
type MatchResult struct {
	ExternalID string
	Score      float64
	Filter     SearchFilter // Phase the match came from
	Query      string       // Query that produced the match
}

// Found reports whether the result carries an identifier.
func (m MatchResult) Found() bool {
	return m.ExternalID != ""
}

// ResolvedEntry is the persisted value for a resolved stable key.
type ResolvedEntry struct {
	ExternalID string `json:"videoId"`
}

// SyncState is the durable record of prior runs.
//
// Resolved is append-only during normal operation: a key present there is never re-resolved.
type SyncState struct {
	SchemaVersion  int                      `json:"version"`
	CollectionID   string                   `json:"playlist_id,omitempty"`
	CollectionName string                   `json:"playlist_name,omitempty"`
	Resolved       map[string]ResolvedEntry `json:"added"`
}

// NewSyncState returns an empty state at the current schema version.
func NewSyncState() *SyncState {
	return &SyncState{
		SchemaVersion: SchemaVersion,
		Resolved:      make(map[string]ResolvedEntry),
	}
}

// Backfill fills zero-valued fields with defaults so older documents stay readable.
func (s *SyncState) Backfill() {
	if s.SchemaVersion == 0 {
		s.SchemaVersion = SchemaVersion
	}
	if s.Resolved == nil {
		s.Resolved = make(map[string]ResolvedEntry)
	}
}

// IsResolved reports whether key was resolved by a previous run.
func (s *SyncState) IsResolved(key string) bool {
	_, ok := s.Resolved[key]
	return ok
}

// Collection is a playlist in the user's target library.
type Collection struct {
	ID        string
	Name      string
	ItemCount int
}

// Outcome classifies what happened to a single record.
type Outcome int

const (
	OutcomeSkipped Outcome = iota
	OutcomeNoMatch
	OutcomeWouldAdd
	OutcomeAdded
	OutcomeError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeNoMatch:
		return "no match"
	case OutcomeWouldAdd:
		return "would add"
	case OutcomeAdded:
		return "added"
	case OutcomeError:
		return "error"
	default:
		return ""
	}
}

// RecordResult is the outcome for one source record.
type RecordResult struct {
	Index   int // 1-based position in the input
	Record  SourceRecord
	Key     string
	WeakKey bool
	Outcome Outcome
	Match   MatchResult
	Err     error
}

// RunSummary aggregates the outcomes of an import run.
type RunSummary struct {
	ID           string
	Source       string
	CollectionID string
	DryRun       bool
	StartedAt    time.Time
	FinishedAt   time.Time
	Added        int
	Skipped      int
	NoMatch      int
	WouldAdd     int
	Errors       int
	Unmatched    []string       // "title - artist" of every no-match record, in input order
	Failed       []RecordResult // records that ended in OutcomeError
	Records      []RecordResult
}

// Record tallies r into the summary.
func (s *RunSummary) Record(r RecordResult) {
	s.Records = append(s.Records, r)
	switch r.Outcome {
	case OutcomeSkipped:
		s.Skipped++
	case OutcomeNoMatch:
		s.NoMatch++
		s.Unmatched = append(s.Unmatched, r.Record.Label())
	case OutcomeWouldAdd:
		s.WouldAdd++
	case OutcomeAdded:
		s.Added++
	case OutcomeError:
		s.Errors++
		s.Failed = append(s.Failed, r)
	}
}

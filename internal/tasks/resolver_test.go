package tasks

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytimport/internal/models"
	"github.com/desertthunder/ytimport/internal/shared"
	tu "github.com/desertthunder/ytimport/internal/testing"
)

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}

// fixedScores scores candidates by external id, ignoring the record.
func fixedScores(scores map[string]float64) ScoreFunc {
	return func(_ models.SourceRecord, c models.Candidate) float64 {
		return scores[c.ExternalID]
	}
}

func newTestResolver(cat *tu.MockCatalog, scores map[string]float64) (*Resolver, *tu.Sleeper) {
	sleeper := &tu.Sleeper{}
	r := NewResolver(cat, DefaultOptions(), sleeper.Sleep, discardLogger())
	if scores != nil {
		r.score = fixedScores(scores)
	}
	return r, sleeper
}

func candidates(ids ...string) []models.Candidate {
	out := make([]models.Candidate, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.Candidate{ExternalID: id, Title: id})
	}
	return out
}

func TestResolver(t *testing.T) {
	// Queries: "Night Drive Kavinsky", "Night Drive - Kavinsky", "Night Drive Kavinsky OutRun", "Night Drive"
	record := models.SourceRecord{Title: "Night Drive", Artist: "Kavinsky", Album: "OutRun"}
	ctx := context.Background()

	t.Run("confident match exits after one search", func(t *testing.T) {
		cat := &tu.MockCatalog{Results: map[string][]models.Candidate{
			tu.ResultKey(models.FilterSongs, "Night Drive Kavinsky"): candidates("v1", "v2"),
		}}
		r, _ := newTestResolver(cat, map[string]float64{"v1": 0.5, "v2": 0.95})

		got, err := r.Resolve(ctx, record)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got.ExternalID != "v2" || got.Score != 0.95 || got.Filter != models.FilterSongs {
			t.Errorf("unexpected match %+v", got)
		}
		if len(cat.Searches) != 1 {
			t.Errorf("expected 1 search, got %d", len(cat.Searches))
		}
		if cat.Searches[0].Limit != 8 {
			t.Errorf("expected limit 8, got %d", cat.Searches[0].Limit)
		}
	})

	t.Run("earlier stronger hit survives later weaker queries", func(t *testing.T) {
		cat := &tu.MockCatalog{Results: map[string][]models.Candidate{
			tu.ResultKey(models.FilterSongs, "Night Drive Kavinsky"):   candidates("strong"),
			tu.ResultKey(models.FilterSongs, "Night Drive - Kavinsky"): candidates("weak"),
			tu.ResultKey(models.FilterSongs, "Night Drive"):            candidates("weaker"),
		}}
		r, _ := newTestResolver(cat, map[string]float64{"strong": 0.8, "weak": 0.7, "weaker": 0.65})

		got, err := r.Resolve(ctx, record)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got.ExternalID != "strong" || got.Query != "Night Drive Kavinsky" {
			t.Errorf("expected strong match from first query, got %+v", got)
		}
		if n := cat.SearchCount(models.FilterSongs); n != 4 {
			t.Errorf("expected all 4 song queries, got %d", n)
		}
		if n := cat.SearchCount(models.FilterVideos); n != 0 {
			t.Errorf("expected no video searches, got %d", n)
		}
	})

	t.Run("ties keep the first candidate", func(t *testing.T) {
		cat := &tu.MockCatalog{Results: map[string][]models.Candidate{
			tu.ResultKey(models.FilterSongs, "Night Drive Kavinsky"): candidates("first", "second"),
			tu.ResultKey(models.FilterSongs, "Night Drive"):          candidates("third"),
		}}
		r, _ := newTestResolver(cat, map[string]float64{"first": 0.7, "second": 0.7, "third": 0.7})

		got, _ := r.Resolve(ctx, record)
		if got.ExternalID != "first" {
			t.Errorf("expected first-seen candidate, got %s", got.ExternalID)
		}
	})

	t.Run("candidates without ids are ignored", func(t *testing.T) {
		cat := &tu.MockCatalog{Results: map[string][]models.Candidate{
			tu.ResultKey(models.FilterSongs, "Night Drive Kavinsky"): {{Title: "no id"}, {ExternalID: "v1"}},
		}}
		r, _ := newTestResolver(cat, map[string]float64{"": 1.0, "v1": 0.7})

		got, _ := r.Resolve(ctx, record)
		if got.ExternalID != "v1" {
			t.Errorf("expected v1, got %+v", got)
		}
	})

	t.Run("falls back to videos", func(t *testing.T) {
		cat := &tu.MockCatalog{Results: map[string][]models.Candidate{
			tu.ResultKey(models.FilterSongs, "Night Drive Kavinsky"):  candidates("song"),
			tu.ResultKey(models.FilterVideos, "Night Drive Kavinsky"): candidates("video"),
		}}
		r, _ := newTestResolver(cat, map[string]float64{"song": 0.6, "video": 0.7})

		got, err := r.Resolve(ctx, record)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got.ExternalID != "video" || got.Filter != models.FilterVideos {
			t.Errorf("expected video match, got %+v", got)
		}
		if n := cat.SearchCount(models.FilterVideos); n != 4 {
			t.Errorf("expected 4 video searches, got %d", n)
		}
	})

	t.Run("video phase exits early on confident match", func(t *testing.T) {
		cat := &tu.MockCatalog{Results: map[string][]models.Candidate{
			tu.ResultKey(models.FilterVideos, "Night Drive Kavinsky"): candidates("video"),
		}}
		r, _ := newTestResolver(cat, map[string]float64{"video": 0.92})

		got, _ := r.Resolve(ctx, record)
		if got.ExternalID != "video" {
			t.Errorf("expected video match, got %+v", got)
		}
		if n := cat.SearchCount(models.FilterVideos); n != 1 {
			t.Errorf("expected 1 video search, got %d", n)
		}
	})

	t.Run("no plausible candidate in either phase", func(t *testing.T) {
		cat := &tu.MockCatalog{Results: map[string][]models.Candidate{
			tu.ResultKey(models.FilterSongs, "Night Drive Kavinsky"):  candidates("s"),
			tu.ResultKey(models.FilterVideos, "Night Drive Kavinsky"): candidates("v"),
		}}
		r, _ := newTestResolver(cat, map[string]float64{"s": 0.61, "v": 0.3})

		got, err := r.Resolve(ctx, record)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got.Found() {
			t.Errorf("expected no match, got %+v", got)
		}
		if len(cat.Searches) != 8 {
			t.Errorf("expected 8 searches, got %d", len(cat.Searches))
		}
	})

	t.Run("real scorer accepts exact match", func(t *testing.T) {
		cat := &tu.MockCatalog{Results: map[string][]models.Candidate{
			tu.ResultKey(models.FilterSongs, "Night Drive Kavinsky"): {
				{ExternalID: "cover", Title: "Night Drive (Piano Cover)", ArtistName: "Some Pianist"},
				{ExternalID: "orig", Title: "Nightcall", ArtistName: "Kavinsky"},
				{ExternalID: "exact", Title: "Night Drive (Extended Mix)", ArtistName: "Kavinsky", AlbumName: "OutRun"},
			},
		}}
		r, _ := newTestResolver(cat, nil)

		got, err := r.Resolve(ctx, record)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got.ExternalID != "exact" || got.Score != 1.0 {
			t.Errorf("expected exact match at 1.0, got %+v", got)
		}
	})

	t.Run("record without title yields no queries", func(t *testing.T) {
		cat := &tu.MockCatalog{}
		r, _ := newTestResolver(cat, nil)

		got, err := r.Resolve(ctx, models.SourceRecord{})
		if err != nil || got.Found() {
			t.Errorf("expected empty result, got %+v, %v", got, err)
		}
		if len(cat.Searches) != 0 {
			t.Errorf("expected no searches, got %d", len(cat.Searches))
		}
	})

	t.Run("transient search errors are retried", func(t *testing.T) {
		cat := &tu.MockCatalog{
			SearchErr:      errors.New("503"),
			SearchFailures: 2,
			Results: map[string][]models.Candidate{
				tu.ResultKey(models.FilterSongs, "Night Drive Kavinsky"): candidates("v1"),
			},
		}
		r, sleeper := newTestResolver(cat, map[string]float64{"v1": 0.95})

		got, err := r.Resolve(ctx, record)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got.ExternalID != "v1" {
			t.Errorf("expected v1, got %+v", got)
		}
		if len(sleeper.Calls) != 2 {
			t.Errorf("expected 2 retry sleeps, got %d", len(sleeper.Calls))
		}
	})

	t.Run("exhausted retries abort resolution", func(t *testing.T) {
		errDown := errors.New("proxy down")
		cat := &tu.MockCatalog{SearchErr: errDown, SearchFailures: -1}
		r, _ := newTestResolver(cat, nil)

		_, err := r.Resolve(ctx, record)
		if !errors.Is(err, shared.ErrRetriesExhausted) || !errors.Is(err, errDown) {
			t.Errorf("expected exhausted retries wrapping the last error, got %v", err)
		}
		if len(cat.Searches) != 3 {
			t.Errorf("expected 3 attempts of the first query only, got %d", len(cat.Searches))
		}
	})
}

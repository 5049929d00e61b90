package tasks

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytimport/internal/matching"
	"github.com/desertthunder/ytimport/internal/models"
	"github.com/desertthunder/ytimport/internal/services"
)

// ScoreFunc rates how well a candidate matches a record, in [0, 1].
type ScoreFunc func(models.SourceRecord, models.Candidate) float64

// Resolver finds the best catalog item for a source record.
type Resolver struct {
	searcher services.Searcher
	score    ScoreFunc
	opts     Options
	retry    RetryPolicy
	logger   *log.Logger
}

// NewResolver creates a resolver searching with s.
func NewResolver(s services.Searcher, opts Options, sleep SleepFunc, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.Default()
	}
	return &Resolver{
		searcher: s,
		score:    matching.ScoreRecord,
		opts:     opts,
		retry:    RetryPolicy{Attempts: opts.RetryCount, Delay: opts.RetryDelay, Sleep: sleep, Logger: logger},
		logger:   logger,
	}
}

// Resolve runs the song phase and, if it found nothing acceptable, the video phase.
//
// A zero [models.MatchResult] means no match. Errors are only returned when a search exhausts
// its retries or ctx is done.
func (r *Resolver) Resolve(ctx context.Context, record models.SourceRecord) (models.MatchResult, error) {
	queries := matching.BuildQueries(record)
	if len(queries) == 0 {
		return models.MatchResult{}, nil
	}

	for _, filter := range []models.SearchFilter{models.FilterSongs, models.FilterVideos} {
		best, err := r.phase(ctx, record, queries, filter)
		if err != nil {
			return models.MatchResult{}, err
		}
		if best.Found() && best.Score >= r.opts.MinAcceptScore {
			return best, nil
		}
		r.logger.Debug("phase inconclusive", "filter", filter, "record", record.Label(), "best", best.Score)
	}

	return models.MatchResult{}, nil
}

// phase folds every candidate of every query into a running best. Only a strictly greater score
// replaces the best, so the first candidate seen wins ties.
func (r *Resolver) phase(ctx context.Context, record models.SourceRecord, queries []string, filter models.SearchFilter) (models.MatchResult, error) {
	best := models.MatchResult{Score: -1}

	for _, q := range queries {
		candidates, err := Retry(ctx, r.retry, "search", func(ctx context.Context) ([]models.Candidate, error) {
			return r.searcher.Search(ctx, q, filter, r.opts.SearchResultLimit)
		})
		if err != nil {
			return models.MatchResult{}, err
		}

		for _, c := range candidates {
			if c.ExternalID == "" {
				continue
			}
			if s := r.score(record, c); s > best.Score {
				best = models.MatchResult{ExternalID: c.ExternalID, Score: s, Filter: filter, Query: q}
			}
		}

		if best.Found() && best.Score >= r.opts.ConfidentScore {
			return best, nil
		}
	}

	return best, nil
}

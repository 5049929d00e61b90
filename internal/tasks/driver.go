package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytimport/internal/models"
	"github.com/desertthunder/ytimport/internal/services"
	"github.com/desertthunder/ytimport/internal/shared"
)

// collectionListLimit bounds the library lookup used to reuse a collection by name.
const collectionListLimit = 200

// StateStore persists the [models.SyncState] between runs.
type StateStore interface {
	Load(ctx context.Context) (*models.SyncState, error)
	Save(ctx context.Context, state *models.SyncState) error
}

// RunRequest describes one import run.
type RunRequest struct {
	Source         string // Where the records came from, e.g. the CSV path
	CollectionName string // Desired target collection name
	Records        []models.SourceRecord
	DryRun         bool
}

// Driver reconciles source records into a target collection.
type Driver struct {
	library  services.Library
	resolver *Resolver
	store    StateStore
	opts     Options
	retry    RetryPolicy
	sleep    SleepFunc
	logger   *log.Logger
	now      func() time.Time
}

// NewDriver creates a driver. A nil sleep uses [Sleep].
func NewDriver(lib services.Library, resolver *Resolver, store StateStore, opts Options, sleep SleepFunc, logger *log.Logger) *Driver {
	if logger == nil {
		logger = log.Default()
	}
	if sleep == nil {
		sleep = Sleep
	}
	return &Driver{
		library:  lib,
		resolver: resolver,
		store:    store,
		opts:     opts,
		retry:    RetryPolicy{Attempts: opts.RetryCount, Delay: opts.RetryDelay, Sleep: sleep, Logger: logger},
		sleep:    sleep,
		logger:   logger,
		now:      time.Now,
	}
}

// EnsureCollection returns the id of the collection records are added to.
//
// A dry run returns an empty id without remote calls. Otherwise the saved id wins, then an
// existing collection with the same name (largest first), then a new collection. The chosen id is
// saved into state.
func (d *Driver) EnsureCollection(ctx context.Context, state *models.SyncState, name string, dryRun bool) (id string, how string, err error) {
	if dryRun {
		return "", "dry run", nil
	}
	if state.CollectionID != "" {
		return state.CollectionID, "saved", nil
	}
	if strings.TrimSpace(name) == "" {
		return "", "", fmt.Errorf("%w: playlist name is required", shared.ErrMissingArgument)
	}

	if d.opts.ReuseExistingCollectionByName {
		collections, err := Retry(ctx, d.retry, "list collections", func(ctx context.Context) ([]models.Collection, error) {
			return d.library.ListCollections(ctx, collectionListLimit)
		})
		if err != nil {
			return "", "", err
		}

		if c, ok := largestByName(collections, name); ok {
			if err := d.remember(ctx, state, c.ID, name); err != nil {
				return "", "", err
			}
			return c.ID, "reused", nil
		}
	}

	id, err = Retry(ctx, d.retry, "create collection", func(ctx context.Context) (string, error) {
		return d.library.CreateCollection(ctx, name, d.opts.CollectionDescription)
	})
	if err != nil {
		return "", "", err
	}
	if err := d.remember(ctx, state, id, name); err != nil {
		return "", "", err
	}
	return id, "created", nil
}

func (d *Driver) remember(ctx context.Context, state *models.SyncState, id, name string) error {
	state.CollectionID = id
	state.CollectionName = name
	if err := d.store.Save(ctx, state); err != nil {
		return fmt.Errorf("failed to save sync state: %w", err)
	}
	return nil
}

// largestByName picks the collection whose trimmed, case-folded name equals name with the most
// items. Ties keep the first seen.
func largestByName(collections []models.Collection, name string) (models.Collection, bool) {
	want := strings.ToLower(strings.TrimSpace(name))
	var best models.Collection
	found := false
	for _, c := range collections {
		if c.ID == "" || strings.ToLower(strings.TrimSpace(c.Name)) != want {
			continue
		}
		if !found || c.ItemCount > best.ItemCount {
			best, found = c, true
		}
	}
	return best, found
}

// Run loads the sync state, selects the collection and reconciles every record in order.
//
// The returned summary is never nil; when an error aborts the run it holds the records processed
// so far.
func (d *Driver) Run(ctx context.Context, req RunRequest, progress chan<- ProgressUpdate) (*models.RunSummary, error) {
	summary := &models.RunSummary{ID: shared.GenerateID(), Source: req.Source, DryRun: req.DryRun, StartedAt: d.now()}
	defer func() { summary.FinishedAt = d.now() }()

	d = d.forRun(summary.ID)
	d.logger.Debug("run started", "source", req.Source, "records", len(req.Records), "dry_run", req.DryRun)

	state, err := d.store.Load(ctx)
	if err != nil {
		return summary, fmt.Errorf("failed to load sync state: %w", err)
	}
	sendProgress(progress, loadStateUpdate(len(state.Resolved)))

	collectionID, how, err := d.EnsureCollection(ctx, state, req.CollectionName, req.DryRun)
	if err != nil {
		return summary, fmt.Errorf("failed to select playlist: %w", err)
	}
	summary.CollectionID = collectionID
	sendProgress(progress, collectionUpdate(req.CollectionName, collectionID, how))

	total := len(req.Records)
	for i, rec := range req.Records {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		sendProgress(progress, resolveRecordUpdate(i+1, total, rec))

		result, err := d.reconcile(ctx, state, collectionID, rec, req.DryRun)
		result.Index = i + 1
		summary.Record(result)
		sendProgress(progress, recordOutcomeUpdate(total, result))

		if err != nil {
			return summary, err
		}

		if result.Outcome == models.OutcomeAdded {
			if err := d.sleep(ctx, d.opts.PostAddDelay); err != nil {
				return summary, err
			}
		}
	}

	sendProgress(progress, summarizeUpdate(summary))
	return summary, nil
}

// forRun returns a copy of d whose log entries carry runID.
func (d *Driver) forRun(runID string) *Driver {
	run := *d
	run.logger = shared.RunLogger(d.logger, runID)
	run.retry.Logger = run.logger
	return &run
}

// reconcile classifies a single record. A non-nil error aborts the run; per-record failures that
// should not abort are reported through [models.OutcomeError] instead.
func (d *Driver) reconcile(ctx context.Context, state *models.SyncState, collectionID string, rec models.SourceRecord, dryRun bool) (models.RecordResult, error) {
	key, weak := rec.StableKey()
	result := models.RecordResult{Record: rec, Key: key, WeakKey: weak}
	if weak {
		d.logger.Warn("no track id or ISRC, using title|artist key", "key", key)
	}

	if state.IsResolved(key) {
		result.Outcome = models.OutcomeSkipped
		return result, nil
	}

	match, err := d.resolver.Resolve(ctx, rec)
	if err != nil {
		return d.failed(ctx, result, err)
	}
	result.Match = match

	if !match.Found() {
		result.Outcome = models.OutcomeNoMatch
		return result, nil
	}

	if dryRun {
		result.Outcome = models.OutcomeWouldAdd
		return result, nil
	}

	err = retryDo(ctx, d.retry, "add item", func(ctx context.Context) error {
		return d.library.AddItem(ctx, collectionID, match.ExternalID)
	})
	if err != nil {
		return d.failed(ctx, result, err)
	}

	if d.opts.LikeOnAdd {
		err := retryDo(ctx, d.retry, "like item", func(ctx context.Context) error {
			return d.library.SetFavorite(ctx, match.ExternalID)
		})
		if err != nil {
			d.logger.Warn("failed to like item", "id", match.ExternalID, "error", err)
		}
	}

	state.Resolved[key] = models.ResolvedEntry{ExternalID: match.ExternalID}
	if err := d.store.Save(ctx, state); err != nil {
		result.Outcome = models.OutcomeError
		result.Err = err
		return result, fmt.Errorf("failed to save sync state: %w", err)
	}

	result.Outcome = models.OutcomeAdded
	return result, nil
}

// failed classifies a remote failure as [models.OutcomeError]. Cancellation and fail-fast mode
// turn it into a run-level error.
func (d *Driver) failed(ctx context.Context, result models.RecordResult, err error) (models.RecordResult, error) {
	result.Outcome = models.OutcomeError
	result.Err = err

	if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return result, err
	}
	if d.opts.FailFast {
		return result, fmt.Errorf("%s: %w", result.Record.Label(), err)
	}

	d.logger.Error("record failed", "record", result.Record.Label(), "error", err)
	return result, nil
}

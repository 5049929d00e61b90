package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/desertthunder/ytimport/internal/formatter"
	"github.com/desertthunder/ytimport/internal/models"
	"github.com/desertthunder/ytimport/internal/repositories"
	"github.com/desertthunder/ytimport/internal/shared"
	"github.com/desertthunder/ytimport/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Import reads a CSV of tracks and reconciles it into a YouTube Music playlist.
//
// Progress is printed per track; the final tally and unmatched tracks follow. Non-dry runs are
// recorded in the run history when a database is configured.
func (r *Runner) Import(ctx context.Context, cmd *cli.Command) error {
	csvPath := cmd.StringArg("csv")
	if csvPath == "" {
		return fmt.Errorf("%w: CSV path is required", shared.ErrMissingArgument)
	}
	if err := r.requireCatalog(); err != nil {
		return err
	}

	records, err := formatter.ReadCSVFile(csvPath, r.logger)
	if err != nil {
		return err
	}

	name := cmd.String("playlist")
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(csvPath), filepath.Ext(csvPath))
	}

	opts := tasks.OptionsFromConfig(r.config)
	if cmd.Bool("fail-fast") {
		opts.FailFast = true
	}

	state, err := r.openState(cmd.String("state"), true)
	if err != nil {
		return err
	}
	defer state.Close()

	r.logger.Debug("starting import", "csv", csvPath, "records", len(records), "playlist", name, "state", state.path)

	resolver := tasks.NewResolver(r.catalog, opts, r.sleep, r.logger)
	driver := tasks.NewDriver(r.catalog, resolver, state.store, opts, r.sleep, r.logger)
	report := formatter.NewReport(r.output)

	progress := make(chan tasks.ProgressUpdate, 2*len(records)+8)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for u := range progress {
			switch u.Phase {
			case tasks.ResolveRecord:
				if rec, ok := u.Data.(models.SourceRecord); ok {
					report.Record(u.Step, u.Total, rec)
				}
			case tasks.RecordOutcome:
				if result, ok := u.Data.(models.RecordResult); ok {
					report.Outcome(result)
				}
			case tasks.Summarize:
			default:
				report.Line(u.Message)
			}
		}
	}()

	summary, runErr := driver.Run(ctx, tasks.RunRequest{
		Source:         csvPath,
		CollectionName: name,
		Records:        records,
		DryRun:         cmd.Bool("dry-run"),
	}, progress)
	close(progress)
	wg.Wait()

	report.Summary(summary)

	if path := cmd.String("report"); path != "" {
		if err := formatter.WriteMarkdownReport(summary, path); err != nil {
			r.logger.Warn("failed to write report", "path", path, "error", err)
		} else {
			r.logger.Info("report written", "path", path)
		}
	}

	if !summary.DryRun {
		r.recordRun(ctx, state, summary)
	}

	return runErr
}

// recordRun stores the run in the history table. Failures are logged, not returned.
func (r *Runner) recordRun(ctx context.Context, state *stateHandle, summary *models.RunSummary) {
	if r.config.Database.Path == "" {
		return
	}

	db := state.db
	if db == nil {
		opened, err := r.openDatabase()
		if err != nil {
			r.logger.Warn("run history unavailable", "error", err)
			return
		}
		defer opened.Close()
		db = opened
	}

	// Record on a fresh context so an interrupted run is still logged.
	if err := repositories.NewRunRepository(db).Create(context.WithoutCancel(ctx), summary); err != nil {
		r.logger.Warn("failed to record run", "error", err)
		return
	}
	r.logger.Debug("run recorded", "id", summary.ID)
}

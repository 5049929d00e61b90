package main

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/desertthunder/ytimport/internal/repositories"
	"github.com/urfave/cli/v3"
)

// StateShow prints the target playlist and every resolved track key.
func (r *Runner) StateShow(ctx context.Context, cmd *cli.Command) error {
	h, err := r.openState(cmd.String("state"), false)
	if err != nil {
		return err
	}
	defer h.Close()

	state, err := h.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load sync state: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(state, true)
	}

	playlist := state.CollectionID
	if playlist == "" {
		playlist = "(none)"
	} else if state.CollectionName != "" {
		playlist = fmt.Sprintf("%s (%s)", state.CollectionName, state.CollectionID)
	}
	r.writePlain("State: %s\n", h.path)
	r.writePlain("Playlist: %s\n", playlist)
	r.writePlain("Resolved: %d\n", len(state.Resolved))

	if len(state.Resolved) == 0 {
		return nil
	}

	keys := make([]string, 0, len(state.Resolved))
	for k := range state.Resolved {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{k, state.Resolved[k].ExternalID})
	}

	return r.writePlain("%s\n", renderTable([]string{"Key", "Video ID"}, rows, nil))
}

// History prints past import runs, newest first.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := repositories.NewRunRepository(db).List(ctx, int(cmd.Int("limit")))
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		return r.writePlain("No import runs recorded\n")
	}

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			run.StartedAt.Local().Format(time.DateTime),
			run.Source,
			run.CollectionID,
			strconv.Itoa(run.Added),
			strconv.Itoa(run.Skipped),
			strconv.Itoa(run.NoMatch),
			strconv.Itoa(run.Errors),
			run.FinishedAt.Sub(run.StartedAt).Round(time.Second).String(),
		})
	}

	return r.writePlain("%s\n", renderTable(
		[]string{"Started", "Source", "Playlist", "Added", "Skipped", "No match", "Errors", "Took"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight},
	))
}

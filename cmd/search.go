package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/ytimport/internal/matching"
	"github.com/desertthunder/ytimport/internal/models"
	"github.com/desertthunder/ytimport/internal/shared"
	"github.com/urfave/cli/v3"
)

type scoredCandidate struct {
	models.Candidate
	Score float64 `json:"score"`
}

// Search queries the proxy and scores each result against the query, treating it as the title.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: search query is required", shared.ErrMissingArgument)
	}
	if err := r.requireCatalog(); err != nil {
		return err
	}

	filter := models.FilterSongs
	if cmd.Bool("videos") {
		filter = models.FilterVideos
	}

	candidates, err := r.catalog.Search(ctx, query, filter, r.config.Matching.SearchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	artist := cmd.String("artist")
	scored := make([]scoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		scored = append(scored, scoredCandidate{Candidate: c, Score: matching.Score(query, artist, "", c)})
	}

	if cmd.Bool("json") {
		return r.writeJSON(scored, true)
	}

	if len(scored) == 0 {
		return r.writePlain("No results for %q\n", query)
	}

	rows := make([][]string, 0, len(scored))
	for i, c := range scored {
		marker := ""
		if c.Score >= r.config.Matching.MinAcceptScore {
			marker = "✓"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%.2f", c.Score),
			marker,
			c.Title,
			c.ArtistName,
			c.AlbumName,
			c.ExternalID,
		})
	}

	return r.writePlain("%s\n", renderTable(
		[]string{"#", "Score", "", "Title", "Artist", "Album", "ID"},
		rows,
		[]columnAlignment{alignRight, alignRight},
	))
}

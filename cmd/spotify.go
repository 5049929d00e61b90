package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/ytimport/internal/formatter"
	"github.com/desertthunder/ytimport/internal/services"
	"github.com/urfave/cli/v3"
)

// spotifyExporter returns the injected exporter or builds one from the stored Spotify token.
func (r *Runner) spotifyExporter(ctx context.Context) (services.SourceExporter, error) {
	if r.exporter != nil {
		return r.exporter, nil
	}

	creds := r.config.Credentials.Spotify
	svc, err := services.NewSpotifyService(creds)
	if err != nil {
		return nil, err
	}

	token, err := services.LoadToken(creds.TokenPath)
	if err != nil {
		return nil, err
	}

	if err := svc.Authenticate(ctx, token); err != nil {
		return nil, err
	}
	return svc, nil
}

// SpotifyExport writes the user's saved Spotify tracks to a CSV that `import` can read.
func (r *Runner) SpotifyExport(ctx context.Context, cmd *cli.Command) error {
	output := cmd.String("output")

	exporter, err := r.spotifyExporter(ctx)
	if err != nil {
		return fmt.Errorf("spotify unavailable: %w", err)
	}

	records, err := exporter.SavedTracks(ctx, func(fetched, total int) {
		r.logger.Debug("fetched saved tracks", "fetched", fetched, "total", total)
	})
	if err != nil {
		return fmt.Errorf("failed to fetch saved tracks: %w", err)
	}

	if err := formatter.WriteCSVExport(records, output); err != nil {
		return err
	}

	return r.writePlain("✓ Exported %d tracks to %s\n", len(records), output)
}

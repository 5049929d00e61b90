// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// importCommand reconciles a CSV of tracks into a YouTube Music playlist.
func importCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import tracks from a CSV into a YouTube Music playlist",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name:      "csv",
				UsageText: "CSV with Song, Artist, Album, ISRC and Spotify Track Id columns",
			},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "dry-run",
				Aliases: []string{"n"},
				Usage:   "Resolve matches without touching the playlist or the state",
			},
			&cli.StringFlag{
				Name:    "playlist",
				Aliases: []string{"p"},
				Usage:   "Target playlist name (default: CSV file name without extension)",
			},
			&cli.StringFlag{
				Name:  "state",
				Usage: "Path to the JSON state file (file backend only)",
			},
			&cli.BoolFlag{
				Name:  "fail-fast",
				Usage: "Abort the run when a track exhausts its retries",
			},
			&cli.StringFlag{
				Name:  "report",
				Usage: "Write a Markdown report of the run to this path",
			},
		},
		Action: r.Import,
	}
}

// searchCommand runs a single scored search against the proxy.
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search YouTube Music and show how each result scores",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "query",
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "artist",
				Usage: "Artist to score results against",
			},
			&cli.BoolFlag{
				Name:  "videos",
				Usage: "Search videos instead of songs",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Search,
	}
}

// stateCommand inspects the sync state.
func stateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "state",
		Usage: "Inspect the sync state",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "List resolved tracks and the target playlist",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "state",
						Usage: "Path to the JSON state file (file backend only)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.StateShow,
			},
		},
	}
}

// historyCommand lists past import runs.
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List past import runs",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of runs to show",
				Value: 20,
			},
		},
		Action: r.History,
	}
}

// spotifyCommand handles Spotify operations
func spotifyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "spotify",
		Aliases: []string{"spot"},
		Usage:   "Spotify operations",
		Commands: []*cli.Command{
			{
				Name:  "export",
				Usage: "Export saved tracks to CSV",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path",
						Value:   "spotify_likes.csv",
					},
				},
				Action: r.SpotifyExport,
			},
		},
	}
}

// setupCommand handles setup operations for configuration and the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write a config file from the bundled template",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "path",
						Aliases: []string{"p"},
						Usage:   "Where to write the config file",
						Value:   "config.toml",
					},
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing file",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Roll back the most recent migration after initializing",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

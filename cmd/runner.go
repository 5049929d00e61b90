package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytimport/internal/repositories"
	"github.com/desertthunder/ytimport/internal/services"
	"github.com/desertthunder/ytimport/internal/shared"
	"github.com/desertthunder/ytimport/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	catalog    services.Catalog
	exporter   services.SourceExporter
	logger     *log.Logger
	output     io.Writer
	sleep      tasks.SleepFunc
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Catalog    services.Catalog
	Exporter   services.SourceExporter // built from the Spotify credentials when nil
	Logger     *log.Logger
	Output     io.Writer
	Sleep      tasks.SleepFunc
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Sleep == nil {
		opts.Sleep = tasks.Sleep
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		catalog:    opts.Catalog,
		exporter:   opts.Exporter,
		logger:     opts.Logger,
		output:     opts.Output,
		sleep:      opts.Sleep,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		importCommand, searchCommand, stateCommand, historyCommand, spotifyCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// stateHandle is an opened state store together with the resources backing it.
type stateHandle struct {
	store tasks.StateStore
	path  string
	lock  *shared.FileLock
	db    *sql.DB
}

func (h *stateHandle) Close() error {
	var err error
	if h.lock != nil {
		err = h.lock.Unlock()
	}
	if h.db != nil {
		if cerr := h.db.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// openState opens the configured sync state backend. pathOverride replaces the file backend's
// path. When lock is set the backing file is locked for the lifetime of the handle.
func (r *Runner) openState(pathOverride string, lock bool) (*stateHandle, error) {
	h := &stateHandle{}

	switch r.config.State.Backend {
	case shared.StateBackendSQLite:
		db, err := r.openDatabase()
		if err != nil {
			return nil, err
		}
		h.db = db
		h.path = r.config.Database.Path
		h.store = repositories.NewSQLiteStateStore(db)
	default:
		h.path = r.config.State.Path
		if pathOverride != "" {
			h.path = pathOverride
		}
		h.store = repositories.NewFileStateStore(h.path, r.logger)
	}

	if lock {
		h.lock = shared.NewFileLock(h.path)
		if err := h.lock.TryLock(); err != nil {
			h.lock = nil
			h.Close()
			return nil, err
		}
	}

	return h, nil
}

// openDatabase opens the configured database and applies pending migrations.
func (r *Runner) openDatabase() (*sql.DB, error) {
	if r.config.Database.Path == "" {
		return nil, fmt.Errorf("%w: database.path is not set", shared.ErrMissingConfig)
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}

func (r *Runner) requireCatalog() error {
	if r.catalog == nil {
		return fmt.Errorf("%w: YouTube Music proxy not configured", shared.ErrServiceUnavailable)
	}
	return nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}


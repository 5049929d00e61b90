package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytimport/internal/models"
)

// FileStateStore keeps the sync state in a JSON document.
type FileStateStore struct {
	path   string
	logger *log.Logger
}

// NewFileStateStore creates a store backed by the JSON file at path.
func NewFileStateStore(path string, logger *log.Logger) *FileStateStore {
	if logger == nil {
		logger = log.Default()
	}
	return &FileStateStore{path: path, logger: logger}
}

// Path returns the location of the state document.
func (s *FileStateStore) Path() string {
	return s.path
}

// Load reads the state document.
//
// A missing file yields an empty state. An unparsable file is renamed to "<path>.corrupt" and
// an empty state is returned.
func (s *FileStateStore) Load(ctx context.Context) (*models.SyncState, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return models.NewSyncState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	state := models.NewSyncState()
	if len(bytes.TrimSpace(data)) > 0 {
		state = &models.SyncState{}
		if err := json.Unmarshal(data, state); err != nil {
			backup := s.path + ".corrupt"
			s.logger.Warn("state file is unreadable, starting from an empty state", "path", s.path, "backup", backup, "err", err)
			if renameErr := os.Rename(s.path, backup); renameErr != nil {
				s.logger.Warn("failed to move corrupt state aside", "err", renameErr)
			}
			return models.NewSyncState(), nil
		}
	}

	state.Backfill()
	return state, nil
}

// Save overwrites the state document.
//
// The document is written to a temporary file in the same directory and renamed over the
// previous one, so a crash leaves either the old or the new document in place.
func (s *FileStateStore) Save(ctx context.Context, state *models.SyncState) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(state); err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write state: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close state file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}

	return nil
}

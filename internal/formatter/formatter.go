// package formatter reads source track exports and renders import results (CSV, Markdown, terminal text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytimport/internal/models"
	"github.com/desertthunder/ytimport/internal/shared"
)

const utf8BOM = "\ufeff"

// Column headers written by [ExportToCSV]. [ReadCSV] matches them case-insensitively.
const (
	ColumnSong    = "Song"
	ColumnTitle   = "Title"
	ColumnArtist  = "Artist"
	ColumnAlbum   = "Album"
	ColumnISRC    = "ISRC"
	ColumnTrackID = "Spotify Track Id"
)

// ExportToCSV converts source records to CSV with columns: Song, Artist, Album, ISRC, Spotify Track Id
func ExportToCSV(records []models.SourceRecord) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{ColumnSong, ColumnArtist, ColumnAlbum, ColumnISRC, ColumnTrackID}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, r := range records {
		row := []string{r.Title, r.Artist, r.Album, r.ISRC, r.SourceID}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// WriteCSVExport writes records to path as CSV.
func WriteCSVExport(records []models.SourceRecord, path string) error {
	if path == "" {
		return fmt.Errorf("%w: output path", shared.ErrMissingArgument)
	}

	data, err := ExportToCSV(records)
	if err != nil {
		return fmt.Errorf("failed to generate CSV: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write CSV file: %w", err)
	}
	return nil
}

type columnIndex struct {
	title, artist, album, isrc, id int
}

func (c columnIndex) get(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func indexColumns(header []string) (columnIndex, error) {
	idx := columnIndex{title: -1, artist: -1, album: -1, isrc: -1, id: -1}
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "song":
			idx.title = i
		case "title":
			if idx.title < 0 {
				idx.title = i
			}
		case "artist":
			idx.artist = i
		case "album":
			idx.album = i
		case "isrc":
			idx.isrc = i
		case "spotify track id":
			idx.id = i
		}
	}

	if idx.title < 0 {
		return idx, fmt.Errorf("%w: CSV has no %q or %q column", shared.ErrInvalidInput, ColumnSong, ColumnTitle)
	}
	return idx, nil
}

// ReadCSV parses source records from a header-driven CSV.
//
// Rows with an empty title are skipped and logged. A missing title column is an
// [shared.ErrInvalidInput] error.
func ReadCSV(r io.Reader, logger *log.Logger) ([]models.SourceRecord, error) {
	if logger == nil {
		logger = log.Default()
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: CSV is empty", shared.ErrInvalidInput)
		}
		return nil, fmt.Errorf("%w: failed to read CSV header: %v", shared.ErrInvalidInput, err)
	}

	idx, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	var records []models.SourceRecord
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", shared.ErrInvalidInput, line, err)
		}

		rec := models.SourceRecord{
			Title:    idx.get(row, idx.title),
			Artist:   idx.get(row, idx.artist),
			Album:    idx.get(row, idx.album),
			ISRC:     idx.get(row, idx.isrc),
			SourceID: idx.get(row, idx.id),
		}
		if rec.Title == "" {
			logger.Warn("skipping row without title", "line", line)
			continue
		}
		records = append(records, rec)
	}

	return records, nil
}

// ReadCSVFile opens path and parses it with [ReadCSV].
func ReadCSVFile(path string, logger *log.Logger) ([]models.SourceRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s does not exist", shared.ErrInvalidInput, path)
		}
		return nil, fmt.Errorf("failed to open CSV: %w", err)
	}
	defer f.Close()

	return ReadCSV(f, logger)
}

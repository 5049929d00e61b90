// package services defines the interfaces consumed by the import engine and implements them over HTTP
//
// YouTube Music (via proxy), Spotify
package services

import (
	"context"

	"github.com/desertthunder/ytimport/internal/models"
)

// Searcher searches the target catalog.
type Searcher interface {
	// Search returns at most limit candidates for query, restricted to the given content type.
	// Provider-specific result shapes are mapped to [models.Candidate] before returning.
	Search(ctx context.Context, query string, filter models.SearchFilter, limit int) ([]models.Candidate, error)
}

// Library mutates the user's collections in the target catalog.
type Library interface {
	// AddItem appends an item to a collection.
	AddItem(ctx context.Context, collectionID, externalID string) error

	// SetFavorite marks an item as liked.
	SetFavorite(ctx context.Context, externalID string) error

	// ListCollections returns up to limit collections from the user's library.
	ListCollections(ctx context.Context, limit int) ([]models.Collection, error)

	// CreateCollection creates a private collection and returns its ID.
	CreateCollection(ctx context.Context, name, description string) (string, error)
}

// Catalog is a target catalog that can be both searched and mutated.
type Catalog interface {
	Searcher
	Library

	// Name returns the name of the service (e.g. "YouTube Music")
	Name() string
}

// SourceExporter reads a user's saved tracks from the source catalog.
type SourceExporter interface {
	SavedTracks(ctx context.Context, progress func(fetched, total int)) ([]models.SourceRecord, error)
}

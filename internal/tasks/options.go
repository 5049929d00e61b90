package tasks

import (
	"time"

	"github.com/desertthunder/ytimport/internal/shared"
)

// Options configures the [Resolver] and [Driver].
type Options struct {
	MinAcceptScore                float64       // Lowest score accepted as a match
	ConfidentScore                float64       // Score that ends the search immediately
	SearchResultLimit             int           // Results requested per search call
	RetryCount                    int           // Attempts per remote call, including the first
	RetryDelay                    time.Duration // Sleep between attempts
	PostAddDelay                  time.Duration // Sleep after each successful add
	LikeOnAdd                     bool          // Like items after adding them
	ReuseExistingCollectionByName bool          // Look up an existing collection before creating one
	CollectionDescription         string        // Description for created collections
	FailFast                      bool          // Abort the run when a record exhausts its retries
}

// DefaultOptions returns the options used when no configuration file is present.
func DefaultOptions() Options {
	return Options{
		MinAcceptScore:                0.62,
		ConfidentScore:                0.90,
		SearchResultLimit:             8,
		RetryCount:                    3,
		RetryDelay:                    3 * time.Second,
		PostAddDelay:                  1200 * time.Millisecond,
		LikeOnAdd:                     true,
		ReuseExistingCollectionByName: true,
		CollectionDescription:         "Imported with ytimport",
	}
}

// OptionsFromConfig builds options from the matching and import sections of cfg.
func OptionsFromConfig(cfg *shared.Config) Options {
	if cfg == nil {
		return DefaultOptions()
	}
	return Options{
		MinAcceptScore:                cfg.Matching.MinAcceptScore,
		ConfidentScore:                cfg.Matching.ConfidentScore,
		SearchResultLimit:             cfg.Matching.SearchLimit,
		RetryCount:                    cfg.Import.RetryCount,
		RetryDelay:                    cfg.Import.RetryDelay,
		PostAddDelay:                  cfg.Import.PostAddDelay,
		LikeOnAdd:                     cfg.Import.LikeOnAdd,
		ReuseExistingCollectionByName: cfg.Import.ReuseExistingByName,
		CollectionDescription:         cfg.Import.CollectionDescription,
		FailFast:                      cfg.Import.FailFast,
	}
}

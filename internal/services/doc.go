// Package services implements the remote catalogs used by ytimport.
//
// # Interfaces
//
// The import engine depends on narrow interfaces only:
//   - [Searcher] : search with a content filter ("songs" or "videos") and a result limit
//   - [Library] : add to a collection, like an item, list and create collections
//   - [SourceExporter] : read a user's saved tracks
//
// # YouTube Music Implementation
//
// [YouTubeService] communicates with an HTTP proxy wrapping ytmusicapi.
// The auth file path is sent via the X-Auth-File header on each request.
//
// Search results come back in several shapes: artists as a list of objects or a flat "author"
// string, and album as an object or a plain string. [YouTubeService.Search] maps every shape to
// [models.Candidate] so scoring never sees provider-specific fields.
//
// # Spotify Implementation
//
// [SpotifyService] pages through the user's saved tracks with an [oauth2] client built from a
// stored token. Expired tokens are refreshed by the client; requests are paced by a [rate.Limiter].
//
// # Error Handling
//
// Non-2xx responses are returned as errors wrapping [shared.ErrAPIRequest].
// Callers decide whether to retry.
package services

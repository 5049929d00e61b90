// Spotify API implementation of [SourceExporter]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/desertthunder/ytimport/internal/models"
	"github.com/desertthunder/ytimport/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	spotifyPageSize = 50
)

type externalIDs struct {
	ISRC string `json:"isrc"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Artists     []SpotifyArtist `json:"artists"`
	Album       SpotifyAlbum    `json:"album"`
	ExternalIDs externalIDs     `json:"external_ids"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SpotifySavedTrack represents a track saved in the user's library.
type SpotifySavedTrack struct {
	AddedAt string       `json:"added_at"`
	Track   SpotifyTrack `json:"track"`
}

// SpotifyPaginatedTracks represents a paginated response of saved tracks.
type SpotifyPaginatedTracks struct {
	Items  []SpotifySavedTrack `json:"items"`
	Total  int                 `json:"total"`
	Limit  int                 `json:"limit"`
	Offset int                 `json:"offset"`
	Next   *string             `json:"next"`
}

// Record converts the track to a source record. Only the first artist is kept.
func (t SpotifyTrack) Record() models.SourceRecord {
	var artist string
	if len(t.Artists) > 0 {
		artist = t.Artists[0].Name
	}
	return models.SourceRecord{
		Title:    t.Name,
		Artist:   artist,
		Album:    t.Album.Name,
		ISRC:     t.ExternalIDs.ISRC,
		SourceID: t.ID,
	}
}

// SpotifyService implements [SourceExporter] for the Spotify Web API.
// Uses [oauth2] for authentication and a [rate.Limiter] to pace requests.
type SpotifyService struct {
	config     *oauth2.Config
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
}

// NewSpotifyService creates a new Spotify service with the given OAuth2 client settings.
func NewSpotifyService(cfg shared.SpotifyConfig) (*SpotifyService, error) {
	if cfg.ClientID == "" {
		return nil, fmt.Errorf("%w: missing spotify client_id", shared.ErrMissingCredentials)
	}
	if cfg.ClientSecret == "" {
		return nil, fmt.Errorf("%w: missing spotify client_secret", shared.ErrMissingCredentials)
	}

	redirectURI := cfg.RedirectURI
	if redirectURI == "" {
		redirectURI = "http://localhost:8080/callback"
	}

	config := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  redirectURI,
		Scopes:       []string{"user-library-read"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}

	return &SpotifyService{
		config:  config,
		baseURL: spotifyBaseURL,
		limiter: rate.NewLimiter(rate.Limit(5), 1),
	}, nil
}

// newSpotifyServiceWithClient builds a service against an arbitrary API root, used in tests.
func newSpotifyServiceWithClient(baseURL string, client *http.Client) *SpotifyService {
	return &SpotifyService{
		config:     &oauth2.Config{},
		httpClient: client,
		baseURL:    strings.TrimRight(baseURL, "/"),
		limiter:    rate.NewLimiter(rate.Inf, 1),
	}
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// AuthURL returns the OAuth2 authorization URL for user login.
func (s *SpotifyService) AuthURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Authenticate builds the HTTP client from a token. Expired tokens with a refresh token are
// refreshed transparently by the returned client.
func (s *SpotifyService) Authenticate(ctx context.Context, token *oauth2.Token) error {
	if token == nil || (token.AccessToken == "" && token.RefreshToken == "") {
		return fmt.Errorf("%w: spotify token is empty", shared.ErrMissingCredentials)
	}
	s.httpClient = s.config.Client(ctx, token)
	return nil
}

// LoadToken reads an OAuth2 token stored as JSON at path.
func LoadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: no spotify token at %s", shared.ErrMissingCredentials, path)
		}
		return nil, fmt.Errorf("failed to read token: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("%w: malformed spotify token: %v", shared.ErrInvalidConfig, err)
	}
	return &token, nil
}

// doRequest performs an authenticated GET against the Spotify API.
// endpoint may be a path relative to the API root or an absolute "next" URL.
func (s *SpotifyService) doRequest(ctx context.Context, endpoint string, result any) error {
	if s.httpClient == nil {
		return fmt.Errorf("%w: call Authenticate first", shared.ErrMissingCredentials)
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	apiURL := endpoint
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		apiURL = s.baseURL + endpoint
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: request failed: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: spotify: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// SavedTracks retrieves every track saved in the user's library, following pagination.
// progress, when non-nil, is called after each page.
func (s *SpotifyService) SavedTracks(ctx context.Context, progress func(fetched, total int)) ([]models.SourceRecord, error) {
	var records []models.SourceRecord
	next := fmt.Sprintf("/me/tracks?limit=%d&offset=0", spotifyPageSize)

	for next != "" {
		var page SpotifyPaginatedTracks
		if err := s.doRequest(ctx, next, &page); err != nil {
			return nil, err
		}

		for _, item := range page.Items {
			if item.Track.ID == "" && item.Track.Name == "" {
				continue
			}
			records = append(records, item.Track.Record())
		}

		if progress != nil {
			progress(len(records), page.Total)
		}

		next = ""
		if page.Next != nil {
			next = *page.Next
		}
	}

	return records, nil
}

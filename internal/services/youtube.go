// YouTube Music implementation of [Catalog]
//
// Communicates with the FastAPI proxy server wrapping the ytmusicapi Python library.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/desertthunder/ytimport/internal/models"
	"github.com/desertthunder/ytimport/internal/shared"
)

const defaultYTBaseURL string = "http://localhost:8080"

// YouTubeArtist represents an artist in YouTube Music responses.
type YouTubeArtist struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// youtubeAlbum accepts both {"name": "..."} and a plain string.
type youtubeAlbum struct {
	Name string
}

func (a *youtubeAlbum) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		return nil
	case data[0] == '"':
		return json.Unmarshal(data, &a.Name)
	case data[0] == '{':
		var obj struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		a.Name = obj.Name
		return nil
	default:
		return nil
	}
}

// youtubeCount accepts counts sent as numbers or as strings such as "1,204".
// Anything unparsable counts as zero.
type youtubeCount int

func (c *youtubeCount) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	s = strings.ReplaceAll(s, ",", "")
	if n, err := strconv.Atoi(s); err == nil {
		*c = youtubeCount(n)
	} else {
		*c = 0
	}
	return nil
}

// YouTubeSearchResult is a raw search result from the proxy.
type YouTubeSearchResult struct {
	VideoID    string          `json:"videoId"`
	Title      string          `json:"title"`
	ResultType string          `json:"resultType"`
	Artists    []YouTubeArtist `json:"artists"`
	Author     string          `json:"author"`
	Album      youtubeAlbum    `json:"album"`
}

// Candidate maps the result to the canonical candidate shape.
//
// The primary artist is the first entry of artists when present, otherwise the author field.
func (r YouTubeSearchResult) Candidate() models.Candidate {
	artist := r.Author
	if len(r.Artists) > 0 {
		artist = r.Artists[0].Name
	}
	return models.Candidate{
		ExternalID: r.VideoID,
		Title:      r.Title,
		ArtistName: artist,
		AlbumName:  r.Album.Name,
	}
}

type youtubePlaylistSummary struct {
	PlaylistID string       `json:"playlistId"`
	Title      string       `json:"title"`
	Count      youtubeCount `json:"count"`
}

// YouTubeService implements [Catalog] for YouTube Music via proxy.
type YouTubeService struct {
	baseURL    string
	authFile   string
	httpClient *http.Client
}

// NewYouTubeService creates a new YouTube Music service instance.
func NewYouTubeService(baseURL string, client *http.Client) *YouTubeService {
	if baseURL == "" {
		baseURL = defaultYTBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &YouTubeService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
	}
}

// Name returns the service name.
func (y *YouTubeService) Name() string {
	return "YouTube Music"
}

// Authenticate stores the authentication file path for subsequent requests.
//
// Expects credentials["auth_file"] to contain the path to browser.json or oauth.json.
func (y *YouTubeService) Authenticate(ctx context.Context, credentials map[string]string) error {
	authFile, ok := credentials["auth_file"]
	if !ok || authFile == "" {
		return fmt.Errorf("%w: missing auth_file in credentials", shared.ErrMissingCredentials)
	}

	y.authFile = authFile
	return nil
}

func (y *YouTubeService) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, y.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if y.authFile != "" {
		req.Header.Set("X-Auth-File", y.authFile)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: request failed: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Detail string `json:"detail"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Detail != "" {
			return fmt.Errorf("%w: youtube music (status %d): %s", shared.ErrAPIRequest, resp.StatusCode, errResp.Detail)
		}
		return fmt.Errorf("%w: youtube music: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// Search queries the catalog restricted to filter.
//
// Calls GET /api/search?q={query}&filter={filter}&limit={limit} on the proxy.
func (y *YouTubeService) Search(ctx context.Context, query string, filter models.SearchFilter, limit int) ([]models.Candidate, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("filter", string(filter))
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	var results []YouTubeSearchResult
	if err := y.doRequest(ctx, http.MethodGet, "/api/search?"+params.Encode(), nil, &results); err != nil {
		return nil, err
	}

	candidates := make([]models.Candidate, 0, len(results))
	for _, r := range results {
		candidates = append(candidates, r.Candidate())
	}
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}

	return candidates, nil
}

// AddItem appends a video to a playlist.
//
// Calls POST /api/playlists/{id}/items on the proxy.
func (y *YouTubeService) AddItem(ctx context.Context, collectionID, externalID string) error {
	if collectionID == "" {
		return fmt.Errorf("%w: playlist id is required", shared.ErrInvalidArgument)
	}

	body := struct {
		VideoIDs []string `json:"video_ids"`
	}{VideoIDs: []string{externalID}}

	endpoint := fmt.Sprintf("/api/playlists/%s/items", url.PathEscape(collectionID))
	return y.doRequest(ctx, http.MethodPost, endpoint, body, nil)
}

// SetFavorite likes a song.
//
// Calls POST /api/songs/{id}/rating with {"rating": "LIKE"} on the proxy.
func (y *YouTubeService) SetFavorite(ctx context.Context, externalID string) error {
	body := struct {
		Rating string `json:"rating"`
	}{Rating: "LIKE"}

	endpoint := fmt.Sprintf("/api/songs/%s/rating", url.PathEscape(externalID))
	return y.doRequest(ctx, http.MethodPost, endpoint, body, nil)
}

// ListCollections retrieves playlists from the user's library.
//
// Calls GET /api/library/playlists?limit={limit} on the proxy.
func (y *YouTubeService) ListCollections(ctx context.Context, limit int) ([]models.Collection, error) {
	endpoint := "/api/library/playlists"
	if limit > 0 {
		endpoint += "?limit=" + strconv.Itoa(limit)
	}

	var playlists []youtubePlaylistSummary
	if err := y.doRequest(ctx, http.MethodGet, endpoint, nil, &playlists); err != nil {
		return nil, err
	}

	collections := make([]models.Collection, 0, len(playlists))
	for _, p := range playlists {
		collections = append(collections, models.Collection{
			ID:        p.PlaylistID,
			Name:      p.Title,
			ItemCount: int(p.Count),
		})
	}

	return collections, nil
}

// CreateCollection creates a private playlist.
//
// Calls POST /api/playlists on the proxy.
func (y *YouTubeService) CreateCollection(ctx context.Context, name, description string) (string, error) {
	body := struct {
		Title         string `json:"title"`
		Description   string `json:"description"`
		PrivacyStatus string `json:"privacy_status"`
	}{
		Title:         name,
		Description:   description,
		PrivacyStatus: "PRIVATE",
	}

	var resp struct {
		PlaylistID string `json:"playlist_id"`
	}
	if err := y.doRequest(ctx, http.MethodPost, "/api/playlists", body, &resp); err != nil {
		return "", err
	}
	if resp.PlaylistID == "" {
		return "", fmt.Errorf("%w: create playlist returned no id", shared.ErrAPIRequest)
	}

	return resp.PlaylistID, nil
}

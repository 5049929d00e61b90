package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

const (
	StateBackendFile   = "file"
	StateBackendSQLite = "sqlite"
)

// Environment variables that override credentials.
const (
	EnvSpotifyClientID     = "YTIMPORT_SPOTIFY_CLIENT_ID"
	EnvSpotifyClientSecret = "YTIMPORT_SPOTIFY_CLIENT_SECRET"
	EnvYouTubeProxyURL     = "YTIMPORT_YOUTUBE_PROXY_URL"
	EnvYouTubeHeaders      = "YTIMPORT_YOUTUBE_HEADERS"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Database    DatabaseConfig    `toml:"database"`
	State       StateConfig       `toml:"state"`
	Matching    MatchingConfig    `toml:"matching"`
	Import      ImportConfig      `toml:"import"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
	YouTube YouTubeConfig `toml:"youtube"`
}

// SpotifyConfig contains Spotify API credentials.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
	TokenPath    string `toml:"token_path"`
}

// YouTubeConfig contains YouTube Music proxy settings.
type YouTubeConfig struct {
	ProxyURL    string `toml:"proxy_url"`
	HeadersPath string `toml:"headers_path"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// StateConfig selects where sync state is persisted.
type StateConfig struct {
	Backend string `toml:"backend"`
	Path    string `toml:"path"`
}

// MatchingConfig contains candidate acceptance thresholds.
type MatchingConfig struct {
	MinAcceptScore float64 `toml:"min_accept_score"`
	ConfidentScore float64 `toml:"confident_score"`
	SearchLimit    int     `toml:"search_limit"`
}

// ImportConfig contains retry, pacing and collection settings for import runs.
type ImportConfig struct {
	RetryCount            int           `toml:"retry_count"`
	RetryDelay            time.Duration `toml:"retry_delay"`
	PostAddDelay          time.Duration `toml:"post_add_delay"`
	LikeOnAdd             bool          `toml:"like_on_add"`
	ReuseExistingByName   bool          `toml:"reuse_existing_by_name"`
	CollectionDescription string        `toml:"collection_description"`
	FailFast              bool          `toml:"fail_fast"`
}

// LoadConfig reads a TOML configuration file and overlays it on [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMissingConfig, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overrides credentials with any non-empty environment variables.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := getenv(EnvSpotifyClientID); v != "" {
		c.Credentials.Spotify.ClientID = v
	}
	if v := getenv(EnvSpotifyClientSecret); v != "" {
		c.Credentials.Spotify.ClientSecret = v
	}
	if v := getenv(EnvYouTubeProxyURL); v != "" {
		c.Credentials.YouTube.ProxyURL = v
	}
	if v := getenv(EnvYouTubeHeaders); v != "" {
		c.Credentials.YouTube.HeadersPath = v
	}
}

// Validate checks thresholds, limits and the state backend.
func (c *Config) Validate() error {
	m := c.Matching
	if m.MinAcceptScore < 0 || m.MinAcceptScore > 1 {
		return fmt.Errorf("%w: matching.min_accept_score must be within [0,1], got %v", ErrInvalidConfig, m.MinAcceptScore)
	}
	if m.ConfidentScore < 0 || m.ConfidentScore > 1 {
		return fmt.Errorf("%w: matching.confident_score must be within [0,1], got %v", ErrInvalidConfig, m.ConfidentScore)
	}
	if m.SearchLimit <= 0 {
		return fmt.Errorf("%w: matching.search_limit must be positive, got %d", ErrInvalidConfig, m.SearchLimit)
	}

	i := c.Import
	if i.RetryCount <= 0 {
		return fmt.Errorf("%w: import.retry_count must be positive, got %d", ErrInvalidConfig, i.RetryCount)
	}
	if i.RetryDelay < 0 || i.PostAddDelay < 0 {
		return fmt.Errorf("%w: import delays must not be negative", ErrInvalidConfig)
	}

	switch c.State.Backend {
	case StateBackendFile:
		if c.State.Path == "" {
			return fmt.Errorf("%w: state.path is required for the file backend", ErrInvalidConfig)
		}
	case StateBackendSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("%w: database.path is required for the sqlite backend", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown state.backend %q", ErrInvalidConfig, c.State.Backend)
	}

	return nil
}

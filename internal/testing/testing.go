// package testing contains shared test doubles and assertion helpers
package testing

import (
	"context"
	"errors"
	"maps"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/desertthunder/ytimport/internal/models"
)

// SearchCall records a single [MockCatalog.Search] invocation.
type SearchCall struct {
	Query  string
	Filter models.SearchFilter
	Limit  int
}

// MockCatalog is a test double for [services.Catalog].
//
// Search results are looked up by filter and query. Failures are scripted with a count: the first
// N calls fail with the configured error, and a negative count fails every call.
type MockCatalog struct {
	Results map[string][]models.Candidate // keyed by [ResultKey]

	SearchErr      error
	SearchFailures int
	AddErr         error
	AddFailures    int
	FavoriteErr    error
	Collections    []models.Collection
	ListErr        error
	CreatedID      string
	CreateErr      error

	Searches []SearchCall
	Added    []string
	Liked    []string
	Created  []string
	Listed   int
}

// ResultKey builds the [MockCatalog.Results] key for a filter and query.
func ResultKey(filter models.SearchFilter, query string) string {
	return string(filter) + "|" + query
}

func (m *MockCatalog) Name() string { return "mock" }

func (m *MockCatalog) Search(ctx context.Context, query string, filter models.SearchFilter, limit int) ([]models.Candidate, error) {
	m.Searches = append(m.Searches, SearchCall{Query: query, Filter: filter, Limit: limit})
	if shouldFail(m.SearchErr, &m.SearchFailures) {
		return nil, m.SearchErr
	}
	return m.Results[ResultKey(filter, query)], nil
}

func (m *MockCatalog) AddItem(ctx context.Context, collectionID, externalID string) error {
	if shouldFail(m.AddErr, &m.AddFailures) {
		return m.AddErr
	}
	m.Added = append(m.Added, collectionID+"/"+externalID)
	return nil
}

func (m *MockCatalog) SetFavorite(ctx context.Context, externalID string) error {
	if m.FavoriteErr != nil {
		return m.FavoriteErr
	}
	m.Liked = append(m.Liked, externalID)
	return nil
}

func (m *MockCatalog) ListCollections(ctx context.Context, limit int) ([]models.Collection, error) {
	m.Listed++
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.Collections, nil
}

func (m *MockCatalog) CreateCollection(ctx context.Context, name, description string) (string, error) {
	if m.CreateErr != nil {
		return "", m.CreateErr
	}
	m.Created = append(m.Created, name)
	return m.CreatedID, nil
}

// SearchCount returns the number of searches issued with filter.
func (m *MockCatalog) SearchCount(filter models.SearchFilter) int {
	n := 0
	for _, c := range m.Searches {
		if c.Filter == filter {
			n++
		}
	}
	return n
}

func shouldFail(err error, remaining *int) bool {
	if err == nil || *remaining == 0 {
		return false
	}
	if *remaining > 0 {
		*remaining--
	}
	return true
}

// MemoryStateStore is an in-memory sync state store that copies on load and save, like a real
// backend would.
type MemoryStateStore struct {
	State   *models.SyncState
	Saves   int
	SaveErr error
}

func (s *MemoryStateStore) Load(ctx context.Context) (*models.SyncState, error) {
	if s.State == nil {
		return models.NewSyncState(), nil
	}
	return copyState(s.State), nil
}

func (s *MemoryStateStore) Save(ctx context.Context, state *models.SyncState) error {
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.Saves++
	s.State = copyState(state)
	return nil
}

func copyState(in *models.SyncState) *models.SyncState {
	out := *in
	out.Resolved = make(map[string]models.ResolvedEntry, len(in.Resolved))
	maps.Copy(out.Resolved, in.Resolved)
	return &out
}

// Sleeper records requested sleeps without waiting.
type Sleeper struct {
	Calls []time.Duration
}

func (s *Sleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.Calls = append(s.Calls, d)
	return ctx.Err()
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

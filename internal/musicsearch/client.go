// Package musicsearch talks to the external music catalog and memoizes its
// album search results.
package musicsearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/avasquez/recordshelf-be/internal/models"
)

const defaultTimeout = 10 * time.Second

// ErrUpstream wraps any failure of the search provider. A search is a single
// attempt; failures are surfaced to the caller and never retried or cached.
var ErrUpstream = errors.New("search provider failure")

// Searcher is the free-text album search interface the cache wraps.
type Searcher interface {
	SearchAlbums(ctx context.Context, query string) ([]models.AlbumCandidate, error)
}

// Client is an HTTP client for the music catalog's album search.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a search client against the given provider base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// SearchAlbums performs a free-text album search and returns the provider's
// ranked candidates.
func (c *Client) SearchAlbums(ctx context.Context, query string) ([]models.AlbumCandidate, error) {
	params := url.Values{"q": {query}}
	reqURL := c.baseURL + "/search/albums?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrUpstream, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrUpstream, resp.StatusCode)
	}

	var candidates []models.AlbumCandidate
	if err := json.Unmarshal(body, &candidates); err != nil {
		return nil, fmt.Errorf("%w: parsing response: %v", ErrUpstream, err)
	}
	if candidates == nil {
		candidates = []models.AlbumCandidate{}
	}
	return candidates, nil
}

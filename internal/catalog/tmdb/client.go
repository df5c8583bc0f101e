package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/cinedex/cinedex/internal/config"
)

var (
	ErrAPIKeyMissing = errors.New("TMDB API key is not configured")
	ErrMovieNotFound = errors.New("movie not found")
	ErrRateLimited   = errors.New("TMDB API rate limited")
	ErrAPIError      = errors.New("TMDB API error")
)

// Client is a TMDB API client.
type Client struct {
	httpClient *http.Client
	config     config.TMDBConfig
	logger     zerolog.Logger
}

// NewClient creates a new TMDB client.
func NewClient(cfg config.TMDBConfig, logger zerolog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		config: cfg,
		logger: logger.With().Str("component", "tmdb").Logger(),
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return "tmdb"
}

// IsConfigured returns true if the API key is set.
func (c *Client) IsConfigured() bool {
	return c.config.APIKey != ""
}

// Test verifies connectivity to the TMDB API by making a configuration request.
func (c *Client) Test(ctx context.Context) error {
	if !c.IsConfigured() {
		return ErrAPIKeyMissing
	}

	var result struct {
		Images struct {
			BaseURL string `json:"base_url"`
		} `json:"images"`
	}

	return c.doRequest(ctx, fmt.Sprintf("%s/configuration", c.config.BaseURL), url.Values{}, &result)
}

// Trending returns today's trending movies. Non-paged.
func (c *Client) Trending(ctx context.Context) ([]Movie, error) {
	return c.list(ctx, "/trending/movie/day")
}

// Popular returns the currently popular movies. Non-paged.
func (c *Client) Popular(ctx context.Context) ([]Movie, error) {
	return c.list(ctx, "/movie/popular")
}

// Upcoming returns upcoming theatrical releases. Non-paged.
func (c *Client) Upcoming(ctx context.Context) ([]Movie, error) {
	return c.list(ctx, "/movie/upcoming")
}

// TopRated returns the top rated movies. Non-paged.
func (c *Client) TopRated(ctx context.Context) ([]Movie, error) {
	return c.list(ctx, "/movie/top_rated")
}

// Discover returns a page of the general discover feed.
// Page numbers are passed through unvalidated; the remote service
// rejects out-of-range values.
func (c *Client) Discover(ctx context.Context, page int) (*Page, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	return c.paged(ctx, "/discover/movie", params)
}

// ByGenre returns a page of movies filtered to a single genre id.
func (c *Client) ByGenre(ctx context.Context, genreID, page int) (*Page, error) {
	params := url.Values{}
	params.Set("with_genres", strconv.Itoa(genreID))
	params.Set("page", strconv.Itoa(page))
	return c.paged(ctx, "/discover/movie", params)
}

// Search returns a page of free-text search results.
func (c *Client) Search(ctx context.Context, query string, page int) (*Page, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))
	return c.paged(ctx, "/search/movie", params)
}

// Genres returns the full movie genre list.
func (c *Client) Genres(ctx context.Context) ([]Genre, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	var response GenreListResponse
	if err := c.doRequest(ctx, c.config.BaseURL+"/genre/movie/list", url.Values{}, &response); err != nil {
		return nil, err
	}
	return response.Genres, nil
}

// GetMovie returns full movie details with attached videos and credits.
func (c *Client) GetMovie(ctx context.Context, id int) (*Movie, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	params := url.Values{}
	params.Set("append_to_response", "videos,credits")

	var movie Movie
	if err := c.doRequest(ctx, fmt.Sprintf("%s/movie/%d", c.config.BaseURL, id), params, &movie); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Int("id", id).
		Str("title", movie.Title).
		Msg("Got movie details")

	return &movie, nil
}

// GetByIDs fetches full details for each id concurrently. An individual
// failure is swallowed and treated as not-found; the result is the
// filtered list of successes in input order. Only a fully empty result
// implies total failure, which callers judge for themselves.
func (c *Client) GetByIDs(ctx context.Context, ids []int, workers int) ([]Movie, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}
	if workers < 1 {
		workers = 4
	}

	results := make([]*Movie, len(ids))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, id := range ids {
		wg.Add(1)
		go func(i, id int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			movie, err := c.GetMovie(ctx, id)
			if err != nil {
				c.logger.Warn().
					Err(err).
					Int("id", id).
					Msg("Batch fetch dropping failed lookup")
				return
			}
			results[i] = movie
		}(i, id)
	}
	wg.Wait()

	movies := make([]Movie, 0, len(ids))
	for _, m := range results {
		if m != nil {
			movies = append(movies, *m)
		}
	}

	c.logger.Debug().
		Int("requested", len(ids)).
		Int("found", len(movies)).
		Msg("Batch fetch completed")

	return movies, nil
}

// ImageURL returns a full image URL for a provider-relative path.
func (c *Client) ImageURL(path string) string {
	if path == "" {
		return ""
	}
	return c.config.ImageBaseURL + path
}

// list performs a non-paged query and returns the bare result list.
func (c *Client) list(ctx context.Context, endpoint string) ([]Movie, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	var response PagedResponse
	if err := c.doRequest(ctx, c.config.BaseURL+endpoint, url.Values{}, &response); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("endpoint", endpoint).
		Int("results", len(response.Results)).
		Msg("List query completed")

	return response.Results, nil
}

// paged performs a paged query and resolves the envelope into a Page.
func (c *Client) paged(ctx context.Context, endpoint string, params url.Values) (*Page, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	var response PagedResponse
	if err := c.doRequest(ctx, c.config.BaseURL+endpoint, params, &response); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("endpoint", endpoint).
		Str("page", params.Get("page")).
		Int("results", len(response.Results)).
		Int("totalPages", response.TotalPages).
		Msg("Paged query completed")

	return &Page{
		Results:    response.Results,
		TotalPages: response.TotalPages,
	}, nil
}

// doRequest performs an HTTP GET request and decodes the JSON response.
func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values, result interface{}) error {
	params.Set("api_key", c.config.APIKey)
	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("url", endpoint).Msg("HTTP request failed")
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil {
			c.logger.Error().
				Int("status", resp.StatusCode).
				Str("message", errResp.StatusMessage).
				Msg("TMDB API error")
		}

		switch resp.StatusCode {
		case http.StatusNotFound:
			return ErrMovieNotFound
		case http.StatusUnauthorized:
			return fmt.Errorf("%w: invalid API key", ErrAPIError)
		case http.StatusTooManyRequests:
			return ErrRateLimited
		default:
			return fmt.Errorf("%w: status %d", ErrAPIError, resp.StatusCode)
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

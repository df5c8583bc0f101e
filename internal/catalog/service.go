package catalog

import (
	"context"
	"fmt"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/cinedex/cinedex/internal/catalog/tmdb"
	"github.com/cinedex/cinedex/internal/config"
)

// PageResult is a normalized page of catalog results.
type PageResult struct {
	Results    []MovieRecord `json:"results"`
	TotalPages int           `json:"totalPages"`
}

// Service answers catalog queries: it drives the TMDB client, applies
// normalization and caches responses with a TTL cache.
type Service struct {
	client       *tmdb.Client
	cache        *gocache.Cache
	cfg          config.CatalogConfig
	imageBaseURL string
	logger       zerolog.Logger
}

// NewService creates a new catalog service.
func NewService(client *tmdb.Client, tmdbCfg config.TMDBConfig, cfg config.CatalogConfig, logger zerolog.Logger) *Service {
	return &Service{
		client:       client,
		cache:        gocache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
		cfg:          cfg,
		imageBaseURL: tmdbCfg.ImageBaseURL,
		logger:       logger.With().Str("component", "catalog").Logger(),
	}
}

// Trending returns today's trending movies.
func (s *Service) Trending(ctx context.Context) ([]MovieRecord, error) {
	return s.listQuery(ctx, "trending", s.client.Trending)
}

// Popular returns the currently popular movies.
func (s *Service) Popular(ctx context.Context) ([]MovieRecord, error) {
	return s.listQuery(ctx, "popular", s.client.Popular)
}

// Upcoming returns upcoming theatrical releases.
func (s *Service) Upcoming(ctx context.Context) ([]MovieRecord, error) {
	return s.listQuery(ctx, "upcoming", s.client.Upcoming)
}

// TopRated returns the top rated movies.
func (s *Service) TopRated(ctx context.Context) ([]MovieRecord, error) {
	return s.listQuery(ctx, "top_rated", s.client.TopRated)
}

// Discover returns a page of the general discover feed.
func (s *Service) Discover(ctx context.Context, page int) (*PageResult, error) {
	key := fmt.Sprintf("discover:%d", page)
	return s.pagedQuery(ctx, key, func(ctx context.Context) (*tmdb.Page, error) {
		return s.client.Discover(ctx, page)
	})
}

// ByGenre returns a page of movies for a single genre id.
func (s *Service) ByGenre(ctx context.Context, genreID, page int) (*PageResult, error) {
	key := fmt.Sprintf("genre:%d:%d", genreID, page)
	return s.pagedQuery(ctx, key, func(ctx context.Context) (*tmdb.Page, error) {
		return s.client.ByGenre(ctx, genreID, page)
	})
}

// Search returns a page of free-text search results.
func (s *Service) Search(ctx context.Context, query string, page int) (*PageResult, error) {
	key := fmt.Sprintf("search:%s:%d", query, page)
	return s.pagedQuery(ctx, key, func(ctx context.Context) (*tmdb.Page, error) {
		return s.client.Search(ctx, query, page)
	})
}

// Genres returns the provider's movie genre list.
func (s *Service) Genres(ctx context.Context) ([]tmdb.Genre, error) {
	if cached, ok := s.cache.Get("genres"); ok {
		return cached.([]tmdb.Genre), nil
	}

	genres, err := s.client.Genres(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault("genres", genres)
	return genres, nil
}

// GetMovie returns one normalized movie with full details.
func (s *Service) GetMovie(ctx context.Context, id int) (*MovieRecord, error) {
	key := fmt.Sprintf("movie:%d", id)
	if cached, ok := s.cache.Get(key); ok {
		record := cached.(MovieRecord)
		return &record, nil
	}

	movie, err := s.client.GetMovie(ctx, id)
	if err != nil {
		return nil, err
	}

	record := Normalize(*movie, s.imageBaseURL)
	s.cache.SetDefault(key, record)
	return &record, nil
}

// GetByIDs fetches and normalizes full details for each id. Individual
// failures are dropped from the result, never surfaced.
func (s *Service) GetByIDs(ctx context.Context, ids []int) ([]MovieRecord, error) {
	movies, err := s.client.GetByIDs(ctx, ids, s.cfg.BatchWorkers)
	if err != nil {
		return nil, err
	}
	return NormalizeAll(movies, s.imageBaseURL), nil
}

// IsConfigured reports whether the provider API key is set.
func (s *Service) IsConfigured() bool {
	return s.client.IsConfigured()
}

func (s *Service) listQuery(ctx context.Context, key string, fetch func(context.Context) ([]tmdb.Movie, error)) ([]MovieRecord, error) {
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]MovieRecord), nil
	}

	movies, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	records := NormalizeAll(movies, s.imageBaseURL)
	s.cache.SetDefault(key, records)
	return records, nil
}

func (s *Service) pagedQuery(ctx context.Context, key string, fetch func(context.Context) (*tmdb.Page, error)) (*PageResult, error) {
	if cached, ok := s.cache.Get(key); ok {
		result := cached.(PageResult)
		return &result, nil
	}

	page, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	totalPages := page.TotalPages
	if s.cfg.MaxPages > 0 && totalPages > s.cfg.MaxPages {
		totalPages = s.cfg.MaxPages
	}

	result := PageResult{
		Results:    NormalizeAll(page.Results, s.imageBaseURL),
		TotalPages: totalPages,
	}
	s.cache.SetDefault(key, result)
	return &result, nil
}

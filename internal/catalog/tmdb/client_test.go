package tmdb

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/cinedex/cinedex/internal/config"
)

func newTestClient(server *httptest.Server) *Client {
	cfg := config.TMDBConfig{
		APIKey:       "test-api-key",
		BaseURL:      server.URL,
		ImageBaseURL: "https://image.tmdb.org/t/p/original",
		Timeout:      5,
	}
	return NewClient(cfg, zerolog.Nop())
}

func TestClient_IsConfigured(t *testing.T) {
	tests := []struct {
		name   string
		apiKey string
		want   bool
	}{
		{"with key", "abc123", true},
		{"without key", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient(config.TMDBConfig{APIKey: tt.apiKey}, zerolog.Nop())
			if got := client.IsConfigured(); got != tt.want {
				t.Errorf("IsConfigured() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClient_Trending(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/trending/movie/day" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("api_key") != "test-api-key" {
			t.Errorf("missing api_key parameter")
		}

		json.NewEncoder(w).Encode(PagedResponse{
			Page:       1,
			TotalPages: 1000,
			Results: []Movie{
				{ID: 603, Title: "The Matrix", ReleaseDate: "1999-03-30"},
				{ID: 604, Title: "The Matrix Reloaded", ReleaseDate: "2003-05-15"},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(server)
	results, err := client.Trending(context.Background())
	if err != nil {
		t.Fatalf("Trending() error = %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("Trending() returned %d results, want 2", len(results))
	}
	if results[0].Title != "The Matrix" {
		t.Errorf("results[0].Title = %q, want %q", results[0].Title, "The Matrix")
	}
}

func TestClient_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/movie" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if q := r.URL.Query().Get("query"); q != "Matrix" {
			t.Errorf("unexpected query: %s", q)
		}
		if p := r.URL.Query().Get("page"); p != "2" {
			t.Errorf("unexpected page: %s", p)
		}

		json.NewEncoder(w).Encode(PagedResponse{
			Page:       2,
			TotalPages: 7,
			Results:    []Movie{{ID: 603, Title: "The Matrix"}},
		})
	}))
	defer server.Close()

	client := newTestClient(server)
	page, err := client.Search(context.Background(), "Matrix", 2)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if page.TotalPages != 7 {
		t.Errorf("TotalPages = %d, want 7", page.TotalPages)
	}
	if len(page.Results) != 1 {
		t.Fatalf("Search() returned %d results, want 1", len(page.Results))
	}
}

func TestClient_ByGenre(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/discover/movie" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if g := r.URL.Query().Get("with_genres"); g != "28" {
			t.Errorf("unexpected with_genres: %s", g)
		}

		json.NewEncoder(w).Encode(PagedResponse{
			Page:       1,
			TotalPages: 250,
			Results:    []Movie{{ID: 1, Title: "Action Movie", GenreIDs: []int{28}}},
		})
	}))
	defer server.Close()

	client := newTestClient(server)
	page, err := client.ByGenre(context.Background(), 28, 1)
	if err != nil {
		t.Fatalf("ByGenre() error = %v", err)
	}
	if len(page.Results) != 1 {
		t.Fatalf("ByGenre() returned %d results, want 1", len(page.Results))
	}
}

func TestClient_Search_NoAPIKey(t *testing.T) {
	client := NewClient(config.TMDBConfig{}, zerolog.Nop())
	_, err := client.Search(context.Background(), "Matrix", 1)
	if err != ErrAPIKeyMissing {
		t.Errorf("Search() error = %v, want %v", err, ErrAPIKeyMissing)
	}
}

func TestClient_GetMovie(t *testing.T) {
	poster := "/poster.jpg"
	backdrop := "/backdrop.jpg"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/603" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if a := r.URL.Query().Get("append_to_response"); a != "videos,credits" {
			t.Errorf("unexpected append_to_response: %s", a)
		}

		json.NewEncoder(w).Encode(Movie{
			ID:           603,
			Title:        "The Matrix",
			ReleaseDate:  "1999-03-30",
			Runtime:      136,
			PosterPath:   &poster,
			BackdropPath: &backdrop,
			Genres: []Genre{
				{ID: 28, Name: "Action"},
				{ID: 878, Name: "Science Fiction"},
			},
			Videos: &VideosResponse{
				Results: []Video{
					{Key: "vKQi3bBA1y8", Site: "YouTube", Type: "Trailer"},
				},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(server)
	movie, err := client.GetMovie(context.Background(), 603)
	if err != nil {
		t.Fatalf("GetMovie() error = %v", err)
	}

	if movie.Title != "The Matrix" {
		t.Errorf("Title = %q, want %q", movie.Title, "The Matrix")
	}
	if movie.Runtime != 136 {
		t.Errorf("Runtime = %d, want %d", movie.Runtime, 136)
	}
	if len(movie.Genres) != 2 {
		t.Errorf("Genres = %d, want 2", len(movie.Genres))
	}
	if movie.Videos == nil || len(movie.Videos.Results) != 1 {
		t.Error("Videos should contain one entry")
	}
}

func TestClient_GetMovie_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(ErrorResponse{
			StatusCode:    34,
			StatusMessage: "The resource you requested could not be found.",
		})
	}))
	defer server.Close()

	client := newTestClient(server)
	_, err := client.GetMovie(context.Background(), 99999999)
	if err != ErrMovieNotFound {
		t.Errorf("GetMovie() error = %v, want %v", err, ErrMovieNotFound)
	}
}

func TestClient_GetByIDs_PartialFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/movie/1":
			json.NewEncoder(w).Encode(Movie{ID: 1, Title: "First"})
		case "/movie/2":
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(ErrorResponse{StatusCode: 34})
		case "/movie/3":
			json.NewEncoder(w).Encode(Movie{ID: 3, Title: "Third"})
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := newTestClient(server)
	movies, err := client.GetByIDs(context.Background(), []int{1, 2, 3}, 2)
	if err != nil {
		t.Fatalf("GetByIDs() error = %v", err)
	}

	if len(movies) != 2 {
		t.Fatalf("GetByIDs() returned %d movies, want 2", len(movies))
	}
	if movies[0].ID != 1 || movies[1].ID != 3 {
		t.Errorf("GetByIDs() ids = [%d %d], want [1 3]", movies[0].ID, movies[1].ID)
	}
}

func TestClient_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(ErrorResponse{
			StatusCode:    25,
			StatusMessage: "Your request count is over the allowed limit.",
		})
	}))
	defer server.Close()

	client := newTestClient(server)
	_, err := client.Search(context.Background(), "test", 1)
	if err != ErrRateLimited {
		t.Errorf("Search() error = %v, want %v", err, ErrRateLimited)
	}
}

func TestClient_APIError_CarriesStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server)
	_, err := client.Trending(context.Background())
	if err == nil {
		t.Fatal("Trending() error = nil, want API error")
	}
	if !strings.Contains(err.Error(), "500") {
		t.Errorf("error %q should carry the HTTP status", err)
	}
}

func TestClient_ImageURL(t *testing.T) {
	client := NewClient(config.TMDBConfig{
		ImageBaseURL: "https://image.tmdb.org/t/p/original",
	}, zerolog.Nop())

	tests := []struct {
		path string
		want string
	}{
		{"/abc.jpg", "https://image.tmdb.org/t/p/original/abc.jpg"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := client.ImageURL(tt.path); got != tt.want {
			t.Errorf("ImageURL(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

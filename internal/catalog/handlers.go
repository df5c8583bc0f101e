package catalog

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/cinedex/cinedex/internal/catalog/tmdb"
)

// Handlers exposes the catalog service over HTTP.
type Handlers struct {
	service *Service
}

// NewHandlers creates catalog handlers.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes registers catalog routes on the given group.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.GET("/trending", h.trending)
	g.GET("/popular", h.popular)
	g.GET("/upcoming", h.upcoming)
	g.GET("/top-rated", h.topRated)
	g.GET("/discover", h.discover)
	g.GET("/genres", h.genres)
	g.GET("/genres/:id", h.byGenre)
	g.GET("/search", h.search)
	g.GET("/movies/batch", h.batch)
	g.GET("/movies/:id", h.movie)
}

func (h *Handlers) trending(c echo.Context) error {
	records, err := h.service.Trending(c.Request().Context())
	if err != nil {
		return catalogError(c, err)
	}
	return c.JSON(http.StatusOK, records)
}

func (h *Handlers) popular(c echo.Context) error {
	records, err := h.service.Popular(c.Request().Context())
	if err != nil {
		return catalogError(c, err)
	}
	return c.JSON(http.StatusOK, records)
}

func (h *Handlers) upcoming(c echo.Context) error {
	records, err := h.service.Upcoming(c.Request().Context())
	if err != nil {
		return catalogError(c, err)
	}
	return c.JSON(http.StatusOK, records)
}

func (h *Handlers) topRated(c echo.Context) error {
	records, err := h.service.TopRated(c.Request().Context())
	if err != nil {
		return catalogError(c, err)
	}
	return c.JSON(http.StatusOK, records)
}

func (h *Handlers) discover(c echo.Context) error {
	page := pageParam(c)
	result, err := h.service.Discover(c.Request().Context(), page)
	if err != nil {
		return catalogError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handlers) genres(c echo.Context) error {
	genres, err := h.service.Genres(c.Request().Context())
	if err != nil {
		return catalogError(c, err)
	}
	return c.JSON(http.StatusOK, genres)
}

func (h *Handlers) byGenre(c echo.Context) error {
	genreID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid genre id"})
	}

	result, err := h.service.ByGenre(c.Request().Context(), genreID, pageParam(c))
	if err != nil {
		return catalogError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handlers) search(c echo.Context) error {
	query := c.QueryParam("query")
	if query == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "query is required"})
	}

	result, err := h.service.Search(c.Request().Context(), query, pageParam(c))
	if err != nil {
		return catalogError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handlers) movie(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}

	record, err := h.service.GetMovie(c.Request().Context(), id)
	if err != nil {
		return catalogError(c, err)
	}
	return c.JSON(http.StatusOK, record)
}

func (h *Handlers) batch(c echo.Context) error {
	raw := c.QueryParam("ids")
	if raw == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "ids is required"})
	}

	parts := strings.Split(raw, ",")
	ids := make([]int, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id list"})
		}
		ids = append(ids, id)
	}

	records, err := h.service.GetByIDs(c.Request().Context(), ids)
	if err != nil {
		return catalogError(c, err)
	}
	return c.JSON(http.StatusOK, records)
}

// pageParam parses the page query parameter, defaulting to 1. The value
// is otherwise passed through unvalidated; the remote service rejects
// out-of-range pages.
func pageParam(c echo.Context) int {
	if p := c.QueryParam("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil {
			return parsed
		}
	}
	return 1
}

func catalogError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, tmdb.ErrMovieNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "movie not found"})
	case errors.Is(err, tmdb.ErrAPIKeyMissing):
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "metadata provider is not configured"})
	case errors.Is(err, tmdb.ErrRateLimited):
		return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "metadata provider rate limited"})
	default:
		return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	}
}

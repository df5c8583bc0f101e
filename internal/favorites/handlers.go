package favorites

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/cinedex/cinedex/internal/catalog"
)

// Handlers provides HTTP handlers for favorites management
type Handlers struct {
	service *Service
}

// NewHandlers creates a new Handlers instance
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes registers favorites routes on the provided group
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.GET("", h.List)
	g.POST("", h.Add)
	g.POST("/toggle", h.Toggle)
	g.GET("/:id", h.Contains)
	g.DELETE("/:id", h.Remove)
}

// List returns the favorite collection in insertion order
// GET /api/v1/favorites
func (h *Handlers) List(c echo.Context) error {
	return c.JSON(http.StatusOK, h.service.List())
}

// Add appends a movie to the collection
// POST /api/v1/favorites
func (h *Handlers) Add(c echo.Context) error {
	var movie catalog.MovieRecord
	if err := c.Bind(&movie); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if movie.ID == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "movie id is required"})
	}

	if err := h.service.Add(c.Request().Context(), movie); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

// Toggle flips a movie's membership and reports the resulting state
// POST /api/v1/favorites/toggle
func (h *Handlers) Toggle(c echo.Context) error {
	var movie catalog.MovieRecord
	if err := c.Bind(&movie); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if movie.ID == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "movie id is required"})
	}

	favorited, err := h.service.Toggle(c.Request().Context(), movie)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]bool{"favorited": favorited})
}

// Contains reports whether a movie id is in the collection
// GET /api/v1/favorites/:id
func (h *Handlers) Contains(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	return c.JSON(http.StatusOK, map[string]bool{"favorited": h.service.Contains(id)})
}

// Remove drops a movie from the collection
// DELETE /api/v1/favorites/:id
func (h *Handlers) Remove(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}

	if err := h.service.Remove(c.Request().Context(), id); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

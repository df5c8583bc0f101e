package session

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handlers provides HTTP handlers for the session
type Handlers struct {
	service *Service
}

// NewHandlers creates a new Handlers instance
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes registers session routes on the provided group
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.POST("/login", h.Login)
	g.POST("/logout", h.Logout)
	g.GET("", h.Current)
}

// LoginInput is the request body for signing in
type LoginInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Login signs the user in and returns a session token
// POST /api/v1/session/login
func (h *Handlers) Login(c echo.Context) error {
	var input LoginInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if input.Name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "name is required"})
	}

	token, err := h.service.Login(c.Request().Context(), User{Name: input.Name, Email: input.Email})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  h.service.CurrentUser(),
	})
}

// Logout signs the user out
// POST /api/v1/session/logout
func (h *Handlers) Logout(c echo.Context) error {
	if err := h.service.Logout(c.Request().Context()); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

// Current returns the signed-in user and authentication state
// GET /api/v1/session
func (h *Handlers) Current(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"authenticated": h.service.IsAuthenticated(),
		"user":          h.service.CurrentUser(),
	})
}

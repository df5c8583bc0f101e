package notification

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handlers provides HTTP handlers for the notification center
type Handlers struct {
	service *Service
}

// NewHandlers creates a new Handlers instance
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes registers notification routes on the provided group
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.GET("", h.History)
	g.POST("", h.Publish)
	g.GET("/unread-count", h.UnreadCount)
	g.POST("/mark-all-read", h.MarkAllRead)
	g.DELETE("", h.ClearHistory)
	g.GET("/toasts", h.Toasts)
	g.DELETE("/toasts/:id", h.Dismiss)
}

// History returns the notification history, most recent first
// GET /api/v1/notifications
func (h *Handlers) History(c echo.Context) error {
	return c.JSON(http.StatusOK, h.service.History())
}

// PublishInput is the request body for publishing a notification
type PublishInput struct {
	Message string `json:"message"`
	Type    Type   `json:"type"`
}

// Publish records a new notification and shows it as a toast
// POST /api/v1/notifications
func (h *Handlers) Publish(c echo.Context) error {
	var input PublishInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if input.Message == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "message is required"})
	}

	entry := h.service.Publish(c.Request().Context(), input.Message, input.Type)
	return c.JSON(http.StatusCreated, entry)
}

// UnreadCount returns the number of unread history entries
// GET /api/v1/notifications/unread-count
func (h *Handlers) UnreadCount(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]int{"count": h.service.UnreadCount()})
}

// MarkAllRead flags every history entry as read
// POST /api/v1/notifications/mark-all-read
func (h *Handlers) MarkAllRead(c echo.Context) error {
	h.service.MarkAllRead(c.Request().Context())
	return c.NoContent(http.StatusNoContent)
}

// ClearHistory empties the notification history
// DELETE /api/v1/notifications
func (h *Handlers) ClearHistory(c echo.Context) error {
	h.service.ClearHistory(c.Request().Context())
	return c.NoContent(http.StatusNoContent)
}

// Toasts returns the active toast set
// GET /api/v1/notifications/toasts
func (h *Handlers) Toasts(c echo.Context) error {
	return c.JSON(http.StatusOK, h.service.Active())
}

// Dismiss hides a visible toast early
// DELETE /api/v1/notifications/toasts/:id
func (h *Handlers) Dismiss(c echo.Context) error {
	h.service.Dismiss(c.Param("id"))
	return c.NoContent(http.StatusNoContent)
}

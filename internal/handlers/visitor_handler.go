package handlers

import (
	"net/http"

	"github.com/kjiyu/devlog/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// VisitorHandler handles the site-wide visit counter
type VisitorHandler struct {
	counterService *services.CounterService
}

// NewVisitorHandler creates a new VisitorHandler
func NewVisitorHandler(counterService *services.CounterService) *VisitorHandler {
	return &VisitorHandler{counterService: counterService}
}

// RegisterVisitorRoutes registers visitor routes
func (h *VisitorHandler) RegisterVisitorRoutes(g *echo.Group) {
	g.GET("/visit", h.Visit)
}

// Visit counts a visit and returns the updated counter
func (h *VisitorHandler) Visit(c echo.Context) error {
	visitor, err := h.counterService.Visit(c.Request().Context(), true)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, visitor)
}

package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/kjiyu/devlog/backend/internal/models"
	"github.com/kjiyu/devlog/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	postService *services.PostService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(postService *services.PostService) *CommentHandler {
	return &CommentHandler{postService: postService}
}

// RegisterCommentRoutes registers comment routes on the post group
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.GET("/:id/comments", h.ListComments)
	g.POST("/:id/comments", h.CreateComment)
}

// ListComments returns the comments of a post in posting order
func (h *CommentHandler) ListComments(c echo.Context) error {
	comments, err := h.postService.ListComments(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, comments)
}

// CreateComment records a new comment on a post
func (h *CommentHandler) CreateComment(c echo.Context) error {
	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	comment, err := h.postService.AddComment(c.Request().Context(), c.Param("id"), &req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, comment)
}

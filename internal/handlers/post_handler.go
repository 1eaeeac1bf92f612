package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/kjiyu/devlog/backend/internal/models"
	"github.com/kjiyu/devlog/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postService *services.PostService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postService *services.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// RegisterPostRoutes registers post-related routes. Create and delete need
// an authenticated user; detail, list, edit and likes are open, matching
// the public blog surface.
func (h *PostHandler) RegisterPostRoutes(g *echo.Group, authRequired echo.MiddlewareFunc) {
	g.GET("/list/:id/view", h.ListPosts)
	g.POST("", h.CreatePost, authRequired)
	g.GET("/:id/detail", h.GetPostDetail)
	g.POST("/:id/edit", h.EditPost)
	g.DELETE("/:id", h.DeletePost, authRequired)
	g.POST("/:id/likes", h.ToggleLike)
}

// ListPosts returns the posts of one category, or every post for the "all"
// sentinel, newest first, with the sidebar aggregate.
func (h *PostHandler) ListPosts(c echo.Context) error {
	list, err := h.postService.ListPosts(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, list)
}

// CreatePost publishes a new post under the authenticated user
func (h *PostHandler) CreatePost(c echo.Context) error {
	claims := c.Get("user").(*models.JwtCustomClaims)

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	post, err := h.postService.CreatePost(c.Request().Context(), claims.UserID, &req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, post)
}

// GetPostDetail returns a post with names resolved. Reading the detail
// counts as a view.
func (h *PostHandler) GetPostDetail(c echo.Context) error {
	detail, err := h.postService.GetPostDetail(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, detail)
}

// EditPost updates a post's content fields
func (h *PostHandler) EditPost(c echo.Context) error {
	var req models.EditPostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	post, err := h.postService.EditPost(c.Request().Context(), c.Param("id"), &req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, post)
}

// DeletePost cascade-deletes a post and everything referencing it
func (h *PostHandler) DeletePost(c echo.Context) error {
	claims := c.Get("user").(*models.JwtCustomClaims)

	if err := h.postService.DeletePost(c.Request().Context(), c.Param("id"), claims.UserID); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

// ToggleLike likes or unlikes the post for the given user and returns the
// updated post
func (h *PostHandler) ToggleLike(c echo.Context) error {
	var req models.ToggleLikeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	post, err := h.postService.ToggleLike(c.Request().Context(), c.Param("id"), req.UserID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, post)
}

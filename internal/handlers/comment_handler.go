package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/taleb-app/backend/internal/middleware"
	"github.com/taleb-app/backend/internal/models"
	"github.com/taleb-app/backend/internal/storage"
)

// CommentHandler handles HTTP requests related to comments.
type CommentHandler struct {
	store storage.Storage
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(store storage.Storage) *CommentHandler {
	return &CommentHandler{store: store}
}

// RegisterCommentRoutes registers comment-related routes.
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.GET("/posts/:id/comments", h.GetComments)
	g.POST("/posts/:id/comments", h.CreateComment)
}

// GetComments returns a post's comments oldest-first with authors.
func (h *CommentHandler) GetComments(c echo.Context) error {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post id")
	}

	comments, err := h.store.GetPostComments(c.Request().Context(), postID)
	if err != nil {
		return storageError(err, "Post not found", "Failed to fetch comments")
	}
	return c.JSON(http.StatusOK, comments)
}

// CreateComment adds a comment to a post.
func (h *CommentHandler) CreateComment(c echo.Context) error {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post id")
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	comment, err := h.store.CreateComment(c.Request().Context(), middleware.UserID(c), models.InsertComment{
		PostID:  postID,
		Content: req.Content,
	})
	if err != nil {
		return storageError(err, "Post not found", "Failed to create comment")
	}
	return c.JSON(http.StatusCreated, comment)
}

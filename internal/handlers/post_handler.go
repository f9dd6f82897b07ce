package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/taleb-app/backend/internal/middleware"
	"github.com/taleb-app/backend/internal/models"
	"github.com/taleb-app/backend/internal/storage"
	"github.com/taleb-app/backend/internal/uploads"
)

// PostHandler handles HTTP requests related to posts, including the
// like toggle.
type PostHandler struct {
	store storage.Storage
	files *uploads.Saver
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(store storage.Storage, files *uploads.Saver) *PostHandler {
	return &PostHandler{store: store, files: files}
}

// RegisterPostRoutes registers post-related routes.
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.GET("/posts", h.GetPosts)
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/user/:userId", h.GetUserPosts)
	g.DELETE("/posts/:id", h.DeletePost)
	g.POST("/posts/:id/like", h.ToggleLike)
}

// feedPost is a post augmented with the requesting user's like state.
type feedPost struct {
	models.Post
	IsLiked bool `json:"isLiked"`
}

// GetPosts returns the feed: all posts newest-first with author and
// isLiked for the caller.
func (h *PostHandler) GetPosts(c echo.Context) error {
	userID := middleware.UserID(c)

	posts, err := h.store.GetPosts(c.Request().Context())
	if err != nil {
		return storageError(err, "Posts not found", "Failed to fetch posts")
	}

	feed := make([]feedPost, 0, len(posts))
	for _, post := range posts {
		liked, err := h.store.IsPostLiked(c.Request().Context(), userID, post.ID)
		if err != nil {
			return storageError(err, "Posts not found", "Failed to fetch posts")
		}
		feed = append(feed, feedPost{Post: post, IsLiked: liked})
	}
	return c.JSON(http.StatusOK, feed)
}

// CreatePost creates a post from a multipart form, storing any
// attachments first.
func (h *PostHandler) CreatePost(c echo.Context) error {
	userID := middleware.UserID(c)

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var attachments []string
	if form, err := c.MultipartForm(); err == nil && form != nil {
		attachments, err = h.files.SaveAll(form.File["attachments"])
		if err != nil {
			if errors.Is(err, uploads.ErrFileTooLarge) ||
				errors.Is(err, uploads.ErrUnsupportedType) ||
				errors.Is(err, uploads.ErrTooManyFiles) {
				return echo.NewHTTPError(http.StatusBadRequest, err.Error())
			}
			return storageError(err, "", "Failed to store attachments")
		}
	}

	post, err := h.store.CreatePost(c.Request().Context(), userID, models.InsertPost{
		Content:     req.Content,
		Subject:     req.Subject,
		Type:        req.Type,
		Attachments: attachments,
		Privacy:     req.Privacy,
	})
	if err != nil {
		h.files.Remove(attachments)
		return storageError(err, "Post not found", "Failed to create post")
	}
	return c.JSON(http.StatusCreated, post)
}

// GetUserPosts returns a user's posts newest-first.
func (h *PostHandler) GetUserPosts(c echo.Context) error {
	posts, err := h.store.GetUserPosts(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return storageError(err, "Posts not found", "Failed to fetch user posts")
	}
	return c.JSON(http.StatusOK, posts)
}

// DeletePost deletes a post. Only the author or an admin may delete;
// the post's likes, comments and reports go with it.
func (h *PostHandler) DeletePost(c echo.Context) error {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post id")
	}

	post, err := h.store.GetPost(c.Request().Context(), postID)
	if err != nil {
		return storageError(err, "Post not found", "Failed to fetch post")
	}

	userID := middleware.UserID(c)
	if post.AuthorID != userID {
		user, err := h.store.GetUser(c.Request().Context(), userID)
		if err != nil || !user.IsAdmin() {
			return echo.NewHTTPError(http.StatusForbidden, "Not authorized to delete this post")
		}
	}

	if err := h.store.DeletePost(c.Request().Context(), postID); err != nil {
		return storageError(err, "Post not found", "Failed to delete post")
	}
	h.files.Remove(post.Attachments)

	return c.JSON(http.StatusOK, map[string]string{"message": "Post deleted successfully"})
}

// ToggleLike flips the caller's like on a post and reports the new state.
func (h *PostHandler) ToggleLike(c echo.Context) error {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post id")
	}
	userID := middleware.UserID(c)

	liked, err := h.store.IsPostLiked(c.Request().Context(), userID, postID)
	if err != nil {
		return storageError(err, "Post not found", "Failed to toggle like")
	}

	if liked {
		if err := h.store.UnlikePost(c.Request().Context(), userID, postID); err != nil {
			return storageError(err, "Post not found", "Failed to toggle like")
		}
		return c.JSON(http.StatusOK, map[string]bool{"liked": false})
	}

	if _, err := h.store.LikePost(c.Request().Context(), userID, postID); err != nil {
		return storageError(err, "Post not found", "Failed to toggle like")
	}
	return c.JSON(http.StatusOK, map[string]bool{"liked": true})
}

package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/taleb-app/backend/internal/middleware"
	"github.com/taleb-app/backend/internal/models"
	"github.com/taleb-app/backend/internal/storage"
)

// AuthHandler handles the authenticated-user surface. Actual credential
// checking happens in the auth middleware; this handler only reads and
// syncs the resolved identity against storage.
type AuthHandler struct {
	store storage.Storage
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(store storage.Storage) *AuthHandler {
	return &AuthHandler{store: store}
}

// RegisterPublicRoutes registers the routes that skip authentication.
func (h *AuthHandler) RegisterPublicRoutes(e *echo.Echo) {
	e.GET("/api/login", h.Login)
	e.GET("/api/logout", h.Logout)
}

// RegisterAuthRoutes registers authenticated routes on the api group.
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.GET("/auth/user", h.CurrentUser)
	g.POST("/auth/sync", h.SyncUser)
}

// CurrentUser returns the stored profile of the authenticated caller.
func (h *AuthHandler) CurrentUser(c echo.Context) error {
	userID := middleware.UserID(c)

	user, err := h.store.GetUser(c.Request().Context(), userID)
	if err != nil {
		return storageError(err, "User not found", "Failed to fetch user")
	}
	return c.JSON(http.StatusOK, user)
}

// SyncUser upserts the caller's token claims into the user store. The
// client calls this once after login so the profile exists before any
// other request needs it.
func (h *AuthHandler) SyncUser(c echo.Context) error {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
	}

	// Keep grade, school and role across re-syncs; the token does not
	// carry them.
	data := models.UpsertUser{
		ID:              id.UserID,
		Email:           id.Email,
		FirstName:       id.FirstName,
		LastName:        id.LastName,
		ProfileImageURL: id.ProfileImageURL,
	}
	if existing, err := h.store.GetUser(c.Request().Context(), id.UserID); err == nil {
		data.Grade = existing.Grade
		data.School = existing.School
		data.Role = existing.Role
	}

	user, err := h.store.UpsertUser(c.Request().Context(), data)
	if err != nil {
		return storageError(err, "User not found", "Failed to sync user")
	}
	return c.JSON(http.StatusOK, user)
}

// Login redirects to the app shell; the SPA starts the token flow.
func (h *AuthHandler) Login(c echo.Context) error {
	return c.Redirect(http.StatusFound, "/")
}

// Logout redirects to the app shell; tokens are discarded client-side.
func (h *AuthHandler) Logout(c echo.Context) error {
	return c.Redirect(http.StatusFound, "/")
}

package middleware

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/taleb-app/backend/internal/storage"
)

// RequireAdmin gates a route group to users whose stored role is admin.
// It must run after an auth middleware has set the identity.
func RequireAdmin(store storage.Storage) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := GetIdentity(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
			}

			user, err := store.GetUser(c.Request().Context(), id.UserID)
			if err != nil {
				if errors.Is(err, storage.ErrNotFound) {
					return echo.NewHTTPError(http.StatusForbidden, "Admin access required")
				}
				log.Printf("Error loading user for admin check: %v", err)
				return echo.NewHTTPError(http.StatusInternalServerError, "Failed to verify admin access")
			}
			if !user.IsAdmin() {
				return echo.NewHTTPError(http.StatusForbidden, "Admin access required")
			}
			return next(c)
		}
	}
}

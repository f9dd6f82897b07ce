package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
)

// FirebaseAuth creates an Echo middleware that verifies Firebase ID
// tokens and stores the resolved identity in the context.
func FirebaseAuth(authClient *auth.Client) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header is missing")
			}

			tokenParts := strings.Split(authHeader, " ")
			if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header must be in Bearer format")
			}

			token, err := authClient.VerifyIDToken(c.Request().Context(), tokenParts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, fmt.Sprintf("Invalid or expired ID token: %v", err))
			}

			SetIdentity(c, identityFromToken(token))
			return next(c)
		}
	}
}

func identityFromToken(token *auth.Token) Identity {
	id := Identity{UserID: token.UID}
	id.Email, _ = token.Claims["email"].(string)
	id.FirstName, _ = token.Claims["first_name"].(string)
	id.LastName, _ = token.Claims["last_name"].(string)
	id.ProfileImageURL, _ = token.Claims["picture"].(string)
	if id.FirstName == "" {
		// Firebase usually carries a single display name claim.
		id.FirstName, _ = token.Claims["name"].(string)
	}
	return id
}

package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/taleb-app/backend/internal/models"
)

// mockIdentity is the identity assumed for requests without a token in
// development mode. It matches the seeded development student account.
var mockIdentity = Identity{
	UserID:          "student-1",
	Email:           "student@example.com",
	FirstName:       "أحمد",
	LastName:        "محمد",
	ProfileImageURL: "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?ixlib=rb-4.0.3&auto=format&fit=crop&w=100&h=100",
}

// DevAuth creates an Echo middleware for development: a bearer token,
// when present, must be a valid HS256 dev token carrying AuthClaims;
// a request without a token runs as the seeded mock student.
func DevAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				SetIdentity(c, mockIdentity)
				return next(c)
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header must be in Bearer format")
			}

			claims := &models.AuthClaims{}
			token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.NewHTTPError(http.StatusUnauthorized, "Unexpected signing method")
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			SetIdentity(c, Identity{
				UserID:          claims.Subject,
				Email:           claims.Email,
				FirstName:       claims.FirstName,
				LastName:        claims.LastName,
				ProfileImageURL: claims.ProfileImageURL,
			})
			return next(c)
		}
	}
}

// SignDevToken mints a dev token for the given claims, valid for 24h.
// Used by tests and local tooling to act as a specific user.
func SignDevToken(secret string, claims models.AuthClaims) (string, error) {
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(24 * time.Hour))
	claims.IssuedAt = jwt.NewNumericDate(time.Now())
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

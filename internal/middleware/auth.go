package middleware

import "github.com/labstack/echo/v4"

// identityKey is the echo context key under which the auth middlewares
// store the caller's identity.
const identityKey = "identity"

// Identity is the authenticated caller as resolved from the bearer
// token. UserID is the token's subject and doubles as the User primary
// key in storage.
type Identity struct {
	UserID          string
	Email           string
	FirstName       string
	LastName        string
	ProfileImageURL string
}

// SetIdentity stores the caller identity in the request context.
func SetIdentity(c echo.Context, id Identity) {
	c.Set(identityKey, id)
}

// GetIdentity returns the caller identity stored by the auth middleware.
func GetIdentity(c echo.Context) (Identity, bool) {
	id, ok := c.Get(identityKey).(Identity)
	return id, ok
}

// UserID returns the authenticated user's id, or "" when the request
// did not pass through an auth middleware.
func UserID(c echo.Context) string {
	id, _ := GetIdentity(c)
	return id.UserID
}

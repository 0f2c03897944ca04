package middleware

// identity.go defines the verified-identity value object handed to the
// core operations. JWTAuth fills the context; FromContext assembles the
// Identity so handlers never touch the token layer directly.

import "github.com/labstack/echo/v4"

// Identity is the authenticated principal derived from a verified
// bearer token. It is passed by value into handlers; bookings are
// always recorded under these fields, never under payload-claimed
// name/email values.
type Identity struct {
	UserID   uint64
	Username string
	Email    string
}

// FromContext returns the Identity stored by JWTAuth. The second
// return value is false when the request was not authenticated (e.g.
// the middleware did not run for this route).
func FromContext(c echo.Context) (Identity, bool) {
	uid, ok := c.Get(ctxUserID).(uint64)
	if !ok || uid == 0 {
		return Identity{}, false
	}
	username, _ := c.Get(ctxUsername).(string)
	email, _ := c.Get(ctxEmail).(string)
	if username == "" || email == "" {
		return Identity{}, false
	}
	return Identity{UserID: uid, Username: username, Email: email}, true
}

// SetIdentity stores an identity in the context the same way JWTAuth
// does. It exists for tests and internal tooling that invoke handlers
// without the full middleware chain.
func SetIdentity(c echo.Context, id Identity) {
	c.Set(ctxUserID, id.UserID)
	c.Set(ctxUsername, id.Username)
	c.Set(ctxEmail, id.Email)
}

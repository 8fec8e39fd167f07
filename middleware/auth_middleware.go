package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/wandero/wanderobackend/httperr"
	"github.com/wandero/wanderobackend/models"
	"github.com/wandero/wanderobackend/store"
	"github.com/wandero/wanderobackend/token"
)

// userKey is where Protect parks the authenticated user on the request
// context. Handlers read it through CurrentUser only.
const userKey = "currentUser"

// SessionCookieName is the cookie the session token travels in when the
// client does not send an Authorization header.
const SessionCookieName = "jwt"

// extractToken prefers the Authorization header and falls back to the
// session cookie.
func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := c.Cookie(SessionCookieName); err == nil {
		return cookie
	}
	return ""
}

// Protect rejects requests without a valid, fresh session and attaches
// the owning user to the context for downstream handlers.
func Protect(users store.UserStore, tokens *token.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := extractToken(c)
		if raw == "" {
			abort(c, httperr.NotAuthenticated("you are not logged in, please log in to get access"))
			return
		}

		sess, err := tokens.Verify(raw)
		if err != nil {
			abort(c, httperr.NotAuthenticated("invalid or expired token, please log in again"))
			return
		}

		id, err := bson.ObjectIDFromHex(sess.UserID)
		if err != nil {
			abort(c, httperr.NotAuthenticated("invalid or expired token, please log in again"))
			return
		}

		user, err := users.GetByID(c.Request.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			abort(c, httperr.NotAuthenticated("the user belonging to this token no longer exists"))
			return
		}
		if err != nil {
			abort(c, httperr.Internal(err))
			return
		}

		if user.ChangedPasswordAfter(sess.IssuedAt) {
			abort(c, httperr.NotAuthenticated("password was changed recently, please log in again"))
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// RestrictTo allows only the given roles past. It must be mounted after
// Protect; a request without an authenticated user is rejected outright.
func RestrictTo(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			abort(c, httperr.NotAuthenticated("you are not logged in, please log in to get access"))
			return
		}
		if !user.HasRole(roles...) {
			abort(c, httperr.Forbidden("you do not have permission to perform this action"))
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user Protect attached to the request.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}

// abort records the failure for the error renderer and stops the chain.
func abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

package controllers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/wandero/wanderobackend/config"
	"github.com/wandero/wanderobackend/httperr"
	"github.com/wandero/wanderobackend/mailer"
	"github.com/wandero/wanderobackend/models"
	"github.com/wandero/wanderobackend/store"
	"github.com/wandero/wanderobackend/token"
	"github.com/wandero/wanderobackend/utils"
)

// App bundles what the handlers need. Everything arrives through this
// struct, handlers never reach for globals or the environment.
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	Users    store.UserStore
	Tours    store.TourStore
	Bookings store.BookingStore
	Tokens   *token.Service
	Mail     mailer.Mailer
}

// abort records the failure for the error renderer and stops the chain.
func abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// bindError converts a binding failure into a 400 with a message naming
// the first offending field.
func bindError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return httperr.BadRequest(validationMessage(verrs[0]))
	}
	return httperr.BadRequest("invalid request body")
}

func validationMessage(fe validator.FieldError) string {
	field := fe.Field()
	if field != "" {
		field = strings.ToLower(field[:1]) + field[1:]
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("please provide %s", field)
	case "email":
		return "please provide a valid email"
	case "min":
		return fmt.Sprintf("%s must have at least %s characters", field, fe.Param())
	case "eqfield":
		return "passwords do not match"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "ltfield":
		return fmt.Sprintf("%s must be below the regular price", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// requestScheme mirrors how the original deployment sits behind a TLS
// terminating proxy: trust the forwarded proto, otherwise look at the
// connection itself.
func requestScheme(c *gin.Context) string {
	if proto := c.GetHeader("X-Forwarded-Proto"); proto == "https" {
		return "https"
	}
	if c.Request.TLS != nil {
		return "https"
	}
	return "http"
}

// setSessionCookie writes the token cookie. Secure is only set when the
// request actually arrived over HTTPS so local HTTP clients still get a
// usable cookie.
func setSessionCookie(c *gin.Context, value string, maxAge time.Duration) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     "jwt",
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   requestScheme(c) == "https",
		SameSite: http.SameSiteLaxMode,
	})
}

// sendToken issues a fresh session for the user and answers with the
// token plus the sanitized user, the shape every auth success shares.
func sendToken(c *gin.Context, app *App, user *models.User, status int) {
	signed, err := app.Tokens.Issue(user.ID.Hex())
	if err != nil {
		abort(c, httperr.Internal(err))
		return
	}

	setSessionCookie(c, signed, app.Config.CookieExpires)

	user.PasswordHash = ""
	c.JSON(status, gin.H{
		"status": "success",
		"token":  signed,
		"data":   gin.H{"user": user},
	})
}

// pagination reads page and limit query params with sane bounds.
func pagination(c *gin.Context, defaultLimit, maxLimit int) (page, limit int64) {
	p := utils.ParseIntDefault(c.Query("page"), 1)
	if p < 1 {
		p = 1
	}
	l := utils.ParseIntDefault(c.Query("limit"), defaultLimit)
	if l < 1 {
		l = defaultLimit
	}
	if l > maxLimit {
		l = maxLimit
	}
	return int64(p), int64(l)
}

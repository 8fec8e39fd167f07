package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wandero/wanderobackend/dto"
	"github.com/wandero/wanderobackend/httperr"
	"github.com/wandero/wanderobackend/mailer"
	"github.com/wandero/wanderobackend/middleware"
	"github.com/wandero/wanderobackend/models"
	"github.com/wandero/wanderobackend/store"
	"github.com/wandero/wanderobackend/token"
	"github.com/wandero/wanderobackend/utils"
)

// dummyHash is a real bcrypt digest ("password"). Login verifies against
// it when the account does not exist so both failure paths burn the same
// bcrypt work and answer identically.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

func Signup(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.SignupDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			abort(c, bindError(err))
			return
		}

		hash, err := utils.HashPassword(body.Password)
		if err != nil {
			abort(c, httperr.Internal(err))
			return
		}

		user := models.User{
			Name:         strings.TrimSpace(body.Name),
			Email:        utils.NormalizeEmail(body.Email),
			Role:         models.RoleUser,
			PasswordHash: hash,
			Active:       true,
		}
		if err := app.Users.Create(c.Request.Context(), &user); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				abort(c, httperr.BadRequest("an account with this email already exists"))
				return
			}
			abort(c, httperr.Internal(err))
			return
		}

		app.Logger.InfoContext(c.Request.Context(), "user signed up", "user_id", user.ID.Hex())
		sendToken(c, app, &user, http.StatusCreated)
	}
}

func Login(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.LoginDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			abort(c, httperr.BadRequest("please provide email and password"))
			return
		}

		user, err := app.Users.GetByEmailWithPassword(c.Request.Context(), utils.NormalizeEmail(body.Email))
		if errors.Is(err, store.ErrNotFound) {
			_ = utils.CheckPassword(dummyHash, body.Password)
			abort(c, httperr.NotAuthenticated("incorrect email or password"))
			return
		}
		if err != nil {
			abort(c, httperr.Internal(err))
			return
		}

		if err := utils.CheckPassword(user.PasswordHash, body.Password); err != nil {
			abort(c, httperr.NotAuthenticated("incorrect email or password"))
			return
		}

		sendToken(c, app, user, http.StatusOK)
	}
}

func Logout(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		setSessionCookie(c, "loggedout", 10*time.Second)
		c.JSON(http.StatusOK, gin.H{"status": "success"})
	}
}

func ForgotPassword(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.ForgotPasswordDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			abort(c, bindError(err))
			return
		}

		ctx := c.Request.Context()
		user, err := app.Users.GetByEmail(ctx, utils.NormalizeEmail(body.Email))
		if errors.Is(err, store.ErrNotFound) {
			abort(c, httperr.NotFound("there is no user with that email address"))
			return
		}
		if err != nil {
			abort(c, httperr.Internal(err))
			return
		}

		raw, digest, expires, err := token.GenerateResetSecret()
		if err != nil {
			abort(c, httperr.Internal(err))
			return
		}
		if err := app.Users.SetResetToken(ctx, user.ID, digest, expires); err != nil {
			abort(c, httperr.Internal(err))
			return
		}

		resetURL := fmt.Sprintf("%s://%s/api/v1/users/resetPassword/%s", requestScheme(c), c.Request.Host, raw)
		if err := app.Mail.Send(ctx, mailer.ResetMessage(user.Email, resetURL)); err != nil {
			// The secret is undeliverable, withdraw it before reporting.
			if clearErr := app.Users.ClearResetToken(ctx, user.ID); clearErr != nil {
				app.Logger.ErrorContext(ctx, "clearing undelivered reset token",
					"error", clearErr.Error(), "user_id", user.ID.Hex())
			}
			abort(c, httperr.EmailDelivery(err, "there was an error sending the email, try again later"))
			return
		}

		app.Logger.InfoContext(ctx, "password reset requested", "user_id", user.ID.Hex())
		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "token sent to email"})
	}
}

func ResetPassword(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.ResetPasswordDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			abort(c, bindError(err))
			return
		}

		ctx := c.Request.Context()
		digest := token.HashResetSecret(c.Param("token"))
		user, err := app.Users.GetByResetToken(ctx, digest, time.Now())
		if errors.Is(err, store.ErrNotFound) {
			abort(c, httperr.InvalidToken("token is invalid or has expired"))
			return
		}
		if err != nil {
			abort(c, httperr.Internal(err))
			return
		}

		hash, err := utils.HashPassword(body.Password)
		if err != nil {
			abort(c, httperr.Internal(err))
			return
		}

		// Backdate by a second so the session issued right below does not
		// read as older than the change.
		changedAt := time.Now().Add(-time.Second)
		if err := app.Users.UpdatePassword(ctx, user.ID, hash, changedAt); err != nil {
			abort(c, httperr.Internal(err))
			return
		}

		app.Logger.InfoContext(ctx, "password reset completed", "user_id", user.ID.Hex())
		sendToken(c, app, user, http.StatusCreated)
	}
}

func UpdatePassword(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		me, ok := middleware.CurrentUser(c)
		if !ok {
			abort(c, httperr.NotAuthenticated("you are not logged in, please log in to get access"))
			return
		}

		var body dto.UpdatePasswordDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			abort(c, bindError(err))
			return
		}

		ctx := c.Request.Context()
		user, err := app.Users.GetByIDWithPassword(ctx, me.ID)
		if errors.Is(err, store.ErrNotFound) {
			abort(c, httperr.NotAuthenticated("the user belonging to this token no longer exists"))
			return
		}
		if err != nil {
			abort(c, httperr.Internal(err))
			return
		}

		if err := utils.CheckPassword(user.PasswordHash, body.PasswordCurrent); err != nil {
			abort(c, httperr.NotAuthenticated("your current password is wrong"))
			return
		}

		hash, err := utils.HashPassword(body.Password)
		if err != nil {
			abort(c, httperr.Internal(err))
			return
		}

		changedAt := time.Now().Add(-time.Second)
		if err := app.Users.UpdatePassword(ctx, user.ID, hash, changedAt); err != nil {
			abort(c, httperr.Internal(err))
			return
		}

		app.Logger.InfoContext(ctx, "password updated", "user_id", user.ID.Hex())
		sendToken(c, app, user, http.StatusCreated)
	}
}

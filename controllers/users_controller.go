package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/wandero/wanderobackend/dto"
	"github.com/wandero/wanderobackend/httperr"
	"github.com/wandero/wanderobackend/middleware"
	"github.com/wandero/wanderobackend/models"
	"github.com/wandero/wanderobackend/store"
	"github.com/wandero/wanderobackend/utils"
)

// GET /users/me
func GetMe() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			abort(c, httperr.NotAuthenticated("you are not logged in, please log in to get access"))
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "data": gin.H{"user": user}})
	}
}

// PATCH /users/updateMe
func UpdateMe(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		me, ok := middleware.CurrentUser(c)
		if !ok {
			abort(c, httperr.NotAuthenticated("you are not logged in, please log in to get access"))
			return
		}

		var body dto.UpdateMeDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			abort(c, bindError(err))
			return
		}
		if body.Password != "" || body.PasswordConfirm != "" {
			abort(c, httperr.BadRequest("this route is not for password updates, please use /updateMyPassword"))
			return
		}

		update := store.UserProfileUpdate{Photo: body.Photo}
		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				abort(c, httperr.BadRequest("name cannot be empty"))
				return
			}
			update.Name = &name
		}
		if body.Email != nil {
			email := utils.NormalizeEmail(*body.Email)
			update.Email = &email
		}

		user, err := app.Users.UpdateProfile(c.Request.Context(), me.ID, update)
		if errors.Is(err, store.ErrDuplicate) {
			abort(c, httperr.BadRequest("an account with this email already exists"))
			return
		}
		if errors.Is(err, store.ErrNotFound) {
			abort(c, httperr.NotAuthenticated("the user belonging to this token no longer exists"))
			return
		}
		if err != nil {
			abort(c, httperr.Internal(err))
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "success", "data": gin.H{"user": user}})
	}
}

// DELETE /users/deleteMe
//
// Accounts are deactivated, not erased; reads stop returning them but the
// documents stay for bookkeeping.
func DeleteMe(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		me, ok := middleware.CurrentUser(c)
		if !ok {
			abort(c, httperr.NotAuthenticated("you are not logged in, please log in to get access"))
			return
		}

		if err := app.Users.Deactivate(c.Request.Context(), me.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
			abort(c, httperr.Internal(err))
			return
		}

		c.Status(http.StatusNoContent)
	}
}

// GET /users
func ListUsers(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit := pagination(c, 20, 100)

		users, total, err := app.Users.List(c.Request.Context(), page, limit)
		if err != nil {
			abort(c, httperr.Internal(err))
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "success",
			"results": len(users),
			"total":   total,
			"data":    gin.H{"users": users},
		})
	}
}

// GET /users/:id
func GetUser(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			abort(c, httperr.BadRequest("invalid user id"))
			return
		}

		user, err := app.Users.GetByID(c.Request.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			abort(c, httperr.NotFound("no user found with that id"))
			return
		}
		if err != nil {
			abort(c, httperr.Internal(err))
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "success", "data": gin.H{"user": user}})
	}
}

// PATCH /users/:id
//
// Never touches credentials; those only move through the password flows.
func UpdateUser(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			abort(c, httperr.BadRequest("invalid user id"))
			return
		}

		var body dto.UpdateUserDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			abort(c, bindError(err))
			return
		}

		update := store.UserAdminUpdate{Name: body.Name, Active: body.Active}
		if body.Email != nil {
			email := utils.NormalizeEmail(*body.Email)
			update.Email = &email
		}
		if body.Role != nil {
			role := models.Role(*body.Role)
			update.Role = &role
		}

		user, err := app.Users.UpdateByAdmin(c.Request.Context(), id, update)
		if errors.Is(err, store.ErrNotFound) {
			abort(c, httperr.NotFound("no user found with that id"))
			return
		}
		if errors.Is(err, store.ErrDuplicate) {
			abort(c, httperr.BadRequest("an account with this email already exists"))
			return
		}
		if err != nil {
			abort(c, httperr.Internal(err))
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "success", "data": gin.H{"user": user}})
	}
}

// DELETE /users/:id
func DeleteUser(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			abort(c, httperr.BadRequest("invalid user id"))
			return
		}

		err = app.Users.Delete(c.Request.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			abort(c, httperr.NotFound("no user found with that id"))
			return
		}
		if err != nil {
			abort(c, httperr.Internal(err))
			return
		}

		c.Status(http.StatusNoContent)
	}
}

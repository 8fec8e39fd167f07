// Package routes mounts every endpoint the API serves.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/wandero/wanderobackend/controllers"
	"github.com/wandero/wanderobackend/middleware"
	"github.com/wandero/wanderobackend/models"
)

func Register(r *gin.Engine, app *controllers.App, limiter *middleware.RateLimiter) {
	r.GET("/healthz", controllers.Healthz())

	protect := middleware.Protect(app.Users, app.Tokens)

	api := r.Group("/api/v1")
	api.Use(limiter.Middleware())

	users := api.Group("/users")
	{
		users.POST("/signup", controllers.Signup(app))
		users.POST("/login", controllers.Login(app))
		users.POST("/logout", controllers.Logout(app))
		users.POST("/forgotPassword", controllers.ForgotPassword(app))
		users.PATCH("/resetPassword/:token", controllers.ResetPassword(app))

		users.GET("/me", protect, controllers.GetMe())
		users.PATCH("/updateMyPassword", protect, controllers.UpdatePassword(app))
		users.PATCH("/updateMe", protect, controllers.UpdateMe(app))
		users.DELETE("/deleteMe", protect, controllers.DeleteMe(app))

		admin := users.Group("")
		admin.Use(protect, middleware.RestrictTo(models.RoleAdmin))
		{
			admin.GET("", controllers.ListUsers(app))
			admin.GET("/:id", controllers.GetUser(app))
			admin.PATCH("/:id", controllers.UpdateUser(app))
			admin.DELETE("/:id", controllers.DeleteUser(app))
		}
	}

	tours := api.Group("/tours")
	{
		tours.GET("", controllers.GetTours(app))
		tours.GET("/top-5-cheap", controllers.GetTopCheapTours(app))
		tours.GET("/:id", controllers.GetTour(app))

		staff := tours.Group("")
		staff.Use(protect, middleware.RestrictTo(models.RoleAdmin, models.RoleLeadGuide))
		{
			staff.POST("", controllers.CreateTour(app))
			staff.PATCH("/:id", controllers.UpdateTour(app))
			staff.DELETE("/:id", controllers.DeleteTour(app))
		}
	}

	bookings := api.Group("/bookings")
	bookings.Use(protect)
	{
		bookings.GET("/my", controllers.GetMyBookings(app))

		staff := bookings.Group("")
		staff.Use(middleware.RestrictTo(models.RoleAdmin, models.RoleLeadGuide))
		{
			staff.GET("", controllers.ListBookings(app))
			staff.GET("/:id", controllers.GetBooking(app))
			staff.POST("", controllers.CreateBooking(app))
		}
	}
}

package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/wandero/wanderobackend/dto"
	"github.com/wandero/wanderobackend/httperr"
	"github.com/wandero/wanderobackend/middleware"
	"github.com/wandero/wanderobackend/models"
	"github.com/wandero/wanderobackend/store"
)

// GET /bookings/my
func GetMyBookings(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		me, ok := middleware.CurrentUser(c)
		if !ok {
			abort(c, httperr.NotAuthenticated("you are not logged in, please log in to get access"))
			return
		}

		bookings, err := app.Bookings.ListByUser(c.Request.Context(), me.ID)
		if err != nil {
			abort(c, httperr.Internal(err))
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "success",
			"results": len(bookings),
			"data":    gin.H{"bookings": bookings},
		})
	}
}

// GET /bookings
func ListBookings(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit := pagination(c, 20, 100)

		bookings, total, err := app.Bookings.List(c.Request.Context(), page, limit)
		if err != nil {
			abort(c, httperr.Internal(err))
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "success",
			"results": len(bookings),
			"total":   total,
			"data":    gin.H{"bookings": bookings},
		})
	}
}

// GET /bookings/:id
func GetBooking(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			abort(c, httperr.BadRequest("invalid booking id"))
			return
		}

		booking, err := app.Bookings.GetByID(c.Request.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			abort(c, httperr.NotFound("no booking found with that id"))
			return
		}
		if err != nil {
			abort(c, httperr.Internal(err))
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "success", "data": gin.H{"booking": booking}})
	}
}

// POST /bookings
//
// Manual entry for offline sales. The price defaults to the tour's
// current price when the caller does not name one.
func CreateBooking(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.CreateBookingDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			abort(c, bindError(err))
			return
		}

		tourID, err := bson.ObjectIDFromHex(body.Tour)
		if err != nil {
			abort(c, httperr.BadRequest("invalid tour id"))
			return
		}
		userID, err := bson.ObjectIDFromHex(body.User)
		if err != nil {
			abort(c, httperr.BadRequest("invalid user id"))
			return
		}

		ctx := c.Request.Context()
		tour, err := app.Tours.GetByID(ctx, tourID)
		if errors.Is(err, store.ErrNotFound) {
			abort(c, httperr.NotFound("no tour found with that id"))
			return
		}
		if err != nil {
			abort(c, httperr.Internal(err))
			return
		}

		if _, err := app.Users.GetByID(ctx, userID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				abort(c, httperr.NotFound("no user found with that id"))
				return
			}
			abort(c, httperr.Internal(err))
			return
		}

		booking := models.Booking{
			TourID: tourID,
			UserID: userID,
			Price:  tour.Price,
			Paid:   true,
		}
		if body.Price != nil {
			booking.Price = *body.Price
		}
		if body.Paid != nil {
			booking.Paid = *body.Paid
		}

		if err := app.Bookings.Create(ctx, &booking); err != nil {
			abort(c, httperr.Internal(err))
			return
		}

		c.JSON(http.StatusCreated, gin.H{"status": "success", "data": gin.H{"booking": booking}})
	}
}

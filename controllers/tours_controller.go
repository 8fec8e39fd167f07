package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/wandero/wanderobackend/dto"
	"github.com/wandero/wanderobackend/httperr"
	"github.com/wandero/wanderobackend/models"
	"github.com/wandero/wanderobackend/store"
	"github.com/wandero/wanderobackend/utils"
)

// sortableTourFields is the whitelist for the sort query param; anything
// else is silently dropped rather than handed to the database.
var sortableTourFields = map[string]bool{
	"price":          true,
	"ratingsAverage": true,
	"createdAt":      true,
	"name":           true,
	"duration":       true,
	"maxGroupSize":   true,
}

func parseTourSort(param string) []string {
	var fields []string
	for _, f := range strings.Split(param, ",") {
		f = strings.TrimSpace(f)
		name := strings.TrimPrefix(f, "-")
		if sortableTourFields[name] {
			fields = append(fields, f)
		}
	}
	return fields
}

// GET /tours
func GetTours(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit := pagination(c, 20, 100)

		opts := store.ListToursOptions{
			Page:  page,
			Limit: limit,
			Sort:  parseTourSort(c.Query("sort")),
		}
		if d := models.Difficulty(strings.TrimSpace(c.Query("difficulty"))); d != "" {
			opts.Difficulty = d
		}
		if raw := c.Query("maxPrice"); raw != "" {
			price, err := strconv.ParseFloat(raw, 64)
			if err != nil || price <= 0 {
				abort(c, httperr.BadRequest("maxPrice must be a positive number"))
				return
			}
			opts.MaxPrice = price
		}

		tours, total, err := app.Tours.List(c.Request.Context(), opts)
		if err != nil {
			abort(c, httperr.Internal(err))
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "success",
			"results": len(tours),
			"total":   total,
			"data":    gin.H{"tours": tours},
		})
	}
}

// GET /tours/top-5-cheap
//
// Preset listing: the five best-rated tours, cheapest first among equals.
func GetTopCheapTours(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		opts := store.ListToursOptions{
			Page:  1,
			Limit: 5,
			Sort:  []string{"-ratingsAverage", "price"},
		}

		tours, _, err := app.Tours.List(c.Request.Context(), opts)
		if err != nil {
			abort(c, httperr.Internal(err))
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "success",
			"results": len(tours),
			"data":    gin.H{"tours": tours},
		})
	}
}

// GET /tours/:id
//
// Accepts either an object id or a slug, the public site links by slug.
func GetTour(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		param := c.Param("id")

		var (
			tour *models.Tour
			err  error
		)
		if id, idErr := bson.ObjectIDFromHex(param); idErr == nil {
			tour, err = app.Tours.GetByID(c.Request.Context(), id)
		} else {
			tour, err = app.Tours.GetBySlug(c.Request.Context(), param)
		}
		if errors.Is(err, store.ErrNotFound) {
			abort(c, httperr.NotFound("no tour found with that id"))
			return
		}
		if err != nil {
			abort(c, httperr.Internal(err))
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "success", "data": gin.H{"tour": tour}})
	}
}

// POST /tours
func CreateTour(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.CreateTourDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			abort(c, bindError(err))
			return
		}

		tour := models.Tour{
			Name:           strings.TrimSpace(body.Name),
			Slug:           utils.GenerateSlug(body.Name),
			Duration:       body.Duration,
			MaxGroupSize:   body.MaxGroupSize,
			Difficulty:     models.Difficulty(body.Difficulty),
			Price:          body.Price,
			PriceDiscount:  body.PriceDiscount,
			Summary:        strings.TrimSpace(body.Summary),
			Description:    body.Description,
			RatingsAverage: 4.5,
			StartDates:     body.StartDates,
		}

		if err := app.Tours.Create(c.Request.Context(), &tour); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				abort(c, httperr.BadRequest("a tour with this name already exists"))
				return
			}
			abort(c, httperr.Internal(err))
			return
		}

		c.JSON(http.StatusCreated, gin.H{"status": "success", "data": gin.H{"tour": tour}})
	}
}

// PATCH /tours/:id
func UpdateTour(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			abort(c, httperr.BadRequest("invalid tour id"))
			return
		}

		var body dto.UpdateTourDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			abort(c, bindError(err))
			return
		}

		update := store.TourUpdate{
			Duration:      body.Duration,
			MaxGroupSize:  body.MaxGroupSize,
			Price:         body.Price,
			PriceDiscount: body.PriceDiscount,
			Summary:       body.Summary,
			Description:   body.Description,
			StartDates:    body.StartDates,
		}
		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			slug := utils.GenerateSlug(name)
			update.Name = &name
			update.Slug = &slug
		}
		if body.Difficulty != nil {
			difficulty := models.Difficulty(*body.Difficulty)
			update.Difficulty = &difficulty
		}

		tour, err := app.Tours.Update(c.Request.Context(), id, update)
		if errors.Is(err, store.ErrNotFound) {
			abort(c, httperr.NotFound("no tour found with that id"))
			return
		}
		if errors.Is(err, store.ErrDuplicate) {
			abort(c, httperr.BadRequest("a tour with this name already exists"))
			return
		}
		if err != nil {
			abort(c, httperr.Internal(err))
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "success", "data": gin.H{"tour": tour}})
	}
}

// DELETE /tours/:id
func DeleteTour(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			abort(c, httperr.BadRequest("invalid tour id"))
			return
		}

		err = app.Tours.Delete(c.Request.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			abort(c, httperr.NotFound("no tour found with that id"))
			return
		}
		if err != nil {
			abort(c, httperr.Internal(err))
			return
		}

		c.Status(http.StatusNoContent)
	}
}

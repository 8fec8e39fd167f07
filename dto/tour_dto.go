package dto

import "time"

type CreateTourDTO struct {
	Name          string      `json:"name" binding:"required,min=3"`
	Duration      int         `json:"duration" binding:"required,gt=0"`
	MaxGroupSize  int         `json:"maxGroupSize" binding:"required,gt=0"`
	Difficulty    string      `json:"difficulty" binding:"required,oneof=easy medium difficult"`
	Price         float64     `json:"price" binding:"required,gt=0"`
	PriceDiscount float64     `json:"priceDiscount" binding:"omitempty,ltfield=Price"`
	Summary       string      `json:"summary" binding:"required"`
	Description   string      `json:"description"`
	StartDates    []time.Time `json:"startDates"`
}

type UpdateTourDTO struct {
	Name          *string      `json:"name" binding:"omitempty,min=3"`
	Duration      *int         `json:"duration" binding:"omitempty,gt=0"`
	MaxGroupSize  *int         `json:"maxGroupSize" binding:"omitempty,gt=0"`
	Difficulty    *string      `json:"difficulty" binding:"omitempty,oneof=easy medium difficult"`
	Price         *float64     `json:"price" binding:"omitempty,gt=0"`
	PriceDiscount *float64     `json:"priceDiscount"`
	Summary       *string      `json:"summary"`
	Description   *string      `json:"description"`
	StartDates    *[]time.Time `json:"startDates"`
}

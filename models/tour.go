package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Difficulty string

const (
	DifficultyEasy      Difficulty = "easy"
	DifficultyMedium    Difficulty = "medium"
	DifficultyDifficult Difficulty = "difficult"
)

type Tour struct {
	ID              bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name            string        `bson:"name" json:"name"`
	Slug            string        `bson:"slug" json:"slug"`
	Duration        int           `bson:"duration" json:"duration"`
	MaxGroupSize    int           `bson:"maxGroupSize" json:"maxGroupSize"`
	Difficulty      Difficulty    `bson:"difficulty" json:"difficulty"`
	Price           float64       `bson:"price" json:"price"`
	PriceDiscount   float64       `bson:"priceDiscount,omitempty" json:"priceDiscount,omitempty"`
	Summary         string        `bson:"summary" json:"summary"`
	Description     string        `bson:"description,omitempty" json:"description,omitempty"`
	RatingsAverage  float64       `bson:"ratingsAverage" json:"ratingsAverage"`
	RatingsQuantity int           `bson:"ratingsQuantity" json:"ratingsQuantity"`
	StartDates      []time.Time   `bson:"startDates,omitempty" json:"startDates,omitempty"`
	CreatedAt       time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time     `bson:"updatedAt" json:"updatedAt"`
}

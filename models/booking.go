package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Booking struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	TourID    bson.ObjectID `bson:"tourId" json:"tourId"`
	UserID    bson.ObjectID `bson:"userId" json:"userId"`
	Price     float64       `bson:"price" json:"price"`
	Paid      bool          `bson:"paid" json:"paid"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
}

package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/wandero/wanderobackend/models"
	"github.com/wandero/wanderobackend/store"
)

type BookingStore struct {
	col *mongo.Collection
}

func NewBookingStore(col *mongo.Collection) *BookingStore {
	return &BookingStore{col: col}
}

func (s *BookingStore) Create(ctx context.Context, booking *models.Booking) error {
	booking.CreatedAt = time.Now().UTC()

	res, err := s.col.InsertOne(ctx, booking)
	if err != nil {
		return fmt.Errorf("inserting booking: %w", err)
	}
	if id, ok := res.InsertedID.(bson.ObjectID); ok {
		booking.ID = id
	}
	return nil
}

func (s *BookingStore) GetByID(ctx context.Context, id bson.ObjectID) (*models.Booking, error) {
	var booking models.Booking
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("finding booking: %w", err)
	}
	return &booking, nil
}

func (s *BookingStore) ListByUser(ctx context.Context, userID bson.ObjectID) ([]models.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := s.col.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("listing bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := make([]models.Booking, 0)
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("decoding bookings: %w", err)
	}
	return bookings, nil
}

func (s *BookingStore) List(ctx context.Context, page, limit int64) ([]models.Booking, int64, error) {
	total, err := s.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("counting bookings: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("listing bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := make([]models.Booking, 0, limit)
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, 0, fmt.Errorf("decoding bookings: %w", err)
	}
	return bookings, total, nil
}

package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// Connect opens a single client for the whole process and confirms the
// deployment is reachable before anything else starts.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}
	return client, nil
}

// Collections groups the handles the stores are built on.
type Collections struct {
	Users    *mongo.Collection
	Tours    *mongo.Collection
	Bookings *mongo.Collection
}

func NewCollections(client *mongo.Client, databaseName string) *Collections {
	db := client.Database(databaseName)
	return &Collections{
		Users:    db.Collection("users"),
		Tours:    db.Collection("tours"),
		Bookings: db.Collection("bookings"),
	}
}

// EnsureIndexes creates the indexes the queries rely on. Mongo treats
// existing identical indexes as a no-op, so this is safe on every boot.
func EnsureIndexes(ctx context.Context, cols *Collections) error {
	_, err := cols.Users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "passwordResetToken", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	})
	if err != nil {
		return fmt.Errorf("creating user indexes: %w", err)
	}

	_, err = cols.Tours.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "price", Value: 1}, {Key: "ratingsAverage", Value: -1}},
		},
	})
	if err != nil {
		return fmt.Errorf("creating tour indexes: %w", err)
	}

	_, err = cols.Bookings.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
		},
	})
	if err != nil {
		return fmt.Errorf("creating booking indexes: %w", err)
	}
	return nil
}

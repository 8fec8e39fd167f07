package utils

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/wandero/wanderobackend/models"
)

// SeedAdminUser makes sure an administrator account exists. The upsert
// only writes on first boot; an existing account is never touched, so a
// rotated admin password survives restarts.
func SeedAdminUser(ctx context.Context, usersCol *mongo.Collection, email, password string) (bool, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return false, fmt.Errorf("admin email and password must both be set")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("hashing admin password: %w", err)
	}

	now := time.Now().UTC()

	filter := bson.M{"email": email}
	update := bson.M{
		"$setOnInsert": bson.M{
			"name":         "Administrator",
			"email":        email,
			"passwordHash": hash,
			"role":         models.RoleAdmin,
			"active":       true,
			"createdAt":    now,
			"updatedAt":    now,
		},
	}

	opts := options.UpdateOne().SetUpsert(true)

	res, err := usersCol.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return false, fmt.Errorf("seeding admin user: %w", err)
	}
	return res.UpsertedCount == 1, nil
}

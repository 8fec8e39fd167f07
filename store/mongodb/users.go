// Package mongodb implements the store interfaces on MongoDB collections.
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
	"github.com/wandero/wanderobackend/utils"
)

type UserStore struct {
	col *mongo.Collection
}

func NewUserStore(col *mongo.Collection) *UserStore {
	return &UserStore{col: col}
}

// active narrows a filter to accounts that were not deactivated. Legacy
// documents without the flag still match.
func active(filter bson.M) bson.M {
	filter["active"] = bson.M{"$ne": false}
	return filter
}

func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	res, err := s.col.InsertOne(ctx, user)
	if err != nil {
		if utils.IsDuplicateKey(err) {
			return store.ErrDuplicate
		}
		return fmt.Errorf("inserting user: %w", err)
	}
	if id, ok := res.InsertedID.(bson.ObjectID); ok {
		user.ID = id
	}
	return nil
}

func (s *UserStore) getOne(ctx context.Context, filter bson.M, withPassword bool) (*models.User, error) {
	opts := options.FindOne()
	if !withPassword {
		opts.SetProjection(bson.M{"passwordHash": 0})
	}

	var user models.User
	err := s.col.FindOne(ctx, filter, opts).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("finding user: %w", err)
	}
	return &user, nil
}

func (s *UserStore) GetByID(ctx context.Context, id bson.ObjectID) (*models.User, error) {
	return s.getOne(ctx, active(bson.M{"_id": id}), false)
}

func (s *UserStore) GetByIDWithPassword(ctx context.Context, id bson.ObjectID) (*models.User, error) {
	return s.getOne(ctx, active(bson.M{"_id": id}), true)
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getOne(ctx, active(bson.M{"email": email}), false)
}

func (s *UserStore) GetByEmailWithPassword(ctx context.Context, email string) (*models.User, error) {
	return s.getOne(ctx, active(bson.M{"email": email}), true)
}

func (s *UserStore) GetByResetToken(ctx context.Context, digest string, now time.Time) (*models.User, error) {
	filter := active(bson.M{
		"passwordResetToken":   digest,
		"passwordResetExpires": bson.M{"$gt": now},
	})
	return s.getOne(ctx, filter, false)
}

func (s *UserStore) SetResetToken(ctx context.Context, id bson.ObjectID, digest string, expires time.Time) error {
	update := bson.M{"$set": bson.M{
		"passwordResetToken":   digest,
		"passwordResetExpires": expires,
		"updatedAt":            time.Now().UTC(),
	}}
	res, err := s.col.UpdateByID(ctx, id, update)
	if err != nil {
		return fmt.Errorf("storing reset token: %w", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *UserStore) ClearResetToken(ctx context.Context, id bson.ObjectID) error {
	update := bson.M{
		"$unset": bson.M{"passwordResetToken": "", "passwordResetExpires": ""},
		"$set":   bson.M{"updatedAt": time.Now().UTC()},
	}
	res, err := s.col.UpdateByID(ctx, id, update)
	if err != nil {
		return fmt.Errorf("clearing reset token: %w", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *UserStore) UpdatePassword(ctx context.Context, id bson.ObjectID, passwordHash string, changedAt time.Time) error {
	update := bson.M{
		"$set": bson.M{
			"passwordHash":      passwordHash,
			"passwordChangedAt": changedAt,
			"updatedAt":         time.Now().UTC(),
		},
		"$unset": bson.M{"passwordResetToken": "", "passwordResetExpires": ""},
	}
	res, err := s.col.UpdateByID(ctx, id, update)
	if err != nil {
		return fmt.Errorf("updating password: %w", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *UserStore) UpdateProfile(ctx context.Context, id bson.ObjectID, update store.UserProfileUpdate) (*models.User, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Email != nil {
		set["email"] = *update.Email
	}
	if update.Photo != nil {
		set["photo"] = *update.Photo
	}
	return s.findOneAndUpdate(ctx, id, bson.M{"$set": set})
}

func (s *UserStore) UpdateByAdmin(ctx context.Context, id bson.ObjectID, update store.UserAdminUpdate) (*models.User, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Email != nil {
		set["email"] = *update.Email
	}
	if update.Role != nil {
		set["role"] = *update.Role
	}
	if update.Active != nil {
		set["active"] = *update.Active
	}
	return s.findOneAndUpdate(ctx, id, bson.M{"$set": set})
}

func (s *UserStore) findOneAndUpdate(ctx context.Context, id bson.ObjectID, update bson.M) (*models.User, error) {
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"passwordHash": 0})

	var user models.User
	err := s.col.FindOneAndUpdate(ctx, active(bson.M{"_id": id}), update, opts).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		if utils.IsDuplicateKey(err) {
			return nil, store.ErrDuplicate
		}
		return nil, fmt.Errorf("updating user: %w", err)
	}
	return &user, nil
}

func (s *UserStore) Deactivate(ctx context.Context, id bson.ObjectID) error {
	update := bson.M{"$set": bson.M{"active": false, "updatedAt": time.Now().UTC()}}
	res, err := s.col.UpdateByID(ctx, id, update)
	if err != nil {
		return fmt.Errorf("deactivating user: %w", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *UserStore) List(ctx context.Context, page, limit int64) ([]models.User, int64, error) {
	filter := active(bson.M{})

	total, err := s.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("counting users: %w", err)
	}

	opts := options.Find().
		SetProjection(bson.M{"passwordHash": 0}).
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("listing users: %w", err)
	}
	defer cursor.Close(ctx)

	users := make([]models.User, 0, limit)
	if err := cursor.All(ctx, &users); err != nil {
		return nil, 0, fmt.Errorf("decoding users: %w", err)
	}
	return users, total, nil
}

func (s *UserStore) Delete(ctx context.Context, id bson.ObjectID) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

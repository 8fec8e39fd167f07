package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/wandero/wanderobackend/models"
	"github.com/wandero/wanderobackend/store"
	"github.com/wandero/wanderobackend/utils"
)

type TourStore struct {
	col *mongo.Collection
}

func NewTourStore(col *mongo.Collection) *TourStore {
	return &TourStore{col: col}
}

func (s *TourStore) Create(ctx context.Context, tour *models.Tour) error {
	now := time.Now().UTC()
	tour.CreatedAt = now
	tour.UpdatedAt = now

	res, err := s.col.InsertOne(ctx, tour)
	if err != nil {
		if utils.IsDuplicateKey(err) {
			return store.ErrDuplicate
		}
		return fmt.Errorf("inserting tour: %w", err)
	}
	if id, ok := res.InsertedID.(bson.ObjectID); ok {
		tour.ID = id
	}
	return nil
}

func (s *TourStore) getOne(ctx context.Context, filter bson.M) (*models.Tour, error) {
	var tour models.Tour
	err := s.col.FindOne(ctx, filter).Decode(&tour)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("finding tour: %w", err)
	}
	return &tour, nil
}

func (s *TourStore) GetByID(ctx context.Context, id bson.ObjectID) (*models.Tour, error) {
	return s.getOne(ctx, bson.M{"_id": id})
}

func (s *TourStore) GetBySlug(ctx context.Context, slug string) (*models.Tour, error) {
	return s.getOne(ctx, bson.M{"slug": slug})
}

// BuildTourFilter translates listing options into a query document.
func BuildTourFilter(opts store.ListToursOptions) bson.M {
	filter := bson.M{}
	if opts.Difficulty != "" {
		filter["difficulty"] = opts.Difficulty
	}
	if opts.MaxPrice > 0 {
		filter["price"] = bson.M{"$lte": opts.MaxPrice}
	}
	return filter
}

// BuildSort maps "-field" entries to a descending sort, falling back to
// newest-first when nothing was requested.
func BuildSort(fields []string) bson.D {
	spec := bson.D{}
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		order := 1
		if strings.HasPrefix(f, "-") {
			order = -1
			f = strings.TrimPrefix(f, "-")
		}
		spec = append(spec, bson.E{Key: f, Value: order})
	}
	if len(spec) == 0 {
		spec = bson.D{{Key: "createdAt", Value: -1}}
	}
	return spec
}

func (s *TourStore) List(ctx context.Context, opts store.ListToursOptions) ([]models.Tour, int64, error) {
	filter := BuildTourFilter(opts)

	total, err := s.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("counting tours: %w", err)
	}

	findOpts := options.Find().
		SetSort(BuildSort(opts.Sort)).
		SetSkip((opts.Page - 1) * opts.Limit).
		SetLimit(opts.Limit)

	cursor, err := s.col.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, 0, fmt.Errorf("listing tours: %w", err)
	}
	defer cursor.Close(ctx)

	tours := make([]models.Tour, 0, opts.Limit)
	if err := cursor.All(ctx, &tours); err != nil {
		return nil, 0, fmt.Errorf("decoding tours: %w", err)
	}
	return tours, total, nil
}

func (s *TourStore) Update(ctx context.Context, id bson.ObjectID, update store.TourUpdate) (*models.Tour, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Slug != nil {
		set["slug"] = *update.Slug
	}
	if update.Duration != nil {
		set["duration"] = *update.Duration
	}
	if update.MaxGroupSize != nil {
		set["maxGroupSize"] = *update.MaxGroupSize
	}
	if update.Difficulty != nil {
		set["difficulty"] = *update.Difficulty
	}
	if update.Price != nil {
		set["price"] = *update.Price
	}
	if update.PriceDiscount != nil {
		set["priceDiscount"] = *update.PriceDiscount
	}
	if update.Summary != nil {
		set["summary"] = *update.Summary
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.StartDates != nil {
		set["startDates"] = *update.StartDates
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var tour models.Tour
	err := s.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&tour)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		if utils.IsDuplicateKey(err) {
			return nil, store.ErrDuplicate
		}
		return nil, fmt.Errorf("updating tour: %w", err)
	}
	return &tour, nil
}

func (s *TourStore) Delete(ctx context.Context, id bson.ObjectID) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("deleting tour: %w", err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Package store declares the persistence interfaces the handlers depend
// on. Implementations live in store/mongodb; tests substitute in-memory
// fakes. Lookup misses and uniqueness violations surface as the sentinel
// errors below so callers can branch without knowing the backend.
package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/wandero/wanderobackend/models"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate key")
)

// UserProfileUpdate patches the self-service profile fields.
type UserProfileUpdate struct {
	Name  *string
	Email *string
	Photo *string
}

// UserAdminUpdate patches the fields only administrators may touch.
// Credentials are deliberately absent; passwords change through the
// dedicated password operations only.
type UserAdminUpdate struct {
	Name   *string
	Email  *string
	Role   *models.Role
	Active *bool
}

// UserStore persists accounts and their credential state.
//
// Reads exclude deactivated accounts and, unless the method name says
// otherwise, do not load the password hash.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id bson.ObjectID) (*models.User, error)
	GetByIDWithPassword(ctx context.Context, id bson.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByEmailWithPassword(ctx context.Context, email string) (*models.User, error)

	// GetByResetToken resolves the stored reset digest, misses when the
	// digest is unknown or the expiry is not after now.
	GetByResetToken(ctx context.Context, digest string, now time.Time) (*models.User, error)
	SetResetToken(ctx context.Context, id bson.ObjectID, digest string, expires time.Time) error
	ClearResetToken(ctx context.Context, id bson.ObjectID) error

	// UpdatePassword swaps the hash, stamps the change time and discards
	// any outstanding reset token in the same write.
	UpdatePassword(ctx context.Context, id bson.ObjectID, passwordHash string, changedAt time.Time) error

	UpdateProfile(ctx context.Context, id bson.ObjectID, update UserProfileUpdate) (*models.User, error)
	Deactivate(ctx context.Context, id bson.ObjectID) error

	List(ctx context.Context, page, limit int64) ([]models.User, int64, error)
	UpdateByAdmin(ctx context.Context, id bson.ObjectID, update UserAdminUpdate) (*models.User, error)
	Delete(ctx context.Context, id bson.ObjectID) error
}

// TourUpdate patches tour fields; nil members stay untouched.
type TourUpdate struct {
	Name          *string
	Slug          *string
	Duration      *int
	MaxGroupSize  *int
	Difficulty    *models.Difficulty
	Price         *float64
	PriceDiscount *float64
	Summary       *string
	Description   *string
	StartDates    *[]time.Time
}

// ListToursOptions narrows and orders a tour listing. Sort holds field
// names, "-" prefixed for descending, in priority order.
type ListToursOptions struct {
	Page       int64
	Limit      int64
	Sort       []string
	Difficulty models.Difficulty
	MaxPrice   float64
}

type TourStore interface {
	Create(ctx context.Context, tour *models.Tour) error
	GetByID(ctx context.Context, id bson.ObjectID) (*models.Tour, error)
	GetBySlug(ctx context.Context, slug string) (*models.Tour, error)
	List(ctx context.Context, opts ListToursOptions) ([]models.Tour, int64, error)
	Update(ctx context.Context, id bson.ObjectID, update TourUpdate) (*models.Tour, error)
	Delete(ctx context.Context, id bson.ObjectID) error
}

type BookingStore interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id bson.ObjectID) (*models.Booking, error)
	ListByUser(ctx context.Context, userID bson.ObjectID) ([]models.Booking, error)
	List(ctx context.Context, page, limit int64) ([]models.Booking, int64, error)
}

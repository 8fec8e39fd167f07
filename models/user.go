package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleGuide     Role = "guide"
	RoleLeadGuide Role = "lead-guide"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleGuide, RoleLeadGuide, RoleAdmin:
		return true
	}
	return false
}

// User is an account with credentials. The hash, the reset fields and the
// active flag never leave the process; json tags keep them out of every
// response no matter which handler serializes the struct.
type User struct {
	ID                   bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name                 string        `bson:"name" json:"name"`
	Email                string        `bson:"email" json:"email"`
	Photo                string        `bson:"photo,omitempty" json:"photo,omitempty"`
	Role                 Role          `bson:"role" json:"role"`
	PasswordHash         string        `bson:"passwordHash,omitempty" json:"-"` // never expose
	PasswordChangedAt    *time.Time    `bson:"passwordChangedAt,omitempty" json:"-"`
	PasswordResetToken   *string       `bson:"passwordResetToken,omitempty" json:"-"` // sha256 digest, not the raw secret
	PasswordResetExpires *time.Time    `bson:"passwordResetExpires,omitempty" json:"-"`
	Active               bool          `bson:"active" json:"-"`
	CreatedAt            time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt            time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// ChangedPasswordAfter reports whether the password changed after a
// session token was issued. Both sides compare in whole seconds because
// that is all the issued-at claim carries.
func (u *User) ChangedPasswordAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	return u.PasswordChangedAt.Unix() > issuedAt.Unix()
}

// HasRole reports whether the user holds one of the given roles.
func (u *User) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

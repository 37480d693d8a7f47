// internal/domain/models/credential.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LoginCredential authenticates one member. This is the single canonical
// shape that replaces the legacy pair of login collections (serNo-keyed
// `login` and the free-text `users` collection with its dozen field
// spellings); the store layer maps legacy documents into this shape on read.
//
// Username and Email are stored lowercased; both carry unique indexes so
// the approval workflow's duplicate-credential guard is a plain lookup.
type LoginCredential struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MemberSerNo int                `bson:"member_ser_no" json:"memberSerNo"`

	Username     string `bson:"username" json:"username"`
	Email        string `bson:"email,omitempty" json:"email,omitempty"`
	PasswordHash string `bson:"password_hash" json:"-"`

	Role     string `bson:"role" json:"role"` // user | admin | dba
	IsActive bool   `bson:"is_active" json:"isActive"`

	LastLogin      *time.Time `bson:"last_login,omitempty" json:"lastLogin,omitempty"`
	FailedAttempts int        `bson:"failed_attempts,omitempty" json:"-"`
	LockUntil      *time.Time `bson:"lock_until,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// Locked reports whether the credential is currently locked out.
func (c LoginCredential) Locked(now time.Time) bool {
	return c.LockUntil != nil && now.Before(*c.LockUntil)
}

// internal/app/store/credentials/credentialstore.go
package credentialstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/kinhub/internal/app/system/normalize"
	"github.com/dalemusser/kinhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	// Lockout thresholds for repeated failed sign-ins.
	maxFailedAttempts = 5
	lockoutDuration   = 15 * time.Minute
)

var (
	// ErrNotFound is returned when no credential matches the lookup.
	ErrNotFound = errors.New("credential not found")

	// ErrDuplicate is returned when an insert collides with the unique
	// username or email index.
	ErrDuplicate = errors.New("a credential with this username or email already exists")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("logins")}
}

// Insert writes a new credential. Username and email are lowercased so
// the unique indexes compare apples to apples.
func (s *Store) Insert(ctx context.Context, cred models.LoginCredential) (models.LoginCredential, error) {
	if cred.ID.IsZero() {
		cred.ID = primitive.NewObjectID()
	}
	cred.Username = normalize.Username(cred.Username)
	cred.Email = normalize.Email(cred.Email)
	cred.Role = normalize.Role(cred.Role)

	now := time.Now().UTC()
	cred.CreatedAt = now
	cred.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, cred); err != nil {
		if wafflemongo.IsDup(err) {
			return models.LoginCredential{}, ErrDuplicate
		}
		return models.LoginCredential{}, err
	}
	return cred, nil
}

// GetByUsername looks a credential up by username or email; sign-in
// accepts either.
func (s *Store) GetByUsername(ctx context.Context, username string) (*models.LoginCredential, error) {
	u := normalize.Username(username)
	var cred models.LoginCredential
	err := s.c.FindOne(ctx, bson.M{"$or": bson.A{
		bson.M{"username": u},
		bson.M{"email": normalize.Email(username)},
	}}).Decode(&cred)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cred, nil
}

// GetByMemberSerNo loads the credential tied to a member record.
func (s *Store) GetByMemberSerNo(ctx context.Context, serNo int) (*models.LoginCredential, error) {
	var cred models.LoginCredential
	err := s.c.FindOne(ctx, bson.M{"member_ser_no": serNo}).Decode(&cred)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cred, nil
}

// ExistsForEmail reports whether any credential already carries this
// email. The approval workflow uses it as the duplicate-credential guard.
func (s *Store) ExistsForEmail(ctx context.Context, email string) (bool, error) {
	e := normalize.Email(email)
	if e == "" {
		return false, nil
	}
	n, err := s.c.CountDocuments(ctx, bson.M{"email": e})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// RecordFailure bumps the failed-attempt counter and, once the threshold
// is reached, locks the credential for the lockout window.
func (s *Store) RecordFailure(ctx context.Context, id primitive.ObjectID) error {
	now := time.Now().UTC()

	var cred models.LoginCredential
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{
			"$inc": bson.M{"failed_attempts": 1},
			"$set": bson.M{"updated_at": now},
		}).Decode(&cred)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return err
	}

	// FindOneAndUpdate returns the pre-update document.
	if cred.FailedAttempts+1 >= maxFailedAttempts {
		until := now.Add(lockoutDuration)
		_, err = s.c.UpdateOne(ctx,
			bson.M{"_id": id},
			bson.M{"$set": bson.M{"lock_until": until, "updated_at": now}})
		return err
	}
	return nil
}

// RecordSuccess clears the failure state and stamps last_login.
func (s *Store) RecordSuccess(ctx context.Context, id primitive.ObjectID) error {
	now := time.Now().UTC()
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{
			"$set":   bson.M{"last_login": now, "failed_attempts": 0, "updated_at": now},
			"$unset": bson.M{"lock_until": ""},
		})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdatePassword replaces the stored hash.
func (s *Store) UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"password_hash": hash, "updated_at": time.Now().UTC()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearExpiredLocks unsets lock_until and resets the failure counter on
// every credential whose lockout window has passed. Returns the number
// of credentials cleaned.
func (s *Store) ClearExpiredLocks(ctx context.Context) (int64, error) {
	now := time.Now().UTC()
	res, err := s.c.UpdateMany(ctx,
		bson.M{"lock_until": bson.M{"$lte": now}},
		bson.M{
			"$set":   bson.M{"failed_attempts": 0, "updated_at": now},
			"$unset": bson.M{"lock_until": ""},
		})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// SetRole changes the role on an existing credential.
func (s *Store) SetRole(ctx context.Context, id primitive.ObjectID, role string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"role": normalize.Role(role), "updated_at": time.Now().UTC()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByMemberSerNo removes the credential tied to a member, if any.
// Used both by the approval rollback and by member deletion; a missing
// credential is not an error in either case.
func (s *Store) DeleteByMemberSerNo(ctx context.Context, serNo int) error {
	_, err := s.c.DeleteMany(ctx, bson.M{"member_ser_no": serNo})
	return err
}

// Count returns the total number of credentials.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

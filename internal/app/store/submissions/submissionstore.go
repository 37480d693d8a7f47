// internal/app/store/submissions/submissionstore.go
package submissionstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/kinhub/internal/app/system/normalize"
	"github.com/dalemusser/kinhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when no submission matches the id.
	ErrNotFound = errors.New("submission not found")

	// ErrNotPending is returned by the conditional status transitions
	// when the submission exists but has already left the pending state.
	ErrNotPending = errors.New("submission is not pending")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("pending_submissions")}
}

// Insert stages a new registration in the pending state.
func (s *Store) Insert(ctx context.Context, sub models.PendingSubmission) (models.PendingSubmission, error) {
	if sub.ID.IsZero() {
		sub.ID = primitive.NewObjectID()
	}
	if sub.Kind == "" {
		sub.Kind = models.KindHierarchyForm
	}
	sub.Status = models.StatusPending
	sub.Form.FirstName = normalize.Name(sub.Form.FirstName)
	sub.Form.MiddleName = normalize.Name(sub.Form.MiddleName)
	sub.Form.LastName = normalize.Name(sub.Form.LastName)
	sub.Form.Email = normalize.Email(sub.Form.Email)
	sub.Form.VanshNumber = normalize.VanshNumber(sub.Form.VanshNumber)

	now := time.Now().UTC()
	if sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = now
	}
	sub.CreatedAt = now
	sub.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, sub); err != nil {
		return models.PendingSubmission{}, err
	}
	return sub, nil
}

// GetByID loads one submission.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.PendingSubmission, error) {
	var sub models.PendingSubmission
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&sub); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}

// ListQuery filters and pages the submission list.
type ListQuery struct {
	Kind   models.SubmissionKind
	Status models.SubmissionStatus
	Skip   int64
	Limit  int64
}

// List returns a page of submissions (newest first) plus the unpaged total.
func (s *Store) List(ctx context.Context, q ListQuery) ([]models.PendingSubmission, int64, error) {
	filter := bson.M{}
	if q.Kind != "" {
		filter["kind"] = q.Kind
	}
	if q.Status != "" {
		filter["status"] = q.Status
	}

	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "submitted_at", Value: -1}})
	if q.Skip > 0 {
		opts.SetSkip(q.Skip)
	}
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var out []models.PendingSubmission
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// CountByStatus returns the number of submissions in the given state,
// optionally narrowed to one kind.
func (s *Store) CountByStatus(ctx context.Context, kind models.SubmissionKind, status models.SubmissionStatus) (int64, error) {
	filter := bson.M{"status": status}
	if kind != "" {
		filter["kind"] = kind
	}
	return s.c.CountDocuments(ctx, filter)
}

// MarkApproved flips a pending submission to approved, stamping the
// reviewer, timestamp, and the minted member serNo. The update matches
// only documents still in the pending state, so a concurrent or repeated
// approval observes ErrNotPending instead of double-stamping.
func (s *Store) MarkApproved(ctx context.Context, id primitive.ObjectID, reviewer, comments string, memberSerNo int, at time.Time) error {
	return s.transition(ctx, id, bson.M{
		"status":            models.StatusApproved,
		"reviewed_by":       reviewer,
		"reviewed_at":       at,
		"approval_comments": comments,
		"member_ser_no":     memberSerNo,
		"updated_at":        at,
	})
}

// MarkRejected flips a pending submission to rejected with the reviewer's
// reason. Same conditional semantics as MarkApproved.
func (s *Store) MarkRejected(ctx context.Context, id primitive.ObjectID, reviewer, reason string, at time.Time) error {
	return s.transition(ctx, id, bson.M{
		"status":           models.StatusRejected,
		"reviewed_by":      reviewer,
		"reviewed_at":      at,
		"rejection_reason": reason,
		"updated_at":       at,
	})
}

// Revert returns an already-decided submission to pending, clearing the
// reviewer stamps and the minted serNo. Deleting a member that an
// approval minted re-queues its submission through this.
func (s *Store) Revert(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{
			"$set": bson.M{"status": models.StatusPending, "updated_at": time.Now().UTC()},
			"$unset": bson.M{
				"reviewed_by":       "",
				"reviewed_at":       "",
				"approval_comments": "",
				"rejection_reason":  "",
				"member_ser_no":     "",
			},
		})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) transition(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.StatusPending},
		bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Distinguish a vanished submission from one that already left
		// the pending state.
		n, err := s.c.CountDocuments(ctx, bson.M{"_id": id})
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		return ErrNotPending
	}
	return nil
}

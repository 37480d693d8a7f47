// internal/app/store/events/eventstore.go
package eventstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/kinhub/internal/domain/models"
	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when no event matches the id.
var ErrNotFound = errors.New("event not found")

var sanitizer = bluemonday.UGCPolicy()

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("events")}
}

// Insert writes a new event, sanitizing the description markup.
func (s *Store) Insert(ctx context.Context, e models.Event) (models.Event, error) {
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	e.Title = sanitizer.Sanitize(e.Title)
	e.Description = sanitizer.Sanitize(e.Description)

	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, e); err != nil {
		return models.Event{}, err
	}
	return e, nil
}

// GetByID loads one event.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Event, error) {
	var e models.Event
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// ListQuery filters the event list.
type ListQuery struct {
	Vansh         string // limit to events visible to this vansh; empty = admin view
	AllVanshOnly  bool   // limit to events visible to every vansh
	PublishedOnly bool
	UpcomingOnly  bool // event_date >= now
	Skip          int64
	Limit         int64
}

// List returns a page of events ordered by event date (soonest first for
// upcoming queries, newest first otherwise) plus the unpaged total.
func (s *Store) List(ctx context.Context, q ListQuery) ([]models.Event, int64, error) {
	filter := bson.M{}
	if q.PublishedOnly {
		filter["is_published"] = true
	}
	if q.UpcomingOnly {
		filter["event_date"] = bson.M{"$gte": time.Now().UTC()}
	}
	if q.Vansh != "" {
		filter["$or"] = bson.A{
			bson.M{"visible_to_all_vansh": true},
			bson.M{"visible_vansh_numbers": q.Vansh},
		}
	} else if q.AllVanshOnly {
		filter["visible_to_all_vansh"] = true
	}

	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	order := -1
	if q.UpcomingOnly {
		order = 1
	}
	opts := options.Find().SetSort(bson.D{{Key: "event_date", Value: order}})
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

	var out []models.Event
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Update replaces the editable fields of an event.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, e models.Event) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"title":                 sanitizer.Sanitize(e.Title),
			"description":           sanitizer.Sanitize(e.Description),
			"event_date":            e.EventDate,
			"location":              e.Location,
			"is_published":          e.IsPublished,
			"visible_to_all_vansh":  e.VisibleToAllVansh,
			"visible_vansh_numbers": e.VisibleVanshNumbers,
			"updated_at":            time.Now().UTC(),
		}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an event.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

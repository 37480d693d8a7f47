// internal/app/store/news/newsstore.go
package newsstore

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

// ErrNotFound is returned when no article matches the id.
var ErrNotFound = errors.New("news article not found")

// Article bodies may carry markup; it is sanitized once, on write.
var sanitizer = bluemonday.UGCPolicy()

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("news")}
}

// Insert writes a new article, sanitizing the HTML content.
func (s *Store) Insert(ctx context.Context, n models.News) (models.News, error) {
	if n.ID.IsZero() {
		n.ID = primitive.NewObjectID()
	}
	n.Title = sanitizer.Sanitize(n.Title)
	n.Content = sanitizer.Sanitize(n.Content)
	n.Summary = sanitizer.Sanitize(n.Summary)

	now := time.Now().UTC()
	if n.DatePosted.IsZero() {
		n.DatePosted = now
	}
	n.CreatedAt = now
	n.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, n); err != nil {
		return models.News{}, err
	}
	return n, nil
}

// GetByID loads one article.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.News, error) {
	var n models.News
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&n); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &n, nil
}

// ListQuery filters the article list.
type ListQuery struct {
	// Vansh limits results to articles visible to this vansh. Empty
	// means no vansh filter (admin view).
	Vansh string
	// AllVanshOnly limits results to articles marked visible to every
	// vansh, for callers without a vansh of their own.
	AllVanshOnly  bool
	PublishedOnly bool
	Category      string
	Skip          int64
	Limit         int64
}

// List returns a page of articles, newest first, plus the unpaged total.
func (s *Store) List(ctx context.Context, q ListQuery) ([]models.News, int64, error) {
	filter := bson.M{}
	if q.PublishedOnly {
		filter["is_published"] = true
	}
	if q.Category != "" {
		filter["category"] = q.Category
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

	opts := options.Find().SetSort(bson.D{{Key: "date_posted", Value: -1}})
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

	var out []models.News
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Update replaces the editable fields of an article.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, n models.News) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"title":                 sanitizer.Sanitize(n.Title),
			"content":               sanitizer.Sanitize(n.Content),
			"summary":               sanitizer.Sanitize(n.Summary),
			"category":              n.Category,
			"priority":              n.Priority,
			"tags":                  n.Tags,
			"is_published":          n.IsPublished,
			"publish_date":          n.PublishDate,
			"visible_to_all_vansh":  n.VisibleToAllVansh,
			"visible_vansh_numbers": n.VisibleVanshNumbers,
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

// Delete removes an article.
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

// internal/app/store/members/memberstore.go
package memberstore

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/dalemusser/kinhub/internal/app/system/normalize"
	"github.com/dalemusser/kinhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when no member matches the lookup.
	ErrNotFound = errors.New("member not found")

	// ErrDuplicateSerNo is returned when an insert collides with the
	// unique serNo index. The approval workflow treats this as "allocate
	// again and retry".
	ErrDuplicateSerNo = errors.New("a member with this serNo already exists")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("members")}
}

// GetBySerNo loads one member. Legacy documents (camelCase keys, string
// serNos, fields nested under personalDetails) are normalized on read.
func (s *Store) GetBySerNo(ctx context.Context, serNo int) (*models.Member, error) {
	var doc bson.M
	err := s.c.FindOne(ctx, serNoFilter(serNo)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	m := memberFromDoc(doc)
	return &m, nil
}

// ListAll returns every member, normalized. Relationship computation
// needs the full set; the registry is a few thousand documents at most.
func (s *Store) ListAll(ctx context.Context) ([]models.Member, error) {
	cur, err := s.c.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Member
	for cur.Next(ctx) {
		var doc bson.M
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, memberFromDoc(doc))
	}
	return out, cur.Err()
}

// ListQuery filters and pages the member list.
type ListQuery struct {
	Search string // folded prefix/substring match on name, exact on email
	Vansh  string
	Skip   int64
	Limit  int64
}

// List returns a page of members plus the unpaged total.
func (s *Store) List(ctx context.Context, q ListQuery) ([]models.Member, int64, error) {
	filter := bson.M{}
	if q.Vansh != "" {
		filter["vansh_number"] = q.Vansh
	}
	if q.Search != "" {
		folded := text.Fold(q.Search)
		filter["$or"] = bson.A{
			bson.M{"full_name_ci": bson.M{"$regex": folded}},
			bson.M{"email": normalize.Email(q.Search)},
		}
	}

	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "ser_no", Value: 1}})
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

	var out []models.Member
	for cur.Next(ctx) {
		var doc bson.M
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, err
		}
		out = append(out, memberFromDoc(doc))
	}
	return out, total, cur.Err()
}

// Insert writes a new canonical member. The caller supplies the serNo;
// the unique index reports allocation races as ErrDuplicateSerNo.
func (s *Store) Insert(ctx context.Context, m models.Member) (models.Member, error) {
	if m.ID.IsZero() {
		m.ID = primitive.NewObjectID()
	}
	m.FirstName = normalize.Name(m.FirstName)
	m.MiddleName = normalize.Name(m.MiddleName)
	m.LastName = normalize.Name(m.LastName)
	m.FullNameCI = text.Fold(m.FullName())
	m.Email = normalize.Email(m.Email)
	m.VanshNumber = normalize.VanshNumber(m.VanshNumber)

	now := time.Now().UTC()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, m); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Member{}, ErrDuplicateSerNo
		}
		return models.Member{}, err
	}
	return m, nil
}

// DeleteBySerNo removes a member record. The serNo itself is never
// reallocated; the allocator only ever moves forward.
func (s *Store) DeleteBySerNo(ctx context.Context, serNo int) error {
	res, err := s.c.DeleteOne(ctx, serNoFilter(serNo))
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the total number of member documents.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// NextSerNo allocates the next serial number: max existing serNo plus
// one, or 1 for an empty registry. Non-numeric legacy values are ignored.
//
// The read itself is racy; the unique index on ser_no is the arbiter,
// and callers retry on ErrDuplicateSerNo.
func (s *Store) NextSerNo(ctx context.Context) (int, error) {
	max := 0
	for _, key := range []string{"ser_no", "serNo"} {
		opts := options.FindOne().
			SetSort(bson.D{{Key: key, Value: -1}}).
			SetProjection(bson.M{key: 1})
		var doc bson.M
		err := s.c.FindOne(ctx, bson.M{key: bson.M{"$type": "number"}}, opts).Decode(&doc)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				continue
			}
			return 0, err
		}
		if n := normalize.SerNo(doc[key]); n > max {
			max = n
		}
	}
	return max + 1, nil
}

// serNoFilter matches a member by serNo under canonical and legacy keys,
// including legacy string-typed values.
func serNoFilter(serNo int) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"ser_no": serNo},
		bson.M{"serNo": serNo},
		bson.M{"serNo": strconv.Itoa(serNo)},
	}}
}

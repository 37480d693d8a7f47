package testutil

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/kinhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateMember creates a canonical member document with the given serNo,
// name, and relationship pointers.
func (f *Fixtures) CreateMember(ctx context.Context, serNo int, firstName string, fatherSerNo, spouseSerNo int, children ...int) models.Member {
	f.t.Helper()

	now := time.Now().UTC()
	m := models.Member{
		ID:               primitive.NewObjectID(),
		SerNo:            serNo,
		FirstName:        firstName,
		LastName:         "Gogte",
		FullNameCI:       text.Fold(firstName + " Gogte"),
		IsAlive:          true,
		FatherSerNo:      fatherSerNo,
		SpouseSerNo:      spouseSerNo,
		SonDaughterSerNo: children,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if _, err := f.db.Collection("members").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to create test member: %v", err)
	}
	return m
}

// CreateLegacyMember inserts a raw document imitating the old camelCase
// schema, for exercising the store's normalization path.
func (f *Fixtures) CreateLegacyMember(ctx context.Context, doc map[string]any) {
	f.t.Helper()
	if _, err := f.db.Collection("members").InsertOne(ctx, doc); err != nil {
		f.t.Fatalf("failed to create legacy test member: %v", err)
	}
}

// CreatePendingSubmission stages a registration awaiting review.
func (f *Fixtures) CreatePendingSubmission(ctx context.Context, kind models.SubmissionKind, firstName, email string) models.PendingSubmission {
	f.t.Helper()

	now := time.Now().UTC()
	sub := models.PendingSubmission{
		ID:     primitive.NewObjectID(),
		Kind:   kind,
		Status: models.StatusPending,
		Form: models.SubmissionForm{
			FirstName:   firstName,
			LastName:    "Gogte",
			Email:       strings.ToLower(email),
			PhoneNumber: "9822000000",
		},
		SubmittedAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := f.db.Collection("pending_submissions").InsertOne(ctx, sub); err != nil {
		f.t.Fatalf("failed to create test submission: %v", err)
	}
	return sub
}

// CreateCredential creates a login credential bound to a member serNo.
func (f *Fixtures) CreateCredential(ctx context.Context, serNo int, username, passwordHash, role string) models.LoginCredential {
	f.t.Helper()

	now := time.Now().UTC()
	cred := models.LoginCredential{
		ID:           primitive.NewObjectID(),
		MemberSerNo:  serNo,
		Username:     strings.ToLower(username),
		Email:        strings.ToLower(username),
		PasswordHash: passwordHash,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := f.db.Collection("logins").InsertOne(ctx, cred); err != nil {
		f.t.Fatalf("failed to create test credential: %v", err)
	}
	return cred
}

// CreateNews creates a published news article visible to the given
// vansh numbers (all vansh when none are given).
func (f *Fixtures) CreateNews(ctx context.Context, title string, vansh ...string) models.News {
	f.t.Helper()

	now := time.Now().UTC()
	n := models.News{
		ID:                  primitive.NewObjectID(),
		Title:               title,
		Content:             "Test content for " + title,
		AuthorSerNo:         1,
		IsPublished:         true,
		DatePosted:          now,
		VisibleToAllVansh:   len(vansh) == 0,
		VisibleVanshNumbers: vansh,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if _, err := f.db.Collection("news").InsertOne(ctx, n); err != nil {
		f.t.Fatalf("failed to create test news: %v", err)
	}
	return n
}

// CreateEvent creates a published event visible to the given vansh
// numbers (all vansh when none are given).
func (f *Fixtures) CreateEvent(ctx context.Context, title string, eventDate time.Time, vansh ...string) models.Event {
	f.t.Helper()

	now := time.Now().UTC()
	e := models.Event{
		ID:                  primitive.NewObjectID(),
		Title:               title,
		Description:         "Test event " + title,
		EventDate:           eventDate,
		CreatedBySerNo:      1,
		IsPublished:         true,
		VisibleToAllVansh:   len(vansh) == 0,
		VisibleVanshNumbers: vansh,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if _, err := f.db.Collection("events").InsertOne(ctx, e); err != nil {
		f.t.Fatalf("failed to create test event: %v", err)
	}
	return e
}

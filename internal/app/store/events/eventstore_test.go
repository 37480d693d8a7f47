package eventstore_test

import (
	"errors"
	"testing"
	"time"

	eventstore "github.com/dalemusser/kinhub/internal/app/store/events"
	"github.com/dalemusser/kinhub/internal/domain/models"
	"github.com/dalemusser/kinhub/internal/testutil"
)

func TestList_UpcomingSoonestFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := eventstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now()
	fx.CreateEvent(ctx, "Past", now.Add(-72*time.Hour))
	fx.CreateEvent(ctx, "Far", now.Add(60*24*time.Hour))
	fx.CreateEvent(ctx, "Near", now.Add(24*time.Hour))

	events, total, err := s.List(ctx, eventstore.ListQuery{
		PublishedOnly: true,
		UpcomingOnly:  true,
		Limit:         50,
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 || len(events) != 2 {
		t.Fatalf("total = %d, len = %d, want 2/2", total, len(events))
	}
	if events[0].Title != "Near" || events[1].Title != "Far" {
		t.Errorf("order = %q, %q", events[0].Title, events[1].Title)
	}
}

func TestList_VanshFilter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := eventstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	when := time.Now().Add(24 * time.Hour)
	fx.CreateEvent(ctx, "Everyone", when)
	fx.CreateEvent(ctx, "Vansh two", when, "2")
	fx.CreateEvent(ctx, "Vansh three", when, "3")

	_, total, err := s.List(ctx, eventstore.ListQuery{
		Vansh:         "2",
		PublishedOnly: true,
		Limit:         50,
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 {
		t.Errorf("total = %d, want 2", total)
	}
}

func TestList_AllVanshOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := eventstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	when := time.Now().Add(24 * time.Hour)
	fx.CreateEvent(ctx, "Everyone", when)
	fx.CreateEvent(ctx, "Vansh two", when, "2")

	events, total, err := s.List(ctx, eventstore.ListQuery{
		AllVanshOnly:  true,
		PublishedOnly: true,
		Limit:         50,
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(events) != 1 {
		t.Fatalf("total = %d, len = %d, want 1/1", total, len(events))
	}
	if events[0].Title != "Everyone" {
		t.Errorf("title = %q", events[0].Title)
	}
}

func TestInsert_SanitizesDescription(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := eventstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ev, err := s.Insert(ctx, models.Event{
		Title:             "Gathering",
		Description:       `<b>bring food</b><script>alert(1)</script>`,
		EventDate:         time.Now().Add(24 * time.Hour),
		IsPublished:       true,
		VisibleToAllVansh: true,
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if ev.Description != "<b>bring food</b>" {
		t.Errorf("description = %q", ev.Description)
	}
}

func TestDelete_MissingIsNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := eventstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ev := fx.CreateEvent(ctx, "Doomed", time.Now().Add(24*time.Hour))
	if err := s.Delete(ctx, ev.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(ctx, ev.ID); !errors.Is(err, eventstore.ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}

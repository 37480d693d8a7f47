package newsstore_test

import (
	"errors"
	"strings"
	"testing"

	newsstore "github.com/dalemusser/kinhub/internal/app/store/news"
	"github.com/dalemusser/kinhub/internal/domain/models"
	"github.com/dalemusser/kinhub/internal/testutil"
)

func TestInsert_SanitizesContent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := newsstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	n, err := s.Insert(ctx, models.News{
		Title:             `Hello <img src=x onerror=alert(1)>`,
		Content:           `<p>safe</p><script>alert(1)</script>`,
		IsPublished:       true,
		VisibleToAllVansh: true,
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if strings.Contains(n.Content, "<script>") {
		t.Errorf("script survived: %q", n.Content)
	}
	if !strings.Contains(n.Content, "<p>safe</p>") {
		t.Errorf("benign markup stripped: %q", n.Content)
	}
	if strings.Contains(n.Title, "onerror") {
		t.Errorf("event handler survived in title: %q", n.Title)
	}
}

func TestList_VanshFilter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := newsstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateNews(ctx, "Everyone")
	fx.CreateNews(ctx, "Vansh two", "2")
	fx.CreateNews(ctx, "Vansh three", "3")

	articles, total, err := s.List(ctx, newsstore.ListQuery{
		Vansh:         "2",
		PublishedOnly: true,
		Limit:         50,
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 || len(articles) != 2 {
		t.Fatalf("total = %d, len = %d, want 2/2", total, len(articles))
	}
	for _, a := range articles {
		if a.Title == "Vansh three" {
			t.Error("vansh three article leaked")
		}
	}
}

func TestList_AllVanshOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := newsstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateNews(ctx, "Everyone")
	fx.CreateNews(ctx, "Everyone too")
	fx.CreateNews(ctx, "Vansh two", "2")

	articles, total, err := s.List(ctx, newsstore.ListQuery{
		AllVanshOnly:  true,
		PublishedOnly: true,
		Limit:         50,
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 || len(articles) != 2 {
		t.Fatalf("total = %d, len = %d, want 2/2", total, len(articles))
	}
	for _, a := range articles {
		if !a.VisibleToAllVansh {
			t.Errorf("scoped article leaked: %q", a.Title)
		}
	}
}

func TestList_CategoryFilter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := newsstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, c := range []string{"obituary", "achievement", "obituary"} {
		if _, err := s.Insert(ctx, models.News{
			Title:             "c " + c,
			Content:           "x",
			Category:          c,
			IsPublished:       true,
			VisibleToAllVansh: true,
		}); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	_, total, err := s.List(ctx, newsstore.ListQuery{Category: "obituary", Limit: 50})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 {
		t.Errorf("total = %d, want 2", total)
	}
}

func TestUpdate_MissingIsNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := newsstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	article := fx.CreateNews(ctx, "Old title")
	if err := s.Update(ctx, article.ID, models.News{
		Title:             "New title",
		Content:           "updated",
		IsPublished:       true,
		VisibleToAllVansh: true,
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := s.GetByID(ctx, article.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "New title" {
		t.Errorf("title = %q", got.Title)
	}

	if err := s.Delete(ctx, article.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	err = s.Update(ctx, article.ID, models.News{Title: "x", Content: "y"})
	if !errors.Is(err, newsstore.ErrNotFound) {
		t.Errorf("update after delete err = %v, want ErrNotFound", err)
	}
}

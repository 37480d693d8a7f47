// internal/domain/models/news.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// News is a family news article. Visibility is scoped by vansh: an article
// is visible to everyone when VisibleToAllVansh is set, otherwise only to
// members whose vanshNumber appears in VisibleVanshNumbers.
type News struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title   string             `bson:"title" json:"title"`
	Content string             `bson:"content" json:"content"`
	Summary string             `bson:"summary,omitempty" json:"summary,omitempty"`

	AuthorSerNo int    `bson:"author_ser_no" json:"authorSerNo"`
	AuthorName  string `bson:"author_name,omitempty" json:"authorName,omitempty"`

	Category string   `bson:"category,omitempty" json:"category,omitempty"`
	Priority string   `bson:"priority,omitempty" json:"priority,omitempty"` // high | medium | low
	Tags     []string `bson:"tags,omitempty" json:"tags,omitempty"`

	DatePosted  time.Time  `bson:"date_posted" json:"datePosted"`
	PublishDate *time.Time `bson:"publish_date,omitempty" json:"publishDate,omitempty"`
	IsPublished bool       `bson:"is_published" json:"isPublished"`

	VisibleToAllVansh   bool     `bson:"visible_to_all_vansh" json:"visibleToAllVansh"`
	VisibleVanshNumbers []string `bson:"visible_vansh_numbers,omitempty" json:"visibleVanshNumbers,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// VisibleTo reports whether the article is visible to a member of the
// given vansh. An empty vanshNumber only sees all-vansh content.
func (n News) VisibleTo(vanshNumber string) bool {
	if n.VisibleToAllVansh {
		return true
	}
	for _, v := range n.VisibleVanshNumbers {
		if v != "" && v == vanshNumber {
			return true
		}
	}
	return false
}

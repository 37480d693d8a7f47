// internal/domain/models/event.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event is a family event announcement. Vansh scoping matches News.
type Event struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`

	EventDate time.Time `bson:"event_date" json:"eventDate"`
	Location  string    `bson:"location,omitempty" json:"location,omitempty"`

	CreatedBySerNo int    `bson:"created_by_ser_no" json:"createdBySerNo"`
	CreatedByName  string `bson:"created_by_name,omitempty" json:"createdByName,omitempty"`

	IsPublished bool `bson:"is_published" json:"isPublished"`

	VisibleToAllVansh   bool     `bson:"visible_to_all_vansh" json:"visibleToAllVansh"`
	VisibleVanshNumbers []string `bson:"visible_vansh_numbers,omitempty" json:"visibleVanshNumbers,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// VisibleTo reports whether the event is visible to a member of the given
// vansh.
func (e Event) VisibleTo(vanshNumber string) bool {
	if e.VisibleToAllVansh {
		return true
	}
	for _, v := range e.VisibleVanshNumbers {
		if v != "" && v == vanshNumber {
			return true
		}
	}
	return false
}

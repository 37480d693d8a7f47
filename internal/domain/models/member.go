// internal/domain/models/member.go
package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Member is a canonical, approved family-registry record.
//
// SerNo is the stable integer identity inside the family graph. It is
// assigned exactly once by the allocator and never reused, even after a
// member is deleted. FatherSerNo, SpouseSerNo, and SonDaughterSerNo are
// serNo pointers into the same graph; zero means "absent" for all of them.
//
// NOTE:
//   - SonDaughterSerNo duplicates what scanning FatherSerNo would derive.
//     Writers keep it consistent; readers must not assume it is complete.
//   - SpouseSerNo symmetry (A→B implies B→A) is advisory, not guaranteed.
type Member struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SerNo int                `bson:"ser_no" json:"serNo"`

	FirstName  string `bson:"first_name" json:"firstName"`
	MiddleName string `bson:"middle_name,omitempty" json:"middleName,omitempty"`
	LastName   string `bson:"last_name,omitempty" json:"lastName,omitempty"`
	FullNameCI string `bson:"full_name_ci" json:"-"` // lowercase, diacritics-stripped

	Gender         string     `bson:"gender,omitempty" json:"gender,omitempty"`
	DateOfBirth    *time.Time `bson:"date_of_birth,omitempty" json:"dateOfBirth,omitempty"`
	DateOfMarriage *time.Time `bson:"date_of_marriage,omitempty" json:"dateOfMarriage,omitempty"`
	DateOfDeath    *time.Time `bson:"date_of_death,omitempty" json:"dateOfDeath,omitempty"`
	IsAlive        bool       `bson:"is_alive" json:"isAlive"`

	Email       string  `bson:"email,omitempty" json:"email,omitempty"`
	PhoneNumber string  `bson:"phone_number,omitempty" json:"phoneNumber,omitempty"`
	Occupation  string  `bson:"occupation,omitempty" json:"occupation,omitempty"`
	Education   string  `bson:"education,omitempty" json:"education,omitempty"`
	Address     Address `bson:"address,omitempty" json:"address,omitempty"`
	Biography   string  `bson:"biography,omitempty" json:"biography,omitempty"`
	BloodGroup  string  `bson:"blood_group,omitempty" json:"bloodGroup,omitempty"`
	Notes       string  `bson:"notes,omitempty" json:"notes,omitempty"`

	// VanshNumber tags the lineage branch; news/events visibility scoping
	// filters on it. Not used by relationship inference.
	VanshNumber string `bson:"vansh_number,omitempty" json:"vanshNumber,omitempty"`

	FatherSerNo      int   `bson:"father_ser_no,omitempty" json:"fatherSerNo,omitempty"`
	SpouseSerNo      int   `bson:"spouse_ser_no,omitempty" json:"spouseSerNo,omitempty"`
	SonDaughterSerNo []int `bson:"son_daughter_ser_no,omitempty" json:"sonDaughterSerNo,omitempty"`

	// Approval audit trail, stamped by the approval workflow.
	ApprovedBy   string              `bson:"approved_by,omitempty" json:"approvedBy,omitempty"`
	ApprovalDate *time.Time          `bson:"approval_date,omitempty" json:"approvalDate,omitempty"`
	SubmissionID *primitive.ObjectID `bson:"submission_id,omitempty" json:"submissionId,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// Address is the structured postal address embedded on members and
// submissions.
type Address struct {
	Street     string `bson:"street,omitempty" json:"street,omitempty"`
	City       string `bson:"city,omitempty" json:"city,omitempty"`
	State      string `bson:"state,omitempty" json:"state,omitempty"`
	PostalCode string `bson:"postal_code,omitempty" json:"postalCode,omitempty"`
	Country    string `bson:"country,omitempty" json:"country,omitempty"`
}

// FullName composes the display name from the name parts, collapsing
// interior whitespace when middle or last names are empty.
func (m Member) FullName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{m.FirstName, m.MiddleName, m.LastName} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, strings.TrimSpace(p))
		}
	}
	return strings.Join(parts, " ")
}

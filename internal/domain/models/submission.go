// internal/domain/models/submission.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SubmissionKind discriminates the two registration paths that feed the
// approval workflow. Both kinds move through the same state machine.
type SubmissionKind string

const (
	KindHierarchyForm SubmissionKind = "hierarchy_form"
	KindTempMember    SubmissionKind = "temp_member"
)

// SubmissionStatus is the approval state. pending is the only state a
// submission can leave; approved and rejected are terminal.
type SubmissionStatus string

const (
	StatusPending  SubmissionStatus = "pending"
	StatusApproved SubmissionStatus = "approved"
	StatusRejected SubmissionStatus = "rejected"
)

// SubmissionForm holds the prospective member's field values. No serNo is
// present; the allocator assigns one at approval time.
type SubmissionForm struct {
	FirstName  string `bson:"first_name" json:"firstName"`
	MiddleName string `bson:"middle_name,omitempty" json:"middleName,omitempty"`
	LastName   string `bson:"last_name,omitempty" json:"lastName,omitempty"`

	Gender      string     `bson:"gender,omitempty" json:"gender,omitempty"`
	DateOfBirth *time.Time `bson:"date_of_birth,omitempty" json:"dateOfBirth,omitempty"`

	Email       string  `bson:"email,omitempty" json:"email,omitempty"`
	PhoneNumber string  `bson:"phone_number,omitempty" json:"phoneNumber,omitempty"`
	Occupation  string  `bson:"occupation,omitempty" json:"occupation,omitempty"`
	Education   string  `bson:"education,omitempty" json:"education,omitempty"`
	Address     Address `bson:"address,omitempty" json:"address,omitempty"`
	VanshNumber string  `bson:"vansh_number,omitempty" json:"vanshNumber,omitempty"`
	Notes       string  `bson:"notes,omitempty" json:"notes,omitempty"`

	FatherSerNo int `bson:"father_ser_no,omitempty" json:"fatherSerNo,omitempty"`
	SpouseSerNo int `bson:"spouse_ser_no,omitempty" json:"spouseSerNo,omitempty"`
}

// PendingSubmission is a staging record awaiting an admin decision.
//
// On approval the record is retained with status "approved" rather than
// deleted; the reviewer stamps make the collection an audit trail of every
// registration decision.
type PendingSubmission struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Kind   SubmissionKind     `bson:"kind" json:"kind"`
	Form   SubmissionForm     `bson:"form_data" json:"formData"`
	Status SubmissionStatus   `bson:"status" json:"status"`

	SubmittedByName  string    `bson:"submitted_by_name,omitempty" json:"submittedByName,omitempty"`
	SubmittedByEmail string    `bson:"submitted_by_email,omitempty" json:"submittedByEmail,omitempty"`
	SubmittedAt      time.Time `bson:"submitted_at" json:"submittedAt"`

	ReviewedBy       string     `bson:"reviewed_by,omitempty" json:"reviewedBy,omitempty"`
	ReviewedAt       *time.Time `bson:"reviewed_at,omitempty" json:"reviewedAt,omitempty"`
	RejectionReason  string     `bson:"rejection_reason,omitempty" json:"rejectionReason,omitempty"`
	ApprovalComments string     `bson:"approval_comments,omitempty" json:"approvalComments,omitempty"`

	// MemberSerNo records the serNo minted when this submission was
	// approved. Zero until then.
	MemberSerNo int `bson:"member_ser_no,omitempty" json:"memberSerNo,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

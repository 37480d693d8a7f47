// internal/app/store/members/legacy.go
package memberstore

import (
	"time"

	"github.com/dalemusser/kinhub/internal/app/system/normalize"
	"github.com/dalemusser/kinhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memberFromDoc maps a raw member document into the canonical shape.
//
// The members collection accreted three generations of schema: canonical
// snake_case documents written by this service, camelCase documents from
// the old Node backend, and documents that tuck personal fields under a
// personalDetails subdocument. All the ambiguity is resolved here, once,
// on read; nothing past the store boundary sees legacy field names.
func memberFromDoc(doc bson.M) models.Member {
	m := models.Member{}

	if id, ok := doc["_id"].(primitive.ObjectID); ok {
		m.ID = id
	}

	fields := map[string]any(doc)
	personal, _ := doc["personalDetails"].(bson.M)

	m.SerNo = serNoField(fields, personal, "ser_no", "serNo")
	m.FatherSerNo = serNoField(fields, personal, "father_ser_no", "fatherSerNo")
	m.SpouseSerNo = serNoField(fields, personal, "spouse_ser_no", "spouseSerNo")

	if v, ok := normalize.FieldValue(fields, "son_daughter_ser_no", "sonDaughterSerNo"); ok {
		m.SonDaughterSerNo = normalize.SerNoList(bsonToAnySlice(v))
	}

	m.FirstName = stringField(fields, personal, "first_name", "firstName")
	m.MiddleName = stringField(fields, personal, "middle_name", "middleName")
	m.LastName = stringField(fields, personal, "last_name", "lastName")
	if m.FirstName == "" {
		// Oldest documents carry only a composed display name.
		m.FirstName = normalize.StringField(fields, "name", "fullName")
	}

	m.Gender = stringField(fields, personal, "gender")
	m.Email = normalize.Email(stringField(fields, personal,
		"email", "gmail", "userEmail", "emailId", "Email Address", "email_address", "primaryEmail"))
	m.PhoneNumber = stringField(fields, personal,
		"phone_number", "phoneNumber", "mobileNumber", "alternateMobileNumber", "phone")
	m.Occupation = stringField(fields, personal, "occupation")
	m.Education = stringField(fields, personal, "education")
	m.Biography = stringField(fields, personal, "biography")
	m.BloodGroup = stringField(fields, personal, "blood_group", "bloodGroup")
	m.Notes = stringField(fields, personal, "notes")
	m.VanshNumber = stringField(fields, personal, "vansh_number", "vanshNumber")
	m.FullNameCI = normalize.StringField(fields, "full_name_ci")

	m.DateOfBirth = timeField(fields, personal, "date_of_birth", "dateOfBirth")
	m.DateOfMarriage = timeField(fields, personal, "date_of_marriage", "dateOfMarriage")
	m.DateOfDeath = timeField(fields, personal, "date_of_death", "dateOfDeath")

	if v, ok := normalize.FieldValue(fields, "is_alive", "isAlive"); ok {
		if b, ok := v.(bool); ok {
			m.IsAlive = b
		}
	} else {
		m.IsAlive = true
	}

	if addr, ok := doc["address"].(bson.M); ok {
		m.Address = models.Address{
			Street:     normalize.StringField(map[string]any(addr), "street"),
			City:       normalize.StringField(map[string]any(addr), "city"),
			State:      normalize.StringField(map[string]any(addr), "state"),
			PostalCode: normalize.StringField(map[string]any(addr), "postal_code", "postalCode"),
			Country:    normalize.StringField(map[string]any(addr), "country"),
		}
	}

	m.ApprovedBy = normalize.StringField(fields, "approved_by", "approvedBy", "createdByName")
	if ts := timeField(fields, nil, "approval_date", "approvalDate"); ts != nil {
		m.ApprovalDate = ts
	}
	if id, ok := doc["submission_id"].(primitive.ObjectID); ok {
		m.SubmissionID = &id
	} else if id, ok := doc["hierarchyFormId"].(primitive.ObjectID); ok {
		m.SubmissionID = &id
	}

	if ts := timeField(fields, nil, "created_at", "createdAt"); ts != nil {
		m.CreatedAt = *ts
	}
	if ts := timeField(fields, nil, "updated_at", "updatedAt"); ts != nil {
		m.UpdatedAt = *ts
	}

	return m
}

func serNoField(fields map[string]any, personal bson.M, names ...string) int {
	if v, ok := normalize.FieldValue(fields, names...); ok {
		if n := normalize.SerNo(v); n != 0 {
			return n
		}
	}
	if personal != nil {
		if v, ok := normalize.FieldValue(map[string]any(personal), names...); ok {
			return normalize.SerNo(v)
		}
	}
	return 0
}

func stringField(fields map[string]any, personal bson.M, names ...string) string {
	if s := normalize.StringField(fields, names...); s != "" {
		return s
	}
	if personal != nil {
		return normalize.StringField(map[string]any(personal), names...)
	}
	return ""
}

func timeField(fields map[string]any, personal bson.M, names ...string) *time.Time {
	v, ok := normalize.FieldValue(fields, names...)
	if !ok && personal != nil {
		v, ok = normalize.FieldValue(map[string]any(personal), names...)
	}
	if !ok {
		return nil
	}
	switch t := v.(type) {
	case primitive.DateTime:
		ts := t.Time().UTC()
		return &ts
	case time.Time:
		ts := t.UTC()
		return &ts
	}
	return nil
}

// bsonToAnySlice widens bson.A into []any for the normalize helpers.
func bsonToAnySlice(v any) any {
	if a, ok := v.(bson.A); ok {
		return []any(a)
	}
	return v
}

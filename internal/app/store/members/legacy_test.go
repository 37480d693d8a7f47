package memberstore

import (
	"reflect"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMemberFromDoc_Canonical(t *testing.T) {
	id := primitive.NewObjectID()
	born := primitive.NewDateTimeFromTime(time.Date(1960, 5, 1, 0, 0, 0, 0, time.UTC))
	doc := bson.M{
		"_id":                 id,
		"ser_no":              12,
		"first_name":          "Keshav",
		"last_name":           "Gogte",
		"email":               "keshav@example.com",
		"father_ser_no":       4,
		"spouse_ser_no":       13,
		"son_daughter_ser_no": bson.A{20, 21},
		"vansh_number":        "3",
		"date_of_birth":       born,
		"is_alive":            true,
	}

	m := memberFromDoc(doc)

	if m.ID != id {
		t.Errorf("ID = %v", m.ID)
	}
	if m.SerNo != 12 || m.FatherSerNo != 4 || m.SpouseSerNo != 13 {
		t.Errorf("serNo pointers = %d/%d/%d", m.SerNo, m.FatherSerNo, m.SpouseSerNo)
	}
	if !reflect.DeepEqual(m.SonDaughterSerNo, []int{20, 21}) {
		t.Errorf("SonDaughterSerNo = %v", m.SonDaughterSerNo)
	}
	if m.FirstName != "Keshav" || m.LastName != "Gogte" {
		t.Errorf("name = %q %q", m.FirstName, m.LastName)
	}
	if m.Email != "keshav@example.com" || m.VanshNumber != "3" {
		t.Errorf("email/vansh = %q %q", m.Email, m.VanshNumber)
	}
	if m.DateOfBirth == nil || m.DateOfBirth.Year() != 1960 {
		t.Errorf("DateOfBirth = %v", m.DateOfBirth)
	}
}

func TestMemberFromDoc_LegacyCamelCase(t *testing.T) {
	doc := bson.M{
		"serNo":            "34", // legacy string serNo
		"fatherSerNo":      int64(7),
		"spouseSerNo":      float64(35),
		"sonDaughterSerNo": bson.A{float64(40), "41", nil},
		"firstName":        "Vasant",
		"Email Address":    "  Vasant@Example.COM ",
		"mobileNumber":     "9822000000",
		"vanshNumber":      "2",
	}

	m := memberFromDoc(doc)

	if m.SerNo != 34 || m.FatherSerNo != 7 || m.SpouseSerNo != 35 {
		t.Errorf("serNo pointers = %d/%d/%d", m.SerNo, m.FatherSerNo, m.SpouseSerNo)
	}
	if !reflect.DeepEqual(m.SonDaughterSerNo, []int{40, 41}) {
		t.Errorf("SonDaughterSerNo = %v", m.SonDaughterSerNo)
	}
	if m.Email != "vasant@example.com" {
		t.Errorf("Email = %q", m.Email)
	}
	if m.PhoneNumber != "9822000000" {
		t.Errorf("PhoneNumber = %q", m.PhoneNumber)
	}
	// Missing is_alive defaults to alive.
	if !m.IsAlive {
		t.Error("IsAlive should default true")
	}
}

func TestMemberFromDoc_PersonalDetailsNesting(t *testing.T) {
	doc := bson.M{
		"personalDetails": bson.M{
			"serNo":     float64(9),
			"firstName": "Madhav",
			"email":     "madhav@example.com",
		},
	}

	m := memberFromDoc(doc)

	if m.SerNo != 9 {
		t.Errorf("SerNo = %d, want 9", m.SerNo)
	}
	if m.FirstName != "Madhav" {
		t.Errorf("FirstName = %q", m.FirstName)
	}
	if m.Email != "madhav@example.com" {
		t.Errorf("Email = %q", m.Email)
	}
}

func TestMemberFromDoc_ComposedNameFallback(t *testing.T) {
	doc := bson.M{"ser_no": 3, "name": "Govind Ramchandra Gogte"}
	m := memberFromDoc(doc)
	if m.FirstName != "Govind Ramchandra Gogte" {
		t.Errorf("FirstName = %q", m.FirstName)
	}
}

func TestMemberFromDoc_AbsentPointersAreZero(t *testing.T) {
	for _, doc := range []bson.M{
		{"ser_no": 5, "father_ser_no": nil},
		{"ser_no": 5, "fatherSerNo": ""},
		{"ser_no": 5, "fatherSerNo": "0"},
		{"ser_no": 5, "fatherSerNo": 0},
		{"ser_no": 5},
	} {
		m := memberFromDoc(doc)
		if m.FatherSerNo != 0 {
			t.Errorf("doc %v: FatherSerNo = %d, want 0", doc, m.FatherSerNo)
		}
	}
}

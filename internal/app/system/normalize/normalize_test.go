package normalize

import (
	"reflect"
	"testing"
)

func TestEmail(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"user@example.com", "user@example.com"},
		{"USER@EXAMPLE.COM", "user@example.com"},
		{"  User@Example.Com  ", "user@example.com"},
		{"", ""},
		{"   ", ""},
		{"Mixed.Case@Domain.ORG", "mixed.case@domain.org"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Email(tt.input)
			if got != tt.want {
				t.Errorf("Email(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"John Doe", "John Doe"},
		{"  John Doe  ", "John Doe"},
		{"", ""},
		{"   ", ""},
		{"UPPERCASE NAME", "UPPERCASE NAME"}, // Name preserves case
		{"lowercase name", "lowercase name"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Name(tt.input)
			if got != tt.want {
				t.Errorf("Name(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestUsername(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"gogte1", "gogte1"},
		{"GOGTE1", "gogte1"},
		{"  Keshav.G  ", "keshav.g"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Username(tt.input)
			if got != tt.want {
				t.Errorf("Username(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSerNo(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  int
	}{
		{"nil", nil, 0},
		{"int", 42, 42},
		{"int32", int32(7), 7},
		{"int64", int64(13), 13},
		{"float64", float64(21), 21},
		{"decimal string", "56", 56},
		{"padded string", " 56 ", 56},
		{"empty string", "", 0},
		{"garbage string", "abc", 0},
		{"zero", 0, 0},
		{"bool", true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SerNo(tt.input)
			if got != tt.want {
				t.Errorf("SerNo(%v) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestSerNoList(t *testing.T) {
	got := SerNoList([]any{1, int32(2), float64(3), "4", "", nil, "x"})
	want := []int{1, 2, 3, 4}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SerNoList = %v, want %v", got, want)
	}

	if got := SerNoList("not a list"); got != nil {
		t.Errorf("SerNoList(non-list) = %v, want nil", got)
	}
}

func TestFieldValue(t *testing.T) {
	doc := map[string]any{
		"Email Address": "person@example.com",
		"Pwd":           "hash",
		"blank":         "   ",
	}

	tests := []struct {
		name  string
		keys  []string
		want  string
		found bool
	}{
		{"exact miss folded hit", []string{"email", "emailAddress"}, "person@example.com", true},
		{"password spelling", []string{"password", "pwd"}, "hash", true},
		{"blank values are absent", []string{"blank"}, "", false},
		{"no match", []string{"username"}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := FieldValue(doc, tt.keys...)
			if ok != tt.found {
				t.Fatalf("FieldValue found = %v, want %v", ok, tt.found)
			}
			if ok && v.(string) != tt.want {
				t.Errorf("FieldValue = %v, want %q", v, tt.want)
			}
		})
	}
}

func TestStringField(t *testing.T) {
	doc := map[string]any{"Gmail": "  Person@Example.com  ", "n": 5}
	if got := StringField(doc, "email", "gmail"); got != "Person@Example.com" {
		t.Errorf("StringField = %q", got)
	}
	if got := StringField(doc, "n"); got != "" {
		t.Errorf("StringField(non-string) = %q, want empty", got)
	}
}

// internal/app/system/normalize/normalize.go

// Package normalize canonicalizes values at the store boundary so the
// rest of the app never deals with casing, padding, or the legacy
// collections' freeform field spellings.
package normalize

import (
	"strconv"
	"strings"
)

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a display name. Case is preserved.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Username lowercases and trims a login username.
func Username(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Role lowercases and trims a credential role.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// QueryParam trims a search/query parameter. Case is preserved.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}

// VanshNumber trims a vansh tag.
func VanshNumber(s string) string {
	return strings.TrimSpace(s)
}

// SerNo coerces a legacy serNo value into an int. The old data stores
// serNos as ints, longs, doubles, and decimal strings; null, empty, and
// anything non-numeric all mean "absent" and come back as 0.
func SerNo(v any) int {
	switch n := v.(type) {
	case nil:
		return 0
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float64:
		return int(n)
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0
		}
		parsed, err := strconv.Atoi(s)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

// SerNoList coerces a legacy child-list value ([]any of mixed numeric
// types) into []int, dropping absent entries.
func SerNoList(v any) []int {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []int
	for _, item := range raw {
		if n := SerNo(item); n != 0 {
			out = append(out, n)
		}
	}
	return out
}

// FieldValue finds the first non-empty value in a raw document for any of
// the given field names. Exact names are tried first, then a folded match
// that ignores case, spaces, and underscores; the legacy login and
// member collections spell "email" a dozen different ways.
func FieldValue(doc map[string]any, names ...string) (any, bool) {
	for _, name := range names {
		if v, ok := doc[name]; ok && !emptyValue(v) {
			return v, true
		}
	}

	folded := make(map[string]any, len(doc))
	for k, v := range doc {
		if !emptyValue(v) {
			folded[foldKey(k)] = v
		}
	}
	for _, name := range names {
		if v, ok := folded[foldKey(name)]; ok {
			return v, true
		}
	}
	return nil, false
}

// StringField is FieldValue for string-typed fields, trimmed.
func StringField(doc map[string]any, names ...string) string {
	v, ok := FieldValue(doc, names...)
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

func foldKey(k string) string {
	k = strings.ReplaceAll(k, " ", "")
	k = strings.ReplaceAll(k, "_", "")
	return strings.ToLower(k)
}

func emptyValue(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/dalemusser/kinhub/internal/app/system/auth"
)

// UserCtx returns the user's role (lowercased), name, serNo, and a found
// flag. Without a verified user it returns "visitor", "", 0, false.
func UserCtx(r *http.Request) (role string, name string, serNo int, ok bool) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		return "visitor", "", 0, false
	}
	return strings.ToLower(u.Role), u.Name, u.SerNo, true
}

// IsAdmin reports whether the current request's user is an admin.
// DBAs hold admin permissions as well.
func IsAdmin(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && (role == "admin" || role == "dba")
}

// IsDBA reports whether the current request's user is a dba.
func IsDBA(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == "dba"
}

// HasAnyRole reports whether the current request's user has any of the
// given roles. Returns false when not signed in.
func HasAnyRole(r *http.Request, roles ...string) bool {
	role, _, _, ok := UserCtx(r)
	if !ok {
		return false
	}
	for _, want := range roles {
		if role == strings.ToLower(strings.TrimSpace(want)) {
			return true
		}
	}
	return false
}

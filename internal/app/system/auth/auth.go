// internal/app/system/auth/auth.go

// Package auth issues and verifies the HS256 bearer tokens the API runs
// on, and carries the verified user through the request context.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/kinhub/internal/app/system/httpjson"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Claims is the token payload: the member's serNo plus display name and
// role, on top of the registered claims.
type Claims struct {
	SerNo int    `json:"serNo"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Tokens signs and verifies bearer tokens.
type Tokens struct {
	secret []byte
	issuer string
	ttl    time.Duration
	log    *zap.Logger
}

// NewTokens builds a token signer. The secret must be at least 32 bytes;
// short HMAC keys make offline brute force practical.
func NewTokens(secret, issuer string, ttl time.Duration, logger *zap.Logger) (*Tokens, error) {
	if len(secret) < 32 {
		return nil, fmt.Errorf("jwt secret too short: %d bytes, need 32+", len(secret))
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tokens{secret: []byte(secret), issuer: issuer, ttl: ttl, log: logger}, nil
}

// Sign mints a token for the given member.
func (t *Tokens) Sign(serNo int, name, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		SerNo: serNo,
		Name:  name,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    t.issuer,
			Subject:   fmt.Sprintf("%d", serNo),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Parse verifies a token string and returns its claims.
func (t *Tokens) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", tok.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// User is the verified identity injected into the request context.
type User struct {
	SerNo int
	Name  string
	Role  string
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the user and a "found?" flag.
func CurrentUser(r *http.Request) (*User, bool) {
	u, ok := r.Context().Value(currentUserKey).(*User)
	return u, ok
}

// LoadBearerUser injects the user into context when the request carries a
// valid bearer token. Missing or bad tokens are not rejected here; the
// Require* middlewares decide what is mandatory.
func (t *Tokens) LoadBearerUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}
		claims, err := t.Parse(raw)
		if err != nil {
			t.log.Debug("bearer token rejected", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}
		r = withUser(r, &User{SerNo: claims.SerNo, Name: claims.Name, Role: claims.Role})
		next.ServeHTTP(w, r)
	})
}

// RequireSignedIn ensures a verified user is in context; otherwise 401.
func RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); !ok {
			httpjson.Error(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole ensures the user is signed in and holds one of the allowed
// roles; 401 when anonymous, 403 when the role doesn't match.
func RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			if !ok {
				httpjson.Error(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if _, has := set[strings.ToLower(u.Role)]; !has {
				httpjson.Error(w, http.StatusForbidden, "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithTestUser injects a user into the request context for handler tests.
func WithTestUser(r *http.Request, u *User) *http.Request {
	return withUser(r, u)
}

func withUser(r *http.Request, u *User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		return strings.TrimSpace(h[len(prefix):])
	}
	return ""
}

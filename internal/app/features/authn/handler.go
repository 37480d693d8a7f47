// internal/app/features/authn/handler.go

// Package authn is the password sign-in endpoint. It verifies a
// credential (with failed-attempt lockout) and answers with a signed
// bearer token.
package authn

import (
	"errors"
	"net/http"
	"strings"
	"time"

	credentialstore "github.com/dalemusser/kinhub/internal/app/store/credentials"
	memberstore "github.com/dalemusser/kinhub/internal/app/store/members"
	"github.com/dalemusser/kinhub/internal/app/system/auth"
	"github.com/dalemusser/kinhub/internal/app/system/httpjson"
	"github.com/dalemusser/kinhub/internal/app/system/ratelimit"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Handler holds the sign-in dependencies.
type Handler struct {
	Creds   *credentialstore.Store
	Members *memberstore.Store
	Tokens  *auth.Tokens
	Limiter *ratelimit.LoginLimiter // nil disables request throttling
	Log     *zap.Logger
}

// NewHandler constructs an authn Handler.
func NewHandler(creds *credentialstore.Store, members *memberstore.Store, tokens *auth.Tokens, logger *zap.Logger) *Handler {
	return &Handler{
		Creds:   creds,
		Members: members,
		Tokens:  tokens,
		Limiter: ratelimit.NewLoginLimiter(),
		Log:     logger,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	SerNo int    `json:"serNo"`
	Role  string `json:"role"`
	Name  string `json:"name,omitempty"`
}

// HandleLogin handles POST /api/auth/login. The username field accepts
// either a username or an email. Failed attempts count toward lockout;
// the response never says which of username/password was wrong.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		httpjson.Error(w, http.StatusBadRequest, "username and password are required")
		return
	}

	if h.Limiter != nil && !h.Limiter.Check(r, req.Username) {
		httpjson.Error(w, http.StatusTooManyRequests, "too many sign-in attempts, try again later")
		return
	}

	cred, err := h.Creds.GetByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, credentialstore.ErrNotFound) {
			httpjson.Error(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		h.Log.Error("credential lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "sign-in failed")
		return
	}

	if !cred.IsActive {
		httpjson.Error(w, http.StatusForbidden, "account is disabled")
		return
	}
	if cred.Locked(time.Now().UTC()) {
		httpjson.Error(w, http.StatusTooManyRequests, "account temporarily locked, try again later")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(req.Password)); err != nil {
		if rerr := h.Creds.RecordFailure(r.Context(), cred.ID); rerr != nil {
			h.Log.Error("record failed attempt", zap.Error(rerr))
		}
		httpjson.Error(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if err := h.Creds.RecordSuccess(r.Context(), cred.ID); err != nil {
		h.Log.Error("record successful sign-in", zap.Error(err))
	}
	if h.Limiter != nil {
		h.Limiter.ResetUsername(req.Username)
	}

	name := ""
	if m, err := h.Members.GetBySerNo(r.Context(), cred.MemberSerNo); err == nil {
		name = m.FullName()
	}

	token, err := h.Tokens.Sign(cred.MemberSerNo, name, cred.Role)
	if err != nil {
		h.Log.Error("sign token failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "sign-in failed")
		return
	}

	h.Log.Info("member signed in",
		zap.Int("ser_no", cred.MemberSerNo),
		zap.String("role", cred.Role))

	httpjson.Write(w, http.StatusOK, loginResponse{
		Token: token,
		SerNo: cred.MemberSerNo,
		Role:  cred.Role,
		Name:  name,
	})
}

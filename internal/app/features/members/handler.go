// internal/app/features/members/handler.go

// Package members is the admin surface over the registry: paged listing
// with search, single-record lookup, and deletion with credential
// cascade. The read paths overlap the family feature but are mounted
// behind the admin role.
package members

import (
	"errors"
	"net/http"
	"strconv"

	credentialstore "github.com/dalemusser/kinhub/internal/app/store/credentials"
	memberstore "github.com/dalemusser/kinhub/internal/app/store/members"
	submissionstore "github.com/dalemusser/kinhub/internal/app/store/submissions"
	"github.com/dalemusser/kinhub/internal/app/system/httpjson"
	"github.com/dalemusser/kinhub/internal/app/system/normalize"
	"github.com/dalemusser/kinhub/internal/app/system/paging"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler holds the admin members feature dependencies.
type Handler struct {
	Members *memberstore.Store
	Creds   *credentialstore.Store
	Subs    *submissionstore.Store
	Log     *zap.Logger
}

// NewHandler constructs an admin members Handler.
func NewHandler(members *memberstore.Store, creds *credentialstore.Store, subs *submissionstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Members: members, Creds: creds, Subs: subs, Log: logger}
}

// ServeList handles GET / with search, vansh filter, and paging.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	page := paging.Parse(r)
	members, total, err := h.Members.List(r.Context(), memberstore.ListQuery{
		Search: normalize.QueryParam(query.Get(r, "search")),
		Vansh:  normalize.VanshNumber(query.Get(r, "vansh")),
		Skip:   page.Skip,
		Limit:  page.Limit,
	})
	if err != nil {
		h.Log.Error("admin list members failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not list members")
		return
	}

	httpjson.Write(w, http.StatusOK, map[string]any{
		"members":    members,
		"pagination": page.Meta(total),
	})
}

// ServeGet handles GET /{serNo}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	serNo, ok := serNoParam(w, r)
	if !ok {
		return
	}

	m, err := h.Members.GetBySerNo(r.Context(), serNo)
	if err != nil {
		if errors.Is(err, memberstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "member not found")
			return
		}
		h.Log.Error("admin get member failed", zap.Int("ser_no", serNo), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load member")
		return
	}
	httpjson.Write(w, http.StatusOK, m)
}

// HandleDelete handles DELETE /{serNo}. The member's credential goes
// with the record, and a member minted by an approval re-queues its
// submission for a fresh decision. The serNo itself is never reallocated.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	serNo, ok := serNoParam(w, r)
	if !ok {
		return
	}

	m, err := h.Members.GetBySerNo(r.Context(), serNo)
	if err != nil {
		if errors.Is(err, memberstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "member not found")
			return
		}
		h.Log.Error("load member for delete failed", zap.Int("ser_no", serNo), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not delete member")
		return
	}

	if err := h.Members.DeleteBySerNo(r.Context(), serNo); err != nil {
		if errors.Is(err, memberstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "member not found")
			return
		}
		h.Log.Error("delete member failed", zap.Int("ser_no", serNo), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not delete member")
		return
	}

	// The member is already gone; cleanup failures are reported but don't
	// fail the request.
	if err := h.Creds.DeleteByMemberSerNo(r.Context(), serNo); err != nil {
		h.Log.Error("cascade credential delete failed", zap.Int("ser_no", serNo), zap.Error(err))
	}
	if m.SubmissionID != nil {
		if err := h.Subs.Revert(r.Context(), *m.SubmissionID); err != nil {
			h.Log.Error("submission revert failed",
				zap.String("submission_id", m.SubmissionID.Hex()),
				zap.Int("ser_no", serNo), zap.Error(err))
		}
	}

	h.Log.Info("member deleted", zap.Int("ser_no", serNo))
	httpjson.Write(w, http.StatusOK, map[string]any{"serNo": serNo, "deleted": true})
}

func serNoParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	serNo, err := strconv.Atoi(chi.URLParam(r, "serNo"))
	if err != nil || serNo < 1 {
		httpjson.Error(w, http.StatusBadRequest, "invalid serNo")
		return 0, false
	}
	return serNo, true
}

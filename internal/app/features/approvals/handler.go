// internal/app/features/approvals/handler.go

// Package approvals is the admin review queue: list pending submissions,
// inspect one, and approve or reject it. The same handler serves both
// submission kinds; the mount point fixes which kind a router sees.
package approvals

import (
	"errors"
	"net/http"

	submissionstore "github.com/dalemusser/kinhub/internal/app/store/submissions"
	"github.com/dalemusser/kinhub/internal/app/system/approval"
	"github.com/dalemusser/kinhub/internal/app/system/authz"
	"github.com/dalemusser/kinhub/internal/app/system/httpjson"
	"github.com/dalemusser/kinhub/internal/app/system/paging"
	"github.com/dalemusser/kinhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler holds the approvals feature dependencies.
type Handler struct {
	Svc  *approval.Service
	Subs *submissionstore.Store
	Log  *zap.Logger
}

// NewHandler constructs an approvals Handler.
func NewHandler(svc *approval.Service, subs *submissionstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Svc: svc, Subs: subs, Log: logger}
}

// ServeList handles GET / for one submission kind, with an optional
// ?status= filter (default pending) and paging.
func (h *Handler) ServeList(kind models.SubmissionKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := models.SubmissionStatus(query.Get(r, "status"))
		switch status {
		case "", models.StatusPending:
			status = models.StatusPending
		case models.StatusApproved, models.StatusRejected:
		default:
			httpjson.Error(w, http.StatusBadRequest, "invalid status filter")
			return
		}

		page := paging.Parse(r)
		subs, total, err := h.Subs.List(r.Context(), submissionstore.ListQuery{
			Kind:   kind,
			Status: status,
			Skip:   page.Skip,
			Limit:  page.Limit,
		})
		if err != nil {
			h.Log.Error("list submissions failed", zap.String("kind", string(kind)), zap.Error(err))
			httpjson.Error(w, http.StatusInternalServerError, "could not list submissions")
			return
		}

		httpjson.Write(w, http.StatusOK, map[string]any{
			"submissions": subs,
			"pagination":  page.Meta(total),
		})
	}
}

// ServeGet handles GET /{id}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	sub, err := h.Subs.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, submissionstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "submission not found")
			return
		}
		h.Log.Error("get submission failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load submission")
		return
	}
	httpjson.Write(w, http.StatusOK, sub)
}

type approveRequest struct {
	Comments string `json:"comments"`
}

// HandleApprove handles POST /{id}/approve: mints the member (and
// possibly a credential) and stamps the submission.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var req approveRequest
	if r.ContentLength > 0 {
		if err := httpjson.Decode(w, r, &req); err != nil {
			httpjson.Error(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	approver := approverName(r)
	res, err := h.Svc.Approve(r.Context(), id, approver, req.Comments)
	if err != nil {
		writeApprovalError(w, h.Log, err)
		return
	}

	body := map[string]any{
		"member":            res.Member,
		"credentialsIssued": res.CredentialCreated,
	}
	if res.CredentialCreated {
		body["temporaryCredentialHint"] = res.TemporaryPasswordHint
	}
	httpjson.Write(w, http.StatusOK, body)
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

// HandleReject handles POST /{id}/reject.
func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var req rejectRequest
	if r.ContentLength > 0 {
		if err := httpjson.Decode(w, r, &req); err != nil {
			httpjson.Error(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if req.Reason == "" {
		httpjson.Error(w, http.StatusBadRequest, "a rejection reason is required")
		return
	}

	if err := h.Svc.Reject(r.Context(), id, approverName(r), req.Reason); err != nil {
		writeApprovalError(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{
		"id":     id.Hex(),
		"status": models.StatusRejected,
	})
}

func writeApprovalError(w http.ResponseWriter, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, approval.ErrNotFound):
		httpjson.Error(w, http.StatusNotFound, "submission not found")
	case errors.Is(err, approval.ErrAlreadyApproved):
		httpjson.Error(w, http.StatusConflict, "submission already approved")
	case errors.Is(err, approval.ErrAlreadyProcessed):
		httpjson.Error(w, http.StatusConflict, "submission already processed")
	case errors.Is(err, approval.ErrValidation):
		httpjson.Error(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, approval.ErrTransient):
		httpjson.Error(w, http.StatusServiceUnavailable, "temporary allocation conflict, retry")
	default:
		log.Error("approval decision failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "decision failed")
	}
}

func approverName(r *http.Request) string {
	if _, name, _, ok := authz.UserCtx(r); ok && name != "" {
		return name
	}
	return "admin"
}

func idParam(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid submission id")
		return primitive.NilObjectID, false
	}
	return id, true
}

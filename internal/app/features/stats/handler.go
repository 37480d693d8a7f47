// internal/app/features/stats/handler.go

// Package stats serves registry-wide counts for the admin dashboard.
package stats

import (
	"net/http"

	credentialstore "github.com/dalemusser/kinhub/internal/app/store/credentials"
	memberstore "github.com/dalemusser/kinhub/internal/app/store/members"
	submissionstore "github.com/dalemusser/kinhub/internal/app/store/submissions"
	"github.com/dalemusser/kinhub/internal/app/system/httpjson"
	"github.com/dalemusser/kinhub/internal/domain/models"
	"go.uber.org/zap"
)

// Handler holds the stats feature dependencies.
type Handler struct {
	Members *memberstore.Store
	Creds   *credentialstore.Store
	Subs    *submissionstore.Store
	Log     *zap.Logger
}

// NewHandler constructs a stats Handler.
func NewHandler(members *memberstore.Store, creds *credentialstore.Store, subs *submissionstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Members: members, Creds: creds, Subs: subs, Log: logger}
}

type statsResponse struct {
	TotalMembers      int64 `json:"totalMembers"`
	TotalLogins       int64 `json:"totalLogins"`
	PendingHierarchy  int64 `json:"pendingHierarchyForms"`
	PendingTempMember int64 `json:"pendingTempMembers"`
	PendingTotal      int64 `json:"pendingTotal"`
}

// ServeStats handles GET /: document counts across the registry.
func (h *Handler) ServeStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	members, err := h.Members.Count(ctx)
	if err != nil {
		h.Log.Error("count members failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not gather stats")
		return
	}
	logins, err := h.Creds.Count(ctx)
	if err != nil {
		h.Log.Error("count logins failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not gather stats")
		return
	}
	hierarchy, err := h.Subs.CountByStatus(ctx, models.KindHierarchyForm, models.StatusPending)
	if err != nil {
		h.Log.Error("count pending hierarchy forms failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not gather stats")
		return
	}
	temp, err := h.Subs.CountByStatus(ctx, models.KindTempMember, models.StatusPending)
	if err != nil {
		h.Log.Error("count pending temp members failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not gather stats")
		return
	}

	httpjson.Write(w, http.StatusOK, statsResponse{
		TotalMembers:      members,
		TotalLogins:       logins,
		PendingHierarchy:  hierarchy,
		PendingTempMember: temp,
		PendingTotal:      hierarchy + temp,
	})
}

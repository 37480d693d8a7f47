// internal/app/features/events/handler.go

// Package events serves family event announcements, vansh-scoped like
// news, with an upcoming filter for the member view.
package events

import (
	"errors"
	"net/http"
	"time"

	eventstore "github.com/dalemusser/kinhub/internal/app/store/events"
	memberstore "github.com/dalemusser/kinhub/internal/app/store/members"
	"github.com/dalemusser/kinhub/internal/app/system/auth"
	"github.com/dalemusser/kinhub/internal/app/system/authz"
	"github.com/dalemusser/kinhub/internal/app/system/httpjson"
	"github.com/dalemusser/kinhub/internal/app/system/paging"
	"github.com/dalemusser/kinhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler holds the events feature dependencies.
type Handler struct {
	Events  *eventstore.Store
	Members *memberstore.Store
	Log     *zap.Logger
}

// NewHandler constructs an events Handler.
func NewHandler(events *eventstore.Store, members *memberstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Events: events, Members: members, Log: logger}
}

func (h *Handler) callerVansh(r *http.Request) string {
	u, ok := auth.CurrentUser(r)
	if !ok {
		return ""
	}
	m, err := h.Members.GetBySerNo(r.Context(), u.SerNo)
	if err != nil {
		return ""
	}
	return m.VanshNumber
}

// ServeList handles GET /: published events visible to the caller's
// vansh. ?upcoming=true narrows to future events, soonest first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	page := paging.Parse(r)
	vansh := h.callerVansh(r)

	q := eventstore.ListQuery{
		PublishedOnly: true,
		UpcomingOnly:  query.Get(r, "upcoming") == "true",
		Skip:          page.Skip,
		Limit:         page.Limit,
	}
	if vansh != "" {
		q.Vansh = vansh
	} else {
		// Members without a vansh only see all-vansh events.
		q.AllVanshOnly = true
	}

	events, total, err := h.Events.List(r.Context(), q)
	if err != nil {
		h.Log.Error("list events failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not list events")
		return
	}

	httpjson.Write(w, http.StatusOK, map[string]any{
		"events":     events,
		"pagination": page.Meta(total),
	})
}

// ServeGet handles GET /{id}; hidden events answer 404.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	ev, err := h.Events.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, eventstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "event not found")
			return
		}
		h.Log.Error("get event failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load event")
		return
	}

	// Admins may preview drafts and cross-vansh events.
	if (!ev.IsPublished || !ev.VisibleTo(h.callerVansh(r))) && !authz.IsAdmin(r) {
		httpjson.Error(w, http.StatusNotFound, "event not found")
		return
	}
	httpjson.Write(w, http.StatusOK, ev)
}

// --- admin surface ---

// ServeAdminList handles GET / on the admin mount: everything, drafts
// included.
func (h *Handler) ServeAdminList(w http.ResponseWriter, r *http.Request) {
	page := paging.Parse(r)
	events, total, err := h.Events.List(r.Context(), eventstore.ListQuery{
		Skip:  page.Skip,
		Limit: page.Limit,
	})
	if err != nil {
		h.Log.Error("admin list events failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not list events")
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{
		"events":     events,
		"pagination": page.Meta(total),
	})
}

// eventRequest is the admin create/update payload.
type eventRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	EventDate   time.Time `json:"eventDate"`
	Location    string    `json:"location"`

	IsPublished bool `json:"isPublished"`

	VisibleToAllVansh   bool     `json:"visibleToAllVansh"`
	VisibleVanshNumbers []string `json:"visibleVanshNumbers"`
}

func (req *eventRequest) toModel() models.Event {
	return models.Event{
		Title:               req.Title,
		Description:         req.Description,
		EventDate:           req.EventDate,
		Location:            req.Location,
		IsPublished:         req.IsPublished,
		VisibleToAllVansh:   req.VisibleToAllVansh,
		VisibleVanshNumbers: req.VisibleVanshNumbers,
	}
}

// HandleCreate handles POST / on the admin mount.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Title == "" || req.EventDate.IsZero() {
		httpjson.Error(w, http.StatusBadRequest, "title and eventDate are required")
		return
	}

	ev := req.toModel()
	if u, ok := auth.CurrentUser(r); ok {
		ev.CreatedBySerNo = u.SerNo
		ev.CreatedByName = u.Name
	}

	created, err := h.Events.Insert(r.Context(), ev)
	if err != nil {
		h.Log.Error("create event failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not create event")
		return
	}
	httpjson.Write(w, http.StatusCreated, created)
}

// HandleUpdate handles PUT /{id} on the admin mount.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var req eventRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Title == "" || req.EventDate.IsZero() {
		httpjson.Error(w, http.StatusBadRequest, "title and eventDate are required")
		return
	}

	if err := h.Events.Update(r.Context(), id, req.toModel()); err != nil {
		if errors.Is(err, eventstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "event not found")
			return
		}
		h.Log.Error("update event failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not update event")
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"id": id.Hex(), "updated": true})
}

// HandleDelete handles DELETE /{id} on the admin mount.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := h.Events.Delete(r.Context(), id); err != nil {
		if errors.Is(err, eventstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "event not found")
			return
		}
		h.Log.Error("delete event failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not delete event")
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"id": id.Hex(), "deleted": true})
}

func idParam(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid event id")
		return primitive.NilObjectID, false
	}
	return id, true
}

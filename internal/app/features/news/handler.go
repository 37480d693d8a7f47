// internal/app/features/news/handler.go

// Package news serves family news articles. Members see published
// articles scoped to their vansh; admins manage the full set.
package news

import (
	"errors"
	"net/http"
	"time"

	memberstore "github.com/dalemusser/kinhub/internal/app/store/members"
	newsstore "github.com/dalemusser/kinhub/internal/app/store/news"
	"github.com/dalemusser/kinhub/internal/app/system/auth"
	"github.com/dalemusser/kinhub/internal/app/system/authz"
	"github.com/dalemusser/kinhub/internal/app/system/httpjson"
	"github.com/dalemusser/kinhub/internal/app/system/paging"
	"github.com/dalemusser/kinhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler holds the news feature dependencies.
type Handler struct {
	News    *newsstore.Store
	Members *memberstore.Store
	Log     *zap.Logger
}

// NewHandler constructs a news Handler.
func NewHandler(news *newsstore.Store, members *memberstore.Store, logger *zap.Logger) *Handler {
	return &Handler{News: news, Members: members, Log: logger}
}

// callerVansh resolves the signed-in user's vansh number from their
// member record. Empty when the record is missing or unscoped.
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

// ServeList handles GET /: published articles visible to the caller's
// vansh, newest first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	page := paging.Parse(r)
	vansh := h.callerVansh(r)

	q := newsstore.ListQuery{
		PublishedOnly: true,
		Skip:          page.Skip,
		Limit:         page.Limit,
	}
	if vansh != "" {
		q.Vansh = vansh
	} else {
		// Members without a vansh only see all-vansh articles.
		q.AllVanshOnly = true
	}

	articles, total, err := h.News.List(r.Context(), q)
	if err != nil {
		h.Log.Error("list news failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not list news")
		return
	}

	httpjson.Write(w, http.StatusOK, map[string]any{
		"news":       articles,
		"pagination": page.Meta(total),
	})
}

// ServeGet handles GET /{id}; hidden articles answer 404, not 403, so
// existence is not leaked across vansh lines.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	article, err := h.News.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, newsstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "article not found")
			return
		}
		h.Log.Error("get news failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load article")
		return
	}

	// Admins may preview drafts and cross-vansh articles.
	if (!article.IsPublished || !article.VisibleTo(h.callerVansh(r))) && !authz.IsAdmin(r) {
		httpjson.Error(w, http.StatusNotFound, "article not found")
		return
	}
	httpjson.Write(w, http.StatusOK, article)
}

// --- admin surface ---

// ServeAdminList handles GET / on the admin mount: every article,
// drafts included.
func (h *Handler) ServeAdminList(w http.ResponseWriter, r *http.Request) {
	page := paging.Parse(r)
	articles, total, err := h.News.List(r.Context(), newsstore.ListQuery{
		Skip:  page.Skip,
		Limit: page.Limit,
	})
	if err != nil {
		h.Log.Error("admin list news failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not list news")
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{
		"news":       articles,
		"pagination": page.Meta(total),
	})
}

// articleRequest is the admin create/update payload.
type articleRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Summary string `json:"summary"`

	Category string   `json:"category"`
	Priority string   `json:"priority"`
	Tags     []string `json:"tags"`

	IsPublished bool       `json:"isPublished"`
	PublishDate *time.Time `json:"publishDate"`

	VisibleToAllVansh   bool     `json:"visibleToAllVansh"`
	VisibleVanshNumbers []string `json:"visibleVanshNumbers"`
}

func (req *articleRequest) toModel() models.News {
	return models.News{
		Title:               req.Title,
		Content:             req.Content,
		Summary:             req.Summary,
		Category:            req.Category,
		Priority:            req.Priority,
		Tags:                req.Tags,
		IsPublished:         req.IsPublished,
		PublishDate:         req.PublishDate,
		VisibleToAllVansh:   req.VisibleToAllVansh,
		VisibleVanshNumbers: req.VisibleVanshNumbers,
	}
}

// HandleCreate handles POST / on the admin mount.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req articleRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Title == "" || req.Content == "" {
		httpjson.Error(w, http.StatusBadRequest, "title and content are required")
		return
	}

	article := req.toModel()
	if u, ok := auth.CurrentUser(r); ok {
		article.AuthorSerNo = u.SerNo
		article.AuthorName = u.Name
	}

	created, err := h.News.Insert(r.Context(), article)
	if err != nil {
		h.Log.Error("create news failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not create article")
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

	var req articleRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Title == "" || req.Content == "" {
		httpjson.Error(w, http.StatusBadRequest, "title and content are required")
		return
	}

	if err := h.News.Update(r.Context(), id, req.toModel()); err != nil {
		if errors.Is(err, newsstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "article not found")
			return
		}
		h.Log.Error("update news failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not update article")
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

	if err := h.News.Delete(r.Context(), id); err != nil {
		if errors.Is(err, newsstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "article not found")
			return
		}
		h.Log.Error("delete news failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not delete article")
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"id": id.Hex(), "deleted": true})
}

func idParam(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid article id")
		return primitive.NilObjectID, false
	}
	return id, true
}

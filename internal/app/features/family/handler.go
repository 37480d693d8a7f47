// internal/app/features/family/handler.go

// Package family serves the member directory and the relationship
// endpoints computed over the serNo pointer graph.
package family

import (
	"errors"
	"net/http"
	"strconv"

	memberstore "github.com/dalemusser/kinhub/internal/app/store/members"
	"github.com/dalemusser/kinhub/internal/app/system/httpjson"
	"github.com/dalemusser/kinhub/internal/app/system/normalize"
	"github.com/dalemusser/kinhub/internal/app/system/paging"
	"github.com/dalemusser/kinhub/internal/domain/kinship"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler holds the family feature dependencies.
type Handler struct {
	Members *memberstore.Store
	Log     *zap.Logger
}

// NewHandler constructs a family Handler.
func NewHandler(members *memberstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Members: members, Log: logger}
}

// ServeList handles GET /api/family/members with search, vansh filter,
// and paging.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	page := paging.Parse(r)
	q := memberstore.ListQuery{
		Search: normalize.QueryParam(query.Get(r, "search")),
		Vansh:  normalize.VanshNumber(query.Get(r, "vansh")),
		Skip:   page.Skip,
		Limit:  page.Limit,
	}

	members, total, err := h.Members.List(r.Context(), q)
	if err != nil {
		h.Log.Error("list members failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not list members")
		return
	}

	httpjson.Write(w, http.StatusOK, map[string]any{
		"members":    members,
		"pagination": page.Meta(total),
	})
}

// ServeMember handles GET /api/family/members/{serNo}.
func (h *Handler) ServeMember(w http.ResponseWriter, r *http.Request) {
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
		h.Log.Error("get member failed", zap.Int("ser_no", serNo), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load member")
		return
	}
	httpjson.Write(w, http.StatusOK, m)
}

// relationEntry is one row of the dynamic-relations response.
type relationEntry struct {
	Member          any    `json:"member"`
	RelationKind    string `json:"relationKind"`
	RelationEnglish string `json:"relationEnglish"`
	RelationMarathi string `json:"relationMarathi"`
}

// ServeDynamicRelations handles GET /api/family/dynamic-relations/{serNo}:
// every member related to the subject, with bilingual labels.
func (h *Handler) ServeDynamicRelations(w http.ResponseWriter, r *http.Request) {
	serNo, ok := serNoParam(w, r)
	if !ok {
		return
	}

	all, err := h.Members.ListAll(r.Context())
	if err != nil {
		h.Log.Error("load members for relations failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not compute relations")
		return
	}

	related, err := kinship.RelationsOf(serNo, all)
	if err != nil {
		if errors.Is(err, kinship.ErrMemberNotFound) {
			httpjson.Error(w, http.StatusNotFound, "member not found")
			return
		}
		h.Log.Error("resolve relations failed", zap.Int("ser_no", serNo), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not compute relations")
		return
	}

	entries := make([]relationEntry, 0, len(related))
	for _, mr := range related {
		entries = append(entries, relationEntry{
			Member:          mr.Member,
			RelationKind:    string(mr.Relation.Kind),
			RelationEnglish: mr.Relation.English,
			RelationMarathi: mr.Relation.Marathi,
		})
	}

	httpjson.Write(w, http.StatusOK, map[string]any{
		"serNo":     serNo,
		"relations": entries,
	})
}

// ServeAllRelationships handles GET /api/family/all-relationships: the
// directly-declared edges of the whole graph (spouse and parent-child
// pointers only).
func (h *Handler) ServeAllRelationships(w http.ResponseWriter, r *http.Request) {
	all, err := h.Members.ListAll(r.Context())
	if err != nil {
		h.Log.Error("load members for edges failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not list relationships")
		return
	}

	edges := kinship.StaticEdges(all)
	httpjson.Write(w, http.StatusOK, map[string]any{
		"count":         len(edges),
		"relationships": edges,
	})
}

func serNoParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "serNo")
	serNo, err := strconv.Atoi(raw)
	if err != nil || serNo < 1 {
		httpjson.Error(w, http.StatusBadRequest, "invalid serNo")
		return 0, false
	}
	return serNo, true
}

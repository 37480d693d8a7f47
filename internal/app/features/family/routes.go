// internal/app/features/family/routes.go
package family

import (
	"github.com/dalemusser/kinhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the family routes under the caller's mount point.
// Typically: r.Mount("/api/family", family.Routes(handler))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Get("/members", h.ServeList)
		pr.Get("/members/{serNo}", h.ServeMember)
		pr.Get("/dynamic-relations/{serNo}", h.ServeDynamicRelations)
		pr.Get("/all-relationships", h.ServeAllRelationships)
	})

	return r
}

// internal/app/features/members/routes.go
package members

import (
	"github.com/dalemusser/kinhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the admin member routes.
// Typically: r.Mount("/api/admin/members", members.Routes(handler))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole("admin", "dba"))

		pr.Get("/", h.ServeList)
		pr.Get("/{serNo}", h.ServeGet)
		pr.Delete("/{serNo}", h.HandleDelete)
	})

	return r
}

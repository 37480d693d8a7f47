// internal/app/features/stats/routes.go
package stats

import (
	"github.com/dalemusser/kinhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the stats routes.
// Typically: r.Mount("/api/admin/stats", stats.Routes(handler))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole("admin", "dba"))
		pr.Get("/", h.ServeStats)
	})

	return r
}

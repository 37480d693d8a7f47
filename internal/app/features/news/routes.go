// internal/app/features/news/routes.go
package news

import (
	"github.com/dalemusser/kinhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the member-facing news routes.
// Typically: r.Mount("/api/news", news.Routes(handler))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Get("/", h.ServeList)
		pr.Get("/{id}", h.ServeGet)
	})

	return r
}

// AdminRoutes mounts the management routes.
// Typically: r.Mount("/api/admin/news", news.AdminRoutes(handler))
func AdminRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole("admin", "dba"))

		pr.Get("/", h.ServeAdminList)
		pr.Post("/", h.HandleCreate)
		pr.Put("/{id}", h.HandleUpdate)
		pr.Delete("/{id}", h.HandleDelete)
	})

	return r
}

// internal/app/features/registration/routes.go
package registration

import "github.com/go-chi/chi/v5"

// Routes mounts the public registration route.
// Typically: r.Mount("/api/register", registration.Routes(handler))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.HandleRegister)
	return r
}

// internal/app/features/approvals/routes.go
package approvals

import (
	"github.com/dalemusser/kinhub/internal/app/system/auth"
	"github.com/dalemusser/kinhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the review queue for one submission kind. Typically:
//
//	r.Mount("/api/admin/hierarchy-forms", approvals.Routes(h, models.KindHierarchyForm))
//	r.Mount("/api/admin/temp-members", approvals.Routes(h, models.KindTempMember))
func Routes(h *Handler, kind models.SubmissionKind) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole("admin", "dba"))

		pr.Get("/", h.ServeList(kind))
		pr.Get("/{id}", h.ServeGet)
		pr.Post("/{id}/approve", h.HandleApprove)
		pr.Post("/{id}/reject", h.HandleReject)
	})

	return r
}

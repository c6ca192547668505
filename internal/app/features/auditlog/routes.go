// internal/app/features/auditlog/routes.go
package auditlog

import (
	"github.com/dalemusser/menuhub/internal/app/system/auth"
	"github.com/dalemusser/menuhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the audit log routes (typically at "/api/admin/audit").
// Access is restricted to admins.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(models.RoleAdmin))

		pr.Get("/", h.ServeList)
	})

	return r
}

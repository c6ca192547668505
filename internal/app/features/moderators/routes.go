package moderators

import (
	"github.com/dalemusser/menuhub/internal/app/system/auth"
	"github.com/dalemusser/menuhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted at /api/auth/moderators. Admins only.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(models.RoleAdmin))
		pr.Post("/", h.HandleCreate)
	})

	return r
}

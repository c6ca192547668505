// internal/app/features/reports/routes.go
package reports

import (
	"github.com/dalemusser/menuhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted at /api/reports.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(rr chi.Router) {
		rr.Use(sm.RequireSignedIn)
		// Admin gating is enforced inside the handlers.
		rr.Get("/stats", h.ServeStats)
		rr.Get("/categories", h.ServeCategories)
		rr.Get("/users", h.ServeUsers)
		rr.Get("/popular-items", h.ServePopularItems)
	})

	return r
}

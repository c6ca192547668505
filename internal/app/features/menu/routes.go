package menu

import (
	"github.com/dalemusser/menuhub/internal/app/system/auth"
	"github.com/dalemusser/menuhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted at /api/menu. Reads are public; /all and every write
// require an admin or moderator.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeList)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(models.RoleAdmin, models.RoleModerator))
		pr.Get("/all", h.ServeListAll)
		pr.Post("/", h.HandleCreate)
		pr.Put("/{id}", h.HandleUpdate)
		pr.Delete("/{id}", h.HandleDelete)
	})

	r.Get("/{id}", h.ServeGet)

	return r
}

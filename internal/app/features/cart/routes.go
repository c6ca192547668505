package cart

import (
	"github.com/dalemusser/menuhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted at /api/cart. Every route requires a signed-in user.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeCart)
		pr.Delete("/", h.HandleClear)
		pr.Post("/items", h.HandleAdd)
		pr.Post("/items/{menuItemId}", h.HandleUpdateQuantity)
		pr.Delete("/items/{menuItemId}", h.HandleRemove)
	})

	return r
}

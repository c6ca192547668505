package menu

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/menuhub/internal/app/features/errors"
	"github.com/dalemusser/menuhub/internal/app/policy/menupolicy"
	"github.com/dalemusser/menuhub/internal/app/system/apperr"
	"github.com/dalemusser/menuhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/mongo"
)

// ServeList handles GET /api/menu: available items, optionally narrowed by
// ?category=.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	items, err := h.Items.ListAvailable(ctx, query.Get(r, "category"))
	if err != nil {
		h.ErrLog.Write(w, r, apperr.Store("failed to fetch menu items", err))
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, items)
}

// ServeListAll handles GET /api/menu/all, including unavailable items.
func (h *Handler) ServeListAll(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	items, err := h.Items.ListAll(ctx)
	if err != nil {
		h.ErrLog.Write(w, r, apperr.Store("failed to fetch menu items", err))
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, items)
}

// ServeGet handles GET /api/menu/{id}. Unavailable items are hidden from
// callers who cannot manage the menu.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	m, err := h.Items.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		h.ErrLog.Write(w, r, errItemNotFound)
		return
	}
	if err != nil {
		h.ErrLog.Write(w, r, apperr.Store("failed to fetch menu item", err))
		return
	}
	if !menupolicy.CanView(r, m) {
		h.ErrLog.Write(w, r, errItemNotFound)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, m)
}

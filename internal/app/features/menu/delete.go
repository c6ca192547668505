package menu

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/menuhub/internal/app/features/errors"
	"github.com/dalemusser/menuhub/internal/app/system/apperr"
	"github.com/dalemusser/menuhub/internal/app/system/authz"
	"github.com/dalemusser/menuhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// HandleDelete handles DELETE /api/menu/{id}. Existing orders keep their
// snapshots of the item; carts holding it show a null item.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	m, err := h.Items.Delete(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		h.ErrLog.Write(w, r, errItemNotFound)
		return
	}
	if err != nil {
		h.ErrLog.Write(w, r, apperr.Store("failed to delete menu item", err))
		return
	}

	role, _, actorID, _ := authz.UserCtx(r)
	h.AuditLog.MenuItemDeleted(ctx, r, actorID, m.ID, role, m.Name)
	h.Log.Info("menu item deleted", zap.String("menu_item_id", m.ID.Hex()), zap.String("actor_id", actorID.Hex()))

	uierrors.WriteJSON(w, http.StatusOK, map[string]string{"message": "menu item deleted"})
}

package cart

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/menuhub/internal/app/policy/menupolicy"
	"github.com/dalemusser/menuhub/internal/app/system/apperr"
	"github.com/dalemusser/menuhub/internal/app/system/formutil"
	"github.com/dalemusser/menuhub/internal/app/system/limits"
	"github.com/dalemusser/menuhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ServeCart handles GET /api/cart.
func (h *Handler) ServeCart(w http.ResponseWriter, r *http.Request) {
	uid, err := currentUserID(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	h.writeView(ctx, w, r, uid)
}

type addRequest struct {
	MenuItemID string `json:"menuItemId" validate:"required,objectid"`
	Quantity   *int   `json:"quantity" validate:"omitnil,min=1,max=1000"`
}

// HandleAdd handles POST /api/cart/items. Quantity defaults to 1 and adds to
// any quantity already in the cart.
func (h *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	uid, err := currentUserID(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	var req addRequest
	if err := formutil.DecodeJSON(w, r, &req, limits.MaxJSONBody); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}
	itemID, _ := primitive.ObjectIDFromHex(req.MenuItemID)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	m, err := h.Items.GetByID(ctx, itemID)
	if errors.Is(err, mongo.ErrNoDocuments) || (err == nil && !menupolicy.CanView(r, m)) {
		h.ErrLog.Write(w, r, apperr.NotFound("menu item not found"))
		return
	}
	if err != nil {
		h.ErrLog.Write(w, r, apperr.Store("failed to fetch menu item", err))
		return
	}

	if err := h.Carts.Add(ctx, uid, itemID, qty); err != nil {
		h.ErrLog.Write(w, r, lineErr(err, "failed to add to cart"))
		return
	}
	h.Metrics.CartMutation("add")
	h.writeView(ctx, w, r, uid)
}

type quantityRequest struct {
	Quantity *int `json:"quantity" validate:"required,min=1,max=1000"`
}

// HandleUpdateQuantity handles POST /api/cart/items/{menuItemId}. It sets
// the quantity; removing a line is a separate DELETE.
func (h *Handler) HandleUpdateQuantity(w http.ResponseWriter, r *http.Request) {
	uid, err := currentUserID(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	itemID, err := menuItemParam(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	var req quantityRequest
	if err := formutil.DecodeJSON(w, r, &req, limits.MaxJSONBody); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Carts.SetQuantity(ctx, uid, itemID, *req.Quantity); err != nil {
		h.ErrLog.Write(w, r, lineErr(err, "failed to update cart"))
		return
	}
	h.Metrics.CartMutation("update")
	h.writeView(ctx, w, r, uid)
}

// HandleRemove handles DELETE /api/cart/items/{menuItemId}.
func (h *Handler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	uid, err := currentUserID(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	itemID, err := menuItemParam(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Carts.RemoveItem(ctx, uid, itemID); err != nil {
		h.ErrLog.Write(w, r, lineErr(err, "failed to remove from cart"))
		return
	}
	h.Metrics.CartMutation("remove")
	h.writeView(ctx, w, r, uid)
}

// HandleClear handles DELETE /api/cart.
func (h *Handler) HandleClear(w http.ResponseWriter, r *http.Request) {
	uid, err := currentUserID(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Carts.Clear(ctx, uid); err != nil {
		h.ErrLog.Write(w, r, apperr.Store("failed to clear cart", err))
		return
	}
	h.Metrics.CartMutation("clear")
	h.writeView(ctx, w, r, uid)
}

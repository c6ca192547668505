package orders

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/menuhub/internal/app/features/errors"
	"github.com/dalemusser/menuhub/internal/app/policy/orderpolicy"
	"github.com/dalemusser/menuhub/internal/app/system/apperr"
	"github.com/dalemusser/menuhub/internal/app/system/authz"
	"github.com/dalemusser/menuhub/internal/app/system/formutil"
	"github.com/dalemusser/menuhub/internal/app/system/limits"
	"github.com/dalemusser/menuhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type statusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending processing completed cancelled"`
}

// HandleUpdateStatus handles PATCH /api/orders/{id}/status.
func (h *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	if !orderpolicy.CanUpdateStatus(r) {
		h.ErrLog.Write(w, r, apperr.Forbidden("only admins can change order status"))
		return
	}
	id, err := orderID(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	var req statusRequest
	if err := formutil.DecodeJSON(w, r, &req, limits.MaxJSONBody); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	o, prev, err := h.Orders.UpdateStatus(ctx, id, req.Status)
	if errors.Is(err, mongo.ErrNoDocuments) {
		h.ErrLog.Write(w, r, errOrderNotFound)
		return
	}
	if err != nil {
		h.ErrLog.Write(w, r, apperr.Store("failed to update order status", err))
		return
	}

	_, _, actorID, _ := authz.UserCtx(r)
	h.AuditLog.OrderStatusChanged(ctx, r, actorID, o.UserID, o.ID, prev, o.Status)
	h.Log.Info("order status changed",
		zap.String("order_id", o.ID.Hex()),
		zap.String("from", prev),
		zap.String("to", o.Status))

	uierrors.WriteJSON(w, http.StatusOK, o)
}

package orders

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/menuhub/internal/app/features/errors"
	"github.com/dalemusser/menuhub/internal/app/policy/orderpolicy"
	orderstore "github.com/dalemusser/menuhub/internal/app/store/orders"
	"github.com/dalemusser/menuhub/internal/app/system/apperr"
	"github.com/dalemusser/menuhub/internal/app/system/daterange"
	"github.com/dalemusser/menuhub/internal/app/system/paging"
	"github.com/dalemusser/menuhub/internal/app/system/timeouts"
	"github.com/dalemusser/menuhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ServeList handles GET /api/orders. Non-admins always see only their own
// orders; ?user= is honored for admins only.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	var requested *primitive.ObjectID
	if s := query.Get(r, "user"); s != "" {
		oid, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			h.ErrLog.Write(w, r, apperr.Validation("user must be a valid id"))
			return
		}
		requested = &oid
	}

	scope := orderpolicy.ListOrders(r, requested)
	if !scope.CanList {
		h.ErrLog.Write(w, r, apperr.Unauthenticated("sign in required"))
		return
	}

	f := orderstore.ListFilter{UserID: scope.UserID}

	if s := strings.ToLower(query.Get(r, "status")); s != "" {
		if !models.IsValidOrderStatus(s) {
			h.ErrLog.Write(w, r, apperr.Validationf("status must be one of: %s", strings.Join(models.OrderStatuses, ", ")))
			return
		}
		f.Status = s
	}

	start, end := query.Get(r, "start"), query.Get(r, "end")
	if start != "" || end != "" {
		rng, err := daterange.Parse(start, end)
		if err != nil {
			h.ErrLog.Write(w, r, err)
			return
		}
		f.Start, f.End = &rng.Start, &rng.End
	}

	limit, err := paging.ParseLimit(r, orderstore.DefaultListLimit, orderstore.MaxListLimit)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	f.Limit = limit

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Orders.List(ctx, f)
	if err != nil {
		h.ErrLog.Write(w, r, apperr.Store("failed to list orders", err))
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, list)
}

// ServeGet handles GET /api/orders/{id}. Another user's order is reported
// as not found.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, err := orderID(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	o, err := h.Orders.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		h.ErrLog.Write(w, r, errOrderNotFound)
		return
	}
	if err != nil {
		h.ErrLog.Write(w, r, apperr.Store("failed to fetch order", err))
		return
	}
	if !orderpolicy.CanViewOrder(r, o) {
		h.ErrLog.Write(w, r, errOrderNotFound)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, o)
}

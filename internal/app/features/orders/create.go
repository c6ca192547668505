package orders

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/menuhub/internal/app/features/errors"
	"github.com/dalemusser/menuhub/internal/app/policy/menupolicy"
	"github.com/dalemusser/menuhub/internal/app/system/apperr"
	"github.com/dalemusser/menuhub/internal/app/system/authz"
	"github.com/dalemusser/menuhub/internal/app/system/events"
	"github.com/dalemusser/menuhub/internal/app/system/formutil"
	"github.com/dalemusser/menuhub/internal/app/system/limits"
	"github.com/dalemusser/menuhub/internal/app/system/money"
	"github.com/dalemusser/menuhub/internal/app/system/timeouts"
	"github.com/dalemusser/menuhub/internal/domain/models"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type lineRequest struct {
	MenuItemID string `json:"menuItemId" validate:"required,objectid"`
	Quantity   int    `json:"quantity" validate:"required,min=1,max=1000"`
}

type createRequest struct {
	Items    []lineRequest `json:"items" validate:"required,min=1,max=100,dive"`
	FromCart bool          `json:"fromCart"`
}

// HandleCreate handles POST /api/orders. Every line must resolve to an
// orderable menu item or nothing is written.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		h.ErrLog.Write(w, r, apperr.Unauthenticated("sign in required"))
		return
	}

	var req createRequest
	if err := formutil.DecodeJSON(w, r, &req, limits.MaxJSONBody); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ids := make([]primitive.ObjectID, 0, len(req.Items))
	seen := make(map[primitive.ObjectID]bool, len(req.Items))
	for _, l := range req.Items {
		id, _ := primitive.ObjectIDFromHex(l.MenuItemID)
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	found, err := h.Items.FindByIDs(ctx, ids)
	if err != nil {
		h.ErrLog.Write(w, r, apperr.Store("failed to look up menu items", err))
		return
	}
	var missing []string
	for _, id := range ids {
		m, ok := found[id]
		if !ok || !menupolicy.CanView(r, &m) {
			missing = append(missing, id.Hex())
		}
	}
	if len(missing) > 0 {
		h.ErrLog.Write(w, r, apperr.NotFound("some menu items were not found").WithDetail("missingIds", missing))
		return
	}

	lines := make([]models.OrderLine, 0, len(req.Items))
	total := decimal.Zero
	for _, l := range req.Items {
		id, _ := primitive.ObjectIDFromHex(l.MenuItemID)
		m := found[id]
		lines = append(lines, models.OrderLine{
			MenuItemID: m.ID,
			Name:       m.Name,
			Price:      m.Price,
			Category:   m.Category,
			Quantity:   l.Quantity,
		})
		total = total.Add(money.LineTotal(m.Price, l.Quantity))
	}

	o, err := h.Orders.Create(ctx, models.Order{
		UserID:      uid,
		Items:       lines,
		Status:      models.OrderPending,
		TotalAmount: money.Float(total),
	})
	if err != nil {
		h.ErrLog.Write(w, r, apperr.Store("failed to create order", err))
		return
	}

	if req.FromCart {
		if err := h.Carts.Clear(ctx, uid); err != nil {
			h.Log.Warn("order placed but cart not cleared",
				zap.String("order_id", o.ID.Hex()), zap.Error(err))
		} else {
			h.Metrics.CartMutation("clear")
		}
	}
	if err := h.Publisher.PublishOrderCreated(ctx, o); err != nil {
		h.Log.Error("failed to publish order event",
			zap.String("order_id", o.ID.Hex()), zap.Error(err))
		h.Metrics.EventPublishFailed(events.TypeOrderCreated)
	}
	h.Metrics.OrderCreated(o.TotalAmount)
	h.AuditLog.OrderPlaced(ctx, r, uid, o.ID, len(o.Items), o.TotalAmount)

	uierrors.WriteJSON(w, http.StatusCreated, o)
}

// internal/app/features/cart/handler.go
package cart

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/menuhub/internal/app/features/errors"
	cartstore "github.com/dalemusser/menuhub/internal/app/store/carts"
	menuitemstore "github.com/dalemusser/menuhub/internal/app/store/menuitems"
	"github.com/dalemusser/menuhub/internal/app/system/apperr"
	"github.com/dalemusser/menuhub/internal/app/system/authz"
	"github.com/dalemusser/menuhub/internal/app/system/metrics"
	"github.com/dalemusser/menuhub/internal/app/system/money"
	"github.com/dalemusser/menuhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the signed-in user's cart.
type Handler struct {
	Carts   *cartstore.Store
	Items   *menuitemstore.Store
	Metrics *metrics.Metrics
	Log     *zap.Logger
	ErrLog  *uierrors.ErrorLogger
}

func NewHandler(db *mongo.Database, m *metrics.Metrics, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Carts:   cartstore.New(db),
		Items:   menuitemstore.New(db),
		Metrics: m,
		Log:     logger,
		ErrLog:  errLog,
	}
}

// Line is a cart line joined with the current menu item. MenuItem is null
// when the item has since been deleted.
type Line struct {
	MenuItemID primitive.ObjectID `json:"menuItemId"`
	Quantity   int                `json:"quantity"`
	MenuItem   *models.MenuItem   `json:"menuItem"`
}

// View is the response body of every cart endpoint.
type View struct {
	Cart     []Line  `json:"cart"`
	Subtotal float64 `json:"subtotal"`
}

func currentUserID(r *http.Request) (primitive.ObjectID, error) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		return primitive.NilObjectID, apperr.Unauthenticated("sign in required")
	}
	return uid, nil
}

func menuItemParam(r *http.Request) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "menuItemId"))
	if err != nil {
		return primitive.NilObjectID, apperr.Validation("invalid menu item id")
	}
	return oid, nil
}

// load builds the cart view for userID. A user without a cart gets an empty
// view; the subtotal covers lines whose item still exists.
func (h *Handler) load(ctx context.Context, userID primitive.ObjectID) (View, error) {
	view := View{Cart: []Line{}}

	c, err := h.Carts.Get(ctx, userID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return view, nil
	}
	if err != nil {
		return view, apperr.Store("failed to load cart", err)
	}

	ids := make([]primitive.ObjectID, 0, len(c.Items))
	for _, l := range c.Items {
		ids = append(ids, l.MenuItemID)
	}
	items, err := h.Items.FindByIDs(ctx, ids)
	if err != nil {
		return view, apperr.Store("failed to load cart items", err)
	}

	subtotal := decimal.Zero
	for _, l := range c.Items {
		line := Line{MenuItemID: l.MenuItemID, Quantity: l.Quantity}
		if m, ok := items[l.MenuItemID]; ok {
			line.MenuItem = &m
			subtotal = subtotal.Add(money.LineTotal(m.Price, l.Quantity))
		}
		view.Cart = append(view.Cart, line)
	}
	view.Subtotal = money.Float(subtotal)
	return view, nil
}

func (h *Handler) writeView(ctx context.Context, w http.ResponseWriter, r *http.Request, userID primitive.ObjectID) {
	view, err := h.load(ctx, userID)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, view)
}

func lineErr(err error, msg string) error {
	switch {
	case errors.Is(err, cartstore.ErrLineNotFound):
		return apperr.NotFound(err.Error())
	case errors.Is(err, cartstore.ErrBadQuantity), errors.Is(err, cartstore.ErrQuantityLimit):
		return apperr.Validation(err.Error())
	default:
		return apperr.Store(msg, err)
	}
}

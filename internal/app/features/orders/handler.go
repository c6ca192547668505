// internal/app/features/orders/handler.go
package orders

import (
	"net/http"

	uierrors "github.com/dalemusser/menuhub/internal/app/features/errors"
	cartstore "github.com/dalemusser/menuhub/internal/app/store/carts"
	menuitemstore "github.com/dalemusser/menuhub/internal/app/store/menuitems"
	orderstore "github.com/dalemusser/menuhub/internal/app/store/orders"
	"github.com/dalemusser/menuhub/internal/app/system/apperr"
	"github.com/dalemusser/menuhub/internal/app/system/auditlog"
	"github.com/dalemusser/menuhub/internal/app/system/events"
	"github.com/dalemusser/menuhub/internal/app/system/metrics"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler places, lists, and updates orders.
type Handler struct {
	Orders    *orderstore.Store
	Items     *menuitemstore.Store
	Carts     *cartstore.Store
	Publisher events.Publisher
	Metrics   *metrics.Metrics
	Log       *zap.Logger
	ErrLog    *uierrors.ErrorLogger
	AuditLog  *auditlog.Logger
}

// NewHandler wires the order handler. A nil publisher discards events.
func NewHandler(db *mongo.Database, pub events.Publisher, m *metrics.Metrics, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	if pub == nil {
		pub = events.NopPublisher{}
	}
	return &Handler{
		Orders:    orderstore.New(db),
		Items:     menuitemstore.New(db),
		Carts:     cartstore.New(db),
		Publisher: pub,
		Metrics:   m,
		Log:       logger,
		ErrLog:    errLog,
		AuditLog:  audit,
	}
}

func orderID(r *http.Request) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return primitive.NilObjectID, apperr.Validation("invalid order id")
	}
	return oid, nil
}

var errOrderNotFound = apperr.NotFound("order not found")

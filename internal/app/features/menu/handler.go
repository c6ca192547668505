// internal/app/features/menu/handler.go
package menu

import (
	"net/http"

	uierrors "github.com/dalemusser/menuhub/internal/app/features/errors"
	menuitemstore "github.com/dalemusser/menuhub/internal/app/store/menuitems"
	"github.com/dalemusser/menuhub/internal/app/system/apperr"
	"github.com/dalemusser/menuhub/internal/app/system/auditlog"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the menu catalog.
type Handler struct {
	Items    *menuitemstore.Store
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Items:    menuitemstore.New(db),
		Log:      logger,
		ErrLog:   errLog,
		AuditLog: audit,
	}
}

func itemID(r *http.Request) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return primitive.NilObjectID, apperr.Validation("invalid menu item id")
	}
	return oid, nil
}

var errItemNotFound = apperr.NotFound("menu item not found")

// internal/app/features/moderators/handler.go
package moderators

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/menuhub/internal/app/features/errors"
	"github.com/dalemusser/menuhub/internal/app/features/register"
	userstore "github.com/dalemusser/menuhub/internal/app/store/users"
	"github.com/dalemusser/menuhub/internal/app/system/auditlog"
	"github.com/dalemusser/menuhub/internal/app/system/authz"
	"github.com/dalemusser/menuhub/internal/app/system/formutil"
	"github.com/dalemusser/menuhub/internal/app/system/limits"
	"github.com/dalemusser/menuhub/internal/app/system/timeouts"
	"github.com/dalemusser/menuhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Users    *userstore.Store
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:    userstore.New(db),
		Log:      logger,
		ErrLog:   errLog,
		AuditLog: audit,
	}
}

// HandleCreate handles POST /api/auth/moderators (admin only).
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req register.Request
	if err := formutil.DecodeJSON(w, r, &req, limits.MaxAuthBody); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := register.CreateUser(ctx, h.Users, req, models.RoleModerator)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	_, _, actorID, _ := authz.UserCtx(r)
	h.AuditLog.ModeratorCreated(ctx, r, actorID, u.ID, u.Email)
	h.Log.Info("moderator created", zap.String("moderator_id", u.ID.Hex()), zap.String("actor_id", actorID.Hex()))

	u.PasswordHash = ""
	uierrors.WriteJSON(w, http.StatusCreated, u)
}

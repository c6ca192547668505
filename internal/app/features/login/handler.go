// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/menuhub/internal/app/features/errors"
	userstore "github.com/dalemusser/menuhub/internal/app/store/users"
	"github.com/dalemusser/menuhub/internal/app/system/apperr"
	"github.com/dalemusser/menuhub/internal/app/system/auditlog"
	"github.com/dalemusser/menuhub/internal/app/system/auth"
	"github.com/dalemusser/menuhub/internal/app/system/authutil"
	"github.com/dalemusser/menuhub/internal/app/system/formutil"
	"github.com/dalemusser/menuhub/internal/app/system/limits"
	"github.com/dalemusser/menuhub/internal/app/system/normalize"
	"github.com/dalemusser/menuhub/internal/app/system/ratelimit"
	"github.com/dalemusser/menuhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Users      *userstore.Store
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	AuditLog   *auditlog.Logger
	Limiter    *ratelimit.LoginLimiter // nil disables throttling
}

func NewHandler(
	db *mongo.Database,
	sessionMgr *auth.SessionManager,
	errLog *uierrors.ErrorLogger,
	audit *auditlog.Logger,
	limiter *ratelimit.LoginLimiter,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Users:      userstore.New(db),
		Log:        logger,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		AuditLog:   audit,
		Limiter:    limiter,
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required" label:"email"`
	Password string `json:"password" validate:"required" label:"password"`
}

// errBadCredentials is deliberately the same for unknown emails and wrong
// passwords.
var errBadCredentials = apperr.Unauthenticated("invalid email or password")

// HandleLogin handles POST /api/auth/login.
//
// On success the session cookie is set and the user is returned. Unknown
// emails and wrong passwords both yield 401 with the same message.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := formutil.DecodeJSON(w, r, &req, limits.MaxAuthBody); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	email := normalize.Email(req.Email)

	if ok, msg := h.Limiter.Check(r, email); !ok {
		h.Log.Warn("login rate limited", zap.String("email", email), zap.String("ip", ratelimit.ClientIP(r)))
		uierrors.WriteJSON(w, http.StatusTooManyRequests, uierrors.Body{Error: msg})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, email)
	if errors.Is(err, mongo.ErrNoDocuments) {
		h.AuditLog.LoginFailedUserNotFound(ctx, r, email)
		h.ErrLog.Write(w, r, errBadCredentials)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "failed to look up user", err)
		return
	}

	if !authutil.CheckPassword(u.PasswordHash, req.Password) {
		h.AuditLog.LoginFailedWrongPassword(ctx, r, u.ID, email)
		h.ErrLog.Write(w, r, errBadCredentials)
		return
	}

	if err := h.SessionMgr.SignIn(w, r, u.ID.Hex()); err != nil {
		h.ErrLog.LogServerError(w, r, "failed to start session", err)
		return
	}
	h.Limiter.ResetEmail(email)
	h.AuditLog.LoginSuccess(ctx, r, u.ID, email)
	h.Log.Info("user signed in", zap.String("user_id", u.ID.Hex()), zap.String("role", u.Role))

	uierrors.WriteJSON(w, http.StatusOK, u)
}

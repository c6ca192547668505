// internal/app/features/register/handler.go
package register

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/menuhub/internal/app/features/errors"
	userstore "github.com/dalemusser/menuhub/internal/app/store/users"
	"github.com/dalemusser/menuhub/internal/app/system/apperr"
	"github.com/dalemusser/menuhub/internal/app/system/auditlog"
	"github.com/dalemusser/menuhub/internal/app/system/authutil"
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

// Request is the body shared by registration and moderator creation.
type Request struct {
	Name     string `json:"name" validate:"required,max=120" label:"name"`
	Email    string `json:"email" validate:"required,loginemail,max=254" label:"email"`
	Password string `json:"password" validate:"required,min=8,max=128" label:"password"`
}

// CreateUser hashes the password and stores a user with role. A duplicate
// email is a conflict.
func CreateUser(ctx context.Context, users *userstore.Store, req Request, role string) (models.User, error) {
	hash, err := authutil.HashPassword(req.Password)
	if err != nil {
		return models.User{}, apperr.Store("failed to hash password", err)
	}
	u, err := users.Create(ctx, models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
	})
	if errors.Is(err, userstore.ErrDuplicateEmail) {
		return models.User{}, apperr.Conflict("a user with this email already exists")
	}
	if err != nil {
		return models.User{}, apperr.Store("failed to create user", err)
	}
	return u, nil
}

// HandleRegister handles POST /api/auth/register. New accounts always get
// the user role; it does not sign the caller in.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := formutil.DecodeJSON(w, r, &req, limits.MaxAuthBody); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := CreateUser(ctx, h.Users, req, models.RoleUser)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	h.AuditLog.UserRegistered(ctx, r, u.ID, u.Email)
	u.PasswordHash = ""
	uierrors.WriteJSON(w, http.StatusCreated, u)
}

// internal/app/features/userinfo/handler.go
package userinfo

import (
	"net/http"

	uierrors "github.com/dalemusser/menuhub/internal/app/features/errors"
	"github.com/dalemusser/menuhub/internal/app/system/auth"
)

// Handler serves the signed-in user's identity.
type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// Me is the response body of GET /api/auth/me.
type Me struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// ServeMe returns the current user, or 401 when nobody is signed in.
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.WriteJSON(w, http.StatusUnauthorized, uierrors.Body{Error: "sign in required"})
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, Me{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role})
}

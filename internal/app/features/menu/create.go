package menu

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/menuhub/internal/app/features/errors"
	"github.com/dalemusser/menuhub/internal/app/system/apperr"
	"github.com/dalemusser/menuhub/internal/app/system/authz"
	"github.com/dalemusser/menuhub/internal/app/system/formutil"
	"github.com/dalemusser/menuhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/menuhub/internal/app/system/limits"
	"github.com/dalemusser/menuhub/internal/app/system/timeouts"
	"github.com/dalemusser/menuhub/internal/domain/models"
	"go.uber.org/zap"
)

type createRequest struct {
	Name        string   `json:"name" validate:"required,max=120"`
	Description string   `json:"description" validate:"required,max=4000"`
	Price       *float64 `json:"price" validate:"required,gte=0,cents"`
	Category    string   `json:"category" validate:"required,max=60"`
	Image       string   `json:"image" validate:"omitempty,max=2048"`
	Available   *bool    `json:"available"`
}

// HandleCreate handles POST /api/menu.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := formutil.DecodeJSON(w, r, &req, limits.MaxJSONBody); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	item := models.MenuItem{
		Name:        htmlsanitize.StripTags(req.Name),
		Description: htmlsanitize.Sanitize(req.Description),
		Price:       *req.Price,
		Category:    htmlsanitize.StripTags(req.Category),
		Image:       req.Image,
		Available:   true,
	}
	if req.Available != nil {
		item.Available = *req.Available
	}
	if item.Name == "" || item.Description == "" || item.Category == "" {
		h.ErrLog.Write(w, r, apperr.Validation("name, description and category must contain text"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, err := h.Items.Create(ctx, item)
	if err != nil {
		h.ErrLog.Write(w, r, apperr.Store("failed to create menu item", err))
		return
	}

	role, _, actorID, _ := authz.UserCtx(r)
	h.AuditLog.MenuItemCreated(ctx, r, actorID, created.ID, role, created.Name)
	h.Log.Info("menu item created", zap.String("menu_item_id", created.ID.Hex()), zap.String("actor_id", actorID.Hex()))

	uierrors.WriteJSON(w, http.StatusCreated, created)
}

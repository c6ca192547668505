package menu

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/menuhub/internal/app/features/errors"
	menuitemstore "github.com/dalemusser/menuhub/internal/app/store/menuitems"
	"github.com/dalemusser/menuhub/internal/app/system/apperr"
	"github.com/dalemusser/menuhub/internal/app/system/authz"
	"github.com/dalemusser/menuhub/internal/app/system/formutil"
	"github.com/dalemusser/menuhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/menuhub/internal/app/system/inputval"
	"github.com/dalemusser/menuhub/internal/app/system/limits"
	"github.com/dalemusser/menuhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
)

// updateRequest mirrors createRequest with every field optional. A field
// that is present must satisfy the same rules as on create.
type updateRequest struct {
	Name        *string  `json:"name" validate:"omitnil,min=1,max=120"`
	Description *string  `json:"description" validate:"omitnil,min=1,max=4000"`
	Price       *float64 `json:"price" validate:"omitnil,gte=0,cents"`
	Category    *string  `json:"category" validate:"omitnil,min=1,max=60"`
	Image       *string  `json:"image" validate:"omitnil,max=2048"`
	Available   *bool    `json:"available"`
}

func (req updateRequest) toUpdate() (menuitemstore.Update, error) {
	upd := menuitemstore.Update{Price: req.Price, Image: req.Image, Available: req.Available}
	plain := func(field string, in *string, clean func(string) string) (*string, error) {
		if in == nil {
			return nil, nil
		}
		s := clean(*in)
		if strings.TrimSpace(s) == "" {
			return nil, apperr.Validationf("%s must contain text", field)
		}
		return &s, nil
	}
	var err error
	if upd.Name, err = plain("name", req.Name, htmlsanitize.StripTags); err != nil {
		return upd, err
	}
	if upd.Description, err = plain("description", req.Description, htmlsanitize.Sanitize); err != nil {
		return upd, err
	}
	if upd.Category, err = plain("category", req.Category, htmlsanitize.StripTags); err != nil {
		return upd, err
	}
	return upd, nil
}

// HandleUpdate handles PUT /api/menu/{id}. Only the supplied fields change.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	var req updateRequest
	if err := formutil.DecodeJSONOnly(w, r, &req, limits.MaxJSONBody); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	if res := inputval.Validate(req); !res.OK() {
		h.ErrLog.Write(w, r, apperr.Validation(res.First()).WithDetail("fields", res.Fields()))
		return
	}
	upd, err := req.toUpdate()
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	fields := upd.Fields()
	if len(fields) == 0 {
		h.ErrLog.Write(w, r, apperr.Validation("no fields to update"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	m, err := h.Items.Update(ctx, id, upd)
	if errors.Is(err, mongo.ErrNoDocuments) {
		h.ErrLog.Write(w, r, errItemNotFound)
		return
	}
	if err != nil {
		h.ErrLog.Write(w, r, apperr.Store("failed to update menu item", err))
		return
	}

	role, _, actorID, _ := authz.UserCtx(r)
	h.AuditLog.MenuItemUpdated(ctx, r, actorID, m.ID, role, m.Name, strings.Join(fields, ","))

	uierrors.WriteJSON(w, http.StatusOK, m)
}

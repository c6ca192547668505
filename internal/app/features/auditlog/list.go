// internal/app/features/auditlog/list.go
package auditlog

import (
	"context"
	"net/http"
	"slices"

	uierrors "github.com/dalemusser/menuhub/internal/app/features/errors"
	"github.com/dalemusser/menuhub/internal/app/store/audit"
	"github.com/dalemusser/menuhub/internal/app/system/apperr"
	"github.com/dalemusser/menuhub/internal/app/system/daterange"
	"github.com/dalemusser/menuhub/internal/app/system/normalize"
	"github.com/dalemusser/menuhub/internal/app/system/paging"
	"github.com/dalemusser/menuhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// List limits.
const (
	defaultLimit = 50
	maxLimit     = 200
)

type listResponse struct {
	Events []audit.Event `json:"events"`
	Total  int64         `json:"total"`
}

// ServeList handles GET /api/admin/audit.
//
// Query parameters (all optional): category, type, user (user id),
// start and end (dates), limit (default 50, max 200). Events are returned
// newest first; total counts every matching event regardless of limit.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	events, err := h.Store.Query(ctx, f)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "failed to load audit events", err)
		return
	}
	total, err := h.Store.CountByFilter(ctx, f)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "failed to count audit events", err)
		return
	}

	uierrors.WriteJSON(w, http.StatusOK, listResponse{Events: events, Total: total})
}

func parseFilter(r *http.Request) (audit.QueryFilter, error) {
	var f audit.QueryFilter

	f.Category = normalize.QueryParam(query.Get(r, "category"))
	if f.Category != "" && !slices.Contains(audit.Categories, f.Category) {
		return f, apperr.Validationf("category must be one of %v", audit.Categories)
	}
	f.EventType = normalize.QueryParam(query.Get(r, "type"))

	if s := query.Get(r, "user"); s != "" {
		oid, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			return f, apperr.Validation("user must be a valid id")
		}
		f.UserID = &oid
	}

	start, end := query.Get(r, "start"), query.Get(r, "end")
	if start != "" && end != "" {
		rng, err := daterange.Parse(start, end)
		if err != nil {
			return f, err
		}
		f.StartTime, f.EndTime = &rng.Start, &rng.End
	} else if start != "" || end != "" {
		return f, apperr.Validation("start and end must be supplied together")
	}

	limit, err := paging.ParseLimit(r, defaultLimit, maxLimit)
	if err != nil {
		return f, err
	}
	f.Limit = limit
	return f, nil
}

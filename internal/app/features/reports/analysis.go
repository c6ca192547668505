package reports

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/menuhub/internal/app/policy/reportpolicy"
	"github.com/dalemusser/menuhub/internal/app/reporting"
	"github.com/dalemusser/menuhub/internal/app/store/queries/reportqueries"
	"github.com/dalemusser/menuhub/internal/app/system/apperr"
	"github.com/dalemusser/menuhub/internal/app/system/daterange"
	"github.com/dalemusser/menuhub/internal/app/system/reportcache"
	"github.com/dalemusser/waffle/pantry/query"
)

// rangeFor parses ?start&end. When required is false, missing bounds fall
// back to the last DefaultAnalysisDays days.
func (h *Handler) rangeFor(r *http.Request, required bool) (daterange.Range, error) {
	start, end := query.Get(r, "start"), query.Get(r, "end")
	var (
		rng daterange.Range
		err error
	)
	if required {
		rng, err = daterange.Parse(start, end)
	} else {
		rng, err = daterange.ParseOrDefault(start, end, h.Now(), DefaultAnalysisDays)
	}
	if err != nil {
		return daterange.Range{}, err
	}
	if err := rng.Check(h.MaxRangeDays); err != nil {
		return daterange.Range{}, err
	}
	return rng, nil
}

func rangeKey(name string, rng daterange.Range) string {
	return reportcache.Key(name, rng.Start.Format(time.RFC3339Nano), rng.End.Format(time.RFC3339Nano))
}

// serveSnapshotReport gates, parses the range, and serves build over the
// range's snapshot.
func serveSnapshotReport[T any](h *Handler, w http.ResponseWriter, r *http.Request, name string, required bool, build func(reporting.Snapshot) T) {
	if !reportpolicy.CanViewReports(r) {
		h.ErrLog.Write(w, r, apperr.Forbidden("only admins can view reports"))
		return
	}
	rng, err := h.rangeFor(r, required)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	serveCached(h, w, r, name, rangeKey(name, rng), func(ctx context.Context) (T, error) {
		snap, err := reportqueries.LoadSnapshot(ctx, h.DB, rng)
		if err != nil {
			var zero T
			return zero, err
		}
		return build(snap), nil
	})
}

// ServeStats handles GET /api/reports/stats. Both bounds are required.
func (h *Handler) ServeStats(w http.ResponseWriter, r *http.Request) {
	serveSnapshotReport(h, w, r, "stats", true, reporting.Stats)
}

// ServeCategories handles GET /api/reports/categories.
func (h *Handler) ServeCategories(w http.ResponseWriter, r *http.Request) {
	serveSnapshotReport(h, w, r, "categories", false, reporting.Categories)
}

// ServeUsers handles GET /api/reports/users.
func (h *Handler) ServeUsers(w http.ResponseWriter, r *http.Request) {
	serveSnapshotReport(h, w, r, "users", false, reporting.Users)
}

// ServePopularItems handles GET /api/reports/popular-items: the all-time
// best sellers by units.
func (h *Handler) ServePopularItems(w http.ResponseWriter, r *http.Request) {
	if !reportpolicy.CanViewReports(r) {
		h.ErrLog.Write(w, r, apperr.Forbidden("only admins can view reports"))
		return
	}
	const name = "popular-items"
	serveCached(h, w, r, name, reportcache.Key(name, "all-time"), func(ctx context.Context) ([]reportqueries.TopSeller, error) {
		return reportqueries.TopSellers(ctx, h.DB, reporting.TopSellersLimit)
	})
}

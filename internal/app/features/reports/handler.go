// internal/app/features/reports/handler.go
package reports

import (
	"context"
	"net/http"
	"time"

	uierrors "github.com/dalemusser/menuhub/internal/app/features/errors"
	"github.com/dalemusser/menuhub/internal/app/system/apperr"
	"github.com/dalemusser/menuhub/internal/app/system/metrics"
	"github.com/dalemusser/menuhub/internal/app/system/reportcache"
	"github.com/dalemusser/menuhub/internal/app/system/timeouts"
	"github.com/dalemusser/menuhub/internal/app/system/tracing"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// DefaultAnalysisDays is the window used by the category and user reports
// when a bound is omitted.
const DefaultAnalysisDays = 30

// Handler owns the admin report endpoints. Reports are computed from a
// snapshot of the requested range and may be served from Cache.
type Handler struct {
	DB           *mongo.Database
	Cache        reportcache.Cache
	Metrics      *metrics.Metrics
	MaxRangeDays int
	Now          func() time.Time
	Log          *zap.Logger
	ErrLog       *uierrors.ErrorLogger
}

// NewHandler constructs a reports Handler. A nil cache disables caching.
func NewHandler(db *mongo.Database, cache reportcache.Cache, m *metrics.Metrics, maxRangeDays int, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	if cache == nil {
		cache = reportcache.Nop{}
	}
	return &Handler{
		DB:           db,
		Cache:        cache,
		Metrics:      m,
		MaxRangeDays: maxRangeDays,
		Now:          time.Now,
		Log:          logger,
		ErrLog:       errLog,
	}
}

// serveCached writes the report stored under key, building and caching it
// on a miss. Cache failures are logged and otherwise ignored.
func serveCached[T any](h *Handler, w http.ResponseWriter, r *http.Request, name, key string, build func(context.Context) (T, error)) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "report."+name)
	defer cancel()

	ctx, span := tracing.Start(ctx, "report."+name,
		trace.WithAttributes(attribute.String("report.name", name)))
	defer span.End()

	var out T
	hit, err := h.Cache.Get(ctx, key, &out)
	if err != nil {
		h.Log.Warn("report cache read failed", zap.String("report", name), zap.Error(err))
		hit = false
	}
	h.Metrics.ReportCache(name, hit)
	span.SetAttributes(attribute.Bool("report.cache_hit", hit))
	if hit {
		uierrors.WriteJSON(w, http.StatusOK, out)
		return
	}

	out, err = build(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "build report")
		h.ErrLog.Write(w, r, apperr.Store("failed to build report", err))
		return
	}

	if err := h.Cache.Set(ctx, key, out); err != nil {
		h.Log.Warn("report cache write failed", zap.String("report", name), zap.Error(err))
	}
	uierrors.WriteJSON(w, http.StatusOK, out)
}

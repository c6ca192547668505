// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	auditlogfeature "github.com/dalemusser/menuhub/internal/app/features/auditlog"
	cartfeature "github.com/dalemusser/menuhub/internal/app/features/cart"
	errorsfeature "github.com/dalemusser/menuhub/internal/app/features/errors"
	healthfeature "github.com/dalemusser/menuhub/internal/app/features/health"
	loginfeature "github.com/dalemusser/menuhub/internal/app/features/login"
	logoutfeature "github.com/dalemusser/menuhub/internal/app/features/logout"
	menufeature "github.com/dalemusser/menuhub/internal/app/features/menu"
	moderatorsfeature "github.com/dalemusser/menuhub/internal/app/features/moderators"
	ordersfeature "github.com/dalemusser/menuhub/internal/app/features/orders"
	registerfeature "github.com/dalemusser/menuhub/internal/app/features/register"
	reportsfeature "github.com/dalemusser/menuhub/internal/app/features/reports"
	userinfofeature "github.com/dalemusser/menuhub/internal/app/features/userinfo"
	"github.com/dalemusser/menuhub/internal/app/store/audit"
	userstore "github.com/dalemusser/menuhub/internal/app/store/users"
	"github.com/dalemusser/menuhub/internal/app/system/auditlog"
	"github.com/dalemusser/menuhub/internal/app/system/auth"
	"github.com/dalemusser/menuhub/internal/app/system/metrics"
	"github.com/dalemusser/menuhub/internal/app/system/ratelimit"
	"github.com/dalemusser/menuhub/internal/app/system/reportcache"
	"github.com/dalemusser/menuhub/internal/app/system/requestlog"
	"github.com/dalemusser/menuhub/internal/app/system/tracing"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for menuhub.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// Startup have completed. It builds the shared services (sessions, audit
// logging, metrics, login throttling, report cache), applies the global
// middleware, and mounts the feature routers under /api.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// LoadSessionUser fetches the user on each request so role changes take
	// effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase))

	db := deps.MongoDatabase
	errLog := errorsfeature.NewErrorLogger(logger)
	m := metrics.New()
	auditLog := auditlog.New(audit.New(db), logger, auditlog.Config{
		Auth:   appCfg.AuditLogAuth,
		Admin:  appCfg.AuditLogAdmin,
		Orders: appCfg.AuditLogOrders,
	})
	limiter := ratelimit.NewLoginLimiter(appCfg.LoginIPLimit, appCfg.LoginEmailLimit)

	var cache reportcache.Cache = reportcache.Nop{}
	if deps.Redis != nil {
		cache = reportcache.NewRedisCache(deps.Redis, appCfg.ReportCacheTTL)
	}

	r := chi.NewRouter()

	r.Use(requestlog.Middleware(logger))
	r.Use(tracing.Middleware(serviceName))
	r.Use(m.Middleware)
	// Makes the current user available via auth.CurrentUser(r).
	r.Use(sessionMgr.LoadSessionUser)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		errorsfeature.WriteJSON(w, http.StatusNotFound, errorsfeature.Body{Error: "not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		errorsfeature.WriteJSON(w, http.StatusMethodNotAllowed, errorsfeature.Body{Error: "method not allowed"})
	})

	// Health check and Prometheus scrape endpoints
	healthHandler := healthfeature.NewHandler(deps.MongoClient, deps.Redis, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	r.Handle("/metrics", m.Handler())

	r.Route("/api", func(api chi.Router) {
		// Authentication
		registerHandler := registerfeature.NewHandler(db, errLog, auditLog, logger)
		api.Mount("/auth/register", registerfeature.Routes(registerHandler))

		loginHandler := loginfeature.NewHandler(db, sessionMgr, errLog, auditLog, limiter, logger)
		api.Mount("/auth/login", loginfeature.Routes(loginHandler))

		logoutHandler := logoutfeature.NewHandler(sessionMgr, auditLog, logger)
		api.Mount("/auth/logout", logoutfeature.Routes(logoutHandler))

		api.Mount("/auth/me", userinfofeature.Routes(userinfofeature.NewHandler()))

		moderatorsHandler := moderatorsfeature.NewHandler(db, errLog, auditLog, logger)
		api.Mount("/auth/moderators", moderatorsfeature.Routes(moderatorsHandler, sessionMgr))

		// Ordering
		menuHandler := menufeature.NewHandler(db, errLog, auditLog, logger)
		api.Mount("/menu", menufeature.Routes(menuHandler, sessionMgr))

		cartHandler := cartfeature.NewHandler(db, m, errLog, logger)
		api.Mount("/cart", cartfeature.Routes(cartHandler, sessionMgr))

		ordersHandler := ordersfeature.NewHandler(db, deps.Publisher, m, errLog, auditLog, logger)
		api.Mount("/orders", ordersfeature.Routes(ordersHandler, sessionMgr))

		// Reporting and administration
		reportsHandler := reportsfeature.NewHandler(db, cache, m, appCfg.ReportMaxRangeDays, errLog, logger)
		api.Mount("/reports", reportsfeature.Routes(reportsHandler, sessionMgr))

		auditHandler := auditlogfeature.NewHandler(db, errLog, logger)
		api.Mount("/admin/audit", auditlogfeature.Routes(auditHandler, sessionMgr))
	})

	return r, nil
}

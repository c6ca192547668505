// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"os"

	userstore "github.com/dalemusser/menuhub/internal/app/store/users"
	"github.com/dalemusser/menuhub/internal/app/system/timeouts"
	"github.com/dalemusser/menuhub/internal/app/system/tracing"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// version is reported as the OpenTelemetry service version.
var version = "dev"

// shutdownTracing flushes the tracer provider installed by Startup.
var shutdownTracing tracing.ShutdownFunc

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
		Long:   appCfg.TimeoutLong,
	})
	active := timeouts.Current()
	logger.Info("operation timeouts",
		zap.Duration("short", active.Short),
		zap.Duration("medium", active.Medium),
		zap.Duration("long", active.Long))

	shutdown, err := tracing.Init(serviceName, version, appCfg.TracingEnabled, os.Stdout)
	if err != nil {
		return err
	}
	shutdownTracing = shutdown

	return ensureAdmin(ctx, deps, appCfg, logger)
}

// ensureAdmin creates or promotes the configured admin account.
func ensureAdmin(ctx context.Context, deps DBDeps, appCfg AppConfig, logger *zap.Logger) error {
	if appCfg.AdminEmail == "" {
		return nil
	}
	users := userstore.New(deps.MongoDatabase)
	if appCfg.AdminPassword == "" {
		// Promotion only.
		if _, err := users.GetByEmail(ctx, appCfg.AdminEmail); err != nil {
			logger.Warn("admin_email has no matching user and no admin_password to create one",
				zap.String("email", appCfg.AdminEmail))
			return nil
		}
	}

	created, err := users.EnsureAdmin(ctx, appCfg.AdminName, appCfg.AdminEmail, appCfg.AdminPassword)
	if err != nil {
		logger.Error("ensure admin failed", zap.String("email", appCfg.AdminEmail), zap.Error(err))
		return err
	}
	if created {
		logger.Info("created admin user", zap.String("email", appCfg.AdminEmail))
	} else {
		logger.Info("admin user present", zap.String("email", appCfg.AdminEmail))
	}
	return nil
}

// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"
	"errors"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown flushes traces, closes the event publisher and cache, and
// disconnects MongoDB. Every step runs even when an earlier one fails.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	var errs []error

	if shutdownTracing != nil {
		if err := shutdownTracing(ctx); err != nil {
			logger.Error("tracer shutdown failed", zap.Error(err))
			errs = append(errs, err)
		}
	}

	if deps.Publisher != nil {
		if err := deps.Publisher.Close(); err != nil {
			logger.Error("event publisher close failed", zap.Error(err))
			errs = append(errs, err)
		}
	}

	if deps.Redis != nil {
		if err := deps.Redis.Close(); err != nil {
			logger.Error("redis close failed", zap.Error(err))
			errs = append(errs, err)
		}
	}

	if deps.MongoClient != nil {
		logger.Info("disconnecting MongoDB client")
		if err := deps.MongoClient.Disconnect(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/menuhub/internal/app/system/events"
	"github.com/dalemusser/menuhub/internal/app/system/indexes"
	"github.com/dalemusser/menuhub/internal/app/system/timeouts"
	"github.com/dalemusser/menuhub/internal/app/system/validators"
	"github.com/dalemusser/waffle/config"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// ConnectDB opens the MongoDB client and the optional Redis and Kafka
// back ends.
//
// MongoDB is required and must answer a ping. Redis is only a cache, so an
// unreachable server is logged and the client kept; go-redis reconnects on
// its own and reports fall back to computing results directly.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().ApplyURI(appCfg.MongoURI)
	if appCfg.MongoMaxPoolSize > 0 {
		opts.SetMaxPoolSize(appCfg.MongoMaxPoolSize)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return DBDeps{}, fmt.Errorf("ping mongo: %w", err)
	}
	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))

	deps := DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
		Publisher:     events.NopPublisher{},
	}

	if appCfg.RedisAddr != "" {
		deps.Redis = redis.NewClient(&redis.Options{
			Addr:     appCfg.RedisAddr,
			Password: appCfg.RedisPassword,
			DB:       appCfg.RedisDB,
		})
		if err := deps.Redis.Ping(pingCtx).Err(); err != nil {
			logger.Warn("redis ping failed; report cache will retry", zap.String("addr", appCfg.RedisAddr), zap.Error(err))
		} else {
			logger.Info("connected to Redis report cache", zap.String("addr", appCfg.RedisAddr))
		}
	}

	if len(appCfg.KafkaBrokers) > 0 {
		deps.Publisher = events.NewKafkaPublisher(appCfg.KafkaBrokers, appCfg.KafkaOrderTopic)
		logger.Info("publishing order events to Kafka",
			zap.Strings("brokers", appCfg.KafkaBrokers),
			zap.String("topic", appCfg.KafkaOrderTopic))
	}

	return deps, nil
}

// EnsureSchema creates the collections with their JSON-Schema validators and
// the indexes the stores rely on.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := validators.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		logger.Error("ensure validators failed", zap.Error(err))
		return err
	}
	if err := indexes.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		logger.Error("ensure indexes failed", zap.Error(err))
		return err
	}
	return nil
}

// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/menuhub/internal/app/system/events"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Redis is nil when no report cache is configured.
	Redis *redis.Client

	// Publisher receives order.created events. Never nil after ConnectDB.
	Publisher events.Publisher
}

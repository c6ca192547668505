// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/menuhub/internal/app/system/auditlog"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// minProdSessionKey is the shortest session key accepted in production.
const minProdSessionKey = 32

// appConfigKeys defines the configuration keys for menuhub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: MENUHUB_MONGO_URI, MENUHUB_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "menuhub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "menuhub-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "24h", Desc: "Session cookie lifetime (e.g., 24h, 30m)"},

	// Admin bootstrap
	{Name: "admin_email", Default: "", Desc: "Email of the admin user (created or promoted on startup)"},
	{Name: "admin_password", Default: "", Desc: "Password for a newly created admin user"},
	{Name: "admin_name", Default: "Administrator", Desc: "Display name for a newly created admin user"},

	// Reports
	{Name: "report_max_range_days", Default: 366, Desc: "Longest date range a report may cover"},
	{Name: "report_cache_ttl", Default: "60s", Desc: "How long report results stay cached in Redis"},

	// Redis report cache
	{Name: "redis_addr", Default: "", Desc: "Redis address for the report cache (blank disables caching)"},
	{Name: "redis_password", Default: "", Desc: "Redis password"},
	{Name: "redis_db", Default: 0, Desc: "Redis database number"},

	// Kafka order events
	{Name: "kafka_brokers", Default: "", Desc: "Comma-separated Kafka brokers (blank disables order events)"},
	{Name: "kafka_order_topic", Default: "menuhub.orders", Desc: "Kafka topic for order.created events"},

	{Name: "tracing_enabled", Default: false, Desc: "Export OpenTelemetry spans to stdout"},

	// Timeouts
	{Name: "timeout_short", Default: "5s", Desc: "Timeout for single-document operations"},
	{Name: "timeout_medium", Default: "10s", Desc: "Timeout for list and order operations"},
	{Name: "timeout_long", Default: "30s", Desc: "Timeout for report aggregations"},

	// Login throttling
	{Name: "login_ip_limit", Default: 20, Desc: "Login attempts allowed per client IP per window"},
	{Name: "login_email_limit", Default: 5, Desc: "Login attempts allowed per email per window"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_orders", Default: "all", Desc: "Order event logging: 'all' (db+log), 'db', 'log', or 'off'"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig reads .env files, config files,
// MENUHUB_* environment variables, and command-line flags, merging them
// with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "MENUHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	poolSize := appValues.Int("mongo_max_pool_size")
	if poolSize < 0 {
		poolSize = 0
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(poolSize),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 24*time.Hour),

		AdminEmail:    strings.TrimSpace(appValues.String("admin_email")),
		AdminPassword: appValues.String("admin_password"),
		AdminName:     appValues.String("admin_name"),

		ReportMaxRangeDays: appValues.Int("report_max_range_days"),
		ReportCacheTTL:     appValues.Duration("report_cache_ttl", time.Minute),

		RedisAddr:     strings.TrimSpace(appValues.String("redis_addr")),
		RedisPassword: appValues.String("redis_password"),
		RedisDB:       appValues.Int("redis_db"),

		KafkaBrokers:    splitList(appValues.String("kafka_brokers")),
		KafkaOrderTopic: appValues.String("kafka_order_topic"),

		TracingEnabled: appValues.Bool("tracing_enabled"),

		TimeoutShort:  appValues.Duration("timeout_short", 5*time.Second),
		TimeoutMedium: appValues.Duration("timeout_medium", 10*time.Second),
		TimeoutLong:   appValues.Duration("timeout_long", 30*time.Second),

		LoginIPLimit:    appValues.Int("login_ip_limit"),
		LoginEmailLimit: appValues.Int("login_email_limit"),

		AuditLogAuth:   appValues.String("audit_log_auth"),
		AuditLogAdmin:  appValues.String("audit_log_admin"),
		AuditLogOrders: appValues.String("audit_log_orders"),
	}

	return coreCfg, appCfg, nil
}

// splitList turns "a, b,,c" into [a b c].
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ValidateConfig performs app-specific config validation.
//
// The MongoDB URI is checked before any connection is attempted, and a
// production deployment must not run with a short session key.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.MongoDatabase == "" {
		return fmt.Errorf("mongo_database must be set")
	}

	if coreCfg != nil && coreCfg.Env == "prod" && len(appCfg.SessionKey) < minProdSessionKey {
		return fmt.Errorf("session_key must be at least %d characters in production", minProdSessionKey)
	}
	if appCfg.SessionMaxAge <= 0 {
		return fmt.Errorf("session_max_age must be positive")
	}

	if appCfg.AdminEmail != "" && appCfg.AdminPassword == "" {
		logger.Warn("admin_email is set without admin_password; an existing user can be promoted but none will be created")
	}

	if appCfg.ReportMaxRangeDays <= 0 {
		return fmt.Errorf("report_max_range_days must be positive, got %d", appCfg.ReportMaxRangeDays)
	}
	if appCfg.RedisDB < 0 {
		return fmt.Errorf("redis_db must not be negative")
	}
	if len(appCfg.KafkaBrokers) > 0 && appCfg.KafkaOrderTopic == "" {
		return fmt.Errorf("kafka_order_topic is required when kafka_brokers is set")
	}
	if appCfg.LoginIPLimit <= 0 || appCfg.LoginEmailLimit <= 0 {
		return fmt.Errorf("login_ip_limit and login_email_limit must be positive")
	}

	for key, v := range map[string]string{
		"audit_log_auth":   appCfg.AuditLogAuth,
		"audit_log_admin":  appCfg.AuditLogAdmin,
		"audit_log_orders": appCfg.AuditLogOrders,
	} {
		if !auditlog.IsValidSetting(v) {
			return fmt.Errorf("%s must be one of all, db, log, off; got %q", key, v)
		}
	}

	return nil
}

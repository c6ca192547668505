// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for menuhub.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers the
// framework-level settings (ports, TLS, log level, CORS); everything that is
// specific to ordering lives here and is passed to every lifecycle hook.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: menuhub-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Cookie lifetime

	// Admin bootstrap. When AdminEmail and AdminPassword are set the user is
	// created (or promoted) on startup.
	AdminEmail    string
	AdminPassword string
	AdminName     string

	// Reporting
	ReportMaxRangeDays int           // Longest [start, end] a report may span
	ReportCacheTTL     time.Duration // Lifetime of cached report results

	// Redis report cache (disabled when RedisAddr is blank)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Kafka order events (disabled when KafkaBrokers is empty)
	KafkaBrokers    []string
	KafkaOrderTopic string

	TracingEnabled bool // Export OpenTelemetry spans to stdout

	// Store operation timeouts; zero keeps the built-in default.
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration

	// Login throttling per client IP and per email.
	LoginIPLimit    int
	LoginEmailLimit int

	// Audit logging destinations: "all", "db", "log", or "off".
	AuditLogAuth   string
	AuditLogAdmin  string
	AuditLogOrders string
}

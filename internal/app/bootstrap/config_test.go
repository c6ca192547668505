package bootstrap

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/waffle/config"
)

func validAppConfig() AppConfig {
	return AppConfig{
		MongoURI:           "mongodb://localhost:27017",
		MongoDatabase:      "menuhub",
		SessionKey:         strings.Repeat("k", 40),
		SessionMaxAge:      24 * time.Hour,
		ReportMaxRangeDays: 366,
		LoginIPLimit:       20,
		LoginEmailLimit:    5,
		AuditLogAuth:       "all",
		AuditLogAdmin:      "db",
		AuditLogOrders:     "off",
	}
}

func TestValidateConfig(t *testing.T) {
	prod := &config.CoreConfig{Env: "prod"}
	dev := &config.CoreConfig{Env: "dev"}

	tests := []struct {
		name    string
		core    *config.CoreConfig
		mutate  func(*AppConfig)
		wantErr string
	}{
		{name: "valid prod", core: prod},
		{name: "short key allowed in dev", core: dev, mutate: func(c *AppConfig) { c.SessionKey = "short" }},
		{name: "short key rejected in prod", core: prod, mutate: func(c *AppConfig) { c.SessionKey = "short" }, wantErr: "session_key"},
		{name: "bad mongo uri", core: dev, mutate: func(c *AppConfig) { c.MongoURI = "postgres://nope" }, wantErr: "MongoDB URI"},
		{name: "missing database", core: dev, mutate: func(c *AppConfig) { c.MongoDatabase = "" }, wantErr: "mongo_database"},
		{name: "zero report range", core: dev, mutate: func(c *AppConfig) { c.ReportMaxRangeDays = 0 }, wantErr: "report_max_range_days"},
		{name: "kafka without topic", core: dev, mutate: func(c *AppConfig) { c.KafkaBrokers = []string{"localhost:9092"} }, wantErr: "kafka_order_topic"},
		{name: "bad audit setting", core: dev, mutate: func(c *AppConfig) { c.AuditLogOrders = "everything" }, wantErr: "audit_log_orders"},
		{name: "zero login limit", core: dev, mutate: func(c *AppConfig) { c.LoginEmailLimit = 0 }, wantErr: "login_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validAppConfig()
			if tt.mutate != nil {
				tt.mutate(&cfg)
			}
			err := ValidateConfig(tt.core, cfg, testLogger())
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" a:9092, b:9092,, ")
	want := []string{"a:9092", "b:9092"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("splitList = %v, want %v", got, want)
	}
	if splitList("") != nil {
		t.Error("empty input should yield nil")
	}
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validBaseConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8080",
			Env:            "development",
			AllowedOrigins: []string{"http://localhost:3000"},
			LogLevel:       "info",
		},
		Database: DatabaseConfig{
			Host:      "localhost",
			Port:      "8000",
			Namespace: "clubhouse",
			Database:  "main",
		},
		JWT: JWTConfig{
			PrivateKeyPath: "./keys/private.pem",
			PublicKeyPath:  "./keys/public.pem",
			ExpirationMins: 60,
			Issuer:         "clubhouse.forgo.software",
		},
		Membership: MembershipConfig{Mode: "paired"},
		RateLimit:  RateLimitConfig{Enabled: true, RequestsPerMinute: 120, Burst: 20},
	}
}

func TestConfig_Validate_ValidConfig(t *testing.T) {
	if err := validBaseConfig().Validate(); err != nil {
		t.Errorf("expected valid config, got error: %v", err)
	}
}

func TestConfig_Validate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"invalid env", func(c *Config) { c.Server.Env = "staging" }, "SERVER_ENV"},
		{"missing port", func(c *Config) { c.Server.Port = "" }, "SERVER_PORT"},
		{"no origins", func(c *Config) { c.Server.AllowedOrigins = nil }, "CORS_ALLOWED_ORIGINS"},
		{"bad log level", func(c *Config) { c.Server.LogLevel = "verbose" }, "LOG_LEVEL"},
		{"missing db host", func(c *Config) { c.Database.Host = "" }, "DB_HOST"},
		{"missing namespace", func(c *Config) { c.Database.Namespace = "" }, "DB_NAMESPACE"},
		{"bad expiration", func(c *Config) { c.JWT.ExpirationMins = 0 }, "JWT_EXPIRATION_MINS"},
		{"bad membership mode", func(c *Config) { c.Membership.Mode = "eventual" }, "MEMBERSHIP_MODE"},
		{"bad rate", func(c *Config) { c.RateLimit.RequestsPerMinute = 0 }, "RATE_LIMIT_RPM"},
		{"bad burst", func(c *Config) { c.RateLimit.Burst = -1 }, "RATE_LIMIT_BURST"},
		{"production needs keys", func(c *Config) {
			c.Server.Env = "production"
			c.JWT.PrivateKeyPath = ""
		}, "JWT_PRIVATE_KEY_PATH"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validBaseConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected error mentioning %s", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error to mention %s, got: %v", tt.want, err)
			}
		})
	}
}

func TestConfig_Validate_RateLimitDisabledSkipsLimits(t *testing.T) {
	cfg := validBaseConfig()
	cfg.RateLimit = RateLimitConfig{Enabled: false}

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got: %v", err)
	}
}

func TestConfig_Validate_MultipleErrors(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Server.Port = ""
	cfg.Database.Host = ""
	cfg.Membership.Mode = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected errors")
	}
	for _, want := range []string{"SERVER_PORT", "DB_HOST", "MEMBERSHIP_MODE"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected joined error to mention %s, got: %v", want, err)
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"SERVER_PORT", "MEMBERSHIP_MODE", "DB_NAMESPACE", "RATE_LIMIT_RPM", "SERVER_SHUTDOWN_TIMEOUT"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Membership.Mode != "paired" {
		t.Errorf("expected paired mode by default, got %s", cfg.Membership.Mode)
	}
	if cfg.Database.Namespace != "clubhouse" {
		t.Errorf("expected clubhouse namespace, got %s", cfg.Database.Namespace)
	}
	if cfg.RateLimit.RequestsPerMinute != 120 {
		t.Errorf("expected 120 rpm, got %d", cfg.RateLimit.RequestsPerMinute)
	}
	if cfg.Server.ShutdownTimeout != 30*time.Second {
		t.Errorf("expected 30s shutdown timeout, got %v", cfg.Server.ShutdownTimeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("MEMBERSHIP_MODE", "atomic")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("SERVER_READ_TIMEOUT", "5s")
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Membership.Mode != "atomic" {
		t.Errorf("expected atomic, got %s", cfg.Membership.Mode)
	}
	if len(cfg.Server.AllowedOrigins) != 2 || cfg.Server.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("unexpected origins %q", cfg.Server.AllowedOrigins)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("expected 5s, got %v", cfg.Server.ReadTimeout)
	}
	if cfg.RateLimit.Enabled {
		t.Error("expected rate limiting disabled")
	}
}

func TestLoad_EnvFile_DoesNotOverrideEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	content := "DB_DATABASE=from_file\nJWT_ISSUER=file-issuer\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DB_DATABASE", "from_env")
	// Registers cleanup so the value loaded from the file does not leak.
	t.Setenv("JWT_ISSUER", "")
	if err := os.Unsetenv("JWT_ISSUER"); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.Database != "from_env" {
		t.Errorf("environment should win, got %s", cfg.Database.Database)
	}
	if cfg.JWT.Issuer != "file-issuer" {
		t.Errorf("expected issuer from file, got %s", cfg.JWT.Issuer)
	}
}

func TestLoad_MissingNamedEnvFile_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.env")); err == nil {
		t.Error("expected error for missing env file")
	}
}

func TestConfig_IsDevelopment(t *testing.T) {
	cfg := validBaseConfig()
	if !cfg.IsDevelopment() || cfg.IsProduction() {
		t.Error("expected development")
	}
	cfg.Server.Env = "production"
	if cfg.IsDevelopment() || !cfg.IsProduction() {
		t.Error("expected production")
	}
}

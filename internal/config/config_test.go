package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Port:          "8080",
		DBPath:        "./data/test.db",
		JWTSecret:     "0123456789abcdef",
		TokenDuration: time.Hour,
		LogLevel:      "info",
		LogFormat:     "text",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		wantErr     bool
		errorString string
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:        "invalid port - non-numeric",
			mutate:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range",
			mutate:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "empty database path",
			mutate:      func(c *Config) { c.DBPath = "" },
			wantErr:     true,
			errorString: "database path cannot be empty",
		},
		{
			name:        "short secret",
			mutate:      func(c *Config) { c.JWTSecret = "short" },
			wantErr:     true,
			errorString: "JWT secret must be at least 16 characters",
		},
		{
			name:        "token duration too short",
			mutate:      func(c *Config) { c.TokenDuration = time.Second },
			wantErr:     true,
			errorString: "invalid token duration 1s",
		},
		{
			name:        "bcrypt cost out of range",
			mutate:      func(c *Config) { c.BcryptCost = 2 },
			wantErr:     true,
			errorString: "invalid bcrypt cost 2",
		},
		{
			name:        "unknown log level",
			mutate:      func(c *Config) { c.LogLevel = "verbose" },
			wantErr:     true,
			errorString: "invalid log level 'verbose'",
		},
		{
			name:        "unknown log format",
			mutate:      func(c *Config) { c.LogFormat = "xml" },
			wantErr:     true,
			errorString: "invalid log format 'xml'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !strings.Contains(err.Error(), tt.errorString) {
				t.Errorf("Validate() error = %q, want it to contain %q", err.Error(), tt.errorString)
			}
		})
	}
}

func TestConfig_ValidateCollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Port = "abc"
	cfg.LogLevel = "loud"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected an error")
	}
	for _, want := range []string{"invalid port", "invalid log level"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err.Error(), want)
		}
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("TOKEN_DURATION", "2h")
	t.Setenv("ADMIN_EMAIL", "  Admin@Example.com ")
	t.Setenv("BOOTSTRAP_GROUPS", "Flat 4B, ,Cabin")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg := FromEnv()

	if cfg.Port != "9090" {
		t.Errorf("Port = %s, want 9090", cfg.Port)
	}
	if cfg.TokenDuration != 2*time.Hour {
		t.Errorf("TokenDuration = %v, want 2h", cfg.TokenDuration)
	}
	if cfg.AdminEmail != "admin@example.com" {
		t.Errorf("AdminEmail = %q, want lowercased and trimmed", cfg.AdminEmail)
	}
	if len(cfg.BootstrapGroups) != 2 || cfg.BootstrapGroups[0] != "Flat 4B" || cfg.BootstrapGroups[1] != "Cabin" {
		t.Errorf("BootstrapGroups = %q", cfg.BootstrapGroups)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %s, want debug", cfg.LogLevel)
	}
}

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("TOKEN_DURATION", "not-a-duration")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("PORT", "")

	cfg := FromEnv()
	if cfg.TokenDuration != 24*time.Hour {
		t.Errorf("TokenDuration = %v, want default 24h", cfg.TokenDuration)
	}
	if !cfg.UsesDefaultSecret() {
		t.Error("expected the development secret when JWT_SECRET is unset")
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %s, want 8080", cfg.Port)
	}
}

func TestIsAdmin(t *testing.T) {
	cfg := &Config{AdminEmail: "admin@example.com"}
	if !cfg.IsAdmin("ADMIN@example.com") {
		t.Error("expected case-insensitive admin match")
	}
	if cfg.IsAdmin("bob@example.com") {
		t.Error("bob is not admin")
	}
	if (&Config{}).IsAdmin("") {
		t.Error("no admin configured means nobody is admin")
	}
}

package config

import (
	"strings"
	"testing"
	"time"

	"github.com/ctdata/ct-placenames/placenames"
	"github.com/ctdata/ct-placenames/scheduler"
)

// setBaseEnv sets a valid environment; individual tests override single keys.
func setBaseEnv(t *testing.T) {
	t.Helper()
	for _, key := range GetEnvVars() {
		t.Setenv(key, "")
	}
	t.Setenv("PORT", "8002")
	t.Setenv("ADDRESS", "127.0.0.1")
	t.Setenv("ENV", "dev")
	t.Setenv("LOG_LEVEL", "info")
}

func TestLoadValidConfig(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("TOWNS_PACKAGE_URL", "http://127.0.0.1:9000/towns/datapackage.json")
	t.Setenv("FETCH_TIMEOUT", "30s")
	t.Setenv("UPDATE_TIMES", "18:00;06:30")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Port != "8002" {
		t.Errorf("Expected port 8002, got %s", cfg.Port)
	}
	if cfg.Env != EnvDevelopment {
		t.Errorf("Expected env dev, got %s", cfg.Env)
	}
	if cfg.TownsURL != "http://127.0.0.1:9000/towns/datapackage.json" {
		t.Errorf("Unexpected towns URL %s", cfg.TownsURL)
	}
	if cfg.FetchTimeout != 30*time.Second {
		t.Errorf("Expected fetch timeout 30s, got %s", cfg.FetchTimeout)
	}
	want := []scheduler.ClockTime{{Hour: 6, Minute: 30}, {Hour: 18, Minute: 0}}
	if len(cfg.UpdateTimes) != len(want) {
		t.Fatalf("Expected %d update times, got %v", len(want), cfg.UpdateTimes)
	}
	for i := range want {
		if cfg.UpdateTimes[i] != want[i] {
			t.Errorf("Update time %d: expected %s, got %s", i, want[i], cfg.UpdateTimes[i])
		}
	}
}

func TestLoadWithDefaults(t *testing.T) {
	for _, key := range GetEnvVars() {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Port != "8000" {
		t.Errorf("Expected default port 8000, got %s", cfg.Port)
	}
	if cfg.Address != "127.0.0.1" {
		t.Errorf("Expected default address 127.0.0.1, got %s", cfg.Address)
	}
	if cfg.Env != EnvDevelopment {
		t.Errorf("Expected default env dev, got %s", cfg.Env)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("Expected default log level info, got %s", cfg.LogLevel)
	}
	if cfg.LogRetentionWeeks != 4 {
		t.Errorf("Expected default retention 4, got %d", cfg.LogRetentionWeeks)
	}
	if cfg.TownsURL != placenames.DefaultTownsURL {
		t.Errorf("Expected default towns URL, got %s", cfg.TownsURL)
	}
	if cfg.CountiesURL != placenames.DefaultCountiesURL {
		t.Errorf("Expected default counties URL, got %s", cfg.CountiesURL)
	}
	if cfg.FetchTimeout != time.Minute {
		t.Errorf("Expected default fetch timeout 1m, got %s", cfg.FetchTimeout)
	}
	if len(cfg.UpdateTimes) != 2 {
		t.Errorf("Expected 2 default update times, got %v", cfg.UpdateTimes)
	}
}

func TestInvalidValues(t *testing.T) {
	testCases := []struct {
		key      string
		value    string
		expected string
	}{
		{"PORT", "abc", "PORT must be a valid number"},
		{"PORT", "0", "PORT must be between 1 and 65535"},
		{"PORT", "65536", "PORT must be between 1 and 65535"},
		{"PORT", "80", "PORT 80 is privileged"},
		{"ADDRESS", "invalid", "ADDRESS must be a valid IP address"},
		{"ADDRESS", "8.8.8.8", "is a public IP"},
		{"ENV", "invalid", "ENV must be one of"},
		{"LOG_LEVEL", "verbose", "LOG_LEVEL must be one of"},
		{"MAX_REQUEST_BODY", "-1", "MAX_REQUEST_BODY must be positive"},
		{"MAX_HEADER_SIZE", "209715200", "MAX_HEADER_SIZE is too large"},
		{"LOG_RETENTION_WEEKS", "53", "LOG_RETENTION_WEEKS is too large"},
		{"MAX_LOG_FILE_SIZE", "1024", "MAX_LOG_FILE_SIZE is too small"},
		{"TOWNS_PACKAGE_URL", "ftp://example.org/datapackage.json", "must use http or https"},
		{"COUNTIES_PACKAGE_URL", "https:///datapackage.json", "must have a host"},
		{"FETCH_TIMEOUT", "soon", "invalid FETCH_TIMEOUT"},
		{"FETCH_TIMEOUT", "10ms", "FETCH_TIMEOUT is too short"},
		{"UPDATE_TIMES", "25:00", "invalid UPDATE_TIMES"},
	}

	for _, tc := range testCases {
		t.Run(tc.key+"="+tc.value, func(t *testing.T) {
			setBaseEnv(t)
			t.Setenv(tc.key, tc.value)

			_, err := Load()
			if err == nil {
				t.Fatalf("Expected error for %s=%s, got nil", tc.key, tc.value)
			}
			if !strings.Contains(err.Error(), tc.expected) {
				t.Errorf("Expected error containing %q, got %q", tc.expected, err.Error())
			}
		})
	}
}

func TestUnspecifiedAddressAllowed(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("ADDRESS", "0.0.0.0")

	if _, err := Load(); err != nil {
		t.Errorf("Expected 0.0.0.0 to be accepted, got %v", err)
	}
}

func TestParseEnvironment(t *testing.T) {
	tests := []struct {
		input    string
		expected Environment
		hasError bool
	}{
		{"dev", EnvDevelopment, false},
		{"development", EnvDevelopment, false},
		{"staging", EnvStaging, false},
		{"prod", EnvProduction, false},
		{"production", EnvProduction, false},
		{"PROD", EnvProduction, false},
		{"test", EnvTest, false},
		{"invalid", EnvDevelopment, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			env, err := ParseEnvironment(tt.input)
			if tt.hasError {
				if err == nil {
					t.Errorf("Expected error for %s, got none", tt.input)
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error for %s: %v", tt.input, err)
			}
			if env != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, env)
			}
		})
	}
}

func TestEnvironmentString(t *testing.T) {
	tests := []struct {
		env      Environment
		expected string
	}{
		{EnvDevelopment, "dev"},
		{EnvStaging, "staging"},
		{EnvProduction, "prod"},
		{EnvTest, "test"},
	}

	for _, tt := range tests {
		if got := tt.env.String(); got != tt.expected {
			t.Errorf("Expected %s, got %s", tt.expected, got)
		}
	}
}

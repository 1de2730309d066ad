package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/eugenenazirov/semparse-config/internal/parser"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "ENABLE_REQUEST_LOGGING", "LOG_LEVEL", "ENV_FILE"} {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if diff := cmp.Diff(defaultConfig(), cfg); diff != "" {
		t.Fatalf("unexpected defaults (-want +got):\n%s", diff)
	}
	if cfg.ShutdownGracePeriod != 10*time.Second {
		t.Fatalf("unexpected shutdown grace period: %s", cfg.ShutdownGracePeriod)
	}
}

func TestLoadEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("RATE_LIMIT_BURST", "7")
	t.Setenv("ENABLE_REQUEST_LOGGING", "false")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("ENV_FILE", "train.env")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != "9000" {
		t.Fatalf("expected overridden port, got %s", cfg.Port)
	}
	if cfg.RateLimitRPS != 2.5 || cfg.RateLimitBurst != 7 {
		t.Fatalf("unexpected rate limit %v/%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	if cfg.EnableRequestLogging {
		t.Fatalf("expected request logging disabled")
	}
	if cfg.LogLevel != "debug" || cfg.EnvFile != "train.env" {
		t.Fatalf("unexpected log level or env file: %q %q", cfg.LogLevel, cfg.EnvFile)
	}
}

func TestLoadEnvironmentRejectsMalformedNumbers(t *testing.T) {
	clearEnv(t)
	t.Setenv("RATE_LIMIT_RPS", "1.2.3")

	if _, err := Load(nil); !errors.Is(err, parser.ErrInvalidNumberFormat) {
		t.Fatalf("expected ErrInvalidNumberFormat, got %v", err)
	}

	t.Setenv("RATE_LIMIT_RPS", "")
	t.Setenv("RATE_LIMIT_BURST", "2.5")
	if _, err := Load(nil); err == nil {
		t.Fatalf("expected error for fractional burst")
	}
}

func TestLoadYAMLWithPrecedence(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.yaml", `
port: "7000"
shutdown_grace_period: 3s
write_timeout: 1m
enable_request_logging: false
rate_limit:
  rps: 0
  burst: 0
log_level: warn
env_file: drop.env
values:
  BEAMSIZE: "4"
  LR: "0.001"
`)
	t.Setenv("PORT", "7100")

	port := "7200"
	cfg, err := Load(&CLIOverrides{
		ConfigFile: path,
		Port:       &port,
		Values:     []string{"LR=0.01", "DEBUG=true"},
	})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != "7200" {
		t.Fatalf("expected CLI port to win, got %s", cfg.Port)
	}
	if cfg.ShutdownGracePeriod != 3*time.Second || cfg.WriteTimeout != time.Minute {
		t.Fatalf("unexpected durations %s %s", cfg.ShutdownGracePeriod, cfg.WriteTimeout)
	}
	if cfg.ReadHeaderTimeout != 5*time.Second {
		t.Fatalf("expected default read header timeout, got %s", cfg.ReadHeaderTimeout)
	}
	if cfg.EnableRequestLogging {
		t.Fatalf("expected YAML to disable request logging")
	}
	if cfg.RateLimitRPS != 0 || cfg.RateLimitBurst != 0 {
		t.Fatalf("expected rate limit disabled, got %v/%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	if cfg.LogLevel != "warn" || cfg.EnvFile != "drop.env" {
		t.Fatalf("unexpected log level or env file: %q %q", cfg.LogLevel, cfg.EnvFile)
	}

	want := map[string]string{"BEAMSIZE": "4", "LR": "0.01", "DEBUG": "true"}
	if diff := cmp.Diff(want, cfg.Values); diff != "" {
		t.Fatalf("unexpected values (-want +got):\n%s", diff)
	}
}

func TestLoadYAMLErrors(t *testing.T) {
	clearEnv(t)

	if _, err := Load(&CLIOverrides{ConfigFile: filepath.Join(t.TempDir(), "missing.yaml")}); err == nil {
		t.Fatalf("expected error for missing file")
	}

	bad := writeFile(t, "bad.yaml", "idle_timeout: forever\n")
	if _, err := Load(&CLIOverrides{ConfigFile: bad}); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}

func TestLoadRejectsUnknownLogLevel(t *testing.T) {
	clearEnv(t)
	level := "verbose"

	if _, err := Load(&CLIOverrides{LogLevel: &level}); err == nil {
		t.Fatalf("expected error for unknown log level")
	}
}

func TestParseAssignments(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		got, err := parseAssignments([]string{"A=1", " B =x=y", "C="})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := map[string]string{"A": "1", "B": "x=y", "C": ""}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("unexpected assignments (-want +got):\n%s", diff)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		if _, err := parseAssignments([]string{"novalue"}); err == nil {
			t.Fatalf("expected error for missing separator")
		}
		if _, err := parseAssignments([]string{"=1"}); err == nil {
			t.Fatalf("expected error for empty key")
		}
	})
}

package config

import (
	"strings"
	"testing"
)

type envTestConfig struct {
	Port int `env:"STEPODOM_TEST_PORT" envDefault:"123"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Port != 123 {
		t.Fatalf("expected default port 123, got %d", cfg.Port)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("STEPODOM_TEST_PORT", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestLoadRuntime(t *testing.T) {
	t.Setenv("STEPODOM_OUT_DIR", "/tmp/walks")
	t.Setenv("STEPODOM_DB_PATH", "runs.db")
	t.Setenv("STEPODOM_VERBOSE", "true")

	rt, err := LoadRuntime()
	if err != nil {
		t.Fatalf("LoadRuntime: %v", err)
	}
	if rt.OutDir != "/tmp/walks" || rt.DBPath != "runs.db" || !rt.Verbose {
		t.Fatalf("unexpected runtime %+v", rt)
	}
	if rt.Timezone != "Local" {
		t.Fatalf("expected default timezone Local, got %q", rt.Timezone)
	}
}

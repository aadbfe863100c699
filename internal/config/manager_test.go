package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestManager_LoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := NewManager().Load("")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Trends.HL != "en-US" || cfg.Trends.TZ != 360 {
		t.Errorf("Unexpected trends defaults: %+v", cfg.Trends)
	}
	if cfg.Trends.Timeout != 30*time.Second {
		t.Errorf("Expected 30s timeout, got %v", cfg.Trends.Timeout)
	}
	if cfg.Analysis.TopRegions != 10 {
		t.Errorf("Expected 10 top regions, got %d", cfg.Analysis.TopRegions)
	}
}

func TestManager_LoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
server:
  port: 9090
trends:
  hl: de-DE
  timeout: 5s
analysis:
  concurrency: 3
`)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	t.Setenv("TRENDS_ANALYSIS_TOP_REGIONS", "5")

	m := NewManager()
	cfg, err := m.Load(path)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Trends.HL != "de-DE" || cfg.Trends.Timeout != 5*time.Second {
		t.Errorf("Unexpected trends config: %+v", cfg.Trends)
	}
	if cfg.Analysis.Concurrency != 3 || cfg.Analysis.TopRegions != 5 {
		t.Errorf("Unexpected analysis config: %+v", cfg.Analysis)
	}
	if m.GetConfig() != cfg {
		t.Error("Expected GetConfig to return the loaded config")
	}
}

func TestManager_DotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("TRENDS_SERVER_PORT=7070\n"), 0644); err != nil {
		t.Fatalf("Failed to write .env: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("TRENDS_SERVER_PORT") })

	cfg, err := NewManager().Load("")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("Expected port from .env, got %d", cfg.Server.Port)
	}
}

func TestManager_Validation(t *testing.T) {
	tests := map[string]string{
		"TRENDS_SERVER_PORT":                "70000",
		"TRENDS_ANALYSIS_CONCURRENCY":       "0",
		"TRENDS_TRENDS_REQUESTS_PER_SECOND": "-1",
		"TRENDS_TRENDS_HL":                  " ",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			chdir(t, t.TempDir())
			t.Setenv(key, value)
			if _, err := NewManager().Load(""); err == nil {
				t.Errorf("Expected validation error for %s=%s", key, value)
			}
		})
	}
}

func TestManager_ReloadBeforeLoad(t *testing.T) {
	if err := NewManager().Reload(); err == nil {
		t.Error("Expected error reloading before load")
	}
}

func TestManager_BindFlag(t *testing.T) {
	chdir(t, t.TempDir())

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("concurrency", 1, "")
	if err := flags.Parse([]string{"--concurrency=4"}); err != nil {
		t.Fatalf("Failed to parse flags: %v", err)
	}

	m := NewManager()
	if err := m.BindFlag("analysis.concurrency", flags.Lookup("concurrency")); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if err := m.BindFlag("analysis.top_regions", flags.Lookup("missing")); err == nil {
		t.Error("Expected error binding a missing flag")
	}

	cfg, err := m.Load("")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if cfg.Analysis.Concurrency != 4 {
		t.Errorf("Expected concurrency from flag, got %d", cfg.Analysis.Concurrency)
	}
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}

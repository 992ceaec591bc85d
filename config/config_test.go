package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lifeboat.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigMergesDefaults(t *testing.T) {
	path := writeConfig(t, `
train_path: data/train.csv
algorithms: [knn, glm]
cv:
  folds: 5
  repeats: 2
  seed: 99
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.TrainPath != "data/train.csv" {
		t.Errorf("train_path = %q", cfg.TrainPath)
	}
	if len(cfg.Algorithms) != 2 || cfg.Algorithms[0] != "knn" {
		t.Errorf("algorithms = %v", cfg.Algorithms)
	}
	if cfg.CV.Folds != 5 || cfg.CV.Repeats != 2 || cfg.CV.Seed != 99 {
		t.Errorf("cv = %+v", cfg.CV)
	}
	// Untouched fields keep their defaults.
	if cfg.Formula != "Survived ~ ." {
		t.Errorf("formula default = %q", cfg.Formula)
	}
	if cfg.Store.Backend != "file" {
		t.Errorf("store backend default = %q", cfg.Store.Backend)
	}
}

func TestDefaultConfigValidates(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty train path", func(c *Config) { c.TrainPath = "" }},
		{"empty formula", func(c *Config) { c.Formula = "" }},
		{"no algorithms", func(c *Config) { c.Algorithms = nil }},
		{"unknown algorithm", func(c *Config) { c.Algorithms = []string{"xgboost"} }},
		{"search width", func(c *Config) { c.SearchWidth = 0 }},
		{"folds", func(c *Config) { c.CV.Folds = 1 }},
		{"repeats", func(c *Config) { c.CV.Repeats = 0 }},
		{"metric", func(c *Config) { c.CV.Metric = "accuracy" }},
		{"store backend", func(c *Config) { c.Store.Backend = "s3" }},
		{"store path", func(c *Config) { c.Store.Path = "" }},
		{"log level", func(c *Config) { c.LogLevel = "verbose" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadConfigBadFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := LoadConfig(writeConfig(t, "algorithms: {not: a list}")); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

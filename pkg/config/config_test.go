package config

import (
	"os"
	"path/filepath"
	"testing"
)

// TestDefaultConfig verifies the default values used when no config file exists
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Window.Width != 1200 || cfg.Window.Height != 800 {
		t.Errorf("Expected window 1200x800, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Smoothing.StandardDeviation != 1.0 {
		t.Errorf("Expected smoothing sigma 1.0, got %f", cfg.Smoothing.StandardDeviation)
	}
	if cfg.Surface.ContourCount < 1 {
		t.Errorf("Expected at least one contour level, got %d", cfg.Surface.ContourCount)
	}
	if cfg.RayCast.SampleDistance <= 0 {
		t.Errorf("Expected positive sample distance, got %f", cfg.RayCast.SampleDistance)
	}
	if !cfg.RayCast.Jitter {
		t.Error("Expected jitter enabled by default")
	}
	if !cfg.RayCast.Shade {
		t.Error("Expected shading enabled by default")
	}
	if !cfg.Resampling.Isotropic {
		t.Error("Expected isotropic resampling enabled by default")
	}
}

// TestLoadConfigMissingFile verifies that a missing file yields defaults
func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Expected no error for missing config, got %v", err)
	}
	if cfg.Window.Width != 1200 {
		t.Errorf("Expected default width 1200, got %d", cfg.Window.Width)
	}
}

// TestSaveAndLoadConfig verifies YAML round-tripping of modified values
func TestSaveAndLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewer.yaml")

	cfg := DefaultConfig()
	cfg.Smoothing.StandardDeviation = 2.5
	cfg.Surface.ContourCount = 5
	cfg.RayCast.Jitter = false

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if loaded.Smoothing.StandardDeviation != 2.5 {
		t.Errorf("Expected sigma 2.5, got %f", loaded.Smoothing.StandardDeviation)
	}
	if loaded.Surface.ContourCount != 5 {
		t.Errorf("Expected contour count 5, got %d", loaded.Surface.ContourCount)
	}
	if loaded.RayCast.Jitter {
		t.Error("Expected jitter false after reload")
	}
}

// TestLoadConfigInvalidYAML verifies that malformed files report an error
func TestLoadConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("window: [not a map"), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Error("Expected error for malformed YAML, got nil")
	}
}

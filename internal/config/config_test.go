package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Render.MotionBlur {
		t.Error("expected motion blur off by default")
	}
	if cfg.Render.MotionSteps != 3 {
		t.Errorf("expected motion steps 3, got %d", cfg.Render.MotionSteps)
	}

	if cfg.Subdivision.DicingRate != 1.0 {
		t.Errorf("expected dicing rate 1.0, got %f", cfg.Subdivision.DicingRate)
	}
	if cfg.Subdivision.MaxLevel != 12 {
		t.Errorf("expected max level 12, got %d", cfg.Subdivision.MaxLevel)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
}

func TestApplyFlagOverrides(t *testing.T) {
	*flagDebug = true
	*flagMotionBlur = true
	*flagMotionSteps = 7
	*flagDicingRate = 0.25
	*flagMaxLevel = 4
	defer func() {
		*flagDebug = false
		*flagMotionBlur = false
		*flagMotionSteps = 0
		*flagDicingRate = 0
		*flagMaxLevel = 0
	}()

	cfg := Default()
	applyFlags(cfg)

	if cfg.Logging.Level != "debug" {
		t.Errorf("logging level = %s, want debug", cfg.Logging.Level)
	}
	if !cfg.Render.MotionBlur || cfg.Render.MotionSteps != 7 {
		t.Errorf("render overrides not applied: %+v", cfg.Render)
	}
	if cfg.Subdivision.DicingRate != 0.25 || cfg.Subdivision.MaxLevel != 4 {
		t.Errorf("subdivision overrides not applied: %+v", cfg.Subdivision)
	}
}

func TestApplyFlagsUnsetKeepsDefaults(t *testing.T) {
	cfg := Default()
	applyFlags(cfg)

	if *cfg != *Default() {
		t.Errorf("unset flags changed config: %+v", cfg)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prism.yaml")
	content := []byte(`render:
  motion_blur: true
  motion_steps: 5
subdivision:
  dicing_rate: 0.5
logging:
  level: debug
`)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, path); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if !cfg.Render.MotionBlur {
		t.Error("motion_blur not loaded from file")
	}
	if cfg.Render.MotionSteps != 5 {
		t.Errorf("motion_steps = %d, want 5", cfg.Render.MotionSteps)
	}
	if cfg.Subdivision.DicingRate != 0.5 {
		t.Errorf("dicing_rate = %f, want 0.5", cfg.Subdivision.DicingRate)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("logging level = %s, want debug", cfg.Logging.Level)
	}

	// Unset keys keep their defaults.
	if cfg.Subdivision.MaxLevel != 12 {
		t.Errorf("max_level = %d, want default 12", cfg.Subdivision.MaxLevel)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error loading missing file")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prism.yaml")

	cfg := Default()
	cfg.Render.MotionBlur = true
	cfg.Render.MotionSteps = 7
	cfg.Logging.Level = "warn"

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload config: %v", err)
	}

	if !loaded.Render.MotionBlur || loaded.Render.MotionSteps != 7 {
		t.Errorf("render settings did not round-trip: %+v", loaded.Render)
	}
	if loaded.Logging.Level != "warn" {
		t.Errorf("logging level = %s, want warn", loaded.Logging.Level)
	}
}

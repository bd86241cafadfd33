package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Faultbox/planetgen/pkg/math"
	"github.com/Faultbox/planetgen/pkg/planet"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Planet.Resolution != 64 {
		t.Errorf("expected resolution 64, got %d", cfg.Planet.Resolution)
	}
	if cfg.Planet.Layers != 1 {
		t.Errorf("expected 1 layer, got %d", cfg.Planet.Layers)
	}
	if cfg.Planet.Roughness != 2 || cfg.Planet.Persistence != 0.5 {
		t.Errorf("unexpected noise defaults: roughness %v, persistence %v",
			cfg.Planet.Roughness, cfg.Planet.Persistence)
	}
	if cfg.Planet.Tint != [4]float32{1, 1, 1, 1} {
		t.Errorf("expected white tint, got %v", cfg.Planet.Tint)
	}

	if cfg.Scheduler.Workers != 0 {
		t.Errorf("expected 0 workers (one per CPU), got %d", cfg.Scheduler.Workers)
	}
	if cfg.Scheduler.MaxResolution != planet.DefaultMaxResolution {
		t.Errorf("expected max resolution %d, got %d", planet.DefaultMaxResolution, cfg.Scheduler.MaxResolution)
	}
	if cfg.Scheduler.TickInterval != 16*time.Millisecond {
		t.Errorf("expected tick 16ms, got %v", cfg.Scheduler.TickInterval)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Planet.Params().Validate(); err != nil {
		t.Errorf("default planet config is invalid: %v", err)
	}
}

func TestPlanetConfigParams(t *testing.T) {
	c := PlanetConfig{
		Seed:          42,
		Resolution:    10,
		Strength:      1,
		Layers:        4,
		BaseRoughness: 1,
		Roughness:     2,
		Persistence:   0.5,
		Center:        [3]float32{1, 2, 3},
	}

	want := planet.Params{
		Seed:          42,
		Resolution:    10,
		Strength:      1,
		Layers:        4,
		BaseRoughness: 1,
		Roughness:     2,
		Persistence:   0.5,
		Center:        math.Vec3{X: 1, Y: 2, Z: 3},
	}
	if got := c.Params(); got != want {
		t.Errorf("Params() = %+v, want %+v", got, want)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
planet:
  seed: 42
  resolution: 10
  strength: 0.3
  layers: 4
  base_roughness: 1.5
  roughness: 2.2
  persistence: 0.45
  center: [0.5, -1, 2]
  tint: [0.2, 0.4, 0.8, 1]

scheduler:
  workers: 4
  max_resolution: 512
  tick_interval: 33ms
  max_cycles: 10

logging:
  level: "debug"
  log_file: "planetgen.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Planet.Seed != 42 || cfg.Planet.Resolution != 10 || cfg.Planet.Layers != 4 {
		t.Errorf("unexpected planet section: %+v", cfg.Planet)
	}
	if cfg.Planet.Strength != 0.3 || cfg.Planet.BaseRoughness != 1.5 {
		t.Errorf("unexpected strength/base roughness: %v/%v", cfg.Planet.Strength, cfg.Planet.BaseRoughness)
	}
	if cfg.Planet.Center != [3]float32{0.5, -1, 2} {
		t.Errorf("expected center [0.5 -1 2], got %v", cfg.Planet.Center)
	}
	if cfg.Planet.Tint != [4]float32{0.2, 0.4, 0.8, 1} {
		t.Errorf("unexpected tint %v", cfg.Planet.Tint)
	}

	if cfg.Scheduler.Workers != 4 || cfg.Scheduler.MaxResolution != 512 || cfg.Scheduler.MaxCycles != 10 {
		t.Errorf("unexpected scheduler section: %+v", cfg.Scheduler)
	}
	if cfg.Scheduler.TickInterval != 33*time.Millisecond {
		t.Errorf("expected tick 33ms, got %v", cfg.Scheduler.TickInterval)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "planetgen.log" {
		t.Errorf("expected log file 'planetgen.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFilePartial(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("planet:\n  seed: 7\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Untouched keys keep their defaults.
	if cfg.Planet.Seed != 7 {
		t.Errorf("expected seed 7, got %d", cfg.Planet.Seed)
	}
	if cfg.Planet.Resolution != 64 || cfg.Planet.Roughness != 2 {
		t.Errorf("defaults lost during merge: %+v", cfg.Planet)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.yaml")

	invalidYAML := `
planet:
  resolution: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	os.Chdir(tmpDir)

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "planetgen.yaml")
	if err := os.WriteFile(configPath, []byte("planet:\n  seed: 1\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find planetgen.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "seed flag",
			setup: func() { *flagSeed = 42 },
			verify: func(cfg *Config) {
				if cfg.Planet.Seed != 42 {
					t.Errorf("expected seed 42, got %d", cfg.Planet.Seed)
				}
			},
			teardown: func() { *flagSeed = -1 },
		},
		{
			name:  "seed zero is an override",
			setup: func() { *flagSeed = 0 },
			verify: func(cfg *Config) {
				if cfg.Planet.Seed != 0 {
					t.Errorf("expected seed 0, got %d", cfg.Planet.Seed)
				}
			},
			teardown: func() { *flagSeed = -1 },
		},
		{
			name:  "resolution and layers flags",
			setup: func() { *flagResolution = 20; *flagLayers = 0 },
			verify: func(cfg *Config) {
				if cfg.Planet.Resolution != 20 {
					t.Errorf("expected resolution 20, got %d", cfg.Planet.Resolution)
				}
				if cfg.Planet.Layers != 0 {
					t.Errorf("expected 0 layers, got %d", cfg.Planet.Layers)
				}
			},
			teardown: func() { *flagResolution = 0; *flagLayers = -1 },
		},
		{
			name:  "strength and workers flags",
			setup: func() { *flagStrength = 0.25; *flagWorkers = 3 },
			verify: func(cfg *Config) {
				if cfg.Planet.Strength != 0.25 {
					t.Errorf("expected strength 0.25, got %v", cfg.Planet.Strength)
				}
				if cfg.Scheduler.Workers != 3 {
					t.Errorf("expected 3 workers, got %d", cfg.Scheduler.Workers)
				}
			},
			teardown: func() { *flagStrength = -1; *flagWorkers = 0 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			cfg.Planet.Seed = 99
			cfg.Planet.Layers = 5
			if err := applyFlags(cfg); err != nil {
				t.Fatalf("applyFlags failed: %v", err)
			}

			tt.verify(cfg)
		})
	}
}

func TestApplyFlagsRejectsOutOfRange(t *testing.T) {
	wide := uint64(1)<<32 + 2

	tests := []struct {
		name     string
		skip     bool
		setup    func()
		teardown func()
	}{
		{
			name:     "seed above uint32",
			setup:    func() { *flagSeed = int64(wide - 2) },
			teardown: func() { *flagSeed = -1 },
		},
		{
			name:     "resolution above uint32",
			skip:     uint64(uint(wide)) != wide,
			setup:    func() { *flagResolution = uint(wide) },
			teardown: func() { *flagResolution = 0 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.skip {
				t.Skip("uint is 32 bits wide")
			}
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			if err := applyFlags(cfg); err == nil {
				t.Fatal("expected an out-of-range error")
			}
			if *cfg != *Default() {
				t.Errorf("rejected flags modified the config: %+v", cfg)
			}
		})
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	yamlContent := `
planet:
  seed: 5
  resolution: 32
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagResolution = 48
	defer func() {
		*flagConfig = ""
		*flagResolution = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Resolution comes from the flag, seed from the file.
	if cfg.Planet.Resolution != 48 {
		t.Errorf("expected resolution 48 from flag, got %d", cfg.Planet.Resolution)
	}
	if cfg.Planet.Seed != 5 {
		t.Errorf("expected seed 5 from file, got %d", cfg.Planet.Seed)
	}
}

func TestLoadRejectsInvalidPlanet(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("planet:\n  resolution: 1\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); !errors.Is(err, planet.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Planet.Seed = 1234
	cfg.Planet.Center = [3]float32{1, 0, -1}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload saved config: %v", err)
	}
	if loaded.Planet != cfg.Planet || loaded.Scheduler != cfg.Scheduler {
		t.Errorf("reloaded config differs:\n got %+v\nwant %+v", loaded, cfg)
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	t.Setenv("APPDATA", dir)

	cfg := Default()
	cfg.Planet.Resolution = 48
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, filepath.Join(ConfigDir(), "config.yaml")); err != nil {
		t.Fatalf("saved config not found in config dir: %v", err)
	}
	if loaded.Planet.Resolution != 48 {
		t.Errorf("resolution = %d, want 48", loaded.Planet.Resolution)
	}
}

package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.I != 1 {
		t.Errorf("expected I=1, got %f", cfg.I)
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Plot.File != "plot1.png" {
		t.Errorf("expected plot1.png, got %s", cfg.Plot.File)
	}

	p := cfg.Params()
	if math.Abs(p.T-5) > 1e-12 {
		t.Errorf("expected five unit periods, got T=%f", p.T)
	}
	if err := p.Validate(); err != nil {
		t.Errorf("default params invalid: %v", err)
	}
}

func TestHorizon(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		expected float64
	}{
		{"duration only", Config{W: 1, Duration: 3}, 3},
		{"periods win", Config{W: math.Pi, Duration: 3, Periods: 2}, 4},
		{"negative w", Config{W: -math.Pi, Periods: 1}, 2},
		{"zero w falls back", Config{W: 0, Duration: 7, Periods: 2}, 7},
		{"zero w without duration", Config{W: 0, Periods: 5}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.Horizon(); math.Abs(got-tt.expected) > 1e-12 {
				t.Errorf("Horizon() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("regression")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Dt != 0.1 || cfg.Duration != 1 {
		t.Errorf("unexpected regression preset: dt=%f duration=%f", cfg.Dt, cfg.Duration)
	}

	cfg.Dt = 99
	if Presets["regression"].Dt != 0.1 {
		t.Error("GetPreset returned shared preset")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	if len(presets) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(presets))
	}
	for i := 1; i < len(presets); i++ {
		if presets[i-1] > presets[i] {
			t.Errorf("presets not sorted: %v", presets)
		}
	}
}

func TestPresetsValid(t *testing.T) {
	for name, cfg := range Presets {
		if err := cfg.Params().Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")

	cfg := DefaultConfig()
	cfg.Dt = 0.025
	cfg.Plot.Show = true
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Dt != 0.025 || !loaded.Plot.Show {
		t.Errorf("round trip lost fields: %+v", loaded)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("dt: 0.01\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Dt != 0.01 {
		t.Errorf("expected dt 0.01, got %f", cfg.Dt)
	}
	if cfg.W != DefaultW || cfg.Plot.File != DefaultPlotFile {
		t.Errorf("defaults not kept: %+v", cfg)
	}
}

func TestLoadDuration(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		periods float64
		horizon float64
	}{
		{"duration only", "dt: 0.1\nduration: 3\n", 0, 3},
		{"periods kept when named", "duration: 3\nperiods: 2\n", 2, 2},
		{"neither named", "dt: 0.1\n", DefaultPeriods, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "cfg.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0644); err != nil {
				t.Fatal(err)
			}
			cfg, err := Load(path)
			if err != nil {
				t.Fatalf("load failed: %v", err)
			}
			if cfg.Periods != tt.periods {
				t.Errorf("periods = %v, want %v", cfg.Periods, tt.periods)
			}
			if got := cfg.Params().T; math.Abs(got-tt.horizon) > 1e-12 {
				t.Errorf("T = %v, want %v", got, tt.horizon)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/san-kum/vibsim/internal/config"
)

func newTestCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	preset, configFile = "", ""

	cmd := &cobra.Command{Use: "run"}
	addParamFlags(cmd)
	cmd.Flags().StringVar(&plotFile, "plot", config.DefaultPlotFile, "")
	cmd.Flags().BoolVar(&savePlot, "save", true, "")
	cmd.Flags().BoolVar(&showPlot, "show", false, "")
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}
	return cmd
}

func TestResolveConfigDefaults(t *testing.T) {
	cfg, err := resolveConfig(newTestCommand(t))
	if err != nil {
		t.Fatalf("resolveConfig failed: %v", err)
	}
	want := config.DefaultConfig()
	if cfg.I != want.I || cfg.W != want.W || cfg.Dt != want.Dt || cfg.Periods != want.Periods {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
	if cfg.Plot.File != config.DefaultPlotFile || !cfg.Plot.Save {
		t.Errorf("plot = %+v", cfg.Plot)
	}
}

func TestResolveConfigFlagsOverride(t *testing.T) {
	cfg, err := resolveConfig(newTestCommand(t, "--dt", "0.1", "--time", "1", "--plot", "out.svg", "--show"))
	if err != nil {
		t.Fatalf("resolveConfig failed: %v", err)
	}
	if cfg.Dt != 0.1 {
		t.Errorf("dt = %v, want 0.1", cfg.Dt)
	}
	if cfg.Periods != 0 || cfg.Horizon() != 1 {
		t.Errorf("horizon = %v (periods %v), want 1", cfg.Horizon(), cfg.Periods)
	}
	if cfg.Plot.File != "out.svg" || !cfg.Plot.Show {
		t.Errorf("plot = %+v", cfg.Plot)
	}
}

func TestResolveConfigPresetThenFile(t *testing.T) {
	cfg, err := resolveConfig(newTestCommand(t, "--preset", "coarse", "--w", "3"))
	if err != nil {
		t.Fatalf("resolveConfig failed: %v", err)
	}
	want := config.GetPreset("coarse")
	if cfg.Dt != want.Dt {
		t.Errorf("dt = %v, want preset %v", cfg.Dt, want.Dt)
	}
	if cfg.W != 3 {
		t.Errorf("w = %v, want flag value 3", cfg.W)
	}

	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(path, []byte("dt: 0.025\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err = resolveConfig(newTestCommand(t, "--preset", "coarse", "--config", path))
	if err != nil {
		t.Fatalf("resolveConfig failed: %v", err)
	}
	if cfg.Dt != 0.025 {
		t.Errorf("dt = %v, want config file value", cfg.Dt)
	}
}

func TestResolveConfigErrors(t *testing.T) {
	if _, err := resolveConfig(newTestCommand(t, "--preset", "nope")); err == nil {
		t.Error("expected unknown preset error")
	}
	if _, err := resolveConfig(newTestCommand(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"))); err == nil {
		t.Error("expected missing config error")
	}
}

func TestResolveConfigStaticOscillator(t *testing.T) {
	cfg, err := resolveConfig(newTestCommand(t, "--w", "0"))
	if err != nil {
		t.Fatalf("resolveConfig failed: %v", err)
	}
	p := cfg.Params()
	if err := p.Validate(); err != nil {
		t.Fatalf("w=0 should be valid: %v", err)
	}
	if p.T != config.DefaultPeriods {
		t.Errorf("T = %v, want %v", p.T, config.DefaultPeriods)
	}
}

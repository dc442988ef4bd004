package experiment

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/vibsim/internal/config"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	s, err := r.GetSolver("central")
	if err != nil {
		t.Fatalf("GetSolver failed: %v", err)
	}
	if s.Name() != "central" {
		t.Errorf("solver name = %q, want central", s.Name())
	}
	if _, err := r.GetSolver("rk4"); err == nil {
		t.Error("expected error for unknown solver")
	}

	ms, err := r.GetMetrics("default")
	if err != nil {
		t.Fatalf("GetMetrics failed: %v", err)
	}
	if len(ms) == 0 {
		t.Error("default metric set is empty")
	}
	again, _ := r.GetMetrics("default")
	if ms[0] == again[0] {
		t.Error("metric sets should be fresh instances")
	}
	if _, err := r.GetMetrics("bogus"); err == nil {
		t.Error("expected error for unknown metric set")
	}

	if got := r.ListSolvers(); len(got) != 1 || got[0] != "central" {
		t.Errorf("ListSolvers = %v", got)
	}
	want := []string{"default", "energy", "error", "none"}
	got := r.ListMetrics()
	if len(got) != len(want) {
		t.Fatalf("ListMetrics = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ListMetrics[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestExperimentRun(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Dt = 0.1
	cfg.Periods = 1

	e := New(cfg, nil)
	if _, err := e.Run(); err == nil {
		t.Fatal("expected error before Setup")
	}
	if err := e.Setup("central", "error"); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	res, err := e.Run()
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Trajectory.Len() != 11 {
		t.Errorf("len = %d, want 11", res.Trajectory.Len())
	}
	if math.Abs(res.Trajectory.U[1]-0.802607911978213) > 1e-14 {
		t.Errorf("u[1] = %.15f", res.Trajectory.U[1])
	}
	if _, ok := res.Metrics["max_error"]; !ok {
		t.Error("missing max_error metric")
	}
	if _, ok := res.Metrics["energy_drift"]; ok {
		t.Error("error set should not carry energy_drift")
	}
	if e.GetSimulator() == nil || e.Config() != cfg {
		t.Error("accessors not wired")
	}
}

func TestExperimentSetupErrors(t *testing.T) {
	e := New(config.DefaultConfig(), nil)
	if err := e.Setup("verlet", "default"); err == nil {
		t.Error("expected unknown solver error")
	}
	if err := e.Setup("central", "bogus"); err == nil {
		t.Error("expected unknown metric set error")
	}
}

func TestExperimentInvalidParams(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Dt = 0
	e := New(cfg, nil)
	if err := e.Setup("central", "default"); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	if _, err := e.Run(); err == nil {
		t.Error("expected invalid parameter error")
	}
}

func TestExperimentConverge(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Dt = 0.02
	cfg.Periods = 1

	e := New(cfg, nil)
	if err := e.Setup("central", "none"); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	levels, err := e.Converge(context.Background(), 4)
	if err != nil {
		t.Fatalf("Converge failed: %v", err)
	}
	if len(levels) != 4 {
		t.Fatalf("levels = %d, want 4", len(levels))
	}
	if !math.IsNaN(levels[0].Order) {
		t.Errorf("first order = %v, want NaN", levels[0].Order)
	}
	for i := 1; i < len(levels); i++ {
		if levels[i].Dt != levels[i-1].Dt/2 {
			t.Errorf("level %d dt = %v", i, levels[i].Dt)
		}
		if math.Abs(levels[i].Order-2) > 0.2 {
			t.Errorf("level %d order = %v, want ~2", i, levels[i].Order)
		}
	}

	if _, err := e.Converge(context.Background(), 0); err == nil {
		t.Error("expected error for zero levels")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := e.Converge(ctx, 2); err == nil {
		t.Error("expected error for cancelled context")
	}
}

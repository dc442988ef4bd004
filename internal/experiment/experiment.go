package experiment

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/vibsim/internal/config"
	"github.com/san-kum/vibsim/internal/metrics"
	"github.com/san-kum/vibsim/internal/sim"
)

// Experiment binds a configuration to a named solver and metric set.
type Experiment struct {
	cfg      *config.Config
	registry *Registry
	logger   *zap.Logger

	solver    string
	metricSet string
	simulator *sim.Simulator
}

func New(cfg *config.Config, logger *zap.Logger) *Experiment {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Experiment{
		cfg:      cfg,
		registry: NewRegistry(),
		logger:   logger,
	}
}

func (e *Experiment) Setup(solver, metricSet string) error {
	if _, err := e.registry.GetSolver(solver); err != nil {
		return err
	}
	if _, err := e.registry.GetMetrics(metricSet); err != nil {
		return err
	}
	e.solver = solver
	e.metricSet = metricSet

	s, err := e.newSimulator()
	if err != nil {
		return err
	}
	e.simulator = s
	return nil
}

func (e *Experiment) newSimulator() (*sim.Simulator, error) {
	solver, err := e.registry.GetSolver(e.solver)
	if err != nil {
		return nil, err
	}
	ms, err := e.registry.GetMetrics(e.metricSet)
	if err != nil {
		return nil, err
	}
	return sim.New(solver, sim.WithLogger(e.logger), sim.WithMetrics(ms...)), nil
}

func (e *Experiment) Run() (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(e.cfg.Params())
}

// Converge runs the configuration at levels successively halved step sizes
// and reports the observed order between neighbouring levels.
func (e *Experiment) Converge(ctx context.Context, levels int) ([]metrics.Level, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	if levels < 1 {
		return nil, fmt.Errorf("levels must be at least 1, got %d", levels)
	}

	params := sim.Refine(e.cfg.Params(), levels)
	ens := sim.NewEnsemble(func() *sim.Simulator {
		solver, _ := e.registry.GetSolver(e.solver)
		return sim.New(solver, sim.WithLogger(e.logger), sim.WithMetrics(metrics.NewMaxError()))
	})

	results, err := ens.Run(ctx, params)
	if err != nil {
		return nil, err
	}

	errs := make([]float64, len(results))
	for i, r := range results {
		errs[i] = r.Metrics["max_error"]
	}
	return metrics.Convergence(params, errs), nil
}

// GetSimulator returns the configured simulator, as handed to the live explorer.
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}

func (e *Experiment) Config() *config.Config {
	return e.cfg
}

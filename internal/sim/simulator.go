package sim

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/san-kum/vibsim/internal/dynamo"
	"github.com/san-kum/vibsim/internal/physics"
)

type Simulator struct {
	solver  dynamo.Solver
	metrics []dynamo.Metric
	logger  *zap.Logger
}

type Option func(*Simulator)

func WithLogger(l *zap.Logger) Option {
	return func(s *Simulator) { s.logger = l }
}

func WithMetrics(ms ...dynamo.Metric) Option {
	return func(s *Simulator) { s.metrics = append(s.metrics, ms...) }
}

func New(solver dynamo.Solver, opts ...Option) *Simulator {
	s := &Simulator{
		solver:  solver,
		metrics: make([]dynamo.Metric, 0),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run solves p, samples the exact solution on the same grid and evaluates
// every registered metric. Invalid parameters fail before any work is done.
func (s *Simulator) Run(p dynamo.Params) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	s.checkParams(p)

	traj, err := s.solver.Solve(p)
	if err != nil {
		return nil, fmt.Errorf("%s solve: %w", s.solver.Name(), err)
	}

	result := &Result{
		Solver:     s.solver.Name(),
		Params:     p,
		Trajectory: traj,
		Exact:      physics.Exact(traj.T, p.I, p.W),
		Metrics:    make(map[string]float64),
		Stable:     p.Courant() < 2,
	}

	for _, m := range s.metrics {
		m.Reset(p)
	}
	for i := range traj.U {
		smp := dynamo.Sample{N: i, T: traj.T[i], U: traj.U[i], Exact: result.Exact[i]}
		for _, m := range s.metrics {
			m.Observe(smp)
		}
	}
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	s.logger.Debug("run complete",
		zap.String("solver", result.Solver),
		zap.Int("steps", traj.Steps()),
		zap.Float64("horizon", traj.End()),
		zap.Any("metrics", result.Metrics),
	)

	return result, nil
}

func (s *Simulator) checkParams(p dynamo.Params) {
	if h := p.Horizon(); math.Abs(h-p.T) > 1e-12*math.Max(1, p.T) {
		s.logger.Warn("horizon adjusted by step rounding",
			zap.Float64("requested", p.T),
			zap.Float64("simulated", h),
			zap.Int("steps", p.Steps()),
		)
	}
	if c := p.Courant(); c >= 2 {
		s.logger.Warn("step exceeds stability limit, trajectory will grow",
			zap.Float64("w*dt", c),
			zap.Float64("dt_max", 2/math.Abs(p.W)),
		)
	}
}

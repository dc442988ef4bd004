package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/vibsim/internal/dynamo"
	"github.com/san-kum/vibsim/internal/integrators"
	"github.com/san-kum/vibsim/internal/metrics"
)

type Registry struct {
	solvers map[string]func() dynamo.Solver
	metrics map[string]func() []dynamo.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		solvers: make(map[string]func() dynamo.Solver),
		metrics: make(map[string]func() []dynamo.Metric),
	}

	r.solvers["central"] = func() dynamo.Solver { return integrators.NewCentralDifference() }

	r.metrics["default"] = metrics.Defaults
	r.metrics["error"] = func() []dynamo.Metric {
		return []dynamo.Metric{metrics.NewMaxError(), metrics.NewRMSError()}
	}
	r.metrics["energy"] = func() []dynamo.Metric {
		return []dynamo.Metric{metrics.NewEnergyDrift(), metrics.NewPeak()}
	}
	r.metrics["none"] = func() []dynamo.Metric { return nil }

	return r
}

func (r *Registry) GetSolver(name string) (dynamo.Solver, error) {
	fn, ok := r.solvers[name]
	if !ok {
		return nil, fmt.Errorf("unknown solver: %s", name)
	}
	return fn(), nil
}

// GetMetrics returns a fresh metric set; sets are never shared between runs.
func (r *Registry) GetMetrics(name string) ([]dynamo.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric set: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListSolvers() []string {
	return sortedKeys(r.solvers)
}

func (r *Registry) ListMetrics() []string {
	return sortedKeys(r.metrics)
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

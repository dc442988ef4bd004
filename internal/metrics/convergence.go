package metrics

import (
	"math"

	"github.com/san-kum/vibsim/internal/dynamo"
)

// Level is one refinement of a convergence study.
type Level struct {
	Dt       float64
	Steps    int
	MaxError float64
	// Order is log(e_prev/e)/log(dt_prev/dt); NaN on the first level.
	Order float64
}

// Convergence builds levels from (params, trajectory-error) pairs in
// refinement order and fills the observed order of each.
func Convergence(params []dynamo.Params, errs []float64) []Level {
	n := len(params)
	if len(errs) < n {
		n = len(errs)
	}

	levels := make([]Level, n)
	for i := 0; i < n; i++ {
		levels[i] = Level{
			Dt:       params[i].Dt,
			Steps:    params[i].Steps(),
			MaxError: errs[i],
			Order:    math.NaN(),
		}
		if i == 0 {
			continue
		}
		prev := levels[i-1]
		if prev.MaxError > 0 && errs[i] > 0 && prev.Dt != params[i].Dt {
			levels[i].Order = math.Log(prev.MaxError/errs[i]) / math.Log(prev.Dt/params[i].Dt)
		}
	}
	return levels
}

// MeanOrder averages the defined orders, skipping NaN.
func MeanOrder(levels []Level) float64 {
	sum, count := 0.0, 0
	for _, l := range levels {
		if math.IsNaN(l.Order) {
			continue
		}
		sum += l.Order
		count++
	}
	if count == 0 {
		return math.NaN()
	}
	return sum / float64(count)
}

// Defaults returns the metric set every CLI run reports.
func Defaults() []dynamo.Metric {
	return []dynamo.Metric{
		NewMaxError(),
		NewRMSError(),
		NewEnergyDrift(),
		NewStability(1.5),
		NewPeak(),
	}
}

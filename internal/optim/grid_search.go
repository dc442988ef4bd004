package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/vibsim/internal/dynamo"
	"github.com/san-kum/vibsim/internal/sim"
)

// Point is one evaluated grid cell.
type Point struct {
	Params dynamo.Params
	Value  float64
	Err    error
}

// GridSearch evaluates a metric over the cartesian product of parameter
// values. Names are Params fields: "I", "w", "dt", "T".
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("%d parameter names for %d ranges", len(params), len(ranges))
	}
	for _, name := range params {
		if _, err := set(dynamo.Params{}, name, 0); err != nil {
			return nil, err
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

func set(p dynamo.Params, name string, v float64) (dynamo.Params, error) {
	switch name {
	case "I":
		p.I = v
	case "w":
		p.W = v
	case "dt":
		p.Dt = v
	case "T":
		p.T = v
	default:
		return p, fmt.Errorf("unknown parameter: %s", name)
	}
	return p, nil
}

// Sweep runs every cell on a fresh Simulator and returns the metric value
// per cell in grid order. Cells that fail validation carry their error and
// a NaN value.
func (g *GridSearch) Sweep(
	ctx context.Context,
	base dynamo.Params,
	newSimulator func() *sim.Simulator,
	metricName string,
) ([]Point, error) {
	var points []Point
	err := g.sweepRecursive(ctx, 0, base, newSimulator, metricName, &points)
	return points, err
}

func (g *GridSearch) sweepRecursive(
	ctx context.Context,
	depth int,
	current dynamo.Params,
	newSimulator func() *sim.Simulator,
	metricName string,
	points *[]Point,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		pt := Point{Params: current, Value: math.NaN()}
		result, err := newSimulator().Run(current)
		if err != nil {
			pt.Err = err
		} else if v, ok := result.Metrics[metricName]; ok {
			pt.Value = v
		} else {
			pt.Err = fmt.Errorf("metric not reported: %s", metricName)
		}
		*points = append(*points, pt)
		return nil
	}

	for _, val := range g.ranges[depth] {
		next, _ := set(current, g.paramNames[depth], val)
		if err := g.sweepRecursive(ctx, depth+1, next, newSimulator, metricName, points); err != nil {
			return err
		}
	}
	return nil
}

// Search sweeps the grid and returns the cell with the smallest metric value
// along with every evaluated cell.
func (g *GridSearch) Search(
	ctx context.Context,
	base dynamo.Params,
	newSimulator func() *sim.Simulator,
	metricName string,
) (Point, []Point, error) {
	points, err := g.Sweep(ctx, base, newSimulator, metricName)
	if err != nil {
		return Point{}, nil, err
	}

	best := Point{Value: math.Inf(1)}
	found := false
	for _, pt := range points {
		if pt.Err == nil && pt.Value < best.Value {
			best = pt
			found = true
		}
	}
	if !found {
		return Point{}, points, fmt.Errorf("no grid cell produced %s", metricName)
	}
	return best, points, nil
}

// CoarsestStep returns the largest dt among points whose value is at most
// tol, or false if none qualifies.
func CoarsestStep(points []Point, tol float64) (Point, bool) {
	var best Point
	found := false
	for _, pt := range points {
		if pt.Err != nil || math.IsNaN(pt.Value) || pt.Value > tol {
			continue
		}
		if !found || pt.Params.Dt > best.Params.Dt {
			best = pt
			found = true
		}
	}
	return best, found
}

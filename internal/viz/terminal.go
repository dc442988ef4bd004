package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/vibsim/internal/dynamo"
	"github.com/san-kum/vibsim/internal/export"
	"github.com/san-kum/vibsim/internal/physics"
)

const (
	DefaultWidth  = 80
	DefaultHeight = 15
)

// Comparison draws the numerical samples over the exact curve, using the
// same vertical range as the saved chart.
func Comparison(tr *dynamo.Trajectory, p dynamo.Params, width, height int) string {
	if tr.Check() != nil {
		return ""
	}

	_, _, ymin, ymax := export.NewComparisonChart(tr, p).Bounds()

	u := export.Clip(tr.U)
	if len(u) == 1 {
		u = []float64{u[0], u[0]}
	}
	exact := physics.Exact(physics.FineGrid(tr.T[0], tr.End(), max(width, 2)), p.I, p.W)

	return asciigraph.PlotMany([][]float64{u, exact},
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.LowerBound(ymin),
		asciigraph.UpperBound(ymax),
		asciigraph.SeriesColors(asciigraph.Red, asciigraph.Blue),
		asciigraph.SeriesLegends("numerical", "exact"),
		asciigraph.Caption(fmt.Sprintf("dt = %g", p.Dt)),
	)
}

// Series draws a single named series, as used for stored runs.
func Series(data []float64, caption string, width, height int) string {
	if len(data) == 0 {
		return ""
	}
	if len(data) == 1 {
		data = []float64{data[0], data[0]}
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

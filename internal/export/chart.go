package export

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/san-kum/vibsim/internal/dynamo"
	"github.com/san-kum/vibsim/internal/physics"
)

const (
	DefaultSamples = 1001
	DefaultWidth   = 8 * vg.Inch
	DefaultHeight  = 6 * vg.Inch
	DefaultDPI     = 100
)

var (
	numericalColor = color.RGBA{R: 220, A: 255}
	exactColor     = color.RGBA{B: 220, A: 255}
)

// ComparisonChart overlays a computed trajectory on I*cos(w*t) sampled
// finely over the same interval.
type ComparisonChart struct {
	Trajectory *dynamo.Trajectory
	Params     dynamo.Params
	Samples    int
	Width      vg.Length
	Height     vg.Length
	DPI        int
}

func NewComparisonChart(tr *dynamo.Trajectory, p dynamo.Params) *ComparisonChart {
	return &ComparisonChart{
		Trajectory: tr,
		Params:     p,
		Samples:    DefaultSamples,
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		DPI:        DefaultDPI,
	}
}

// Bounds returns the axis box: the simulated interval on x and
// [1.2*min(u), -1.2*min(u)] on y. When that box is empty it widens to
// ±1.2*max|u|, then to ±1. Only plottable samples count, so a run that
// overflowed past the stability limit is framed by what can be drawn.
func (c *ComparisonChart) Bounds() (xmin, xmax, ymin, ymax float64) {
	tr := c.Trajectory
	xmin, xmax = tr.T[0], tr.End()
	if xmax <= xmin {
		xmax = xmin + c.Params.Dt
	}

	u := plottable(tr.U)
	if len(u) == 0 {
		return xmin, xmax, -1, 1
	}
	ymin = 1.2 * floats.Min(u)
	ymax = -ymin
	if ymin >= ymax {
		peak := 1.2 * math.Max(math.Abs(floats.Min(u)), math.Abs(floats.Max(u)))
		ymin, ymax = -peak, peak
	}
	if ymin >= ymax {
		ymin, ymax = -1, 1
	}
	return xmin, xmax, ymin, ymax
}

// maxPlotMagnitude keeps 1.2*u and the axis span representable.
const maxPlotMagnitude = math.MaxFloat64 / 4

// Plottable reports whether v can be placed on an axis.
func Plottable(v float64) bool {
	return !math.IsNaN(v) && math.Abs(v) <= maxPlotMagnitude
}

func plottable(us []float64) []float64 {
	out := make([]float64, 0, len(us))
	for _, v := range us {
		if Plottable(v) {
			out = append(out, v)
		}
	}
	return out
}

// Clip returns a copy of us with unplottable samples replaced by NaN.
func Clip(us []float64) []float64 {
	out := make([]float64, len(us))
	for i, v := range us {
		if Plottable(v) {
			out[i] = v
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

// Plot builds the chart.
func (c *ComparisonChart) Plot() (*plot.Plot, error) {
	tr := c.Trajectory
	if err := tr.Check(); err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("dt = %g", c.Params.Dt)
	p.X.Label.Text = "t"
	p.Y.Label.Text = "u"

	// Overflowed samples are left off the numerical series.
	num := make(plotter.XYs, 0, tr.Len())
	for i, u := range tr.U {
		if Plottable(u) {
			num = append(num, plotter.XY{X: tr.T[i], Y: u})
		}
	}
	line, points, err := plotter.NewLinePoints(num)
	if err != nil {
		return nil, fmt.Errorf("numerical series: %w", err)
	}
	line.LineStyle.Color = numericalColor
	line.LineStyle.Width = vg.Points(1.5)
	line.LineStyle.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
	points.GlyphStyle.Color = numericalColor
	points.GlyphStyle.Shape = draw.CircleGlyph{}
	points.GlyphStyle.Radius = vg.Points(3)

	ts := physics.FineGrid(tr.T[0], tr.End(), c.Samples)
	us := physics.Exact(ts, c.Params.I, c.Params.W)
	ex := make(plotter.XYs, len(ts))
	for i := range ex {
		ex[i].X = ts[i]
		ex[i].Y = us[i]
	}
	exact, err := plotter.NewLine(ex)
	if err != nil {
		return nil, fmt.Errorf("exact series: %w", err)
	}
	exact.LineStyle.Color = exactColor
	exact.LineStyle.Width = vg.Points(1.5)

	p.Add(line, points, exact)
	p.Legend.Add("numerical", line, points)
	p.Legend.Add("exact", exact)
	p.Legend.Top = true
	p.Legend.Left = true

	p.X.Min, p.X.Max, p.Y.Min, p.Y.Max = c.Bounds()

	return p, nil
}

// WritePNG renders the chart as PNG.
func (c *ComparisonChart) WritePNG(w io.Writer) error {
	p, err := c.Plot()
	if err != nil {
		return err
	}

	canvas := vgimg.NewWith(
		vgimg.UseWH(c.Width, c.Height),
		vgimg.UseDPI(c.DPI),
	)
	p.Draw(draw.New(canvas))

	png := vgimg.PngCanvas{Canvas: canvas}
	if _, err := png.WriteTo(w); err != nil {
		return fmt.Errorf("cannot write png: %w", err)
	}
	return nil
}

// Save writes the chart to path. PNG goes through WritePNG; any other
// extension gonum/plot knows (svg, pdf, eps, jpg, tif) is delegated to it.
func (c *ComparisonChart) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("cannot create directory: %w", err)
		}
	}

	if strings.EqualFold(filepath.Ext(path), ".png") {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("cannot create png: %w", err)
		}
		defer f.Close()

		bw := bufio.NewWriter(f)
		if err := c.WritePNG(bw); err != nil {
			return err
		}
		return bw.Flush()
	}

	p, err := c.Plot()
	if err != nil {
		return err
	}
	return p.Save(c.Width, c.Height, path)
}

package analysis

import (
	"math"
	"strings"

	"github.com/san-kum/vibsim/internal/dynamo"
)

type Point struct{ X, Y float64 }

// PhasePortrait holds (u, u') pairs for the interior samples of a trajectory.
type PhasePortrait struct {
	Points []Point
}

// NewPhasePortrait estimates u' with the central difference
// (u[n+1] - u[n-1]) / 2dt, so the first and last samples are skipped.
func NewPhasePortrait(tr *dynamo.Trajectory) *PhasePortrait {
	n := tr.Len()
	if n < 3 {
		return &PhasePortrait{}
	}

	dt := tr.Dt()
	portrait := &PhasePortrait{Points: make([]Point, 0, n-2)}
	for i := 1; i < n-1; i++ {
		portrait.Points = append(portrait.Points, Point{
			X: tr.U[i],
			Y: (tr.U[i+1] - tr.U[i-1]) / (2 * dt),
		})
	}
	return portrait
}

// ToASCII renders the portrait on a width x height character grid.
func (p *PhasePortrait) ToASCII(width, height int) string {
	if p == nil || len(p.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := p.Points[0].X, p.Points[0].X
	minY, maxY := p.Points[0].Y, p.Points[0].Y
	for _, pt := range p.Points {
		minX, maxX = math.Min(minX, pt.X), math.Max(maxX, pt.X)
		minY, maxY = math.Min(minY, pt.Y), math.Max(maxY, pt.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for _, pt := range p.Points {
		col := int((pt.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((pt.Y-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}

// ZeroCrossings returns the linearly interpolated times at which u goes
// from negative to non-negative.
func ZeroCrossings(tr *dynamo.Trajectory) []float64 {
	crossings := make([]float64, 0)
	for i := 1; i < tr.Len(); i++ {
		prev, curr := tr.U[i-1], tr.U[i]
		if prev < 0 && curr >= 0 {
			frac := -prev / (curr - prev)
			crossings = append(crossings, tr.T[i-1]+frac*(tr.T[i]-tr.T[i-1]))
		}
	}
	return crossings
}

// MeasuredPeriod averages the spacing of upward zero crossings. It returns
// NaN when fewer than two crossings exist.
func MeasuredPeriod(tr *dynamo.Trajectory) float64 {
	c := ZeroCrossings(tr)
	if len(c) < 2 {
		return math.NaN()
	}
	return (c[len(c)-1] - c[0]) / float64(len(c)-1)
}

package metrics

import (
	"math"

	"github.com/san-kum/vibsim/internal/dynamo"
)

// Stability is the fraction of samples with |u| within factor*|I|.
// A stable run stays at 1; past w*dt = 2 it falls as the samples grow.
type Stability struct {
	name       string
	factor     float64
	threshold  float64
	violations int
	samples    int
}

func NewStability(factor float64) *Stability {
	return &Stability{
		name:   "stability",
		factor: factor,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Reset(p dynamo.Params) {
	s.threshold = s.factor * math.Abs(p.I)
	if s.threshold == 0 {
		s.threshold = s.factor
	}
	s.violations = 0
	s.samples = 0
}

func (s *Stability) Observe(smp dynamo.Sample) {
	s.samples++
	if math.Abs(smp.U) > s.threshold {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

// Peak tracks max |u|.
type Peak struct {
	name string
	peak float64
}

func NewPeak() *Peak {
	return &Peak{name: "peak"}
}

func (p *Peak) Name() string { return p.name }

func (p *Peak) Reset(dynamo.Params) { p.peak = 0 }

func (p *Peak) Observe(s dynamo.Sample) {
	p.peak = math.Max(p.peak, math.Abs(s.U))
}

func (p *Peak) Value() float64 { return p.peak }

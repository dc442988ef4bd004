package integrators_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/vibsim/internal/dynamo"
	"github.com/san-kum/vibsim/internal/integrators"
	"github.com/san-kum/vibsim/internal/physics"
)

func maxError(p dynamo.Params) float64 {
	tr, err := integrators.Solve(p)
	Expect(err).NotTo(HaveOccurred())
	exact := physics.Exact(tr.T, p.I, p.W)
	worst := 0.0
	for i := range tr.U {
		worst = math.Max(worst, math.Abs(tr.U[i]-exact[i]))
	}
	return worst
}

var _ = Describe("Solve", func() {
	unit := dynamo.Params{I: 1, W: 2 * math.Pi, Dt: 0.1, T: 1}

	It("reproduces the first three samples of the reference run", func() {
		tr, err := integrators.Solve(unit)
		Expect(err).NotTo(HaveOccurred())

		expected := []float64{1.0, 0.802607911978213, 0.288358920740053}
		for i, want := range expected {
			Expect(tr.U[i]).To(BeNumerically("~", want, 1e-14), "sample %d", i)
		}
	})

	It("returns the same trajectory on every call", func() {
		a, err := integrators.Solve(unit)
		Expect(err).NotTo(HaveOccurred())
		b, err := integrators.Solve(unit)
		Expect(err).NotTo(HaveOccurred())
		Expect(a.U).To(Equal(b.U))
		Expect(a.T).To(Equal(b.T))
	})

	DescribeTable("sizes the trajectory to round(T/dt)+1",
		func(dt, horizon float64, samples int) {
			tr, err := integrators.Solve(dynamo.Params{I: 1, W: 3, Dt: dt, T: horizon})
			Expect(err).NotTo(HaveOccurred())
			Expect(tr.U).To(HaveLen(samples))
			Expect(tr.T).To(HaveLen(samples))
		},
		Entry("integral ratio", 0.1, 1.0, 11),
		Entry("five periods", 0.05, 5.0, 101),
		Entry("rounds down", 0.3, 1.0, 4),
		Entry("rounds up", 0.3, 1.1, 5),
		Entry("half goes to even below", 1.0, 2.5, 3),
		Entry("half goes to even above", 1.0, 3.5, 5),
		Entry("single step", 0.1, 0.1, 2),
	)

	It("lays the samples on an even grid from zero", func() {
		p := dynamo.Params{I: 1, W: 2 * math.Pi, Dt: 0.03, T: 2}
		tr, err := integrators.Solve(p)
		Expect(err).NotTo(HaveOccurred())

		Expect(tr.T[0]).To(Equal(0.0))
		for i := 1; i < tr.Len(); i++ {
			Expect(tr.T[i] - tr.T[i-1]).To(BeNumerically("~", p.Dt, 1e-12))
		}
		Expect(tr.End()).To(BeNumerically("~", p.Horizon(), 1e-12))
	})

	DescribeTable("keeps u[0] equal to I",
		func(i float64) {
			tr, err := integrators.Solve(dynamo.Params{I: i, W: 1.7, Dt: 0.01, T: 0.5})
			Expect(err).NotTo(HaveOccurred())
			Expect(tr.U[0]).To(Equal(i))
		},
		Entry("unit", 1.0),
		Entry("negative", -3.25),
		Entry("zero", 0.0),
		Entry("tiny", 1e-300),
	)

	Context("when T rounds to zero steps", func() {
		It("returns the single initial sample", func() {
			tr, err := integrators.Solve(dynamo.Params{I: 0.7, W: 2, Dt: 0.1, T: 0.04})
			Expect(err).NotTo(HaveOccurred())
			Expect(tr.U).To(Equal([]float64{0.7}))
			Expect(tr.T).To(Equal([]float64{0}))
			Expect(tr.Dt()).To(Equal(0.0))
		})
	})

	Context("with exactly one step", func() {
		It("applies only the starting formula", func() {
			p := dynamo.Params{I: 2, W: 3, Dt: 0.1, T: 0.1}
			tr, err := integrators.Solve(p)
			Expect(err).NotTo(HaveOccurred())
			Expect(tr.U).To(HaveLen(2))
			Expect(tr.U[1]).To(BeNumerically("~", 2-0.5*2*0.01*9, 1e-14))
		})
	})

	It("matches the closed-form discrete solution I*cos(w̃*t)", func() {
		p := dynamo.Params{I: 1.5, W: 2 * math.Pi, Dt: 0.05, T: 5}
		tr, err := integrators.Solve(p)
		Expect(err).NotTo(HaveOccurred())

		wNum := physics.NewOscillator(p.I, p.W).NumericalFrequency(p.Dt)
		for i := range tr.U {
			Expect(tr.U[i]).To(BeNumerically("~", p.I*math.Cos(wNum*tr.T[i]), 1e-10))
		}
	})

	It("depends on w only through w²", func() {
		pos, err := integrators.Solve(dynamo.Params{I: 1, W: 4, Dt: 0.02, T: 3})
		Expect(err).NotTo(HaveOccurred())
		neg, err := integrators.Solve(dynamo.Params{I: 1, W: -4, Dt: 0.02, T: 3})
		Expect(err).NotTo(HaveOccurred())
		Expect(neg.U).To(Equal(pos.U))
	})

	It("holds the displacement constant when w is zero", func() {
		tr, err := integrators.Solve(dynamo.Params{I: 3, W: 0, Dt: 0.1, T: 2})
		Expect(err).NotTo(HaveOccurred())
		for _, u := range tr.U {
			Expect(u).To(Equal(3.0))
		}
	})

	It("converges at second order", func() {
		errs := make([]float64, 0, 3)
		for _, dt := range []float64{0.01, 0.005, 0.0025} {
			errs = append(errs, maxError(dynamo.Params{I: 1, W: 2 * math.Pi, Dt: dt, T: 1}))
		}
		Expect(errs[0]).To(BeNumerically("<", 1e-2))
		for i := 1; i < len(errs); i++ {
			Expect(errs[i-1] / errs[i]).To(BeNumerically("~", 4, 0.5))
		}
	})

	It("lets coarse steps grow instead of failing", func() {
		tr, err := integrators.Solve(dynamo.Params{I: 1, W: 2 * math.Pi, Dt: 0.35, T: 5})
		Expect(err).NotTo(HaveOccurred())

		peak := 0.0
		for _, u := range tr.U {
			peak = math.Max(peak, math.Abs(u))
		}
		Expect(peak).To(BeNumerically(">", 10))
	})

	DescribeTable("rejects steps and horizons that are not strictly positive",
		func(dt, horizon float64) {
			tr, err := integrators.Solve(dynamo.Params{I: 1, W: 1, Dt: dt, T: horizon})
			Expect(tr).To(BeNil())
			Expect(errors.Is(err, dynamo.ErrInvalidParameter)).To(BeTrue())

			var perr *dynamo.ParameterError
			Expect(errors.As(err, &perr)).To(BeTrue())
		},
		Entry("zero dt", 0.0, 1.0),
		Entry("negative dt", -0.1, 1.0),
		Entry("zero T", 0.1, 0.0),
		Entry("negative T", 0.1, -1.0),
		Entry("NaN dt", math.NaN(), 1.0),
		Entry("infinite T", 0.1, math.Inf(1)),
		Entry("too many steps", 1e-12, 1e6),
	)
})

var _ = Describe("CentralDifference", func() {
	It("delegates to Solve", func() {
		p := dynamo.Params{I: 1, W: 2, Dt: 0.01, T: 1}
		want, err := integrators.Solve(p)
		Expect(err).NotTo(HaveOccurred())

		var solver dynamo.Solver = integrators.NewCentralDifference()
		got, err := solver.Solve(p)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.U).To(Equal(want.U))
		Expect(solver.Name()).To(Equal("central"))
	})
})

var _ = Describe("Advance", func() {
	It("applies the three-point recurrence", func() {
		Expect(integrators.Advance(1, 0.5, 0.2)).To(BeNumerically("~", -1+1-0.1, 1e-15))
		Expect(integrators.Advance(0, 0, 0.7)).To(Equal(0.0))
	})
})

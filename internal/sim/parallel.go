package sim

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/vibsim/internal/dynamo"
)

// Ensemble runs independent parameter sets concurrently. Each run gets its
// own Simulator from the factory so metric state is never shared.
type Ensemble struct {
	factory func() *Simulator
}

func NewEnsemble(factory func() *Simulator) *Ensemble {
	return &Ensemble{factory: factory}
}

// Run returns results in the order of params. The first error cancels the
// runs that have not started and is returned.
func (e *Ensemble) Run(ctx context.Context, params []dynamo.Params) ([]*Result, error) {
	results := make([]*Result, len(params))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range params {
		idx := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := e.factory().Run(params[idx])
			if err != nil {
				return err
			}
			results[idx] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Refine returns levels copies of base with dt halved each time.
func Refine(base dynamo.Params, levels int) []dynamo.Params {
	out := make([]dynamo.Params, levels)
	p := base
	for i := range out {
		out[i] = p
		p.Dt /= 2
	}
	return out
}

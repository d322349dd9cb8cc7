package costfuncs

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

type quadratic struct{}

// Quadratic returns the quadratic cost function, Σ(a-e)²/2, which
// implements CostFunction.
func Quadratic() *quadratic {
	return &quadratic{}
}

func (q *quadratic) TypeString() string {
	return "quadratic"
}

func (q *quadratic) Cost(outs, targets []float64) (float64, error) {
	if len(outs) != len(targets) {
		return 0, errors.Errorf("can't get cost of %q, len(outs) != len(targets) (%d != %d)", q.TypeString(), len(outs), len(targets))
	}

	d := floats.Distance(outs, targets, 2)
	return d * d / 2, nil
}

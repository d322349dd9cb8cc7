package costfuncs

import (
	"math"

	"github.com/pkg/errors"
)

type crossEntropy struct{}

// CrossEntropy returns the binary cross-entropy cost function,
// -Σ[e·ln(a) + (1-e)·ln(1-a)], which implements CostFunction. Outputs are
// expected to lie in (0, 1); values at the boundary produce infinities.
func CrossEntropy() *crossEntropy {
	return &crossEntropy{}
}

func (c *crossEntropy) TypeString() string {
	return "cross-entropy"
}

func (c *crossEntropy) Cost(outs, targets []float64) (float64, error) {
	if len(outs) != len(targets) {
		return 0, errors.Errorf("can't get cost of %q, len(outs) != len(targets) (%d != %d)", c.TypeString(), len(outs), len(targets))
	}

	var sum float64
	for i := range outs {
		sum -= targets[i]*math.Log(outs[i]) + (1-targets[i])*math.Log(1-outs[i])
	}

	return sum, nil
}

package apf

import "math"

// Names of the built-in activation functions.
const (
	LogisticName = "log"
	StepName     = "stp"
)

// Logistic is the standard logistic curve, computed as 0.5 + 0.5*tanh(0.5x)
// so that large negative inputs cannot overflow an intermediate exp.
func Logistic(x float64) float64 {
	return 0.5 + 0.5*math.Tanh(0.5*x)
}

// Step is the binary step function: 1 for x >= 0, otherwise 0.
func Step(x float64) float64 {
	if x >= 0 {
		return 1
	}

	return 0
}

func init() {
	list := map[string]Func{
		LogisticName: Logistic,
		StepName:     Step,
	}

	for name, f := range list {
		if err := Register(name, f); err != nil {
			panic(err.Error())
		}
	}
}

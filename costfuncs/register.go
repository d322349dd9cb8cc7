// Package costfuncs provides standalone vector cost functions for scoring
// network outputs against targets.
package costfuncs

import (
	"sync"

	"github.com/pkg/errors"
)

// CostFunction scores a vector of actual output values against a vector of
// targets.
type CostFunction interface {
	// TypeString returns the name the CostFunction is registered under.
	TypeString() string

	// Cost returns the total cost of outs against targets. It fails if the
	// two vectors differ in length.
	Cost(outs, targets []float64) (float64, error)
}

var (
	mu       sync.RWMutex
	registry = make(map[string]func() CostFunction)
)

// Register makes a CostFunction constructor available by name.
func Register(name string, f func() CostFunction) error {
	if f == nil {
		return errors.Errorf("can't register cost function %q, constructor is nil", name)
	}

	mu.Lock()
	defer mu.Unlock()

	if _, ok := registry[name]; ok {
		return errors.Errorf("can't register cost function, name %q is already taken", name)
	}

	registry[name] = f
	return nil
}

// Get returns a new CostFunction registered under name, or nil if there is
// none.
func Get(name string) CostFunction {
	mu.RLock()
	f := registry[name]
	mu.RUnlock()

	if f == nil {
		return nil
	}

	return f()
}

func init() {
	list := map[string]func() CostFunction{
		Quadratic().TypeString():    func() CostFunction { return Quadratic() },
		CrossEntropy().TypeString(): func() CostFunction { return CrossEntropy() },
	}

	for name, f := range list {
		if err := Register(name, f); err != nil {
			panic(err.Error())
		}
	}
}

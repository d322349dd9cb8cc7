// Package apf provides the registry of named activation (potential)
// functions that nodes resolve their transfer functions from.
package apf

import (
	"reflect"
	"sync"

	"github.com/pkg/errors"
)

// Func is a unary numeric transfer function, applied to a node's weighted
// input to produce its potential.
type Func func(float64) float64

// NameLen is the exact byte length of a registered name, fixed by the
// binary persistence format.
const NameLen = 3

// ErrUnknownName is the cause of errors returned by Resolve for names with
// no registered Func.
var ErrUnknownName = errors.New("unknown activation function name")

var (
	mu       sync.RWMutex
	registry = make(map[string]Func)
)

// Register adds f to the registry under name. The name must be exactly
// NameLen bytes and not already taken, and f must not be nil.
func Register(name string, f Func) error {
	if len(name) != NameLen {
		return errors.Errorf("can't register activation, name %q must be exactly %d bytes", name, NameLen)
	} else if f == nil {
		return errors.Errorf("can't register activation %q, function is nil", name)
	}

	mu.Lock()
	defer mu.Unlock()

	if _, ok := registry[name]; ok {
		return errors.Errorf("can't register activation, name %q is already taken", name)
	}

	registry[name] = f
	return nil
}

// Resolve returns the Func registered under name, failing with
// ErrUnknownName (wrapped) if there is none.
func Resolve(name string) (Func, error) {
	mu.RLock()
	f := registry[name]
	mu.RUnlock()

	if f == nil {
		return nil, errors.Wrapf(ErrUnknownName, "resolving %q", name)
	}

	return f, nil
}

// NameOf returns the name f was registered under, if any. Go functions are
// not comparable, so the lookup matches on the underlying code pointer;
// distinct closures over the same code will not match each other.
func NameOf(f Func) (string, bool) {
	if f == nil {
		return "", false
	}

	ptr := reflect.ValueOf(f).Pointer()

	mu.RLock()
	defer mu.RUnlock()

	for name, g := range registry {
		if reflect.ValueOf(g).Pointer() == ptr {
			return name, true
		}
	}

	return "", false
}

package net

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"
)

// edge is one weighted connection to a parent node. Parents are unique
// within a Neuron; re-connecting an existing parent accumulates weight
// instead of duplicating the entry.
type edge struct {
	node   Noder
	weight float64
}

// Neuron is a Node that computes its potential as the activation of a bias
// plus the weighted sum of its parents' current potentials. Neurons are the
// only nodes that participate in backpropagation.
type Neuron struct {
	Node

	bias    float64
	parents []edge

	// grad accumulates gradient contributions across a batch: grad[0] is
	// dC/dbias, grad[1+i] is dC/dweight for parents[i]. Non-nil only during
	// a training run. mu serializes accumulation, since multiple children
	// sharing this neuron as a parent backpropagate into grad concurrently.
	grad []float64
	mu   sync.Mutex
}

// NewNeuron returns a Neuron with zero bias, no parents, and no activation
// function.
func NewNeuron() *Neuron {
	return new(Neuron)
}

func (nr *Neuron) String() string {
	if nr == nil {
		return "<nil>"
	}

	return fmt.Sprintf("<Neuron, %d parents>", len(nr.parents))
}

// Bias returns the neuron's bias parameter.
func (nr *Neuron) Bias() float64 {
	return nr.bias
}

// SetBias sets the neuron's bias parameter.
func (nr *Neuron) SetBias(b float64) {
	nr.bias = b
}

// Parents returns a copy of the parent nodes, in connection order.
func (nr *Neuron) Parents() []Noder {
	ps := make([]Noder, len(nr.parents))
	for i := range nr.parents {
		ps[i] = nr.parents[i].node
	}

	return ps
}

// parentIndex returns the index of p in nr.parents, or len(nr.parents) if p
// is not connected.
func (nr *Neuron) parentIndex(p Noder) int {
	for i := range nr.parents {
		if nr.parents[i].node == p {
			return i
		}
	}

	return len(nr.parents)
}

// Weight returns the weight of the connection to p, or 0 if p is not
// connected. Absence is defined, not an error.
func (nr *Neuron) Weight(p Noder) float64 {
	if i := nr.parentIndex(p); i < len(nr.parents) {
		return nr.parents[i].weight
	}

	return 0
}

// AddWeight adds delta to the weight of the connection to p, creating the
// connection (with weight delta) if there is none.
func (nr *Neuron) AddWeight(p Noder, delta float64) error {
	if p == nil {
		return errors.Wrapf(ErrNilNode, "can't connect parent of %v", nr)
	}

	if i := nr.parentIndex(p); i < len(nr.parents) {
		nr.parents[i].weight += delta
		return nil
	}

	nr.parents = append(nr.parents, edge{p, delta})
	return nil
}

// Disconnect removes the connection to p. Disconnecting a node that is not
// a parent does nothing.
func (nr *Neuron) Disconnect(p Noder) {
	if i := nr.parentIndex(p); i < len(nr.parents) {
		nr.parents = append(nr.parents[:i], nr.parents[i+1:]...)
	}
}

// ConnectMany adds every {parent: weight} pair of conns, accumulating onto
// existing connections like AddWeight. If any parent is nil, the entries
// already applied by this call are rolled back before the error is
// returned -- a single call is all-or-nothing.
func (nr *Neuron) ConnectMany(conns map[Noder]float64) error {
	type applied struct {
		node    Noder
		delta   float64
		created bool
	}

	var undo []applied
	for p, w := range conns {
		if p == nil {
			for _, u := range undo {
				if u.created {
					nr.Disconnect(u.node)
				} else {
					nr.parents[nr.parentIndex(u.node)].weight -= u.delta
				}
			}

			return errors.Wrapf(ErrNilNode, "can't bulk-connect parents of %v", nr)
		}

		created := nr.parentIndex(p) == len(nr.parents)
		nr.AddWeight(p, w)
		undo = append(undo, applied{p, w, created})
	}

	return nil
}

// Update computes the next potential from the parents' current ones:
// activation(bias + Σ weight_i * parent_i.Pot(parity)).
func (nr *Neuron) Update(parity int) {
	sum := nr.bias
	for i := range nr.parents {
		sum += nr.parents[i].weight * nr.parents[i].node.Pot(parity)
	}

	nr.pot[1-parity] = nr.act(sum)
}

// Depth returns 1 plus the maximum depth of the Neuron's parents, or 0 with
// no parents. visited is the ancestor set of the current search path: the
// Neuron adds itself on entry and removes itself on exit, so finding itself
// already present means its ancestry is cyclic, reported as
// ErrNotFeedForward.
func (nr *Neuron) Depth(visited map[Noder]struct{}) (int, error) {
	if visited == nil {
		visited = make(map[Noder]struct{})
	}

	if _, ok := visited[nr]; ok {
		return 0, errors.Wrapf(ErrNotFeedForward, "%v is its own ancestor", nr)
	}

	visited[nr] = struct{}{}
	defer delete(visited, nr)

	if len(nr.parents) == 0 {
		return 0, nil
	}

	max := 0
	for i := range nr.parents {
		d, err := nr.parents[i].node.Depth(visited)
		if err != nil {
			return 0, err
		}

		if d > max {
			max = d
		}
	}

	return 1 + max, nil
}

// allocGrad readies the gradient buffer for a training run. Slot 0 belongs
// to the bias, slot 1+i to parents[i].
func (nr *Neuron) allocGrad() {
	nr.grad = make([]float64, 1+len(nr.parents))
}

// freeGrad releases the buffer at the end of a run.
func (nr *Neuron) freeGrad() {
	nr.grad = nil
}

// backprop folds an error signal into the gradient buffer and relays it to
// Neuron parents. front is the derivative of the cost with respect to this
// neuron's emitted potential; parity selects the current potential slot.
//
// The local derivative is hardcoded to the logistic curve's, p*(1-p): the
// accumulated gradient is only correct when the activation actually is the
// logistic function. See (*Network).Train.
//
// Accumulation takes the neuron's mutex because concurrent backprop calls
// from different children may target the same parent; the recursive descent
// happens outside the lock. A neuron with no allocated buffer accumulates
// nothing but still relays the signal.
func (nr *Neuron) backprop(front float64, parity int) {
	p := nr.pot[parity]
	front *= p * (1 - p)

	nr.mu.Lock()
	if nr.grad != nil {
		nr.grad[0] += front
		for i := range nr.parents {
			nr.grad[1+i] += nr.parents[i].node.Pot(parity) * front
		}
	}
	nr.mu.Unlock()

	for i := range nr.parents {
		if child, ok := nr.parents[i].node.(*Neuron); ok {
			child.backprop(front*nr.parents[i].weight, parity)
		}
	}
}

// applyGradient performs one step of L2-regularized gradient descent and
// resets the accumulators. rate should already be divided by the batch
// size, making the step an average over the batch.
func (nr *Neuron) applyGradient(rate, lambda float64) {
	if nr.grad == nil {
		return
	}

	nr.bias -= rate * nr.grad[0]
	nr.grad[0] = 0

	for i := range nr.parents {
		nr.parents[i].weight -= rate * (nr.grad[1+i] + lambda*nr.parents[i].weight)
		nr.grad[1+i] = 0
	}
}

package net

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/wm-noble/net/apf"
)

// Noder is the capability shared by every member of a Network: advancing by
// one synchronous step, exposing the double-buffered potential, and
// reporting topological depth.
//
// Identity matters. Neurons and Networks compare Noders by interface
// equality, so a node must always be referenced through the same pointer.
type Noder interface {
	// Update reads the potential at the given parity and writes the next
	// potential into the opposite slot. Within one tick, every node reads
	// only current-parity slots and writes only its own opposite slot, so
	// Update is safe to run concurrently across distinct nodes.
	Update(parity int)

	// Pot returns the potential stored in the slot at the given parity.
	Pot(parity int) float64

	// Depth returns the number of Neuron hops from this node back to a
	// graph leaf. visited is the set of ancestors on the current search
	// path; pass nil to start a fresh query. Depth fails with
	// ErrNotFeedForward if the node's ancestry contains a cycle.
	Depth(visited map[Noder]struct{}) (int, error)
}

// Node is the base computational unit: a double-buffered scalar potential
// plus an optional activation function. A plain Node is a graph leaf; its
// update applies the activation to its own current potential.
type Node struct {
	// pot holds the two potential slots, indexed by tick parity.
	pot [2]float64

	// fn is the active activation function, nil for identity. fnName is the
	// registry name fn was resolved from, empty for custom functions.
	fn     apf.Func
	fnName string
}

// NewNode returns a Node with zero potential and no activation function.
func NewNode() *Node {
	return new(Node)
}

func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	} else if n.fnName != "" {
		return fmt.Sprintf("<Node %q>", n.fnName)
	}

	return "<Node>"
}

// SetActivation resolves name in the apf registry and installs the result,
// replacing any custom function. It fails (wrapping apf.ErrUnknownName) if
// the name is not registered, leaving the node unchanged.
func (n *Node) SetActivation(name string) error {
	f, err := apf.Resolve(name)
	if err != nil {
		return errors.Wrapf(err, "can't set activation of %v", n)
	}

	n.fn, n.fnName = f, name
	return nil
}

// SetActivationFunc installs an arbitrary unary function as the node's
// activation, clearing any registry name. A nil f clears the activation
// entirely.
func (n *Node) SetActivationFunc(f apf.Func) {
	n.fn, n.fnName = f, ""
}

// ClearActivation removes the activation function; the node's update
// becomes the identity on its potential.
func (n *Node) ClearActivation() {
	n.fn, n.fnName = nil, ""
}

// ActivationName returns the registry name of the node's activation
// function, or "" if the function is custom or absent.
func (n *Node) ActivationName() string {
	return n.fnName
}

// persistName is the 3-byte name written by the binary encoder. A custom
// function that happens to be a registered one is recovered through the
// registry's reverse lookup.
func (n *Node) persistName() string {
	if n.fnName != "" || n.fn == nil {
		return n.fnName
	}

	name, _ := apf.NameOf(n.fn)
	return name
}

// act applies the node's activation function, defaulting to identity.
func (n *Node) act(x float64) float64 {
	if n.fn == nil {
		return x
	}

	return n.fn(x)
}

// Pot returns the potential stored in the slot at the given parity.
func (n *Node) Pot(parity int) float64 {
	return n.pot[parity]
}

// SetPot stores v in the slot at the given parity. It is mainly useful for
// seeding leaf nodes before ticking.
func (n *Node) SetPot(parity int, v float64) {
	n.pot[parity] = v
}

// Update applies the activation function to the current potential, writing
// the result into the opposite slot.
func (n *Node) Update(parity int) {
	n.pot[1-parity] = n.act(n.pot[parity])
}

// Depth of a plain Node is always 0: it is a graph leaf.
func (n *Node) Depth(visited map[Noder]struct{}) (int, error) {
	return 0, nil
}

// Input is a Node that reads successive potentials from a finite data
// sequence instead of computing them.
type Input struct {
	Node

	data   []float64
	cursor int
	loop   bool
}

// NewInput returns an Input that emits the activation of each element of
// seq in order, one element per tick. Once the sequence is exhausted the
// Input wraps around to the start if loop is true; otherwise it drops its
// reference to seq and emits the activation of 0 from then on. The
// transition is permanent short of a SetData call. An empty seq is
// equivalent to none at all.
func NewInput(seq []float64, loop bool) *Input {
	in := &Input{loop: loop}
	in.SetData(seq)
	return in
}

func (in *Input) String() string {
	if in == nil {
		return "<nil>"
	}

	return fmt.Sprintf("<Input, %d remaining>", len(in.data)-in.cursor)
}

// SetData replaces the Input's sequence and resets the read cursor.
// Reassigning data is the only way back from the exhausted state.
func (in *Input) SetData(seq []float64) {
	if len(seq) == 0 {
		seq = nil
	}

	in.data = seq
	in.cursor = 0
}

// Loop returns whether the Input wraps around at the end of its sequence.
func (in *Input) Loop() bool {
	return in.loop
}

// Update emits the activation of the next element of the sequence, or of 0
// once the sequence has run out.
func (in *Input) Update(parity int) {
	if in.data == nil {
		in.pot[1-parity] = in.act(0)
		return
	}

	in.pot[1-parity] = in.act(in.data[in.cursor])
	in.cursor++

	if in.cursor == len(in.data) {
		in.cursor = 0
		if !in.loop {
			in.data = nil
		}
	}
}

// InputsFromMatrix fans a 2-D data matrix into one Input per column, each
// consuming that column's rows in row order. This is the usual way to feed
// a multivariate time series into a network, one Input per feature. It
// fails if the matrix is empty or its rows differ in length.
func InputsFromMatrix(matrix [][]float64, loop bool) ([]*Input, error) {
	if len(matrix) == 0 {
		return nil, errors.Errorf("can't make Inputs from an empty matrix")
	}

	cols := len(matrix[0])
	for r := range matrix {
		if len(matrix[r]) != cols {
			return nil, errors.Errorf("can't make Inputs, matrix is ragged (row 0 has %d columns, row %d has %d)", cols, r, len(matrix[r]))
		}
	}

	ins := make([]*Input, cols)
	for c := range ins {
		col := make([]float64, len(matrix))
		for r := range matrix {
			col[r] = matrix[r][c]
		}

		ins[c] = NewInput(col, loop)
	}

	return ins, nil
}

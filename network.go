package net

import (
	"github.com/pkg/errors"

	"github.com/wm-noble/net/utils"
)

// Network owns an ordered collection of nodes and drives their synchronous
// evaluation. A designated subset of the members are its outputs: what Run
// captures and what training scores against.
//
// Membership is not validated for referential closure -- a Neuron may have
// parents outside the Network. Such parents are never ticked or trained,
// and the binary encoder records them with an out-of-range index.
type Network struct {
	nodes   []Noder
	outputs []Noder

	// parity selects which potential slot is current; Tick flips it.
	parity int
}

// New builds a Network from an already-wired node list. The slice is
// copied; node order is preserved and determines serialization indices.
func New(nodes ...Noder) *Network {
	net := new(Network)
	net.nodes = make([]Noder, len(nodes))
	copy(net.nodes, nodes)
	return net
}

// Nodes returns a copy of the ordered member list.
func (net *Network) Nodes() []Noder {
	ns := make([]Noder, len(net.nodes))
	copy(ns, net.nodes)
	return ns
}

// OutputNodes returns a copy of the declared output nodes, in order.
func (net *Network) OutputNodes() []Noder {
	outs := make([]Noder, len(net.outputs))
	copy(outs, net.outputs)
	return outs
}

// Parity returns the current clock parity: the index of the potential slot
// that holds every node's most recently written value.
func (net *Network) Parity() int {
	return net.parity
}

// SetOutputs designates the Network's output nodes. Every output must be
// non-nil and no node may appear twice. If SetOutputs returns an error, the
// previous outputs are kept.
func (net *Network) SetOutputs(outs ...Noder) error {
	if len(outs) == 0 {
		return errors.Wrap(ErrNoOutputs, "can't set outputs, none given")
	}

	for i, out := range outs {
		if out == nil {
			return errors.Wrapf(ErrNilNode, "can't set outputs, output #%d", i)
		}

		for o := i + 1; o < len(outs); o++ {
			if out == outs[o] {
				return errors.Errorf("can't set outputs, output #%d (%v) is also #%d", i, out, o)
			}
		}
	}

	net.outputs = make([]Noder, len(outs))
	copy(net.outputs, outs)
	return nil
}

// Tick advances every member node by one synchronous step and flips the
// clock parity. Updates run in parallel: within one tick each node reads
// only current-parity slots and writes only its own opposite slot, so the
// double buffering is the sole synchronization needed.
func (net *Network) Tick() {
	p := net.parity
	utils.MultiThread(0, len(net.nodes), func(i int) {
		net.nodes[i].Update(p)
	})

	net.parity = 1 - p
}

// Outputs returns the current potentials of the output nodes, in order.
func (net *Network) Outputs() []float64 {
	outs := make([]float64, len(net.outputs))
	for i, out := range net.outputs {
		outs[i] = out.Pot(net.parity)
	}

	return outs
}

// Run performs ticks consecutive ticks, capturing the freshly written
// output potentials after each one. Row t of the result holds the outputs
// of tick t.
func (net *Network) Run(ticks int) [][]float64 {
	rows := make([][]float64, ticks)
	for t := range rows {
		net.Tick()
		rows[t] = net.Outputs()
	}

	return rows
}

// Depth returns the maximum depth over the declared outputs: the number of
// ticks a change at the graph's leaves needs to reach every output. It
// fails with ErrNoOutputs if no outputs are set and with ErrNotFeedForward
// if any output's ancestry contains a cycle.
func (net *Network) Depth() (int, error) {
	if len(net.outputs) == 0 {
		return 0, errors.Wrap(ErrNoOutputs, "can't compute depth")
	}

	visited := make(map[Noder]struct{})

	max := 0
	for _, out := range net.outputs {
		d, err := out.Depth(visited)
		if err != nil {
			return 0, errors.Wrapf(err, "depth of output %v failed", out)
		}

		if d > max {
			max = d
		}
	}

	return max, nil
}

// nodeIndex returns the position of n in the member list, or len(nodes) if
// n is not a member.
func (net *Network) nodeIndex(n Noder) int {
	for i := range net.nodes {
		if net.nodes[i] == n {
			return i
		}
	}

	return len(net.nodes)
}

// eachNeuron calls f for every member that is a Neuron, in order.
func (net *Network) eachNeuron(f func(*Neuron)) {
	for _, n := range net.nodes {
		if nr, ok := n.(*Neuron); ok {
			f(nr)
		}
	}
}

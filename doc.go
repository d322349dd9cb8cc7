// Package net implements a small synchronous neural-network execution and
// training engine.
//
// A Network owns an ordered set of nodes -- plain Nodes, sequence-fed
// Inputs, and weighted Neurons -- and evaluates them in discrete ticks.
// Every node's potential is double-buffered: within one tick, each node
// reads only the current-parity slot of itself or its parents and writes
// only its own opposite slot, so a tick can update every node in parallel
// without locks. A node's potential therefore reflects inputs from as many
// ticks ago as its depth in the graph.
//
// Training is gradient descent by backpropagation through the parent
// structure of the declared output Neurons, with gradients accumulated
// across a batch and applied as a single averaged, L2-regularized step.
// Backpropagation hardcodes the logistic derivative p*(1-p): training is
// only mathematically valid for logistic-activated Neurons. See
// (*Network).Train.
//
// Networks can be written to and read from a compact big-endian binary
// format; see (*Network).Encode. The Layered constructor builds standard
// fully-connected feed-forward networks from a data matrix and a list of
// layer widths.
package net

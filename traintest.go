package net

import (
	"github.com/pkg/errors"

	"github.com/wm-noble/net/utils"
)

// Result reports the diagnostic cost of one completed batch.
type Result struct {
	// Batch is the index of the batch within the run, starting at 0.
	Batch int

	// Cost is the quadratic diagnostic for the batch:
	// Σ error² / (2 * batch size).
	Cost float64
}

// TrainArgs bundles the arguments to Train.
type TrainArgs struct {
	// Expected is the flat sequence of expected output values, consumed one
	// value per output node per tick. The number of batches is
	//	len(Expected) / (outputs * BatchSize)
	// with integer division: a partial trailing batch is silently ignored.
	Expected []float64

	// BatchSize is the number of ticks scored between parameter updates.
	BatchSize int

	// LearningRate is the gradient descent step size. It is divided by
	// BatchSize internally, so each update is an average-gradient step.
	LearningRate float64

	// Lambda is the L2 regularization coefficient.
	Lambda float64

	// Warmup is the number of unscored ticks run before training begins, to
	// let signal propagate through the full depth of the graph. Zero (the
	// default) computes it automatically as the Network's Depth; a negative
	// value skips warmup entirely.
	Warmup int

	// Update, if non-nil, is called with the cost of each completed batch.
	Update func(Result)
}

// Train runs batched gradient descent over the Network's member Neurons.
// Each scored tick pushes the error (actual - expected) into the output
// Neurons, which backpropagate gradient contributions through their parent
// structure; after every BatchSize ticks one averaged, L2-regularized
// parameter update is applied across all members. Gradient buffers are
// allocated on every member Neuron for the duration of the run and freed
// afterwards.
//
// Backpropagation hardcodes the logistic derivative p*(1-p) regardless of
// the configured activation, so training is only mathematically valid when
// every trained Neuron uses the logistic function.
//
// Train requires declared outputs; outputs that are not Neurons are scored
// for cost but receive no gradient.
func (net *Network) Train(args TrainArgs) error {
	if len(net.outputs) == 0 {
		return errors.Wrap(ErrNoOutputs, "can't train")
	} else if args.BatchSize < 1 {
		return errors.Errorf("can't train, batch size must be >= 1 (%d)", args.BatchSize)
	}

	if args.Update == nil {
		args.Update = func(Result) {}
	}

	warmup := args.Warmup
	if warmup == 0 {
		var err error
		if warmup, err = net.Depth(); err != nil {
			return errors.Wrapf(err, "can't train, failed to compute warmup depth")
		}
	}

	for t := 0; t < warmup; t++ {
		net.Tick()
	}

	net.eachNeuron((*Neuron).allocGrad)
	defer net.eachNeuron((*Neuron).freeGrad)

	rate := args.LearningRate / float64(args.BatchSize)
	batches := len(args.Expected) / (len(net.outputs) * args.BatchSize)
	fronts := make([]float64, len(net.outputs))

	cursor := 0
	for b := 0; b < batches; b++ {
		var cost float64

		for s := 0; s < args.BatchSize; s++ {
			net.Tick()
			p := net.parity

			for i, out := range net.outputs {
				fronts[i] = out.Pot(p) - args.Expected[cursor]
				cursor++

				cost += fronts[i] * fronts[i]
			}

			// Fan out across output neurons only; descent into shared
			// parents is made safe by each neuron's accumulation mutex.
			utils.MultiThread(0, len(net.outputs), func(i int) {
				if nr, ok := net.outputs[i].(*Neuron); ok {
					nr.backprop(fronts[i], p)
				}
			})
		}

		net.updateParams(rate, args.Lambda)

		args.Update(Result{Batch: b, Cost: cost / float64(2*args.BatchSize)})
	}

	return nil
}

// updateParams applies one gradient-descent step across every member
// Neuron. Each neuron's parameters and accumulators are exclusively its
// own, so the sweep is parallel without locks.
func (net *Network) updateParams(rate, lambda float64) {
	utils.MultiThread(0, len(net.nodes), func(i int) {
		if nr, ok := net.nodes[i].(*Neuron); ok {
			nr.applyGradient(rate, lambda)
		}
	})
}

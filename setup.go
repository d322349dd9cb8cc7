package net

import (
	"math"

	"github.com/pkg/errors"

	"github.com/wm-noble/net/apf"
	"github.com/wm-noble/net/initializers"
)

// Layered builds a fully-connected feed-forward Network from a data matrix
// and a sequence of layer widths. One Input is created per matrix column;
// each layer consists of logistic-activated Neurons connected to the whole
// previous layer, with biases drawn from N(0, 1) and weights from a
// Gaussian scaled by 1/sqrt(fan-in). The final layer becomes the Network's
// outputs.
func Layered(data [][]float64, widths []int, loop bool) (*Network, error) {
	inputs, err := InputsFromMatrix(data, loop)
	if err != nil {
		return nil, errors.Wrap(err, "can't build layered network")
	}

	nodes := make([]Noder, 0, len(inputs))
	prev := make([]Noder, len(inputs))
	for i, in := range inputs {
		prev[i] = in
		nodes = append(nodes, in)
	}

	biasGen := initializers.Normal()

	for l, width := range widths {
		if width < 1 {
			return nil, errors.Errorf("can't build layered network, layer %d has width %d", l, width)
		}

		weightGen := initializers.Normal().SD(1 / math.Sqrt(float64(len(prev))))

		layer := make([]Noder, width)
		for i := range layer {
			nr := NewNeuron()
			if err := nr.SetActivation(apf.LogisticName); err != nil {
				return nil, errors.Wrap(err, "can't build layered network")
			}

			nr.SetBias(biasGen.Gen())
			for _, p := range prev {
				if err := nr.AddWeight(p, weightGen.Gen()); err != nil {
					return nil, errors.Wrap(err, "can't build layered network")
				}
			}

			layer[i] = nr
			nodes = append(nodes, nr)
		}

		prev = layer
	}

	net := New(nodes...)
	if len(widths) > 0 {
		if err := net.SetOutputs(prev...); err != nil {
			return nil, errors.Wrap(err, "can't build layered network")
		}
	}

	return net, nil
}

package net

import (
	"math"
	"testing"

	"github.com/pkg/errors"
)

// repeat returns n copies of v, for building expected-output sequences.
func repeat(v float64, n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = v
	}
	return s
}

func TestTrainSingleNeuronConverges(t *testing.T) {
	nr := NewNeuron()
	nr.SetBias(0.5)

	network := New(nr)
	if err := network.SetOutputs(nr); err != nil {
		t.Fatal(err)
	}

	var costs []float64
	err := network.Train(TrainArgs{
		Expected:     repeat(1, 400),
		BatchSize:    4,
		LearningRate: 1,
		Update:       func(r Result) { costs = append(costs, r.Cost) },
	})
	if err != nil {
		t.Fatalf("Train failed: %v", err)
	}

	if len(costs) != 100 {
		t.Fatalf("got %d batch reports, want 100", len(costs))
	}

	for i := 1; i < len(costs); i++ {
		if costs[i] >= costs[i-1] {
			t.Fatalf("batch cost did not strictly decrease: cost[%d]=%v, cost[%d]=%v", i-1, costs[i-1], i, costs[i])
		}
	}

	if b := nr.Bias(); b <= 0.8 || b >= 1 {
		t.Errorf("bias = %v, want converging toward 1 from 0.5", b)
	}
}

func TestTrainTwoLayerLogistic(t *testing.T) {
	// a looped constant input through two logistic neurons; the run must
	// reduce the quadratic cost
	in := NewInput([]float64{1}, true)

	hidden := NewNeuron()
	hidden.SetActivation("log")
	hidden.AddWeight(in, 0.5)

	out := NewNeuron()
	out.SetActivation("log")
	out.AddWeight(hidden, 0.5)

	network := New(in, hidden, out)
	if err := network.SetOutputs(out); err != nil {
		t.Fatal(err)
	}

	var costs []float64
	err := network.Train(TrainArgs{
		Expected:     repeat(0.9, 600),
		BatchSize:    3,
		LearningRate: 2,
		Update:       func(r Result) { costs = append(costs, r.Cost) },
	})
	if err != nil {
		t.Fatalf("Train failed: %v", err)
	}

	first, last := costs[0], costs[len(costs)-1]
	if last >= first {
		t.Errorf("cost did not improve: first %v, last %v", first, last)
	}

	if nr := out; nr.grad != nil {
		t.Error("gradient buffer was not freed after the run")
	}
	if hidden.grad != nil {
		t.Error("hidden gradient buffer was not freed after the run")
	}
}

func TestTrainBatchCountTruncates(t *testing.T) {
	a, b := NewNeuron(), NewNeuron()
	network := New(a, b)
	if err := network.SetOutputs(a, b); err != nil {
		t.Fatal(err)
	}

	// 2 outputs, batch size 3: one batch needs 6 values. 17 values make
	// exactly 2 batches; the 5 leftover values are silently dropped.
	batches := 0
	err := network.Train(TrainArgs{
		Expected:     repeat(0.5, 17),
		BatchSize:    3,
		LearningRate: 0.1,
		Update:       func(Result) { batches++ },
	})
	if err != nil {
		t.Fatal(err)
	}

	if batches != 2 {
		t.Errorf("ran %d batches, want 2", batches)
	}
}

func TestTrainBatchCost(t *testing.T) {
	// an untrainable plain Node output makes the cost exactly predictable
	n := NewNode()
	n.SetPot(0, 2)
	n.SetPot(1, 2)

	network := New(n)
	if err := network.SetOutputs(n); err != nil {
		t.Fatal(err)
	}

	var got float64
	err := network.Train(TrainArgs{
		Expected:     repeat(0, 2),
		BatchSize:    2,
		LearningRate: 0.1,
		Update:       func(r Result) { got = r.Cost },
	})
	if err != nil {
		t.Fatal(err)
	}

	// two samples of error 2: (4 + 4) / (2*2) = 2
	if math.Abs(got-2) > 1e-12 {
		t.Errorf("batch cost = %v, want 2", got)
	}
}

func TestTrainWarmupAuto(t *testing.T) {
	// input feeds [3, 7]; with an automatic warmup of depth 1, the first
	// scored tick sees the neuron's view of sample 0
	in := NewInput([]float64{3, 7}, true)
	nr := NewNeuron()
	nr.AddWeight(in, 1)

	network := New(in, nr)
	if err := network.SetOutputs(nr); err != nil {
		t.Fatal(err)
	}

	var firstCost float64
	first := true
	err := network.Train(TrainArgs{
		Expected:  []float64{3},
		BatchSize: 1,
		Update: func(r Result) {
			if first {
				firstCost, first = r.Cost, false
			}
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	// after 1 warmup tick the neuron emits 3, matching expectation exactly
	if firstCost != 0 {
		t.Errorf("first batch cost = %v, want 0 (signal aligned by warmup)", firstCost)
	}
}

func TestTrainErrors(t *testing.T) {
	nr := NewNeuron()

	noOut := New(nr)
	if err := noOut.Train(TrainArgs{Expected: repeat(0, 4), BatchSize: 1}); errors.Cause(err) != ErrNoOutputs {
		t.Errorf("Train without outputs: cause = %v, want ErrNoOutputs", errors.Cause(err))
	}

	network := New(nr)
	if err := network.SetOutputs(nr); err != nil {
		t.Fatal(err)
	}
	if err := network.Train(TrainArgs{Expected: repeat(0, 4), BatchSize: 0}); err == nil {
		t.Error("Train with batch size 0 did not fail")
	}

	cyc := NewNeuron()
	cyc.AddWeight(cyc, 1)
	loopNet := New(cyc)
	if err := loopNet.SetOutputs(cyc); err != nil {
		t.Fatal(err)
	}
	err := loopNet.Train(TrainArgs{Expected: repeat(0, 4), BatchSize: 1})
	if errors.Cause(err) != ErrNotFeedForward {
		t.Errorf("Train on a cyclic net: cause = %v, want ErrNotFeedForward", errors.Cause(err))
	}
}

func TestTrainSharedParentGradient(t *testing.T) {
	// two output neurons share one parent neuron: both backprop calls must
	// land in the shared buffer
	shared := NewNeuron()
	shared.SetPot(0, 0.5)
	shared.SetPot(1, 0.5)

	a, b := NewNeuron(), NewNeuron()
	a.AddWeight(shared, 1)
	b.AddWeight(shared, 1)
	a.SetPot(0, 0.5)
	b.SetPot(0, 0.5)

	shared.allocGrad()
	a.allocGrad()
	b.allocGrad()

	a.backprop(1, 0)
	b.backprop(1, 0)

	// each child relays 0.25 to shared, where the derivative factor of
	// 0.25 contributes 0.0625 per child
	if got := shared.grad[0]; math.Abs(got-0.125) > 1e-12 {
		t.Errorf("shared parent bias gradient = %v, want 0.125", got)
	}
}

package costfuncs

import (
	"math"
	"testing"
)

func TestQuadratic(t *testing.T) {
	cases := []struct {
		outs, targets []float64
		want          float64
	}{
		{[]float64{1, 2}, []float64{1, 2}, 0},
		{[]float64{0, 0}, []float64{3, 4}, 12.5},
		{[]float64{0.5}, []float64{1}, 0.125},
	}

	q := Quadratic()
	for _, c := range cases {
		got, err := q.Cost(c.outs, c.targets)
		if err != nil {
			t.Fatalf("Cost(%v, %v) failed: %v", c.outs, c.targets, err)
		}
		if math.Abs(got-c.want) > 1e-12 {
			t.Errorf("Cost(%v, %v) = %v, want %v", c.outs, c.targets, got, c.want)
		}
	}
}

func TestCrossEntropy(t *testing.T) {
	c := CrossEntropy()

	// perfect confidence on a binary target: -ln(0.9) - ln(0.8)
	got, err := c.Cost([]float64{0.9, 0.2}, []float64{1, 0})
	if err != nil {
		t.Fatalf("Cost failed: %v", err)
	}
	want := -math.Log(0.9) - math.Log(0.8)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("Cost = %v, want %v", got, want)
	}
}

func TestCostLengthMismatch(t *testing.T) {
	for _, cf := range []CostFunction{Quadratic(), CrossEntropy()} {
		if _, err := cf.Cost([]float64{1, 2}, []float64{1}); err == nil {
			t.Errorf("%q accepted mismatched vector lengths", cf.TypeString())
		}
	}
}

func TestGet(t *testing.T) {
	for _, name := range []string{"quadratic", "cross-entropy"} {
		cf := Get(name)
		if cf == nil {
			t.Fatalf("Get(%q) = nil", name)
		}
		if cf.TypeString() != name {
			t.Errorf("Get(%q).TypeString() = %q", name, cf.TypeString())
		}
	}

	if Get("no-such") != nil {
		t.Error("Get of an unregistered name did not return nil")
	}
}

func TestRegisterValidation(t *testing.T) {
	if err := Register("quadratic", func() CostFunction { return Quadratic() }); err == nil {
		t.Error("Register accepted a taken name")
	}
	if err := Register("empty", nil); err == nil {
		t.Error("Register accepted a nil constructor")
	}
}

// Package initializers provides the random number generation used to set
// initial parameters.
package initializers

import (
	"gonum.org/v1/gonum/stat/distuv"
)

// RNG needs no explanation.
type RNG interface {
	Gen() float64
}

type normal struct {
	dist distuv.Normal
}

// Normal returns an RNG drawing from a normal distribution centered on 0
// with standard deviation 1. The center and spread can be set by Mean and
// SD, respectively.
func Normal() *normal {
	return &normal{distuv.Normal{Mu: 0, Sigma: 1}}
}

// Mean sets the center of the distribution.
func (n *normal) Mean(mean float64) *normal {
	n.dist.Mu = mean
	return n
}

// SD sets the standard deviation of the distribution.
func (n *normal) SD(sd float64) *normal {
	n.dist.Sigma = sd
	return n
}

// Gen is the implementation of RNG for Normal. It returns a random number.
func (n *normal) Gen() float64 {
	return n.dist.Rand()
}

type uniform struct {
	dist distuv.Uniform
}

// Uniform returns an RNG that gives values uniformly spread over [0, 1),
// with bounds settable by Bounds.
func Uniform() *uniform {
	return &uniform{distuv.Uniform{Min: 0, Max: 1}}
}

// Bounds sets the range of the Uniform RNG, returning it.
func (u *uniform) Bounds(lower, upper float64) *uniform {
	u.dist.Min, u.dist.Max = lower, upper
	return u
}

// Gen is the implementation of RNG for Uniform. It returns a random number.
func (u *uniform) Gen() float64 {
	return u.dist.Rand()
}

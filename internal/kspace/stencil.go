package kspace

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// StencilWeights returns the one-sided weights w of the antisymmetric
// centered first-derivative stencil of the given (even) order on a grid
// of spacing dx:
//
//	nodal:     f'(x) ~ sum_j w[j-1] * (f(x+j*dx)   - f(x-j*dx))
//	staggered: f'(x) ~ sum_j w[j-1] * (f(x+(j-1/2)*dx) - f(x-(j-1/2)*dx))
//
// The weights solve the Vandermonde moment system that cancels every
// odd Taylor term past the first.
func StencilWeights(order int, staggered bool, dx float64) ([]float64, error) {
	if order < 2 || order%2 != 0 {
		return nil, fmt.Errorf("kspace: stencil order must be a positive even number, got %d", order)
	}
	m := order / 2

	// offsets of the positive-side sample points, in units of dx
	off := make([]float64, m)
	for j := 0; j < m; j++ {
		if staggered {
			off[j] = float64(j) + 0.5
		} else {
			off[j] = float64(j + 1)
		}
	}

	a := mat.NewDense(m, m, nil)
	b := mat.NewVecDense(m, nil)
	for p := 0; p < m; p++ {
		for j := 0; j < m; j++ {
			a.Set(p, j, math.Pow(off[j]*dx, float64(2*p+1)))
		}
	}
	b.SetVec(0, 0.5)

	var w mat.VecDense
	if err := w.SolveVec(a, b); err != nil {
		return nil, fmt.Errorf("kspace: stencil weight solve failed for order %d: %w", order, err)
	}

	out := make([]float64, m)
	for j := 0; j < m; j++ {
		out[j] = w.AtVec(j)
	}
	return out, nil
}

// ModifiedK maps a wavenumber to its finite-order equivalent: the
// effective k of the order-n centered difference acting on a plane
// wave. Order 0 means the exact spectral derivative (km = k).
func ModifiedK(k, dx float64, weights []float64, staggered bool) float64 {
	if weights == nil {
		return k
	}
	km := 0.0
	for j, w := range weights {
		if staggered {
			km += 2 * w * math.Sin(k*(float64(j)+0.5)*dx)
		} else {
			km += 2 * w * math.Sin(k*float64(j+1)*dx)
		}
	}
	return km
}

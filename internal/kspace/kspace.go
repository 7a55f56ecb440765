// Package kspace derives the discrete wavenumber coordinates of the
// spectral representation of distributed grid patches.
//
// Axis 0 carries a real-to-complex transform and stores only the
// non-negative half spectrum (n/2+1 bins); axes 1 and 2 are
// complex-to-complex and follow the standard discrete-transform
// frequency ordering (zero, positive ascending, negative descending).
package kspace

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-psatd/internal/grid"
)

// ErrBadGeometry is returned when cell sizes or patch extents cannot
// support a spectral representation.
var ErrBadGeometry = errors.New("kspace: invalid patch geometry")

// Patch holds the wavenumber tables of one grid patch.
type Patch struct {
	// Box is the real-space cell region the tables correspond to.
	Box grid.Box
	// NK is the spectral extent per axis: [nx/2+1, ny, nz].
	NK [3]int
	// K contains, per axis, the (possibly finite-order modified)
	// wavenumber of every spectral bin along that axis.
	K [3][]float64
	// Shift contains, per axis, the half-cell phase factor
	// exp(-i k dx/2) of every bin, used to refer samples taken at
	// half-integer offsets back to the nodal reference.
	Shift [3][]complex128
}

// Space holds the wavenumber tables of every patch of one level.
type Space struct {
	cellSize [3]float64
	order    int
	nodal    bool
	patches  []Patch
}

// New builds the wavenumber space of a layout. order selects the
// finite-order spectral derivative (0 for exact, km = k); nodal chooses
// between the nodal and staggered stencil variants for the modified k.
func New(l *grid.Layout, cellSize [3]float64, order int, nodal bool) (*Space, error) {
	for d := 0; d < 3; d++ {
		if !(cellSize[d] > 0) {
			return nil, fmt.Errorf("%w: cell size %g along axis %d", ErrBadGeometry, cellSize[d], d)
		}
	}

	s := &Space{
		cellSize: cellSize,
		order:    order,
		nodal:    nodal,
		patches:  make([]Patch, l.NumPatches()),
	}

	var weights [3][]float64
	if order != 0 {
		for d := 0; d < 3; d++ {
			w, err := StencilWeights(order, !nodal, cellSize[d])
			if err != nil {
				return nil, err
			}
			weights[d] = w
		}
	}

	for p := range s.patches {
		b := l.PatchBox(p)
		if b.Size(0)%2 != 0 {
			return nil, fmt.Errorf("%w: patch %d has odd extent %d along the transform axis", ErrBadGeometry, p, b.Size(0))
		}
		pt := Patch{Box: b}
		pt.NK = [3]int{b.Size(0)/2 + 1, b.Size(1), b.Size(2)}
		for d := 0; d < 3; d++ {
			kt := axisWavenumbers(d, b.Size(d), pt.NK[d], cellSize[d])
			pt.K[d] = make([]float64, pt.NK[d])
			pt.Shift[d] = make([]complex128, pt.NK[d])
			for i, k := range kt {
				pt.K[d][i] = ModifiedK(k, cellSize[d], weights[d], !nodal)
				pt.Shift[d][i] = cmplx.Exp(complex(0, -0.5*k*cellSize[d]))
			}
		}
		s.patches[p] = pt
	}
	return s, nil
}

// axisWavenumbers returns the true wavenumber of each spectral bin
// along one axis of a patch with n real cells and nk spectral bins.
func axisWavenumbers(axis, n, nk int, dx float64) []float64 {
	dk := 2 * math.Pi / (float64(n) * dx)
	k := make([]float64, nk)
	for i := 0; i < nk; i++ {
		if axis == 0 || i <= n/2 {
			k[i] = float64(i) * dk
		} else {
			k[i] = float64(i-n) * dk
		}
	}
	return k
}

// NumPatches returns the number of patches in the space.
func (s *Space) NumPatches() int { return len(s.patches) }

// Patch returns the wavenumber tables of patch p.
func (s *Space) Patch(p int) *Patch { return &s.patches[p] }

// CellSize returns the real-space cell size per axis.
func (s *Space) CellSize() [3]float64 { return s.cellSize }

// Order returns the configured spectral derivative order (0 = exact).
func (s *Space) Order() int { return s.order }

// Nodal reports whether the stencil variant is nodal.
func (s *Space) Nodal() bool { return s.nodal }

package algopsatd

import (
	"github.com/cwbudde/algo-psatd/internal/grid"
	"github.com/cwbudde/algo-psatd/internal/spectral"
)

// Box is a rectangular patch index region.
// The canonical definition is in internal/grid.
type Box = grid.Box

// Field is a distributed real-space field: one real array per patch
// plus staggering metadata. The canonical definition is in
// internal/grid.
type Field = grid.Field

// Layout describes a level's patch decomposition.
// The canonical definition is in internal/grid.
type Layout = grid.Layout

// Stagger and Staggering describe sub-cell sample placement.
// The canonical definitions are in internal/grid.
type (
	Stagger    = grid.Stagger
	Staggering = grid.Staggering
)

// Sample placement values.
const (
	Nodal    = grid.Nodal
	Centered = grid.Centered
)

// FieldName identifies a logical field slot in the spectral buffers.
// The canonical definition is in internal/spectral.
type FieldName = spectral.FieldName

// Field names accepted by the transform operations.
const (
	Ex     = spectral.Ex
	Ey     = spectral.Ey
	Ez     = spectral.Ez
	Bx     = spectral.Bx
	By     = spectral.By
	Bz     = spectral.Bz
	Jx     = spectral.Jx
	Jy     = spectral.Jy
	Jz     = spectral.Jz
	JxOld  = spectral.JxOld
	JyOld  = spectral.JyOld
	JzOld  = spectral.JzOld
	RhoOld = spectral.RhoOld
	RhoNew = spectral.RhoNew
	DivF   = spectral.F
	DivG   = spectral.G
	DivE   = spectral.DivE
	ExAvg  = spectral.ExAvg
	EyAvg  = spectral.EyAvg
	EzAvg  = spectral.EzAvg
	BxAvg  = spectral.BxAvg
	ByAvg  = spectral.ByAvg
	BzAvg  = spectral.BzAvg
)

// NewBox returns the box spanning [lo, hi) along each axis.
func NewBox(lo, hi [3]int) Box { return grid.NewBox(lo, hi) }

// NewLayout builds a patch decomposition of a domain box.
func NewLayout(domain Box, boxes []Box, owner []int) (*Layout, error) {
	return grid.NewLayout(domain, boxes, owner)
}

// NewField allocates a field on a layout.
func NewField(l *Layout, stag Staggering, ncomp, ngrow int) *Field {
	return grid.NewField(l, stag, ncomp, ngrow)
}

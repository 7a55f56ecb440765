package grid

// Stagger describes where along one axis a field component is sampled
// within a cell.
type Stagger uint8

const (
	// Nodal samples sit on the integer cell edges.
	Nodal Stagger = iota
	// Centered samples sit half a cell past the edge.
	Centered
)

// Staggering is the per-axis sample placement of a field component.
type Staggering [3]Stagger

// CellCentered is the staggering with half-cell offsets on all axes.
var CellCentered = Staggering{Centered, Centered, Centered}

// AllNodal is the staggering with samples on cell edges on all axes.
var AllNodal = Staggering{Nodal, Nodal, Nodal}

// Field holds one physical field on every patch of a layout: a real
// array per patch with optional ghost cells, a staggering, and one or
// more components. The solver reads and writes fields but never owns
// them; allocation and ghost-cell exchange belong to the surrounding
// framework.
type Field struct {
	layout *Layout
	stag   Staggering
	ncomp  int
	ngrow  int
	data   [][]float64
}

// NewField allocates a field on layout l with the given staggering,
// ncomp components and ngrow ghost cells on every side of each patch.
func NewField(l *Layout, stag Staggering, ncomp, ngrow int) *Field {
	f := &Field{
		layout: l,
		stag:   stag,
		ncomp:  ncomp,
		ngrow:  ngrow,
		data:   make([][]float64, l.NumPatches()),
	}
	for p := range f.data {
		f.data[p] = make([]float64, l.PatchBox(p).Grow(ngrow).NumPts()*ncomp)
	}
	return f
}

// Layout returns the layout the field lives on.
func (f *Field) Layout() *Layout { return f.layout }

// Staggering returns the field's sample placement.
func (f *Field) Staggering() Staggering { return f.stag }

// NumComp returns the number of components.
func (f *Field) NumComp() int { return f.ncomp }

// NumGrow returns the ghost-cell width.
func (f *Field) NumGrow() int { return f.ngrow }

// GrownBox returns the patch box of patch p including ghost cells.
func (f *Field) GrownBox(p int) Box {
	return f.layout.PatchBox(p).Grow(f.ngrow)
}

// Comp returns the storage of component c on patch p. The slice is laid
// out over GrownBox(p) with the x axis varying fastest.
func (f *Field) Comp(p, c int) []float64 {
	n := f.GrownBox(p).NumPts()
	return f.data[p][c*n : (c+1)*n]
}

// At returns the sample of component c at cell (i, j, k) of patch p.
func (f *Field) At(p, c, i, j, k int) float64 {
	return f.Comp(p, c)[f.GrownBox(p).Index(i, j, k)]
}

// Set writes the sample of component c at cell (i, j, k) of patch p.
func (f *Field) Set(p, c, i, j, k int, v float64) {
	f.Comp(p, c)[f.GrownBox(p).Index(i, j, k)] = v
}

// FillComp sets every sample of component c on every patch, ghost cells
// included, by evaluating fn at the global cell index.
func (f *Field) FillComp(c int, fn func(i, j, k int) float64) {
	for p := range f.data {
		b := f.GrownBox(p)
		dst := f.Comp(p, c)
		idx := 0
		for k := b.Lo[2]; k < b.Hi[2]; k++ {
			for j := b.Lo[1]; j < b.Hi[1]; j++ {
				for i := b.Lo[0]; i < b.Hi[0]; i++ {
					dst[idx] = fn(i, j, k)
					idx++
				}
			}
		}
	}
}

package grid

import "fmt"

// Box is a rectangular index region in up to three dimensions.
// Lo is inclusive, Hi is exclusive, so Hi[d]-Lo[d] is the number of
// cells along axis d.
type Box struct {
	Lo, Hi [3]int
}

// NewBox returns the box spanning [lo, hi) along each axis.
func NewBox(lo, hi [3]int) Box {
	return Box{Lo: lo, Hi: hi}
}

// Size returns the number of cells along axis d.
func (b Box) Size(d int) int {
	return b.Hi[d] - b.Lo[d]
}

// NumPts returns the total number of cells in the box.
func (b Box) NumPts() int {
	n := 1
	for d := 0; d < 3; d++ {
		n *= b.Size(d)
	}
	return n
}

// Empty reports whether the box contains no cells.
func (b Box) Empty() bool {
	for d := 0; d < 3; d++ {
		if b.Hi[d] <= b.Lo[d] {
			return true
		}
	}
	return false
}

// Contains reports whether the cell (i, j, k) lies inside the box.
func (b Box) Contains(i, j, k int) bool {
	return i >= b.Lo[0] && i < b.Hi[0] &&
		j >= b.Lo[1] && j < b.Hi[1] &&
		k >= b.Lo[2] && k < b.Hi[2]
}

// Intersects reports whether the two boxes share at least one cell.
func (b Box) Intersects(o Box) bool {
	for d := 0; d < 3; d++ {
		if b.Hi[d] <= o.Lo[d] || o.Hi[d] <= b.Lo[d] {
			return false
		}
	}
	return true
}

// ContainsBox reports whether o lies entirely inside b.
func (b Box) ContainsBox(o Box) bool {
	for d := 0; d < 3; d++ {
		if o.Lo[d] < b.Lo[d] || o.Hi[d] > b.Hi[d] {
			return false
		}
	}
	return true
}

// Grow returns the box expanded by n cells on every side.
func (b Box) Grow(n int) Box {
	g := b
	for d := 0; d < 3; d++ {
		g.Lo[d] -= n
		g.Hi[d] += n
	}
	return g
}

// Index returns the linear offset of cell (i, j, k) within the box,
// with the x axis varying fastest.
func (b Box) Index(i, j, k int) int {
	nx := b.Size(0)
	ny := b.Size(1)
	return ((k-b.Lo[2])*ny+(j-b.Lo[1]))*nx + (i - b.Lo[0])
}

func (b Box) String() string {
	return fmt.Sprintf("[%d,%d,%d)..(%d,%d,%d]", b.Lo[0], b.Lo[1], b.Lo[2], b.Hi[0], b.Hi[1], b.Hi[2])
}

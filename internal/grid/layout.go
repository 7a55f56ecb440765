package grid

import (
	"errors"
	"fmt"
)

// ErrBadDecomposition is returned when a set of patch boxes does not
// form a valid disjoint tiling of the declared domain.
var ErrBadDecomposition = errors.New("grid: patch boxes do not tile the domain")

// Layout describes how one refinement level of the simulation domain is
// decomposed into rectangular patches, and which processing unit owns
// each patch. It is immutable after construction.
type Layout struct {
	domain Box
	boxes  []Box
	owner  []int
}

// NewLayout builds a layout from a domain box and its patch
// decomposition. The patch boxes must be non-empty, pairwise disjoint,
// and cover the domain exactly. owner maps each patch to a processing
// unit; a nil owner assigns every patch to unit 0.
func NewLayout(domain Box, boxes []Box, owner []int) (*Layout, error) {
	if domain.Empty() {
		return nil, fmt.Errorf("%w: empty domain %v", ErrBadDecomposition, domain)
	}
	if len(boxes) == 0 {
		return nil, fmt.Errorf("%w: no patch boxes", ErrBadDecomposition)
	}
	if owner != nil && len(owner) != len(boxes) {
		return nil, fmt.Errorf("%w: %d boxes but %d owners", ErrBadDecomposition, len(boxes), len(owner))
	}

	vol := 0
	for i, b := range boxes {
		if b.Empty() {
			return nil, fmt.Errorf("%w: patch %d is empty", ErrBadDecomposition, i)
		}
		if !domain.ContainsBox(b) {
			return nil, fmt.Errorf("%w: patch %d %v leaves the domain %v", ErrBadDecomposition, i, b, domain)
		}
		for j := 0; j < i; j++ {
			if b.Intersects(boxes[j]) {
				return nil, fmt.Errorf("%w: patches %d and %d overlap", ErrBadDecomposition, j, i)
			}
		}
		vol += b.NumPts()
	}
	if vol != domain.NumPts() {
		return nil, fmt.Errorf("%w: patches cover %d of %d cells", ErrBadDecomposition, vol, domain.NumPts())
	}

	l := &Layout{
		domain: domain,
		boxes:  append([]Box(nil), boxes...),
		owner:  make([]int, len(boxes)),
	}
	if owner != nil {
		copy(l.owner, owner)
	}
	return l, nil
}

// Domain returns the full index region of the level.
func (l *Layout) Domain() Box { return l.domain }

// NumPatches returns the number of patches in the layout.
func (l *Layout) NumPatches() int { return len(l.boxes) }

// PatchBox returns the box of patch i.
func (l *Layout) PatchBox(i int) Box { return l.boxes[i] }

// Owner returns the processing unit that owns patch i.
func (l *Layout) Owner(i int) int { return l.owner[i] }

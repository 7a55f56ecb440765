package spectral

import (
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/cwbudde/algo-psatd/internal/grid"
	"github.com/cwbudde/algo-psatd/internal/kspace"
)

// Sentinel errors of the spectral layer.
var (
	// ErrNotPresent is returned when a field name is not active in the
	// index the solver was built with.
	ErrNotPresent = errors.New("spectral: field not present in index")

	// ErrStaggeringMismatch is returned when a field's staggering does
	// not match the one its transform plan was built for.
	ErrStaggeringMismatch = errors.New("spectral: field staggering does not match plan")

	// ErrLayoutMismatch is returned when a field lives on a different
	// layout than the spectral buffers.
	ErrLayoutMismatch = errors.New("spectral: field layout does not match")

	// ErrComponentRange is returned when a component selector is out of
	// range for the given field.
	ErrComponentRange = errors.New("spectral: component out of range")
)

// FieldData owns, per patch, a packed complex buffer of shape
// (spectral extents x active slots) together with the transform plans
// moving real-space fields in and out of it. Buffers and plans are
// allocated once at construction and reused every step.
type FieldData struct {
	idx     Index
	layout  *grid.Layout
	ks      *kspace.Space
	stagOf  func(FieldName) grid.Staggering
	patches []*patchData
}

type patchData struct {
	kp     *kspace.Patch
	nx     [3]int
	nkx    int
	nslots int

	// buf is the packed spectral buffer: slot varies fastest, then kx,
	// ky, kz.
	buf []complex128

	fftX  *fourier.FFT
	cfftX *fourier.CmplxFFT
	fftY  *fourier.CmplxFFT
	fftZ  *fourier.CmplxFFT

	// scratch, sized once at construction
	cw1, cw2               []complex128
	rowFull, rowFull2      []complex128
	colY, colY2            []complex128
	colZ, colZ2            []complex128
	rowHalf                []complex128
	rowReal                []float64
}

// NewFieldData allocates spectral buffers and transform plans for every
// patch of the layout. stagOf declares the staggering every field name
// is expected to arrive with; transforms verify it per call.
func NewFieldData(l *grid.Layout, ks *kspace.Space, idx Index, stagOf func(FieldName) grid.Staggering) *FieldData {
	fd := &FieldData{
		idx:     idx,
		layout:  l,
		ks:      ks,
		stagOf:  stagOf,
		patches: make([]*patchData, l.NumPatches()),
	}
	for p := range fd.patches {
		kp := ks.Patch(p)
		b := kp.Box
		nx := [3]int{b.Size(0), b.Size(1), b.Size(2)}
		pd := &patchData{
			kp:     kp,
			nx:     nx,
			nkx:    kp.NK[0],
			nslots: idx.NumFields(),
			fftX:   fourier.NewFFT(nx[0]),
			cfftX:  fourier.NewCmplxFFT(nx[0]),
			fftY:   fourier.NewCmplxFFT(nx[1]),
			fftZ:   fourier.NewCmplxFFT(nx[2]),
		}
		nmodes := kp.NK[0] * kp.NK[1] * kp.NK[2]
		pd.buf = make([]complex128, nmodes*idx.NumFields())
		pd.cw1 = make([]complex128, nmodes)
		pd.cw2 = make([]complex128, nmodes)
		pd.rowFull = make([]complex128, nx[0])
		pd.rowFull2 = make([]complex128, nx[0])
		pd.colY = make([]complex128, nx[1])
		pd.colY2 = make([]complex128, nx[1])
		pd.colZ = make([]complex128, nx[2])
		pd.colZ2 = make([]complex128, nx[2])
		pd.rowHalf = make([]complex128, pd.nkx)
		pd.rowReal = make([]float64, nx[0])
		fd.patches[p] = pd
	}
	return fd
}

// Index returns the slot mapping the buffers were built with.
func (fd *FieldData) Index() Index { return fd.idx }

// Space returns the wavenumber space of the buffers.
func (fd *FieldData) Space() *kspace.Space { return fd.ks }

// NumPatches returns the number of patches.
func (fd *FieldData) NumPatches() int { return len(fd.patches) }

// PatchBuf exposes the packed spectral buffer of patch p. Slot varies
// fastest, then kx, ky, kz.
func (fd *FieldData) PatchBuf(p int) []complex128 { return fd.patches[p].buf }

// PatchModes returns the spectral extents of patch p.
func (fd *FieldData) PatchModes(p int) [3]int { return fd.patches[p].kp.NK }

func (fd *FieldData) checkField(f *grid.Field, comp int, name FieldName) (int, error) {
	slot, ok := fd.idx.Slot(name)
	if !ok {
		return 0, fmt.Errorf("%w: %v", ErrNotPresent, name)
	}
	if f.Layout() != fd.layout {
		return 0, fmt.Errorf("%w: field %v", ErrLayoutMismatch, name)
	}
	if comp < 0 || comp >= f.NumComp() {
		return 0, fmt.Errorf("%w: component %d of %v", ErrComponentRange, comp, name)
	}
	if f.Staggering() != fd.stagOf(name) {
		return 0, fmt.Errorf("%w: field %v has %v, plan expects %v",
			ErrStaggeringMismatch, name, f.Staggering(), fd.stagOf(name))
	}
	return slot, nil
}

// eachPatch runs fn concurrently over all patches.
func (fd *FieldData) eachPatch(fn func(p int, pd *patchData) error) error {
	var g errgroup.Group
	for p, pd := range fd.patches {
		p, pd := p, pd
		g.Go(func() error { return fn(p, pd) })
	}
	return g.Wait()
}

// Forward transforms one component of a real-space field into the slot
// of the given name, overwriting it.
func (fd *FieldData) Forward(f *grid.Field, comp int, name FieldName) error {
	slot, err := fd.checkField(f, comp, name)
	if err != nil {
		return err
	}
	stag := f.Staggering()
	return fd.eachPatch(func(p int, pd *patchData) error {
		pd.forwardReal(f, p, comp, pd.cw1)
		pd.transformYZForward(pd.cw1)
		pd.scatter(pd.cw1, slot, stag)
		return nil
	})
}

// ForwardPair transforms two real-space fields in a single complex
// transform pass along the packed axis, writing both destination slots.
// The result matches two independent single-field transforms.
func (fd *FieldData) ForwardPair(f1 *grid.Field, name1 FieldName, f2 *grid.Field, name2 FieldName) error {
	slot1, err := fd.checkField(f1, 0, name1)
	if err != nil {
		return err
	}
	slot2, err := fd.checkField(f2, 0, name2)
	if err != nil {
		return err
	}
	stag1, stag2 := f1.Staggering(), f2.Staggering()
	return fd.eachPatch(func(p int, pd *patchData) error {
		pd.forwardRealPair(f1, f2, p, pd.cw1, pd.cw2)
		pd.transformYZForward(pd.cw1)
		pd.transformYZForward(pd.cw2)
		pd.scatter(pd.cw1, slot1, stag1)
		pd.scatter(pd.cw2, slot2, stag2)
		return nil
	})
}

// Backward transforms the slot of the given name back to real space,
// writing one component of the caller-owned field. Ghost cells are left
// untouched.
func (fd *FieldData) Backward(name FieldName, f *grid.Field, comp int) error {
	slot, err := fd.checkField(f, comp, name)
	if err != nil {
		return err
	}
	stag := f.Staggering()
	return fd.eachPatch(func(p int, pd *patchData) error {
		pd.gather(pd.cw1, slot, stag)
		pd.transformYZBackward(pd.cw1)
		pd.backwardReal(f, p, comp, pd.cw1)
		return nil
	})
}

// BackwardPair transforms two slots back to real space in one complex
// pass along the packed axis, writing both caller-owned fields.
func (fd *FieldData) BackwardPair(name1 FieldName, f1 *grid.Field, name2 FieldName, f2 *grid.Field) error {
	slot1, err := fd.checkField(f1, 0, name1)
	if err != nil {
		return err
	}
	slot2, err := fd.checkField(f2, 0, name2)
	if err != nil {
		return err
	}
	stag1, stag2 := f1.Staggering(), f2.Staggering()
	return fd.eachPatch(func(p int, pd *patchData) error {
		pd.gather(pd.cw1, slot1, stag1)
		pd.gather(pd.cw2, slot2, stag2)
		pd.transformYZBackward(pd.cw1)
		pd.transformYZBackward(pd.cw2)
		pd.backwardRealPair(f1, f2, p, pd.cw1, pd.cw2)
		return nil
	})
}

// forwardReal runs the real-to-complex transform of every x row of one
// field component into dst (half spectrum per row, y and z untouched).
func (pd *patchData) forwardReal(f *grid.Field, p, comp int, dst []complex128) {
	b := pd.kp.Box
	gb := f.GrownBox(p)
	src := f.Comp(p, comp)
	nx, ny, nz := pd.nx[0], pd.nx[1], pd.nx[2]
	for iz := 0; iz < nz; iz++ {
		for iy := 0; iy < ny; iy++ {
			base := gb.Index(b.Lo[0], b.Lo[1]+iy, b.Lo[2]+iz)
			pd.fftX.Coefficients(pd.rowHalf, src[base:base+nx])
			copy(dst[(iz*ny+iy)*pd.nkx:], pd.rowHalf)
		}
	}
}

// forwardRealPair packs two real rows into one complex row, transforms
// it, and splits the two half spectra by Hermitian recombination.
func (pd *patchData) forwardRealPair(f1, f2 *grid.Field, p int, dst1, dst2 []complex128) {
	b := pd.kp.Box
	gb1 := f1.GrownBox(p)
	gb2 := f2.GrownBox(p)
	src1 := f1.Comp(p, 0)
	src2 := f2.Comp(p, 0)
	nx, ny, nz := pd.nx[0], pd.nx[1], pd.nx[2]
	for iz := 0; iz < nz; iz++ {
		for iy := 0; iy < ny; iy++ {
			b1 := gb1.Index(b.Lo[0], b.Lo[1]+iy, b.Lo[2]+iz)
			b2 := gb2.Index(b.Lo[0], b.Lo[1]+iy, b.Lo[2]+iz)
			for ix := 0; ix < nx; ix++ {
				pd.rowFull[ix] = complex(src1[b1+ix], src2[b2+ix])
			}
			pd.cfftX.Coefficients(pd.rowFull2, pd.rowFull)

			// Split: for z = f1 + i*f2, Z[k] and conj(Z[n-k]) separate
			// into the two Hermitian half spectra.
			row1 := dst1[(iz*ny+iy)*pd.nkx:]
			row2 := dst2[(iz*ny+iy)*pd.nkx:]
			for k := 0; k < pd.nkx; k++ {
				zk := pd.rowFull2[k]
				zmk := pd.rowFull2[(nx-k)%nx]
				zmkc := complex(real(zmk), -imag(zmk))
				row1[k] = 0.5 * (zk + zmkc)
				row2[k] = complex(0, -0.5) * (zk - zmkc)
			}
		}
	}
}

// backwardReal inverse-transforms every half-spectrum x row of src into
// one real field component, scaling by 1/N.
func (pd *patchData) backwardReal(f *grid.Field, p, comp int, src []complex128) {
	b := pd.kp.Box
	gb := f.GrownBox(p)
	dst := f.Comp(p, comp)
	nx, ny, nz := pd.nx[0], pd.nx[1], pd.nx[2]
	scale := 1.0 / float64(nx*ny*nz)
	for iz := 0; iz < nz; iz++ {
		for iy := 0; iy < ny; iy++ {
			copy(pd.rowHalf, src[(iz*ny+iy)*pd.nkx:(iz*ny+iy)*pd.nkx+pd.nkx])
			// The real inverse assumes exactly Hermitian end bins;
			// rounding in the update kernels can leave them with a tiny
			// imaginary part.
			pd.rowHalf[0] = complex(real(pd.rowHalf[0]), 0)
			pd.rowHalf[pd.nkx-1] = complex(real(pd.rowHalf[pd.nkx-1]), 0)
			pd.fftX.Sequence(pd.rowReal, pd.rowHalf)
			base := gb.Index(b.Lo[0], b.Lo[1]+iy, b.Lo[2]+iz)
			for ix := 0; ix < nx; ix++ {
				dst[base+ix] = pd.rowReal[ix] * scale
			}
		}
	}
}

// backwardRealPair reconstructs the full complex row from two half
// spectra, inverse-transforms it once, and unpacks the two real fields
// from the real and imaginary parts.
func (pd *patchData) backwardRealPair(f1, f2 *grid.Field, p int, src1, src2 []complex128) {
	b := pd.kp.Box
	gb1 := f1.GrownBox(p)
	gb2 := f2.GrownBox(p)
	dst1 := f1.Comp(p, 0)
	dst2 := f2.Comp(p, 0)
	nx, ny, nz := pd.nx[0], pd.nx[1], pd.nx[2]
	scale := 1.0 / float64(nx*ny*nz)
	for iz := 0; iz < nz; iz++ {
		for iy := 0; iy < ny; iy++ {
			row1 := src1[(iz*ny+iy)*pd.nkx:]
			row2 := src2[(iz*ny+iy)*pd.nkx:]
			for ix := 0; ix < nx; ix++ {
				var a, c complex128
				if ix < pd.nkx {
					a = row1[ix]
					c = row2[ix]
				} else {
					a = row1[nx-ix]
					c = row2[nx-ix]
					a = complex(real(a), -imag(a))
					c = complex(real(c), -imag(c))
				}
				pd.rowFull[ix] = a + complex(0, 1)*c
			}
			pd.cfftX.Sequence(pd.rowFull2, pd.rowFull)
			b1 := gb1.Index(b.Lo[0], b.Lo[1]+iy, b.Lo[2]+iz)
			b2 := gb2.Index(b.Lo[0], b.Lo[1]+iy, b.Lo[2]+iz)
			for ix := 0; ix < nx; ix++ {
				dst1[b1+ix] = real(pd.rowFull2[ix]) * scale
				dst2[b2+ix] = imag(pd.rowFull2[ix]) * scale
			}
		}
	}
}

// transformYZForward applies the complex transforms along y and z to a
// half-spectrum work array, in place.
func (pd *patchData) transformYZForward(w []complex128) {
	nkx, ny, nz := pd.nkx, pd.nx[1], pd.nx[2]
	if ny > 1 {
		for iz := 0; iz < nz; iz++ {
			for ix := 0; ix < nkx; ix++ {
				base := iz*ny*nkx + ix
				for iy := 0; iy < ny; iy++ {
					pd.colY[iy] = w[base+iy*nkx]
				}
				pd.fftY.Coefficients(pd.colY2, pd.colY)
				for iy := 0; iy < ny; iy++ {
					w[base+iy*nkx] = pd.colY2[iy]
				}
			}
		}
	}
	if nz > 1 {
		stride := ny * nkx
		for iy := 0; iy < ny; iy++ {
			for ix := 0; ix < nkx; ix++ {
				base := iy*nkx + ix
				for iz := 0; iz < nz; iz++ {
					pd.colZ[iz] = w[base+iz*stride]
				}
				pd.fftZ.Coefficients(pd.colZ2, pd.colZ)
				for iz := 0; iz < nz; iz++ {
					w[base+iz*stride] = pd.colZ2[iz]
				}
			}
		}
	}
}

// transformYZBackward applies the inverse complex transforms along z
// and y to a half-spectrum work array, in place and unnormalized.
func (pd *patchData) transformYZBackward(w []complex128) {
	nkx, ny, nz := pd.nkx, pd.nx[1], pd.nx[2]
	if nz > 1 {
		stride := ny * nkx
		for iy := 0; iy < ny; iy++ {
			for ix := 0; ix < nkx; ix++ {
				base := iy*nkx + ix
				for iz := 0; iz < nz; iz++ {
					pd.colZ[iz] = w[base+iz*stride]
				}
				pd.fftZ.Sequence(pd.colZ2, pd.colZ)
				for iz := 0; iz < nz; iz++ {
					w[base+iz*stride] = pd.colZ2[iz]
				}
			}
		}
	}
	if ny > 1 {
		for iz := 0; iz < nz; iz++ {
			for ix := 0; ix < nkx; ix++ {
				base := iz*ny*nkx + ix
				for iy := 0; iy < ny; iy++ {
					pd.colY[iy] = w[base+iy*nkx]
				}
				pd.fftY.Sequence(pd.colY2, pd.colY)
				for iy := 0; iy < ny; iy++ {
					w[base+iy*nkx] = pd.colY2[iy]
				}
			}
		}
	}
}

// scatter moves a fully transformed work array into a slot of the
// packed buffer, applying the half-cell phase shift on every staggered
// axis so that all slots share the nodal spectral reference.
func (pd *patchData) scatter(w []complex128, slot int, stag grid.Staggering) {
	nkx, ny, nz := pd.nkx, pd.nx[1], pd.nx[2]
	sx, sy, sz := pd.shiftFactors(stag)
	m := 0
	for iz := 0; iz < nz; iz++ {
		fz := sz(iz)
		for iy := 0; iy < ny; iy++ {
			fzy := fz * sy(iy)
			for ix := 0; ix < nkx; ix++ {
				pd.buf[m*pd.nslots+slot] = w[m] * fzy * sx(ix)
				m++
			}
		}
	}
}

// gather moves a slot of the packed buffer into a work array, undoing
// the staggering phase shift.
func (pd *patchData) gather(w []complex128, slot int, stag grid.Staggering) {
	ny, nz := pd.nx[1], pd.nx[2]
	sx, sy, sz := pd.conjShiftFactors(stag)
	m := 0
	for iz := 0; iz < nz; iz++ {
		fz := sz(iz)
		for iy := 0; iy < ny; iy++ {
			fzy := fz * sy(iy)
			for ix := 0; ix < pd.nkx; ix++ {
				w[m] = pd.buf[m*pd.nslots+slot] * fzy * sx(ix)
				m++
			}
		}
	}
}

func (pd *patchData) shiftFactors(stag grid.Staggering) (sx, sy, sz func(int) complex128) {
	one := func(int) complex128 { return 1 }
	sx, sy, sz = one, one, one
	if stag[0] == grid.Centered {
		sx = func(i int) complex128 { return pd.kp.Shift[0][i] }
	}
	if stag[1] == grid.Centered {
		sy = func(i int) complex128 { return pd.kp.Shift[1][i] }
	}
	if stag[2] == grid.Centered {
		sz = func(i int) complex128 { return pd.kp.Shift[2][i] }
	}
	return sx, sy, sz
}

func (pd *patchData) conjShiftFactors(stag grid.Staggering) (sx, sy, sz func(int) complex128) {
	conj := func(tab []complex128) func(int) complex128 {
		return func(i int) complex128 {
			v := tab[i]
			return complex(real(v), -imag(v))
		}
	}
	one := func(int) complex128 { return 1 }
	sx, sy, sz = one, one, one
	if stag[0] == grid.Centered {
		sx = conj(pd.kp.Shift[0])
	}
	if stag[1] == grid.Centered {
		sy = conj(pd.kp.Shift[1])
	}
	if stag[2] == grid.Centered {
		sz = conj(pd.kp.Shift[2])
	}
	return sx, sy, sz
}

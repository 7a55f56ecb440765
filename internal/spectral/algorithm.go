package spectral

import (
	"errors"

	"github.com/cwbudde/algo-psatd/internal/grid"
)

// Physical constants (SI).
const (
	SpeedOfLight       = 299792458.0
	VacuumPermittivity = 8.8541878128e-12
)

var (
	// ErrMissingRho is returned when an operation needs the charge
	// density but the solver was configured without it.
	ErrMissingRho = errors.New("spectral: charge density required but not configured")

	// ErrUnsupportedOp is returned when an operation is not available
	// for the selected update algorithm.
	ErrUnsupportedOp = errors.New("spectral: operation not supported by this algorithm")
)

// Algorithm advances the packed spectral buffers of one level by one
// time step and hosts the spectral-space charge-conservation
// operators. Implementations precompute their per-mode coefficients at
// construction; the instance is selected once and never swapped.
type Algorithm interface {
	// Name identifies the update scheme.
	Name() string

	// Advance overwrites the E and B slots of fd with the field state
	// one time step later, reading the currently populated source
	// slots.
	Advance(fd *FieldData) error

	// CurrentCorrection projects the current density slots onto the
	// component consistent with the stored charge density history.
	CurrentCorrection(fd *FieldData) error

	// VayDeposition converts the deposited auxiliary current in the J
	// slots into a charge-conserving current.
	VayDeposition(fd *FieldData) error
}

// cross returns the cross product of a real vector k with a complex
// vector v.
func cross(k [3]float64, v [3]complex128) [3]complex128 {
	return [3]complex128{
		complex(k[1], 0)*v[2] - complex(k[2], 0)*v[1],
		complex(k[2], 0)*v[0] - complex(k[0], 0)*v[2],
		complex(k[0], 0)*v[1] - complex(k[1], 0)*v[0],
	}
}

// dot returns the dot product of a real vector k with a complex vector.
func dot(k [3]float64, v [3]complex128) complex128 {
	return complex(k[0], 0)*v[0] + complex(k[1], 0)*v[1] + complex(k[2], 0)*v[2]
}

// ComputeSpectralDivE computes i k.E of the three caller-provided
// electric field components and writes the divergence into the
// caller-owned divE field. The main E and B slots are not touched; the
// computation runs through the DivE and Scratch work slots.
func (fd *FieldData) ComputeSpectralDivE(e [3]*grid.Field, divE *grid.Field) error {
	scratch, _ := fd.idx.Slot(Scratch)
	diveSlot, _ := fd.idx.Slot(DivE)

	for axis := 0; axis < 3; axis++ {
		if e[axis].Layout() != fd.layout {
			return ErrLayoutMismatch
		}
	}
	if divE.Layout() != fd.layout {
		return ErrLayoutMismatch
	}
	if divE.Staggering() != fd.stagOf(DivE) {
		return ErrStaggeringMismatch
	}

	for axis := 0; axis < 3; axis++ {
		stag := e[axis].Staggering()
		err := fd.eachPatch(func(p int, pd *patchData) error {
			pd.forwardReal(e[axis], p, 0, pd.cw1)
			pd.transformYZForward(pd.cw1)
			pd.scatter(pd.cw1, scratch, stag)

			kx, ky, kz := pd.kp.K[0], pd.kp.K[1], pd.kp.K[2]
			ny, nz := pd.nx[1], pd.nx[2]
			m := 0
			for iz := 0; iz < nz; iz++ {
				for iy := 0; iy < ny; iy++ {
					for ix := 0; ix < pd.nkx; ix++ {
						var ka float64
						switch axis {
						case 0:
							ka = kx[ix]
						case 1:
							ka = ky[iy]
						default:
							ka = kz[iz]
						}
						base := m * pd.nslots
						d := complex(0, ka) * pd.buf[base+scratch]
						if axis == 0 {
							pd.buf[base+diveSlot] = d
						} else {
							pd.buf[base+diveSlot] += d
						}
						m++
					}
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	stag := divE.Staggering()
	return fd.eachPatch(func(p int, pd *patchData) error {
		pd.gather(pd.cw1, diveSlot, stag)
		pd.transformYZBackward(pd.cw1)
		pd.backwardReal(divE, p, 0, pd.cw1)
		return nil
	})
}

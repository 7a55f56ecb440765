package algopsatd

import "fmt"

// ChargeConservingMethod selects how (and whether) the deposited
// current is made consistent with the charge density.
type ChargeConservingMethod int

const (
	// ChargeConservingNone leaves the deposited current untouched.
	ChargeConservingNone ChargeConservingMethod = iota
	// ChargeConservingCorrection projects the current onto the
	// divergence-consistent component implied by the charge history.
	ChargeConservingCorrection
	// ChargeConservingVay converts a Vay-style deposited auxiliary
	// quantity into a charge-conserving current.
	ChargeConservingVay
)

func (m ChargeConservingMethod) String() string {
	switch m {
	case ChargeConservingNone:
		return "none"
	case ChargeConservingCorrection:
		return "current-correction"
	case ChargeConservingVay:
		return "vay-deposition"
	default:
		return fmt.Sprintf("ChargeConservingMethod(%d)", int(m))
	}
}

// LevelConfig describes the geometry of one refinement level.
type LevelConfig struct {
	// Domain is the full cell region of the level.
	Domain Box
	// Patches is the rectangular decomposition of Domain.
	Patches []Box
	// Owners optionally maps each patch to a processing unit.
	Owners []int
	// CellSize is the physical cell size per axis.
	CellSize [3]float64
}

// Config is the full construction-time configuration of a Solver.
// It is validated once; feature flags never change afterwards.
type Config struct {
	// Levels lists the refinement levels, coarsest first.
	Levels []LevelConfig

	// TimeStep is the fixed step the per-mode coefficients are built
	// for.
	TimeStep float64

	// DriftVelocity is the Galilean frame velocity. A non-zero
	// component along the z axis selects the Galilean update scheme.
	DriftVelocity [3]float64

	// SpectralOrder is the order of the finite-order spectral
	// derivative; 0 requests the exact derivative.
	SpectralOrder int

	// Nodal samples every field on cell edges instead of the staggered
	// placement.
	Nodal bool

	// UseRho makes the update read the charge-density history instead
	// of reconstructing it from Gauss's law and continuity.
	UseRho bool

	// TimeAveraging additionally produces fields averaged over the
	// step.
	TimeAveraging bool

	// JLinearInTime interpolates the current linearly between the old
	// and new deposition instead of holding it constant.
	JLinearInTime bool

	// DivECleaning / DivBCleaning evolve the hyperbolic cleaning
	// scalars that damp divergence errors.
	DivECleaning bool
	DivBCleaning bool

	// ChargeConserving selects the spectral charge-conservation
	// operator. At most one method exists by construction.
	ChargeConserving ChargeConservingMethod
}

// Galilean reports whether the configuration selects the Galilean
// update scheme.
func (c Config) Galilean() bool { return c.DriftVelocity[2] != 0 }

// Validate checks the configuration. Every violation is fatal and
// reported before any allocation happens.
func (c Config) Validate() error {
	if len(c.Levels) == 0 {
		return fmt.Errorf("%w: no levels", ErrInvalidConfig)
	}
	if !(c.TimeStep > 0) {
		return fmt.Errorf("%w: time step %g", ErrInvalidConfig, c.TimeStep)
	}
	if c.SpectralOrder < 0 || c.SpectralOrder%2 != 0 {
		return fmt.Errorf("%w: spectral order %d must be 0 or a positive even number", ErrInvalidConfig, c.SpectralOrder)
	}
	switch c.ChargeConserving {
	case ChargeConservingNone, ChargeConservingCorrection, ChargeConservingVay:
	default:
		return fmt.Errorf("%w: unknown charge-conserving method %d", ErrInvalidConfig, int(c.ChargeConserving))
	}
	if c.DivECleaning && !c.UseRho {
		return fmt.Errorf("%w: divergence cleaning of E needs the charge density (UseRho)", ErrIncompatibleFeatures)
	}
	if c.JLinearInTime && (c.TimeAveraging || c.DivECleaning || c.DivBCleaning) {
		return fmt.Errorf("%w: linear-in-time current cannot be combined with time averaging or divergence cleaning", ErrIncompatibleFeatures)
	}
	if c.Galilean() {
		if c.TimeAveraging || c.JLinearInTime || c.DivECleaning || c.DivBCleaning {
			return fmt.Errorf("%w: the Galilean scheme supports UseRho only among the optional features", ErrIncompatibleFeatures)
		}
		if c.ChargeConserving == ChargeConservingVay {
			return fmt.Errorf("%w: Vay deposition is not defined for the Galilean scheme", ErrIncompatibleFeatures)
		}
	}
	return nil
}

package algopsatd

import (
	"errors"

	"github.com/cwbudde/algo-psatd/internal/grid"
	"github.com/cwbudde/algo-psatd/internal/spectral"
)

// Sentinel errors returned by solver construction and operations.
var (
	// ErrInvalidConfig is returned when a configuration value is
	// malformed on its own (non-positive time step, no levels, bad
	// spectral order).
	ErrInvalidConfig = errors.New("algopsatd: invalid configuration")

	// ErrIncompatibleFeatures is returned when individually valid
	// options cannot be combined (e.g. Vay deposition with the
	// Galilean update scheme).
	ErrIncompatibleFeatures = errors.New("algopsatd: incompatible feature combination")

	// ErrInvalidLevel is returned when an operation names a refinement
	// level the solver was not built with.
	ErrInvalidLevel = errors.New("algopsatd: level out of range")

	// ErrBadDecomposition is returned when patch boxes do not tile the
	// declared domain.
	ErrBadDecomposition = grid.ErrBadDecomposition

	// ErrFieldNotPresent is returned when a field name is not active
	// under the configured feature set.
	ErrFieldNotPresent = spectral.ErrNotPresent

	// ErrStaggeringMismatch is returned when a field arrives with a
	// staggering different from the one its transform plan expects.
	ErrStaggeringMismatch = spectral.ErrStaggeringMismatch

	// ErrMissingRho is returned when an operation needs the charge
	// density and none is available.
	ErrMissingRho = spectral.ErrMissingRho

	// ErrUnsupportedOp is returned when an operation is not available
	// for the configured update scheme or charge-conservation method.
	ErrUnsupportedOp = spectral.ErrUnsupportedOp
)

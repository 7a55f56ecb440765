// Package algopsatd is a spectral electromagnetic field solver: it
// advances Maxwell's equations with an analytically integrated
// per-mode update in wavenumber space, on a domain decomposed into
// rectangular patches.
package algopsatd

import (
	"fmt"

	"github.com/cwbudde/algo-psatd/internal/grid"
	"github.com/cwbudde/algo-psatd/internal/kspace"
	"github.com/cwbudde/algo-psatd/internal/spectral"
)

// level bundles everything one refinement level needs: its patch
// decomposition, the wavenumber tables, the packed spectral storage
// with its transform plans, and the precomputed update operator.
type level struct {
	layout *grid.Layout
	ks     *kspace.Space
	fd     *spectral.FieldData
	alg    spectral.Algorithm
}

// Solver advances electromagnetic fields with an analytically
// integrated per-mode update in wavenumber space. A Solver is built
// once from a Config and is safe for sequential use per level; the
// per-patch work inside every operation runs concurrently.
type Solver struct {
	cfg    Config
	stagOf func(spectral.FieldName) grid.Staggering
	levels []level
}

// New validates cfg and builds a solver for it. The update scheme is
// selected here and never changes: a non-zero drift velocity along z
// picks the Galilean scheme, anything else the standard one. All
// per-mode coefficients and transform plans are precomputed before New
// returns.
func New(cfg Config) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opt := spectral.Options{
		// The correction operator reads the charge history even when
		// the update itself reconstructs rho internally.
		UseRho:        cfg.UseRho || cfg.ChargeConserving == ChargeConservingCorrection,
		TimeAveraging: cfg.TimeAveraging,
		JLinearInTime: cfg.JLinearInTime,
		DivECleaning:  cfg.DivECleaning,
		DivBCleaning:  cfg.DivBCleaning,
	}
	idx := spectral.NewIndex(opt)

	s := &Solver{
		cfg:    cfg,
		stagOf: staggerTable(cfg.Nodal),
		levels: make([]level, len(cfg.Levels)),
	}
	for i, lc := range cfg.Levels {
		l, err := grid.NewLayout(lc.Domain, lc.Patches, lc.Owners)
		if err != nil {
			return nil, fmt.Errorf("level %d: %w", i, err)
		}
		ks, err := kspace.New(l, lc.CellSize, cfg.SpectralOrder, cfg.Nodal)
		if err != nil {
			return nil, fmt.Errorf("level %d: %w", i, err)
		}

		var alg spectral.Algorithm
		if cfg.Galilean() {
			alg = spectral.NewGalilean(ks, cfg.TimeStep, cfg.DriftVelocity, opt)
		} else {
			alg = spectral.NewStandard(ks, cfg.TimeStep, opt)
		}

		s.levels[i] = level{
			layout: l,
			ks:     ks,
			fd:     spectral.NewFieldData(l, ks, idx, s.stagOf),
			alg:    alg,
		}
	}
	return s, nil
}

// staggerTable returns the sample placement expected for each field
// name. The staggered placement is the classic one: E and J components
// offset along their own axis, B components offset along the other two,
// scalars on cell edges.
func staggerTable(nodal bool) func(spectral.FieldName) grid.Staggering {
	if nodal {
		return func(spectral.FieldName) grid.Staggering { return grid.AllNodal }
	}
	return func(n spectral.FieldName) grid.Staggering {
		switch n {
		case spectral.Ex, spectral.Jx, spectral.JxOld, spectral.ExAvg:
			return grid.Staggering{grid.Centered, grid.Nodal, grid.Nodal}
		case spectral.Ey, spectral.Jy, spectral.JyOld, spectral.EyAvg:
			return grid.Staggering{grid.Nodal, grid.Centered, grid.Nodal}
		case spectral.Ez, spectral.Jz, spectral.JzOld, spectral.EzAvg:
			return grid.Staggering{grid.Nodal, grid.Nodal, grid.Centered}
		case spectral.Bx, spectral.BxAvg:
			return grid.Staggering{grid.Nodal, grid.Centered, grid.Centered}
		case spectral.By, spectral.ByAvg:
			return grid.Staggering{grid.Centered, grid.Nodal, grid.Centered}
		case spectral.Bz, spectral.BzAvg:
			return grid.Staggering{grid.Centered, grid.Centered, grid.Nodal}
		default:
			return grid.AllNodal
		}
	}
}

// NumLevels returns the number of refinement levels.
func (s *Solver) NumLevels() int { return len(s.levels) }

// Config returns the configuration the solver was built with.
func (s *Solver) Config() Config { return s.cfg }

// AlgorithmName identifies the selected update scheme.
func (s *Solver) AlgorithmName() string { return s.levels[0].alg.Name() }

// FieldStaggering returns the sample placement the solver expects for
// the given field name. Caller-allocated fields must use it.
func (s *Solver) FieldStaggering(name FieldName) Staggering {
	return s.stagOf(name)
}

// Layout returns the patch decomposition of the given level. Fields
// passed to the transform operations must be allocated on it.
func (s *Solver) Layout(lev int) (*Layout, error) {
	l, err := s.level(lev)
	if err != nil {
		return nil, err
	}
	return l.layout, nil
}

func (s *Solver) level(lev int) (*level, error) {
	if lev < 0 || lev >= len(s.levels) {
		return nil, fmt.Errorf("%w: %d of %d", ErrInvalidLevel, lev, len(s.levels))
	}
	return &s.levels[lev], nil
}

// ForwardTransform transforms one component of a real-space field into
// the spectral slot of the given name on the given level, overwriting
// the slot.
func (s *Solver) ForwardTransform(lev int, f *Field, comp int, name FieldName) error {
	l, err := s.level(lev)
	if err != nil {
		return err
	}
	return l.fd.Forward(f, comp, name)
}

// ForwardTransformPair transforms two real-space fields into their
// spectral slots in a single complex pass along the contiguous axis.
// The result is identical to two single transforms.
func (s *Solver) ForwardTransformPair(lev int, f1 *Field, name1 FieldName, f2 *Field, name2 FieldName) error {
	l, err := s.level(lev)
	if err != nil {
		return err
	}
	return l.fd.ForwardPair(f1, name1, f2, name2)
}

// BackwardTransform transforms the spectral slot of the given name back
// to real space, writing one component of the caller-owned field. Ghost
// cells are not written.
func (s *Solver) BackwardTransform(lev int, name FieldName, f *Field, comp int) error {
	l, err := s.level(lev)
	if err != nil {
		return err
	}
	return l.fd.Backward(name, f, comp)
}

// BackwardTransformPair transforms two spectral slots back to real
// space in a single complex pass along the contiguous axis.
func (s *Solver) BackwardTransformPair(lev int, name1 FieldName, f1 *Field, name2 FieldName, f2 *Field) error {
	l, err := s.level(lev)
	if err != nil {
		return err
	}
	return l.fd.BackwardPair(name1, f1, name2, f2)
}

// Advance pushes the spectral E and B slots of the given level forward
// by one time step, reading whatever source slots the configured
// feature set prescribes. Sources must have been forward-transformed
// beforehand.
func (s *Solver) Advance(lev int) error {
	l, err := s.level(lev)
	if err != nil {
		return err
	}
	return l.alg.Advance(l.fd)
}

// ComputeSpectralDivE computes the spectral-space divergence of the
// three-component electric field and writes it into divE. The spectral E
// slots are left untouched.
func (s *Solver) ComputeSpectralDivE(lev int, e [3]*Field, divE *Field) error {
	l, err := s.level(lev)
	if err != nil {
		return err
	}
	return l.fd.ComputeSpectralDivE(e, divE)
}

// CurrentCorrection replaces the longitudinal part of the deposited
// current with the one implied by the charge-density history, so that
// the discrete continuity equation holds mode by mode. rho carries the
// density before the step in component 0 and after it in component 1.
// The corrected current is written back into j.
func (s *Solver) CurrentCorrection(lev int, j [3]*Field, rho *Field) error {
	if s.cfg.ChargeConserving != ChargeConservingCorrection {
		return fmt.Errorf("%w: solver built with %v", spectral.ErrUnsupportedOp, s.cfg.ChargeConserving)
	}
	l, err := s.level(lev)
	if err != nil {
		return err
	}
	if err := l.fd.ForwardPair(j[0], spectral.Jx, j[1], spectral.Jy); err != nil {
		return err
	}
	if err := l.fd.Forward(j[2], 0, spectral.Jz); err != nil {
		return err
	}
	if err := l.fd.Forward(rho, 0, spectral.RhoOld); err != nil {
		return err
	}
	if err := l.fd.Forward(rho, 1, spectral.RhoNew); err != nil {
		return err
	}
	if err := l.alg.CurrentCorrection(l.fd); err != nil {
		return err
	}
	if err := l.fd.BackwardPair(spectral.Jx, j[0], spectral.Jy, j[1]); err != nil {
		return err
	}
	return l.fd.Backward(spectral.Jz, j[2], 0)
}

// VayDeposition converts the deposited auxiliary quantity in j into a
// charge-conserving current by dividing each spectral component by its
// own wavenumber. Modes with a vanishing wavenumber along an axis get a
// zero current along that axis.
func (s *Solver) VayDeposition(lev int, j [3]*Field) error {
	if s.cfg.ChargeConserving != ChargeConservingVay {
		return fmt.Errorf("%w: solver built with %v", spectral.ErrUnsupportedOp, s.cfg.ChargeConserving)
	}
	l, err := s.level(lev)
	if err != nil {
		return err
	}
	if err := l.fd.ForwardPair(j[0], spectral.Jx, j[1], spectral.Jy); err != nil {
		return err
	}
	if err := l.fd.Forward(j[2], 0, spectral.Jz); err != nil {
		return err
	}
	if err := l.alg.VayDeposition(l.fd); err != nil {
		return err
	}
	if err := l.fd.BackwardPair(spectral.Jx, j[0], spectral.Jy, j[1]); err != nil {
		return err
	}
	return l.fd.Backward(spectral.Jz, j[2], 0)
}

package spectral

import (
	"math"
	"math/cmplx"
	"testing"
)

// TestGalilean_ZeroDriftMatchesStandard verifies the drifting update
// degenerates to the standard one when the drift velocity vanishes.
func TestGalilean_ZeroDriftMatchesStandard(t *testing.T) {
	t.Parallel()

	l, ks := testSpace(t, 8, 4, 4)
	idx := NewIndex(Options{})
	dt := 2e-15

	std := NewFieldData(l, ks, idx, allNodal)
	gal := NewFieldData(l, ks, idx, allNodal)
	fillRandomEBJ(std, 21)
	fillRandomEBJ(gal, 21)

	if err := NewStandard(ks, dt, Options{}).Advance(std); err != nil {
		t.Fatal(err)
	}
	if err := NewGalilean(ks, dt, [3]float64{}, Options{}).Advance(gal); err != nil {
		t.Fatal(err)
	}

	for p := range std.patches {
		bs, bg := std.patches[p].buf, gal.patches[p].buf
		for i := range bs {
			if cmplx.Abs(bs[i]-bg[i]) > 1e-9*(1+cmplx.Abs(bs[i])) {
				t.Fatalf("patch %d entry %d: standard %v, zero-drift %v", p, i, bs[i], bg[i])
			}
		}
	}
}

// TestGalilean_Uniform: the zero mode sees no drift, so uniform fields
// behave exactly as in the standard update.
func TestGalilean_Uniform(t *testing.T) {
	t.Parallel()

	l, ks := testSpace(t, 8, 4, 4)
	idx := NewIndex(Options{})
	fd := NewFieldData(l, ks, idx, allNodal)
	dt := 3e-15
	vg := [3]float64{0, 0, 0.5 * SpeedOfLight}

	const e0, j0 = 1.0, 2.0
	forEachMode(fd, func(pd *patchData, m int, kv [3]float64) {
		if kv != [3]float64{} {
			return
		}
		for d := 0; d < 3; d++ {
			setMode(pd, m, Ex+FieldName(d), idx, complex(e0, 0))
			setMode(pd, m, Jx+FieldName(d), idx, complex(j0, 0))
		}
	})

	if err := NewGalilean(ks, dt, vg, Options{}).Advance(fd); err != nil {
		t.Fatal(err)
	}

	want := e0 - dt*j0/VacuumPermittivity
	forEachMode(fd, func(pd *patchData, m int, kv [3]float64) {
		if kv != [3]float64{} {
			return
		}
		for d := 0; d < 3; d++ {
			got := getMode(pd, m, Ex+FieldName(d), idx)
			if cmplx.Abs(got-complex(want, 0)) > 1e-9*math.Abs(want) {
				t.Fatalf("zero-mode E[%d] = %v, want %g", d, got, want)
			}
		}
	})
}

// TestGalilean_VacuumPhase: with no sources the drifting update is the
// standard vacuum update times the per-mode Doppler phase, which leaves
// the field energy of every mode unchanged.
func TestGalilean_VacuumPhase(t *testing.T) {
	t.Parallel()

	l, ks := testSpace(t, 8, 4, 4)
	idx := NewIndex(Options{})
	dt := 2e-15
	vg := [3]float64{0, 0, 0.3 * SpeedOfLight}

	std := NewFieldData(l, ks, idx, allNodal)
	gal := NewFieldData(l, ks, idx, allNodal)
	fillRandomEBJ(std, 33)
	fillRandomEBJ(gal, 33)
	// vacuum: clear the currents
	forEachMode(std, func(pd *patchData, m int, kv [3]float64) {
		for d := 0; d < 3; d++ {
			setMode(pd, m, Jx+FieldName(d), idx, 0)
		}
	})
	forEachMode(gal, func(pd *patchData, m int, kv [3]float64) {
		for d := 0; d < 3; d++ {
			setMode(pd, m, Jx+FieldName(d), idx, 0)
		}
	})

	if err := NewStandard(ks, dt, Options{}).Advance(std); err != nil {
		t.Fatal(err)
	}
	if err := NewGalilean(ks, dt, vg, Options{}).Advance(gal); err != nil {
		t.Fatal(err)
	}

	for p := range std.patches {
		pdS, pdG := std.patches[p], gal.patches[p]
		m := 0
		for iz := 0; iz < pdS.nx[2]; iz++ {
			phase := cmplx.Exp(complex(0, pdS.kp.K[2][iz]*vg[2]*dt))
			for rep := 0; rep < pdS.nx[1]; rep++ {
				for rep := 0; rep < pdS.nkx; rep++ {
					for _, name := range []FieldName{Ex, Ey, Ez, Bx, By, Bz} {
						a := getMode(pdS, m, name, idx) * phase
						b := getMode(pdG, m, name, idx)
						if cmplx.Abs(a-b) > 1e-9*(1+cmplx.Abs(a)) {
							t.Fatalf("patch %d mode %d %v: phased standard %v, drifting %v", p, m, name, a, b)
						}
					}
					m++
				}
			}
		}
	}
}

// TestGalileanCoefficients_ResonanceContinuity verifies the analytic
// limit branch joins the direct evaluation smoothly as the Doppler term
// approaches the mode frequency.
func TestGalileanCoefficients_ResonanceContinuity(t *testing.T) {
	t.Parallel()

	kv := [3]float64{0, 0, 1.2e6}
	om := SpeedOfLight * kv[2]
	dt := 0.4 / om // om*dt = 0.4

	// drift magnitudes straddling the branch threshold
	direct := galileanCoefficients(kv, [3]float64{0, 0, SpeedOfLight * (1 - 1e-5)}, dt)
	limit := galileanCoefficients(kv, [3]float64{0, 0, SpeedOfLight * (1 - 1e-8)}, dt)
	exact := galileanCoefficients(kv, [3]float64{0, 0, SpeedOfLight}, dt)

	pairs := []struct {
		name           string
		a, b complex128
	}{
		{"x4 near/limit", direct.x4, limit.x4},
		{"x4 limit/exact", limit.x4, exact.x4},
		{"x5 near/limit", direct.x5, limit.x5},
		{"x5 limit/exact", limit.x5, exact.x5},
	}
	for _, p := range pairs {
		if d := cmplx.Abs(p.a - p.b); d > 1e-3*cmplx.Abs(p.b) {
			t.Errorf("%s: %v vs %v (diff %g)", p.name, p.a, p.b, d)
		}
	}
}

// TestThetaRatio covers the zero, resonant and series branches of the
// comoving continuity ratio.
func TestThetaRatio(t *testing.T) {
	t.Parallel()

	// power-of-two step keeps om*dt exactly representable below
	dt := 0.5

	if got := thetaRatio(0, dt); got != complex(0, 1/dt) {
		t.Errorf("thetaRatio(0) = %v, want %v", got, complex(0, 1/dt))
	}

	// exactly resonant (om*dt = 2*pi): the correction is dropped
	om := 4 * math.Pi
	if got := thetaRatio(om, dt); got != 0 {
		t.Errorf("thetaRatio at exact resonance = %v, want 0", got)
	}

	// small but finite phase: direct and series evaluations agree
	for _, phi := range []float64{1e-6, 2e-5, 1e-3, 1.0} {
		got := thetaRatio(phi/dt, dt)
		want := complex(phi/dt, 0) / (1 - cmplx.Exp(complex(0, phi)))
		if cmplx.Abs(got-want) > 1e-6*cmplx.Abs(want) {
			t.Errorf("thetaRatio(phi=%g) = %v, want %v", phi, got, want)
		}
	}
}

// TestExpRatio checks the series branch against the direct form across
// its switch point.
func TestExpRatio(t *testing.T) {
	t.Parallel()

	for _, phi := range []float64{1e-7, 5e-6, 1e-4, 0.1, 2.0} {
		got := expRatio(phi)
		want := (cmplx.Exp(complex(0, phi)) - 1) / complex(0, phi)
		if cmplx.Abs(got-want) > 1e-9 {
			t.Errorf("expRatio(%g) = %v, want %v", phi, got, want)
		}
	}
	if got := expRatio(0); got != 1 {
		t.Errorf("expRatio(0) = %v, want 1", got)
	}
}

// TestGalilean_VayUnsupported: the deposition filter is undefined for
// the drifting scheme.
func TestGalilean_VayUnsupported(t *testing.T) {
	t.Parallel()

	l, ks := testSpace(t, 8, 4, 4)
	fd := NewFieldData(l, ks, NewIndex(Options{}), allNodal)
	alg := NewGalilean(ks, 1e-15, [3]float64{0, 0, 0.5 * SpeedOfLight}, Options{})
	if err := alg.VayDeposition(fd); err != ErrUnsupportedOp {
		t.Errorf("VayDeposition err = %v, want ErrUnsupportedOp", err)
	}
}

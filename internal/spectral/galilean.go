package spectral

import (
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-psatd/internal/kspace"
)

// Branch thresholds of the Galilean coefficient evaluation.
const (
	// nuResonanceTol switches the J coefficients to their analytic
	// limit when the mode frequency and the Doppler term nearly
	// coincide (|k.v| -> c|k|).
	nuResonanceTol = 1e-6

	// thetaResonanceTol switches the rho coefficients to the
	// series evaluation when k.v*dt sits near a multiple of 2*pi,
	// where 1-exp(i*k.v*dt) loses all significant digits.
	thetaResonanceTol = 1e-5
)

// Galilean is the PSATD update formulated in a reference frame drifting
// with a constant velocity: sources are held constant (current) or
// exponentially advected (charge) in the comoving frame, which folds
// the Doppler factor exp(i*k.v*dt) into every coefficient.
type Galilean struct {
	opt   Options
	dt    float64
	vg    [3]float64
	coeff []galTable
}

// galTable holds the precomputed per-mode Galilean coefficients of one
// patch.
type galTable struct {
	c, s           []float64
	t              []complex128
	x2, x3, x4, x5 []complex128
	// rT is the guarded ratio k.v/(1-exp(i*k.v*dt)) used by the
	// comoving continuity relation.
	rT []complex128
}

// galCoeff is the full coefficient set of a single mode.
type galCoeff struct {
	c, s           float64
	t              complex128
	x2, x3, x4, x5 complex128
	rT             complex128
}

// expRatio returns (exp(i*phi) - 1)/(i*phi), evaluated by series for
// small phi where the direct form cancels.
func expRatio(phi float64) complex128 {
	if math.Abs(phi) < thetaResonanceTol {
		// 1 + i*phi/2 - phi^2/6 - i*phi^3/24
		return complex(1-phi*phi/6, phi/2-phi*phi*phi/24)
	}
	num := cmplx.Exp(complex(0, phi)) - 1
	return num / complex(0, phi)
}

// thetaRatio returns om/(1 - exp(i*om*dt)) with the phase reduced
// modulo 2*pi, switching to the series branch near resonance. At an
// exactly resonant mode with a non-zero Doppler term the ratio has no
// finite limit; the correction it feeds is dropped there (zero) rather
// than letting the mode blow up.
func thetaRatio(om, dt float64) complex128 {
	phi := om * dt
	delta := math.Remainder(phi, 2*math.Pi)
	if delta == 0 {
		if om == 0 {
			return complex(0, 1/dt)
		}
		return 0
	}
	// 1 - T = -i*delta*expRatio(delta)
	return complex(om, 0) / (complex(0, -delta) * expRatio(delta))
}

// galileanCoefficients evaluates the per-mode coefficient set for a
// mode with wavevector kv under drift velocity vg and step dt. kv must
// not be the zero mode.
func galileanCoefficients(kv, vg [3]float64, dt float64) galCoeff {
	const (
		c2   = SpeedOfLight * SpeedOfLight
		eps0 = VacuumPermittivity
	)
	k2 := kv[0]*kv[0] + kv[1]*kv[1] + kv[2]*kv[2]
	om2 := c2 * k2
	om := math.Sqrt(om2)
	kdotv := kv[0]*vg[0] + kv[1]*vg[1] + kv[2]*vg[2]

	var gc galCoeff
	gc.c = math.Cos(om * dt)
	gc.s = math.Sin(om*dt) / om
	gc.t = cmplx.Exp(complex(0, kdotv*dt))
	gc.rT = thetaRatio(kdotv, dt)

	c := complex(gc.c, 0)
	s := complex(gc.s, 0)
	t := gc.t

	// Transverse current coefficients. The closed forms share the
	// denominator om^2 - (k.v)^2, which has a removable singularity
	// where the Doppler term hits the mode frequency.
	if math.Abs(om2-kdotv*kdotv) > nuResonanceTol*om2 {
		a := complex(0, kdotv) / complex(eps0*(om2-kdotv*kdotv), 0)
		gc.x4 = a*(1-t*c+complex(0, kdotv)*t*s) - t*s/complex(eps0, 0)
		// (t-1)/(k.v) written as i*dt*expRatio keeps the k.v = 0
		// plane finite.
		h := complex(0, 1)*t*s + t*(1-c)*complex(kdotv/om2, 0) - complex(0, dt)*expRatio(kdotv*dt)
		gc.x5 = a*h + complex(0, 1)*t*(1-c)/complex(eps0*om2, 0)
	} else {
		// L'Hopital limits at k.v = +/- om.
		sign := 1.0
		if kdotv < 0 {
			sign = -1.0
		}
		o := sign * om
		// d/d(k.v) of 1 - T*C + i*(k.v)*T*S at k.v = o
		nPrime := complex(0, -dt)*t*c + complex(0, 1)*t*s - complex(o*dt, 0)*t*s
		gc.x4 = complex(0, -1)*nPrime/complex(2*eps0, 0) - t*s/complex(eps0, 0)
		// d/d(k.v) of h at k.v = o
		hPrime := complex(-dt, 0)*t*s +
			t*(1-c)*complex(1/om2, 0)*(1+complex(0, o*dt)) -
			(complex(0, o*dt)*t-t+1)/complex(o*o, 0)
		gc.x5 = complex(0, -1)*hPrime/complex(2*eps0, 0) + complex(0, 1)*t*(1-c)/complex(eps0*om2, 0)
	}

	// Charge density coefficients via the comoving continuity
	// relation; g absorbs the longitudinal action of x4.
	g := complex(0, -1) * gc.x4 * gc.rT
	gc.x2 = -(complex(1/eps0, 0) + g) / complex(k2, 0)
	gc.x3 = -t * (complex(gc.c/eps0, 0) + g) / complex(k2, 0)
	return gc
}

// NewGalilean precomputes the per-mode coefficient tables for every
// patch of the wavenumber space.
func NewGalilean(ks *kspace.Space, dt float64, vg [3]float64, opt Options) *Galilean {
	a := &Galilean{opt: opt, dt: dt, vg: vg, coeff: make([]galTable, ks.NumPatches())}
	for p := range a.coeff {
		kp := ks.Patch(p)
		n := kp.NK[0] * kp.NK[1] * kp.NK[2]
		gt := galTable{
			c: make([]float64, n), s: make([]float64, n),
			t:  make([]complex128, n),
			x2: make([]complex128, n), x3: make([]complex128, n),
			x4: make([]complex128, n), x5: make([]complex128, n),
			rT: make([]complex128, n),
		}
		m := 0
		for iz := 0; iz < kp.NK[2]; iz++ {
			for iy := 0; iy < kp.NK[1]; iy++ {
				for ix := 0; ix < kp.NK[0]; ix++ {
					kv := [3]float64{kp.K[0][ix], kp.K[1][iy], kp.K[2][iz]}
					if kv[0] == 0 && kv[1] == 0 && kv[2] == 0 {
						gt.c[m], gt.s[m], gt.t[m] = 1, dt, 1
						gt.rT[m] = complex(0, 1/dt)
						m++
						continue
					}
					gc := galileanCoefficients(kv, vg, dt)
					gt.c[m], gt.s[m], gt.t[m] = gc.c, gc.s, gc.t
					gt.x2[m], gt.x3[m], gt.x4[m], gt.x5[m] = gc.x2, gc.x3, gc.x4, gc.x5
					gt.rT[m] = gc.rT
					m++
				}
			}
		}
		a.coeff[p] = gt
	}
	return a
}

// Name implements Algorithm.
func (a *Galilean) Name() string { return "GalileanPSATD" }

// Advance implements Algorithm.
func (a *Galilean) Advance(fd *FieldData) error {
	sl := resolveSlots(fd.idx, a.opt)
	dt := a.dt
	opt := a.opt
	return fd.eachPatch(func(p int, pd *patchData) error {
		advanceGalileanPatch(pd, &a.coeff[p], sl, dt, opt)
		return nil
	})
}

func advanceGalileanPatch(pd *patchData, gt *galTable, sl slotSet, dt float64, opt Options) {
	const (
		c2   = SpeedOfLight * SpeedOfLight
		eps0 = VacuumPermittivity
	)
	kxs, kys, kzs := pd.kp.K[0], pd.kp.K[1], pd.kp.K[2]
	ny, nz := pd.nx[1], pd.nx[2]

	m := 0
	for iz := 0; iz < nz; iz++ {
		for iy := 0; iy < ny; iy++ {
			for ix := 0; ix < pd.nkx; ix++ {
				base := m * pd.nslots
				buf := pd.buf[base : base+pd.nslots]
				kv := [3]float64{kxs[ix], kys[iy], kzs[iz]}
				k2 := kv[0]*kv[0] + kv[1]*kv[1] + kv[2]*kv[2]

				var e, b, j [3]complex128
				for d := 0; d < 3; d++ {
					e[d] = buf[sl.e[d]]
					b[d] = buf[sl.b[d]]
					j[d] = buf[sl.j[d]]
				}

				if k2 == 0 {
					for d := 0; d < 3; d++ {
						buf[sl.e[d]] = e[d] - complex(dt/eps0, 0)*j[d]
					}
					m++
					continue
				}

				c := complex(gt.c[m], 0)
				s := complex(gt.s[m], 0)
				t := gt.t[m]

				kxB := cross(kv, b)
				kxE := cross(kv, e)
				kxJ := cross(kv, j)
				kdotJ := dot(kv, j)

				var rhoOld, rhoNew complex128
				if opt.UseRho {
					rhoOld = buf[sl.rhoOld]
					rhoNew = buf[sl.rhoNew]
				} else {
					rhoOld = complex(0, eps0) * dot(kv, e)
					// comoving continuity: rhoNew = T*rhoOld + k.J*(1-T)/(k.v)
					rhoNew = t * rhoOld
					if gt.rT[m] != 0 {
						rhoNew += kdotJ / gt.rT[m]
					}
				}

				for d := 0; d < 3; d++ {
					en := t*(c*e[d]+complex(0, c2)*s*kxB[d]) +
						gt.x4[m]*j[d] +
						complex(0, kv[d])*(gt.x2[m]*rhoNew-gt.x3[m]*rhoOld)
					bn := t*(c*b[d]-complex(0, 1)*s*kxE[d]) +
						gt.x5[m]*kxJ[d]
					buf[sl.e[d]] = en
					buf[sl.b[d]] = bn
				}
				m++
			}
		}
	}
}

// CurrentCorrection implements Algorithm: the longitudinal current is
// replaced by the component consistent with the charge history advected
// at the drift velocity.
func (a *Galilean) CurrentCorrection(fd *FieldData) error {
	sl := resolveSlots(fd.idx, a.opt)
	if sl.rhoOld < 0 || sl.rhoNew < 0 {
		return ErrMissingRho
	}
	return fd.eachPatch(func(p int, pd *patchData) error {
		gt := &a.coeff[p]
		kxs, kys, kzs := pd.kp.K[0], pd.kp.K[1], pd.kp.K[2]
		ny, nz := pd.nx[1], pd.nx[2]
		m := 0
		for iz := 0; iz < nz; iz++ {
			for iy := 0; iy < ny; iy++ {
				for ix := 0; ix < pd.nkx; ix++ {
					base := m * pd.nslots
					buf := pd.buf[base : base+pd.nslots]
					kv := [3]float64{kxs[ix], kys[iy], kzs[iz]}
					k2 := kv[0]*kv[0] + kv[1]*kv[1] + kv[2]*kv[2]
					if k2 == 0 {
						m++
						continue
					}
					var j [3]complex128
					for d := 0; d < 3; d++ {
						j[d] = buf[sl.j[d]]
					}
					kdotJ := dot(kv, j)
					target := gt.rT[m] * (buf[sl.rhoNew] - gt.t[m]*buf[sl.rhoOld])
					adj := (target - kdotJ) / complex(k2, 0)
					for d := 0; d < 3; d++ {
						buf[sl.j[d]] = j[d] + complex(kv[d], 0)*adj
					}
					m++
				}
			}
		}
		return nil
	})
}

// VayDeposition implements Algorithm. The deposition filter assumes a
// non-drifting update and is not defined for the Galilean scheme.
func (a *Galilean) VayDeposition(*FieldData) error {
	return ErrUnsupportedOp
}

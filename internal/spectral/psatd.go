package spectral

import (
	"math"

	"github.com/cwbudde/algo-psatd/internal/kspace"
)

// Standard is the pseudo-spectral analytical time-domain update: every
// mode is advanced with the exact solution of Maxwell's equations over
// one step, holding the current constant (or linear) in time and the
// charge density linear.
type Standard struct {
	opt   Options
	dt    float64
	coeff []trigTable
}

// trigTable holds the per-mode trigonometric factors of one patch:
// c = cos(w*dt) and s = sin(w*dt)/w, with w the mode frequency c*|k|.
// s holds dt at k = 0.
type trigTable struct {
	c, s []float64
}

func newTrigTable(kp *kspace.Patch, dt float64) trigTable {
	n := kp.NK[0] * kp.NK[1] * kp.NK[2]
	t := trigTable{c: make([]float64, n), s: make([]float64, n)}
	m := 0
	for iz := 0; iz < kp.NK[2]; iz++ {
		for iy := 0; iy < kp.NK[1]; iy++ {
			for ix := 0; ix < kp.NK[0]; ix++ {
				k := math.Sqrt(kp.K[0][ix]*kp.K[0][ix] + kp.K[1][iy]*kp.K[1][iy] + kp.K[2][iz]*kp.K[2][iz])
				w := SpeedOfLight * k
				if w == 0 {
					t.c[m] = 1
					t.s[m] = dt
				} else {
					t.c[m] = math.Cos(w * dt)
					t.s[m] = math.Sin(w*dt) / w
				}
				m++
			}
		}
	}
	return t
}

// NewStandard precomputes the per-mode update coefficients for every
// patch of the wavenumber space.
func NewStandard(ks *kspace.Space, dt float64, opt Options) *Standard {
	a := &Standard{opt: opt, dt: dt, coeff: make([]trigTable, ks.NumPatches())}
	for p := range a.coeff {
		a.coeff[p] = newTrigTable(ks.Patch(p), dt)
	}
	return a
}

// Name implements Algorithm.
func (a *Standard) Name() string { return "PSATD" }

// slotSet resolves the slot positions an update kernel touches.
type slotSet struct {
	e, b, j, jOld, eAvg, bAvg [3]int
	rhoOld, rhoNew, f, g      int
}

func resolveSlots(ix Index, opt Options) slotSet {
	var s slotSet
	get := func(n FieldName) int {
		slot, ok := ix.Slot(n)
		if !ok {
			return -1
		}
		return slot
	}
	for d := 0; d < 3; d++ {
		s.e[d] = get(Ex + FieldName(d))
		s.b[d] = get(Bx + FieldName(d))
		s.j[d] = get(Jx + FieldName(d))
		s.jOld[d] = get(JxOld + FieldName(d))
		s.eAvg[d] = get(ExAvg + FieldName(d))
		s.bAvg[d] = get(BxAvg + FieldName(d))
	}
	s.rhoOld = get(RhoOld)
	s.rhoNew = get(RhoNew)
	s.f = get(F)
	s.g = get(G)
	return s
}

// Advance implements Algorithm.
func (a *Standard) Advance(fd *FieldData) error {
	sl := resolveSlots(fd.idx, a.opt)
	dt := a.dt
	opt := a.opt
	return fd.eachPatch(func(p int, pd *patchData) error {
		advanceStandardPatch(pd, a.coeff[p], sl, dt, opt)
		return nil
	})
}

func advanceStandardPatch(pd *patchData, tt trigTable, sl slotSet, dt float64, opt Options) {
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

				var e, b, j, jMain, dj [3]complex128
				for d := 0; d < 3; d++ {
					e[d] = buf[sl.e[d]]
					b[d] = buf[sl.b[d]]
					j[d] = buf[sl.j[d]]
				}
				jMain = j
				if opt.JLinearInTime {
					for d := 0; d < 3; d++ {
						jMain[d] = buf[sl.jOld[d]]
						dj[d] = j[d] - jMain[d]
					}
				}

				if k2 == 0 {
					// The zero mode has no spatial coupling: only the
					// mean current pushes the mean electric field.
					for d := 0; d < 3; d++ {
						buf[sl.e[d]] = e[d] - complex(dt/eps0, 0)*(jMain[d]+complex(0.5, 0)*dj[d])
					}
					if opt.TimeAveraging {
						for d := 0; d < 3; d++ {
							buf[sl.eAvg[d]] = e[d] - complex(0.5*dt/eps0, 0)*jMain[d]
							buf[sl.bAvg[d]] = b[d]
						}
					}
					if opt.DivECleaning {
						rhoBar := 0.5 * (buf[sl.rhoOld] + buf[sl.rhoNew])
						buf[sl.f] -= complex(dt/eps0, 0) * rhoBar
					}
					m++
					continue
				}

				c := tt.c[m]
				s := tt.s[m]
				om2 := c2 * k2

				kxB := cross(kv, b)
				kxE := cross(kv, e)
				kxJ := cross(kv, jMain)
				kdotE := dot(kv, e)
				kdotJ := dot(kv, jMain)

				var rhoOld, rhoNew complex128
				if opt.UseRho {
					rhoOld = buf[sl.rhoOld]
					rhoNew = buf[sl.rhoNew]
				} else {
					// Synthesize the charge history from Gauss's law
					// and the continuity equation.
					rhoOld = complex(0, eps0) * kdotE
					jBar := kdotJ + complex(0.5, 0)*dot(kv, dj)
					rhoNew = rhoOld - complex(0, dt)*jBar
				}

				x1 := (1 - c) / (eps0 * om2)
				x2 := (s/dt - 1) / (eps0 * k2)
				x3 := (s/dt - c) / (eps0 * k2)

				var en, bn [3]complex128
				for d := 0; d < 3; d++ {
					en[d] = complex(c, 0)*e[d] +
						complex(0, c2*s)*kxB[d] -
						complex(s/eps0, 0)*jMain[d]
					bn[d] = complex(c, 0)*b[d] -
						complex(0, s)*kxE[d] +
						complex(0, x1)*kxJ[d]
				}
				if opt.JLinearInTime {
					kxDJ := cross(kv, dj)
					ce := (1 - c) / (eps0 * om2 * dt)
					cb := (dt - s) / (eps0 * om2 * dt)
					for d := 0; d < 3; d++ {
						en[d] -= complex(ce, 0) * dj[d]
						bn[d] += complex(0, cb) * kxDJ[d]
					}
				}

				if opt.DivECleaning {
					fv := buf[sl.f]
					// Longitudinal sector evolves together with the
					// cleaning scalar instead of being pinned to rho.
					deltaL := complex(0, 1) * (complex(c2*s*k2, 0)*fv +
						(complex(c, 0)*rhoOld+complex(s/dt, 0)*(rhoNew-rhoOld)-rhoNew)*complex(1/eps0, 0))
					for d := 0; d < 3; d++ {
						en[d] += complex(kv[d]/k2, 0) * deltaL
					}
					buf[sl.f] = complex(c, 0)*fv +
						complex(0, s)*kdotE -
						complex(s/eps0, 0)*rhoOld -
						complex(0, x1)*kdotJ -
						complex(x1/dt, 0)*(rhoNew-rhoOld)
				} else {
					for d := 0; d < 3; d++ {
						en[d] += complex(0, kv[d]) * (complex(x2, 0)*rhoNew - complex(x3, 0)*rhoOld)
					}
				}

				if opt.DivBCleaning {
					gv := buf[sl.g]
					kdotB := dot(kv, b)
					for d := 0; d < 3; d++ {
						bn[d] += complex(0, s*kv[d]) * gv
					}
					buf[sl.g] = complex(c, 0)*gv + complex(0, c2*s)*kdotB
				}

				if opt.TimeAveraging {
					ca := s / dt
					sa := (1 - c) / (om2 * dt)
					x2a := (sa/dt - 0.5) / (eps0 * k2)
					x3a := (sa/dt - ca + 0.5) / (eps0 * k2)
					for d := 0; d < 3; d++ {
						buf[sl.eAvg[d]] = complex(ca, 0)*e[d] +
							complex(0, c2*sa)*kxB[d] -
							complex(sa/eps0, 0)*jMain[d] +
							complex(0, kv[d])*(complex(x2a, 0)*rhoNew-complex(x3a, 0)*rhoOld)
						buf[sl.bAvg[d]] = complex(ca, 0)*b[d] -
							complex(0, sa)*kxE[d] +
							complex(0, (1-ca)/(eps0*om2))*kxJ[d]
					}
				}

				for d := 0; d < 3; d++ {
					buf[sl.e[d]] = en[d]
					buf[sl.b[d]] = bn[d]
				}
				m++
			}
		}
	}
}

// CurrentCorrection implements Algorithm: the current slots are
// projected onto the divergence-consistent component implied by the
// stored charge density history. The rho slots are never written.
func (a *Standard) CurrentCorrection(fd *FieldData) error {
	sl := resolveSlots(fd.idx, a.opt)
	if sl.rhoOld < 0 || sl.rhoNew < 0 {
		return ErrMissingRho
	}
	dt := a.dt
	return fd.eachPatch(func(p int, pd *patchData) error {
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
					// continuity: k.J must equal i*(rhoNew-rhoOld)/dt
					target := complex(0, 1) * (buf[sl.rhoNew] - buf[sl.rhoOld]) / complex(dt, 0)
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

// VayDeposition implements Algorithm: the deposited auxiliary quantity
// D sitting in the J slots is converted into the charge-conserving
// current J_l = i*D_l/k_l per axis, using the same (possibly
// finite-order) wavenumbers as the field update.
func (a *Standard) VayDeposition(fd *FieldData) error {
	sl := resolveSlots(fd.idx, a.opt)
	return fd.eachPatch(func(p int, pd *patchData) error {
		kxs, kys, kzs := pd.kp.K[0], pd.kp.K[1], pd.kp.K[2]
		ny, nz := pd.nx[1], pd.nx[2]
		m := 0
		for iz := 0; iz < nz; iz++ {
			for iy := 0; iy < ny; iy++ {
				for ix := 0; ix < pd.nkx; ix++ {
					base := m * pd.nslots
					buf := pd.buf[base : base+pd.nslots]
					kv := [3]float64{kxs[ix], kys[iy], kzs[iz]}
					for d := 0; d < 3; d++ {
						if kv[d] != 0 {
							buf[sl.j[d]] = complex(0, 1) * buf[sl.j[d]] / complex(kv[d], 0)
						} else {
							buf[sl.j[d]] = 0
						}
					}
					m++
				}
			}
		}
		return nil
	})
}

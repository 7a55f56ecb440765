// Package spectral stores distributed field data in wavenumber space
// and advances it in time with analytically integrated per-mode update
// operators.
package spectral

// FieldName identifies one logical field stored in the packed spectral
// buffer. Which names are active depends on the feature set the index
// was built with.
type FieldName int

// Regular field names.
const (
	Ex FieldName = iota
	Ey
	Ez
	Bx
	By
	Bz
	Jx
	Jy
	Jz
	JxOld
	JyOld
	JzOld
	RhoOld
	RhoNew
	F
	G
	ExAvg
	EyAvg
	EzAvg
	BxAvg
	ByAvg
	BzAvg
	// DivE and Scratch are work slots for spectral divergence
	// computations; they are always present.
	DivE
	Scratch

	// Split-field names used inside perfectly matched layers.
	Exy
	Exz
	Eyx
	Eyz
	Ezx
	Ezy
	Bxy
	Bxz
	Byx
	Byz
	Bzx
	Bzy
	Exx
	Eyy
	Ezz
	Bxx
	Byy
	Bzz
	Fx
	Fy
	Fz
	Gx
	Gy
	Gz

	numFieldNames
)

var fieldNames = [numFieldNames]string{
	"Ex", "Ey", "Ez", "Bx", "By", "Bz", "Jx", "Jy", "Jz",
	"JxOld", "JyOld", "JzOld", "RhoOld", "RhoNew", "F", "G",
	"ExAvg", "EyAvg", "EzAvg", "BxAvg", "ByAvg", "BzAvg",
	"DivE", "Scratch",
	"Exy", "Exz", "Eyx", "Eyz", "Ezx", "Ezy",
	"Bxy", "Bxz", "Byx", "Byz", "Bzx", "Bzy",
	"Exx", "Eyy", "Ezz", "Bxx", "Byy", "Bzz",
	"Fx", "Fy", "Fz", "Gx", "Gy", "Gz",
}

func (n FieldName) String() string {
	if n < 0 || n >= numFieldNames {
		return "FieldName(?)"
	}
	return fieldNames[n]
}

// Options selects which optional fields an index carries.
type Options struct {
	UseRho        bool
	TimeAveraging bool
	JLinearInTime bool
	DivECleaning  bool
	DivBCleaning  bool
	IsPML         bool
}

// Index is the immutable mapping from field names to slot positions in
// the packed per-mode buffer. Slots are dense, contiguous and start at
// zero; their count is the number of simultaneously stored spectral
// fields for the feature set the index was built with.
type Index struct {
	slot [numFieldNames]int
	n    int
}

// NewIndex builds the minimal dense slot set covering exactly the
// fields the given feature set needs.
func NewIndex(opt Options) Index {
	var ix Index
	for i := range ix.slot {
		ix.slot[i] = -1
	}

	add := func(names ...FieldName) {
		for _, n := range names {
			ix.slot[n] = ix.n
			ix.n++
		}
	}

	if opt.IsPML {
		add(Exy, Exz, Eyx, Eyz, Ezx, Ezy)
		add(Bxy, Bxz, Byx, Byz, Bzx, Bzy)
		if opt.DivECleaning {
			add(Exx, Eyy, Ezz, Fx, Fy, Fz)
		}
		if opt.DivBCleaning {
			add(Bxx, Byy, Bzz, Gx, Gy, Gz)
		}
		add(DivE, Scratch)
		return ix
	}

	add(Ex, Ey, Ez, Bx, By, Bz, Jx, Jy, Jz)
	if opt.JLinearInTime {
		add(JxOld, JyOld, JzOld)
	}
	if opt.UseRho {
		add(RhoOld, RhoNew)
	}
	if opt.DivECleaning {
		add(F)
	}
	if opt.DivBCleaning {
		add(G)
	}
	if opt.TimeAveraging {
		add(ExAvg, EyAvg, EzAvg, BxAvg, ByAvg, BzAvg)
	}
	add(DivE, Scratch)
	return ix
}

// Slot returns the packed-buffer position of name, and whether the name
// is active in this index.
func (ix Index) Slot(name FieldName) (int, bool) {
	if name < 0 || name >= numFieldNames || ix.slot[name] < 0 {
		return 0, false
	}
	return ix.slot[name], true
}

// NumFields returns the number of active slots.
func (ix Index) NumFields() int { return ix.n }

package spectral

import "testing"

// TestNewIndex_Default verifies the minimal feature set carries the
// nine field slots plus the two work slots, densely numbered.
func TestNewIndex_Default(t *testing.T) {
	t.Parallel()

	ix := NewIndex(Options{})
	if ix.NumFields() != 11 {
		t.Fatalf("NumFields() = %d, want 11", ix.NumFields())
	}

	seen := make(map[int]bool)
	for _, n := range []FieldName{Ex, Ey, Ez, Bx, By, Bz, Jx, Jy, Jz, DivE, Scratch} {
		slot, ok := ix.Slot(n)
		if !ok {
			t.Fatalf("Slot(%v) not present", n)
		}
		if slot < 0 || slot >= ix.NumFields() {
			t.Fatalf("Slot(%v) = %d, out of range", n, slot)
		}
		if seen[slot] {
			t.Fatalf("Slot(%v) = %d reused", n, slot)
		}
		seen[slot] = true
	}

	for _, n := range []FieldName{JxOld, RhoOld, RhoNew, F, G, ExAvg, Exy} {
		if _, ok := ix.Slot(n); ok {
			t.Errorf("Slot(%v) present without its feature", n)
		}
	}
}

// TestNewIndex_Features checks slot presence and counts per feature
// combination.
func TestNewIndex_Features(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		opt     Options
		n       int
		present []FieldName
		absent  []FieldName
	}{
		{
			name:    "rho",
			opt:     Options{UseRho: true},
			n:       13,
			present: []FieldName{RhoOld, RhoNew},
			absent:  []FieldName{F, G, JxOld, ExAvg},
		},
		{
			name:    "averaging",
			opt:     Options{UseRho: true, TimeAveraging: true},
			n:       19,
			present: []FieldName{ExAvg, EyAvg, EzAvg, BxAvg, ByAvg, BzAvg},
			absent:  []FieldName{JxOld, F, G},
		},
		{
			name:    "linear current",
			opt:     Options{JLinearInTime: true},
			n:       14,
			present: []FieldName{JxOld, JyOld, JzOld},
			absent:  []FieldName{RhoOld, ExAvg},
		},
		{
			name:    "cleaning",
			opt:     Options{UseRho: true, DivECleaning: true, DivBCleaning: true},
			n:       15,
			present: []FieldName{F, G, RhoOld, RhoNew},
			absent:  []FieldName{ExAvg, JxOld},
		},
	}

	for _, tc := range cases {
		ix := NewIndex(tc.opt)
		if ix.NumFields() != tc.n {
			t.Errorf("%s: NumFields() = %d, want %d", tc.name, ix.NumFields(), tc.n)
		}
		for _, name := range tc.present {
			if _, ok := ix.Slot(name); !ok {
				t.Errorf("%s: Slot(%v) missing", tc.name, name)
			}
		}
		for _, name := range tc.absent {
			if _, ok := ix.Slot(name); ok {
				t.Errorf("%s: Slot(%v) unexpectedly present", tc.name, name)
			}
		}
	}
}

// TestNewIndex_PML verifies the split-field layout.
func TestNewIndex_PML(t *testing.T) {
	t.Parallel()

	ix := NewIndex(Options{IsPML: true})
	if ix.NumFields() != 14 {
		t.Errorf("NumFields() = %d, want 14", ix.NumFields())
	}
	for _, n := range []FieldName{Exy, Exz, Eyx, Eyz, Ezx, Ezy, Bxy, Bxz, Byx, Byz, Bzx, Bzy} {
		if _, ok := ix.Slot(n); !ok {
			t.Errorf("Slot(%v) missing in split layout", n)
		}
	}
	if _, ok := ix.Slot(Ex); ok {
		t.Error("Slot(Ex) present in split layout")
	}

	full := NewIndex(Options{IsPML: true, DivECleaning: true, DivBCleaning: true})
	if full.NumFields() != 26 {
		t.Errorf("cleaning split NumFields() = %d, want 26", full.NumFields())
	}
	for _, n := range []FieldName{Exx, Fy, Bzz, Gx} {
		if _, ok := full.Slot(n); !ok {
			t.Errorf("Slot(%v) missing in cleaning split layout", n)
		}
	}
}

// TestFieldName_String spot-checks the name table.
func TestFieldName_String(t *testing.T) {
	t.Parallel()

	cases := map[FieldName]string{
		Ex: "Ex", RhoNew: "RhoNew", Scratch: "Scratch", Gz: "Gz",
		FieldName(-1): "FieldName(?)",
	}
	for n, want := range cases {
		if got := n.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", int(n), got, want)
		}
	}
}

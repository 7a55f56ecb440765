package grid

import (
	"errors"
	"testing"
)

// TestBox_Basics verifies size, point count and membership of half-open
// boxes.
func TestBox_Basics(t *testing.T) {
	t.Parallel()

	b := NewBox([3]int{0, 2, -1}, [3]int{4, 5, 3})
	if got := b.Size(0); got != 4 {
		t.Errorf("Size(0) = %d, want 4", got)
	}
	if got := b.Size(1); got != 3 {
		t.Errorf("Size(1) = %d, want 3", got)
	}
	if got := b.NumPts(); got != 4*3*4 {
		t.Errorf("NumPts() = %d, want %d", got, 4*3*4)
	}
	if b.Empty() {
		t.Error("Empty() = true for a non-empty box")
	}
	if !b.Contains(0, 2, -1) {
		t.Error("Contains(lo) = false")
	}
	if b.Contains(4, 2, -1) {
		t.Error("Contains(hi) = true, upper bound should be exclusive")
	}
}

// TestBox_Index verifies the flat index runs x fastest, then y, then z.
func TestBox_Index(t *testing.T) {
	t.Parallel()

	b := NewBox([3]int{1, 1, 1}, [3]int{4, 3, 5})
	if got := b.Index(1, 1, 1); got != 0 {
		t.Errorf("Index(lo) = %d, want 0", got)
	}
	if got := b.Index(2, 1, 1); got != 1 {
		t.Errorf("x step = %d, want 1", got)
	}
	if got := b.Index(1, 2, 1); got != 3 {
		t.Errorf("y step = %d, want %d", got, b.Size(0))
	}
	if got := b.Index(1, 1, 2); got != 6 {
		t.Errorf("z step = %d, want %d", got, b.Size(0)*b.Size(1))
	}
	if got := b.Index(3, 2, 4); got != b.NumPts()-1 {
		t.Errorf("Index(hi-1) = %d, want %d", got, b.NumPts()-1)
	}
}

// TestBox_Intersects verifies overlap detection including the shared
// face case, which must not count as an intersection.
func TestBox_Intersects(t *testing.T) {
	t.Parallel()

	a := NewBox([3]int{0, 0, 0}, [3]int{4, 4, 4})
	cases := []struct {
		name string
		b    Box
		want bool
	}{
		{"identical", a, true},
		{"contained", NewBox([3]int{1, 1, 1}, [3]int{2, 2, 2}), true},
		{"shared face", NewBox([3]int{4, 0, 0}, [3]int{8, 4, 4}), false},
		{"disjoint", NewBox([3]int{5, 5, 5}, [3]int{7, 7, 7}), false},
	}
	for _, tc := range cases {
		if got := a.Intersects(tc.b); got != tc.want {
			t.Errorf("%s: Intersects = %v, want %v", tc.name, got, tc.want)
		}
	}
}

// TestNewLayout_Valid accepts a two-patch tiling.
func TestNewLayout_Valid(t *testing.T) {
	t.Parallel()

	domain := NewBox([3]int{0, 0, 0}, [3]int{8, 4, 4})
	boxes := []Box{
		NewBox([3]int{0, 0, 0}, [3]int{4, 4, 4}),
		NewBox([3]int{4, 0, 0}, [3]int{8, 4, 4}),
	}
	l, err := NewLayout(domain, boxes, []int{0, 1})
	if err != nil {
		t.Fatalf("NewLayout returned error: %v", err)
	}
	if l.NumPatches() != 2 {
		t.Errorf("NumPatches() = %d, want 2", l.NumPatches())
	}
	if l.Owner(1) != 1 {
		t.Errorf("Owner(1) = %d, want 1", l.Owner(1))
	}
	if l.Domain() != domain {
		t.Errorf("Domain() = %v, want %v", l.Domain(), domain)
	}
}

// TestNewLayout_Invalid rejects overlapping, escaping and non-covering
// decompositions.
func TestNewLayout_Invalid(t *testing.T) {
	t.Parallel()

	domain := NewBox([3]int{0, 0, 0}, [3]int{8, 4, 4})
	cases := []struct {
		name  string
		boxes []Box
	}{
		{"none", nil},
		{"overlap", []Box{
			NewBox([3]int{0, 0, 0}, [3]int{5, 4, 4}),
			NewBox([3]int{4, 0, 0}, [3]int{8, 4, 4}),
		}},
		{"escapes domain", []Box{
			NewBox([3]int{0, 0, 0}, [3]int{9, 4, 4}),
		}},
		{"gap", []Box{
			NewBox([3]int{0, 0, 0}, [3]int{4, 4, 4}),
		}},
		{"empty patch", []Box{
			NewBox([3]int{0, 0, 0}, [3]int{8, 4, 4}),
			NewBox([3]int{3, 3, 3}, [3]int{3, 3, 3}),
		}},
	}
	for _, tc := range cases {
		_, err := NewLayout(domain, tc.boxes, nil)
		if !errors.Is(err, ErrBadDecomposition) {
			t.Errorf("%s: err = %v, want ErrBadDecomposition", tc.name, err)
		}
	}
}

// TestField_Access verifies component storage, ghost regions and the
// FillComp iteration order.
func TestField_Access(t *testing.T) {
	t.Parallel()

	domain := NewBox([3]int{0, 0, 0}, [3]int{4, 4, 4})
	l, err := NewLayout(domain, []Box{domain}, nil)
	if err != nil {
		t.Fatal(err)
	}

	f := NewField(l, CellCentered, 2, 1)
	if f.NumComp() != 2 || f.NumGrow() != 1 {
		t.Fatalf("NumComp/NumGrow = %d/%d, want 2/1", f.NumComp(), f.NumGrow())
	}
	gb := f.GrownBox(0)
	if gb != NewBox([3]int{-1, -1, -1}, [3]int{5, 5, 5}) {
		t.Fatalf("GrownBox = %v", gb)
	}
	if got := len(f.Comp(0, 1)); got != gb.NumPts() {
		t.Errorf("len(Comp) = %d, want %d", got, gb.NumPts())
	}

	f.Set(0, 1, 2, 3, -1, 7.5)
	if got := f.At(0, 1, 2, 3, -1); got != 7.5 {
		t.Errorf("At after Set = %g, want 7.5", got)
	}

	f.FillComp(0, func(i, j, k int) float64 {
		return float64(100*i + 10*j + k)
	})
	if got := f.At(0, 0, 3, 2, 1); got != 321 {
		t.Errorf("FillComp sample = %g, want 321", got)
	}
	if got := f.At(0, 0, -1, -1, -1); got != -111 {
		t.Errorf("FillComp ghost sample = %g, want -111", got)
	}
}

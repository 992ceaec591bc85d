package resample

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

// imbalanced returns 8 negatives and 3 positives in two feature dimensions.
func imbalanced() (*mat.Dense, []float64) {
	X := mat.NewDense(11, 2, []float64{
		0.0, 0.1,
		0.2, 0.0,
		0.1, 0.3,
		0.3, 0.2,
		0.0, 0.4,
		0.4, 0.1,
		0.2, 0.2,
		0.1, 0.0,
		5.0, 5.1,
		5.2, 4.9,
		4.8, 5.0,
	})
	y := []float64{0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1}
	return X, y
}

func counts(y []float64) (pos, neg int) {
	for _, v := range y {
		if v == 1 {
			pos++
		} else {
			neg++
		}
	}
	return pos, neg
}

func TestParsePolicyRoundTrip(t *testing.T) {
	for _, p := range Policies() {
		got, err := ParsePolicy(p.Tag())
		if err != nil {
			t.Fatalf("ParsePolicy(%q) failed: %v", p.Tag(), err)
		}
		if got != p {
			t.Errorf("ParsePolicy(%q) = %v, want %v", p.Tag(), got, p)
		}
	}
	if _, err := ParsePolicy("bogus"); err == nil {
		t.Error("expected error for unknown policy")
	}
}

func TestPoliciesOrder(t *testing.T) {
	want := []string{"ori", "up", "down", "rose", "smote"}
	got := Policies()
	if len(got) != len(want) {
		t.Fatalf("got %d policies, want %d", len(got), len(want))
	}
	for i, p := range got {
		if p.Tag() != want[i] {
			t.Errorf("policy[%d] = %q, want %q", i, p.Tag(), want[i])
		}
	}
}

func TestOriginalIsCopy(t *testing.T) {
	X, y := imbalanced()
	Xr, yr, err := Apply(X, y, Original, 42)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if !mat.Equal(X, Xr) {
		t.Error("original policy should return identical data")
	}
	Xr.Set(0, 0, 99)
	if X.At(0, 0) == 99 {
		t.Error("result must not alias the input matrix")
	}
	yr[0] = 99
	if y[0] == 99 {
		t.Error("result must not alias the input labels")
	}
}

func TestOversampleBalances(t *testing.T) {
	X, y := imbalanced()
	Xr, yr, err := Apply(X, y, Oversample, 42)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	pos, neg := counts(yr)
	if pos != 8 || neg != 8 {
		t.Errorf("counts = (%d pos, %d neg), want (8, 8)", pos, neg)
	}
	if r, _ := Xr.Dims(); r != 16 {
		t.Errorf("rows = %d, want 16", r)
	}
}

func TestUndersampleBalances(t *testing.T) {
	X, y := imbalanced()
	Xr, yr, err := Apply(X, y, Undersample, 42)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	pos, neg := counts(yr)
	if pos != 3 || neg != 3 {
		t.Errorf("counts = (%d pos, %d neg), want (3, 3)", pos, neg)
	}
	if r, _ := Xr.Dims(); r != 6 {
		t.Errorf("rows = %d, want 6", r)
	}
}

func TestSMOTEBalancesWithSyntheticRows(t *testing.T) {
	X, y := imbalanced()
	Xr, yr, err := Apply(X, y, SMOTE, 42)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	pos, neg := counts(yr)
	if pos != 8 || neg != 8 {
		t.Errorf("counts = (%d pos, %d neg), want (8, 8)", pos, neg)
	}

	// Synthetic minority rows interpolate between minority rows, so they
	// must stay inside the minority bounding box.
	r, _ := Xr.Dims()
	for i := 11; i < r; i++ {
		for j := 0; j < 2; j++ {
			v := Xr.At(i, j)
			if v < 4.8 || v > 5.2 {
				t.Errorf("synthetic value %v at (%d,%d) outside minority range", v, i, j)
			}
		}
	}
}

func TestROSEBalancesAndKeepsSize(t *testing.T) {
	X, y := imbalanced()
	Xr, yr, err := Apply(X, y, ROSE, 42)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if r, _ := Xr.Dims(); r != 11 {
		t.Errorf("rows = %d, want 11 (original size)", r)
	}
	pos, neg := counts(yr)
	if pos+neg != 11 {
		t.Errorf("label count = %d, want 11", pos+neg)
	}
	if pos == 0 || neg == 0 {
		t.Errorf("both classes should appear, got (%d pos, %d neg)", pos, neg)
	}
}

func TestApplyDeterministicBySeed(t *testing.T) {
	X, y := imbalanced()
	for _, p := range []Policy{Oversample, Undersample, ROSE, SMOTE} {
		a, ya, err := Apply(X, y, p, 7)
		if err != nil {
			t.Fatalf("%v: %v", p, err)
		}
		b, yb, err := Apply(X, y, p, 7)
		if err != nil {
			t.Fatalf("%v: %v", p, err)
		}
		if !mat.Equal(a, b) {
			t.Errorf("%v: same seed should produce identical matrices", p)
		}
		for i := range ya {
			if ya[i] != yb[i] {
				t.Errorf("%v: same seed should produce identical labels", p)
				break
			}
		}
	}
}

func TestApplySingleClassFails(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{1, 2, 3})
	y := []float64{1, 1, 1}
	if _, _, err := Apply(X, y, Oversample, 1); err == nil {
		t.Error("expected error when a class is absent")
	}
}

package geometry

import (
	"fmt"
	"math"
	"strings"
	"testing"
)

func TestTranslationTransform_String(t *testing.T) {
	result := TranslationTransform(10.5, 20.75, 5.25).String()
	expected := "1 0 0 0 1 0 0 0 1 10.50 20.75 5.25"

	if result != expected {
		t.Errorf("TranslationTransform().String() = %v, want %v", result, expected)
	}
}

func TestRotationTransform_NoRotation(t *testing.T) {
	tr := RotationTransform(0, 0, 0, 10, 20, 30)

	if tr.M != Identity().M {
		t.Errorf("Rotation part should be identity, got %v", tr.M)
	}
	if !strings.HasSuffix(tr.String(), "10.00 20.00 30.00") {
		t.Errorf("Translation part is incorrect: %v", tr.String())
	}
}

func TestRotationTransform_45DegreeZ(t *testing.T) {
	tr := RotationTransform(0, 0, 45, 0, 0, 0)
	parts := strings.Fields(tr.String())

	if len(parts) != 12 {
		t.Fatalf("Expected 12 values, got %d", len(parts))
	}

	// For 45° Z rotation, m11 and m22 should be cos(45°) ≈ 0.707
	// m12 should be sin(45°) ≈ 0.707
	// m21 should be -sin(45°) ≈ -0.707
	expectedCos45 := math.Cos(45 * math.Pi / 180)
	expectedSin45 := math.Sin(45 * math.Pi / 180)

	checks := []struct {
		name  string
		index int
		want  float64
	}{
		{"m11", 0, expectedCos45},
		{"m12", 1, expectedSin45},
		{"m21", 3, -expectedSin45},
		{"m22", 4, expectedCos45},
	}
	for _, c := range checks {
		var got float64
		if _, err := parseFloat(parts[c.index], &got); err != nil {
			t.Errorf("%s: %v", c.name, err)
			continue
		}
		if math.Abs(got-c.want) > 0.0001 {
			t.Errorf("%s = %v, want ≈%v", c.name, got, c.want)
		}
	}
}

func TestRotationTransform_HalfTurnX(t *testing.T) {
	tr := RotationTransform(180, 0, 0, 0, 0, 0)

	got := tr.Apply(Vector3{X: 1.5, Y: 2.25, Z: -3})
	want := Vector3{X: 1.5, Y: -2.25, Z: 3}
	if got != want {
		t.Errorf("Apply() = %v, want %v", got, want)
	}
}

func TestTransform_ApplyDirectionIgnoresTranslation(t *testing.T) {
	tr := TranslationTransform(5, 6, 7)

	got := tr.ApplyDirection(Vector3{X: 0, Y: 0, Z: 1})
	if got != (Vector3{X: 0, Y: 0, Z: 1}) {
		t.Errorf("ApplyDirection() = %v, want unchanged", got)
	}
	if p := tr.Apply(Vector3{}); p != (Vector3{X: 5, Y: 6, Z: 7}) {
		t.Errorf("Apply() = %v, want (5, 6, 7)", p)
	}
}

func TestRotationTransform_Combined(t *testing.T) {
	// Test with combined rotation and translation
	parts := strings.Fields(RotationTransform(30, 45, 60, 10, 20, 30).String())

	if len(parts) != 12 {
		t.Fatalf("Expected 12 values, got %d", len(parts))
	}

	// Check translation values
	if parts[9] != "10.00" {
		t.Errorf("Translation X should be 10.00, got %v", parts[9])
	}
	if parts[10] != "20.00" {
		t.Errorf("Translation Y should be 20.00, got %v", parts[10])
	}
	if parts[11] != "30.00" {
		t.Errorf("Translation Z should be 30.00, got %v", parts[11])
	}
}

// Helper function to parse float from string
func parseFloat(s string, f *float64) (int, error) {
	n, err := fmt.Sscanf(s, "%f", f)
	return n, err
}

func TestParseTransform_RoundTrip(t *testing.T) {
	want := RotationTransform(180, 0, 0, 12.5, -3, 4)
	got, err := ParseTransform(want.String())
	if err != nil {
		t.Fatalf("ParseTransform() error = %v", err)
	}

	p := Vector3{1, 2, 3}
	a, b := want.Apply(p), got.Apply(p)
	if math.Abs(float64(a.X-b.X)) > 1e-5 || math.Abs(float64(a.Y-b.Y)) > 1e-5 || math.Abs(float64(a.Z-b.Z)) > 1e-5 {
		t.Errorf("parsed transform maps %v to %v, want %v", p, b, a)
	}
}

func TestParseTransform_Empty(t *testing.T) {
	got, err := ParseTransform("  ")
	if err != nil {
		t.Fatalf("ParseTransform() error = %v", err)
	}
	if !got.IsIdentity() {
		t.Errorf("ParseTransform(\"\") = %v, want identity", got)
	}
}

func TestParseTransform_Invalid(t *testing.T) {
	for _, s := range []string{"1 0 0", "1 0 0 0 1 0 0 0 1 x 0 0"} {
		if _, err := ParseTransform(s); err == nil {
			t.Errorf("ParseTransform(%q) expected error", s)
		}
	}
}

package geometry

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Transform is an affine transform in 3MF row-vector layout:
// v' = v * M + T, with M stored as m11 m12 m13 m21 m22 m23 m31 m32 m33
type Transform struct {
	M [9]float64
	T [3]float64
}

// Identity returns the identity transform
func Identity() Transform {
	return Transform{M: [9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}}
}

// RotationTransform creates a transform with rotation (in degrees) and
// translation. Rotations are applied in the order: Z, Y, X (intrinsic
// rotations).
func RotationTransform(rotX, rotY, rotZ, tx, ty, tz float64) Transform {
	// Convert degrees to radians
	rx := rotX * math.Pi / 180.0
	ry := rotY * math.Pi / 180.0
	rz := rotZ * math.Pi / 180.0

	cosX, sinX := math.Cos(rx), math.Sin(rx)
	cosY, sinY := math.Cos(ry), math.Sin(ry)
	cosZ, sinZ := math.Cos(rz), math.Sin(rz)

	// Snap the half turn values so a 180° rotation maps coordinates exactly
	cosX, sinX = snap(cosX), snap(sinX)
	cosY, sinY = snap(cosY), snap(sinY)
	cosZ, sinZ = snap(cosZ), snap(sinZ)

	return Transform{
		M: [9]float64{
			cosY * cosZ, cosY * sinZ, -sinY,
			sinX*sinY*cosZ - cosX*sinZ, sinX*sinY*sinZ + cosX*cosZ, sinX * cosY,
			cosX*sinY*cosZ + sinX*sinZ, cosX*sinY*sinZ - sinX*cosZ, cosX * cosY,
		},
		T: [3]float64{tx, ty, tz},
	}
}

// TranslationTransform creates a pure translation
func TranslationTransform(tx, ty, tz float64) Transform {
	t := Identity()
	t.T = [3]float64{tx, ty, tz}
	return t
}

func snap(v float64) float64 {
	const eps = 1e-12
	switch {
	case math.Abs(v) < eps:
		return 0
	case math.Abs(v-1) < eps:
		return 1
	case math.Abs(v+1) < eps:
		return -1
	}
	return v
}

// Apply transforms a point
func (t Transform) Apply(v Vector3) Vector3 {
	d := t.ApplyDirection(v)
	return Vector3{
		d.X + float32(t.T[0]),
		d.Y + float32(t.T[1]),
		d.Z + float32(t.T[2]),
	}
}

// ApplyDirection transforms a direction, ignoring the translation
func (t Transform) ApplyDirection(v Vector3) Vector3 {
	x, y, z := float64(v.X), float64(v.Y), float64(v.Z)
	m := t.M
	return Vector3{
		float32(x*m[0] + y*m[3] + z*m[6]),
		float32(x*m[1] + y*m[4] + z*m[7]),
		float32(x*m[2] + y*m[5] + z*m[8]),
	}
}

// IsIdentity reports whether t leaves every point unchanged
func (t Transform) IsIdentity() bool {
	return t == Identity()
}

// String formats the transform as a 3MF matrix attribute:
// m11 m12 m13 m21 m22 m23 m31 m32 m33 tx ty tz
func (t Transform) String() string {
	m := t.M
	if m == Identity().M {
		return fmt.Sprintf("1 0 0 0 1 0 0 0 1 %.2f %.2f %.2f", t.T[0], t.T[1], t.T[2])
	}
	// Use %.8f for precision to avoid rounding errors
	return fmt.Sprintf("%.8f %.8f %.8f %.8f %.8f %.8f %.8f %.8f %.8f %.2f %.2f %.2f",
		m[0], m[1], m[2],
		m[3], m[4], m[5],
		m[6], m[7], m[8],
		t.T[0], t.T[1], t.T[2])
}

// ParseTransform parses a 3MF matrix attribute. An empty string is the
// identity.
func ParseTransform(s string) (Transform, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Identity(), nil
	}
	if len(fields) != 12 {
		return Transform{}, fmt.Errorf("transform needs 12 values, got %d", len(fields))
	}

	var values [12]float64
	for i, field := range fields {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return Transform{}, fmt.Errorf("invalid transform value %q: %w", field, err)
		}
		values[i] = v
	}

	var t Transform
	copy(t.M[:], values[:9])
	copy(t.T[:], values[9:])
	return t, nil
}

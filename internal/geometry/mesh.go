package geometry

import (
	"github.com/chewxy/math32"
)

// Vector3 represents a 3D vector
type Vector3 struct {
	X, Y, Z float32
}

// Add returns v + o
func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o
func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Cross returns the cross product v × o
func (v Vector3) Cross(o Vector3) Vector3 {
	return Vector3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Length returns the Euclidean length of v
func (v Vector3) Length() float32 {
	return math32.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalize returns v scaled to unit length, or the zero vector
func (v Vector3) Normalize() Vector3 {
	l := v.Length()
	if l == 0 || math32.IsNaN(l) {
		return Vector3{}
	}
	return Vector3{v.X / l, v.Y / l, v.Z / l}
}

// FaceNormal returns the unit normal of the triangle a, b, c using the
// right-hand rule
func FaceNormal(a, b, c Vector3) Vector3 {
	return b.Sub(a).Cross(c.Sub(a)).Normalize()
}

// Mesh is a non-indexed triangle list: every three consecutive positions
// form one triangle. Normals, when present, run parallel to Positions.
type Mesh struct {
	Positions []Vector3
	Normals   []Vector3
}

// TriangleCount returns the number of triangles in the mesh
func (m *Mesh) TriangleCount() int {
	return len(m.Positions) / 3
}

// IsEmpty reports whether the mesh has no triangles
func (m *Mesh) IsEmpty() bool {
	return m.TriangleCount() == 0
}

// Triangle returns the three corners of triangle i
func (m *Mesh) Triangle(i int) (a, b, c Vector3) {
	return m.Positions[3*i], m.Positions[3*i+1], m.Positions[3*i+2]
}

// HasNormals reports whether every position carries a normal
func (m *Mesh) HasNormals() bool {
	return len(m.Normals) == len(m.Positions) && len(m.Normals) > 0
}

// Append concatenates the triangles of other onto m. Normals are dropped
// and must be recomputed.
func (m *Mesh) Append(other *Mesh) {
	m.Positions = append(m.Positions, other.Positions...)
	m.Normals = nil
}

// ComputeVertexNormals assigns every vertex the normal of its triangle
func (m *Mesh) ComputeVertexNormals() {
	m.Normals = make([]Vector3, len(m.Positions))
	for i := 0; i < m.TriangleCount(); i++ {
		n := FaceNormal(m.Triangle(i))
		m.Normals[3*i] = n
		m.Normals[3*i+1] = n
		m.Normals[3*i+2] = n
	}
}

// Translate moves every vertex by (dx, dy, dz)
func (m *Mesh) Translate(dx, dy, dz float32) {
	for i := range m.Positions {
		m.Positions[i].X += dx
		m.Positions[i].Y += dy
		m.Positions[i].Z += dz
	}
}

// Transform applies t to every vertex and rotates the normals with it
func (m *Mesh) Transform(t Transform) {
	for i, p := range m.Positions {
		m.Positions[i] = t.Apply(p)
	}
	for i, n := range m.Normals {
		m.Normals[i] = t.ApplyDirection(n).Normalize()
	}
}

// RotateX rotates the mesh about the X axis by degrees
func (m *Mesh) RotateX(degrees float64) {
	m.Transform(RotationTransform(degrees, 0, 0, 0, 0, 0))
}

// ScaleXY scales X and Y by s while leaving Z untouched. Normals follow
// the inverse transpose of the scale.
func (m *Mesh) ScaleXY(s float32) {
	if s == 0 {
		return
	}
	for i := range m.Positions {
		m.Positions[i].X *= s
		m.Positions[i].Y *= s
	}
	for i, n := range m.Normals {
		m.Normals[i] = Vector3{n.X / s, n.Y / s, n.Z}.Normalize()
	}
}

// Bounds returns the axis-aligned bounding box of the mesh
func (m *Mesh) Bounds() (*BoundingBox, error) {
	return CalculateBoundingBox(m.Positions)
}

package geometry

// Extrude builds a closed solid from a shape. The front cap lies at z=0,
// the back cap at z=-depth, and the side walls connect every ring edge.
// The result is a non-indexed triangle list with outward facing winding.
// When the holes cannot be triangulated together with the outer ring, the
// shape is extruded without them.
func Extrude(shape Shape, depth float64) *Mesh {
	points, tris, err := Triangulate(shape)
	if err != nil && len(shape.Holes) > 0 {
		shape = Shape{Outer: shape.Outer}
		points, tris, err = Triangulate(shape)
	}
	if err != nil || len(tris) == 0 {
		return &Mesh{}
	}

	front := float32(0)
	back := float32(-depth)
	at := func(p Point, z float32) Vector3 {
		return Vector3{float32(p.X), float32(p.Y), z}
	}

	mesh := &Mesh{}
	for _, t := range tris {
		a, b, c := points[t[0]], points[t[1]], points[t[2]]
		mesh.Positions = append(mesh.Positions, at(a, front), at(b, front), at(c, front))
		mesh.Positions = append(mesh.Positions, at(a, back), at(c, back), at(b, back))
	}

	rings := append([][]Point{shape.Outer}, shape.Holes...)
	for _, ring := range rings {
		if len(ring) < 3 {
			continue
		}
		n := len(ring)
		for i := 0; i < n; i++ {
			p, q := ring[i], ring[(i+1)%n]
			mesh.Positions = append(mesh.Positions,
				at(p, front), at(p, back), at(q, front),
				at(q, front), at(p, back), at(q, back),
			)
		}
	}
	return mesh
}

package geometry

import (
	"errors"
	"fmt"

	"github.com/unixpickle/model3d/model2d"
)

// ErrSharedVertex is returned when two rings of a shape touch in a vertex
var ErrSharedVertex = errors.New("rings share a vertex")

// Triangulate splits a shape into counter-clockwise triangles. The returned
// indices refer to the returned point slice, which holds every distinct
// ring vertex.
func Triangulate(shape Shape) (points []Point, tris [][3]int, err error) {
	if len(shape.Outer) < 3 {
		return nil, nil, nil
	}

	index := map[model2d.Coord]int{}
	mesh := model2d.NewMesh()

	// model2d expects outward normals: the outer ring clockwise and
	// holes counter-clockwise
	addRing := func(ring []Point, outer bool) error {
		ring = orient(ring, !outer)
		coords := make([]model2d.Coord, len(ring))
		for i, p := range ring {
			c := model2d.XY(p.X, p.Y)
			if _, ok := index[c]; ok {
				return fmt.Errorf("vertex (%g, %g): %w", p.X, p.Y, ErrSharedVertex)
			}
			index[c] = len(points)
			points = append(points, p)
			coords[i] = c
		}
		for i := range coords {
			mesh.Add(&model2d.Segment{coords[i], coords[(i+1)%len(coords)]})
		}
		return nil
	}

	if err := addRing(shape.Outer, true); err != nil {
		return nil, nil, err
	}
	for _, hole := range shape.Holes {
		if len(hole) < 3 {
			continue
		}
		if err := addRing(hole, false); err != nil {
			return nil, nil, err
		}
	}

	coords, err := triangulateMesh(mesh)
	if err != nil {
		return nil, nil, err
	}

	tris = make([][3]int, 0, len(coords))
	for _, c := range coords {
		t := [3]int{index[c[0]], index[c[1]], index[c[2]]}
		area := cross(points[t[0]], points[t[1]], points[t[2]])
		switch {
		case area < 0:
			t[1], t[2] = t[2], t[1]
		case area == 0:
			continue
		}
		tris = append(tris, t)
	}
	return points, tris, nil
}

// triangulateMesh turns the panics model2d raises on self-intersecting or
// non-manifold input into an error
func triangulateMesh(mesh *model2d.Mesh) (tris [][3]model2d.Coord, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("triangulate: %v", r)
		}
	}()
	return model2d.TriangulateMesh(mesh), nil
}

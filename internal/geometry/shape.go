package geometry

import (
	"math"

	"github.com/philipparndt/layerprint/internal/models"
)

// DefaultCurveSegments is the tessellation used for quadratic segments
// when no explicit detail level is given
const DefaultCurveSegments = 6

// Point is a 2D point in image space
type Point struct {
	X, Y float64
}

// Shape is one filled region: an outer contour with optional holes
type Shape struct {
	Outer []Point
	Holes [][]Point
}

// Contour flattens a path into a closed point ring. Quadratic segments are
// sampled curveSegments times; the start point of the path is taken from
// its first segment.
func Contour(path models.VectorPath, curveSegments int) []Point {
	if curveSegments < 1 {
		curveSegments = 1
	}
	if len(path.Segments) == 0 {
		return nil
	}

	first := path.Segments[0]
	points := []Point{{first.X1, first.Y1}}
	for _, seg := range path.Segments {
		switch seg.Type {
		case models.SegmentQuadratic:
			for i := 1; i <= curveSegments; i++ {
				t := float64(i) / float64(curveSegments)
				mt := 1 - t
				points = append(points, Point{
					X: mt*mt*seg.X1 + 2*mt*t*seg.X2 + t*t*seg.X3,
					Y: mt*mt*seg.Y1 + 2*mt*t*seg.Y2 + t*t*seg.Y3,
				})
			}
		default:
			points = append(points, Point{seg.X2, seg.Y2})
		}
	}
	return cleanRing(points)
}

// cleanRing drops repeated points, the closing duplicate and collinear
// vertices
func cleanRing(points []Point) []Point {
	const eps = 1e-9

	deduped := make([]Point, 0, len(points))
	for _, p := range points {
		if len(deduped) > 0 && samePoint(deduped[len(deduped)-1], p, eps) {
			continue
		}
		deduped = append(deduped, p)
	}
	for len(deduped) > 1 && samePoint(deduped[0], deduped[len(deduped)-1], eps) {
		deduped = deduped[:len(deduped)-1]
	}

	// Remove collinear vertices until the ring is stable
	ring := deduped
	for changed := true; changed && len(ring) >= 3; {
		changed = false
		out := make([]Point, 0, len(ring))
		n := len(ring)
		for i := 0; i < n; i++ {
			prev := ring[(i+n-1)%n]
			next := ring[(i+1)%n]
			if math.Abs(cross(prev, ring[i], next)) <= eps {
				changed = true
				continue
			}
			out = append(out, ring[i])
		}
		if changed && len(out) < 3 {
			return nil
		}
		ring = out
	}
	if len(ring) < 3 {
		return nil
	}
	return ring
}

func samePoint(a, b Point, eps float64) bool {
	return math.Abs(a.X-b.X) <= eps && math.Abs(a.Y-b.Y) <= eps
}

// cross returns the z component of (b - a) × (c - b)
func cross(a, b, c Point) float64 {
	return (b.X-a.X)*(c.Y-b.Y) - (b.Y-a.Y)*(c.X-b.X)
}

// SignedArea returns the signed area of a ring, positive when
// counter-clockwise in a right-handed frame
func SignedArea(ring []Point) float64 {
	area := 0.0
	n := len(ring)
	for i := 0; i < n; i++ {
		a, b := ring[i], ring[(i+1)%n]
		area += a.X*b.Y - b.X*a.Y
	}
	return area / 2
}

func reversed(ring []Point) []Point {
	out := make([]Point, len(ring))
	for i, p := range ring {
		out[len(ring)-1-i] = p
	}
	return out
}

// orient returns ring wound counter-clockwise when ccw is true and
// clockwise otherwise
func orient(ring []Point, ccw bool) []Point {
	if (SignedArea(ring) > 0) != ccw {
		return reversed(ring)
	}
	return ring
}

// Shapes converts the paths of one layer into fillable shapes. Hole paths
// are only used through the HoleChildren of their parent; orphan holes are
// not drawn. Degenerate outer contours are skipped.
func Shapes(paths []models.VectorPath, curveSegments int) []Shape {
	var shapes []Shape
	for i, path := range paths {
		if path.IsHole {
			continue
		}
		outer := Contour(path, curveSegments)
		if len(outer) < 3 || math.Abs(SignedArea(outer)) < minArea {
			continue
		}

		shape := Shape{Outer: orient(outer, true)}
		for _, child := range path.HoleChildren {
			if child < 0 || child >= len(paths) || child == i {
				continue
			}
			hole := Contour(paths[child], curveSegments)
			if len(hole) < 3 || math.Abs(SignedArea(hole)) < minArea {
				continue
			}
			shape.Holes = append(shape.Holes, orient(hole, false))
		}
		shapes = append(shapes, shape)
	}
	return shapes
}

// minArea is the smallest contour area treated as a real shape
const minArea = 1e-9

package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipparndt/layerprint/internal/models"
	"github.com/philipparndt/layerprint/internal/stack"
)

func line(x1, y1, x2, y2 float64) models.Segment {
	return models.Segment{Type: models.SegmentLine, X1: x1, Y1: y1, X2: x2, Y2: y2}
}

func rect(x, y, w, h float64) models.VectorPath {
	return models.VectorPath{Segments: []models.Segment{
		line(x, y, x+w, y),
		line(x+w, y, x+w, y+h),
		line(x+w, y+h, x, y+h),
		line(x, y+h, x, y),
	}}
}

func triangleArea(points []Point, tris [][3]int) float64 {
	area := 0.0
	for _, t := range tris {
		area += math.Abs(cross(points[t[0]], points[t[1]], points[t[2]])) / 2
	}
	return area
}

func TestContour_Lines(t *testing.T) {
	ring := Contour(rect(0, 0, 1, 1), DefaultCurveSegments)
	assert.Equal(t, []Point{{0, 0}, {1, 0}, {1, 1}, {0, 1}}, ring)
}

func TestContour_QuadraticSegments(t *testing.T) {
	path := models.VectorPath{Segments: []models.Segment{
		{Type: models.SegmentQuadratic, X1: 0, Y1: 0, X2: 5, Y2: 10, X3: 10, Y3: 0},
		line(10, 0, 0, 0),
	}}

	tests := []struct {
		segments int
		want     int
	}{
		{segments: 6, want: 7},
		{segments: 2, want: 3},
		{segments: 0, want: 0}, // clamped to one segment, leaving a line
	}
	for _, tt := range tests {
		ring := Contour(path, tt.segments)
		assert.Len(t, ring, tt.want, "curve segments %d", tt.segments)
	}

	ring := Contour(path, 2)
	assert.InDelta(t, 5.0, ring[1].X, 1e-9)
	assert.InDelta(t, 5.0, ring[1].Y, 1e-9)
}

func TestContour_DropsCollinearPoints(t *testing.T) {
	path := models.VectorPath{Segments: []models.Segment{
		line(0, 0, 1, 0),
		line(1, 0, 2, 0),
		line(2, 0, 2, 2),
		line(2, 2, 0, 2),
		line(0, 2, 0, 0),
	}}
	assert.Len(t, Contour(path, 1), 4)
}

func TestShapes_OrientationAndHoles(t *testing.T) {
	hole := rect(4, 4, 2, 2)
	hole.IsHole = true
	outer := rect(0, 0, 10, 10)
	outer.HoleChildren = []int{1, 7}

	orphan := rect(20, 20, 1, 1)
	orphan.IsHole = true

	shapes := Shapes([]models.VectorPath{outer, hole, orphan}, DefaultCurveSegments)
	require.Len(t, shapes, 1)
	assert.Greater(t, SignedArea(shapes[0].Outer), 0.0)
	require.Len(t, shapes[0].Holes, 1)
	assert.Less(t, SignedArea(shapes[0].Holes[0]), 0.0)
}

func TestTriangulate_Square(t *testing.T) {
	points, tris, err := Triangulate(Shape{Outer: []Point{{0, 0}, {1, 0}, {1, 1}, {0, 1}}})
	require.NoError(t, err)
	assert.Len(t, tris, 2)
	assert.InDelta(t, 1.0, triangleArea(points, tris), 1e-9)
}

func TestTriangulate_Concave(t *testing.T) {
	// L shape
	outer := []Point{{0, 0}, {4, 0}, {4, 1}, {1, 1}, {1, 4}, {0, 4}}
	points, tris, err := Triangulate(Shape{Outer: outer})
	require.NoError(t, err)
	assert.Len(t, tris, 4)
	assert.InDelta(t, 7.0, triangleArea(points, tris), 1e-9)
	for _, tri := range tris {
		assert.Greater(t, cross(points[tri[0]], points[tri[1]], points[tri[2]]), 0.0)
	}
}

func TestTriangulate_WithHoles(t *testing.T) {
	shape := Shape{
		Outer: []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}},
		Holes: [][]Point{
			orient([]Point{{2, 2}, {4, 2}, {4, 4}, {2, 4}}, false),
			orient([]Point{{6, 6}, {8, 6}, {8, 8}, {6, 8}}, false),
		},
	}
	points, tris, err := Triangulate(shape)
	require.NoError(t, err)
	assert.Len(t, tris, 14)
	assert.InDelta(t, 92.0, triangleArea(points, tris), 1e-9)
	for _, tri := range tris {
		assert.Greater(t, cross(points[tri[0]], points[tri[1]], points[tri[2]]), 0.0)
	}
}

func TestExtrude_UnitSquare(t *testing.T) {
	mesh := Extrude(Shape{Outer: []Point{{0, 0}, {1, 0}, {1, 1}, {0, 1}}}, 1)
	assert.Equal(t, 12, mesh.TriangleCount())

	bbox, err := mesh.Bounds()
	require.NoError(t, err)
	assert.Equal(t, -1.0, bbox.MinZ)
	assert.Equal(t, 0.0, bbox.MaxZ)
}

func TestTriangulate_SharedVertex(t *testing.T) {
	shape := Shape{
		Outer: []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}},
		Holes: [][]Point{{{0, 0}, {4, 2}, {2, 4}}},
	}
	_, _, err := Triangulate(shape)
	assert.ErrorIs(t, err, ErrSharedVertex)

	// the outer ring is still extruded
	mesh := Extrude(shape, 1)
	assert.Equal(t, 12, mesh.TriangleCount())
}

func TestExtrude_RingIsClosed(t *testing.T) {
	shape := Shape{
		Outer: []Point{{0, 0}, {6, 0}, {6, 6}, {0, 6}},
		Holes: [][]Point{orient([]Point{{2, 2}, {4, 2}, {4, 4}, {2, 4}}, false)},
	}
	mesh := Extrude(shape, 2)
	require.False(t, mesh.IsEmpty())

	// every directed edge must be matched by its reverse
	type edge struct{ a, b Vector3 }
	edges := map[edge]int{}
	volume := 0.0
	for i := 0; i < mesh.TriangleCount(); i++ {
		a, b, c := mesh.Triangle(i)
		edges[edge{a, b}]++
		edges[edge{b, c}]++
		edges[edge{c, a}]++
		volume += float64(a.X*(b.Y*c.Z-b.Z*c.Y)-a.Y*(b.X*c.Z-b.Z*c.X)+a.Z*(b.X*c.Y-b.Y*c.X)) / 6
	}
	for e, n := range edges {
		assert.Equal(t, n, edges[edge{e.b, e.a}], "edge %v", e)
	}
	assert.InDelta(t, 64.0, volume, 1e-3)
}

func TestBuildLayerMesh_SpanAndNormals(t *testing.T) {
	span := stack.Span{ZStart: 2, Depth: 1.5}
	mesh := BuildLayerMesh([]models.VectorPath{rect(0, 0, 4, 2)}, span, DefaultCurveSegments)
	require.Equal(t, 12, mesh.TriangleCount())
	require.True(t, mesh.HasNormals())

	bbox, err := mesh.Bounds()
	require.NoError(t, err)
	assert.InDelta(t, 2.0, bbox.MinZ, 1e-6)
	assert.InDelta(t, 3.5, bbox.MaxZ, 1e-6)
	// Image Y runs down; the model Y runs up
	assert.InDelta(t, -2.0, bbox.MinY, 1e-6)
	assert.InDelta(t, 0.0, bbox.MaxY, 1e-6)

	center := Vector3{X: 2, Y: -1, Z: 2.75}
	for i := 0; i < mesh.TriangleCount(); i++ {
		a, b, c := mesh.Triangle(i)
		centroid := Vector3{
			X: (a.X + b.X + c.X) / 3,
			Y: (a.Y + b.Y + c.Y) / 3,
			Z: (a.Z + b.Z + c.Z) / 3,
		}
		out := centroid.Sub(center)
		n := mesh.Normals[3*i]
		dot := n.X*out.X + n.Y*out.Y + n.Z*out.Z
		assert.Greater(t, dot, float32(0), "triangle %d faces inward", i)
	}
}

func TestBuild_DropsEmptyLayers(t *testing.T) {
	degenerate := models.VectorPath{Segments: []models.Segment{
		line(0, 0, 5, 0),
		line(5, 0, 0, 0),
	}}
	img := &models.TracedImage{
		Width:  10,
		Height: 10,
		Palette: []models.PaletteColor{
			{R: 255}, {G: 255}, {B: 255},
		},
		Layers: []models.Layer{
			{ColorIndex: 0, Paths: []models.VectorPath{rect(0, 0, 2, 2)}},
			{ColorIndex: 1, Paths: []models.VectorPath{degenerate}},
			{ColorIndex: 2, Paths: []models.VectorPath{rect(1, 1, 3, 3), rect(5, 5, 1, 1)}},
		},
	}
	spans := stack.Build(3, models.ThicknessConfig{Default: 2}, models.BaseLayerConfig{Enabled: true, Index: 0})

	layers := Build(img, spans, DefaultCurveSegments)
	require.Len(t, layers, 2)
	assert.Equal(t, 0, layers[0].Index)
	assert.Equal(t, 2, layers[1].Index)
	assert.Equal(t, models.PaletteColor{B: 255}, layers[1].Color)
	assert.Equal(t, 24, layers[1].Mesh.TriangleCount())
	assert.Equal(t, 2.0, layers[1].ZStart)
	assert.Equal(t, 4.0, layers[1].Top())
}

func TestFitToBed_NeverEnlarges(t *testing.T) {
	layers := []*StackedLayer{{Mesh: BuildLayerMesh([]models.VectorPath{rect(0, 0, 10, 20)}, stack.Span{Depth: 1}, 1)}}
	before := append([]Vector3(nil), layers[0].Mesh.Positions...)

	scale := FitToBed(layers, models.BedConfig{Width: 256, Depth: 256, Margin: 5})
	assert.Equal(t, 1.0, scale)
	assert.Equal(t, before, layers[0].Mesh.Positions)
}

func TestFitToBed_Shrinks(t *testing.T) {
	layers := []*StackedLayer{
		{Mesh: BuildLayerMesh([]models.VectorPath{rect(0, 0, 400, 100)}, stack.Span{Depth: 2}, 1)},
		{Mesh: BuildLayerMesh([]models.VectorPath{rect(0, 0, 100, 50)}, stack.Span{ZStart: 2, Depth: 1}, 1)},
	}

	scale := FitToBed(layers, models.BedConfig{Width: 256, Depth: 256, Margin: 3})
	assert.InDelta(t, 0.625, scale, 1e-12)

	bbox, err := CalculateCombinedBoundingBox(layers)
	require.NoError(t, err)
	assert.InDelta(t, 250.0, bbox.Width(), 1e-3)
	assert.InDelta(t, 62.5, bbox.Height(), 1e-3)
	assert.InDelta(t, 3.0, bbox.Depth(), 1e-6, "Z is never scaled")

	for _, layer := range layers {
		for _, n := range layer.Mesh.Normals {
			assert.InDelta(t, 1.0, n.Length(), 1e-5)
		}
	}
}

func TestFitScale(t *testing.T) {
	tests := []struct {
		name string
		bbox *BoundingBox
		bed  models.BedConfig
		want float64
	}{
		{"nil box", nil, models.BedConfig{Width: 100, Depth: 100}, 1},
		{"zero width", &BoundingBox{MaxY: 500}, models.BedConfig{Width: 100, Depth: 100}, 1},
		{"depth limited", &BoundingBox{MaxX: 50, MaxY: 400}, models.BedConfig{Width: 220, Depth: 220, Margin: 10}, 0.5},
		{"margin larger than bed", &BoundingBox{MaxX: 10, MaxY: 10}, models.BedConfig{Width: 10, Depth: 10, Margin: 20}, 0.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, FitScale(tt.bbox, tt.bed), 1e-12)
		})
	}
}

func TestBedPlacement_CentersFootprint(t *testing.T) {
	layers := []*StackedLayer{{Mesh: BuildLayerMesh([]models.VectorPath{rect(0, 0, 20, 10)}, stack.Span{Depth: 1}, 1)}}

	tr := BedPlacement(layers, models.BedConfig{Width: 256, Depth: 256})
	assert.Equal(t, "1 0 0 0 1 0 0 0 1 118.00 133.00 0.00", tr.String())
}

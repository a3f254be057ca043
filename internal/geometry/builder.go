package geometry

import (
	"github.com/philipparndt/layerprint/internal/models"
	"github.com/philipparndt/layerprint/internal/stack"
)

// StackedLayer is one extruded output layer ready for export
type StackedLayer struct {
	Index  int
	Color  models.PaletteColor
	ZStart float64
	Depth  float64
	Mesh   *Mesh
}

// Top returns the upper Z coordinate of the layer
func (l *StackedLayer) Top() float64 {
	return l.ZStart + l.Depth
}

// Build extrudes every layer of a merged image at its span. Layers are
// returned in ascending index order; layers without a span or without any
// triangles are omitted.
func Build(img *models.TracedImage, spans stack.Spans, curveSegments int) []*StackedLayer {
	if curveSegments < 1 {
		curveSegments = 1
	}

	var layers []*StackedLayer
	for _, idx := range spans.Indices() {
		if idx < 0 || idx >= len(img.Layers) || idx >= len(img.Palette) {
			continue
		}
		span := spans[idx]

		mesh := BuildLayerMesh(img.Layers[idx].Paths, span, curveSegments)
		if mesh.IsEmpty() {
			continue
		}

		layers = append(layers, &StackedLayer{
			Index:  idx,
			Color:  img.Palette[idx],
			ZStart: span.ZStart,
			Depth:  span.Depth,
			Mesh:   mesh,
		})
	}
	return layers
}

// BuildLayerMesh extrudes all paths of one layer and merges them into a
// single mesh placed at the span. Normals are computed on the merged result.
func BuildLayerMesh(paths []models.VectorPath, span stack.Span, curveSegments int) *Mesh {
	merged := &Mesh{}
	for _, shape := range Shapes(paths, curveSegments) {
		solid := Extrude(shape, span.Depth)
		if solid.IsEmpty() {
			continue
		}
		solid.RotateX(180)
		solid.Translate(0, 0, float32(span.ZStart))
		merged.Append(solid)
	}
	if !merged.IsEmpty() {
		merged.ComputeVertexNormals()
	}
	return merged
}

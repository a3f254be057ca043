package export

import (
	"fmt"

	"github.com/philipparndt/layerprint/internal/geometry"
	"github.com/philipparndt/layerprint/internal/stl"
)

const stlHeader = "Binary STL written by layerprint"

// ExportStl writes one binary STL file per layer, named
// <baseName>_L<index>_<RRGGBB>.stl
func ExportStl(layers []*geometry.StackedLayer, baseName string) ([]File, error) {
	layers, err := exportable(layers)
	if err != nil {
		return nil, err
	}

	writer := stl.NewWriter(stlHeader)
	files := make([]File, 0, len(layers))
	for _, layer := range layers {
		data, err := writer.Encode(ToSTL(layer.Mesh, fmt.Sprintf("layer_%d", layer.Index)))
		if err != nil {
			return nil, fmt.Errorf("error encoding layer %d: %w", layer.Index, err)
		}
		files = append(files, File{
			Name:        fmt.Sprintf("%s_L%d_%s.stl", baseName, layer.Index, HexColor(layer.Color)),
			ContentType: ContentTypeSTL,
			Data:        data,
		})
	}
	return files, nil
}

// ToSTL converts a mesh to STL facets. The facet normal is the normalized
// average of the stored vertex normals, or the edge cross product when the
// mesh carries no usable normals.
func ToSTL(mesh *geometry.Mesh, name string) *stl.Mesh {
	out := &stl.Mesh{Name: name, Triangles: make([]stl.Triangle, 0, mesh.TriangleCount())}
	hasNormals := mesh.HasNormals()

	for i := 0; i < mesh.TriangleCount(); i++ {
		a, b, c := mesh.Triangle(i)

		var normal geometry.Vector3
		if hasNormals {
			normal = mesh.Normals[3*i].Add(mesh.Normals[3*i+1]).Add(mesh.Normals[3*i+2]).Normalize()
		}
		if normal == (geometry.Vector3{}) {
			normal = geometry.FaceNormal(a, b, c)
		}

		out.Triangles = append(out.Triangles, stl.Triangle{
			Normal: stlVector(normal),
			V1:     stlVector(a),
			V2:     stlVector(b),
			V3:     stlVector(c),
		})
	}
	return out
}

func stlVector(v geometry.Vector3) stl.Vector3 {
	return stl.Vector3{X: v.X, Y: v.Y, Z: v.Z}
}

package export

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"

	"github.com/philipparndt/layerprint/internal/geometry"
)

// ExportObjMtl writes all layers into one OBJ file and a companion MTL
// file with one material per distinct layer color
func ExportObjMtl(layers []*geometry.StackedLayer, baseName string) (obj File, mtl File, err error) {
	layers, err = exportable(layers)
	if err != nil {
		return File{}, File{}, err
	}

	mtlName := baseName + ".mtl"

	var objBuf bytes.Buffer
	w := bufio.NewWriter(&objBuf)
	fmt.Fprintf(w, "mtllib %s\n", mtlName)

	offset := 1
	for _, layer := range layers {
		mesh := layer.Mesh
		fmt.Fprintf(w, "o layer_%d\n", layer.Index)
		for _, p := range mesh.Positions {
			fmt.Fprintf(w, "v %s %s %s\n", formatFloat(p.X), formatFloat(p.Y), formatFloat(p.Z))
		}

		normals := mesh.Normals
		if len(normals) == 0 {
			normals = faceNormals(mesh)
		}
		for _, n := range normals {
			fmt.Fprintf(w, "vn %s %s %s\n", formatFloat(n.X), formatFloat(n.Y), formatFloat(n.Z))
		}

		fmt.Fprintf(w, "usemtl %s\n", MaterialName(layer.Color))
		for i := 0; i < mesh.TriangleCount(); i++ {
			a, b, c := offset+3*i, offset+3*i+1, offset+3*i+2
			fmt.Fprintf(w, "f %d//%d %d//%d %d//%d\n", a, a, b, b, c, c)
		}
		offset += len(mesh.Positions)
	}
	if err := w.Flush(); err != nil {
		return File{}, File{}, fmt.Errorf("error writing OBJ: %w", err)
	}

	return File{Name: baseName + ".obj", ContentType: ContentTypeText, Data: objBuf.Bytes()},
		File{Name: mtlName, ContentType: ContentTypeText, Data: buildMtl(layers, baseName)},
		nil
}

// buildMtl lists one material per distinct color in first-use order
func buildMtl(layers []*geometry.StackedLayer, baseName string) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s.mtl\n", baseName)

	seen := make(map[string]bool)
	for _, layer := range layers {
		name := MaterialName(layer.Color)
		if seen[name] {
			continue
		}
		seen[name] = true

		c := layerColor(layer.Color)
		fmt.Fprintf(&buf, "newmtl %s\n", name)
		buf.WriteString("Ka 0 0 0\n")
		fmt.Fprintf(&buf, "Kd %.4f %.4f %.4f\n", c.R, c.G, c.B)
		buf.WriteString("Ks 0 0 0\n")
		buf.WriteString("d 1\n")
		buf.WriteString("illum 1\n\n")
	}
	return buf.Bytes()
}

// faceNormals returns a per-vertex face normal list for meshes without
// stored normals
func faceNormals(mesh *geometry.Mesh) []geometry.Vector3 {
	normals := make([]geometry.Vector3, len(mesh.Positions))
	for i := 0; i < mesh.TriangleCount(); i++ {
		n := geometry.FaceNormal(mesh.Triangle(i))
		normals[3*i], normals[3*i+1], normals[3*i+2] = n, n, n
	}
	return normals
}

func formatFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'f', -1, 32)
}

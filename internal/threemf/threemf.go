package threemf

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/philipparndt/layerprint/internal/archive"
	"github.com/philipparndt/layerprint/internal/geometry"
	"github.com/philipparndt/layerprint/internal/models"
)

// Part names inside a 3MF package
const (
	ModelPath        = "3D/3dmodel.model"
	ContentTypesPath = "[Content_Types].xml"
	RelsPath         = "_rels/.rels"
)

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
	<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
	<Default Extension="model" ContentType="application/vnd.ms-package.3dmanufacturing-3dmodel+xml"/>
</Types>`

const relsXML = `<?xml version="1.0" encoding="UTF-8"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
	<Relationship Id="rel0" Target="/3D/3dmodel.model" Type="http://schemas.microsoft.com/3dmanufacturing/2013/01/3dmodel"/>
</Relationships>`

// Reader reads 3MF files
type Reader struct{}

// Read reads and parses a 3MF file
func (r *Reader) Read(filename string) (*models.Model, error) {
	data, err := r.ReadModelXML(filename)
	if err != nil {
		return nil, err
	}
	return parseModel(data)
}

// ReadBytes parses a 3MF package held in memory
func (r *Reader) ReadBytes(data []byte) (*models.Model, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("error opening ZIP: %w", err)
	}
	raw, err := readModelFile(zr.File)
	if err != nil {
		return nil, err
	}
	return parseModel(raw)
}

// ReadModelXML returns the raw model XML of a 3MF file
func (r *Reader) ReadModelXML(filename string) ([]byte, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("error opening ZIP: %w", err)
	}
	defer zr.Close()

	return readModelFile(zr.File)
}

func readModelFile(files []*zip.File) ([]byte, error) {
	var modelFile *zip.File
	for _, f := range files {
		if f.Name == ModelPath {
			modelFile = f
			break
		}
	}

	if modelFile == nil {
		return nil, fmt.Errorf("%s not found in archive", ModelPath)
	}

	rc, err := modelFile.Open()
	if err != nil {
		return nil, fmt.Errorf("error opening model file: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("error reading model file: %w", err)
	}
	return data, nil
}

func parseModel(data []byte) (*models.Model, error) {
	var model models.Model
	if err := xml.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("error parsing XML: %w", err)
	}
	return &model, nil
}

// Writer writes 3MF packages
type Writer struct {
	zip *archive.Writer
}

// NewWriter creates a new Writer
func NewWriter() *Writer {
	return &Writer{zip: archive.NewWriter()}
}

// MarshalModel renders the model XML including the XML declaration
func (w *Writer) MarshalModel(model *models.Model) ([]byte, error) {
	modelXML, err := xml.MarshalIndent(model, "", "\t")
	if err != nil {
		return nil, fmt.Errorf("error marshaling XML: %w", err)
	}

	var buf bytes.Buffer
	buf.Grow(len(xml.Header) + len(modelXML))
	buf.WriteString(xml.Header)
	buf.Write(modelXML)
	return buf.Bytes(), nil
}

// Entries returns the package parts in archive order, followed by extra
func (w *Writer) Entries(model *models.Model, extra ...archive.Entry) ([]archive.Entry, error) {
	modelXML, err := w.MarshalModel(model)
	if err != nil {
		return nil, err
	}
	entries := []archive.Entry{
		{Name: ContentTypesPath, Data: []byte(contentTypesXML)},
		{Name: RelsPath, Data: []byte(relsXML)},
		{Name: ModelPath, Data: modelXML},
	}
	return append(entries, extra...), nil
}

// Write returns the complete 3MF package bytes
func (w *Writer) Write(model *models.Model, extra ...archive.Entry) ([]byte, error) {
	entries, err := w.Entries(model, extra...)
	if err != nil {
		return nil, err
	}
	data, err := w.zip.Write(entries)
	if err != nil {
		return nil, fmt.Errorf("error writing archive: %w", err)
	}
	return data, nil
}

// WriteFile writes the package to outputFile
func (w *Writer) WriteFile(outputFile string, model *models.Model, extra ...archive.Entry) error {
	entries, err := w.Entries(model, extra...)
	if err != nil {
		return err
	}

	outFile, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("error creating output file: %w", err)
	}
	defer outFile.Close()

	if _, err := w.zip.WriteTo(outFile, entries); err != nil {
		return fmt.Errorf("error writing archive: %w", err)
	}
	return outFile.Close()
}

// MaterialGroupID is the resource id of the base material group in
// generated models. Object ids start after it.
const MaterialGroupID = 1

// MaterialRef points at one entry of a base material group
type MaterialRef struct {
	Group int
	Index int
}

// BuildMeshXML builds the vertices and triangles XML from a mesh. Equal
// vertices are shared. When material is not nil every triangle is tagged
// with it.
func BuildMeshXML(mesh *geometry.Mesh, material *MaterialRef) *models.Mesh {
	// Build a map of unique vertices
	vertexMap := make(map[geometry.Vector3]int)
	var vertices []geometry.Vector3

	getVertexIndex := func(v geometry.Vector3) int {
		if idx, exists := vertexMap[v]; exists {
			return idx
		}
		vertexMap[v] = len(vertices)
		vertices = append(vertices, v)
		return len(vertices) - 1
	}

	type triangleIndices struct {
		V1, V2, V3 int
	}
	triangles := make([]triangleIndices, 0, mesh.TriangleCount())
	for i := 0; i < mesh.TriangleCount(); i++ {
		a, b, c := mesh.Triangle(i)
		triangles = append(triangles, triangleIndices{getVertexIndex(a), getVertexIndex(b), getVertexIndex(c)})
	}

	var verticesBuf strings.Builder
	verticesBuf.WriteString("\n")
	for _, v := range vertices {
		fmt.Fprintf(&verticesBuf, "\t\t\t\t\t<vertex x=\"%.6f\" y=\"%.6f\" z=\"%.6f\"/>\n", v.X, v.Y, v.Z)
	}
	verticesBuf.WriteString("\t\t\t\t")

	var trianglesBuf strings.Builder
	trianglesBuf.WriteString("\n")
	for _, tri := range triangles {
		if material != nil {
			fmt.Fprintf(&trianglesBuf, "\t\t\t\t\t<triangle v1=\"%d\" v2=\"%d\" v3=\"%d\" pid=\"%d\" p1=\"%d\"/>\n",
				tri.V1, tri.V2, tri.V3, material.Group, material.Index)
		} else {
			fmt.Fprintf(&trianglesBuf, "\t\t\t\t\t<triangle v1=\"%d\" v2=\"%d\" v3=\"%d\"/>\n", tri.V1, tri.V2, tri.V3)
		}
	}
	trianglesBuf.WriteString("\t\t\t\t")

	return &models.Mesh{
		Vertices:  &models.Vertices{RawContent: verticesBuf.String()},
		Triangles: &models.Triangles{RawContent: trianglesBuf.String()},
	}
}

// MeshStats counts the vertex and triangle elements of a parsed mesh
func MeshStats(mesh *models.Mesh) (vertices, triangles int) {
	if mesh == nil {
		return 0, 0
	}
	if mesh.Vertices != nil {
		vertices = strings.Count(mesh.Vertices.RawContent, "<vertex ")
	}
	if mesh.Triangles != nil {
		triangles = strings.Count(mesh.Triangles.RawContent, "<triangle ")
	}
	return vertices, triangles
}

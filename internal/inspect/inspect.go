package inspect

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"

	"github.com/philipparndt/layerprint/internal/geometry"
	"github.com/philipparndt/layerprint/internal/models"
	"github.com/philipparndt/layerprint/internal/stl"
	"github.com/philipparndt/layerprint/internal/threemf"
	"github.com/philipparndt/layerprint/internal/ui"
)

// ObjectSummary describes one object of a 3MF model
type ObjectSummary struct {
	ID        string
	Name      string
	Color     string
	Extruder  string
	Transform string
	Vertices  int
	Triangles int
}

// ModelSummary describes a 3MF model
type ModelSummary struct {
	Unit     string
	Metadata []models.Metadata
	Objects  []ObjectSummary
	Bambu    bool
}

// MeshSummary describes an STL mesh
type MeshSummary struct {
	Name      string
	Triangles int
	Bounds    *geometry.BoundingBox
}

// Inspector provides functionality to inspect 3MF and STL files
type Inspector struct {
	printer *ModelPrinter
}

// NewInspector creates a new Inspector
func NewInspector() *Inspector {
	return &Inspector{printer: NewModelPrinter()}
}

// Inspect reads and displays the contents of a 3MF or STL file
func (i *Inspector) Inspect(filename string) error {
	info, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("file not found: %s", filename)
	}

	ui.PrintHeader(fmt.Sprintf("Inspecting: %s", filename))

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".3mf":
		summary, err := i.Summarize3MF(filename)
		if err != nil {
			return fmt.Errorf("error reading 3MF file: %w", err)
		}
		i.printer.PrintModel(summary, info.Size())
	case ".stl":
		summary, err := i.SummarizeSTL(filename)
		if err != nil {
			return fmt.Errorf("error reading STL file: %w", err)
		}
		i.printer.PrintMesh(summary, info.Size())
	default:
		return fmt.Errorf("unsupported file type: %s", filename)
	}
	return nil
}

// PrintXML writes the highlighted model XML of a 3MF file to w
func (i *Inspector) PrintXML(w io.Writer, filename string) error {
	data, err := (&threemf.Reader{}).ReadModelXML(filename)
	if err != nil {
		return fmt.Errorf("error reading 3MF file: %w", err)
	}
	formatter := "terminal256"
	if os.Getenv("NO_COLOR") != "" {
		formatter = "noop"
	}
	return quick.Highlight(w, string(data), "xml", formatter, "monokai")
}

// Summarize3MF reads a 3MF file and collects its objects with their
// material colors, extruders and triangle counts
func (i *Inspector) Summarize3MF(filename string) (*ModelSummary, error) {
	model, err := (&threemf.Reader{}).Read(filename)
	if err != nil {
		return nil, err
	}
	settings, err := i.readSettings(filename)
	if err != nil {
		return nil, err
	}

	extruders := make(map[string]string)
	if settings != nil {
		for _, obj := range settings.Objects {
			for _, meta := range obj.Metadata {
				if meta.Key == "extruder" {
					extruders[obj.ID] = meta.Value
				}
			}
		}
	}

	transforms := make(map[string]string)
	for _, item := range model.Build.Items {
		transforms[item.ObjectID] = item.Transform
	}

	summary := &ModelSummary{
		Unit:     model.Unit,
		Metadata: model.Metadata,
		Bambu:    settings != nil,
	}
	for _, obj := range model.Resources.Objects {
		vertices, triangles := threemf.MeshStats(obj.Mesh)
		summary.Objects = append(summary.Objects, ObjectSummary{
			ID:        obj.ID,
			Name:      obj.Name,
			Color:     materialColor(model, obj),
			Extruder:  extruders[obj.ID],
			Transform: transforms[obj.ID],
			Vertices:  vertices,
			Triangles: triangles,
		})
	}
	return summary, nil
}

// materialColor returns the display color of the object's default material
func materialColor(model *models.Model, obj models.Object) string {
	group := model.Resources.BaseMaterials
	if group == nil || obj.PID != group.ID {
		return ""
	}
	idx, err := strconv.Atoi(obj.PIndex)
	if err != nil || idx < 0 || idx >= len(group.Bases) {
		return ""
	}
	return group.Bases[idx].DisplayColor
}

// readSettings reads the Bambu Studio settings if the archive has them
func (i *Inspector) readSettings(filename string) (*models.ModelSettings, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != threemf.SettingsPath {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()

		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, err
		}
		var settings models.ModelSettings
		if err := xml.Unmarshal(data, &settings); err != nil {
			return nil, fmt.Errorf("error parsing settings: %w", err)
		}
		return &settings, nil
	}
	return nil, nil
}

// SummarizeSTL reads an STL file and measures it
func (i *Inspector) SummarizeSTL(filename string) (*MeshSummary, error) {
	mesh, err := stl.NewParser().Parse(filename)
	if err != nil {
		return nil, err
	}

	points := make([]geometry.Vector3, 0, 3*len(mesh.Triangles))
	for _, tri := range mesh.Triangles {
		for _, v := range []stl.Vector3{tri.V1, tri.V2, tri.V3} {
			points = append(points, geometry.Vector3{X: v.X, Y: v.Y, Z: v.Z})
		}
	}

	summary := &MeshSummary{Name: mesh.Name, Triangles: len(mesh.Triangles)}
	if len(points) > 0 {
		summary.Bounds, err = geometry.CalculateBoundingBox(points)
		if err != nil {
			return nil, err
		}
	}
	return summary, nil
}

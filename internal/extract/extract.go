// Package extract splits a 3MF package back into one binary STL per object.
package extract

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/philipparndt/layerprint/internal/export"
	"github.com/philipparndt/layerprint/internal/geometry"
	"github.com/philipparndt/layerprint/internal/models"
	"github.com/philipparndt/layerprint/internal/stl"
	"github.com/philipparndt/layerprint/internal/threemf"
	"github.com/philipparndt/layerprint/internal/ui"
)

const stlHeader = "Binary STL extracted by layerprint"

// Extractor writes the objects of a 3MF model as STL files
type Extractor struct {
	// Placed applies the build item transforms so the STL files keep their
	// position on the bed
	Placed bool
}

// NewExtractor creates a new Extractor
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract writes every mesh object of the 3MF file to outputDir and returns
// the written paths
func (e *Extractor) Extract(filename string, outputDir string) ([]string, error) {
	model, err := (&threemf.Reader{}).Read(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading 3MF file: %w", err)
	}

	files, err := e.Files(model)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("error creating output directory: %w", err)
	}

	paths := make([]string, 0, len(files))
	for _, file := range files {
		path := filepath.Join(outputDir, file.Name)
		if err := os.WriteFile(path, file.Data, 0644); err != nil {
			return paths, fmt.Errorf("error writing %s: %w", path, err)
		}
		ui.PrintInfo(fmt.Sprintf("Extracted: %s", path))
		paths = append(paths, path)
	}
	return paths, nil
}

// Files converts the mesh objects of model into STL files named after the
// object and its material color
func (e *Extractor) Files(model *models.Model) ([]export.File, error) {
	transforms := make(map[string]string)
	for _, item := range model.Build.Items {
		transforms[item.ObjectID] = item.Transform
	}

	writer := stl.NewWriter(stlHeader)
	var files []export.File
	used := make(map[string]int)
	for _, obj := range model.Resources.Objects {
		if obj.Mesh == nil {
			continue
		}

		mesh, err := ParseMesh(obj.Mesh)
		if err != nil {
			return nil, fmt.Errorf("object %s: %w", obj.ID, err)
		}
		if mesh.IsEmpty() {
			continue
		}

		if e.Placed {
			t, err := geometry.ParseTransform(transforms[obj.ID])
			if err != nil {
				return nil, fmt.Errorf("object %s: %w", obj.ID, err)
			}
			mesh.Transform(t)
		}

		name := fileName(obj, model.Resources.BaseMaterials)
		if n := used[name]; n > 0 {
			used[name] = n + 1
			name = fmt.Sprintf("%s_%d", name, n)
		} else {
			used[name] = 1
		}

		data, err := writer.Encode(export.ToSTL(mesh, obj.Name))
		if err != nil {
			return nil, fmt.Errorf("object %s: %w", obj.ID, err)
		}
		files = append(files, export.File{Name: name + ".stl", ContentType: export.ContentTypeSTL, Data: data})
	}

	if len(files) == 0 {
		return nil, errors.New("no mesh objects found in 3MF file")
	}
	return files, nil
}

// fileName builds a file system safe name from the object name and, when
// the object references the material table, its color
func fileName(obj models.Object, materials *models.BaseMaterials) string {
	name := obj.Name
	if name == "" {
		name = "object_" + obj.ID
	}
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, name)

	if materials != nil && obj.PID == materials.ID {
		if idx, err := strconv.Atoi(obj.PIndex); err == nil && idx >= 0 && idx < len(materials.Bases) {
			color := strings.TrimPrefix(materials.Bases[idx].DisplayColor, "#")
			if len(color) > 6 {
				color = color[:6]
			}
			if color != "" {
				name += "_" + strings.ToUpper(color)
			}
		}
	}
	return name
}

// ParseMesh decodes the vertex and triangle elements of a 3MF mesh into a
// triangle list
func ParseMesh(mesh *models.Mesh) (*geometry.Mesh, error) {
	if mesh.Vertices == nil || mesh.Triangles == nil {
		return &geometry.Mesh{}, nil
	}

	var vertices []geometry.Vector3
	err := eachElement(mesh.Vertices.RawContent, "vertex", func(attrs []xml.Attr) error {
		var v [3]float32
		for i, key := range []string{"x", "y", "z"} {
			f, err := strconv.ParseFloat(attr(attrs, key), 32)
			if err != nil {
				return fmt.Errorf("vertex %d: invalid %s: %w", len(vertices), key, err)
			}
			v[i] = float32(f)
		}
		vertices = append(vertices, geometry.Vector3{X: v[0], Y: v[1], Z: v[2]})
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := &geometry.Mesh{}
	err = eachElement(mesh.Triangles.RawContent, "triangle", func(attrs []xml.Attr) error {
		for _, key := range []string{"v1", "v2", "v3"} {
			idx, err := strconv.Atoi(attr(attrs, key))
			if err != nil || idx < 0 || idx >= len(vertices) {
				return fmt.Errorf("triangle %d: invalid %s %q", out.TriangleCount(), key, attr(attrs, key))
			}
			out.Positions = append(out.Positions, vertices[idx])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// eachElement calls fn with the attributes of every element called name in
// the XML fragment
func eachElement(fragment, name string, fn func([]xml.Attr) error) error {
	decoder := xml.NewDecoder(strings.NewReader(fragment))
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("error parsing %s elements: %w", name, err)
		}
		if start, ok := token.(xml.StartElement); ok && start.Name.Local == name {
			if err := fn(start.Attr); err != nil {
				return err
			}
		}
	}
}

func attr(attrs []xml.Attr, name string) string {
	for _, a := range attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// Package export serializes stacked layers into OBJ+MTL, STL and 3MF, and
// traced layers into SVG.
package export

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/philipparndt/layerprint/internal/geometry"
	"github.com/philipparndt/layerprint/internal/models"
)

// Application is recorded in generated files
const Application = "layerprint"

// Content types handed to the download sink
const (
	ContentTypeText = "text/plain"
	ContentTypeSTL  = "application/sla"
	ContentType3MF  = "model/3mf"
)

// ErrMalformedMesh is returned when a layer mesh is not a valid triangle list
var ErrMalformedMesh = errors.New("malformed mesh")

// File is one serialized output
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// BaseName derives the output base name from the input file name and the
// tallest layer thickness, e.g. "logo_4mm"
func BaseName(input string, maxThickness float64) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "image"
	}
	return fmt.Sprintf("%s_%dmm", base, int(math.Round(maxThickness)))
}

// layerColor converts a palette color to a colorful color
func layerColor(c models.PaletteColor) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// HexColor returns the color as upper-case RRGGBB
func HexColor(c models.PaletteColor) string {
	return strings.ToUpper(strings.TrimPrefix(layerColor(c).Hex(), "#"))
}

// MaterialName returns the OBJ material name of a color
func MaterialName(c models.PaletteColor) string {
	return "mat_" + strings.TrimPrefix(layerColor(c).Hex(), "#")
}

// exportable validates layers and returns those with geometry, in order.
// Every serializer goes through this so they all drop the same layers.
func exportable(layers []*geometry.StackedLayer) ([]*geometry.StackedLayer, error) {
	out := make([]*geometry.StackedLayer, 0, len(layers))
	for i, layer := range layers {
		if layer == nil || layer.Mesh == nil {
			continue
		}
		if i > 0 && layers[i-1] != nil && layers[i-1].Index >= layer.Index {
			return nil, fmt.Errorf("layer %d out of order: %w", layer.Index, ErrMalformedMesh)
		}
		mesh := layer.Mesh
		if len(mesh.Positions)%3 != 0 {
			return nil, fmt.Errorf("layer %d has %d positions: %w", layer.Index, len(mesh.Positions), ErrMalformedMesh)
		}
		if len(mesh.Normals) != 0 && len(mesh.Normals) != len(mesh.Positions) {
			return nil, fmt.Errorf("layer %d has %d normals for %d positions: %w",
				layer.Index, len(mesh.Normals), len(mesh.Positions), ErrMalformedMesh)
		}
		for _, p := range mesh.Positions {
			if !finite(p) {
				return nil, fmt.Errorf("layer %d has a non-finite vertex: %w", layer.Index, ErrMalformedMesh)
			}
		}
		if mesh.IsEmpty() {
			continue
		}
		out = append(out, layer)
	}
	return out, nil
}

func finite(v geometry.Vector3) bool {
	for _, f := range []float32{v.X, v.Y, v.Z} {
		if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
			return false
		}
	}
	return true
}

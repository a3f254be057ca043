package inspect

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/philipparndt/layerprint/internal/ui"
)

// ModelPrinter handles printing model summaries
type ModelPrinter struct{}

// NewModelPrinter creates a new ModelPrinter
func NewModelPrinter() *ModelPrinter {
	return &ModelPrinter{}
}

// ParseTransformOffset extracts X, Y, Z offset from a transform matrix string
// Transform format: "m11 m12 m13 m21 m22 m23 m31 m32 m33 x y z"
func ParseTransformOffset(transform string) (x, y, z float64, ok bool) {
	parts := strings.Fields(transform)
	if len(parts) != 12 {
		return 0, 0, 0, false
	}

	x, errX := strconv.ParseFloat(parts[9], 64)
	y, errY := strconv.ParseFloat(parts[10], 64)
	z, errZ := strconv.ParseFloat(parts[11], 64)

	if errX != nil || errY != nil || errZ != nil {
		return 0, 0, 0, false
	}

	return x, y, z, true
}

// PrintModel prints a 3MF summary with one table row per object
func (p *ModelPrinter) PrintModel(summary *ModelSummary, size int64) {
	ui.PrintKeyValue("Size", humanize.Bytes(uint64(size)))
	ui.PrintKeyValue("Unit", summary.Unit)
	for _, meta := range summary.Metadata {
		ui.PrintKeyValue(meta.Name, meta.Value)
	}
	if summary.Bambu {
		ui.PrintInfo("Contains Bambu Studio project settings")
	}

	ui.PrintHeader("Objects in Model:")
	if len(summary.Objects) == 0 {
		ui.PrintStep("No objects found")
		return
	}

	ui.PrintTableHeader("Name", "Color", "Offset", "Mesh")
	for _, obj := range summary.Objects {
		name := obj.Name
		if name == "" {
			name = "(unnamed)"
		}

		color := "-"
		if obj.Color != "" {
			color = ui.Swatch(obj.Color) + " " + strings.TrimPrefix(obj.Color, "#")
		}

		offset := "-"
		if x, y, z, ok := ParseTransformOffset(obj.Transform); ok {
			offset = fmt.Sprintf("%.1f, %.1f, %.1f", x, y, z)
		}

		mesh := fmt.Sprintf("%s tris", humanize.Comma(int64(obj.Triangles)))
		if obj.Extruder != "" {
			mesh += " [filament " + obj.Extruder + "]"
		}

		ui.PrintTableRow(name, color, offset, mesh)
	}
}

// PrintMesh prints an STL summary
func (p *ModelPrinter) PrintMesh(summary *MeshSummary, size int64) {
	ui.PrintKeyValue("Size", humanize.Bytes(uint64(size)))
	if summary.Name != "" {
		ui.PrintKeyValue("Name", summary.Name)
	}
	ui.PrintKeyValue("Triangles", humanize.Comma(int64(summary.Triangles)))
	if b := summary.Bounds; b != nil {
		ui.PrintKeyValue("Dimensions", fmt.Sprintf("%.2f x %.2f x %.2f mm", b.Width(), b.Height(), b.Depth()))
		ui.PrintKeyValue("Z range", fmt.Sprintf("%.2f to %.2f mm", b.MinZ, b.MaxZ))
	}
}

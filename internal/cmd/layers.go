package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/philipparndt/layerprint/internal/buildplan"
	"github.com/philipparndt/layerprint/internal/export"
	"github.com/philipparndt/layerprint/internal/geometry"
	"github.com/philipparndt/layerprint/internal/ui"
)

// printLayers prints the output layers of a preview run
func printLayers(bc *buildplan.Context) {
	ui.PrintTitle("Layer stack: " + bc.BaseName)
	ui.PrintKeyValue("Image", fmt.Sprintf("%dx%d px, %d color%s", bc.Image.Width, bc.Image.Height, len(bc.Image.Layers), plural(len(bc.Image.Layers))))
	ui.PrintKeyValue("Bed", fmt.Sprintf("%gx%g mm, margin %g mm", bc.Bed.Width, bc.Bed.Depth, bc.Bed.Margin))
	if bc.Scale != 1 {
		ui.PrintKeyValue("Scale", fmt.Sprintf("%.3f", bc.Scale))
	}
	if bbox, err := geometry.CalculateCombinedBoundingBox(bc.Layers); err == nil {
		ui.PrintKeyValue("Size", fmt.Sprintf("%.1f x %.1f x %.1f mm", bbox.Width(), bbox.Height(), bbox.Depth()))
	}
	fmt.Fprintln(ui.Out)

	built := make(map[int]*geometry.StackedLayer, len(bc.Layers))
	for _, layer := range bc.Layers {
		built[layer.Index] = layer
	}

	ui.PrintTableHeader("Layer", "Color", "Z range", "Mesh")
	for _, idx := range bc.Spans.Indices() {
		span := bc.Spans[idx]
		hex := "#" + export.HexColor(bc.Merged.Palette[idx])

		mesh := "empty, skipped"
		if layer, ok := built[idx]; ok {
			mesh = humanize.Comma(int64(layer.Mesh.TriangleCount())) + " triangles"
		}

		ui.PrintTableRow(
			buildplan.LayerLabel(idx, bc.Merge.Members(idx)),
			ui.ColorLabel(hex, hex[1:]),
			fmt.Sprintf("%.2f to %.2f mm", span.ZStart, span.Top()),
			mesh,
		)
	}
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

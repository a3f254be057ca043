package geometry

import (
	"math"

	"github.com/philipparndt/layerprint/internal/models"
)

// FitScale returns the uniform XY scale that fits bbox into the bed minus
// margins. The scale never exceeds 1; an empty extent yields 1.
func FitScale(bbox *BoundingBox, bed models.BedConfig) float64 {
	if bbox == nil {
		return 1
	}
	w, d := bbox.Width(), bbox.Height()
	if !(w > 0) || !(d > 0) {
		return 1
	}

	usableW := math.Max(1, bed.Width-2*bed.Margin)
	usableD := math.Max(1, bed.Depth-2*bed.Margin)
	return math.Min(1, math.Min(usableW/w, usableD/d))
}

// FitToBed scales the X and Y coordinates of every layer so the combined
// footprint fits the bed. Z is never scaled. It returns the applied scale.
func FitToBed(layers []*StackedLayer, bed models.BedConfig) float64 {
	bbox, err := CalculateCombinedBoundingBox(layers)
	if err != nil {
		return 1
	}

	scale := FitScale(bbox, bed)
	if scale == 1 {
		return 1
	}
	for _, layer := range layers {
		if layer == nil || layer.Mesh == nil {
			continue
		}
		layer.Mesh.ScaleXY(float32(scale))
	}
	return scale
}

// BedPlacement returns the translation that centers the footprint of the
// layers on the bed
func BedPlacement(layers []*StackedLayer, bed models.BedConfig) Transform {
	bbox, err := CalculateCombinedBoundingBox(layers)
	if err != nil {
		return Identity()
	}
	cx, cy, _ := bbox.Center()
	return TranslationTransform(bed.Width/2-cx, bed.Depth/2-cy, 0)
}

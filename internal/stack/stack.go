// Package stack computes the vertical placement of every output layer.
package stack

import (
	"math"
	"sort"

	"github.com/philipparndt/layerprint/internal/models"
)

// Depth limits in millimeters
const (
	MinDepth     = 0.1
	MaxDepth     = 20.0
	DefaultDepth = 4.0
)

// Span is the vertical extent [ZStart, ZStart+Depth) of one layer
type Span struct {
	ZStart float64
	Depth  float64
}

// Top returns the upper Z coordinate of the span
func (s Span) Top() float64 {
	return s.ZStart + s.Depth
}

// Spans maps output layer index to its span
type Spans map[int]Span

// Indices returns the layer indices in ascending order
func (s Spans) Indices() []int {
	indices := make([]int, 0, len(s))
	for idx := range s {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	return indices
}

// MaxHeight returns the height of the tallest layer top
func (s Spans) MaxHeight() float64 {
	height := 0.0
	for _, span := range s {
		height = math.Max(height, span.Top())
	}
	return height
}

// ClampDepth limits a depth to the printable range. Non-finite or
// non-positive values fall back to fallback.
func ClampDepth(depth, fallback float64) float64 {
	if math.IsNaN(depth) || math.IsInf(depth, 0) || depth <= 0 {
		depth = fallback
	}
	if math.IsNaN(depth) || math.IsInf(depth, 0) || depth <= 0 {
		depth = DefaultDepth
	}
	return math.Max(MinDepth, math.Min(MaxDepth, depth))
}

// Depth returns the clamped depth configured for layer idx
func Depth(thickness models.ThicknessConfig, idx int) float64 {
	fallback := ClampDepth(thickness.Default, DefaultDepth)
	if depth, ok := thickness.Layers[idx]; ok {
		return ClampDepth(depth, fallback)
	}
	return fallback
}

// Build computes the span of each of the n output layers.
//
// Without a base layer every layer is an independent slab starting at the
// build plate. With a base layer, the base starts at zero and all other
// layers start on top of it.
func Build(n int, thickness models.ThicknessConfig, base models.BaseLayerConfig) Spans {
	spans := make(Spans, n)
	if n <= 0 {
		return spans
	}

	baseIndex := base.Index
	if baseIndex < 0 || baseIndex >= n {
		baseIndex = 0
	}
	baseDepth := Depth(thickness, baseIndex)

	for idx := 0; idx < n; idx++ {
		depth := Depth(thickness, idx)
		zStart := 0.0
		if base.Enabled && idx != baseIndex {
			zStart = baseDepth
		}
		spans[idx] = Span{ZStart: zStart, Depth: depth}
	}
	return spans
}

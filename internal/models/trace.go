package models

import (
	"fmt"
	"math"
)

// PaletteColor is one color of the traced palette
type PaletteColor struct {
	R uint8 `yaml:"r"`
	G uint8 `yaml:"g"`
	B uint8 `yaml:"b"`
	A uint8 `yaml:"a,omitempty"`
}

// TransparentAlphaCutoff is the alpha below which a color counts as
// background
const TransparentAlphaCutoff = 10

// Transparent reports whether the color is background-like and hidden
// unless requested explicitly
func (c PaletteColor) Transparent() bool {
	return c.A < TransparentAlphaCutoff
}

// Hex returns the color as lower-case rrggbb
func (c PaletteColor) Hex() string {
	return fmt.Sprintf("%02x%02x%02x", c.R, c.G, c.B)
}

// SegmentType distinguishes straight lines from quadratic curves
type SegmentType string

const (
	SegmentLine      SegmentType = "L"
	SegmentQuadratic SegmentType = "Q"
)

// Segment is one piece of a contour in image pixel space (Y pointing down).
// A line runs from (X1,Y1) to (X2,Y2). A quadratic curve runs from (X1,Y1)
// to (X3,Y3) with control point (X2,Y2).
type Segment struct {
	Type SegmentType `yaml:"type"`
	X1   float64     `yaml:"x1"`
	Y1   float64     `yaml:"y1"`
	X2   float64     `yaml:"x2"`
	Y2   float64     `yaml:"y2"`
	X3   float64     `yaml:"x3,omitempty"`
	Y3   float64     `yaml:"y3,omitempty"`
}

// End returns the end point of the segment
func (s Segment) End() (x, y float64) {
	if s.Type == SegmentQuadratic {
		return s.X3, s.Y3
	}
	return s.X2, s.Y2
}

// VectorPath is a single closed or open contour
type VectorPath struct {
	Segments     []Segment `yaml:"segments"`
	IsHole       bool      `yaml:"isholepath"`
	HoleChildren []int     `yaml:"holechildren"`
}

// Layer holds all paths drawn in one palette color
type Layer struct {
	ColorIndex int
	Paths      []VectorPath
}

// TracedImage is the output of the external tracer
type TracedImage struct {
	Width   int
	Height  int
	Palette []PaletteColor
	Layers  []Layer
}

// Validate checks the palette/layer invariants
func (t *TracedImage) Validate() error {
	if len(t.Palette) != len(t.Layers) {
		return fmt.Errorf("palette has %d colors but image has %d layers", len(t.Palette), len(t.Layers))
	}
	for i, layer := range t.Layers {
		if layer.ColorIndex != i {
			return fmt.Errorf("layer %d draws in color %d", i, layer.ColorIndex)
		}
		for j, path := range layer.Paths {
			for k, seg := range path.Segments {
				if seg.Type != SegmentLine && seg.Type != SegmentQuadratic {
					return fmt.Errorf("layer %d, path %d, segment %d: unknown type %q", i, j, k, seg.Type)
				}
				if !seg.finite() {
					return fmt.Errorf("layer %d, path %d, segment %d: non-finite coordinate", i, j, k)
				}
			}
		}
	}
	return nil
}

// Normalize repairs inconsistencies instead of failing: palette and layers
// are truncated to the shorter of the two, color indices are rewritten, and
// segments of unknown type or with non-finite coordinates are dropped.
func (t *TracedImage) Normalize() {
	n := len(t.Palette)
	if len(t.Layers) < n {
		n = len(t.Layers)
	}
	t.Palette = t.Palette[:n]
	t.Layers = t.Layers[:n]

	for i := range t.Layers {
		t.Layers[i].ColorIndex = i
		for j := range t.Layers[i].Paths {
			path := &t.Layers[i].Paths[j]
			kept := path.Segments[:0]
			for _, seg := range path.Segments {
				if (seg.Type == SegmentLine || seg.Type == SegmentQuadratic) && seg.finite() {
					kept = append(kept, seg)
				}
			}
			path.Segments = kept
		}
	}
}

func (s Segment) finite() bool {
	for _, v := range []float64{s.X1, s.Y1, s.X2, s.Y2, s.X3, s.Y3} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// MergeRule folds the source ordinal's group into the target's group.
// Both values are ordinals into the visible layer list.
type MergeRule struct {
	Source int `yaml:"source"`
	Target int `yaml:"target"`
}

// ThicknessConfig maps output layer index to depth in millimeters
type ThicknessConfig struct {
	Default float64
	Layers  map[int]float64
}

// BaseLayerConfig selects an optional base plate layer
type BaseLayerConfig struct {
	Enabled bool
	Index   int
}

// BedConfig describes the printable area in millimeters
type BedConfig struct {
	Width  float64
	Depth  float64
	Margin float64
}

package geometry

import (
	"fmt"
	"math"
)

// BoundingBox represents a 3D bounding box
type BoundingBox struct {
	MinX, MinY, MinZ float64
	MaxX, MaxY, MaxZ float64
}

// Width returns the width (X dimension) of the bounding box
func (b *BoundingBox) Width() float64 {
	return b.MaxX - b.MinX
}

// Height returns the height (Y dimension) of the bounding box
func (b *BoundingBox) Height() float64 {
	return b.MaxY - b.MinY
}

// Depth returns the depth (Z dimension) of the bounding box
func (b *BoundingBox) Depth() float64 {
	return b.MaxZ - b.MinZ
}

// Center returns the center point of the bounding box
func (b *BoundingBox) Center() (x, y, z float64) {
	return (b.MinX + b.MaxX) / 2, (b.MinY + b.MaxY) / 2, (b.MinZ + b.MaxZ) / 2
}

// ExpandByPoint grows the box to contain p
func (b *BoundingBox) ExpandByPoint(p Vector3) {
	x, y, z := float64(p.X), float64(p.Y), float64(p.Z)
	b.MinX = math.Min(b.MinX, x)
	b.MinY = math.Min(b.MinY, y)
	b.MinZ = math.Min(b.MinZ, z)
	b.MaxX = math.Max(b.MaxX, x)
	b.MaxY = math.Max(b.MaxY, y)
	b.MaxZ = math.Max(b.MaxZ, z)
}

// Union grows the box to contain other
func (b *BoundingBox) Union(other *BoundingBox) {
	b.MinX = math.Min(b.MinX, other.MinX)
	b.MinY = math.Min(b.MinY, other.MinY)
	b.MinZ = math.Min(b.MinZ, other.MinZ)
	b.MaxX = math.Max(b.MaxX, other.MaxX)
	b.MaxY = math.Max(b.MaxY, other.MaxY)
	b.MaxZ = math.Max(b.MaxZ, other.MaxZ)
}

// CalculateBoundingBox calculates the bounding box of a set of points
func CalculateBoundingBox(points []Vector3) (*BoundingBox, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("mesh has no vertices")
	}

	// Initialize with first vertex
	first := points[0]
	bbox := &BoundingBox{
		MinX: float64(first.X),
		MinY: float64(first.Y),
		MinZ: float64(first.Z),
		MaxX: float64(first.X),
		MaxY: float64(first.Y),
		MaxZ: float64(first.Z),
	}

	for _, p := range points[1:] {
		bbox.ExpandByPoint(p)
	}
	return bbox, nil
}

// CalculateCombinedBoundingBox calculates the bounding box for multiple
// layers. Layers without vertices are skipped.
func CalculateCombinedBoundingBox(layers []*StackedLayer) (*BoundingBox, error) {
	if len(layers) == 0 {
		return nil, fmt.Errorf("no layers provided")
	}

	var combined *BoundingBox
	for _, layer := range layers {
		if layer == nil || layer.Mesh == nil {
			continue
		}
		bbox, err := layer.Mesh.Bounds()
		if err != nil {
			continue // Skip layers without geometry
		}
		if combined == nil {
			combined = bbox
		} else {
			combined.Union(bbox)
		}
	}

	if combined == nil {
		return nil, fmt.Errorf("no valid layers found")
	}
	return combined, nil
}

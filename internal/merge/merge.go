// Package merge resolves user merge rules into a canonical partition of the
// visible palette layers.
package merge

import (
	"sort"

	"github.com/philipparndt/layerprint/internal/models"
)

// Result describes the merged layer groups
type Result struct {
	// Groups maps output index to the original layer ordinals it contains
	Groups map[int][]int
	// OriginalToMerged maps each original layer ordinal to its output index
	OriginalToMerged map[int]int
}

// Count returns the number of merged groups
func (r Result) Count() int {
	return len(r.Groups)
}

// Members returns the original ordinals of output index i
func (r Result) Members(i int) []int {
	return r.Groups[i]
}

// Resolve computes the merged grouping of visible layers. Rules address
// positions in visible, not palette indices; rules pointing outside visible
// are ignored.
func Resolve(visible []int, rules []models.MergeRule) Result {
	res := Result{
		Groups:           make(map[int][]int),
		OriginalToMerged: make(map[int]int),
	}
	if len(visible) == 0 {
		return res
	}

	parent := make([]int, len(visible))
	for i := range parent {
		parent[i] = i
	}

	inRange := func(i int) bool { return i >= 0 && i < len(parent) }
	for _, rule := range rules {
		if !inRange(rule.Source) || !inRange(rule.Target) {
			continue
		}
		sourceRoot := find(parent, rule.Source)
		targetRoot := find(parent, rule.Target)
		if sourceRoot != targetRoot {
			parent[sourceRoot] = targetRoot
		}
	}

	// Point every index directly at its final root
	for i := range parent {
		parent[i] = find(parent, i)
	}

	byRoot := make(map[int][]int)
	for pos, root := range parent {
		byRoot[root] = append(byRoot[root], visible[pos])
	}

	groups := make([][]int, 0, len(byRoot))
	for _, members := range byRoot {
		sort.Ints(members)
		groups = append(groups, members)
	}
	sort.Slice(groups, func(a, b int) bool {
		return groups[a][0] < groups[b][0]
	})

	for idx, members := range groups {
		res.Groups[idx] = members
		for _, ordinal := range members {
			res.OriginalToMerged[ordinal] = idx
		}
	}
	return res
}

// find follows parent links to the root and compresses the visited chain
func find(parent []int, i int) int {
	root := i
	for parent[root] != root {
		root = parent[root]
	}
	for parent[i] != root {
		next := parent[i]
		parent[i] = root
		i = next
	}
	return root
}

// VisibleAll returns every layer ordinal of img
func VisibleAll(img *models.TracedImage) []int {
	visible := make([]int, len(img.Layers))
	for i := range visible {
		visible[i] = i
	}
	return visible
}

// Apply builds the merged image described by res. Each output layer takes
// the color of its lowest member and the paths of all members. img is not
// modified.
func Apply(img *models.TracedImage, res Result) *models.TracedImage {
	merged := &models.TracedImage{
		Width:  img.Width,
		Height: img.Height,
	}

	for idx := 0; idx < res.Count(); idx++ {
		var color models.PaletteColor
		var paths []models.VectorPath
		colorSet := false

		for _, ordinal := range res.Members(idx) {
			if ordinal < 0 || ordinal >= len(img.Layers) || ordinal >= len(img.Palette) {
				continue
			}
			if !colorSet {
				color = img.Palette[ordinal]
				colorSet = true
			}
			offset := len(paths)
			for _, path := range img.Layers[ordinal].Paths {
				paths = append(paths, rebasePath(path, offset))
			}
		}

		merged.Palette = append(merged.Palette, color)
		merged.Layers = append(merged.Layers, models.Layer{
			ColorIndex: idx,
			Paths:      paths,
		})
	}
	return merged
}

// rebasePath copies path with its hole child indices shifted by offset
func rebasePath(path models.VectorPath, offset int) models.VectorPath {
	out := models.VectorPath{
		Segments: append([]models.Segment(nil), path.Segments...),
		IsHole:   path.IsHole,
	}
	if len(path.HoleChildren) > 0 {
		out.HoleChildren = make([]int, len(path.HoleChildren))
		for i, child := range path.HoleChildren {
			out.HoleChildren[i] = child + offset
		}
	}
	return out
}

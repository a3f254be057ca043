package export

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipparndt/layerprint/internal/models"
)

func tracedBadge() *models.TracedImage {
	seg := func(x1, y1, x2, y2 float64) models.Segment {
		return models.Segment{Type: models.SegmentLine, X1: x1, Y1: y1, X2: x2, Y2: y2}
	}
	return &models.TracedImage{
		Width: 20, Height: 10,
		Palette: []models.PaletteColor{
			{R: 255, G: 255, B: 255, A: 255},
			{R: 220, G: 30, B: 40, A: 128},
		},
		Layers: []models.Layer{
			{ColorIndex: 0, Paths: []models.VectorPath{
				{Segments: []models.Segment{seg(0, 0, 10, 0), seg(10, 0, 10, 10), seg(10, 10, 0, 0)}, HoleChildren: []int{1}},
				{Segments: []models.Segment{seg(6, 2, 8, 2), seg(8, 2, 8, 4), seg(8, 4, 6, 2)}, IsHole: true},
			}},
			{ColorIndex: 1, Paths: []models.VectorPath{
				{Segments: []models.Segment{
					{Type: models.SegmentQuadratic, X1: 12, Y1: 0, X2: 16, Y2: 5, X3: 20, Y3: 0},
					seg(20, 0, 12, 0),
				}},
			}},
		},
	}
}

func parseSVG(t *testing.T, data []byte) svgDocument {
	t.Helper()
	var doc svgDocument
	require.NoError(t, xml.Unmarshal(data, &doc))
	return doc
}

func TestExportSvg(t *testing.T) {
	files, err := ExportSvg(tracedBadge(), []int{1, 0}, "badge")
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, "badge_layer_background.svg", files[0].Name)
	assert.Equal(t, "badge_layer2.svg", files[1].Name)
	assert.Equal(t, "badge_layer1.svg", files[2].Name)
	for _, f := range files {
		assert.Equal(t, ContentTypeSVG, f.ContentType)
	}

	background := parseSVG(t, files[0].Data)
	assert.Equal(t, "0 0 20 10", background.ViewBox)
	require.Len(t, background.Paths, 2)
	for _, p := range background.Paths {
		assert.Equal(t, "#000000", p.Fill)
		assert.Empty(t, p.Opacity)
	}

	curve := parseSVG(t, files[1].Data)
	require.Len(t, curve.Paths, 1)
	assert.Equal(t, "#dc1e28", curve.Paths[0].Fill)
	assert.Equal(t, "0.502", curve.Paths[0].Opacity)
	assert.Equal(t, "M 12 0 Q 16 5 20 0 L 12 0 Z", curve.Paths[0].D)

	// the hole is a second subpath of its parent
	holed := parseSVG(t, files[2].Data)
	require.Len(t, holed.Paths, 1)
	assert.Equal(t, "evenodd", holed.Paths[0].FillRule)
	assert.Equal(t, 2, strings.Count(holed.Paths[0].D, "M "))
}

func TestExportSvg_SkipsUnknownLayers(t *testing.T) {
	files, err := ExportSvg(tracedBadge(), []int{5, -1}, "badge")
	require.NoError(t, err)
	assert.Len(t, files, 1)

	_, err = ExportSvg(nil, nil, "badge")
	assert.Error(t, err)
}

package tracer

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipparndt/layerprint/internal/models"
)

const sample = `{
  "width": 4, "height": 4,
  "palette": [{"r": 255, "g": 255, "b": 255, "a": 255}, {"r": 200, "g": 10, "b": 0, "a": 255}],
  "layers": [
    [{"segments": [
        {"type": "L", "x1": 0, "y1": 0, "x2": 4, "y2": 0},
        {"type": "L", "x1": 4, "y1": 0, "x2": 4, "y2": 4},
        {"type": "L", "x1": 4, "y1": 4, "x2": 0, "y2": 4},
        {"type": "L", "x1": 0, "y1": 4, "x2": 0, "y2": 0}],
      "isholepath": false, "holechildren": []}],
    [{"segments": [
        {"type": "Q", "x1": 1, "y1": 1, "x2": 2, "y2": 0, "x3": 3, "y3": 1},
        {"type": "L", "x1": 3, "y1": 1, "x2": 1, "y2": 1}],
      "isholepath": false, "holechildren": [1]},
     {"segments": [], "isholepath": true, "holechildren": []}]
  ]
}`

func TestDecode(t *testing.T) {
	img, err := Decode(strings.NewReader(sample))
	require.NoError(t, err)

	assert.Equal(t, 4, img.Width)
	assert.Equal(t, 4, img.Height)
	require.NoError(t, img.Validate())
	assert.Equal(t, models.PaletteColor{R: 200, G: 10, B: 0, A: 255}, img.Palette[1])

	require.Len(t, img.Layers, 2)
	assert.Len(t, img.Layers[0].Paths[0].Segments, 4)

	curve := img.Layers[1].Paths[0]
	assert.Equal(t, []int{1}, curve.HoleChildren)
	assert.Equal(t, models.SegmentQuadratic, curve.Segments[0].Type)
	x, y := curve.Segments[0].End()
	assert.Equal(t, 3.0, x)
	assert.Equal(t, 1.0, y)
	assert.True(t, img.Layers[1].Paths[1].IsHole)
}

func TestDecodeRepairsInconsistentImage(t *testing.T) {
	doc := `{"width": 1, "height": 1,
  "palette": [{"r": 1, "g": 2, "b": 3}, {"r": 4, "g": 5, "b": 6}],
  "layers": [[{"segments": [{"type": "C", "x1": 0, "y1": 0, "x2": 1, "y2": 1}]}]]}`

	img, err := Decode(strings.NewReader(doc))
	require.NoError(t, err)
	require.NoError(t, img.Validate())
	assert.Len(t, img.Palette, 1)
	assert.Empty(t, img.Layers[0].Paths[0].Segments)
}

func TestDecodeAlpha(t *testing.T) {
	doc := `{"palette": [{"r": 1, "g": 2, "b": 3}, {"r": 4, "g": 5, "b": 6, "a": 0}],
  "layers": [[], []]}`

	img, err := Decode(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, img.Palette, 2)
	assert.Equal(t, uint8(255), img.Palette[0].A)
	assert.False(t, img.Palette[0].Transparent())
	assert.True(t, img.Palette[1].Transparent())
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode(strings.NewReader(""))
	assert.Error(t, err)

	_, err = Decode(strings.NewReader(`{"layers": "nope"}`))
	assert.Error(t, err)
}

func TestFileTracer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "image.json")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0644))

	img, err := FileTracer{}.Trace(context.Background(), path, Options{})
	require.NoError(t, err)
	assert.Len(t, img.Layers, 2)

	_, err = FileTracer{}.Trace(context.Background(), filepath.Join(t.TempDir(), "missing.json"), Options{})
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = FileTracer{}.Trace(ctx, path, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExecTracerArgs(t *testing.T) {
	tr := &ExecTracer{Command: "trace", Args: []string{"--colors={colors}", "-i", "{input}"}}
	assert.Equal(t, []string{"--colors=8", "-i", "in.png"}, tr.args("in.png", Options{Colors: 8}))

	tr = &ExecTracer{Command: "trace", Args: []string{"--json"}}
	assert.Equal(t, []string{"--json", "in.png"}, tr.args("in.png", Options{}))
}

func TestExecTracer(t *testing.T) {
	if _, err := exec.LookPath("cat"); err != nil {
		t.Skip("cat not available")
	}
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "image.json"), []byte(sample), 0644))

	tr := &ExecTracer{Command: "cat", Dir: dir}
	img, err := tr.Trace(context.Background(), "image.json", Options{})
	require.NoError(t, err)
	assert.Len(t, img.Palette, 2)

	_, err = tr.Trace(context.Background(), "missing.json", Options{})
	assert.Error(t, err)
}

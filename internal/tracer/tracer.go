package tracer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/philipparndt/layerprint/internal/models"
)

// Options are passed through to an external tracer
type Options struct {
	// Colors is the requested palette size; zero leaves it to the tracer
	Colors int
}

// Tracer turns an input image into a traced multi-layer vector image
type Tracer interface {
	Trace(ctx context.Context, input string, opts Options) (*models.TracedImage, error)
}

// tracedata mirrors the JSON document produced by ImageTracer style tracers.
// JSON is valid YAML flow syntax, so it is decoded with the YAML decoder.
type tracedata struct {
	Width   int                   `yaml:"width"`
	Height  int                   `yaml:"height"`
	Palette []paletteEntry        `yaml:"palette"`
	Layers  [][]models.VectorPath `yaml:"layers"`
}

// paletteEntry is a palette color whose alpha may be missing
type paletteEntry struct {
	R uint8  `yaml:"r"`
	G uint8  `yaml:"g"`
	B uint8  `yaml:"b"`
	A *uint8 `yaml:"a"`
}

func (e paletteEntry) color() models.PaletteColor {
	c := models.PaletteColor{R: e.R, G: e.G, B: e.B, A: 255}
	if e.A != nil {
		c.A = *e.A
	}
	return c
}

// Decode reads tracedata from r. Colors without alpha are opaque. The result
// is normalized so palette and layers always have the same length.
func Decode(r io.Reader) (*models.TracedImage, error) {
	var data tracedata
	if err := yaml.NewDecoder(r).Decode(&data); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("empty tracedata")
		}
		return nil, fmt.Errorf("failed to parse tracedata: %w", err)
	}

	img := &models.TracedImage{
		Width:   data.Width,
		Height:  data.Height,
		Palette: make([]models.PaletteColor, len(data.Palette)),
		Layers:  make([]models.Layer, len(data.Layers)),
	}
	for i, entry := range data.Palette {
		img.Palette[i] = entry.color()
	}
	for i, paths := range data.Layers {
		img.Layers[i] = models.Layer{ColorIndex: i, Paths: paths}
	}
	img.Normalize()
	return img, nil
}

// FileTracer reads tracedata that was produced ahead of time
type FileTracer struct{}

// Trace decodes the tracedata file at input. Options are ignored.
func (FileTracer) Trace(ctx context.Context, input string, _ Options) (*models.TracedImage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(input)
	if err != nil {
		return nil, fmt.Errorf("failed to open tracedata: %w", err)
	}
	defer f.Close()

	img, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", input, err)
	}
	return img, nil
}

// ExecTracer runs an external command that prints tracedata on stdout.
// The placeholders {input} and {colors} in Args are substituted; when no
// argument mentions {input} the input path is appended.
type ExecTracer struct {
	Command string
	Args    []string
	Dir     string
	Stderr  io.Writer
}

// Trace runs the command and decodes its output
func (t *ExecTracer) Trace(ctx context.Context, input string, opts Options) (*models.TracedImage, error) {
	cmd := exec.CommandContext(ctx, t.Command, t.args(input, opts)...)
	cmd.Dir = t.Dir

	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = t.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("failed to trace %s: %w", input, err)
	}

	img, err := Decode(&stdout)
	if err != nil {
		return nil, fmt.Errorf("%s output: %w", t.Command, err)
	}
	return img, nil
}

func (t *ExecTracer) args(input string, opts Options) []string {
	colors := ""
	if opts.Colors > 0 {
		colors = strconv.Itoa(opts.Colors)
	}

	args := make([]string, 0, len(t.Args)+1)
	hasInput := false
	for _, arg := range t.Args {
		if strings.Contains(arg, "{input}") {
			hasInput = true
		}
		arg = strings.ReplaceAll(arg, "{input}", input)
		arg = strings.ReplaceAll(arg, "{colors}", colors)
		args = append(args, arg)
	}
	if !hasInput {
		args = append(args, input)
	}
	return args
}

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/philipparndt/layerprint/internal/buildplan"
	"github.com/philipparndt/layerprint/internal/config"
	"github.com/philipparndt/layerprint/internal/export"
	"github.com/philipparndt/layerprint/internal/extract"
	"github.com/philipparndt/layerprint/internal/inspect"
	"github.com/philipparndt/layerprint/internal/models"
	"github.com/philipparndt/layerprint/internal/ui"
	"github.com/philipparndt/layerprint/version"
)

type CLI struct {
	Progress string `help:"Progress output: auto prints a summary, plain prints every step" enum:"auto,plain" default:"auto"`

	Export     *ExportCmd     `cmd:"" help:"Export a traced image as OBJ+MTL, STL or 3MF (accepts a YAML job, tracedata JSON or an image)"`
	Layers     *LayersCmd     `cmd:"" help:"Show the layer stack an export would produce"`
	Inspect    *InspectCmd    `cmd:"" help:"Inspect a 3MF or STL file and show its contents"`
	Extract    *ExtractCmd    `cmd:"" help:"Split a 3MF file into one STL file per object"`
	Version    *VersionCmd    `cmd:"" help:"Show version information"`
	Completion *CompletionCmd `cmd:"" help:"Generate shell completion script"`
}

// JobFlags are the job settings shared by export and layers. When the input
// is a YAML job, flags that are set override the file.
type JobFlags struct {
	Input string `arg:"" help:"YAML job file, tracedata JSON, or raster image (with --tracer)"`

	Name           string          `help:"Base name of the output files (default: <input>_<N>mm)" short:"n"`
	Thickness      float64         `help:"Default layer thickness in mm (0.1-20, default 4)" short:"t"`
	LayerThickness map[int]float64 `help:"Thickness of individual layers, e.g. 0=0.8;2=1.5" name:"layer-thickness"`
	Base           bool            `help:"Use one layer as a base plate under all others"`
	BaseIndex      int             `help:"Layer used as the base plate" default:"0"`
	Merge          []string        `help:"Merge layer SOURCE into TARGET, written SOURCE:TARGET (visible ordinals)" short:"m"`
	Visible        []int           `help:"Only export these source layers"`
	Bed            string          `help:"Bed preset: x1, a1mini or h2d (default x1)"`
	BedWidth       float64         `help:"Bed width in mm, overrides the preset"`
	BedDepth       float64         `help:"Bed depth in mm, overrides the preset"`
	Margin         float64         `help:"Bed margin in mm (default 5)" default:"-1"`
	Detail         int             `help:"Samples per curve segment (default 6)"`
	Tracer         string          `help:"External tracer command printing tracedata JSON"`
	TracerArg      []string        `help:"Tracer argument; {input} and {colors} are substituted" name:"tracer-arg"`
	Colors         int             `help:"Number of colors requested from the tracer"`
}

// job builds a job from the flags for tracedata or image input
func (f *JobFlags) job() (*models.JobConfig, error) {
	job := &models.JobConfig{Input: f.Input}
	if err := f.apply(job); err != nil {
		return nil, err
	}
	if buildplan.NewPlanner().DetectFileType(f.Input) == buildplan.FileTypeImage && job.Tracer == nil {
		return nil, fmt.Errorf("%s is an image; pass --tracer to trace it or provide tracedata JSON", f.Input)
	}
	return job, nil
}

// load returns the job for the input, reading YAML jobs from disk
func (f *JobFlags) load() (*models.JobConfig, error) {
	if buildplan.NewPlanner().DetectFileType(f.Input) != buildplan.FileTypeYAML {
		return f.job()
	}
	loader := config.NewLoader()
	job, err := loader.Load(f.Input)
	if err != nil {
		return nil, err
	}
	if err := f.apply(job); err != nil {
		return nil, err
	}
	return job, loader.Validate(job)
}

// apply copies the flags that are set onto job
func (f *JobFlags) apply(job *models.JobConfig) error {
	if f.Name != "" {
		job.Name = f.Name
	}
	if f.Thickness != 0 {
		job.Thickness.Default = f.Thickness
	}
	if len(f.LayerThickness) > 0 {
		if job.Thickness.Layers == nil {
			job.Thickness.Layers = make(map[int]float64)
		}
		for idx, depth := range f.LayerThickness {
			job.Thickness.Layers[idx] = depth
		}
	}
	if f.Base {
		job.BaseLayer = models.YamlBaseLayer{Enabled: true, Index: f.BaseIndex}
	}
	if len(f.Merge) > 0 {
		rules, err := parseMerges(f.Merge)
		if err != nil {
			return err
		}
		job.Merges = append(job.Merges, rules...)
	}
	if len(f.Visible) > 0 {
		job.Visible = f.Visible
	}
	if f.Bed != "" {
		job.Bed.Preset = f.Bed
	}
	if f.BedWidth > 0 {
		job.Bed.Width = f.BedWidth
	}
	if f.BedDepth > 0 {
		job.Bed.Depth = f.BedDepth
	}
	if f.Margin >= 0 {
		margin := f.Margin
		job.Bed.Margin = &margin
	}
	if f.Detail != 0 {
		job.Detail = f.Detail
	}
	if f.Tracer != "" {
		job.Tracer = &models.TracerConfig{Command: f.Tracer, Args: f.TracerArg, Colors: f.Colors}
	} else if job.Tracer != nil && f.Colors != 0 {
		job.Tracer.Colors = f.Colors
	}
	return nil
}

// parseMerges parses SOURCE:TARGET pairs
func parseMerges(specs []string) ([]models.MergeRule, error) {
	rules := make([]models.MergeRule, 0, len(specs))
	for _, spec := range specs {
		parts := strings.Split(spec, ":")
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid merge %q: expected SOURCE:TARGET", spec)
		}
		source, errS := strconv.Atoi(strings.TrimSpace(parts[0]))
		target, errT := strconv.Atoi(strings.TrimSpace(parts[1]))
		if errS != nil || errT != nil {
			return nil, fmt.Errorf("invalid merge %q: layers must be numbers", spec)
		}
		rules = append(rules, models.MergeRule{Source: source, Target: target})
	}
	return rules, nil
}

type ExportCmd struct {
	JobFlags `embed:""`

	Output string   `help:"Output directory (default: current directory, or as set in the job)" short:"o"`
	Format []string `help:"Output formats: 3mf, stl, obj, svg (default 3mf)" short:"f"`
	UUIDs  bool     `help:"Add production extension UUIDs to the 3MF" name:"uuids"`
	Center bool     `help:"Center the 3MF build items on the bed"`
	Bambu  bool     `help:"Add Bambu Studio settings with one filament per layer"`
	Open   bool     `help:"Open the 3MF in the default application after exporting"`
}

// Help adds additional help text with examples
func (c *ExportCmd) Help() string {
	return renderExportHelp()
}

func (c *ExportCmd) applyOutput(job *models.JobConfig) {
	if c.Output != "" {
		job.Output = c.Output
	}
	if len(c.Format) > 0 {
		job.Formats = c.Format
	}
	job.UUIDs = job.UUIDs || c.UUIDs
	job.Center = job.Center || c.Center
	job.Bambu = job.Bambu || c.Bambu
}

func (c *ExportCmd) Run(ctx context.Context) error {
	planner := buildplan.NewPlanner()
	var plan *buildplan.BuildPlan
	if planner.DetectFileType(c.Input) == buildplan.FileTypeYAML {
		plan = planner.CreateYAMLPlan(c.Input, func(job *models.JobConfig) error {
			c.applyOutput(job)
			return c.apply(job)
		})
	} else {
		job, err := c.job()
		if err != nil {
			return err
		}
		c.applyOutput(job)
		plan = planner.CreatePlan(job)
	}

	bc, err := plan.Execute(ctx, nil)
	if err != nil {
		return err
	}

	if c.Open {
		for _, file := range bc.Files {
			if file.ContentType != export.ContentType3MF {
				continue
			}
			if err := openFile(filepath.Join(bc.Job.Output, file.Name)); err != nil {
				ui.PrintError("Failed to open file: " + err.Error())
			}
		}
	}
	return nil
}

// openFile opens a file in the default application for the current platform
func openFile(path string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "linux":
		cmd = exec.Command("xdg-open", path)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", path)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}

type LayersCmd struct {
	JobFlags `embed:""`
}

func (c *LayersCmd) Run(ctx context.Context) error {
	job, err := c.load()
	if err != nil {
		return err
	}

	bc, err := buildplan.NewPlanner().CreatePreviewPlan(job).Run(ctx)
	if err != nil {
		return err
	}
	printLayers(bc)
	return nil
}

type InspectCmd struct {
	File string `arg:"" help:"3MF or STL file to inspect"`
	XML  bool   `help:"Print the highlighted 3MF model XML" name:"xml"`
}

func (c *InspectCmd) Run() error {
	inspector := inspect.NewInspector()
	if c.XML {
		return inspector.PrintXML(ui.Out, c.File)
	}
	return inspector.Inspect(c.File)
}

type ExtractCmd struct {
	File   string `arg:"" help:"3MF file to split"`
	Output string `help:"Output directory (default: <file>_stl)" short:"o"`
	Placed bool   `help:"Keep the bed position of every object"`
}

func (c *ExtractCmd) Run() error {
	output := c.Output
	if output == "" {
		output = strings.TrimSuffix(c.File, filepath.Ext(c.File)) + "_stl"
	}

	extractor := extract.NewExtractor()
	extractor.Placed = c.Placed
	paths, err := extractor.Extract(c.File, output)
	if err != nil {
		return err
	}
	ui.PrintSuccess(fmt.Sprintf("Extracted %d file%s to %s", len(paths), plural(len(paths)), output))
	return nil
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	ui.PrintBox(version.Get().String())
	return nil
}

// Parse parses command line arguments and executes the appropriate command
func Parse() {
	// Commands that build take the context and stop on Ctrl-C
	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("layerprint"),
		kong.Description("Turn traced multi-color images into multi-material 3D prints"),
		kong.UsageOnError(),
		kong.BindTo(runCtx, (*context.Context)(nil)),
	)
	ui.SetVerbose(cli.Progress == "plain")
	err := ctx.Run()
	if err != nil {
		stop()
		ui.PrintError(err.Error())
		os.Exit(1)
	}
}

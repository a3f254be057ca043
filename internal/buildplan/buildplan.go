package buildplan

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/philipparndt/layerprint/internal/config"
	"github.com/philipparndt/layerprint/internal/export"
	"github.com/philipparndt/layerprint/internal/geometry"
	"github.com/philipparndt/layerprint/internal/merge"
	"github.com/philipparndt/layerprint/internal/models"
	"github.com/philipparndt/layerprint/internal/preconditions"
	"github.com/philipparndt/layerprint/internal/stack"
	"github.com/philipparndt/layerprint/internal/tracer"
	"github.com/philipparndt/layerprint/internal/ui"
)

// FileType represents the type of input file
type FileType int

const (
	FileTypeUnknown FileType = iota
	FileTypeYAML
	FileTypeTrace
	FileTypeImage
)

// BuildStep represents a single step in the build plan
type BuildStep interface {
	Name() string
	Execute(bc *Context) error
}

// BuildPlan contains all steps needed to turn a traced image into files
type BuildPlan struct {
	Steps []BuildStep
	// Tracer replaces the tracer selected from the job when set
	Tracer tracer.Tracer
	// Now stamps generated files; defaults to time.Now
	Now func() time.Time
}

// Context holds the data of one run, shared between its steps
type Context struct {
	ctx context.Context

	Job      *models.JobConfig
	Tracer   tracer.Tracer
	Image    *models.TracedImage
	Visible  []int
	Merge    merge.Result
	Merged   *models.TracedImage
	Spans    stack.Spans
	Layers   []*geometry.StackedLayer
	Bed      models.BedConfig
	Scale    float64
	BaseName string
	Files    []export.File
	Date     time.Time
}

// Planner creates build plans for jobs
type Planner struct{}

// NewPlanner creates a new build planner
func NewPlanner() *Planner {
	return &Planner{}
}

// CreatePlan creates an export plan for a job given directly
func (p *Planner) CreatePlan(job *models.JobConfig) *BuildPlan {
	plan := &BuildPlan{}
	plan.Steps = append(plan.Steps, &UseJobStep{Job: job})
	plan.Steps = append(plan.Steps, exportSteps()...)
	return plan
}

// CreateYAMLPlan creates an export plan for a YAML job file. Override, if
// not nil, may adjust the loaded job before it is validated again.
func (p *Planner) CreateYAMLPlan(configPath string, override func(*models.JobConfig) error) *BuildPlan {
	plan := &BuildPlan{}
	plan.Steps = append(plan.Steps, &LoadYAMLStep{ConfigPath: configPath, Override: override})
	plan.Steps = append(plan.Steps, exportSteps()...)
	return plan
}

// CreatePreviewPlan creates a plan that stops after bed fitting. It is used
// to describe the layer stack without writing anything.
func (p *Planner) CreatePreviewPlan(job *models.JobConfig) *BuildPlan {
	return &BuildPlan{Steps: []BuildStep{
		&UseJobStep{Job: job},
		&TraceStep{},
		&ResolveMergesStep{},
		&BuildStackStep{},
		&BuildGeometryStep{},
		&FitToBedStep{},
	}}
}

func exportSteps() []BuildStep {
	return []BuildStep{
		&CheckPreconditionsStep{},
		&TraceStep{},
		&ResolveMergesStep{},
		&BuildStackStep{},
		&BuildGeometryStep{},
		&FitToBedStep{},
		&SerializeStep{},
	}
}

// Run executes all steps and returns the state of the run
func (p *BuildPlan) Run(ctx context.Context) (*Context, error) {
	now := p.Now
	if now == nil {
		now = time.Now
	}
	bc := &Context{ctx: ctx, Tracer: p.Tracer, Date: now()}

	if ui.IsVerbose() {
		ui.PrintTitle("Build Plan Execution")
		ui.PrintInfo(fmt.Sprintf("Total steps: %d", len(p.Steps)))
		ui.PrintSeparator()
	}

	for i, step := range p.Steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if ui.IsVerbose() {
			ui.PrintHeader(fmt.Sprintf("Step %d/%d: %s", i+1, len(p.Steps), step.Name()))
		}
		if err := step.Execute(bc); err != nil {
			return nil, err
		}
	}
	return bc, nil
}

// Execute runs the plan and writes the produced files to sink. A nil sink
// writes into the job's output directory.
func (p *BuildPlan) Execute(ctx context.Context, sink Sink) (*Context, error) {
	bc, err := p.Run(ctx)
	if err != nil {
		return nil, err
	}
	if sink == nil {
		sink = DirSink{Dir: bc.Job.Output}
	}

	for _, file := range bc.Files {
		if err := sink.Write(file); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", file.Name, err)
		}
		if ui.IsVerbose() {
			ui.PrintItem(fmt.Sprintf("%s (%s)", file.Name, humanize.Bytes(uint64(len(file.Data)))))
		}
	}

	ui.PrintSeparator()
	ui.PrintSuccess("Build completed successfully!")
	ui.PrintHighlight(bc.BaseName)
	ui.PrintKeyValue("Layers", fmt.Sprintf("%d", len(bc.Layers)))
	if bc.Scale != 1 {
		ui.PrintKeyValue("Scale", fmt.Sprintf("%.3f", bc.Scale))
	}
	if ds, ok := sink.(DirSink); ok {
		relPath, err := filepath.Rel(".", ds.Dir)
		if err != nil {
			relPath = ds.Dir
		}
		ui.PrintKeyValue("Output directory", relPath)
	}
	for _, file := range bc.Files {
		ui.PrintKeyValue(file.Name, humanize.Bytes(uint64(len(file.Data))))
	}
	return bc, nil
}

// DetectFileType determines the file type based on extension
func (p *Planner) DetectFileType(path string) FileType {
	return detectFileType(path)
}

func detectFileType(path string) FileType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FileTypeYAML
	case ".json":
		return FileTypeTrace
	case ".png", ".jpg", ".jpeg", ".gif", ".bmp", ".webp":
		return FileTypeImage
	default:
		return FileTypeUnknown
	}
}

// Sink receives the files produced by a run
type Sink interface {
	Write(file export.File) error
}

// DirSink writes files into a directory, creating it when needed
type DirSink struct {
	Dir string
}

func (s DirSink) Write(file export.File) error {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.Dir, file.Name), file.Data, 0644)
}

// UseJobStep validates a job given directly and makes it the run's job
type UseJobStep struct {
	Job *models.JobConfig
}

func (s *UseJobStep) Name() string {
	return "Prepare job"
}

func (s *UseJobStep) Execute(bc *Context) error {
	if s.Job == nil {
		return fmt.Errorf("no job given")
	}
	job := *s.Job
	job.Formats = append([]string(nil), s.Job.Formats...)
	config.ApplyDefaults(&job)
	if err := config.NewLoader().Validate(&job); err != nil {
		return fmt.Errorf("invalid job: %w", err)
	}
	bc.Job = &job
	printJob(&job)
	return nil
}

// LoadYAMLStep loads and validates a YAML job file
type LoadYAMLStep struct {
	ConfigPath string
	Override   func(*models.JobConfig) error
}

func (s *LoadYAMLStep) Name() string {
	return "Load YAML configuration"
}

func (s *LoadYAMLStep) Execute(bc *Context) error {
	loader := config.NewLoader()
	job, err := loader.Load(s.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if s.Override != nil {
		if err := s.Override(job); err != nil {
			return err
		}
		config.ApplyDefaults(job)
		if err := loader.Validate(job); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
	}
	bc.Job = job
	ui.PrintSuccess("Loaded configuration " + filepath.Base(s.ConfigPath))
	printJob(job)
	return nil
}

func printJob(job *models.JobConfig) {
	if !ui.IsVerbose() {
		return
	}
	ui.PrintItem("Input: " + job.Input)
	ui.PrintItem("Formats: " + strings.Join(job.Formats, ", "))
	if len(job.Merges) > 0 {
		ui.PrintItem(fmt.Sprintf("Merge rules: %d", len(job.Merges)))
	}
}

// CheckPreconditionsStep checks the input, output and tracer are usable
type CheckPreconditionsStep struct{}

func (s *CheckPreconditionsStep) Name() string {
	return "Check preconditions"
}

func (s *CheckPreconditionsStep) Execute(bc *Context) error {
	if err := preconditions.Check(bc.Job); err != nil {
		return fmt.Errorf("precondition failed: %w", err)
	}
	if ui.IsVerbose() {
		ui.PrintSuccess("All preconditions met")
	}
	return nil
}

// TraceStep produces the traced image, either from tracedata or by running
// the configured tracer
type TraceStep struct{}

func (s *TraceStep) Name() string {
	return "Trace image"
}

func (s *TraceStep) Execute(bc *Context) error {
	t := bc.Tracer
	opts := tracer.Options{}
	if t == nil {
		if bc.Job.Tracer != nil {
			t = &tracer.ExecTracer{Command: bc.Job.Tracer.Command, Args: bc.Job.Tracer.Args}
		} else {
			t = tracer.FileTracer{}
		}
	}
	if bc.Job.Tracer != nil {
		opts.Colors = bc.Job.Tracer.Colors
	}

	img, err := t.Trace(bc.ctx, bc.Job.Input, opts)
	if err != nil {
		return err
	}
	img.Normalize()
	bc.Image = img

	ui.PrintSuccess(fmt.Sprintf("Traced %d color layer%s (%dx%d)", len(img.Layers), pluralize(len(img.Layers)), img.Width, img.Height))
	return nil
}

// ResolveMergesStep applies the merge rules to the visible layers
type ResolveMergesStep struct{}

func (s *ResolveMergesStep) Name() string {
	return "Resolve merges"
}

func (s *ResolveMergesStep) Execute(bc *Context) error {
	bc.Visible = visibleLayers(bc.Image, bc.Job.Visible)
	bc.Merge = merge.Resolve(bc.Visible, bc.Job.Merges)
	bc.Merged = merge.Apply(bc.Image, bc.Merge)

	if ui.IsVerbose() {
		for idx := 0; idx < bc.Merge.Count(); idx++ {
			ui.PrintItem(LayerLabel(idx, bc.Merge.Members(idx)))
		}
	}
	return nil
}

// visibleLayers returns the requested layer indices that exist, in order and
// without duplicates. A nil request selects every layer whose color is not
// transparent.
func visibleLayers(img *models.TracedImage, requested []int) []int {
	if requested == nil {
		visible := merge.VisibleAll(img)
		opaque := visible[:0]
		for _, idx := range visible {
			if idx < len(img.Palette) && img.Palette[idx].Transparent() {
				continue
			}
			opaque = append(opaque, idx)
		}
		return opaque
	}
	seen := make(map[int]bool, len(requested))
	visible := make([]int, 0, len(requested))
	for _, idx := range requested {
		if idx < 0 || idx >= len(img.Layers) || seen[idx] {
			continue
		}
		seen[idx] = true
		visible = append(visible, idx)
	}
	return visible
}

// LayerLabel names an output layer by its members, e.g. "L0 (0+2)"
func LayerLabel(idx int, members []int) string {
	if len(members) <= 1 {
		return fmt.Sprintf("L%d", idx)
	}
	parts := make([]string, len(members))
	for i, m := range members {
		parts[i] = fmt.Sprintf("%d", m)
	}
	return fmt.Sprintf("L%d (%s)", idx, strings.Join(parts, "+"))
}

// BuildStackStep assigns each output layer its z range
type BuildStackStep struct{}

func (s *BuildStackStep) Name() string {
	return "Build layer stack"
}

func (s *BuildStackStep) Execute(bc *Context) error {
	bc.Spans = stack.Build(len(bc.Merged.Layers), config.Thickness(bc.Job), config.BaseLayer(bc.Job))

	maxDepth := 0.0
	for _, span := range bc.Spans {
		if span.Depth > maxDepth {
			maxDepth = span.Depth
		}
	}
	if maxDepth == 0 {
		maxDepth = stack.ClampDepth(bc.Job.Thickness.Default, stack.DefaultDepth)
	}
	bc.BaseName = bc.Job.Name
	if bc.BaseName == "" {
		bc.BaseName = export.BaseName(bc.Job.Input, maxDepth)
	}

	if ui.IsVerbose() {
		for _, idx := range bc.Spans.Indices() {
			span := bc.Spans[idx]
			ui.PrintItem(fmt.Sprintf("L%d: z %.2f to %.2f mm", idx, span.ZStart, span.Top()))
		}
	}
	return nil
}

// BuildGeometryStep extrudes every output layer
type BuildGeometryStep struct{}

func (s *BuildGeometryStep) Name() string {
	return "Build geometry"
}

func (s *BuildGeometryStep) Execute(bc *Context) error {
	bc.Layers = geometry.Build(bc.Merged, bc.Spans, bc.Job.Detail)

	triangles := 0
	for _, layer := range bc.Layers {
		triangles += layer.Mesh.TriangleCount()
	}
	ui.PrintSuccess(fmt.Sprintf("Built %d layer%s with %s triangles", len(bc.Layers), pluralize(len(bc.Layers)), humanize.Comma(int64(triangles))))
	if dropped := len(bc.Spans) - len(bc.Layers); dropped > 0 {
		ui.PrintWarning(fmt.Sprintf("%d layer%s without geometry skipped", dropped, pluralize(dropped)))
	}
	return nil
}

// FitToBedStep scales the layers down to fit the bed
type FitToBedStep struct{}

func (s *FitToBedStep) Name() string {
	return "Fit to bed"
}

func (s *FitToBedStep) Execute(bc *Context) error {
	bed, err := config.Bed(bc.Job)
	if err != nil {
		return err
	}
	bc.Bed = bed
	bc.Scale = geometry.FitToBed(bc.Layers, bed)

	if ui.IsVerbose() {
		ui.PrintItem(fmt.Sprintf("Bed %gx%g mm, margin %g mm, scale %.3f", bed.Width, bed.Depth, bed.Margin, bc.Scale))
	}
	return nil
}

// SerializeStep renders the layers in every requested format
type SerializeStep struct{}

func (s *SerializeStep) Name() string {
	return "Serialize"
}

func (s *SerializeStep) Execute(bc *Context) error {
	done := make(map[string]bool)
	for _, format := range bc.Job.Formats {
		if done[format] {
			continue
		}
		done[format] = true

		switch format {
		case models.FormatOBJ:
			obj, mtl, err := export.ExportObjMtl(bc.Layers, bc.BaseName)
			if err != nil {
				return fmt.Errorf("OBJ export failed: %w", err)
			}
			bc.Files = append(bc.Files, obj, mtl)
		case models.FormatSTL:
			files, err := export.ExportStl(bc.Layers, bc.BaseName)
			if err != nil {
				return fmt.Errorf("STL export failed: %w", err)
			}
			bc.Files = append(bc.Files, files...)
		case models.FormatThreeMF:
			opts := export.ThreeMfOptions{UUIDs: bc.Job.UUIDs, Bambu: bc.Job.Bambu, Date: bc.Date}
			if bc.Job.Center {
				bed := bc.Bed
				opts.Bed = &bed
			}
			data, err := export.ExportThreeMfWith(bc.Layers, bc.BaseName, opts)
			if err != nil {
				return fmt.Errorf("3MF export failed: %w", err)
			}
			bc.Files = append(bc.Files, export.File{
				Name:        bc.BaseName + ".3mf",
				ContentType: export.ContentType3MF,
				Data:        data,
			})
		case models.FormatSVG:
			files, err := export.ExportSvg(bc.Image, bc.Visible, bc.BaseName)
			if err != nil {
				return fmt.Errorf("SVG export failed: %w", err)
			}
			bc.Files = append(bc.Files, files...)
		default:
			return fmt.Errorf("unsupported format %q", format)
		}
	}

	ui.PrintSuccess(fmt.Sprintf("Serialized %d file%s", len(bc.Files), pluralize(len(bc.Files))))
	return nil
}

// pluralize returns "s" if count != 1, empty string otherwise
func pluralize(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}

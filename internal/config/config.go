package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/philipparndt/layerprint/internal/geometry"
	"github.com/philipparndt/layerprint/internal/models"
)

// DefaultMargin is the bed margin in millimeters used when none is given
const DefaultMargin = 5.0

// DefaultBedPreset is used when the job names neither a preset nor a size
const DefaultBedPreset = "x1"

// BedPreset is a named printer bed
type BedPreset struct {
	Label string
	Width float64
	Depth float64
}

// BedPresets lists the known printer beds by key
var BedPresets = map[string]BedPreset{
	"x1":     {Label: "Bambu X1/X1C", Width: 256, Depth: 256},
	"a1mini": {Label: "Bambu A1 mini", Width: 180, Depth: 180},
	"h2d":    {Label: "Bambu H2D (single nozzle)", Width: 325, Depth: 320},
}

// PresetNames returns the preset keys in sorted order
func PresetNames() []string {
	names := make([]string, 0, len(BedPresets))
	for name := range BedPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Loader handles loading and validating YAML job files
type Loader struct{}

// NewLoader creates a new config loader
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads and parses a YAML job file. Defaults are applied and the
// input and output paths are made absolute relative to the job file.
func (l *Loader) Load(configPath string) (*models.JobConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var job models.JobConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&job); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	ApplyDefaults(&job)
	if err := l.Validate(&job); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	absConfigDir, err := filepath.Abs(filepath.Dir(configPath))
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path of config directory: %w", err)
	}

	job.Input = resolve(absConfigDir, job.Input)
	job.Output = resolve(absConfigDir, job.Output)
	if job.Tracer != nil && strings.ContainsRune(job.Tracer.Command, filepath.Separator) {
		job.Tracer.Command = resolve(absConfigDir, job.Tracer.Command)
	}

	return &job, nil
}

func resolve(dir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// ApplyDefaults fills in the values a job may leave out
func ApplyDefaults(job *models.JobConfig) {
	if len(job.Formats) == 0 {
		job.Formats = []string{models.FormatThreeMF}
	}
	for i, format := range job.Formats {
		job.Formats[i] = strings.ToLower(strings.TrimSpace(format))
	}
	if job.Detail == 0 {
		job.Detail = geometry.DefaultCurveSegments
	}
	if job.Output == "" {
		job.Output = "."
	}
}

// Validate checks if the job configuration is valid
func (l *Loader) Validate(job *models.JobConfig) error {
	if job.Input == "" {
		return fmt.Errorf("input file must be specified")
	}

	for _, format := range job.Formats {
		if !IsKnownFormat(format) {
			return fmt.Errorf("unknown format %q (supported: %s, %s, %s, %s)", format,
				models.FormatOBJ, models.FormatSTL, models.FormatThreeMF, models.FormatSVG)
		}
	}

	if job.Tracer != nil {
		if job.Tracer.Command == "" {
			return fmt.Errorf("tracer: command is required")
		}
		if job.Tracer.Colors < 0 {
			return fmt.Errorf("tracer: colors must not be negative")
		}
	}

	if job.Detail < 1 {
		return fmt.Errorf("detail must be at least 1")
	}

	if job.Thickness.Default < 0 {
		return fmt.Errorf("thickness: default must not be negative")
	}
	for idx, depth := range job.Thickness.Layers {
		if depth < 0 {
			return fmt.Errorf("thickness: layer %d must not be negative", idx)
		}
	}

	bed := job.Bed
	if bed.Preset != "" {
		if _, ok := BedPresets[bed.Preset]; !ok {
			return fmt.Errorf("bed: unknown preset %q (known: %s)", bed.Preset, strings.Join(PresetNames(), ", "))
		}
	}
	if bed.Width < 0 || bed.Depth < 0 {
		return fmt.Errorf("bed: width and depth must not be negative")
	}
	if bed.Margin != nil && *bed.Margin < 0 {
		return fmt.Errorf("bed: margin must not be negative")
	}

	return nil
}

// IsKnownFormat reports whether format names an output format
func IsKnownFormat(format string) bool {
	switch format {
	case models.FormatOBJ, models.FormatSTL, models.FormatThreeMF, models.FormatSVG:
		return true
	}
	return false
}

// Thickness converts the YAML thickness section. Depths are clamped later
// by the stack builder.
func Thickness(job *models.JobConfig) models.ThicknessConfig {
	layers := make(map[int]float64, len(job.Thickness.Layers))
	for idx, depth := range job.Thickness.Layers {
		layers[idx] = depth
	}
	return models.ThicknessConfig{Default: job.Thickness.Default, Layers: layers}
}

// BaseLayer converts the YAML base layer section
func BaseLayer(job *models.JobConfig) models.BaseLayerConfig {
	return models.BaseLayerConfig{Enabled: job.BaseLayer.Enabled, Index: job.BaseLayer.Index}
}

// Bed resolves the bed from the preset and explicit overrides. Without a
// preset or explicit size the default preset is used.
func Bed(job *models.JobConfig) (models.BedConfig, error) {
	name := job.Bed.Preset
	if name == "" {
		name = DefaultBedPreset
	}
	preset, ok := BedPresets[name]
	if !ok {
		return models.BedConfig{}, fmt.Errorf("unknown bed preset %q", name)
	}

	bed := models.BedConfig{Width: preset.Width, Depth: preset.Depth, Margin: DefaultMargin}
	if job.Bed.Width > 0 {
		bed.Width = job.Bed.Width
	}
	if job.Bed.Depth > 0 {
		bed.Depth = job.Bed.Depth
	}
	if job.Bed.Margin != nil {
		bed.Margin = *job.Bed.Margin
	}
	return bed, nil
}

package models

// Output formats understood by the exporter
const (
	FormatOBJ     = "obj"
	FormatSTL     = "stl"
	FormatThreeMF = "3mf"
	FormatSVG     = "svg"
)

// JobConfig represents the YAML job file for an export run
type JobConfig struct {
	Input     string        `yaml:"input"`
	Tracer    *TracerConfig `yaml:"tracer,omitempty"`
	Output    string        `yaml:"output"`
	Name      string        `yaml:"name,omitempty"`
	Formats   []string      `yaml:"formats"`
	Visible   []int         `yaml:"visible,omitempty"`
	Merges    []MergeRule   `yaml:"merges,omitempty"`
	Thickness YamlThickness `yaml:"thickness"`
	BaseLayer YamlBaseLayer `yaml:"base_layer"`
	Bed       YamlBed       `yaml:"bed"`
	Detail    int           `yaml:"detail,omitempty"`
	UUIDs     bool          `yaml:"uuids,omitempty"`
	Center    bool          `yaml:"center,omitempty"`
	Bambu     bool          `yaml:"bambu,omitempty"`
}

// TracerConfig configures an external tracer command. When set, Input is
// a raster image handed to the command instead of a tracedata file.
type TracerConfig struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args,omitempty"`
	Colors  int      `yaml:"colors,omitempty"`
}

type YamlThickness struct {
	Default float64         `yaml:"default"`
	Layers  map[int]float64 `yaml:"layers,omitempty"`
}

type YamlBaseLayer struct {
	Enabled bool `yaml:"enabled"`
	Index   int  `yaml:"index"`
}

// YamlBed selects a bed preset or explicit dimensions. Explicit values
// override the preset.
type YamlBed struct {
	Preset string   `yaml:"preset,omitempty"`
	Width  float64  `yaml:"width,omitempty"`
	Depth  float64  `yaml:"depth,omitempty"`
	Margin *float64 `yaml:"margin,omitempty"`
}

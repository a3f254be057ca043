package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/philipparndt/layerprint/internal/models"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "job.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "input: image.json\n")

	job, err := NewLoader().Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	dir := filepath.Dir(path)
	if job.Input != filepath.Join(dir, "image.json") {
		t.Errorf("Input = %q, want resolved against %q", job.Input, dir)
	}
	if job.Output != dir {
		t.Errorf("Output = %q, want %q", job.Output, dir)
	}
	if len(job.Formats) != 1 || job.Formats[0] != models.FormatThreeMF {
		t.Errorf("Formats = %v, want [3mf]", job.Formats)
	}
	if job.Detail != 6 {
		t.Errorf("Detail = %d, want 6", job.Detail)
	}
}

func TestLoadKeepsAbsolutePaths(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "elsewhere", "image.json")
	path := writeConfig(t, "input: "+abs+"\nformats: [OBJ, ' stl ']\n")

	job, err := NewLoader().Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if job.Input != abs {
		t.Errorf("Input = %q, want %q", job.Input, abs)
	}
	if strings.Join(job.Formats, ",") != "obj,stl" {
		t.Errorf("Formats = %v, want normalized names", job.Formats)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"missing input", "formats: [3mf]\n", "input file must be specified"},
		{"unknown format", "input: a.json\nformats: [gltf]\n", "unknown format"},
		{"unknown preset", "input: a.json\nbed:\n  preset: ender\n", "unknown preset"},
		{"negative margin", "input: a.json\nbed:\n  margin: -1\n", "margin"},
		{"negative thickness", "input: a.json\nthickness:\n  layers:\n    2: -3\n", "layer 2"},
		{"tracer without command", "input: a.png\ntracer:\n  args: [x]\n", "command is required"},
		{"unknown field", "input: a.json\nthikness: 3\n", "failed to parse YAML"},
		{"negative detail", "input: a.json\ndetail: -2\n", "detail"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader().Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := NewLoader().Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestBed(t *testing.T) {
	margin := 2.0
	tests := []struct {
		name string
		bed  models.YamlBed
		want models.BedConfig
	}{
		{"default preset", models.YamlBed{}, models.BedConfig{Width: 256, Depth: 256, Margin: 5}},
		{"named preset", models.YamlBed{Preset: "h2d"}, models.BedConfig{Width: 325, Depth: 320, Margin: 5}},
		{"explicit size", models.YamlBed{Width: 100, Depth: 80, Margin: &margin}, models.BedConfig{Width: 100, Depth: 80, Margin: 2}},
		{"preset with override", models.YamlBed{Preset: "a1mini", Depth: 150}, models.BedConfig{Width: 180, Depth: 150, Margin: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Bed(&models.JobConfig{Bed: tt.bed})
			if err != nil {
				t.Fatalf("Bed() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Bed() = %+v, want %+v", got, tt.want)
			}
		})
	}

	if _, err := Bed(&models.JobConfig{Bed: models.YamlBed{Preset: "unknown"}}); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestThicknessAndBaseLayer(t *testing.T) {
	job := &models.JobConfig{
		Thickness: models.YamlThickness{Default: 3, Layers: map[int]float64{1: 0.5}},
		BaseLayer: models.YamlBaseLayer{Enabled: true, Index: 2},
	}

	thickness := Thickness(job)
	if thickness.Default != 3 || thickness.Layers[1] != 0.5 {
		t.Errorf("Thickness() = %+v", thickness)
	}
	thickness.Layers[1] = 9
	if job.Thickness.Layers[1] != 0.5 {
		t.Error("Thickness() must copy the layer map")
	}

	if base := BaseLayer(job); !base.Enabled || base.Index != 2 {
		t.Errorf("BaseLayer() = %+v", base)
	}
}

func TestPresetNames(t *testing.T) {
	if got := strings.Join(PresetNames(), ","); got != "a1mini,h2d,x1" {
		t.Errorf("PresetNames() = %q", got)
	}
}

package config

import (
	"path/filepath"
	"testing"
)

// TestAllExamplesLoadSuccessfully tests that all example job files can be loaded and validated
func TestAllExamplesLoadSuccessfully(t *testing.T) {
	examples := []struct {
		name string
		file string
	}{
		{"badge", "../../example/badge.yaml"},
		{"merged", "../../example/merged.yaml"},
		{"traced", "../../example/traced.yaml"},
	}

	loader := NewLoader()

	for _, tt := range examples {
		t.Run(tt.name, func(t *testing.T) {
			absPath, err := filepath.Abs(tt.file)
			if err != nil {
				t.Fatalf("Failed to get absolute path: %v", err)
			}

			job, err := loader.Load(absPath)
			if err != nil {
				t.Fatalf("Failed to load %s: %v", tt.name, err)
			}

			if !filepath.IsAbs(job.Input) || !filepath.IsAbs(job.Output) {
				t.Errorf("paths not resolved in %s: %q, %q", tt.name, job.Input, job.Output)
			}

			if _, err := Bed(job); err != nil {
				t.Errorf("Bed() error in %s: %v", tt.name, err)
			}
		})
	}
}

// TestMergedExample tests the merged.yaml example specifically
func TestMergedExample(t *testing.T) {
	absPath, _ := filepath.Abs("../../example/merged.yaml")

	job, err := NewLoader().Load(absPath)
	if err != nil {
		t.Fatalf("Failed to load merged.yaml: %v", err)
	}

	if job.Name != "badge-merged" {
		t.Errorf("Name = %q", job.Name)
	}
	if len(job.Merges) != 1 || job.Merges[0].Source != 2 || job.Merges[0].Target != 1 {
		t.Errorf("Merges = %+v", job.Merges)
	}
	if !job.Center || !job.UUIDs || !job.Bambu {
		t.Errorf("flags not loaded: center=%v uuids=%v bambu=%v", job.Center, job.UUIDs, job.Bambu)
	}

	bed, err := Bed(job)
	if err != nil {
		t.Fatal(err)
	}
	if bed.Width != 120 || bed.Depth != 100 || bed.Margin != 10 {
		t.Errorf("Bed() = %+v", bed)
	}
}

// TestTracedExample tests the traced.yaml example specifically
func TestTracedExample(t *testing.T) {
	absPath, _ := filepath.Abs("../../example/traced.yaml")

	job, err := NewLoader().Load(absPath)
	if err != nil {
		t.Fatalf("Failed to load traced.yaml: %v", err)
	}

	if job.Tracer == nil || job.Tracer.Command != "imagetracer" {
		t.Fatalf("Tracer = %+v", job.Tracer)
	}
	if job.Tracer.Colors != 4 {
		t.Errorf("Colors = %d, want 4", job.Tracer.Colors)
	}
	if job.Detail != 3 {
		t.Errorf("Detail = %d, want 3", job.Detail)
	}
}

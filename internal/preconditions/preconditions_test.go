package preconditions

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/philipparndt/layerprint/internal/models"
)

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "image.json")
	if err := os.WriteFile(input, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		job     models.JobConfig
		wantErr string
	}{
		{"valid", models.JobConfig{Input: input, Output: filepath.Join(dir, "new", "nested"), Formats: []string{"3mf"}}, ""},
		{"no formats", models.JobConfig{Input: input, Output: dir}, "Formats"},
		{"bad format", models.JobConfig{Input: input, Output: dir, Formats: []string{"dxf"}}, "unsupported format"},
		{"missing input", models.JobConfig{Input: filepath.Join(dir, "none.json"), Output: dir, Formats: []string{"stl"}}, "Input"},
		{"input is dir", models.JobConfig{Input: dir, Output: dir, Formats: []string{"stl"}}, "is a directory"},
		{"output is file", models.JobConfig{Input: input, Output: input, Formats: []string{"obj"}}, "not a directory"},
		{
			"missing tracer",
			models.JobConfig{Input: input, Output: dir, Formats: []string{"obj"}, Tracer: &models.TracerConfig{Command: "layerprint-no-such-tracer"}},
			"not found in PATH",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(&tt.job)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Check() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Check() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

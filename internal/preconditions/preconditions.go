package preconditions

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/philipparndt/layerprint/internal/config"
	"github.com/philipparndt/layerprint/internal/models"
)

// Check verifies all preconditions of a job are met
func Check(job *models.JobConfig) error {
	checks := []struct {
		name string
		fn   func(*models.JobConfig) error
	}{
		{"Formats", checkFormats},
		{"Tracer", checkTracer},
		{"Input", func(job *models.JobConfig) error { return ValidateInput(job.Input) }},
		{"Output", func(job *models.JobConfig) error { return ValidateOutputDir(job.Output) }},
	}

	for _, check := range checks {
		if err := check.fn(job); err != nil {
			return fmt.Errorf("%s: %w", check.name, err)
		}
	}

	return nil
}

func checkFormats(job *models.JobConfig) error {
	if len(job.Formats) == 0 {
		return fmt.Errorf("no output format selected")
	}
	for _, format := range job.Formats {
		if !config.IsKnownFormat(format) {
			return fmt.Errorf("unsupported format %q", format)
		}
	}
	return nil
}

func checkTracer(job *models.JobConfig) error {
	if job.Tracer == nil {
		return nil
	}
	if _, err := exec.LookPath(job.Tracer.Command); err != nil {
		return fmt.Errorf("%s not found in PATH. Install a tracer that prints tracedata JSON or pass a tracedata file", job.Tracer.Command)
	}
	return nil
}

// ValidateInput checks if the input file exists and is readable
func ValidateInput(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access file %s: %w", path, err)
	}

	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot read file %s: %w", path, err)
	}
	file.Close()

	return nil
}

// ValidateOutputDir checks if the output directory, or the closest
// existing parent that would hold it, is writable
func ValidateOutputDir(dir string) error {
	if dir == "" {
		dir = "."
	}

	for {
		info, err := os.Stat(dir)
		if err == nil {
			if !info.IsDir() {
				return fmt.Errorf("%s is not a directory", dir)
			}
			if info.Mode().Perm()&0200 == 0 {
				return fmt.Errorf("output directory %s is not writable", dir)
			}
			return nil
		}
		if !os.IsNotExist(err) {
			return fmt.Errorf("cannot access %s: %w", dir, err)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return fmt.Errorf("output directory %s has no existing parent", dir)
		}
		dir = parent
	}
}

package cmd

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderExportHelp renders the help text for the export command with lipgloss styling
func renderExportHelp() string {
	// Define styles
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		MarginTop(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("10"))

	commandStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("14"))

	commentStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Italic(true)

	flagStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("11"))

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("Examples"))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Tracedata - export every layer as 3MF"))
	b.WriteString("\n")
	b.WriteString("  " + commandStyle.Render("layerprint export logo.json -o out"))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Base plate - layer 0 under all others, per-layer STL"))
	b.WriteString("\n")
	b.WriteString("  " + commandStyle.Render("layerprint export logo.json --base -t 1.2 --layer-thickness 0=0.8 -f stl"))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Merging - print layers 2 and 3 in the color of layer 1"))
	b.WriteString("\n")
	b.WriteString("  " + commandStyle.Render("layerprint export logo.json -m 2:1 -m 3:1 --bambu --center"))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Raster input through an external tracer"))
	b.WriteString("\n")
	b.WriteString("  " + commandStyle.Render("layerprint export photo.png --tracer imagetracer --tracer-arg={input} --colors 4"))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Layer options:"))
	b.WriteString("\n")

	flags := []struct {
		flag string
		desc string
	}{
		{"-m S:T", "Merge visible layer S into T (repeatable, transitive)"},
		{"--visible", "Only use these source layers"},
		{"--base", "Raise all layers onto the base layer (--base-index)"},
		{"--bed", "Scale down to fit x1, a1mini or h2d"},
	}

	// Calculate max flag width for alignment
	maxWidth := 0
	for _, f := range flags {
		if len(f.flag) > maxWidth {
			maxWidth = len(f.flag)
		}
	}

	for _, f := range flags {
		padding := strings.Repeat(" ", maxWidth-len(f.flag)+2)
		b.WriteString("  " + flagStyle.Render(f.flag) + padding + commentStyle.Render(f.desc))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("YAML job mode"))
	b.WriteString("\n")
	b.WriteString("  " + commandStyle.Render("layerprint export job.yaml"))
	b.WriteString("\n")

	return b.String()
}

// Package ui prints styled progress and report output to the terminal.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Out receives all output. Tests may replace it.
var Out io.Writer = os.Stdout

var verbose atomic.Bool

var (
	brandColor = lipgloss.Color("#E8702A")
	coolColor  = lipgloss.Color("#3FB6C8")
	okColor    = lipgloss.Color("#5BB55B")
	failColor  = lipgloss.Color("#E5484D")
	warnColor  = lipgloss.Color("#F2A93B")
	dimColor   = lipgloss.Color("#6E6E6E")
	goldColor  = lipgloss.Color("#F5C542")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(brandColor).
			MarginTop(1).
			MarginBottom(1).
			PaddingLeft(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(coolColor).
			MarginTop(1).
			PaddingLeft(1)

	keyStyle   = lipgloss.NewStyle().Foreground(coolColor).Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(dimColor)
	indentStep = lipgloss.NewStyle().PaddingLeft(2)
	indentItem = lipgloss.NewStyle().PaddingLeft(4)
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(brandColor).
			Padding(0, 1).
			MarginTop(1).
			MarginBottom(1)
)

func marker(c lipgloss.Color, mark string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c).Bold(true).SetString(mark)
}

// status is one kind of single line message
type status struct {
	mark lipgloss.Style
	text lipgloss.Style
}

var (
	stepStatus      = status{mark: marker(coolColor, "→"), text: lipgloss.NewStyle()}
	successStatus   = status{mark: marker(okColor, "✓"), text: lipgloss.NewStyle().Foreground(okColor).Bold(true)}
	errorStatus     = status{mark: marker(failColor, "✗"), text: lipgloss.NewStyle().Foreground(failColor).Bold(true)}
	warningStatus   = status{mark: marker(warnColor, "⚠"), text: lipgloss.NewStyle().Foreground(warnColor)}
	highlightStatus = status{mark: marker(goldColor, "★"), text: lipgloss.NewStyle().Foreground(goldColor).Bold(true)}
)

func (s status) print(message string) {
	emit(indentStep.Render(s.mark.String() + " " + s.text.Render(message)))
}

func emit(line string) {
	fmt.Fprintln(Out, line)
}

// PrintTitle prints a major title
func PrintTitle(title string) {
	emit(titleStyle.Render("╭─ " + title + " ─╮"))
}

// PrintHeader prints a section header
func PrintHeader(title string) {
	emit(headerStyle.Render("\n▸ " + title))
}

// PrintStep prints a step with indentation
func PrintStep(step string) { stepStatus.print(step) }

// PrintSuccess prints a success message
func PrintSuccess(message string) { successStatus.print(message) }

// PrintError prints an error message
func PrintError(message string) { errorStatus.print(message) }

// PrintWarning prints a warning message
func PrintWarning(message string) { warningStatus.print(message) }

// PrintHighlight prints highlighted text
func PrintHighlight(message string) { highlightStatus.print(message) }

// PrintInfo prints a muted message
func PrintInfo(message string) {
	emit(indentStep.Render(mutedStyle.Render(message)))
}

// PrintItem prints an item in a list
func PrintItem(item string) {
	emit(indentItem.Render(mutedStyle.Render("•") + " " + item))
}

// PrintBox prints text in a rounded box
func PrintBox(content string) {
	emit(boxStyle.Render(content))
}

// PrintKeyValue prints a key and its value
func PrintKeyValue(key, value string) {
	emit(indentStep.Render(keyStyle.Render(key+":") + " " + value))
}

// PrintSeparator prints a horizontal rule
func PrintSeparator() {
	emit(mutedStyle.Render(strings.Repeat("─", 45)))
}

// Swatch renders a small block in the given #RRGGBB color
func Swatch(hex string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("██")
}

// ColorLabel renders text on a background of the given #RRGGBB color, in
// black or white depending on which reads better
func ColorLabel(hex, text string) string {
	bg, err := colorful.Hex(hex)
	if err != nil {
		return text
	}
	fg := "#FFFFFF"
	if l, _, _ := bg.Lab(); l > 0.6 {
		fg = "#000000"
	}
	return lipgloss.NewStyle().
		Background(lipgloss.Color(bg.Hex())).
		Foreground(lipgloss.Color(fg)).
		Padding(0, 1).
		Render(text)
}

// Table prints aligned columns. Cells wider than their column are cut when
// they are plain text; styled cells are only padded.
type Table struct {
	Widths []int
}

// LayerTable has room for a label, a color, a z range and a mesh summary
var LayerTable = Table{Widths: []int{16, 12, 20, 24}}

func (t Table) fit(i int, cell string) string {
	w := t.Widths[i]
	switch cw := lipgloss.Width(cell); {
	case cw > w && cw == len(cell):
		return cell[:w-3] + "..."
	case cw < w:
		return cell + strings.Repeat(" ", w-cw)
	}
	return cell
}

func (t Table) join(cells []string, sep string) string {
	n := min(len(cells), len(t.Widths))
	parts := make([]string, n)
	for i := range parts {
		parts[i] = t.fit(i, cells[i])
	}
	return strings.Join(parts, sep)
}

// Header prints the column titles and a rule below them
func (t Table) Header(titles ...string) {
	emit(indentStep.Render(keyStyle.Render(t.join(titles, " │ "))))

	rules := make([]string, min(len(titles), len(t.Widths)))
	for i := range rules {
		rules[i] = strings.Repeat("─", t.Widths[i])
	}
	emit(indentStep.Render(mutedStyle.Render(strings.Join(rules, "─┼─"))))
}

// Row prints one row
func (t Table) Row(cells ...string) {
	if len(cells) == 0 {
		return
	}
	emit(indentStep.Render(t.join(cells, " │ ")))
}

// PrintTableHeader prints a LayerTable header
func PrintTableHeader(headers ...string) { LayerTable.Header(headers...) }

// PrintTableRow prints a LayerTable row
func PrintTableRow(columns ...string) { LayerTable.Row(columns...) }

// SetVerbose turns step by step output on or off
func SetVerbose(v bool) {
	verbose.Store(v)
}

// IsVerbose reports whether step by step output is enabled, either
// explicitly or because the CI environment variable is set
func IsVerbose() bool {
	return verbose.Load() || os.Getenv("CI") != ""
}

package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := Out
	Out = &buf
	t.Cleanup(func() { Out = old })
	return &buf
}

func TestTableRowPadsAndTruncates(t *testing.T) {
	buf := capture(t)

	table := Table{Widths: []int{6, 4}}
	table.Row("abcdefghij", "ab")

	line := strings.TrimRight(buf.String(), "\n")
	if !strings.Contains(line, "abc... │ ab") {
		t.Errorf("row = %q", line)
	}
}

func TestTableRowIgnoresExtraCells(t *testing.T) {
	buf := capture(t)

	Table{Widths: []int{3}}.Row("a", "b")
	if strings.Contains(buf.String(), "b") {
		t.Errorf("extra cell printed: %q", buf.String())
	}
}

func TestTableHeaderRule(t *testing.T) {
	buf := capture(t)

	Table{Widths: []int{2, 3}}.Header("A", "B")
	if !strings.Contains(buf.String(), "──"+"─┼─"+"───") {
		t.Errorf("header rule missing: %q", buf.String())
	}
}

func TestColorLabelWidth(t *testing.T) {
	label := ColorLabel("#ffffff", "FFFFFF")
	if w := lipgloss.Width(label); w != 8 {
		t.Errorf("label width = %d, want 8", w)
	}
	if got := ColorLabel("not a color", "x"); got != "x" {
		t.Errorf("invalid color should return the text, got %q", got)
	}
}

func TestVerbose(t *testing.T) {
	t.Setenv("CI", "")
	SetVerbose(false)
	if IsVerbose() {
		t.Error("IsVerbose() = true without flag or CI")
	}

	SetVerbose(true)
	t.Cleanup(func() { SetVerbose(false) })
	if !IsVerbose() {
		t.Error("IsVerbose() = false after SetVerbose(true)")
	}
}

func TestPrintSuccessWritesMessage(t *testing.T) {
	buf := capture(t)
	PrintSuccess("done")
	if !strings.Contains(buf.String(), "done") {
		t.Errorf("output = %q", buf.String())
	}
}

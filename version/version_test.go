package version

import (
	"strings"
	"testing"
)

func TestInfoString(t *testing.T) {
	info := Info{Version: "1.2.0", Commit: "0123456789abcdef", Date: "2026-10-15", GoVersion: "go1.24", Platform: "linux/amd64"}

	want := "layerprint 1.2.0 (go1.24, linux/amd64)\ncommit 0123456\nbuilt 2026-10-15"
	if got := info.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestGet(t *testing.T) {
	info := Get()
	if info.Version == "" {
		t.Error("Version is empty")
	}
	if !strings.Contains(info.Platform, "/") {
		t.Errorf("Platform = %q", info.Platform)
	}
}

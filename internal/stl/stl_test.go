package stl

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriterRoundTrip(t *testing.T) {
	mesh := &Mesh{Triangles: []Triangle{
		{Normal: Vector3{0, 0, 1}, V1: Vector3{0, 0, 0}, V2: Vector3{1, 0, 0}, V3: Vector3{0, 1, 0}},
		{Normal: Vector3{0, 0, -1}, V1: Vector3{0, 0, 0}, V2: Vector3{0, 1, 0}, V3: Vector3{1, 0, 0}},
	}}

	// A header starting with "solid" must still be read as binary
	data, err := NewWriter("solid but binary").Encode(mesh)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if len(data) != BinarySize(2) {
		t.Fatalf("len = %d, want %d", len(data), BinarySize(2))
	}

	parsed, err := NewParser().ParseBytes(data, "mesh.stl")
	if err != nil {
		t.Fatalf("ParseBytes() error = %v", err)
	}
	if len(parsed.Triangles) != 2 {
		t.Fatalf("got %d triangles, want 2", len(parsed.Triangles))
	}
	for i := range mesh.Triangles {
		if parsed.Triangles[i] != mesh.Triangles[i] {
			t.Errorf("triangle %d = %v, want %v", i, parsed.Triangles[i], mesh.Triangles[i])
		}
	}
}

func TestParseASCII(t *testing.T) {
	content := `solid cube
  facet normal 0 0 1
    outer loop
      vertex 0 0 0
      vertex 1 0 0
      vertex 0 1 0
    endloop
  endfacet
endsolid cube
`
	path := filepath.Join(t.TempDir(), "cube.stl")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	mesh, err := NewParser().Parse(path)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if mesh.Name != "cube" {
		t.Errorf("Name = %q, want cube", mesh.Name)
	}
	if len(mesh.Triangles) != 1 {
		t.Fatalf("got %d triangles, want 1", len(mesh.Triangles))
	}
	if got := mesh.Triangles[0].V2; got != (Vector3{1, 0, 0}) {
		t.Errorf("V2 = %v", got)
	}
}

func TestParseBinaryTruncated(t *testing.T) {
	data, err := NewWriter("test").Encode(&Mesh{Triangles: make([]Triangle, 3)})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewParser().ParseBytes(data[:len(data)-10], "broken.stl"); err == nil {
		t.Error("expected error for truncated file")
	}
}

func TestParseASCIIErrors(t *testing.T) {
	tests := map[string]string{
		"missing vertex": "solid x\nfacet normal 0 0 1\nouter loop\nvertex 0 0 0\nvertex 1 0 0\nendloop\nendfacet\nendsolid x\n",
		"bad number":     "solid x\nfacet normal 0 0 1\nouter loop\nvertex 0 zero 0\n",
		"bad facet":      "solid x\nfacet 0 0 1\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := NewParser().ParseBytes([]byte(content), "bad.stl"); err == nil {
				t.Error("expected error")
			}
		})
	}
}

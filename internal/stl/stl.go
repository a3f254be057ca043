package stl

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Binary layout sizes
const (
	HeaderSize   = 80
	TriangleSize = 50
)

// Vector3 represents a 3D vector
type Vector3 struct {
	X, Y, Z float32
}

// Triangle represents a triangle in 3D space
type Triangle struct {
	Normal     Vector3
	V1, V2, V3 Vector3
}

// Mesh represents an STL mesh
type Mesh struct {
	Name      string
	Triangles []Triangle
}

// BinarySize returns the encoded size of a binary STL with n triangles
func BinarySize(n int) int {
	return HeaderSize + 4 + TriangleSize*n
}

// Parser parses STL files
type Parser struct{}

// NewParser creates a new STL parser
func NewParser() *Parser {
	return &Parser{}
}

// Parse reads an STL file and returns the mesh data
func (p *Parser) Parse(filename string) (*Mesh, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("cannot open file: %w", err)
	}
	return p.ParseBytes(data, filepath.Base(filename))
}

// ParseBytes parses an in-memory STL. Binary files are recognized by their
// exact length, so binary headers starting with "solid" are handled too.
func (p *Parser) ParseBytes(data []byte, name string) (*Mesh, error) {
	if len(data) >= HeaderSize+4 {
		count := binary.LittleEndian.Uint32(data[HeaderSize : HeaderSize+4])
		if uint64(len(data)) == uint64(HeaderSize+4)+uint64(count)*TriangleSize {
			return p.parseBinary(bytes.NewReader(data), name)
		}
	}

	// Check if it's ASCII (starts with "solid")
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("solid")) {
		return p.parseASCII(bytes.NewReader(data), name)
	}
	return p.parseBinary(bytes.NewReader(data), name)
}

// parseASCII parses an ASCII STL file. Every facet must carry exactly three
// vertices.
func (p *Parser) parseASCII(reader io.Reader, name string) (*Mesh, error) {
	mesh := &Mesh{Name: name, Triangles: []Triangle{}}

	var facet Triangle
	var corners []Vector3
	scanner := bufio.NewScanner(reader)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "solid":
			if len(fields) > 1 {
				mesh.Name = strings.Join(fields[1:], " ")
			}
		case "facet":
			if len(fields) != 5 || fields[1] != "normal" {
				return nil, fmt.Errorf("line %d: expected facet normal nx ny nz", lineNo)
			}
			n, err := parseVector(fields[2:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			facet, corners = Triangle{Normal: n}, corners[:0]
		case "vertex":
			if len(fields) != 4 {
				return nil, fmt.Errorf("line %d: expected vertex x y z", lineNo)
			}
			v, err := parseVector(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			corners = append(corners, v)
		case "endfacet":
			if len(corners) != 3 {
				return nil, fmt.Errorf("facet %d has %d vertices", len(mesh.Triangles), len(corners))
			}
			facet.V1, facet.V2, facet.V3 = corners[0], corners[1], corners[2]
			mesh.Triangles = append(mesh.Triangles, facet)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	return mesh, nil
}

func parseVector(fields []string) (Vector3, error) {
	var xyz [3]float32
	for i, field := range fields {
		f, err := strconv.ParseFloat(field, 32)
		if err != nil {
			return Vector3{}, fmt.Errorf("invalid number %q", field)
		}
		xyz[i] = float32(f)
	}
	return Vector3{xyz[0], xyz[1], xyz[2]}, nil
}

// parseBinary parses a binary STL file
func (p *Parser) parseBinary(reader io.Reader, name string) (*Mesh, error) {
	mesh := &Mesh{
		Name: name,
	}

	// Read 80-byte header
	header := make([]byte, HeaderSize)
	if _, err := io.ReadFull(reader, header); err != nil {
		return nil, fmt.Errorf("error reading header: %w", err)
	}

	// Read triangle count
	var triangleCount uint32
	if err := binary.Read(reader, binary.LittleEndian, &triangleCount); err != nil {
		return nil, fmt.Errorf("error reading triangle count: %w", err)
	}

	// Read triangles
	mesh.Triangles = make([]Triangle, 0, min(int(triangleCount), 1<<20))
	for i := uint32(0); i < triangleCount; i++ {
		var rec binaryTriangle
		if err := binary.Read(reader, binary.LittleEndian, &rec); err != nil {
			return nil, fmt.Errorf("error reading triangle %d: %w", i, err)
		}
		mesh.Triangles = append(mesh.Triangles, rec.Triangle)
	}

	return mesh, nil
}

// binaryTriangle is the 50 byte on-disk triangle record
type binaryTriangle struct {
	Triangle
	Attribute uint16
}

// Writer writes binary STL files
type Writer struct {
	header string
}

// NewWriter creates a binary STL writer that puts header into the 80 byte
// header field, truncated as needed. The header must not start with
// "solid" to keep the file from being mistaken for ASCII.
func NewWriter(header string) *Writer {
	return &Writer{header: header}
}

// Write encodes mesh as binary STL
func (w *Writer) Write(out io.Writer, mesh *Mesh) error {
	header := make([]byte, HeaderSize)
	copy(header, w.header)

	bw := bufio.NewWriter(out)
	if _, err := bw.Write(header); err != nil {
		return fmt.Errorf("error writing header: %w", err)
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(len(mesh.Triangles))); err != nil {
		return fmt.Errorf("error writing triangle count: %w", err)
	}
	for i, tri := range mesh.Triangles {
		if err := binary.Write(bw, binary.LittleEndian, binaryTriangle{Triangle: tri}); err != nil {
			return fmt.Errorf("error writing triangle %d: %w", i, err)
		}
	}
	return bw.Flush()
}

// Encode returns mesh as binary STL bytes
func (w *Writer) Encode(mesh *Mesh) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(BinarySize(len(mesh.Triangles)))
	if err := w.Write(&buf, mesh); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

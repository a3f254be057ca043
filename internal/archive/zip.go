package archive

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// Record signatures and sizes of the ZIP format
const (
	localHeaderSignature   = 0x04034b50
	centralHeaderSignature = 0x02014b50
	endOfCentralSignature  = 0x06054b50

	localHeaderSize   = 30
	centralHeaderSize = 46
	endOfCentralSize  = 22

	zipVersion   = 20
	methodStored = 0
)

// ErrTooLarge is returned when an archive would need ZIP64 records
var ErrTooLarge = errors.New("archive exceeds ZIP limits")

// Entry is a single file stored in the archive
type Entry struct {
	Name string
	Data []byte
}

// entryRecord is the side table filled while writing local headers
type entryRecord struct {
	name   []byte
	offset uint32
	crc    uint32
	size   uint32
}

// Writer assembles uncompressed ZIP archives
type Writer struct{}

// NewWriter creates a new archive writer
func NewWriter() *Writer {
	return &Writer{}
}

// Write returns the archive bytes for entries, in the given order
func (w *Writer) Write(entries []Entry) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf, entries); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTo streams the archive to out and returns the number of bytes written
func (w *Writer) WriteTo(out io.Writer, entries []Entry) (int64, error) {
	if len(entries) > math.MaxUint16 {
		return 0, fmt.Errorf("%d entries: %w", len(entries), ErrTooLarge)
	}

	cw := &countingWriter{w: out}
	records := make([]entryRecord, 0, len(entries))

	// First pass: local headers followed by raw data
	for _, entry := range entries {
		name := []byte(entry.Name)
		if len(name) > math.MaxUint16 {
			return cw.n, fmt.Errorf("entry name %q: %w", entry.Name, ErrTooLarge)
		}
		if uint64(len(entry.Data)) > math.MaxUint32 || cw.n > math.MaxUint32 {
			return cw.n, fmt.Errorf("entry %q: %w", entry.Name, ErrTooLarge)
		}

		rec := entryRecord{
			name:   name,
			offset: uint32(cw.n),
			crc:    Checksum(entry.Data),
			size:   uint32(len(entry.Data)),
		}

		var hdr [localHeaderSize]byte
		le := binary.LittleEndian
		le.PutUint32(hdr[0:], localHeaderSignature)
		le.PutUint16(hdr[4:], zipVersion)
		le.PutUint16(hdr[6:], 0) // flags
		le.PutUint16(hdr[8:], methodStored)
		le.PutUint16(hdr[10:], 0) // mod time
		le.PutUint16(hdr[12:], 0) // mod date
		le.PutUint32(hdr[14:], rec.crc)
		le.PutUint32(hdr[18:], rec.size)
		le.PutUint32(hdr[22:], rec.size)
		le.PutUint16(hdr[26:], uint16(len(name)))
		le.PutUint16(hdr[28:], 0) // extra length

		if err := cw.writeAll(hdr[:], name, entry.Data); err != nil {
			return cw.n, fmt.Errorf("error writing entry %q: %w", entry.Name, err)
		}
		records = append(records, rec)
	}

	if cw.n > math.MaxUint32 {
		return cw.n, fmt.Errorf("central directory offset: %w", ErrTooLarge)
	}
	centralOffset := uint32(cw.n)

	// Second pass: central directory from the side table
	for _, rec := range records {
		var hdr [centralHeaderSize]byte
		le := binary.LittleEndian
		le.PutUint32(hdr[0:], centralHeaderSignature)
		le.PutUint16(hdr[4:], zipVersion) // version made by
		le.PutUint16(hdr[6:], zipVersion) // version needed
		le.PutUint16(hdr[8:], 0)
		le.PutUint16(hdr[10:], methodStored)
		le.PutUint16(hdr[12:], 0)
		le.PutUint16(hdr[14:], 0)
		le.PutUint32(hdr[16:], rec.crc)
		le.PutUint32(hdr[20:], rec.size)
		le.PutUint32(hdr[24:], rec.size)
		le.PutUint16(hdr[28:], uint16(len(rec.name)))
		le.PutUint16(hdr[30:], 0) // extra length
		le.PutUint16(hdr[32:], 0) // comment length
		le.PutUint16(hdr[34:], 0) // disk number start
		le.PutUint16(hdr[36:], 0) // internal attributes
		le.PutUint32(hdr[38:], 0) // external attributes
		le.PutUint32(hdr[42:], rec.offset)

		if err := cw.writeAll(hdr[:], rec.name); err != nil {
			return cw.n, fmt.Errorf("error writing central directory: %w", err)
		}
	}

	centralSize := cw.n - int64(centralOffset)
	if centralSize > math.MaxUint32 {
		return cw.n, fmt.Errorf("central directory size: %w", ErrTooLarge)
	}

	var end [endOfCentralSize]byte
	le := binary.LittleEndian
	le.PutUint32(end[0:], endOfCentralSignature)
	le.PutUint16(end[4:], 0) // this disk
	le.PutUint16(end[6:], 0) // disk with central directory
	le.PutUint16(end[8:], uint16(len(records)))
	le.PutUint16(end[10:], uint16(len(records)))
	le.PutUint32(end[12:], uint32(centralSize))
	le.PutUint32(end[16:], centralOffset)
	le.PutUint16(end[20:], 0) // comment length

	if err := cw.writeAll(end[:]); err != nil {
		return cw.n, fmt.Errorf("error writing end of central directory: %w", err)
	}
	return cw.n, nil
}

// countingWriter tracks the absolute position inside the archive
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) writeAll(chunks ...[]byte) error {
	for _, chunk := range chunks {
		n, err := c.w.Write(chunk)
		c.n += int64(n)
		if err != nil {
			return err
		}
	}
	return nil
}

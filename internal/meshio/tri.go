package meshio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
)

// TRI format errors.
var (
	ErrInvalidTRIMagic       = errors.New("invalid TRI magic: expected 'TRIS'")
	ErrUnsupportedTRIVersion = errors.New("unsupported TRI version")
	ErrTruncatedTRIData      = errors.New("truncated TRI data")
)

const (
	triMagic      = "TRIS"
	triHeaderSize = 10 // magic + major + minor + uint32 count
	triRecordSize = 9 * 4

	// TRIVersionMajor and TRIVersionMinor are written by EncodeTRI.
	TRIVersionMajor = 1
	TRIVersionMinor = 0
)

// ParseTRI parses a raw triangle soup: "TRIS", version major and minor bytes,
// a little-endian uint32 triangle count, then nine float32 per triangle.
func ParseTRI(data []byte) ([]float32, error) {
	if len(data) < triHeaderSize {
		return nil, ErrTruncatedTRIData
	}

	if string(data[0:4]) != triMagic {
		return nil, ErrInvalidTRIMagic
	}

	major, minor := data[4], data[5]
	if major != TRIVersionMajor {
		return nil, fmt.Errorf("%w: %d.%d", ErrUnsupportedTRIVersion, major, minor)
	}

	count := binary.LittleEndian.Uint32(data[6:10])
	body := data[triHeaderSize:]
	if uint64(len(body)) < uint64(count)*triRecordSize {
		return nil, fmt.Errorf("%w: %d triangles declared, %d bytes of data", ErrTruncatedTRIData, count, len(body))
	}

	vertices := make([]float32, int(count)*9)
	if err := binary.Read(bytes.NewReader(body), binary.LittleEndian, vertices); err != nil {
		return nil, fmt.Errorf("%w: reading vertices", ErrTruncatedTRIData)
	}
	return vertices, nil
}

// ParseTRIFile parses a TRI file from disk.
func ParseTRIFile(path string) ([]float32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading TRI file: %w", err)
	}
	return ParseTRI(data)
}

// EncodeTRI serializes a flat vertex buffer. A trailing partial triangle is dropped.
func EncodeTRI(vertices []float32) []byte {
	count := len(vertices) / 9

	var buf bytes.Buffer
	buf.Grow(triHeaderSize + count*triRecordSize)
	buf.WriteString(triMagic)
	buf.WriteByte(TRIVersionMajor)
	buf.WriteByte(TRIVersionMinor)
	binary.Write(&buf, binary.LittleEndian, uint32(count))
	binary.Write(&buf, binary.LittleEndian, vertices[:count*9])
	return buf.Bytes()
}

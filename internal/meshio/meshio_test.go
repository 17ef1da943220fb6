package meshio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/meshcollide/internal/config"
	"github.com/Faultbox/meshcollide/pkg/collision"
	"github.com/Faultbox/meshcollide/pkg/math"
)

var floor = []float32{
	0, 0, 0, 1, 0, 0, 0, 1, 0,
	1, 0, 0, 1, 1, 0, 0, 1, 0,
}

func TestTRIRoundTrip(t *testing.T) {
	data := EncodeTRI(floor)
	require.Len(t, data, triHeaderSize+2*triRecordSize)

	got, err := ParseTRI(data)
	require.NoError(t, err)
	assert.Equal(t, floor, got)
}

func TestEncodeTRIDropsPartialTriangle(t *testing.T) {
	data := EncodeTRI(append(append([]float32{}, floor...), 7, 7))

	got, err := ParseTRI(data)
	require.NoError(t, err)
	assert.Equal(t, floor, got)
}

func TestParseTRIErrors(t *testing.T) {
	valid := EncodeTRI(floor)

	badMagic := append([]byte{}, valid...)
	copy(badMagic, "GRAT")

	badVersion := append([]byte{}, valid...)
	badVersion[4] = 2

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrTruncatedTRIData},
		{"short header", valid[:8], ErrTruncatedTRIData},
		{"bad magic", badMagic, ErrInvalidTRIMagic},
		{"bad version", badVersion, ErrUnsupportedTRIVersion},
		{"missing records", valid[:len(valid)-4], ErrTruncatedTRIData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTRI(tt.data)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestParseTRIEmptyMesh(t *testing.T) {
	got, err := ParseTRI(EncodeTRI(nil))
	require.NoError(t, err)
	assert.Empty(t, got)
}

// binarySTL writes a binary STL with a zeroed header and zero facet normals.
func binarySTL(t *testing.T, vertices []float32) []byte {
	t.Helper()

	var buf bytes.Buffer
	buf.Write(make([]byte, 80))
	count := len(vertices) / 9
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint32(count)))
	for i := 0; i < count; i++ {
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, [3]float32{}))
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, vertices[i*9:i*9+9]))
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint16(0)))
	}
	return buf.Bytes()
}

func TestLoadBinarySTL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "floor.stl")
	require.NoError(t, os.WriteFile(path, binarySTL(t, floor), 0644))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, reversed(floor), got)
}

// reversed swaps the second and third vertex of every triangle.
func reversed(vertices []float32) []float32 {
	out := append([]float32{}, vertices...)
	for i := 0; i+8 < len(out); i += 9 {
		copy(out[i+3:i+6], vertices[i+6:i+9])
		copy(out[i+6:i+9], vertices[i+3:i+6])
	}
	return out
}

func TestLoadASCIISTL(t *testing.T) {
	const src = `solid ramp
  facet normal 0 0 1
    outer loop
      vertex 0 0 0
      vertex 2 0 0
      vertex 0 2 1
    endloop
  endfacet
endsolid ramp
`
	path := filepath.Join(t.TempDir(), "ramp.STL")
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 0, 0, 0, 2, 1, 2, 0, 0}, got)
}

func TestSTLFloorFacesOutwardWithDefaults(t *testing.T) {
	const src = `solid floor
  facet normal 0 0 1
    outer loop
      vertex -10 -10 0
      vertex 10 -10 0
      vertex -10 10 0
    endloop
  endfacet
endsolid floor
`
	path := filepath.Join(t.TempDir(), "floor.stl")
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))

	vertices, err := Load(path)
	require.NoError(t, err)

	mesh := collision.Build(vertices, config.Default().BuildOptions()...)
	require.Equal(t, 1, mesh.Len())
	assert.Equal(t, math.Vec3{Z: 1}, mesh.Triangle(0).Normal())

	p := math.Vec3{X: -5, Y: -5, Z: 0.2}
	assert.True(t, mesh.Resolve(&p, 0.5))
	assert.InDelta(t, 0.5, p.Z, 1e-5)
}

func TestLoadTRIFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "floor.tri")
	require.NoError(t, os.WriteFile(path, EncodeTRI(floor), 0644))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, floor, got)
}

func TestLoadUnknownFormat(t *testing.T) {
	_, err := Load("level.obj")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.tri"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestTransform(t *testing.T) {
	m := math.Translate(math.Vec3{X: 10}).Mul(math.Scale(2, 2, 2))

	got := Transform(floor[:9], m)

	assert.Equal(t, []float32{10, 0, 0, 12, 0, 0, 10, 2, 0}, got)
	assert.Equal(t, float32(1), floor[3], "input must not be modified")
}

func TestTransformDropsPartialVertex(t *testing.T) {
	got := Transform([]float32{1, 2, 3, 4}, math.Identity())
	assert.Equal(t, []float32{1, 2, 3}, got)
}

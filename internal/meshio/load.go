// Package meshio loads collision geometry from disk into flat vertex buffers
// and keeps a built mesh current while its source file changes.
package meshio

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Faultbox/meshcollide/pkg/math"
)

// ErrUnknownFormat is returned by Load for unrecognised file extensions.
var ErrUnknownFormat = errors.New("unknown mesh format")

// Load reads a mesh file, choosing the parser by extension (.stl or .tri).
func Load(path string) ([]float32, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".stl":
		return LoadSTL(path)
	case ".tri":
		return ParseTRIFile(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
}

// Transform returns a copy of vertices with every point multiplied by m.
// Use it to bake a node's world transform before building a collision mesh.
func Transform(vertices []float32, m math.Mat4) []float32 {
	out := make([]float32, len(vertices)-len(vertices)%3)
	for i := 0; i+2 < len(vertices); i += 3 {
		p := m.TransformVec3(math.Vec3{X: vertices[i], Y: vertices[i+1], Z: vertices[i+2]})
		out[i], out[i+1], out[i+2] = p.X, p.Y, p.Z
	}
	return out
}

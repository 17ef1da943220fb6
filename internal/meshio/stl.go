package meshio

import (
	"fmt"

	"github.com/hschendel/stl"
)

// LoadSTL reads an ASCII or binary STL file into a flat vertex buffer.
//
// STL facets wind counter-clockwise seen from outside. Each facet is written
// as v0, v2, v1 so the default clockwise front face (collision.FrontFaceCW)
// yields outward normals. Stored facet normals are ignored.
func LoadSTL(path string) ([]float32, error) {
	solid, err := stl.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading STL file: %w", err)
	}

	vertices := make([]float32, 0, len(solid.Triangles)*9)
	for _, tri := range solid.Triangles {
		for _, i := range [3]int{0, 2, 1} {
			v := tri.Vertices[i]
			vertices = append(vertices, v[0], v[1], v[2])
		}
	}
	return vertices, nil
}

package collision

import "iter"

// floatsPerTriangle is three vertices of three coordinates each.
const floatsPerTriangle = 9

// Mesh is an ordered, immutable list of cached triangles.
type Mesh struct {
	triangles []Triangle
	skipped   int
	bounds    AABB
}

type buildOptions struct {
	face    FrontFace
	minArea float32
}

// BuildOption configures Build.
type BuildOption func(*buildOptions)

// WithFrontFace sets the winding treated as the outward side. The default is FrontFaceCW.
func WithFrontFace(face FrontFace) BuildOption {
	return func(o *buildOptions) { o.face = face }
}

// WithMinArea drops degenerate triangles and triangles whose area is at most minArea.
// A non-positive minArea keeps every triangle, degenerate ones included.
func WithMinArea(minArea float32) BuildOption {
	return func(o *buildOptions) { o.minArea = minArea }
}

// Build creates a mesh from a flat vertex buffer laid out as
// v0.xyz, v1.xyz, v2.xyz per triangle. A trailing group shorter than nine
// floats is ignored.
func Build(vertices []float32, opts ...BuildOption) *Mesh {
	var o buildOptions
	for _, opt := range opts {
		opt(&o)
	}

	n := len(vertices) / floatsPerTriangle
	m := &Mesh{
		triangles: make([]Triangle, 0, n),
		bounds:    emptyAABB(),
	}

	for i := range n {
		f := vertices[i*floatsPerTriangle : (i+1)*floatsPerTriangle]
		v0 := Vec3{X: f[0], Y: f[1], Z: f[2]}
		v1 := Vec3{X: f[3], Y: f[4], Z: f[5]}
		v2 := Vec3{X: f[6], Y: f[7], Z: f[8]}

		tri := NewTriangle(v0, v1, v2, o.face)
		if o.minArea > 0 && (tri.Degenerate() || !(tri.Area() > o.minArea)) {
			m.skipped++
			continue
		}

		m.triangles = append(m.triangles, tri)
		m.bounds = m.bounds.extend(v0).extend(v1).extend(v2)
	}

	return m
}

// Len returns the number of triangles.
func (m *Mesh) Len() int {
	return len(m.triangles)
}

// Skipped returns how many triangles WithMinArea removed during Build.
func (m *Mesh) Skipped() int {
	return m.skipped
}

// Triangle returns the i-th triangle. It panics if i is out of range.
func (m *Mesh) Triangle(i int) *Triangle {
	return &m.triangles[i]
}

// Triangles iterates over the triangles in mesh order.
func (m *Mesh) Triangles() iter.Seq2[int, *Triangle] {
	return func(yield func(int, *Triangle) bool) {
		for i := range m.triangles {
			if !yield(i, &m.triangles[i]) {
				return
			}
		}
	}
}

// Bounds returns the axis-aligned box around every kept vertex.
// The box is empty (Min > Max) for a mesh without triangles.
func (m *Mesh) Bounds() AABB {
	return m.bounds
}

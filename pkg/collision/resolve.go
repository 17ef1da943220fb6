package collision

// Resolve pushes the sphere centered at *point out of every triangle it penetrates.
//
// Triangles are visited in mesh order and each correction is applied before the next
// triangle is tested, so the result is a first-order approximation: a sphere wedged into a
// concave corner may need several calls (see ResolveIterative). Only *point is written.
// Resolve reports whether the position changed.
func (m *Mesh) Resolve(point *Vec3, radius float32) bool {
	moved := false
	for i := range m.triangles {
		if c, ok := m.contact(i, *point, radius); ok {
			*point = point.Add(c.Push())
			moved = true
		}
	}
	return moved
}

// contact tests the sphere against triangle i.
func (m *Mesh) contact(i int, point Vec3, radius float32) (Contact, bool) {
	tri := &m.triangles[i]
	if tri.degenerate {
		return Contact{}, false
	}

	// Written as !(x > 0) so NaN never passes.
	penetration := radius - tri.PlaneDistance(point)
	if !(penetration > 0) {
		return Contact{}, false
	}

	// Near the plane but outside the bounded face.
	s, t, sqrDist := ClosestPoint(tri, point)
	if !(sqrDist <= radius*radius) {
		return Contact{}, false
	}

	return Contact{
		Index:       i,
		S:           s,
		T:           t,
		SqrDistance: sqrDist,
		Penetration: penetration,
		Normal:      tri.normal,
	}, true
}

// ResolveIterative calls Resolve until it reports no movement or maxIterations passes have
// run. A non-positive maxIterations runs a single pass. It returns the number of passes that
// moved the point and whether any of them did.
func (m *Mesh) ResolveIterative(point *Vec3, radius float32, maxIterations int) (iterations int, moved bool) {
	if maxIterations <= 0 {
		maxIterations = 1
	}
	for range maxIterations {
		if !m.Resolve(point, radius) {
			break
		}
		iterations++
	}
	return iterations, iterations > 0
}

package collision

import "github.com/chewxy/math32"

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min Vec3
	Max Vec3
}

// NewAABB creates an AABB from two corners, swapping components so that Min <= Max.
func NewAABB(a, b Vec3) AABB {
	return AABB{
		Min: Vec3{X: math32.Min(a.X, b.X), Y: math32.Min(a.Y, b.Y), Z: math32.Min(a.Z, b.Z)},
		Max: Vec3{X: math32.Max(a.X, b.X), Y: math32.Max(a.Y, b.Y), Z: math32.Max(a.Z, b.Z)},
	}
}

func emptyAABB() AABB {
	inf := math32.Inf(1)
	return AABB{
		Min: Vec3{X: inf, Y: inf, Z: inf},
		Max: Vec3{X: -inf, Y: -inf, Z: -inf},
	}
}

func (b AABB) extend(p Vec3) AABB {
	return AABB{
		Min: Vec3{X: math32.Min(b.Min.X, p.X), Y: math32.Min(b.Min.Y, p.Y), Z: math32.Min(b.Min.Z, p.Z)},
		Max: Vec3{X: math32.Max(b.Max.X, p.X), Y: math32.Max(b.Max.Y, p.Y), Z: math32.Max(b.Max.Z, p.Z)},
	}
}

// Empty reports whether the box contains no points.
func (b AABB) Empty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Size returns the extent along each axis.
func (b AABB) Size() Vec3 {
	if b.Empty() {
		return Vec3{}
	}
	return b.Max.Sub(b.Min)
}

// Center returns the midpoint of the box.
func (b AABB) Center() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// IntersectsSphere reports whether a sphere overlaps the box.
func (b AABB) IntersectsSphere(center Vec3, radius float32) bool {
	if b.Empty() {
		return false
	}
	closest := Vec3{
		X: clamp(center.X, b.Min.X, b.Max.X),
		Y: clamp(center.Y, b.Min.Y, b.Max.Y),
		Z: clamp(center.Z, b.Min.Z, b.Max.Z),
	}
	return closest.Sub(center).LengthSquared() <= radius*radius
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

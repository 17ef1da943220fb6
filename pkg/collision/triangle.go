package collision

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/meshcollide/pkg/math"
)

// FrontFace selects which vertex winding faces outward.
type FrontFace uint8

const (
	// FrontFaceCW treats clockwise triangles as front facing: normal = e2 x e1.
	FrontFaceCW FrontFace = iota
	// FrontFaceCCW treats counter-clockwise triangles as front facing: normal = e1 x e2.
	FrontFaceCCW
)

// String returns "cw" or "ccw".
func (f FrontFace) String() string {
	if f == FrontFaceCCW {
		return "ccw"
	}
	return "cw"
}

// ParseFrontFace converts "cw" or "ccw" to a FrontFace.
func ParseFrontFace(s string) (FrontFace, bool) {
	switch s {
	case "cw", "":
		return FrontFaceCW, true
	case "ccw":
		return FrontFaceCCW, true
	default:
		return FrontFaceCW, false
	}
}

// Triangle is the cached form of one mesh triangle.
type Triangle struct {
	origin Vec3
	edge1  Vec3
	edge2  Vec3
	normal Vec3

	degenerate bool
}

// Vec3 is re-exported so callers rarely need to import pkg/math directly.
type Vec3 = math.Vec3

// NewTriangle builds the cached record for the triangle v0, v1, v2.
func NewTriangle(v0, v1, v2 Vec3, face FrontFace) Triangle {
	edge1 := v1.Sub(v0)
	edge2 := v2.Sub(v0)

	n1 := edge1.Normalize()
	n2 := edge2.Normalize()
	var normal Vec3
	if face == FrontFaceCCW {
		normal = n1.Cross(n2).Normalize()
	} else {
		normal = n2.Cross(n1).Normalize()
	}

	return Triangle{
		origin:     v0,
		edge1:      edge1,
		edge2:      edge2,
		normal:     normal,
		degenerate: !normal.IsFinite() || math32.Abs(normal.LengthSquared()-1) > 1e-3,
	}
}

// Origin returns the first vertex.
func (t *Triangle) Origin() Vec3 { return t.origin }

// Edge1 returns v1 - v0.
func (t *Triangle) Edge1() Vec3 { return t.edge1 }

// Edge2 returns v2 - v0.
func (t *Triangle) Edge2() Vec3 { return t.edge2 }

// Normal returns the outward unit normal. It is not meaningful for degenerate triangles.
func (t *Triangle) Normal() Vec3 { return t.normal }

// V1 returns the second vertex.
func (t *Triangle) V1() Vec3 { return t.origin.Add(t.edge1) }

// V2 returns the third vertex.
func (t *Triangle) V2() Vec3 { return t.origin.Add(t.edge2) }

// PointAt returns origin + s*edge1 + t*edge2.
func (t *Triangle) PointAt(s, u float32) Vec3 {
	return t.origin.Add(t.edge1.Scale(s)).Add(t.edge2.Scale(u))
}

// Area returns the surface area.
func (t *Triangle) Area() float32 {
	return t.edge1.Cross(t.edge2).Length() / 2
}

// Degenerate reports whether the triangle has no usable normal, either because its
// vertices are collinear or because the input contained NaN or infinite values.
func (t *Triangle) Degenerate() bool { return t.degenerate }

// PlaneDistance returns the signed distance from p to the triangle's plane,
// positive on the side the normal points toward.
func (t *Triangle) PlaneDistance(p Vec3) float32 {
	return t.normal.Dot(p.Sub(t.origin))
}

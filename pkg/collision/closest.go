package collision

import "github.com/chewxy/math32"

// ClosestPoint returns the squared distance from p to the nearest point of the filled
// triangle, and the barycentric coordinates (s, t) of that point such that it equals
// tri.PointAt(s, t).
//
// The quadratic distance over the (s, t) domain is minimized per region of the parameter
// plane. Regions are numbered as follows, with the triangle itself being region 0:
//
//	  t
//	\ |
//	 \|
//	  \ 2
//	  |\
//	3 | \ 1
//	  | 0\
//	--+---\---- s
//	4 | 5  \ 6
//
// The result is undefined for degenerate triangles.
func ClosestPoint(tri *Triangle, p Vec3) (s, t, sqrDist float32) {
	diff := tri.origin.Sub(p)
	e1, e2 := tri.edge1, tri.edge2

	a00 := e1.Dot(e1)
	a01 := e1.Dot(e2)
	a11 := e2.Dot(e2)
	b0 := diff.Dot(e1)
	b1 := diff.Dot(e2)
	c := diff.Dot(diff)
	det := math32.Abs(a00*a11 - a01*a01)

	s = a01*b1 - a11*b0
	t = a01*b0 - a00*b1

	// Distance for a point on the triangle's plane, from the full quadratic form.
	quadratic := func(u, v float32) float32 {
		return u*(a00*u+a01*v+2*b0) + v*(a01*u+a11*v+2*b1) + c
	}
	// Closest point on edge t=0 (origin to v1).
	edgeS := func() (float32, float32, float32) {
		switch {
		case b0 >= 0:
			return 0, 0, c
		case -b0 >= a00:
			return 1, 0, a00 + 2*b0 + c
		default:
			v := -b0 / a00
			return v, 0, b0*v + c
		}
	}
	// Closest point on edge s=0 (origin to v2).
	edgeT := func() (float32, float32, float32) {
		switch {
		case b1 >= 0:
			return 0, 0, c
		case -b1 >= a11:
			return 0, 1, a11 + 2*b1 + c
		default:
			v := -b1 / a11
			return 0, v, b1*v + c
		}
	}

	if s+t <= det {
		switch {
		case s < 0 && t < 0: // region 4
			if b0 < 0 {
				s, t, sqrDist = edgeS()
			} else {
				s, t, sqrDist = edgeT()
			}
		case s < 0: // region 3
			s, t, sqrDist = edgeT()
		case t < 0: // region 5
			s, t, sqrDist = edgeS()
		default: // region 0
			invDet := 1 / det
			s *= invDet
			t *= invDet
			sqrDist = quadratic(s, t)
		}
	} else {
		// Squared length of edge v1->v2.
		denom := a00 - 2*a01 + a11

		switch {
		case s < 0: // region 2
			tmp0 := a01 + b0
			tmp1 := a11 + b1
			if tmp1 > tmp0 {
				numer := tmp1 - tmp0
				if numer >= denom {
					s, t, sqrDist = 1, 0, a00+2*b0+c
				} else {
					s = numer / denom
					t = 1 - s
					sqrDist = quadratic(s, t)
				}
			} else if tmp1 <= 0 {
				s, t, sqrDist = 0, 1, a11+2*b1+c
			} else {
				s, t, sqrDist = edgeT()
			}
		case t < 0: // region 6
			tmp0 := a01 + b1
			tmp1 := a00 + b0
			if tmp1 > tmp0 {
				numer := tmp1 - tmp0
				if numer >= denom {
					s, t, sqrDist = 0, 1, a11+2*b1+c
				} else {
					t = numer / denom
					s = 1 - t
					sqrDist = quadratic(s, t)
				}
			} else if tmp1 <= 0 {
				s, t, sqrDist = 1, 0, a00+2*b0+c
			} else {
				s, t, sqrDist = edgeS()
			}
		default: // region 1
			numer := a11 + b1 - a01 - b0
			switch {
			case numer <= 0:
				s, t, sqrDist = 0, 1, a11+2*b1+c
			case numer >= denom:
				s, t, sqrDist = 1, 0, a00+2*b0+c
			default:
				s = numer / denom
				t = 1 - s
				sqrDist = quadratic(s, t)
			}
		}
	}

	// Round-off can leave a tiny negative value.
	if sqrDist < 0 {
		sqrDist = 0
	}
	return s, t, sqrDist
}

package collision

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// contactChunk is the number of triangles one worker tests before checking the context.
const contactChunk = 256

// Contact describes one triangle penetrated by a sphere.
type Contact struct {
	Index       int     // triangle index in the mesh
	S, T        float32 // barycentric coordinates of the closest point
	SqrDistance float32
	Penetration float32
	Normal      Vec3
}

// Push returns the correction that moves the sphere out of this triangle.
func (c Contact) Push() Vec3 {
	return c.Normal.Scale(c.Penetration)
}

// Contacts tests every triangle against the sphere without moving it and returns the
// penetrated triangles in mesh order. The mesh is split into chunks that are evaluated
// concurrently. The only error is the context's.
func (m *Mesh) Contacts(ctx context.Context, point Vec3, radius float32) ([]Contact, error) {
	chunks := (len(m.triangles) + contactChunk - 1) / contactChunk
	results := make([][]Contact, chunks)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for c := range chunks {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			lo := c * contactChunk
			hi := min(lo+contactChunk, len(m.triangles))
			results[c] = m.contactsIn(lo, hi, point, radius)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var contacts []Contact
	for _, r := range results {
		contacts = append(contacts, r...)
	}
	return contacts, nil
}

func (m *Mesh) contactsIn(lo, hi int, point Vec3, radius float32) []Contact {
	var out []Contact
	for i := lo; i < hi; i++ {
		if c, ok := m.contact(i, point, radius); ok {
			out = append(out, c)
		}
	}
	return out
}

// ResolveDeepest applies only the push of the deepest contact, which makes the result
// independent of triangle order. Ties keep the earlier triangle.
func (m *Mesh) ResolveDeepest(ctx context.Context, point *Vec3, radius float32) (bool, error) {
	contacts, err := m.Contacts(ctx, *point, radius)
	if err != nil {
		return false, err
	}
	if len(contacts) == 0 {
		return false, nil
	}

	deepest := contacts[0]
	for _, c := range contacts[1:] {
		if c.Penetration > deepest.Penetration {
			deepest = c
		}
	}
	*point = point.Add(deepest.Push())
	return true, nil
}

// Package controller keeps a moving sphere out of static collision geometry.
package controller

import (
	"context"

	"go.uber.org/zap"

	"github.com/Faultbox/meshcollide/internal/logger"
	"github.com/Faultbox/meshcollide/pkg/collision"
	"github.com/Faultbox/meshcollide/pkg/math"
)

// MeshSource supplies the current collision mesh. The mesh may change between
// calls (see meshio.Watcher) but each returned mesh is immutable.
type MeshSource interface {
	Mesh() *collision.Mesh
}

// Static is a MeshSource that never changes.
type Static struct {
	mesh *collision.Mesh
}

// StaticMesh wraps a prebuilt mesh.
func StaticMesh(mesh *collision.Mesh) Static {
	return Static{mesh: mesh}
}

// Mesh returns the wrapped mesh.
func (s Static) Mesh() *collision.Mesh {
	return s.mesh
}

// Controller moves a sphere and resolves it against the source mesh after
// every step.
type Controller struct {
	source   MeshSource
	position math.Vec3
	log      *zap.Logger

	Radius float32

	// MaxIterations bounds the resolve passes per step. Values below 1 mean one pass.
	MaxIterations int

	// Deepest applies only the deepest contact per pass instead of
	// accumulating pushes in mesh order.
	Deepest bool
}

// NewController creates a controller for a sphere at position.
func NewController(source MeshSource, position math.Vec3, radius float32) *Controller {
	return &Controller{
		source:        source,
		position:      position,
		log:           logger.Named("controller"),
		Radius:        radius,
		MaxIterations: 1,
	}
}

// SetSource swaps the collision geometry.
func (c *Controller) SetSource(source MeshSource) {
	c.source = source
}

// Position returns the sphere center.
func (c *Controller) Position() math.Vec3 {
	return c.position
}

// SetPosition teleports the sphere without resolving.
func (c *Controller) SetPosition(p math.Vec3) {
	c.position = p
}

// Move translates the sphere by delta and pushes it out of the mesh.
// Returns true if a correction was applied.
func (c *Controller) Move(ctx context.Context, delta math.Vec3) (bool, error) {
	c.position = c.position.Add(delta)
	return c.Update(ctx)
}

// Update resolves the sphere in place, e.g. after the mesh was reloaded.
// An error is returned only when ctx is cancelled during a deepest-contact pass.
func (c *Controller) Update(ctx context.Context) (bool, error) {
	if c.source == nil {
		return false, nil
	}
	mesh := c.source.Mesh()
	if mesh == nil || !mesh.Bounds().IntersectsSphere(c.position, c.Radius) {
		return false, nil
	}

	before := c.position
	var (
		passes int
		moved  bool
		err    error
	)
	if c.Deepest {
		passes, moved, err = c.resolveDeepest(ctx, mesh)
	} else {
		passes, moved = mesh.ResolveIterative(&c.position, c.Radius, c.MaxIterations)
	}

	if moved {
		push := c.position.Sub(before)
		c.log.Debug("sphere pushed out",
			zap.Int("passes", passes),
			zap.Float32("dx", push.X),
			zap.Float32("dy", push.Y),
			zap.Float32("dz", push.Z))
	}
	return moved, err
}

func (c *Controller) resolveDeepest(ctx context.Context, mesh *collision.Mesh) (int, bool, error) {
	passes := 0
	for range max(c.MaxIterations, 1) {
		ok, err := mesh.ResolveDeepest(ctx, &c.position, c.Radius)
		if err != nil {
			return passes, passes > 0, err
		}
		if !ok {
			break
		}
		passes++
	}
	return passes, passes > 0, nil
}

// ReloadingSource is a MeshSource that announces rebuilt meshes, such as
// meshio.Watcher.
type ReloadingSource interface {
	MeshSource
	Reloads() <-chan *collision.Mesh
}

// Follow makes source the controller's geometry and resolves the sphere again
// every time it reloads. onUpdate, if set, receives the result of each pass.
// Follow returns nil when the reload channel closes, or the context's error.
func (c *Controller) Follow(ctx context.Context, source ReloadingSource, onUpdate func(moved bool)) error {
	c.source = source
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-source.Reloads():
			if !ok {
				return nil
			}
			moved, err := c.Update(ctx)
			if err != nil {
				return err
			}
			c.log.Debug("re-resolved after reload", zap.Bool("moved", moved))
			if onUpdate != nil {
				onUpdate(moved)
			}
		}
	}
}

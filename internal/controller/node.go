package controller

import (
	"github.com/Faultbox/meshcollide/pkg/collision"
	"github.com/Faultbox/meshcollide/pkg/math"
)

// Node is anything with a world position, such as a scene node or entity.
type Node interface {
	Position() math.Vec3
	SetPosition(math.Vec3)
}

// ResolveNode runs one resolve pass for a sphere centered on node.
// The node is only written back when it moved.
func ResolveNode(mesh *collision.Mesh, node Node, radius float32) bool {
	p := node.Position()
	if !mesh.Resolve(&p, radius) {
		return false
	}
	node.SetPosition(p)
	return true
}

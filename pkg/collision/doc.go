// Package collision resolves sphere penetration against static triangle meshes.
//
// A Mesh is built once from a flat vertex buffer and is read-only afterwards, so it can be
// shared between goroutines. Resolve scans every triangle in order and pushes the caller's
// position out along the face normal of each triangle the sphere penetrates. Collision is
// one-sided: a sphere approaching a triangle from behind its normal is not corrected.
package collision

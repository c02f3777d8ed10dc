package model

import (
	gomath "math"

	"github.com/Faultbox/skinview/pkg/math"
)

// CalcAABB computes the bounding box of every vertex transformed by its
// node's global matrix, after posing the model at time 0 of the first clip.
// Skinning is not applied, and later frames may leave the box. A model
// without vertices yields the zero box.
func CalcAABB(m *Model) AABB {
	m.Propagate()
	m.Update(0, 0)

	lo := math.Vec3{X: gomath.MaxFloat32, Y: gomath.MaxFloat32, Z: gomath.MaxFloat32}
	hi := math.Vec3{X: -gomath.MaxFloat32, Y: -gomath.MaxFloat32, Z: -gomath.MaxFloat32}
	found := false

	for _, node := range m.Nodes {
		for _, mesh := range node.Meshes {
			for _, p := range mesh.Body.Positions {
				v := math.V3(node.Global.TransformPoint(p))
				lo = lo.Min(v)
				hi = hi.Max(v)
				found = true
			}
		}
	}
	if !found {
		return AABB{}
	}
	return AABB{Min: lo, Max: hi}
}

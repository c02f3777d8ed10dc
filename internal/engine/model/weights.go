package model

import "fmt"

// NormalizeWeights rescales the bone weights of every skinned mesh so that
// the weights on each influenced vertex sum to 1, then repacks the geometry
// buffer from the normalized lists. It fails with ErrZeroWeightSum when a
// vertex has influences whose sum is not positive, NaN included.
func NormalizeWeights(m *Model) error {
	for _, node := range m.Nodes {
		for _, mesh := range node.Meshes {
			if !mesh.HasBone() {
				continue
			}
			if err := normalizeMesh(mesh); err != nil {
				return fmt.Errorf("mesh %q in node %q: %w", mesh.Name, node.Name, err)
			}
		}
	}
	return nil
}

func normalizeMesh(mesh *Mesh) error {
	sums := make(map[uint32]float32)
	for _, b := range mesh.Bones {
		for _, w := range b.Weights {
			sums[w.VertexID] += w.Value
		}
	}
	for v, sum := range sums {
		if !(sum > 0) {
			return fmt.Errorf("%w: vertex %d", ErrZeroWeightSum, v)
		}
	}

	for _, b := range mesh.Bones {
		for i := range b.Weights {
			w := &b.Weights[i]
			w.Value *= 1 / sums[w.VertexID]
		}
	}
	mesh.Body.packBones(mesh.Bones)
	return nil
}

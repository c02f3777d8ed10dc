package model

import "slices"

// ResetNodes restores every node's local matrix to its load-time value.
// Global matrices are stale until the next Propagate or Update.
func ResetNodes(m *Model) {
	for _, n := range m.Nodes {
		n.Matrix = n.MatrixOrig
	}
}

// Reverse flips the draw order: meshes within each node, then the node
// list itself. The transform tree is not touched.
func Reverse(m *Model) {
	for _, n := range m.Nodes {
		slices.Reverse(n.Meshes)
	}
	slices.Reverse(m.Nodes)
}

// MeshInfo returns the total vertex and triangle counts over all nodes.
func MeshInfo(m *Model) (vertices, triangles int) {
	for _, n := range m.Nodes {
		for _, mesh := range n.Meshes {
			vertices += mesh.Body.NumVertices()
			triangles += mesh.Body.NumIndices() / 3
		}
	}
	return vertices, triangles
}

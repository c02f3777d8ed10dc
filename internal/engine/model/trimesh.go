package model

// MaxInfluences is the number of bone slots per vertex.
const MaxInfluences = 4

// TriMesh is the geometry buffer of a mesh. Per-vertex slices are either
// empty or as long as Positions.
type TriMesh struct {
	Positions [][3]float32
	Normals   [][3]float32
	UVs       [][2]float32
	Colors    [][4]float32
	Indices   []uint32 // three per triangle

	BoneIndices [][MaxInfluences]int32
	BoneWeights [][MaxInfluences]float32
}

// NumVertices returns the vertex count.
func (t *TriMesh) NumVertices() int {
	return len(t.Positions)
}

// NumIndices returns the index count.
func (t *TriMesh) NumIndices() int {
	return len(t.Indices)
}

// AppendTriangle adds one triangle.
func (t *TriMesh) AppendTriangle(a, b, c uint32) {
	t.Indices = append(t.Indices, a, b, c)
}

// packBones fills the per-vertex bone slots from the bone weight lists.
// Each influence goes into the first slot with zero weight; influences that
// find no free slot are dropped. It returns the number of vertices that lost
// at least one influence.
func (t *TriMesh) packBones(bones []*Bone) int {
	n := len(t.Positions)
	t.BoneIndices = make([][MaxInfluences]int32, n)
	t.BoneWeights = make([][MaxInfluences]float32, n)

	dropped := make(map[uint32]bool)
	for bi, b := range bones {
		for _, w := range b.Weights {
			if w.Value == 0 {
				continue
			}
			slots := &t.BoneWeights[w.VertexID]
			placed := false
			for k := range slots {
				if slots[k] == 0 {
					slots[k] = w.Value
					t.BoneIndices[w.VertexID][k] = int32(bi)
					placed = true
					break
				}
			}
			if !placed {
				dropped[w.VertexID] = true
			}
		}
	}
	return len(dropped)
}

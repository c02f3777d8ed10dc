package model

// Shader feature bits. Their sum is a mesh's shader index.
const (
	HasBone        = 1 << 0
	HasVertexColor = 1 << 1
	HasTexture     = 1 << 2

	NumShaders = 8
)

// ShaderPair names the vertex and fragment programs of one shader variant.
type ShaderPair struct {
	Vertex   string
	Fragment string
}

// ShaderTable maps a shader index to its programs.
var ShaderTable = [NumShaders]ShaderPair{
	{"color_light", "color"},
	{"color_light_skinning", "color"},
	{"vertex_light", "color"},
	{"vertex_light_skinning", "color"},
	{"texture_light", "texture_light"},
	{"texture_light_skinning", "texture_light"},
	{"vertex_texture_light", "texture_light"},
	{"vertex_texture_light_skinning", "texture_light"},
}

// ShaderIndex returns the feature mask of a mesh drawn with mat.
func ShaderIndex(mesh *Mesh, mat *Material) int {
	idx := 0
	if mesh.HasBone() {
		idx |= HasBone
	}
	if mesh.HasVertexColor() {
		idx |= HasVertexColor
	}
	if mat != nil && mat.HasTexture {
		idx |= HasTexture
	}
	return idx
}

// AssignShaders stores the shader index on every mesh and returns the set of
// indices in use, in ascending order.
func AssignShaders(m *Model) []int {
	var used [NumShaders]bool
	for _, n := range m.Nodes {
		for _, mesh := range n.Meshes {
			var mat *Material
			if mesh.MaterialIndex < len(m.Materials) {
				mat = m.Materials[mesh.MaterialIndex]
			}
			mesh.ShaderIndex = ShaderIndex(mesh, mat)
			used[mesh.ShaderIndex] = true
		}
	}
	var out []int
	for i, u := range used {
		if u {
			out = append(out, i)
		}
	}
	return out
}

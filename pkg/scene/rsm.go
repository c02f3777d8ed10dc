package scene

import (
	"fmt"
	gomath "math"

	"github.com/Faultbox/skinview/pkg/formats"
	"github.com/Faultbox/skinview/pkg/math"
)

// OpenRSM reads a Ragnarok Online RSM model.
func OpenRSM(path string) (*Scene, error) {
	rsm, err := formats.ParseRSMFile(path)
	if err != nil {
		return nil, err
	}
	return FromRSM(rsm)
}

// FromRSM converts a parsed RSM model. The model hangs below a root that
// mirrors Y, since RSM files are authored with Y pointing down.
func FromRSM(rsm *formats.RSM) (*Scene, error) {
	top := rsm.GetRootNode()
	if top == nil {
		return nil, ErrNoScene
	}

	s := &Scene{}
	for _, tex := range rsm.Textures {
		mat := DefaultMaterial()
		mat.Name = tex
		mat.Texture = tex
		mat.Diffuse = [4]float32{1, 1, 1, rsm.Alpha}
		s.Materials = append(s.Materials, mat)
	}

	b := &rsmBuilder{rsm: rsm, scene: s, visited: make(map[string]bool)}
	s.Root = &Node{
		Name:      "__rsm_root",
		Transform: RowMajor(math.Scale(1, -1, 1).Transpose()),
	}
	s.Root.Children = []*Node{b.node(top)}

	if rsm.HasAnimation() {
		s.Animations = []*Animation{b.animation()}
	}
	return s, nil
}

type rsmBuilder struct {
	rsm             *formats.RSM
	scene           *Scene
	visited         map[string]bool
	defaultMaterial int
	hasDefault      bool
}

func (b *rsmBuilder) node(src *formats.RSMNode) *Node {
	b.visited[src.Name] = true

	t, r, sc := rsmRestTRS(src)
	n := &Node{
		Name:      src.Name,
		Transform: RowMajor(math.FromTRS(math.V3(t), r, math.V3(sc)).Transpose()),
	}
	n.Meshes = b.meshes(src)

	for _, child := range b.rsm.GetChildNodes(src.Name) {
		if b.visited[child.Name] {
			continue
		}
		n.Children = append(n.Children, b.node(child))
	}
	return n
}

// rsmRestTRS returns the hierarchy transform children inherit. A node with
// rotation keys rests at its first key instead of the axis-angle rotation.
func rsmRestTRS(n *formats.RSMNode) (t [3]float32, r math.Quat, s [3]float32) {
	t, s = n.Position, n.Scale
	r = math.QuatIdentity()
	switch {
	case len(n.RotKeys) > 0:
		q := n.RotKeys[0].Quaternion
		r = math.Quat{X: q[0], Y: q[1], Z: q[2], W: q[3]}.Normalize()
	case n.RotAngle != 0:
		axis := math.V3(n.RotAxis)
		if axis.Length() > 1e-6 {
			r = math.QuatFromAxisAngle(axis.Normalize(), n.RotAngle)
		}
	}
	return t, r, s
}

func (b *rsmBuilder) material(n *formats.RSMNode, slot uint16) int {
	if int(slot) < len(n.TextureIDs) {
		if id := int(n.TextureIDs[slot]); id >= 0 && id < len(b.scene.Materials) && id < len(b.rsm.Textures) {
			return id
		}
	}
	if !b.hasDefault {
		b.defaultMaterial = len(b.scene.Materials)
		b.scene.Materials = append(b.scene.Materials, DefaultMaterial())
		b.hasDefault = true
	}
	return b.defaultMaterial
}

// meshes emits one mesh per texture slot used by the node's faces. Corners
// are de-indexed so every face gets its own normal and texture color.
func (b *rsmBuilder) meshes(n *formats.RSMNode) []int {
	pivot := math.Translate(n.Offset[0], n.Offset[1], n.Offset[2]).Mul(math.FromMat3x3(n.Matrix))

	bySlot := make(map[uint16]*Mesh)
	var order []uint16
	for _, f := range n.Faces {
		if !validRSMFace(n, f) {
			continue
		}
		var p [3][3]float32
		for i, vid := range f.VertexIDs {
			p[i] = pivot.TransformPoint(n.Vertices[vid])
		}
		normal := math.V3(p[1]).Sub(math.V3(p[0])).Cross(math.V3(p[2]).Sub(math.V3(p[0])))
		if normal.Length() < 1e-5 {
			continue
		}
		normal = normal.Normalize()

		m, ok := bySlot[f.TextureID]
		if !ok {
			m = &Mesh{
				Name:          fmt.Sprintf("%s#%d", n.Name, f.TextureID),
				MaterialIndex: b.material(n, f.TextureID),
			}
			bySlot[f.TextureID] = m
			order = append(order, f.TextureID)
		}

		appendRSMFace(m, n, f, p, normal.Array(), [3]int{0, 1, 2})
		if f.TwoSide != 0 {
			back := normal.Scale(-1).Array()
			appendRSMFace(m, n, f, p, back, [3]int{2, 1, 0})
		}
	}

	var out []int
	for _, slot := range order {
		out = append(out, len(b.scene.Meshes))
		b.scene.Meshes = append(b.scene.Meshes, bySlot[slot])
	}
	return out
}

func validRSMFace(n *formats.RSMNode, f formats.RSMFace) bool {
	for _, vid := range f.VertexIDs {
		if int(vid) >= len(n.Vertices) {
			return false
		}
	}
	return true
}

func appendRSMFace(m *Mesh, n *formats.RSMNode, f formats.RSMFace, p [3][3]float32, normal [3]float32, corners [3]int) {
	base := uint32(len(m.Positions))
	for _, c := range corners {
		var uv [2]float32
		color := [4]float32{1, 1, 1, 1}
		if tid := int(f.TexCoordIDs[c]); tid < len(n.TexCoords) {
			tc := n.TexCoords[tid]
			uv = [2]float32{tc.U, tc.V}
			// stored as BGRA
			color = [4]float32{
				float32(tc.Color[2]) / 255,
				float32(tc.Color[1]) / 255,
				float32(tc.Color[0]) / 255,
				float32(tc.Color[3]) / 255,
			}
		}
		m.Positions = append(m.Positions, p[c])
		m.Normals = append(m.Normals, normal)
		m.UVs = append(m.UVs, uv)
		m.Colors = append(m.Colors, color)
	}
	m.Faces = append(m.Faces, []uint32{base, base + 1, base + 2})
}

// animation converts keyframes in milliseconds to a single clip in seconds.
// Scale keys multiply the node's rest scale.
func (b *rsmBuilder) animation() *Animation {
	anim := &Animation{Name: "rsm", Duration: float64(b.rsm.AnimLength) / 1000}
	var last float64

	for i := range b.rsm.Nodes {
		n := &b.rsm.Nodes[i]
		if len(n.PosKeys) == 0 && len(n.RotKeys) == 0 && len(n.ScaleKeys) == 0 {
			continue
		}
		ch := &Channel{NodeName: n.Name}
		for _, k := range n.PosKeys {
			ch.Translations = append(ch.Translations, VectorKey{Time: msToSeconds(k.Frame), Value: k.Position})
		}
		for _, k := range n.RotKeys {
			ch.Rotations = append(ch.Rotations, QuatKey{Time: msToSeconds(k.Frame), Value: k.Quaternion})
		}
		for _, k := range n.ScaleKeys {
			ch.Scalings = append(ch.Scalings, VectorKey{
				Time:  msToSeconds(k.Frame),
				Value: [3]float32{n.Scale[0] * k.Scale[0], n.Scale[1] * k.Scale[1], n.Scale[2] * k.Scale[2]},
			})
		}
		for _, keys := range [][]VectorKey{ch.Translations, ch.Scalings} {
			if len(keys) > 0 {
				last = gomath.Max(last, keys[len(keys)-1].Time)
			}
		}
		if len(ch.Rotations) > 0 {
			last = gomath.Max(last, ch.Rotations[len(ch.Rotations)-1].Time)
		}

		t, r, s := rsmRestTRS(n)
		fillRestPose(ch, t, [4]float32{r.X, r.Y, r.Z, r.W}, s)
		anim.Channels = append(anim.Channels, ch)
	}

	if anim.Duration <= 0 {
		anim.Duration = last
	}
	return anim
}

func msToSeconds(ms int32) float64 {
	return float64(ms) / 1000
}

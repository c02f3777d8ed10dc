package model

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/skinview/internal/engine/texture"
	"github.com/Faultbox/skinview/internal/logger"
	"github.com/Faultbox/skinview/pkg/math"
	"github.com/Faultbox/skinview/pkg/scene"
)

// ErrMeshOutOfRange is returned when a node references a mesh the scene lacks.
var ErrMeshOutOfRange = errors.New("mesh index out of range")

// Options controls loading.
type Options struct {
	// MagentaKey makes magenta texels transparent.
	MagentaKey bool
	// SkipTextures leaves the texture table empty.
	SkipTextures bool
}

// Load reads the model file at path. Every failure is a *LoadError.
func Load(path string, opts Options) (*Model, error) {
	s, err := scene.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	m, err := Import(s, filepath.Dir(path), opts)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	m.Path = path
	return m, nil
}

// Import converts a parsed scene. Textures are resolved against dir.
func Import(s *scene.Scene, dir string, opts Options) (*Model, error) {
	if s == nil || s.Root == nil {
		return nil, scene.ErrNoScene
	}

	m := &Model{Dir: dir, Textures: texture.NewTable()}
	m.Textures.MagentaKey = opts.MagentaKey

	logger.Info("materials", zap.Int("count", len(s.Materials)))
	for _, src := range s.Materials {
		m.Materials = append(m.Materials, convertMaterial(src))
	}
	if len(m.Materials) == 0 {
		m.Materials = append(m.Materials, convertMaterial(scene.DefaultMaterial()))
	}
	if !opts.SkipTextures {
		m.loadTextures(s)
	}

	imp := &importer{scene: s, materials: len(m.Materials)}
	root, err := imp.node(s.Root)
	if err != nil {
		return nil, err
	}
	m.Root = root
	m.buildIndex()

	if len(s.Animations) > 0 {
		logger.Info("animations", zap.Int("count", len(s.Animations)))
	}
	for _, a := range s.Animations {
		m.Animations = append(m.Animations, convertAnimation(a))
	}

	if err := NormalizeWeights(m); err != nil {
		return nil, err
	}
	m.warnMissingBones()
	AssignShaders(m)
	m.Bounds = CalcAABB(m)

	vertices, triangles := MeshInfo(m)
	logger.Info("model loaded",
		zap.Int("nodes", len(m.Nodes)),
		zap.Int("vertices", vertices),
		zap.Int("triangles", triangles))
	return m, nil
}

// buildIndex flattens the tree in pre-order and indexes nodes by name.
func (m *Model) buildIndex() {
	m.Nodes = m.Nodes[:0]
	m.index = make(map[string]*Node)
	var walk func(n *Node)
	walk = func(n *Node) {
		m.Nodes = append(m.Nodes, n)
		m.index[n.Name] = n
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(m.Root)
}

func (m *Model) warnMissingBones() {
	warned := make(map[string]bool)
	for _, n := range m.Nodes {
		for _, mesh := range n.Meshes {
			for _, b := range mesh.Bones {
				if _, ok := m.index[b.Name]; !ok && !warned[b.Name] {
					warned[b.Name] = true
					logger.Warn("bone references unknown node", zap.String("bone", b.Name))
				}
			}
		}
	}
}

// loadTextures fills the texture table. A texture that cannot be loaded is
// logged and its material falls back to untextured shading.
func (m *Model) loadTextures(s *scene.Scene) {
	for i, mat := range m.Materials {
		if !mat.HasTexture || i >= len(s.Materials) {
			continue
		}
		src := s.Materials[i]
		_, err := m.Textures.Load(mat.TextureName, resolveTexture(m.Dir, src.Texture), src.TextureData)
		if err != nil {
			logger.Warn("texture not loaded",
				zap.String("material", mat.Name),
				zap.String("texture", mat.TextureName),
				zap.Error(err))
			mat.HasTexture = false
		}
	}
}

// resolveTexture locates a texture reference below dir. References may use
// Windows separators; when the relative path does not exist the bare file
// name is tried next to the model.
func resolveTexture(dir, ref string) string {
	rel := filepath.FromSlash(strings.ReplaceAll(ref, `\`, "/"))
	full := filepath.Join(dir, rel)
	if _, err := os.Stat(full); err == nil {
		return full
	}
	return filepath.Join(dir, textureFileName(ref))
}

// textureFileName strips directories from a texture reference.
func textureFileName(ref string) string {
	return path.Base(strings.ReplaceAll(ref, `\`, "/"))
}

func convertMaterial(src *scene.Material) *Material {
	mat := &Material{
		Name:      src.Name,
		Diffuse:   src.Diffuse,
		Ambient:   src.Ambient,
		Specular:  src.Specular,
		Emission:  src.Emission,
		Shininess: max(src.Shininess, epsilon32), // keeps pow() in the lighting shader defined
	}
	if src.Texture != "" {
		mat.HasTexture = true
		mat.TextureName = textureFileName(src.Texture)
		if src.WrapS == scene.WrapClamp {
			mat.WrapS = WrapClamp
		}
		if src.WrapT == scene.WrapClamp {
			mat.WrapT = WrapClamp
		}
	}
	logger.Debug("material",
		zap.String("name", mat.Name),
		zap.Float32s("diffuse", mat.Diffuse[:]),
		zap.Float32("shininess", mat.Shininess),
		zap.String("texture", mat.TextureName))
	return mat
}

// epsilon32 is the float32 machine epsilon.
const epsilon32 = 1.1920929e-07

func convertAnimation(src *scene.Animation) *Animation {
	a := &Animation{Name: src.Name, Duration: src.Duration}
	for _, ch := range src.Channels {
		out := &Channel{NodeName: ch.NodeName}
		for _, k := range ch.Translations {
			out.Translation = append(out.Translation, VectorKey{Time: k.Time, Value: math.V3(k.Value)})
		}
		for _, k := range ch.Rotations {
			q := math.Quat{X: k.Value[0], Y: k.Value[1], Z: k.Value[2], W: k.Value[3]}
			out.Rotation = append(out.Rotation, QuatKey{Time: k.Time, Value: q})
		}
		for _, k := range ch.Scalings {
			out.Scaling = append(out.Scaling, VectorKey{Time: k.Time, Value: math.V3(k.Value)})
		}
		a.Channels = append(a.Channels, out)
	}
	logger.Debug("animation",
		zap.String("name", a.Name),
		zap.Float64("duration", a.Duration),
		zap.Int("channels", len(a.Channels)))
	return a
}

type importer struct {
	scene     *scene.Scene
	materials int
}

func (imp *importer) node(src *scene.Node) (*Node, error) {
	// scene matrices are row-major
	local := math.Mat4(src.Transform).Transpose()
	n := &Node{
		Name:       src.Name,
		Matrix:     local,
		MatrixOrig: local,
		Global:     math.Identity(),
		Invert:     math.Identity(),
	}
	logger.Debug("node", zap.String("name", n.Name), zap.Int("meshes", len(src.Meshes)))

	for _, mi := range src.Meshes {
		if mi < 0 || mi >= len(imp.scene.Meshes) {
			return nil, fmt.Errorf("node %q: %w: %d", n.Name, ErrMeshOutOfRange, mi)
		}
		mesh, err := imp.mesh(imp.scene.Meshes[mi])
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", n.Name, err)
		}
		n.Meshes = append(n.Meshes, mesh)
	}
	for _, c := range src.Children {
		child, err := imp.node(c)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, child)
	}
	return n, nil
}

// mesh converts one scene mesh. Each node reference gets its own copy since
// bone matrices depend on the owning node.
func (imp *importer) mesh(src *scene.Mesh) (*Mesh, error) {
	if src.MaterialIndex < 0 || src.MaterialIndex >= imp.materials {
		return nil, fmt.Errorf("mesh %q: %w: %d", src.Name, ErrMaterialOutOfRange, src.MaterialIndex)
	}
	count := len(src.Positions)
	body := &TriMesh{Positions: append([][3]float32(nil), src.Positions...)}
	if len(src.Normals) == count {
		body.Normals = append([][3]float32(nil), src.Normals...)
	}
	if len(src.UVs) == count {
		body.UVs = append([][2]float32(nil), src.UVs...)
	}
	if len(src.Colors) == count && count > 0 {
		body.Colors = append([][4]float32(nil), src.Colors...)
	}

	for fi, f := range src.Faces {
		if len(f) != 3 {
			return nil, fmt.Errorf("mesh %q face %d has %d indices: %w", src.Name, fi, len(f), ErrNonTriangleFace)
		}
		for _, v := range f {
			if int(v) >= count {
				return nil, fmt.Errorf("mesh %q face %d: %w: %d", src.Name, fi, ErrVertexOutOfRange, v)
			}
		}
		body.AppendTriangle(f[0], f[1], f[2])
	}

	mesh := &Mesh{Name: src.Name, MaterialIndex: src.MaterialIndex, Body: body}
	for _, b := range src.Bones {
		bone := &Bone{Name: b.Name, Offset: math.Mat4(b.Offset).Transpose()}
		for _, w := range b.Weights {
			if int(w.VertexID) >= count {
				return nil, fmt.Errorf("mesh %q bone %q: %w: %d", src.Name, b.Name, ErrVertexOutOfRange, w.VertexID)
			}
			bone.Weights = append(bone.Weights, Weight{VertexID: w.VertexID, Value: w.Weight})
		}
		mesh.Bones = append(mesh.Bones, bone)
		logger.Debug("bone", zap.String("name", bone.Name), zap.Int("weights", len(bone.Weights)))
	}

	if mesh.HasBone() {
		mesh.BoneMatrices = make([]math.Mat4, len(mesh.Bones))
		for i := range mesh.BoneMatrices {
			mesh.BoneMatrices[i] = math.Identity()
		}
		if dropped := body.packBones(mesh.Bones); dropped > 0 {
			logger.Warn("vertices exceed bone influence limit",
				zap.String("mesh", mesh.Name),
				zap.Int("vertices", dropped),
				zap.Int("limit", MaxInfluences))
		}
	}

	logger.Debug("mesh",
		zap.String("name", mesh.Name),
		zap.Int("vertices", count),
		zap.Int("triangles", len(src.Faces)),
		zap.Bool("normals", body.Normals != nil),
		zap.Bool("uvs", body.UVs != nil),
		zap.Bool("colors", body.Colors != nil),
		zap.Int("bones", len(mesh.Bones)))
	return mesh, nil
}

// Package model holds a loaded skinned model: the node tree, meshes with
// their bones, materials, textures and animation clips. It converts a
// scene.Scene into a Model and evaluates animation for GPU skinning.
package model

import (
	"errors"
	"fmt"

	"github.com/Faultbox/skinview/internal/engine/texture"
	"github.com/Faultbox/skinview/pkg/math"
)

// Load errors.
var (
	ErrNonTriangleFace    = errors.New("face is not a triangle")
	ErrZeroWeightSum      = errors.New("vertex bone weights sum to zero")
	ErrVertexOutOfRange   = errors.New("vertex index out of range")
	ErrMaterialOutOfRange = errors.New("material index out of range")
)

// LoadError reports a failed model load.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading model %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Node is a transform in the model hierarchy.
type Node struct {
	Name string

	Matrix     math.Mat4 // local transform, written by animation
	MatrixOrig math.Mat4 // local transform at load time
	Global     math.Mat4 // parent.Global * Matrix
	Invert     math.Mat4 // inverse of Global

	Meshes   []*Mesh
	Children []*Node
}

// Mesh is a drawable piece of geometry owned by one node.
type Mesh struct {
	Name          string
	MaterialIndex int
	Body          *TriMesh

	Bones        []*Bone
	BoneMatrices []math.Mat4 // one per bone, refreshed by Update

	ShaderIndex int
}

// HasBone reports whether the mesh is skinned.
func (m *Mesh) HasBone() bool {
	return len(m.Bones) > 0
}

// HasVertexColor reports whether the mesh carries per-vertex colors.
func (m *Mesh) HasVertexColor() bool {
	return len(m.Body.Colors) > 0
}

// Bone binds a node, looked up by name, to weighted vertices of a mesh.
type Bone struct {
	Name    string
	Offset  math.Mat4 // mesh space to bone space in bind pose
	Weights []Weight
}

// Weight is one bone influence on one vertex.
type Weight struct {
	VertexID uint32
	Value    float32
}

// WrapMode is a texture addressing mode.
type WrapMode int

const (
	WrapRepeat WrapMode = iota
	WrapClamp
)

func (w WrapMode) String() string {
	if w == WrapClamp {
		return "clamp"
	}
	return "repeat"
}

// Material describes surface colors and the diffuse texture.
type Material struct {
	Name      string
	Diffuse   [4]float32
	Ambient   [4]float32
	Specular  [4]float32
	Emission  [4]float32
	Shininess float32

	HasTexture  bool
	TextureName string // file name only, the key into Model.Textures
	WrapS       WrapMode
	WrapT       WrapMode
}

// Animation is a looping clip.
type Animation struct {
	Name     string
	Duration float64 // seconds
	Channels []*Channel
}

// Channel animates one node, referenced by name.
type Channel struct {
	NodeName    string
	Translation []VectorKey
	Rotation    []QuatKey
	Scaling     []VectorKey
}

// VectorKey is a translation or scale sample.
type VectorKey struct {
	Time  float64
	Value math.Vec3
}

// QuatKey is a rotation sample.
type QuatKey struct {
	Time  float64
	Value math.Quat
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max math.Vec3
}

// Center returns the midpoint of the box.
func (b AABB) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the extent of the box along each axis.
func (b AABB) Size() math.Vec3 {
	return b.Max.Sub(b.Min)
}

// Model is a loaded model. Nodes and the name index are built once at load;
// Update mutates node matrices in place.
type Model struct {
	Path string
	Dir  string // directory textures are resolved against

	Root  *Node
	Nodes []*Node // pre-order, or reversed by Reverse

	Materials  []*Material
	Textures   *texture.Table
	Animations []*Animation
	Bounds     AABB

	index map[string]*Node
}

// HasAnim reports whether the model has at least one clip.
func (m *Model) HasAnim() bool {
	return len(m.Animations) > 0
}

// Node returns the node registered under name. When several nodes share a
// name the last one in pre-order wins.
func (m *Model) Node(name string) (*Node, bool) {
	n, ok := m.index[name]
	return n, ok
}

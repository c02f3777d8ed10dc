// Package scene describes a parsed model file in a format-neutral way and
// provides the backends that produce it.
//
// Matrices in this package are row-major, with the translation in elements
// 3, 7 and 11. Consumers working in column-major space must transpose them.
package scene

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Scene errors.
var (
	ErrUnsupportedFormat = errors.New("unsupported model format")
	ErrNoScene           = errors.New("file contains no scene")
)

// RowMajor is a 4x4 matrix stored row by row.
type RowMajor [16]float32

// IdentityRowMajor returns the identity matrix.
func IdentityRowMajor() RowMajor {
	return RowMajor{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Scene is the parsed content of a model file.
type Scene struct {
	Root       *Node
	Meshes     []*Mesh
	Materials  []*Material
	Animations []*Animation
}

// Node is a transform in the scene hierarchy.
type Node struct {
	Name      string
	Transform RowMajor
	Meshes    []int // indices into Scene.Meshes
	Children  []*Node
}

// Mesh is a polygon soup with optional skinning data.
// Per-vertex slices are either empty or as long as Positions.
type Mesh struct {
	Name          string
	Positions     [][3]float32
	Normals       [][3]float32
	UVs           [][2]float32
	Colors        [][4]float32
	Faces         [][]uint32 // vertex indices per polygon
	Bones         []*Bone
	MaterialIndex int
}

// Bone binds a named node to a subset of a mesh's vertices.
type Bone struct {
	Name    string
	Offset  RowMajor // mesh space to bone space in bind pose
	Weights []VertexWeight
}

// VertexWeight is one bone influence on one vertex.
type VertexWeight struct {
	VertexID uint32
	Weight   float32
}

// WrapMode is a texture addressing mode.
type WrapMode int

// Texture wrap modes.
const (
	WrapRepeat WrapMode = iota
	WrapClamp
)

// Material holds surface colors and the diffuse texture reference.
type Material struct {
	Name      string
	Diffuse   [4]float32
	Ambient   [4]float32
	Specular  [4]float32
	Emission  [4]float32
	Shininess float32
	WrapS     WrapMode
	WrapT     WrapMode

	// Texture is the diffuse texture as referenced by the file and may
	// include directories. TextureData holds the encoded image when the
	// file embeds it.
	Texture     string
	TextureData []byte
}

// Animation is a clip of per-node keyframe channels.
type Animation struct {
	Name     string
	Duration float64 // seconds
	Channels []*Channel
}

// Channel animates one node. Each key list is sorted by time.
type Channel struct {
	NodeName     string
	Translations []VectorKey
	Rotations    []QuatKey
	Scalings     []VectorKey
}

// VectorKey is a translation or scale sample.
type VectorKey struct {
	Time  float64 // seconds
	Value [3]float32
}

// QuatKey is a rotation sample stored as X, Y, Z, W.
type QuatKey struct {
	Time  float64
	Value [4]float32
}

// DefaultMaterial returns the material used when a file defines none.
func DefaultMaterial() *Material {
	return &Material{
		Name:      "default",
		Diffuse:   [4]float32{0.6, 0.6, 0.6, 1},
		Ambient:   [4]float32{0, 0, 0, 1},
		Specular:  [4]float32{0, 0, 0, 1},
		Emission:  [4]float32{0, 0, 0, 1},
		Shininess: 80,
	}
}

// Open parses the model file at path, choosing the backend by extension.
func Open(path string) (*Scene, error) {
	var (
		s   *Scene
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".gltf", ".glb":
		s, err = OpenGLTF(path)
	case ".rsm":
		s, err = OpenRSM(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}
	if s.Root == nil {
		return nil, ErrNoScene
	}
	return s, nil
}

// SupportedExtensions lists the file extensions Open understands.
func SupportedExtensions() []string {
	return []string{"gltf", "glb", "rsm"}
}

// IsSupported reports whether Open understands the file's extension.
func IsSupported(path string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	for _, e := range SupportedExtensions() {
		if e == ext {
			return true
		}
	}
	return false
}

// Walk visits n and its descendants in pre-order.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

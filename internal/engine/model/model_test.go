package model

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	gomath "math"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/skinview/pkg/math"
	"github.com/Faultbox/skinview/pkg/scene"
)

func translateRM(x, y, z float32) scene.RowMajor {
	return scene.RowMajor{
		1, 0, 0, x,
		0, 1, 0, y,
		0, 0, 1, z,
		0, 0, 0, 1,
	}
}

func triangle(name string) *scene.Mesh {
	return &scene.Mesh{
		Name:      name,
		Positions: [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Normals:   [][3]float32{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
		Faces:     [][]uint32{{0, 1, 2}},
	}
}

// triangleScene is a single untextured triangle under the root.
func triangleScene() *scene.Scene {
	return &scene.Scene{
		Root: &scene.Node{
			Name:      "root",
			Transform: scene.IdentityRowMajor(),
			Meshes:    []int{0},
		},
		Meshes:    []*scene.Mesh{triangle("tri")},
		Materials: []*scene.Material{scene.DefaultMaterial()},
	}
}

// skinnedScene has a triangle on "body" skinned to "bone", which sits one
// unit up the Y axis. The "lift" clip moves the bone from y=1 to y=3 over
// two seconds.
func skinnedScene() *scene.Scene {
	mesh := triangle("skin")
	mesh.Bones = []*scene.Bone{{
		Name:   "bone",
		Offset: translateRM(0, -1, 0),
		Weights: []scene.VertexWeight{
			{VertexID: 0, Weight: 1},
			{VertexID: 1, Weight: 1},
			{VertexID: 2, Weight: 1},
		},
	}}
	return &scene.Scene{
		Root: &scene.Node{
			Name:      "root",
			Transform: scene.IdentityRowMajor(),
			Children: []*scene.Node{
				{Name: "body", Transform: scene.IdentityRowMajor(), Meshes: []int{0}},
				{Name: "bone", Transform: translateRM(0, 1, 0)},
			},
		},
		Meshes:    []*scene.Mesh{mesh},
		Materials: []*scene.Material{scene.DefaultMaterial()},
		Animations: []*scene.Animation{{
			Name:     "lift",
			Duration: 2,
			Channels: []*scene.Channel{{
				NodeName: "bone",
				Translations: []scene.VectorKey{
					{Time: 0, Value: [3]float32{0, 1, 0}},
					{Time: 2, Value: [3]float32{0, 3, 0}},
				},
			}},
		}},
	}
}

func mustImport(t *testing.T, s *scene.Scene) *Model {
	t.Helper()
	m, err := Import(s, t.TempDir(), Options{})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	return m
}

func vecNear(a, b math.Vec3) bool {
	return a.Distance(b) < 1e-4
}

func TestImportTriangle(t *testing.T) {
	m := mustImport(t, triangleScene())

	if m.HasAnim() {
		t.Error("triangle model should have no animation")
	}
	want := AABB{Max: math.Vec3{X: 1, Y: 1}}
	if m.Bounds != want {
		t.Errorf("Bounds = %+v, want %+v", m.Bounds, want)
	}
	vertices, triangles := MeshInfo(m)
	if vertices != 3 || triangles != 1 {
		t.Errorf("MeshInfo = %d, %d, want 3, 1", vertices, triangles)
	}
	mesh := m.Root.Meshes[0]
	if mesh.ShaderIndex != 0 {
		t.Errorf("ShaderIndex = %d, want 0", mesh.ShaderIndex)
	}
	if mesh.BoneMatrices != nil || mesh.Body.BoneIndices != nil {
		t.Error("unskinned mesh should carry no bone data")
	}
}

func TestImportNoScene(t *testing.T) {
	if _, err := Import(nil, "", Options{}); !errors.Is(err, scene.ErrNoScene) {
		t.Errorf("expected ErrNoScene, got %v", err)
	}
}

func TestImportEmptyModelBounds(t *testing.T) {
	s := &scene.Scene{Root: &scene.Node{Name: "root", Transform: scene.IdentityRowMajor()}}
	m := mustImport(t, s)
	if m.Bounds != (AABB{}) {
		t.Errorf("Bounds = %+v, want zero box", m.Bounds)
	}
	if len(m.Materials) != 1 || m.Materials[0].Name != "default" {
		t.Errorf("expected a default material, got %d materials", len(m.Materials))
	}
}

func TestImportBoundsUseFirstFrame(t *testing.T) {
	s := &scene.Scene{
		Root: &scene.Node{
			Name:      "root",
			Transform: scene.IdentityRowMajor(),
			Children: []*scene.Node{
				{Name: "mover", Transform: scene.IdentityRowMajor(), Meshes: []int{0}},
			},
		},
		Meshes:    []*scene.Mesh{triangle("tri")},
		Materials: []*scene.Material{scene.DefaultMaterial()},
		Animations: []*scene.Animation{{
			Name:     "drift",
			Duration: 1,
			Channels: []*scene.Channel{{
				NodeName: "mover",
				Translations: []scene.VectorKey{
					{Time: 0, Value: [3]float32{-5, -5, -5}},
					{Time: 1, Value: [3]float32{5, 5, 5}},
				},
			}},
		}},
	}
	m := mustImport(t, s)

	want := AABB{Min: math.Vec3{X: -5, Y: -5, Z: -5}, Max: math.Vec3{X: -4, Y: -4, Z: -5}}
	if !vecNear(m.Bounds.Min, want.Min) || !vecNear(m.Bounds.Max, want.Max) {
		t.Errorf("Bounds = %+v, want %+v", m.Bounds, want)
	}
}

func TestImportErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *scene.Scene)
		want   error
	}{
		{
			name:   "quad face",
			mutate: func(s *scene.Scene) { s.Meshes[0].Faces = [][]uint32{{0, 1, 2, 0}} },
			want:   ErrNonTriangleFace,
		},
		{
			name:   "face vertex",
			mutate: func(s *scene.Scene) { s.Meshes[0].Faces = [][]uint32{{0, 1, 5}} },
			want:   ErrVertexOutOfRange,
		},
		{
			name:   "material",
			mutate: func(s *scene.Scene) { s.Meshes[0].MaterialIndex = 3 },
			want:   ErrMaterialOutOfRange,
		},
		{
			name:   "mesh",
			mutate: func(s *scene.Scene) { s.Root.Meshes = []int{4} },
			want:   ErrMeshOutOfRange,
		},
		{
			name: "bone vertex",
			mutate: func(s *scene.Scene) {
				s.Meshes[0].Bones = []*scene.Bone{{Name: "root", Weights: []scene.VertexWeight{{VertexID: 9, Weight: 1}}}}
			},
			want: ErrVertexOutOfRange,
		},
		{
			name: "zero weight sum",
			mutate: func(s *scene.Scene) {
				s.Meshes[0].Bones = []*scene.Bone{{Name: "root", Weights: []scene.VertexWeight{{VertexID: 0, Weight: 0}}}}
			},
			want: ErrZeroWeightSum,
		},
		{
			name: "NaN weight sum",
			mutate: func(s *scene.Scene) {
				s.Meshes[0].Bones = []*scene.Bone{{Name: "root", Weights: []scene.VertexWeight{{VertexID: 0, Weight: float32(gomath.NaN())}}}}
			},
			want: ErrZeroWeightSum,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := triangleScene()
			tt.mutate(s)
			if _, err := Import(s, "", Options{SkipTextures: true}); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadUnsupported(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "model.obj"), Options{})
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *LoadError, got %T", err)
	}
	if !errors.Is(err, scene.ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestNodeIndex(t *testing.T) {
	s := triangleScene()
	first := &scene.Node{Name: "dup", Transform: scene.IdentityRowMajor()}
	second := &scene.Node{Name: "dup", Transform: translateRM(5, 0, 0)}
	s.Root.Children = []*scene.Node{first, second}

	m := mustImport(t, s)
	if len(m.Nodes) != 3 || m.Nodes[0] != m.Root {
		t.Fatalf("expected pre-order with root first, got %d nodes", len(m.Nodes))
	}
	n, ok := m.Node("dup")
	if !ok {
		t.Fatal("dup not indexed")
	}
	if n != m.Nodes[2] {
		t.Error("last node in pre-order should win a name collision")
	}
	if _, ok := m.Node("missing"); ok {
		t.Error("unexpected node for missing name")
	}
}

func TestImportShininessFloor(t *testing.T) {
	s := triangleScene()
	s.Materials[0].Shininess = 0
	m := mustImport(t, s)
	if m.Materials[0].Shininess <= 0 {
		t.Errorf("Shininess = %v, want a positive floor", m.Materials[0].Shininess)
	}
}

func writePNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.SetRGBA(0, 0, color.RGBA{200, 100, 50, 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestImportSharedTexture(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "skin.png"))

	s := triangleScene()
	a := scene.DefaultMaterial()
	a.Name, a.Texture = "a", `textures\skin.png`
	b := scene.DefaultMaterial()
	b.Name, b.Texture, b.WrapS = "b", "skin.png", scene.WrapClamp
	missing := scene.DefaultMaterial()
	missing.Name, missing.Texture = "missing", "gone.png"
	s.Materials = []*scene.Material{a, b, missing}

	second := triangle("second")
	second.MaterialIndex = 1
	s.Meshes = append(s.Meshes, second)
	s.Root.Meshes = []int{0, 1}

	m, err := Import(s, dir, Options{})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if m.Textures.Len() != 1 {
		t.Errorf("texture table has %d entries, want 1", m.Textures.Len())
	}
	if !m.Materials[0].HasTexture || !m.Materials[1].HasTexture {
		t.Error("both materials should keep their texture")
	}
	if m.Materials[0].TextureName != "skin.png" || m.Materials[1].TextureName != "skin.png" {
		t.Errorf("texture names = %q, %q", m.Materials[0].TextureName, m.Materials[1].TextureName)
	}
	if m.Materials[1].WrapS != WrapClamp || m.Materials[1].WrapT != WrapRepeat {
		t.Errorf("wrap = %v/%v, want clamp/repeat", m.Materials[1].WrapS, m.Materials[1].WrapT)
	}
	if m.Materials[2].HasTexture {
		t.Error("material with missing texture should fall back to untextured")
	}
	for _, mesh := range m.Root.Meshes {
		if mesh.ShaderIndex != HasTexture {
			t.Errorf("mesh %s ShaderIndex = %d, want %d", mesh.Name, mesh.ShaderIndex, HasTexture)
		}
	}
}

func TestImportSkipTextures(t *testing.T) {
	s := triangleScene()
	s.Materials[0].Texture = "skin.png"
	m, err := Import(s, t.TempDir(), Options{SkipTextures: true})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if m.Textures.Len() != 0 {
		t.Errorf("texture table has %d entries, want 0", m.Textures.Len())
	}
}

func TestImportSkinned(t *testing.T) {
	m := mustImport(t, skinnedScene())
	body, _ := m.Node("body")
	mesh := body.Meshes[0]

	if mesh.ShaderIndex != HasBone {
		t.Errorf("ShaderIndex = %d, want %d", mesh.ShaderIndex, HasBone)
	}
	// bind pose: owner.Invert * bone.Global * Offset is the identity
	if !mesh.BoneMatrices[0].ApproxEqual(math.Identity(), 1e-5) {
		t.Errorf("bind pose bone matrix = %v, want identity", mesh.BoneMatrices[0])
	}
	for v := range mesh.Body.Positions {
		if mesh.Body.BoneWeights[v] != [MaxInfluences]float32{1, 0, 0, 0} {
			t.Errorf("vertex %d weights = %v", v, mesh.Body.BoneWeights[v])
		}
	}
}

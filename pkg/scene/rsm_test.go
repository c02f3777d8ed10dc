package scene

import (
	"errors"
	"testing"

	"github.com/Faultbox/skinview/pkg/formats"
)

func testRSM() *formats.RSM {
	identity := [9]float32{1, 0, 0, 0, 1, 0, 0, 0, 1}
	tri := []formats.RSMFace{
		{VertexIDs: [3]uint16{0, 1, 2}, TexCoordIDs: [3]uint16{0, 1, 2}, TextureID: 0},
		{VertexIDs: [3]uint16{0, 2, 1}, TexCoordIDs: [3]uint16{0, 2, 1}, TextureID: 1, TwoSide: 1},
	}
	texCoords := []formats.RSMTexCoord{
		{Color: [4]uint8{0, 0, 255, 255}, U: 0, V: 0},
		{Color: [4]uint8{255, 255, 255, 255}, U: 1, V: 0},
		{Color: [4]uint8{255, 255, 255, 255}, U: 0, V: 1},
	}
	verts := [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}

	return &formats.RSM{
		Version:    formats.RSMVersion{Major: 1, Minor: 5},
		AnimLength: 2000,
		Alpha:      1,
		Textures:   []string{`data\texture\a.bmp`, `data\texture\b.bmp`},
		RootNode:   "base",
		Nodes: []formats.RSMNode{
			{
				Name:       "base",
				TextureIDs: []int32{0, 1},
				Matrix:     identity,
				Offset:     [3]float32{10, 0, 0},
				Position:   [3]float32{0, 5, 0},
				Scale:      [3]float32{1, 1, 1},
				Vertices:   verts,
				TexCoords:  texCoords,
				Faces:      tri,
			},
			{
				Name:       "arm",
				Parent:     "base",
				TextureIDs: []int32{7},
				Matrix:     identity,
				Scale:      [3]float32{2, 2, 2},
				Vertices:   verts,
				TexCoords:  texCoords,
				Faces:      tri[:1],
				RotKeys: []formats.RSMRotKeyframe{
					{Frame: 0, Quaternion: [4]float32{0, 0, 0, 1}},
					{Frame: 1000, Quaternion: [4]float32{0, 0, 1, 0}},
				},
				ScaleKeys: []formats.RSMScaleKeyframe{{Frame: 500, Scale: [3]float32{1, 2, 3}}},
			},
		},
	}
}

func TestFromRSMHierarchy(t *testing.T) {
	s, err := FromRSM(testRSM())
	if err != nil {
		t.Fatalf("FromRSM failed: %v", err)
	}
	// mirrored root
	if s.Root.Transform[5] != -1 {
		t.Errorf("root Y scale = %v, want -1", s.Root.Transform[5])
	}
	if len(s.Root.Children) != 1 || s.Root.Children[0].Name != "base" {
		t.Fatalf("root children = %v", s.Root.Children)
	}
	base := s.Root.Children[0]
	if base.Transform[7] != 5 {
		t.Errorf("base Y translation = %v, want 5", base.Transform[7])
	}
	if len(base.Children) != 1 || base.Children[0].Name != "arm" {
		t.Fatalf("base children = %v", base.Children)
	}
}

func TestFromRSMMeshes(t *testing.T) {
	s, err := FromRSM(testRSM())
	if err != nil {
		t.Fatalf("FromRSM failed: %v", err)
	}
	base := s.Root.Children[0]
	if len(base.Meshes) != 2 {
		t.Fatalf("base has %d meshes, want one per texture slot", len(base.Meshes))
	}

	front := s.Meshes[base.Meshes[0]]
	if len(front.Faces) != 1 || len(front.Positions) != 3 {
		t.Errorf("front mesh: %d faces, %d positions", len(front.Faces), len(front.Positions))
	}
	// the offset pivot is baked into the vertices
	if front.Positions[0] != [3]float32{10, 0, 0} {
		t.Errorf("first position = %v, want {10 0 0}", front.Positions[0])
	}
	// BGRA red
	if front.Colors[0] != [4]float32{1, 0, 0, 1} {
		t.Errorf("first color = %v, want red", front.Colors[0])
	}
	if front.MaterialIndex != 0 {
		t.Errorf("MaterialIndex = %d, want 0", front.MaterialIndex)
	}

	twoSided := s.Meshes[base.Meshes[1]]
	if len(twoSided.Faces) != 2 {
		t.Errorf("two-sided face produced %d faces, want 2", len(twoSided.Faces))
	}
	if n0, n1 := twoSided.Normals[0], twoSided.Normals[3]; n0[2] != -n1[2] {
		t.Errorf("back face normal %v should oppose %v", n1, n0)
	}

	// arm refers to a texture that does not exist
	arm := base.Children[0]
	armMesh := s.Meshes[arm.Meshes[0]]
	if got := s.Materials[armMesh.MaterialIndex]; got.Texture != "" {
		t.Errorf("missing texture should fall back to default material, got %q", got.Texture)
	}
	if len(s.Materials) != 3 {
		t.Errorf("got %d materials, want 2 textures + default", len(s.Materials))
	}
	if s.Materials[0].Texture != `data\texture\a.bmp` {
		t.Errorf("texture = %q", s.Materials[0].Texture)
	}
}

func TestFromRSMAnimation(t *testing.T) {
	s, err := FromRSM(testRSM())
	if err != nil {
		t.Fatalf("FromRSM failed: %v", err)
	}
	if len(s.Animations) != 1 {
		t.Fatalf("got %d animations, want 1", len(s.Animations))
	}
	a := s.Animations[0]
	if a.Duration != 2 {
		t.Errorf("Duration = %v, want 2", a.Duration)
	}
	if len(a.Channels) != 1 || a.Channels[0].NodeName != "arm" {
		t.Fatalf("channels = %+v", a.Channels)
	}
	ch := a.Channels[0]
	if ch.Rotations[1].Time != 1 {
		t.Errorf("rotation key time = %v, want 1s", ch.Rotations[1].Time)
	}
	if ch.Scalings[0].Value != [3]float32{2, 4, 6} {
		t.Errorf("scale key = %v, want rest scale times key", ch.Scalings[0].Value)
	}
	if len(ch.Translations) != 1 || ch.Translations[0].Value != [3]float32{} {
		t.Errorf("translations = %+v, want rest position", ch.Translations)
	}
}

func TestFromRSMNoRoot(t *testing.T) {
	rsm := &formats.RSM{Nodes: []formats.RSMNode{{Name: "a", Parent: "b"}}}
	if _, err := FromRSM(rsm); !errors.Is(err, ErrNoScene) {
		t.Errorf("expected ErrNoScene, got %v", err)
	}
}

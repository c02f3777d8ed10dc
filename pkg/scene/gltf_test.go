package scene

import (
	"errors"
	"reflect"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// skinnedDoc builds a document with a root, a skinned triangle and one
// animated bone translated one unit up.
func skinnedDoc() *gltf.Document {
	doc := gltf.NewDocument()

	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	idx := modeler.WriteIndices(doc, []uint32{0, 1, 2})
	joints := modeler.WriteJoints(doc, [][4]uint16{{0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}})
	weights := modeler.WriteWeights(doc, [][4]float32{{1, 0, 0, 0}, {1, 0, 0, 0}, {0.5, 0, 0, 0}})
	ibm := modeler.WriteAccessor(doc, gltf.TargetNone, [][4][4]float32{{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, -1, 0, 1},
	}})
	times := modeler.WriteAccessor(doc, gltf.TargetNone, []float32{0, 2})
	rots := modeler.WriteAccessor(doc, gltf.TargetNone, [][4]float32{{0, 0, 0, 1}, {0, 0, 1, 0}})

	doc.Meshes = []*gltf.Mesh{{
		Name: "tri",
		Primitives: []*gltf.Primitive{{
			Indices: gltf.Index(idx),
			Attributes: map[string]uint32{
				gltf.POSITION:  pos,
				gltf.JOINTS_0:  joints,
				gltf.WEIGHTS_0: weights,
			},
		}},
	}}
	doc.Nodes = []*gltf.Node{
		{Name: "root", Children: []uint32{1, 2}},
		{Name: "body", Mesh: gltf.Index(0), Skin: gltf.Index(0)},
		{Name: "bone", Translation: [3]float32{0, 1, 0}},
	}
	doc.Scenes[0].Nodes = []uint32{0}
	doc.Skins = []*gltf.Skin{{Joints: []uint32{2}, InverseBindMatrices: gltf.Index(ibm)}}
	doc.Animations = []*gltf.Animation{{
		Name: "spin",
		Samplers: []*gltf.AnimationSampler{{
			Input:         gltf.Index(times),
			Output:        gltf.Index(rots),
			Interpolation: gltf.InterpolationLinear,
		}},
		Channels: []*gltf.Channel{{
			Sampler: gltf.Index(0),
			Target:  gltf.ChannelTarget{Node: gltf.Index(2), Path: gltf.TRSRotation},
		}},
	}}
	return doc
}

func TestFromGLTFHierarchy(t *testing.T) {
	s, err := FromGLTF(skinnedDoc())
	if err != nil {
		t.Fatalf("FromGLTF failed: %v", err)
	}
	if s.Root.Name != "root" {
		t.Errorf("Root.Name = %q, want root", s.Root.Name)
	}
	if len(s.Root.Children) != 2 {
		t.Fatalf("root has %d children, want 2", len(s.Root.Children))
	}

	bone := s.Root.Children[1]
	if bone.Name != "bone" {
		t.Errorf("second child = %q, want bone", bone.Name)
	}
	// row-major: translation lives in elements 3, 7 and 11
	if bone.Transform[7] != 1 || bone.Transform[13] != 0 {
		t.Errorf("bone transform not row-major: %v", bone.Transform)
	}

	var visited []string
	s.Root.Walk(func(n *Node) { visited = append(visited, n.Name) })
	if want := []string{"root", "body", "bone"}; !reflect.DeepEqual(visited, want) {
		t.Errorf("Walk = %v, want %v", visited, want)
	}
}

func TestFromGLTFSkin(t *testing.T) {
	s, err := FromGLTF(skinnedDoc())
	if err != nil {
		t.Fatalf("FromGLTF failed: %v", err)
	}
	if len(s.Meshes) != 1 {
		t.Fatalf("got %d meshes, want 1", len(s.Meshes))
	}
	m := s.Meshes[0]
	if len(m.Faces) != 1 || len(m.Faces[0]) != 3 {
		t.Errorf("Faces = %v, want one triangle", m.Faces)
	}
	if len(m.Bones) != 1 {
		t.Fatalf("got %d bones, want 1", len(m.Bones))
	}
	b := m.Bones[0]
	if b.Name != "bone" {
		t.Errorf("bone name = %q, want bone", b.Name)
	}
	if b.Offset[7] != -1 {
		t.Errorf("offset Y translation = %v, want -1", b.Offset[7])
	}
	if len(b.Weights) != 3 {
		t.Errorf("got %d weights, want 3", len(b.Weights))
	}
	if b.Weights[2] != (VertexWeight{VertexID: 2, Weight: 0.5}) {
		t.Errorf("third weight = %+v", b.Weights[2])
	}

	// no material on the primitive: the default one is created
	if len(s.Materials) != 1 || m.MaterialIndex != 0 {
		t.Fatalf("materials = %d, index = %d", len(s.Materials), m.MaterialIndex)
	}
	if s.Materials[0].Diffuse != DefaultMaterial().Diffuse {
		t.Errorf("default diffuse = %v", s.Materials[0].Diffuse)
	}
}

func TestFromGLTFAnimation(t *testing.T) {
	s, err := FromGLTF(skinnedDoc())
	if err != nil {
		t.Fatalf("FromGLTF failed: %v", err)
	}
	if len(s.Animations) != 1 {
		t.Fatalf("got %d animations, want 1", len(s.Animations))
	}
	a := s.Animations[0]
	if a.Name != "spin" || a.Duration != 2 {
		t.Errorf("animation = %q/%v, want spin/2", a.Name, a.Duration)
	}
	if len(a.Channels) != 1 {
		t.Fatalf("got %d channels, want 1", len(a.Channels))
	}
	ch := a.Channels[0]
	if ch.NodeName != "bone" {
		t.Errorf("channel node = %q", ch.NodeName)
	}
	if len(ch.Rotations) != 2 || ch.Rotations[1].Value != [4]float32{0, 0, 1, 0} {
		t.Errorf("rotations = %+v", ch.Rotations)
	}

	// unkeyed paths hold the rest pose
	if len(ch.Translations) != 1 || ch.Translations[0].Value != [3]float32{0, 1, 0} {
		t.Errorf("translations = %+v, want rest {0 1 0}", ch.Translations)
	}
	if len(ch.Scalings) != 1 || ch.Scalings[0].Value != [3]float32{1, 1, 1} {
		t.Errorf("scalings = %+v, want rest {1 1 1}", ch.Scalings)
	}
}

func TestFromGLTFStepHoldsValues(t *testing.T) {
	doc := skinnedDoc()
	times := modeler.WriteAccessor(doc, gltf.TargetNone, []float32{0, 1, 2})
	moves := modeler.WriteAccessor(doc, gltf.TargetNone, [][3]float32{{0, 0, 0}, {10, 0, 0}, {20, 0, 0}})
	doc.Animations[0].Samplers[0] = &gltf.AnimationSampler{
		Input:         gltf.Index(times),
		Output:        gltf.Index(moves),
		Interpolation: gltf.InterpolationStep,
	}
	doc.Animations[0].Channels[0].Target.Path = gltf.TRSTranslation

	s, err := FromGLTF(doc)
	if err != nil {
		t.Fatalf("FromGLTF failed: %v", err)
	}
	a := s.Animations[0]
	if a.Duration != 2 {
		t.Errorf("Duration = %v, want 2", a.Duration)
	}
	want := []VectorKey{
		{Time: 0, Value: [3]float32{0, 0, 0}},
		{Time: 1, Value: [3]float32{0, 0, 0}},
		{Time: 1, Value: [3]float32{10, 0, 0}},
		{Time: 2, Value: [3]float32{10, 0, 0}},
		{Time: 2, Value: [3]float32{20, 0, 0}},
	}
	if got := a.Channels[0].Translations; !reflect.DeepEqual(got, want) {
		t.Errorf("translations = %+v, want %+v", got, want)
	}
}

func TestHoldKeys(t *testing.T) {
	tests := []struct {
		name      string
		times     []float32
		wantTimes []float32
	}{
		{"empty", nil, nil},
		{"single", []float32{3}, []float32{3}},
		{"pair", []float32{0, 1}, []float32{0, 1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := make([][]float32, len(tt.times))
			for i := range values {
				values[i] = []float32{float32(i)}
			}
			times, out := holdKeys(tt.times, values)
			if !reflect.DeepEqual(times, tt.wantTimes) {
				t.Errorf("times = %v, want %v", times, tt.wantTimes)
			}
			if len(out) != len(times) {
				t.Errorf("got %d values for %d times", len(out), len(times))
			}
		})
	}
}

func TestFromGLTFNames(t *testing.T) {
	doc := gltf.NewDocument()
	doc.Nodes = []*gltf.Node{{}, {Name: "a"}, {Name: "a"}}
	doc.Scenes[0].Nodes = []uint32{0, 1, 2}

	s, err := FromGLTF(doc)
	if err != nil {
		t.Fatalf("FromGLTF failed: %v", err)
	}
	if s.Root.Name != "root" {
		t.Errorf("synthetic root = %q, want root", s.Root.Name)
	}
	var names []string
	for _, c := range s.Root.Children {
		names = append(names, c.Name)
	}
	if want := []string{"node_0", "a", "a_1"}; !reflect.DeepEqual(names, want) {
		t.Errorf("names = %v, want %v", names, want)
	}
}

func TestFromGLTFCycle(t *testing.T) {
	doc := gltf.NewDocument()
	doc.Nodes = []*gltf.Node{{Name: "a", Children: []uint32{1}}, {Name: "b", Children: []uint32{0}}}
	doc.Scenes[0].Nodes = []uint32{0}

	if _, err := FromGLTF(doc); !errors.Is(err, ErrInvalidGLTF) {
		t.Errorf("expected ErrInvalidGLTF, got %v", err)
	}
}

func TestFromGLTFEmpty(t *testing.T) {
	if _, err := FromGLTF(gltf.NewDocument()); !errors.Is(err, ErrNoScene) {
		t.Errorf("expected ErrNoScene, got %v", err)
	}
}

func TestFromGLTFMaterial(t *testing.T) {
	doc := skinnedDoc()
	doc.Images = []*gltf.Image{{URI: "tex%20dir/skin.png"}}
	doc.Samplers = []*gltf.Sampler{{WrapS: gltf.WrapClampToEdge, WrapT: gltf.WrapRepeat}}
	doc.Textures = []*gltf.Texture{{Source: gltf.Index(0), Sampler: gltf.Index(0)}}
	doc.Materials = []*gltf.Material{{
		Name:           "skin",
		EmissiveFactor: [3]float32{0.1, 0.2, 0.3},
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor:  &[4]float32{1, 0.5, 0.25, 1},
			BaseColorTexture: &gltf.TextureInfo{Index: 0},
		},
	}}
	doc.Meshes[0].Primitives[0].Material = gltf.Index(0)

	s, err := FromGLTF(doc)
	if err != nil {
		t.Fatalf("FromGLTF failed: %v", err)
	}
	mat := s.Materials[s.Meshes[0].MaterialIndex]
	if mat.Name != "skin" {
		t.Errorf("Name = %q", mat.Name)
	}
	if mat.Diffuse != [4]float32{1, 0.5, 0.25, 1} {
		t.Errorf("Diffuse = %v", mat.Diffuse)
	}
	if mat.Emission != [4]float32{0.1, 0.2, 0.3, 1} {
		t.Errorf("Emission = %v", mat.Emission)
	}
	if mat.Texture != "tex dir/skin.png" {
		t.Errorf("Texture = %q", mat.Texture)
	}
	if mat.WrapS != WrapClamp || mat.WrapT != WrapRepeat {
		t.Errorf("wrap = %v/%v, want clamp/repeat", mat.WrapS, mat.WrapT)
	}
}

func TestFromGLTFEmbeddedImage(t *testing.T) {
	tests := []struct {
		name    string
		uri     string
		texture string
		data    []byte
	}{
		{"decodes", "data:image/png;base64,AQID", "image0.png", []byte{1, 2, 3}},
		{"bad base64", "data:image/png;base64,@@@", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := skinnedDoc()
			doc.Images = []*gltf.Image{{URI: tt.uri}}
			doc.Textures = []*gltf.Texture{{Source: gltf.Index(0)}}
			doc.Materials = []*gltf.Material{{
				PBRMetallicRoughness: &gltf.PBRMetallicRoughness{BaseColorTexture: &gltf.TextureInfo{Index: 0}},
			}}
			doc.Meshes[0].Primitives[0].Material = gltf.Index(0)

			s, err := FromGLTF(doc)
			if err != nil {
				t.Fatalf("FromGLTF failed: %v", err)
			}
			mat := s.Materials[s.Meshes[0].MaterialIndex]
			if mat.Texture != tt.texture {
				t.Errorf("Texture = %q, want %q", mat.Texture, tt.texture)
			}
			if !reflect.DeepEqual(mat.TextureData, tt.data) {
				t.Errorf("TextureData = %v, want %v", mat.TextureData, tt.data)
			}
		})
	}
}

func TestFacesForMode(t *testing.T) {
	idx := []uint32{0, 1, 2, 3}
	tests := []struct {
		name string
		mode gltf.PrimitiveMode
		want [][]uint32
	}{
		{"triangles", gltf.PrimitiveTriangles, [][]uint32{{0, 1, 2}}},
		{"strip", gltf.PrimitiveTriangleStrip, [][]uint32{{0, 1, 2}, {2, 1, 3}}},
		{"fan", gltf.PrimitiveTriangleFan, [][]uint32{{0, 1, 2}, {0, 2, 3}}},
		{"lines", gltf.PrimitiveLines, [][]uint32{{0, 1}, {2, 3}}},
		{"line loop", gltf.PrimitiveLineLoop, [][]uint32{{0, 1}, {1, 2}, {2, 3}, {3, 0}}},
		{"points", gltf.PrimitivePoints, [][]uint32{{0}, {1}, {2}, {3}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := facesForMode(tt.mode, idx); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("facesForMode = %v, want %v", got, tt.want)
			}
		})
	}
}

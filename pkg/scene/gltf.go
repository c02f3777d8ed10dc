package scene

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/skinview/pkg/math"
)

// ErrInvalidGLTF is returned for documents whose structure cannot be converted.
var ErrInvalidGLTF = errors.New("invalid glTF document")

// OpenGLTF reads a .gltf or .glb file and converts it.
func OpenGLTF(path string) (*Scene, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening glTF: %w", err)
	}
	return FromGLTF(doc)
}

// FromGLTF converts a decoded glTF document. Every primitive becomes its own
// mesh; skinned meshes get one bone per joint.
func FromGLTF(doc *gltf.Document) (*Scene, error) {
	c := &gltfConverter{
		doc:             doc,
		scene:           &Scene{},
		meshCache:       make(map[[2]int][]int),
		materialIndex:   make(map[int]int),
		defaultMaterial: -1,
	}
	c.assignNames()

	roots := c.rootNodes()
	if len(roots) == 0 {
		return nil, ErrNoScene
	}

	visiting := make([]bool, len(doc.Nodes))
	if len(roots) == 1 {
		root, err := c.convertNode(roots[0], visiting)
		if err != nil {
			return nil, err
		}
		c.scene.Root = root
	} else {
		c.scene.Root = &Node{Name: c.uniqueName("root"), Transform: IdentityRowMajor()}
		for _, r := range roots {
			child, err := c.convertNode(r, visiting)
			if err != nil {
				return nil, err
			}
			c.scene.Root.Children = append(c.scene.Root.Children, child)
		}
	}

	for i, anim := range doc.Animations {
		a, err := c.convertAnimation(i, anim)
		if err != nil {
			return nil, fmt.Errorf("animation %d: %w", i, err)
		}
		c.scene.Animations = append(c.scene.Animations, a)
	}
	return c.scene, nil
}

type gltfConverter struct {
	doc   *gltf.Document
	scene *Scene
	names []string // unique name per glTF node
	taken map[string]bool

	meshCache       map[[2]int][]int // (mesh, skin) -> scene mesh indices
	materialIndex   map[int]int      // glTF material -> scene material
	defaultMaterial int
}

// assignNames gives every node a unique, non-empty name so that bones and
// channels can refer to nodes by name.
func (c *gltfConverter) assignNames() {
	c.taken = make(map[string]bool, len(c.doc.Nodes))
	c.names = make([]string, len(c.doc.Nodes))
	for i, n := range c.doc.Nodes {
		name := n.Name
		if name == "" {
			name = fmt.Sprintf("node_%d", i)
		}
		c.names[i] = c.uniqueName(name)
	}
}

func (c *gltfConverter) uniqueName(name string) string {
	candidate := name
	for i := 1; c.taken[candidate]; i++ {
		candidate = fmt.Sprintf("%s_%d", name, i)
	}
	c.taken[candidate] = true
	return candidate
}

func (c *gltfConverter) rootNodes() []uint32 {
	doc := c.doc
	switch {
	case doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes):
		return doc.Scenes[*doc.Scene].Nodes
	case len(doc.Scenes) > 0 && len(doc.Scenes[0].Nodes) > 0:
		return doc.Scenes[0].Nodes
	}

	hasParent := make([]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		for _, ch := range n.Children {
			if int(ch) < len(hasParent) {
				hasParent[ch] = true
			}
		}
	}
	var roots []uint32
	for i := range doc.Nodes {
		if !hasParent[i] {
			roots = append(roots, uint32(i))
		}
	}
	return roots
}

func (c *gltfConverter) convertNode(idx uint32, visiting []bool) (*Node, error) {
	if int(idx) >= len(c.doc.Nodes) {
		return nil, fmt.Errorf("%w: node index %d out of range", ErrInvalidGLTF, idx)
	}
	if visiting[idx] {
		return nil, fmt.Errorf("%w: node %d is its own ancestor", ErrInvalidGLTF, idx)
	}
	visiting[idx] = true
	defer func() { visiting[idx] = false }()

	src := c.doc.Nodes[idx]
	node := &Node{
		Name:      c.names[idx],
		Transform: RowMajor(localMatrix(src).Transpose()),
	}

	if src.Mesh != nil {
		skin := -1
		if src.Skin != nil {
			skin = int(*src.Skin)
		}
		meshes, err := c.convertMesh(int(*src.Mesh), skin)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", node.Name, err)
		}
		node.Meshes = meshes
	}

	for _, ch := range src.Children {
		child, err := c.convertNode(ch, visiting)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}

// localMatrix returns the node's column-major local transform.
func localMatrix(n *gltf.Node) math.Mat4 {
	if m := n.MatrixOrDefault(); m != gltf.DefaultMatrix {
		return math.Mat4(m)
	}
	t, r, s := restTRS(n)
	return math.FromTRS(math.V3(t), math.Quat{X: r[0], Y: r[1], Z: r[2], W: r[3]}, math.V3(s))
}

// restTRS returns the node's rest pose as separate components.
func restTRS(n *gltf.Node) (t [3]float32, r [4]float32, s [3]float32) {
	if m := n.MatrixOrDefault(); m != gltf.DefaultMatrix {
		tv, q, sv := math.Mat4(m).Decompose()
		return tv.Array(), [4]float32{q.X, q.Y, q.Z, q.W}, sv.Array()
	}
	return n.TranslationOrDefault(), n.RotationOrDefault(), n.ScaleOrDefault()
}

func (c *gltfConverter) convertMesh(meshIdx, skinIdx int) ([]int, error) {
	key := [2]int{meshIdx, skinIdx}
	if cached, ok := c.meshCache[key]; ok {
		return cached, nil
	}
	if meshIdx >= len(c.doc.Meshes) {
		return nil, fmt.Errorf("%w: mesh index %d out of range", ErrInvalidGLTF, meshIdx)
	}
	var skin *gltf.Skin
	if skinIdx >= 0 {
		if skinIdx >= len(c.doc.Skins) {
			return nil, fmt.Errorf("%w: skin index %d out of range", ErrInvalidGLTF, skinIdx)
		}
		skin = c.doc.Skins[skinIdx]
	}

	src := c.doc.Meshes[meshIdx]
	var out []int
	for pi, prim := range src.Primitives {
		mesh, err := c.convertPrimitive(prim, skin)
		if err != nil {
			return nil, fmt.Errorf("mesh %d primitive %d: %w", meshIdx, pi, err)
		}
		mesh.Name = src.Name
		if len(src.Primitives) > 1 {
			mesh.Name = fmt.Sprintf("%s.%d", src.Name, pi)
		}
		out = append(out, len(c.scene.Meshes))
		c.scene.Meshes = append(c.scene.Meshes, mesh)
	}
	c.meshCache[key] = out
	return out, nil
}

func (c *gltfConverter) accessor(idx uint32) (*gltf.Accessor, error) {
	if int(idx) >= len(c.doc.Accessors) {
		return nil, fmt.Errorf("%w: accessor index %d out of range", ErrInvalidGLTF, idx)
	}
	return c.doc.Accessors[idx], nil
}

func (c *gltfConverter) convertPrimitive(prim *gltf.Primitive, skin *gltf.Skin) (*Mesh, error) {
	doc := c.doc
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, fmt.Errorf("%w: primitive without POSITION", ErrInvalidGLTF)
	}
	acr, err := c.accessor(posIdx)
	if err != nil {
		return nil, err
	}
	mesh := &Mesh{}
	if mesh.Positions, err = modeler.ReadPosition(doc, acr, nil); err != nil {
		return nil, fmt.Errorf("reading positions: %w", err)
	}
	n := len(mesh.Positions)

	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		if acr, err := c.accessor(idx); err == nil {
			normals, err := modeler.ReadNormal(doc, acr, nil)
			if err != nil {
				return nil, fmt.Errorf("reading normals: %w", err)
			}
			if len(normals) == n {
				mesh.Normals = normals
			}
		}
	}
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		if acr, err := c.accessor(idx); err == nil {
			uvs, err := modeler.ReadTextureCoord(doc, acr, nil)
			if err != nil {
				return nil, fmt.Errorf("reading texcoords: %w", err)
			}
			if len(uvs) == n {
				mesh.UVs = uvs
			}
		}
	}
	if idx, ok := prim.Attributes[gltf.COLOR_0]; ok {
		if acr, err := c.accessor(idx); err == nil {
			colors, err := c.readColors(acr)
			if err != nil {
				return nil, fmt.Errorf("reading colors: %w", err)
			}
			if len(colors) == n {
				mesh.Colors = colors
			}
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		acr, err := c.accessor(*prim.Indices)
		if err != nil {
			return nil, err
		}
		if indices, err = modeler.ReadIndices(doc, acr, nil); err != nil {
			return nil, fmt.Errorf("reading indices: %w", err)
		}
	} else {
		indices = make([]uint32, n)
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	mesh.Faces = facesForMode(prim.Mode, indices)

	if prim.Material != nil {
		mi, err := c.material(int(*prim.Material))
		if err != nil {
			return nil, err
		}
		mesh.MaterialIndex = mi
	} else {
		mesh.MaterialIndex = c.fallbackMaterial()
	}

	if skin != nil {
		if err := c.bindSkin(mesh, prim, skin); err != nil {
			return nil, err
		}
	}
	return mesh, nil
}

// facesForMode splits an index list into polygons. Strips and fans are
// triangulated; points and lines produce faces that are not triangles.
func facesForMode(mode gltf.PrimitiveMode, idx []uint32) [][]uint32 {
	var faces [][]uint32
	switch mode {
	case gltf.PrimitiveTriangles:
		for i := 0; i+2 < len(idx); i += 3 {
			faces = append(faces, []uint32{idx[i], idx[i+1], idx[i+2]})
		}
	case gltf.PrimitiveTriangleStrip:
		for i := 0; i+2 < len(idx); i++ {
			if i%2 == 0 {
				faces = append(faces, []uint32{idx[i], idx[i+1], idx[i+2]})
			} else {
				faces = append(faces, []uint32{idx[i+1], idx[i], idx[i+2]})
			}
		}
	case gltf.PrimitiveTriangleFan:
		for i := 1; i+1 < len(idx); i++ {
			faces = append(faces, []uint32{idx[0], idx[i], idx[i+1]})
		}
	case gltf.PrimitiveLines:
		for i := 0; i+1 < len(idx); i += 2 {
			faces = append(faces, []uint32{idx[i], idx[i+1]})
		}
	case gltf.PrimitiveLineStrip, gltf.PrimitiveLineLoop:
		for i := 0; i+1 < len(idx); i++ {
			faces = append(faces, []uint32{idx[i], idx[i+1]})
		}
		if mode == gltf.PrimitiveLineLoop && len(idx) > 2 {
			faces = append(faces, []uint32{idx[len(idx)-1], idx[0]})
		}
	default:
		for _, i := range idx {
			faces = append(faces, []uint32{i})
		}
	}
	return faces
}

func (c *gltfConverter) readColors(acr *gltf.Accessor) ([][4]float32, error) {
	data, err := modeler.ReadAccessor(c.doc, acr, nil)
	if err != nil {
		return nil, err
	}
	switch v := data.(type) {
	case [][4]float32:
		return v, nil
	case [][3]float32:
		out := make([][4]float32, len(v))
		for i, col := range v {
			out[i] = [4]float32{col[0], col[1], col[2], 1}
		}
		return out, nil
	case [][4]uint8:
		out := make([][4]float32, len(v))
		for i, col := range v {
			out[i] = [4]float32{float32(col[0]) / 255, float32(col[1]) / 255, float32(col[2]) / 255, float32(col[3]) / 255}
		}
		return out, nil
	case [][3]uint8:
		out := make([][4]float32, len(v))
		for i, col := range v {
			out[i] = [4]float32{float32(col[0]) / 255, float32(col[1]) / 255, float32(col[2]) / 255, 1}
		}
		return out, nil
	case [][4]uint16:
		out := make([][4]float32, len(v))
		for i, col := range v {
			out[i] = [4]float32{float32(col[0]) / 65535, float32(col[1]) / 65535, float32(col[2]) / 65535, float32(col[3]) / 65535}
		}
		return out, nil
	case [][3]uint16:
		out := make([][4]float32, len(v))
		for i, col := range v {
			out[i] = [4]float32{float32(col[0]) / 65535, float32(col[1]) / 65535, float32(col[2]) / 65535, 1}
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: unsupported color accessor %T", ErrInvalidGLTF, data)
}

// bindSkin creates one bone per joint that influences at least one vertex of the mesh.
func (c *gltfConverter) bindSkin(mesh *Mesh, prim *gltf.Primitive, skin *gltf.Skin) error {
	jIdx, okJ := prim.Attributes[gltf.JOINTS_0]
	wIdx, okW := prim.Attributes[gltf.WEIGHTS_0]
	if !okJ || !okW {
		return nil
	}
	jAcr, err := c.accessor(jIdx)
	if err != nil {
		return err
	}
	wAcr, err := c.accessor(wIdx)
	if err != nil {
		return err
	}
	joints, err := modeler.ReadJoints(c.doc, jAcr, nil)
	if err != nil {
		return fmt.Errorf("reading joints: %w", err)
	}
	weights, err := modeler.ReadWeights(c.doc, wAcr, nil)
	if err != nil {
		return fmt.Errorf("reading weights: %w", err)
	}
	if len(joints) != len(weights) {
		return fmt.Errorf("%w: %d joint sets for %d weight sets", ErrInvalidGLTF, len(joints), len(weights))
	}

	ibms, err := c.inverseBindMatrices(skin)
	if err != nil {
		return err
	}

	bones := make([]*Bone, len(skin.Joints))
	for v := range joints {
		for k := 0; k < 4; k++ {
			w := weights[v][k]
			if w <= 0 {
				continue
			}
			j := int(joints[v][k])
			if j >= len(skin.Joints) || int(skin.Joints[j]) >= len(c.names) {
				return fmt.Errorf("%w: joint %d out of range", ErrInvalidGLTF, j)
			}
			if bones[j] == nil {
				bones[j] = &Bone{Name: c.names[skin.Joints[j]], Offset: IdentityRowMajor()}
				if j < len(ibms) {
					bones[j].Offset = RowMajor(math.Mat4(ibms[j]).Transpose())
				}
			}
			bones[j].Weights = append(bones[j].Weights, VertexWeight{VertexID: uint32(v), Weight: w})
		}
	}
	for _, b := range bones {
		if b != nil {
			mesh.Bones = append(mesh.Bones, b)
		}
	}
	return nil
}

// inverseBindMatrices returns the skin's column-major inverse bind matrices,
// or nil when the skin relies on the identity default.
func (c *gltfConverter) inverseBindMatrices(skin *gltf.Skin) ([][16]float32, error) {
	if skin.InverseBindMatrices == nil {
		return nil, nil
	}
	acr, err := c.accessor(*skin.InverseBindMatrices)
	if err != nil {
		return nil, err
	}
	data, err := modeler.ReadAccessor(c.doc, acr, nil)
	if err != nil {
		return nil, fmt.Errorf("reading inverse bind matrices: %w", err)
	}
	mats, ok := data.([][4][4]float32)
	if !ok {
		return nil, fmt.Errorf("%w: inverse bind matrices are %T", ErrInvalidGLTF, data)
	}
	out := make([][16]float32, len(mats))
	for i, m := range mats {
		for col := 0; col < 4; col++ {
			copy(out[i][col*4:col*4+4], m[col][:])
		}
	}
	return out, nil
}

func (c *gltfConverter) fallbackMaterial() int {
	if c.defaultMaterial < 0 {
		c.defaultMaterial = len(c.scene.Materials)
		c.scene.Materials = append(c.scene.Materials, DefaultMaterial())
	}
	return c.defaultMaterial
}

func (c *gltfConverter) material(idx int) (int, error) {
	if mi, ok := c.materialIndex[idx]; ok {
		return mi, nil
	}
	if idx >= len(c.doc.Materials) {
		return 0, fmt.Errorf("%w: material index %d out of range", ErrInvalidGLTF, idx)
	}
	src := c.doc.Materials[idx]
	mat := DefaultMaterial()
	mat.Name = src.Name
	mat.Emission = [4]float32{src.EmissiveFactor[0], src.EmissiveFactor[1], src.EmissiveFactor[2], 1}

	if pbr := src.PBRMetallicRoughness; pbr != nil {
		mat.Diffuse = pbr.BaseColorFactorOrDefault()
		// Smooth surfaces get a tighter, brighter highlight.
		rough := pbr.RoughnessFactorOrDefault()
		spec := 1 - rough
		mat.Specular = [4]float32{spec, spec, spec, 1}
		mat.Shininess = 2 + (1-rough)*126
		if pbr.BaseColorTexture != nil {
			c.bindTexture(mat, int(pbr.BaseColorTexture.Index))
		}
	}

	mi := len(c.scene.Materials)
	c.scene.Materials = append(c.scene.Materials, mat)
	c.materialIndex[idx] = mi
	return mi, nil
}

func (c *gltfConverter) bindTexture(mat *Material, texIdx int) {
	doc := c.doc
	if texIdx >= len(doc.Textures) {
		return
	}
	tex := doc.Textures[texIdx]
	if tex.Sampler != nil && int(*tex.Sampler) < len(doc.Samplers) {
		s := doc.Samplers[*tex.Sampler]
		if s.WrapS == gltf.WrapClampToEdge {
			mat.WrapS = WrapClamp
		}
		if s.WrapT == gltf.WrapClampToEdge {
			mat.WrapT = WrapClamp
		}
	}
	if tex.Source == nil || int(*tex.Source) >= len(doc.Images) {
		return
	}
	imgIdx := int(*tex.Source)
	img := doc.Images[imgIdx]

	switch {
	case img.BufferView != nil:
		mat.Texture = embeddedImageName(img, imgIdx)
		mat.TextureData = c.bufferViewBytes(*img.BufferView)
	case img.IsEmbeddedResource():
		// an undecodable data URI leaves the material untextured
		data, err := img.MarshalData()
		if err != nil || len(data) == 0 {
			return
		}
		mat.Texture = embeddedImageName(img, imgIdx)
		mat.TextureData = data
	default:
		name, err := url.PathUnescape(img.URI)
		if err != nil {
			name = img.URI
		}
		mat.Texture = name
	}
}

func embeddedImageName(img *gltf.Image, idx int) string {
	if img.Name != "" {
		return img.Name
	}
	ext := ".png"
	if img.MimeType == "image/jpeg" {
		ext = ".jpg"
	}
	return fmt.Sprintf("image%d%s", idx, ext)
}

func (c *gltfConverter) bufferViewBytes(idx uint32) []byte {
	if int(idx) >= len(c.doc.BufferViews) {
		return nil
	}
	bv := c.doc.BufferViews[idx]
	if int(bv.Buffer) >= len(c.doc.Buffers) {
		return nil
	}
	data := c.doc.Buffers[bv.Buffer].Data
	start, end := int(bv.ByteOffset), int(bv.ByteOffset)+int(bv.ByteLength)
	if end > len(data) {
		return nil
	}
	return data[start:end]
}

func (c *gltfConverter) convertAnimation(idx int, src *gltf.Animation) (*Animation, error) {
	anim := &Animation{Name: src.Name}
	if anim.Name == "" {
		anim.Name = fmt.Sprintf("animation_%d", idx)
	}

	byNode := make(map[uint32]*Channel)
	var order []uint32
	for _, ch := range src.Channels {
		if ch.Target.Node == nil || ch.Sampler == nil || int(*ch.Sampler) >= len(src.Samplers) {
			continue
		}
		nodeIdx := *ch.Target.Node
		if int(nodeIdx) >= len(c.names) {
			continue
		}
		sampler := src.Samplers[*ch.Sampler]
		if sampler.Input == nil || sampler.Output == nil {
			continue
		}
		times, values, err := c.readSampler(sampler)
		if err != nil {
			return nil, err
		}
		if sampler.Interpolation == gltf.InterpolationStep {
			times, values = holdKeys(times, values)
		}

		out, ok := byNode[nodeIdx]
		if !ok {
			out = &Channel{NodeName: c.names[nodeIdx]}
			byNode[nodeIdx] = out
			order = append(order, nodeIdx)
		}

		switch ch.Target.Path {
		case gltf.TRSTranslation:
			out.Translations = vectorKeys(times, values)
		case gltf.TRSScale:
			out.Scalings = vectorKeys(times, values)
		case gltf.TRSRotation:
			out.Rotations = quatKeys(times, values)
		default:
			continue
		}
		if n := len(times); n > 0 && float64(times[n-1]) > anim.Duration {
			anim.Duration = float64(times[n-1])
		}
	}

	for _, nodeIdx := range order {
		ch := byNode[nodeIdx]
		if len(ch.Translations) == 0 && len(ch.Rotations) == 0 && len(ch.Scalings) == 0 {
			continue
		}
		t, r, s := restTRS(c.doc.Nodes[nodeIdx])
		fillRestPose(ch, t, r, s)
		anim.Channels = append(anim.Channels, ch)
	}
	return anim, nil
}

// readSampler returns key times and one output value per key. Cubic spline
// outputs keep only the value, dropping the tangents.
func (c *gltfConverter) readSampler(s *gltf.AnimationSampler) ([]float32, [][]float32, error) {
	inAcr, err := c.accessor(*s.Input)
	if err != nil {
		return nil, nil, err
	}
	outAcr, err := c.accessor(*s.Output)
	if err != nil {
		return nil, nil, err
	}
	in, err := modeler.ReadAccessor(c.doc, inAcr, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("reading key times: %w", err)
	}
	times, ok := in.([]float32)
	if !ok {
		return nil, nil, fmt.Errorf("%w: key times are %T", ErrInvalidGLTF, in)
	}
	out, err := modeler.ReadAccessor(c.doc, outAcr, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("reading key values: %w", err)
	}

	var values [][]float32
	switch v := out.(type) {
	case [][3]float32:
		for i := range v {
			values = append(values, v[i][:])
		}
	case [][4]float32:
		for i := range v {
			values = append(values, v[i][:])
		}
	case [][4]int16:
		for i := range v {
			values = append(values, []float32{snorm16(v[i][0]), snorm16(v[i][1]), snorm16(v[i][2]), snorm16(v[i][3])})
		}
	case [][4]int8:
		for i := range v {
			values = append(values, []float32{snorm8(v[i][0]), snorm8(v[i][1]), snorm8(v[i][2]), snorm8(v[i][3])})
		}
	default:
		return nil, nil, fmt.Errorf("%w: key values are %T", ErrInvalidGLTF, out)
	}

	if s.Interpolation == gltf.InterpolationCubicSpline {
		if len(values) != 3*len(times) {
			return nil, nil, fmt.Errorf("%w: cubic spline needs 3 values per key", ErrInvalidGLTF)
		}
		mid := make([][]float32, len(times))
		for i := range mid {
			mid[i] = values[3*i+1]
		}
		values = mid
	}
	if len(values) < len(times) {
		return nil, nil, fmt.Errorf("%w: %d values for %d keys", ErrInvalidGLTF, len(values), len(times))
	}
	return times, values, nil
}

// holdKeys turns step samples into linear ones: each value is repeated at
// the time of the next key, so blending between the pair keeps it constant
// until the next key takes over.
func holdKeys(times []float32, values [][]float32) ([]float32, [][]float32) {
	if len(times) < 2 {
		return times, values
	}
	outT := make([]float32, 0, 2*len(times)-1)
	outV := make([][]float32, 0, 2*len(times)-1)
	for i, t := range times {
		if i > 0 {
			outT = append(outT, t)
			outV = append(outV, values[i-1])
		}
		outT = append(outT, t)
		outV = append(outV, values[i])
	}
	return outT, outV
}

func snorm16(v int16) float32 { return max(float32(v)/32767, -1) }
func snorm8(v int8) float32   { return max(float32(v)/127, -1) }

func vectorKeys(times []float32, values [][]float32) []VectorKey {
	keys := make([]VectorKey, len(times))
	for i, t := range times {
		keys[i] = VectorKey{Time: float64(t)}
		copy(keys[i].Value[:], values[i])
	}
	return keys
}

func quatKeys(times []float32, values [][]float32) []QuatKey {
	keys := make([]QuatKey, len(times))
	for i, t := range times {
		keys[i] = QuatKey{Time: float64(t)}
		copy(keys[i].Value[:], values[i])
	}
	return keys
}

// fillRestPose gives every path the channel leaves unkeyed a single key
// holding the node's rest value.
func fillRestPose(ch *Channel, t [3]float32, r [4]float32, s [3]float32) {
	if len(ch.Translations) == 0 {
		ch.Translations = []VectorKey{{Value: t}}
	}
	if len(ch.Rotations) == 0 {
		ch.Rotations = []QuatKey{{Value: r}}
	}
	if len(ch.Scalings) == 0 {
		ch.Scalings = []VectorKey{{Value: s}}
	}
}
